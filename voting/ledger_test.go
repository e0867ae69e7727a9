// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kossiga/univote/models"
	"github.com/kossiga/univote/testutil"
	"github.com/kossiga/univote/voting"
)

func TestCastRecordsVoteAndConsumesToken(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	tokens := voting.NewTokenManager(conn)
	ledger := voting.NewLedger(conn, tokens)

	voterID := testutil.CreateTestAccount(t, conn, "voter@ucao.tg", models.RoleEtudiant)
	candidateAcc := testutil.CreateTestAccount(t, conn, "candidat@ucao.tg", models.RoleEtudiant)
	election := testutil.CreateTestElection(t, conn, models.TypeSalle, "Informatique de Gestion", 2, "", testutil.ElectionVoting)
	candidateID := testutil.AddTestCandidate(t, conn, election.ID, candidateAcc, "Agbeko", "Ama")
	tokenValue := testutil.IssueTestToken(t, conn, voterID, election.ID, election.VoteEnd, false)

	if err := ledger.Cast(context.Background(), election.ID, candidateID, tokenValue); err != nil {
		t.Fatalf("Cast failed: %v", err)
	}

	voted, err := ledger.HasVoted(context.Background(), voterID, election.ID)
	if err != nil {
		t.Fatalf("HasVoted failed: %v", err)
	}
	if !voted {
		t.Error("Expected HasVoted to report true after casting")
	}

	// The token must be consumed
	var used bool
	if err := conn.QueryRow(`SELECT used FROM vote_token WHERE token = $1`, tokenValue).Scan(&used); err != nil {
		t.Fatalf("Failed to read token state: %v", err)
	}
	if !used {
		t.Error("Expected token to be marked used after casting")
	}

	// And the vote row must point at the chosen candidate
	var got string
	if err := conn.QueryRow(`SELECT candidate_id FROM vote WHERE account_id = $1 AND election_id = $2`, voterID, election.ID).Scan(&got); err != nil {
		t.Fatalf("Failed to read vote: %v", err)
	}
	if got != candidateID {
		t.Errorf("Expected vote for %s, got %s", candidateID, got)
	}
}

func TestCastRejectsSecondVote(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	tokens := voting.NewTokenManager(conn)
	ledger := voting.NewLedger(conn, tokens)

	voterID := testutil.CreateTestAccount(t, conn, "voter@ucao.tg", models.RoleEtudiant)
	candidateAcc := testutil.CreateTestAccount(t, conn, "candidat@ucao.tg", models.RoleEtudiant)
	election := testutil.CreateTestElection(t, conn, models.TypeSalle, "Informatique de Gestion", 2, "", testutil.ElectionVoting)
	candidateID := testutil.AddTestCandidate(t, conn, election.ID, candidateAcc, "Agbeko", "Ama")

	first := testutil.IssueTestToken(t, conn, voterID, election.ID, election.VoteEnd, false)
	if err := ledger.Cast(context.Background(), election.ID, candidateID, first); err != nil {
		t.Fatalf("First cast failed: %v", err)
	}

	// Same token again: consumed
	err := ledger.Cast(context.Background(), election.ID, candidateID, first)
	if !errors.Is(err, voting.ErrTokenUsed) {
		t.Errorf("Expected ErrTokenUsed on reused token, got %v", err)
	}

	// A second (illegitimately issued) token for the same voter still
	// cannot produce a second vote.
	second := testutil.IssueTestToken(t, conn, voterID, election.ID, election.VoteEnd, false)
	err = ledger.Cast(context.Background(), election.ID, candidateID, second)
	if !errors.Is(err, voting.ErrAlreadyVoted) {
		t.Errorf("Expected ErrAlreadyVoted on second token, got %v", err)
	}

	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM vote WHERE election_id = $1`, election.ID).Scan(&count); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected exactly 1 vote, got %d", count)
	}
}

func TestCastRejectsForeignCandidate(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	tokens := voting.NewTokenManager(conn)
	ledger := voting.NewLedger(conn, tokens)

	voterID := testutil.CreateTestAccount(t, conn, "voter@ucao.tg", models.RoleEtudiant)
	candidateAcc := testutil.CreateTestAccount(t, conn, "candidat@ucao.tg", models.RoleEtudiant)
	election := testutil.CreateTestElection(t, conn, models.TypeSalle, "Informatique de Gestion", 2, "", testutil.ElectionVoting)
	other := testutil.CreateTestElection(t, conn, models.TypeSalle, "Droit", 1, "", testutil.ElectionVoting)
	foreignCandidate := testutil.AddTestCandidate(t, conn, other.ID, candidateAcc, "Agbeko", "Ama")
	tokenValue := testutil.IssueTestToken(t, conn, voterID, election.ID, election.VoteEnd, false)

	tests := []struct {
		name        string
		candidateID string
	}{
		{"candidate from another election", foreignCandidate},
		{"unknown candidate", "no-such-candidate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ledger.Cast(context.Background(), election.ID, tt.candidateID, tokenValue)
			if !errors.Is(err, voting.ErrInvalidCandidate) {
				t.Errorf("Expected ErrInvalidCandidate, got %v", err)
			}
		})
	}

	// Nothing recorded, token still redeemable
	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM vote`).Scan(&count); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected no votes, got %d", count)
	}
	var used bool
	if err := conn.QueryRow(`SELECT used FROM vote_token WHERE token = $1`, tokenValue).Scan(&used); err != nil {
		t.Fatalf("Failed to read token state: %v", err)
	}
	if used {
		t.Error("Expected token to stay unused after rejected cast")
	}
}

func TestCastRejectsClosedElection(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	tokens := voting.NewTokenManager(conn)
	ledger := voting.NewLedger(conn, tokens)

	voterID := testutil.CreateTestAccount(t, conn, "voter@ucao.tg", models.RoleEtudiant)
	candidateAcc := testutil.CreateTestAccount(t, conn, "candidat@ucao.tg", models.RoleEtudiant)
	election := testutil.CreateTestElection(t, conn, models.TypeSalle, "Informatique de Gestion", 2, "", testutil.ElectionVoting)
	candidateID := testutil.AddTestCandidate(t, conn, election.ID, candidateAcc, "Agbeko", "Ama")
	tokenValue := testutil.IssueTestToken(t, conn, voterID, election.ID, time.Now().Add(time.Hour), false)

	// An admin deactivates the election while tokens are outstanding.
	// The election row wins over the still-valid token.
	if _, err := conn.Exec(`UPDATE election SET is_active = FALSE WHERE id = $1`, election.ID); err != nil {
		t.Fatalf("Failed to deactivate election: %v", err)
	}

	err := ledger.Cast(context.Background(), election.ID, candidateID, tokenValue)
	if !errors.Is(err, voting.ErrElectionNotActive) {
		t.Errorf("Expected ErrElectionNotActive, got %v", err)
	}
}

func TestCastUnknownElection(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	tokens := voting.NewTokenManager(conn)
	ledger := voting.NewLedger(conn, tokens)

	err := ledger.Cast(context.Background(), "no-such-election", "no-such-candidate", "no-such-token")
	if !errors.Is(err, voting.ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestCascadeDeleteLeavesNoOrphans(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	tokens := voting.NewTokenManager(conn)
	ledger := voting.NewLedger(conn, tokens)

	voterID := testutil.CreateTestAccount(t, conn, "voter@ucao.tg", models.RoleEtudiant)
	candidateAcc := testutil.CreateTestAccount(t, conn, "candidat@ucao.tg", models.RoleEtudiant)
	election := testutil.CreateTestElection(t, conn, models.TypeSalle, "Informatique de Gestion", 2, "", testutil.ElectionVoting)
	candidateID := testutil.AddTestCandidate(t, conn, election.ID, candidateAcc, "Agbeko", "Ama")
	tokenValue := testutil.IssueTestToken(t, conn, voterID, election.ID, election.VoteEnd, false)

	if err := ledger.Cast(context.Background(), election.ID, candidateID, tokenValue); err != nil {
		t.Fatalf("Cast failed: %v", err)
	}

	if _, err := conn.Exec(`DELETE FROM election WHERE id = $1`, election.ID); err != nil {
		t.Fatalf("Failed to delete election: %v", err)
	}

	for _, table := range []string{"candidate", "vote_token", "vote"} {
		var count int
		if err := conn.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatalf("Failed to count %s rows: %v", table, err)
		}
		if count != 0 {
			t.Errorf("Expected %s to be empty after election delete, got %d rows", table, count)
		}
	}
}
