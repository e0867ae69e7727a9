// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/kossiga/univote/auth"
	"github.com/kossiga/univote/models"
)

// execer lets Consume run against either *sql.DB or *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// TokenManager creates, looks up, validates and consumes vote tokens.
type TokenManager struct {
	db *sql.DB
}

func NewTokenManager(db *sql.DB) *TokenManager {
	return &TokenManager{db: db}
}

// IssueOrGet returns the caller's valid token for an election, minting
// one if none is outstanding. The election must be open for voting;
// eligibility is the caller's responsibility.
//
// Calling twice before expiry returns the same token value both times.
func (m *TokenManager) IssueOrGet(ctx context.Context, accountID string, election models.Election) (models.VoteToken, error) {
	now := time.Now()
	if !election.VotingOpen(now) {
		return models.VoteToken{}, ErrElectionNotActive
	}

	token, err := m.findValid(ctx, accountID, election.ID, now)
	if err == nil {
		return token, nil
	}
	if err != sql.ErrNoRows {
		return models.VoteToken{}, err
	}

	return m.mint(ctx, accountID, election, now)
}

// findValid returns an unused, unexpired token for (account, election),
// or sql.ErrNoRows. Expiry is compared in Go so the query stays
// portable between postgres and sqlite.
func (m *TokenManager) findValid(ctx context.Context, accountID, electionID string, now time.Time) (models.VoteToken, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT token, account_id, election_id, issued_at, expires_at, used
		FROM vote_token
		WHERE account_id = $1 AND election_id = $2 AND used = FALSE
	`, accountID, electionID)
	if err != nil {
		return models.VoteToken{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var t models.VoteToken
		if err := rows.Scan(&t.Token, &t.AccountID, &t.ElectionID, &t.IssuedAt, &t.ExpiresAt, &t.Used); err != nil {
			return models.VoteToken{}, err
		}
		if now.Before(t.ExpiresAt) {
			return t, nil
		}
	}
	if err := rows.Err(); err != nil {
		return models.VoteToken{}, err
	}

	return models.VoteToken{}, sql.ErrNoRows
}

// mint persists a fresh token. Expiry is pinned to the election's
// voting window end so a token can never outlive its election.
func (m *TokenManager) mint(ctx context.Context, accountID string, election models.Election, now time.Time) (models.VoteToken, error) {
	value, err := auth.GenerateVoteToken()
	if err != nil {
		return models.VoteToken{}, err
	}

	token := models.VoteToken{
		Token:      value,
		AccountID:  accountID,
		ElectionID: election.ID,
		IssuedAt:   now,
		ExpiresAt:  election.VoteEnd,
	}

	_, err = m.db.ExecContext(ctx, `
		INSERT INTO vote_token (token, account_id, election_id, issued_at, expires_at, used)
		VALUES ($1, $2, $3, $4, $5, FALSE)
	`, token.Token, token.AccountID, token.ElectionID, token.IssuedAt, token.ExpiresAt)
	if err != nil {
		return models.VoteToken{}, err
	}

	return token, nil
}

// Validate checks a token for redemption against an election and
// returns the stored record (carrying the owner's account ID). It does
// NOT consume the token, so callers can pre-flight check.
func (m *TokenManager) Validate(ctx context.Context, tokenValue, electionID string) (models.VoteToken, error) {
	var t models.VoteToken
	err := m.db.QueryRowContext(ctx, `
		SELECT token, account_id, election_id, issued_at, expires_at, used
		FROM vote_token
		WHERE token = $1
	`, tokenValue).Scan(&t.Token, &t.AccountID, &t.ElectionID, &t.IssuedAt, &t.ExpiresAt, &t.Used)

	if err == sql.ErrNoRows {
		return models.VoteToken{}, ErrInvalidToken
	}
	if err != nil {
		return models.VoteToken{}, err
	}

	// Expiry wins over the used flag: an expired token is never
	// redeemable regardless of state.
	if !time.Now().Before(t.ExpiresAt) {
		return models.VoteToken{}, ErrTokenExpired
	}
	if t.Used {
		return models.VoteToken{}, ErrTokenUsed
	}
	if t.ElectionID != electionID {
		return models.VoteToken{}, ErrElectionMismatch
	}

	return t, nil
}

// Consume flips used=false to used=true exactly once. The conditional
// update is the linchpin of exactly-once voting: under concurrent
// redemption the loser sees zero rows affected and gets ErrTokenUsed,
// never a silent success.
func (m *TokenManager) Consume(ctx context.Context, ex execer, tokenValue string) error {
	res, err := ex.ExecContext(ctx, `
		UPDATE vote_token SET used = TRUE WHERE token = $1 AND used = FALSE
	`, tokenValue)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTokenUsed
	}

	return nil
}

// IssueForElection mints one token per eligible student at election
// creation. Each issuance is independent: a failed insert is logged and
// the batch continues. Students whose matricule row has not been
// claimed by an account yet are skipped.
func (m *TokenManager) IssueForElection(ctx context.Context, election models.Election, students []models.Student, eligible func(models.Student) bool) int {
	issued := 0
	for _, s := range students {
		if s.AccountID == nil || !eligible(s) {
			continue
		}
		if _, err := m.mint(ctx, *s.AccountID, election, time.Now()); err != nil {
			slog.Warn("failed to issue vote token",
				"error", err,
				"election_id", election.ID,
				"account_id", *s.AccountID,
			)
			continue
		}
		issued++
	}

	slog.Info("vote tokens issued", "election_id", election.ID, "count", issued)
	return issued
}
