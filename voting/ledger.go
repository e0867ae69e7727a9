// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"database/sql"
	"time"

	"github.com/kossiga/univote/models"
)

// Ledger records votes with at-most-once semantics per (account, election).
type Ledger struct {
	db     *sql.DB
	tokens *TokenManager
}

func NewLedger(db *sql.DB, tokens *TokenManager) *Ledger {
	return &Ledger{db: db, tokens: tokens}
}

// Cast redeems a vote token and records the vote. The checks run in
// order, each with its own failure mode: token validation, election
// state (authoritative over the token), duplicate vote, candidate
// membership, then insert + consume inside one transaction.
//
// Two racing requests with the same token cannot both succeed: the vote
// table's (account, election) primary key fails the loser's insert, and
// the conditional token update fails the loser that slipped past the
// duplicate check. Race losers get ErrAlreadyVoted or ErrTokenUsed.
func (l *Ledger) Cast(ctx context.Context, electionID, candidateID, tokenValue string) error {
	token, err := l.tokens.Validate(ctx, tokenValue, electionID)
	if err != nil {
		return err
	}

	// A token could outlive a since-closed election; the election row
	// is authoritative at the moment of casting.
	election, err := l.getElection(ctx, electionID)
	if err != nil {
		return err
	}
	if !election.VotingOpen(time.Now()) {
		return ErrElectionNotActive
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var alreadyVoted bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM vote WHERE account_id = $1 AND election_id = $2
		)
	`, token.AccountID, electionID).Scan(&alreadyVoted)
	if err != nil {
		return err
	}
	if alreadyVoted {
		return ErrAlreadyVoted
	}

	var candidateElection string
	err = tx.QueryRowContext(ctx, `
		SELECT election_id FROM candidate WHERE id = $1
	`, candidateID).Scan(&candidateElection)
	if err == sql.ErrNoRows {
		return ErrInvalidCandidate
	}
	if err != nil {
		return err
	}
	if candidateElection != electionID {
		return ErrInvalidCandidate
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO vote (account_id, election_id, candidate_id, cast_at)
		VALUES ($1, $2, $3, $4)
	`, token.AccountID, electionID, candidateID, time.Now())
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrAlreadyVoted
		}
		return err
	}

	if err := l.tokens.Consume(ctx, tx, tokenValue); err != nil {
		return err
	}

	return tx.Commit()
}

// HasVoted reports whether an account has a recorded vote for an election.
func (l *Ledger) HasVoted(ctx context.Context, accountID, electionID string) (bool, error) {
	var voted bool
	err := l.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM vote WHERE account_id = $1 AND election_id = $2
		)
	`, accountID, electionID).Scan(&voted)
	return voted, err
}

func (l *Ledger) getElection(ctx context.Context, electionID string) (models.Election, error) {
	var e models.Election
	err := l.db.QueryRowContext(ctx, `
		SELECT id, type, titre, description, filiere, annee, ecole,
		       candidacy_start, candidacy_end, vote_start, vote_end, is_active, created_at
		FROM election
		WHERE id = $1
	`, electionID).Scan(
		&e.ID, &e.Type, &e.Titre, &e.Description, &e.Filiere, &e.Annee, &e.Ecole,
		&e.CandidacyStart, &e.CandidacyEnd, &e.VoteStart, &e.VoteEnd, &e.IsActive, &e.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Election{}, ErrNotFound
	}
	if err != nil {
		return models.Election{}, err
	}
	return e, nil
}
