// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"errors"
	"strings"
)

// Expected, user-facing failure conditions. Handlers map these to
// stable JSON errors; anything else is a 500.
var (
	ErrNotEligible       = errors.New("not eligible for this election")
	ErrElectionNotActive = errors.New("election is not open for voting")
	ErrInvalidToken      = errors.New("unknown vote token")
	ErrTokenExpired      = errors.New("vote token has expired")
	ErrTokenUsed         = errors.New("vote token has already been used")
	ErrElectionMismatch  = errors.New("vote token belongs to another election")
	ErrAlreadyVoted      = errors.New("a vote has already been cast for this election")
	ErrInvalidCandidate  = errors.New("candidate does not belong to this election")
	ErrNotFound          = errors.New("not found")
)

// IsUniqueViolation recognizes unique-constraint errors from both
// lib/pq and modernc sqlite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
