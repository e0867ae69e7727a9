// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting is the core of the platform: the vote token lifecycle and
the append-only vote ledger.

# Token Lifecycle

A vote token is a one-time, expiring, election-scoped credential:

	token, err := tokens.IssueOrGet(ctx, accountID, election)
	record, err := tokens.Validate(ctx, tokenValue, electionID)
	err := tokens.Consume(ctx, tx, tokenValue)

IssueOrGet is idempotent: an outstanding unused, unexpired token is
returned instead of minting a duplicate, so a voter holds at most one
valid token per election. Expiry is pinned to the election's vote_end.
Validate distinguishes unknown, expired, used and wrong-election tokens
without consuming, so clients can pre-flight. Consume is an atomic
conditional update (used=FALSE guard), not read-then-write; the second
of two racing consumers always gets ErrTokenUsed.

Bulk issuance at election creation walks the student directory and
mints one token per eligible student; per-item failures are logged and
do not abort the batch.

# The Ledger

Ledger.Cast runs the full redemption sequence: validate token, re-check
the election is open (election state is authoritative over tokens),
then inside one transaction reject duplicates, verify the candidate
belongs to the election, insert the vote and consume the token. The
(account_id, election_id) primary key on vote is the backstop that
holds even if token logic is bypassed.

# Errors

All expected failures are sentinel errors (ErrTokenUsed, ErrAlreadyVoted,
ErrInvalidCandidate, ...) for handlers to match with errors.Is. Race
losers receive taxonomy errors, never a generic failure.
*/
package voting
