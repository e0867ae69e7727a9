// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain types, request/response types and
election state helpers shared across the univote server.

# Domain Types

Account, Student, Election, Candidate, VoteToken and Vote mirror the
database tables created by the db package. VoteToken values and password
hashes are never serialized to JSON.

# Election State

An election's effective state is derived from both the stored active flag
and its voting window, so a stale flag can never reopen voting:

	election.VotingOpen(time.Now())        // may votes be cast right now?
	election.EffectivelyClosed(time.Now()) // treat past vote_end as closed
	election.CandidacyOpen(time.Now())     // may candidacies be submitted?

# Results

ElectionResults carries the weighted two-constituency tabulation:
per-candidate raw counts and percentages for responsables de salle and
general students, the combined scoreFinal, and overall participation.
*/
package models
