// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema

The schema consists of seven tables:

  - account: authentication identities (students and admins)
  - student: the student directory with election scoping attributes
  - registration_code: one-time codes gating first-year registration
  - election: elections with type scoping and candidacy/voting windows
  - candidate: candidacies, unique per (election, account)
  - vote_token: one-time, expiring, election-scoped vote credentials
  - vote: the append-only vote ledger, keyed by (account, election)

Deleting an election cascades to its candidates, vote tokens and votes.
The (account_id, election_id) primary key on vote is the ultimate
defense against double-voting, independent of token state.

# Usage

	err := db.CreateSchema(dbConn)

Safe to call on every startup; all statements use IF NOT EXISTS. The DDL
runs unchanged on PostgreSQL and SQLite (the latter is what the test
suite uses, in-memory).
*/
package db
