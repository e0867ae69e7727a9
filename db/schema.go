// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
//
// The DDL is kept portable between PostgreSQL and SQLite: timestamps are
// always written by the application, so there are no NOW() defaults.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Accounts (students and admins)
CREATE TABLE IF NOT EXISTS account (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'ETUDIANT' CHECK (role IN ('ETUDIANT', 'ADMIN')),
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_account_email ON account(email);

-- Students (directory of scoping attributes)
CREATE TABLE IF NOT EXISTS student (
    id TEXT PRIMARY KEY,
    account_id TEXT UNIQUE REFERENCES account(id),
    nom TEXT NOT NULL,
    prenom TEXT NOT NULL,
    matricule TEXT UNIQUE,
    filiere TEXT NOT NULL,
    annee INTEGER NOT NULL,
    ecole TEXT NOT NULL,
    responsable_salle BOOLEAN NOT NULL DEFAULT FALSE,
    delegue_ecole BOOLEAN NOT NULL DEFAULT FALSE,
    code_inscription TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_student_account_id ON student(account_id);
CREATE INDEX IF NOT EXISTS idx_student_filiere_annee ON student(filiere, annee);

-- Registration codes for first-year students
CREATE TABLE IF NOT EXISTS registration_code (
    code TEXT PRIMARY KEY,
    used BOOLEAN NOT NULL DEFAULT FALSE,
    used_by TEXT REFERENCES account(id),
    created_at TIMESTAMP NOT NULL
);

-- Elections
CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    type TEXT NOT NULL CHECK (type IN ('SALLE', 'ECOLE', 'UNIVERSITE')),
    titre TEXT NOT NULL,
    description TEXT,
    filiere TEXT,
    annee INTEGER,
    ecole TEXT,
    candidacy_start TIMESTAMP NOT NULL,
    candidacy_end TIMESTAMP NOT NULL,
    vote_start TIMESTAMP NOT NULL,
    vote_end TIMESTAMP NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_election_type ON election(type);
CREATE INDEX IF NOT EXISTS idx_election_is_active ON election(is_active);

-- Candidates (one candidacy per account per election)
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    account_id TEXT NOT NULL REFERENCES account(id),
    nom TEXT NOT NULL,
    prenom TEXT NOT NULL,
    programme TEXT,
    photo_url TEXT,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (election_id, account_id)
);

CREATE INDEX IF NOT EXISTS idx_candidate_election_id ON candidate(election_id);

-- Vote tokens (one-time, expiring, election-scoped bearer credentials)
CREATE TABLE IF NOT EXISTS vote_token (
    token TEXT PRIMARY KEY,
    account_id TEXT NOT NULL REFERENCES account(id),
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    issued_at TIMESTAMP NOT NULL,
    expires_at TIMESTAMP NOT NULL,
    used BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_vote_token_owner ON vote_token(account_id, election_id);
CREATE INDEX IF NOT EXISTS idx_vote_token_election ON vote_token(election_id);

-- Votes (append-only ledger, at most one per account per election)
CREATE TABLE IF NOT EXISTS vote (
    account_id TEXT NOT NULL REFERENCES account(id),
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    candidate_id TEXT NOT NULL REFERENCES candidate(id) ON DELETE CASCADE,
    cast_at TIMESTAMP NOT NULL,
    PRIMARY KEY (account_id, election_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_election_id ON vote(election_id);
CREATE INDEX IF NOT EXISTS idx_vote_candidate_id ON vote(candidate_id);
`
