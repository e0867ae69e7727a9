// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kossiga/univote/auth"
	"github.com/kossiga/univote/cliparse"
	"github.com/kossiga/univote/db"
	"github.com/kossiga/univote/models"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full schema.
// A single connection keeps every query on the same in-memory database.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3418,
		DatabaseURL:  "file::memory:",
		DatabaseType: "sqlite",
		JWTSecret:    "test-jwt-secret",
	}
}

// CreateTestAccount creates an account row and returns its ID
func CreateTestAccount(t *testing.T, conn *sql.DB, email, role string) string {
	t.Helper()

	id := auth.NewAccountID()
	hash, err := auth.HashPassword("motdepasse")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO account (id, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, email, hash, role, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	return id
}

// CreateTestStudent creates a student row linked to an account and
// returns the student ID.
func CreateTestStudent(t *testing.T, conn *sql.DB, accountID, filiere string, annee int, ecole string, responsable bool) string {
	t.Helper()

	id := auth.NewAccountID()
	_, err := conn.Exec(`
		INSERT INTO student (id, account_id, nom, prenom, filiere, annee, ecole, responsable_salle, delegue_ecole, created_at)
		VALUES ($1, $2, 'Mensah', 'Koffi', $3, $4, $5, $6, FALSE, $7)
	`, id, accountID, filiere, annee, ecole, responsable, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test student: %v", err)
	}

	return id
}

// Election fixture states
const (
	ElectionVoting    = "voting"    // voting window open now
	ElectionCandidacy = "candidacy" // candidacy window open, voting later
	ElectionClosed    = "closed"    // voting window over, flag cleared
	ElectionUpcoming  = "upcoming"  // both windows in the future
)

// CreateTestElection creates an election in the given lifecycle state.
// Empty filiere/ecole and zero annee are stored as NULL.
func CreateTestElection(t *testing.T, conn *sql.DB, typ, filiere string, annee int, ecole, state string) models.Election {
	t.Helper()

	id, err := auth.GenerateID(16)
	if err != nil {
		t.Fatalf("Failed to generate election ID: %v", err)
	}

	now := time.Now()
	e := models.Election{
		ID:       id,
		Type:     typ,
		Titre:    "Élection test",
		IsActive: true,
	}
	if filiere != "" {
		e.Filiere = &filiere
	}
	if annee != 0 {
		e.Annee = &annee
	}
	if ecole != "" {
		e.Ecole = &ecole
	}

	switch state {
	case ElectionVoting:
		e.CandidacyStart = now.Add(-2 * time.Hour)
		e.CandidacyEnd = now.Add(-time.Hour)
		e.VoteStart = now.Add(-time.Hour)
		e.VoteEnd = now.Add(time.Hour)
	case ElectionCandidacy:
		e.CandidacyStart = now.Add(-time.Hour)
		e.CandidacyEnd = now.Add(time.Hour)
		e.VoteStart = now.Add(time.Hour)
		e.VoteEnd = now.Add(2 * time.Hour)
	case ElectionClosed:
		e.CandidacyStart = now.Add(-4 * time.Hour)
		e.CandidacyEnd = now.Add(-3 * time.Hour)
		e.VoteStart = now.Add(-3 * time.Hour)
		e.VoteEnd = now.Add(-time.Hour)
		e.IsActive = false
	case ElectionUpcoming:
		e.CandidacyStart = now.Add(time.Hour)
		e.CandidacyEnd = now.Add(2 * time.Hour)
		e.VoteStart = now.Add(2 * time.Hour)
		e.VoteEnd = now.Add(3 * time.Hour)
	default:
		t.Fatalf("Unknown election state: %s", state)
	}

	e.CreatedAt = now
	_, err = conn.Exec(`
		INSERT INTO election (id, type, titre, description, filiere, annee, ecole,
		                      candidacy_start, candidacy_end, vote_start, vote_end, is_active, created_at)
		VALUES ($1, $2, $3, '', $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, e.ID, e.Type, e.Titre, e.Filiere, e.Annee, e.Ecole,
		e.CandidacyStart, e.CandidacyEnd, e.VoteStart, e.VoteEnd, e.IsActive, e.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	return e
}

// AddTestCandidate registers a candidacy and returns the candidate ID
func AddTestCandidate(t *testing.T, conn *sql.DB, electionID, accountID, nom, prenom string) string {
	t.Helper()

	id, err := auth.GenerateID(12)
	if err != nil {
		t.Fatalf("Failed to generate candidate ID: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO candidate (id, election_id, account_id, nom, prenom, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, electionID, accountID, nom, prenom, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return id
}

// IssueTestToken inserts a vote token directly and returns its value
func IssueTestToken(t *testing.T, conn *sql.DB, accountID, electionID string, expiresAt time.Time, used bool) string {
	t.Helper()

	value, err := auth.GenerateVoteToken()
	if err != nil {
		t.Fatalf("Failed to generate vote token: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO vote_token (token, account_id, election_id, issued_at, expires_at, used)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, value, accountID, electionID, time.Now(), expiresAt, used)
	if err != nil {
		t.Fatalf("Failed to create test token: %v", err)
	}

	return value
}

// CastTestVote inserts a vote row directly
func CastTestVote(t *testing.T, conn *sql.DB, accountID, electionID, candidateID string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO vote (account_id, election_id, candidate_id, cast_at)
		VALUES ($1, $2, $3, $4)
	`, accountID, electionID, candidateID, time.Now())
	if err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}
}

// SessionFor returns a signed session token for an account
func SessionFor(t *testing.T, cfg cliparse.Config, accountID, role string) string {
	t.Helper()

	token, err := auth.GenerateSessionToken(accountID, role, []byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("Failed to sign session token: %v", err)
	}
	return token
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
