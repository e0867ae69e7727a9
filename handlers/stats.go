// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/kossiga/univote/cliparse"
	"github.com/kossiga/univote/middleware"
)

type StatsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewStatsHandler(db *sql.DB, cfg cliparse.Config) *StatsHandler {
	return &StatsHandler{db: db, cfg: cfg}
}

// dashboardStats is the GET /stats/dashboard payload
type dashboardStats struct {
	TotalEtudiants   int `json:"totalEtudiants"`
	TotalElections   int `json:"totalElections"`
	ElectionsActives int `json:"electionsActives"`
	TotalVotes       int `json:"totalVotes"`
	TotalCandidats   int `json:"totalCandidats"`
}

// Dashboard handles GET /stats/dashboard (admin)
func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	var stats dashboardStats

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM student`, &stats.TotalEtudiants},
		{`SELECT COUNT(*) FROM election`, &stats.TotalElections},
		{`SELECT COUNT(*) FROM election WHERE is_active = TRUE`, &stats.ElectionsActives},
		{`SELECT COUNT(*) FROM vote`, &stats.TotalVotes},
		{`SELECT COUNT(*) FROM candidate`, &stats.TotalCandidats},
	}

	for _, c := range counts {
		if err := h.db.QueryRow(c.query).Scan(c.dest); err != nil {
			slog.Error("failed to compute dashboard stats", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
			return
		}
	}

	middleware.JSONResponse(w, http.StatusOK, stats)
}

// electionStats is the GET /stats/election/{id} payload: raw counts
// without the weighted tabulation, for auditing.
type electionStats struct {
	ElectionID   string           `json:"electionId"`
	TokensIssued int              `json:"tokensIssued"`
	TokensUsed   int              `json:"tokensUsed"`
	TotalVotes   int              `json:"totalVotes"`
	ParCandidat  []candidateCount `json:"parCandidat"`
}

type candidateCount struct {
	CandidateID string `json:"candidateId"`
	Nom         string `json:"nom"`
	Prenom      string `json:"prenom"`
	Votes       int    `json:"votes"`
}

// Election handles GET /stats/election/{id} (admin)
func (h *StatsHandler) Election(w http.ResponseWriter, r *http.Request) {
	election, err := getElection(h.db, r.PathValue("id"))
	if err != nil {
		votingError(w, err)
		return
	}

	stats := electionStats{ElectionID: election.ID, ParCandidat: []candidateCount{}}

	err = h.db.QueryRow(`SELECT COUNT(*) FROM vote_token WHERE election_id = $1`, election.ID).Scan(&stats.TokensIssued)
	if err == nil {
		err = h.db.QueryRow(`SELECT COUNT(*) FROM vote_token WHERE election_id = $1 AND used = TRUE`, election.ID).Scan(&stats.TokensUsed)
	}
	if err == nil {
		err = h.db.QueryRow(`SELECT COUNT(*) FROM vote WHERE election_id = $1`, election.ID).Scan(&stats.TotalVotes)
	}
	if err != nil {
		slog.Error("failed to compute election stats", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	rows, err := h.db.Query(`
		SELECT c.id, c.nom, c.prenom, COUNT(v.candidate_id)
		FROM candidate c
		LEFT JOIN vote v ON v.candidate_id = c.id
		WHERE c.election_id = $1
		GROUP BY c.id, c.nom, c.prenom, c.created_at
		ORDER BY c.created_at
	`, election.ID)
	if err != nil {
		slog.Error("failed to query per-candidate counts", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}
	defer rows.Close()

	for rows.Next() {
		var c candidateCount
		if err := rows.Scan(&c.CandidateID, &c.Nom, &c.Prenom, &c.Votes); err != nil {
			slog.Error("failed to scan candidate count", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
			return
		}
		stats.ParCandidat = append(stats.ParCandidat, c)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read candidate counts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, stats)
}
