// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/kossiga/univote/auth"
	"github.com/kossiga/univote/cliparse"
	"github.com/kossiga/univote/eligibility"
	"github.com/kossiga/univote/middleware"
	"github.com/kossiga/univote/models"
	"github.com/kossiga/univote/voting"
)

type CandidateHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	resolver *eligibility.Resolver
}

func NewCandidateHandler(db *sql.DB, cfg cliparse.Config) *CandidateHandler {
	return &CandidateHandler{
		db:       db,
		cfg:      cfg,
		resolver: &eligibility.Resolver{UniversityDelegatesOnly: cfg.UniversityDelegatesOnly},
	}
}

// Submit handles POST /candidats/candidature (authenticated)
// One candidacy per account per election, within the candidacy window,
// and only for elections the student could vote in.
func (h *CandidateHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims := middleware.SessionClaims(r)

	var req models.CandidacyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ElectionID == "" || req.Nom == "" || req.Prenom == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Élection, nom et prénom requis")
		return
	}

	election, err := getElection(h.db, req.ElectionID)
	if err != nil {
		votingError(w, err)
		return
	}

	if !election.CandidacyOpen(time.Now()) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "La période de candidature est fermée")
		return
	}

	student, err := getStudentByAccount(h.db, claims.AccountID)
	if err != nil {
		if errors.Is(err, voting.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusForbidden, "Aucun dossier étudiant associé à ce compte")
			return
		}
		slog.Error("failed to load student", "error", err, "account_id", claims.AccountID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	if !h.resolver.Eligible(student, election) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Vous n'êtes pas éligible pour cette élection")
		return
	}

	id, err := auth.GenerateID(12)
	if err != nil {
		slog.Error("failed to generate candidate ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	var programme *string
	if req.Programme != "" {
		programme = &req.Programme
	}

	_, err = h.db.Exec(`
		INSERT INTO candidate (id, election_id, account_id, nom, prenom, programme, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, election.ID, claims.AccountID, req.Nom, req.Prenom, programme, time.Now())
	if err != nil {
		if voting.IsUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Vous êtes déjà candidat à cette élection")
			return
		}
		slog.Error("failed to insert candidacy", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	slog.Info("candidacy submitted", "candidate_id", id, "election_id", election.ID, "account_id", claims.AccountID)

	middleware.JSONResponse(w, http.StatusCreated, models.Candidate{
		ID:         id,
		ElectionID: election.ID,
		AccountID:  claims.AccountID,
		Nom:        req.Nom,
		Prenom:     req.Prenom,
		Programme:  programme,
	})
}

// UpdateProgramme handles PUT /candidats/{id}/programme (authenticated)
// Only the owner may edit, and only while the election stays open.
func (h *CandidateHandler) UpdateProgramme(w http.ResponseWriter, r *http.Request) {
	claims := middleware.SessionClaims(r)
	candidateID := r.PathValue("id")

	var req models.UpdateProgrammeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var accountID, electionID string
	err := h.db.QueryRow(`
		SELECT account_id, election_id FROM candidate WHERE id = $1
	`, candidateID).Scan(&accountID, &electionID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidat introuvable")
		return
	}
	if err != nil {
		slog.Error("failed to query candidate", "error", err, "candidate_id", candidateID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	if accountID != claims.AccountID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Ce programme ne vous appartient pas")
		return
	}

	election, err := getElection(h.db, electionID)
	if err != nil {
		votingError(w, err)
		return
	}
	if election.EffectivelyClosed(time.Now()) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "L'élection est clôturée")
		return
	}

	_, err = h.db.Exec(`
		UPDATE candidate SET programme = $1 WHERE id = $2
	`, req.Programme, candidateID)
	if err != nil {
		slog.Error("failed to update programme", "error", err, "candidate_id", candidateID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Programme mis à jour",
	})
}

// List handles GET /candidats/{electionId} (public)
func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("electionId")

	if _, err := getElection(h.db, electionID); err != nil {
		votingError(w, err)
		return
	}

	rows, err := h.db.Query(`
		SELECT id, election_id, account_id, nom, prenom, programme, photo_url, created_at
		FROM candidate
		WHERE election_id = $1
		ORDER BY created_at
	`, electionID)
	if err != nil {
		slog.Error("failed to query candidates", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.ElectionID, &c.AccountID, &c.Nom, &c.Prenom, &c.Programme, &c.PhotoURL, &c.CreatedAt); err != nil {
			slog.Error("failed to scan candidate", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
			return
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}
