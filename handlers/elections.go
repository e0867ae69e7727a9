// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/kossiga/univote/academic"
	"github.com/kossiga/univote/auth"
	"github.com/kossiga/univote/cliparse"
	"github.com/kossiga/univote/eligibility"
	"github.com/kossiga/univote/middleware"
	"github.com/kossiga/univote/models"
	"github.com/kossiga/univote/voting"
)

type ElectionHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	tokens   *voting.TokenManager
	resolver *eligibility.Resolver
}

func NewElectionHandler(db *sql.DB, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{
		db:       db,
		cfg:      cfg,
		tokens:   voting.NewTokenManager(db),
		resolver: &eligibility.Resolver{UniversityDelegatesOnly: cfg.UniversityDelegatesOnly},
	}
}

// List handles GET /elections
// Returns all active elections, newest first.
func (h *ElectionHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, type, titre, description, filiere, annee, ecole,
		       candidacy_start, candidacy_end, vote_start, vote_end, is_active, created_at
		FROM election
		WHERE is_active = TRUE
		ORDER BY created_at DESC
	`)
	if err != nil {
		slog.Error("failed to query elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}
	defer rows.Close()

	elections, err := scanElections(rows)
	if err != nil {
		slog.Error("failed to scan elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, elections)
}

// ListByType handles GET /elections/by-type/{type}
// Optional query filters: filiere, annee, ecole.
func (h *ElectionHandler) ListByType(w http.ResponseWriter, r *http.Request) {
	typ := r.PathValue("type")
	if typ != models.TypeSalle && typ != models.TypeEcole && typ != models.TypeUniversite {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Type d'élection inconnu")
		return
	}

	query := `
		SELECT id, type, titre, description, filiere, annee, ecole,
		       candidacy_start, candidacy_end, vote_start, vote_end, is_active, created_at
		FROM election
		WHERE is_active = TRUE AND type = $1
	`
	args := []any{typ}

	if filiere := r.URL.Query().Get("filiere"); filiere != "" {
		args = append(args, filiere)
		query += ` AND filiere = $` + strconv.Itoa(len(args))
	}
	if anneeStr := r.URL.Query().Get("annee"); anneeStr != "" {
		annee, err := strconv.Atoi(anneeStr)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Année invalide")
			return
		}
		args = append(args, annee)
		query += ` AND annee = $` + strconv.Itoa(len(args))
	}
	if ecole := r.URL.Query().Get("ecole"); ecole != "" {
		args = append(args, ecole)
		query += ` AND ecole = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := h.db.Query(query, args...)
	if err != nil {
		slog.Error("failed to query elections", "error", err, "type", typ)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}
	defer rows.Close()

	elections, err := scanElections(rows)
	if err != nil {
		slog.Error("failed to scan elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, elections)
}

// electionDetail is the GET /elections/{id} payload: the election plus
// its candidates and headline counters.
type electionDetail struct {
	models.Election
	Candidats    []models.Candidate `json:"candidats"`
	TotalVotes   int                `json:"totalVotes"`
	TokensIssued int                `json:"tokensIssued"`
}

// Get handles GET /elections/{id}
func (h *ElectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	election, err := getElection(h.db, r.PathValue("id"))
	if err != nil {
		votingError(w, err)
		return
	}

	detail := electionDetail{Election: election, Candidats: []models.Candidate{}}

	rows, err := h.db.Query(`
		SELECT id, election_id, account_id, nom, prenom, programme, photo_url, created_at
		FROM candidate
		WHERE election_id = $1
		ORDER BY created_at
	`, election.ID)
	if err != nil {
		slog.Error("failed to query candidates", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.ElectionID, &c.AccountID, &c.Nom, &c.Prenom, &c.Programme, &c.PhotoURL, &c.CreatedAt); err != nil {
			slog.Error("failed to scan candidate", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
			return
		}
		detail.Candidats = append(detail.Candidats, c)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	err = h.db.QueryRow(`SELECT COUNT(*) FROM vote WHERE election_id = $1`, election.ID).Scan(&detail.TotalVotes)
	if err == nil {
		err = h.db.QueryRow(`SELECT COUNT(*) FROM vote_token WHERE election_id = $1`, election.ID).Scan(&detail.TokensIssued)
	}
	if err != nil {
		slog.Error("failed to count votes", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, detail)
}

// Create handles POST /elections (admin)
//
// Creating an election also enumerates the student directory and issues
// one vote token per eligible student. Issuance failures are logged per
// student and never abort the batch.
func (h *ElectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Titre == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Titre requis")
		return
	}
	if msg := validateScope(req); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validateWindows(req); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	id, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate election ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	election := models.Election{
		ID:             id,
		Type:           req.Type,
		Titre:          req.Titre,
		Description:    req.Description,
		CandidacyStart: req.CandidacyStart,
		CandidacyEnd:   req.CandidacyEnd,
		VoteStart:      req.VoteStart,
		VoteEnd:        req.VoteEnd,
		IsActive:       true,
		CreatedAt:      time.Now(),
	}
	if req.Filiere != "" {
		election.Filiere = &req.Filiere
	}
	if req.Annee != 0 {
		election.Annee = &req.Annee
	}
	if req.Ecole != "" {
		election.Ecole = &req.Ecole
	}

	_, err = h.db.Exec(`
		INSERT INTO election (id, type, titre, description, filiere, annee, ecole,
		                      candidacy_start, candidacy_end, vote_start, vote_end, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, election.ID, election.Type, election.Titre, election.Description,
		election.Filiere, election.Annee, election.Ecole,
		election.CandidacyStart, election.CandidacyEnd, election.VoteStart, election.VoteEnd,
		election.IsActive, election.CreatedAt)
	if err != nil {
		slog.Error("failed to insert election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	students, err := h.listStudents()
	if err != nil {
		slog.Error("failed to enumerate students for token issuance", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	issued := h.tokens.IssueForElection(r.Context(), election, students, func(s models.Student) bool {
		return h.resolver.Eligible(s, election)
	})

	slog.Info("election created", "election_id", election.ID, "type", election.Type, "tokens_issued", issued)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateElectionResponse{
		Message:      "Élection créée",
		ElectionID:   election.ID,
		TokensIssued: issued,
	})
}

// Close handles PUT /elections/{id}/close (admin)
// Closing is terminal: outstanding tokens stay in place but can no
// longer be redeemed because the election row is authoritative.
func (h *ElectionHandler) Close(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")

	res, err := h.db.Exec(`
		UPDATE election SET is_active = FALSE WHERE id = $1
	`, electionID)
	if err != nil {
		slog.Error("failed to close election", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	affected, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read close result", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Élection introuvable")
		return
	}

	slog.Info("election closed", "election_id", electionID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Élection clôturée",
	})
}

// Delete handles DELETE /elections/{id} (admin)
// Cascades to candidates, tokens and votes.
func (h *ElectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")

	res, err := h.db.Exec(`DELETE FROM election WHERE id = $1`, electionID)
	if err != nil {
		slog.Error("failed to delete election", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	affected, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read delete result", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Élection introuvable")
		return
	}

	slog.Info("election deleted", "election_id", electionID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Élection supprimée",
	})
}

func (h *ElectionHandler) listStudents() ([]models.Student, error) {
	rows, err := h.db.Query(`
		SELECT id, account_id, nom, prenom, matricule, filiere, annee, ecole,
		       responsable_salle, delegue_ecole
		FROM student
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		var s models.Student
		if err := rows.Scan(&s.ID, &s.AccountID, &s.Nom, &s.Prenom, &s.Matricule,
			&s.Filiere, &s.Annee, &s.Ecole, &s.ResponsableSalle, &s.DelegueEcole); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// validateScope checks that the election carries exactly the scoping
// attributes its type needs.
func validateScope(req models.CreateElectionRequest) string {
	switch req.Type {
	case models.TypeSalle:
		if req.Filiere == "" || req.Annee == 0 {
			return "Une élection de salle exige une filière et une année"
		}
		if !academic.ValidFiliere(req.Filiere) {
			return "Filière inconnue"
		}
		if !academic.ValidAnnee(req.Annee) {
			return "Année d'étude invalide"
		}
	case models.TypeEcole:
		if req.Ecole == "" {
			return "Une élection d'école exige une école"
		}
		if !academic.ValidEcole(req.Ecole) {
			return "École inconnue"
		}
	case models.TypeUniversite:
		// No scoping attributes
	default:
		return "Type d'élection inconnu"
	}
	return ""
}

// validateWindows checks both windows are well-ordered and that the
// candidacy window closes before voting opens.
func validateWindows(req models.CreateElectionRequest) string {
	if !req.CandidacyStart.Before(req.CandidacyEnd) {
		return "La période de candidature est mal ordonnée"
	}
	if !req.VoteStart.Before(req.VoteEnd) {
		return "La période de vote est mal ordonnée"
	}
	if req.VoteStart.Before(req.CandidacyEnd) {
		return "Le vote ne peut pas commencer avant la clôture des candidatures"
	}
	return ""
}

// scanElections drains a query over the full election column list.
func scanElections(rows *sql.Rows) ([]models.Election, error) {
	elections := []models.Election{}
	for rows.Next() {
		var e models.Election
		if err := rows.Scan(&e.ID, &e.Type, &e.Titre, &e.Description, &e.Filiere, &e.Annee, &e.Ecole,
			&e.CandidacyStart, &e.CandidacyEnd, &e.VoteStart, &e.VoteEnd, &e.IsActive, &e.CreatedAt); err != nil {
			return nil, err
		}
		elections = append(elections, e)
	}
	return elections, rows.Err()
}
