// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kossiga/univote/middleware"
	"github.com/kossiga/univote/models"
	"github.com/kossiga/univote/voting"
)

// getElection loads a full election row, or voting.ErrNotFound.
func getElection(db *sql.DB, electionID string) (models.Election, error) {
	var e models.Election
	err := db.QueryRow(`
		SELECT id, type, titre, description, filiere, annee, ecole,
		       candidacy_start, candidacy_end, vote_start, vote_end, is_active, created_at
		FROM election
		WHERE id = $1
	`, electionID).Scan(
		&e.ID, &e.Type, &e.Titre, &e.Description, &e.Filiere, &e.Annee, &e.Ecole,
		&e.CandidacyStart, &e.CandidacyEnd, &e.VoteStart, &e.VoteEnd, &e.IsActive, &e.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Election{}, voting.ErrNotFound
	}
	if err != nil {
		return models.Election{}, err
	}
	return e, nil
}

// getStudentByAccount loads the student record linked to an account,
// or voting.ErrNotFound if the account has no student row (admins).
func getStudentByAccount(db *sql.DB, accountID string) (models.Student, error) {
	var s models.Student
	err := db.QueryRow(`
		SELECT id, account_id, nom, prenom, matricule, filiere, annee, ecole,
		       responsable_salle, delegue_ecole
		FROM student
		WHERE account_id = $1
	`, accountID).Scan(
		&s.ID, &s.AccountID, &s.Nom, &s.Prenom, &s.Matricule, &s.Filiere, &s.Annee, &s.Ecole,
		&s.ResponsableSalle, &s.DelegueEcole,
	)
	if err == sql.ErrNoRows {
		return models.Student{}, voting.ErrNotFound
	}
	if err != nil {
		return models.Student{}, err
	}
	return s, nil
}

// votingError maps the voting sentinels to HTTP responses. Unknown
// errors are logged and answered with a generic 500.
func votingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, voting.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Élection introuvable")
	case errors.Is(err, voting.ErrNotEligible):
		middleware.ErrorResponse(w, http.StatusForbidden, "Vous n'êtes pas éligible pour cette élection")
	case errors.Is(err, voting.ErrElectionNotActive):
		middleware.ErrorResponse(w, http.StatusBadRequest, "L'élection n'est pas ouverte au vote")
	case errors.Is(err, voting.ErrInvalidToken):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Jeton de vote invalide")
	case errors.Is(err, voting.ErrTokenExpired):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Jeton de vote expiré")
	case errors.Is(err, voting.ErrTokenUsed):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Jeton de vote déjà utilisé")
	case errors.Is(err, voting.ErrElectionMismatch):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Jeton de vote émis pour une autre élection")
	case errors.Is(err, voting.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Vous avez déjà voté pour cette élection")
	case errors.Is(err, voting.ErrInvalidCandidate):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Candidat invalide pour cette élection")
	default:
		slog.Error("voting operation failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
	}
}
