// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kossiga/univote/academic"
	"github.com/kossiga/univote/auth"
	"github.com/kossiga/univote/cliparse"
	"github.com/kossiga/univote/middleware"
	"github.com/kossiga/univote/models"
	"github.com/kossiga/univote/voting"
)

type UserHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewUserHandler(db *sql.DB, cfg cliparse.Config) *UserHandler {
	return &UserHandler{db: db, cfg: cfg}
}

// Register handles POST /register
//
// First-year students sign up with a registration code handed out at
// enrollment; later years claim their pre-provisioned student row by
// matricule. Both paths run in a transaction so a failed account insert
// never burns a code or orphans a student link.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Email invalide")
		return
	}
	if len(req.Password) < 8 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Le mot de passe doit contenir au moins 8 caractères")
		return
	}
	if req.Nom == "" || req.Prenom == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Nom et prénom requis")
		return
	}
	if !academic.ValidFiliere(req.Filiere) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Filière inconnue")
		return
	}
	if !academic.ValidAnnee(req.Annee) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Année d'étude invalide")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	var accountID string
	if req.Annee == 1 {
		accountID, err = h.registerWithCode(req, hash)
	} else {
		accountID, err = h.registerWithMatricule(req, hash)
	}
	if err != nil {
		switch {
		case err == errCodeInvalid:
			middleware.ErrorResponse(w, http.StatusBadRequest, "Code d'inscription invalide ou déjà utilisé")
		case err == errMatriculeInvalid:
			middleware.ErrorResponse(w, http.StatusBadRequest, "Matricule inconnu ou déjà associé à un compte")
		case voting.IsUniqueViolation(err):
			middleware.ErrorResponse(w, http.StatusConflict, "Un compte existe déjà avec cet email")
		default:
			slog.Error("registration failed", "error", err, "email", req.Email)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		}
		return
	}

	slog.Info("account registered", "account_id", accountID, "annee", req.Annee)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterResponse{
		Message: "Inscription réussie",
		UserID:  accountID,
	})
}

var (
	errCodeInvalid      = errors.New("registration code invalid")
	errMatriculeInvalid = errors.New("matricule invalid")
)

// registerWithCode creates the account and a brand new student row,
// consuming the registration code with a conditional update so two
// concurrent signups cannot share one code.
func (h *UserHandler) registerWithCode(req models.RegisterRequest, hash string) (string, error) {
	if req.Code == "" {
		return "", errCodeInvalid
	}

	tx, err := h.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	accountID := auth.NewAccountID()
	now := time.Now()

	_, err = tx.Exec(`
		INSERT INTO account (id, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, accountID, req.Email, hash, models.RoleEtudiant, now)
	if err != nil {
		return "", err
	}

	res, err := tx.Exec(`
		UPDATE registration_code SET used = TRUE, used_by = $1
		WHERE code = $2 AND used = FALSE
	`, accountID, req.Code)
	if err != nil {
		return "", err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return "", err
	}
	if affected == 0 {
		return "", errCodeInvalid
	}

	_, err = tx.Exec(`
		INSERT INTO student (id, account_id, nom, prenom, filiere, annee, ecole,
		                     responsable_salle, delegue_ecole, code_inscription, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, FALSE, $8, $9)
	`, auth.NewAccountID(), accountID, req.Nom, req.Prenom, req.Filiere, req.Annee,
		academic.SchoolForFiliere(req.Filiere), req.Code, now)
	if err != nil {
		return "", err
	}

	return accountID, tx.Commit()
}

// registerWithMatricule links a new account to the pre-provisioned
// student row carrying that matricule. The conditional update rejects
// matricules that are unknown, already claimed, or declared under a
// different filière/année than the directory has on file.
func (h *UserHandler) registerWithMatricule(req models.RegisterRequest, hash string) (string, error) {
	if req.Matricule == "" {
		return "", errMatriculeInvalid
	}

	tx, err := h.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	accountID := auth.NewAccountID()
	now := time.Now()

	_, err = tx.Exec(`
		INSERT INTO account (id, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, accountID, req.Email, hash, models.RoleEtudiant, now)
	if err != nil {
		return "", err
	}

	res, err := tx.Exec(`
		UPDATE student SET account_id = $1
		WHERE matricule = $2 AND account_id IS NULL AND filiere = $3 AND annee = $4
	`, accountID, req.Matricule, req.Filiere, req.Annee)
	if err != nil {
		return "", err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return "", err
	}
	if affected == 0 {
		return "", errMatriculeInvalid
	}

	return accountID, tx.Commit()
}

// GenerateCodes handles POST /admin/codes (admin only)
//
// Mints a batch of one-time registration codes for first-year
// enrollment. The codes are returned exactly once; only their used
// state is queryable afterwards.
func (h *UserHandler) GenerateCodes(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateCodesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Count < 1 || req.Count > 500 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Le nombre de codes doit être entre 1 et 500")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}
	defer tx.Rollback()

	now := time.Now()
	codes := make([]string, 0, req.Count)
	for len(codes) < req.Count {
		code, err := auth.GenerateRegistrationCode()
		if err != nil {
			slog.Error("failed to generate registration code", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
			return
		}

		_, err = tx.Exec(`
			INSERT INTO registration_code (code, used, created_at)
			VALUES ($1, FALSE, $2)
		`, code, now)
		if voting.IsUniqueViolation(err) {
			continue // collision, draw again
		}
		if err != nil {
			slog.Error("failed to insert registration code", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
			return
		}
		codes = append(codes, code)
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit registration codes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	slog.Info("registration codes generated", "count", len(codes))

	middleware.JSONResponse(w, http.StatusCreated, models.GenerateCodesResponse{
		Message: "Codes d'inscription générés",
		Codes:   codes,
	})
}

// Login handles POST /login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Email et mot de passe requis")
		return
	}

	var accountID, hash, role string
	err := h.db.QueryRow(`
		SELECT id, password_hash, role FROM account WHERE email = $1
	`, req.Email).Scan(&accountID, &hash, &role)

	// Identical answer for unknown email and wrong password
	if err == sql.ErrNoRows || (err == nil && !auth.CheckPassword(req.Password, hash)) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Email ou mot de passe incorrect")
		return
	}
	if err != nil {
		slog.Error("failed to query account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	token, err := auth.GenerateSessionToken(accountID, role, []byte(h.cfg.JWTSecret))
	if err != nil {
		slog.Error("failed to sign session token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	slog.Info("login", "account_id", accountID, "ip", middleware.GetClientIP(r))

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Message: "Connexion réussie",
		Token:   token,
	})
}

// ChangePassword handles POST /login/change-password (authenticated)
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := middleware.SessionClaims(r)

	var req models.ChangePasswordRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.NewPassword != req.ConfirmPassword {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Les mots de passe ne correspondent pas")
		return
	}
	if len(req.NewPassword) < 8 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Le mot de passe doit contenir au moins 8 caractères")
		return
	}

	var hash string
	err := h.db.QueryRow(`
		SELECT password_hash FROM account WHERE id = $1
	`, claims.AccountID).Scan(&hash)
	if err != nil {
		slog.Error("failed to query account", "error", err, "account_id", claims.AccountID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	if !auth.CheckPassword(req.CurrentPassword, hash) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Mot de passe actuel incorrect")
		return
	}

	newHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	_, err = h.db.Exec(`
		UPDATE account SET password_hash = $1 WHERE id = $2
	`, newHash, claims.AccountID)
	if err != nil {
		slog.Error("failed to update password", "error", err, "account_id", claims.AccountID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Mot de passe modifié",
	})
}
