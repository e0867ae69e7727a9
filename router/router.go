// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/kossiga/univote/cliparse"
	"github.com/kossiga/univote/handlers"
	"github.com/kossiga/univote/middleware"
	"github.com/kossiga/univote/models"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	userHandler := handlers.NewUserHandler(db, cfg)
	electionHandler := handlers.NewElectionHandler(db, cfg)
	candidateHandler := handlers.NewCandidateHandler(db, cfg)
	voteHandler := handlers.NewVoteHandler(db, cfg)
	statsHandler := handlers.NewStatsHandler(db, cfg)

	secret := []byte(cfg.JWTSecret)
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAuth(secret, h))
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireRole(secret, models.RoleAdmin, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts
	mux.HandleFunc("POST /register", middleware.WithLogging(userHandler.Register))
	mux.HandleFunc("POST /login", middleware.WithLogging(userHandler.Login))
	mux.HandleFunc("POST /login/change-password", authed(userHandler.ChangePassword))
	mux.HandleFunc("POST /admin/codes", admin(userHandler.GenerateCodes))

	// Elections (reads public, lifecycle admin-only)
	mux.HandleFunc("GET /elections", middleware.WithLogging(electionHandler.List))
	mux.HandleFunc("GET /elections/by-type/{type}", middleware.WithLogging(electionHandler.ListByType))
	mux.HandleFunc("GET /elections/{id}", middleware.WithLogging(electionHandler.Get))
	mux.HandleFunc("POST /elections", admin(electionHandler.Create))
	mux.HandleFunc("PUT /elections/{id}/close", admin(electionHandler.Close))
	mux.HandleFunc("DELETE /elections/{id}", admin(electionHandler.Delete))

	// Candidacies
	mux.HandleFunc("POST /candidats/candidature", authed(candidateHandler.Submit))
	mux.HandleFunc("PUT /candidats/{id}/programme", authed(candidateHandler.UpdateProgramme))
	mux.HandleFunc("GET /candidats/{electionId}", middleware.WithLogging(candidateHandler.List))

	// Voting (the vote token is the credential for casting)
	mux.HandleFunc("GET /vote/token/{electionId}", authed(voteHandler.GetToken))
	mux.HandleFunc("POST /vote", middleware.WithLogging(voteHandler.Cast))
	mux.HandleFunc("GET /vote/results/{electionId}", middleware.WithLogging(voteHandler.Results))
	mux.HandleFunc("GET /vote/status/{electionId}", authed(voteHandler.Status))

	// Admin statistics
	mux.HandleFunc("GET /stats/dashboard", admin(statsHandler.Dashboard))
	mux.HandleFunc("GET /stats/election/{id}", admin(statsHandler.Election))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("univote API v1"))
	})

	return mux
}
