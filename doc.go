// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the univote API server.

Univote runs university elections: room (SALLE), school (ECOLE) and
university-wide (UNIVERSITE) ballots. Voting is token-gated: each
eligible student receives a one-time, expiring vote token per election,
and results blend the room-representative constituency against the
general student body with a fixed 60/40 weighting.

# Starting the Server

The server reads environment variables (optionally from a .env file) or
CLI flags:

	DATABASE_URL=postgres://... JWT_SECRET=... go run .

Or with flags:

	go run . -p 3418 -d "postgres://..." -jwt-secret "..."

# Configuration

Required settings:

  - DATABASE_URL (-d): connection string (postgres URL or sqlite file)
  - JWT_SECRET (-jwt-secret): session token signing secret

Optional settings:

  - PORT (-p): server port (default: 3418)
  - DATABASE_TYPE (-t): "postgres" or "sqlite" (default: sqlite)
  - UNIVERSITY_DELEGATES_ONLY (-delegates-only): restrict
    university-wide elections to cross-school delegates

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (users, elections, candidates, vote, stats)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, session enforcement
  - voting: vote token manager and exactly-once vote ledger
  - tabulation: weighted two-constituency results computation
  - eligibility: per-election-type voter eligibility rules
  - academic: school and filière reference data
  - models: request/response and domain types
  - auth: token generation, password hashing, session JWTs
  - db: schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
