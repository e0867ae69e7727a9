// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3418)
  - DatabaseURL: connection string (required)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - JWTSecret: session JWT signing secret (required)
  - UniversityDelegatesOnly: restrict UNIVERSITE elections to delegates

# Environment Variables

Flags fall back to environment variables:

	PORT                     → -p
	DATABASE_URL             → -d
	DATABASE_TYPE            → -t
	JWT_SECRET               → -jwt-secret
	UNIVERSITY_DELEGATES_ONLY → -delegates-only

CLI flags take precedence over environment variables. main loads a
.env file (godotenv) before parsing, so a local .env feeds the same
fallbacks.

# Validation

ParseFlags returns an error if DATABASE_URL or JWT_SECRET is missing,
or if the database type is not sqlite/postgres.
*/
package cliparse
