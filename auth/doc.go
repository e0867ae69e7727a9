// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides credential generation and verification utilities.

Two token kinds exist and must not be conflated:

# Vote Tokens

Vote tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateVoteToken()

A vote token is a capability: possession authorizes casting exactly one
vote in exactly one election. It carries no session identity and is
validated against the vote_token table, not a signature.

# Session Tokens

Session tokens are HS256 JWTs carrying the account ID and role:

	token, err := auth.GenerateSessionToken(accountID, role, secret)
	claims, err := auth.ParseSessionToken(token, secret)

Sessions expire after 8 hours and authenticate the profile, candidacy
and admin endpoints.

# Passwords

Passwords are hashed with bcrypt:

	hash, err := auth.HashPassword(password)
	ok := auth.CheckPassword(password, hash)

# IDs and Codes

Random hex IDs for elections, candidates and similar rows:

	id, err := auth.GenerateID(16) // 32 hex characters

UUIDs for account and student rows, and UCAO-XXXX-XXXX registration
codes for first-year onboarding:

	id := auth.NewAccountID()
	code, err := auth.GenerateRegistrationCode()
*/
package auth
