// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewAccountID returns a UUID string for account and student rows
func NewAccountID() string {
	return uuid.NewString()
}

// GenerateVoteToken creates a random secure vote token.
// The token is a bearer credential: possession authorizes exactly one
// vote in exactly one election. It is distinct from session tokens.
func GenerateVoteToken() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate vote token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// GenerateRegistrationCode creates a registration code in the
// UCAO-XXXX-XXXX format handed to first-year students.
func GenerateRegistrationCode() (string, error) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	b := make([]byte, 8)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate registration code: %w", err)
	}
	chars := make([]byte, 8)
	for i, v := range b {
		chars[i] = alphabet[int(v)%len(alphabet)]
	}
	return fmt.Sprintf("UCAO-%s-%s", chars[:4], chars[4:]), nil
}
