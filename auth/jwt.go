// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionTTL is how long a login session stays valid.
const SessionTTL = 8 * time.Hour

// Claims carries the account identity inside a session JWT.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"accountId"`
	Role      string `json:"role"`
}

// GenerateSessionToken signs an HS256 session JWT for an account.
func GenerateSessionToken(accountID, role string, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		AccountID: accountID,
		Role:      role,
	})

	return token.SignedString(secret)
}

// ParseSessionToken verifies a session JWT and returns its claims.
func ParseSessionToken(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSessionToken
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, ErrInvalidSessionToken
	}

	return claims, nil
}
