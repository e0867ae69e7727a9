// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/kossiga/univote/auth"
)

type contextKey string

const sessionKey contextKey = "session"

// RequireAuth rejects requests that lack a valid Bearer session token.
// On success the parsed claims are stored in the request context.
func RequireAuth(secret []byte, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			ErrorResponse(w, http.StatusUnauthorized, "Authentification requise")
			return
		}

		claims, err := auth.ParseSessionToken(token, secret)
		if err != nil {
			ErrorResponse(w, http.StatusUnauthorized, "Session invalide ou expirée")
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// RequireRole is RequireAuth plus a role check.
func RequireRole(secret []byte, role string, next http.HandlerFunc) http.HandlerFunc {
	return RequireAuth(secret, func(w http.ResponseWriter, r *http.Request) {
		claims := SessionClaims(r)
		if claims == nil || claims.Role != role {
			ErrorResponse(w, http.StatusForbidden, "Accès refusé")
			return
		}
		next(w, r)
	})
}

// SessionClaims returns the claims stored by RequireAuth, or nil.
func SessionClaims(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(sessionKey).(*auth.Claims)
	return claims
}
