// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielhkuo/campus-vote/auth"
)

// AdminKeyHeader carries the plaintext admin key.
const AdminKeyHeader = "X-Admin-Key"

// RequireVoterSession rejects requests without a valid voter session token
// in the Authorization header and stores the claims in the request context.
func RequireVoterSession(secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			ErrorResponse(w, http.StatusUnauthorized, "Bearer session token required")
			return
		}

		claims, err := auth.ParseVoterSession(token, secret)
		if err != nil {
			ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired session")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), voterClaimsKey, claims)))
	}
}

// VoterClaimsFrom returns the claims stored by RequireVoterSession.
func VoterClaimsFrom(ctx context.Context) (auth.VoterClaims, bool) {
	claims, ok := ctx.Value(voterClaimsKey).(auth.VoterClaims)
	return claims, ok
}

// RequireAdminKey rejects requests whose X-Admin-Key does not match hash.
func RequireAdminKey(hash string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(AdminKeyHeader)
		if key == "" {
			ErrorResponse(w, http.StatusUnauthorized, "X-Admin-Key header required")
			return
		}
		if err := auth.CheckAdminKey(key, hash); err != nil {
			ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
			return
		}
		next(w, r)
	}
}
