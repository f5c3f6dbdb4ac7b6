// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Every request gets an id (X-Request-ID from the client or a fresh UUID),
echoed in the response header and logged with start and completion.

# Authentication

Voter endpoints take a bearer session token issued at login:

	mux.HandleFunc("POST /ballot", middleware.RequireVoterSession(secret, h.SubmitBallot))

	claims, _ := middleware.VoterClaimsFrom(r.Context())

Administrative endpoints take the plaintext admin key in X-Admin-Key,
checked against the configured bcrypt hash:

	mux.HandleFunc("POST /admin/ledger/add", middleware.RequireAdminKey(hash, h.AddVotes))

# JSON Helpers

	var req models.LoginRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Used for the salted IP hash stored with each participation.
*/
package middleware
