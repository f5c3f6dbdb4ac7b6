// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/campus-vote/auth"
)

func TestRequireVoterSession(t *testing.T) {
	const secret = "session-secret"

	valid, _, err := auth.IssueVoterSession(7, 3, secret, time.Minute)
	if err != nil {
		t.Fatalf("IssueVoterSession() error = %v", err)
	}
	otherSecret, _, _ := auth.IssueVoterSession(7, 3, "other-secret", time.Minute)

	var got auth.VoterClaims
	handler := RequireVoterSession(secret, func(w http.ResponseWriter, r *http.Request) {
		claims, ok := VoterClaimsFrom(r.Context())
		if !ok {
			t.Error("Expected voter claims in context")
		}
		got = claims
		w.WriteHeader(http.StatusOK)
	})

	testCases := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid session", "Bearer " + valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"signed with another secret", "Bearer " + otherSecret, http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got = auth.VoterClaims{}
			req := httptest.NewRequest("POST", "/ballot", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()

			handler(w, req)

			if w.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, w.Code)
			}
			if tc.wantStatus == http.StatusOK && (got.VoterID != 7 || got.ElectionID != 3) {
				t.Errorf("Expected claims for voter 7 election 3, got %+v", got)
			}
		})
	}

	if _, ok := VoterClaimsFrom(httptest.NewRequest("GET", "/", nil).Context()); ok {
		t.Error("Expected no claims outside RequireVoterSession")
	}
}

func TestRequireAdminKey(t *testing.T) {
	hash, err := auth.HashAdminKey("admin-key")
	if err != nil {
		t.Fatalf("HashAdminKey() error = %v", err)
	}

	called := false
	handler := RequireAdminKey(hash, func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})

	testCases := []struct {
		name       string
		key        string
		wantStatus int
		wantCalled bool
	}{
		{"valid key", "admin-key", http.StatusNoContent, true},
		{"wrong key", "guess", http.StatusUnauthorized, false},
		{"missing key", "", http.StatusUnauthorized, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			called = false
			req := httptest.NewRequest("POST", "/admin/ledger/add", nil)
			if tc.key != "" {
				req.Header.Set(AdminKeyHeader, tc.key)
			}
			w := httptest.NewRecorder()

			handler(w, req)

			if w.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, w.Code)
			}
			if called != tc.wantCalled {
				t.Errorf("Expected handler called = %v, got %v", tc.wantCalled, called)
			}
		})
	}
}
