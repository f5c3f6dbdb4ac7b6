// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/danielhkuo/campus-vote/middleware"
	"github.com/danielhkuo/campus-vote/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	s := testutil.SetupTestDB(t)
	mux := NewRouter(s, testutil.GetTestConfig())

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	s := testutil.SetupTestDB(t)
	mux := NewRouter(s, testutil.GetTestConfig())

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "campus-vote API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}

	req = httptest.NewRequest("GET", "/no-such-route", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown path, got %d", w.Code)
	}
}

func TestRouteExistence(t *testing.T) {
	s := testutil.SetupTestDB(t)
	mux := NewRouter(s, testutil.GetTestConfig())

	// Handlers may answer 400, 401, 404 or 409 without data. A mux 404 carries
	// no request id, so it is told apart from a handler 404.
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},

		{"POST", "/voters/register"},
		{"POST", "/voter/login"},
		{"GET", "/voter/ballot"},
		{"POST", "/voter/ballot"},

		{"GET", "/results"},
		{"GET", "/results/totals"},
		{"GET", "/departments/1/voters"},

		{"POST", "/admin/departments"},
		{"POST", "/admin/courses"},
		{"POST", "/admin/elections"},
		{"POST", "/admin/elections/1/activate"},
		{"POST", "/admin/elections/1/deactivate"},
		{"POST", "/admin/positions"},
		{"POST", "/admin/candidates"},
		{"POST", "/admin/ledger/add"},
		{"POST", "/admin/ledger/remove"},
		{"POST", "/admin/ledger/reassign"},
		{"POST", "/admin/import/json"},
		{"POST", "/admin/import/csv"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed || (w.Code == http.StatusNotFound && w.Header().Get(middleware.RequestIDHeader) == "") {
				t.Errorf("Route %s %s returned %d, expected route handler to exist", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := testutil.SetupTestDB(t)
	mux := NewRouter(s, testutil.GetTestConfig())

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},
		{"DELETE", "/voter/ballot"},
		{"GET", "/admin/ledger/add"},
		{"PUT", "/admin/elections/1/activate"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestProtectedRoutes(t *testing.T) {
	s := testutil.SetupTestDB(t)
	mux := NewRouter(s, testutil.GetTestConfig())

	testCases := []struct {
		name   string
		method string
		path   string
	}{
		{"ballot needs session", "GET", "/voter/ballot"},
		{"submit needs session", "POST", "/voter/ballot"},
		{"ledger needs admin key", "POST", "/admin/ledger/add"},
		{"import needs admin key", "POST", "/admin/import/csv"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401, got %d", w.Code)
			}
		})
	}
}

func TestPathParameterExtraction(t *testing.T) {
	s := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := NewRouter(s, cfg)

	electionID := testutil.CreateTestElection(t, s, "General", false)

	t.Run("election ID extraction", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/admin/elections/"+strconv.FormatInt(electionID, 10)+"/activate", nil)
		req.Header.Set(middleware.AdminKeyHeader, testutil.TestAdminKey)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200 with valid admin key, got %d. Body: %s", w.Code, w.Body.String())
		}
	})

	t.Run("non-numeric ID", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/admin/elections/abc/activate", nil)
		req.Header.Set(middleware.AdminKeyHeader, testutil.TestAdminKey)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}
