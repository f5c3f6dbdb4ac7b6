// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/campus-vote/auth"
	"github.com/danielhkuo/campus-vote/cliparse"
	"github.com/danielhkuo/campus-vote/db"
	"github.com/danielhkuo/campus-vote/models"
	"github.com/danielhkuo/campus-vote/scope"
	"github.com/danielhkuo/campus-vote/store"
)

// TestAdminKey is the plaintext admin key accepted by GetTestConfig.
const TestAdminKey = "test-admin-key"

var (
	adminKeyHashOnce sync.Once
	adminKeyHash     string
)

// SetupTestDB creates a fresh test database with the full schema. By default
// every test gets its own SQLite file; set TEST_DATABASE_URL to run against
// Postgres instead.
func SetupTestDB(t *testing.T) *store.Store {
	t.Helper()

	dbType, url := db.SQLite, filepath.Join(t.TempDir(), "test.db")
	if pgURL := os.Getenv("TEST_DATABASE_URL"); pgURL != "" {
		dbType, url = db.Postgres, pgURL
	}

	conn, err := db.Open(dbType, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if dbType == db.Postgres {
		// Clean up tables before each test
		_, err = conn.Exec(`
			DROP TABLE IF EXISTS voter_election_participations CASCADE;
			DROP TABLE IF EXISTS votes CASCADE;
			DROP TABLE IF EXISTS candidates CASCADE;
			DROP TABLE IF EXISTS positions CASCADE;
			DROP TABLE IF EXISTS elections CASCADE;
			DROP TABLE IF EXISTS voters CASCADE;
			DROP TABLE IF EXISTS courses CASCADE;
			DROP TABLE IF EXISTS departments CASCADE;
		`)
		if err != nil {
			t.Fatalf("Failed to clean database: %v", err)
		}
	}

	if err := db.CreateSchema(conn, dbType); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return store.New(conn, dbType)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	adminKeyHashOnce.Do(func() {
		hash, err := auth.HashAdminKey(TestAdminKey)
		if err != nil {
			panic(err)
		}
		adminKeyHash = hash
	})

	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   "test",
		DatabaseType:  db.SQLite,
		SessionSecret: "test-session-secret",
		AdminKeyHash:  adminKeyHash,
		ReceiptSalt:   "test-receipt-salt",
		SessionTTL:    30 * time.Minute,
	}
}

// CreateTestDepartment creates a department with the given code
func CreateTestDepartment(t *testing.T, s *store.Store, code string) int64 {
	t.Helper()

	id, err := s.Queries().CreateDepartment(context.Background(), code, "Department of "+code)
	if err != nil {
		t.Fatalf("Failed to create test department: %v", err)
	}
	return id
}

// CreateTestCourse creates a course under a department
func CreateTestCourse(t *testing.T, s *store.Store, departmentID int64, code string) int64 {
	t.Helper()

	id, err := s.Queries().CreateCourse(context.Background(), departmentID, code, "Course "+code)
	if err != nil {
		t.Fatalf("Failed to create test course: %v", err)
	}
	return id
}

// CreateTestVoter registers a voter with the given code and placement
func CreateTestVoter(t *testing.T, s *store.Store, code string, departmentID, courseID int64, yearLevel int) models.Voter {
	t.Helper()

	ctx := context.Background()
	id, err := s.Queries().CreateVoter(ctx, models.Voter{
		Code:         code,
		LastName:     "Voter",
		FirstName:    code,
		Sex:          "F",
		DepartmentID: departmentID,
		CourseID:     courseID,
		YearLevel:    yearLevel,
	})
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	v, err := s.Queries().VoterByID(ctx, id)
	if err != nil {
		t.Fatalf("Failed to load test voter: %v", err)
	}
	return v
}

// CreateTestElection creates an election; active elections become the only
// active one
func CreateTestElection(t *testing.T, s *store.Store, name string, active bool) int64 {
	t.Helper()

	ctx := context.Background()
	now := time.Now().UTC()
	id, err := s.Queries().CreateElection(ctx, name, now.Add(-time.Hour), now.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	if active {
		err := s.WithTx(ctx, func(q *store.Queries) error {
			return q.ActivateElection(ctx, id)
		})
		if err != nil {
			t.Fatalf("Failed to activate test election: %v", err)
		}
	}
	return id
}

// CreateTestPosition adds a position to an election
func CreateTestPosition(t *testing.T, s *store.Store, electionID int64, name string, level scope.Level, maxWinners int) models.Position {
	t.Helper()

	ctx := context.Background()
	id, err := s.Queries().CreatePosition(ctx, models.Position{
		ElectionID: electionID,
		Name:       name,
		MaxWinners: maxWinners,
		Level:      level,
	})
	if err != nil {
		t.Fatalf("Failed to create test position: %v", err)
	}

	p, err := s.Queries().PositionByID(ctx, id)
	if err != nil {
		t.Fatalf("Failed to load test position: %v", err)
	}
	return p
}

// CreateTestCandidate registers a voter as a candidate for a position
func CreateTestCandidate(t *testing.T, s *store.Store, voterID, positionID int64) models.Candidate {
	t.Helper()

	ctx := context.Background()
	id, err := s.Queries().CreateCandidate(ctx, models.CreateCandidateRequest{
		VoterID:    voterID,
		PositionID: positionID,
		Slogan:     "Vote for me",
	})
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	c, err := s.Queries().CandidateByID(ctx, id)
	if err != nil {
		t.Fatalf("Failed to load test candidate: %v", err)
	}
	return c
}

// InsertTestVote writes a vote row directly, bypassing the ballot checks
func InsertTestVote(t *testing.T, s *store.Store, voterID int64, c models.Candidate) {
	t.Helper()

	_, err := s.Queries().InsertVote(context.Background(), voterID, c.ID, c.PositionID, c.ElectionID, time.Now())
	if err != nil {
		t.Fatalf("Failed to insert test vote: %v", err)
	}
}

// InsertTestParticipation records that a voter participated in an election
func InsertTestParticipation(t *testing.T, s *store.Store, voterID, electionID int64) {
	t.Helper()

	_, err := s.Queries().InsertParticipation(context.Background(), voterID, electionID, time.Now(), nil, nil)
	if err != nil {
		t.Fatalf("Failed to insert test participation: %v", err)
	}
}

// CountRows counts the rows of a table matching an optional WHERE clause
// written with '?' placeholders
func CountRows(t *testing.T, s *store.Store, table, where string, args ...any) int {
	t.Helper()

	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}

	var n int
	if err := s.DB().QueryRow(db.Rebind(s.DBType(), query), args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
