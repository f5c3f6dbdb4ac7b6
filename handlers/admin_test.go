// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/campus-vote/models"
	"github.com/danielhkuo/campus-vote/scope"
	"github.com/danielhkuo/campus-vote/testutil"
)

func TestAdminSetup(t *testing.T) {
	s := testutil.SetupTestDB(t)
	h := NewAdminHandler(s)

	post := func(handler http.HandlerFunc, path string, body interface{}, want int) int64 {
		t.Helper()
		w := httptest.NewRecorder()
		handler(w, testutil.MakeRequest("POST", path, body, nil))
		testutil.AssertStatus(t, w, want)
		if want != http.StatusCreated {
			return 0
		}
		var resp models.CreatedResponse
		testutil.AssertJSON(t, w, &resp)
		return resp.ID
	}

	dept := post(h.CreateDepartment, "/admin/departments", models.CreateDepartmentRequest{Code: "CCS", Name: "Computing"}, http.StatusCreated)
	post(h.CreateDepartment, "/admin/departments", models.CreateDepartmentRequest{Code: "CCS", Name: "Again"}, http.StatusConflict)

	course := post(h.CreateCourse, "/admin/courses", models.CreateCourseRequest{DepartmentID: dept, Code: "BSIT", Name: "IT"}, http.StatusCreated)
	post(h.CreateCourse, "/admin/courses", models.CreateCourseRequest{DepartmentID: 9999, Code: "BSX", Name: "X"}, http.StatusNotFound)

	now := time.Now().UTC()
	first := post(h.CreateElection, "/admin/elections", models.CreateElectionRequest{
		Name: "First", StartAt: now, EndAt: now.Add(time.Hour), IsActive: true,
	}, http.StatusCreated)
	second := post(h.CreateElection, "/admin/elections", models.CreateElectionRequest{
		Name: "Second", StartAt: now, EndAt: now.Add(time.Hour), IsActive: true,
	}, http.StatusCreated)
	post(h.CreateElection, "/admin/elections", models.CreateElectionRequest{
		Name: "Backwards", StartAt: now, EndAt: now.Add(-time.Hour),
	}, http.StatusBadRequest)

	active, err := s.Queries().ActiveElection(t.Context())
	if err != nil || active.ID != second {
		t.Fatalf("Expected election %d active, got %+v, %v", second, active, err)
	}
	if n := testutil.CountRows(t, s, "elections", "is_active = TRUE"); n != 1 {
		t.Errorf("Expected one active election, got %d", n)
	}

	pos := post(h.CreatePosition, "/admin/positions", models.CreatePositionRequest{
		ElectionID: first, Name: "Governor", MaxWinners: 1, Level: scope.Department,
	}, http.StatusCreated)
	post(h.CreatePosition, "/admin/positions", models.CreatePositionRequest{
		ElectionID: first, Name: "Mayor", MaxWinners: 1, Level: "galaxy",
	}, http.StatusConflict)

	voter := testutil.CreateTestVoter(t, s, "CAND", dept, course, 2)
	post(h.CreateCandidate, "/admin/candidates", models.CreateCandidateRequest{VoterID: voter.ID, PositionID: pos}, http.StatusCreated)
	post(h.CreateCandidate, "/admin/candidates", models.CreateCandidateRequest{VoterID: voter.ID, PositionID: pos}, http.StatusConflict)
	post(h.CreateCandidate, "/admin/candidates", models.CreateCandidateRequest{VoterID: 9999, PositionID: pos}, http.StatusNotFound)
}

func TestActivateDeactivateElection(t *testing.T) {
	s := testutil.SetupTestDB(t)
	h := NewAdminHandler(s)

	first := testutil.CreateTestElection(t, s, "First", true)
	second := testutil.CreateTestElection(t, s, "Second", false)

	call := func(handler http.HandlerFunc, id string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/admin/elections/"+id+"/x", nil)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		handler(w, req)
		return w
	}

	w := call(h.ActivateElection, strconv.FormatInt(second, 10))
	testutil.AssertStatus(t, w, http.StatusOK)
	var election models.Election
	testutil.AssertJSON(t, w, &election)
	if !election.IsActive || election.ID != second {
		t.Errorf("Unexpected election: %+v", election)
	}

	firstNow, err := s.Queries().ElectionByID(t.Context(), first)
	if err != nil || firstNow.IsActive {
		t.Errorf("Expected first election deactivated, got %+v, %v", firstNow, err)
	}

	testutil.AssertStatus(t, call(h.DeactivateElection, strconv.FormatInt(second, 10)), http.StatusOK)
	if _, err := s.Queries().ActiveElection(t.Context()); err == nil {
		t.Error("Expected no active election after deactivation")
	}

	testutil.AssertStatus(t, call(h.ActivateElection, "9999"), http.StatusNotFound)
	testutil.AssertStatus(t, call(h.DeactivateElection, "9999"), http.StatusNotFound)
	testutil.AssertStatus(t, call(h.ActivateElection, "0"), http.StatusBadRequest)
}

func TestLedgerEndpoints(t *testing.T) {
	f := newElectionFixture(t)
	h := NewAdminHandler(f.s)

	other := testutil.CreateTestVoter(t, f.s, "CAND-2", f.dept, f.course, 2)
	rival := testutil.CreateTestCandidate(t, f.s, other.ID, f.president.ID)
	senator := testutil.CreateTestPosition(t, f.s, f.election, "Senator", scope.University, 2)
	senVoter := testutil.CreateTestVoter(t, f.s, "SEN-1", f.dept, f.course, 4)
	sen := testutil.CreateTestCandidate(t, f.s, senVoter.ID, senator.ID)

	post := func(handler http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler(w, testutil.MakeRequest("POST", "/admin/ledger", body, nil))
		return w
	}

	// Four voters exist and none has a President vote yet.
	w := post(h.AddVotes, models.AddVotesRequest{CandidateIDs: []int64{f.candidate.ID}, Count: 3})
	testutil.AssertStatus(t, w, http.StatusOK)
	var summary models.LedgerSummary
	testutil.AssertJSON(t, w, &summary)
	if len(summary.Candidates) != 1 || summary.Candidates[0].Applied != 3 {
		t.Fatalf("Unexpected add summary: %+v", summary)
	}
	if n := testutil.CountRows(t, f.s, "voter_election_participations", ""); n != 0 {
		t.Errorf("Ledger writes must not create participations, got %d", n)
	}

	w = post(h.ReassignVotes, models.ReassignVotesRequest{SourceCandidateID: f.candidate.ID, TargetCandidateID: rival.ID, Count: 2})
	testutil.AssertStatus(t, w, http.StatusOK)
	var reassign models.ReassignSummary
	testutil.AssertJSON(t, w, &reassign)
	if reassign.Reassigned != 2 {
		t.Errorf("Unexpected reassign summary: %+v", reassign)
	}

	w = post(h.RemoveVotes, models.RemoveVotesRequest{CandidateIDs: []int64{rival.ID}, Count: 10})
	testutil.AssertStatus(t, w, http.StatusOK)
	summary = models.LedgerSummary{}
	testutil.AssertJSON(t, w, &summary)
	if summary.Candidates[0].Applied != 2 {
		t.Errorf("Unexpected remove summary: %+v", summary)
	}

	testCases := []struct {
		name       string
		handler    http.HandlerFunc
		body       interface{}
		wantStatus int
	}{
		{"cross position reassign", h.ReassignVotes, models.ReassignVotesRequest{SourceCandidateID: f.candidate.ID, TargetCandidateID: sen.ID, Count: 1}, http.StatusUnprocessableEntity},
		{"same candidate reassign", h.ReassignVotes, models.ReassignVotesRequest{SourceCandidateID: sen.ID, TargetCandidateID: sen.ID, Count: 1}, http.StatusBadRequest},
		{"unknown candidate", h.AddVotes, models.AddVotesRequest{CandidateIDs: []int64{9999}, Count: 1}, http.StatusNotFound},
		{"unknown source", h.AddVotes, models.AddVotesRequest{CandidateIDs: []int64{sen.ID}, Count: 1, Source: "hat"}, http.StatusBadRequest},
		{"zero count", h.RemoveVotes, models.RemoveVotesRequest{CandidateIDs: []int64{sen.ID}}, http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			testutil.AssertStatus(t, post(tc.handler, tc.body), tc.wantStatus)
		})
	}
}

func TestImportEndpoints(t *testing.T) {
	s := testutil.SetupTestDB(t)
	h := NewAdminHandler(s)
	dept := testutil.CreateTestDepartment(t, s, "CCS")
	testutil.CreateTestCourse(t, s, dept, "BSIT")

	t.Run("raw CSV body", func(t *testing.T) {
		body := "Code,First Name,Middle Name,Last Name,Sex,Course,Year\n2025-1,Ana,,Cruz,F,BSIT,1\n"
		req := httptest.NewRequest("POST", "/admin/import/csv", strings.NewReader(body))
		req.Header.Set("Content-Type", "text/csv")
		w := httptest.NewRecorder()

		h.ImportCSV(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var summary models.ImportSummary
		testutil.AssertJSON(t, w, &summary)
		if summary.VotersCreated != 1 {
			t.Errorf("Unexpected summary: %+v", summary)
		}
	})

	t.Run("multipart CSV upload", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, _ := mw.CreateFormFile("file", "roster.csv")
		part.Write([]byte("Code,First Name,Middle Name,Last Name,Sex,Course,Year\n2025-1,Ana,M,Cruz,F,BSIT,2\n"))
		mw.Close()

		req := httptest.NewRequest("POST", "/admin/import/csv", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()

		h.ImportCSV(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var summary models.ImportSummary
		testutil.AssertJSON(t, w, &summary)
		if summary.VotersUpdated != 1 {
			t.Errorf("Unexpected summary: %+v", summary)
		}
	})

	t.Run("CSV missing columns", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/admin/import/csv", strings.NewReader("Code\n1\n"))
		w := httptest.NewRecorder()
		h.ImportCSV(w, req)
		testutil.AssertStatus(t, w, http.StatusConflict)
	})

	t.Run("JSON roster", func(t *testing.T) {
		body := `{"departments": {"COE": {"name": "Engineering", "courses": {"BSCE": "Civil"}}},
			"voters": [{"code": "2025-2", "first_name": "Ben", "last_name": "Reyes", "sex": "M", "department": "COE", "course": "BSCE", "year_level": 1}]}`
		req := httptest.NewRequest("POST", "/admin/import/json", strings.NewReader(body))
		w := httptest.NewRecorder()

		h.ImportJSON(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var summary models.ImportSummary
		testutil.AssertJSON(t, w, &summary)
		if summary.DepartmentsCreated != 1 || summary.CoursesCreated != 1 || summary.VotersCreated != 1 {
			t.Errorf("Unexpected summary: %+v", summary)
		}
	})

	t.Run("JSON bad election id", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/admin/import/json?election_id=x", strings.NewReader("{}"))
		w := httptest.NewRecorder()
		h.ImportJSON(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}
