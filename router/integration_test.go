// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/danielhkuo/campus-vote/middleware"
	"github.com/danielhkuo/campus-vote/models"
	"github.com/danielhkuo/campus-vote/scope"
	"github.com/danielhkuo/campus-vote/testutil"
)

// TestElectionLifecycle drives one election end to end through the router:
// setup, registration, login, ballot, results, and ledger correction.
func TestElectionLifecycle(t *testing.T) {
	s := testutil.SetupTestDB(t)
	mux := NewRouter(s, testutil.GetTestConfig())
	adminHeaders := map[string]string{middleware.AdminKeyHeader: testutil.TestAdminKey}

	do := func(method, path string, body interface{}, headers map[string]string, want int) *httptest.ResponseRecorder {
		t.Helper()
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest(method, path, body, headers))
		if w.Code != want {
			t.Fatalf("%s %s: expected %d, got %d. Body: %s", method, path, want, w.Code, w.Body.String())
		}
		return w
	}
	created := func(w *httptest.ResponseRecorder) int64 {
		t.Helper()
		var resp models.CreatedResponse
		testutil.AssertJSON(t, w, &resp)
		return resp.ID
	}

	// Step 1: administrator sets up the roster and the election
	dept := created(do("POST", "/admin/departments", models.CreateDepartmentRequest{Code: "CCS", Name: "Computing"}, adminHeaders, http.StatusCreated))
	course := created(do("POST", "/admin/courses", models.CreateCourseRequest{DepartmentID: dept, Code: "BSIT", Name: "IT"}, adminHeaders, http.StatusCreated))

	now := time.Now().UTC()
	election := created(do("POST", "/admin/elections", models.CreateElectionRequest{
		Name: "Student Council", StartAt: now, EndAt: now.Add(24 * time.Hour), IsActive: true,
	}, adminHeaders, http.StatusCreated))
	president := created(do("POST", "/admin/positions", models.CreatePositionRequest{
		ElectionID: election, Name: "President", MaxWinners: 1, Level: scope.University,
	}, adminHeaders, http.StatusCreated))

	// Without the key nothing is created
	do("POST", "/admin/departments", models.CreateDepartmentRequest{Code: "X", Name: "X"}, nil, http.StatusUnauthorized)

	// Step 2: voters register, one of them runs
	register := func(code string) int64 {
		return created(do("POST", "/voters/register", models.RegisterVoterRequest{
			Code: code, LastName: "Student", FirstName: code, Sex: "M",
			DepartmentID: dept, CourseID: course, YearLevel: 1,
		}, nil, http.StatusCreated))
	}
	candVoter := register("C-1")
	register("V-1")
	register("V-2")

	candidate := created(do("POST", "/admin/candidates", models.CreateCandidateRequest{
		VoterID: candVoter, PositionID: president, Slogan: "Forward",
	}, adminHeaders, http.StatusCreated))

	// Step 3: V-1 logs in and votes
	var login models.LoginResponse
	testutil.AssertJSON(t, do("POST", "/voter/login", models.LoginRequest{Code: "V-1"}, nil, http.StatusOK), &login)
	session := map[string]string{"Authorization": "Bearer " + login.SessionToken}

	var ballot models.BallotResponse
	testutil.AssertJSON(t, do("GET", "/voter/ballot", nil, session, http.StatusOK), &ballot)
	if len(ballot.Positions) != 1 || len(ballot.Positions[0].Candidates) != 1 {
		t.Fatalf("Unexpected ballot: %+v", ballot)
	}

	var submitted models.SubmitBallotResponse
	testutil.AssertJSON(t, do("POST", "/voter/ballot", models.SubmitBallotRequest{
		Votes: []models.Selection{{PositionID: president, CandidateID: candidate}},
	}, session, http.StatusCreated), &submitted)
	if submitted.Receipt.ElectionID != election || submitted.Receipt.VotesRecorded != 1 {
		t.Errorf("Unexpected receipt: %+v", submitted.Receipt)
	}

	// Step 4: the same voter is turned away
	do("POST", "/voter/ballot", models.SubmitBallotRequest{}, session, http.StatusConflict)
	do("POST", "/voter/login", models.LoginRequest{Code: "V-1"}, nil, http.StatusConflict)

	// Step 5: results. 1 of 3 voters participated, below the 2 needed.
	var results models.ElectionResults
	testutil.AssertJSON(t, do("GET", "/results", nil, nil, http.StatusOK), &results)
	groups := results.Positions[scope.University][0].Groups
	if groups[0].Valid || groups[0].MinTurnout != 2 || groups[0].Candidates[0].VotesCount != 1 {
		t.Errorf("Unexpected group result: %+v", groups[0])
	}

	// V-2 votes blank, which makes the election valid without adding votes
	var login2 models.LoginResponse
	testutil.AssertJSON(t, do("POST", "/voter/login", models.LoginRequest{Code: "V-2"}, nil, http.StatusOK), &login2)
	do("POST", "/voter/ballot", models.SubmitBallotRequest{}, map[string]string{"Authorization": "Bearer " + login2.SessionToken}, http.StatusCreated)

	var totals models.Totals
	testutil.AssertJSON(t, do("GET", "/results/totals", nil, nil, http.StatusOK), &totals)
	if !totals.Valid || totals.Participants != 2 || totals.VotesCast != 1 || totals.LastVoteAgo == "" {
		t.Errorf("Unexpected totals: %+v", totals)
	}

	// Step 6: ledger correction adds votes without participation
	do("POST", "/admin/ledger/add", models.AddVotesRequest{CandidateIDs: []int64{candidate}, Count: 5}, adminHeaders, http.StatusOK)
	if n := testutil.CountRows(t, s, "votes", "candidate_id = ?", candidate); n != 3 {
		t.Errorf("Expected 3 votes (one per voter), got %d", n)
	}
	if n := testutil.CountRows(t, s, "voter_election_participations", ""); n != 2 {
		t.Errorf("Expected participations unchanged at 2, got %d", n)
	}

	// Step 7: department roster shows who participated
	var roster models.RosterPage
	testutil.AssertJSON(t, do("GET", "/departments/"+strconv.FormatInt(dept, 10)+"/voters", nil, nil, http.StatusOK), &roster)
	participated := 0
	for _, v := range roster.Voters {
		if v.Participated {
			participated++
		}
	}
	if roster.Total != 3 || participated != 2 {
		t.Errorf("Unexpected roster: total %d, participated %d", roster.Total, participated)
	}
}
