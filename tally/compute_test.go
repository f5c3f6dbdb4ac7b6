// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"testing"
	"time"

	"github.com/danielhkuo/campus-vote/models"
	"github.com/danielhkuo/campus-vote/scope"
	"github.com/danielhkuo/campus-vote/store"
)

func TestMinTurnoutAndValid(t *testing.T) {
	tests := []struct {
		name         string
		participants int
		denom        int
		wantMin      int
		wantValid    bool
	}{
		{"49 of 100", 49, 100, 51, false},
		{"50 of 100", 50, 100, 51, false},
		{"exactly threshold", 51, 100, 51, true},
		{"all voted", 100, 100, 51, true},
		{"odd population below", 49, 99, 50, false},
		{"odd population at", 50, 99, 50, true},
		{"single voter", 1, 1, 1, true},
		{"empty population", 0, 0, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MinTurnout(tt.denom); got != tt.wantMin {
				t.Errorf("MinTurnout(%d) = %d, want %d", tt.denom, got, tt.wantMin)
			}
			if got := Valid(tt.participants, tt.denom); got != tt.wantValid {
				t.Errorf("Valid(%d, %d) = %v, want %v", tt.participants, tt.denom, got, tt.wantValid)
			}
		})
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		votes, base, want int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds half away from zero
		{10, 10, 100},
	}

	for _, tt := range tests {
		if got := Percentage(tt.votes, tt.base); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tt.votes, tt.base, got, tt.want)
		}
	}
}

// baseSnapshot has two departments with one course each. Department 1 has
// 100 voters in year 1; department 2 has 20 voters in year 2.
func baseSnapshot() Snapshot {
	return Snapshot{
		Election: models.Election{ID: 1, Name: "General", IsActive: true},
		Departments: []models.Department{
			{ID: 1, Code: "CCS", Name: "College of Computing"},
			{ID: 2, Code: "COE", Name: "College of Engineering"},
		},
		Courses: []models.Course{
			{ID: 10, DepartmentID: 1, Code: "BSIT", Name: "Information Technology"},
			{ID: 20, DepartmentID: 2, Code: "BSCE", Name: "Civil Engineering"},
		},
		Population: []store.PopulationCell{
			{Attrs: scope.VoterAttrs{DepartmentID: 1, CourseID: 10, YearLevel: 1}, Count: 100},
			{Attrs: scope.VoterAttrs{DepartmentID: 2, CourseID: 20, YearLevel: 2}, Count: 20},
		},
		VoteCounts:       map[int64]int{},
		DepartmentVotes:  map[int64]map[int64]int{},
		DepartmentVoters: map[int64]int{1: 100, 2: 20},
	}
}

func candidate(id, positionID, dept, course int64, year int) models.Candidate {
	return models.Candidate{
		ID: id, PositionID: positionID, ElectionID: 1, Name: "Candidate",
		DepartmentID: dept, CourseID: course, YearLevel: year,
	}
}

func onlyPosition(t *testing.T, res models.ElectionResults, level scope.Level) models.PositionResult {
	t.Helper()
	positions := res.Positions[level]
	if len(positions) != 1 {
		t.Fatalf("expected 1 %s position, got %d", level, len(positions))
	}
	return positions[0]
}

func TestCompute_RankingTiesAndWinners(t *testing.T) {
	snap := baseSnapshot()
	snap.Positions = []models.Position{{ID: 1, ElectionID: 1, Name: "Senator", MaxWinners: 2, Level: scope.University}}
	snap.Candidates = []models.Candidate{
		candidate(11, 1, 1, 10, 1),
		candidate(12, 1, 1, 10, 1),
		candidate(13, 1, 2, 20, 2),
		candidate(14, 1, 2, 20, 2),
	}
	snap.VoteCounts = map[int64]int{11: 5, 12: 5, 13: 7}
	snap.Participants = []store.PopulationCell{
		{Attrs: scope.VoterAttrs{DepartmentID: 1, CourseID: 10, YearLevel: 1}, Count: 20},
	}

	pos := onlyPosition(t, Compute(snap, Filter{}, time.Now()), scope.University)
	if len(pos.Groups) != 1 {
		t.Fatalf("university positions have one group, got %d", len(pos.Groups))
	}

	got := pos.Groups[0].Candidates
	wantOrder := []int64{13, 11, 12, 14}
	wantWinner := []bool{true, true, false, false}
	for i, c := range got {
		if c.CandidateID != wantOrder[i] {
			t.Errorf("rank %d = candidate %d, want %d", i, c.CandidateID, wantOrder[i])
		}
		if c.IsWinner != wantWinner[i] {
			t.Errorf("candidate %d winner = %v, want %v", c.CandidateID, c.IsWinner, wantWinner[i])
		}
	}

	// University percentages use global turnout (20).
	if got[0].Percentage != 35 {
		t.Errorf("percentage = %d, want 35", got[0].Percentage)
	}
	if got[3].VotesCount != 0 || got[3].Percentage != 0 {
		t.Errorf("candidate without votes = %+v", got[3])
	}
}

func TestCompute_DepartmentTurnoutBoundary(t *testing.T) {
	tests := []struct {
		name         string
		participants int
		wantValid    bool
	}{
		{"49 of 100", 49, false},
		{"50 of 100", 50, false},
		{"51 of 100", 51, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := baseSnapshot()
			snap.Positions = []models.Position{{ID: 1, Name: "Governor", MaxWinners: 1, Level: scope.Department}}
			snap.Candidates = []models.Candidate{candidate(11, 1, 1, 10, 1), candidate(12, 1, 2, 20, 2)}
			snap.VoteCounts = map[int64]int{11: tt.participants}
			snap.Participants = []store.PopulationCell{
				{Attrs: scope.VoterAttrs{DepartmentID: 1, CourseID: 10, YearLevel: 1}, Count: tt.participants},
				{Attrs: scope.VoterAttrs{DepartmentID: 2, CourseID: 20, YearLevel: 2}, Count: 20},
			}

			pos := onlyPosition(t, Compute(snap, Filter{}, time.Now()), scope.Department)
			if len(pos.Groups) != 2 {
				t.Fatalf("expected one group per department, got %d", len(pos.Groups))
			}

			ccs := pos.Groups[0]
			if ccs.Key.DepartmentID != 1 || ccs.Label != "College of Computing" {
				t.Fatalf("unexpected first group %+v", ccs.Key)
			}
			if ccs.TotalVoters != 100 || ccs.Participants != tt.participants || ccs.MinTurnout != 51 {
				t.Errorf("group counts = %d/%d min %d", ccs.Participants, ccs.TotalVoters, ccs.MinTurnout)
			}
			if ccs.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v", ccs.Valid, tt.wantValid)
			}
			// Department percentages use the department's voter count.
			if ccs.Candidates[0].Percentage != tt.participants {
				t.Errorf("percentage = %d, want %d", ccs.Candidates[0].Percentage, tt.participants)
			}

			coe := pos.Groups[1]
			if !coe.Valid || coe.Candidates[0].Percentage != 0 {
				t.Errorf("COE group = %+v", coe)
			}
		})
	}
}

func TestCompute_UniversityDepartmentBreakdown(t *testing.T) {
	snap := baseSnapshot()
	snap.Positions = []models.Position{{ID: 1, Name: "President", MaxWinners: 1, Level: scope.University}}
	snap.Candidates = []models.Candidate{candidate(11, 1, 1, 10, 1)}
	snap.VoteCounts = map[int64]int{11: 3}
	snap.DepartmentVotes = map[int64]map[int64]int{11: {1: 3}}

	pos := onlyPosition(t, Compute(snap, Filter{}, time.Now()), scope.University)
	breakdown := pos.Groups[0].Candidates[0].DepartmentVotes
	if len(breakdown) != 2 {
		t.Fatalf("breakdown should list every department, got %d", len(breakdown))
	}
	if breakdown[0].DepartmentID != 1 || breakdown[0].Votes != 3 || breakdown[0].TotalVoters != 100 {
		t.Errorf("CCS breakdown = %+v", breakdown[0])
	}
	if breakdown[1].DepartmentID != 2 || breakdown[1].Votes != 0 || breakdown[1].TotalVoters != 20 {
		t.Errorf("zero-vote department breakdown = %+v", breakdown[1])
	}
}

func TestCompute_GroupingByLevel(t *testing.T) {
	snap := baseSnapshot()
	snap.Population = append(snap.Population,
		store.PopulationCell{Attrs: scope.VoterAttrs{DepartmentID: 1, CourseID: 10, YearLevel: 2}, Count: 30})
	snap.Positions = []models.Position{
		{ID: 1, Name: "Course Rep", MaxWinners: 1, Level: scope.Course},
		{ID: 2, Name: "Year Rep", MaxWinners: 1, Level: scope.YearLevel},
		{ID: 3, Name: "Block Rep", MaxWinners: 1, Level: scope.DepartmentCourseLevel},
		{ID: 4, Name: "Class Rep", MaxWinners: 1, Level: scope.DepartmentYearLevel},
	}
	snap.Candidates = []models.Candidate{
		candidate(11, 1, 1, 10, 1), candidate(12, 1, 2, 20, 2),
		candidate(21, 2, 1, 10, 1), candidate(22, 2, 1, 10, 2), candidate(23, 2, 2, 20, 2),
		candidate(31, 3, 1, 10, 1), candidate(32, 3, 1, 10, 2),
		candidate(41, 4, 1, 10, 2), candidate(42, 4, 2, 20, 2),
	}

	res := Compute(snap, Filter{}, time.Now())

	tests := []struct {
		level      scope.Level
		wantGroups []int // population per group, in order
		wantLabel  string
	}{
		{scope.Course, []int{130, 20}, "Information Technology"},
		{scope.YearLevel, []int{100, 50}, "1st Year"},
		{scope.DepartmentCourseLevel, []int{100, 30}, "CCS / BSIT / 1st Year"},
		{scope.DepartmentYearLevel, []int{30, 20}, "CCS / 2nd Year"},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			pos := onlyPosition(t, res, tt.level)
			if len(pos.Groups) != len(tt.wantGroups) {
				t.Fatalf("groups = %d, want %d", len(pos.Groups), len(tt.wantGroups))
			}
			for i, want := range tt.wantGroups {
				if pos.Groups[i].TotalVoters != want {
					t.Errorf("group %d population = %d, want %d", i, pos.Groups[i].TotalVoters, want)
				}
			}
			if pos.Groups[0].Label != tt.wantLabel {
				t.Errorf("label = %q, want %q", pos.Groups[0].Label, tt.wantLabel)
			}
		})
	}
}

func TestCompute_Filters(t *testing.T) {
	snap := baseSnapshot()
	snap.Positions = []models.Position{
		{ID: 1, Name: "President", MaxWinners: 1, Level: scope.University},
		{ID: 2, Name: "Governor", MaxWinners: 1, Level: scope.Department},
		{ID: 3, Name: "Course Rep", MaxWinners: 1, Level: scope.Course},
	}
	snap.Candidates = []models.Candidate{
		candidate(11, 1, 1, 10, 1),
		candidate(21, 2, 1, 10, 1), candidate(22, 2, 2, 20, 2),
		candidate(31, 3, 1, 10, 1), candidate(32, 3, 2, 20, 2),
	}

	onlyDept := Compute(snap, Filter{Level: scope.Department}, time.Now())
	if len(onlyDept.Positions) != 1 {
		t.Errorf("level filter should keep one level, got %d", len(onlyDept.Positions))
	}

	coe := Compute(snap, Filter{DepartmentID: 2}, time.Now())
	if g := onlyPosition(t, coe, scope.Department).Groups; len(g) != 1 || g[0].Key.DepartmentID != 2 {
		t.Errorf("department filter on department level = %+v", g)
	}
	if g := onlyPosition(t, coe, scope.Course).Groups; len(g) != 1 || g[0].Key.CourseID != 20 {
		t.Errorf("department filter on course level = %+v", g)
	}
	if g := onlyPosition(t, coe, scope.University).Groups; len(g) != 1 {
		t.Errorf("department filter should not drop university groups, got %d", len(g))
	}
	if len(coe.Positions[scope.YearLevel]) != 0 {
		t.Errorf("levels without positions should be empty")
	}
}

func TestCompute_Totals(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	last := now.Add(-3 * time.Minute)

	snap := baseSnapshot()
	snap.VotesCast = 90
	snap.LastVoteAt = &last
	snap.Participants = []store.PopulationCell{
		{Attrs: scope.VoterAttrs{DepartmentID: 1, CourseID: 10, YearLevel: 1}, Count: 60},
		{Attrs: scope.VoterAttrs{DepartmentID: 2, CourseID: 20, YearLevel: 2}, Count: 1},
	}

	totals := Compute(snap, Filter{}, now).Totals
	if totals.TotalVoters != 120 || totals.Participants != 61 || totals.VotesCast != 90 {
		t.Errorf("totals = %+v", totals)
	}
	if totals.MinTurnout != 61 || !totals.Valid {
		t.Errorf("turnout = min %d valid %v, want 61 true", totals.MinTurnout, totals.Valid)
	}
	if totals.LastVoteAgo != "3 minutes ago" {
		t.Errorf("LastVoteAgo = %q", totals.LastVoteAgo)
	}
}
