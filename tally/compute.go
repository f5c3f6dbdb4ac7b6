// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/campus-vote/models"
	"github.com/danielhkuo/campus-vote/scope"
	"github.com/danielhkuo/campus-vote/store"
)

// Snapshot is everything a tally reads, loaded up front so that Compute is a
// pure function.
type Snapshot struct {
	Election   models.Election
	Positions  []models.Position
	Candidates []models.Candidate // in insertion (id) order

	Departments []models.Department
	Courses     []models.Course

	// VoteCounts maps candidate id to votes.
	VoteCounts map[int64]int
	// DepartmentVotes maps candidate id to department id to votes.
	DepartmentVotes map[int64]map[int64]int
	// DepartmentVoters maps department id to registered voters.
	DepartmentVoters map[int64]int

	Population   []store.PopulationCell
	Participants []store.PopulationCell

	VotesCast  int
	LastVoteAt *time.Time
}

// Filter narrows a result set. Zero values select everything.
type Filter struct {
	Level        scope.Level
	DepartmentID int64
}

// MinTurnout is the number of participants a population of size denom needs
// for a valid result: a strict majority.
func MinTurnout(denom int) int {
	return denom/2 + 1
}

// Valid reports whether participants reach the majority of denom. An empty
// population is never valid.
func Valid(participants, denom int) bool {
	return denom > 0 && participants >= MinTurnout(denom)
}

// Percentage is votes as a whole-number share of base. A zero base yields 0.
func Percentage(votes, base int) int {
	if base <= 0 {
		return 0
	}
	return int(math.Round(float64(votes) / float64(base) * 100))
}

// Compute tallies a snapshot.
func Compute(snap Snapshot, filter Filter, now time.Time) models.ElectionResults {
	labels := newLabeler(snap.Departments, snap.Courses)
	turnout := sumCells(snap.Participants)

	res := models.ElectionResults{
		Election:   snap.Election,
		Totals:     buildTotals(snap.Election.ID, sumCells(snap.Population), turnout, snap.VotesCast, snap.LastVoteAt, now),
		Positions:  make(map[scope.Level][]models.PositionResult),
		ComputedAt: now,
	}
	for _, l := range scope.Levels {
		if filter.Level == "" || filter.Level == l {
			res.Positions[l] = []models.PositionResult{}
		}
	}

	byPosition := make(map[int64][]models.Candidate)
	for _, c := range snap.Candidates {
		byPosition[c.PositionID] = append(byPosition[c.PositionID], c)
	}

	for _, p := range snap.Positions {
		if _, ok := res.Positions[p.Level]; !ok {
			continue
		}

		pr := models.PositionResult{
			PositionID: p.ID,
			Name:       p.Name,
			Level:      p.Level,
			MaxWinners: p.MaxWinners,
			Groups:     []models.GroupResult{},
		}

		for _, g := range groupCandidates(p.Level, byPosition[p.ID]) {
			if !labels.inDepartment(p.Level, g.key, filter.DepartmentID) {
				continue
			}
			pr.Groups = append(pr.Groups, tallyGroup(snap, labels, p, g, turnout))
		}

		res.Positions[p.Level] = append(res.Positions[p.Level], pr)
	}

	return res
}

type group struct {
	key        scope.GroupKey
	candidates []models.Candidate
}

// groupCandidates partitions candidates by the level's grouping key. Groups
// come out in order of their first candidate.
func groupCandidates(level scope.Level, candidates []models.Candidate) []group {
	var groups []group
	index := make(map[scope.GroupKey]int)
	for _, c := range candidates {
		key := level.GroupOf(c.Attrs())
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, group{key: key})
		}
		groups[i].candidates = append(groups[i].candidates, c)
	}
	return groups
}

func tallyGroup(snap Snapshot, labels labeler, p models.Position, g group, turnout int) models.GroupResult {
	population := sumMembers(p.Level, g.key, snap.Population)
	participants := sumMembers(p.Level, g.key, snap.Participants)

	base := turnout
	if p.Level.PercentBase() == scope.BaseGroup {
		base = population
	}

	gr := models.GroupResult{
		Key:          g.key,
		Label:        labels.group(p.Level, g.key),
		TotalVoters:  population,
		Participants: participants,
		MinTurnout:   MinTurnout(population),
		Valid:        Valid(participants, population),
		Candidates:   make([]models.CandidateResult, 0, len(g.candidates)),
	}

	for _, c := range g.candidates {
		votes := snap.VoteCounts[c.ID]
		cr := models.CandidateResult{
			CandidateID:    c.ID,
			VoterID:        c.VoterID,
			Name:           c.Name,
			Slogan:         c.Slogan,
			PhotoPath:      c.PhotoPath,
			DepartmentID:   c.DepartmentID,
			DepartmentName: labels.departments[c.DepartmentID].Name,
			CourseID:       c.CourseID,
			YearLevel:      c.YearLevel,
			VotesCount:     votes,
			Percentage:     Percentage(votes, base),
		}
		if p.Level == scope.University {
			cr.DepartmentVotes = departmentBreakdown(snap, c.ID)
		}
		gr.Candidates = append(gr.Candidates, cr)
	}

	// Stable: equal counts keep insertion order.
	sort.SliceStable(gr.Candidates, func(i, j int) bool {
		return gr.Candidates[i].VotesCount > gr.Candidates[j].VotesCount
	})
	for i := range gr.Candidates {
		gr.Candidates[i].IsWinner = i < p.MaxWinners
	}

	return gr
}

// departmentBreakdown lists a candidate's votes in every department,
// including departments that gave none.
func departmentBreakdown(snap Snapshot, candidateID int64) []models.DepartmentVotes {
	out := make([]models.DepartmentVotes, 0, len(snap.Departments))
	for _, d := range snap.Departments {
		out = append(out, models.DepartmentVotes{
			DepartmentID:   d.ID,
			DepartmentName: d.Name,
			Votes:          snap.DepartmentVotes[candidateID][d.ID],
			TotalVoters:    snap.DepartmentVoters[d.ID],
		})
	}
	return out
}

func buildTotals(electionID int64, voters, participants, votes int, lastVoteAt *time.Time, now time.Time) models.Totals {
	t := models.Totals{
		ElectionID:   electionID,
		TotalVoters:  voters,
		Participants: participants,
		VotesCast:    votes,
		MinTurnout:   MinTurnout(voters),
		Valid:        Valid(participants, voters),
	}
	if lastVoteAt != nil {
		t.LastVoteAgo = humanize.RelTime(*lastVoteAt, now, "ago", "from now")
	}
	return t
}

func sumCells(cells []store.PopulationCell) int {
	n := 0
	for _, c := range cells {
		n += c.Count
	}
	return n
}

func sumMembers(level scope.Level, key scope.GroupKey, cells []store.PopulationCell) int {
	n := 0
	for _, c := range cells {
		if level.Members(c.Attrs, key) {
			n += c.Count
		}
	}
	return n
}

type labeler struct {
	departments map[int64]models.Department
	courses     map[int64]models.Course
}

func newLabeler(departments []models.Department, courses []models.Course) labeler {
	l := labeler{
		departments: make(map[int64]models.Department, len(departments)),
		courses:     make(map[int64]models.Course, len(courses)),
	}
	for _, d := range departments {
		l.departments[d.ID] = d
	}
	for _, c := range courses {
		l.courses[c.ID] = c
	}
	return l
}

func (l labeler) group(level scope.Level, key scope.GroupKey) string {
	switch level {
	case scope.University:
		return "University"
	case scope.Department:
		return l.departments[key.DepartmentID].Name
	case scope.Course:
		return l.courses[key.CourseID].Name
	case scope.YearLevel:
		return yearLabel(key.YearLevel)
	case scope.DepartmentCourseLevel:
		return fmt.Sprintf("%s / %s / %s", l.departments[key.DepartmentID].Code, l.courses[key.CourseID].Code, yearLabel(key.YearLevel))
	case scope.DepartmentYearLevel:
		return fmt.Sprintf("%s / %s", l.departments[key.DepartmentID].Code, yearLabel(key.YearLevel))
	}
	panic(fmt.Sprintf("tally: unhandled level %q", level))
}

// inDepartment applies the department filter. Department-scoped groups match
// on their department and course groups on their course's department; other
// levels span every department and always match.
func (l labeler) inDepartment(level scope.Level, key scope.GroupKey, departmentID int64) bool {
	if departmentID == 0 {
		return true
	}
	switch {
	case level.DepartmentScoped():
		return key.DepartmentID == departmentID
	case level == scope.Course:
		return l.courses[key.CourseID].DepartmentID == departmentID
	}
	return true
}

func yearLabel(year int) string {
	return humanize.Ordinal(year) + " Year"
}
