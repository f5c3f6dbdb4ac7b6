// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/danielhkuo/campus-vote/scope"
)

// Vote sources accepted by the ledger add operation
const (
	SourceRandom         = "random"
	SourceOtherPositions = "other_positions"
)

// Domain types

type Department struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type Course struct {
	ID           int64  `json:"id"`
	DepartmentID int64  `json:"department_id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
}

type Voter struct {
	ID           int64     `json:"id"`
	Code         string    `json:"-"` // Login credential, never echoed back
	LastName     string    `json:"last_name"`
	FirstName    string    `json:"first_name"`
	MiddleName   string    `json:"middle_name"`
	Sex          string    `json:"sex"`
	DepartmentID int64     `json:"department_id"`
	CourseID     int64     `json:"course_id"`
	YearLevel    int       `json:"year_level"`
	HasVoted     bool      `json:"has_voted"`
	CreatedAt    time.Time `json:"created_at"`
}

// Name renders "Last, First Middle".
func (v Voter) Name() string {
	name := v.LastName + ", " + v.FirstName
	if v.MiddleName != "" {
		name += " " + v.MiddleName
	}
	return name
}

// Attrs returns the voter's position in the organization hierarchy.
func (v Voter) Attrs() scope.VoterAttrs {
	return scope.VoterAttrs{
		DepartmentID: v.DepartmentID,
		CourseID:     v.CourseID,
		YearLevel:    v.YearLevel,
	}
}

type Election struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type Position struct {
	ID         int64       `json:"id"`
	ElectionID int64       `json:"election_id"`
	Name       string      `json:"name"`
	MaxWinners int         `json:"max_winners"`
	Level      scope.Level `json:"level"`
}

// Candidate carries both the stored references and the resolved scope
// attributes (department and course fall back to the candidate's voter).
type Candidate struct {
	ID           int64  `json:"id"`
	VoterID      int64  `json:"voter_id"`
	PositionID   int64  `json:"position_id"`
	ElectionID   int64  `json:"election_id"`
	Name         string `json:"name"`
	Slogan       string `json:"slogan"`
	PhotoPath    string `json:"photo_path,omitempty"`
	DepartmentID int64  `json:"department_id"`
	CourseID     int64  `json:"course_id"`
	YearLevel    int    `json:"year_level"`
}

// Attrs returns the candidate's resolved scope attributes.
func (c Candidate) Attrs() scope.CandidateAttrs {
	return scope.CandidateAttrs{
		DepartmentID: c.DepartmentID,
		CourseID:     c.CourseID,
		YearLevel:    c.YearLevel,
	}
}

type Vote struct {
	ID          int64     `json:"id"`
	VoterID     int64     `json:"voter_id"`
	CandidateID int64     `json:"candidate_id"`
	PositionID  int64     `json:"position_id"`
	ElectionID  int64     `json:"election_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type Participation struct {
	ID             int64     `json:"id"`
	VoterID        int64     `json:"voter_id"`
	ElectionID     int64     `json:"election_id"`
	ParticipatedAt time.Time `json:"participated_at"`
	IPHash         *string   `json:"-"` // Never expose in JSON
	UserAgent      *string   `json:"-"` // Never expose in JSON
}

// Selection is one (position, candidate) choice on a ballot.
type Selection struct {
	PositionID  int64 `json:"position_id" validate:"required,gt=0"`
	CandidateID int64 `json:"candidate_id" validate:"required,gt=0"`
}

type Receipt struct {
	ParticipationID int64     `json:"participation_id"`
	ElectionID      int64     `json:"election_id"`
	VotesRecorded   int       `json:"votes_recorded"`
	ParticipatedAt  time.Time `json:"participated_at"`
	ReceiptCode     string    `json:"receipt_code"`
}

// Tally result types

type DepartmentVotes struct {
	DepartmentID   int64  `json:"department_id"`
	DepartmentName string `json:"department_name"`
	Votes          int    `json:"votes"`
	TotalVoters    int    `json:"total_voters"`
}

type CandidateResult struct {
	CandidateID     int64             `json:"candidate_id"`
	VoterID         int64             `json:"voter_id"`
	Name            string            `json:"name"`
	Slogan          string            `json:"slogan"`
	PhotoPath       string            `json:"photo_path,omitempty"`
	DepartmentID    int64             `json:"department_id"`
	DepartmentName  string            `json:"department_name,omitempty"`
	CourseID        int64             `json:"course_id"`
	YearLevel       int               `json:"year_level"`
	VotesCount      int               `json:"votes_count"`
	Percentage      int               `json:"percentage"`
	IsWinner        bool              `json:"is_winner"`
	DepartmentVotes []DepartmentVotes `json:"department_votes,omitempty"`
}

// GroupResult is one grouping of a position's candidates (for example one
// department of a department-level position) with its own winners and turnout.
type GroupResult struct {
	Key          scope.GroupKey    `json:"key"`
	Label        string            `json:"label"`
	TotalVoters  int               `json:"total_voters"`
	Participants int               `json:"participants"`
	MinTurnout   int               `json:"min_turnout"`
	Valid        bool              `json:"valid"`
	Candidates   []CandidateResult `json:"candidates"`
}

type PositionResult struct {
	PositionID int64         `json:"position_id"`
	Name       string        `json:"name"`
	Level      scope.Level   `json:"level"`
	MaxWinners int           `json:"max_winners"`
	Groups     []GroupResult `json:"groups"`
}

type Totals struct {
	ElectionID   int64  `json:"election_id"`
	TotalVoters  int    `json:"total_voters"`
	Participants int    `json:"participants"`
	VotesCast    int    `json:"votes_cast"`
	MinTurnout   int    `json:"min_turnout"`
	Valid        bool   `json:"valid"`
	LastVoteAgo  string `json:"last_vote_ago,omitempty"`
}

type ElectionResults struct {
	Election   Election                         `json:"election"`
	Totals     Totals                           `json:"totals"`
	Positions  map[scope.Level][]PositionResult `json:"positions"`
	ComputedAt time.Time                        `json:"computed_at"`
}

// Ledger mutation summaries

type CandidateMutation struct {
	CandidateID int64  `json:"candidate_id"`
	Name        string `json:"name"`
	Requested   int    `json:"requested"`
	Applied     int    `json:"applied"`
}

type LedgerSummary struct {
	Action     string              `json:"action"`
	Source     string              `json:"source,omitempty"`
	Candidates []CandidateMutation `json:"candidates"`
}

type ReassignSummary struct {
	SourceCandidateID int64 `json:"source_candidate_id"`
	TargetCandidateID int64 `json:"target_candidate_id"`
	Requested         int   `json:"requested"`
	Reassigned        int   `json:"reassigned"`
	Skipped           int   `json:"skipped"`
}

// Roster types

type RosterEntry struct {
	VoterID         int64      `json:"voter_id"`
	Name            string     `json:"name"`
	CourseCode      string     `json:"course_code"`
	YearLevel       int        `json:"year_level"`
	Participated    bool       `json:"participated"`
	ParticipatedAt  *time.Time `json:"participated_at,omitempty"`
	ParticipatedAgo string     `json:"participated_ago,omitempty"`
}

type RosterPage struct {
	DepartmentID int64         `json:"department_id"`
	Page         int           `json:"page"`
	PerPage      int           `json:"per_page"`
	Total        int           `json:"total"`
	Voters       []RosterEntry `json:"voters"`
}

type ImportSummary struct {
	DepartmentsCreated int `json:"departments_created"`
	CoursesCreated     int `json:"courses_created"`
	VotersCreated      int `json:"voters_created"`
	VotersUpdated      int `json:"voters_updated"`
	VotesCreated       int `json:"votes_created"`
	Skipped            int `json:"skipped"`
}
