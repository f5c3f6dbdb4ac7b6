// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/danielhkuo/campus-vote/scope"
)

// Request types

type LoginRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}

type RegisterVoterRequest struct {
	Code         string `json:"code" validate:"required,max=64"`
	LastName     string `json:"last_name" validate:"required,max=255"`
	FirstName    string `json:"first_name" validate:"required,max=255"`
	MiddleName   string `json:"middle_name" validate:"max=255"`
	Sex          string `json:"sex" validate:"required,oneof=M F"`
	DepartmentID int64  `json:"department_id" validate:"required,gt=0"`
	CourseID     int64  `json:"course_id" validate:"required,gt=0"`
	YearLevel    int    `json:"year_level" validate:"required,min=1,max=5"`
}

// Voter identity comes from the session, so the body carries only selections.
type SubmitBallotRequest struct {
	Votes []Selection `json:"votes" validate:"dive"`
}

type CreateDepartmentRequest struct {
	Code string `json:"code" validate:"required,max=32"`
	Name string `json:"name" validate:"required,max=255"`
}

type CreateCourseRequest struct {
	DepartmentID int64  `json:"department_id" validate:"required,gt=0"`
	Code         string `json:"code" validate:"required,max=32"`
	Name         string `json:"name" validate:"required,max=255"`
}

type CreateElectionRequest struct {
	Name     string    `json:"name" validate:"required,max=255"`
	StartAt  time.Time `json:"start_at" validate:"required"`
	EndAt    time.Time `json:"end_at" validate:"required,gtfield=StartAt"`
	IsActive bool      `json:"is_active"`
}

type CreatePositionRequest struct {
	ElectionID int64       `json:"election_id" validate:"required,gt=0"`
	Name       string      `json:"name" validate:"required,max=255"`
	MaxWinners int         `json:"max_winners" validate:"required,min=1"`
	Level      scope.Level `json:"level" validate:"required"`
}

type CreateCandidateRequest struct {
	VoterID      int64  `json:"voter_id" validate:"required,gt=0"`
	PositionID   int64  `json:"position_id" validate:"required,gt=0"`
	CourseID     *int64 `json:"course_id,omitempty"`
	DepartmentID *int64 `json:"department_id,omitempty"`
	Slogan       string `json:"slogan" validate:"max=500"`
	PhotoPath    string `json:"photo_path" validate:"max=500"`
}

type AddVotesRequest struct {
	CandidateIDs []int64 `json:"candidate_ids" validate:"required,min=1,dive,gt=0"`
	Count        int     `json:"count" validate:"required,min=1"`
	Source       string  `json:"source" validate:"omitempty,oneof=random other_positions"`
}

type RemoveVotesRequest struct {
	CandidateIDs []int64 `json:"candidate_ids" validate:"required,min=1,dive,gt=0"`
	Count        int     `json:"count" validate:"required,min=1"`
}

type ReassignVotesRequest struct {
	SourceCandidateID int64 `json:"source_candidate_id" validate:"required,gt=0"`
	TargetCandidateID int64 `json:"target_candidate_id" validate:"required,gt=0,nefield=SourceCandidateID"`
	Count             int   `json:"count" validate:"required,min=1"`
}

// Response types

type LoginResponse struct {
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	Voter        Voter     `json:"voter"`
	Election     Election  `json:"election"`
}

type BallotPosition struct {
	Position   Position    `json:"position"`
	Candidates []Candidate `json:"candidates"`
}

type BallotResponse struct {
	Election  Election         `json:"election"`
	Voter     Voter            `json:"voter"`
	Positions []BallotPosition `json:"positions"`
}

type SubmitBallotResponse struct {
	Receipt Receipt `json:"receipt"`
	Message string  `json:"message"`
}

type CreatedResponse struct {
	ID int64 `json:"id"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
