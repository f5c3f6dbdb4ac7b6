// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/campus-vote/db"
	"github.com/danielhkuo/campus-vote/models"
)

// candidateSelect resolves department and course through the candidate's
// voter when the candidate row leaves them empty.
const candidateSelect = `
	SELECT c.id, c.voter_id, c.position_id, c.election_id,
	       v.last_name, v.first_name, v.middle_name, c.slogan, c.photo_path,
	       COALESCE(c.department_id, vc.department_id), COALESCE(c.course_id, v.course_id), v.year_level
	FROM candidates c
	JOIN voters v ON v.id = c.voter_id
	JOIN courses vc ON vc.id = v.course_id`

func scanCandidate(row interface{ Scan(...any) error }) (models.Candidate, error) {
	var c models.Candidate
	var last, first, middle string
	err := row.Scan(&c.ID, &c.VoterID, &c.PositionID, &c.ElectionID,
		&last, &first, &middle, &c.Slogan, &c.PhotoPath,
		&c.DepartmentID, &c.CourseID, &c.YearLevel)
	c.Name = models.Voter{LastName: last, FirstName: first, MiddleName: middle}.Name()
	return c, err
}

// CreateCandidate registers a voter as a candidate for a position. The
// candidate's election is copied from the position.
func (q *Queries) CreateCandidate(ctx context.Context, req models.CreateCandidateRequest) (int64, error) {
	position, err := q.PositionByID(ctx, req.PositionID)
	if err != nil {
		return 0, err
	}
	if _, err := q.VoterByID(ctx, req.VoterID); err != nil {
		return 0, err
	}

	var id int64
	err = q.queryRow(ctx, `
		INSERT INTO candidates (voter_id, position_id, election_id, course_id, department_id, slogan, photo_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, req.VoterID, position.ID, position.ElectionID, req.CourseID, req.DepartmentID,
		req.Slogan, req.PhotoPath, time.Now().UTC()).Scan(&id)
	if db.IsUniqueViolation(err) {
		return 0, fmt.Errorf("%w: voter %d is already a candidate for position %d", models.ErrConstraintViolation, req.VoterID, position.ID)
	}
	if db.IsConstraintViolation(err) {
		return 0, fmt.Errorf("%w: %v", models.ErrConstraintViolation, err)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert candidate: %w", err)
	}
	return id, nil
}

func (q *Queries) CandidateByID(ctx context.Context, id int64) (models.Candidate, error) {
	c, err := scanCandidate(q.queryRow(ctx, candidateSelect+` WHERE c.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return c, fmt.Errorf("%w: candidate %d", models.ErrNotFound, id)
	}
	if err != nil {
		return c, fmt.Errorf("failed to query candidate: %w", err)
	}
	return c, nil
}

// CandidateByVoterCode finds the candidate run by the voter with code for a
// position.
func (q *Queries) CandidateByVoterCode(ctx context.Context, positionID int64, code string) (models.Candidate, error) {
	c, err := scanCandidate(q.queryRow(ctx, candidateSelect+` WHERE c.position_id = ? AND v.code = ?`, positionID, code))
	if errors.Is(err, sql.ErrNoRows) {
		return c, fmt.Errorf("%w: no candidate %q for position %d", models.ErrNotFound, code, positionID)
	}
	if err != nil {
		return c, fmt.Errorf("failed to query candidate: %w", err)
	}
	return c, nil
}

// CandidatesByElection lists an election's candidates in insertion order.
func (q *Queries) CandidatesByElection(ctx context.Context, electionID int64) ([]models.Candidate, error) {
	rows, err := q.query(ctx, candidateSelect+` WHERE c.election_id = ? ORDER BY c.id`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}
