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

const voterColumns = `id, code, last_name, first_name, middle_name, sex,
	department_id, course_id, year_level, has_voted, created_at`

func scanVoter(row interface{ Scan(...any) error }) (models.Voter, error) {
	var v models.Voter
	err := row.Scan(&v.ID, &v.Code, &v.LastName, &v.FirstName, &v.MiddleName, &v.Sex,
		&v.DepartmentID, &v.CourseID, &v.YearLevel, &v.HasVoted, &v.CreatedAt)
	return v, err
}

// CreateVoter registers a voter. The course must belong to the voter's department.
func (q *Queries) CreateVoter(ctx context.Context, v models.Voter) (int64, error) {
	course, err := q.CourseByID(ctx, v.CourseID)
	if err != nil {
		return 0, err
	}
	if course.DepartmentID != v.DepartmentID {
		return 0, fmt.Errorf("%w: course %d is not in department %d", models.ErrCourseOutsideDepartment, v.CourseID, v.DepartmentID)
	}

	var id int64
	err = q.queryRow(ctx, `
		INSERT INTO voters (code, last_name, first_name, middle_name, sex, department_id, course_id, year_level, has_voted, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, v.Code, v.LastName, v.FirstName, v.MiddleName, v.Sex, v.DepartmentID, v.CourseID,
		v.YearLevel, false, time.Now().UTC()).Scan(&id)
	if db.IsUniqueViolation(err) {
		return 0, fmt.Errorf("%w: voter code already registered", models.ErrConstraintViolation)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert voter: %w", err)
	}
	return id, nil
}

// UpsertVoter creates the voter with v.Code or refreshes its name, sex, course
// and year. Identity (the code) never changes.
func (q *Queries) UpsertVoter(ctx context.Context, v models.Voter) (id int64, created bool, err error) {
	existing, err := q.VoterByCode(ctx, v.Code)
	if errors.Is(err, models.ErrNotFound) {
		id, err = q.CreateVoter(ctx, v)
		return id, err == nil, err
	}
	if err != nil {
		return 0, false, err
	}

	_, err = q.exec(ctx, `
		UPDATE voters
		SET last_name = ?, first_name = ?, middle_name = ?, sex = ?, department_id = ?, course_id = ?, year_level = ?
		WHERE id = ?
	`, v.LastName, v.FirstName, v.MiddleName, v.Sex, v.DepartmentID, v.CourseID, v.YearLevel, existing.ID)
	if err != nil {
		return 0, false, fmt.Errorf("failed to update voter: %w", err)
	}
	return existing.ID, false, nil
}

func (q *Queries) VoterByCode(ctx context.Context, code string) (models.Voter, error) {
	v, err := scanVoter(q.queryRow(ctx, `SELECT `+voterColumns+` FROM voters WHERE code = ?`, code))
	if errors.Is(err, sql.ErrNoRows) {
		return v, fmt.Errorf("%w: no voter with that code", models.ErrNotFound)
	}
	if err != nil {
		return v, fmt.Errorf("failed to query voter: %w", err)
	}
	return v, nil
}

func (q *Queries) VoterByID(ctx context.Context, id int64) (models.Voter, error) {
	v, err := scanVoter(q.queryRow(ctx, `SELECT `+voterColumns+` FROM voters WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return v, fmt.Errorf("%w: voter %d", models.ErrNotFound, id)
	}
	if err != nil {
		return v, fmt.Errorf("failed to query voter: %w", err)
	}
	return v, nil
}

// SetHasVoted updates the legacy convenience flag. The participation table is
// the authoritative record; this flag only mirrors "has any vote row".
func (q *Queries) SetHasVoted(ctx context.Context, voterID int64, hasVoted bool) error {
	_, err := q.exec(ctx, `UPDATE voters SET has_voted = ? WHERE id = ?`, hasVoted, voterID)
	if err != nil {
		return fmt.Errorf("failed to update has_voted: %w", err)
	}
	return nil
}

// CountVoters returns the size of the whole roster.
func (q *Queries) CountVoters(ctx context.Context) (int, error) {
	n, err := q.count(ctx, `SELECT COUNT(*) FROM voters`)
	if err != nil {
		return 0, fmt.Errorf("failed to count voters: %w", err)
	}
	return n, nil
}
