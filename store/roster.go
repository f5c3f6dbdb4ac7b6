// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/campus-vote/models"
)

// RosterQuery selects one page of a department's voters.
type RosterQuery struct {
	DepartmentID int64
	ElectionID   int64
	Search       string
	Page         int
	PerPage      int
}

// DepartmentRoster returns one page of a department's voters ordered by name,
// each marked with whether they participated in the election, plus the total
// number of matching voters.
func (q *Queries) DepartmentRoster(ctx context.Context, rq RosterQuery) ([]models.RosterEntry, int, error) {
	if _, err := q.DepartmentByID(ctx, rq.DepartmentID); err != nil {
		return nil, 0, err
	}

	where := `v.department_id = ?`
	args := []any{rq.DepartmentID}
	if s := strings.TrimSpace(rq.Search); s != "" {
		where += ` AND LOWER(v.last_name || ' ' || v.first_name || ' ' || v.middle_name) LIKE ?`
		args = append(args, "%"+strings.ToLower(s)+"%")
	}

	total, err := q.count(ctx, `SELECT COUNT(*) FROM voters v WHERE `+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count roster: %w", err)
	}

	pageArgs := append([]any{rq.ElectionID}, args...)
	pageArgs = append(pageArgs, rq.PerPage, (rq.Page-1)*rq.PerPage)
	rows, err := q.query(ctx, `
		SELECT v.id, v.last_name, v.first_name, v.middle_name, c.code, v.year_level, p.participated_at
		FROM voters v
		JOIN courses c ON c.id = v.course_id
		LEFT JOIN voter_election_participations p ON p.voter_id = v.id AND p.election_id = ?
		WHERE `+where+`
		ORDER BY v.last_name, v.first_name, v.id
		LIMIT ? OFFSET ?
	`, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query roster: %w", err)
	}
	defer rows.Close()

	entries := []models.RosterEntry{}
	for rows.Next() {
		var e models.RosterEntry
		var last, first, middle string
		var participatedAt *time.Time
		if err := rows.Scan(&e.VoterID, &last, &first, &middle, &e.CourseCode, &e.YearLevel, &participatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan roster: %w", err)
		}
		e.Name = models.Voter{LastName: last, FirstName: first, MiddleName: middle}.Name()
		e.ParticipatedAt = participatedAt
		e.Participated = participatedAt != nil
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
