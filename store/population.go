// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/danielhkuo/campus-vote/scope"
)

// PopulationCell counts voters sharing one (department, course, year) triple.
// Every scope group population is a sum of cells.
type PopulationCell struct {
	Attrs scope.VoterAttrs
	Count int
}

// VoterPopulation returns the whole roster folded into cells.
func (q *Queries) VoterPopulation(ctx context.Context) ([]PopulationCell, error) {
	return q.population(ctx, `
		SELECT department_id, course_id, year_level, COUNT(*)
		FROM voters
		GROUP BY department_id, course_id, year_level
	`)
}

// ParticipantPopulation returns the voters with a participation row for the
// election, folded into cells.
func (q *Queries) ParticipantPopulation(ctx context.Context, electionID int64) ([]PopulationCell, error) {
	return q.population(ctx, `
		SELECT v.department_id, v.course_id, v.year_level, COUNT(DISTINCT v.id)
		FROM voters v
		JOIN voter_election_participations p ON p.voter_id = v.id
		WHERE p.election_id = ?
		GROUP BY v.department_id, v.course_id, v.year_level
	`, electionID)
}

func (q *Queries) population(ctx context.Context, query string, args ...any) ([]PopulationCell, error) {
	rows, err := q.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query population: %w", err)
	}
	defer rows.Close()

	cells := []PopulationCell{}
	for rows.Next() {
		var c PopulationCell
		if err := rows.Scan(&c.Attrs.DepartmentID, &c.Attrs.CourseID, &c.Attrs.YearLevel, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan population: %w", err)
		}
		cells = append(cells, c)
	}
	return cells, rows.Err()
}

// DepartmentVoterTotals maps department id to the number of voters whose
// course belongs to it.
func (q *Queries) DepartmentVoterTotals(ctx context.Context) (map[int64]int, error) {
	rows, err := q.query(ctx, `
		SELECT c.department_id, COUNT(v.id)
		FROM voters v
		JOIN courses c ON c.id = v.course_id
		GROUP BY c.department_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count department voters: %w", err)
	}
	defer rows.Close()

	totals := make(map[int64]int)
	for rows.Next() {
		var id int64
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("failed to scan department voters: %w", err)
		}
		totals[id] = n
	}
	return totals, rows.Err()
}
