// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/campus-vote/models"
)

const positionColumns = `id, election_id, name, max_winners, level`

func scanPosition(row interface{ Scan(...any) error }) (models.Position, error) {
	var p models.Position
	err := row.Scan(&p.ID, &p.ElectionID, &p.Name, &p.MaxWinners, &p.Level)
	return p, err
}

func (q *Queries) CreatePosition(ctx context.Context, p models.Position) (int64, error) {
	if !p.Level.Valid() {
		return 0, fmt.Errorf("%w: unknown level %q", models.ErrConstraintViolation, p.Level)
	}
	if p.MaxWinners < 1 {
		return 0, fmt.Errorf("%w: max_winners must be at least 1", models.ErrConstraintViolation)
	}
	if _, err := q.ElectionByID(ctx, p.ElectionID); err != nil {
		return 0, err
	}

	var id int64
	err := q.queryRow(ctx, `
		INSERT INTO positions (election_id, name, max_winners, level, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`, p.ElectionID, p.Name, p.MaxWinners, string(p.Level), time.Now().UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert position: %w", err)
	}
	return id, nil
}

func (q *Queries) PositionByID(ctx context.Context, id int64) (models.Position, error) {
	p, err := scanPosition(q.queryRow(ctx, `SELECT `+positionColumns+` FROM positions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return p, fmt.Errorf("%w: position %d", models.ErrNotFound, id)
	}
	if err != nil {
		return p, fmt.Errorf("failed to query position: %w", err)
	}
	return p, nil
}

func (q *Queries) PositionByName(ctx context.Context, electionID int64, name string) (models.Position, error) {
	p, err := scanPosition(q.queryRow(ctx, `
		SELECT `+positionColumns+` FROM positions WHERE election_id = ? AND name = ? ORDER BY id LIMIT 1
	`, electionID, name))
	if errors.Is(err, sql.ErrNoRows) {
		return p, fmt.Errorf("%w: position %q", models.ErrNotFound, name)
	}
	if err != nil {
		return p, fmt.Errorf("failed to query position: %w", err)
	}
	return p, nil
}

// PositionsByElection lists an election's positions in creation order.
func (q *Queries) PositionsByElection(ctx context.Context, electionID int64) ([]models.Position, error) {
	rows, err := q.query(ctx, `
		SELECT `+positionColumns+` FROM positions WHERE election_id = ? ORDER BY id
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	positions := []models.Position{}
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}
