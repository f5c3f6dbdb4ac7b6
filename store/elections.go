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

const electionColumns = `id, name, start_at, end_at, is_active, created_at`

func scanElection(row interface{ Scan(...any) error }) (models.Election, error) {
	var e models.Election
	err := row.Scan(&e.ID, &e.Name, &e.StartAt, &e.EndAt, &e.IsActive, &e.CreatedAt)
	return e, err
}

// CreateElection inserts an inactive election. Activation is a separate step
// so the single-active invariant is only ever touched by ActivateElection.
func (q *Queries) CreateElection(ctx context.Context, name string, startAt, endAt time.Time) (int64, error) {
	var id int64
	err := q.queryRow(ctx, `
		INSERT INTO elections (name, start_at, end_at, is_active, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`, name, startAt.UTC(), endAt.UTC(), false, time.Now().UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert election: %w", err)
	}
	return id, nil
}

func (q *Queries) ElectionByID(ctx context.Context, id int64) (models.Election, error) {
	e, err := scanElection(q.queryRow(ctx, `SELECT `+electionColumns+` FROM elections WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return e, fmt.Errorf("%w: election %d", models.ErrNotFound, id)
	}
	if err != nil {
		return e, fmt.Errorf("failed to query election: %w", err)
	}
	return e, nil
}

// ActiveElection returns the one active election or ErrNoActiveElection.
func (q *Queries) ActiveElection(ctx context.Context) (models.Election, error) {
	e, err := scanElection(q.queryRow(ctx, `
		SELECT `+electionColumns+` FROM elections WHERE is_active = TRUE ORDER BY id LIMIT 1
	`))
	if errors.Is(err, sql.ErrNoRows) {
		return e, models.ErrNoActiveElection
	}
	if err != nil {
		return e, fmt.Errorf("failed to query active election: %w", err)
	}
	return e, nil
}

// ActivateElection makes id the only active election. Run it inside a
// transaction so the deactivation of the others is part of the same write.
func (q *Queries) ActivateElection(ctx context.Context, id int64) error {
	if _, err := q.ElectionByID(ctx, id); err != nil {
		return err
	}

	// Others first: the partial unique index allows only one active row.
	if _, err := q.exec(ctx, `UPDATE elections SET is_active = FALSE WHERE id <> ? AND is_active = TRUE`, id); err != nil {
		return fmt.Errorf("failed to deactivate elections: %w", err)
	}
	if _, err := q.exec(ctx, `UPDATE elections SET is_active = TRUE WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to activate election: %w", err)
	}
	return nil
}

func (q *Queries) DeactivateElection(ctx context.Context, id int64) error {
	res, err := q.exec(ctx, `UPDATE elections SET is_active = FALSE WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate election: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: election %d", models.ErrNotFound, id)
	}
	return nil
}
