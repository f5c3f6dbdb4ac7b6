// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/campus-vote/db"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store owns the connection pool and hands out Queries bound either to the
// pool or to a transaction.
type Store struct {
	db     *sql.DB
	dbType string
}

func New(conn *sql.DB, dbType string) *Store {
	return &Store{db: conn, dbType: dbType}
}

// DB exposes the pool for callers that need raw access (tests, health checks).
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) DBType() string {
	return s.dbType
}

// Queries returns queries that run outside any transaction.
func (s *Store) Queries() *Queries {
	return &Queries{q: s.db, dbType: s.dbType}
}

// WithTx runs fn inside a transaction. The transaction commits only if fn
// returns nil; any error (or panic) rolls it back.
func (s *Store) WithTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Queries{q: tx, dbType: s.dbType}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Queries holds every typed query of the entity store.
type Queries struct {
	q      DBTX
	dbType string
}

func (q *Queries) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return q.q.ExecContext(ctx, db.Rebind(q.dbType, query), args...)
}

func (q *Queries) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return q.q.QueryContext(ctx, db.Rebind(q.dbType, query), args...)
}

func (q *Queries) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return q.q.QueryRowContext(ctx, db.Rebind(q.dbType, query), args...)
}

// count runs a single-value COUNT query.
func (q *Queries) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := q.queryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// exists runs a single-value EXISTS query.
func (q *Queries) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var ok bool
	if err := q.queryRow(ctx, query, args...).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
