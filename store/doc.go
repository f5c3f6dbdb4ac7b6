// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store holds the SQL for every table. Queries are written once with
'?' placeholders and rebound for Postgres.

	err := s.WithTx(ctx, func(q *store.Queries) error {
		return q.ActivateElection(ctx, id)
	})

Lookups return models.ErrNotFound when the row does not exist.
*/
package store
