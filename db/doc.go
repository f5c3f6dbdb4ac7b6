// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens connections, creates the schema, and classifies driver errors.

# Connections

Open supports PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite):

	conn, err := db.Open(db.Postgres, cfg.DatabaseURL)
	conn, err := db.Open(db.SQLite, "campus.db")

SQLite connections enable foreign keys, WAL, a busy timeout, and immediate
write transactions. Queries are written with '?' placeholders; Rebind turns
them into $n for Postgres.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - departments, courses: the organization tree
  - voters: the roster; code is the login credential
  - elections: at most one row is active (partial unique index)
  - positions: level and max_winners per office
  - candidates: one row per (voter, position)
  - votes: one row per (voter, election, position, candidate)
  - voter_election_participations: one row per (voter, election)

# Relationships

	departments 1──* courses 1──* voters
	elections 1──* positions 1──* candidates 1──* votes
	voters 1──* voter_election_participations *──1 elections

Deleting an election cascades to its positions, candidates, votes, and
participations.

# Errors

IsUniqueViolation, UniqueViolationOn, and IsConstraintViolation recognize
integrity failures from both drivers so callers can map them to domain errors.
*/
package db
