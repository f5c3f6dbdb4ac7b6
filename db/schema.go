// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(conn *sql.DB, dbType string) error {
	ddl, err := SchemaFor(dbType)
	if err != nil {
		return err
	}

	for _, stmt := range strings.Split(ddl, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// SchemaFor renders the schema for the given dialect. The two dialects only
// differ in how surrogate keys are declared.
func SchemaFor(dbType string) (string, error) {
	var r *strings.Replacer
	switch dbType {
	case Postgres:
		r = strings.NewReplacer("{{pk}}", "BIGSERIAL PRIMARY KEY", "{{ref}}", "BIGINT")
	case SQLite:
		r = strings.NewReplacer("{{pk}}", "INTEGER PRIMARY KEY AUTOINCREMENT", "{{ref}}", "INTEGER")
	default:
		return "", fmt.Errorf("unsupported database type %q", dbType)
	}
	return r.Replace(schema), nil
}

// Votes are unique per (voter, election, position, candidate) rather than per
// (voter, election, position): multi-winner positions accept up to max_winners
// selections per voter, and that ceiling is enforced when a ballot is cast.
const schema = `
-- Departments and courses
CREATE TABLE IF NOT EXISTS departments (
    id {{pk}},
    code TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS courses (
    id {{pk}},
    department_id {{ref}} NOT NULL REFERENCES departments(id) ON DELETE CASCADE,
    code TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_courses_department_id ON courses(department_id);

-- Voters
CREATE TABLE IF NOT EXISTS voters (
    id {{pk}},
    code TEXT NOT NULL UNIQUE,
    last_name TEXT NOT NULL,
    first_name TEXT NOT NULL,
    middle_name TEXT NOT NULL DEFAULT '',
    sex TEXT NOT NULL CHECK (sex IN ('M', 'F')),
    department_id {{ref}} NOT NULL REFERENCES departments(id) ON DELETE CASCADE,
    course_id {{ref}} NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
    year_level INTEGER NOT NULL CHECK (year_level BETWEEN 1 AND 5),
    has_voted BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_voters_department_id ON voters(department_id);
CREATE INDEX IF NOT EXISTS idx_voters_course_id ON voters(course_id);

-- Elections
CREATE TABLE IF NOT EXISTS elections (
    id {{pk}},
    name TEXT NOT NULL,
    start_at TIMESTAMP NOT NULL,
    end_at TIMESTAMP NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS uniq_elections_single_active ON elections(is_active) WHERE is_active;

-- Positions
CREATE TABLE IF NOT EXISTS positions (
    id {{pk}},
    election_id {{ref}} NOT NULL REFERENCES elections(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    max_winners INTEGER NOT NULL DEFAULT 1 CHECK (max_winners >= 1),
    level TEXT NOT NULL CHECK (level IN ('university', 'department', 'course', 'year_level', 'department_course_level', 'department_year_level')),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_positions_election_level ON positions(election_id, level);

-- Candidates
CREATE TABLE IF NOT EXISTS candidates (
    id {{pk}},
    voter_id {{ref}} NOT NULL REFERENCES voters(id) ON DELETE CASCADE,
    position_id {{ref}} NOT NULL REFERENCES positions(id) ON DELETE CASCADE,
    election_id {{ref}} NOT NULL REFERENCES elections(id) ON DELETE CASCADE,
    course_id {{ref}} REFERENCES courses(id) ON DELETE CASCADE,
    department_id {{ref}} REFERENCES departments(id) ON DELETE CASCADE,
    slogan TEXT NOT NULL DEFAULT '',
    photo_path TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CONSTRAINT uniq_candidate_voter_position UNIQUE (voter_id, position_id)
);

CREATE INDEX IF NOT EXISTS idx_candidates_position_id ON candidates(position_id);
CREATE INDEX IF NOT EXISTS idx_candidates_election_id ON candidates(election_id);

-- Votes
CREATE TABLE IF NOT EXISTS votes (
    id {{pk}},
    voter_id {{ref}} NOT NULL REFERENCES voters(id) ON DELETE CASCADE,
    candidate_id {{ref}} NOT NULL REFERENCES candidates(id) ON DELETE CASCADE,
    position_id {{ref}} NOT NULL REFERENCES positions(id) ON DELETE CASCADE,
    election_id {{ref}} NOT NULL REFERENCES elections(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CONSTRAINT uniq_vote_voter_election_position_candidate UNIQUE (voter_id, election_id, position_id, candidate_id)
);

CREATE INDEX IF NOT EXISTS idx_votes_election_position_candidate ON votes(election_id, position_id, candidate_id);
CREATE INDEX IF NOT EXISTS idx_votes_voter_election ON votes(voter_id, election_id);
CREATE INDEX IF NOT EXISTS idx_votes_candidate_id ON votes(candidate_id);

-- Participation ledger
CREATE TABLE IF NOT EXISTS voter_election_participations (
    id {{pk}},
    voter_id {{ref}} NOT NULL REFERENCES voters(id) ON DELETE CASCADE,
    election_id {{ref}} NOT NULL REFERENCES elections(id) ON DELETE CASCADE,
    participated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    ip_hash TEXT,
    user_agent TEXT,
    CONSTRAINT uniq_voter_election UNIQUE (voter_id, election_id)
);

CREATE INDEX IF NOT EXISTS idx_participations_election_id ON voter_election_participations(election_id);
`
