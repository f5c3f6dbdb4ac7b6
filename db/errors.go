// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Postgres SQLSTATE codes
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// IsUniqueViolation reports whether err is a uniqueness conflict from either driver.
func IsUniqueViolation(err error) bool {
	return UniqueViolationOn(err, "")
}

// UniqueViolationOn reports whether err is a uniqueness conflict on the given
// table. An empty table matches any table.
func UniqueViolationOn(err error, table string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqUniqueViolation && (table == "" || pqErr.Table == table)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		unique := liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY ||
			(liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "UNIQUE"))
		// SQLite reports "UNIQUE constraint failed: table.col, ..."
		return unique && (table == "" || strings.Contains(liteErr.Error(), table+"."))
	}

	return false
}

// IsConstraintViolation reports whether err is any integrity constraint
// failure (unique, foreign key, check).
func IsConstraintViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation, pqForeignKeyViolation, pqCheckViolation:
			return true
		}
		return false
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}

	return false
}
