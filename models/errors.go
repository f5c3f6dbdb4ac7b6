// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "errors"

var (
	ErrNotFound                  = errors.New("not found")
	ErrNoActiveElection          = errors.New("no active election")
	ErrAlreadyParticipated       = errors.New("already participated in this election")
	ErrInvalidSelection          = errors.New("invalid selection")
	ErrCrossPositionReassignment = errors.New("source and target candidates are in different positions")
	ErrConstraintViolation       = errors.New("constraint violation")
	ErrCourseOutsideDepartment   = errors.New("course is not offered by the department")
)
