// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Department, Course, Voter: the organization roster
  - Election, Position, Candidate: what is on the ballot
  - Vote: one (voter, candidate) row of the vote ledger
  - Participation: one (voter, election) row of the participation ledger

The two ledgers are independent. Ballots write both; administrative ledger
mutations touch only votes.

# Result Types

ElectionResults groups PositionResult values by level. Each position is split
into GroupResult values with their own population, turnout threshold, and
winners.

# Errors

Sentinel errors (ErrNotFound, ErrNoActiveElection, ErrAlreadyParticipated,
ErrInvalidSelection, ErrCrossPositionReassignment, ErrConstraintViolation,
ErrCourseOutsideDepartment) are wrapped with fmt.Errorf and matched with
errors.Is.
*/
package models
