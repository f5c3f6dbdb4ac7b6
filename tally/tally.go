// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"context"
	"fmt"
	"time"

	"github.com/danielhkuo/campus-vote/models"
	"github.com/danielhkuo/campus-vote/scope"
	"github.com/danielhkuo/campus-vote/store"
)

// Query selects the election and slice of results to compute. A zero
// ElectionID means the active election.
type Query struct {
	ElectionID   int64
	Level        scope.Level
	DepartmentID int64
}

// Engine computes results straight from the vote and participation ledgers.
// Nothing is cached; every call reads the current rows.
type Engine struct {
	store *store.Store
}

func NewEngine(s *store.Store) *Engine {
	return &Engine{store: s}
}

// Results computes scoped results for an election.
func (e *Engine) Results(ctx context.Context, query Query) (models.ElectionResults, error) {
	if query.Level != "" && !query.Level.Valid() {
		return models.ElectionResults{}, fmt.Errorf("%w: unknown level %q", models.ErrConstraintViolation, query.Level)
	}

	q := e.store.Queries()
	election, err := e.election(ctx, q, query.ElectionID)
	if err != nil {
		return models.ElectionResults{}, err
	}

	snap, err := loadSnapshot(ctx, q, election)
	if err != nil {
		return models.ElectionResults{}, err
	}

	return Compute(snap, Filter{Level: query.Level, DepartmentID: query.DepartmentID}, time.Now().UTC()), nil
}

// Totals computes election-wide counts without per-position work, for polling.
func (e *Engine) Totals(ctx context.Context, electionID int64) (models.Totals, error) {
	q := e.store.Queries()
	election, err := e.election(ctx, q, electionID)
	if err != nil {
		return models.Totals{}, err
	}

	voters, err := q.CountVoters(ctx)
	if err != nil {
		return models.Totals{}, err
	}
	participants, err := q.CountParticipants(ctx, election.ID)
	if err != nil {
		return models.Totals{}, err
	}
	votes, err := q.CountVotes(ctx, election.ID)
	if err != nil {
		return models.Totals{}, err
	}
	last, err := lastVote(ctx, q, election.ID)
	if err != nil {
		return models.Totals{}, err
	}

	return buildTotals(election.ID, voters, participants, votes, last, time.Now().UTC()), nil
}

func (e *Engine) election(ctx context.Context, q *store.Queries, id int64) (models.Election, error) {
	if id == 0 {
		return q.ActiveElection(ctx)
	}
	return q.ElectionByID(ctx, id)
}

func loadSnapshot(ctx context.Context, q *store.Queries, election models.Election) (Snapshot, error) {
	snap := Snapshot{Election: election}
	var err error

	if snap.Positions, err = q.PositionsByElection(ctx, election.ID); err != nil {
		return snap, err
	}
	if snap.Candidates, err = q.CandidatesByElection(ctx, election.ID); err != nil {
		return snap, err
	}
	if snap.Departments, err = q.Departments(ctx); err != nil {
		return snap, err
	}
	if snap.Courses, err = q.Courses(ctx); err != nil {
		return snap, err
	}
	if snap.VoteCounts, err = q.CandidateVoteCounts(ctx, election.ID); err != nil {
		return snap, err
	}
	if snap.DepartmentVotes, err = q.CandidateDepartmentVotes(ctx, election.ID); err != nil {
		return snap, err
	}
	if snap.DepartmentVoters, err = q.DepartmentVoterTotals(ctx); err != nil {
		return snap, err
	}
	if snap.Population, err = q.VoterPopulation(ctx); err != nil {
		return snap, err
	}
	if snap.Participants, err = q.ParticipantPopulation(ctx, election.ID); err != nil {
		return snap, err
	}
	if snap.VotesCast, err = q.CountVotes(ctx, election.ID); err != nil {
		return snap, err
	}
	if snap.LastVoteAt, err = lastVote(ctx, q, election.ID); err != nil {
		return snap, err
	}
	return snap, nil
}

func lastVote(ctx context.Context, q *store.Queries, electionID int64) (*time.Time, error) {
	at, ok, err := q.LastVoteAt(ctx, electionID)
	if err != nil || !ok {
		return nil, err
	}
	return &at, nil
}
