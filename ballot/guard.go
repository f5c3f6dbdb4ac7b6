// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"fmt"

	"github.com/danielhkuo/campus-vote/models"
	"github.com/danielhkuo/campus-vote/store"
)

// Guard decides whether a voter may open and submit a ballot.
type Guard struct {
	store *store.Store
}

func NewGuard(s *store.Store) *Guard {
	return &Guard{store: s}
}

// CanEnter checks a login code against the roster and the active election.
func (g *Guard) CanEnter(ctx context.Context, code string) (models.Voter, models.Election, error) {
	q := g.store.Queries()

	voter, err := q.VoterByCode(ctx, code)
	if err != nil {
		return models.Voter{}, models.Election{}, err
	}

	election, err := q.ActiveElection(ctx)
	if err != nil {
		return models.Voter{}, models.Election{}, err
	}

	participated, err := q.HasParticipated(ctx, voter.ID, election.ID)
	if err != nil {
		return models.Voter{}, models.Election{}, err
	}
	if participated {
		return models.Voter{}, models.Election{}, models.ErrAlreadyParticipated
	}

	return voter, election, nil
}

// CanSubmit re-checks eligibility with q, which may be bound to the cast
// transaction. electionID comes from the voter's session and must still be
// the active election.
func (g *Guard) CanSubmit(ctx context.Context, q *store.Queries, voterID, electionID int64) error {
	active, err := q.ActiveElection(ctx)
	if err != nil {
		return err
	}
	if active.ID != electionID {
		return fmt.Errorf("%w: election %d is no longer active", models.ErrNoActiveElection, electionID)
	}

	participated, err := q.HasParticipated(ctx, voterID, electionID)
	if err != nil {
		return err
	}
	if participated {
		return models.ErrAlreadyParticipated
	}
	return nil
}

// Ballot lists the positions of the election with the candidates the voter
// may select, in position then candidate order. Positions with no eligible
// candidate are left out.
func (g *Guard) Ballot(ctx context.Context, voterID, electionID int64) (models.BallotResponse, error) {
	q := g.store.Queries()

	voter, err := q.VoterByID(ctx, voterID)
	if err != nil {
		return models.BallotResponse{}, err
	}
	election, err := q.ElectionByID(ctx, electionID)
	if err != nil {
		return models.BallotResponse{}, err
	}
	positions, err := q.PositionsByElection(ctx, electionID)
	if err != nil {
		return models.BallotResponse{}, err
	}
	candidates, err := q.CandidatesByElection(ctx, electionID)
	if err != nil {
		return models.BallotResponse{}, err
	}

	byPosition := make(map[int64][]models.Candidate)
	for _, c := range candidates {
		byPosition[c.PositionID] = append(byPosition[c.PositionID], c)
	}

	resp := models.BallotResponse{
		Election:  election,
		Voter:     voter,
		Positions: []models.BallotPosition{},
	}
	for _, p := range positions {
		eligible := []models.Candidate{}
		for _, c := range byPosition[p.ID] {
			if p.Level.Eligible(voter.Attrs(), c.Attrs()) {
				eligible = append(eligible, c)
			}
		}
		if len(eligible) == 0 {
			continue
		}
		resp.Positions = append(resp.Positions, models.BallotPosition{Position: p, Candidates: eligible})
	}
	return resp, nil
}
