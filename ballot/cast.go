// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/campus-vote/auth"
	"github.com/danielhkuo/campus-vote/db"
	"github.com/danielhkuo/campus-vote/models"
	"github.com/danielhkuo/campus-vote/store"
)

// CastRequest is one voter's complete ballot. An empty Selections list is a
// blank ballot.
type CastRequest struct {
	VoterID    int64
	ElectionID int64
	Selections []models.Selection
	IP         string
	UserAgent  string
}

// Caster records ballots.
type Caster struct {
	store *store.Store
	guard *Guard
	salt  string
}

func NewCaster(s *store.Store, guard *Guard, salt string) *Caster {
	return &Caster{store: s, guard: guard, salt: salt}
}

// Cast writes the ballot's votes and the voter's participation in one
// transaction. Either every row is written or none is.
func (c *Caster) Cast(ctx context.Context, req CastRequest) (models.Receipt, error) {
	var receipt models.Receipt
	now := time.Now().UTC()

	err := c.store.WithTx(ctx, func(q *store.Queries) error {
		if err := c.guard.CanSubmit(ctx, q, req.VoterID, req.ElectionID); err != nil {
			return err
		}

		voter, err := q.VoterByID(ctx, req.VoterID)
		if err != nil {
			return err
		}

		selected, err := resolveSelections(ctx, q, voter, req.ElectionID, req.Selections)
		if err != nil {
			return err
		}

		// Participation goes first so that a concurrent second submit by the
		// same voter fails on uniq_voter_election.
		var ipHash, userAgent *string
		if req.IP != "" {
			h := auth.HashIP(req.IP, c.salt)
			ipHash = &h
		}
		if req.UserAgent != "" {
			userAgent = &req.UserAgent
		}

		p, err := q.InsertParticipation(ctx, req.VoterID, req.ElectionID, now, ipHash, userAgent)
		if db.UniqueViolationOn(err, "voter_election_participations") {
			return models.ErrAlreadyParticipated
		}
		if err != nil {
			return err
		}

		for _, cand := range selected {
			_, err := q.InsertVote(ctx, req.VoterID, cand.ID, cand.PositionID, cand.ElectionID, now)
			if db.UniqueViolationOn(err, "votes") {
				return fmt.Errorf("%w: candidate %d selected twice", models.ErrInvalidSelection, cand.ID)
			}
			if err != nil {
				return err
			}
		}

		if len(selected) > 0 {
			if err := q.SetHasVoted(ctx, req.VoterID, true); err != nil {
				return err
			}
		}

		receipt = models.Receipt{
			ParticipationID: p.ID,
			ElectionID:      req.ElectionID,
			VotesRecorded:   len(selected),
			ParticipatedAt:  p.ParticipatedAt,
			ReceiptCode:     auth.GenerateReceiptCode(p.ID, c.salt),
		}
		return nil
	})
	if err != nil {
		if db.UniqueViolationOn(err, "voter_election_participations") {
			return models.Receipt{}, models.ErrAlreadyParticipated
		}
		return models.Receipt{}, err
	}

	slog.Info("ballot cast",
		"voter_id", req.VoterID,
		"election_id", req.ElectionID,
		"participation_id", receipt.ParticipationID,
		"votes", receipt.VotesRecorded)

	return receipt, nil
}

// resolveSelections loads every selected candidate and rejects the ballot if
// any selection is unknown, belongs to another position or election, is out
// of the voter's scope, repeats a candidate, or overfills a position. Votes
// already recorded for the voter count toward each position's limit.
func resolveSelections(ctx context.Context, q *store.Queries, voter models.Voter, electionID int64, selections []models.Selection) ([]models.Candidate, error) {
	positions := make(map[int64]models.Position)
	perPosition := make(map[int64]int)
	seen := make(map[int64]bool)
	selected := make([]models.Candidate, 0, len(selections))

	for _, sel := range selections {
		if seen[sel.CandidateID] {
			return nil, fmt.Errorf("%w: candidate %d selected twice", models.ErrInvalidSelection, sel.CandidateID)
		}
		seen[sel.CandidateID] = true

		cand, err := q.CandidateByID(ctx, sel.CandidateID)
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: candidate %d does not exist", models.ErrInvalidSelection, sel.CandidateID)
		}
		if err != nil {
			return nil, err
		}
		if cand.ElectionID != electionID {
			return nil, fmt.Errorf("%w: candidate %d is not running in election %d", models.ErrInvalidSelection, cand.ID, electionID)
		}
		if cand.PositionID != sel.PositionID {
			return nil, fmt.Errorf("%w: candidate %d is not running for position %d", models.ErrInvalidSelection, cand.ID, sel.PositionID)
		}

		pos, ok := positions[cand.PositionID]
		if !ok {
			pos, err = q.PositionByID(ctx, cand.PositionID)
			if err != nil {
				return nil, err
			}
			positions[pos.ID] = pos

			// Votes the voter already holds here (ledger additions, imports)
			// count against the same ceiling.
			held, err := q.VotesInPosition(ctx, voter.ID, pos.ID)
			if err != nil {
				return nil, err
			}
			perPosition[pos.ID] = held
		}

		if !pos.Level.Eligible(voter.Attrs(), cand.Attrs()) {
			return nil, fmt.Errorf("%w: candidate %d is outside the voter's %s scope", models.ErrInvalidSelection, cand.ID, pos.Level)
		}

		perPosition[pos.ID]++
		if perPosition[pos.ID] > pos.MaxWinners {
			return nil, fmt.Errorf("%w: position %q allows at most %d selections", models.ErrInvalidSelection, pos.Name, pos.MaxWinners)
		}

		selected = append(selected, cand)
	}

	return selected, nil
}
