// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/campus-vote/models"
	"github.com/danielhkuo/campus-vote/store"
)

// Ledger actions reported in summaries
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// Mutator applies administrative corrections to the vote ledger. It never
// reads or writes participations and performs no election-activity check.
type Mutator struct {
	store *store.Store
}

func NewMutator(s *store.Store) *Mutator {
	return &Mutator{store: s}
}

// AddVotes gives each candidate up to count new votes from voters drawn at
// random from source. The pool excludes voters who already voted for the
// candidate or already used every selection the position allows.
func (m *Mutator) AddVotes(ctx context.Context, candidateIDs []int64, count int, source string) (models.LedgerSummary, error) {
	if source == "" {
		source = models.SourceRandom
	}
	if source != models.SourceRandom && source != models.SourceOtherPositions {
		return models.LedgerSummary{}, fmt.Errorf("%w: unknown vote source %q", models.ErrConstraintViolation, source)
	}
	if count < 1 {
		return models.LedgerSummary{}, fmt.Errorf("%w: count must be at least 1", models.ErrConstraintViolation)
	}

	summary := models.LedgerSummary{Action: ActionAdd, Source: source, Candidates: []models.CandidateMutation{}}
	now := time.Now().UTC()

	err := m.store.WithTx(ctx, func(q *store.Queries) error {
		candidates, err := loadCandidates(ctx, q, candidateIDs)
		if err != nil {
			return err
		}

		for _, c := range candidates {
			pos, err := q.PositionByID(ctx, c.PositionID)
			if err != nil {
				return err
			}

			pool, err := q.VoterPool(ctx, c, pos.MaxWinners, source, count)
			if err != nil {
				return err
			}

			for _, voterID := range pool {
				if _, err := q.InsertVote(ctx, voterID, c.ID, c.PositionID, c.ElectionID, now); err != nil {
					return err
				}
				if err := q.SetHasVoted(ctx, voterID, true); err != nil {
					return err
				}
			}

			summary.Candidates = append(summary.Candidates, models.CandidateMutation{
				CandidateID: c.ID,
				Name:        c.Name,
				Requested:   count,
				Applied:     len(pool),
			})
		}
		return nil
	})
	if err != nil {
		return models.LedgerSummary{}, err
	}

	slog.Info("ledger votes added", "source", source, "count", count, "candidates", len(summary.Candidates))
	return summary, nil
}

// RemoveVotes deletes up to count of each candidate's newest votes. Voters
// left without any vote lose the has_voted flag.
func (m *Mutator) RemoveVotes(ctx context.Context, candidateIDs []int64, count int) (models.LedgerSummary, error) {
	if count < 1 {
		return models.LedgerSummary{}, fmt.Errorf("%w: count must be at least 1", models.ErrConstraintViolation)
	}

	summary := models.LedgerSummary{Action: ActionRemove, Candidates: []models.CandidateMutation{}}

	err := m.store.WithTx(ctx, func(q *store.Queries) error {
		candidates, err := loadCandidates(ctx, q, candidateIDs)
		if err != nil {
			return err
		}

		for _, c := range candidates {
			votes, err := q.LatestVotesForCandidate(ctx, c.ID, count)
			if err != nil {
				return err
			}

			for _, v := range votes {
				if err := q.DeleteVote(ctx, v.ID); err != nil {
					return err
				}
				if err := clearHasVotedIfEmpty(ctx, q, v.VoterID); err != nil {
					return err
				}
			}

			summary.Candidates = append(summary.Candidates, models.CandidateMutation{
				CandidateID: c.ID,
				Name:        c.Name,
				Requested:   count,
				Applied:     len(votes),
			})
		}
		return nil
	})
	if err != nil {
		return models.LedgerSummary{}, err
	}

	slog.Info("ledger votes removed", "count", count, "candidates", len(summary.Candidates))
	return summary, nil
}

// ReassignVotes moves up to count of the source candidate's newest votes to
// the target. Both candidates must run for the same position. Votes whose
// voter already voted for the target are skipped and left in place.
func (m *Mutator) ReassignVotes(ctx context.Context, sourceID, targetID int64, count int) (models.ReassignSummary, error) {
	if count < 1 {
		return models.ReassignSummary{}, fmt.Errorf("%w: count must be at least 1", models.ErrConstraintViolation)
	}
	if sourceID == targetID {
		return models.ReassignSummary{}, fmt.Errorf("%w: source and target are the same candidate", models.ErrConstraintViolation)
	}

	summary := models.ReassignSummary{
		SourceCandidateID: sourceID,
		TargetCandidateID: targetID,
		Requested:         count,
	}

	err := m.store.WithTx(ctx, func(q *store.Queries) error {
		source, err := q.CandidateByID(ctx, sourceID)
		if err != nil {
			return err
		}
		target, err := q.CandidateByID(ctx, targetID)
		if err != nil {
			return err
		}
		if source.PositionID != target.PositionID {
			return fmt.Errorf("%w: candidate %d runs for position %d, candidate %d for position %d",
				models.ErrCrossPositionReassignment, source.ID, source.PositionID, target.ID, target.PositionID)
		}

		votes, err := q.LatestVotesForCandidate(ctx, source.ID, count)
		if err != nil {
			return err
		}

		for _, v := range votes {
			dup, err := q.HasVoteForCandidate(ctx, v.VoterID, target.ID)
			if err != nil {
				return err
			}
			if dup {
				summary.Skipped++
				continue
			}
			if err := q.ReassignVote(ctx, v.ID, target.ID); err != nil {
				return err
			}
			summary.Reassigned++
		}
		return nil
	})
	if err != nil {
		return models.ReassignSummary{}, err
	}

	slog.Info("ledger votes reassigned",
		"source_candidate_id", sourceID,
		"target_candidate_id", targetID,
		"reassigned", summary.Reassigned,
		"skipped", summary.Skipped)
	return summary, nil
}

// loadCandidates resolves every id before any write so an unknown id fails
// the whole call.
func loadCandidates(ctx context.Context, q *store.Queries, ids []int64) ([]models.Candidate, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no candidates given", models.ErrConstraintViolation)
	}

	seen := make(map[int64]bool, len(ids))
	candidates := make([]models.Candidate, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		c, err := q.CandidateByID(ctx, id)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func clearHasVotedIfEmpty(ctx context.Context, q *store.Queries, voterID int64) error {
	n, err := q.CountVotesByVoter(ctx, voterID)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return q.SetHasVoted(ctx, voterID, false)
}
