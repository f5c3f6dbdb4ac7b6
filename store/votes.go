// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/campus-vote/models"
)

// InsertVote writes one vote row. Callers are responsible for checking that
// the candidate belongs to positionID and electionID.
func (q *Queries) InsertVote(ctx context.Context, voterID, candidateID, positionID, electionID int64, at time.Time) (int64, error) {
	var id int64
	err := q.queryRow(ctx, `
		INSERT INTO votes (voter_id, candidate_id, position_id, election_id, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`, voterID, candidateID, positionID, electionID, at.UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert vote: %w", err)
	}
	return id, nil
}

// LatestVotesForCandidate returns the newest limit votes of a candidate.
func (q *Queries) LatestVotesForCandidate(ctx context.Context, candidateID int64, limit int) ([]models.Vote, error) {
	return q.votes(ctx, `
		SELECT id, voter_id, candidate_id, position_id, election_id, created_at
		FROM votes WHERE candidate_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, candidateID, limit)
}

func (q *Queries) votes(ctx context.Context, query string, args ...any) ([]models.Vote, error) {
	rows, err := q.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.ID, &v.VoterID, &v.CandidateID, &v.PositionID, &v.ElectionID, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

func (q *Queries) DeleteVote(ctx context.Context, voteID int64) error {
	if _, err := q.exec(ctx, `DELETE FROM votes WHERE id = ?`, voteID); err != nil {
		return fmt.Errorf("failed to delete vote: %w", err)
	}
	return nil
}

// ReassignVote points an existing vote at another candidate of the same position.
func (q *Queries) ReassignVote(ctx context.Context, voteID, targetCandidateID int64) error {
	if _, err := q.exec(ctx, `UPDATE votes SET candidate_id = ? WHERE id = ?`, targetCandidateID, voteID); err != nil {
		return fmt.Errorf("failed to reassign vote: %w", err)
	}
	return nil
}

func (q *Queries) HasVoteForCandidate(ctx context.Context, voterID, candidateID int64) (bool, error) {
	ok, err := q.exists(ctx, `
		SELECT EXISTS(SELECT 1 FROM votes WHERE voter_id = ? AND candidate_id = ?)
	`, voterID, candidateID)
	if err != nil {
		return false, fmt.Errorf("failed to check vote: %w", err)
	}
	return ok, nil
}

// CountVotesByVoter counts a voter's votes across all elections.
func (q *Queries) CountVotesByVoter(ctx context.Context, voterID int64) (int, error) {
	n, err := q.count(ctx, `SELECT COUNT(*) FROM votes WHERE voter_id = ?`, voterID)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return n, nil
}

func (q *Queries) CountVotesForCandidate(ctx context.Context, candidateID int64) (int, error) {
	n, err := q.count(ctx, `SELECT COUNT(*) FROM votes WHERE candidate_id = ?`, candidateID)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return n, nil
}

func (q *Queries) CountVotes(ctx context.Context, electionID int64) (int, error) {
	n, err := q.count(ctx, `SELECT COUNT(*) FROM votes WHERE election_id = ?`, electionID)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return n, nil
}

// LastVoteAt returns when the newest vote of an election was written.
func (q *Queries) LastVoteAt(ctx context.Context, electionID int64) (time.Time, bool, error) {
	var at time.Time
	err := q.queryRow(ctx, `
		SELECT created_at FROM votes WHERE election_id = ? ORDER BY created_at DESC, id DESC LIMIT 1
	`, electionID).Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return at, false, nil
	}
	if err != nil {
		return at, false, fmt.Errorf("failed to query last vote: %w", err)
	}
	return at, true, nil
}

// CandidateVoteCounts maps candidate id to votes_count for an election.
// Candidates without votes are absent.
func (q *Queries) CandidateVoteCounts(ctx context.Context, electionID int64) (map[int64]int, error) {
	rows, err := q.query(ctx, `
		SELECT candidate_id, COUNT(*) FROM votes WHERE election_id = ? GROUP BY candidate_id
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count candidate votes: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var candidateID int64
		var n int
		if err := rows.Scan(&candidateID, &n); err != nil {
			return nil, fmt.Errorf("failed to scan candidate votes: %w", err)
		}
		counts[candidateID] = n
	}
	return counts, rows.Err()
}

// CandidateDepartmentVotes maps candidate id to department id to votes, where
// a vote's department is the department of the voter's course.
func (q *Queries) CandidateDepartmentVotes(ctx context.Context, electionID int64) (map[int64]map[int64]int, error) {
	rows, err := q.query(ctx, `
		SELECT vt.candidate_id, c.department_id, COUNT(vt.id)
		FROM votes vt
		JOIN voters v ON v.id = vt.voter_id
		JOIN courses c ON c.id = v.course_id
		WHERE vt.election_id = ?
		GROUP BY vt.candidate_id, c.department_id
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count department votes: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]map[int64]int)
	for rows.Next() {
		var candidateID, departmentID int64
		var n int
		if err := rows.Scan(&candidateID, &departmentID, &n); err != nil {
			return nil, fmt.Errorf("failed to scan department votes: %w", err)
		}
		if counts[candidateID] == nil {
			counts[candidateID] = make(map[int64]int)
		}
		counts[candidateID][departmentID] = n
	}
	return counts, rows.Err()
}

// VotesInPosition counts a voter's votes for one position.
func (q *Queries) VotesInPosition(ctx context.Context, voterID, positionID int64) (int, error) {
	n, err := q.count(ctx, `SELECT COUNT(*) FROM votes WHERE voter_id = ? AND position_id = ?`, voterID, positionID)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return n, nil
}

// VoterPool picks up to limit random voters who may receive an administrative
// vote for candidate. Both sources exclude voters who already voted for the
// candidate or who already used all max_winners selections of the position.
// SourceOtherPositions further restricts the pool to voters with some vote in
// the candidate's election and none in the candidate's position.
func (q *Queries) VoterPool(ctx context.Context, candidate models.Candidate, maxWinners int, source string, limit int) ([]int64, error) {
	var query string
	var args []any

	switch source {
	case models.SourceRandom:
		query = `
			SELECT v.id FROM voters v
			WHERE NOT EXISTS (SELECT 1 FROM votes x WHERE x.voter_id = v.id AND x.candidate_id = ?)
			  AND (SELECT COUNT(*) FROM votes y WHERE y.voter_id = v.id AND y.position_id = ?) < ?
			ORDER BY RANDOM()
			LIMIT ?`
		args = []any{candidate.ID, candidate.PositionID, maxWinners, limit}
	case models.SourceOtherPositions:
		query = `
			SELECT v.id FROM voters v
			WHERE EXISTS (SELECT 1 FROM votes x WHERE x.voter_id = v.id AND x.election_id = ?)
			  AND NOT EXISTS (SELECT 1 FROM votes y WHERE y.voter_id = v.id AND y.position_id = ?)
			ORDER BY RANDOM()
			LIMIT ?`
		args = []any{candidate.ElectionID, candidate.PositionID, limit}
	default:
		return nil, fmt.Errorf("%w: unknown vote source %q", models.ErrConstraintViolation, source)
	}

	rows, err := q.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query voter pool: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan voter pool: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
