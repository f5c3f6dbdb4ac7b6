// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/danielhkuo/campus-vote/models"
)

func (q *Queries) HasParticipated(ctx context.Context, voterID, electionID int64) (bool, error) {
	ok, err := q.exists(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM voter_election_participations
			WHERE voter_id = ? AND election_id = ?
		)
	`, voterID, electionID)
	if err != nil {
		return false, fmt.Errorf("failed to check participation: %w", err)
	}
	return ok, nil
}

// InsertParticipation records that a voter finished balloting. The
// UNIQUE (voter_id, election_id) constraint rejects a second row.
func (q *Queries) InsertParticipation(ctx context.Context, voterID, electionID int64, at time.Time, ipHash, userAgent *string) (models.Participation, error) {
	p := models.Participation{
		VoterID:        voterID,
		ElectionID:     electionID,
		ParticipatedAt: at.UTC(),
		IPHash:         ipHash,
		UserAgent:      userAgent,
	}
	err := q.queryRow(ctx, `
		INSERT INTO voter_election_participations (voter_id, election_id, participated_at, ip_hash, user_agent)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`, voterID, electionID, p.ParticipatedAt, ipHash, userAgent).Scan(&p.ID)
	if err != nil {
		return p, fmt.Errorf("failed to insert participation: %w", err)
	}
	return p, nil
}

// CountParticipants counts distinct voters who finished balloting.
func (q *Queries) CountParticipants(ctx context.Context, electionID int64) (int, error) {
	n, err := q.count(ctx, `
		SELECT COUNT(DISTINCT voter_id) FROM voter_election_participations WHERE election_id = ?
	`, electionID)
	if err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return n, nil
}
