// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ballot implements the voter side of an election.

Guard answers whether a voter may enter (login) and whether a ballot may
still be submitted. Caster writes a complete ballot in one transaction:

	receipt, err := caster.Cast(ctx, ballot.CastRequest{
		VoterID:    claims.VoterID,
		ElectionID: claims.ElectionID,
		Selections: req.Votes,
	})

The participation row is inserted before the votes, so two concurrent
submits from one voter are decided by the unique (voter, election) index and
the loser gets models.ErrAlreadyParticipated. A blank ballot records the
participation and no votes.
*/
package ballot
