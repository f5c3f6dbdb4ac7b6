// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the campus voting API.

# Handler Types

  - VoterHandler: registration, login, ballot retrieval and submission
  - ResultsHandler: scoped results, totals, and department rosters
  - AdminHandler: election setup, ledger mutation, and roster import

Handlers are created from a *store.Store (and Config where sessions or
receipts are involved):

	voterHandler := handlers.NewVoterHandler(s, cfg)

# Voting Flow

 1. POST /voter/login exchanges a voter code for a session bound to the
    active election. Voters who already participated get 409.
 2. GET /voter/ballot lists the positions and the candidates in the voter's
    scope.
 3. POST /voter/ballot records the votes and the participation in one
    transaction and returns a receipt. A second submit gets 409.

# Errors

Domain errors map to fixed statuses:

	ErrNotFound                  404
	ErrNoActiveElection          409
	ErrAlreadyParticipated       409
	ErrInvalidSelection          422
	ErrCrossPositionReassignment 422
	ErrConstraintViolation       409

Anything else is logged and returned as 500 so the client can retry.
*/
package handlers
