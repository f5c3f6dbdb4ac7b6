// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the campus voting API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, cfg)

# Endpoints

Health:

	GET /health

Voter flow (session routes take "Authorization: Bearer <token>"):

	POST /voters/register - Register a voter
	POST /voter/login     - Exchange a voter code for a session
	GET  /voter/ballot    - Positions and eligible candidates
	POST /voter/ballot    - Submit the ballot, returns a receipt

Results (public):

	GET /results?election_id=&level=&department_id=
	GET /results/totals?election_id=
	GET /departments/{id}/voters?page=&per_page=&search=&election_id=

Administration (requires X-Admin-Key):

	POST /admin/departments
	POST /admin/courses
	POST /admin/elections
	POST /admin/elections/{id}/activate
	POST /admin/elections/{id}/deactivate
	POST /admin/positions
	POST /admin/candidates
	POST /admin/ledger/add
	POST /admin/ledger/remove
	POST /admin/ledger/reassign
	POST /admin/import/json?election_id=
	POST /admin/import/csv

Every route except /health and / is wrapped with request logging.
*/
package router
