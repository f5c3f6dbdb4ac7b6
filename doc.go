// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the campus-vote API server.

campus-vote runs student elections: voters log in with their code, cast one
ballot per election, and results are tallied per organizational scope
(university, department, course, year level and their combinations) with a
50%+1 turnout rule per group.

# Starting the Server

	DATABASE_URL=postgres://... SESSION_SECRET=... ADMIN_KEY_HASH=... RECEIPT_SALT=... go run .

Or with SQLite:

	go run . -t sqlite -d ./campus-vote.db

Settings are also read from a .env file (see -env).

# Configuration

Required settings:

  - DATABASE_URL (-d): connection string or SQLite path
  - SESSION_SECRET (-session-secret): voter session signing key
  - ADMIN_KEY_HASH (-admin-key-hash): bcrypt hash of the admin key
  - RECEIPT_SALT (-receipt-salt): secret for receipt codes and IP hashes

Optional settings:

  - PORT (-p): server port (default: 3318)
  - DATABASE_TYPE (-t): postgres or sqlite (default: postgres)
  - SESSION_TTL (-session-ttl): voter session lifetime (default: 30m)

# Architecture

  - handlers, router, middleware: HTTP surface
  - ballot: eligibility guard and the ballot transaction
  - tally: results engine
  - ledger: administrative vote mutation
  - importer: JSON and CSV roster import
  - scope: position levels and their grouping rules
  - store, db: SQL access for Postgres and SQLite
  - auth, cliparse, models: sessions and keys, configuration, types
*/
package main
