// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: PostgreSQL connection string or SQLite path (required)
  - DatabaseType: "postgres" (default) or "sqlite"
  - SessionSecret: HMAC secret for voter ballot sessions (required)
  - AdminKeyHash: bcrypt hash of the X-Admin-Key value (required)
  - ReceiptSalt: Secret for receipt codes and IP hashes (required)
  - SessionTTL: Voter session lifetime (default: 30m)

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	-session-secret   Voter session secret
	-admin-key-hash   Admin key bcrypt hash
	-receipt-salt     Receipt salt
	-session-ttl      Voter session lifetime
	-env              .env file to load (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	SESSION_SECRET → -session-secret
	ADMIN_KEY_HASH → -admin-key-hash
	RECEIPT_SALT   → -receipt-salt
	SESSION_TTL    → -session-ttl

CLI flags take precedence over environment variables, and environment
variables take precedence over the .env file. A missing .env file is not an
error.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - SESSION_SECRET must be provided
  - ADMIN_KEY_HASH must be provided
  - RECEIPT_SALT must be provided
*/
package cliparse
