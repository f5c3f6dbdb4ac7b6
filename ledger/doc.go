// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ledger applies administrative corrections to the vote ledger.
// It never writes participations.
package ledger
