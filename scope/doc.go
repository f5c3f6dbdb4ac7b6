// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package scope defines position levels and how each one decides candidate
// eligibility, result grouping, and group membership.
package scope
