// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tally computes election results from the vote and participation
ledgers.

Engine loads a Snapshot of the ledgers and Compute turns it into results.
Compute is pure, so the ranking, grouping, and turnout rules can be tested
without a database.

# Turnout

A group is valid when its participants reach MinTurnout of its population:

	MinTurnout(100) == 51
	MinTurnout(101) == 51

An empty group is never valid.
*/
package tally
