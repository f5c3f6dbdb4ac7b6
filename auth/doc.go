// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides voter sessions, admin key checks, and receipt codes.

# Voter Sessions

A voter who passes the eligibility check at login receives a signed HS256
JWT carrying their voter id and the active election id:

	token, expiresAt, err := auth.IssueVoterSession(voterID, electionID, secret, ttl)
	claims, err := auth.ParseVoterSession(token, secret)

Ballot submission reads the voter's identity only from these claims.

# Admin Keys

Administrative routes require an X-Admin-Key header. The server stores only a
bcrypt hash of the key (ADMIN_KEY_HASH):

	hash, err := auth.HashAdminKey(key)
	err := auth.CheckAdminKey(presented, hash)

# Receipt Codes

Each recorded ballot returns a short base62 receipt code derived from the
participation id with HMAC-SHA256:

	code := auth.GenerateReceiptCode(participationID, salt)

# IP Hashing

For privacy-preserving fraud detection:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
