// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const sessionIssuer = "campus-vote"

// VoterClaims is the payload of a voter ballot session. The session binds one
// voter to the election that was active when they logged in.
type VoterClaims struct {
	VoterID    int64 `json:"voter_id"`
	ElectionID int64 `json:"election_id"`
	jwt.RegisteredClaims
}

// IssueVoterSession signs a session for voterID in electionID that expires
// after ttl.
func IssueVoterSession(voterID, electionID int64, secret string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := VoterClaims{
		VoterID:    voterID,
		ElectionID: electionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   strconv.FormatInt(voterID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session: %w", err)
	}
	return token, expiresAt, nil
}

// ParseVoterSession verifies the signature and expiry of a session token.
func ParseVoterSession(token, secret string) (VoterClaims, error) {
	var claims VoterClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return VoterClaims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Issuer != sessionIssuer || claims.VoterID <= 0 || claims.ElectionID <= 0 {
		return VoterClaims{}, ErrInvalidToken
	}
	return claims, nil
}
