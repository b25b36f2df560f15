package portal

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry extracts the expiry of a portal access token without
// verifying its signature. The client has no key material and no business
// validating tokens; it only wants to warn the user before the portal
// starts rejecting requests.
func TokenExpiry(raw string) (time.Time, error) {
	token, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, fmt.Errorf("parse token: %w", err)
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("read exp claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, fmt.Errorf("token has no exp claim")
	}
	return exp.Time, nil
}

// TokenExpiresWithin reports whether the token expires before now+d.
// A token that cannot be parsed is treated as expiring, so the user gets
// nudged to sign in again rather than silently losing polls.
func TokenExpiresWithin(raw string, now time.Time, d time.Duration) bool {
	exp, err := TokenExpiry(raw)
	if err != nil {
		return true
	}
	return exp.Before(now.Add(d))
}
