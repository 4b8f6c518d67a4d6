package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiresAt reads the exp claim of a JWT without verifying its signature.
// Opaque tokens and tokens without exp report false.
func ExpiresAt(token string) (time.Time, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether the access token is known to expire within skew of now.
func (a Authorization) Expired(now time.Time, skew time.Duration) bool {
	expiresAt, ok := ExpiresAt(a.AccessToken)
	if !ok {
		return false
	}
	return !now.Add(skew).Before(expiresAt)
}
