package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expiry decodes the access token's exp claim without verifying the
// signature (the backend owns verification). The second return is false when
// the token is not a JWT or carries no expiry.
func Expiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// expired reports whether the token's exp claim is already in the past.
// Tokens without a readable expiry are treated as live; the backend decides.
func expired(token string) bool {
	exp, ok := Expiry(token)
	return ok && exp.Before(time.Now())
}
