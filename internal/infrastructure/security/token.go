// Package security holds the client-side token handling. The backend is
// the authority on token validity; this package only inspects tokens so the
// frontend can drop a session before sending a request it knows will fail.
package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry extracts the exp claim without verifying the signature.
// Returns false when the token is not a JWT or carries no expiry.
func TokenExpiry(token string) (time.Time, bool) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// TokenExpired reports whether the token's exp claim has passed. Opaque
// tokens without a readable expiry are never considered expired locally;
// the backend rejects them with 401 if they are.
func TokenExpired(token string, now time.Time) bool {
	exp, ok := TokenExpiry(token)
	if !ok {
		return false
	}
	return now.After(exp)
}
