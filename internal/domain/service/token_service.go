package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired is returned by Verify when the token's exp has passed.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid is returned by Verify for any other verification failure.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims defines the custom claims for session tokens.
// The subject (sub) carries the user's login.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenIssuer creates and verifies signed, time-bounded identity assertions.
type TokenIssuer interface {
	// Issue signs a token for identity that expires after ttl.
	Issue(identity string, ttl time.Duration) (string, error)

	// Verify checks signature and expiry and returns the claims.
	Verify(token string) (*Claims, error)

	// DefaultTTL returns the configured session lifetime.
	DefaultTTL() time.Duration
}
