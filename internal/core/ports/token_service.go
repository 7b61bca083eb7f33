package ports

import "time"

// TokenService issues and verifies signed, time-limited identity tokens.
// Verification is stateless; expiry is the only invalidation mechanism.
type TokenService interface {
	// Issue produces a signed token bound to userID that expires after lifetime.
	Issue(userID string, lifetime time.Duration) (string, error)
	// Verify checks the signature and expiration and returns the subject
	// user id. Any failure returns domain.ErrInvalidToken.
	Verify(token string) (string, error)
}
