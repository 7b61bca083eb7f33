package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hotslice/ordering-system/internal/core/domain"
)

// TokenService issues and verifies JWTs signed with a process-wide secret.
// The secret and algorithm are fixed at construction and must not change for
// the lifetime of the process, or outstanding tokens become unverifiable.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
}

// NewTokenService builds a TokenService for the given HMAC algorithm
// (HS256, HS384 or HS512).
func NewTokenService(secret, algorithm string) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("token service: signing secret is empty")
	}
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("token service: unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("token service: unsupported signing algorithm %q", algorithm)
	}
	return &TokenService{secret: []byte(secret), method: method}, nil
}

// Issue produces a signed token carrying the subject user id and an absolute
// expiration instant.
func (s *TokenService) Issue(userID string, lifetime time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// Verify decodes the token and returns its subject. Malformed payloads, bad
// signatures and expired tokens all collapse into domain.ErrInvalidToken.
func (s *TokenService) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != s.method.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return "", domain.ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}
