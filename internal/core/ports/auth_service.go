package ports

import (
	"context"

	"github.com/hotslice/ordering-system/internal/core/domain"
)

// RegisterInput carries the data needed to create a new account.
type RegisterInput struct {
	Email    string
	Username string
	Password string
	Active   bool
	Admin    bool
}

// TokenPair is returned by the password-grant login. RefreshToken is empty on
// flows that only mint an access token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService defines registration, login and token-based identity flows.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Login authenticates by email and password and returns an access token
	// plus a long-lived refresh token.
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	// LoginForm is the form-based grant: same credential check, but only an
	// access token is issued.
	LoginForm(ctx context.Context, email, password string) (*TokenPair, error)
	// Authenticate verifies a bearer token and loads the user it identifies.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	// Refresh mints a new access token for an already-authenticated user.
	Refresh(requester *domain.User) (*TokenPair, error)
}
