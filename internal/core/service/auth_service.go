package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/hotslice/ordering-system/internal/core/domain"
	"github.com/hotslice/ordering-system/internal/core/ports"
)

// refreshTokenLifetime is fixed: refresh tokens are only handed out by the
// password-grant login and live for 7 days.
const refreshTokenLifetime = 7 * 24 * time.Hour

// UserCache abstracts the requester lookup cache (Redis). A miss returns
// (nil, nil); cache failures are never fatal to authentication.
type UserCache interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
}

// AuthService implements registration, login and token-based identity.
type AuthService struct {
	users     ports.UserRepository
	tokens    ports.TokenService
	cache     UserCache
	accessTTL time.Duration
	log       zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenService, cache UserCache, accessTTL time.Duration, log zerolog.Logger) *AuthService {
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	return &AuthService{users: users, tokens: tokens, cache: cache, accessTTL: accessTTL, log: log}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: string(hash),
		Active:       input.Active,
		Admin:        input.Admin,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("account created")
	return created, nil
}

// Login authenticates by email and password, returning an access token plus a
// 7-day refresh token. Unknown email and wrong password are indistinguishable
// to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	access, err := s.tokens.Issue(user.ID, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.Issue(user.ID, refreshTokenLifetime)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("login succeeded")
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// LoginForm is the form-based grant: same credential check as Login but only
// an access token is issued.
func (s *AuthService) LoginForm(ctx context.Context, email, password string) (*ports.TokenPair, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	access, err := s.tokens.Issue(user.ID, s.accessTTL)
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{AccessToken: access}, nil
}

// Authenticate verifies a bearer token and resolves the user it identifies,
// consulting the cache before the store. User records are immutable after
// registration, so a bounded-TTL cache cannot serve stale identity.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, cacheErr := s.cache.Get(ctx, userID)
		if cacheErr != nil {
			s.log.Warn().Err(cacheErr).Msg("user cache lookup failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.Set(ctx, user); cacheErr != nil {
			s.log.Warn().Err(cacheErr).Msg("user cache write failed")
		}
	}
	return user, nil
}

// Refresh mints a new access token for an already-authenticated requester.
// No new refresh token is issued here.
func (s *AuthService) Refresh(requester *domain.User) (*ports.TokenPair, error) {
	access, err := s.tokens.Issue(requester.ID, s.accessTTL)
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{AccessToken: access}, nil
}

func (s *AuthService) authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Same error as a wrong password: no account enumeration.
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}
