package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/hotslice/ordering-system/internal/core/domain"
	"github.com/hotslice/ordering-system/internal/core/ports"
)

type stubUserRepo struct {
	users  map[string]*domain.User // keyed by id
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("user_%d", r.nextID)
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

type stubUserCache struct {
	entries map[string]*domain.User
	gets    int
	hits    int
}

func newStubUserCache() *stubUserCache {
	return &stubUserCache{entries: make(map[string]*domain.User)}
}

func (c *stubUserCache) Get(_ context.Context, userID string) (*domain.User, error) {
	c.gets++
	if u, ok := c.entries[userID]; ok {
		c.hits++
		return cloneUser(u), nil
	}
	return nil, nil
}

func (c *stubUserCache) Set(_ context.Context, user *domain.User) error {
	c.entries[user.ID] = cloneUser(user)
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *stubUserRepo, *stubUserCache) {
	t.Helper()
	tokens, err := NewTokenService("secret", "HS256")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	repo := newStubUserRepo()
	cache := newStubUserCache()
	return NewAuthService(repo, tokens, cache, 30*time.Minute, zerolog.Nop()), repo, cache
}

func register(t *testing.T, svc *AuthService, email string) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:    email,
		Username: "tester",
		Password: "testpassword123",
		Active:   true,
	})
	if err != nil {
		t.Fatalf("Register(%s): %v", email, err)
	}
	return user
}

func TestAuthService_Register_HashesPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	user := register(t, svc, "user@example.com")
	if user.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if user.PasswordHash == "testpassword123" {
		t.Fatalf("password stored in clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("testpassword123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	register(t, svc, "user@example.com")
	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:    "user@example.com",
		Password: "anotherpass",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Login_ReturnsAccessAndRefresh(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	user := register(t, svc, "user@example.com")

	pair, err := svc.Login(context.Background(), "user@example.com", "testpassword123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", pair)
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatalf("access and refresh tokens should differ")
	}

	authenticated, err := svc.Authenticate(context.Background(), pair.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if authenticated.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, authenticated.ID)
	}
}

func TestAuthService_Login_GenericCredentialError(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	register(t, svc, "user@example.com")

	// Wrong password and unknown account must be indistinguishable.
	_, wrongPass := svc.Login(context.Background(), "user@example.com", "badpass")
	_, unknown := svc.Login(context.Background(), "ghost@example.com", "whatever")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown account: expected ErrInvalidCredentials, got %v", unknown)
	}
}

func TestAuthService_LoginForm_AccessTokenOnly(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	register(t, svc, "user@example.com")

	pair, err := svc.LoginForm(context.Background(), "user@example.com", "testpassword123")
	if err != nil {
		t.Fatalf("LoginForm: %v", err)
	}
	if pair.AccessToken == "" {
		t.Fatalf("expected access token")
	}
	if pair.RefreshToken != "" {
		t.Fatalf("form grant must not issue a refresh token")
	}
}

func TestAuthService_Authenticate_InvalidToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	if _, err := svc.Authenticate(context.Background(), "garbage"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_Authenticate_UnknownSubject(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	tokens, _ := NewTokenService("secret", "HS256")
	token, _ := tokens.Issue("no_such_user", time.Hour)

	if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for unknown subject, got %v", err)
	}
}

func TestAuthService_Authenticate_UsesCache(t *testing.T) {
	svc, _, cache := newAuthFixture(t)
	register(t, svc, "user@example.com")

	pair, err := svc.Login(context.Background(), "user@example.com", "testpassword123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), pair.AccessToken); err != nil {
		t.Fatalf("first Authenticate: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), pair.AccessToken); err != nil {
		t.Fatalf("second Authenticate: %v", err)
	}

	if cache.hits == 0 {
		t.Fatalf("expected the second lookup to hit the cache")
	}
}

func TestAuthService_Refresh(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	user := register(t, svc, "user@example.com")

	pair, err := svc.Refresh(user)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if pair.AccessToken == "" {
		t.Fatalf("expected access token")
	}
	if pair.RefreshToken != "" {
		t.Fatalf("refresh must not issue a new refresh token")
	}

	authenticated, err := svc.Authenticate(context.Background(), pair.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if authenticated.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, authenticated.ID)
	}
}
