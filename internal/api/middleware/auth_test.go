package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hotslice/ordering-system/internal/core/domain"
)

type stubAuthenticator struct {
	authenticateFn func(ctx context.Context, token string) (*domain.User, error)
}

func (s *stubAuthenticator) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	return s.authenticateFn(ctx, token)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	auth := &stubAuthenticator{
		authenticateFn: func(_ context.Context, token string) (*domain.User, error) {
			if token != "good-token" {
				t.Fatalf("unexpected token %q", token)
			}
			return &domain.User{ID: "user_1", Email: "user@example.com"}, nil
		},
	}

	called := false
	handler := Auth(auth)(func(c echo.Context) error {
		called = true
		user, _ := c.Get(ContextUserKey).(*domain.User)
		if user == nil || user.ID != "user_1" {
			t.Fatalf("requester not injected: %+v", user)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	auth := &stubAuthenticator{
		authenticateFn: func(context.Context, string) (*domain.User, error) {
			t.Fatalf("authenticator should not be consulted")
			return nil, nil
		},
	}

	handler := Auth(auth)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	auth := &stubAuthenticator{
		authenticateFn: func(context.Context, string) (*domain.User, error) {
			t.Fatalf("authenticator should not be consulted")
			return nil, nil
		},
	}

	handler := Auth(auth)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_RejectedToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	auth := &stubAuthenticator{
		authenticateFn: func(context.Context, string) (*domain.User, error) {
			return nil, domain.ErrInvalidToken
		},
	}

	handler := Auth(auth)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
