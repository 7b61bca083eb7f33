package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hotslice/ordering-system/internal/core/domain"
)

// ContextUserKey is the echo context key under which the authenticated
// requester is stored.
const ContextUserKey = "requester"

// Authenticator resolves a bearer token to the user it identifies.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// Auth validates the bearer token and injects the requesting user into the
// echo context. The failure message is identical for a missing header, a
// malformed token, a bad signature, an expired token, and a subject that no
// longer resolves to a user.
func Auth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}

			user, err := auth.Authenticate(c.Request().Context(), parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}

			c.Set(ContextUserKey, user)
			return next(c)
		}
	}
}
