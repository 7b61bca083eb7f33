package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hotslice/ordering-system/internal/api/middleware"
	"github.com/hotslice/ordering-system/internal/core/domain"
)

// requester extracts the authenticated user injected by the Auth middleware.
// Absence means the middleware did not run for this route; fail closed.
func requester(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.ContextUserKey).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
	}
	return user, nil
}
