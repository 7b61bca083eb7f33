package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hotslice/ordering-system/internal/core/domain"
)

func render(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error envelope: %v", err)
	}
	return rec.Code, body.Error
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err        error
		wantCode   int
		wantErrMsg string
	}{
		{domain.ErrInvalidCredentials, http.StatusBadRequest, "user not found, please check your credentials"},
		{domain.ErrEmailTaken, http.StatusBadRequest, "email already exists; please use a different email"},
		{domain.ErrInvalidToken, http.StatusUnauthorized, "invalid access token"},
		{domain.ErrOrderNotFound, http.StatusNotFound, "order not found"},
		{domain.ErrItemNotFound, http.StatusNotFound, "order item not found"},
		{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{domain.ErrForbidden, http.StatusForbidden, "you do not have permission to make this change"},
		{domain.ErrInvalidTransition, http.StatusBadRequest, "order is already finished or canceled"},
	}

	for _, tc := range cases {
		code, msg := render(t, tc.err)
		if code != tc.wantCode {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.wantCode, code)
		}
		if msg != tc.wantErrMsg {
			t.Errorf("%v: expected %q, got %q", tc.err, tc.wantErrMsg, msg)
		}
	}
}

func TestHTTPErrorHandler_WrappedDomainError(t *testing.T) {
	wrapped := fmt.Errorf("%w: quantity must be a positive integer", domain.ErrInvalidItem)

	code, msg := render(t, wrapped)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if msg != wrapped.Error() {
		t.Fatalf("expected validation detail, got %q", msg)
	}
}

func TestHTTPErrorHandler_EchoError(t *testing.T) {
	code, msg := render(t, echo.NewHTTPError(http.StatusBadRequest, "invalid payload"))
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if msg != "invalid payload" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestHTTPErrorHandler_UnexpectedError(t *testing.T) {
	code, msg := render(t, errors.New("mongo exploded"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if msg != "internal server error" {
		t.Fatalf("internal detail leaked: %q", msg)
	}
}
