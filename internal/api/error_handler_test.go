package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/staffdesk/admin-panel/internal/core/domain"
)

func render(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	return rec.Code, body["error"]
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"deactivated", domain.ErrAccountDeactivated, http.StatusUnauthorized, "account is deactivated"},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "not authenticated"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{"duplicate", domain.ErrDuplicateIdentity, http.StatusConflict, "identity already exists"},
		{"not found", domain.ErrIdentityNotFound, http.StatusNotFound, "identity not found"},
		{"reset code", domain.ErrInvalidResetCode, http.StatusBadRequest, "invalid or expired code"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := render(t, tc.err)
			if code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, code)
			}
			if msg != tc.message {
				t.Fatalf("expected %q, got %q", tc.message, msg)
			}
		})
	}
}

// Wrapped bad-request errors keep their detail so validation messages reach
// the client.
func TestHTTPErrorHandler_WrappedBadRequest(t *testing.T) {
	code, msg := render(t, fmt.Errorf("email and password are required: %w", domain.ErrBadRequest))
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if msg != "email and password are required: missing or malformed input" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

// Unknown errors must not leak internals to the client.
func TestHTTPErrorHandler_UnexpectedError(t *testing.T) {
	code, msg := render(t, fmt.Errorf("mongo topology closed"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if msg != "internal server error" {
		t.Fatalf("internal detail leaked: %q", msg)
	}
}

func TestHTTPErrorHandler_EchoErrorPassthrough(t *testing.T) {
	code, msg := render(t, echo.NewHTTPError(http.StatusNotFound, "Not Found"))
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	if msg != "Not Found" {
		t.Fatalf("unexpected message: %q", msg)
	}
}
