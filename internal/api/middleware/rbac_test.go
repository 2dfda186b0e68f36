package middleware

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/staffdesk/admin-panel/internal/core/domain"
)

func TestRBAC_Allows(t *testing.T) {
	c, rec := newTestContext(t, "", "")
	SetIdentity(c, &domain.Identity{ID: "m1", Role: domain.RoleManager, IsActive: true})

	called := false
	handler := RBAC(domain.RoleAdmin, domain.RoleManager)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_Forbids(t *testing.T) {
	c, rec := newTestContext(t, "", "")
	SetIdentity(c, &domain.Identity{ID: "e1", Role: domain.RoleEmployee, IsActive: true})

	handler := RBAC(domain.RoleAdmin, domain.RoleManager)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	_ = handler(c)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRBAC_NoIdentity(t *testing.T) {
	c, rec := newTestContext(t, "", "")
	e := c.Echo()

	handler := RBAC(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
