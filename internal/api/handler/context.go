package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/staffdesk/admin-panel/internal/api/middleware"
	"github.com/staffdesk/admin-panel/internal/core/domain"
)

// currentIdentity extracts the identity attached by the Auth middleware and
// fast-fails when the route was wired without it.
func currentIdentity(c echo.Context) (*domain.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return identity, nil
}
