package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/staffdesk/admin-panel/internal/core/domain"
	"github.com/staffdesk/admin-panel/internal/core/ports"
)

// ProfileHandler serves the profile read/update endpoints, bound per role
// group at registration time. The ownership middleware decides who may
// address which id; the handler only resolves the record.
type ProfileHandler struct {
	directory ports.DirectoryService
}

func NewProfileHandler(directory ports.DirectoryService) *ProfileHandler {
	return &ProfileHandler{directory: directory}
}

// Get returns the profile addressed by the path id.
//
// @Summary      Get a profile
// @Tags         profile
// @Produce      json
// @Param        id   path      string  true  "Identity id"
// @Success      200  {object}  dataResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/{role}s/profile/{id} [get]
func (h *ProfileHandler) Get(role domain.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		profile, err := h.directory.GetProfile(c.Request().Context(), role, c.Param("id"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dataResponse{Data: profile.Public()})
	}
}

// Update changes username, phone and image on the addressed record.
func (h *ProfileHandler) Update(role domain.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req updateProfileRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		updated, err := h.directory.UpdateProfile(c.Request().Context(), role, c.Param("id"), ports.UpdateProfileInput{
			Username: req.Username,
			Phone:    req.Phone,
			Image:    req.Image,
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dataResponse{Data: updated})
	}
}
