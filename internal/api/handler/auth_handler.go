package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/staffdesk/admin-panel/internal/api/metrics"
	"github.com/staffdesk/admin-panel/internal/core/domain"
	"github.com/staffdesk/admin-panel/internal/core/ports"
)

// AuthHandler serves the credential endpoints for all three role partitions;
// each route binds it to one role at registration time.
type AuthHandler struct {
	auth ports.AuthService
}

func NewAuthHandler(auth ports.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login authenticates against one role partition and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials (email or username)"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/{role}s/login [post]
func (h *AuthHandler) Login(role domain.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req loginRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		res, err := h.auth.Login(c.Request().Context(), role, req.Email, req.Password)
		if err != nil {
			metrics.LoginsTotal.WithLabelValues(string(role), loginResult(err)).Inc()
			return err
		}

		metrics.LoginsTotal.WithLabelValues(string(role), "success").Inc()
		return c.JSON(http.StatusOK, authResponse{Token: res.Token, Data: res.Identity})
	}
}

// ChangePassword verifies the current password and stores a new hash.
func (h *AuthHandler) ChangePassword(role domain.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity, err := currentIdentity(c)
		if err != nil {
			return err
		}

		var req changePasswordRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		if err := h.auth.ChangePassword(c.Request().Context(), role, identity.ID, req.CurrentPassword, req.NewPassword); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, messageResponse{Message: "password changed successfully"})
	}
}

// ForgotPassword starts the 6-digit-code reset variant. The response is the
// same whether or not the address exists.
func (h *AuthHandler) ForgotPassword(role domain.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req forgotPasswordRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		if err := h.auth.ForgotPassword(c.Request().Context(), role, req.Email); err != nil {
			return err
		}
		metrics.ResetRequestsTotal.WithLabelValues(string(role), "code").Inc()
		return c.JSON(http.StatusOK, messageResponse{Message: "email sent"})
	}
}

// ResetPassword completes the code variant.
func (h *AuthHandler) ResetPassword(role domain.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req resetCodeRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		if err := h.auth.ResetPasswordWithCode(c.Request().Context(), role, req.Email, req.Code, req.NewPassword); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, messageResponse{Message: "password reset successful, you can now log in with your new password"})
	}
}

// RequestResetToken starts the hashed-token reset variant.
func (h *AuthHandler) RequestResetToken(role domain.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req forgotPasswordRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		if err := h.auth.RequestResetToken(c.Request().Context(), role, req.Email); err != nil {
			return err
		}
		metrics.ResetRequestsTotal.WithLabelValues(string(role), "token").Inc()
		return c.JSON(http.StatusOK, messageResponse{Message: "email sent"})
	}
}

// ResetPasswordWithToken completes the token variant; the token travels in
// the path, the new password in the body. On success the account is logged
// straight in.
func (h *AuthHandler) ResetPasswordWithToken(role domain.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req resetTokenRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		res, err := h.auth.ResetPasswordWithToken(c.Request().Context(), role, c.Param("resettoken"), req.Password)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, authResponse{Token: res.Token, Data: res.Identity})
	}
}

// loginResult buckets a login error for the metrics label.
func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrAccountDeactivated):
		return "deactivated"
	case errors.Is(err, domain.ErrBadRequest):
		return "bad_request"
	default:
		return "error"
	}
}
