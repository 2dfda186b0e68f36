package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/staffdesk/admin-panel/internal/api/metrics"
	"github.com/staffdesk/admin-panel/internal/api/middleware"
	"github.com/staffdesk/admin-panel/internal/core/domain"
	"github.com/staffdesk/admin-panel/internal/core/ports"
)

// AdminHandler serves the admin-only surface: admin registration, manager
// creation, fleet listings, status toggles and the dashboard.
type AdminHandler struct {
	auth      ports.AuthService
	directory ports.DirectoryService
}

func NewAdminHandler(auth ports.AuthService, directory ports.DirectoryService) *AdminHandler {
	return &AdminHandler{auth: auth, directory: directory}
}

// Register creates an admin account. The very first admin registers with no
// token (store bootstrap); afterwards the route requires an authenticated
// admin, which the service enforces by rejecting actor-less registration.
//
// @Summary      Register an admin
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      registerAdminRequest  true  "Admin details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/admins/register [post]
func (h *AdminHandler) Register(c echo.Context) error {
	var req registerAdminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.RegisterAdminInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Image:    req.Image,
	}
	// Registration is reachable both with and without a resolved session.
	if identity, ok := middleware.IdentityFrom(c); ok && identity.Role == domain.RoleAdmin {
		input.ActorID = identity.ID
	}

	res, err := h.auth.RegisterAdmin(c.Request().Context(), input)
	if err != nil {
		return err
	}

	metrics.IdentitiesCreatedTotal.WithLabelValues(string(domain.RoleAdmin)).Inc()
	return c.JSON(http.StatusCreated, authResponse{Token: res.Token, Data: res.Identity})
}

// CreateManager creates a manager account under the acting admin.
func (h *AdminHandler) CreateManager(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req createManagerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	manager, err := h.directory.CreateManager(c.Request().Context(), ports.CreateManagerInput{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
		Department: req.Department,
		Image:      req.Image,
		ActorID:    identity.ID,
	})
	if err != nil {
		return err
	}

	metrics.IdentitiesCreatedTotal.WithLabelValues(string(domain.RoleManager)).Inc()
	return c.JSON(http.StatusCreated, dataResponse{Data: manager})
}

// CreateEmployee lets an admin create an employee in any department. The
// record is unmanaged until a manager picks it up.
func (h *AdminHandler) CreateEmployee(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req createEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	employee, err := h.directory.CreateEmployee(c.Request().Context(), ports.CreateEmployeeInput{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
		Department: req.Department,
		Position:   req.Position,
		EmployeeID: req.EmployeeID,
		Salary:     req.Salary,
		Image:      req.Image,
		ActorID:    identity.ID,
		ActorRole:  domain.RoleAdmin,
	})
	if err != nil {
		return err
	}

	metrics.IdentitiesCreatedTotal.WithLabelValues(string(domain.RoleEmployee)).Inc()
	return c.JSON(http.StatusCreated, dataResponse{Data: employee})
}

// ListManagers returns every manager, newest first.
func (h *AdminHandler) ListManagers(c echo.Context) error {
	managers, err := h.directory.ListManagers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Count: len(managers), Data: managers})
}

// ListEmployees returns every employee, newest first.
func (h *AdminHandler) ListEmployees(c echo.Context) error {
	employees, err := h.directory.ListEmployees(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Count: len(employees), Data: employees})
}

// ToggleManagerStatus flips a manager's active flag.
func (h *AdminHandler) ToggleManagerStatus(c echo.Context) error {
	manager, err := h.directory.ToggleStatus(c.Request().Context(), domain.RoleManager, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Data: manager})
}

// ToggleEmployeeStatus flips an employee's active flag.
func (h *AdminHandler) ToggleEmployeeStatus(c echo.Context) error {
	employee, err := h.directory.ToggleStatus(c.Request().Context(), domain.RoleEmployee, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Data: employee})
}

// DashboardStats returns the admin dashboard counters.
func (h *AdminHandler) DashboardStats(c echo.Context) error {
	stats, err := h.directory.DashboardStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Data: stats})
}
