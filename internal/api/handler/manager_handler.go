package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/staffdesk/admin-panel/internal/api/metrics"
	"github.com/staffdesk/admin-panel/internal/core/domain"
	"github.com/staffdesk/admin-panel/internal/core/ports"
)

// ManagerHandler serves the manager surface: employee creation within the
// manager's scope and department-bounded employee reads.
type ManagerHandler struct {
	directory ports.DirectoryService
}

func NewManagerHandler(directory ports.DirectoryService) *ManagerHandler {
	return &ManagerHandler{directory: directory}
}

// CreateEmployee creates an employee managed by the acting manager.
//
// @Summary      Create an employee
// @Tags         manager
// @Accept       json
// @Produce      json
// @Param        body  body      createEmployeeRequest  true  "Employee details"
// @Success      201   {object}  dataResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/managers/employees [post]
func (h *ManagerHandler) CreateEmployee(c echo.Context) error {
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
		ActorRole:  domain.RoleManager,
	})
	if err != nil {
		return err
	}

	metrics.IdentitiesCreatedTotal.WithLabelValues(string(domain.RoleEmployee)).Inc()
	return c.JSON(http.StatusCreated, dataResponse{Data: employee})
}

// ListEmployees returns the employees in the manager's scope: managed by
// them or in their department.
func (h *ManagerHandler) ListEmployees(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	employees, err := h.directory.ListManagedEmployees(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Count: len(employees), Data: employees})
}

// GetEmployeeByID returns one employee under the same scope; anything
// outside it reads as not found.
func (h *ManagerHandler) GetEmployeeByID(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	employee, err := h.directory.GetManagedEmployee(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Data: employee})
}
