package ports

import (
	"context"

	"github.com/staffdesk/admin-panel/internal/core/domain"
)

type CreateManagerInput struct {
	Username   string
	Email      string
	Password   string
	Phone      string
	Department string
	Image      string
	ActorID    string
}

// CreateEmployeeInput carries employee creation fields. ActorID/ActorRole
// identify the creator: an admin may create into any department, a manager
// creates into the department named in the request and becomes the
// employee's manager.
type CreateEmployeeInput struct {
	Username   string
	Email      string
	Password   string
	Phone      string
	Department string
	Position   string
	EmployeeID string
	Salary     float64
	Image      string
	ActorID    string
	ActorRole  domain.Role
}

type UpdateProfileInput struct {
	Username string
	Phone    string
	Image    string
}

// DashboardStats aggregates the admin dashboard counters.
type DashboardStats struct {
	TotalEmployees     int64 `json:"total_employees"`
	ActiveManagers     int64 `json:"active_managers"`
	UnmanagedEmployees int64 `json:"unmanaged_employees"`
	RecentLogins       struct {
		Admins    int64 `json:"admins"`
		Managers  int64 `json:"managers"`
		Employees int64 `json:"employees"`
	} `json:"recent_logins"`
}

// DirectoryService implements the role-scoped CRUD surface on top of the
// identity store: profiles, subordinate creation, listings, status toggles.
type DirectoryService interface {
	GetProfile(ctx context.Context, role domain.Role, id string) (*domain.Identity, error)
	UpdateProfile(ctx context.Context, role domain.Role, id string, input UpdateProfileInput) (*domain.Identity, error)

	CreateManager(ctx context.Context, input CreateManagerInput) (*domain.Identity, error)
	CreateEmployee(ctx context.Context, input CreateEmployeeInput) (*domain.Identity, error)

	ListManagers(ctx context.Context) ([]*domain.Identity, error)
	ListEmployees(ctx context.Context) ([]*domain.Identity, error)
	ListManagedEmployees(ctx context.Context, manager *domain.Identity) ([]*domain.Identity, error)
	GetManagedEmployee(ctx context.Context, manager *domain.Identity, id string) (*domain.Identity, error)

	ToggleStatus(ctx context.Context, role domain.Role, id string) (*domain.Identity, error)
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}
