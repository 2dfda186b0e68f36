package ports

import (
	"context"
	"time"

	"github.com/staffdesk/admin-panel/internal/core/domain"
)

// IdentityRepository is the persistence interface for identity records. Every
// lookup is scoped to a role partition: the store keeps one collection per
// role, and the caller always knows which partition it is addressing.
//
// FindByEmail and FindByUsername include the password hash; they exist to
// serve login and password-reset flows. FindByID excludes it unless
// includeSecret is set.
type IdentityRepository interface {
	FindByEmail(ctx context.Context, role domain.Role, email string) (*domain.Identity, error)
	FindByUsername(ctx context.Context, role domain.Role, username string) (*domain.Identity, error)
	FindByID(ctx context.Context, role domain.Role, id string, includeSecret bool) (*domain.Identity, error)
	FindByResetTokenHash(ctx context.Context, role domain.Role, hash string) (*domain.Identity, error)
	FindByEmployeeID(ctx context.Context, employeeID string) (*domain.Identity, error)

	Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
	Update(ctx context.Context, identity *domain.Identity) error

	CountByRole(ctx context.Context, role domain.Role) (int64, error)
	CountActiveByRole(ctx context.Context, role domain.Role) (int64, error)
	CountLoginsSince(ctx context.Context, role domain.Role, since time.Time) (int64, error)
	CountUnmanagedEmployees(ctx context.Context) (int64, error)

	ListByRole(ctx context.Context, role domain.Role) ([]*domain.Identity, error)

	// ListManagedEmployees returns employees either managed by the given
	// manager or belonging to the manager's department.
	ListManagedEmployees(ctx context.Context, managerID, department string) ([]*domain.Identity, error)
	// FindManagedEmployee applies the same scope to a single id lookup;
	// an employee outside the scope is reported as not found.
	FindManagedEmployee(ctx context.Context, id, managerID, department string) (*domain.Identity, error)

	AddManagedEmployee(ctx context.Context, managerID, employeeID string) error
}
