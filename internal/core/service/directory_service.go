package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/staffdesk/admin-panel/internal/core/domain"
	"github.com/staffdesk/admin-panel/internal/core/ports"
)

const maxDepartmentLen = 30

// DirectoryService implements the role-scoped CRUD surface: profiles,
// subordinate creation, listings, status toggles and dashboard stats.
type DirectoryService struct {
	repo   ports.IdentityRepository
	hasher *PasswordHasher
	outbox ports.MailOutbox
	logger zerolog.Logger
}

func NewDirectoryService(repo ports.IdentityRepository, hasher *PasswordHasher, outbox ports.MailOutbox, logger zerolog.Logger) *DirectoryService {
	return &DirectoryService{repo: repo, hasher: hasher, outbox: outbox, logger: logger}
}

func (s *DirectoryService) GetProfile(ctx context.Context, role domain.Role, id string) (*domain.Identity, error) {
	return s.repo.FindByID(ctx, role, id, false)
}

// UpdateProfile changes username, phone and image only. A new username is
// re-checked for uniqueness within the role partition, excluding the record
// itself. The password hash is never touched here.
func (s *DirectoryService) UpdateProfile(ctx context.Context, role domain.Role, id string, input ports.UpdateProfileInput) (*domain.Identity, error) {
	// Update persists the whole record, so the hash must ride along.
	identity, err := s.repo.FindByID(ctx, role, id, true)
	if err != nil {
		return nil, err
	}

	if input.Username != "" {
		username := domain.NormalizeUsername(input.Username)
		if !domain.ValidUsername(username) {
			return nil, fmt.Errorf("invalid username: %w", domain.ErrBadRequest)
		}
		if existing, err := s.repo.FindByUsername(ctx, role, username); err == nil && existing.ID != id {
			return nil, domain.ErrDuplicateIdentity
		} else if err != nil && !errors.Is(err, domain.ErrIdentityNotFound) {
			return nil, err
		}
		identity.Username = username
	}
	if input.Phone != "" {
		if !domain.ValidPhone(input.Phone) {
			return nil, fmt.Errorf("invalid phone number: %w", domain.ErrBadRequest)
		}
		identity.Phone = input.Phone
	}
	if input.Image != "" {
		identity.Image = input.Image
	}

	identity.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, identity); err != nil {
		return nil, err
	}
	return identity.Public(), nil
}

// CreateManager creates a manager account. Only admins reach this path; the
// acting admin is recorded as the creator.
func (s *DirectoryService) CreateManager(ctx context.Context, input ports.CreateManagerInput) (*domain.Identity, error) {
	username := domain.NormalizeUsername(input.Username)
	email := domain.NormalizeEmail(input.Email)
	department := strings.TrimSpace(input.Department)

	switch {
	case !domain.ValidUsername(username):
		return nil, fmt.Errorf("invalid username: %w", domain.ErrBadRequest)
	case !domain.ValidEmail(email):
		return nil, fmt.Errorf("invalid email: %w", domain.ErrBadRequest)
	case strings.TrimSpace(input.Password) == "":
		return nil, fmt.Errorf("password is required: %w", domain.ErrBadRequest)
	case !domain.ValidPhone(input.Phone):
		return nil, fmt.Errorf("invalid phone number: %w", domain.ErrBadRequest)
	case department == "" || len(department) > maxDepartmentLen:
		return nil, fmt.Errorf("invalid department: %w", domain.ErrBadRequest)
	case input.ActorID == "":
		return nil, fmt.Errorf("manager must be created by an admin: %w", domain.ErrBadRequest)
	}

	if err := s.checkCreateDuplicate(ctx, domain.RoleManager, email, username); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	manager := &domain.Identity{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Phone:        input.Phone,
		Role:         domain.RoleManager,
		Department:   department,
		Image:        input.Image,
		IsActive:     true,
		CreatedBy:    input.ActorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, manager)
	if err != nil {
		return nil, err
	}

	s.outbox.Enqueue(welcomeMail(created))
	s.logger.Info().Str("id", created.ID).Str("department", department).Msg("manager created")
	return created.Public(), nil
}

// CreateEmployee creates an employee account. A manager creates into the
// department named in the request and becomes the employee's manager; an
// admin creates unmanaged employees in any department.
func (s *DirectoryService) CreateEmployee(ctx context.Context, input ports.CreateEmployeeInput) (*domain.Identity, error) {
	username := domain.NormalizeUsername(input.Username)
	email := domain.NormalizeEmail(input.Email)
	department := strings.TrimSpace(input.Department)

	switch {
	case !domain.ValidUsername(username):
		return nil, fmt.Errorf("invalid username: %w", domain.ErrBadRequest)
	case !domain.ValidEmail(email):
		return nil, fmt.Errorf("invalid email: %w", domain.ErrBadRequest)
	case strings.TrimSpace(input.Password) == "":
		return nil, fmt.Errorf("password is required: %w", domain.ErrBadRequest)
	case !domain.ValidPhone(input.Phone):
		return nil, fmt.Errorf("invalid phone number: %w", domain.ErrBadRequest)
	case department == "" || len(department) > maxDepartmentLen:
		return nil, fmt.Errorf("invalid department: %w", domain.ErrBadRequest)
	case strings.TrimSpace(input.Position) == "":
		return nil, fmt.Errorf("position is required: %w", domain.ErrBadRequest)
	case input.Salary < 0:
		return nil, fmt.Errorf("salary cannot be negative: %w", domain.ErrBadRequest)
	case input.ActorID == "":
		return nil, fmt.Errorf("employee must be created by an admin or manager: %w", domain.ErrBadRequest)
	}

	if err := s.checkCreateDuplicate(ctx, domain.RoleEmployee, email, username); err != nil {
		return nil, err
	}
	if input.EmployeeID != "" {
		if _, err := s.repo.FindByEmployeeID(ctx, input.EmployeeID); err == nil {
			return nil, domain.ErrDuplicateIdentity
		} else if !errors.Is(err, domain.ErrIdentityNotFound) {
			return nil, err
		}
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	employee := &domain.Identity{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Phone:        input.Phone,
		Role:         domain.RoleEmployee,
		Department:   department,
		Position:     strings.TrimSpace(input.Position),
		EmployeeID:   strings.TrimSpace(input.EmployeeID),
		Salary:       input.Salary,
		JoiningDate:  now,
		Image:        input.Image,
		IsActive:     true,
		CreatedBy:    input.ActorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	switch input.ActorRole {
	case domain.RoleManager:
		employee.CreatedByModel = domain.CreatorManager
		employee.ManagedBy = input.ActorID
	default:
		employee.CreatedByModel = domain.CreatorAdmin
	}

	created, err := s.repo.Create(ctx, employee)
	if err != nil {
		return nil, err
	}

	if input.ActorRole == domain.RoleManager {
		if err := s.repo.AddManagedEmployee(ctx, input.ActorID, created.ID); err != nil {
			s.logger.Error().Err(err).Str("manager_id", input.ActorID).Msg("failed to link managed employee")
		}
	}

	s.outbox.Enqueue(welcomeMail(created))
	s.logger.Info().Str("id", created.ID).Str("department", department).Msg("employee created")
	return created.Public(), nil
}

func (s *DirectoryService) ListManagers(ctx context.Context) ([]*domain.Identity, error) {
	return s.repo.ListByRole(ctx, domain.RoleManager)
}

func (s *DirectoryService) ListEmployees(ctx context.Context) ([]*domain.Identity, error) {
	return s.repo.ListByRole(ctx, domain.RoleEmployee)
}

// ListManagedEmployees returns employees in the manager's scope: managed by
// them or in their department.
func (s *DirectoryService) ListManagedEmployees(ctx context.Context, manager *domain.Identity) ([]*domain.Identity, error) {
	return s.repo.ListManagedEmployees(ctx, manager.ID, manager.Department)
}

// GetManagedEmployee fetches one employee under the same scope. An employee
// outside the manager's department and management list is reported as not
// found rather than forbidden, matching the listing behaviour.
func (s *DirectoryService) GetManagedEmployee(ctx context.Context, manager *domain.Identity, id string) (*domain.Identity, error) {
	return s.repo.FindManagedEmployee(ctx, id, manager.ID, manager.Department)
}

// ToggleStatus flips the active flag. Deactivated identities fail login and
// session resolution; records are never hard-deleted.
func (s *DirectoryService) ToggleStatus(ctx context.Context, role domain.Role, id string) (*domain.Identity, error) {
	identity, err := s.repo.FindByID(ctx, role, id, true)
	if err != nil {
		return nil, err
	}
	identity.IsActive = !identity.IsActive
	identity.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, identity); err != nil {
		return nil, err
	}
	s.logger.Info().Str("role", string(role)).Str("id", id).Bool("is_active", identity.IsActive).Msg("status toggled")
	return identity.Public(), nil
}

// DashboardStats aggregates the admin dashboard counters in one pass.
func (s *DirectoryService) DashboardStats(ctx context.Context) (*ports.DashboardStats, error) {
	stats := &ports.DashboardStats{}
	var err error

	if stats.TotalEmployees, err = s.repo.CountByRole(ctx, domain.RoleEmployee); err != nil {
		return nil, fmt.Errorf("count employees: %w", err)
	}
	if stats.ActiveManagers, err = s.repo.CountActiveByRole(ctx, domain.RoleManager); err != nil {
		return nil, fmt.Errorf("count active managers: %w", err)
	}
	if stats.UnmanagedEmployees, err = s.repo.CountUnmanagedEmployees(ctx); err != nil {
		return nil, fmt.Errorf("count unmanaged employees: %w", err)
	}

	since := time.Now().UTC().AddDate(0, 0, -7)
	if stats.RecentLogins.Admins, err = s.repo.CountLoginsSince(ctx, domain.RoleAdmin, since); err != nil {
		return nil, fmt.Errorf("count admin logins: %w", err)
	}
	if stats.RecentLogins.Managers, err = s.repo.CountLoginsSince(ctx, domain.RoleManager, since); err != nil {
		return nil, fmt.Errorf("count manager logins: %w", err)
	}
	if stats.RecentLogins.Employees, err = s.repo.CountLoginsSince(ctx, domain.RoleEmployee, since); err != nil {
		return nil, fmt.Errorf("count employee logins: %w", err)
	}

	return stats, nil
}

func (s *DirectoryService) checkCreateDuplicate(ctx context.Context, role domain.Role, email, username string) error {
	if _, err := s.repo.FindByEmail(ctx, role, email); err == nil {
		return domain.ErrDuplicateIdentity
	} else if !errors.Is(err, domain.ErrIdentityNotFound) {
		return err
	}
	if _, err := s.repo.FindByUsername(ctx, role, username); err == nil {
		return domain.ErrDuplicateIdentity
	} else if !errors.Is(err, domain.ErrIdentityNotFound) {
		return err
	}
	return nil
}
