package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/staffdesk/admin-panel/internal/core/domain"
	"github.com/staffdesk/admin-panel/internal/core/ports"
)

type directoryFixture struct {
	svc    *DirectoryService
	repo   *stubIdentityRepo
	outbox *stubOutbox
}

func newDirectoryFixture() *directoryFixture {
	repo := newStubIdentityRepo()
	outbox := &stubOutbox{}
	return &directoryFixture{
		svc:    NewDirectoryService(repo, testHasher(), outbox, testLogger()),
		repo:   repo,
		outbox: outbox,
	}
}

func (f *directoryFixture) seedManager(t *testing.T, username, email, department string) *domain.Identity {
	t.Helper()
	created, err := f.svc.CreateManager(context.Background(), ports.CreateManagerInput{
		Username:   username,
		Email:      email,
		Password:   "managerpass",
		Phone:      "+15550003333",
		Department: department,
		ActorID:    "admin_1",
	})
	if err != nil {
		t.Fatalf("seed manager: %v", err)
	}
	return created
}

func TestDirectoryService_CreateManager(t *testing.T) {
	f := newDirectoryFixture()

	manager := f.seedManager(t, "eng_lead", "lead@example.com", "Engineering")
	if manager.Role != domain.RoleManager {
		t.Fatalf("unexpected role: %s", manager.Role)
	}
	if manager.Department != "Engineering" {
		t.Fatalf("unexpected department: %s", manager.Department)
	}
	if manager.CreatedBy != "admin_1" {
		t.Fatalf("unexpected created_by: %s", manager.CreatedBy)
	}
	if manager.PasswordHash != "" {
		t.Fatalf("password hash leaked")
	}
	if len(f.outbox.messages) != 1 {
		t.Fatalf("expected welcome mail")
	}
}

func TestDirectoryService_CreateManager_Duplicate(t *testing.T) {
	f := newDirectoryFixture()
	f.seedManager(t, "eng_lead", "lead@example.com", "Engineering")

	_, err := f.svc.CreateManager(context.Background(), ports.CreateManagerInput{
		Username:   "other_lead",
		Email:      "lead@example.com",
		Password:   "pass",
		Phone:      "+15550003333",
		Department: "Sales",
		ActorID:    "admin_1",
	})
	if !errors.Is(err, domain.ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}
}

func TestDirectoryService_CreateEmployee_ByManager(t *testing.T) {
	f := newDirectoryFixture()
	manager := f.seedManager(t, "eng_lead", "lead@example.com", "Engineering")

	employee, err := f.svc.CreateEmployee(context.Background(), ports.CreateEmployeeInput{
		Username:   "new_hire",
		Email:      "hire@example.com",
		Password:   "hirepass",
		Phone:      "+15550004444",
		Department: "Engineering",
		Position:   "Backend Developer",
		EmployeeID: "EMP-001",
		Salary:     55000,
		ActorID:    manager.ID,
		ActorRole:  domain.RoleManager,
	})
	if err != nil {
		t.Fatalf("create employee failed: %v", err)
	}

	if employee.ManagedBy != manager.ID {
		t.Fatalf("managed_by = %q, want %q", employee.ManagedBy, manager.ID)
	}
	if employee.Department != "Engineering" {
		t.Fatalf("department = %q", employee.Department)
	}
	if employee.CreatedByModel != domain.CreatorManager {
		t.Fatalf("created_by_model = %q", employee.CreatedByModel)
	}

	// The employee lands on the manager's managed list.
	stored, _ := f.repo.FindByID(context.Background(), domain.RoleManager, manager.ID, false)
	if len(stored.ManagedEmployees) != 1 || stored.ManagedEmployees[0] != employee.ID {
		t.Fatalf("managed employees not updated: %v", stored.ManagedEmployees)
	}
}

func TestDirectoryService_CreateEmployee_ByAdmin(t *testing.T) {
	f := newDirectoryFixture()

	employee, err := f.svc.CreateEmployee(context.Background(), ports.CreateEmployeeInput{
		Username:   "solo_hire",
		Email:      "solo@example.com",
		Password:   "hirepass",
		Phone:      "+15550004444",
		Department: "Finance",
		Position:   "Accountant",
		ActorID:    "admin_1",
		ActorRole:  domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("create employee failed: %v", err)
	}
	if employee.CreatedByModel != domain.CreatorAdmin {
		t.Fatalf("created_by_model = %q", employee.CreatedByModel)
	}
	if employee.ManagedBy != "" {
		t.Fatalf("admin-created employee should be unmanaged, got %q", employee.ManagedBy)
	}
}

func TestDirectoryService_CreateEmployee_DuplicateEmployeeID(t *testing.T) {
	f := newDirectoryFixture()
	manager := f.seedManager(t, "eng_lead", "lead@example.com", "Engineering")

	input := ports.CreateEmployeeInput{
		Username:   "hire_one",
		Email:      "one@example.com",
		Password:   "pass",
		Phone:      "+15550004444",
		Department: "Engineering",
		Position:   "Dev",
		EmployeeID: "EMP-001",
		ActorID:    manager.ID,
		ActorRole:  domain.RoleManager,
	}
	if _, err := f.svc.CreateEmployee(context.Background(), input); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	input.Username = "hire_two"
	input.Email = "two@example.com"
	if _, err := f.svc.CreateEmployee(context.Background(), input); !errors.Is(err, domain.ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}
}

func TestDirectoryService_ManagerScope(t *testing.T) {
	f := newDirectoryFixture()
	engManager := f.seedManager(t, "eng_lead", "lead@example.com", "Engineering")
	salesManager := f.seedManager(t, "sales_lead", "sales@example.com", "Sales")

	employee, err := f.svc.CreateEmployee(context.Background(), ports.CreateEmployeeInput{
		Username:   "new_hire",
		Email:      "hire@example.com",
		Password:   "hirepass",
		Phone:      "+15550004444",
		Department: "Engineering",
		Position:   "Dev",
		ActorID:    engManager.ID,
		ActorRole:  domain.RoleManager,
	})
	if err != nil {
		t.Fatalf("create employee failed: %v", err)
	}

	// Own manager sees the employee.
	if _, err := f.svc.GetManagedEmployee(context.Background(), engManager, employee.ID); err != nil {
		t.Fatalf("own manager denied: %v", err)
	}

	// A manager from another department without a management link does not.
	if _, err := f.svc.GetManagedEmployee(context.Background(), salesManager, employee.ID); !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Fatalf("expected ErrIdentityNotFound, got %v", err)
	}

	listed, err := f.svc.ListManagedEmployees(context.Background(), engManager)
	if err != nil || len(listed) != 1 {
		t.Fatalf("expected 1 managed employee, got %d (err %v)", len(listed), err)
	}
	listed, err = f.svc.ListManagedEmployees(context.Background(), salesManager)
	if err != nil || len(listed) != 0 {
		t.Fatalf("expected no managed employees, got %d (err %v)", len(listed), err)
	}
}

func TestDirectoryService_UpdateProfile_UsernameConflict(t *testing.T) {
	f := newDirectoryFixture()
	first := f.seedManager(t, "eng_lead", "lead@example.com", "Engineering")
	second := f.seedManager(t, "sales_lead", "sales@example.com", "Sales")

	_, err := f.svc.UpdateProfile(context.Background(), domain.RoleManager, second.ID, ports.UpdateProfileInput{
		Username: first.Username,
	})
	if !errors.Is(err, domain.ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}

	// Renaming to your own current username is not a conflict.
	updated, err := f.svc.UpdateProfile(context.Background(), domain.RoleManager, second.ID, ports.UpdateProfileInput{
		Username: "SALES_LEAD",
		Phone:    "+15550009999",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Username != "sales_lead" {
		t.Fatalf("username not normalized: %q", updated.Username)
	}
	if updated.Phone != "+15550009999" {
		t.Fatalf("phone not updated: %q", updated.Phone)
	}
}

func TestDirectoryService_ToggleStatus(t *testing.T) {
	f := newDirectoryFixture()
	manager := f.seedManager(t, "eng_lead", "lead@example.com", "Engineering")

	toggled, err := f.svc.ToggleStatus(context.Background(), domain.RoleManager, manager.ID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if toggled.IsActive {
		t.Fatalf("expected deactivated")
	}

	toggled, err = f.svc.ToggleStatus(context.Background(), domain.RoleManager, manager.ID)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if !toggled.IsActive {
		t.Fatalf("expected reactivated")
	}
}

func TestDirectoryService_DashboardStats(t *testing.T) {
	f := newDirectoryFixture()
	manager := f.seedManager(t, "eng_lead", "lead@example.com", "Engineering")

	if _, err := f.svc.CreateEmployee(context.Background(), ports.CreateEmployeeInput{
		Username:   "new_hire",
		Email:      "hire@example.com",
		Password:   "pass",
		Phone:      "+15550004444",
		Department: "Engineering",
		Position:   "Dev",
		ActorID:    manager.ID,
		ActorRole:  domain.RoleManager,
	}); err != nil {
		t.Fatalf("create employee failed: %v", err)
	}
	if _, err := f.svc.CreateEmployee(context.Background(), ports.CreateEmployeeInput{
		Username:   "solo_hire",
		Email:      "solo@example.com",
		Password:   "pass",
		Phone:      "+15550004444",
		Department: "Finance",
		Position:   "Accountant",
		ActorID:    "admin_1",
		ActorRole:  domain.RoleAdmin,
	}); err != nil {
		t.Fatalf("create employee failed: %v", err)
	}

	// Mark the manager as recently logged in.
	stored, _ := f.repo.FindByID(context.Background(), domain.RoleManager, manager.ID, true)
	stored.LastLogin = time.Now().UTC()
	if err := f.repo.Update(context.Background(), stored); err != nil {
		t.Fatalf("seed last login: %v", err)
	}

	stats, err := f.svc.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("dashboard stats failed: %v", err)
	}
	if stats.TotalEmployees != 2 {
		t.Fatalf("total employees = %d, want 2", stats.TotalEmployees)
	}
	if stats.ActiveManagers != 1 {
		t.Fatalf("active managers = %d, want 1", stats.ActiveManagers)
	}
	if stats.UnmanagedEmployees != 1 {
		t.Fatalf("unmanaged employees = %d, want 1", stats.UnmanagedEmployees)
	}
	if stats.RecentLogins.Managers != 1 {
		t.Fatalf("recent manager logins = %d, want 1", stats.RecentLogins.Managers)
	}
}

// Per-role uniqueness partitions: the same email can exist as a manager and
// as an employee. Observed behaviour of the store layout, exercised here so
// a future switch to global uniqueness shows up as a test change.
func TestDirectoryService_EmailUniquenessIsPerRole(t *testing.T) {
	f := newDirectoryFixture()
	manager := f.seedManager(t, "eng_lead", "shared@example.com", "Engineering")

	if _, err := f.svc.CreateEmployee(context.Background(), ports.CreateEmployeeInput{
		Username:   "eng_lead",
		Email:      "shared@example.com",
		Password:   "pass",
		Phone:      "+15550004444",
		Department: "Engineering",
		Position:   "Dev",
		ActorID:    manager.ID,
		ActorRole:  domain.RoleManager,
	}); err != nil {
		t.Fatalf("cross-role duplicate rejected, expected per-role partitioning: %v", err)
	}
}
