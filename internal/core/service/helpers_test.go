package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/staffdesk/admin-panel/internal/core/domain"
	"github.com/staffdesk/admin-panel/internal/core/ports"
)

// stubIdentityRepo is an in-memory IdentityRepository with one partition per
// role, mirroring the per-role collections of the real store.
type stubIdentityRepo struct {
	partitions map[domain.Role]map[string]*domain.Identity
	seq        int
	updateErr  error
}

func newStubIdentityRepo() *stubIdentityRepo {
	return &stubIdentityRepo{
		partitions: map[domain.Role]map[string]*domain.Identity{
			domain.RoleAdmin:    {},
			domain.RoleManager:  {},
			domain.RoleEmployee: {},
		},
	}
}

func cloneIdentity(i *domain.Identity) *domain.Identity {
	if i == nil {
		return nil
	}
	clone := *i
	return &clone
}

func (r *stubIdentityRepo) FindByEmail(_ context.Context, role domain.Role, email string) (*domain.Identity, error) {
	for _, i := range r.partitions[role] {
		if i.Email == email {
			return cloneIdentity(i), nil
		}
	}
	return nil, domain.ErrIdentityNotFound
}

func (r *stubIdentityRepo) FindByUsername(_ context.Context, role domain.Role, username string) (*domain.Identity, error) {
	for _, i := range r.partitions[role] {
		if i.Username == username {
			return cloneIdentity(i), nil
		}
	}
	return nil, domain.ErrIdentityNotFound
}

func (r *stubIdentityRepo) FindByID(_ context.Context, role domain.Role, id string, includeSecret bool) (*domain.Identity, error) {
	i, ok := r.partitions[role][id]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	clone := cloneIdentity(i)
	if !includeSecret {
		clone.PasswordHash = ""
	}
	return clone, nil
}

func (r *stubIdentityRepo) FindByResetTokenHash(_ context.Context, role domain.Role, hash string) (*domain.Identity, error) {
	for _, i := range r.partitions[role] {
		if i.ResetTokenHash != "" && i.ResetTokenHash == hash {
			return cloneIdentity(i), nil
		}
	}
	return nil, domain.ErrIdentityNotFound
}

func (r *stubIdentityRepo) FindByEmployeeID(_ context.Context, employeeID string) (*domain.Identity, error) {
	for _, i := range r.partitions[domain.RoleEmployee] {
		if i.EmployeeID == employeeID {
			return cloneIdentity(i), nil
		}
	}
	return nil, domain.ErrIdentityNotFound
}

func (r *stubIdentityRepo) Create(_ context.Context, identity *domain.Identity) (*domain.Identity, error) {
	for _, i := range r.partitions[identity.Role] {
		if i.Email == identity.Email || i.Username == identity.Username {
			return nil, domain.ErrDuplicateIdentity
		}
	}
	r.seq++
	clone := cloneIdentity(identity)
	clone.ID = fmt.Sprintf("id_%d", r.seq)
	r.partitions[identity.Role][clone.ID] = clone
	return cloneIdentity(clone), nil
}

func (r *stubIdentityRepo) Update(_ context.Context, identity *domain.Identity) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.partitions[identity.Role][identity.ID]; !ok {
		return domain.ErrIdentityNotFound
	}
	r.partitions[identity.Role][identity.ID] = cloneIdentity(identity)
	return nil
}

func (r *stubIdentityRepo) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	return int64(len(r.partitions[role])), nil
}

func (r *stubIdentityRepo) CountActiveByRole(_ context.Context, role domain.Role) (int64, error) {
	var n int64
	for _, i := range r.partitions[role] {
		if i.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *stubIdentityRepo) CountLoginsSince(_ context.Context, role domain.Role, since time.Time) (int64, error) {
	var n int64
	for _, i := range r.partitions[role] {
		if i.LastLogin.After(since) {
			n++
		}
	}
	return n, nil
}

func (r *stubIdentityRepo) CountUnmanagedEmployees(_ context.Context) (int64, error) {
	var n int64
	for _, i := range r.partitions[domain.RoleEmployee] {
		if i.ManagedBy == "" {
			n++
		}
	}
	return n, nil
}

func (r *stubIdentityRepo) ListByRole(_ context.Context, role domain.Role) ([]*domain.Identity, error) {
	var out []*domain.Identity
	for _, i := range r.partitions[role] {
		clone := cloneIdentity(i)
		clone.PasswordHash = ""
		out = append(out, clone)
	}
	return out, nil
}

func (r *stubIdentityRepo) ListManagedEmployees(_ context.Context, managerID, department string) ([]*domain.Identity, error) {
	var out []*domain.Identity
	for _, i := range r.partitions[domain.RoleEmployee] {
		if i.ManagedBy == managerID || i.Department == department {
			clone := cloneIdentity(i)
			clone.PasswordHash = ""
			out = append(out, clone)
		}
	}
	return out, nil
}

func (r *stubIdentityRepo) FindManagedEmployee(_ context.Context, id, managerID, department string) (*domain.Identity, error) {
	i, ok := r.partitions[domain.RoleEmployee][id]
	if !ok || (i.ManagedBy != managerID && i.Department != department) {
		return nil, domain.ErrIdentityNotFound
	}
	clone := cloneIdentity(i)
	clone.PasswordHash = ""
	return clone, nil
}

func (r *stubIdentityRepo) AddManagedEmployee(_ context.Context, managerID, employeeID string) error {
	m, ok := r.partitions[domain.RoleManager][managerID]
	if !ok {
		return domain.ErrIdentityNotFound
	}
	m.ManagedEmployees = append(m.ManagedEmployees, employeeID)
	return nil
}

// stubOutbox records enqueued mail without delivering it.
type stubOutbox struct {
	messages []ports.MailMessage
}

func (o *stubOutbox) Enqueue(msg ports.MailMessage) {
	o.messages = append(o.messages, msg)
}

// stubThrottle allows everything unless told otherwise.
type stubThrottle struct {
	deny bool
	err  error
}

func (t *stubThrottle) Allow(context.Context, domain.Role, string) (bool, error) {
	return !t.deny, t.err
}

// testHasher uses the bcrypt minimum cost to keep the suite fast.
func testHasher() *PasswordHasher { return NewPasswordHasher(4) }

func testLogger() zerolog.Logger { return zerolog.Nop() }
