package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/staffdesk/admin-panel/internal/core/domain"
)

// stubRepo serves FindByID from a fixed map keyed by "<role>/<id>". The
// remaining repository methods are unused by the middleware under test.
type stubRepo struct {
	identities map[string]*domain.Identity
}

func newStubRepo(identities ...*domain.Identity) *stubRepo {
	r := &stubRepo{identities: make(map[string]*domain.Identity)}
	for _, i := range identities {
		r.identities[string(i.Role)+"/"+i.ID] = i
	}
	return r
}

func (r *stubRepo) FindByID(_ context.Context, role domain.Role, id string, _ bool) (*domain.Identity, error) {
	if i, ok := r.identities[string(role)+"/"+id]; ok {
		clone := *i
		clone.PasswordHash = ""
		return &clone, nil
	}
	return nil, domain.ErrIdentityNotFound
}

func (r *stubRepo) FindByEmail(context.Context, domain.Role, string) (*domain.Identity, error) {
	return nil, domain.ErrIdentityNotFound
}

func (r *stubRepo) FindByUsername(context.Context, domain.Role, string) (*domain.Identity, error) {
	return nil, domain.ErrIdentityNotFound
}

func (r *stubRepo) FindByResetTokenHash(context.Context, domain.Role, string) (*domain.Identity, error) {
	return nil, domain.ErrIdentityNotFound
}

func (r *stubRepo) FindByEmployeeID(context.Context, string) (*domain.Identity, error) {
	return nil, domain.ErrIdentityNotFound
}

func (r *stubRepo) Create(_ context.Context, i *domain.Identity) (*domain.Identity, error) {
	return i, nil
}

func (r *stubRepo) Update(context.Context, *domain.Identity) error { return nil }

func (r *stubRepo) CountByRole(context.Context, domain.Role) (int64, error)       { return 0, nil }
func (r *stubRepo) CountActiveByRole(context.Context, domain.Role) (int64, error) { return 0, nil }
func (r *stubRepo) CountLoginsSince(context.Context, domain.Role, time.Time) (int64, error) {
	return 0, nil
}
func (r *stubRepo) CountUnmanagedEmployees(context.Context) (int64, error) { return 0, nil }

func (r *stubRepo) ListByRole(context.Context, domain.Role) ([]*domain.Identity, error) {
	return nil, nil
}

func (r *stubRepo) ListManagedEmployees(context.Context, string, string) ([]*domain.Identity, error) {
	return nil, nil
}

func (r *stubRepo) FindManagedEmployee(context.Context, string, string, string) (*domain.Identity, error) {
	return nil, domain.ErrIdentityNotFound
}

func (r *stubRepo) AddManagedEmployee(context.Context, string, string) error { return nil }

func testLogger() zerolog.Logger { return zerolog.Nop() }

// newTestContext builds an echo context for a GET request with the given
// path parameter already bound.
func newTestContext(t *testing.T, param, value string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if param != "" {
		c.SetParamNames(param)
		c.SetParamValues(value)
	}
	return c, rec
}
