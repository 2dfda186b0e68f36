package ports

import (
	"context"

	"github.com/staffdesk/admin-panel/internal/core/domain"
)

// ResetThrottle rate-limits forgot-password requests per account. Allow
// reports whether a new reset may be started for the given address; a
// throttled request still gets the opaque success response, it just does
// not regenerate the code or send mail.
type ResetThrottle interface {
	Allow(ctx context.Context, role domain.Role, email string) (bool, error)
}
