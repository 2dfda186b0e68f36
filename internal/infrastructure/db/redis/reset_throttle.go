package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/staffdesk/admin-panel/internal/core/domain"
)

const throttleTTL = time.Minute

// ResetThrottle rate-limits forgot-password requests per account using a
// Redis SETNX marker. Key format: resetreq:<role>:<email>
type ResetThrottle struct {
	client *redis.Client
}

// NewResetThrottle creates a ResetThrottle wrapping the given Redis client.
func NewResetThrottle(client *redis.Client) *ResetThrottle {
	return &ResetThrottle{client: client}
}

// Allow reports whether a reset request may proceed for the address. The
// first call within throttleTTL claims the marker and returns true; calls
// while the marker lives return false.
func (t *ResetThrottle) Allow(ctx context.Context, role domain.Role, email string) (bool, error) {
	ok, err := t.client.SetNX(ctx, t.key(role, email), "1", throttleTTL).Result()
	if err != nil {
		return false, fmt.Errorf("reset throttle: %w", err)
	}
	return ok, nil
}

func (t *ResetThrottle) key(role domain.Role, email string) string {
	return fmt.Sprintf("resetreq:%s:%s", role, email)
}
