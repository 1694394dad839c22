// internal/pkg/session/rate_limiter.go
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RateLimiter struct {
	client      *redis.Client
	maxAttempts int64
}

func NewRateLimiter(client *redis.Client, maxAttempts int64) *RateLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &RateLimiter{client: client, maxAttempts: maxAttempts}
}

// CheckPasswordAttempt counts a branch-gate password attempt per (branch,
// client IP) and reports whether it is still allowed plus the remaining
// budget. The window resets 15 minutes after the first attempt.
func (r *RateLimiter) CheckPasswordAttempt(ctx context.Context, branchID int64, ip string) (bool, int64, error) {
	key := fmt.Sprintf("ratelimit:branch_password:%d:%s", branchID, ip)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment password attempt: %w", err)
	}

	if count == 1 {
		r.client.Expire(ctx, key, 15*time.Minute)
	}

	remaining := r.maxAttempts - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= r.maxAttempts, remaining, nil
}

// ResetPasswordAttempts clears the attempt counter after a successful
// verification.
func (r *RateLimiter) ResetPasswordAttempts(ctx context.Context, branchID int64, ip string) error {
	key := fmt.Sprintf("ratelimit:branch_password:%d:%s", branchID, ip)
	return r.client.Del(ctx, key).Err()
}
