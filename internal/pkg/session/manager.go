// internal/pkg/session/manager.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"loyaltyhub-service/internal/domain/portal"
	xerrors "loyaltyhub-service/internal/pkg/errors"

	"github.com/redis/go-redis/v9"
)

// Manager persists portal sessions in Redis, keyed by token JTI. Redis is
// the only source of truth; an expired key is an expired session.
type Manager struct {
	client *redis.Client
}

func NewManager(client *redis.Client) *Manager {
	return &Manager{client: client}
}

// Save stores a session under its JTI with a TTL derived from the session
// expiry.
func (m *Manager) Save(ctx context.Context, s *portal.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return xerrors.ErrSessionExpired
	}

	if err := m.client.Set(ctx, m.sessionKey(s.JTI), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in redis: %w", err)
	}
	return nil
}

// Get loads a session by JTI. A missing or blacklisted JTI yields
// ErrSessionExpired.
func (m *Manager) Get(ctx context.Context, jti string) (*portal.Session, error) {
	blacklisted, err := m.IsBlacklisted(ctx, jti)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, xerrors.ErrSessionExpired
	}

	data, err := m.client.Get(ctx, m.sessionKey(jti)).Bytes()
	if err == redis.Nil {
		return nil, xerrors.ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var s portal.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	s.LastActivityAt = time.Now()
	return &s, nil
}

// Invalidate removes a session and blacklists its JTI for the remaining
// token lifetime, so a kept token cannot reopen the gate.
func (m *Manager) Invalidate(ctx context.Context, jti string, tokenExpiry time.Time) error {
	if err := m.client.Del(ctx, m.sessionKey(jti)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	ttl := time.Until(tokenExpiry)
	if ttl > 0 {
		if err := m.client.Set(ctx, m.blacklistKey(jti), "1", ttl).Err(); err != nil {
			return fmt.Errorf("failed to blacklist token: %w", err)
		}
	}
	return nil
}

// IsBlacklisted checks whether a JTI has been revoked.
func (m *Manager) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	exists, err := m.client.Exists(ctx, m.blacklistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return exists > 0, nil
}

// AcquireCommitLock enforces single-flight on the point-commit operation
// for one session. Returns false when a commit is already in flight.
func (m *Manager) AcquireCommitLock(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	ok, err := m.client.SetNX(ctx, m.commitKey(jti), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire commit lock: %w", err)
	}
	return ok, nil
}

// ReleaseCommitLock frees the commit lock after the transactional call
// finished, success or not.
func (m *Manager) ReleaseCommitLock(ctx context.Context, jti string) error {
	return m.client.Del(ctx, m.commitKey(jti)).Err()
}

// AcquireGateLock enforces single-flight on password verification for one
// session. Returns false when a verification is already in flight.
func (m *Manager) AcquireGateLock(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	ok, err := m.client.SetNX(ctx, m.gateKey(jti), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire gate lock: %w", err)
	}
	return ok, nil
}

// ReleaseGateLock frees the gate lock once the verification call returned.
func (m *Manager) ReleaseGateLock(ctx context.Context, jti string) error {
	return m.client.Del(ctx, m.gateKey(jti)).Err()
}

// Helper functions
func (m *Manager) sessionKey(jti string) string {
	return fmt.Sprintf("portal:session:%s", jti)
}

func (m *Manager) blacklistKey(jti string) string {
	return fmt.Sprintf("portal:blacklist:%s", jti)
}

func (m *Manager) commitKey(jti string) string {
	return fmt.Sprintf("portal:commit:%s", jti)
}

func (m *Manager) gateKey(jti string) string {
	return fmt.Sprintf("portal:gate:%s", jti)
}
