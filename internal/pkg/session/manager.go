// internal/pkg/session/manager.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	xerrors "quinto-service/internal/pkg/errors"

	"github.com/redis/go-redis/v9"
)

type Manager struct {
	client *redis.Client
}

func NewManager(client *redis.Client) *Manager {
	return &Manager{client: client}
}

// CreateSession stores a new session in Redis with a TTL matching the token.
func (m *Manager) CreateSession(ctx context.Context, s *SessionData) error {
	key := m.sessionKey(s.IdentityID, s.JTI)

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	if err := m.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in redis: %w", err)
	}

	return nil
}

// GetSession retrieves a session from Redis. A missing key means the session
// was revoked or expired.
func (m *Manager) GetSession(ctx context.Context, identityID int64, jti string) (*SessionData, error) {
	key := m.sessionKey(identityID, jti)

	data, err := m.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, xerrors.ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session from redis: %w", err)
	}

	var s SessionData
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &s, nil
}

// RevokeSession deletes a single session.
func (m *Manager) RevokeSession(ctx context.Context, identityID int64, jti string) error {
	return m.client.Del(ctx, m.sessionKey(identityID, jti)).Err()
}

// RevokeAllSessions deletes every session of an identity (logout-all).
func (m *Manager) RevokeAllSessions(ctx context.Context, identityID int64) error {
	pattern := fmt.Sprintf("session:%d:*", identityID)

	iter := m.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := m.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete session %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

func (m *Manager) sessionKey(identityID int64, jti string) string {
	return fmt.Sprintf("session:%d:%s", identityID, jti)
}

// RateLimiter is a fixed-window counter on Redis, used to slow down abusive
// interest-form and login submissions.
type RateLimiter struct {
	client *redis.Client
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow increments the counter for key and reports whether the caller is
// still under limit within the window.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, error) {
	redisKey := "ratelimit:" + key

	count, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("rate limiter incr failed: %w", err)
	}

	if count == 1 {
		if err := r.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return false, fmt.Errorf("rate limiter expire failed: %w", err)
		}
	}

	return count <= limit, nil
}
