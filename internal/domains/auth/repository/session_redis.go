package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"blog-backend/internal/infrastructure/store"
)

const sessionKeyPrefix = "session:"

type sessionManager struct {
	store *store.RedisStore
	ttl   time.Duration
}

func NewSessionManager(s *store.RedisStore, ttl time.Duration) SessionManager {
	return &sessionManager{store: s, ttl: ttl}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// CreateSession writes the session hash and its TTL in one MULTI/EXEC so
// a crash between the two commands cannot leave an immortal session.
func (m *sessionManager) CreateSession(ctx context.Context, userID, ipAddress, userAgent string) (string, error) {
	sessionID := uuid.NewString()
	now := time.Now()
	key := sessionKey(sessionID)

	fields := map[string]interface{}{
		"id":        sessionID,
		"userId":    userID,
		"createdAt": now.UnixMilli(),
		"expiresAt": now.Add(m.ttl).UnixMilli(),
	}
	if ipAddress != "" {
		fields["ipAddress"] = ipAddress
	}
	if userAgent != "" {
		fields["userAgent"] = userAgent
	}

	pipe := m.store.Client.TxPipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, m.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	return sessionID, nil
}

// ValidateSession returns the owning user id, or "" when the session is
// missing or already expired by Redis.
func (m *sessionManager) ValidateSession(ctx context.Context, sessionID string) (string, error) {
	data, err := m.store.Client.HGetAll(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}
	if len(data) == 0 {
		return "", nil
	}
	return data["userId"], nil
}

func (m *sessionManager) DeleteSession(ctx context.Context, sessionID string) error {
	if err := m.store.Client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
