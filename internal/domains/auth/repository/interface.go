package repository

import (
	"context"

	"blog-backend/internal/domains/auth/model"
)

// UserRepository reads and seeds user documents in the user:<id>
// keyspace, backed by the idx:users search index for username lookup.
type UserRepository interface {
	Create(ctx context.Context, username, email, passwordHash string, roles []string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	EnsureSearchIndex(ctx context.Context) error
}

// SessionManager owns the session:<id> hashes. Expiry is delegated to
// Redis TTLs; DeleteSession only exists for explicit logout.
type SessionManager interface {
	CreateSession(ctx context.Context, userID, ipAddress, userAgent string) (string, error)
	ValidateSession(ctx context.Context, sessionID string) (string, error)
	DeleteSession(ctx context.Context, sessionID string) error
}
