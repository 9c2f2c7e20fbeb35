package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/auth/model"
	"blog-backend/internal/infrastructure/store"
)

const (
	userKeyPrefix   = "user:"
	userSearchIndex = "idx:users"
)

type userRepository struct {
	store *store.RedisStore
}

func NewUserRepository(s *store.RedisStore) UserRepository {
	return &userRepository{store: s}
}

func (r *userRepository) client() *redis.Client {
	return r.store.Client
}

func userKey(id string) string {
	return userKeyPrefix + id
}

func (r *userRepository) Create(ctx context.Context, username, email, passwordHash string, roles []string) (*model.User, error) {
	now := time.Now().UnixMilli()
	user := &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := r.client().JSONSet(ctx, userKey(user.ID), "$", user).Err(); err != nil {
		return nil, fmt.Errorf("json set %s: %w", userKey(user.ID), err)
	}
	if err := r.EnsureSearchIndex(ctx); err != nil {
		return nil, err
	}

	log.Info().Str("id", user.ID).Str("username", username).Msg("user created")
	return user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	doc, err := r.client().JSONGet(ctx, userKey(id), "$").Result()
	if err == redis.Nil || doc == "" {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("json get %s: %w", userKey(id), err)
	}

	var wrapped []model.User
	if err := json.Unmarshal([]byte(doc), &wrapped); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", id, err)
	}
	if len(wrapped) == 0 {
		return nil, nil
	}
	return &wrapped[0], nil
}

// GetByUsername resolves a user through the TAG field on idx:users; the
// username field is TAG-typed so the match is exact.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if err := r.EnsureSearchIndex(ctx); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("@username:{%s}", username)
	res, err := r.client().FTSearchWithArgs(ctx, userSearchIndex, query, &redis.FTSearchOptions{
		LimitOffset: 0,
		Limit:       1,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("ft.search %s: %w", userSearchIndex, err)
	}
	if res.Total == 0 || len(res.Docs) == 0 {
		return nil, nil
	}

	raw, ok := res.Docs[0].Fields["$"]
	if !ok {
		return nil, nil
	}
	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", res.Docs[0].ID, err)
	}
	return &user, nil
}

func (r *userRepository) EnsureSearchIndex(ctx context.Context) error {
	_, err := r.client().FTInfo(ctx, userSearchIndex).Result()
	if err == nil {
		return nil
	}
	if !isIndexMissing(err) {
		return fmt.Errorf("ft.info %s: %w", userSearchIndex, err)
	}

	err = r.client().FTCreate(ctx, userSearchIndex,
		&redis.FTCreateOptions{
			OnJSON:    true,
			Prefix:    []interface{}{userKeyPrefix},
			StopWords: []interface{}{},
		},
		&redis.FieldSchema{FieldName: "$.id", As: "id", FieldType: redis.SearchFieldTypeTag},
		&redis.FieldSchema{FieldName: "$.username", As: "username", FieldType: redis.SearchFieldTypeTag},
		&redis.FieldSchema{FieldName: "$.email", As: "email", FieldType: redis.SearchFieldTypeTag},
		&redis.FieldSchema{FieldName: "$.roles", As: "roles", FieldType: redis.SearchFieldTypeTag},
	).Err()
	if err != nil {
		return fmt.Errorf("ft.create %s: %w", userSearchIndex, err)
	}

	log.Info().Str("index", userSearchIndex).Msg("search index created")
	return nil
}

func isIndexMissing(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unknown index name") || strings.Contains(msg, "no such index")
}
