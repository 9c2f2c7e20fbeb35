package repository

import (
	"context"
	"fmt"

	"blog-backend/internal/infrastructure/store"
)

const allTagsKey = "tags:all"

// Repository is the read-only accessor over the global tag set. Tags are
// created implicitly when first used on a post and never pruned.
type Repository interface {
	All(ctx context.Context) ([]string, error)
}

type redisRepository struct {
	store *store.RedisStore
}

func NewRedisRepository(s *store.RedisStore) Repository {
	return &redisRepository{store: s}
}

func (r *redisRepository) All(ctx context.Context) ([]string, error) {
	tags, err := r.store.Client.SMembers(ctx, allTagsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", allTagsKey, err)
	}
	return tags, nil
}
