package repository

import (
	"context"

	"blog-backend/internal/domains/post/model"
)

// Repository is the sole reader/writer of Post documents and their
// secondary indexes (chronological zset, slug hash, tag sets, search
// index).
type Repository interface {
	GetLatest(ctx context.Context, limit int) ([]model.Post, error)
	GetPaginated(ctx context.Context, offset, limit int) ([]model.Post, error)
	GetTotalCount(ctx context.Context) (int, error)
	GetBySlug(ctx context.Context, slug string) (*model.Post, error)
	GetByID(ctx context.Context, id string) (*model.Post, error)
	GetNeighbors(ctx context.Context, slug string) (*model.Neighbors, error)
	GetAllSlugs(ctx context.Context) ([]model.SlugEntry, error)
	CreatePost(ctx context.Context, req model.CreatePostRequest) (*model.Post, error)
	UpdatePost(ctx context.Context, id string, req model.UpdatePostRequest) (*model.Post, error)
	Delete(ctx context.Context, slug string) (*model.DeleteResult, error)
	EnsureSearchIndex(ctx context.Context) error
	SearchPosts(ctx context.Context, query string) (*model.SearchResult, error)
}
