package service

import (
	"context"

	"blog-backend/internal/domains/post/model"
)

// Service is the business layer over the post repository: request
// validation, defaulting and pagination math.
type Service interface {
	List(ctx context.Context, q model.ListQuery) (*model.ListResult, error)
	Search(ctx context.Context, query string) (*model.SearchResult, error)
	GetBySlug(ctx context.Context, slug string) (*model.Post, error)
	GetByID(ctx context.Context, id string) (*model.Post, error)
	GetNeighbors(ctx context.Context, slug string) (*model.Neighbors, error)
	Create(ctx context.Context, req model.CreatePostRequest) (*model.Post, error)
	UpdateBySlug(ctx context.Context, slug string, req model.UpdatePostRequest) (*model.Post, error)
	UpdateByID(ctx context.Context, id string, req model.UpdatePostRequest) (*model.Post, error)
	DeleteBySlug(ctx context.Context, slug string) (*model.DeleteResult, error)
}
