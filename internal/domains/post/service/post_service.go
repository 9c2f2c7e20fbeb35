package service

import (
	"context"
	"time"

	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/domains/post/repository"
)

type postService struct {
	repo repository.Repository
}

func NewPostService(repo repository.Repository) Service {
	return &postService{repo: repo}
}

func (s *postService) List(ctx context.Context, q model.ListQuery) (*model.ListResult, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 1
	}
	offset := (page - 1) * limit

	posts, err := s.repo.GetPaginated(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.GetTotalCount(ctx)
	if err != nil {
		return nil, err
	}

	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	return &model.ListResult{
		Posts:      posts,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func (s *postService) Search(ctx context.Context, query string) (*model.SearchResult, error) {
	return s.repo.SearchPosts(ctx, query)
}

func (s *postService) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *postService) GetByID(ctx context.Context, id string) (*model.Post, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *postService) GetNeighbors(ctx context.Context, slug string) (*model.Neighbors, error) {
	return s.repo.GetNeighbors(ctx, slug)
}

func (s *postService) Create(ctx context.Context, req model.CreatePostRequest) (*model.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.CreatedAt == 0 {
		req.CreatedAt = time.Now().UnixMilli()
	}
	return s.repo.CreatePost(ctx, req)
}

// UpdateBySlug resolves the slug to a post id before updating, so the
// repository works against the stable post:<id> key.
func (s *postService) UpdateBySlug(ctx context.Context, slug string, req model.UpdatePostRequest) (*model.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, model.ErrPostNotFound
	}
	return s.repo.UpdatePost(ctx, existing.ID, req)
}

func (s *postService) UpdateByID(ctx context.Context, id string, req model.UpdatePostRequest) (*model.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.UpdatePost(ctx, id, req)
}

func (s *postService) DeleteBySlug(ctx context.Context, slug string) (*model.DeleteResult, error) {
	return s.repo.Delete(ctx, slug)
}
