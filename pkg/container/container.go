package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"blog-backend/internal/config"
	authHandler "blog-backend/internal/domains/auth/handler"
	authRepo "blog-backend/internal/domains/auth/repository"
	authService "blog-backend/internal/domains/auth/service"
	postHandler "blog-backend/internal/domains/post/handler"
	postRepo "blog-backend/internal/domains/post/repository"
	postService "blog-backend/internal/domains/post/service"
	"blog-backend/internal/domains/sitemap"
	sitemapHandler "blog-backend/internal/domains/sitemap/handler"
	tagHandler "blog-backend/internal/domains/tag/handler"
	tagRepo "blog-backend/internal/domains/tag/repository"
	"blog-backend/internal/infrastructure/store"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton living for the process lifetime; the Redis handle is shared
// by every repository.
type Container struct {
	Config *config.Config
	Store  *store.RedisStore

	PostRepo postRepo.Repository
	TagRepo  tagRepo.Repository
	UserRepo authRepo.UserRepository
	Sessions authRepo.SessionManager

	PostService postService.Service
	AuthService authService.Service

	PostHandler    *postHandler.PostHandler
	TagHandler     *tagHandler.TagHandler
	AuthHandler    *authHandler.AuthHandler
	SitemapHandler *sitemapHandler.SitemapHandler
}

// NewContainer wires config -> store -> repositories -> services ->
// handlers, in that order.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	redisStore := store.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := redisStore.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.Store = redisStore

	// Repositories
	c.PostRepo = postRepo.NewRedisRepository(redisStore)
	c.TagRepo = tagRepo.NewRedisRepository(redisStore)
	c.UserRepo = authRepo.NewUserRepository(redisStore)
	c.Sessions = authRepo.NewSessionManager(redisStore, cfg.Auth.SessionTTL)

	// The post search index is bootstrapped eagerly so the first search
	// request does not pay the create cost.
	if err := c.PostRepo.EnsureSearchIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure post search index: %w", err)
	}

	// Services
	c.PostService = postService.NewPostService(c.PostRepo)
	c.AuthService = authService.NewAuthService(c.UserRepo, c.Sessions)

	// Handlers
	c.PostHandler = postHandler.NewPostHandler(c.PostService, cfg.Blog)
	c.TagHandler = tagHandler.NewTagHandler(c.TagRepo)
	c.AuthHandler = authHandler.NewAuthHandler(c.AuthService, cfg.Auth)

	builder := sitemap.NewBuilder(c.PostRepo, c.TagRepo)
	c.SitemapHandler = sitemapHandler.NewSitemapHandler(builder, cfg.Blog)

	log.Info().Str("environment", cfg.App.Environment).Msg("container initialized")
	return c, nil
}

// Cleanup releases shared resources on shutdown.
func (c *Container) Cleanup() {
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close redis store")
		}
	}
}
