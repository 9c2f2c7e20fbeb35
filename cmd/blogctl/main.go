package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"blog-backend/internal/config"
	authRepo "blog-backend/internal/domains/auth/repository"
	authService "blog-backend/internal/domains/auth/service"
	postRepo "blog-backend/internal/domains/post/repository"
	tagRepo "blog-backend/internal/domains/tag/repository"
	"blog-backend/internal/infrastructure/store"
	"blog-backend/pkg/logger"
)

// cli bundles the repositories the management commands work with. The
// CLI talks to the same keyspace as the API server, through the same
// repository layer.
type cli struct {
	cfg      *config.Config
	store    *store.RedisStore
	posts    postRepo.Repository
	tags     tagRepo.Repository
	auth     authService.Service
	shutdown func()
}

func connect() (*cli, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	s := store.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Connect(ctx); err != nil {
		return nil, err
	}

	users := authRepo.NewUserRepository(s)
	sessions := authRepo.NewSessionManager(s, cfg.Auth.SessionTTL)

	return &cli{
		cfg:      cfg,
		store:    s,
		posts:    postRepo.NewRedisRepository(s),
		tags:     tagRepo.NewRedisRepository(s),
		auth:     authService.NewAuthService(users, sessions),
		shutdown: func() { _ = s.Close() },
	}, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}
	logger.Init(os.Getenv("APP_ENV"))

	root := &cobra.Command{
		Use:           "blogctl",
		Short:         "Manage blog posts, users and search indexes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newPostCmd(), newTagCmd(), newUserCmd(), newIndexCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
