package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the whole application configuration, populated
// from environment variables.
type Config struct {
	App   AppConfig
	Redis RedisConfig
	Auth  AuthConfig
	Blog  BlogConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	SessionTTL   time.Duration // server-side session lifetime
	CookieName   string
	CookieMaxAge int // seconds
	CookieSecure bool
}

type BlogConfig struct {
	BaseURL           string
	PaginationEnabled bool
	PostsPerPage      int
	NeighborsEnabled  bool
	UploadDir         string
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Blog API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			SessionTTL:   time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)) * time.Hour,
			CookieName:   getEnv("SESSION_COOKIE_NAME", "session_token"),
			CookieMaxAge: getEnvInt("SESSION_COOKIE_MAX_AGE", 60*60*24*7),
			CookieSecure: getEnv("APP_ENV", "development") == "production",
		},
		Blog: BlogConfig{
			BaseURL:           getEnv("BLOG_BASE_URL", "http://localhost:8080"),
			PaginationEnabled: getEnvBool("BLOG_PAGINATION_ENABLED", true),
			PostsPerPage:      getEnvInt("BLOG_POSTS_PER_PAGE", 10),
			NeighborsEnabled:  getEnvBool("BLOG_POST_NAVIGATION", true),
			UploadDir:         getEnv("BLOG_UPLOAD_DIR", "public/uploads"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the config for values that must not ship to production.
func (c *Config) Validate() error {
	if c.Blog.PostsPerPage < 1 {
		return fmt.Errorf("BLOG_POSTS_PER_PAGE must be >= 1")
	}
	if c.Auth.SessionTTL < time.Minute {
		return fmt.Errorf("SESSION_TTL_HOURS too small")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
