package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Blank values fall through to the defaults, so this also shields
	// the test from whatever the host environment has set.
	for _, key := range []string{
		"APP_ENV", "APP_PORT", "REDIS_ADDR",
		"SESSION_TTL_HOURS", "SESSION_COOKIE_NAME", "SESSION_COOKIE_MAX_AGE",
		"BLOG_PAGINATION_ENABLED", "BLOG_POSTS_PER_PAGE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "session_token", cfg.Auth.CookieName)
	assert.Equal(t, 60*60*24*7, cfg.Auth.CookieMaxAge)
	assert.False(t, cfg.Auth.CookieSecure)
	assert.True(t, cfg.Blog.PaginationEnabled)
	assert.Equal(t, 10, cfg.Blog.PostsPerPage)
	assert.Equal(t, "public/uploads", cfg.Blog.UploadDir)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("BLOG_POSTS_PER_PAGE", "25")
	t.Setenv("BLOG_PAGINATION_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Auth.CookieSecure)
	assert.Equal(t, 25, cfg.Blog.PostsPerPage)
	assert.False(t, cfg.Blog.PaginationEnabled)
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Setenv("BLOG_POSTS_PER_PAGE", "0")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("BLOG_POSTS_PER_PAGE", "10")
	t.Setenv("SESSION_TTL_HOURS", "0")
	_, err = Load()
	assert.Error(t, err)
}
