package sitemap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/domains/post/model"
	postRepo "blog-backend/internal/domains/post/repository"
)

type stubPosts struct {
	postRepo.Repository
	entries []model.SlugEntry
}

func (s *stubPosts) GetAllSlugs(ctx context.Context) ([]model.SlugEntry, error) {
	return s.entries, nil
}

type stubTags struct {
	tags []string
}

func (s *stubTags) All(ctx context.Context) ([]string, error) {
	return s.tags, nil
}

func TestBuildURLs(t *testing.T) {
	posts := &stubPosts{entries: []model.SlugEntry{
		{Slug: "first-post", CreatedAt: 1700000000000},
		{Slug: "second-post", CreatedAt: 1700086400000},
	}}
	tags := &stubTags{tags: []string{"Go", "redis"}}

	b := NewBuilder(posts, tags)
	urls, err := b.BuildURLs(context.Background(), "https://example.com")
	require.NoError(t, err)
	require.Len(t, urls, 5)

	// Homepage first, then posts, then tag archives.
	assert.Equal(t, "https://example.com/", urls[0].Loc)
	assert.Equal(t, float64(1), urls[0].Priority)
	assert.Equal(t, "daily", urls[0].ChangeFreq)

	assert.Equal(t, "https://example.com/posts/first-post", urls[1].Loc)
	assert.Equal(t, "2023-11-14T22:13:20Z", urls[1].LastMod)
	assert.Equal(t, 0.9, urls[1].Priority)
	assert.Equal(t, "https://example.com/posts/second-post", urls[2].Loc)

	assert.Equal(t, "https://example.com/tags/go", urls[3].Loc)
	assert.Equal(t, "https://example.com/tags/redis", urls[4].Loc)
	assert.Equal(t, 0.5, urls[3].Priority)
}

func TestBuildXML(t *testing.T) {
	posts := &stubPosts{entries: []model.SlugEntry{{Slug: "only-post", CreatedAt: 1700000000000}}}
	b := NewBuilder(posts, &stubTags{})

	out, err := b.BuildXML(context.Background(), "https://example.com")
	require.NoError(t, err)

	xml := string(out)
	assert.Contains(t, xml, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, xml, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, xml, "<loc>https://example.com/posts/only-post</loc>")
	assert.Contains(t, xml, "<changefreq>weekly</changefreq>")
}
