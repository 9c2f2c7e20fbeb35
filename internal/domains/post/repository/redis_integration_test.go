package repository

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/infrastructure/store"
)

// These tests exercise the real keyspace and need the JSON and Search
// modules. Point REDIS_ADDR at a DISPOSABLE Redis Stack instance; the
// selected database is flushed before every test.
func newTestRepo(t *testing.T) (Repository, *store.RedisStore) {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping Redis integration tests")
	}

	s := store.NewRedisStore(addr, os.Getenv("REDIS_PASSWORD"), 0)
	ctx := context.Background()
	require.NoError(t, s.Connect(ctx))
	require.NoError(t, s.Client.FlushDB(ctx).Err())

	t.Cleanup(func() { _ = s.Close() })
	return NewRedisRepository(s), s
}

func createTestPost(t *testing.T, repo Repository, title string, createdAt int64, tags ...string) *model.Post {
	t.Helper()
	post, err := repo.CreatePost(context.Background(), model.CreatePostRequest{
		Title:     title,
		Content:   "content of " + title,
		Author:    "tester",
		Tags:      tags,
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
	return post
}

func TestCreateAndGetBySlug(t *testing.T) {
	repo, s := newTestRepo(t)
	ctx := context.Background()

	post := createTestPost(t, repo, "Hello World!", 1000, "Redis", " go ")
	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, []string{"redis", "go"}, post.Tags)
	assert.Equal(t, "content of Hello World!", post.Excerpt)

	got, err := repo.GetBySlug(ctx, "hello-world")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, post, got)

	// Chronological index scored by createdAt.
	score, err := s.Client.ZScore(ctx, "posts:by_date", "post:"+post.ID).Result()
	require.NoError(t, err)
	assert.Equal(t, float64(1000), score)

	// Tag sets: global membership plus reverse index.
	for _, tag := range []string{"redis", "go"} {
		isMember, err := s.Client.SIsMember(ctx, "tags:all", tag).Result()
		require.NoError(t, err)
		assert.True(t, isMember, "tags:all should contain %q", tag)

		hasPost, err := s.Client.SIsMember(ctx, "tag:"+tag, "post:"+post.ID).Result()
		require.NoError(t, err)
		assert.True(t, hasPost, "tag:%s should contain the post key", tag)
	}
}

func TestGetBySlugMissing(t *testing.T) {
	repo, _ := newTestRepo(t)

	got, err := repo.GetBySlug(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetPaginatedNewestFirst(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		createTestPost(t, repo, fmt.Sprintf("Post %d", i), int64(i*1000))
	}

	page, err := repo.GetPaginated(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Post 5", page[0].Title)
	assert.Equal(t, "Post 4", page[1].Title)

	total, err := repo.GetTotalCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, total)

	empty, err := repo.GetPaginated(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetNeighbors(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	oldest := createTestPost(t, repo, "Oldest", 1000)
	middle := createTestPost(t, repo, "Middle", 2000)
	newest := createTestPost(t, repo, "Newest", 3000)

	n, err := repo.GetNeighbors(ctx, middle.Slug)
	require.NoError(t, err)
	require.NotNil(t, n.Prev)
	require.NotNil(t, n.Next)
	assert.Equal(t, oldest.Slug, n.Prev.Slug)
	assert.Equal(t, newest.Slug, n.Next.Slug)

	n, err = repo.GetNeighbors(ctx, oldest.Slug)
	require.NoError(t, err)
	assert.Nil(t, n.Prev)
	require.NotNil(t, n.Next)
	assert.Equal(t, middle.Slug, n.Next.Slug)

	n, err = repo.GetNeighbors(ctx, newest.Slug)
	require.NoError(t, err)
	assert.Nil(t, n.Next)
	require.NotNil(t, n.Prev)
	assert.Equal(t, middle.Slug, n.Prev.Slug)
}

func TestUpdateMigratesSlugMapping(t *testing.T) {
	repo, s := newTestRepo(t)
	ctx := context.Background()

	post := createTestPost(t, repo, "Old", 1000, "keep", "drop")

	newTags := []string{"keep", "added"}
	updated, err := repo.UpdatePost(ctx, post.ID, model.UpdatePostRequest{
		Title:   "New Title",
		Content: "new content",
		Tags:    &newTags,
	})
	require.NoError(t, err)
	assert.Equal(t, "new-title", updated.Slug)
	assert.Equal(t, post.CreatedAt, updated.CreatedAt)

	// Slug mapping migrated.
	_, err = s.Client.HGet(ctx, "slugs", "old").Result()
	assert.Error(t, err, "old slug mapping should be gone")
	key, err := s.Client.HGet(ctx, "slugs", "new-title").Result()
	require.NoError(t, err)
	assert.Equal(t, "post:"+post.ID, key)

	// Tag diff applied; dropped tag keeps its tags:all entry.
	postKey := "post:" + post.ID
	member, _ := s.Client.SIsMember(ctx, "tag:drop", postKey).Result()
	assert.False(t, member)
	member, _ = s.Client.SIsMember(ctx, "tag:added", postKey).Result()
	assert.True(t, member)
	member, _ = s.Client.SIsMember(ctx, "tags:all", "drop").Result()
	assert.True(t, member, "tags:all is never pruned")
}

func TestUpdateAppliesImages(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	post := createTestPost(t, repo, "Illustrated", 1000)
	require.Empty(t, post.Images)

	images := []string{"/uploads/posts/" + post.ID + "/cover.png"}
	updated, err := repo.UpdatePost(ctx, post.ID, model.UpdatePostRequest{
		Title:   post.Title,
		Content: post.Content,
		Images:  &images,
	})
	require.NoError(t, err)
	assert.Equal(t, images, updated.Images)

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, images, got.Images)

	// Updates that do not mention images leave them alone.
	updated, err = repo.UpdatePost(ctx, post.ID, model.UpdatePostRequest{
		Title:   post.Title,
		Content: "revised content",
	})
	require.NoError(t, err)
	assert.Equal(t, images, updated.Images)
}

func TestUpdateEmptyExcerptKeepsExisting(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	post, err := repo.CreatePost(ctx, model.CreatePostRequest{
		Title:     "With Excerpt",
		Content:   "full content",
		Excerpt:   "hand-written excerpt",
		CreatedAt: 1000,
	})
	require.NoError(t, err)

	empty := ""
	updated, err := repo.UpdatePost(ctx, post.ID, model.UpdatePostRequest{
		Title:   post.Title,
		Content: post.Content,
		Excerpt: &empty,
	})
	require.NoError(t, err)
	assert.Equal(t, "hand-written excerpt", updated.Excerpt)

	replacement := "replacement excerpt"
	updated, err = repo.UpdatePost(ctx, post.ID, model.UpdatePostRequest{
		Title:   post.Title,
		Content: post.Content,
		Excerpt: &replacement,
	})
	require.NoError(t, err)
	assert.Equal(t, "replacement excerpt", updated.Excerpt)
}

func TestUpdateMissingPost(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.UpdatePost(context.Background(), "no-such-id", model.UpdatePostRequest{
		Title:   "t",
		Content: "c",
	})
	assert.ErrorIs(t, err, model.ErrPostNotFound)
}

func TestDeleteRemovesAllIndexEntries(t *testing.T) {
	repo, s := newTestRepo(t)
	ctx := context.Background()

	post := createTestPost(t, repo, "Doomed", 1000, "gone")
	postKey := "post:" + post.ID

	result, err := repo.Delete(ctx, post.Slug)
	require.NoError(t, err)
	assert.True(t, result.Deleted)
	assert.Equal(t, post.ID, result.PostID)

	exists, _ := s.Client.Exists(ctx, postKey).Result()
	assert.Zero(t, exists)
	_, err = s.Client.ZRank(ctx, "posts:by_date", postKey).Result()
	assert.Error(t, err)
	_, err = s.Client.HGet(ctx, "slugs", post.Slug).Result()
	assert.Error(t, err)
	member, _ := s.Client.SIsMember(ctx, "tag:gone", postKey).Result()
	assert.False(t, member)
}

func TestDeleteMissingSlugIsNotAnError(t *testing.T) {
	repo, _ := newTestRepo(t)

	result, err := repo.Delete(context.Background(), "never-existed")
	require.NoError(t, err)
	assert.False(t, result.Deleted)
}

func TestDeleteRepairsDanglingSlugMapping(t *testing.T) {
	repo, s := newTestRepo(t)
	ctx := context.Background()

	// A slug pointing at a missing document is repaired, not surfaced.
	require.NoError(t, s.Client.HSet(ctx, "slugs", "dangling", "post:missing").Err())

	result, err := repo.Delete(ctx, "dangling")
	require.NoError(t, err)
	assert.False(t, result.Deleted)

	_, err = s.Client.HGet(ctx, "slugs", "dangling").Result()
	assert.Error(t, err, "dangling mapping should have been cleaned up")
}

func TestSlugCollisionOverwritesMapping(t *testing.T) {
	repo, s := newTestRepo(t)
	ctx := context.Background()

	first := createTestPost(t, repo, "Same Title", 1000)
	second := createTestPost(t, repo, "Same Title", 2000)
	require.Equal(t, first.Slug, second.Slug)

	// Current behavior: the newer post silently takes over the slug.
	key, err := s.Client.HGet(ctx, "slugs", first.Slug).Result()
	require.NoError(t, err)
	assert.Equal(t, "post:"+second.ID, key)
}

func TestEnsureSearchIndexIsIdempotent(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.EnsureSearchIndex(ctx))
	require.NoError(t, repo.EnsureSearchIndex(ctx))
}

func TestSearchPosts(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	createTestPost(t, repo, "Redis Pipelines Explained", 1000, "redis")
	createTestPost(t, repo, "Gardening Notes", 2000, "hobby")
	createTestPost(t, repo, "More Redis Tricks", 3000, "redis")

	result, err := repo.SearchPosts(ctx, "pipelines")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	require.Len(t, result.Posts, 1)
	assert.Equal(t, "Redis Pipelines Explained", result.Posts[0].Title)
	assert.Equal(t, "redis-pipelines-explained", result.Posts[0].Slug)

	// TAG field query over the tags schema path.
	result, err = repo.SearchPosts(ctx, "@tags:{redis}")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)

	result, err = repo.SearchPosts(ctx, "nomatchanywhere")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Posts)
}

func TestGetAllSlugs(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	createTestPost(t, repo, "First", 1000)
	createTestPost(t, repo, "Second", 2000)

	entries, err := repo.GetAllSlugs(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Slug)
	assert.Equal(t, int64(1000), entries[0].CreatedAt)
	assert.Equal(t, "second", entries[1].Slug)
}
