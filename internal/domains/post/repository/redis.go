package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/infrastructure/store"
	"blog-backend/internal/shared/utils"
)

// Keyspace layout. Preserved for compatibility with existing data:
//
//	post:<id>      JSON document
//	posts:by_date  zset, member = post key, score = createdAt (ms)
//	slugs          hash, field = slug, value = post key
//	tags:all       set of all known tag strings
//	tag:<slug>     set of post keys carrying that tag
//	idx:posts      RediSearch index over post:* JSON documents
const (
	postKeyPrefix   = "post:"
	byDateKey       = "posts:by_date"
	slugsKey        = "slugs"
	allTagsKey      = "tags:all"
	tagKeyPrefix    = "tag:"
	postSearchIndex = "idx:posts"
)

type redisRepository struct {
	store *store.RedisStore
}

// NewRedisRepository creates the post repository. The store handle is
// shared process-wide; go-redis handles pooling and reconnection.
func NewRedisRepository(s *store.RedisStore) Repository {
	return &redisRepository{store: s}
}

func (r *redisRepository) client() *redis.Client {
	return r.store.Client
}

func postKey(id string) string {
	return postKeyPrefix + id
}

func tagKey(tag string) string {
	return tagKeyPrefix + utils.Slugify(tag)
}

// fetchMany bulk-fetches the JSON documents for the given keys in one
// round trip and silently drops keys whose document is missing. The
// index and the documents can diverge briefly; divergence is repaired on
// the next delete of the affected slug.
func (r *redisRepository) fetchMany(ctx context.Context, keys []string) ([]model.Post, error) {
	if len(keys) == 0 {
		return []model.Post{}, nil
	}

	raw, err := r.client().JSONMGet(ctx, "$", keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("json mget: %w", err)
	}

	posts := make([]model.Post, 0, len(raw))
	for i, item := range raw {
		doc, ok := item.(string)
		if !ok || doc == "" {
			continue
		}
		var wrapped []model.Post
		if err := json.Unmarshal([]byte(doc), &wrapped); err != nil || len(wrapped) == 0 {
			log.Warn().Str("key", keys[i]).Msg("skipping malformed post document")
			continue
		}
		posts = append(posts, wrapped[0])
	}
	return posts, nil
}

// fetchOne reads a single JSON document. Returns nil when the key does
// not exist.
func (r *redisRepository) fetchOne(ctx context.Context, key string) (*model.Post, error) {
	doc, err := r.client().JSONGet(ctx, key, "$").Result()
	if err == redis.Nil || doc == "" {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("json get %s: %w", key, err)
	}

	var wrapped []model.Post
	if err := json.Unmarshal([]byte(doc), &wrapped); err != nil {
		return nil, fmt.Errorf("decode post %s: %w", key, err)
	}
	if len(wrapped) == 0 {
		return nil, nil
	}
	return &wrapped[0], nil
}

func (r *redisRepository) GetLatest(ctx context.Context, limit int) ([]model.Post, error) {
	keys, err := r.client().ZRevRange(ctx, byDateKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("zrevrange %s: %w", byDateKey, err)
	}
	return r.fetchMany(ctx, keys)
}

func (r *redisRepository) GetPaginated(ctx context.Context, offset, limit int) ([]model.Post, error) {
	keys, err := r.client().ZRevRange(ctx, byDateKey, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("zrevrange %s: %w", byDateKey, err)
	}
	return r.fetchMany(ctx, keys)
}

func (r *redisRepository) GetTotalCount(ctx context.Context) (int, error) {
	n, err := r.client().ZCard(ctx, byDateKey).Result()
	if err != nil {
		return 0, fmt.Errorf("zcard %s: %w", byDateKey, err)
	}
	return int(n), nil
}

func (r *redisRepository) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	key, err := r.client().HGet(ctx, slugsKey, slug).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("hget %s %s: %w", slugsKey, slug, err)
	}
	return r.fetchOne(ctx, key)
}

func (r *redisRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	key := postKey(id)
	exists, err := r.client().Exists(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("exists %s: %w", key, err)
	}
	if exists == 0 {
		return nil, nil
	}
	return r.fetchOne(ctx, key)
}

func (r *redisRepository) GetNeighbors(ctx context.Context, slug string) (*model.Neighbors, error) {
	neighbors := &model.Neighbors{}

	key, err := r.client().HGet(ctx, slugsKey, slug).Result()
	if err == redis.Nil {
		return neighbors, nil
	}
	if err != nil {
		return nil, fmt.Errorf("hget %s %s: %w", slugsKey, slug, err)
	}

	rank, err := r.client().ZRevRank(ctx, byDateKey, key).Result()
	if err == redis.Nil {
		return neighbors, nil
	}
	if err != nil {
		return nil, fmt.Errorf("zrevrank %s: %w", byDateKey, err)
	}

	// rank+1 is the next-older post, rank-1 the next-newer one.
	prev, err := r.neighborAt(ctx, rank+1)
	if err != nil {
		return nil, err
	}
	var next *model.Neighbor
	if rank > 0 {
		next, err = r.neighborAt(ctx, rank-1)
		if err != nil {
			return nil, err
		}
	}

	neighbors.Prev = prev
	neighbors.Next = next
	return neighbors, nil
}

func (r *redisRepository) neighborAt(ctx context.Context, rank int64) (*model.Neighbor, error) {
	keys, err := r.client().ZRevRange(ctx, byDateKey, rank, rank).Result()
	if err != nil {
		return nil, fmt.Errorf("zrevrange %s: %w", byDateKey, err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	post, err := r.fetchOne(ctx, keys[0])
	if err != nil || post == nil {
		return nil, err
	}
	return &model.Neighbor{Slug: post.Slug, Title: post.Title}, nil
}

func (r *redisRepository) GetAllSlugs(ctx context.Context) ([]model.SlugEntry, error) {
	keys, err := r.client().ZRange(ctx, byDateKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("zrange %s: %w", byDateKey, err)
	}

	entries := make([]model.SlugEntry, 0, len(keys))
	for _, key := range keys {
		slug, err := r.jsonStringField(ctx, key, "$.slug")
		if err != nil {
			return nil, err
		}
		createdAt, ok, err := r.jsonIntField(ctx, key, "$.createdAt")
		if err != nil {
			return nil, err
		}
		if slug == "" || !ok {
			// Entry missing either field; skip rather than fail the sitemap.
			continue
		}
		entries = append(entries, model.SlugEntry{Slug: slug, CreatedAt: createdAt})
	}
	return entries, nil
}

func (r *redisRepository) jsonStringField(ctx context.Context, key, path string) (string, error) {
	doc, err := r.client().JSONGet(ctx, key, path).Result()
	if err == redis.Nil || doc == "" {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("json get %s %s: %w", key, path, err)
	}
	var values []string
	if err := json.Unmarshal([]byte(doc), &values); err != nil || len(values) == 0 {
		return "", nil
	}
	return values[0], nil
}

func (r *redisRepository) jsonIntField(ctx context.Context, key, path string) (int64, bool, error) {
	doc, err := r.client().JSONGet(ctx, key, path).Result()
	if err == redis.Nil || doc == "" {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("json get %s %s: %w", key, path, err)
	}
	var values []int64
	if err := json.Unmarshal([]byte(doc), &values); err != nil || len(values) == 0 {
		return 0, false, nil
	}
	return values[0], true, nil
}

func (r *redisRepository) CreatePost(ctx context.Context, req model.CreatePostRequest) (*model.Post, error) {
	id := uuid.NewString()
	slug := utils.Slugify(req.Title)
	key := postKey(id)
	tags := model.NormalizeTags(req.Tags)

	excerpt := req.Excerpt
	if excerpt == "" {
		excerpt = model.DefaultExcerpt(req.Content)
	}

	post := &model.Post{
		ID:            id,
		Slug:          slug,
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       excerpt,
		FeaturedImage: req.FeaturedImage,
		Images:        []string{},
		CreatedAt:     req.CreatedAt,
		Author:        req.Author,
		Tags:          tags,
	}

	// Document and all four indexes go in as one MULTI/EXEC so readers
	// never observe a post without its indexes.
	pipe := r.client().TxPipeline()
	pipe.JSONSet(ctx, key, "$", post)
	pipe.ZAdd(ctx, byDateKey, redis.Z{Score: float64(post.CreatedAt), Member: key})
	pipe.HSet(ctx, slugsKey, slug, key)
	for _, tag := range tags {
		pipe.SAdd(ctx, allTagsKey, tag)
		pipe.SAdd(ctx, tagKey(tag), key)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("create post transaction: %w", err)
	}

	log.Info().Str("id", id).Str("slug", slug).Msg("post created")
	return post, nil
}

func (r *redisRepository) UpdatePost(ctx context.Context, id string, req model.UpdatePostRequest) (*model.Post, error) {
	key := postKey(id)

	existing, err := r.fetchOne(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, model.ErrPostNotFound
	}

	newSlug := existing.Slug
	if req.Title != existing.Title {
		newSlug = utils.Slugify(req.Title)
	}

	oldTags := model.NormalizeTags(existing.Tags)
	newTags := oldTags
	if req.Tags != nil {
		newTags = model.NormalizeTags(*req.Tags)
	}

	post := &model.Post{
		ID:            existing.ID,
		Slug:          newSlug,
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       existing.Excerpt,
		FeaturedImage: existing.FeaturedImage,
		Images:        existing.Images,
		CreatedAt:     existing.CreatedAt,
		Author:        existing.Author,
		Tags:          newTags,
	}
	// An empty excerpt in the payload falls back to the stored one, and
	// only when both are empty is the default recomputed from content.
	if req.Excerpt != nil && *req.Excerpt != "" {
		post.Excerpt = *req.Excerpt
	}
	if post.Excerpt == "" {
		post.Excerpt = model.DefaultExcerpt(post.Content)
	}
	if req.FeaturedImage != nil {
		post.FeaturedImage = *req.FeaturedImage
	}
	if req.Images != nil {
		post.Images = *req.Images
	}
	if req.Author != nil {
		post.Author = *req.Author
	}
	if post.Images == nil {
		post.Images = []string{}
	}

	pipe := r.client().TxPipeline()
	pipe.JSONSet(ctx, key, "$", post)

	// The document key is id-based and stable, so a slug change only
	// migrates the slug lookup; the chronological index and tag
	// membership sets reference the key and are unaffected.
	if existing.Slug != newSlug {
		pipe.HDel(ctx, slugsKey, existing.Slug)
		pipe.HSet(ctx, slugsKey, newSlug, key)
	}

	oldSet := make(map[string]struct{}, len(oldTags))
	for _, t := range oldTags {
		oldSet[t] = struct{}{}
	}
	newSet := make(map[string]struct{}, len(newTags))
	for _, t := range newTags {
		newSet[t] = struct{}{}
	}
	for _, t := range oldTags {
		if _, ok := newSet[t]; !ok {
			// Membership entry goes; the tag stays in tags:all even when
			// no post references it anymore.
			pipe.SRem(ctx, tagKey(t), key)
		}
	}
	for _, t := range newTags {
		if _, ok := oldSet[t]; !ok {
			pipe.SAdd(ctx, tagKey(t), key)
			pipe.SAdd(ctx, allTagsKey, t)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("update post transaction: %w", err)
	}

	log.Info().Str("id", id).Str("slug", newSlug).Msg("post updated")
	return post, nil
}

func (r *redisRepository) Delete(ctx context.Context, slug string) (*model.DeleteResult, error) {
	key, err := r.client().HGet(ctx, slugsKey, slug).Result()
	if err == redis.Nil {
		return &model.DeleteResult{Deleted: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("hget %s %s: %w", slugsKey, slug, err)
	}

	post, err := r.fetchOne(ctx, key)
	if err != nil {
		return nil, err
	}
	if post == nil {
		// Slug mapping points at a missing document; repair the hash.
		if err := r.client().HDel(ctx, slugsKey, slug).Err(); err != nil {
			return nil, fmt.Errorf("hdel %s %s: %w", slugsKey, slug, err)
		}
		return &model.DeleteResult{Deleted: false}, nil
	}

	pipe := r.client().TxPipeline()
	pipe.JSONDel(ctx, key, "$")
	pipe.ZRem(ctx, byDateKey, key)
	pipe.HDel(ctx, slugsKey, slug)
	for _, tag := range model.NormalizeTags(post.Tags) {
		pipe.SRem(ctx, tagKey(tag), key)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("delete post transaction: %w", err)
	}

	log.Info().Str("id", post.ID).Str("slug", slug).Msg("post deleted")
	return &model.DeleteResult{Deleted: true, PostID: post.ID}, nil
}

// EnsureSearchIndex probes idx:posts and creates it when absent. Any
// probe failure other than the index-missing reply propagates.
func (r *redisRepository) EnsureSearchIndex(ctx context.Context) error {
	_, err := r.client().FTInfo(ctx, postSearchIndex).Result()
	if err == nil {
		return nil
	}
	if !isIndexMissing(err) {
		return fmt.Errorf("%w: %v", model.ErrIndexProbe, err)
	}

	err = r.client().FTCreate(ctx, postSearchIndex,
		&redis.FTCreateOptions{
			OnJSON:    true,
			Prefix:    []interface{}{postKeyPrefix},
			StopWords: []interface{}{},
		},
		&redis.FieldSchema{FieldName: "$.title", As: "title", FieldType: redis.SearchFieldTypeText, Weight: 10},
		&redis.FieldSchema{FieldName: "$.content", As: "content", FieldType: redis.SearchFieldTypeText},
		&redis.FieldSchema{FieldName: "$.tags", As: "tags", FieldType: redis.SearchFieldTypeTag},
		&redis.FieldSchema{FieldName: "$.author", As: "author", FieldType: redis.SearchFieldTypeText},
	).Err()
	if err != nil {
		return fmt.Errorf("ft.create %s: %w", postSearchIndex, err)
	}

	log.Info().Str("index", postSearchIndex).Msg("search index created")
	return nil
}

// isIndexMissing matches the "index does not exist" reply across Redis
// versions ("Unknown index name" / "no such index").
func isIndexMissing(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unknown index name") || strings.Contains(msg, "no such index")
}

func (r *redisRepository) SearchPosts(ctx context.Context, query string) (*model.SearchResult, error) {
	if err := r.EnsureSearchIndex(ctx); err != nil {
		return nil, err
	}

	res, err := r.client().FTSearchWithArgs(ctx, postSearchIndex, query, &redis.FTSearchOptions{}).Result()
	if err != nil {
		return nil, fmt.Errorf("ft.search %s: %w", postSearchIndex, err)
	}

	posts := make([]model.Post, 0, len(res.Docs))
	for _, doc := range res.Docs {
		raw, ok := doc.Fields["$"]
		if !ok {
			continue
		}
		var p model.Post
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			log.Warn().Str("key", doc.ID).Msg("skipping malformed search hit")
			continue
		}
		posts = append(posts, p)
	}

	return &model.SearchResult{Total: res.Total, Posts: posts}, nil
}
