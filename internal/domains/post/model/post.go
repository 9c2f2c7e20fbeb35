package model

import "strings"

// ExcerptLength is the number of leading content characters used when no
// excerpt is supplied.
const ExcerptLength = 150

// Post is the canonical blog entity, stored as a RedisJSON document under
// post:<id>. The JSON field names are part of the keyspace contract and
// must not change: the RediSearch schema maps $.title, $.content, $.tags
// and $.author by path.
type Post struct {
	ID            string   `json:"id"`
	Slug          string   `json:"slug"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Excerpt       string   `json:"excerpt,omitempty"`
	FeaturedImage string   `json:"featured_image,omitempty"`
	Images        []string `json:"images"`
	CreatedAt     int64    `json:"createdAt"` // epoch milliseconds
	Author        string   `json:"author,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

// Neighbor carries the fields needed for prev/next navigation links.
type Neighbor struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// Neighbors of a post in the chronological index. Prev is the immediately
// older post, Next the immediately newer one; nil where none exists.
type Neighbors struct {
	Prev *Neighbor `json:"prev"`
	Next *Neighbor `json:"next"`
}

// SlugEntry is the projection used for sitemap generation.
type SlugEntry struct {
	Slug      string `json:"slug"`
	CreatedAt int64  `json:"createdAt"`
}

// DeleteResult reports whether anything was removed. A missing slug is a
// normal negative result, not an error.
type DeleteResult struct {
	Deleted bool   `json:"deleted"`
	PostID  string `json:"postId,omitempty"`
}

// SearchResult is the outcome of a full-text query.
type SearchResult struct {
	Total int    `json:"total"`
	Posts []Post `json:"posts"`
}

// NormalizeTags trims, lowercases, drops empties and deduplicates,
// preserving first-seen order. Applied on create and before diffing on
// update, so membership keys stay stable across both paths.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// DefaultExcerpt returns the first ExcerptLength characters of content.
func DefaultExcerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= ExcerptLength {
		return content
	}
	return string(runes[:ExcerptLength])
}
