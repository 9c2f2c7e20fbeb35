package sitemap

import (
	"context"
	"encoding/xml"
	"time"

	postRepo "blog-backend/internal/domains/post/repository"
	tagRepo "blog-backend/internal/domains/tag/repository"
	"blog-backend/internal/shared/utils"
)

// URL is a single crawlable location.
type URL struct {
	Loc        string  `json:"loc" xml:"loc"`
	LastMod    string  `json:"lastmod,omitempty" xml:"lastmod,omitempty"`
	ChangeFreq string  `json:"changefreq,omitempty" xml:"changefreq,omitempty"`
	Priority   float64 `json:"priority,omitempty" xml:"priority,omitempty"`
}

// URLSet is the sitemap.xml document root.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Builder composes post and tag repository output into crawl URLs.
type Builder struct {
	posts postRepo.Repository
	tags  tagRepo.Repository
}

func NewBuilder(posts postRepo.Repository, tags tagRepo.Repository) *Builder {
	return &Builder{posts: posts, tags: tags}
}

// BuildURLs lists the homepage, every post and every tag archive.
func (b *Builder) BuildURLs(ctx context.Context, baseURL string) ([]URL, error) {
	entries, err := b.posts.GetAllSlugs(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := b.tags.All(ctx)
	if err != nil {
		return nil, err
	}

	urls := make([]URL, 0, len(entries)+len(tags)+1)
	urls = append(urls, URL{
		Loc:        baseURL + "/",
		ChangeFreq: "daily",
		Priority:   1,
	})

	for _, entry := range entries {
		urls = append(urls, URL{
			Loc:        baseURL + "/posts/" + entry.Slug,
			LastMod:    time.UnixMilli(entry.CreatedAt).UTC().Format(time.RFC3339),
			ChangeFreq: "weekly",
			Priority:   0.9,
		})
	}

	for _, tag := range tags {
		urls = append(urls, URL{
			Loc:        baseURL + "/tags/" + utils.Slugify(tag),
			ChangeFreq: "weekly",
			Priority:   0.5,
		})
	}

	return urls, nil
}

// BuildXML renders the urlset document for GET /sitemap.xml.
func (b *Builder) BuildXML(ctx context.Context, baseURL string) ([]byte, error) {
	urls, err := b.BuildURLs(ctx, baseURL)
	if err != nil {
		return nil, err
	}

	out, err := xml.MarshalIndent(URLSet{Xmlns: xmlns, URLs: urls}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
