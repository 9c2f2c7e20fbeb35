package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/config"
	"blog-backend/internal/domains/sitemap"
	"blog-backend/internal/shared/response"
)

type SitemapHandler struct {
	builder *sitemap.Builder
	blog    config.BlogConfig
}

func NewSitemapHandler(b *sitemap.Builder, blog config.BlogConfig) *SitemapHandler {
	return &SitemapHandler{builder: b, blog: blog}
}

// XML handles GET /sitemap.xml.
func (h *SitemapHandler) XML(c *gin.Context) {
	out, err := h.builder.BuildXML(c.Request.Context(), h.blog.BaseURL)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to build sitemap")
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", out)
}

// URLs handles GET /sitemap/urls, the JSON view used by crawl tooling.
func (h *SitemapHandler) URLs(c *gin.Context) {
	urls, err := h.builder.BuildURLs(c.Request.Context(), h.blog.BaseURL)
	if err != nil {
		response.InternalServerError(c, "failed to build sitemap urls")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"urls": urls})
}
