package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/domains/tag/repository"
	"blog-backend/internal/shared/response"
)

type TagHandler struct {
	repo repository.Repository
}

func NewTagHandler(repo repository.Repository) *TagHandler {
	return &TagHandler{repo: repo}
}

// List handles GET /tags.
func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.repo.All(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "failed to list tags")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tags": tags})
}
