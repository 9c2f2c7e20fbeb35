package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"blog-backend/internal/config"
	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/domains/post/service"
	"blog-backend/internal/shared/middleware"
	"blog-backend/internal/shared/response"
)

type PostHandler struct {
	service service.Service
	blog    config.BlogConfig
}

func NewPostHandler(s service.Service, blog config.BlogConfig) *PostHandler {
	return &PostHandler{service: s, blog: blog}
}

// List handles GET /posts. With ?q= it runs a full-text search, otherwise
// it returns a page ordered newest first.
func (h *PostHandler) List(c *gin.Context) {
	if q := c.Query("q"); q != "" {
		result, err := h.service.Search(c.Request.Context(), q)
		if err != nil {
			response.InternalServerError(c, "search failed")
			return
		}
		response.SuccessWithMeta(c, http.StatusOK, gin.H{"posts": result.Posts}, &response.Meta{
			Page:       1,
			Limit:      result.Total,
			Total:      result.Total,
			TotalPages: 1,
		})
		return
	}

	if !h.blog.PaginationEnabled {
		result, err := h.service.List(c.Request.Context(), model.ListQuery{Page: 1, Limit: 1000})
		if err != nil {
			response.InternalServerError(c, "failed to list posts")
			return
		}
		response.SuccessWithMeta(c, http.StatusOK, gin.H{"posts": result.Posts}, &response.Meta{
			Page:       1,
			Limit:      len(result.Posts),
			Total:      len(result.Posts),
			TotalPages: 1,
		})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.blog.PostsPerPage)))

	result, err := h.service.List(c.Request.Context(), model.ListQuery{Page: page, Limit: limit})
	if err != nil {
		response.InternalServerError(c, "failed to list posts")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, gin.H{"posts": result.Posts}, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	})
}

// GetBySlug handles GET /posts/:slug, including prev/next neighbors when
// post navigation is enabled.
func (h *PostHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")

	post, err := h.service.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		response.InternalServerError(c, "failed to fetch post")
		return
	}
	if post == nil {
		response.NotFound(c, "Post not found")
		return
	}

	payload := gin.H{"post": post}
	if h.blog.NeighborsEnabled {
		neighbors, err := h.service.GetNeighbors(c.Request.Context(), slug)
		if err != nil {
			response.InternalServerError(c, "failed to fetch neighbors")
			return
		}
		payload["neighbors"] = neighbors
	}

	response.Success(c, http.StatusOK, payload)
}

// GetByID handles GET /posts/by-id/:id.
func (h *PostHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	post, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.InternalServerError(c, "failed to fetch post")
		return
	}
	if post == nil {
		response.NotFound(c, "Post not found")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"post": post})
}

// Create handles POST /posts (admin only).
func (h *PostHandler) Create(c *gin.Context) {
	var req model.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	post, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		if isValidationError(err) {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR",
				"Invalid post data provided. Title and content are required.", err.Error())
			return
		}
		response.InternalServerError(c, "failed to create post")
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated,
		"Post \""+post.Title+"\" created successfully.", gin.H{"post": post})
}

// CreateDraft handles POST /posts/draft (admin only): a one-click draft
// with a timestamped title, placeholder content and the session user as
// author, ready to be edited.
func (h *PostHandler) CreateDraft(c *gin.Context) {
	author := "Admin"
	if user := middleware.CurrentUser(c); user != nil {
		author = user.Username
	}

	post, err := h.service.Create(c.Request.Context(), model.CreatePostRequest{
		Title:   "Untitled Draft - " + time.Now().UTC().Format(time.RFC3339),
		Content: "Start writing your post here...",
		Author:  author,
		Tags:    []string{},
	})
	if err != nil {
		response.InternalServerError(c, "failed to create draft post")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"post": post})
}

// Update handles PUT /posts/:slug (admin only).
func (h *PostHandler) Update(c *gin.Context) {
	slug := c.Param("slug")

	var req model.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	post, err := h.service.UpdateBySlug(c.Request.Context(), slug, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			response.NotFound(c, "Post with slug \""+slug+"\" not found.")
		case isValidationError(err):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR",
				"Invalid post data provided. Title and content are required.", err.Error())
		default:
			response.InternalServerError(c, "failed to update post")
		}
		return
	}

	response.SuccessWithMessage(c, http.StatusOK,
		"Post \""+post.Title+"\" updated successfully.", gin.H{"post": post})
}

// UpdateByID handles PUT /posts/by-id/:id (admin only), the direct-key
// counterpart of Update.
func (h *PostHandler) UpdateByID(c *gin.Context) {
	id := c.Param("id")

	var req model.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	post, err := h.service.UpdateByID(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			response.NotFound(c, "Post with id \""+id+"\" not found.")
		case isValidationError(err):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR",
				"Invalid post data provided. Title and content are required.", err.Error())
		default:
			response.InternalServerError(c, "failed to update post")
		}
		return
	}

	response.SuccessWithMessage(c, http.StatusOK,
		"Post \""+post.Title+"\" updated successfully.", gin.H{"post": post})
}

var unsafeFilenameRe = regexp.MustCompile(`[^a-zA-Z0-9.\-_]`)

// UploadImage handles POST /posts/by-id/:id/images (admin only): stores
// a single multipart file under the upload directory and returns its
// public URL. Attaching the URL to the post is the client's follow-up
// update call.
func (h *PostHandler) UploadImage(c *gin.Context) {
	id := c.Param("id")

	post, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.InternalServerError(c, "failed to fetch post")
		return
	}
	if post == nil {
		response.NotFound(c, "Post not found")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "Invalid file upload. A single file with the field name \"image\" is expected.")
		return
	}

	// filepath.Base plus the character whitelist keeps the name from
	// escaping the upload directory.
	filename := unsafeFilenameRe.ReplaceAllString(filepath.Base(file.Filename), "")
	if filename == "" || filename == "." || filename == ".." {
		response.BadRequest(c, "Invalid file name.")
		return
	}

	uploadDir := filepath.Join(h.blog.UploadDir, "posts", id)
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		response.InternalServerError(c, "failed to store image")
		return
	}
	if err := c.SaveUploadedFile(file, filepath.Join(uploadDir, filename)); err != nil {
		response.InternalServerError(c, "failed to store image")
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "Image uploaded successfully.",
		gin.H{"url": "/uploads/posts/" + id + "/" + filename})
}

// Delete handles DELETE /posts/:slug (admin only). Deleting a slug that
// does not exist reports 404 without failing the repository call.
func (h *PostHandler) Delete(c *gin.Context) {
	slug := c.Param("slug")

	result, err := h.service.DeleteBySlug(c.Request.Context(), slug)
	if err != nil {
		response.InternalServerError(c, "failed to delete post")
		return
	}
	if !result.Deleted {
		response.NotFound(c, "Post with slug \""+slug+"\" not found.")
		return
	}

	response.SuccessWithMessage(c, http.StatusOK,
		"Post with slug \""+slug+"\" deleted successfully.", gin.H{"postId": result.PostID})
}

func isValidationError(err error) bool {
	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		return true
	}
	var vErr validation.Error
	return errors.As(err, &vErr)
}
