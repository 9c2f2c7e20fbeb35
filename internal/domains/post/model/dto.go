package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreatePostRequest is the payload for POST /posts. CreatedAt is supplied
// by the caller (epoch ms) so imported posts keep their original dates;
// when zero the service stamps the current time.
type CreatePostRequest struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Excerpt       string   `json:"excerpt"`
	FeaturedImage string   `json:"featured_image"`
	Author        string   `json:"author"`
	Tags          []string `json:"tags"`
	CreatedAt     int64    `json:"createdAt"`
}

func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Content, validation.Required),
	)
}

// UpdatePostRequest is a partial update. Pointer fields distinguish
// "not supplied" from "set to empty".
type UpdatePostRequest struct {
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Excerpt       *string   `json:"excerpt"`
	FeaturedImage *string   `json:"featured_image"`
	Images        *[]string `json:"images"`
	Author        *string   `json:"author"`
	Tags          *[]string `json:"tags"`
}

func (r UpdatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Content, validation.Required),
	)
}

// ListQuery are the pagination parameters for GET /posts.
type ListQuery struct {
	Page  int
	Limit int
}

// ListResult bundles a page of posts with pagination metadata.
type ListResult struct {
	Posts      []Post
	Total      int
	Page       int
	Limit      int
	TotalPages int
}
