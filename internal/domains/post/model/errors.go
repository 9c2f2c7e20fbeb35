package model

import "errors"

var (
	// ErrPostNotFound is returned by update paths when the target post
	// does not exist. Read paths report absence with a nil post instead.
	ErrPostNotFound = errors.New("post not found")

	// ErrIndexProbe wraps FT.INFO failures that are not the plain
	// "index does not exist" reply.
	ErrIndexProbe = errors.New("search index probe failed")
)
