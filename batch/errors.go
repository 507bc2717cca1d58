package batch

import "errors"

var (
	// ErrBuilderRequired is returned when a profile builder is not provided.
	ErrBuilderRequired = errors.New("profile builder required")

	// ErrInvalidRange is returned for an author range that does not
	// select at least one author inside the corpus.
	ErrInvalidRange = errors.New("invalid author range")
)
