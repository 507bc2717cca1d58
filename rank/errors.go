package rank

import "errors"

var (
	// ErrQueryNotEmbedded is returned when ranking is attempted against
	// a query that has no embedding yet.
	ErrQueryNotEmbedded = errors.New("query has no embedding")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")
)
