package storage

import (
	"context"

	"github.com/poiesic/expertfind/core"
)

// VectorCache persists previously computed embeddings keyed by the
// content ID of (model, input text), so that re-runs and overlapping
// ranges never pay for the same embedding twice.
// Implementations must be thread-safe and support concurrent access.
type VectorCache interface {
	// GetVector retrieves a cached vector by its content ID.
	// Returns ErrNotFound if no entry exists for the ID.
	GetVector(ctx context.Context, id core.ID) (*core.CachedVector, error)

	// PutVector stores a cached vector, overwriting any existing entry
	// with the same ID. Sets InsertedAt if not already set.
	PutVector(ctx context.Context, vector *core.CachedVector) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// VectorCacheKey derives the content ID for a cache entry from the
// embedding model identifier and the input text. Identical (model, text)
// pairs always map to the same ID.
func VectorCacheKey(model, text string) core.ID {
	return core.IDFromContent(model + "\x00" + text)
}
