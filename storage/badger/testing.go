package badger

import "github.com/poiesic/expertfind/storage"

// NewMemoryVectorCache creates an in-memory vector cache for testing.
// The returned backend must be closed by the caller.
func NewMemoryVectorCache() (storage.VectorCache, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, err
	}

	cache, err := NewVectorCache(backend)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	return cache, backend, nil
}
