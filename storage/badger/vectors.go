// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/expertfind/core"
	"github.com/poiesic/expertfind/storage"
)

// VectorCache implements storage.VectorCache for BadgerDB.
type VectorCache struct {
	backend *Backend
}

var _ storage.VectorCache = (*VectorCache)(nil)

// NewVectorCache creates a vector cache on top of an open backend.
func NewVectorCache(backend *Backend) (storage.VectorCache, error) {
	if backend == nil || backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	return &VectorCache{backend: backend}, nil
}

// GetVector retrieves a cached vector by its content ID.
// Returns storage.ErrNotFound if no entry exists.
func (c *VectorCache) GetVector(ctx context.Context, id core.ID) (*core.CachedVector, error) {
	if c.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var vector *core.CachedVector
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeVectorKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			vector, unmarshalErr = storage.UnmarshalCachedVector(val)
			return unmarshalErr
		})
	}, false)

	if err != nil {
		return nil, err
	}
	return vector, nil
}

// PutVector stores a cached vector, overwriting any existing entry.
func (c *VectorCache) PutVector(ctx context.Context, vector *core.CachedVector) error {
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return c.backend.WithTx(func(tx *badger.Txn) error {
		if vector.InsertedAt.IsZero() {
			vector.InsertedAt = time.Now().UTC()
		}
		value := storage.MarshalCachedVector(vector)
		if err := tx.Set(makeVectorKey(vector.Id), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Close closes the underlying backend.
func (c *VectorCache) Close() error {
	return c.backend.Close()
}
