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


// Package storage provides the storage abstraction layer for expertfind.
//
// This package defines the vector cache interface that decouples storage
// implementation from the profile builder. It allows different backends
// (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// This package follows a strict "return interface" pattern for all public
// constructors to enforce abstraction and enable multiple backends:
//
//	cache, err := badger.NewVectorCache(backend)  // returns storage.VectorCache
//
// # Usage
//
// Create a cache instance:
//
//	backend, err := badger.OpenBackend("/path/to/cache", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cache, err := badger.NewVectorCache(backend)
//	defer cache.Close()
//
// Use in tests with in-memory storage:
//
//	cache, backend, err := badger.NewMemoryVectorCache()
//	defer backend.Close()
//
// # Thread Safety
//
// All cache implementations must be thread-safe and support concurrent
// access from multiple goroutines.
package storage
