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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidAuthor indicates an Author failed validation.
	ErrInvalidAuthor = errors.New("invalid author")

	// ErrInvalidQuery indicates a Query failed validation.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrEmptyAuthorName indicates the author Name field is empty.
	ErrEmptyAuthorName = errors.New("author name cannot be empty")

	// ErrEmptyQueryText indicates the query has neither title nor abstract.
	ErrEmptyQueryText = errors.New("query text cannot be empty")

	// ErrDegenerateAuthor indicates an author has no usable publication text
	// (empty publication list or all-empty texts). Not a failure: degenerate
	// authors are excluded from scoring and flagged distinctly.
	ErrDegenerateAuthor = errors.New("author has no usable publication text")
)
