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

import "fmt"

// ValidateAuthor validates an Author according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//
// NOT validated (populated by processors):
//   - Publications (an empty list is valid-but-degenerate, flagged at build time)
//   - Summary and Embedding (populated by the profile builder)
func ValidateAuthor(author *Author) error {
	if author == nil {
		return fmt.Errorf("%w: author is nil", ErrInvalidAuthor)
	}

	if author.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAuthor, ErrEmptyAuthorName)
	}

	return nil
}

// ValidateQuery validates a Query according to domain rules.
//
// Validation rules:
//   - Text (title and/or abstract) must not be empty
//
// NOT validated:
//   - Embedding (resolved once at run start)
func ValidateQuery(query *Query) error {
	if query == nil {
		return fmt.Errorf("%w: query is nil", ErrInvalidQuery)
	}

	if query.Text() == "" {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, ErrEmptyQueryText)
	}

	return nil
}

// IsDegenerate reports whether an author has no usable publication text:
// either no publications at all or every publication text is empty.
// Degenerate authors produce no embedding and never trigger provider calls.
func IsDegenerate(author *Author) bool {
	if author == nil || len(author.Publications) == 0 {
		return true
	}
	for _, pub := range author.Publications {
		if pub.Text() != "" {
			return false
		}
	}
	return true
}
