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


package rank

import (
	"math"
	"sort"

	"github.com/poiesic/expertfind/core"
)

// CosineSimilarity computes the cosine of the angle between two vectors.
// Returns 0 when either vector is empty or has zero magnitude, so
// degenerate inputs never dominate a ranking.
func CosineSimilarity(a, b []float32) float64 {
	length := len(a)
	if len(b) < length {
		length = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < length; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
	}
	for i := range b {
		normB += float64(b[i]) * float64(b[i])
	}
	for i := length; i < len(a); i++ {
		normA += float64(a[i]) * float64(a[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// RankAuthors scores every embedded author against the query and
// returns results ordered by descending fitness. Authors without an
// embedding are excluded rather than scored at zero. Ties keep the
// input order of the author list, so ranking is deterministic.
func RankAuthors(query *core.Query, authors []*core.Author) ([]core.FitnessResult, error) {
	if query == nil || !query.HasEmbedding() {
		return nil, ErrQueryNotEmbedded
	}

	results := make([]core.FitnessResult, 0, len(authors))
	for _, author := range authors {
		if author == nil || !author.HasEmbedding() {
			continue
		}
		results = append(results, core.FitnessResult{
			AuthorName: author.Name,
			Score:      CosineSimilarity(query.Embedding, author.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	for i := range results {
		results[i].Rank = i + 1
	}

	return results, nil
}
