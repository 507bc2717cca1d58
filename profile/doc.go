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


// Package profile derives author embeddings from publication records.
//
// Two strategies are supported:
//
//   - StrategyAggregate embeds every publication with usable text and
//     averages the vectors into a single author embedding.
//   - StrategySummarize asks the chat model for a single summary of the
//     author's research and embeds that summary.
//
// Both strategies produce L2-normalized vectors, so downstream cosine
// similarity reduces to a dot product.
//
// # Usage
//
//	builder, err := profile.NewBuilder(profile.StrategyAggregate, provider,
//	    profile.WithVectorCache(cache, "embeddinggemma"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := builder.BuildEmbedding(ctx, author); err != nil {
//	    if errors.Is(err, core.ErrDegenerateAuthor) {
//	        // author had no usable publication text
//	    }
//	}
//
// Authors without any non-empty publication text are degenerate: they
// are reported via core.ErrDegenerateAuthor and left without an
// embedding rather than being assigned a meaningless vector.
package profile
