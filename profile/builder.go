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


package profile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/expertfind/ai"
	"github.com/poiesic/expertfind/core"
	"github.com/poiesic/expertfind/retry"
	"github.com/poiesic/expertfind/storage"
)

// Builder derives author embeddings from publication records using a
// configured strategy.
type Builder struct {
	strategy   Strategy
	embedder   ai.Embedder
	summarizer ai.Summarizer
	policy     *retry.Policy
	cache      storage.VectorCache
	cacheModel string
	logger     *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// WithRetryPolicy sets the retry policy applied to each provider call.
// Default is retry.DefaultPolicy().
func WithRetryPolicy(policy *retry.Policy) Option {
	return func(b *Builder) error {
		if policy == nil {
			policy = retry.DefaultPolicy()
		}
		b.policy = policy
		return nil
	}
}

// WithVectorCache enables a persistent embedding cache. Cached vectors
// are keyed by (model, input text), so the cache survives re-runs as
// long as the embedding model is unchanged.
func WithVectorCache(cache storage.VectorCache, model string) Option {
	return func(b *Builder) error {
		b.cache = cache
		b.cacheModel = model
		return nil
	}
}

// NewBuilder creates a builder for the given strategy.
func NewBuilder(strategy Strategy, provider ai.AIProvider, opts ...Option) (*Builder, error) {
	if !strategy.Valid() {
		return nil, ErrUnknownStrategy
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	b := &Builder{
		strategy:   strategy,
		embedder:   provider.Embedder(),
		summarizer: provider.Summarizer(),
		policy:     retry.DefaultPolicy(),
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	b.logger = b.logger.With("component", "profile.Builder")

	return b, nil
}

// Strategy returns the embedding strategy this builder uses.
func (b *Builder) Strategy() Strategy {
	return b.strategy
}

// IsComplete reports whether the author already carries everything the
// strategy would compute, i.e. whether BuildEmbedding would be a no-op
// apart from provider calls.
func (b *Builder) IsComplete(author *core.Author) bool {
	if author == nil {
		return false
	}
	switch b.strategy {
	case StrategySummarize:
		return author.HasEmbedding() && author.HasSummary()
	default:
		return author.HasEmbedding()
	}
}

// BuildEmbedding computes and attaches the author embedding in place.
// Returns core.ErrDegenerateAuthor when the author has no usable
// publication text; the author is left unembedded in that case.
func (b *Builder) BuildEmbedding(ctx context.Context, author *core.Author) error {
	if err := core.ValidateAuthor(author); err != nil {
		return err
	}

	if core.IsDegenerate(author) {
		return core.ErrDegenerateAuthor
	}

	switch b.strategy {
	case StrategySummarize:
		return b.buildSummarize(ctx, author)
	default:
		return b.buildAggregate(ctx, author)
	}
}

// buildAggregate embeds each publication with usable text and averages
// the vectors. Publications with empty text are skipped; the remainder
// is embedded in a single batch call.
func (b *Builder) buildAggregate(ctx context.Context, author *core.Author) error {
	texts := make([]string, 0, len(author.Publications))
	for i := range author.Publications {
		text := author.Publications[i].Text()
		if text == "" {
			b.logger.Debug("skipping publication without text",
				"author", author.Name, "index", i)
			continue
		}
		texts = append(texts, text)
	}

	if len(texts) == 0 {
		return core.ErrDegenerateAuthor
	}

	vectors, err := b.embedTexts(ctx, texts)
	if err != nil {
		return err
	}

	author.Embedding = NormalizeVector(MeanVector(vectors))
	return nil
}

// buildSummarize produces a single research summary via the LLM and
// embeds it. An author that already carries a summary (from a previous
// partial run) is embedded without calling the LLM again.
func (b *Builder) buildSummarize(ctx context.Context, author *core.Author) error {
	if !author.HasSummary() {
		papers := make([]ai.Paper, 0, len(author.Publications))
		for _, pub := range author.Publications {
			if pub.Text() == "" {
				continue
			}
			papers = append(papers, ai.Paper{Title: pub.Title, Abstract: pub.Abstract})
		}
		if len(papers) == 0 {
			return core.ErrDegenerateAuthor
		}

		var summary string
		err := b.policy.Do(ctx, func() error {
			var callErr error
			summary, callErr = b.summarizer.SummarizeResearch(ctx, author.Name, papers)
			return callErr
		})
		if err != nil {
			return err
		}
		author.Summary = summary
	}

	vector, err := b.embedText(ctx, author.Summary)
	if err != nil {
		return err
	}

	author.Embedding = NormalizeVector(vector)
	return nil
}

// embedText returns the embedding for text, consulting the vector
// cache first when one is configured. Cache failures are logged and
// never abort the embedding.
func (b *Builder) embedText(ctx context.Context, text string) ([]float32, error) {
	var id core.ID
	if b.cache != nil {
		id = storage.VectorCacheKey(b.cacheModel, text)
		cached, err := b.cache.GetVector(ctx, id)
		if err == nil {
			return cached.Vector, nil
		}
		if err != storage.ErrNotFound {
			b.logger.Warn("vector cache lookup failed", "err", err)
		}
	}

	var vector []float32
	err := b.policy.Do(ctx, func() error {
		var callErr error
		vector, callErr = b.embedder.EmbedText(ctx, text)
		return callErr
	})
	if err != nil {
		return nil, err
	}

	if b.cache != nil {
		entry := &core.CachedVector{Id: id, Model: b.cacheModel, Vector: vector}
		if err := b.cache.PutVector(ctx, entry); err != nil {
			b.logger.Warn("vector cache store failed", "err", err)
		}
	}

	return vector, nil
}

// embedTexts returns one embedding per text in order. Cached vectors
// are used where available; the misses go to the provider in a single
// EmbedTexts call.
func (b *Builder) embedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	missing := make([]int, 0, len(texts))

	for i, text := range texts {
		if b.cache == nil {
			missing = append(missing, i)
			continue
		}
		cached, err := b.cache.GetVector(ctx, storage.VectorCacheKey(b.cacheModel, text))
		if err == nil {
			vectors[i] = cached.Vector
			continue
		}
		if err != storage.ErrNotFound {
			b.logger.Warn("vector cache lookup failed", "err", err)
		}
		missing = append(missing, i)
	}

	if len(missing) == 0 {
		return vectors, nil
	}

	batch := make([]string, len(missing))
	for i, idx := range missing {
		batch[i] = texts[idx]
	}

	var embedded [][]float32
	err := b.policy.Do(ctx, func() error {
		var callErr error
		embedded, callErr = b.embedder.EmbedTexts(ctx, batch)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	if len(embedded) != len(batch) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(embedded), len(batch))
	}

	for i, idx := range missing {
		vectors[idx] = embedded[i]
		if b.cache != nil {
			entry := &core.CachedVector{
				Id:     storage.VectorCacheKey(b.cacheModel, texts[idx]),
				Model:  b.cacheModel,
				Vector: embedded[i],
			}
			if err := b.cache.PutVector(ctx, entry); err != nil {
				b.logger.Warn("vector cache store failed", "err", err)
			}
		}
	}

	return vectors, nil
}
