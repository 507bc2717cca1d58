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


// Package expertfind scores authors against free-text queries by
// comparing embeddings of their publication records. This file is the
// library entry point; the packages underneath (profile, rank, batch,
// corpus, report) are usable on their own.
package expertfind

import (
	"context"
	"io"
	"log/slog"

	"github.com/poiesic/expertfind/ai"
	"github.com/poiesic/expertfind/ai/openai"
	"github.com/poiesic/expertfind/batch"
	"github.com/poiesic/expertfind/core"
	"github.com/poiesic/expertfind/profile"
	"github.com/poiesic/expertfind/rank"
	"github.com/poiesic/expertfind/report"
	"github.com/poiesic/expertfind/retry"
	"github.com/poiesic/expertfind/storage"
	"github.com/poiesic/expertfind/storage/badger"
)

// Engine bundles the AI provider, embedding cache, and strategy into
// one handle for scoring runs.
type Engine struct {
	provider     ai.AIProvider
	ownsProvider bool
	cache        storage.VectorCache
	builder      *profile.Builder
	policy       *retry.Policy
	logger       *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig  *ai.Config
	provider  ai.AIProvider
	cachePath string
	policy    *retry.Policy
	logger    *slog.Logger
}

// WithAIConfig sets the configuration for the OpenAI-compatible
// provider. Ignored when WithProvider is also given.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects an existing AI provider instead of building one
// from configuration. The caller keeps ownership; Close does not close
// injected providers.
func WithProvider(provider ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithCachePath enables a persistent BadgerDB embedding cache at the
// given directory.
func WithCachePath(path string) EngineOption {
	return func(o *engineOptions) {
		o.cachePath = path
	}
}

// WithRetryPolicy sets the retry policy for all provider calls.
// Default is retry.DefaultPolicy().
func WithRetryPolicy(policy *retry.Policy) EngineOption {
	return func(o *engineOptions) {
		o.policy = policy
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// NewEngine creates an engine for the given embedding strategy.
func NewEngine(strategy profile.Strategy, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
		policy:   retry.DefaultPolicy(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	provider := options.provider
	ownsProvider := false
	if provider == nil {
		var err error
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			return nil, err
		}
		ownsProvider = true
	}

	var cache storage.VectorCache
	if options.cachePath != "" {
		backend, err := badger.OpenBackend(options.cachePath, false)
		if err != nil {
			if ownsProvider {
				provider.Close()
			}
			return nil, err
		}
		cache, err = badger.NewVectorCache(backend)
		if err != nil {
			backend.Close()
			if ownsProvider {
				provider.Close()
			}
			return nil, err
		}
	}

	builderOpts := []profile.Option{
		profile.WithRetryPolicy(options.policy),
		profile.WithLogger(options.logger),
	}
	if cache != nil {
		builderOpts = append(builderOpts,
			profile.WithVectorCache(cache, options.aiConfig.EmbeddingModel))
	}

	builder, err := profile.NewBuilder(strategy, provider, builderOpts...)
	if err != nil {
		if cache != nil {
			cache.Close()
		}
		if ownsProvider {
			provider.Close()
		}
		return nil, err
	}

	return &Engine{
		provider:     provider,
		ownsProvider: ownsProvider,
		cache:        cache,
		builder:      builder,
		policy:       options.policy,
		logger:       options.logger,
	}, nil
}

// Builder returns the profile builder for this engine's strategy.
func (e *Engine) Builder() *profile.Builder {
	return e.builder
}

// NewDriver creates a batch driver bound to this engine's builder.
func (e *Engine) NewDriver(config *batch.Config, progress io.Writer, opts ...batch.Option) (*batch.Driver, error) {
	opts = append([]batch.Option{batch.WithLogger(e.logger)}, opts...)
	return batch.NewDriver(e.builder, config, progress, opts...)
}

// NewJustifier creates a rationale generator backed by this engine's
// chat model.
func (e *Engine) NewJustifier() (*report.Justifier, error) {
	return report.NewJustifier(e.provider,
		report.WithJustifierRetryPolicy(e.policy),
		report.WithJustifierLogger(e.logger))
}

// Score embeds the query and ranks the given authors against it.
// Authors are expected to carry embeddings already (see NewDriver).
func (e *Engine) Score(ctx context.Context, query *core.Query, authors []*core.Author) ([]core.FitnessResult, error) {
	if err := rank.ResolveQuery(ctx, e.provider.Embedder(), e.policy, query); err != nil {
		return nil, err
	}
	return rank.RankAuthors(query, authors)
}

// Close releases the embedding cache and, if the engine created it,
// the AI provider.
func (e *Engine) Close() error {
	if e.ownsProvider {
		if err := e.provider.Close(); err != nil {
			e.logger.Error("error closing AI provider", "err", err)
		}
	}
	if e.cache != nil {
		if err := e.cache.Close(); err != nil {
			e.logger.Error("error closing embedding cache", "err", err)
			return err
		}
	}
	return nil
}
