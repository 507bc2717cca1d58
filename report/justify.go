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


package report

import (
	"context"
	"log/slog"
	"math"

	"github.com/poiesic/expertfind/ai"
	"github.com/poiesic/expertfind/core"
	"github.com/poiesic/expertfind/retry"
)

// Justifier asks the chat model for a short rationale per ranked
// author. Rationales are decoration on the ranking; a failed rationale
// is logged and left empty, never failing the run.
type Justifier struct {
	summarizer ai.Summarizer
	policy     *retry.Policy
	logger     *slog.Logger
}

// JustifierOption configures a Justifier.
type JustifierOption func(*Justifier) error

// WithJustifierLogger sets a custom logger.
// Default is slog.Default().
func WithJustifierLogger(logger *slog.Logger) JustifierOption {
	return func(j *Justifier) error {
		if logger == nil {
			logger = slog.Default()
		}
		j.logger = logger
		return nil
	}
}

// WithJustifierRetryPolicy sets the retry policy for each LLM call.
// Default is retry.DefaultPolicy().
func WithJustifierRetryPolicy(policy *retry.Policy) JustifierOption {
	return func(j *Justifier) error {
		if policy == nil {
			policy = retry.DefaultPolicy()
		}
		j.policy = policy
		return nil
	}
}

// NewJustifier creates a justifier backed by the provider's chat model.
func NewJustifier(provider ai.AIProvider, opts ...JustifierOption) (*Justifier, error) {
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	j := &Justifier{
		summarizer: provider.Summarizer(),
		policy:     retry.DefaultPolicy(),
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(j); err != nil {
			return nil, err
		}
	}

	j.logger = j.logger.With("component", "report.Justifier")

	return j, nil
}

// Justify fills in the Rationale of up to limit results, in rank order.
// A limit <= 0 justifies every result. Author summaries are looked up
// by name; authors without one get a rationale built from an empty
// summary, matching the aggregate strategy where no summary exists.
func (j *Justifier) Justify(ctx context.Context, query *core.Query, authors []*core.Author, results []core.FitnessResult, limit int) error {
	if limit <= 0 || limit > len(results) {
		limit = len(results)
	}

	summaries := make(map[string]string, len(authors))
	for _, author := range authors {
		if author != nil {
			summaries[author.Name] = author.Summary
		}
	}

	for i := 0; i < limit; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		result := &results[i]
		score := int(math.Round(result.Score * 100))

		var rationale string
		err := j.policy.Do(ctx, func() error {
			var callErr error
			rationale, callErr = j.summarizer.JustifyFitness(ctx,
				query.Title, query.Abstract, summaries[result.AuthorName], score)
			return callErr
		})
		if err != nil {
			j.logger.Error("rationale generation failed",
				"author", result.AuthorName, "rank", result.Rank, "err", err)
			continue
		}

		result.Rationale = FlattenWhitespace(rationale)
	}

	return nil
}
