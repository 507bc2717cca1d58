package rank

import (
	"context"

	"github.com/poiesic/expertfind/ai"
	"github.com/poiesic/expertfind/core"
	"github.com/poiesic/expertfind/profile"
	"github.com/poiesic/expertfind/retry"
)

// ResolveQuery embeds the query text and attaches the normalized vector
// in place. The embedding is computed once per run and reused for every
// author comparison. A query that already carries an embedding is left
// untouched.
func ResolveQuery(ctx context.Context, embedder ai.Embedder, policy *retry.Policy, query *core.Query) error {
	if embedder == nil {
		return ErrEmbedderRequired
	}
	if err := core.ValidateQuery(query); err != nil {
		return err
	}
	if query.HasEmbedding() {
		return nil
	}
	if policy == nil {
		policy = retry.DefaultPolicy()
	}

	var vector []float32
	err := policy.Do(ctx, func() error {
		var callErr error
		vector, callErr = embedder.EmbedText(ctx, query.Text())
		return callErr
	})
	if err != nil {
		return err
	}

	query.Embedding = profile.NormalizeVector(vector)
	return nil
}
