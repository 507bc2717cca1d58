package profile

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/poiesic/expertfind/ai/mock"
	"github.com/poiesic/expertfind/core"
	"github.com/poiesic/expertfind/retry"
	"github.com/poiesic/expertfind/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(attempts int) *retry.Policy {
	return &retry.Policy{MaxAttempts: attempts, Delay: time.Millisecond}
}

func testAuthor() *core.Author {
	return &core.Author{
		Name: "Ada Lovelace",
		Publications: []core.Publication{
			{Title: "Notes on the Analytical Engine", Abstract: "Early programs for a mechanical computer."},
			{Title: "On Bernoulli Numbers", Abstract: "An algorithmic treatment."},
		},
	}
}

func assertUnitVector(t *testing.T, vector []float32) {
	t.Helper()
	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sumSquares), 1e-5)
}

func TestNewBuilderValidation(t *testing.T) {
	provider := mock.NewMockProvider()

	t.Run("invalid strategy", func(t *testing.T) {
		_, err := NewBuilder(Strategy(0), provider)
		assert.True(t, errors.Is(err, ErrUnknownStrategy))
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewBuilder(StrategyAggregate, nil)
		assert.True(t, errors.Is(err, ErrAIProviderRequired))
	})

	t.Run("valid", func(t *testing.T) {
		builder, err := NewBuilder(StrategyAggregate, provider)
		require.NoError(t, err)
		assert.Equal(t, StrategyAggregate, builder.Strategy())
	})
}

func TestBuildEmbeddingAggregate(t *testing.T) {
	provider := mock.NewMockProvider().(*mock.MockProvider)
	builder, err := NewBuilder(StrategyAggregate, provider,
		WithRetryPolicy(fastPolicy(3)))
	require.NoError(t, err)

	author := testAuthor()
	require.NoError(t, builder.BuildEmbedding(context.Background(), author))

	assert.True(t, author.HasEmbedding())
	assert.Empty(t, author.Summary, "aggregate must not produce a summary")
	assertUnitVector(t, author.Embedding)
	assert.Equal(t, 0, provider.GetMockSummarizer().CallCount(),
		"aggregate must never call the chat model")
	assert.Equal(t, 1, provider.GetMockEmbedder().CallCount(),
		"publications are embedded in one batch call")
}

func TestBuildEmbeddingAggregateBatchesTexts(t *testing.T) {
	provider := mock.NewMockProvider().(*mock.MockProvider)

	var batched []string
	provider.GetMockEmbedder().EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		batched = texts
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{float32(i + 1), 0}
		}
		return vectors, nil
	}

	builder, err := NewBuilder(StrategyAggregate, provider,
		WithRetryPolicy(fastPolicy(3)))
	require.NoError(t, err)

	author := testAuthor()
	require.NoError(t, builder.BuildEmbedding(context.Background(), author))

	require.Len(t, batched, 2, "both publication texts go through EmbedTexts")
	assert.Equal(t, author.Publications[0].Text(), batched[0])
	assert.Equal(t, author.Publications[1].Text(), batched[1])
	assert.Equal(t, 1, provider.GetMockEmbedder().CallCount())
}

func TestBuildEmbeddingAggregateSkipsEmptyPublications(t *testing.T) {
	provider := mock.NewMockProvider().(*mock.MockProvider)
	builder, err := NewBuilder(StrategyAggregate, provider,
		WithRetryPolicy(fastPolicy(3)))
	require.NoError(t, err)

	author := &core.Author{
		Name: "Sparse Author",
		Publications: []core.Publication{
			{Title: "", Abstract: "   "},
			{Title: "Real Paper", Abstract: "With content."},
		},
	}
	require.NoError(t, builder.BuildEmbedding(context.Background(), author))

	assert.True(t, author.HasEmbedding())

	var batched []string
	provider.GetMockEmbedder().EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		batched = texts
		return [][]float32{{1, 0}}, nil
	}
	require.NoError(t, builder.BuildEmbedding(context.Background(), author))
	require.Len(t, batched, 1, "empty publication must not be embedded")
	assert.Equal(t, "Real Paper\nWith content.", batched[0])
}

func TestBuildEmbeddingDegenerateAuthor(t *testing.T) {
	provider := mock.NewMockProvider().(*mock.MockProvider)

	for _, strategy := range []Strategy{StrategyAggregate, StrategySummarize} {
		t.Run(strategy.String(), func(t *testing.T) {
			builder, err := NewBuilder(strategy, provider,
				WithRetryPolicy(fastPolicy(3)))
			require.NoError(t, err)

			author := &core.Author{
				Name: "Empty Author",
				Publications: []core.Publication{
					{Title: "", Abstract: ""},
				},
			}
			err = builder.BuildEmbedding(context.Background(), author)
			assert.True(t, errors.Is(err, core.ErrDegenerateAuthor))
			assert.False(t, author.HasEmbedding(),
				"degenerate author must not receive an embedding")
		})
	}
}

func TestBuildEmbeddingSummarize(t *testing.T) {
	provider := mock.NewMockProvider().(*mock.MockProvider)
	builder, err := NewBuilder(StrategySummarize, provider,
		WithRetryPolicy(fastPolicy(3)))
	require.NoError(t, err)

	author := testAuthor()
	require.NoError(t, builder.BuildEmbedding(context.Background(), author))

	assert.True(t, author.HasSummary())
	assert.True(t, author.HasEmbedding())
	assertUnitVector(t, author.Embedding)
	assert.Equal(t, 1, provider.GetMockSummarizer().CallCount())
	assert.Equal(t, 1, provider.GetMockEmbedder().CallCount(),
		"summarize embeds exactly one text")
}

func TestBuildEmbeddingSummarizeReusesExistingSummary(t *testing.T) {
	provider := mock.NewMockProvider().(*mock.MockProvider)
	builder, err := NewBuilder(StrategySummarize, provider,
		WithRetryPolicy(fastPolicy(3)))
	require.NoError(t, err)

	author := testAuthor()
	author.Summary = "Works on analytical engines."

	require.NoError(t, builder.BuildEmbedding(context.Background(), author))

	assert.Equal(t, "Works on analytical engines.", author.Summary)
	assert.Equal(t, 0, provider.GetMockSummarizer().CallCount(),
		"existing summary must not trigger a second LLM call")
	assert.True(t, author.HasEmbedding())
}

func TestBuildEmbeddingRetriesTransientFailures(t *testing.T) {
	provider := mock.NewMockProvider().(*mock.MockProvider)
	failures := 2
	provider.GetMockEmbedder().EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		if failures > 0 {
			failures--
			return nil, errors.New("provider unavailable")
		}
		return [][]float32{{1, 0, 0}}, nil
	}

	builder, err := NewBuilder(StrategyAggregate, provider,
		WithRetryPolicy(fastPolicy(5)))
	require.NoError(t, err)

	author := &core.Author{
		Name:         "Retry Author",
		Publications: []core.Publication{{Title: "Paper", Abstract: "Text"}},
	}
	require.NoError(t, builder.BuildEmbedding(context.Background(), author))
	assert.True(t, author.HasEmbedding())
}

func TestBuildEmbeddingExhaustedRetries(t *testing.T) {
	provider := mock.NewMockProvider().(*mock.MockProvider)
	providerErr := errors.New("provider down")
	provider.GetMockEmbedder().EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, providerErr
	}

	builder, err := NewBuilder(StrategyAggregate, provider,
		WithRetryPolicy(fastPolicy(3)))
	require.NoError(t, err)

	author := testAuthor()
	err = builder.BuildEmbedding(context.Background(), author)
	assert.True(t, errors.Is(err, providerErr))
	assert.False(t, author.HasEmbedding())
	assert.Equal(t, 3, provider.GetMockEmbedder().CallCount())
}

func TestBuildEmbeddingUsesVectorCache(t *testing.T) {
	cache, backend, err := badger.NewMemoryVectorCache()
	require.NoError(t, err)
	defer backend.Close()

	provider := mock.NewMockProvider().(*mock.MockProvider)
	builder, err := NewBuilder(StrategyAggregate, provider,
		WithRetryPolicy(fastPolicy(3)),
		WithVectorCache(cache, "test-model"))
	require.NoError(t, err)

	first := testAuthor()
	require.NoError(t, builder.BuildEmbedding(context.Background(), first))
	callsAfterFirst := provider.GetMockEmbedder().CallCount()
	assert.Equal(t, 1, callsAfterFirst)

	// Same publications again: every embedding comes from the cache.
	second := testAuthor()
	require.NoError(t, builder.BuildEmbedding(context.Background(), second))
	assert.Equal(t, callsAfterFirst, provider.GetMockEmbedder().CallCount())
	assert.Equal(t, first.Embedding, second.Embedding)
}

func TestBuildEmbeddingBatchesOnlyCacheMisses(t *testing.T) {
	cache, backend, err := badger.NewMemoryVectorCache()
	require.NoError(t, err)
	defer backend.Close()

	provider := mock.NewMockProvider().(*mock.MockProvider)
	builder, err := NewBuilder(StrategyAggregate, provider,
		WithRetryPolicy(fastPolicy(3)),
		WithVectorCache(cache, "test-model"))
	require.NoError(t, err)

	first := testAuthor()
	require.NoError(t, builder.BuildEmbedding(context.Background(), first))

	// Shares one publication with the first author: only the new
	// text reaches the provider.
	var batched []string
	provider.GetMockEmbedder().EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		batched = texts
		return [][]float32{{0, 1}}, nil
	}

	overlap := &core.Author{
		Name: "Overlap Author",
		Publications: []core.Publication{
			first.Publications[0],
			{Title: "Fresh Paper", Abstract: "Never embedded before."},
		},
	}
	require.NoError(t, builder.BuildEmbedding(context.Background(), overlap))

	require.Len(t, batched, 1)
	assert.Equal(t, overlap.Publications[1].Text(), batched[0])
}

func TestIsComplete(t *testing.T) {
	provider := mock.NewMockProvider()

	embedded := testAuthor()
	embedded.Embedding = []float32{1, 0}

	summarized := testAuthor()
	summarized.Embedding = []float32{1, 0}
	summarized.Summary = "Research summary."

	t.Run("aggregate needs embedding only", func(t *testing.T) {
		builder, err := NewBuilder(StrategyAggregate, provider)
		require.NoError(t, err)

		assert.False(t, builder.IsComplete(testAuthor()))
		assert.True(t, builder.IsComplete(embedded))
		assert.False(t, builder.IsComplete(nil))
	})

	t.Run("summarize needs embedding and summary", func(t *testing.T) {
		builder, err := NewBuilder(StrategySummarize, provider)
		require.NoError(t, err)

		assert.False(t, builder.IsComplete(embedded))
		assert.True(t, builder.IsComplete(summarized))
	})
}

func TestBuildEmbeddingValidatesAuthor(t *testing.T) {
	builder, err := NewBuilder(StrategyAggregate, mock.NewMockProvider())
	require.NoError(t, err)

	err = builder.BuildEmbedding(context.Background(), &core.Author{Name: ""})
	assert.True(t, errors.Is(err, core.ErrInvalidAuthor))
}
