package batch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/poiesic/expertfind/ai/mock"
	"github.com/poiesic/expertfind/core"
	"github.com/poiesic/expertfind/profile"
	"github.com/poiesic/expertfind/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{InterAuthorDelay: 0, ReportInterval: 1}
}

func fastBuilder(t *testing.T, provider *mock.MockProvider) *profile.Builder {
	t.Helper()
	builder, err := profile.NewBuilder(profile.StrategyAggregate, provider,
		profile.WithRetryPolicy(&retry.Policy{MaxAttempts: 3, Delay: time.Millisecond}))
	require.NoError(t, err)
	return builder
}

func makeCorpus(names ...string) []*core.Author {
	authors := make([]*core.Author, len(names))
	for i, name := range names {
		authors[i] = &core.Author{
			Name: name,
			Publications: []core.Publication{
				{Title: name + " paper", Abstract: "Abstract for " + name + "."},
			},
		}
	}
	return authors
}

func TestDriverRunEmbedsRange(t *testing.T) {
	provider := mock.NewMockProvider().(*mock.MockProvider)
	driver, err := NewDriver(fastBuilder(t, provider), testConfig(), io.Discard)
	require.NoError(t, err)

	authors := makeCorpus("A", "B", "C", "D")
	report, err := driver.Run(context.Background(), authors, 1, 3)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Completed)
	assert.Equal(t, 0, report.Skipped)
	assert.False(t, authors[0].HasEmbedding(), "author before range must be untouched")
	assert.True(t, authors[1].HasEmbedding())
	assert.True(t, authors[2].HasEmbedding())
	assert.False(t, authors[3].HasEmbedding(), "author after range must be untouched")
}

func TestDriverRunInvalidRange(t *testing.T) {
	provider := mock.NewMockProvider().(*mock.MockProvider)
	driver, err := NewDriver(fastBuilder(t, provider), testConfig(), io.Discard)
	require.NoError(t, err)

	authors := makeCorpus("A", "B")

	cases := []struct {
		name       string
		start, end int
	}{
		{"negative start", -1, 2},
		{"end beyond corpus", 0, 3},
		{"empty range", 1, 1},
		{"inverted range", 2, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := driver.Run(context.Background(), authors, tc.start, tc.end)
			assert.True(t, errors.Is(err, ErrInvalidRange))
		})
	}
}

func TestDriverRunIsIdempotent(t *testing.T) {
	provider := mock.NewMockProvider().(*mock.MockProvider)
	driver, err := NewDriver(fastBuilder(t, provider), testConfig(), io.Discard)
	require.NoError(t, err)

	authors := makeCorpus("A", "B")
	ctx := context.Background()

	first, err := driver.Run(ctx, authors, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Completed)

	callsAfterFirst := provider.GetMockEmbedder().CallCount()

	second, err := driver.Run(ctx, authors, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Completed)
	assert.Equal(t, 2, second.Skipped)
	assert.Equal(t, callsAfterFirst, provider.GetMockEmbedder().CallCount(),
		"second run must make no provider calls")
}

func TestDriverRunContinuesPastFailedAuthor(t *testing.T) {
	provider := mock.NewMockProvider().(*mock.MockProvider)
	provider.GetMockEmbedder().EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i, text := range texts {
			if text == "B paper\nAbstract for B." {
				return nil, errors.New("provider rejects this text")
			}
			vectors[i] = []float32{1, 0}
		}
		return vectors, nil
	}

	driver, err := NewDriver(fastBuilder(t, provider), testConfig(), io.Discard)
	require.NoError(t, err)

	authors := makeCorpus("A", "B", "C")
	report, err := driver.Run(context.Background(), authors, 0, 3)
	require.NoError(t, err, "a failed author must not abort the run")

	assert.Equal(t, 2, report.Completed)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []string{"B"}, report.FailedAuthors)
	assert.True(t, authors[2].HasEmbedding(), "authors after the failure must still be processed")
}

func TestDriverRunRetryBound(t *testing.T) {
	provider := mock.NewMockProvider().(*mock.MockProvider)
	provider.GetMockEmbedder().EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("always down")
	}

	builder, err := profile.NewBuilder(profile.StrategyAggregate, provider,
		profile.WithRetryPolicy(&retry.Policy{MaxAttempts: 10, Delay: time.Millisecond}))
	require.NoError(t, err)

	driver, err := NewDriver(builder, testConfig(), io.Discard)
	require.NoError(t, err)

	authors := makeCorpus("A")
	report, err := driver.Run(context.Background(), authors, 0, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 10, provider.GetMockEmbedder().CallCount(),
		"exactly MaxAttempts calls, then the author is marked failed")
}

func TestDriverRunFlagsDegenerateAuthors(t *testing.T) {
	provider := mock.NewMockProvider().(*mock.MockProvider)
	driver, err := NewDriver(fastBuilder(t, provider), testConfig(), io.Discard)
	require.NoError(t, err)

	authors := makeCorpus("A")
	authors = append(authors, &core.Author{
		Name:         "Empty",
		Publications: []core.Publication{{Title: "", Abstract: ""}},
	})

	report, err := driver.Run(context.Background(), authors, 0, 2)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Completed)
	assert.Equal(t, 1, report.Degenerate)
	assert.Equal(t, []string{"Empty"}, report.DegenerateAuthors)
	assert.Equal(t, 0, report.Failed, "degenerate is not a failure")
	assert.Equal(t, 2, report.Processed())
}

func TestDriverRunInvokesSaveFunc(t *testing.T) {
	provider := mock.NewMockProvider().(*mock.MockProvider)

	saves := 0
	driver, err := NewDriver(fastBuilder(t, provider), testConfig(), io.Discard,
		WithSaveFunc(func(ctx context.Context) error {
			saves++
			return nil
		}))
	require.NoError(t, err)

	authors := makeCorpus("A", "B", "C")
	authors[0].Embedding = []float32{1, 0} // already complete

	_, err = driver.Run(context.Background(), authors, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, saves, "save after each processed author, not after skips")
}

func TestDriverRunRespectsCancellation(t *testing.T) {
	provider := mock.NewMockProvider().(*mock.MockProvider)

	ctx, cancel := context.WithCancel(context.Background())
	provider.GetMockEmbedder().EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		cancel()
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{1, 0}
		}
		return vectors, nil
	}

	driver, err := NewDriver(fastBuilder(t, provider), testConfig(), io.Discard)
	require.NoError(t, err)

	authors := makeCorpus("A", "B", "C")
	report, err := driver.Run(ctx, authors, 0, 3)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, report.Completed, "partial report is returned on cancellation")
}

func TestDriverRunInterAuthorDelay(t *testing.T) {
	provider := mock.NewMockProvider().(*mock.MockProvider)
	builder := fastBuilder(t, provider)

	config := &Config{InterAuthorDelay: 30 * time.Millisecond, ReportInterval: 1}
	driver, err := NewDriver(builder, config, io.Discard)
	require.NoError(t, err)

	authors := makeCorpus("A", "B", "C")
	startedAt := time.Now()
	_, err = driver.Run(context.Background(), authors, 0, 3)
	require.NoError(t, err)

	// Two gaps between three authors.
	assert.GreaterOrEqual(t, time.Since(startedAt), 60*time.Millisecond)
}

func TestDriverRunNoDelayForDegenerateAuthors(t *testing.T) {
	provider := mock.NewMockProvider().(*mock.MockProvider)
	builder := fastBuilder(t, provider)

	config := &Config{InterAuthorDelay: 200 * time.Millisecond, ReportInterval: 1}
	driver, err := NewDriver(builder, config, io.Discard)
	require.NoError(t, err)

	authors := make([]*core.Author, 3)
	for i := range authors {
		authors[i] = &core.Author{
			Name:         "Empty",
			Publications: []core.Publication{{Title: "", Abstract: ""}},
		}
	}

	startedAt := time.Now()
	report, err := driver.Run(context.Background(), authors, 0, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Degenerate)
	assert.Equal(t, 0, provider.GetMockEmbedder().CallCount(),
		"degenerate authors make no provider calls")
	assert.Less(t, time.Since(startedAt), 200*time.Millisecond,
		"no provider traffic means no pacing delay")
}

func TestDriverProgressOutput(t *testing.T) {
	provider := mock.NewMockProvider().(*mock.MockProvider)

	var buf bytes.Buffer
	driver, err := NewDriver(fastBuilder(t, provider), testConfig(), &buf)
	require.NoError(t, err)

	_, err = driver.Run(context.Background(), makeCorpus("A", "B"), 0, 2)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Embedding authors 0-1 of 2")
	assert.Contains(t, out, "Batch complete. 2 embedded")
}

func TestNewDriverRequiresBuilder(t *testing.T) {
	_, err := NewDriver(nil, testConfig(), io.Discard)
	assert.True(t, errors.Is(err, ErrBuilderRequired))
}
