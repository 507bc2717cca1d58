package fetch

import (
	"context"
	"net/http"
	"testing"

	"github.com/poiesic/expertfind/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAuthors(t *testing.T) {
	withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleFeed))
	})

	fetcher, err := NewFetcher(WithPoolSize(2), WithHTTPClient(http.DefaultClient))
	require.NoError(t, err)
	defer fetcher.Release()

	authors := []*core.Author{
		{
			Name: "Resolvable",
			PublicationURLs: []string{
				"http://arxiv.org/abs/2301.07041v1",
				"https://example.com/unsupported.pdf",
			},
		},
		{
			Name: "Already Resolved",
			PublicationURLs: []string{
				"http://arxiv.org/abs/2302.00001v2",
			},
			Publications: []core.Publication{{Title: "Existing", Abstract: "Kept as is."}},
		},
		{
			Name:            "Unsupported Only",
			PublicationURLs: []string{"https://example.com/other.pdf"},
		},
	}

	fetcher.ResolveAuthors(context.Background(), authors)

	require.NotEmpty(t, authors[0].Publications)
	assert.Equal(t, "Shortest Paths Revisited", authors[0].Publications[0].Title)

	require.Len(t, authors[1].Publications, 1)
	assert.Equal(t, "Existing", authors[1].Publications[0].Title,
		"resolved authors must not be re-fetched")

	assert.Empty(t, authors[2].Publications,
		"unsupported hosts are skipped, not fatal")
}

func TestResolveAuthorsSurvivesServerFailure(t *testing.T) {
	withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	fetcher, err := NewFetcher(WithHTTPClient(http.DefaultClient))
	require.NoError(t, err)
	defer fetcher.Release()

	authors := []*core.Author{
		{Name: "Unlucky", PublicationURLs: []string{"http://arxiv.org/abs/2301.07041v1"}},
	}

	fetcher.ResolveAuthors(context.Background(), authors)
	assert.Empty(t, authors[0].Publications)
}
