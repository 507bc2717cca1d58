package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v1</id>
    <title>Shortest Paths Revisited</title>
    <summary>  We revisit Dijkstra's algorithm.  </summary>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2302.00001v2</id>
    <title>Protein Folding</title>
    <summary>Structure prediction at scale.</summary>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/9999.00000v1</id>
    <title></title>
    <summary>Entry without a title is dropped.</summary>
  </entry>
</feed>`

func withTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	old := arxivAPIBase
	arxivAPIBase = server.URL
	t.Cleanup(func() { arxivAPIBase = old })

	return server
}

func TestExtractArxivID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041"},
		{"https://arxiv.org/abs/2301.07041", "2301.07041"},
		{"http://arxiv.org/abs/cs/0112017v2", "cs/0112017"},
		{"https://example.com/paper.pdf", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtractArxivID(tc.url), tc.url)
	}
}

func TestFetchByIDs(t *testing.T) {
	var gotQuery string
	withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("id_list")
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(sampleFeed))
	})

	client := &ArxivClient{Client: http.DefaultClient}
	pubs, err := client.FetchByIDs(context.Background(), []string{"2301.07041", "2302.00001"})
	require.NoError(t, err)

	assert.Equal(t, "2301.07041,2302.00001", gotQuery)
	require.Len(t, pubs, 2, "titleless entry must be dropped")

	assert.Equal(t, "Shortest Paths Revisited", pubs[0].Title)
	assert.Equal(t, "We revisit Dijkstra's algorithm.", pubs[0].Abstract)
	assert.Equal(t, "http://arxiv.org/abs/2301.07041v1", pubs[0].URL)
	assert.Equal(t, "Protein Folding", pubs[1].Title)
}

func TestFetchByIDsEmptyList(t *testing.T) {
	client := &ArxivClient{}
	pubs, err := client.FetchByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, pubs)
}

func TestFetchByIDsHTTPError(t *testing.T) {
	withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	client := &ArxivClient{Client: http.DefaultClient}
	_, err := client.FetchByIDs(context.Background(), []string{"2301.07041"})
	assert.ErrorContains(t, err, "HTTP 503")
}

func TestFetchByIDsMalformedFeed(t *testing.T) {
	withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<not-atom"))
	})

	client := &ArxivClient{Client: http.DefaultClient}
	_, err := client.FetchByIDs(context.Background(), []string{"2301.07041"})
	assert.ErrorContains(t, err, "parsing arXiv response")
}
