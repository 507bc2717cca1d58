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


package fetch

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/poiesic/expertfind/core"
)

// arxivAPIBase is the arXiv metadata endpoint. Declared as a var so
// tests can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

const userAgent = "expertfind/1.0"

// ArxivClient fetches publication metadata from the arXiv Atom API.
type ArxivClient struct {
	Client *http.Client
}

// FetchByIDs retrieves publication metadata for a batch of arXiv IDs
// with a single id_list request.
func (c *ArxivClient) FetchByIDs(ctx context.Context, ids []string) ([]core.Publication, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	reqURL := fmt.Sprintf("%s?id_list=%s&max_results=%d",
		arxivAPIBase, url.QueryEscape(strings.Join(ids, ",")), len(ids))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	httpClient := c.Client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	publications := make([]core.Publication, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			continue
		}
		publications = append(publications, core.Publication{
			Title:    title,
			Abstract: strings.TrimSpace(entry.Summary),
			URL:      strings.TrimSpace(entry.ID),
		})
	}
	return publications, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID      string `xml:"id"`
	Title   string `xml:"title"`
	Summary string `xml:"summary"`
}

// ExtractArxivID pulls the arXiv ID from an abstract-page URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" becomes "2301.07041").
// Returns the empty string for URLs that are not arXiv abstract links.
func ExtractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
