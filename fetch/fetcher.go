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
	"log/slog"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/expertfind/core"
)

// Fetcher resolves authors' publication URLs into publication records.
// Resolution runs concurrently across authors on a worker pool; this is
// corpus preparation, not scoring, so provider sequencing rules do not
// apply here.
type Fetcher struct {
	arxiv  *ArxivClient
	pool   *ants.Pool
	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher) error

// WithPoolSize sets the worker pool size for concurrent fetching.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(f *Fetcher) error {
		if size < 1 {
			size = 1
		}

		if f.pool != nil {
			f.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		f.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		f.logger = logger
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for API requests.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) error {
		f.arxiv = &ArxivClient{Client: client}
		return nil
	}
}

// NewFetcher creates a publication fetcher.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	f := &Fetcher{
		arxiv:  &ArxivClient{Client: &http.Client{Timeout: 20 * time.Second}},
		pool:   pool,
		logger: slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(f); err != nil {
			f.Release()
			return nil, err
		}
	}

	f.logger = f.logger.With("component", "fetch.Fetcher")

	return f, nil
}

// ResolveAuthors fills in Publications for every author whose
// publication URLs have not been resolved yet. Unsupported URLs are
// logged and skipped; a failed author keeps an empty publication list
// and does not abort the rest.
func (f *Fetcher) ResolveAuthors(ctx context.Context, authors []*core.Author) {
	var wg sync.WaitGroup

	for _, author := range authors {
		if author == nil || len(author.Publications) > 0 || len(author.PublicationURLs) == 0 {
			continue
		}

		wg.Add(1)
		author := author
		err := f.pool.Submit(func() {
			defer wg.Done()
			f.resolveAuthor(ctx, author)
		})
		if err != nil {
			wg.Done()
			f.logger.Error("failed to submit fetch task", "author", author.Name, "err", err)
		}
	}

	wg.Wait()
}

// resolveAuthor resolves one author's URL list with a single batched
// API call for the arXiv IDs it contains.
func (f *Fetcher) resolveAuthor(ctx context.Context, author *core.Author) {
	ids := make([]string, 0, len(author.PublicationURLs))
	for _, rawURL := range author.PublicationURLs {
		id := ExtractArxivID(rawURL)
		if id == "" {
			f.logger.Warn("unsupported publication URL, skipping",
				"author", author.Name, "url", rawURL)
			continue
		}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		f.logger.Warn("author has no resolvable publication URLs", "author", author.Name)
		return
	}

	publications, err := f.arxiv.FetchByIDs(ctx, ids)
	if err != nil {
		f.logger.Error("failed to fetch publications",
			"author", author.Name, "ids", len(ids), "err", err)
		return
	}

	author.Publications = publications
	f.logger.Info("resolved publications",
		"author", author.Name, "requested", len(ids), "resolved", len(publications))
}

// Release releases the worker pool.
// The fetcher should not be used after calling Release.
func (f *Fetcher) Release() {
	if f.pool != nil {
		f.pool.Release()
	}
}
