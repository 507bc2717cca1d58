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


// Package corpus reads and writes the author corpus and query files.
//
// The corpus is a single JSON array of author records. It is both the
// input and the checkpoint of a batch run: embeddings and summaries are
// written back into the same file, and SaveAuthors writes atomically so
// an interrupted save never corrupts the corpus.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/poiesic/expertfind/core"
)

type publicationJSON struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	URL      string `json:"url,omitempty"`
}

type authorJSON struct {
	Name            string            `json:"name"`
	PublicationURLs []string          `json:"publication_urls,omitempty"`
	Summary         string            `json:"summary,omitempty"`
	ListOfPubs      []publicationJSON `json:"list_of_pubs"`
	Embedding       []float32         `json:"embedding,omitempty"`
}

type queryJSON struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
}

// LoadAuthors reads an author corpus from a JSON file.
// Author order is preserved; it defines tie-breaking in rankings.
func LoadAuthors(path string) ([]*core.Author, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}

	var records []authorJSON
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing corpus %s: %w", path, err)
	}

	authors := make([]*core.Author, 0, len(records))
	for i, record := range records {
		author := &core.Author{
			Name:            record.Name,
			PublicationURLs: record.PublicationURLs,
			Summary:         record.Summary,
			Embedding:       record.Embedding,
		}
		for _, pub := range record.ListOfPubs {
			author.Publications = append(author.Publications, core.Publication{
				Title:    pub.Title,
				Abstract: pub.Abstract,
				URL:      pub.URL,
			})
		}
		if err := core.ValidateAuthor(author); err != nil {
			return nil, fmt.Errorf("corpus entry %d: %w", i, err)
		}
		authors = append(authors, author)
	}

	return authors, nil
}

// SaveAuthors writes the author corpus to a JSON file atomically:
// the content goes to a temporary file in the same directory which is
// then renamed over the target.
func SaveAuthors(path string, authors []*core.Author) error {
	records := make([]authorJSON, 0, len(authors))
	for _, author := range authors {
		record := authorJSON{
			Name:            author.Name,
			PublicationURLs: author.PublicationURLs,
			Summary:         author.Summary,
			ListOfPubs:      make([]publicationJSON, 0, len(author.Publications)),
			Embedding:       author.Embedding,
		}
		for _, pub := range author.Publications {
			record.ListOfPubs = append(record.ListOfPubs, publicationJSON{
				Title:    pub.Title,
				Abstract: pub.Abstract,
				URL:      pub.URL,
			})
		}
		records = append(records, record)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding corpus: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".corpus-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing corpus: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing corpus: %w", err)
	}

	return nil
}

// LoadQueries reads a JSON array of queries.
func LoadQueries(path string) ([]*core.Query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading queries: %w", err)
	}

	var records []queryJSON
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing queries %s: %w", path, err)
	}

	queries := make([]*core.Query, 0, len(records))
	for i, record := range records {
		query := &core.Query{Title: record.Title, Abstract: record.Abstract}
		if err := core.ValidateQuery(query); err != nil {
			return nil, fmt.Errorf("query entry %d: %w", i, err)
		}
		queries = append(queries, query)
	}

	return queries, nil
}

// SelectQuery picks one query by index from a loaded query file.
func SelectQuery(queries []*core.Query, index int) (*core.Query, error) {
	if index < 0 || index >= len(queries) {
		return nil, fmt.Errorf("%w: %d of %d", ErrQueryIndexOutOfRange, index, len(queries))
	}
	return queries[index], nil
}
