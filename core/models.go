package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Publication is a single paper attributed to an author.
// Immutable once loaded; Abstract may be empty, in which case only the
// title contributes text.
type Publication struct {
	Title    string
	Abstract string
	URL      string
}

// Text returns the embeddable text of the publication: the title and
// abstract joined, or the empty string if neither is present.
func (p Publication) Text() string {
	title := strings.TrimSpace(p.Title)
	abstract := strings.TrimSpace(p.Abstract)
	switch {
	case title == "":
		return abstract
	case abstract == "":
		return title
	default:
		return title + "\n" + abstract
	}
}

// Author is one candidate expert with their body of publications.
// Records are created by loading the corpus, enriched in place by the
// profile builder, and never deleted, only updated.
type Author struct {
	Name            string
	PublicationURLs []string      // Unresolved source URLs (input to the fetch workflow)
	Publications    []Publication // Resolved publications, in original order
	Summary         string        // LLM research summary (summarize strategy only)
	Embedding       []float32     // Author vector derived per the run's strategy
}

// HasEmbedding reports whether the author vector has been computed.
func (a *Author) HasEmbedding() bool {
	return a != nil && len(a.Embedding) > 0
}

// HasSummary reports whether an LLM research summary has been generated.
func (a *Author) HasSummary() bool {
	return a != nil && strings.TrimSpace(a.Summary) != ""
}

// Query is the free-text request authors are ranked against.
// One per run; its embedding is resolved once and reused for every
// author comparison.
type Query struct {
	Title     string
	Abstract  string
	Embedding []float32
}

// HasEmbedding reports whether the query vector has been resolved.
func (q *Query) HasEmbedding() bool {
	return q != nil && len(q.Embedding) > 0
}

// Text returns the embeddable text of the query.
func (q Query) Text() string {
	title := strings.TrimSpace(q.Title)
	abstract := strings.TrimSpace(q.Abstract)
	switch {
	case title == "":
		return abstract
	case abstract == "":
		return title
	default:
		return title + "\n" + abstract
	}
}

// FitnessResult is one ranked entry of a scoring run. Derived state:
// it is recomputed every run from Author and Query embeddings and never
// persisted as authoritative.
type FitnessResult struct {
	AuthorName string
	Score      float64
	Rank       int    // 1-based; total order, ties broken by corpus order
	Rationale  string // Optional LLM justification
}

// CachedVector is a previously computed embedding stored in the vector
// cache, keyed by the content ID of (model, input text).
type CachedVector struct {
	Id         ID
	Model      string
	Vector     []float32
	InsertedAt time.Time
}
