package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity scoring.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Summarizer produces natural-language text about an author's research
// using an LLM completion service. Non-deterministic; may fail or time out.
// Implementations must be thread-safe for concurrent use.
type Summarizer interface {
	// SummarizeResearch generates a summary of the main research
	// contributions of one author, given the titles and abstracts of
	// their publications.
	// Returns an error if the completion fails.
	SummarizeResearch(ctx context.Context, authorName string, papers []Paper) (string, error)

	// JustifyFitness explains why an author is or is not a good fit for
	// the given paper, based on the author's research summary and a
	// fitness score out of 100.
	// Returns an error if the completion fails.
	JustifyFitness(ctx context.Context, paperTitle, paperAbstract, authorSummary string, score int) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and Summarizer instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Summarizer returns the research summarization service.
	// The returned Summarizer is safe for concurrent use.
	Summarizer() Summarizer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
