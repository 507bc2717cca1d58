package mock

import (
	"context"
	"fmt"
	"strings"

	"github.com/poiesic/expertfind/ai"
)

// MockSummarizer is a test double for ai.Summarizer.
// It allows custom behavior injection via function fields.
type MockSummarizer struct {
	// SummarizeResearchFunc is called by SummarizeResearch if set.
	// If nil, uses default deterministic behavior.
	SummarizeResearchFunc func(ctx context.Context, authorName string, papers []ai.Paper) (string, error)

	// JustifyFitnessFunc is called by JustifyFitness if set.
	// If nil, uses default deterministic behavior.
	JustifyFitnessFunc func(ctx context.Context, paperTitle, paperAbstract, authorSummary string, score int) (string, error)

	callCount int
}

// NewMockSummarizer creates a mock summarizer with default deterministic behavior.
// Note: Returns concrete type to allow test assertions via GetMockSummarizer().
func NewMockSummarizer() *MockSummarizer {
	return &MockSummarizer{}
}

// SummarizeResearch returns a deterministic summary built from the paper titles.
func (m *MockSummarizer) SummarizeResearch(ctx context.Context, authorName string, papers []ai.Paper) (string, error) {
	m.callCount++

	if m.SummarizeResearchFunc != nil {
		return m.SummarizeResearchFunc(ctx, authorName, papers)
	}

	// Default: join the paper titles into a stable summary
	titles := make([]string, 0, len(papers))
	for _, paper := range papers {
		if paper.Title != "" {
			titles = append(titles, paper.Title)
		}
	}
	return fmt.Sprintf("%s works on %s.", authorName, strings.Join(titles, "; ")), nil
}

// JustifyFitness returns a deterministic one-line rationale.
func (m *MockSummarizer) JustifyFitness(ctx context.Context, paperTitle, paperAbstract, authorSummary string, score int) (string, error) {
	m.callCount++

	if m.JustifyFitnessFunc != nil {
		return m.JustifyFitnessFunc(ctx, paperTitle, paperAbstract, authorSummary, score)
	}

	return fmt.Sprintf("Scored %d/100 against %q.", score, paperTitle), nil
}

// CallCount returns the number of times any method was called.
func (m *MockSummarizer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockSummarizer) Reset() {
	m.callCount = 0
	m.SummarizeResearchFunc = nil
	m.JustifyFitnessFunc = nil
}
