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


package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/expertfind/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Summarizer implements ai.Summarizer using OpenAI-compatible chat APIs.
type Summarizer struct {
	client llms.Model
	logger *slog.Logger
}

// newSummarizer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newSummarizer(config *ai.Config) (*Summarizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat completions
	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &Summarizer{
		client: client,
		logger: slog.Default().With("component", "openai-summarizer"),
	}, nil
}

// NewSummarizer creates a new summarizer using the provided configuration.
//
// Returns ai.Summarizer interface to enforce abstraction.
func NewSummarizer(config *ai.Config) (ai.Summarizer, error) {
	return newSummarizer(config)
}

// SummarizeResearch generates a summary of the main research contributions
// of one author from the titles and abstracts of their publications.
func (s *Summarizer) SummarizeResearch(ctx context.Context, authorName string, papers []ai.Paper) (string, error) {
	s.logger.Debug("summarizing research", "author", authorName, "papers", len(papers))

	userPrompt := buildSummarizePrompt(authorName, papers)
	return s.complete(ctx, summarizeSystemPrompt, userPrompt)
}

// JustifyFitness explains why an author is or is not a good fit to review
// the given paper, based on the author's research summary and fitness score.
func (s *Summarizer) JustifyFitness(ctx context.Context, paperTitle, paperAbstract, authorSummary string, score int) (string, error) {
	s.logger.Debug("justifying fitness", "paper", paperTitle, "score", score)

	userPrompt := buildJustifyPrompt(paperTitle, paperAbstract, authorSummary, score)
	return s.complete(ctx, justifySystemPrompt, userPrompt)
}

// complete runs a single system+user chat completion at temperature 0.
func (s *Summarizer) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userPrompt),
			},
		},
	}

	response, err := s.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		s.logger.Error("failed to generate content", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		s.logger.Warn("no choices returned from model")
		return "", fmt.Errorf("completion returned no choices")
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}
