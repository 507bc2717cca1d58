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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/expertfind/ai"
	"github.com/poiesic/expertfind/ai/openai"
	"github.com/poiesic/expertfind/batch"
	"github.com/poiesic/expertfind/core"
	"github.com/poiesic/expertfind/corpus"
	"github.com/poiesic/expertfind/fetch"
	"github.com/poiesic/expertfind/profile"
	"github.com/poiesic/expertfind/rank"
	"github.com/poiesic/expertfind/report"
	"github.com/poiesic/expertfind/retry"
	"github.com/poiesic/expertfind/storage"
	"github.com/poiesic/expertfind/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "expertfind",
		Usage: "Rank authors against a free-text query by research fitness",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "fetch",
				Usage:  "Resolve authors' publication URLs into titles and abstracts",
				Action: fetchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "corpus",
						Aliases:  []string{"c"},
						Usage:    "Path to the author corpus JSON file",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent fetch workers",
						Value: 4,
					},
				},
			},
			{
				Name:   "embed",
				Usage:  "Build author embeddings for a range of the corpus",
				Action: embedCommand,
				Flags:  append(corpusFlags(), providerFlags()...),
			},
			{
				Name:   "score",
				Usage:  "Embed, rank, and report authors against a query",
				Action: scoreCommand,
				Flags: append(append(corpusFlags(), providerFlags()...),
					&cli.StringFlag{
						Name:     "queries",
						Aliases:  []string{"q"},
						Usage:    "Path to the queries JSON file",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "query-index",
						Usage: "Index of the query to score against",
						Value: 0,
					},
					&cli.StringFlag{
						Name:    "output-dir",
						Aliases: []string{"o"},
						Usage:   "Directory for result files",
						Value:   ".",
					},
					&cli.BoolFlag{
						Name:  "justify",
						Usage: "Generate a per-author rationale with the chat model",
					},
					&cli.IntFlag{
						Name:  "justify-top",
						Usage: "Only justify the top N ranked authors (0 = all)",
						Value: 0,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// corpusFlags are shared by the embed and score commands.
func corpusFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "corpus",
			Aliases:  []string{"c"},
			Usage:    "Path to the author corpus JSON file",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "strategy",
			Aliases: []string{"s"},
			Usage:   "Embedding strategy (aggregate, summarize)",
			Value:   "aggregate",
		},
		&cli.IntFlag{
			Name:  "start",
			Usage: "First author index to process (inclusive)",
			Value: 0,
		},
		&cli.IntFlag{
			Name:  "end",
			Usage: "Author index to stop at (exclusive, 0 = end of corpus)",
			Value: 0,
		},
		&cli.StringFlag{
			Name:  "cache",
			Usage: "Path to the BadgerDB embedding cache directory (empty = no cache)",
		},
		&cli.DurationFlag{
			Name:  "author-delay",
			Usage: "Pause between provider-facing authors",
			Value: 2 * time.Second,
		},
	}
}

// providerFlags configure the AI services.
func providerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "chat-host",
			Usage: "Chat service host URL (defaults to embedding-host)",
		},
		&cli.StringFlag{
			Name:  "chat-model",
			Usage: "Chat model name for summaries and rationales",
			Value: "qwen2.5:3b",
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "API credential for the AI services",
			Value:   "none",
			EnvVars: []string{"EXPERTFIND_TOKEN"},
		},
		&cli.IntFlag{
			Name:  "max-retries",
			Usage: "Maximum attempts per provider call",
			Value: 10,
		},
		&cli.DurationFlag{
			Name:  "retry-delay",
			Usage: "Delay between retry attempts",
			Value: 1 * time.Second,
		},
	}
}

func fetchCommand(c *cli.Context) error {
	corpusPath := c.String("corpus")

	authors, err := corpus.LoadAuthors(corpusPath)
	if err != nil {
		return err
	}

	fetcher, err := fetch.NewFetcher(fetch.WithPoolSize(c.Int("pool-size")))
	if err != nil {
		return err
	}
	defer fetcher.Release()

	fmt.Fprintf(os.Stderr, "Resolving publications for %d authors\n", len(authors))
	fetcher.ResolveAuthors(c.Context, authors)

	if err := corpus.SaveAuthors(corpusPath, authors); err != nil {
		return err
	}

	resolved := 0
	for _, author := range authors {
		if len(author.Publications) > 0 {
			resolved++
		}
	}
	fmt.Fprintf(os.Stderr, "Done. %d/%d authors have publications\n", resolved, len(authors))
	return nil
}

func embedCommand(c *cli.Context) error {
	ctx := c.Context
	corpusPath := c.String("corpus")

	authors, err := corpus.LoadAuthors(corpusPath)
	if err != nil {
		return err
	}

	provider, err := buildProvider(c)
	if err != nil {
		return err
	}
	defer provider.Close()

	cache, err := openCache(c)
	if err != nil {
		return err
	}
	if cache != nil {
		defer cache.Close()
	}

	builder, err := buildBuilder(c, provider, cache)
	if err != nil {
		return err
	}

	start, end, err := resolveRange(c, len(authors))
	if err != nil {
		return err
	}

	driver, err := batch.NewDriver(builder, batchConfig(c), os.Stderr,
		batch.WithSaveFunc(func(ctx context.Context) error {
			return corpus.SaveAuthors(corpusPath, authors)
		}))
	if err != nil {
		return err
	}

	batchReport, err := driver.Run(ctx, authors, start, end)
	if err != nil {
		return err
	}

	if batchReport.Failed > 0 {
		fmt.Fprintf(os.Stderr, "Failed authors: %s\n",
			strings.Join(batchReport.FailedAuthors, ", "))
	}
	return nil
}

func scoreCommand(c *cli.Context) error {
	ctx := c.Context
	corpusPath := c.String("corpus")

	authors, err := corpus.LoadAuthors(corpusPath)
	if err != nil {
		return err
	}

	queries, err := corpus.LoadQueries(c.String("queries"))
	if err != nil {
		return err
	}
	queryIndex := c.Int("query-index")
	query, err := corpus.SelectQuery(queries, queryIndex)
	if err != nil {
		return err
	}

	provider, err := buildProvider(c)
	if err != nil {
		return err
	}
	defer provider.Close()

	cache, err := openCache(c)
	if err != nil {
		return err
	}
	if cache != nil {
		defer cache.Close()
	}

	builder, err := buildBuilder(c, provider, cache)
	if err != nil {
		return err
	}

	start, end, err := resolveRange(c, len(authors))
	if err != nil {
		return err
	}

	// Phase 1: fill in missing embeddings, checkpointing to the corpus.
	driver, err := batch.NewDriver(builder, batchConfig(c), os.Stderr,
		batch.WithSaveFunc(func(ctx context.Context) error {
			return corpus.SaveAuthors(corpusPath, authors)
		}))
	if err != nil {
		return err
	}

	batchReport, err := driver.Run(ctx, authors, start, end)
	if err != nil {
		return err
	}

	// Phase 2: resolve the query embedding once and rank.
	policy := retryPolicy(c)
	if err := rank.ResolveQuery(ctx, provider.Embedder(), policy, query); err != nil {
		return fmt.Errorf("resolving query embedding: %w", err)
	}

	results, degenerate, unembedded, err := rankAndAnnotate(query, authors)
	if err != nil {
		return err
	}

	// Phase 3: optional rationales.
	if c.Bool("justify") {
		justifier, err := report.NewJustifier(provider,
			report.WithJustifierRetryPolicy(policy))
		if err != nil {
			return err
		}
		if err := justifier.Justify(ctx, query, authors, results, c.Int("justify-top")); err != nil {
			return err
		}
	}

	// Phase 4: write result files.
	outputDir := c.String("output-dir")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	strategy := builder.Strategy().String()
	csvPath := filepath.Join(outputDir, report.FitnessCSVName(strategy, queryIndex))
	if err := report.WriteFitnessCSV(csvPath, results); err != nil {
		return err
	}

	txtPath := filepath.Join(outputDir, report.RankedTextName(strategy, queryIndex))
	err = report.WriteRankedText(txtPath, query, results, degenerate, unembedded)
	if err != nil {
		return err
	}

	consolidatedPath := report.ConsolidatedCSVPath(outputDir, strategy, queryIndex)
	if err := report.WriteConsolidatedCSV(consolidatedPath, results); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Ranked %d authors (%d embedded this run). Results in %s\n",
		len(results), batchReport.Completed, outputDir)
	return nil
}

// rankAndAnnotate ranks every scorable author in the corpus and
// collects the names of the authors left out, split by cause. Ranking
// is always corpus-wide; --start/--end only bound the embedding phase,
// so authors embedded by earlier runs keep appearing in the output.
func rankAndAnnotate(query *core.Query, authors []*core.Author) ([]core.FitnessResult, []string, []string, error) {
	results, err := rank.RankAuthors(query, authors)
	if err != nil {
		return nil, nil, nil, err
	}

	var degenerate, unembedded []string
	for _, author := range authors {
		if author == nil || author.HasEmbedding() {
			continue
		}
		if core.IsDegenerate(author) {
			degenerate = append(degenerate, author.Name)
		} else {
			unembedded = append(unembedded, author.Name)
		}
	}
	return results, degenerate, unembedded, nil
}

// buildProvider creates the OpenAI-compatible AI provider from flags.
func buildProvider(c *cli.Context) (ai.AIProvider, error) {
	chatHost := c.String("chat-host")
	if chatHost == "" {
		chatHost = c.String("embedding-host")
	}

	config := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithChatHost(chatHost),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatModel(c.String("chat-model")),
		ai.WithToken(c.String("token")),
	)

	provider, err := openai.NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return provider, nil
}

// openCache opens the persistent embedding cache if one is configured.
func openCache(c *cli.Context) (storage.VectorCache, error) {
	path := c.String("cache")
	if path == "" {
		return nil, nil
	}

	backend, err := badger.OpenBackend(path, false)
	if err != nil {
		return nil, fmt.Errorf("opening embedding cache: %w", err)
	}
	return badger.NewVectorCache(backend)
}

func buildBuilder(c *cli.Context, provider ai.AIProvider, cache storage.VectorCache) (*profile.Builder, error) {
	strategy, err := profile.ParseStrategy(c.String("strategy"))
	if err != nil {
		return nil, err
	}

	opts := []profile.Option{
		profile.WithRetryPolicy(retryPolicy(c)),
	}
	if cache != nil {
		opts = append(opts, profile.WithVectorCache(cache, c.String("embedding-model")))
	}

	return profile.NewBuilder(strategy, provider, opts...)
}

func retryPolicy(c *cli.Context) *retry.Policy {
	return &retry.Policy{
		MaxAttempts: c.Int("max-retries"),
		Delay:       c.Duration("retry-delay"),
	}
}

func batchConfig(c *cli.Context) *batch.Config {
	return &batch.Config{
		InterAuthorDelay: c.Duration("author-delay"),
		ReportInterval:   1,
	}
}

// resolveRange turns the start/end flags into a validated [start, end)
// range over the corpus. end=0 means the end of the corpus.
func resolveRange(c *cli.Context, corpusSize int) (int, int, error) {
	start := c.Int("start")
	end := c.Int("end")
	if end == 0 {
		end = corpusSize
	}
	if start < 0 || end > corpusSize || start >= end {
		return 0, 0, fmt.Errorf("invalid author range [%d, %d) over %d authors",
			start, end, corpusSize)
	}
	return start, end, nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
