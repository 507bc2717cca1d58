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


package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/expertfind/core"
	"github.com/poiesic/expertfind/profile"
)

// Config holds configuration for a batch embedding run.
type Config struct {
	// InterAuthorDelay is the pause between processed authors, giving
	// the provider room to breathe. Skipped authors incur no delay.
	InterAuthorDelay time.Duration

	// ReportInterval is how often to report progress (number of authors)
	ReportInterval int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		InterAuthorDelay: 2 * time.Second,
		ReportInterval:   1,
	}
}

// SaveFunc persists the corpus after each processed author so an
// interrupted run can resume from where it stopped.
type SaveFunc func(ctx context.Context) error

// Report summarizes the outcome of a batch run. A FAILED or degenerate
// author never aborts the run; it is recorded here instead.
type Report struct {
	Completed  int
	Skipped    int
	Failed     int
	Degenerate int

	FailedAuthors     []string
	DegenerateAuthors []string
}

// Processed returns the number of authors the run attempted, skipped
// authors included.
func (r *Report) Processed() int {
	return r.Completed + r.Skipped + r.Failed + r.Degenerate
}

// Driver walks a slice of the corpus and builds the missing author
// embeddings. Authors are processed strictly one at a time.
type Driver struct {
	builder  *profile.Builder
	config   *Config
	progress io.Writer
	save     SaveFunc
	logger   *slog.Logger
}

// Option configures a Driver.
type Option func(*Driver) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) error {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
		return nil
	}
}

// WithSaveFunc sets the checkpoint function invoked after every
// processed author. Without one the run is still correct, just not
// resumable across process restarts.
func WithSaveFunc(save SaveFunc) Option {
	return func(d *Driver) error {
		d.save = save
		return nil
	}
}

// NewDriver creates a batch driver.
// progress: where to write progress output (typically os.Stderr)
func NewDriver(builder *profile.Builder, config *Config, progress io.Writer, opts ...Option) (*Driver, error) {
	if builder == nil {
		return nil, ErrBuilderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	d := &Driver{
		builder:  builder,
		config:   config,
		progress: progress,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	d.logger = d.logger.With("component", "batch.Driver")

	return d, nil
}

// Run processes authors[start:end] one at a time. Authors that already
// carry everything the strategy computes are skipped, so re-running the
// same range after an interruption only pays for the remainder.
//
// Per-author failures and degenerate authors are recorded in the
// returned Report and never abort the run. Run only returns an error
// for an invalid range or a cancelled context.
func (d *Driver) Run(ctx context.Context, authors []*core.Author, start, end int) (*Report, error) {
	if start < 0 || end > len(authors) || start >= end {
		return nil, fmt.Errorf("%w: [%d, %d) over %d authors",
			ErrInvalidRange, start, end, len(authors))
	}

	total := end - start
	fmt.Fprintf(d.progress, "Embedding authors %d-%d of %d (strategy: %s)\n",
		start, end-1, len(authors), d.builder.Strategy())

	tracker := NewProgressTracker(d.progress, total, d.config.ReportInterval)
	tracker.Start()

	report := &Report{}

	for i := start; i < end; i++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		author := authors[i]

		if d.builder.IsComplete(author) {
			d.logger.Debug("author already embedded, skipping",
				"author", author.Name, "index", i)
			report.Skipped++
			tracker.Increment(1)
			continue
		}

		calledProvider := true
		err := d.builder.BuildEmbedding(ctx, author)
		switch {
		case err == nil:
			report.Completed++
		case errors.Is(err, core.ErrDegenerateAuthor):
			d.logger.Warn("author has no usable publication text",
				"author", author.Name, "index", i)
			report.Degenerate++
			report.DegenerateAuthors = append(report.DegenerateAuthors, author.Name)
			calledProvider = false
		case ctx.Err() != nil:
			return report, ctx.Err()
		default:
			d.logger.Error("author failed after retries",
				"author", author.Name, "index", i, "err", err)
			report.Failed++
			report.FailedAuthors = append(report.FailedAuthors, author.Name)
		}

		if d.save != nil {
			if err := d.save(ctx); err != nil {
				d.logger.Warn("checkpoint save failed", "author", author.Name, "err", err)
			}
		}

		tracker.Increment(1)

		// Pause between provider-facing authors, but not after the
		// last one. Degenerate authors never reached the provider.
		if calledProvider && i < end-1 && d.config.InterAuthorDelay > 0 {
			if err := sleepCtx(ctx, d.config.InterAuthorDelay); err != nil {
				return report, err
			}
		}
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(d.progress,
		"Batch complete. %d embedded, %d skipped, %d degenerate, %d failed in %v\n",
		report.Completed, report.Skipped, report.Degenerate, report.Failed,
		elapsed.Round(time.Second))

	return report, nil
}

// sleepCtx sleeps for the duration or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
