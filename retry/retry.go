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


// Package retry provides a bounded-retry policy for transient provider
// failures. The policy is a plain value so call sites can share one
// configuration and tests can exercise it with fake operations.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrInvalidMaxAttempts is returned when MaxAttempts is <= 0
var ErrInvalidMaxAttempts = errors.New("MaxAttempts must be greater than 0")

// Policy describes how an operation is retried: up to MaxAttempts tries
// with Delay between attempts. When Backoff is set the delay doubles
// after each failed attempt; otherwise it stays fixed.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Backoff     bool
}

// DefaultPolicy returns the provider-call retry contract: up to 10
// attempts with a fixed 1 second inter-attempt delay.
func DefaultPolicy() *Policy {
	return &Policy{
		MaxAttempts: 10,
		Delay:       1 * time.Second,
	}
}

// Do runs the operation until it succeeds, the attempt budget is
// exhausted, or the context is canceled.
// Returns the error from the last attempt if all attempts fail.
func (p Policy) Do(ctx context.Context, operation func() error) error {
	if p.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		// Check context before attempting
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("operation succeeded after retry", "attempt", attempt)
			}
			return nil // Success
		}

		slog.Debug("operation failed, will retry", "attempt", attempt, "maxAttempts", p.MaxAttempts, "error", lastErr)

		// Don't sleep after the last attempt
		if attempt == p.MaxAttempts {
			break
		}

		delay := p.Delay
		if p.Backoff {
			// Exponential backoff: Delay * 2^(attempt-1)
			for i := 1; i < attempt; i++ {
				delay *= 2
			}
		}

		// Sleep with context awareness
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			// Continue to next attempt
		}
	}

	return lastErr
}
