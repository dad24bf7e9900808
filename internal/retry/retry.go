// Package retry provides bounded retries with exponential backoff and jitter.
package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Config holds retry configuration.
type Config struct {
	MaxAttempts     int              // maximum number of attempts, must be >= 1
	InitialDelay    time.Duration    // delay before the second attempt
	MaxDelay        time.Duration    // backoff ceiling
	Multiplier      float64          // backoff multiplier
	RandomizeFactor float64          // jitter factor in [0, 1]
	RetryIf         func(error) bool // predicate deciding whether to retry
}

// DefaultConfig returns the retry policy used for graph connectivity faults.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts:     3,
		InitialDelay:    100 * time.Millisecond,
		MaxDelay:        5 * time.Second,
		Multiplier:      2.0,
		RandomizeFactor: 0.1,
	}
}

// Operation is a retryable unit of work.
type Operation func(ctx context.Context) error

// Retrier executes operations under a retry policy.
type Retrier struct {
	config *Config
}

// New creates a retrier, clamping nonsensical configuration values.
func New(config *Config) *Retrier {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if config.Multiplier < 1 {
		config.Multiplier = 1
	}
	if config.RandomizeFactor < 0 {
		config.RandomizeFactor = 0
	} else if config.RandomizeFactor > 1 {
		config.RandomizeFactor = 1
	}
	return &Retrier{config: config}
}

// Attempts returns the configured attempt budget.
func (r *Retrier) Attempts() int { return r.config.MaxAttempts }

// Do runs op until it succeeds, the retry predicate rejects the error, the
// attempt budget is exhausted, or the context is cancelled. The last error
// is returned unwrapped so callers can classify it.
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	var lastErr error
	delay := r.config.InitialDelay

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("retry cancelled: %w", err)
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		if r.config.RetryIf != nil && !r.config.RetryIf(lastErr) {
			return lastErr
		}
		if attempt == r.config.MaxAttempts {
			return lastErr
		}

		select {
		case <-time.After(r.jitter(delay)):
			delay = r.next(delay)
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled during backoff: %w", ctx.Err())
		}
	}
	return lastErr
}

func (r *Retrier) jitter(delay time.Duration) time.Duration {
	if r.config.RandomizeFactor == 0 {
		return delay
	}
	delta := float64(delay) * r.config.RandomizeFactor
	return time.Duration(float64(delay) - delta + rand.Float64()*2*delta)
}

func (r *Retrier) next(delay time.Duration) time.Duration {
	nextDelay := time.Duration(float64(delay) * r.config.Multiplier)
	if r.config.MaxDelay > 0 && nextDelay > r.config.MaxDelay {
		return r.config.MaxDelay
	}
	return nextDelay
}
