// Package ratelimit throttles calls to external data sources. Each source
// gets its own token bucket; a drained bucket rejects immediately with the
// wait until the next token rather than queueing the caller.
package ratelimit

import (
	"sync"
	"time"

	"futebol-mcp/internal/apperr"
)

// bucket is the token state for one source.
type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// Limiter hands out tokens at a steady per-minute rate with a small burst
// allowance. Safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    float64 // tokens per second
	burst   float64
	now     func() time.Time
}

// New creates a limiter allowing perMinute sustained calls and burst
// immediate ones per source.
func New(perMinute, burst int) *Limiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		buckets: make(map[string]*bucket),
		rate:    float64(perMinute) / 60.0,
		burst:   float64(burst),
		now:     time.Now,
	}
}

// Allow consumes one token for source. When the bucket is empty it returns
// a RateLimited error carrying the time until a token becomes available.
func (l *Limiter) Allow(source string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[source]
	if !ok {
		b = &bucket{tokens: l.burst, lastRefill: now}
		l.buckets[source] = b
	}

	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens += elapsed * l.rate
	if b.tokens > l.burst {
		b.tokens = l.burst
	}
	b.lastRefill = now

	if b.tokens < 1 {
		wait := time.Duration((1 - b.tokens) / l.rate * float64(time.Second))
		return apperr.NewRateLimited(source, wait)
	}

	b.tokens--
	return nil
}

// Tokens reports the current token count for source, for introspection.
func (l *Limiter) Tokens(source string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[source]
	if !ok {
		return l.burst
	}
	elapsed := l.now().Sub(b.lastRefill).Seconds()
	tokens := b.tokens + elapsed*l.rate
	if tokens > l.burst {
		tokens = l.burst
	}
	return tokens
}
