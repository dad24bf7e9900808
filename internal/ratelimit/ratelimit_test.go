package ratelimit

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futebol-mcp/internal/apperr"
)

func TestAllowWithinBurst(t *testing.T) {
	l := New(30, 5)
	for i := 0; i < 5; i++ {
		assert.NoError(t, l.Allow("twitter"), "call %d within burst", i)
	}
}

func TestExhaustionReturnsRateLimited(t *testing.T) {
	l := New(30, 2)
	now := time.Now()
	l.now = func() time.Time { return now }

	require.NoError(t, l.Allow("instagram"))
	require.NoError(t, l.Allow("instagram"))

	err := l.Allow("instagram")
	require.Error(t, err)

	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperr.CodeRateLimited, appErr.Code)

	detail, ok := appErr.Details.(apperr.RateLimitDetail)
	require.True(t, ok)
	assert.Equal(t, "instagram", detail.Source)
	assert.Greater(t, detail.RetryAfter, time.Duration(0), "retry-after hint must be positive")
}

func TestRefillOverTime(t *testing.T) {
	l := New(60, 1) // one token per second
	now := time.Now()
	l.now = func() time.Time { return now }

	require.NoError(t, l.Allow("x"))
	require.Error(t, l.Allow("x"))

	l.now = func() time.Time { return now.Add(1100 * time.Millisecond) }
	assert.NoError(t, l.Allow("x"), "bucket refills at the sustained rate")
}

func TestSourcesAreIndependent(t *testing.T) {
	l := New(30, 1)
	now := time.Now()
	l.now = func() time.Time { return now }

	require.NoError(t, l.Allow("twitter"))
	require.Error(t, l.Allow("twitter"))
	assert.NoError(t, l.Allow("instagram"), "one drained source must not block another")
}

func TestTokensIntrospection(t *testing.T) {
	l := New(30, 5)
	assert.InDelta(t, 5.0, l.Tokens("fresh"), 0.01)

	require.NoError(t, l.Allow("fresh"))
	assert.Less(t, l.Tokens("fresh"), 5.0)
}
