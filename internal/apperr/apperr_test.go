package apperr

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		code Code
	}{
		{"unknown tool", NewUnknownTool("no_such_tool"), CodeUnknownTool},
		{"invalid argument", NewInvalidArgument("limit", "must be positive", -1), CodeInvalidArgument},
		{"not found", NewNotFound("player", "NonExistentPlayer123"), CodeNotFound},
		{"backend unavailable", NewBackendUnavailable(3, errors.New("dial refused")), CodeBackendUnavailable},
		{"query failed", NewQueryFailed(errors.New("syntax error")), CodeQueryFailed},
		{"rate limited", NewRateLimited("social_media", time.Second), CodeRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, CodeOf(tt.err))
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestWithToolTagsMessage(t *testing.T) {
	err := NewInvalidArgument("min_age", "must be >= 0", -5).WithTool("search_player")
	assert.Equal(t, "search_player", err.Tool)
	assert.Contains(t, err.Error(), "search_player")
	assert.Contains(t, err.Error(), "min_age")
}

func TestInvalidArgumentNamesField(t *testing.T) {
	err := NewInvalidArgument("start_date", "not a valid date", "13-2023-01")
	detail, ok := err.Details.(ArgumentDetail)
	require.True(t, ok)
	assert.Equal(t, "start_date", detail.Field)
	assert.Equal(t, "13-2023-01", detail.Value)
}

func TestRateLimitedCarriesPositiveRetryAfter(t *testing.T) {
	err := NewRateLimited("social_media", 0)
	detail, ok := err.Details.(RateLimitDetail)
	require.True(t, ok)
	assert.Positive(t, detail.RetryAfter)

	err = NewRateLimited("social_media", 250*time.Millisecond)
	detail = err.Details.(RateLimitDetail)
	assert.Equal(t, 250*time.Millisecond, detail.RetryAfter)
}

func TestCodeOfUnwrapsChains(t *testing.T) {
	inner := NewNotFound("team", "Ghost FC")
	wrapped := fmt.Errorf("handling tool: %w", inner)
	assert.Equal(t, CodeNotFound, CodeOf(wrapped))
	assert.True(t, IsNotFound(wrapped))
}

func TestCodeOfForeignErrorDefaultsToQueryFailed(t *testing.T) {
	assert.Equal(t, CodeQueryFailed, CodeOf(errors.New("something else")))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewBackendUnavailable(2, errors.New("reset"))))
	assert.False(t, IsRetryable(NewQueryFailed(errors.New("bad cypher"))))
	assert.False(t, IsRetryable(NewNotFound("match", "m1")))
}
