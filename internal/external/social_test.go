package external

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futebol-mcp/internal/apperr"
	"futebol-mcp/internal/config"
	"futebol-mcp/internal/logging"
	"futebol-mcp/internal/ratelimit"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, rpm, burst int) *SocialClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewSocialClient(
		&config.ExternalConfig{SocialMediaBaseURL: srv.URL, TimeoutSeconds: 5},
		ratelimit.New(rpm, burst),
		logging.New(logging.ErrorLevel),
	)
}

func TestProfileSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/twitter/profile", r.URL.Path)
		assert.Equal(t, "Neymar", r.URL.Query().Get("player"))
		w.Write([]byte(`{"handle":"@neymarjr","followers":60000000,"verified":true}`))
	}, 30, 5)

	result, err := client.Profile(context.Background(), "Neymar", "twitter")
	require.NoError(t, err)
	require.NotNil(t, result.Handle)
	assert.Equal(t, "@neymarjr", *result.Handle)
	require.NotNil(t, result.Followers)
	assert.Equal(t, int64(60000000), *result.Followers)
	assert.Equal(t, "twitter", result.Source)
	assert.NotEmpty(t, result.FetchedAt)
}

func TestProfileNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, 30, 5)

	_, err := client.Profile(context.Background(), "Nobody", "twitter")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestProfileRateLimitedBeforeNetwork(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{}`))
	}, 30, 1)

	_, err := client.Profile(context.Background(), "Neymar", "instagram")
	require.NoError(t, err)

	_, err = client.Profile(context.Background(), "Neymar", "instagram")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeRateLimited, apperr.CodeOf(err))
	assert.Equal(t, 1, calls, "drained bucket must block before the request is sent")
}

func TestProviderRetryAfterForms(t *testing.T) {
	tests := []struct {
		name   string
		header string
		min    time.Duration
		max    time.Duration
	}{
		{"delay seconds", "30", 30 * time.Second, 30 * time.Second},
		{"http date", time.Now().Add(90 * time.Second).UTC().Format(http.TimeFormat), time.Second, 2 * time.Minute},
		{"elapsed http date", time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat), time.Minute, time.Minute},
		{"malformed", "soon", time.Minute, time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Retry-After", tt.header)
				w.WriteHeader(http.StatusTooManyRequests)
			}, 30, 5)

			_, err := client.Profile(context.Background(), "Neymar", "twitter")
			require.Error(t, err)
			assert.Equal(t, apperr.CodeRateLimited, apperr.CodeOf(err))

			var ae *apperr.Error
			require.True(t, errors.As(err, &ae))
			detail, ok := ae.Details.(apperr.RateLimitDetail)
			require.True(t, ok)
			assert.GreaterOrEqual(t, detail.RetryAfter, tt.min)
			assert.LessOrEqual(t, detail.RetryAfter, tt.max)
		})
	}
}

func TestProfileUnconfiguredBaseURL(t *testing.T) {
	client := NewSocialClient(
		&config.ExternalConfig{TimeoutSeconds: 5},
		ratelimit.New(30, 5),
		logging.New(logging.ErrorLevel),
	)
	_, err := client.Profile(context.Background(), "Neymar", "twitter")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBackendUnavailable, apperr.CodeOf(err))
}

func TestValidSource(t *testing.T) {
	assert.True(t, ValidSource("twitter"))
	assert.True(t, ValidSource("instagram"))
	assert.False(t, ValidSource("myspace"))
}
