package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futebol-mcp/internal/cache"
	"futebol-mcp/internal/config"
	"futebol-mcp/internal/dispatch"
	"futebol-mcp/internal/graph"
	"futebol-mcp/internal/logging"
	"futebol-mcp/internal/metrics"
)

type scriptedRunner struct {
	rows []graph.Row
	err  error
}

func (s scriptedRunner) Run(context.Context, string, map[string]interface{}) ([]graph.Row, error) {
	return s.rows, s.err
}

type scriptedHealth struct{ err error }

func (s scriptedHealth) Health(context.Context) error { return s.err }

func newTestServer(runner graph.Runner, health HealthChecker) *Server {
	cfg := config.DefaultConfig()
	logger := logging.NewWithOutput(logging.ErrorLevel, io.Discard)
	m := metrics.New()
	d := dispatch.New(runner, nil, cache.NewMemory(10), cfg, nil, logger, m)
	return New(&cfg.Server, d, health, m, logger)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(scriptedRunner{}, scriptedHealth{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	degraded := newTestServer(scriptedRunner{}, scriptedHealth{err: errors.New("down")})
	rec = httptest.NewRecorder()
	degraded.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListTools(t *testing.T) {
	s := newTestServer(scriptedRunner{}, nil)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/tools", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Len(t, payload.Tools, 20)
}

func TestInvokeSuccess(t *testing.T) {
	s := newTestServer(scriptedRunner{rows: []graph.Row{{"name": "Pelé"}}}, nil)

	body := strings.NewReader(`{"name": "pele"}`)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/tools/search_player/invoke", body))
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Result struct {
			TotalFound int `json:"total_found"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, 1, payload.Result.TotalFound)
}

func TestInvokeErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"unknown tool", "/v1/tools/summon_var/invoke", `{}`, http.StatusNotFound, "UNKNOWN_TOOL"},
		{"invalid argument", "/v1/tools/search_player/invoke", `{"name":""}`, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"malformed body", "/v1/tools/search_player/invoke", `{`, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"not found", "/v1/tools/get_player_career/invoke", `{"player":"nobody"}`, http.StatusNotFound, "NOT_FOUND"},
	}
	s := newTestServer(scriptedRunner{}, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			s.Handler().ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var payload struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
			assert.Equal(t, tt.wantCode, payload.Error.Code)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(scriptedRunner{}, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
