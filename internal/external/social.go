// Package external fetches data that does not live in the graph. Every
// outbound call passes the per-source rate limiter first; a drained bucket
// rejects before any network traffic happens.
package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"futebol-mcp/internal/apperr"
	"futebol-mcp/internal/config"
	"futebol-mcp/internal/logging"
	"futebol-mcp/internal/ratelimit"
	"futebol-mcp/pkg/types"
)

// Sources the social lookup accepts.
var validSources = map[string]bool{
	"twitter":   true,
	"instagram": true,
}

// ValidSource reports whether source names a supported provider.
func ValidSource(source string) bool {
	return validSources[source]
}

// profilePayload is the provider's wire format.
type profilePayload struct {
	Handle    *string `json:"handle"`
	Followers *int64  `json:"followers"`
	Verified  *bool   `json:"verified"`
}

// SocialClient looks up player social profiles over HTTP.
type SocialClient struct {
	baseURL string
	client  *http.Client
	limiter *ratelimit.Limiter
	logger  *logging.Logger
	now     func() time.Time
}

// NewSocialClient builds the client from configuration. An empty base URL
// disables lookups; callers get BackendUnavailable.
func NewSocialClient(cfg *config.ExternalConfig, limiter *ratelimit.Limiter, logger *logging.Logger) *SocialClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SocialClient{
		baseURL: cfg.SocialMediaBaseURL,
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
		logger:  logger.WithComponent("external"),
		now:     time.Now,
	}
}

// Profile fetches one player's profile from source. The rate limiter is
// consulted before the request; RateLimited errors carry retry guidance.
func (c *SocialClient) Profile(ctx context.Context, player, source string) (*types.SocialProfileResult, error) {
	if err := c.limiter.Allow(source); err != nil {
		return nil, err
	}
	if c.baseURL == "" {
		return nil, apperr.NewBackendUnavailable(1, fmt.Errorf("social media source not configured"))
	}

	endpoint := fmt.Sprintf("%s/%s/profile?player=%s", c.baseURL, source, url.QueryEscape(player))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperr.NewQueryFailed(err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("social lookup failed", "source", source, "error", err.Error())
		return nil, apperr.NewBackendUnavailable(1, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperr.NewNotFound("social profile", player)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, apperr.NewRateLimited(source, parseRetryAfter(resp))
	case resp.StatusCode != http.StatusOK:
		return nil, apperr.NewBackendUnavailable(1, fmt.Errorf("source %s returned status %d", source, resp.StatusCode))
	}

	var payload profilePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperr.NewQueryFailed(fmt.Errorf("decoding %s response: %w", source, err))
	}

	return &types.SocialProfileResult{
		Player:    player,
		Source:    source,
		Handle:    payload.Handle,
		Followers: payload.Followers,
		Verified:  payload.Verified,
		FetchedAt: c.now().UTC().Format(time.RFC3339),
	}, nil
}

// parseRetryAfter reads both Retry-After forms, delay seconds and an HTTP
// date. Missing, malformed, or already-elapsed values fall back to one
// minute.
func parseRetryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return time.Minute
	}
	if d, err := time.ParseDuration(v + "s"); err == nil {
		return d
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d.Round(time.Second)
		}
	}
	return time.Minute
}
