// server exposes the Brazilian soccer knowledge graph as an MCP tool
// server over stdio, or as a plain HTTP API, backed by Neo4j.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"futebol-mcp/internal/api"
	"futebol-mcp/internal/cache"
	"futebol-mcp/internal/config"
	"futebol-mcp/internal/dispatch"
	"futebol-mcp/internal/external"
	"futebol-mcp/internal/graph"
	"futebol-mcp/internal/logging"
	"futebol-mcp/internal/mcpserver"
	"futebol-mcp/internal/metrics"
	"futebol-mcp/internal/ratelimit"
)

func main() {
	var (
		mode        = flag.String("mode", "stdio", "Server mode: stdio or http")
		overlayPath = flag.String("registry-overlay", "", "Optional YAML overlay tuning per-tool cache TTLs and limits")
	)
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := logging.New(logging.ParseLevel(cfg.Logging.Level))

	overlay, err := config.LoadRegistryOverlay(*overlayPath)
	if err != nil {
		log.Fatalf("Failed to load registry overlay: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sessions, err := graph.NewSessionManager(&cfg.Neo4j, logger)
	if err != nil {
		log.Fatalf("Failed to connect to graph backend: %v", err)
	}
	defer func() {
		if err := sessions.Close(context.Background()); err != nil {
			logger.Warn("graph driver close failed", "error", err.Error())
		}
	}()

	store := buildStore(ctx, cfg, logger)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("cache close failed", "error", err.Error())
		}
	}()

	limiter := ratelimit.New(cfg.RateLimit.SocialMediaRPM, cfg.RateLimit.SocialMediaBurst)
	social := external.NewSocialClient(&cfg.External, limiter, logger)
	m := metrics.New()

	dispatcher := dispatch.New(sessions, social, store, cfg, overlay, logger, m)

	switch *mode {
	case "stdio":
		srv := mcpserver.New(&cfg.Server, dispatcher, logger)
		if err := srv.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("MCP server failed: %v", err)
		}
	case "http":
		srv := api.New(&cfg.Server, dispatcher, sessions, m, logger)
		if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	default:
		log.Fatalf("Invalid mode: %s. Use 'stdio' or 'http'", *mode)
	}
}

// buildStore prefers the shared Redis cache when configured and falls back
// to the in-process store.
func buildStore(ctx context.Context, cfg *config.Config, logger *logging.Logger) cache.Store {
	if cfg.Cache.RedisURL != "" {
		store, err := cache.NewRedis(ctx, cfg.Cache.RedisURL, "", 0, logger)
		if err == nil {
			logger.Info("using redis result cache", "addr", cfg.Cache.RedisURL)
			return store
		}
		logger.Warn("redis unavailable, using in-memory cache", "error", err.Error())
	}
	return cache.NewMemory(cfg.Cache.MaxItems)
}
