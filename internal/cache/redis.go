package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"futebol-mcp/internal/logging"
)

// Redis is a Store backed by a shared Redis instance, used when several
// server replicas should share one result cache. Values are stored as JSON;
// hits therefore return json.RawMessage, which serializes back to the same
// bytes the shaped result would have produced.
type Redis struct {
	client *redis.Client
	prefix string
	logger *logging.Logger
}

// NewRedis connects to addr and verifies the connection before returning.
func NewRedis(ctx context.Context, addr, password string, db int, logger *logging.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Redis{
		client: client,
		prefix: "futebol:cache:",
		logger: logger.WithComponent("cache"),
	}, nil
}

// Get fetches the JSON payload under key. Redis expiry handles the TTL, so
// any value still present is live.
func (r *Redis) Get(ctx context.Context, key string) (interface{}, bool) {
	payload, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("redis get failed", "error", err.Error())
		}
		return nil, false
	}
	return json.RawMessage(payload), true
}

// Put serializes the value and stores it with the given TTL. A value that
// fails to marshal or a write that fails is dropped; the cache is an
// optimization, not a source of truth.
func (r *Redis) Put(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		r.logger.Warn("cache value not serializable", "error", err.Error())
		return
	}
	if err := r.client.Set(ctx, r.prefix+key, payload, ttl).Err(); err != nil {
		r.logger.Warn("redis set failed", "error", err.Error())
	}
}

// Close releases the client's connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
