// Package config loads and validates the server configuration from the
// environment, with an optional YAML overlay for per-tool cache TTLs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `json:"server"`
	Neo4j     Neo4jConfig     `json:"neo4j"`
	Cache     CacheConfig     `json:"cache"`
	RateLimit RateLimitConfig `json:"rate_limit"`
	External  ExternalConfig  `json:"external"`
	Logging   LoggingConfig   `json:"logging"`
}

// ServerConfig represents MCP/HTTP server configuration.
type ServerConfig struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	HTTPAddr     string `json:"http_addr"`
	ReadTimeout  int    `json:"read_timeout_seconds"`
	WriteTimeout int    `json:"write_timeout_seconds"`
}

// Neo4jConfig represents graph backend connection configuration.
type Neo4jConfig struct {
	URI            string `json:"uri"`
	User           string `json:"user"`
	Password       string `json:"-"` // never serialize credentials
	Database       string `json:"database"`
	PoolSize       int    `json:"pool_size"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	RetryAttempts  int    `json:"retry_attempts"`
}

// CacheConfig represents the shaped-result cache configuration.
type CacheConfig struct {
	Enabled  bool          `json:"enabled"`
	MaxItems int           `json:"max_items"`
	LiveTTL  time.Duration `json:"live_ttl"`
	StatsTTL time.Duration `json:"stats_ttl"`
	FinalTTL time.Duration `json:"final_ttl"`
	RedisURL string        `json:"-"` // optional distributed backend
}

// RateLimitConfig represents token-bucket settings for external sources.
type RateLimitConfig struct {
	SocialMediaRPM   int `json:"social_media_rpm"`
	SocialMediaBurst int `json:"social_media_burst"`
}

// ExternalConfig represents external data source endpoints.
type ExternalConfig struct {
	SocialMediaBaseURL string `json:"social_media_base_url"`
	TimeoutSeconds     int    `json:"timeout_seconds"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level string `json:"level"`
}

// DefaultConfig returns the built-in defaults, matching the Neo4j bolt
// endpoint the ingestion pipeline targets.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:         "futebol-kg",
			Version:      "1.0.0",
			HTTPAddr:     ":9080",
			ReadTimeout:  30,
			WriteTimeout: 30,
		},
		Neo4j: Neo4jConfig{
			URI:            "bolt://localhost:7687",
			User:           "neo4j",
			Database:       "neo4j",
			PoolSize:       10,
			TimeoutSeconds: 30,
			RetryAttempts:  3,
		},
		Cache: CacheConfig{
			Enabled:  true,
			MaxItems: 1000,
			LiveTTL:  5 * time.Minute,
			StatsTTL: 30 * time.Minute,
			FinalTTL: 6 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			SocialMediaRPM:   30,
			SocialMediaBurst: 5,
		},
		External: ExternalConfig{
			TimeoutSeconds: 10,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// LoadConfig builds the configuration from defaults, an optional .env file,
// and environment variables, in increasing precedence.
func LoadConfig() (*Config, error) {
	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	cfg.Server.Name = getEnv("SERVICE_NAME", cfg.Server.Name)
	cfg.Server.Version = getEnv("SERVICE_VERSION", cfg.Server.Version)
	cfg.Server.HTTPAddr = getEnv("HTTP_ADDR", cfg.Server.HTTPAddr)
	cfg.Server.ReadTimeout = getEnvInt("HTTP_READ_TIMEOUT_SECONDS", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", cfg.Server.WriteTimeout)

	cfg.Neo4j.URI = getEnv("NEO4J_URI", cfg.Neo4j.URI)
	cfg.Neo4j.User = getEnv("NEO4J_USER", cfg.Neo4j.User)
	cfg.Neo4j.Password = getEnv("NEO4J_PASSWORD", cfg.Neo4j.Password)
	cfg.Neo4j.Database = getEnv("NEO4J_DATABASE", cfg.Neo4j.Database)
	cfg.Neo4j.PoolSize = getEnvInt("NEO4J_POOL_SIZE", cfg.Neo4j.PoolSize)
	cfg.Neo4j.TimeoutSeconds = getEnvInt("NEO4J_TIMEOUT_SECONDS", cfg.Neo4j.TimeoutSeconds)
	cfg.Neo4j.RetryAttempts = getEnvInt("NEO4J_RETRY_ATTEMPTS", cfg.Neo4j.RetryAttempts)

	cfg.Cache.Enabled = getEnvBool("CACHE_ENABLED", cfg.Cache.Enabled)
	cfg.Cache.MaxItems = getEnvInt("CACHE_MAX_ITEMS", cfg.Cache.MaxItems)
	cfg.Cache.LiveTTL = getEnvDuration("CACHE_LIVE_TTL", cfg.Cache.LiveTTL)
	cfg.Cache.StatsTTL = getEnvDuration("CACHE_STATS_TTL", cfg.Cache.StatsTTL)
	cfg.Cache.FinalTTL = getEnvDuration("CACHE_FINAL_TTL", cfg.Cache.FinalTTL)
	cfg.Cache.RedisURL = getEnv("REDIS_URL", cfg.Cache.RedisURL)

	cfg.RateLimit.SocialMediaRPM = getEnvInt("SOCIAL_MEDIA_RPM", cfg.RateLimit.SocialMediaRPM)
	cfg.RateLimit.SocialMediaBurst = getEnvInt("SOCIAL_MEDIA_BURST", cfg.RateLimit.SocialMediaBurst)

	cfg.External.SocialMediaBaseURL = getEnv("SOCIAL_MEDIA_BASE_URL", cfg.External.SocialMediaBaseURL)
	cfg.External.TimeoutSeconds = getEnvInt("EXTERNAL_TIMEOUT_SECONDS", cfg.External.TimeoutSeconds)

	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Neo4j.URI == "" {
		return fmt.Errorf("neo4j: URI is required")
	}
	if c.Neo4j.User == "" {
		return fmt.Errorf("neo4j: user is required")
	}
	if c.Neo4j.PoolSize <= 0 {
		return fmt.Errorf("neo4j: pool size must be positive, got %d", c.Neo4j.PoolSize)
	}
	if c.Neo4j.TimeoutSeconds <= 0 {
		return fmt.Errorf("neo4j: timeout must be positive, got %d", c.Neo4j.TimeoutSeconds)
	}
	if c.Neo4j.RetryAttempts < 1 {
		return fmt.Errorf("neo4j: retry attempts must be at least 1, got %d", c.Neo4j.RetryAttempts)
	}
	if c.Cache.MaxItems <= 0 {
		return fmt.Errorf("cache: max items must be positive, got %d", c.Cache.MaxItems)
	}
	for name, ttl := range map[string]time.Duration{
		"live": c.Cache.LiveTTL, "stats": c.Cache.StatsTTL, "final": c.Cache.FinalTTL,
	} {
		if ttl <= 0 {
			return fmt.Errorf("cache: %s TTL must be positive", name)
		}
	}
	if c.RateLimit.SocialMediaRPM <= 0 {
		return fmt.Errorf("rate_limit: social media RPM must be positive, got %d", c.RateLimit.SocialMediaRPM)
	}
	return nil
}

// RegistryOverlay is the optional YAML tool-registry overlay. The registry
// itself (names and schemas) is compiled in; the overlay only tunes cache
// TTLs and limits per tool without a rebuild.
type RegistryOverlay struct {
	Tools map[string]ToolOverlay `yaml:"tools"`
}

// ToolOverlay tunes a single registered tool.
type ToolOverlay struct {
	CacheTTL   time.Duration `yaml:"cache_ttl"`
	MaxResults int           `yaml:"max_results"`
	Disabled   bool          `yaml:"disabled"`
}

// LoadRegistryOverlay parses the overlay file at path. A missing path
// returns an empty overlay.
func LoadRegistryOverlay(path string) (*RegistryOverlay, error) {
	if path == "" {
		return &RegistryOverlay{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &RegistryOverlay{}, nil
		}
		return nil, fmt.Errorf("reading registry overlay: %w", err)
	}
	var overlay RegistryOverlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parsing registry overlay: %w", err)
	}
	return &overlay, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "true" || v == "1"
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
