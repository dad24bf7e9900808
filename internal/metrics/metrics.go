// Package metrics exposes Prometheus instrumentation for the tool
// dispatch pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the registered collectors. One instance per process.
type Metrics struct {
	registry *prometheus.Registry

	toolCalls    *prometheus.CounterVec
	toolDuration *prometheus.HistogramVec
	cacheEvents  *prometheus.CounterVec
	rateLimited  *prometheus.CounterVec
}

// New creates and registers the collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		toolCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "futebol",
			Subsystem: "dispatch",
			Name:      "tool_calls_total",
			Help:      "Tool invocations by tool name and outcome code.",
		}, []string{"tool", "status"}),
		toolDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "futebol",
			Subsystem: "dispatch",
			Name:      "tool_duration_seconds",
			Help:      "Tool invocation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
		cacheEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "futebol",
			Subsystem: "cache",
			Name:      "events_total",
			Help:      "Cache hits and misses by tool.",
		}, []string{"tool", "event"}),
		rateLimited: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "futebol",
			Subsystem: "external",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-source rate limiter.",
		}, []string{"source"}),
	}
}

// Registry exposes the underlying registry for the HTTP handler.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveToolCall records one completed invocation.
func (m *Metrics) ObserveToolCall(tool, status string, elapsed time.Duration) {
	m.toolCalls.WithLabelValues(tool, status).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// CacheHit records a cache hit for tool.
func (m *Metrics) CacheHit(tool string) { m.cacheEvents.WithLabelValues(tool, "hit").Inc() }

// CacheMiss records a cache miss for tool.
func (m *Metrics) CacheMiss(tool string) { m.cacheEvents.WithLabelValues(tool, "miss").Inc() }

// RateLimited records a rejected external request for source.
func (m *Metrics) RateLimited(source string) { m.rateLimited.WithLabelValues(source).Inc() }
