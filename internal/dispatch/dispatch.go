// Package dispatch owns the tool registry and the invocation pipeline:
// resolve the tool, validate and normalize arguments, consult the result
// cache, execute the traversal, shape, store. Arguments that fail
// validation never reach the graph backend.
package dispatch

import (
	"context"
	"errors"
	"time"

	"futebol-mcp/internal/apperr"
	"futebol-mcp/internal/cache"
	"futebol-mcp/internal/config"
	"futebol-mcp/internal/graph"
	"futebol-mcp/internal/logging"
	"futebol-mcp/internal/metrics"
	"futebol-mcp/pkg/types"
)

// TTLClass buckets tools by how fast their answers go stale. Live answers
// track an ongoing season, stats aggregates move slowly, final facts
// (finished matches, past careers) barely move at all.
type TTLClass int

const (
	TTLLive TTLClass = iota
	TTLStats
	TTLFinal
)

// invocation is a prepared, validated call: a cache identity plus the
// deferred backend work.
type invocation struct {
	cacheKey string // empty disables caching for this call
	run      func(ctx context.Context) (interface{}, error)
}

// Tool is one registry entry. prepare validates and normalizes the raw
// arguments without touching the backend; the returned invocation does the
// actual work.
type Tool struct {
	Name        string
	Description string
	TTLClass    TTLClass
	Schema      map[string]interface{}

	prepare func(d *Dispatcher, raw map[string]interface{}) (*invocation, error)
}

// SocialLookup is the external profile source the dispatcher depends on.
type SocialLookup interface {
	Profile(ctx context.Context, player, source string) (*types.SocialProfileResult, error)
}

// Dispatcher routes tool calls through validation, cache, and backend.
type Dispatcher struct {
	runner  graph.Runner
	social  SocialLookup
	store   cache.Store
	cfg     *config.Config
	overlay *config.RegistryOverlay
	logger  *logging.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	tools map[string]*Tool
	order []string
}

// New assembles the dispatcher over its dependencies and registers the
// built-in tool vocabulary. Tools disabled by the overlay are left out
// entirely, so they neither list nor resolve.
func New(
	runner graph.Runner,
	social SocialLookup,
	store cache.Store,
	cfg *config.Config,
	overlay *config.RegistryOverlay,
	logger *logging.Logger,
	m *metrics.Metrics,
) *Dispatcher {
	if overlay == nil {
		overlay = &config.RegistryOverlay{}
	}
	d := &Dispatcher{
		runner:  runner,
		social:  social,
		store:   store,
		cfg:     cfg,
		overlay: overlay,
		logger:  logger.WithComponent("dispatch"),
		metrics: m,
		now:     time.Now,
		tools:   make(map[string]*Tool),
	}
	for _, t := range registry() {
		if ov, ok := overlay.Tools[t.Name]; ok && ov.Disabled {
			continue
		}
		d.tools[t.Name] = t
		d.order = append(d.order, t.Name)
	}
	return d
}

// Tools returns the registered tools in registration order.
func (d *Dispatcher) Tools() []*Tool {
	out := make([]*Tool, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.tools[name])
	}
	return out
}

// Invoke runs one tool call end to end. Every returned error is a tagged
// taxonomy error.
func (d *Dispatcher) Invoke(ctx context.Context, name string, raw map[string]interface{}) (interface{}, error) {
	start := d.now()
	if raw == nil {
		raw = map[string]interface{}{}
	}
	if logging.TraceID(ctx) == "" {
		ctx = logging.WithTraceID(ctx, "")
	}
	log := d.logger.WithContext(ctx)

	tool, ok := d.tools[name]
	if !ok {
		err := apperr.NewUnknownTool(name)
		d.metrics.ObserveToolCall(name, string(err.Code), d.now().Sub(start))
		log.Warn("unknown tool requested", "tool", name)
		return nil, err
	}

	inv, err := tool.prepare(d, raw)
	if err != nil {
		return nil, d.fail(log, name, start, err)
	}

	ttl := d.ttlFor(tool)
	useCache := d.cfg.Cache.Enabled && d.store != nil && inv.cacheKey != "" && ttl > 0
	if useCache {
		if hit, found := d.store.Get(ctx, inv.cacheKey); found {
			d.metrics.CacheHit(name)
			d.metrics.ObserveToolCall(name, "ok", d.now().Sub(start))
			log.Debug("cache hit", "tool", name)
			return hit, nil
		}
		d.metrics.CacheMiss(name)
	}

	result, err := inv.run(ctx)
	if err != nil {
		return nil, d.fail(log, name, start, err)
	}

	if useCache {
		d.store.Put(ctx, inv.cacheKey, result, ttl)
	}
	elapsed := d.now().Sub(start)
	d.metrics.ObserveToolCall(name, "ok", elapsed)
	log.Info("tool handled", "tool", name, "duration_ms", elapsed.Milliseconds(), "cached", useCache)
	return result, nil
}

func (d *Dispatcher) fail(log *logging.Logger, name string, start time.Time, err error) error {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		ae = apperr.NewQueryFailed(err)
	}
	ae = ae.WithTool(name)
	if detail, ok := ae.Details.(apperr.RateLimitDetail); ok {
		d.metrics.RateLimited(detail.Source)
	}
	d.metrics.ObserveToolCall(name, string(ae.Code), d.now().Sub(start))
	log.Warn("tool failed", "tool", name, "code", string(ae.Code), "error", ae.Message)
	return ae
}

// ttlFor resolves the tool's cache TTL, overlay override first.
func (d *Dispatcher) ttlFor(tool *Tool) time.Duration {
	if ov, ok := d.overlay.Tools[tool.Name]; ok && ov.CacheTTL > 0 {
		return ov.CacheTTL
	}
	switch tool.TTLClass {
	case TTLLive:
		return d.cfg.Cache.LiveTTL
	case TTLStats:
		return d.cfg.Cache.StatsTTL
	default:
		return d.cfg.Cache.FinalTTL
	}
}

// capResults applies the overlay's per-tool result ceiling.
func (d *Dispatcher) capResults(tool string, limit int) int {
	if ov, ok := d.overlay.Tools[tool]; ok && ov.MaxResults > 0 && limit > ov.MaxResults {
		return ov.MaxResults
	}
	return limit
}
