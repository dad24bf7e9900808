// Package cache memoizes shaped tool results keyed by (tool, normalized
// arguments). Entries expire by TTL and are evicted least-recently-used
// once the item bound is reached. Writes are atomic per key.
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// Store is the cache contract the dispatcher depends on. A read past a
// key's TTL is a miss, never stale data.
type Store interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Put(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Close() error
}

// entry is one cached value with its expiry and LRU position.
type entry struct {
	key       string
	value     interface{}
	expiresAt time.Time
	element   *list.Element
}

// Memory is the in-process Store implementation.
type Memory struct {
	mu       sync.Mutex
	items    map[string]*entry
	order    *list.List // front = most recently used
	maxItems int
	now      func() time.Time

	hits   int64
	misses int64
}

// NewMemory creates a bounded in-memory store.
func NewMemory(maxItems int) *Memory {
	if maxItems <= 0 {
		maxItems = 1
	}
	return &Memory{
		items:    make(map[string]*entry),
		order:    list.New(),
		maxItems: maxItems,
		now:      time.Now,
	}
}

// Get returns the cached value when present and unexpired.
func (m *Memory) Get(_ context.Context, key string) (interface{}, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[key]
	if !ok {
		m.misses++
		return nil, false
	}
	if m.now().After(e.expiresAt) {
		m.removeLocked(e)
		m.misses++
		return nil, false
	}

	m.order.MoveToFront(e.element)
	m.hits++
	return e.value, true
}

// Put stores the value under key, overwriting atomically and evicting the
// least recently used entry when full. Non-positive TTLs are not cached.
func (m *Memory) Put(_ context.Context, key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.items[key]; ok {
		existing.value = value
		existing.expiresAt = m.now().Add(ttl)
		m.order.MoveToFront(existing.element)
		return
	}

	for len(m.items) >= m.maxItems {
		oldest := m.order.Back()
		if oldest == nil {
			break
		}
		m.removeLocked(oldest.Value.(*entry))
	}

	e := &entry{key: key, value: value, expiresAt: m.now().Add(ttl)}
	e.element = m.order.PushFront(e)
	m.items[key] = e
}

func (m *Memory) removeLocked(e *entry) {
	m.order.Remove(e.element)
	delete(m.items, e.key)
}

// Len returns the current number of entries, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Stats returns cumulative hit and miss counts.
func (m *Memory) Stats() (hits, misses int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses
}

// Close implements Store. The in-memory store has nothing to release.
func (m *Memory) Close() error { return nil }
