// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

// Package cache provides a small thread-safe TTL cache. The catalog client
// uses it to keep upstream responses for a few minutes.
package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reeltrack/internal/metrics"
)

// cleanupInterval is how often expired entries are swept.
const cleanupInterval = 5 * time.Minute

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache maps string keys to values that expire after a TTL.
type Cache[V any] struct {
	name string
	ttl  time.Duration
	now  func() time.Time

	mu      sync.RWMutex
	entries map[string]entry[V]
	stats   Stats

	stop     chan struct{}
	stopOnce sync.Once
}

// Stats tracks cache performance.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	now        func() time.Time
	background bool
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithoutCleanup disables the background sweep. Expired entries are still
// dropped lazily on Get.
func WithoutCleanup() Option {
	return func(o *options) { o.background = false }
}

// New returns a cache whose entries live for ttl. name labels the cache
// metrics. Call Close to stop the background sweep.
func New[V any](name string, ttl time.Duration, opts ...Option) *Cache[V] {
	o := options{now: time.Now, background: true}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Cache[V]{
		name:    name,
		ttl:     ttl,
		now:     o.now,
		entries: make(map[string]entry[V]),
		stop:    make(chan struct{}),
	}
	c.stats.LastCleanup = c.now()

	if o.background {
		go c.cleanupLoop()
	}
	return c
}

// Get returns the value for key if present and not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		c.recordMiss()
		return zero, false
	}

	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.stats.Evictions++
		c.stats.Misses++
		c.stats.TotalKeys = int64(len(c.entries))
		c.mu.Unlock()
		metrics.CacheMisses.WithLabelValues(c.name).Inc()
		metrics.CacheEvictions.WithLabelValues(c.name).Inc()
		return zero, false
	}

	c.mu.Lock()
	c.stats.Hits++
	c.mu.Unlock()
	metrics.CacheHits.WithLabelValues(c.name).Inc()
	return e.value, true
}

// Set stores value with the default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value with a custom TTL.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(ttl)}
	c.stats.TotalKeys = int64(len(c.entries))
}

// Delete removes key.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		c.stats.Evictions++
		c.stats.TotalKeys = int64(len(c.entries))
	}
}

// Clear drops every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Evictions += int64(len(c.entries))
	c.entries = make(map[string]entry[V])
	c.stats.TotalKeys = 0
}

// GetStats returns a snapshot of the counters.
func (c *Cache[V]) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// HitRate returns hits as a percentage of lookups.
func (c *Cache[V]) HitRate() float64 {
	s := c.GetStats()
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Close stops the background sweep. It is safe to call more than once.
func (c *Cache[V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache[V]) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

// cleanup removes all expired entries.
func (c *Cache[V]) cleanup() {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	var evicted int64
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			evicted++
		}
	}

	c.stats.Evictions += evicted
	c.stats.TotalKeys = int64(len(c.entries))
	c.stats.LastCleanup = now
	if evicted > 0 {
		metrics.CacheEvictions.WithLabelValues(c.name).Add(float64(evicted))
	}
}

func (c *Cache[V]) recordMiss() {
	c.mu.Lock()
	c.stats.Misses++
	c.mu.Unlock()
	metrics.CacheMisses.WithLabelValues(c.name).Inc()
}

// GenerateKey builds a compact key from a method name and its parameters.
func GenerateKey(method string, params any) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", method, params)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", method, hash[:16])
}
