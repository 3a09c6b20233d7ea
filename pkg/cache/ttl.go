package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/c360/merchproxy/errors"
)

// ttlEntry is a cached value with its insertion-derived expiry.
type ttlEntry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

func (e *ttlEntry[V]) isExpired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// ttlCache is a thread-safe TTL cache. Entries older than the TTL are
// treated as misses on Get and physically removed by Sweep.
type ttlCache[V any] struct {
	mu            sync.RWMutex
	ttl           time.Duration
	sweepInterval time.Duration
	items         map[string]*ttlEntry[V]
	stats         *Statistics
	metrics       *cacheMetrics
	evictFn       EvictCallback[V]

	// Background janitor coordination
	shutdown chan struct{}
	done     chan struct{}
}

// newTTLCache creates a new TTL cache. A sweepInterval <= 0 disables the
// background janitor; Sweep can still be invoked explicitly.
func newTTLCache[V any](
	ctx context.Context, ttl, sweepInterval time.Duration, opts *cacheOptions[V],
) (*ttlCache[V], error) {
	if ttl <= 0 {
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "cache", "newTTLCache",
			fmt.Sprintf("ttl must be positive, got %v", ttl))
	}

	stats := NewStatistics()

	var metrics *cacheMetrics
	if opts.metricsReg != nil && opts.metricsPrefix != "" {
		var err error
		metrics, err = newCacheMetrics(opts.metricsReg, opts.metricsPrefix)
		if err != nil {
			return nil, errors.WrapInternal(err, "cache", "newTTLCache", "metrics registration")
		}
	}

	c := &ttlCache[V]{
		ttl:           ttl,
		sweepInterval: sweepInterval,
		items:         make(map[string]*ttlEntry[V]),
		stats:         stats,
		metrics:       metrics,
		evictFn:       opts.evictCallback,
		shutdown:      make(chan struct{}),
		done:          make(chan struct{}),
	}

	if sweepInterval > 0 {
		go c.janitor(ctx)
	} else {
		close(c.done)
	}

	return c, nil
}

// Get retrieves a value by key, treating expired entries as misses.
func (c *ttlCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	entry, exists := c.items[key]
	c.mu.RUnlock()

	if !exists || entry.isExpired(time.Now()) {
		var zero V
		c.stats.Miss()
		if c.metrics != nil {
			c.metrics.recordMiss()
		}
		return zero, false
	}

	c.stats.Hit()
	if c.metrics != nil {
		c.metrics.recordHit()
	}
	return entry.value, true
}

// Set stores a value, overwriting any existing entry with a fresh expiry.
func (c *ttlCache[V]) Set(key string, value V) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	expiresAt := time.Now().Add(c.ttl)

	c.mu.Lock()
	_, exists := c.items[key]
	c.items[key] = &ttlEntry[V]{
		key:       key,
		value:     value,
		expiresAt: expiresAt,
	}
	size := len(c.items)
	c.mu.Unlock()

	c.stats.Set()
	c.stats.UpdateSize(int64(size))
	if c.metrics != nil {
		c.metrics.recordSet()
		c.metrics.updateSize(size)
	}

	return !exists, nil
}

// Delete removes an entry by key.
func (c *ttlCache[V]) Delete(key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	c.mu.Lock()
	entry, exists := c.items[key]
	if exists {
		delete(c.items, key)
	}
	size := len(c.items)
	c.mu.Unlock()

	if exists {
		if c.evictFn != nil {
			c.evictFn(key, entry.value)
		}
		c.stats.Delete()
		c.stats.UpdateSize(int64(size))
		if c.metrics != nil {
			c.metrics.recordDelete()
			c.metrics.updateSize(size)
		}
	}

	return exists, nil
}

// Sweep removes every entry whose age exceeds the TTL.
func (c *ttlCache[V]) Sweep() int {
	start := time.Now()
	now := start
	var expired []*ttlEntry[V]

	c.mu.Lock()
	for key, entry := range c.items {
		if entry.isExpired(now) {
			expired = append(expired, entry)
			delete(c.items, key)
		}
	}
	size := len(c.items)
	c.mu.Unlock()

	// Eviction callbacks run outside the lock
	if c.evictFn != nil {
		for _, entry := range expired {
			c.evictFn(entry.key, entry.value)
		}
	}

	if len(expired) > 0 {
		for range expired {
			c.stats.Eviction()
		}
		c.stats.UpdateSize(int64(size))
		if c.metrics != nil {
			for range expired {
				c.metrics.recordEviction()
			}
			c.metrics.updateSize(size)
		}
	}

	if c.metrics != nil {
		c.metrics.observeSweep(time.Since(start))
	}

	return len(expired)
}

// Clear removes all entries from the cache.
func (c *ttlCache[V]) Clear() error {
	c.mu.Lock()
	if c.evictFn != nil {
		for _, entry := range c.items {
			c.evictFn(entry.key, entry.value)
		}
	}
	c.items = make(map[string]*ttlEntry[V])
	c.mu.Unlock()

	c.stats.UpdateSize(0)
	if c.metrics != nil {
		c.metrics.updateSize(0)
	}

	return nil
}

// Size returns the current number of entries in the cache.
// Stale entries count until Sweep removes them.
func (c *ttlCache[V]) Size() int {
	c.mu.RLock()
	size := len(c.items)
	c.mu.RUnlock()
	return size
}

// Keys returns the keys of all fresh entries.
func (c *ttlCache[V]) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.items))
	now := time.Now()
	for key, entry := range c.items {
		if !entry.isExpired(now) {
			keys = append(keys, key)
		}
	}
	return keys
}

// Stats returns cache statistics.
func (c *ttlCache[V]) Stats() *Statistics {
	return c.stats
}

// Close shuts down the cache and stops the background janitor.
func (c *ttlCache[V]) Close() error {
	select {
	case <-c.shutdown:
		// Already shutting down
	default:
		close(c.shutdown)
	}

	select {
	case <-c.done:
		return nil
	case <-time.After(5 * time.Second):
		return fmt.Errorf("timeout waiting for janitor to finish")
	}
}

// janitor periodically sweeps expired entries until shutdown.
func (c *ttlCache[V]) janitor(ctx context.Context) {
	defer close(c.done)

	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.shutdown:
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}
