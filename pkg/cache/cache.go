package cache

import (
	"github.com/c360/merchproxy/errors"
)

// Cache represents a TTL cache parameterized by value type V.
type Cache[V any] interface {
	// Get retrieves a value by key. A present-but-stale entry is a miss:
	// staleness is re-checked on every lookup, so correctness never depends
	// on Sweep having run.
	Get(key string) (V, bool)

	// Set stores a value with the given key, overwriting any existing entry
	// with a fresh timestamp. Returns true if a new entry was created,
	// false if an existing one was updated.
	Set(key string, value V) (bool, error)

	// Delete removes an entry by key. Returns true if the key existed.
	Delete(key string) (bool, error)

	// Sweep removes every entry whose age exceeds the TTL and returns the
	// number of entries removed. It only frees memory; Get already treats
	// stale entries as misses.
	Sweep() int

	// Clear removes all entries from the cache.
	Clear() error

	// Size returns the current number of entries, stale ones included.
	Size() int

	// Keys returns the keys of all fresh entries.
	Keys() []string

	// Stats returns cache statistics.
	Stats() *Statistics

	// Close shuts down the cache and releases any resources.
	Close() error
}

// EvictCallback is called when an entry is evicted from the cache.
type EvictCallback[V any] func(key string, value V)

// validateKey validates a cache key for basic requirements.
func validateKey(key string) error {
	if key == "" {
		return errors.WrapInvalid(errors.ErrInvalidRequest, "cache", "validateKey",
			"key cannot be empty")
	}
	return nil
}

// NewNoop creates a cache that does nothing (always returns cache misses).
// Used when caching is disabled via configuration.
func NewNoop[V any]() Cache[V] {
	return &noopCache[V]{}
}

type noopCache[V any] struct{}

func (c *noopCache[V]) Get(_ string) (V, bool) {
	var zero V
	return zero, false
}

func (c *noopCache[V]) Set(_ string, _ V) (bool, error) { return false, nil }
func (c *noopCache[V]) Delete(_ string) (bool, error)   { return false, nil }
func (c *noopCache[V]) Sweep() int                      { return 0 }
func (c *noopCache[V]) Clear() error                    { return nil }
func (c *noopCache[V]) Size() int                       { return 0 }
func (c *noopCache[V]) Keys() []string                  { return nil }
func (c *noopCache[V]) Stats() *Statistics              { return nil }
func (c *noopCache[V]) Close() error                    { return nil }
