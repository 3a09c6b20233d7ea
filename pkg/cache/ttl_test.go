package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

// newTestCache creates a TTL cache without a background janitor so tests
// control sweeping explicitly.
func newTestCache(t *testing.T, ttl time.Duration) Cache[string] {
	t.Helper()
	c, err := NewTTL[string](context.Background(), ttl, 0)
	if err != nil {
		t.Fatalf("Unexpected error creating cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestTTLBasicOperations(t *testing.T) {
	cache := newTestCache(t, time.Minute)

	if value, exists := cache.Get("key1"); exists {
		t.Errorf("Expected cache miss, got value: %s", value)
	}

	isNew, err := cache.Set("key1", "value1")
	if err != nil {
		t.Fatalf("Unexpected error setting key: %v", err)
	}
	if !isNew {
		t.Error("Expected new entry creation")
	}

	if value, exists := cache.Get("key1"); !exists || value != "value1" {
		t.Errorf("Expected 'value1', got value: %s, exists: %t", value, exists)
	}

	// Overwrite keeps the key but reports an update
	isNew, err = cache.Set("key1", "value1_updated")
	if err != nil {
		t.Fatalf("Unexpected error updating key: %v", err)
	}
	if isNew {
		t.Error("Expected existing entry update")
	}

	if value, exists := cache.Get("key1"); !exists || value != "value1_updated" {
		t.Errorf("Expected 'value1_updated', got value: %s, exists: %t", value, exists)
	}

	deleted, err := cache.Delete("key1")
	if err != nil {
		t.Fatalf("Unexpected error deleting key: %v", err)
	}
	if !deleted {
		t.Error("Expected successful deletion")
	}

	deleted, err = cache.Delete("key1")
	if err != nil {
		t.Fatalf("Unexpected error deleting non-existent key: %v", err)
	}
	if deleted {
		t.Error("Expected deletion failure for non-existent key")
	}
}

func TestTTLEmptyKeyRejected(t *testing.T) {
	cache := newTestCache(t, time.Minute)

	if _, err := cache.Set("", "value"); err == nil {
		t.Error("Expected error setting empty key")
	}
	if _, err := cache.Delete(""); err == nil {
		t.Error("Expected error deleting empty key")
	}
}

func TestTTLStaleEntryIsMiss(t *testing.T) {
	cache := newTestCache(t, 30*time.Millisecond)

	_, _ = cache.Set("key1", "value1")

	if _, exists := cache.Get("key1"); !exists {
		t.Fatal("Expected hit before expiry")
	}

	time.Sleep(50 * time.Millisecond)

	// Stale entry is a miss even though it still physically exists
	if value, exists := cache.Get("key1"); exists {
		t.Errorf("Expected miss after TTL, got value: %s", value)
	}
	if cache.Size() != 1 {
		t.Errorf("Expected stale entry to remain until sweep, size: %d", cache.Size())
	}
}

func TestTTLSweepRemovesExpired(t *testing.T) {
	cache := newTestCache(t, 30*time.Millisecond)

	_, _ = cache.Set("stale1", "v")
	_, _ = cache.Set("stale2", "v")

	time.Sleep(50 * time.Millisecond)
	_, _ = cache.Set("fresh", "v")

	removed := cache.Sweep()
	if removed != 2 {
		t.Errorf("Expected 2 entries swept, got %d", removed)
	}
	if cache.Size() != 1 {
		t.Errorf("Expected 1 entry after sweep, got %d", cache.Size())
	}
	if _, exists := cache.Get("fresh"); !exists {
		t.Error("Expected fresh entry to survive sweep")
	}
}

func TestTTLOverwriteRefreshesExpiry(t *testing.T) {
	cache := newTestCache(t, 60*time.Millisecond)

	_, _ = cache.Set("key1", "v1")
	time.Sleep(40 * time.Millisecond)
	_, _ = cache.Set("key1", "v2")
	time.Sleep(40 * time.Millisecond)

	// 80ms after first insert but only 40ms after overwrite
	if value, exists := cache.Get("key1"); !exists || value != "v2" {
		t.Errorf("Expected refreshed entry 'v2', got value: %s, exists: %t", value, exists)
	}
}

func TestTTLKeysExcludesStale(t *testing.T) {
	cache := newTestCache(t, 30*time.Millisecond)

	_, _ = cache.Set("stale", "v")
	time.Sleep(50 * time.Millisecond)
	_, _ = cache.Set("fresh", "v")

	keys := cache.Keys()
	if len(keys) != 1 || keys[0] != "fresh" {
		t.Errorf("Expected only fresh key, got %v", keys)
	}
}

func TestTTLJanitorSweeps(t *testing.T) {
	c, err := NewTTL[string](context.Background(), 20*time.Millisecond, 30*time.Millisecond)
	if err != nil {
		t.Fatalf("Unexpected error creating cache: %v", err)
	}
	defer func() { _ = c.Close() }()

	_, _ = c.Set("key1", "v")

	deadline := time.Now().Add(500 * time.Millisecond)
	for c.Size() > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if c.Size() != 0 {
		t.Errorf("Expected janitor to sweep stale entry, size: %d", c.Size())
	}
}

func TestTTLEvictionCallback(t *testing.T) {
	var mu sync.Mutex
	evicted := make(map[string]string)

	c, err := NewTTL[string](context.Background(), 20*time.Millisecond, 0,
		WithEvictionCallback[string](func(key, value string) {
			mu.Lock()
			evicted[key] = value
			mu.Unlock()
		}))
	if err != nil {
		t.Fatalf("Unexpected error creating cache: %v", err)
	}
	defer func() { _ = c.Close() }()

	_, _ = c.Set("key1", "value1")
	time.Sleep(40 * time.Millisecond)
	c.Sweep()

	mu.Lock()
	defer mu.Unlock()
	if evicted["key1"] != "value1" {
		t.Errorf("Expected eviction callback for key1, got %v", evicted)
	}
}

func TestTTLStats(t *testing.T) {
	cache := newTestCache(t, time.Minute)

	_, _ = cache.Set("key1", "v")
	cache.Get("key1")
	cache.Get("missing")

	stats := cache.Stats()
	if stats.Hits() != 1 {
		t.Errorf("Expected 1 hit, got %d", stats.Hits())
	}
	if stats.Misses() != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.Misses())
	}
	if stats.Sets() != 1 {
		t.Errorf("Expected 1 set, got %d", stats.Sets())
	}
	if ratio := stats.HitRatio(); ratio != 0.5 {
		t.Errorf("Expected hit ratio 0.5, got %f", ratio)
	}
}

func TestTTLConcurrentAccess(t *testing.T) {
	cache := newTestCache(t, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key-%d", j%7)
				_, _ = cache.Set(key, fmt.Sprintf("value-%d-%d", n, j))
				cache.Get(key)
				cache.Sweep()
			}
		}(i)
	}
	wg.Wait()

	if cache.Size() > 7 {
		t.Errorf("Expected at most 7 entries, got %d", cache.Size())
	}
}

func TestTTLRejectsNonPositiveTTL(t *testing.T) {
	if _, err := NewTTL[string](context.Background(), 0, 0); err == nil {
		t.Error("Expected error for zero TTL")
	}
}

func TestNoopCache(t *testing.T) {
	c := NewNoop[string]()

	isNew, err := c.Set("key1", "value1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if isNew {
		t.Error("Noop cache should never report new entries")
	}
	if _, exists := c.Get("key1"); exists {
		t.Error("Noop cache should always miss")
	}
	if c.Sweep() != 0 {
		t.Error("Noop sweep should remove nothing")
	}
	if c.Stats() != nil {
		t.Error("Noop cache should have nil stats")
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Run("disabled yields noop", func(t *testing.T) {
		c, err := NewFromConfig[string](context.Background(), Config{Enabled: false})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if _, exists := c.Get("anything"); exists {
			t.Error("Disabled cache should always miss")
		}
	})

	t.Run("default config is valid", func(t *testing.T) {
		cfg := DefaultConfig()
		if cfg.TTL != 300*time.Second {
			t.Errorf("Expected default TTL of 300s, got %v", cfg.TTL)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Default config should validate: %v", err)
		}
	})

	t.Run("invalid ttl rejected", func(t *testing.T) {
		cfg := Config{Enabled: true, TTL: -time.Second}
		if err := cfg.Validate(); err == nil {
			t.Error("Expected validation error for negative TTL")
		}
	})
}
