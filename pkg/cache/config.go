package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/c360/merchproxy/errors"
)

// DefaultTTL is the time after which a cached response is considered stale.
const DefaultTTL = 300 * time.Second

// DefaultSweepInterval is how often the background janitor removes stale entries.
const DefaultSweepInterval = time.Minute

// Config contains configuration for cache creation.
type Config struct {
	// Enabled determines if caching is enabled. When false, NewFromConfig
	// returns a noop cache that always misses.
	Enabled bool `json:"enabled"`

	// TTL is the time-to-live for entries.
	TTL time.Duration `json:"ttl"`

	// SweepInterval is how often the background janitor runs.
	// Zero disables the janitor; Sweep can still be called explicitly.
	SweepInterval time.Duration `json:"sweep_interval"`
}

// DefaultConfig returns a default cache configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		TTL:           DefaultTTL,
		SweepInterval: DefaultSweepInterval,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.TTL <= 0 {
		return errors.WrapConfig(errors.ErrInvalidConfig, "cache", "Validate",
			fmt.Sprintf("ttl must be positive, got %v", c.TTL))
	}
	if c.SweepInterval < 0 {
		return errors.WrapConfig(errors.ErrInvalidConfig, "cache", "Validate",
			fmt.Sprintf("sweep_interval must not be negative, got %v", c.SweepInterval))
	}

	return nil
}

// NewFromConfig creates a cache based on the provided configuration.
// Returns a noop cache if config.Enabled is false.
func NewFromConfig[V any](ctx context.Context, config Config, options ...Option[V]) (Cache[V], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if !config.Enabled {
		return NewNoop[V](), nil
	}

	return NewTTL[V](ctx, config.TTL, config.SweepInterval, options...)
}

// NewTTL creates a new TTL cache. A sweepInterval <= 0 disables the
// background janitor.
func NewTTL[V any](ctx context.Context, ttl, sweepInterval time.Duration, options ...Option[V]) (Cache[V], error) {
	opts := applyOptions(options...)
	return newTTLCache[V](ctx, ttl, sweepInterval, opts)
}
