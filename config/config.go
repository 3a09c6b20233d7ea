// Package config loads and validates merchproxy configuration from the
// process environment.
//
// Every setting has a MERCHPROXY_* environment variable and a sensible
// default. A missing API token is deliberately NOT a startup error: the
// proxy surfaces it per-request as a configuration error so the analytics
// endpoints stay usable without upstream credentials.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/c360/merchproxy/errors"
	"github.com/c360/merchproxy/pkg/cache"
)

// DefaultUpstreamURL is the commerce platform GraphQL endpoint used when no
// override is configured.
const DefaultUpstreamURL = "https://scottsberry.centra.com/graphql"

// DefaultUpstreamTimeout bounds every upstream call.
const DefaultUpstreamTimeout = 30 * time.Second

// Config represents the complete application configuration.
type Config struct {
	// UpstreamURL is the commerce platform GraphQL endpoint.
	UpstreamURL string `json:"upstream_url"`

	// APIToken is the bearer token forwarded to the upstream API.
	// May be empty; the proxy reports a configuration error per-request.
	APIToken string `json:"-"`

	// BindAddress is the HTTP bind address for the API surface.
	BindAddress string `json:"bind_address"`

	// MetricsPort serves Prometheus metrics on a dedicated listener.
	// Zero disables the metrics server.
	MetricsPort int `json:"metrics_port"`

	// UpstreamTimeout bounds each upstream round trip.
	UpstreamTimeout time.Duration `json:"upstream_timeout"`

	// MaxRequestSize limits inbound request bodies in bytes.
	MaxRequestSize int64 `json:"max_request_size"`

	// CORSOrigins lists allowed CORS origins. Empty disables CORS.
	CORSOrigins []string `json:"cors_origins"`

	// RateLimit caps proxied requests per second. Zero disables limiting.
	RateLimit float64 `json:"rate_limit"`

	// RateBurst is the burst size when rate limiting is enabled.
	RateBurst int `json:"rate_burst"`

	// Cache configures the response cache.
	Cache cache.Config `json:"cache"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		UpstreamURL:     DefaultUpstreamURL,
		BindAddress:     ":8080",
		MetricsPort:     9090,
		UpstreamTimeout: DefaultUpstreamTimeout,
		MaxRequestSize:  1 << 20, // 1 MiB
		CORSOrigins:     []string{"*"},
		RateLimit:       0,
		RateBurst:       10,
		Cache:           cache.DefaultConfig(),
	}
}

// FromEnv builds a configuration from the process environment, falling back
// to defaults for anything unset.
func FromEnv() Config {
	cfg := Default()

	cfg.UpstreamURL = getEnv("MERCHPROXY_UPSTREAM_URL", cfg.UpstreamURL)
	cfg.APIToken = getEnv("MERCHPROXY_API_TOKEN", os.Getenv("CENTRA_API_TOKEN"))
	cfg.BindAddress = getEnv("MERCHPROXY_BIND_ADDRESS", cfg.BindAddress)
	cfg.MetricsPort = getEnvInt("MERCHPROXY_METRICS_PORT", cfg.MetricsPort)
	cfg.UpstreamTimeout = getEnvDuration("MERCHPROXY_UPSTREAM_TIMEOUT", cfg.UpstreamTimeout)
	cfg.MaxRequestSize = int64(getEnvInt("MERCHPROXY_MAX_REQUEST_SIZE", int(cfg.MaxRequestSize)))
	cfg.RateLimit = getEnvFloat("MERCHPROXY_RATE_LIMIT", cfg.RateLimit)
	cfg.RateBurst = getEnvInt("MERCHPROXY_RATE_BURST", cfg.RateBurst)

	if origins := os.Getenv("MERCHPROXY_CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitAndTrim(origins)
	}

	cfg.Cache.Enabled = getEnvBool("MERCHPROXY_CACHE_ENABLED", cfg.Cache.Enabled)
	cfg.Cache.TTL = getEnvDuration("MERCHPROXY_CACHE_TTL", cfg.Cache.TTL)
	cfg.Cache.SweepInterval = getEnvDuration("MERCHPROXY_CACHE_SWEEP_INTERVAL", cfg.Cache.SweepInterval)

	return cfg
}

// Validate ensures the configuration is usable. It applies no defaults;
// use Default or FromEnv to construct configurations.
func (c *Config) Validate() error {
	u, err := url.Parse(c.UpstreamURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.WrapConfig(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("upstream URL %q is not an absolute URL", c.UpstreamURL))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.WrapConfig(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("upstream URL scheme %q is not http or https", u.Scheme))
	}

	if c.BindAddress == "" {
		return errors.WrapConfig(errors.ErrMissingConfig, "Config", "Validate",
			"bind address must not be empty")
	}

	if c.MetricsPort < 0 || c.MetricsPort > 65535 {
		return errors.WrapConfig(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("metrics port %d out of range", c.MetricsPort))
	}

	if c.UpstreamTimeout < 100*time.Millisecond || c.UpstreamTimeout > 5*time.Minute {
		return errors.WrapConfig(errors.ErrInvalidConfig, "Config", "Validate",
			"upstream timeout must be between 100ms and 5m")
	}

	if c.MaxRequestSize <= 0 {
		return errors.WrapConfig(errors.ErrInvalidConfig, "Config", "Validate",
			"max request size must be positive")
	}

	if c.RateLimit < 0 {
		return errors.WrapConfig(errors.ErrInvalidConfig, "Config", "Validate",
			"rate limit must not be negative")
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		return errors.WrapConfig(errors.ErrInvalidConfig, "Config", "Validate",
			"rate burst must be at least 1 when rate limiting is enabled")
	}

	if err := c.Cache.Validate(); err != nil {
		return errors.WrapConfig(err, "Config", "Validate", "cache configuration")
	}

	return nil
}

// HasToken reports whether an API token is configured.
func (c *Config) HasToken() bool {
	return c.APIToken != ""
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Environment variable helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
