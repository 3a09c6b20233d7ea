package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	LogLevel        string
	LogFormat       string
	Debug           bool
	ShutdownTimeout time.Duration
	ShowVersion     bool
	ShowHelp        bool
	Validate        bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("MERCHPROXY_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: MERCHPROXY_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("MERCHPROXY_LOG_FORMAT", "json"),
		"Log format: json, text (env: MERCHPROXY_LOG_FORMAT)")

	flag.BoolVar(&cfg.Debug, "debug",
		getEnvBool("MERCHPROXY_DEBUG", false),
		"Enable debug mode (env: MERCHPROXY_DEBUG)")

	flag.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout",
		getEnvDuration("MERCHPROXY_SHUTDOWN_TIMEOUT", 30*time.Second),
		"Graceful shutdown timeout (env: MERCHPROXY_SHUTDOWN_TIMEOUT)")

	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	flag.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")
	flag.BoolVar(&cfg.Validate, "validate", false, "Validate configuration and exit")

	flag.Usage = func() {
		printDetailedHelp()
	}

	flag.Parse()

	// Override log level if debug is set
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}

	return cfg
}

func validateFlags(cfg *CLIConfig) error {
	// Skip validation for special flags
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout: %s", cfg.ShutdownTimeout)
	}

	return nil
}

func printDetailedHelp() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - Commerce API Proxy and Analytics

Usage: %s [options]

All runtime configuration comes from MERCHPROXY_* environment variables;
flags control logging and lifecycle only.

Options:
`, appName, os.Args[0])
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Environment:
  MERCHPROXY_API_TOKEN        Bearer token for the upstream API (required for proxying)
  MERCHPROXY_UPSTREAM_URL     Upstream GraphQL endpoint
  MERCHPROXY_BIND_ADDRESS     HTTP bind address (default :8080)
  MERCHPROXY_METRICS_PORT     Prometheus metrics port, 0 to disable (default 9090)
  MERCHPROXY_CACHE_TTL        Response cache TTL (default 5m)
  MERCHPROXY_RATE_LIMIT       Proxied requests per second, 0 to disable

Examples:
  # Run with debug logging
  %s --log-level=debug --log-format=text

  # Validate configuration only
  MERCHPROXY_UPSTREAM_URL=https://example.com/graphql %s --validate

Version: %s
Build: %s
`, os.Args[0], os.Args[0], Version, BuildTime)
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Utility function to check if slice contains string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
