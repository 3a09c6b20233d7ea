// Package main implements the entry point for merchproxy, a caching
// GraphQL proxy and analytics service for the Centra commerce API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/c360/merchproxy/config"
	"github.com/c360/merchproxy/gateway"
	"github.com/c360/merchproxy/metric"
	"github.com/c360/merchproxy/pkg/cache"
	"github.com/c360/merchproxy/proxy"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "merchproxy"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg, logger, shouldExit, err := initializeCLI()
	if shouldExit || err != nil {
		return err
	}

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cliCfg.Validate {
		slog.Info("Configuration is valid")
		return nil
	}

	if !cfg.HasToken() {
		slog.Warn("No upstream API token configured; proxy requests will fail until one is set",
			"env", "MERCHPROXY_API_TOKEN")
	}

	ctx := context.Background()

	metricsRegistry := metric.NewMetricsRegistry()

	responseCache, err := cache.NewFromConfig[json.RawMessage](ctx, cfg.Cache,
		cache.WithMetrics[json.RawMessage](metricsRegistry, "responses"))
	if err != nil {
		return fmt.Errorf("create response cache: %w", err)
	}
	defer responseCache.Close()

	forwarder, err := proxy.NewForwarder(cfg.UpstreamURL, cfg.APIToken, cfg.UpstreamTimeout,
		responseCache, logger,
		proxy.WithMetrics(metricsRegistry.CoreMetrics()))
	if err != nil {
		return fmt.Errorf("create forwarder: %w", err)
	}

	server, err := gateway.NewServer(cfg, forwarder, Version, logger,
		gateway.WithMetrics(metricsRegistry.CoreMetrics()))
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	if err := server.Setup(); err != nil {
		return fmt.Errorf("setup server: %w", err)
	}

	return runWithSignalHandling(ctx, server, metricsRegistry, cfg, cliCfg.ShutdownTimeout)
}

// initializeCLI parses flags and sets up logging
func initializeCLI() (*CLIConfig, *slog.Logger, bool, error) {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return nil, nil, false, fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil, nil, true, nil
	}

	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil, nil, true, nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	slog.Info("Starting merchproxy (commerce API proxy and analytics)",
		"version", Version,
		"build_time", BuildTime)

	return cliCfg, logger, false, nil
}

// runWithSignalHandling runs the gateway and metrics servers until a
// shutdown signal arrives, then stops them gracefully.
func runWithSignalHandling(
	ctx context.Context,
	server *gateway.Server,
	metricsRegistry *metric.MetricsRegistry,
	cfg config.Config,
	shutdownTimeout time.Duration,
) error {
	signalCtx, signalCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	group, groupCtx := errgroup.WithContext(signalCtx)

	ready := make(chan struct{})
	group.Go(func() error {
		return server.Start(groupCtx, ready)
	})

	var metricsServer *metric.Server
	if cfg.MetricsPort > 0 {
		metricsServer = metric.NewServer(cfg.MetricsPort, "/metrics", metricsRegistry)
		group.Go(func() error {
			slog.Info("Metrics server starting", "port", cfg.MetricsPort)
			return metricsServer.Start()
		})
		group.Go(func() error {
			<-groupCtx.Done()
			return metricsServer.Stop(shutdownTimeout)
		})
	}

	select {
	case <-ready:
		slog.Info("merchproxy started successfully", "address", cfg.BindAddress)
	case <-groupCtx.Done():
	}

	<-groupCtx.Done()
	slog.Info("Received shutdown signal")

	if err := server.Stop(shutdownTimeout); err != nil {
		slog.Error("Error stopping server", "error", err)
	}

	if err := group.Wait(); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("merchproxy shutdown complete")
	return nil
}
