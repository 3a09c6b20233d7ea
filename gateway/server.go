package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/c360/merchproxy/config"
	"github.com/c360/merchproxy/errors"
	"github.com/c360/merchproxy/metric"
	"github.com/c360/merchproxy/proxy"
)

// Server manages the HTTP surface: the health endpoint, the GraphQL proxy
// route, and the analytics routes.
type Server struct {
	config    config.Config
	forwarder *proxy.Forwarder
	version   string
	logger    *slog.Logger
	metrics   *metric.Metrics
	limiter   *rate.Limiter

	httpServer *http.Server
	mux        *http.ServeMux

	// Lifecycle
	running  bool
	mu       sync.RWMutex
	stopChan chan struct{}
	stopOnce sync.Once
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics attaches core metrics for request observations.
func WithMetrics(metrics *metric.Metrics) Option {
	return func(s *Server) {
		s.metrics = metrics
	}
}

// NewServer creates the HTTP server for the given configuration.
func NewServer(cfg config.Config, forwarder *proxy.Forwarder, version string, logger *slog.Logger, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.WrapInvalid(err, "Server", "NewServer", "config validation")
	}

	if forwarder == nil {
		return nil, errors.WrapConfig(errors.ErrMissingConfig, "Server", "NewServer",
			"forwarder is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:    cfg,
		forwarder: forwarder,
		version:   version,
		logger:    logger,
		mux:       http.NewServeMux(),
		stopChan:  make(chan struct{}),
	}

	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s, nil
}

// Setup configures routes and middleware. Must be called before Start.
func (s *Server) Setup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// "/" on net/http's ServeMux is a catch-all; guard the path so only
	// exact "/" reaches the health handler and everything else 404s.
	s.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		s.handleHealth(w, r)
	})
	s.mux.HandleFunc("/api/graphql", s.handleGraphQL)
	s.mux.HandleFunc("/api/analyze/stock", s.handleAnalyzeStock)
	s.mux.HandleFunc("/api/analyze/orders", s.handleAnalyzeOrders)

	var handler http.Handler = s.mux
	if len(s.config.CORSOrigins) > 0 {
		handler = s.corsMiddleware(handler)
	}
	handler = s.requestIDMiddleware(handler)
	handler = s.recoveryMiddleware(handler)

	s.httpServer = &http.Server{
		Addr:         s.config.BindAddress,
		Handler:      handler,
		ReadTimeout:  s.config.UpstreamTimeout + 5*time.Second,
		WriteTimeout: s.config.UpstreamTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Server configured",
		"address", s.config.BindAddress,
		"upstream", s.config.UpstreamURL,
		"cache_enabled", s.config.Cache.Enabled)

	return nil
}

// Start runs the HTTP server until the context is cancelled or Stop is
// called. The ready channel is closed when the server begins listening.
func (s *Server) Start(ctx context.Context, ready chan<- struct{}) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.WrapInternal(errors.ErrAlreadyStarted, "Server", "Start", "server already running")
	}
	if s.httpServer == nil {
		s.mu.Unlock()
		return errors.WrapInternal(errors.ErrNotStarted, "Server", "Start", "Setup not called")
	}
	s.running = true
	server := s.httpServer
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		s.logger.Info("Server starting", "address", s.config.BindAddress)

		// ListenAndServe blocks after binding the socket, so signal
		// ready immediately before the call
		if ready != nil {
			close(ready)
		}

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", "error", err)
			select {
			case errChan <- err:
			case <-ctx.Done():
			case <-s.stopChan:
			}
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Server context cancelled, shutting down")
		return s.Stop(30 * time.Second)

	case <-s.stopChan:
		s.logger.Info("Server stop requested")
		return nil

	case err := <-errChan:
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return errors.WrapInternal(err, "Server", "Start", "HTTP server failed")
	}
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(timeout time.Duration) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	server := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Server stopping")

	s.stopOnce.Do(func() {
		close(s.stopChan)
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		s.logger.Error("Failed to shutdown server gracefully", "error", err)
		return errors.WrapInternal(err, "Server", "Stop", "graceful shutdown")
	}

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Server stopped")
	return nil
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Handler returns the fully assembled handler chain. Exposed for tests.
func (s *Server) Handler() http.Handler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Handler
}
