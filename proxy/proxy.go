// Package proxy forwards GraphQL requests to the upstream commerce API and
// caches successful responses.
//
// The forwarder is a thin pass-through: request bodies travel upstream
// unmodified with the configured bearer token, upstream responses keep
// their original status and body, and only 200 responses with a JSON body
// enter the cache. Nothing is ever retried; callers decide whether to
// retry.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/c360/merchproxy/errors"
	"github.com/c360/merchproxy/metric"
	"github.com/c360/merchproxy/pkg/cache"
	"github.com/c360/merchproxy/pkg/fingerprint"
)

// request is the decoded shape of an inbound GraphQL request body.
type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// Result is the outcome of a forwarded request.
type Result struct {
	// Status is the HTTP status to surface to the caller. Cache hits are
	// 200; forwarded responses carry the upstream status unmodified,
	// success or not.
	Status int

	// Body is the response body, valid JSON whenever it is non-empty
	// and the status is 2xx.
	Body []byte

	// Cached reports whether the response came from the cache.
	Cached bool
}

// Forwarder forwards GraphQL requests upstream with response caching.
type Forwarder struct {
	upstreamURL string
	token       string
	timeout     time.Duration
	client      *http.Client
	cache       cache.Cache[json.RawMessage]
	logger      *slog.Logger
	metrics     *metric.Metrics
}

// Option configures a Forwarder.
type Option func(*Forwarder)

// WithHTTPClient overrides the HTTP client used for upstream calls.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Forwarder) {
		if client != nil {
			f.client = client
		}
	}
}

// WithMetrics attaches core metrics for upstream observations.
func WithMetrics(metrics *metric.Metrics) Option {
	return func(f *Forwarder) {
		f.metrics = metrics
	}
}

// NewForwarder creates a forwarder for the given upstream endpoint.
// An empty token is allowed at construction; Forward reports it per-request.
func NewForwarder(
	upstreamURL, token string,
	timeout time.Duration,
	responseCache cache.Cache[json.RawMessage],
	logger *slog.Logger,
	opts ...Option,
) (*Forwarder, error) {
	if upstreamURL == "" {
		return nil, errors.WrapConfig(errors.ErrMissingConfig, "Forwarder", "NewForwarder",
			"upstream URL is required")
	}
	if responseCache == nil {
		return nil, errors.WrapConfig(errors.ErrMissingConfig, "Forwarder", "NewForwarder",
			"response cache is required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	f := &Forwarder{
		upstreamURL: upstreamURL,
		token:       token,
		timeout:     timeout,
		client:      &http.Client{},
		cache:       responseCache,
		logger:      logger,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}

	return f, nil
}

// Forward validates an inbound GraphQL request body, answers it from the
// cache when possible, and otherwise forwards it upstream.
func (f *Forwarder) Forward(ctx context.Context, body []byte) (*Result, error) {
	req, err := parseRequest(body)
	if err != nil {
		return nil, err
	}

	if f.token == "" {
		return nil, errors.WrapConfig(errors.ErrMissingToken, "Forwarder", "Forward",
			"upstream credentials")
	}

	key, err := fingerprint.Request(req.Query, req.Variables)
	if err != nil {
		return nil, err
	}

	if cached, ok := f.cache.Get(key); ok {
		f.logger.Debug("cache hit", "fingerprint", key)
		return &Result{Status: http.StatusOK, Body: cached, Cached: true}, nil
	}

	result, err := f.callUpstream(ctx, body)
	if err != nil {
		return nil, err
	}

	// Only 200 responses with a body enter the cache; other 2xx statuses
	// pass through uncached since a cache hit always serves 200
	if result.Status == http.StatusOK && len(result.Body) > 0 {
		if _, err := f.cache.Set(key, json.RawMessage(result.Body)); err != nil {
			// A cache write failure degrades to pass-through, nothing more
			f.logger.Warn("response cache write failed", "error", err)
		}
	}

	return result, nil
}

// callUpstream performs one bounded upstream round trip.
func (f *Forwarder) callUpstream(ctx context.Context, body []byte) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, f.upstreamURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.WrapInternal(err, "Forwarder", "callUpstream", "request construction")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+f.token)

	start := time.Now()
	resp, err := f.client.Do(httpReq)
	elapsed := time.Since(start)

	if f.metrics != nil {
		f.metrics.RecordUpstreamDuration(elapsed)
	}

	if err != nil {
		if f.metrics != nil {
			f.metrics.RecordUpstreamRequest("error")
		}
		f.logger.Error("upstream request failed", "error", err, "elapsed", elapsed)
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.WrapUpstream(errors.ErrUpstreamTimeout, "Forwarder", "callUpstream",
				"upstream round trip")
		}
		return nil, errors.WrapUpstream(err, "Forwarder", "callUpstream", "upstream round trip")
	}
	defer resp.Body.Close()

	if f.metrics != nil {
		f.metrics.RecordUpstreamRequest(strconv.Itoa(resp.StatusCode))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapUpstream(err, "Forwarder", "callUpstream", "response read")
	}

	// Non-success passes through unmodified and uncached
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.Warn("upstream returned non-success status",
			"status", resp.StatusCode, "elapsed", elapsed)
		return &Result{Status: resp.StatusCode, Body: respBody, Cached: false}, nil
	}

	// Bodyless success (204 and friends) passes through as-is
	if len(bytes.TrimSpace(respBody)) > 0 && !json.Valid(respBody) {
		return nil, errors.WrapUpstream(errors.ErrUpstreamBadResponse, "Forwarder", "callUpstream",
			"response parse")
	}

	f.logger.Debug("upstream request completed", "status", resp.StatusCode, "elapsed", elapsed)
	return &Result{Status: resp.StatusCode, Body: respBody, Cached: false}, nil
}

// parseRequest decodes and validates an inbound GraphQL request body.
func parseRequest(body []byte) (*request, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.WrapInvalid(errors.ErrMissingQuery, "Forwarder", "parseRequest",
			"empty body")
	}

	var req request
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, errors.WrapInvalid(err, "Forwarder", "parseRequest", "body decode")
	}
	if req.Query == "" {
		return nil, errors.WrapInvalid(errors.ErrMissingQuery, "Forwarder", "parseRequest",
			"query field validation")
	}

	return &req, nil
}
