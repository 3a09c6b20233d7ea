package proxy

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/merchproxy/errors"
	"github.com/c360/merchproxy/pkg/cache"
)

func testCache(t *testing.T) cache.Cache[json.RawMessage] {
	t.Helper()
	c, err := cache.NewTTL[json.RawMessage](context.Background(), 5*time.Minute, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func testForwarder(t *testing.T, upstreamURL, token string, opts ...Option) *Forwarder {
	t.Helper()
	f, err := NewForwarder(upstreamURL, token, 5*time.Second, testCache(t),
		slog.New(slog.NewTextHandler(io.Discard, nil)), opts...)
	require.NoError(t, err)
	return f
}

func TestForwardCachesSuccessfulResponse(t *testing.T) {
	var upstreamCalls atomic.Int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls.Add(1)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"products":[]}}`))
	}))
	defer upstream.Close()

	f := testForwarder(t, upstream.URL, "test-token")
	body := []byte(`{"query":"query GetProducts { products { id } }"}`)

	first, err := f.Forward(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, first.Status)
	assert.False(t, first.Cached)
	assert.JSONEq(t, `{"data":{"products":[]}}`, string(first.Body))

	second, err := f.Forward(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, second.Status)
	assert.True(t, second.Cached)
	assert.JSONEq(t, `{"data":{"products":[]}}`, string(second.Body))

	assert.Equal(t, int64(1), upstreamCalls.Load(), "second request should be served from cache")
}

func TestForwardCacheKeyIgnoresFieldOrder(t *testing.T) {
	var upstreamCalls atomic.Int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls.Add(1)
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer upstream.Close()

	f := testForwarder(t, upstream.URL, "t")

	_, err := f.Forward(context.Background(),
		[]byte(`{"query":"{ products }","variables":{"limit":10,"page":1}}`))
	require.NoError(t, err)

	result, err := f.Forward(context.Background(),
		[]byte(`{"variables":{"page":1,"limit":10},"query":"{ products }"}`))
	require.NoError(t, err)

	assert.True(t, result.Cached)
	assert.Equal(t, int64(1), upstreamCalls.Load())
}

func TestForwardMissingQuery(t *testing.T) {
	f := testForwarder(t, "http://localhost:1", "token")

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"whitespace body", "   "},
		{"no query field", `{"variables":{"id":1}}`},
		{"empty query", `{"query":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Forward(context.Background(), []byte(tt.body))
			require.Error(t, err)
			assert.True(t, errors.IsInvalid(err))
			assert.Equal(t, http.StatusBadRequest, errors.HTTPStatus(err))
		})
	}
}

func TestForwardMalformedBody(t *testing.T) {
	f := testForwarder(t, "http://localhost:1", "token")

	_, err := f.Forward(context.Background(), []byte(`{"query": not json`))
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestForwardMissingToken(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("upstream should not be reached without credentials")
	}))
	defer upstream.Close()

	f := testForwarder(t, upstream.URL, "")

	_, err := f.Forward(context.Background(), []byte(`{"query":"{ products }"}`))
	require.Error(t, err)
	assert.True(t, errors.IsConfig(err))
	assert.Equal(t, http.StatusInternalServerError, errors.HTTPStatus(err))
}

func TestForwardUpstreamErrorPassesThroughUncached(t *testing.T) {
	var upstreamCalls atomic.Int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"errors":[{"message":"backend exploded"}]}`))
	}))
	defer upstream.Close()

	f := testForwarder(t, upstream.URL, "token")
	body := []byte(`{"query":"{ products }"}`)

	for i := 0; i < 2; i++ {
		result, err := f.Forward(context.Background(), body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, result.Status)
		assert.False(t, result.Cached)
		assert.JSONEq(t, `{"errors":[{"message":"backend exploded"}]}`, string(result.Body))
	}

	assert.Equal(t, int64(2), upstreamCalls.Load(), "failed responses must not be cached")
}

func TestForwardUpstreamUnreachable(t *testing.T) {
	f := testForwarder(t, "http://127.0.0.1:1", "token")

	_, err := f.Forward(context.Background(), []byte(`{"query":"{ products }"}`))
	require.Error(t, err)
	assert.True(t, errors.IsUpstream(err))
}

func TestForwardUpstreamTimeout(t *testing.T) {
	release := make(chan struct{})
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer upstream.Close()
	defer close(release)

	f, err := NewForwarder(upstream.URL, "token", 50*time.Millisecond, testCache(t),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	_, err = f.Forward(context.Background(), []byte(`{"query":"{ products }"}`))
	require.Error(t, err)
	assert.True(t, errors.IsUpstream(err))
	assert.ErrorIs(t, err, errors.ErrUpstreamTimeout)
}

func TestForwardPreservesNonStandardSuccessStatus(t *testing.T) {
	var upstreamCalls atomic.Int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls.Add(1)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"created":true}}`))
	}))
	defer upstream.Close()

	f := testForwarder(t, upstream.URL, "token")
	body := []byte(`{"query":"mutation { createOrder { id } }"}`)

	for i := 0; i < 2; i++ {
		result, err := f.Forward(context.Background(), body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, result.Status)
		assert.False(t, result.Cached)
		assert.JSONEq(t, `{"data":{"created":true}}`, string(result.Body))
	}

	// Only 200 responses are cacheable, so both requests reach upstream
	assert.Equal(t, int64(2), upstreamCalls.Load())
}

func TestForwardEmptySuccessBodyPassesThrough(t *testing.T) {
	var upstreamCalls atomic.Int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer upstream.Close()

	f := testForwarder(t, upstream.URL, "token")
	body := []byte(`{"query":"{ products }"}`)

	for i := 0; i < 2; i++ {
		result, err := f.Forward(context.Background(), body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, result.Status)
		assert.False(t, result.Cached)
		assert.Empty(t, result.Body)
	}

	// Empty bodies are never cached
	assert.Equal(t, int64(2), upstreamCalls.Load())
}

func TestForwardRejectsNonJSONSuccessBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer upstream.Close()

	f := testForwarder(t, upstream.URL, "token")

	_, err := f.Forward(context.Background(), []byte(`{"query":"{ products }"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUpstreamBadResponse)
}

func TestForwardBodyPassesThroughVerbatim(t *testing.T) {
	var received []byte
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer upstream.Close()

	f := testForwarder(t, upstream.URL, "token")
	body := []byte(`{"query":"query GetOrders($limit: Int) { orders(limit: $limit) { id } }","variables":{"limit":25}}`)

	_, err := f.Forward(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, body, received)
}

func TestNewForwarderValidation(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewForwarder("", "token", time.Second, testCache(t), logger)
	require.Error(t, err)
	assert.True(t, errors.IsConfig(err))

	_, err = NewForwarder("http://example.com", "token", time.Second, nil, logger)
	require.Error(t, err)
	assert.True(t, errors.IsConfig(err))
}
