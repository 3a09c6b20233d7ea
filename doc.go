// Package merchproxy provides a caching proxy and insights service for a
// commerce platform GraphQL API.
//
// # Architecture
//
// The service has two independent request paths:
//
// Proxy path:
//   - HTTP gateway receives a GraphQL request body
//   - A deterministic fingerprint of the request selects a cache entry
//   - Cache hits are answered immediately; misses are forwarded upstream
//     with the configured bearer token and a bounded timeout
//   - Successful upstream responses are cached with a fixed TTL
//
// Analytics path:
//   - Callers POST already-fetched product or order datasets
//   - The analytics engine computes stock-level and order-trend insights
//     with pure, synchronous functions
//
// The two paths do not interact: the analytics engine never calls the
// proxy itself.
//
// # Packages
//
//   - gateway: HTTP surface, middleware, lifecycle
//   - proxy: upstream forwarding and response caching
//   - analytics: stock and order-trend aggregation
//   - graphqlq: catalog of named GraphQL query templates
//   - pkg/cache: TTL cache with explicit sweep
//   - pkg/fingerprint: canonical request digests
//   - pkg/timestamp: commerce API timestamp parsing
//   - config, errors, metric: configuration, classified errors, Prometheus
//     metrics
package merchproxy
