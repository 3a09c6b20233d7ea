// Package gateway assembles the HTTP surface of merchproxy.
//
// It serves four routes: a health check at the root, the cached GraphQL
// proxy at /api/graphql, and the two analytics endpoints under
// /api/analyze/. Cross-cutting behavior lives in middleware: panic
// recovery, X-Request-ID propagation, CORS, body size limits, and an
// optional token-bucket rate limit on the proxy route.
package gateway
