// Package cache provides a generic, thread-safe TTL cache for upstream
// response caching.
//
// Entries become stale after a fixed time-to-live and are treated as misses
// on lookup even while they still occupy memory. Sweep removes every stale
// entry explicitly; an optional background janitor invokes it on an
// interval. Last-write-wins semantics are acceptable for concurrent writers
// because identical keys carry identical values.
//
// Statistics are always collected. Prometheus export is optional via the
// WithMetrics functional option.
package cache
