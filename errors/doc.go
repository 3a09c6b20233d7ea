// Package errors provides standardized error handling patterns for merchproxy.
//
// # Overview
//
// The package implements a four-class error classification system matching
// the failure modes of a caching API proxy: Invalid (malformed request, do
// not retry), Config (missing or bad credentials/configuration), Upstream
// (the third-party API is unreachable, timed out, or answered non-2xx), and
// Internal (unexpected failure in proxy or aggregation logic).
//
// Classification drives HTTP status mapping at the gateway boundary: every
// public entry point converts errors to one of these classes and an HTTP
// status, so no unhandled error ever escapes to the host framework.
//
// # Quick Start
//
// Return standard error variables for known conditions:
//
//	if token == "" {
//	    return errors.ErrMissingToken
//	}
//
// Wrap errors with component context:
//
//	if err := json.Unmarshal(body, &req); err != nil {
//	    return errors.WrapInvalid(err, "Proxy", "Forward", "request decode")
//	}
//
// Map to an HTTP status at the boundary:
//
//	status := errors.HTTPStatus(err)
//
// The classification system integrates with Go's standard error handling,
// supporting errors.Is(), errors.As(), and wrapping chains.
package errors
