// Package errors provides standardized error handling patterns for merchproxy
// components. It includes error classification, standard error variables, and
// helper functions for consistent error wrapping across the system.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorClass represents the classification of errors for handling purposes
type ErrorClass int

const (
	// ErrorInvalid represents errors due to malformed or incomplete requests
	ErrorInvalid ErrorClass = iota
	// ErrorConfig represents errors due to missing or invalid configuration
	ErrorConfig
	// ErrorUpstream represents failures reaching or reading the upstream API
	ErrorUpstream
	// ErrorInternal represents unexpected failures in proxy or analytics logic
	ErrorInternal
)

// String returns the string representation of ErrorClass
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorInvalid:
		return "invalid_request"
	case ErrorConfig:
		return "configuration_error"
	case ErrorUpstream:
		return "upstream_unavailable"
	case ErrorInternal:
		return "internal_error"
	default:
		return "unknown"
	}
}

// Standard error variables for common conditions
var (
	// Request validation errors
	ErrInvalidRequest = errors.New("invalid request")
	ErrMissingQuery   = errors.New("request body must contain a query field")
	ErrParsingFailed  = errors.New("parsing failed")
	ErrBodyTooLarge   = errors.New("request body too large")

	// Configuration errors
	ErrMissingToken  = errors.New("API token not configured")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrMissingConfig = errors.New("missing required configuration")

	// Upstream errors
	ErrUpstreamUnavailable = errors.New("upstream API unavailable")
	ErrUpstreamTimeout     = errors.New("upstream request timed out")
	ErrUpstreamBadResponse = errors.New("upstream returned malformed response")

	// Lifecycle errors
	ErrAlreadyStarted = errors.New("component already started")
	ErrNotStarted     = errors.New("component not started")
)

// ClassifiedError wraps an error with its classification
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// IsInvalid checks if an error is due to a malformed request
func IsInvalid(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorInvalid
	}

	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrMissingQuery) ||
		errors.Is(err, ErrParsingFailed) ||
		errors.Is(err, ErrBodyTooLarge)
}

// IsConfig checks if an error is due to missing or invalid configuration
func IsConfig(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorConfig
	}

	return errors.Is(err, ErrMissingToken) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrMissingConfig)
}

// IsUpstream checks if an error is an upstream communication failure
func IsUpstream(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorUpstream
	}

	if errors.Is(err, ErrUpstreamUnavailable) ||
		errors.Is(err, ErrUpstreamTimeout) ||
		errors.Is(err, ErrUpstreamBadResponse) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// Check error message for common network failure patterns
	errStr := strings.ToLower(err.Error())
	upstreamPatterns := []string{
		"timeout",
		"connection refused",
		"connection reset",
		"no such host",
		"network",
		"unavailable",
	}

	for _, pattern := range upstreamPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}

// Classify returns the error class for an error
func Classify(err error) ErrorClass {
	if err == nil {
		return ErrorInternal
	}

	if IsInvalid(err) {
		return ErrorInvalid
	}
	if IsConfig(err) {
		return ErrorConfig
	}
	if IsUpstream(err) {
		return ErrorUpstream
	}

	// Default to internal for unknown errors
	return ErrorInternal
}

// HTTPStatus maps an error to the HTTP status code surfaced at the gateway
// boundary. Missing credentials map to 500: the token is a server-side
// deployment concern, not a caller authentication failure.
func HTTPStatus(err error) int {
	switch Classify(err) {
	case ErrorInvalid:
		return http.StatusBadRequest
	case ErrorConfig:
		return http.StatusInternalServerError
	case ErrorUpstream:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// newClassified creates a new classified error.
// This is an internal helper - use the Wrap* functions instead.
func newClassified(class ErrorClass, err error, component, operation, message string) *ClassifiedError {
	return &ClassifiedError{
		Class:     class,
		Err:       err,
		Message:   message,
		Component: component,
		Operation: operation,
	}
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapInvalid wraps an error as a malformed-request error with context
func WrapInvalid(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorInvalid, wrappedErr, component, method, wrappedErr.Error())
}

// WrapConfig wraps an error as a configuration error with context
func WrapConfig(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorConfig, wrappedErr, component, method, wrappedErr.Error())
}

// WrapUpstream wraps an error as an upstream failure with context
func WrapUpstream(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorUpstream, wrappedErr, component, method, wrappedErr.Error())
}

// WrapInternal wraps an error as an internal failure with context
func WrapInternal(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorInternal, wrappedErr, component, method, wrappedErr.Error())
}
