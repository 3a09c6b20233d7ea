package gateway

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/c360/merchproxy/analytics"
	"github.com/c360/merchproxy/errors"
)

// healthResponse is the body served at the root path.
type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// stockRequest wraps the product listings submitted for stock analysis.
type stockRequest struct {
	Products []analytics.Product `json:"products"`
}

// ordersRequest wraps the orders submitted for trend analysis.
type ordersRequest struct {
	Orders []analytics.Order `json:"orders"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed,
			fmt.Sprintf("method %s not allowed", r.Method))
		return
	}

	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.version,
	})
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	const route = "graphql"
	start := time.Now()

	if r.Method != http.MethodPost {
		s.recordRequest(route, http.StatusMethodNotAllowed, start)
		s.writeError(w, http.StatusMethodNotAllowed,
			fmt.Sprintf("method %s not allowed", r.Method))
		return
	}

	if s.limiter != nil && !s.limiter.Allow() {
		s.recordRequest(route, http.StatusTooManyRequests, start)
		s.writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	body, ok := s.readBody(w, r, route, start)
	if !ok {
		return
	}

	result, err := s.forwarder.Forward(r.Context(), body)
	if err != nil {
		status := errors.HTTPStatus(err)
		s.logger.Error("proxy request failed",
			"error", err, "status", status, "elapsed", time.Since(start))
		if s.metrics != nil {
			s.metrics.RecordError(route, errors.Classify(err).String())
		}
		s.recordRequest(route, status, start)
		s.writeError(w, status, sanitizeError(err))
		return
	}

	if result.Cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}

	s.recordRequest(route, result.Status, start)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(result.Status)
	_, _ = w.Write(result.Body)
}

func (s *Server) handleAnalyzeStock(w http.ResponseWriter, r *http.Request) {
	const route = "analyze_stock"
	start := time.Now()

	if r.Method != http.MethodPost {
		s.recordRequest(route, http.StatusMethodNotAllowed, start)
		s.writeError(w, http.StatusMethodNotAllowed,
			fmt.Sprintf("method %s not allowed", r.Method))
		return
	}

	body, ok := s.readBody(w, r, route, start)
	if !ok {
		return
	}

	if err := validateStockBody(body); err != nil {
		s.recordRequest(route, http.StatusBadRequest, start)
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req stockRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.recordRequest(route, http.StatusBadRequest, start)
		s.writeError(w, http.StatusBadRequest, "malformed products payload")
		return
	}

	insights := analytics.AnalyzeStockLevels(req.Products)
	s.recordRequest(route, http.StatusOK, start)
	s.writeJSON(w, http.StatusOK, insights)
}

func (s *Server) handleAnalyzeOrders(w http.ResponseWriter, r *http.Request) {
	const route = "analyze_orders"
	start := time.Now()

	if r.Method != http.MethodPost {
		s.recordRequest(route, http.StatusMethodNotAllowed, start)
		s.writeError(w, http.StatusMethodNotAllowed,
			fmt.Sprintf("method %s not allowed", r.Method))
		return
	}

	body, ok := s.readBody(w, r, route, start)
	if !ok {
		return
	}

	if err := validateOrdersBody(body); err != nil {
		s.recordRequest(route, http.StatusBadRequest, start)
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req ordersRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.recordRequest(route, http.StatusBadRequest, start)
		s.writeError(w, http.StatusBadRequest, "malformed orders payload")
		return
	}

	trends := analytics.AnalyzeOrderTrends(req.Orders)
	s.recordRequest(route, http.StatusOK, start)
	s.writeJSON(w, http.StatusOK, trends)
}

// readBody reads the request body under the configured size limit.
// On failure it writes the error response and returns ok=false.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request, route string, start time.Time) ([]byte, bool) {
	defer r.Body.Close()

	// Limit + 1 so an oversized body is detectable
	bodyReader := io.LimitReader(r.Body, s.config.MaxRequestSize+1)
	body, err := io.ReadAll(bodyReader)
	if err != nil {
		s.recordRequest(route, http.StatusBadRequest, start)
		s.writeError(w, http.StatusBadRequest, "failed to read request body")
		return nil, false
	}

	if int64(len(body)) > s.config.MaxRequestSize {
		s.recordRequest(route, http.StatusRequestEntityTooLarge, start)
		s.writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request body exceeds maximum size of %d bytes", s.config.MaxRequestSize))
		return nil, false
	}

	return body, true
}

func (s *Server) recordRequest(route string, status int, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordRequest(route, strconv.Itoa(status))
	s.metrics.RecordRequestDuration(route, time.Since(start))
}

// requestIDMiddleware propagates or generates an X-Request-ID for tracing.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

// recoveryMiddleware converts handler panics into 500 responses so no
// unhandled panic takes down the server.
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("handler panic recovered",
					"panic", rec, "path", r.URL.Path)
				s.writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware adds CORS headers and answers preflight requests.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		allowed := false
		for _, allowedOrigin := range s.config.CORSOrigins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				allowed = true
				break
			}
		}

		if allowed {
			if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			} else {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// sanitizeError returns a safe error message for external clients.
// Upstream hostnames and token details stay in the logs.
func sanitizeError(err error) string {
	if err == nil {
		return "internal server error"
	}

	switch errors.Classify(err) {
	case errors.ErrorInvalid:
		if stderrors.Is(err, errors.ErrMissingQuery) {
			return "query field is required"
		}
		return "invalid request"
	case errors.ErrorConfig:
		return "service misconfigured"
	case errors.ErrorUpstream:
		if stderrors.Is(err, errors.ErrUpstreamTimeout) {
			return "upstream request timed out"
		}
		return "upstream service unavailable"
	default:
		return "internal server error"
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encoding failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := map[string]any{
		"error":  message,
		"status": statusCode,
	}

	data, _ := json.Marshal(response)
	_, _ = w.Write(data)
}
