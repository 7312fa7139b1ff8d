package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"asset-qr/internal/metrics"
	"asset-qr/pkg/logger"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID to and from clients.
const RequestIDHeader = "X-Request-ID"

// LoggingMiddleware logs HTTP requests with structured logging
func LoggingMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Create a response writer wrapper to capture status code
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			// Call the next handler
			next.ServeHTTP(wrapped, r)

			// Log after the request is processed
			duration := time.Since(start)
			log.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", duration.Milliseconds(),
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"request_id", wrapped.Header().Get(RequestIDHeader),
			)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RequestIDMiddleware adds a unique request ID to each request.
// An ID sent by the client (or a proxy in front of us) is kept.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, requestID)

		ctx := logger.ContextWithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFrom(r *http.Request) string {
	return logger.RequestID(r.Context())
}

// RecoveryMiddleware recovers from panics and returns a 500 error
// This prevents the entire server from crashing due to a panic in a handler
func RecoveryMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Error("Panic recovered",
						"error", err,
						"path", r.URL.Path,
						"method", r.Method,
					)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware adds CORS headers
// The generator page may be served from anywhere, so every origin is allowed.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Chain combines multiple middleware functions
// This is a helper to make middleware composition cleaner
func Chain(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		// Apply middleware in reverse order so they execute in the order specified
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// RateLimitMiddleware limits requests per client IP.
// It is applied to the write endpoints only; resolving a code is never limited.
func RateLimitMiddleware(limiter RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := extractIP(r)

			// Check rate limit
			allowed, remaining, resetTime, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				// If rate limiting fails, allow the request (fail open)
				// This prevents rate limiting issues from breaking the service
				next.ServeHTTP(w, r)
				return
			}

			// Set rate limit headers (standard practice)
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limiter.MaxRequests()))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", resetTime.Unix()))

			if !allowed {
				// Rate limit exceeded
				retryAfter := int(time.Until(resetTime).Seconds())
				if retryAfter < 0 {
					retryAfter = 0
				}

				metrics.RecordRateLimited()

				w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}

			// Request allowed
			metrics.RecordRateLimitAllowed()
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimiter interface for rate limiting
type RateLimiter interface {
	Allow(ctx context.Context, key string) (allowed bool, remaining int, resetTime time.Time, err error)
	MaxRequests() int
}

// extractIP extracts the client IP address from the request
// Handles X-Forwarded-For header for proxies/load balancers
func extractIP(r *http.Request) string {
	// Check X-Forwarded-For header (set by proxies)
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		// X-Forwarded-For can contain multiple IPs, take the first one
		ips := strings.Split(forwarded, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	// Check X-Real-IP header (set by some proxies)
	realIP := r.Header.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	// Fall back to RemoteAddr
	// Remove port if present (e.g., "127.0.0.1:12345" -> "127.0.0.1")
	ip := r.RemoteAddr
	if colonIndex := strings.LastIndex(ip, ":"); colonIndex != -1 {
		ip = ip[:colonIndex]
	}

	return ip
}

// MetricsMiddleware records Prometheus metrics for HTTP requests
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Track in-flight requests
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		// Process request
		next.ServeHTTP(wrapped, r)

		// Record metrics
		duration := time.Since(start).Seconds()
		status := strconv.Itoa(wrapped.statusCode)

		// Simplify endpoint for better cardinality
		endpoint := simplifyEndpoint(r.URL.Path)

		metrics.HTTPRequestDuration.WithLabelValues(
			r.Method,
			endpoint,
			status,
		).Observe(duration)

		metrics.HTTPRequestsTotal.WithLabelValues(
			r.Method,
			endpoint,
			status,
		).Inc()
	})
}

// simplifyEndpoint reduces cardinality by grouping similar endpoints
func simplifyEndpoint(path string) string {
	switch {
	case path == "/assets":
		return "/assets"
	case strings.HasPrefix(path, "/assets/") && strings.HasSuffix(path, "/stats"):
		return "/assets/:id/stats"
	case strings.HasPrefix(path, "/assets/"):
		return "/assets/:id"
	case path == "/api/v1/codes":
		return "/api/v1/codes"
	case path == "/health/live", path == "/metrics":
		return path
	case strings.HasSuffix(path, "/view"):
		// the viewer path is configurable
		return "/view"
	default:
		return "other"
	}
}
