package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"asset-qr/pkg/logger"

	"github.com/stretchr/testify/assert"
)

type fakeLimiter struct {
	allowed bool
	err     error
}

func (f fakeLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	return f.allowed, 0, time.Now().Add(time.Minute), f.err
}

func (f fakeLimiter) MaxRequests() int { return 10 }

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimitMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		limiter  fakeLimiter
		wantCode int
	}{
		{"allowed", fakeLimiter{allowed: true}, http.StatusOK},
		{"limited", fakeLimiter{allowed: false}, http.StatusTooManyRequests},
		{"limiter down fails open", fakeLimiter{err: errors.New("redis down")}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/assets", nil)
			w := httptest.NewRecorder()

			RateLimitMiddleware(tt.limiter)(okHandler).ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusTooManyRequests {
				assert.NotEmpty(t, w.Header().Get("Retry-After"))
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestID(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/health/live", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/health/live", nil)
		req.Header.Set(RequestIDHeader, "req-1")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, "req-1", seen)
		assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
	})
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	called := false
	h := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("OPTIONS", "/assets", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "apikey")
	assert.False(t, called)
}

func TestSimplifyEndpoint(t *testing.T) {
	tests := map[string]string{
		"/assets":               "/assets",
		"/assets/abc-123":       "/assets/:id",
		"/assets/abc-123/stats": "/assets/:id/stats",
		"/api/v1/codes":         "/api/v1/codes",
		"/view":                 "/view",
		"/scan/view":            "/view",
		"/health/live":          "/health/live",
		"/metrics":              "/metrics",
		"/wp-login.php":         "other",
	}

	for path, want := range tests {
		assert.Equal(t, want, simplifyEndpoint(path), path)
	}
}

func TestExtractIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", extractIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", extractIP(req))
}
