package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucketLimiter_BurstThenDeny(t *testing.T) {
	limiter := NewTokenBucketLimiter(1, 3, 0)

	for i := 0; i < 3; i++ {
		allowed, _ := limiter.Allow("client")
		assert.True(t, allowed, "request %d within burst", i)
	}

	allowed, info := limiter.Allow("client")
	assert.False(t, allowed)
	assert.Zero(t, info.Remaining)
	assert.Equal(t, 3, info.Limit)
}

func TestTokenBucketLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewTokenBucketLimiter(1, 1, 0)

	allowed, _ := limiter.Allow("a")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("a")
	require.False(t, allowed)

	allowed, _ = limiter.Allow("b")
	assert.True(t, allowed, "a second client has its own bucket")
}

func TestRateLimit_Middleware(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	limiter := NewTokenBucketLimiter(1, 1, 0)
	handler := RateLimit(limiter, cfg)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/decks", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, req)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Contains(t, second.Body.String(), "rate limit exceeded")
}

func TestRateLimit_SkipPaths(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	limiter := NewTokenBucketLimiter(1, 1, 0)
	handler := RateLimit(limiter, cfg)(okHandler())

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestDefaultRateLimitConfig(t *testing.T) {
	cfg := DefaultRateLimitConfig()

	assert.Equal(t, float64(10), cfg.RequestsPerSecond)
	assert.Equal(t, 20, cfg.BurstSize)
	assert.Contains(t, cfg.SkipPaths, "/healthz")
	assert.Contains(t, cfg.SkipPaths, "/metrics")
}

func TestRateLimit_KeyFromForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7")

	assert.Equal(t, "203.0.113.7", defaultKeyFunc(req))
}

//Personal.AI order the ending
