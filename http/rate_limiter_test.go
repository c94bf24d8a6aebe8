package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ecopulse/repository"
	"ecopulse/service"
)

func TestRateLimiter_CapacityAndRefill(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()
	rl.now = func() time.Time { return now }
	ctx := context.Background()

	assert.True(t, rl.Allow(ctx, "10.0.0.1"))
	assert.True(t, rl.Allow(ctx, "10.0.0.1"))
	assert.False(t, rl.Allow(ctx, "10.0.0.1"))
	assert.True(t, rl.Allow(ctx, "10.0.0.2"), "other clients keep their own bucket")

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow(ctx, "10.0.0.1"))
}

func TestRateLimiter_CleanupDropsStaleBuckets(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()
	rl.now = func() time.Time { return now }

	rl.Allow(context.Background(), "10.0.0.1")
	now = now.Add(2 * time.Hour)
	rl.cleanup()

	assert.Empty(t, rl.clients)
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}

// countingCounter ignores the window; the tests never outlive it.
type countingCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (c *countingCounter) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = map[string]int64{}
	}
	c.counts[key]++
	return c.counts[key], nil
}

func (c *countingCounter) Ping(context.Context) error { return nil }

type failingCounter struct{}

func (failingCounter) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("redis down")
}

func (failingCounter) Ping(context.Context) error { return errors.New("redis down") }

func TestCounterLimiter(t *testing.T) {
	limiter := NewCounterLimiter(&countingCounter{}, 1, time.Minute)
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, "10.0.0.1"))
	assert.False(t, limiter.Allow(ctx, "10.0.0.1"))
}

func TestCounterLimiter_FailsOpen(t *testing.T) {
	limiter := NewCounterLimiter(failingCounter{}, 1, time.Minute)

	assert.True(t, limiter.Allow(context.Background(), "10.0.0.1"))
	assert.True(t, limiter.Allow(context.Background(), "10.0.0.1"))
}

func TestRateLimitMiddleware_OnAnalyze(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	defer limiter.Stop()

	router := NewRouter(RouterConfig{
		Service:        service.NewAnalysisService(repository.NewSubmissionRepositoryMemory()),
		MaxUploadBytes: 1 << 20,
		Limiter:        limiter,
	})

	send := func(method, target string) int {
		req := httptest.NewRequest(method, target, nil)
		req.RemoteAddr = "192.0.2.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send(http.MethodPost, "/analyze"))
	assert.Equal(t, http.StatusTooManyRequests, send(http.MethodPost, "/analyze"))
	assert.Equal(t, http.StatusOK, send(http.MethodGet, "/"), "root is not throttled")
}

func TestRateLimitMiddleware_IgnoresForwardingHeaders(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	defer limiter.Stop()

	router := NewRouter(RouterConfig{
		Service:        service.NewAnalysisService(repository.NewSubmissionRepositoryMemory()),
		MaxUploadBytes: 1 << 20,
		Limiter:        limiter,
	})

	allowed := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		req.Header.Set("X-Real-IP", fmt.Sprintf("198.51.100.%d", i))
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code == http.StatusOK {
			allowed++
		} else {
			assert.Equal(t, http.StatusTooManyRequests, w.Code)
		}
	}

	assert.Equal(t, 1, allowed)
	assert.Len(t, limiter.clients, 1)
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", clientKey(req))

	req.RemoteAddr = "192.0.2.9"
	assert.Equal(t, "192.0.2.9", clientKey(req))
}
