package http

import (
	"context"
	"log"
	"time"

	"ecopulse/repository"
)

const counterKeyPrefix = "ecopulse:ratelimit:"

// CounterLimiter is a fixed-window limiter on top of a shared counter store,
// so every replica sees the same budget per client.
type CounterLimiter struct {
	counter repository.CounterRepository
	limit   int64
	window  time.Duration
}

func NewCounterLimiter(counter repository.CounterRepository, limit int, window time.Duration) *CounterLimiter {
	return &CounterLimiter{
		counter: counter,
		limit:   int64(limit),
		window:  window,
	}
}

// Allow lets the request through when the counter store is unreachable.
func (l *CounterLimiter) Allow(ctx context.Context, key string) bool {
	n, err := l.counter.Incr(ctx, counterKeyPrefix+key, l.window)
	if err != nil {
		log.Printf("Warning: rate limit counter unavailable: %v", err)
		return true
	}
	return n <= l.limit
}
