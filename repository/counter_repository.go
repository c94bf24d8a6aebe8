package repository

import (
	"context"
	"time"
)

// CounterRepository keeps counters that reset once their window elapses.
type CounterRepository interface {
	// Incr increments key and returns the new value. The window starts
	// with the first increment.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	Ping(ctx context.Context) error
}
