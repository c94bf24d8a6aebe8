package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrWindow increments KEYS[1] and gives it a TTL of ARGV[1] milliseconds
// when it has none, in one atomic step. Keys left without a TTL heal on
// the next call.
var incrWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(addr string) *RedisCounter {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCounter{client: rdb}
}

func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	return incrWindow.Run(ctx, r.client, []string{key}, window.Milliseconds()).Int64()
}

func (r *RedisCounter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCounter) Close() error {
	return r.client.Close()
}
