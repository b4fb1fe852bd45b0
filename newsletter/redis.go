package newsletter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// The first INCR of a key starts its window; later requests in the window
// only count. Rejected requests are counted too, which cannot change the
// outcome because the counter is already at max.
var fixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if count > tonumber(ARGV[2]) then
	return 0
end
return 1
`)

// RedisLimiter is a fixed-window limiter shared by every process using the
// same Redis. Keys expire with their window, so no sweep is needed.
type RedisLimiter struct {
	rdb    *redis.Client
	prefix string
	max    int
	window time.Duration
}

// NewRedisLimiter creates a limiter allowing max requests per key per window.
func NewRedisLimiter(rdb *redis.Client, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		rdb:    rdb,
		prefix: "strive:newsletter:rl:",
		max:    max,
		window: window,
	}
}

// expiryMillis is the key TTL. A request exactly one window after the first
// is still inside the window, matching FixedWindow.
func (l *RedisLimiter) expiryMillis() int64 {
	return l.window.Milliseconds() + 1
}

// Allow implements Limiter.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := fixedWindowScript.Run(ctx, l.rdb, []string{l.prefix + key}, l.expiryMillis(), l.max).Int()
	if err != nil {
		return false, fmt.Errorf("newsletter: redis limiter: %w", err)
	}
	return n == 1, nil
}

// OpenRedis connects to the Redis server at url (redis://...).
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("newsletter: parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("newsletter: ping redis: %w", err)
	}
	return rdb, nil
}
