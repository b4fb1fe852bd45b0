package newsletter

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLimiterExpiryIncludesBoundary(t *testing.T) {
	limiter := NewRedisLimiter(nil, DefaultMaxRequests, DefaultWindow)
	assert.Equal(t, int64(60001), limiter.expiryMillis())
}

func TestRedisLimiter(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	rdb, err := OpenRedis(ctx, url)
	require.NoError(t, err)
	defer rdb.Close()

	limiter := NewRedisLimiter(rdb, 5, 500*time.Millisecond)
	key := fmt.Sprintf("test-%d", time.Now().UnixNano())

	for i := 1; i <= 5; i++ {
		ok, err := limiter.Allow(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d", i)
	}
	ok, err := limiter.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "sixth attempt should be blocked")

	ttl, err := rdb.PTTL(ctx, limiter.prefix+key).Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, 501*time.Millisecond)

	time.Sleep(600 * time.Millisecond)
	ok, err = limiter.Allow(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok, "attempt after window should be allowed")
}
