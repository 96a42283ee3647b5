package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T, interval time.Duration, rate int) *RedisSlidingWindowLimiter {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
	})
	return NewRedisSlidingWindowLimiter(rdb, interval, rate)
}

func TestRedisSlidingWindowLimiter_Limit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	limiter := newLimiter(t, time.Minute, 3)

	for i := 0; i < 3; i++ {
		limited, err := limiter.Limit(ctx, "uid:1")
		require.NoError(t, err)
		assert.False(t, limited, "第 %d 个请求", i+1)
	}
	limited, err := limiter.Limit(ctx, "uid:1")
	require.NoError(t, err)
	assert.True(t, limited)

	// 不同的 key 互不影响
	limited, err = limiter.Limit(ctx, "uid:2")
	require.NoError(t, err)
	assert.False(t, limited)
}

func TestRedisSlidingWindowLimiter_WindowSlides(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	limiter := newLimiter(t, 50*time.Millisecond, 1)

	limited, err := limiter.Limit(ctx, "uid:1")
	require.NoError(t, err)
	assert.False(t, limited)
	limited, err = limiter.Limit(ctx, "uid:1")
	require.NoError(t, err)
	assert.True(t, limited)

	time.Sleep(80 * time.Millisecond)
	limited, err = limiter.Limit(ctx, "uid:1")
	require.NoError(t, err)
	assert.False(t, limited)
}
