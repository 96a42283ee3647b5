package idempotent

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*RedisIdempotencyService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisIdempotencyService(client, time.Hour), mr
}

func TestRedisIdempotencyService_Exists(t *testing.T) {
	t.Parallel()
	svc, mr := newTestService(t)
	ctx := context.Background()

	exists, err := svc.Exists(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = svc.Exists(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.Exists(ctx, "evt-2")
	require.NoError(t, err)
	assert.False(t, exists)

	// 过期之后可以再次处理
	mr.FastForward(time.Hour + time.Second)
	exists, err = svc.Exists(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRedisIdempotencyService_Forget(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	exists, err := svc.Exists(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, svc.Forget(ctx, "evt-1"))

	exists, err = svc.Exists(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRedisIdempotencyService_RedisDown(t *testing.T) {
	t.Parallel()
	svc, mr := newTestService(t)
	mr.Close()

	_, err := svc.Exists(context.Background(), "evt-1")
	assert.Error(t, err)
}
