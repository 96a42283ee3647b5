package local

import (
	"context"
	"testing"
	"time"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateCache_GetSet(t *testing.T) {
	t.Parallel()
	c := NewTemplateCache(nil, time.Minute)
	ctx := context.Background()

	_, err := c.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	tpl := domain.Template{ID: 1, Channel: domain.ChannelSMS, Name: "welcome", Message: "hi {customer_name}"}
	require.NoError(t, c.Set(ctx, tpl))
	got, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, tpl, got)

	require.NoError(t, c.Delete(ctx, 1))
	_, err = c.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestTemplateCache_InvalidateOtherInstance(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	newClient := func() *redis.Client {
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })
		return rdb
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := NewTemplateCache(newClient(), time.Minute)
	b := NewTemplateCache(newClient(), time.Minute)
	go b.Start(ctx)

	tpl := domain.Template{ID: 7, Channel: domain.ChannelEmail, Name: "reminder", Message: "x"}
	require.NoError(t, a.Set(ctx, tpl))
	require.NoError(t, b.Set(ctx, tpl))

	// 等待订阅建立之后再广播
	require.Eventually(t, func() bool {
		return len(mr.PubSubChannels("*")) > 0
	}, time.Second, 10*time.Millisecond)
	require.NoError(t, a.Delete(ctx, 7))

	assert.Eventually(t, func() bool {
		_, err := b.Get(ctx, 7)
		return err != nil
	}, time.Second, 10*time.Millisecond)
}
