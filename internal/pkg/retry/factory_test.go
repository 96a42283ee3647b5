package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRetry(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "固定间隔",
			cfg:  Config{Type: "fixed", FixedInterval: &FixedIntervalConfig{MaxRetries: 3, Interval: 10}},
		},
		{
			name: "指数退避",
			cfg:  DefaultConfig(),
		},
		{
			name:    "缺少配置",
			cfg:     Config{Type: "fixed"},
			wantErr: true,
		},
		{
			name:    "未知类型",
			cfg:     Config{Type: "random"},
			wantErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s, err := NewRetry(tc.cfg)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, s)
		})
	}
}

func TestDo(t *testing.T) {
	t.Parallel()
	errBiz := errors.New("biz error")
	cfg := Config{Type: "fixed", FixedInterval: &FixedIntervalConfig{MaxRetries: 3, Interval: 1}}

	t.Run("重试后成功", func(t *testing.T) {
		t.Parallel()
		s, err := NewRetry(cfg)
		require.NoError(t, err)
		cnt := 0
		err = Do(t.Context(), s, func(ctx context.Context) error {
			cnt++
			if cnt < 3 {
				return errBiz
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, cnt)
	})

	t.Run("重试耗尽", func(t *testing.T) {
		t.Parallel()
		s, err := NewRetry(cfg)
		require.NoError(t, err)
		cnt := 0
		err = Do(t.Context(), s, func(ctx context.Context) error {
			cnt++
			return errBiz
		})
		assert.ErrorIs(t, err, errBiz)
		assert.Equal(t, 4, cnt)
	})

	t.Run("ctx 取消", func(t *testing.T) {
		t.Parallel()
		s, err := NewRetry(Config{Type: "fixed", FixedInterval: &FixedIntervalConfig{MaxRetries: 3, Interval: int(time.Hour / time.Millisecond)}})
		require.NoError(t, err)
		ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
		defer cancel()
		err = Do(ctx, s, func(ctx context.Context) error {
			return errBiz
		})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.ErrorIs(t, err, errBiz)
	})
}
