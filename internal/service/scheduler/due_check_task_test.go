package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeDueChecker 只实现 DueCheck
type fakeDueChecker struct {
	Service
	res DueCheckResult
	err error
}

func (f *fakeDueChecker) DueCheck(_ context.Context, _ time.Time) (DueCheckResult, error) {
	return f.res, f.err
}

func TestDueCheckTask_Check(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		res      DueCheckResult
		err      error
		wantWait bool
		wantErr  bool
	}{
		// 其他实例抢走了大部分记录，也要按取到的条数判断
		{name: "取满一批马上继续", res: DueCheckResult{Fetched: 5, Dispatched: 1}},
		{name: "没取满等待下一轮", res: DueCheckResult{Fetched: 4, Dispatched: 4}, wantWait: true},
		{name: "没有到期记录", wantWait: true},
		{name: "出错等待下一轮", res: DueCheckResult{Fetched: 5}, err: errors.New("db down"), wantWait: true, wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			task := NewDueCheckTask(nil, &fakeDueChecker{res: tc.res, err: tc.err}, time.Hour, 5)

			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()
			start := time.Now()
			err := task.check(ctx)
			waited := time.Since(start) >= 50*time.Millisecond
			assert.Equal(t, tc.wantWait, waited)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewDueCheckTask_DefaultBatchSize(t *testing.T) {
	t.Parallel()
	task := NewDueCheckTask(nil, &fakeDueChecker{}, 0, 0)
	assert.Equal(t, DefaultBatchSize, task.batchSize)
	assert.Equal(t, time.Minute, task.interval)
}
