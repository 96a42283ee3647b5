package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	repomocks "gitee.com/autopuzzle/notification-center/internal/repository/mocks"
	"gitee.com/autopuzzle/notification-center/internal/service/auth"
	notificationmocks "gitee.com/autopuzzle/notification-center/internal/service/notification/mocks"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestStaleDispatchingTask_Do(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mock    func(t *testing.T, repo *repomocks.MockScheduledRepository)
		wantErr bool
	}{
		{
			name: "分批标记直到不满一批",
			mock: func(t *testing.T, repo *repomocks.MockScheduledRepository) {
				start := time.Now()
				gomock.InOrder(
					repo.EXPECT().MarkStaleDispatchingFailed(gomock.Any(), gomock.Any(), staleDispatchingReason, staleDispatchingBatchSize).
						DoAndReturn(func(_ context.Context, before time.Time, _ string, _ int) (int64, error) {
							assert.WithinDuration(t, start.Add(-time.Minute), before, 5*time.Second)
							return staleDispatchingBatchSize, nil
						}),
					repo.EXPECT().MarkStaleDispatchingFailed(gomock.Any(), gomock.Any(), staleDispatchingReason, staleDispatchingBatchSize).
						Return(int64(2), nil),
				)
			},
		},
		{
			name: "没有中断的记录",
			mock: func(t *testing.T, repo *repomocks.MockScheduledRepository) {
				repo.EXPECT().MarkStaleDispatchingFailed(gomock.Any(), gomock.Any(), staleDispatchingReason, staleDispatchingBatchSize).
					Return(int64(0), nil)
			},
		},
		{
			name: "数据库错误",
			mock: func(t *testing.T, repo *repomocks.MockScheduledRepository) {
				repo.EXPECT().MarkStaleDispatchingFailed(gomock.Any(), gomock.Any(), staleDispatchingReason, staleDispatchingBatchSize).
					Return(int64(0), errors.New("db down"))
			},
			wantErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			repo := repomocks.NewMockScheduledRepository(ctrl)
			tc.mock(t, repo)

			err := NewStaleDispatchingTask(repo, time.Minute).Do(context.Background())
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

// 抢占之后崩溃的记录被标记为失败，之后的检查不会再发送它
func TestStaleDispatchingTask_AfterCrash(t *testing.T) {
	t.Parallel()
	now := time.Now()
	repo := newMemScheduledRepo(domain.ScheduledNotification{
		ID: 1, Channel: domain.ChannelSMS, Recipient: domain.Single("09121234567"),
		Message: "a", ScheduledAt: now.Add(-time.Hour), Status: domain.ScheduleStatusWaiting,
	})
	ok, err := repo.Claim(context.Background(), 1)
	assert.NoError(t, err)
	assert.True(t, ok)
	repo.items[1].UpdatedAt = now.Add(-time.Hour)

	assert.NoError(t, NewStaleDispatchingTask(repo, time.Minute).Do(context.Background()))
	assert.Equal(t, domain.ScheduleStatusFailed, repo.status(1))
	assert.Equal(t, staleDispatchingReason, repo.items[1].ErrorMessage)

	ctrl := gomock.NewController(t)
	svc := NewService(repo, notificationmocks.NewMockService(ctrl), auth.NewRolePolicy(auth.DefaultGrants()), tehran, 0)
	res, err := svc.DueCheck(context.Background(), now)
	assert.NoError(t, err)
	assert.Zero(t, res.Fetched)
}
