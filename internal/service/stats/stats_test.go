package stats

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
	repomocks "gitee.com/autopuzzle/notification-center/internal/repository/mocks"
	"gitee.com/autopuzzle/notification-center/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	tehran = time.FixedZone("Asia/Tehran", 3*3600+1800)
	admin  = domain.Caller{UserID: 1, Roles: []string{domain.RoleAdministrator}}
	expert = domain.Caller{UserID: 2, Roles: []string{domain.RoleExpert}}
)

func newTestService(repo *repomocks.MockNotificationLogRepository, now time.Time) *statsService {
	svc := NewService(repo, auth.NewRolePolicy(auth.DefaultGrants()), tehran).(*statsService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestStatsService_Stats(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	repo := repomocks.NewMockNotificationLogRepository(ctrl)
	repo.EXPECT().Stats(gomock.Any(), domain.LogFilter{Channel: domain.ChannelSMS}).Return(domain.NewStats(), nil)

	svc := newTestService(repo, time.Now())
	res, err := svc.Stats(context.Background(), expert, domain.LogFilter{Channel: domain.ChannelSMS, Status: domain.LogStatusSent})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
	assert.Equal(t, int64(0), res.SentByChannel[domain.ChannelEmail])

	_, err = svc.Stats(context.Background(), domain.Caller{UserID: 3, Roles: []string{domain.RoleCustomer}}, domain.LogFilter{})
	assert.ErrorIs(t, err, errs.ErrPermissionDenied)
}

func TestStatsService_Timeline(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 20, 15, 0, 0, 0, tehran)
	day := func(d int) time.Time {
		return time.Date(2024, 3, d, 0, 0, 0, 0, tehran)
	}

	testCases := []struct {
		name       string
		filter     domain.LogFilter
		counts     []domain.DailyCount
		wantSince  time.Time
		wantUntil  time.Time
		wantLabels int
		check      func(t *testing.T, tl domain.Timeline)
	}{
		{
			name:       "默认最近30天并补0",
			counts:     []domain.DailyCount{{Day: day(20), Status: domain.LogStatusSent, Count: 4}, {Day: day(20), Status: domain.LogStatusFailed, Count: 1}},
			wantSince:  day(21).AddDate(0, 0, -30),
			wantUntil:  day(21),
			wantLabels: 30,
			check: func(t *testing.T, tl domain.Timeline) {
				assert.Equal(t, "2024/02/20", tl.Labels[0])
				assert.Equal(t, "2024/03/20", tl.Labels[29])
				assert.Equal(t, int64(4), tl.Sent[29])
				assert.Equal(t, int64(1), tl.Failed[29])
				assert.Equal(t, int64(0), tl.Pending[29])
				assert.Equal(t, int64(0), tl.Sent[0])
			},
		},
		{
			name:       "指定区间",
			filter:     domain.LogFilter{Since: day(1), Until: day(4)},
			counts:     []domain.DailyCount{{Day: day(2), Status: domain.LogStatusPending, Count: 2}},
			wantSince:  day(1),
			wantUntil:  day(4),
			wantLabels: 3,
			check: func(t *testing.T, tl domain.Timeline) {
				assert.Equal(t, []string{"2024/03/01", "2024/03/02", "2024/03/03"}, tl.Labels)
				assert.Equal(t, []int64{0, 2, 0}, tl.Pending)
				assert.Equal(t, []int64{0, 0, 0}, tl.Sent)
			},
		},
		{
			name:       "没有数据",
			filter:     domain.LogFilter{Since: day(1), Until: day(3)},
			wantSince:  day(1),
			wantUntil:  day(3),
			wantLabels: 2,
			check: func(t *testing.T, tl domain.Timeline) {
				assert.Equal(t, []int64{0, 0}, tl.Sent)
				assert.Equal(t, []int64{0, 0}, tl.Failed)
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			repo := repomocks.NewMockNotificationLogRepository(ctrl)
			repo.EXPECT().CountByDay(gomock.Any(), gomock.Any(), tehran).
				DoAndReturn(func(_ context.Context, filter domain.LogFilter, _ *time.Location) ([]domain.DailyCount, error) {
					assert.True(t, filter.Since.Equal(tc.wantSince), filter.Since)
					assert.True(t, filter.Until.Equal(tc.wantUntil), filter.Until)
					return tc.counts, nil
				})

			tl, err := newTestService(repo, now).Timeline(context.Background(), admin, tc.filter)
			require.NoError(t, err)
			assert.Len(t, tl.Labels, tc.wantLabels)
			assert.Len(t, tl.Sent, tc.wantLabels)
			tc.check(t, tl)
		})
	}
}

func TestStatsService_Export(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 3, 20, 6, 30, 0, 0, time.UTC)
	sent := created.Add(5 * time.Second)

	testCases := []struct {
		name    string
		caller  domain.Caller
		filter  domain.LogFilter
		opts    ExportOptions
		logs    []domain.NotificationLog
		want    string
		wantErr error
	}{
		{
			name:   "短信",
			caller: admin,
			filter: domain.LogFilter{Channel: domain.ChannelSMS},
			logs: []domain.NotificationLog{
				{ID: 1, Channel: domain.ChannelSMS, Recipient: "09121234567", Message: "hi, there", Status: domain.LogStatusSent, CreatedAt: created, SentAt: sent},
				{ID: 2, Channel: domain.ChannelSMS, Recipient: "09121234568", Message: "hi", Status: domain.LogStatusPending, CreatedAt: created},
			},
			want: "\ufeffid,recipient,message,status,created_at,sent_at,error_message\n" +
				"1,09121234567,\"hi, there\",sent,2024-03-20 10:00:00,2024-03-20 10:00:05,\n" +
				"2,09121234568,hi,pending,2024-03-20 10:00:00,,\n",
		},
		{
			name:   "邮件拆出主题",
			caller: admin,
			filter: domain.LogFilter{Channel: domain.ChannelEmail},
			logs: []domain.NotificationLog{
				{ID: 3, Channel: domain.ChannelEmail, Recipient: "a@example.com", Message: domain.EncodeEmail("Reminder", "See you"),
					Status: domain.LogStatusFailed, ErrorMessage: "发送失败", CreatedAt: created},
			},
			want: "\ufeffid,recipient,subject,message,status,created_at,sent_at,error_message\n" +
				"3,a@example.com,Reminder,See you,failed,2024-03-20 10:00:00,,发送失败\n",
		},
		{
			name:   "波斯历时间",
			caller: admin,
			opts:   ExportOptions{Jalali: true},
			logs: []domain.NotificationLog{
				{ID: 4, Channel: domain.ChannelInApp, Recipient: "7", Message: "m", Status: domain.LogStatusSent, CreatedAt: created, SentAt: sent},
			},
			want: "\ufeffid,recipient,message,status,created_at,sent_at,error_message\n" +
				"4,7,m,sent,1403/01/01 10:00:00,1403/01/01 10:00:05,\n",
		},
		{
			name:    "专家不能导出",
			caller:  expert,
			wantErr: errs.ErrPermissionDenied,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			repo := repomocks.NewMockNotificationLogRepository(ctrl)
			if tc.wantErr == nil {
				repo.EXPECT().Stream(gomock.Any(), tc.filter, exportBatchSize, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ domain.LogFilter, _ int, fn func([]domain.NotificationLog) error) error {
						return fn(tc.logs)
					})
			}

			buf := &bytes.Buffer{}
			err := newTestService(repo, time.Now()).Export(context.Background(), tc.caller, tc.filter, tc.opts, buf)
			assert.ErrorIs(t, err, tc.wantErr)
			if tc.wantErr != nil {
				assert.Zero(t, buf.Len())
				return
			}
			assert.Equal(t, tc.want, buf.String())
		})
	}
}

func TestStatsService_ExportStreamError(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	repo := repomocks.NewMockNotificationLogRepository(ctrl)
	repo.EXPECT().Stream(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	err := newTestService(repo, time.Now()).Export(context.Background(), admin, domain.LogFilter{}, ExportOptions{}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestStatsService_QueryLogs(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	repo := repomocks.NewMockNotificationLogRepository(ctrl)
	filter := domain.LogFilter{Status: domain.LogStatusFailed, Search: "0912"}
	repo.EXPECT().Query(gomock.Any(), filter, 0, maxPageSize).Return([]domain.NotificationLog{{ID: 1}}, nil)
	repo.EXPECT().Count(gomock.Any(), filter).Return(int64(31), nil)

	logs, total, err := newTestService(repo, time.Now()).QueryLogs(context.Background(), expert, filter, -1, 1000)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
	assert.Equal(t, int64(31), total)

	_, _, err = newTestService(repo, time.Now()).QueryLogs(context.Background(), expert, domain.LogFilter{Status: "unknown"}, 0, 10)
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)
}

func TestParseDateRange(t *testing.T) {
	t.Parallel()

	since, until, err := ParseDateRange("1403/01/01", "۱۴۰۳/۰۱/۰۲", true, tehran)
	require.NoError(t, err)
	assert.True(t, since.Equal(time.Date(2024, 3, 20, 0, 0, 0, 0, tehran)))
	assert.True(t, until.Equal(time.Date(2024, 3, 22, 0, 0, 0, 0, tehran)))

	since, until, err = ParseDateRange("", "2024-03-20", false, tehran)
	require.NoError(t, err)
	assert.True(t, since.IsZero())
	assert.True(t, until.Equal(time.Date(2024, 3, 21, 0, 0, 0, 0, tehran)))

	_, _, err = ParseDateRange("2024-13-01", "", false, tehran)
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)
}
