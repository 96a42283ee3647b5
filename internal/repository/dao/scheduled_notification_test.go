package dao

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitee.com/autopuzzle/notification-center/internal/errs"
)

func TestScheduledNotificationDAO_Claim(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "抢占成功", affected: 1, want: true},
		{name: "已经被别人抢占", affected: 0, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			db, mock := newMockDB(t)
			mock.ExpectExec("UPDATE `scheduled_notifications` SET .* WHERE id = \\? AND status = \\?").
				WillReturnResult(sqlmock.NewResult(0, tc.affected))

			ok, err := NewScheduledNotificationDAO(db).Claim(context.Background(), 7)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestScheduledNotificationDAO_DeleteWaiting(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "删除成功",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM `scheduled_notifications`").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "已经开始发送，不能取消",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM `scheduled_notifications`").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("SELECT \\* FROM `scheduled_notifications`").
					WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(7, "dispatching"))
			},
			wantErr: errs.ErrScheduleNotCancelable,
		},
		{
			name: "记录不存在",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM `scheduled_notifications`").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("SELECT \\* FROM `scheduled_notifications`").
					WillReturnRows(sqlmock.NewRows([]string{"id", "status"}))
			},
			wantErr: errs.ErrScheduleNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			db, mock := newMockDB(t)
			tc.mock(mock)

			err := NewScheduledNotificationDAO(db).DeleteWaiting(context.Background(), 7)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestScheduledNotificationDAO_FindDue(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `scheduled_notifications` WHERE status = \\? AND scheduled_at <= \\? ORDER BY scheduled_at ASC, id ASC LIMIT \\?").
		WithArgs("waiting", int64(1000), 100).
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "scheduled_at", "status"}).
			AddRow(1, "sms", 900, "waiting").
			AddRow(2, "email", 950, "waiting"))

	res, err := NewScheduledNotificationDAO(db).FindDue(context.Background(), 1000, 100)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, int64(1), res[0].ID)
	assert.Equal(t, int64(950), res[1].ScheduledAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledNotificationDAO_MarkStaleDispatchingFailed(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantCnt int64
	}{
		{
			name: "标记中断的记录",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT `id` FROM `scheduled_notifications` WHERE status = \\? AND utime < \\?").
					WithArgs("dispatching", int64(1000), 100).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
				mock.ExpectExec("UPDATE `scheduled_notifications` SET .* WHERE id IN \\(\\?,\\?\\) AND status = \\?").
					WillReturnResult(sqlmock.NewResult(0, 2))
			},
			wantCnt: 2,
		},
		{
			name: "没有中断的记录",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT `id` FROM `scheduled_notifications`").
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			db, mock := newMockDB(t)
			tc.mock(mock)

			cnt, err := NewScheduledNotificationDAO(db).MarkStaleDispatchingFailed(context.Background(), 1000, "中断", 100)
			require.NoError(t, err)
			assert.Equal(t, tc.wantCnt, cnt)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
