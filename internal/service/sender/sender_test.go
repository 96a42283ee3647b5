package sender

import (
	"context"
	"errors"
	"testing"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
	repomocks "gitee.com/autopuzzle/notification-center/internal/repository/mocks"
	channelmocks "gitee.com/autopuzzle/notification-center/internal/service/channel/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var logIDs = map[string]int64{
	"09120000001": 1,
	"09120000002": 2,
	"09120000003": 3,
}

func TestSender_Send(t *testing.T) {
	t.Parallel()

	tmpl := domain.NotificationLog{Channel: domain.ChannelSMS, Message: "hello", RelatedID: 5, UserID: 1}
	recipients := []string{"09120000001", "09120000002", "09120000003"}

	testCases := []struct {
		name       string
		mock       func(repo *repomocks.MockNotificationLogRepository, ch *channelmocks.MockChannel)
		wantSent   int
		wantFailed int
		wantStatus []domain.LogStatus
		wantErr    bool
	}{
		{
			name: "部分失败不影响其他接收者",
			mock: func(repo *repomocks.MockNotificationLogRepository, ch *channelmocks.MockChannel) {
				repo.EXPECT().Append(gomock.Any(), gomock.Any()).Times(3).
					DoAndReturn(func(_ context.Context, log domain.NotificationLog) (int64, error) {
						assert.Equal(t, domain.LogStatusPending, log.Status)
						assert.Equal(t, int64(5), log.RelatedID)
						return logIDs[log.Recipient], nil
					})
				ch.EXPECT().Send(gomock.Any(), gomock.Any()).Times(3).
					DoAndReturn(func(_ context.Context, msg domain.Message) error {
						if msg.Recipient == "09120000002" {
							return errs.ErrInvalidRecipient
						}
						return nil
					})
				repo.EXPECT().MarkSent(gomock.Any(), int64(1)).Return(nil)
				repo.EXPECT().MarkSent(gomock.Any(), int64(3)).Return(nil)
				repo.EXPECT().MarkFailed(gomock.Any(), int64(2), errs.ErrInvalidRecipient.Error()).Return(nil)
			},
			wantSent:   2,
			wantFailed: 1,
			wantStatus: []domain.LogStatus{domain.LogStatusSent, domain.LogStatusFailed, domain.LogStatusSent},
		},
		{
			name: "写记录失败的接收者不发送",
			mock: func(repo *repomocks.MockNotificationLogRepository, ch *channelmocks.MockChannel) {
				repo.EXPECT().Append(gomock.Any(), gomock.Any()).Times(3).
					DoAndReturn(func(_ context.Context, log domain.NotificationLog) (int64, error) {
						if log.Recipient == "09120000003" {
							return 0, errors.New("db down")
						}
						return logIDs[log.Recipient], nil
					})
				ch.EXPECT().Send(gomock.Any(), gomock.Any()).Times(2).Return(nil)
				repo.EXPECT().MarkSent(gomock.Any(), gomock.Any()).Times(2).Return(nil)
			},
			wantSent:   2,
			wantFailed: 1,
			wantStatus: []domain.LogStatus{domain.LogStatusSent, domain.LogStatusSent, domain.LogStatusFailed},
			wantErr:    true,
		},
		{
			name: "回写失败",
			mock: func(repo *repomocks.MockNotificationLogRepository, ch *channelmocks.MockChannel) {
				repo.EXPECT().Append(gomock.Any(), gomock.Any()).Times(3).
					DoAndReturn(func(_ context.Context, log domain.NotificationLog) (int64, error) {
						return logIDs[log.Recipient], nil
					})
				ch.EXPECT().Send(gomock.Any(), gomock.Any()).Times(3).Return(nil)
				repo.EXPECT().MarkSent(gomock.Any(), gomock.Any()).Times(3).
					DoAndReturn(func(_ context.Context, id int64) error {
						if id == 1 {
							return errs.ErrLogStatusConflict
						}
						return nil
					})
			},
			wantSent:   3,
			wantStatus: []domain.LogStatus{domain.LogStatusSent, domain.LogStatusSent, domain.LogStatusSent},
			wantErr:    true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			repo := repomocks.NewMockNotificationLogRepository(ctrl)
			ch := channelmocks.NewMockChannel(ctrl)
			tc.mock(repo, ch)

			res, err := NewSender(repo, ch, 2).Send(context.Background(), tmpl, recipients)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, 3, res.Total)
			assert.Equal(t, tc.wantSent, res.Sent)
			assert.Equal(t, tc.wantFailed, res.Failed)
			require.Len(t, res.Outcomes, 3)
			for i, o := range res.Outcomes {
				assert.Equal(t, recipients[i], o.Recipient)
				assert.Equal(t, tc.wantStatus[i], o.Status)
			}
		})
	}
}

func TestSender_Resend(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	repo := repomocks.NewMockNotificationLogRepository(ctrl)
	ch := channelmocks.NewMockChannel(ctrl)

	log := domain.NotificationLog{ID: 7, Channel: domain.ChannelEmail, Recipient: "a@example.com",
		Message: domain.EncodeEmail("Hi", "body"), Status: domain.LogStatusPending}
	ch.EXPECT().Send(gomock.Any(), domain.Message{
		LogID: 7, Channel: domain.ChannelEmail, Recipient: "a@example.com", Content: log.Message,
	}).Return(errs.ErrSendTimeout)
	repo.EXPECT().MarkFailed(gomock.Any(), int64(7), errs.ErrSendTimeout.Error()).Return(nil)

	outcome, err := NewSender(repo, ch, 0).Resend(context.Background(), log)
	require.NoError(t, err)
	assert.Equal(t, domain.LogStatusFailed, outcome.Status)
	assert.Equal(t, errs.ErrSendTimeout.Error(), outcome.ErrorMessage)
	assert.Equal(t, int64(7), outcome.LogID)
}
