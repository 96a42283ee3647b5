package inapp

import (
	"context"
	"errors"
	"testing"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
	repomocks "gitee.com/autopuzzle/notification-center/internal/repository/mocks"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestProvider_Send(t *testing.T) {
	t.Parallel()

	msg := domain.Message{LogID: 9, Channel: domain.ChannelInApp, Recipient: "42", Content: "Your inquiry was approved", RelatedID: 7}

	testCases := []struct {
		name      string
		recipient string
		mock      func(users *repomocks.MockUserRepository, inbox *repomocks.MockInboxRepository)
		wantErr   error
	}{
		{
			name:      "写入收件箱",
			recipient: "42",
			mock: func(users *repomocks.MockUserRepository, inbox *repomocks.MockInboxRepository) {
				users.EXPECT().GetByID(gomock.Any(), int64(42)).Return(domain.User{ID: 42}, nil)
				inbox.EXPECT().Deliver(gomock.Any(), int64(42), msg).Return(nil)
			},
		},
		{
			name:      "用户不存在",
			recipient: "42",
			mock: func(users *repomocks.MockUserRepository, inbox *repomocks.MockInboxRepository) {
				users.EXPECT().GetByID(gomock.Any(), int64(42)).Return(domain.User{}, errs.ErrUnknownRecipient)
			},
			wantErr: errs.ErrUnknownRecipient,
		},
		{
			name:      "接收者不是用户 ID",
			recipient: "ali@example.com",
			mock:      func(users *repomocks.MockUserRepository, inbox *repomocks.MockInboxRepository) {},
			wantErr:   errs.ErrInvalidRecipient,
		},
		{
			name:      "写入失败",
			recipient: "42",
			mock: func(users *repomocks.MockUserRepository, inbox *repomocks.MockInboxRepository) {
				users.EXPECT().GetByID(gomock.Any(), int64(42)).Return(domain.User{ID: 42}, nil)
				inbox.EXPECT().Deliver(gomock.Any(), int64(42), gomock.Any()).Return(errors.New("db down"))
			},
			wantErr: errs.ErrSendFailed,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			users := repomocks.NewMockUserRepository(ctrl)
			inbox := repomocks.NewMockInboxRepository(ctrl)
			tc.mock(users, inbox)

			m := msg
			m.Recipient = tc.recipient
			err := NewProvider(users, inbox).Send(context.Background(), m)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
