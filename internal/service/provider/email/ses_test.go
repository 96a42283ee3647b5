package email

import (
	"context"
	"errors"
	"testing"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
	emailmocks "gitee.com/autopuzzle/notification-center/internal/service/provider/email/mocks"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestSESProvider_Send(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		recipient string
		content   string
		mock      func(api *emailmocks.MockSESAPI)
		wantErr   error
	}{
		{
			name:      "主题和正文拆开发送",
			recipient: "ali@example.com",
			content:   domain.EncodeEmail("Meeting reminder", "Dear Ali\nSee you at 10:00"),
			mock: func(api *emailmocks.MockSESAPI) {
				api.EXPECT().SendEmail(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
						assert.Equal(t, "noreply@example.com", aws.ToString(in.Source))
						assert.Equal(t, []string{"ali@example.com"}, in.Destination.ToAddresses)
						assert.Equal(t, "Meeting reminder", aws.ToString(in.Message.Subject.Data))
						assert.Equal(t, "Dear Ali\nSee you at 10:00", aws.ToString(in.Message.Body.Text.Data))
						return &ses.SendEmailOutput{MessageId: aws.String("m-1")}, nil
					})
			},
		},
		{
			name:      "没有主题",
			recipient: "ali@example.com",
			content:   "Dear Ali",
			mock:      func(api *emailmocks.MockSESAPI) {},
			wantErr:   errs.ErrMissingSubject,
		},
		{
			name:      "邮箱非法",
			recipient: "ali",
			content:   domain.EncodeEmail("s", "b"),
			mock:      func(api *emailmocks.MockSESAPI) {},
			wantErr:   errs.ErrInvalidRecipient,
		},
		{
			name:      "SES 报错",
			recipient: "ali@example.com",
			content:   domain.EncodeEmail("s", "b"),
			mock: func(api *emailmocks.MockSESAPI) {
				api.EXPECT().SendEmail(gomock.Any(), gomock.Any()).Return(nil, errors.New("MessageRejected"))
			},
			wantErr: errs.ErrSendFailed,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			api := emailmocks.NewMockSESAPI(ctrl)
			tc.mock(api)

			err := NewSESProvider(api, "noreply@example.com").Send(context.Background(), domain.Message{
				LogID: 1, Channel: domain.ChannelEmail, Recipient: tc.recipient, Content: tc.content,
			})
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
