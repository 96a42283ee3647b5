package notification

import (
	"context"
	"errors"
	"testing"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
	evtmocks "gitee.com/autopuzzle/notification-center/internal/event/mocks"
	idemmocks "gitee.com/autopuzzle/notification-center/internal/pkg/idempotent/mocks"
	"gitee.com/autopuzzle/notification-center/internal/pkg/retry"
	notificationmocks "gitee.com/autopuzzle/notification-center/internal/service/notification/mocks"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newMessage(value string) *kafka.Message {
	topic := EventName
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: 0, Offset: 10},
		Value:          []byte(value),
	}
}

func fastRetry() retry.Config {
	return retry.Config{
		Type:          "fixed",
		FixedInterval: &retry.FixedIntervalConfig{MaxRetries: 2, Interval: 1},
	}
}

func TestDispatchConsumer_Consume(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mock    func(consumer *evtmocks.MockConsumer, svc *notificationmocks.MockService, idem *idemmocks.MockIdempotencyService)
		wantErr bool
	}{
		{
			name: "发送后提交",
			mock: func(consumer *evtmocks.MockConsumer, svc *notificationmocks.MockService, idem *idemmocks.MockIdempotencyService) {
				msg := newMessage(`{"source":"inquiry","type":"sms","recipient_type":"single","recipient":"09121234567","message":"Your inquiry was answered","related_id":12}`)
				consumer.EXPECT().ReadMessage(gomock.Any()).Return(msg, nil)
				svc.EXPECT().Dispatch(gomock.Any(), domain.SystemCaller, domain.DispatchRequest{
					Channel:   domain.ChannelSMS,
					Recipient: domain.Single("09121234567"),
					Message:   "Your inquiry was answered",
					RelatedID: 12,
				}).Return(domain.DispatchResult{Total: 1, Sent: 1}, nil)
				consumer.EXPECT().CommitMessage(msg).Return(nil, nil)
			},
		},
		{
			name: "没有消息",
			mock: func(consumer *evtmocks.MockConsumer, svc *notificationmocks.MockService, idem *idemmocks.MockIdempotencyService) {
				consumer.EXPECT().ReadMessage(gomock.Any()).Return(nil, kafka.NewError(kafka.ErrTimedOut, "timeout", false))
			},
		},
		{
			name: "格式错误跳过",
			mock: func(consumer *evtmocks.MockConsumer, svc *notificationmocks.MockService, idem *idemmocks.MockIdempotencyService) {
				msg := newMessage(`{"type":`)
				consumer.EXPECT().ReadMessage(gomock.Any()).Return(msg, nil)
				consumer.EXPECT().CommitMessage(msg).Return(nil, nil)
			},
		},
		{
			name: "渠道非法跳过",
			mock: func(consumer *evtmocks.MockConsumer, svc *notificationmocks.MockService, idem *idemmocks.MockIdempotencyService) {
				msg := newMessage(`{"type":"fax","recipient":"1","message":"m"}`)
				consumer.EXPECT().ReadMessage(gomock.Any()).Return(msg, nil)
				consumer.EXPECT().CommitMessage(msg).Return(nil, nil)
			},
		},
		{
			name: "没有接收者不重试",
			mock: func(consumer *evtmocks.MockConsumer, svc *notificationmocks.MockService, idem *idemmocks.MockIdempotencyService) {
				msg := newMessage(`{"type":"email","recipient_type":"role_group","recipient":"admins","message":"m","subject":"s"}`)
				consumer.EXPECT().ReadMessage(gomock.Any()).Return(msg, nil)
				svc.EXPECT().Dispatch(gomock.Any(), domain.SystemCaller, gomock.Any()).
					Return(domain.DispatchResult{}, errs.ErrNoRecipients).Times(1)
				consumer.EXPECT().CommitMessage(msg).Return(nil, nil)
			},
		},
		{
			name: "系统错误重试成功",
			mock: func(consumer *evtmocks.MockConsumer, svc *notificationmocks.MockService, idem *idemmocks.MockIdempotencyService) {
				msg := newMessage(`{"type":"in_app","recipient":"7","message":"m"}`)
				consumer.EXPECT().ReadMessage(gomock.Any()).Return(msg, nil)
				gomock.InOrder(
					svc.EXPECT().Dispatch(gomock.Any(), domain.SystemCaller, gomock.Any()).
						Return(domain.DispatchResult{}, errors.New("db down")),
					svc.EXPECT().Dispatch(gomock.Any(), domain.SystemCaller, gomock.Any()).
						Return(domain.DispatchResult{Total: 1, Sent: 1}, nil),
				)
				consumer.EXPECT().CommitMessage(msg).Return(nil, nil)
			},
		},
		{
			name: "重试耗尽不提交",
			mock: func(consumer *evtmocks.MockConsumer, svc *notificationmocks.MockService, idem *idemmocks.MockIdempotencyService) {
				msg := newMessage(`{"type":"in_app","recipient":"7","message":"m"}`)
				consumer.EXPECT().ReadMessage(gomock.Any()).Return(msg, nil)
				svc.EXPECT().Dispatch(gomock.Any(), domain.SystemCaller, gomock.Any()).
					Return(domain.DispatchResult{}, errors.New("db down")).Times(3)
				consumer.EXPECT().Seek(msg.TopicPartition, gomock.Any()).Return(nil)
			},
			wantErr: true,
		},
		{
			name: "回退位移失败",
			mock: func(consumer *evtmocks.MockConsumer, svc *notificationmocks.MockService, idem *idemmocks.MockIdempotencyService) {
				msg := newMessage(`{"type":"in_app","recipient":"7","message":"m"}`)
				consumer.EXPECT().ReadMessage(gomock.Any()).Return(msg, nil)
				svc.EXPECT().Dispatch(gomock.Any(), domain.SystemCaller, gomock.Any()).
					Return(domain.DispatchResult{}, errors.New("db down")).Times(3)
				consumer.EXPECT().Seek(msg.TopicPartition, gomock.Any()).Return(errors.New("not assigned"))
			},
			wantErr: true,
		},
		{
			name: "重复事件跳过",
			mock: func(consumer *evtmocks.MockConsumer, svc *notificationmocks.MockService, idem *idemmocks.MockIdempotencyService) {
				msg := newMessage(`{"event_id":"inquiry-12-answered","type":"in_app","recipient":"7","message":"m"}`)
				consumer.EXPECT().ReadMessage(gomock.Any()).Return(msg, nil)
				idem.EXPECT().Exists(gomock.Any(), "inquiry-12-answered").Return(true, nil)
				consumer.EXPECT().CommitMessage(msg).Return(nil, nil)
			},
		},
		{
			name: "首次出现的事件正常发送",
			mock: func(consumer *evtmocks.MockConsumer, svc *notificationmocks.MockService, idem *idemmocks.MockIdempotencyService) {
				msg := newMessage(`{"event_id":"inquiry-12-answered","type":"in_app","recipient":"7","message":"m"}`)
				consumer.EXPECT().ReadMessage(gomock.Any()).Return(msg, nil)
				idem.EXPECT().Exists(gomock.Any(), "inquiry-12-answered").Return(false, nil)
				svc.EXPECT().Dispatch(gomock.Any(), domain.SystemCaller, gomock.Any()).
					Return(domain.DispatchResult{Total: 1, Sent: 1}, nil)
				consumer.EXPECT().CommitMessage(msg).Return(nil, nil)
			},
		},
		{
			name: "去重不可用照常发送",
			mock: func(consumer *evtmocks.MockConsumer, svc *notificationmocks.MockService, idem *idemmocks.MockIdempotencyService) {
				msg := newMessage(`{"event_id":"e1","type":"in_app","recipient":"7","message":"m"}`)
				consumer.EXPECT().ReadMessage(gomock.Any()).Return(msg, nil)
				idem.EXPECT().Exists(gomock.Any(), "e1").Return(false, errors.New("redis down"))
				svc.EXPECT().Dispatch(gomock.Any(), domain.SystemCaller, gomock.Any()).
					Return(domain.DispatchResult{Total: 1, Sent: 1}, nil)
				consumer.EXPECT().CommitMessage(msg).Return(nil, nil)
			},
		},
		{
			name: "重试耗尽删除去重标记",
			mock: func(consumer *evtmocks.MockConsumer, svc *notificationmocks.MockService, idem *idemmocks.MockIdempotencyService) {
				msg := newMessage(`{"event_id":"e2","type":"in_app","recipient":"7","message":"m"}`)
				consumer.EXPECT().ReadMessage(gomock.Any()).Return(msg, nil)
				idem.EXPECT().Exists(gomock.Any(), "e2").Return(false, nil)
				svc.EXPECT().Dispatch(gomock.Any(), domain.SystemCaller, gomock.Any()).
					Return(domain.DispatchResult{}, errors.New("db down")).Times(3)
				idem.EXPECT().Forget(gomock.Any(), "e2").Return(nil)
				consumer.EXPECT().Seek(msg.TopicPartition, gomock.Any()).Return(nil)
			},
			wantErr: true,
		},
		{
			name: "读取失败",
			mock: func(consumer *evtmocks.MockConsumer, svc *notificationmocks.MockService, idem *idemmocks.MockIdempotencyService) {
				consumer.EXPECT().ReadMessage(gomock.Any()).Return(nil, kafka.NewError(kafka.ErrAllBrokersDown, "down", false))
			},
			wantErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			consumer := evtmocks.NewMockConsumer(ctrl)
			svc := notificationmocks.NewMockService(ctrl)
			idem := idemmocks.NewMockIdempotencyService(ctrl)
			tc.mock(consumer, svc, idem)

			err := newDispatchConsumer(svc, consumer, idem, fastRetry()).Consume(context.Background())
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

// 失败的消息回退之后重新读取，成功之后提交的是这条消息而不是后面的
func TestDispatchConsumer_ConsumeAfterFailure(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	consumer := evtmocks.NewMockConsumer(ctrl)
	svc := notificationmocks.NewMockService(ctrl)
	idem := idemmocks.NewMockIdempotencyService(ctrl)

	msg := newMessage(`{"type":"in_app","recipient":"7","message":"m"}`)
	gomock.InOrder(
		consumer.EXPECT().ReadMessage(gomock.Any()).Return(msg, nil),
		svc.EXPECT().Dispatch(gomock.Any(), domain.SystemCaller, gomock.Any()).
			Return(domain.DispatchResult{}, errors.New("db down")).Times(3),
		consumer.EXPECT().Seek(msg.TopicPartition, gomock.Any()).Return(nil),
		consumer.EXPECT().ReadMessage(gomock.Any()).Return(msg, nil),
		svc.EXPECT().Dispatch(gomock.Any(), domain.SystemCaller, gomock.Any()).
			Return(domain.DispatchResult{Total: 1, Sent: 1}, nil),
		consumer.EXPECT().CommitMessage(msg).Return(nil, nil),
	)

	c := newDispatchConsumer(svc, consumer, idem, fastRetry())
	assert.Error(t, c.Consume(context.Background()))
	assert.NoError(t, c.Consume(context.Background()))
}
