package metrics

import (
	"context"
	"errors"
	"testing"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	providermocks "gitee.com/autopuzzle/notification-center/internal/service/provider/mocks"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestProvider_Send(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := providermocks.NewMockProvider(ctrl)
	msg := domain.Message{LogID: 1, Channel: domain.ChannelSMS, Recipient: "09121111111"}
	gomock.InOrder(
		inner.EXPECT().Send(gomock.Any(), msg).Return(nil),
		inner.EXPECT().Send(gomock.Any(), msg).Return(errors.New("gateway down")),
	)

	p := NewProvider("metrics-test", inner)
	// 同名指标第二次注册直接复用
	p2 := NewProvider("metrics-test-2", inner)
	assert.Same(t, p.sendCounter, p2.sendCounter)

	assert.NoError(t, p.Send(context.Background(), msg))
	assert.EqualError(t, p.Send(context.Background(), msg), "gateway down")

	assert.InDelta(t, 2, testutil.ToFloat64(p.sendCounter.WithLabelValues("metrics-test", "sms")), 0.1)
	assert.InDelta(t, 1, testutil.ToFloat64(p.sendStatusCounter.WithLabelValues("metrics-test", "sms", statusSucceeded)), 0.1)
	assert.InDelta(t, 1, testutil.ToFloat64(p.sendStatusCounter.WithLabelValues("metrics-test", "sms", statusFailed)), 0.1)
}
