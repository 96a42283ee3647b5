package channel

import (
	"context"
	"fmt"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
)

// Channel 渠道接口
//
//go:generate mockgen -source=./channel.go -destination=./mocks/channel.mock.go -package=channelmocks Channel
type Channel interface {
	// Send 发送通知，返回的错误就是失败原因
	Send(ctx context.Context, msg domain.Message) error
}

var _ Channel = (*Dispatcher)(nil)

// Dispatcher 渠道分发器，对外伪装成Channel，作为统一入口
type Dispatcher struct {
	channels map[domain.Channel]Channel
}

// NewDispatcher 创建渠道分发器
func NewDispatcher(channels map[domain.Channel]Channel) *Dispatcher {
	return &Dispatcher{channels: channels}
}

func (d *Dispatcher) Send(ctx context.Context, msg domain.Message) error {
	ch, ok := d.channels[msg.Channel]
	if !ok {
		return fmt.Errorf("%w: %s", errs.ErrNoAvailableChannel, msg.Channel)
	}
	return ch.Send(ctx, msg)
}
