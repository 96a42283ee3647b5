// Copyright 2023 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package channel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
	"gitee.com/autopuzzle/notification-center/internal/service/provider"
	"github.com/gotomicro/ego/core/elog"
)

// DefaultSendTimeout 单个供应商一次发送的超时时间
const DefaultSendTimeout = 10 * time.Second

type baseChannel struct {
	builder provider.SelectorBuilder
	timeout time.Duration
	logger  *elog.Component
}

func newBaseChannel(builder provider.SelectorBuilder, timeout time.Duration) baseChannel {
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	return baseChannel{
		builder: builder,
		timeout: timeout,
		logger:  elog.DefaultLogger,
	}
}

// Send 按顺序尝试供应商，直到有一个成功
// 全部失败时返回最后一个供应商的错误
func (s *baseChannel) Send(ctx context.Context, msg domain.Message) error {
	selector, err := s.builder.Build()
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrSendFailed, err)
	}

	var lastErr error
	for {
		p, err1 := selector.Next(ctx, msg)
		if err1 != nil {
			if lastErr != nil {
				return lastErr
			}
			return err1
		}

		err2 := s.sendWithTimeout(ctx, p, msg)
		if err2 == nil {
			return nil
		}
		// 接收者本身有问题，换供应商也没用
		if errors.Is(err2, errs.ErrInvalidRecipient) || errors.Is(err2, errs.ErrMissingSubject) ||
			errors.Is(err2, errs.ErrUnknownRecipient) {
			return err2
		}
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", errs.ErrSendTimeout, ctx.Err())
		}
		s.logger.Warn("供应商发送失败，尝试下一个",
			elog.Int64("logID", msg.LogID),
			elog.String("channel", msg.Channel.String()),
			elog.FieldErr(err2))
		lastErr = err2
	}
}

// sendWithTimeout SDK 不一定尊重 ctx，这里自己计时
func (s *baseChannel) sendWithTimeout(ctx context.Context, p provider.Provider, msg domain.Message) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- p.Send(ctx, msg)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("%w: 超过 %s", errs.ErrSendTimeout, s.timeout)
	}
}

type smsChannel struct {
	baseChannel
}

func NewSMSChannel(builder provider.SelectorBuilder, timeout time.Duration) Channel {
	return &smsChannel{
		baseChannel: newBaseChannel(builder, timeout),
	}
}

type emailChannel struct {
	baseChannel
}

func NewEmailChannel(builder provider.SelectorBuilder, timeout time.Duration) Channel {
	return &emailChannel{
		baseChannel: newBaseChannel(builder, timeout),
	}
}

type inAppChannel struct {
	baseChannel
}

func NewInAppChannel(builder provider.SelectorBuilder, timeout time.Duration) Channel {
	return &inAppChannel{
		baseChannel: newBaseChannel(builder, timeout),
	}
}
