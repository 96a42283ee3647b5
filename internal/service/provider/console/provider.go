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

package console

import (
	"context"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"github.com/gotomicro/ego/core/elog"
)

// Provider 只把消息打印到日志里，开发环境替代真实的短信和邮件网关

type Provider struct {
	logger *elog.Component
}

func NewProvider() *Provider {
	return &Provider{
		logger: elog.DefaultLogger,
	}
}

func (p *Provider) Send(_ context.Context, msg domain.Message) error {
	p.logger.Info("发送通知",
		elog.Int64("logID", msg.LogID),
		elog.String("channel", msg.Channel.String()),
		elog.String("recipient", msg.Recipient),
		elog.String("content", msg.Content))
	return nil
}
