package inapp

import (
	"context"
	"fmt"
	"strconv"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
	"gitee.com/autopuzzle/notification-center/internal/repository"
	"gitee.com/autopuzzle/notification-center/internal/service/provider"
)

var _ provider.Provider = (*Provider)(nil)

// Provider 站内信，直接写入收件箱
type Provider struct {
	users repository.UserRepository
	inbox repository.InboxRepository
}

func NewProvider(users repository.UserRepository, inbox repository.InboxRepository) *Provider {
	return &Provider{users: users, inbox: inbox}
}

func (p *Provider) Send(ctx context.Context, msg domain.Message) error {
	addr, err := domain.NormalizeAddress(domain.ChannelInApp, msg.Recipient)
	if err != nil {
		return err
	}
	uid, _ := strconv.ParseInt(addr, 10, 64)
	// 接收者必须是存在的用户
	if _, err = p.users.GetByID(ctx, uid); err != nil {
		return err
	}
	if err = p.inbox.Deliver(ctx, uid, msg); err != nil {
		return fmt.Errorf("%w: 写入站内信失败: %w", errs.ErrSendFailed, err)
	}
	return nil
}
