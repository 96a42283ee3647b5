package recipient

import (
	"context"
	"fmt"
	"strings"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
	"gitee.com/autopuzzle/notification-center/internal/repository"
)

// Resolver 把接收者描述展开成具体地址
//
//go:generate mockgen -source=./recipient.go -destination=./mocks/recipient.mock.go -package=recipientmocks Resolver
type Resolver interface {
	// Expand 结果去重并保持首次出现的顺序，角色组按用户 ID 排序
	Expand(ctx context.Context, channel domain.Channel, spec domain.RecipientSpec) ([]string, error)
}

type resolver struct {
	users repository.UserRepository
}

func NewResolver(users repository.UserRepository) Resolver {
	return &resolver{users: users}
}

func (r *resolver) Expand(ctx context.Context, channel domain.Channel, spec domain.RecipientSpec) ([]string, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	var raw []string
	switch spec.Kind {
	case domain.RecipientSingle:
		raw = []string{spec.Address}
	case domain.RecipientCustomList:
		raw = spec.Addresses
	case domain.RecipientRoleGroup:
		users, err := r.users.FindByRole(ctx, spec.Group.Role())
		if err != nil {
			return nil, fmt.Errorf("查询角色组 %s 失败: %w", spec.Group, err)
		}
		raw = make([]string, 0, len(users))
		for _, u := range users {
			// 没有该渠道地址的用户直接跳过
			if addr := u.AddressFor(channel); addr != "" {
				raw = append(raw, addr)
			}
		}
	default:
		return nil, fmt.Errorf("%w: 未知的接收者类型 %q", errs.ErrInvalidParameter, spec.Kind)
	}
	return dedup(raw), nil
}

func dedup(addresses []string) []string {
	seen := make(map[string]struct{}, len(addresses))
	res := make([]string, 0, len(addresses))
	for _, a := range addresses {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		res = append(res, a)
	}
	return res
}
