package auth

import (
	"fmt"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
)

// Policy 判断调用方能否执行某个操作
//
//go:generate mockgen -source=./policy.go -destination=./mocks/policy.mock.go -package=authmocks Policy
type Policy interface {
	Authorize(caller domain.Caller, action domain.Action) error
}

// RolePolicy 按角色授权，角色到操作的映射可以通过配置覆盖
type RolePolicy struct {
	grants map[string]map[domain.Action]struct{}
}

// DefaultGrants 管理员可以做任何事情，专家只能发送和查看
func DefaultGrants() map[string][]domain.Action {
	return map[string][]domain.Action{
		domain.RoleAdministrator: {
			domain.ActionDispatch,
			domain.ActionSchedule,
			domain.ActionRetry,
			domain.ActionReadLogs,
			domain.ActionExport,
			domain.ActionManageTemplates,
		},
		domain.RoleExpert: {
			domain.ActionDispatch,
			domain.ActionSchedule,
			domain.ActionReadLogs,
		},
	}
}

func NewRolePolicy(grants map[string][]domain.Action) *RolePolicy {
	p := &RolePolicy{grants: make(map[string]map[domain.Action]struct{}, len(grants))}
	for role, actions := range grants {
		set := make(map[domain.Action]struct{}, len(actions))
		for _, a := range actions {
			set[a] = struct{}{}
		}
		p.grants[role] = set
	}
	return p
}

func (p *RolePolicy) Authorize(caller domain.Caller, action domain.Action) error {
	if caller.System {
		return nil
	}
	if caller.IsAnonymous() {
		return fmt.Errorf("%w: action = %s", errs.ErrUnauthenticated, action)
	}
	for _, role := range caller.Roles {
		if _, ok := p.grants[role][action]; ok {
			return nil
		}
	}
	return fmt.Errorf("%w: uid = %d, action = %s", errs.ErrPermissionDenied, caller.UserID, action)
}
