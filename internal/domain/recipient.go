package domain

import (
	"fmt"
	"strconv"
	"strings"

	"gitee.com/autopuzzle/notification-center/internal/errs"
)

// RecipientKind 接收者描述的类型
type RecipientKind string

const (
	RecipientSingle     RecipientKind = "single"
	RecipientRoleGroup  RecipientKind = "role_group"
	RecipientCustomList RecipientKind = "custom_list"
)

// RoleGroup 按角色圈定的一组用户
type RoleGroup string

const (
	RoleGroupAll       RoleGroup = "all"
	RoleGroupCustomers RoleGroup = "customers"
	RoleGroupExperts   RoleGroup = "experts"
	RoleGroupAdmins    RoleGroup = "admins"
)

// 宿主应用中的角色名
const (
	RoleCustomer      = "customer"
	RoleExpert        = "expert"
	RoleAdministrator = "administrator"
)

func (g RoleGroup) IsValid() bool {
	switch g {
	case RoleGroupAll, RoleGroupCustomers, RoleGroupExperts, RoleGroupAdmins:
		return true
	default:
		return false
	}
}

// Role 对应的角色名，all 返回空字符串
func (g RoleGroup) Role() string {
	switch g {
	case RoleGroupCustomers:
		return RoleCustomer
	case RoleGroupExperts:
		return RoleExpert
	case RoleGroupAdmins:
		return RoleAdministrator
	default:
		return ""
	}
}

// RecipientSpec 接收者描述，三选一
type RecipientSpec struct {
	Kind      RecipientKind
	Address   string    // Single
	Group     RoleGroup // RoleGroup
	Addresses []string  // CustomList
}

func Single(address string) RecipientSpec {
	return RecipientSpec{Kind: RecipientSingle, Address: address}
}

func Group(group RoleGroup) RecipientSpec {
	return RecipientSpec{Kind: RecipientRoleGroup, Group: group}
}

func CustomList(addresses []string) RecipientSpec {
	return RecipientSpec{Kind: RecipientCustomList, Addresses: addresses}
}

// ParseCustomList 每行一个地址，忽略空行
func ParseCustomList(block string) []string {
	lines := strings.Split(strings.ReplaceAll(block, "\r\n", "\n"), "\n")
	res := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			res = append(res, line)
		}
	}
	return res
}

func (s RecipientSpec) Validate() error {
	switch s.Kind {
	case RecipientSingle:
		if strings.TrimSpace(s.Address) == "" {
			return fmt.Errorf("%w: recipient 不能为空", errs.ErrInvalidParameter)
		}
	case RecipientRoleGroup:
		if !s.Group.IsValid() {
			return fmt.Errorf("%w: recipient_type = %q", errs.ErrInvalidParameter, s.Group)
		}
	case RecipientCustomList:
	default:
		return fmt.Errorf("%w: 未知的接收者类型 %q", errs.ErrInvalidParameter, s.Kind)
	}
	return nil
}

// Value 持久化时使用的值
func (s RecipientSpec) Value() string {
	switch s.Kind {
	case RecipientSingle:
		return s.Address
	case RecipientRoleGroup:
		return string(s.Group)
	case RecipientCustomList:
		return strings.Join(s.Addresses, "\n")
	default:
		return ""
	}
}

// RecipientFromValue Value 的逆操作
func RecipientFromValue(kind RecipientKind, value string) RecipientSpec {
	switch kind {
	case RecipientRoleGroup:
		return Group(RoleGroup(value))
	case RecipientCustomList:
		return CustomList(ParseCustomList(value))
	default:
		return RecipientSpec{Kind: kind, Address: value}
	}
}

// User 宿主应用中的用户
type User struct {
	ID          int64
	DisplayName string
	Role        string
	Mobile      string
	Email       string
}

// AddressFor 用户在某个渠道上的地址，没有则返回空
func (u User) AddressFor(c Channel) string {
	switch c {
	case ChannelSMS:
		return strings.TrimSpace(u.Mobile)
	case ChannelEmail:
		return strings.TrimSpace(u.Email)
	case ChannelInApp:
		if u.ID <= 0 {
			return ""
		}
		return strconv.FormatInt(u.ID, 10)
	default:
		return ""
	}
}
