package domain

import "slices"

// Action 需要授权的操作
type Action string

const (
	ActionDispatch        Action = "dispatch"
	ActionSchedule        Action = "schedule"
	ActionRetry           Action = "retry"
	ActionReadLogs        Action = "read_logs"
	ActionExport          Action = "export"
	ActionManageTemplates Action = "manage_templates"
)

// Caller 调用方身份，每个接口都显式传入
type Caller struct {
	UserID int64
	Roles  []string
	System bool // 内部任务，例如定时发送和事件消费
}

// SystemCaller 内部任务使用的身份
var SystemCaller = Caller{System: true}

func (c Caller) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

func (c Caller) IsAnonymous() bool {
	return !c.System && c.UserID <= 0
}
