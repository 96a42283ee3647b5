package domain

import (
	"fmt"

	"gitee.com/autopuzzle/notification-center/internal/errs"
)

// DispatchRequest 一次发送请求
type DispatchRequest struct {
	Channel    Channel
	Recipient  RecipientSpec
	Message    string // 与 TemplateID 二选一
	TemplateID int64
	Subject    string            // 邮件必填，模板自带主题时可省略
	Context    map[string]string // 模板占位符
	RelatedID  int64
	UserID     int64 // 发起人，为 0 时取调用方
	// 由定时任务发起时记录来源
	ScheduledID int64
}

func (r DispatchRequest) Validate() error {
	if !r.Channel.IsValid() {
		return fmt.Errorf("%w: type = %q", errs.ErrInvalidParameter, r.Channel)
	}
	if r.TemplateID <= 0 && r.Message == "" {
		return fmt.Errorf("%w: message 和 template_id 不能同时为空", errs.ErrInvalidParameter)
	}
	return r.Recipient.Validate()
}

// TargetOutcome 单个接收者的发送结果
type TargetOutcome struct {
	Recipient    string
	LogID        int64
	Status       LogStatus
	ErrorMessage string
}

// DispatchResult 整批的发送结果
type DispatchResult struct {
	Total    int
	Sent     int
	Failed   int
	Outcomes []TargetOutcome
}

// RetryResult 重试结果，Retried 为 false 表示没有做任何事情
type RetryResult struct {
	LogID        int64
	Status       LogStatus
	Retried      bool
	ErrorMessage string
}
