package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gitee.com/autopuzzle/notification-center/internal/errs"
)

const (
	// MaxVariablesSize 变量列表序列化之后的上限
	MaxVariablesSize = 5000
	// DuplicateSuffix 复制模板时追加到名称后面
	DuplicateSuffix = " (Copy)"
)

// 常用占位符
const (
	PlaceholderCustomerName = "customer_name"
	PlaceholderCarName      = "car_name"
	PlaceholderDate         = "date"
	PlaceholderPhone        = "phone"
	PlaceholderInquiryID    = "inquiry_id"
)

// Template 通知模板
type Template struct {
	ID        int64
	Channel   Channel
	Name      string
	Subject   string // 仅邮件使用
	Message   string // 带 {placeholder} 的正文
	Variables []string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t Template) Validate() error {
	if !t.Channel.IsValid() {
		return fmt.Errorf("%w: type = %q", errs.ErrInvalidParameter, t.Channel)
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name 不能为空", errs.ErrInvalidParameter)
	}
	if strings.TrimSpace(t.Message) == "" {
		return fmt.Errorf("%w: message 不能为空", errs.ErrInvalidParameter)
	}
	if len(t.Variables) > 0 {
		val, err := json.Marshal(t.Variables)
		if err != nil {
			return fmt.Errorf("%w: variables %w", errs.ErrInvalidParameter, err)
		}
		if len(val) > MaxVariablesSize {
			return fmt.Errorf("%w: variables 超过 %d 字节", errs.ErrInvalidParameter, MaxVariablesSize)
		}
	}
	return nil
}

// Duplicate 复制除 ID 和时间以外的全部字段
func (t Template) Duplicate() Template {
	vars := make([]string, len(t.Variables))
	copy(vars, t.Variables)
	return Template{
		Channel:   t.Channel,
		Name:      t.Name + DuplicateSuffix,
		Subject:   t.Subject,
		Message:   t.Message,
		Variables: vars,
		IsActive:  t.IsActive,
	}
}

// TemplateFilter 模板查询条件
type TemplateFilter struct {
	Channel    Channel
	Search     string // 匹配名称或者正文
	ActiveOnly bool
}
