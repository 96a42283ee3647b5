package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gitee.com/autopuzzle/notification-center/internal/errs"
)

// LogStatus 通知记录状态
type LogStatus string

const (
	LogStatusPending LogStatus = "pending" // 待发送
	LogStatusSent    LogStatus = "sent"    // 发送成功
	LogStatusFailed  LogStatus = "failed"  // 发送失败
)

func (s LogStatus) String() string {
	return string(s)
}

func (s LogStatus) IsValid() bool {
	switch s {
	case LogStatusPending, LogStatusSent, LogStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal 终态，不会再自动流转
func (s LogStatus) IsTerminal() bool {
	return s == LogStatusSent || s == LogStatusFailed
}

// MaxErrorMessageLength 失败原因最多保留的字符数
const MaxErrorMessageLength = 255

// NotificationLog 一次发送尝试
type NotificationLog struct {
	ID           int64
	Channel      Channel
	Recipient    string
	Message      string
	Status       LogStatus
	ErrorMessage string
	RelatedID    int64 // 关联的业务对象，比如询价单、预约
	UserID       int64 // 触发发送的用户
	ScheduledID  int64 // 由定时任务产生时不为 0
	RetryCount   int
	CreatedAt    time.Time
	SentAt       time.Time // 零值表示尚未结束
	UpdatedAt    time.Time
}

func (l NotificationLog) Validate() error {
	if !l.Channel.IsValid() {
		return fmt.Errorf("%w: type = %q", errs.ErrInvalidParameter, l.Channel)
	}
	if strings.TrimSpace(l.Recipient) == "" {
		return fmt.Errorf("%w: recipient 不能为空", errs.ErrInvalidParameter)
	}
	if l.Message == "" {
		return fmt.Errorf("%w: message 不能为空", errs.ErrInvalidParameter)
	}
	return nil
}

// Subject 邮件记录中编码的主题
func (l NotificationLog) Subject() string {
	if l.Channel != ChannelEmail {
		return ""
	}
	subject, _, _ := DecodeEmail(l.Message)
	return subject
}

// Body 去掉主题行之后的正文
func (l NotificationLog) Body() string {
	if l.Channel != ChannelEmail {
		return l.Message
	}
	_, body, _ := DecodeEmail(l.Message)
	return body
}

// TruncateReason 截断失败原因，保证可以直接展示
func TruncateReason(reason string) string {
	reason = strings.TrimSpace(reason)
	if utf8.RuneCountInString(reason) <= MaxErrorMessageLength {
		return reason
	}
	runes := []rune(reason)
	return string(runes[:MaxErrorMessageLength])
}

// LogFilter 查询条件，零值字段不参与过滤
type LogFilter struct {
	Channel   Channel
	Status    LogStatus
	Since     time.Time // 包含
	Until     time.Time // 不包含
	Search    string
	RelatedID int64
}

func (f LogFilter) Validate() error {
	if f.Channel != "" && !f.Channel.IsValid() {
		return fmt.Errorf("%w: type = %q", errs.ErrInvalidParameter, f.Channel)
	}
	if f.Status != "" && !f.Status.IsValid() {
		return fmt.Errorf("%w: status = %q", errs.ErrInvalidParameter, f.Status)
	}
	if !f.Since.IsZero() && !f.Until.IsZero() && !f.Since.Before(f.Until) {
		return fmt.Errorf("%w: 起始日期晚于结束日期", errs.ErrInvalidParameter)
	}
	return nil
}

// Stats 聚合统计，空集合时全部为 0
type Stats struct {
	Total         int64
	Sent          int64
	Failed        int64
	Pending       int64
	SentByChannel map[Channel]int64
}

// NewStats 返回全 0 的统计结果
func NewStats() Stats {
	byChannel := make(map[Channel]int64, 3)
	for _, c := range Channels() {
		byChannel[c] = 0
	}
	return Stats{SentByChannel: byChannel}
}

// DailyCount 某一天某个状态的数量
type DailyCount struct {
	Day    time.Time // 当天 00:00，本地时区
	Status LogStatus
	Count  int64
}

// Timeline 按天统计，Labels 与各序列一一对应
type Timeline struct {
	Labels  []string
	Sent    []int64
	Failed  []int64
	Pending []int64
}
