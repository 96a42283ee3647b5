package notification

import (
	"time"

	"gitee.com/autopuzzle/notification-center/internal/domain"
)

type DispatchReq struct {
	Type string `json:"type"`
	// single / role_group / custom_list
	RecipientType string `json:"recipient_type"`
	// 单个地址、角色组名或者每行一个地址
	Recipient  string            `json:"recipient"`
	Message    string            `json:"message"`
	TemplateID int64             `json:"template_id"`
	Subject    string            `json:"subject"`
	Context    map[string]string `json:"context"`
	RelatedID  int64             `json:"related_id"`
}

func (r DispatchReq) toDomain() domain.DispatchRequest {
	return domain.DispatchRequest{
		Channel:    domain.Channel(r.Type),
		Recipient:  recipientSpec(r.RecipientType, r.Recipient),
		Message:    r.Message,
		TemplateID: r.TemplateID,
		Subject:    r.Subject,
		Context:    r.Context,
		RelatedID:  r.RelatedID,
	}
}

func recipientSpec(kind, value string) domain.RecipientSpec {
	switch domain.RecipientKind(kind) {
	case domain.RecipientRoleGroup:
		return domain.Group(domain.RoleGroup(value))
	case domain.RecipientCustomList:
		return domain.CustomList(domain.ParseCustomList(value))
	case domain.RecipientSingle, "":
		return domain.Single(value)
	default:
		return domain.RecipientSpec{Kind: domain.RecipientKind(kind), Address: value}
	}
}

type TargetOutcome struct {
	Recipient    string `json:"recipient"`
	LogID        int64  `json:"log_id"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type DispatchResp struct {
	Total    int             `json:"total"`
	Sent     int             `json:"sent"`
	Failed   int             `json:"failed"`
	Outcomes []TargetOutcome `json:"outcomes"`
}

func newDispatchResp(res domain.DispatchResult) DispatchResp {
	outcomes := make([]TargetOutcome, 0, len(res.Outcomes))
	for _, o := range res.Outcomes {
		outcomes = append(outcomes, TargetOutcome{
			Recipient:    o.Recipient,
			LogID:        o.LogID,
			Status:       o.Status.String(),
			ErrorMessage: o.ErrorMessage,
		})
	}
	return DispatchResp{
		Total:    res.Total,
		Sent:     res.Sent,
		Failed:   res.Failed,
		Outcomes: outcomes,
	}
}

type ScheduleReq struct {
	DispatchReq
	// 毫秒时间戳，不为 0 时忽略下面的本地时间
	ScheduledAt int64  `json:"scheduled_at"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	// gregorian / jalali
	Calendar string `json:"calendar"`
}

func (r ScheduleReq) toDomain() domain.ScheduleRequest {
	req := domain.ScheduleRequest{
		DispatchRequest: r.DispatchReq.toDomain(),
		LocalDate:       r.Date,
		LocalTime:       r.Time,
		Calendar:        domain.Calendar(r.Calendar),
	}
	if r.ScheduledAt > 0 {
		req.ScheduledAt = time.UnixMilli(r.ScheduledAt)
	}
	return req
}

type ScheduleResp struct {
	ID int64 `json:"id"`
}

type ListScheduledReq struct {
	Status string `json:"status"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type ScheduledNotification struct {
	ID            int64  `json:"id"`
	Type          string `json:"type"`
	RecipientType string `json:"recipient_type"`
	Recipient     string `json:"recipient"`
	Subject       string `json:"subject,omitempty"`
	Message       string `json:"message"`
	RelatedID     int64  `json:"related_id"`
	UserID        int64  `json:"user_id"`
	ScheduledAt   int64  `json:"scheduled_at"`
	Calendar      string `json:"calendar"`
	LocalInput    string `json:"local_input"`
	Status        string `json:"status"`
	ErrorMessage  string `json:"error_message,omitempty"`
	CreatedAt     int64  `json:"created_at"`
}

func newScheduledNotification(sn domain.ScheduledNotification) ScheduledNotification {
	return ScheduledNotification{
		ID:            sn.ID,
		Type:          sn.Channel.String(),
		RecipientType: string(sn.Recipient.Kind),
		Recipient:     sn.Recipient.Value(),
		Subject:       sn.Subject,
		Message:       sn.Message,
		RelatedID:     sn.RelatedID,
		UserID:        sn.UserID,
		ScheduledAt:   sn.ScheduledAt.UnixMilli(),
		Calendar:      string(sn.Calendar),
		LocalInput:    sn.LocalInput,
		Status:        string(sn.Status),
		ErrorMessage:  sn.ErrorMessage,
		CreatedAt:     unixMilli(sn.CreatedAt),
	}
}

type ListScheduledResp struct {
	Total         int64                   `json:"total"`
	Notifications []ScheduledNotification `json:"notifications"`
}

type IDReq struct {
	ID int64 `json:"id"`
}

type RetryReq struct {
	LogID int64 `json:"log_id"`
}

type RetryResp struct {
	LogID        int64  `json:"log_id"`
	Status       string `json:"status"`
	Retried      bool   `json:"retried"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// LogFilterReq 日期按 Calendar 解析，两端都包含
type LogFilterReq struct {
	Type      string `json:"type" form:"type"`
	Status    string `json:"status" form:"status"`
	DateFrom  string `json:"date_from" form:"date_from"`
	DateTo    string `json:"date_to" form:"date_to"`
	Calendar  string `json:"calendar" form:"calendar"`
	Search    string `json:"search" form:"search"`
	RelatedID int64  `json:"related_id" form:"related_id"`
}

type ListLogsReq struct {
	LogFilterReq
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type NotificationLog struct {
	ID           int64  `json:"id"`
	Type         string `json:"type"`
	Recipient    string `json:"recipient"`
	Subject      string `json:"subject,omitempty"`
	Message      string `json:"message"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	RelatedID    int64  `json:"related_id"`
	UserID       int64  `json:"user_id"`
	RetryCount   int    `json:"retry_count"`
	CreatedAt    int64  `json:"created_at"`
	SentAt       int64  `json:"sent_at"`
}

func newNotificationLog(l domain.NotificationLog) NotificationLog {
	return NotificationLog{
		ID:           l.ID,
		Type:         l.Channel.String(),
		Recipient:    l.Recipient,
		Subject:      l.Subject(),
		Message:      l.Body(),
		Status:       l.Status.String(),
		ErrorMessage: l.ErrorMessage,
		RelatedID:    l.RelatedID,
		UserID:       l.UserID,
		RetryCount:   l.RetryCount,
		CreatedAt:    unixMilli(l.CreatedAt),
		SentAt:       unixMilli(l.SentAt),
	}
}

type ListLogsResp struct {
	Total int64             `json:"total"`
	Logs  []NotificationLog `json:"logs"`
}

type StatsResp struct {
	Total         int64            `json:"total"`
	Sent          int64            `json:"sent"`
	Failed        int64            `json:"failed"`
	Pending       int64            `json:"pending"`
	SentByChannel map[string]int64 `json:"sent_by_channel"`
}

// TimelineResp Data 与 Sent 相同，兼容只画一条线的图表
type TimelineResp struct {
	Labels  []string `json:"labels"`
	Data    []int64  `json:"data"`
	Sent    []int64  `json:"sent"`
	Failed  []int64  `json:"failed"`
	Pending []int64  `json:"pending"`
}

// unixMilli 零值返回 0
func unixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
