package domain

import "time"

// Calendar 用户输入时间使用的历法
type Calendar string

const (
	CalendarGregorian Calendar = "gregorian"
	CalendarJalali    Calendar = "jalali"
)

func (c Calendar) IsValid() bool {
	return c == CalendarGregorian || c == CalendarJalali
}

// ScheduleStatus 定时通知状态
type ScheduleStatus string

const (
	ScheduleStatusWaiting     ScheduleStatus = "waiting"     // 等待到期
	ScheduleStatusDispatching ScheduleStatus = "dispatching" // 已被某次检查抢占
	ScheduleStatusDispatched  ScheduleStatus = "dispatched"  // 已发送
	ScheduleStatusFailed      ScheduleStatus = "failed"      // 发送前校验失败
)

// ScheduledNotification 延迟发送的请求
// ScheduledAt 是换算之后的绝对时间，LocalInput 保留用户原始输入
type ScheduledNotification struct {
	ID           int64
	Channel      Channel
	Recipient    RecipientSpec
	Subject      string
	Message      string // 创建时已经渲染完毕
	RelatedID    int64
	UserID       int64
	ScheduledAt  time.Time
	Calendar     Calendar
	LocalInput   string
	Status       ScheduleStatus
	ErrorMessage string
	DispatchedAt time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DispatchRequest 到期时交给发送服务的请求
func (s ScheduledNotification) DispatchRequest() DispatchRequest {
	return DispatchRequest{
		Channel:     s.Channel,
		Recipient:   s.Recipient,
		Message:     s.Message,
		Subject:     s.Subject,
		RelatedID:   s.RelatedID,
		UserID:      s.UserID,
		ScheduledID: s.ID,
	}
}

// ScheduleRequest 创建定时通知
// ScheduledAt 非零时直接使用，否则按 Calendar 解析 LocalDate 和 LocalTime
type ScheduleRequest struct {
	DispatchRequest
	ScheduledAt time.Time
	LocalDate   string
	LocalTime   string
	Calendar    Calendar
}
