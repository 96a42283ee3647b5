package notification

import (
	"fmt"
	"strings"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
)

// EventName 宿主应用发布发送请求的 topic
const EventName = "notification_dispatch_requested"

// DispatchRequested 宿主应用的业务事件，例如询价状态变更、会议提醒、管理员批量通知
type DispatchRequested struct {
	// EventID 去重用，为空时不去重
	EventID string `json:"event_id"`
	// 来源，只用于日志
	Source        string            `json:"source"`
	Type          string            `json:"type"`
	RecipientType string            `json:"recipient_type"`
	Recipient     string            `json:"recipient"`
	Message       string            `json:"message"`
	TemplateID    int64             `json:"template_id"`
	Subject       string            `json:"subject"`
	Context       map[string]string `json:"context"`
	RelatedID     int64             `json:"related_id"`
	UserID        int64             `json:"user_id"`
}

func (e DispatchRequested) toDomain() (domain.DispatchRequest, error) {
	var spec domain.RecipientSpec
	switch domain.RecipientKind(e.RecipientType) {
	case domain.RecipientSingle, "":
		spec = domain.Single(e.Recipient)
	case domain.RecipientRoleGroup:
		spec = domain.Group(domain.RoleGroup(strings.TrimSpace(e.Recipient)))
	case domain.RecipientCustomList:
		spec = domain.CustomList(domain.ParseCustomList(e.Recipient))
	default:
		return domain.DispatchRequest{}, fmt.Errorf("%w: recipient_type = %q", errs.ErrInvalidParameter, e.RecipientType)
	}
	req := domain.DispatchRequest{
		Channel:    domain.Channel(e.Type),
		Recipient:  spec,
		Message:    e.Message,
		TemplateID: e.TemplateID,
		Subject:    e.Subject,
		Context:    e.Context,
		RelatedID:  e.RelatedID,
		UserID:     e.UserID,
	}
	return req, req.Validate()
}
