package notification

import (
	"context"
	"fmt"
	"strings"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
	"gitee.com/autopuzzle/notification-center/internal/repository"
	"gitee.com/autopuzzle/notification-center/internal/service/auth"
	"gitee.com/autopuzzle/notification-center/internal/service/recipient"
	"gitee.com/autopuzzle/notification-center/internal/service/sender"
	"gitee.com/autopuzzle/notification-center/internal/service/template"
	"github.com/gotomicro/ego/core/elog"
)

// Service 通知发送入口
//
//go:generate mockgen -source=./notification.go -destination=./mocks/notification.mock.go -package=notificationmocks Service
type Service interface {
	// Dispatch 立即发送，返回每个接收者的结果
	Dispatch(ctx context.Context, caller domain.Caller, req domain.DispatchRequest) (domain.DispatchResult, error)
	// Prepare 校验并渲染请求，返回的请求不再引用模板
	// 调用方填写的地址在这里校验，角色组要到发送时才展开
	Prepare(ctx context.Context, req domain.DispatchRequest) (domain.DispatchRequest, error)
	// Retry 重新发送一条失败的记录，不是失败状态时什么都不做
	Retry(ctx context.Context, caller domain.Caller, logID int64) (domain.RetryResult, error)
}

type notificationService struct {
	templates template.Service
	resolver  recipient.Resolver
	sender    sender.NotificationSender
	repo      repository.NotificationLogRepository
	policy    auth.Policy
	logger    *elog.Component
}

func NewService(
	templates template.Service,
	resolver recipient.Resolver,
	notificationSender sender.NotificationSender,
	repo repository.NotificationLogRepository,
	policy auth.Policy,
) Service {
	return &notificationService{
		templates: templates,
		resolver:  resolver,
		sender:    notificationSender,
		repo:      repo,
		policy:    policy,
		logger:    elog.DefaultLogger,
	}
}

func (s *notificationService) Dispatch(ctx context.Context, caller domain.Caller, req domain.DispatchRequest) (domain.DispatchResult, error) {
	if err := s.policy.Authorize(caller, domain.ActionDispatch); err != nil {
		return domain.DispatchResult{}, err
	}
	req, err := s.Prepare(ctx, req)
	if err != nil {
		return domain.DispatchResult{}, err
	}

	targets, err := s.resolver.Expand(ctx, req.Channel, req.Recipient)
	if err != nil {
		return domain.DispatchResult{}, err
	}
	if len(targets) == 0 {
		return domain.DispatchResult{}, fmt.Errorf("%w: %s", errs.ErrNoRecipients, req.Recipient.Value())
	}

	content := req.Message
	if req.Channel == domain.ChannelEmail {
		content = domain.EncodeEmail(req.Subject, req.Message)
	}
	userID := req.UserID
	if userID == 0 {
		userID = caller.UserID
	}
	tmpl := domain.NotificationLog{
		Channel:     req.Channel,
		Message:     content,
		RelatedID:   req.RelatedID,
		UserID:      userID,
		ScheduledID: req.ScheduledID,
	}
	res, err := s.sender.Send(ctx, tmpl, targets)
	if err != nil {
		s.logger.Error("批量发送时部分记录写入失败",
			elog.String("channel", req.Channel.String()),
			elog.Int("total", res.Total),
			elog.FieldErr(err))
	}
	return res, err
}

func (s *notificationService) Prepare(ctx context.Context, req domain.DispatchRequest) (domain.DispatchRequest, error) {
	if err := req.Validate(); err != nil {
		return domain.DispatchRequest{}, err
	}

	if req.TemplateID > 0 {
		tpl, err := s.templates.Resolve(ctx, req.TemplateID, req.Channel)
		if err != nil {
			return domain.DispatchRequest{}, err
		}
		subject, body := template.RenderTemplate(tpl, req.Context)
		req.Message = body
		if strings.TrimSpace(req.Subject) == "" {
			req.Subject = subject
		}
		req.TemplateID = 0
	}

	if req.Channel == domain.ChannelEmail {
		req.Subject = strings.TrimSpace(req.Subject)
		if req.Subject == "" {
			return domain.DispatchRequest{}, errs.ErrMissingSubject
		}
		// 主题里不能有换行，否则拆不开
		if strings.ContainsAny(req.Subject, "\r\n") {
			return domain.DispatchRequest{}, fmt.Errorf("%w: 邮件主题不能包含换行", errs.ErrInvalidParameter)
		}
	} else {
		req.Subject = ""
	}
	if strings.TrimSpace(req.Message) == "" {
		return domain.DispatchRequest{}, fmt.Errorf("%w: message 不能为空", errs.ErrInvalidParameter)
	}

	spec, err := normalizeRecipients(req.Channel, req.Recipient)
	if err != nil {
		return domain.DispatchRequest{}, err
	}
	req.Recipient = spec
	return req, nil
}

// normalizeRecipients 调用方直接填写的地址必须全部合法，否则整个请求都不发送
func normalizeRecipients(c domain.Channel, spec domain.RecipientSpec) (domain.RecipientSpec, error) {
	switch spec.Kind {
	case domain.RecipientSingle:
		addr, err := domain.NormalizeAddress(c, spec.Address)
		if err != nil {
			return domain.RecipientSpec{}, err
		}
		return domain.Single(addr), nil
	case domain.RecipientCustomList:
		addrs := make([]string, 0, len(spec.Addresses))
		for _, a := range spec.Addresses {
			if strings.TrimSpace(a) == "" {
				continue
			}
			addr, err := domain.NormalizeAddress(c, a)
			if err != nil {
				return domain.RecipientSpec{}, err
			}
			addrs = append(addrs, addr)
		}
		return domain.CustomList(addrs), nil
	default:
		return spec, nil
	}
}

func (s *notificationService) Retry(ctx context.Context, caller domain.Caller, logID int64) (domain.RetryResult, error) {
	if err := s.policy.Authorize(caller, domain.ActionRetry); err != nil {
		return domain.RetryResult{}, err
	}
	log, err := s.repo.GetByID(ctx, logID)
	if err != nil {
		return domain.RetryResult{}, err
	}
	if log.Status != domain.LogStatusFailed {
		return domain.RetryResult{LogID: logID, Status: log.Status, ErrorMessage: log.ErrorMessage}, nil
	}

	ok, err := s.repo.ResetForRetry(ctx, logID)
	if err != nil {
		return domain.RetryResult{}, err
	}
	if !ok {
		// 被别的请求抢先重试了
		cur, err1 := s.repo.GetByID(ctx, logID)
		if err1 != nil {
			return domain.RetryResult{}, err1
		}
		return domain.RetryResult{LogID: logID, Status: cur.Status, ErrorMessage: cur.ErrorMessage}, nil
	}

	log.Status = domain.LogStatusPending
	log.ErrorMessage = ""
	outcome, err := s.sender.Resend(ctx, log)
	s.logger.Info("重试通知",
		elog.Int64("logID", logID),
		elog.Int64("uid", caller.UserID),
		elog.String("status", outcome.Status.String()))
	return domain.RetryResult{
		LogID:        logID,
		Status:       outcome.Status,
		Retried:      true,
		ErrorMessage: outcome.ErrorMessage,
	}, err
}
