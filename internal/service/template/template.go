package template

import (
	"context"
	"fmt"
	"strings"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
	"gitee.com/autopuzzle/notification-center/internal/repository"
	"gitee.com/autopuzzle/notification-center/internal/service/auth"
	"github.com/gotomicro/ego/core/elog"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

// Service 模板管理
//
//go:generate mockgen -source=./template.go -destination=./mocks/template.mock.go -package=templatemocks Service
type Service interface {
	List(ctx context.Context, caller domain.Caller, filter domain.TemplateFilter, offset, limit int) ([]domain.Template, int64, error)
	// ListActive 发送页面可选的模板
	ListActive(ctx context.Context, caller domain.Caller, channel domain.Channel) ([]domain.Template, error)
	Get(ctx context.Context, caller domain.Caller, id int64) (domain.Template, error)
	Create(ctx context.Context, caller domain.Caller, tpl domain.Template) (domain.Template, error)
	Update(ctx context.Context, caller domain.Caller, tpl domain.Template) error
	Delete(ctx context.Context, caller domain.Caller, id int64) error
	Duplicate(ctx context.Context, caller domain.Caller, id int64) (domain.Template, error)
	SetActive(ctx context.Context, caller domain.Caller, id int64, active bool) error

	// Resolve 发送时使用，模板必须存在、启用并且渠道一致
	Resolve(ctx context.Context, id int64, channel domain.Channel) (domain.Template, error)
}

type templateService struct {
	repo   repository.TemplateRepository
	policy auth.Policy
	logger *elog.Component
}

func NewService(repo repository.TemplateRepository, policy auth.Policy) Service {
	return &templateService{
		repo:   repo,
		policy: policy,
		logger: elog.DefaultLogger,
	}
}

func (s *templateService) List(ctx context.Context, caller domain.Caller, filter domain.TemplateFilter, offset, limit int) ([]domain.Template, int64, error) {
	if err := s.policy.Authorize(caller, domain.ActionManageTemplates); err != nil {
		return nil, 0, err
	}
	if filter.Channel != "" && !filter.Channel.IsValid() {
		return nil, 0, fmt.Errorf("%w: type = %q", errs.ErrInvalidParameter, filter.Channel)
	}
	offset, limit = normalizePage(offset, limit)
	list, err := s.repo.Find(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (s *templateService) ListActive(ctx context.Context, caller domain.Caller, channel domain.Channel) ([]domain.Template, error) {
	if err := s.policy.Authorize(caller, domain.ActionDispatch); err != nil {
		return nil, err
	}
	if channel != "" && !channel.IsValid() {
		return nil, fmt.Errorf("%w: type = %q", errs.ErrInvalidParameter, channel)
	}
	return s.repo.Find(ctx, domain.TemplateFilter{Channel: channel, ActiveOnly: true}, 0, 0)
}

func (s *templateService) Get(ctx context.Context, caller domain.Caller, id int64) (domain.Template, error) {
	if err := s.policy.Authorize(caller, domain.ActionManageTemplates); err != nil {
		return domain.Template{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *templateService) Create(ctx context.Context, caller domain.Caller, tpl domain.Template) (domain.Template, error) {
	if err := s.policy.Authorize(caller, domain.ActionManageTemplates); err != nil {
		return domain.Template{}, err
	}
	tpl = normalize(tpl)
	if err := tpl.Validate(); err != nil {
		return domain.Template{}, err
	}
	res, err := s.repo.Create(ctx, tpl)
	if err != nil {
		return domain.Template{}, err
	}
	s.logger.Info("创建模板", elog.Int64("templateID", res.ID), elog.Int64("uid", caller.UserID))
	return res, nil
}

func (s *templateService) Update(ctx context.Context, caller domain.Caller, tpl domain.Template) error {
	if err := s.policy.Authorize(caller, domain.ActionManageTemplates); err != nil {
		return err
	}
	if tpl.ID <= 0 {
		return fmt.Errorf("%w: id = %d", errs.ErrInvalidParameter, tpl.ID)
	}
	tpl = normalize(tpl)
	if err := tpl.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, tpl)
}

func (s *templateService) Delete(ctx context.Context, caller domain.Caller, id int64) error {
	if err := s.policy.Authorize(caller, domain.ActionManageTemplates); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *templateService) Duplicate(ctx context.Context, caller domain.Caller, id int64) (domain.Template, error) {
	if err := s.policy.Authorize(caller, domain.ActionManageTemplates); err != nil {
		return domain.Template{}, err
	}
	src, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Template{}, err
	}
	return s.repo.Create(ctx, src.Duplicate())
}

func (s *templateService) SetActive(ctx context.Context, caller domain.Caller, id int64, active bool) error {
	if err := s.policy.Authorize(caller, domain.ActionManageTemplates); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, id, active)
}

func (s *templateService) Resolve(ctx context.Context, id int64, channel domain.Channel) (domain.Template, error) {
	tpl, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Template{}, err
	}
	if tpl.Channel != channel {
		return domain.Template{}, fmt.Errorf("%w: 模板 %d 属于 %s", errs.ErrTemplateChannelMismatch, id, tpl.Channel)
	}
	if !tpl.IsActive {
		return domain.Template{}, fmt.Errorf("%w: id = %d", errs.ErrTemplateInactive, id)
	}
	return tpl, nil
}

func normalize(tpl domain.Template) domain.Template {
	tpl.Name = strings.TrimSpace(tpl.Name)
	tpl.Subject = strings.TrimSpace(tpl.Subject)
	if tpl.Channel != domain.ChannelEmail {
		tpl.Subject = ""
	}
	vars := make([]string, 0, len(tpl.Variables))
	for _, v := range tpl.Variables {
		if v = strings.TrimSpace(v); v != "" {
			vars = append(vars, v)
		}
	}
	tpl.Variables = vars
	return tpl
}

func normalizePage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return offset, limit
}
