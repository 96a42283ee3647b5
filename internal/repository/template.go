package repository

import (
	"context"
	"encoding/json"
	"time"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/repository/cache/local"
	"gitee.com/autopuzzle/notification-center/internal/repository/dao"
	"github.com/ecodeclub/ekit/slice"
	"github.com/gotomicro/ego/core/elog"
)

// TemplateRepository 通知模板仓储
//
//go:generate mockgen -source=./template.go -destination=./mocks/template.mock.go -package=repomocks TemplateRepository
type TemplateRepository interface {
	Create(ctx context.Context, tpl domain.Template) (domain.Template, error)
	Update(ctx context.Context, tpl domain.Template) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (domain.Template, error)
	// Find limit 为 0 表示不限制
	Find(ctx context.Context, filter domain.TemplateFilter, offset, limit int) ([]domain.Template, error)
	Count(ctx context.Context, filter domain.TemplateFilter) (int64, error)
}

type templateRepository struct {
	dao    dao.TemplateDAO
	cache  *local.TemplateCache
	logger *elog.Component
}

func NewTemplateRepository(d dao.TemplateDAO, cache *local.TemplateCache) TemplateRepository {
	return &templateRepository{
		dao:    d,
		cache:  cache,
		logger: elog.DefaultLogger,
	}
}

func (r *templateRepository) Create(ctx context.Context, tpl domain.Template) (domain.Template, error) {
	entity, err := r.dao.Create(ctx, r.toEntity(tpl))
	if err != nil {
		return domain.Template{}, err
	}
	return r.toDomain(entity), nil
}

func (r *templateRepository) Update(ctx context.Context, tpl domain.Template) error {
	if err := r.dao.Update(ctx, r.toEntity(tpl)); err != nil {
		return err
	}
	r.invalidate(ctx, tpl.ID)
	return nil
}

func (r *templateRepository) SetActive(ctx context.Context, id int64, active bool) error {
	if err := r.dao.SetActive(ctx, id, active); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *templateRepository) Delete(ctx context.Context, id int64) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *templateRepository) GetByID(ctx context.Context, id int64) (domain.Template, error) {
	if tpl, err := r.cache.Get(ctx, id); err == nil {
		return tpl, nil
	}
	entity, err := r.dao.GetByID(ctx, id)
	if err != nil {
		return domain.Template{}, err
	}
	tpl := r.toDomain(entity)
	_ = r.cache.Set(ctx, tpl)
	return tpl, nil
}

func (r *templateRepository) Find(ctx context.Context, filter domain.TemplateFilter, offset, limit int) ([]domain.Template, error) {
	entities, err := r.dao.Find(ctx, r.toQuery(filter), offset, limit)
	if err != nil {
		return nil, err
	}
	return slice.Map(entities, func(_ int, src dao.NotificationTemplate) domain.Template {
		return r.toDomain(src)
	}), nil
}

func (r *templateRepository) Count(ctx context.Context, filter domain.TemplateFilter) (int64, error) {
	return r.dao.Count(ctx, r.toQuery(filter))
}

// invalidate 失效失败只影响其它实例，本地副本已经删除
func (r *templateRepository) invalidate(ctx context.Context, id int64) {
	if err := r.cache.Delete(ctx, id); err != nil {
		r.logger.Warn("广播模板失效失败", elog.Int64("templateID", id), elog.FieldErr(err))
	}
}

func (r *templateRepository) toQuery(filter domain.TemplateFilter) dao.TemplateQuery {
	return dao.TemplateQuery{
		Type:       string(filter.Channel),
		Search:     filter.Search,
		ActiveOnly: filter.ActiveOnly,
	}
}

func (r *templateRepository) toEntity(tpl domain.Template) dao.NotificationTemplate {
	var variables string
	if len(tpl.Variables) > 0 {
		// Validate 已经检查过，这里不会失败
		val, _ := json.Marshal(tpl.Variables)
		variables = string(val)
	}
	return dao.NotificationTemplate{
		ID:        tpl.ID,
		Type:      string(tpl.Channel),
		Name:      tpl.Name,
		Subject:   tpl.Subject,
		Message:   tpl.Message,
		Variables: variables,
		IsActive:  tpl.IsActive,
	}
}

func (r *templateRepository) toDomain(entity dao.NotificationTemplate) domain.Template {
	var variables []string
	if entity.Variables != "" {
		if err := json.Unmarshal([]byte(entity.Variables), &variables); err != nil {
			r.logger.Warn("模板变量列表格式不正确", elog.Int64("templateID", entity.ID), elog.FieldErr(err))
		}
	}
	return domain.Template{
		ID:        entity.ID,
		Channel:   domain.Channel(entity.Type),
		Name:      entity.Name,
		Subject:   entity.Subject,
		Message:   entity.Message,
		Variables: variables,
		IsActive:  entity.IsActive,
		CreatedAt: time.UnixMilli(entity.Ctime),
		UpdatedAt: time.UnixMilli(entity.Utime),
	}
}
