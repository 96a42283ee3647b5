package repository

import (
	"context"
	"fmt"
	"time"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
	id "gitee.com/autopuzzle/notification-center/internal/pkg/id_generator"
	"gitee.com/autopuzzle/notification-center/internal/repository/dao"
	"github.com/ecodeclub/ekit/slice"
)

// ScheduledRepository 定时通知仓储
//
//go:generate mockgen -source=./scheduled.go -destination=./mocks/scheduled.mock.go -package=repomocks ScheduledRepository
type ScheduledRepository interface {
	Create(ctx context.Context, s domain.ScheduledNotification) (domain.ScheduledNotification, error)
	GetByID(ctx context.Context, id int64) (domain.ScheduledNotification, error)
	FindDue(ctx context.Context, now time.Time, limit int) ([]domain.ScheduledNotification, error)
	// Claim 抢占一条到期记录，返回 false 说明已经被别人抢走
	Claim(ctx context.Context, id int64) (bool, error)
	MarkDispatched(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string) error
	// MarkStaleDispatchingFailed 返回本次标记的条数
	MarkStaleDispatchingFailed(ctx context.Context, before time.Time, reason string, limit int) (int64, error)
	Cancel(ctx context.Context, id int64) error
	List(ctx context.Context, status domain.ScheduleStatus, offset, limit int) ([]domain.ScheduledNotification, error)
	Count(ctx context.Context, status domain.ScheduleStatus) (int64, error)
}

type scheduledRepository struct {
	dao   dao.ScheduledNotificationDAO
	idGen id.Generator
}

func NewScheduledRepository(d dao.ScheduledNotificationDAO, idGen id.Generator) ScheduledRepository {
	return &scheduledRepository{
		dao:   d,
		idGen: idGen,
	}
}

func (r *scheduledRepository) Create(ctx context.Context, s domain.ScheduledNotification) (domain.ScheduledNotification, error) {
	sid, err := r.idGen.NextID()
	if err != nil {
		return domain.ScheduledNotification{}, fmt.Errorf("%w: %w", errs.ErrLogIDGenerate, err)
	}
	s.ID = sid
	entity, err := r.dao.Create(ctx, r.toEntity(s))
	if err != nil {
		return domain.ScheduledNotification{}, err
	}
	return r.toDomain(entity), nil
}

func (r *scheduledRepository) GetByID(ctx context.Context, id int64) (domain.ScheduledNotification, error) {
	entity, err := r.dao.GetByID(ctx, id)
	if err != nil {
		return domain.ScheduledNotification{}, err
	}
	return r.toDomain(entity), nil
}

func (r *scheduledRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]domain.ScheduledNotification, error) {
	entities, err := r.dao.FindDue(ctx, now.UnixMilli(), limit)
	if err != nil {
		return nil, err
	}
	return r.toDomains(entities), nil
}

func (r *scheduledRepository) Claim(ctx context.Context, id int64) (bool, error) {
	return r.dao.Claim(ctx, id)
}

func (r *scheduledRepository) MarkDispatched(ctx context.Context, id int64) error {
	return r.dao.MarkDispatched(ctx, id)
}

func (r *scheduledRepository) MarkFailed(ctx context.Context, id int64, reason string) error {
	return r.dao.MarkFailed(ctx, id, domain.TruncateReason(reason))
}

func (r *scheduledRepository) MarkStaleDispatchingFailed(ctx context.Context, before time.Time, reason string, limit int) (int64, error) {
	return r.dao.MarkStaleDispatchingFailed(ctx, before.UnixMilli(), domain.TruncateReason(reason), limit)
}

func (r *scheduledRepository) Cancel(ctx context.Context, id int64) error {
	return r.dao.DeleteWaiting(ctx, id)
}

func (r *scheduledRepository) List(ctx context.Context, status domain.ScheduleStatus, offset, limit int) ([]domain.ScheduledNotification, error) {
	entities, err := r.dao.Find(ctx, string(status), offset, limit)
	if err != nil {
		return nil, err
	}
	return r.toDomains(entities), nil
}

func (r *scheduledRepository) Count(ctx context.Context, status domain.ScheduleStatus) (int64, error) {
	return r.dao.Count(ctx, string(status))
}

func (r *scheduledRepository) toDomains(entities []dao.ScheduledNotification) []domain.ScheduledNotification {
	return slice.Map(entities, func(_ int, src dao.ScheduledNotification) domain.ScheduledNotification {
		return r.toDomain(src)
	})
}

func (r *scheduledRepository) toEntity(s domain.ScheduledNotification) dao.ScheduledNotification {
	return dao.ScheduledNotification{
		ID:            s.ID,
		Type:          string(s.Channel),
		RecipientKind: string(s.Recipient.Kind),
		Recipient:     s.Recipient.Value(),
		Subject:       s.Subject,
		Message:       s.Message,
		RelatedID:     s.RelatedID,
		UserID:        s.UserID,
		ScheduledAt:   s.ScheduledAt.UnixMilli(),
		Calendar:      string(s.Calendar),
		LocalInput:    s.LocalInput,
		Status:        string(s.Status),
	}
}

func (r *scheduledRepository) toDomain(entity dao.ScheduledNotification) domain.ScheduledNotification {
	s := domain.ScheduledNotification{
		ID:           entity.ID,
		Channel:      domain.Channel(entity.Type),
		Recipient:    domain.RecipientFromValue(domain.RecipientKind(entity.RecipientKind), entity.Recipient),
		Subject:      entity.Subject,
		Message:      entity.Message,
		RelatedID:    entity.RelatedID,
		UserID:       entity.UserID,
		ScheduledAt:  time.UnixMilli(entity.ScheduledAt),
		Calendar:     domain.Calendar(entity.Calendar),
		LocalInput:   entity.LocalInput,
		Status:       domain.ScheduleStatus(entity.Status),
		ErrorMessage: entity.ErrorMessage.String,
		CreatedAt:    time.UnixMilli(entity.Ctime),
		UpdatedAt:    time.UnixMilli(entity.Utime),
	}
	if entity.DispatchedAt.Valid {
		s.DispatchedAt = time.UnixMilli(entity.DispatchedAt.Int64)
	}
	return s
}
