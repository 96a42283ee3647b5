package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
	id "gitee.com/autopuzzle/notification-center/internal/pkg/id_generator"
	"gitee.com/autopuzzle/notification-center/internal/repository/dao"
	"github.com/ecodeclub/ekit/slice"
)

const dayMillis = int64(24 * time.Hour / time.Millisecond)

// NotificationLogRepository 发送记录仓储
//
//go:generate mockgen -source=./notification_log.go -destination=./mocks/notification_log.mock.go -package=repomocks NotificationLogRepository
type NotificationLogRepository interface {
	// Append 新建一条 pending 记录，返回分配的 ID
	Append(ctx context.Context, log domain.NotificationLog) (int64, error)
	GetByID(ctx context.Context, id int64) (domain.NotificationLog, error)

	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string) error
	// ResetForRetry failed -> pending，返回 false 表示记录不是 failed
	ResetForRetry(ctx context.Context, id int64) (bool, error)
	MarkStalePendingFailed(ctx context.Context, before time.Time, reason string, limit int) (int64, error)

	Query(ctx context.Context, filter domain.LogFilter, offset, limit int) ([]domain.NotificationLog, error)
	Count(ctx context.Context, filter domain.LogFilter) (int64, error)
	// Stream 按 ID 升序分批遍历全部匹配的记录
	Stream(ctx context.Context, filter domain.LogFilter, batch int, fn func(logs []domain.NotificationLog) error) error

	Stats(ctx context.Context, filter domain.LogFilter) (domain.Stats, error)
	// CountByDay 按 loc 的自然日分组
	CountByDay(ctx context.Context, filter domain.LogFilter, loc *time.Location) ([]domain.DailyCount, error)
}

type notificationLogRepository struct {
	dao   dao.NotificationLogDAO
	idGen id.Generator
}

func NewNotificationLogRepository(d dao.NotificationLogDAO, idGen id.Generator) NotificationLogRepository {
	return &notificationLogRepository{
		dao:   d,
		idGen: idGen,
	}
}

func (r *notificationLogRepository) Append(ctx context.Context, log domain.NotificationLog) (int64, error) {
	if err := log.Validate(); err != nil {
		return 0, err
	}
	logID, err := r.idGen.NextID()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errs.ErrLogIDGenerate, err)
	}
	log.ID = logID
	res, err := r.dao.Create(ctx, r.toEntity(log))
	if err != nil {
		return 0, err
	}
	return res.ID, nil
}

func (r *notificationLogRepository) GetByID(ctx context.Context, id int64) (domain.NotificationLog, error) {
	entity, err := r.dao.GetByID(ctx, id)
	if err != nil {
		return domain.NotificationLog{}, err
	}
	return r.toDomain(entity), nil
}

func (r *notificationLogRepository) MarkSent(ctx context.Context, id int64) error {
	return r.dao.MarkSent(ctx, id)
}

func (r *notificationLogRepository) MarkFailed(ctx context.Context, id int64, reason string) error {
	return r.dao.MarkFailed(ctx, id, domain.TruncateReason(reason))
}

func (r *notificationLogRepository) ResetForRetry(ctx context.Context, id int64) (bool, error) {
	return r.dao.ResetForRetry(ctx, id)
}

func (r *notificationLogRepository) MarkStalePendingFailed(ctx context.Context, before time.Time, reason string, limit int) (int64, error) {
	return r.dao.MarkStalePendingFailed(ctx, before.UnixMilli(), domain.TruncateReason(reason), limit)
}

func (r *notificationLogRepository) Query(ctx context.Context, filter domain.LogFilter, offset, limit int) ([]domain.NotificationLog, error) {
	entities, err := r.dao.Find(ctx, r.toQuery(filter), offset, limit)
	if err != nil {
		return nil, err
	}
	return slice.Map(entities, func(_ int, src dao.NotificationLog) domain.NotificationLog {
		return r.toDomain(src)
	}), nil
}

func (r *notificationLogRepository) Count(ctx context.Context, filter domain.LogFilter) (int64, error) {
	return r.dao.Count(ctx, r.toQuery(filter))
}

func (r *notificationLogRepository) Stream(ctx context.Context, filter domain.LogFilter, batch int, fn func(logs []domain.NotificationLog) error) error {
	q := r.toQuery(filter)
	var afterID int64
	for {
		entities, err := r.dao.FindAfterID(ctx, q, afterID, batch)
		if err != nil {
			return err
		}
		if len(entities) == 0 {
			return nil
		}
		logs := slice.Map(entities, func(_ int, src dao.NotificationLog) domain.NotificationLog {
			return r.toDomain(src)
		})
		if err = fn(logs); err != nil {
			return err
		}
		if len(entities) < batch {
			return nil
		}
		afterID = entities[len(entities)-1].ID
	}
}

func (r *notificationLogRepository) Stats(ctx context.Context, filter domain.LogFilter) (domain.Stats, error) {
	counts, err := r.dao.CountByTypeStatus(ctx, r.toQuery(filter))
	if err != nil {
		return domain.Stats{}, err
	}
	stats := domain.NewStats()
	for _, c := range counts {
		stats.Total += c.Cnt
		switch domain.LogStatus(c.Status) {
		case domain.LogStatusSent:
			stats.Sent += c.Cnt
			stats.SentByChannel[domain.Channel(c.Type)] += c.Cnt
		case domain.LogStatusFailed:
			stats.Failed += c.Cnt
		case domain.LogStatusPending:
			stats.Pending += c.Cnt
		}
	}
	return stats, nil
}

func (r *notificationLogRepository) CountByDay(ctx context.Context, filter domain.LogFilter, loc *time.Location) ([]domain.DailyCount, error) {
	// 用区间起点的偏移量，跨越夏令时切换的区间会有一个小时的误差
	ref := filter.Since
	if ref.IsZero() {
		ref = time.Now()
	}
	_, offset := ref.In(loc).Zone()
	offsetMillis := int64(offset) * 1000

	counts, err := r.dao.CountByDay(ctx, r.toQuery(filter), offsetMillis)
	if err != nil {
		return nil, err
	}
	return slice.Map(counts, func(_ int, src dao.DayStatusCount) domain.DailyCount {
		return domain.DailyCount{
			Day:    time.UnixMilli(src.Day*dayMillis - offsetMillis).In(loc),
			Status: domain.LogStatus(src.Status),
			Count:  src.Cnt,
		}
	}), nil
}

func (r *notificationLogRepository) toQuery(filter domain.LogFilter) dao.LogQuery {
	q := dao.LogQuery{
		Type:      string(filter.Channel),
		Status:    string(filter.Status),
		Search:    filter.Search,
		RelatedID: filter.RelatedID,
	}
	if !filter.Since.IsZero() {
		q.Since = filter.Since.UnixMilli()
	}
	if !filter.Until.IsZero() {
		q.Until = filter.Until.UnixMilli()
	}
	return q
}

func (r *notificationLogRepository) toEntity(log domain.NotificationLog) dao.NotificationLog {
	entity := dao.NotificationLog{
		ID:          log.ID,
		Type:        string(log.Channel),
		Recipient:   log.Recipient,
		Message:     log.Message,
		Status:      string(log.Status),
		RelatedID:   log.RelatedID,
		UserID:      log.UserID,
		ScheduledID: log.ScheduledID,
		RetryCount:  log.RetryCount,
	}
	if log.ErrorMessage != "" {
		entity.ErrorMessage = sql.NullString{String: log.ErrorMessage, Valid: true}
	}
	if !log.SentAt.IsZero() {
		entity.SentAt = sql.NullInt64{Int64: log.SentAt.UnixMilli(), Valid: true}
	}
	return entity
}

func (r *notificationLogRepository) toDomain(entity dao.NotificationLog) domain.NotificationLog {
	log := domain.NotificationLog{
		ID:           entity.ID,
		Channel:      domain.Channel(entity.Type),
		Recipient:    entity.Recipient,
		Message:      entity.Message,
		Status:       domain.LogStatus(entity.Status),
		ErrorMessage: entity.ErrorMessage.String,
		RelatedID:    entity.RelatedID,
		UserID:       entity.UserID,
		ScheduledID:  entity.ScheduledID,
		RetryCount:   entity.RetryCount,
		CreatedAt:    time.UnixMilli(entity.Ctime),
		UpdatedAt:    time.UnixMilli(entity.Utime),
	}
	if entity.SentAt.Valid {
		log.SentAt = time.UnixMilli(entity.SentAt.Int64)
	}
	return log
}
