package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

// ScheduledNotification 定时通知表
type ScheduledNotification struct {
	ID            int64          `gorm:"primaryKey;autoIncrement:false;comment:'sonyflake ID'"`
	Type          string         `gorm:"type:ENUM('sms','email','in_app');NOT NULL;comment:'渠道'"`
	RecipientKind string         `gorm:"type:ENUM('single','role_group','custom_list');NOT NULL;comment:'接收者类型'"`
	Recipient     string         `gorm:"type:TEXT;NOT NULL;comment:'地址、角色组或者换行分隔的地址列表'"`
	Subject       string         `gorm:"type:VARCHAR(255);NOT NULL;DEFAULT:'';comment:'邮件主题'"`
	Message       string         `gorm:"type:TEXT;NOT NULL;comment:'已经渲染的内容'"`
	RelatedID     int64          `gorm:"type:BIGINT;NOT NULL;DEFAULT:0"`
	UserID        int64          `gorm:"type:BIGINT;NOT NULL;DEFAULT:0"`
	ScheduledAt   int64          `gorm:"NOT NULL;index:idx_status_scheduled_at,priority:2;comment:'计划发送时间，UTC 毫秒'"`
	Calendar      string         `gorm:"type:ENUM('gregorian','jalali');NOT NULL;DEFAULT:'gregorian';comment:'用户输入使用的历法'"`
	LocalInput    string         `gorm:"type:VARCHAR(64);NOT NULL;DEFAULT:'';comment:'用户输入的本地时间'"`
	Status        string         `gorm:"type:ENUM('waiting','dispatching','dispatched','failed');NOT NULL;DEFAULT:'waiting';index:idx_status_scheduled_at,priority:1"`
	ErrorMessage  sql.NullString `gorm:"type:VARCHAR(255)"`
	DispatchedAt  sql.NullInt64
	Ctime         int64
	Utime         int64
}

// TableName 重命名表
func (ScheduledNotification) TableName() string {
	return "scheduled_notifications"
}

type ScheduledNotificationDAO interface {
	Create(ctx context.Context, data ScheduledNotification) (ScheduledNotification, error)
	GetByID(ctx context.Context, id int64) (ScheduledNotification, error)
	// FindDue 到期且未被抢占的记录，按计划时间排序
	FindDue(ctx context.Context, now int64, limit int) ([]ScheduledNotification, error)
	// Claim waiting -> dispatching，只有一个调用方会返回 true
	Claim(ctx context.Context, id int64) (bool, error)
	MarkDispatched(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string) error
	// MarkStaleDispatchingFailed 抢占之后长时间没有结束的记录标记为失败，不会再发送
	MarkStaleDispatchingFailed(ctx context.Context, before int64, reason string, limit int) (int64, error)
	// DeleteWaiting 只能删除尚未被抢占的记录
	DeleteWaiting(ctx context.Context, id int64) error
	Find(ctx context.Context, status string, offset, limit int) ([]ScheduledNotification, error)
	Count(ctx context.Context, status string) (int64, error)
}

type scheduledNotificationDAO struct {
	db *egorm.Component
}

func NewScheduledNotificationDAO(db *egorm.Component) ScheduledNotificationDAO {
	return &scheduledNotificationDAO{db: db}
}

func (d *scheduledNotificationDAO) Create(ctx context.Context, data ScheduledNotification) (ScheduledNotification, error) {
	now := time.Now().UnixMilli()
	data.Ctime, data.Utime = now, now
	data.Status = string(domain.ScheduleStatusWaiting)
	err := d.db.WithContext(ctx).Create(&data).Error
	return data, err
}

func (d *scheduledNotificationDAO) GetByID(ctx context.Context, id int64) (ScheduledNotification, error) {
	var res ScheduledNotification
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ScheduledNotification{}, fmt.Errorf("%w: id = %d", errs.ErrScheduleNotFound, id)
	}
	return res, err
}

func (d *scheduledNotificationDAO) FindDue(ctx context.Context, now int64, limit int) ([]ScheduledNotification, error) {
	var res []ScheduledNotification
	err := d.db.WithContext(ctx).
		Where("status = ? AND scheduled_at <= ?", domain.ScheduleStatusWaiting, now).
		Order("scheduled_at ASC, id ASC").
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (d *scheduledNotificationDAO) Claim(ctx context.Context, id int64) (bool, error) {
	res := d.db.WithContext(ctx).Model(&ScheduledNotification{}).
		Where("id = ? AND status = ?", id, domain.ScheduleStatusWaiting).
		Updates(map[string]any{
			"status": string(domain.ScheduleStatusDispatching),
			"utime":  time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (d *scheduledNotificationDAO) MarkDispatched(ctx context.Context, id int64) error {
	return d.finish(ctx, id, domain.ScheduleStatusDispatched, sql.NullString{})
}

func (d *scheduledNotificationDAO) MarkFailed(ctx context.Context, id int64, reason string) error {
	return d.finish(ctx, id, domain.ScheduleStatusFailed, sql.NullString{String: reason, Valid: true})
}

func (d *scheduledNotificationDAO) finish(ctx context.Context, id int64, status domain.ScheduleStatus, reason sql.NullString) error {
	now := time.Now().UnixMilli()
	return d.db.WithContext(ctx).Model(&ScheduledNotification{}).
		Where("id = ? AND status = ?", id, domain.ScheduleStatusDispatching).
		Updates(map[string]any{
			"status":        string(status),
			"error_message": reason,
			"dispatched_at": now,
			"utime":         now,
		}).Error
}

func (d *scheduledNotificationDAO) MarkStaleDispatchingFailed(ctx context.Context, before int64, reason string, limit int) (int64, error) {
	var ids []int64
	// Claim 的时候更新了 utime
	err := d.db.WithContext(ctx).Model(&ScheduledNotification{}).
		Where("status = ? AND utime < ?", domain.ScheduleStatusDispatching, before).
		Order("utime ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil || len(ids) == 0 {
		return 0, err
	}
	now := time.Now().UnixMilli()
	res := d.db.WithContext(ctx).Model(&ScheduledNotification{}).
		Where("id IN ? AND status = ?", ids, domain.ScheduleStatusDispatching).
		Updates(map[string]any{
			"status":        string(domain.ScheduleStatusFailed),
			"error_message": sql.NullString{String: reason, Valid: true},
			"dispatched_at": now,
			"utime":         now,
		})
	return res.RowsAffected, res.Error
}

func (d *scheduledNotificationDAO) DeleteWaiting(ctx context.Context, id int64) error {
	res := d.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, domain.ScheduleStatusWaiting).
		Delete(&ScheduledNotification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if _, err := d.GetByID(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("%w: id = %d", errs.ErrScheduleNotCancelable, id)
}

func (d *scheduledNotificationDAO) Find(ctx context.Context, status string, offset, limit int) ([]ScheduledNotification, error) {
	var res []ScheduledNotification
	db := d.db.WithContext(ctx).Model(&ScheduledNotification{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Order("scheduled_at ASC, id ASC").Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (d *scheduledNotificationDAO) Count(ctx context.Context, status string) (int64, error) {
	var cnt int64
	db := d.db.WithContext(ctx).Model(&ScheduledNotification{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Count(&cnt).Error
	return cnt, err
}
