package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
	"github.com/ego-component/egorm"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const dayMillis = int64(24 * time.Hour / time.Millisecond)

type NotificationLogDAO interface {
	Create(ctx context.Context, data NotificationLog) (NotificationLog, error)
	GetByID(ctx context.Context, id int64) (NotificationLog, error)

	// MarkSent 和 MarkFailed 只会修改 pending 的记录，已经是目标状态时什么也不做
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string) error
	// ResetForRetry 把 failed 重置为 pending，返回是否抢到了这次重试
	ResetForRetry(ctx context.Context, id int64) (bool, error)
	// MarkStalePendingFailed 把长时间停留在 pending 的记录标记为失败
	MarkStalePendingFailed(ctx context.Context, before int64, reason string, limit int) (int64, error)

	Find(ctx context.Context, q LogQuery, offset, limit int) ([]NotificationLog, error)
	Count(ctx context.Context, q LogQuery) (int64, error)
	// FindAfterID 按 ID 升序分批读取，用于导出
	FindAfterID(ctx context.Context, q LogQuery, afterID int64, limit int) ([]NotificationLog, error)
	CountByTypeStatus(ctx context.Context, q LogQuery) ([]TypeStatusCount, error)
	// CountByDay 按天分组，offsetMillis 为时区偏移
	CountByDay(ctx context.Context, q LogQuery, offsetMillis int64) ([]DayStatusCount, error)
}

// NotificationLog 通知发送记录表
type NotificationLog struct {
	ID           int64          `gorm:"primaryKey;autoIncrement:false;comment:'sonyflake ID'"`
	Type         string         `gorm:"type:ENUM('sms','email','in_app');NOT NULL;index:idx_type_status_ctime,priority:1;comment:'渠道'"`
	Recipient    string         `gorm:"type:VARCHAR(255);NOT NULL;comment:'手机号、邮箱或者用户ID'"`
	Message      string         `gorm:"type:TEXT;NOT NULL;comment:'渲染之后的内容，邮件第一行是 Subject'"`
	Status       string         `gorm:"type:ENUM('pending','sent','failed');NOT NULL;DEFAULT:'pending';index:idx_type_status_ctime,priority:2;index:idx_status_ctime,priority:1;comment:'发送状态'"`
	ErrorMessage sql.NullString `gorm:"type:VARCHAR(255);comment:'失败原因'"`
	RelatedID    int64          `gorm:"type:BIGINT;NOT NULL;DEFAULT:0;index:idx_related_id;comment:'关联的业务ID'"`
	UserID       int64          `gorm:"type:BIGINT;NOT NULL;DEFAULT:0;comment:'发起人'"`
	ScheduledID  int64          `gorm:"type:BIGINT;NOT NULL;DEFAULT:0;comment:'来源定时通知ID'"`
	RetryCount   int            `gorm:"type:INT;NOT NULL;DEFAULT:0;comment:'手动重试次数'"`
	SentAt       sql.NullInt64  `gorm:"comment:'结束时间，pending 时为 NULL'"`
	Ctime        int64          `gorm:"index:idx_type_status_ctime,priority:3;index:idx_status_ctime,priority:2;index:idx_ctime"`
	Utime        int64
}

// TableName 重命名表
func (NotificationLog) TableName() string {
	return "notification_logs"
}

// LogQuery 零值字段不参与过滤，时间单位毫秒
type LogQuery struct {
	Type      string
	Status    string
	Since     int64 // 包含
	Until     int64 // 不包含
	Search    string
	RelatedID int64
}

type TypeStatusCount struct {
	Type   string
	Status string
	Cnt    int64
}

type DayStatusCount struct {
	Day    int64 // 自 epoch 起的天数，已经按时区偏移
	Status string
	Cnt    int64
}

type notificationLogDAO struct {
	db *egorm.Component
}

func NewNotificationLogDAO(db *egorm.Component) NotificationLogDAO {
	return &notificationLogDAO{db: db}
}

func (d *notificationLogDAO) Create(ctx context.Context, data NotificationLog) (NotificationLog, error) {
	now := time.Now().UnixMilli()
	data.Ctime, data.Utime = now, now
	data.Status = string(domain.LogStatusPending)
	data.SentAt = sql.NullInt64{}
	data.ErrorMessage = sql.NullString{}
	err := d.db.WithContext(ctx).Create(&data).Error
	if isUniqueConstraintError(err) {
		return NotificationLog{}, fmt.Errorf("%w: id = %d", errs.ErrLogDuplicate, data.ID)
	}
	return data, err
}

func (d *notificationLogDAO) GetByID(ctx context.Context, id int64) (NotificationLog, error) {
	var res NotificationLog
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotificationLog{}, fmt.Errorf("%w: id = %d", errs.ErrLogNotFound, id)
	}
	return res, err
}

func (d *notificationLogDAO) MarkSent(ctx context.Context, id int64) error {
	return d.markTerminal(ctx, id, domain.LogStatusSent, sql.NullString{})
}

func (d *notificationLogDAO) MarkFailed(ctx context.Context, id int64, reason string) error {
	return d.markTerminal(ctx, id, domain.LogStatusFailed, sql.NullString{String: reason, Valid: true})
}

func (d *notificationLogDAO) markTerminal(ctx context.Context, id int64, status domain.LogStatus, reason sql.NullString) error {
	now := time.Now().UnixMilli()
	res := d.db.WithContext(ctx).Model(&NotificationLog{}).
		Where("id = ? AND status = ?", id, domain.LogStatusPending).
		Updates(map[string]any{
			"status":        string(status),
			"error_message": reason,
			"sent_at":       now,
			"utime":         now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// 没有更新到，要么记录不存在，要么已经不是 pending
	var cur NotificationLog
	err := d.db.WithContext(ctx).Select("id", "status").Where("id = ?", id).First(&cur).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: id = %d", errs.ErrLogNotFound, id)
	}
	if err != nil {
		return err
	}
	if cur.Status == string(status) {
		return nil
	}
	return fmt.Errorf("%w: id = %d, status = %s", errs.ErrLogStatusConflict, id, cur.Status)
}

func (d *notificationLogDAO) ResetForRetry(ctx context.Context, id int64) (bool, error) {
	res := d.db.WithContext(ctx).Model(&NotificationLog{}).
		Where("id = ? AND status = ?", id, domain.LogStatusFailed).
		Updates(map[string]any{
			"status":        string(domain.LogStatusPending),
			"error_message": sql.NullString{},
			"sent_at":       sql.NullInt64{},
			"retry_count":   gorm.Expr("retry_count + 1"),
			"utime":         time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (d *notificationLogDAO) MarkStalePendingFailed(ctx context.Context, before int64, reason string, limit int) (int64, error) {
	var ids []int64
	err := d.db.WithContext(ctx).Model(&NotificationLog{}).
		Where("status = ? AND utime < ?", domain.LogStatusPending, before).
		Order("utime ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil || len(ids) == 0 {
		return 0, err
	}
	now := time.Now().UnixMilli()
	// 带上 status 条件，避免覆盖刚刚结束的记录
	res := d.db.WithContext(ctx).Model(&NotificationLog{}).
		Where("id IN ? AND status = ?", ids, domain.LogStatusPending).
		Updates(map[string]any{
			"status":        string(domain.LogStatusFailed),
			"error_message": sql.NullString{String: reason, Valid: true},
			"sent_at":       now,
			"utime":         now,
		})
	return res.RowsAffected, res.Error
}

func (d *notificationLogDAO) Find(ctx context.Context, q LogQuery, offset, limit int) ([]NotificationLog, error) {
	var res []NotificationLog
	err := d.buildQuery(ctx, q).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (d *notificationLogDAO) Count(ctx context.Context, q LogQuery) (int64, error) {
	var cnt int64
	err := d.buildQuery(ctx, q).Count(&cnt).Error
	return cnt, err
}

func (d *notificationLogDAO) FindAfterID(ctx context.Context, q LogQuery, afterID int64, limit int) ([]NotificationLog, error) {
	var res []NotificationLog
	err := d.buildQuery(ctx, q).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (d *notificationLogDAO) CountByTypeStatus(ctx context.Context, q LogQuery) ([]TypeStatusCount, error) {
	var res []TypeStatusCount
	err := d.buildQuery(ctx, q).
		Select("type, status, COUNT(*) AS cnt").
		Group("type, status").
		Scan(&res).Error
	return res, err
}

func (d *notificationLogDAO) CountByDay(ctx context.Context, q LogQuery, offsetMillis int64) ([]DayStatusCount, error) {
	var res []DayStatusCount
	err := d.buildQuery(ctx, q).
		Select("FLOOR((ctime + ?) / ?) AS day, status, COUNT(*) AS cnt", offsetMillis, dayMillis).
		Group("day, status").
		Order("day ASC").
		Scan(&res).Error
	return res, err
}

func (d *notificationLogDAO) buildQuery(ctx context.Context, q LogQuery) *gorm.DB {
	db := d.db.WithContext(ctx).Model(&NotificationLog{})
	if q.Type != "" {
		db = db.Where("type = ?", q.Type)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.Since > 0 {
		db = db.Where("ctime >= ?", q.Since)
	}
	if q.Until > 0 {
		db = db.Where("ctime < ?", q.Until)
	}
	if q.RelatedID > 0 {
		db = db.Where("related_id = ?", q.RelatedID)
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		db = db.Where("(LOWER(message) LIKE ? OR LOWER(recipient) LIKE ?)", pattern, pattern)
	}
	return db
}

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeReplacer.Replace(s)
}

// isUniqueConstraintError 检查是否是唯一索引冲突错误
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	me := new(mysql.MySQLError)
	if ok := errors.As(err, &me); ok {
		const uniqueIndexErrNo uint16 = 1062
		return me.Number == uniqueIndexErrNo
	}
	return false
}
