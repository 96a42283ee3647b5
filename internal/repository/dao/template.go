package dao

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gitee.com/autopuzzle/notification-center/internal/errs"
	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

// NotificationTemplate 通知模板表
type NotificationTemplate struct {
	ID        int64  `gorm:"primaryKey;autoIncrement;comment:'模板ID'"`
	Type      string `gorm:"type:ENUM('sms','email','in_app');NOT NULL;index:idx_type_active,priority:1;comment:'渠道'"`
	Name      string `gorm:"type:VARCHAR(255);NOT NULL;comment:'模板名称'"`
	Subject   string `gorm:"type:VARCHAR(255);NOT NULL;DEFAULT:'';comment:'邮件主题'"`
	Message   string `gorm:"type:TEXT;NOT NULL;comment:'模板内容，占位符格式 {name}'"`
	Variables string `gorm:"type:TEXT;comment:'变量列表 JSON'"`
	IsActive  bool   `gorm:"NOT NULL;index:idx_type_active,priority:2;comment:'是否启用'"`
	Ctime     int64
	Utime     int64
}

// TableName 重命名表
func (NotificationTemplate) TableName() string {
	return "notification_templates"
}

type TemplateQuery struct {
	Type       string
	Search     string
	ActiveOnly bool
}

type TemplateDAO interface {
	Create(ctx context.Context, data NotificationTemplate) (NotificationTemplate, error)
	Update(ctx context.Context, data NotificationTemplate) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (NotificationTemplate, error)
	Find(ctx context.Context, q TemplateQuery, offset, limit int) ([]NotificationTemplate, error)
	Count(ctx context.Context, q TemplateQuery) (int64, error)
}

type templateDAO struct {
	db *egorm.Component
}

func NewTemplateDAO(db *egorm.Component) TemplateDAO {
	return &templateDAO{db: db}
}

func (d *templateDAO) Create(ctx context.Context, data NotificationTemplate) (NotificationTemplate, error) {
	now := time.Now().UnixMilli()
	data.ID = 0
	data.Ctime, data.Utime = now, now
	err := d.db.WithContext(ctx).Create(&data).Error
	return data, err
}

func (d *templateDAO) Update(ctx context.Context, data NotificationTemplate) error {
	res := d.db.WithContext(ctx).Model(&NotificationTemplate{}).
		Where("id = ?", data.ID).
		Updates(map[string]any{
			"type":      data.Type,
			"name":      data.Name,
			"subject":   data.Subject,
			"message":   data.Message,
			"variables": data.Variables,
			"is_active": data.IsActive,
			"utime":     time.Now().UnixMilli(),
		})
	return d.checkAffected(ctx, res, data.ID)
}

func (d *templateDAO) SetActive(ctx context.Context, id int64, active bool) error {
	res := d.db.WithContext(ctx).Model(&NotificationTemplate{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_active": active,
			"utime":     time.Now().UnixMilli(),
		})
	return d.checkAffected(ctx, res, id)
}

func (d *templateDAO) Delete(ctx context.Context, id int64) error {
	res := d.db.WithContext(ctx).Where("id = ?", id).Delete(&NotificationTemplate{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id = %d", errs.ErrTemplateNotFound, id)
	}
	return nil
}

// checkAffected MySQL 在值没有变化时 RowsAffected 为 0，需要再确认记录是否存在
func (d *templateDAO) checkAffected(ctx context.Context, res *gorm.DB, id int64) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	_, err := d.GetByID(ctx, id)
	return err
}

func (d *templateDAO) GetByID(ctx context.Context, id int64) (NotificationTemplate, error) {
	var res NotificationTemplate
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotificationTemplate{}, fmt.Errorf("%w: id = %d", errs.ErrTemplateNotFound, id)
	}
	return res, err
}

func (d *templateDAO) Find(ctx context.Context, q TemplateQuery, offset, limit int) ([]NotificationTemplate, error) {
	var res []NotificationTemplate
	db := d.buildQuery(ctx, q).Order("id DESC").Offset(offset)
	if limit > 0 {
		db = db.Limit(limit)
	}
	err := db.Find(&res).Error
	return res, err
}

func (d *templateDAO) Count(ctx context.Context, q TemplateQuery) (int64, error) {
	var cnt int64
	err := d.buildQuery(ctx, q).Count(&cnt).Error
	return cnt, err
}

func (d *templateDAO) buildQuery(ctx context.Context, q TemplateQuery) *gorm.DB {
	db := d.db.WithContext(ctx).Model(&NotificationTemplate{})
	if q.Type != "" {
		db = db.Where("type = ?", q.Type)
	}
	if q.ActiveOnly {
		db = db.Where("is_active = ?", true)
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		db = db.Where("(LOWER(name) LIKE ? OR LOWER(message) LIKE ?)", pattern, pattern)
	}
	return db
}
