package dao

import (
	"context"
	"time"

	"github.com/ego-component/egorm"
)

// InAppNotification 站内信，宿主应用的通知中心读取这张表
type InAppNotification struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	UserID    int64  `gorm:"type:BIGINT;NOT NULL;index:idx_user_read,priority:1;comment:'接收用户'"`
	LogID     int64  `gorm:"type:BIGINT;NOT NULL;DEFAULT:0;comment:'对应的发送记录'"`
	Title     string `gorm:"type:VARCHAR(255);NOT NULL;DEFAULT:''"`
	Message   string `gorm:"type:TEXT;NOT NULL"`
	RelatedID int64  `gorm:"type:BIGINT;NOT NULL;DEFAULT:0"`
	IsRead    bool   `gorm:"NOT NULL;DEFAULT:false;index:idx_user_read,priority:2"`
	Ctime     int64
	Utime     int64
}

// TableName 重命名表
func (InAppNotification) TableName() string {
	return "in_app_notifications"
}

type InAppNotificationDAO interface {
	Create(ctx context.Context, data InAppNotification) (int64, error)
}

type inAppNotificationDAO struct {
	db *egorm.Component
}

func NewInAppNotificationDAO(db *egorm.Component) InAppNotificationDAO {
	return &inAppNotificationDAO{db: db}
}

func (d *inAppNotificationDAO) Create(ctx context.Context, data InAppNotification) (int64, error) {
	now := time.Now().UnixMilli()
	data.Ctime, data.Utime = now, now
	err := d.db.WithContext(ctx).Create(&data).Error
	return data.ID, err
}
