package dao

import (
	"github.com/ego-component/egorm"
)

// InitTables 只创建本服务拥有的表，users 由宿主应用维护
func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(
		&NotificationLog{},
		&NotificationTemplate{},
		&ScheduledNotification{},
		&InAppNotification{},
	)
}
