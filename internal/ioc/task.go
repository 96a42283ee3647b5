package ioc

import (
	"gitee.com/autopuzzle/notification-center/internal/event/notification"
	"gitee.com/autopuzzle/notification-center/internal/repository/cache/local"
	"gitee.com/autopuzzle/notification-center/internal/service/scheduler"
)

func InitTasks(t1 *scheduler.DueCheckTask,
	t2 *local.TemplateCache,
	t3 *notification.DispatchConsumer,
) []Task {
	return []Task{
		t1,
		t2,
		t3,
	}
}
