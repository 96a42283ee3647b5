package ioc

import (
	"gitee.com/autopuzzle/notification-center/internal/service/notification"
	"gitee.com/autopuzzle/notification-center/internal/service/scheduler"
	"github.com/gotomicro/ego/task/ecron"
)

func InitCrons(stale *notification.StalePendingTask, staleScheduled *scheduler.StaleDispatchingTask) []ecron.Ecron {
	staleSweep := ecron.Load("cron.staleSweep").Build(ecron.WithJob(stale.Do))
	staleScheduledSweep := ecron.Load("cron.staleDispatchingSweep").Build(ecron.WithJob(staleScheduled.Do))
	return []ecron.Ecron{staleSweep, staleScheduledSweep}
}
