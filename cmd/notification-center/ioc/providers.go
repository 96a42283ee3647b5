package ioc

import (
	"time"

	"gitee.com/autopuzzle/notification-center/internal/ioc"
	"gitee.com/autopuzzle/notification-center/internal/repository"
	"gitee.com/autopuzzle/notification-center/internal/repository/cache/local"
	"gitee.com/autopuzzle/notification-center/internal/service/auth"
	notificationsvc "gitee.com/autopuzzle/notification-center/internal/service/notification"
	"gitee.com/autopuzzle/notification-center/internal/service/scheduler"
	"github.com/meoying/dlock-go"
	"github.com/redis/go-redis/v9"
)

func newTemplateCache(rdb *redis.Client, cfg ioc.NotificationConfig) *local.TemplateCache {
	return local.NewTemplateCache(rdb, cfg.TemplateCacheExpiration)
}

func newSchedulerService(repo repository.ScheduledRepository, svc notificationsvc.Service,
	policy auth.Policy, loc *time.Location, cfg ioc.NotificationConfig,
) scheduler.Service {
	return scheduler.NewService(repo, svc, policy, loc, cfg.DueCheck.BatchSize)
}

func newDueCheckTask(dclient dlock.Client, svc scheduler.Service, cfg ioc.NotificationConfig) *scheduler.DueCheckTask {
	return scheduler.NewDueCheckTask(dclient, svc, cfg.DueCheck.Interval, cfg.DueCheck.BatchSize)
}

func newStaleDispatchingTask(repo repository.ScheduledRepository, cfg ioc.NotificationConfig) *scheduler.StaleDispatchingTask {
	return scheduler.NewStaleDispatchingTask(repo, cfg.StaleAfter)
}

func newStalePendingTask(repo repository.NotificationLogRepository, cfg ioc.NotificationConfig) *notificationsvc.StalePendingTask {
	return notificationsvc.NewStalePendingTask(repo, cfg.StaleAfter)
}
