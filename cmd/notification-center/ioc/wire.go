//go:build wireinject

package ioc

import (
	"gitee.com/autopuzzle/notification-center/internal/ioc"
	"gitee.com/autopuzzle/notification-center/internal/repository"
	"gitee.com/autopuzzle/notification-center/internal/repository/dao"
	notificationsvc "gitee.com/autopuzzle/notification-center/internal/service/notification"
	"gitee.com/autopuzzle/notification-center/internal/service/recipient"
	"gitee.com/autopuzzle/notification-center/internal/service/stats"
	templatesvc "gitee.com/autopuzzle/notification-center/internal/service/template"
	notificationweb "gitee.com/autopuzzle/notification-center/internal/web/notification"
	templateweb "gitee.com/autopuzzle/notification-center/internal/web/template"
	"github.com/google/wire"
)

var (
	BaseSet = wire.NewSet(
		ioc.InitDB,
		ioc.InitDistributedLock,
		ioc.InitIDGenerator,
		ioc.InitRedisClient,
		ioc.InitNotificationConfig,
		ioc.InitLocation,
		ioc.InitAWSConfig,
		ioc.InitJwtAuth,
		ioc.InitPolicy,
	)
	templateSvcSet = wire.NewSet(
		templatesvc.NewService,
		repository.NewTemplateRepository,
		dao.NewTemplateDAO,
		newTemplateCache,
	)
	userSet = wire.NewSet(
		recipient.NewResolver,
		repository.NewUserRepository,
		repository.NewInboxRepository,
		dao.NewUserDAO,
		dao.NewInAppNotificationDAO,
	)
	notificationSvcSet = wire.NewSet(
		notificationsvc.NewService,
		repository.NewNotificationLogRepository,
		dao.NewNotificationLogDAO,
		ioc.InitChannel,
		ioc.InitSender,
		newStalePendingTask,
	)
	schedulerSvcSet = wire.NewSet(
		newSchedulerService,
		newDueCheckTask,
		newStaleDispatchingTask,
		repository.NewScheduledRepository,
		dao.NewScheduledNotificationDAO,
	)
	webSet = wire.NewSet(
		stats.NewService,
		notificationweb.NewHandler,
		templateweb.NewHandler,
		ioc.InitDispatchLimiter,
		ioc.InitWebServer,
	)
	eventSet = wire.NewSet(
		ioc.InitIdempotencyService,
		ioc.InitDispatchConsumer,
	)
)

func InitApp() *ioc.App {
	wire.Build(
		// 基础设施
		BaseSet,

		// --- 服务构建 ---
		templateSvcSet,
		userSet,
		notificationSvcSet,
		schedulerSvcSet,

		// HTTP 和事件入口
		webSet,
		eventSet,

		ioc.InitTasks,
		ioc.InitCrons,
		wire.Struct(new(ioc.App), "*"),
	)
	return new(ioc.App)
}
