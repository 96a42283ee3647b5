package ioc

import (
	"gitee.com/autopuzzle/notification-center/internal/pkg/ratelimit"
	"gitee.com/autopuzzle/notification-center/internal/service/auth"
	"gitee.com/autopuzzle/notification-center/internal/web/middleware"
	notificationweb "gitee.com/autopuzzle/notification-center/internal/web/notification"
	templateweb "gitee.com/autopuzzle/notification-center/internal/web/template"
	"github.com/gotomicro/ego/server/egin"
)

func InitWebServer(jwtAuth *auth.JwtAuth, limiter ratelimit.Limiter,
	notificationHdl *notificationweb.Handler, templateHdl *templateweb.Handler,
) *egin.Component {
	server := egin.Load("server.http").Build()
	server.Use(middleware.NewAuthBuilder(jwtAuth).Build())
	notificationHdl.PrivateRoutes(server.Engine, middleware.NewRateLimitBuilder(limiter).Build())
	templateHdl.PrivateRoutes(server.Engine)
	return server
}
