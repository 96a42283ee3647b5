package main

import (
	"context"
	_ "time/tzdata"

	"gitee.com/autopuzzle/notification-center/cmd/notification-center/ioc"
	prodioc "gitee.com/autopuzzle/notification-center/internal/ioc"
	"github.com/gotomicro/ego"
	"github.com/gotomicro/ego/core/elog"
	"github.com/gotomicro/ego/server"
	"github.com/gotomicro/ego/server/egovernor"
	"go.opentelemetry.io/otel/sdk/trace"
)

func main() {
	// 先初始化 ego，econf 的配置在这之后才能读
	egoApp := ego.New()

	tp := prodioc.InitZipkinTracer()
	defer func(tp *trace.TracerProvider) {
		if err := tp.Shutdown(context.Background()); err != nil {
			elog.Error("Shutdown zipkinTracer", elog.FieldErr(err))
		}
	}(tp)

	app := ioc.InitApp()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	app.StartTasks(ctx)

	if err := egoApp.Serve(
		egovernor.Load("server.governor").Build(),
		func() server.Server {
			return app.Web
		}(),
	).Cron(app.Crons...).Run(); err != nil {
		elog.Panic("startup", elog.FieldErr(err))
	}
}
