package notification

import (
	"fmt"
	"net/http"
	"time"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
	"gitee.com/autopuzzle/notification-center/internal/service/notification"
	"gitee.com/autopuzzle/notification-center/internal/service/scheduler"
	"gitee.com/autopuzzle/notification-center/internal/service/stats"
	"gitee.com/autopuzzle/notification-center/internal/web"
	"github.com/ecodeclub/ginx"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/elog"
)

type Handler struct {
	svc       notification.Service
	scheduler scheduler.Service
	stats     stats.Service
	loc       *time.Location
	logger    *elog.Component
}

func NewHandler(svc notification.Service, schedulerSvc scheduler.Service, statsSvc stats.Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		svc:       svc,
		scheduler: schedulerSvc,
		stats:     statsSvc,
		loc:       loc,
		logger:    elog.DefaultLogger,
	}
}

// PrivateRoutes 调用方需要先挂上鉴权中间件，dispatchLimits 只作用在即时发送上
func (h *Handler) PrivateRoutes(server *gin.Engine, dispatchLimits ...gin.HandlerFunc) {
	g := server.Group("/notifications")
	g.POST("/dispatch", append(dispatchLimits, ginx.B[DispatchReq](h.Dispatch))...)
	g.POST("/schedule", ginx.B[ScheduleReq](h.Schedule))
	g.POST("/schedule/list", ginx.B[ListScheduledReq](h.ListScheduled))
	g.POST("/schedule/cancel", ginx.B[IDReq](h.CancelScheduled))
	g.POST("/retry", ginx.B[RetryReq](h.Retry))
	g.POST("/logs", ginx.B[ListLogsReq](h.ListLogs))
	g.POST("/stats", ginx.B[LogFilterReq](h.Stats))
	g.POST("/timeline", ginx.B[LogFilterReq](h.Timeline))
	g.GET("/export", h.Export)
}

func (h *Handler) Dispatch(ctx *ginx.Context, req DispatchReq) (ginx.Result, error) {
	res, err := h.svc.Dispatch(ctx.Request.Context(), web.Caller(ctx.Context), req.toDomain())
	if err != nil && res.Total == 0 {
		return web.ErrorResult(err)
	}
	// 部分记录写库失败时仍然返回已经得到的结果
	if err != nil {
		h.logger.Error("部分通知记录写入失败", elog.FieldErr(err))
	}
	return web.OK(newDispatchResp(res)), nil
}

func (h *Handler) Schedule(ctx *ginx.Context, req ScheduleReq) (ginx.Result, error) {
	id, err := h.scheduler.Schedule(ctx.Request.Context(), web.Caller(ctx.Context), req.toDomain())
	if err != nil {
		return web.ErrorResult(err)
	}
	return web.OK(ScheduleResp{ID: id}), nil
}

func (h *Handler) ListScheduled(ctx *ginx.Context, req ListScheduledReq) (ginx.Result, error) {
	list, total, err := h.scheduler.List(ctx.Request.Context(), web.Caller(ctx.Context),
		domain.ScheduleStatus(req.Status), req.Offset, req.Limit)
	if err != nil {
		return web.ErrorResult(err)
	}
	res := ListScheduledResp{
		Total:         total,
		Notifications: make([]ScheduledNotification, 0, len(list)),
	}
	for _, sn := range list {
		res.Notifications = append(res.Notifications, newScheduledNotification(sn))
	}
	return web.OK(res), nil
}

func (h *Handler) CancelScheduled(ctx *ginx.Context, req IDReq) (ginx.Result, error) {
	if err := h.scheduler.Cancel(ctx.Request.Context(), web.Caller(ctx.Context), req.ID); err != nil {
		return web.ErrorResult(err)
	}
	return web.OK(nil), nil
}

func (h *Handler) Retry(ctx *ginx.Context, req RetryReq) (ginx.Result, error) {
	res, err := h.svc.Retry(ctx.Request.Context(), web.Caller(ctx.Context), req.LogID)
	if err != nil {
		return web.ErrorResult(err)
	}
	return web.OK(RetryResp{
		LogID:        res.LogID,
		Status:       res.Status.String(),
		Retried:      res.Retried,
		ErrorMessage: res.ErrorMessage,
	}), nil
}

func (h *Handler) ListLogs(ctx *ginx.Context, req ListLogsReq) (ginx.Result, error) {
	filter, err := h.toFilter(req.LogFilterReq)
	if err != nil {
		return web.ErrorResult(err)
	}
	logs, total, err := h.stats.QueryLogs(ctx.Request.Context(), web.Caller(ctx.Context), filter, req.Offset, req.Limit)
	if err != nil {
		return web.ErrorResult(err)
	}
	res := ListLogsResp{
		Total: total,
		Logs:  make([]NotificationLog, 0, len(logs)),
	}
	for _, l := range logs {
		res.Logs = append(res.Logs, newNotificationLog(l))
	}
	return web.OK(res), nil
}

func (h *Handler) Stats(ctx *ginx.Context, req LogFilterReq) (ginx.Result, error) {
	filter, err := h.toFilter(req)
	if err != nil {
		return web.ErrorResult(err)
	}
	res, err := h.stats.Stats(ctx.Request.Context(), web.Caller(ctx.Context), filter)
	if err != nil {
		return web.ErrorResult(err)
	}
	byChannel := make(map[string]int64, len(res.SentByChannel))
	for c, cnt := range res.SentByChannel {
		byChannel[c.String()] = cnt
	}
	return web.OK(StatsResp{
		Total:         res.Total,
		Sent:          res.Sent,
		Failed:        res.Failed,
		Pending:       res.Pending,
		SentByChannel: byChannel,
	}), nil
}

func (h *Handler) Timeline(ctx *ginx.Context, req LogFilterReq) (ginx.Result, error) {
	filter, err := h.toFilter(req)
	if err != nil {
		return web.ErrorResult(err)
	}
	tl, err := h.stats.Timeline(ctx.Request.Context(), web.Caller(ctx.Context), filter)
	if err != nil {
		return web.ErrorResult(err)
	}
	return web.OK(TimelineResp{
		Labels:  tl.Labels,
		Data:    tl.Sent,
		Sent:    tl.Sent,
		Failed:  tl.Failed,
		Pending: tl.Pending,
	}), nil
}

// Export 直接写出 CSV，只有在还没有写任何内容时才能返回 JSON 错误
func (h *Handler) Export(ctx *gin.Context) {
	var req LogFilterReq
	if err := ctx.ShouldBindQuery(&req); err != nil {
		h.writeError(ctx, fmt.Errorf("%w: %w", errs.ErrInvalidParameter, err))
		return
	}
	filter, err := h.toFilter(req)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	filename := fmt.Sprintf("notifications_%s.csv", time.Now().In(h.loc).Format("20060102_150405"))
	ctx.Header("Content-Type", "text/csv; charset=utf-8")
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	opts := stats.ExportOptions{Jalali: domain.Calendar(req.Calendar) == domain.CalendarJalali}
	err = h.stats.Export(ctx.Request.Context(), web.Caller(ctx), filter, opts, ctx.Writer)
	if err == nil {
		return
	}
	if ctx.Writer.Written() {
		// 已经开始输出，只能中断
		h.logger.Error("导出中断", elog.FieldErr(err))
		_ = ctx.Error(err)
		return
	}
	ctx.Writer.Header().Del("Content-Type")
	ctx.Writer.Header().Del("Content-Disposition")
	h.writeError(ctx, err)
}

func (h *Handler) writeError(ctx *gin.Context, err error) {
	res, err := web.ErrorResult(err)
	if err != nil {
		h.logger.Error("导出通知记录失败", elog.FieldErr(err))
		ctx.JSON(http.StatusInternalServerError, res)
		return
	}
	ctx.JSON(http.StatusOK, res)
}

func (h *Handler) toFilter(req LogFilterReq) (domain.LogFilter, error) {
	calendar := domain.Calendar(req.Calendar)
	if calendar != "" && !calendar.IsValid() {
		return domain.LogFilter{}, fmt.Errorf("%w: calendar = %q", errs.ErrInvalidParameter, req.Calendar)
	}
	since, until, err := stats.ParseDateRange(req.DateFrom, req.DateTo, calendar == domain.CalendarJalali, h.loc)
	if err != nil {
		return domain.LogFilter{}, err
	}
	filter := domain.LogFilter{
		Channel:   domain.Channel(req.Type),
		Status:    domain.LogStatus(req.Status),
		Since:     since,
		Until:     until,
		Search:    req.Search,
		RelatedID: req.RelatedID,
	}
	return filter, filter.Validate()
}
