package template

import (
	"gitee.com/autopuzzle/notification-center/internal/domain"
	templatesvc "gitee.com/autopuzzle/notification-center/internal/service/template"
	"gitee.com/autopuzzle/notification-center/internal/web"
	"github.com/ecodeclub/ginx"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc templatesvc.Service
}

func NewHandler(svc templatesvc.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/templates")
	g.POST("/list", ginx.B[ListTemplatesReq](h.List))
	g.POST("/active", ginx.B[ListActiveReq](h.ListActive))
	g.POST("/get", ginx.B[IDReq](h.Get))
	g.POST("/create", ginx.B[SaveTemplateReq](h.Create))
	g.POST("/update", ginx.B[SaveTemplateReq](h.Update))
	g.POST("/delete", ginx.B[IDReq](h.Delete))
	g.POST("/duplicate", ginx.B[IDReq](h.Duplicate))
	g.POST("/toggle", ginx.B[ToggleReq](h.Toggle))
}

func (h *Handler) List(ctx *ginx.Context, req ListTemplatesReq) (ginx.Result, error) {
	filter := domain.TemplateFilter{
		Channel:    domain.Channel(req.Type),
		Search:     req.Search,
		ActiveOnly: req.ActiveOnly,
	}
	list, total, err := h.svc.List(ctx.Request.Context(), web.Caller(ctx.Context), filter, req.Offset, req.Limit)
	if err != nil {
		return web.ErrorResult(err)
	}
	return web.OK(ListTemplatesResp{
		Total:     total,
		Templates: newTemplates(list),
	}), nil
}

// ListActive 发送页面的模板下拉框
func (h *Handler) ListActive(ctx *ginx.Context, req ListActiveReq) (ginx.Result, error) {
	list, err := h.svc.ListActive(ctx.Request.Context(), web.Caller(ctx.Context), domain.Channel(req.Type))
	if err != nil {
		return web.ErrorResult(err)
	}
	return web.OK(newTemplates(list)), nil
}

func (h *Handler) Get(ctx *ginx.Context, req IDReq) (ginx.Result, error) {
	tpl, err := h.svc.Get(ctx.Request.Context(), web.Caller(ctx.Context), req.ID)
	if err != nil {
		return web.ErrorResult(err)
	}
	return web.OK(newTemplate(tpl)), nil
}

func (h *Handler) Create(ctx *ginx.Context, req SaveTemplateReq) (ginx.Result, error) {
	req.ID = 0
	tpl, err := h.svc.Create(ctx.Request.Context(), web.Caller(ctx.Context), req.toDomain())
	if err != nil {
		return web.ErrorResult(err)
	}
	return web.OK(newTemplate(tpl)), nil
}

func (h *Handler) Update(ctx *ginx.Context, req SaveTemplateReq) (ginx.Result, error) {
	if err := h.svc.Update(ctx.Request.Context(), web.Caller(ctx.Context), req.toDomain()); err != nil {
		return web.ErrorResult(err)
	}
	return web.OK(nil), nil
}

func (h *Handler) Delete(ctx *ginx.Context, req IDReq) (ginx.Result, error) {
	if err := h.svc.Delete(ctx.Request.Context(), web.Caller(ctx.Context), req.ID); err != nil {
		return web.ErrorResult(err)
	}
	return web.OK(nil), nil
}

func (h *Handler) Duplicate(ctx *ginx.Context, req IDReq) (ginx.Result, error) {
	tpl, err := h.svc.Duplicate(ctx.Request.Context(), web.Caller(ctx.Context), req.ID)
	if err != nil {
		return web.ErrorResult(err)
	}
	return web.OK(newTemplate(tpl)), nil
}

func (h *Handler) Toggle(ctx *ginx.Context, req ToggleReq) (ginx.Result, error) {
	if err := h.svc.SetActive(ctx.Request.Context(), web.Caller(ctx.Context), req.ID, req.Active); err != nil {
		return web.ErrorResult(err)
	}
	return web.OK(nil), nil
}
