package web

import (
	"errors"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
	"github.com/ecodeclub/ginx"
	"github.com/gin-gonic/gin"
)

// 业务错误码，0 表示成功
const (
	CodeOK               = 0
	CodeInternal         = 5
	CodeInvalidParameter = 400001
	CodeUnauthenticated  = 401001
	CodePermissionDenied = 403001
	CodeNotFound         = 404001
	CodeConflict         = 409001
	CodeTooManyRequests  = 429001
)

const callerKey = "caller"

var systemErrorResult = ginx.Result{
	Code: CodeInternal,
	Msg:  "系统错误",
}

func OK(data any) ginx.Result {
	return ginx.Result{Code: CodeOK, Msg: "OK", Data: data}
}

// ErrorResult 业务错误返回 nil error，由 ginx 按 200 写出；其余错误交给 ginx 记录并返回 500
func ErrorResult(err error) (ginx.Result, error) {
	code, ok := Code(err)
	if !ok {
		return systemErrorResult, err
	}
	return ginx.Result{Code: code, Msg: err.Error()}, nil
}

// Code 错误对应的业务码，第二个返回值为 false 表示系统错误
func Code(err error) (int, bool) {
	switch {
	case errors.Is(err, errs.ErrUnauthenticated):
		return CodeUnauthenticated, true
	case errors.Is(err, errs.ErrPermissionDenied):
		return CodePermissionDenied, true
	case errors.Is(err, errs.ErrLogNotFound),
		errors.Is(err, errs.ErrTemplateNotFound),
		errors.Is(err, errs.ErrScheduleNotFound):
		return CodeNotFound, true
	case errors.Is(err, errs.ErrLogStatusConflict),
		errors.Is(err, errs.ErrScheduleNotCancelable):
		return CodeConflict, true
	case errors.Is(err, errs.ErrInvalidParameter),
		errors.Is(err, errs.ErrNoRecipients),
		errors.Is(err, errs.ErrInvalidRecipient),
		errors.Is(err, errs.ErrMissingSubject),
		errors.Is(err, errs.ErrTemplateInactive),
		errors.Is(err, errs.ErrTemplateChannelMismatch),
		errors.Is(err, errs.ErrInvalidScheduleTime):
		return CodeInvalidParameter, true
	default:
		return CodeInternal, false
	}
}

// SetCaller 鉴权中间件写入调用方
func SetCaller(ctx *gin.Context, caller domain.Caller) {
	ctx.Set(callerKey, caller)
}

// Caller 取出调用方，没有经过鉴权时返回匿名身份
func Caller(ctx *gin.Context) domain.Caller {
	val, ok := ctx.Get(callerKey)
	if !ok {
		return domain.Caller{}
	}
	caller, _ := val.(domain.Caller)
	return caller
}
