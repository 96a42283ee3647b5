package middleware

import (
	"net/http"
	"strings"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/web"
	"github.com/ecodeclub/ginx"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/elog"
)

// TokenDecoder 解析 Authorization 头中的令牌
type TokenDecoder interface {
	Decode(token string) (domain.Caller, error)
}

// AuthBuilder 所有接口都要求携带 Bearer 令牌
type AuthBuilder struct {
	decoder TokenDecoder
	logger  *elog.Component
}

func NewAuthBuilder(decoder TokenDecoder) *AuthBuilder {
	return &AuthBuilder{
		decoder: decoder,
		logger:  elog.DefaultLogger,
	}
}

func (b *AuthBuilder) Build() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			b.abort(ctx, "缺少令牌")
			return
		}
		caller, err := b.decoder.Decode(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			b.logger.Debug("令牌校验失败", elog.FieldErr(err), elog.String("path", ctx.Request.URL.Path))
			b.abort(ctx, "令牌无效")
			return
		}
		web.SetCaller(ctx, caller)
		ctx.Next()
	}
}

func (b *AuthBuilder) abort(ctx *gin.Context, msg string) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, ginx.Result{
		Code: web.CodeUnauthenticated,
		Msg:  msg,
	})
}
