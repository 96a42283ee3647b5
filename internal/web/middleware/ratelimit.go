package middleware

import (
	"net/http"
	"strconv"

	"gitee.com/autopuzzle/notification-center/internal/pkg/ratelimit"
	"gitee.com/autopuzzle/notification-center/internal/web"
	"github.com/ecodeclub/ginx"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/elog"
)

// RateLimitBuilder 按调用方限制发送频率，防止批量发送被误触发多次
// 必须放在鉴权中间件之后
type RateLimitBuilder struct {
	limiter ratelimit.Limiter
	prefix  string
	logger  *elog.Component
}

func NewRateLimitBuilder(limiter ratelimit.Limiter) *RateLimitBuilder {
	return &RateLimitBuilder{
		limiter: limiter,
		prefix:  "dispatch",
		logger:  elog.DefaultLogger,
	}
}

func (b *RateLimitBuilder) Build() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		caller := web.Caller(ctx)
		key := b.prefix + ":uid:" + strconv.FormatInt(caller.UserID, 10)
		limited, err := b.limiter.Limit(ctx.Request.Context(), key)
		if err != nil {
			// redis 出问题时放行
			b.logger.Error("限流检查失败", elog.FieldErr(err), elog.String("key", key))
			ctx.Next()
			return
		}
		if limited {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, ginx.Result{
				Code: web.CodeTooManyRequests,
				Msg:  "请求过于频繁，请稍后再试",
			})
			return
		}
		ctx.Next()
	}
}
