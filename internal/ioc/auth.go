package ioc

import (
	"gitee.com/autopuzzle/notification-center/internal/service/auth"
	"github.com/gotomicro/ego/core/econf"
)

func InitJwtAuth() *auth.JwtAuth {
	key := econf.GetString("jwt.key")
	if key == "" {
		panic("jwt.key 未配置")
	}
	return auth.NewJwtAuth(key)
}

func InitPolicy() auth.Policy {
	return auth.NewRolePolicy(auth.DefaultGrants())
}
