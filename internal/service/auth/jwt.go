package auth

import (
	"fmt"
	"strings"
	"time"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
	"github.com/golang-jwt/jwt/v4"
)

const (
	claimUserID = "uid"
	claimRoles  = "roles"
	issuer      = "notification-center"
)

// JwtAuth 宿主应用签发 HS256 令牌，claims 中带 uid 和 roles
type JwtAuth struct {
	key string
}

func NewJwtAuth(key string) *JwtAuth {
	return &JwtAuth{
		key: key,
	}
}

// Decode 解析令牌得到调用方身份
func (a *JwtAuth) Decode(tokenString string) (domain.Caller, error) {
	// 去除可能的 Bearer 前缀（兼容不同客户端实现）
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return domain.Caller{}, fmt.Errorf("%w: 缺少令牌", errs.ErrUnauthenticated)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("不支持的签名算法: %v", token.Header["alg"])
		}
		return []byte(a.key), nil
	})
	if err != nil {
		return domain.Caller{}, fmt.Errorf("%w: %w", errs.ErrUnauthenticated, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return domain.Caller{}, fmt.Errorf("%w: 无效的令牌", errs.ErrUnauthenticated)
	}

	// JSON 数字解析出来是 float64
	uid, ok := claims[claimUserID].(float64)
	if !ok || uid <= 0 {
		return domain.Caller{}, fmt.Errorf("%w: 缺少 uid", errs.ErrUnauthenticated)
	}
	caller := domain.Caller{UserID: int64(uid)}
	if roles, ok := claims[claimRoles].([]any); ok {
		for _, r := range roles {
			if s, ok := r.(string); ok {
				caller.Roles = append(caller.Roles, s)
			}
		}
	}
	return caller, nil
}

// Encode 生成令牌，宿主应用和测试使用
func (a *JwtAuth) Encode(caller domain.Caller, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iat":       now.Unix(),
		"iss":       issuer,
		"exp":       now.Add(ttl).Unix(),
		claimUserID: caller.UserID,
		claimRoles:  caller.Roles,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.key))
}
