package idempotent

import "context"

// IdempotencyService 去重，首次看到某个 key 时返回 false
//
//go:generate mockgen -source=./types.go -package=idemmocks -destination=./mocks/idempotent.mock.go IdempotencyService
type IdempotencyService interface {
	// Exists 判断并标记，key 在有效期内已经出现过时返回 true
	Exists(ctx context.Context, key string) (bool, error)
	// Forget 处理失败时删除标记，让后续重投可以再次处理
	Forget(ctx context.Context, key string) error
}
