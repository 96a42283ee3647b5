package local

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"github.com/gotomicro/ego/core/elog"
	ca "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

var ErrKeyNotFound = errors.New("key not found")

// InvalidateChannel 模板变更之后通过这个频道通知其它实例
const InvalidateChannel = "notification:template:invalidate"

const (
	defaultExpiration = 10 * time.Minute
	cleanupInterval   = 20 * time.Minute
)

// TemplateCache 模板的本地缓存，写操作之后删除本地副本并广播给其它实例
type TemplateCache struct {
	rdb    *redis.Client
	logger *elog.Component
	c      *ca.Cache
}

// NewTemplateCache rdb 为 nil 时只在本实例内失效
func NewTemplateCache(rdb *redis.Client, expiration time.Duration) *TemplateCache {
	if expiration <= 0 {
		expiration = defaultExpiration
	}
	return &TemplateCache{
		rdb:    rdb,
		logger: elog.DefaultLogger,
		c:      ca.New(expiration, cleanupInterval),
	}
}

func (l *TemplateCache) Get(_ context.Context, id int64) (domain.Template, error) {
	v, ok := l.c.Get(templateKey(id))
	if !ok {
		return domain.Template{}, ErrKeyNotFound
	}
	return v.(domain.Template), nil
}

func (l *TemplateCache) Set(_ context.Context, tpl domain.Template) error {
	l.c.SetDefault(templateKey(tpl.ID), tpl)
	return nil
}

func (l *TemplateCache) Delete(ctx context.Context, id int64) error {
	l.c.Delete(templateKey(id))
	if l.rdb == nil {
		return nil
	}
	return l.rdb.Publish(ctx, InvalidateChannel, strconv.FormatInt(id, 10)).Err()
}

// Start 监听其它实例的失效通知，ctx 取消后退出
func (l *TemplateCache) Start(ctx context.Context) {
	if l.rdb == nil {
		return
	}
	pubsub := l.rdb.Subscribe(ctx, InvalidateChannel)
	go func() {
		<-ctx.Done()
		_ = pubsub.Close()
	}()
	for msg := range pubsub.Channel() {
		id, err := strconv.ParseInt(msg.Payload, 10, 64)
		if err != nil {
			l.logger.Error("模板失效通知格式不正确", elog.String("payload", msg.Payload))
			continue
		}
		l.c.Delete(templateKey(id))
	}
}

func templateKey(id int64) string {
	return "template:" + strconv.FormatInt(id, 10)
}
