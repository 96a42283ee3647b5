package ioc

import (
	"time"

	"gitee.com/autopuzzle/notification-center/internal/pkg/idempotent"
	"gitee.com/autopuzzle/notification-center/internal/pkg/ratelimit"
	"gitee.com/autopuzzle/notification-center/internal/pkg/redis/metrics"
	"github.com/gotomicro/ego/core/econf"
	"github.com/meoying/dlock-go"
	dlockRedis "github.com/meoying/dlock-go/redis"
	"github.com/redis/go-redis/v9"
)

func InitRedisClient() *redis.Client {
	type Config struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	}
	var cfg Config
	err := econf.UnmarshalKey("redis", &cfg)
	if err != nil {
		panic(err)
	}
	cmd := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return metrics.WithMetrics(cmd)
}

func InitDistributedLock(rdb *redis.Client) dlock.Client {
	return dlockRedis.NewClient(rdb)
}

// InitDispatchLimiter 即时发送按调用方限流
func InitDispatchLimiter(rdb *redis.Client) ratelimit.Limiter {
	type Config struct {
		Interval time.Duration `yaml:"interval"`
		Rate     int           `yaml:"rate"`
	}
	cfg := Config{Interval: time.Minute, Rate: 30}
	if err := econf.UnmarshalKey("ratelimit.dispatch", &cfg); err != nil {
		panic(err)
	}
	return ratelimit.NewRedisSlidingWindowLimiter(rdb, cfg.Interval, cfg.Rate)
}

func InitIdempotencyService(rdb *redis.Client) idempotent.IdempotencyService {
	type Config struct {
		Expiration time.Duration `yaml:"expiration"`
	}
	cfg := Config{Expiration: 24 * time.Hour}
	if err := econf.UnmarshalKey("idempotent", &cfg); err != nil {
		panic(err)
	}
	return idempotent.NewRedisIdempotencyService(rdb, cfg.Expiration)
}
