package metrics

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

const (
	namespace = "notification_center"

	statusSuccess = "success"
	statusError   = "error"
)

// Hook 实现了 redis.Hook 接口，为所有 Redis 操作添加指标收集
// 限流、去重和模板缓存都走同一个客户端
type Hook struct {
	commandCounter          *prometheus.CounterVec
	commandDuration         *prometheus.SummaryVec
	pipelineCounter         *prometheus.CounterVec
	pipelineCommandsCounter prometheus.Counter
	connectionCounter       *prometheus.CounterVec
}

// NewMetricsHook 创建一个新的 Redis 指标收集钩子
func NewMetricsHook() *Hook {
	return &Hook{
		commandCounter: register(prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "redis_commands_total",
				Help:      "Redis 命令执行次数",
			},
			[]string{"command", "status"},
		)),
		commandDuration: register(prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Namespace:  namespace,
				Name:       "redis_command_duration_seconds",
				Help:       "Redis 命令耗时（秒）",
				Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
			},
			[]string{"command"},
		)),
		pipelineCounter: register(prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "redis_pipeline_total",
				Help:      "Redis 管道执行次数",
			},
			[]string{"status"},
		)),
		pipelineCommandsCounter: register(prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "redis_pipeline_command_count_total",
				Help:      "Redis 管道中的命令总数",
			},
		)),
		connectionCounter: register(prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "redis_connections_total",
				Help:      "Redis 建立连接次数",
			},
			[]string{"status"},
		)),
	}
}

func register[T prometheus.Collector](c T) T {
	err := prometheus.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing
		}
	}
	panic(err)
}

func (h *Hook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.commandDuration.WithLabelValues(cmd.Name()).Observe(time.Since(start).Seconds())
		h.commandCounter.WithLabelValues(cmd.Name(), status(err)).Inc()
		return err
	}
}

func (h *Hook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		if len(cmds) == 0 {
			return next(ctx, cmds)
		}
		err := next(ctx, cmds)
		h.pipelineCommandsCounter.Add(float64(len(cmds)))

		st := status(err)
		for _, cmd := range cmds {
			if status(cmd.Err()) == statusError {
				st = statusError
				break
			}
		}
		h.pipelineCounter.WithLabelValues(st).Inc()
		return err
	}
}

func (h *Hook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		h.connectionCounter.WithLabelValues(status(err)).Inc()
		return conn, err
	}
}

// redis.Nil 不算错误
func status(err error) string {
	if err != nil && !errors.Is(err, redis.Nil) {
		return statusError
	}
	return statusSuccess
}

// WithMetrics 为Redis客户端添加指标收集功能
func WithMetrics(client *redis.Client) *redis.Client {
	client.AddHook(NewMetricsHook())
	return client
}
