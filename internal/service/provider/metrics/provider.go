// Provider 为供应商实现添加指标收集的装饰器
package metrics

import (
	"context"
	"errors"
	"time"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/service/provider"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	statusSucceeded = "succeeded"
	statusFailed    = "failed"
)

// Provider 为供应商实现添加指标收集的装饰器
type Provider struct {
	provider            provider.Provider
	sendDurationSummary *prometheus.SummaryVec
	sendCounter         *prometheus.CounterVec
	sendStatusCounter   *prometheus.CounterVec
	name                string
}

// NewProvider 创建一个新的带有指标收集的供应商
// 多个供应商共用同一组指标，用 provider 标签区分
func NewProvider(name string, p provider.Provider) *Provider {
	sendDurationSummary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "provider_send_duration_seconds",
			Help:       "供应商发送通知耗时统计（秒）",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.95: 0.005, 0.99: 0.001},
			MaxAge:     time.Minute * 5,
		},
		[]string{"provider", "channel", "status"},
	)

	sendCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_send_total",
			Help: "供应商发送通知总数",
		},
		[]string{"provider", "channel"},
	)

	sendStatusCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_send_status_total",
			Help: "供应商发送通知状态统计",
		},
		[]string{"provider", "channel", "status"},
	)

	return &Provider{
		provider:            p,
		sendDurationSummary: register(sendDurationSummary),
		sendCounter:         register(sendCounter),
		sendStatusCounter:   register(sendStatusCounter),
		name:                name,
	}
}

// register 已经注册过的指标直接复用
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

// Send 发送通知并记录指标
func (p *Provider) Send(ctx context.Context, msg domain.Message) error {
	startTime := time.Now()

	p.sendCounter.WithLabelValues(p.name, msg.Channel.String()).Inc()

	err := p.provider.Send(ctx, msg)

	duration := time.Since(startTime).Seconds()
	status := statusSucceeded
	if err != nil {
		status = statusFailed
	}

	p.sendStatusCounter.WithLabelValues(p.name, msg.Channel.String(), status).Inc()
	p.sendDurationSummary.WithLabelValues(p.name, msg.Channel.String(), status).Observe(duration)

	return err
}
