package tracing

import (
	"context"
	"strconv"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/service/provider"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Provider 为供应商实现添加链路追踪的装饰器
type Provider struct {
	name     string
	provider provider.Provider
	tracer   trace.Tracer
}

// NewProvider 创建一个新的带有链路追踪的供应商
func NewProvider(name string, p provider.Provider) *Provider {
	return &Provider{
		name:     name,
		provider: p,
		tracer:   otel.Tracer("notification-center/provider"),
	}
}

func (p *Provider) Send(ctx context.Context, msg domain.Message) error {
	ctx, span := p.tracer.Start(ctx, "Provider.Send",
		trace.WithAttributes(
			attribute.String("provider.name", p.name),
			attribute.String("notification.logId", strconv.FormatInt(msg.LogID, 10)),
			attribute.String("notification.relatedId", strconv.FormatInt(msg.RelatedID, 10)),
			attribute.String("notification.channel", msg.Channel.String()),
		))
	defer span.End()

	err := p.provider.Send(ctx, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return err
}
