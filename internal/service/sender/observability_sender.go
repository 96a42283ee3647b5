package sender

import (
	"context"
	"strconv"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ NotificationSender = (*ObservabilitySender)(nil)

// ObservabilitySender 为通知发送添加链路追踪的装饰器
type ObservabilitySender struct {
	sender NotificationSender
	tracer trace.Tracer
}

// NewObservabilitySender 创建一个新的带有链路追踪的发送器
func NewObservabilitySender(sender NotificationSender) *ObservabilitySender {
	return &ObservabilitySender{
		sender: sender,
		tracer: otel.Tracer("notification-center/sender"),
	}
}

func (o *ObservabilitySender) Send(ctx context.Context, tmpl domain.NotificationLog, recipients []string) (domain.DispatchResult, error) {
	ctx, span := o.tracer.Start(ctx, "NotificationSender.Send",
		trace.WithAttributes(
			attribute.String("notification.channel", tmpl.Channel.String()),
			attribute.String("notification.relatedId", strconv.FormatInt(tmpl.RelatedID, 10)),
			attribute.Int("notification.recipients", len(recipients)),
		))
	defer span.End()

	result, err := o.sender.Send(ctx, tmpl, recipients)
	span.SetAttributes(
		attribute.Int("notification.sent", result.Sent),
		attribute.Int("notification.failed", result.Failed),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return result, err
}

func (o *ObservabilitySender) Resend(ctx context.Context, log domain.NotificationLog) (domain.TargetOutcome, error) {
	ctx, span := o.tracer.Start(ctx, "NotificationSender.Resend",
		trace.WithAttributes(
			attribute.String("notification.logId", strconv.FormatInt(log.ID, 10)),
			attribute.String("notification.channel", log.Channel.String()),
		))
	defer span.End()

	outcome, err := o.sender.Resend(ctx, log)
	span.SetAttributes(attribute.String("notification.status", outcome.Status.String()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return outcome, err
}
