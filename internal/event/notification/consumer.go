package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
	"gitee.com/autopuzzle/notification-center/internal/pkg/idempotent"
	"gitee.com/autopuzzle/notification-center/internal/pkg/mqx2"
	"gitee.com/autopuzzle/notification-center/internal/pkg/retry"
	notificationsvc "gitee.com/autopuzzle/notification-center/internal/service/notification"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/gotomicro/ego/core/elog"
)

const defaultPollTimeout = time.Second

// DispatchConsumer 消费宿主应用的发送请求，以系统身份发送
// 处理完才提交位移，格式错误或者校验不通过的消息记录日志后跳过
// 带 event_id 的事件按 event_id 去重，重复投递不会重复发送
type DispatchConsumer struct {
	svc         notificationsvc.Service
	consumer    mqx2.Consumer
	idempotent  idempotent.IdempotencyService
	retryCfg    retry.Config
	pollTimeout time.Duration
	logger      *elog.Component
}

// NewDispatchConsumer consumer 需要关闭自动提交
func NewDispatchConsumer(svc notificationsvc.Service, consumer *kafka.Consumer,
	idem idempotent.IdempotencyService, retryCfg retry.Config,
) (*DispatchConsumer, error) {
	if err := consumer.SubscribeTopics([]string{EventName}, nil); err != nil {
		return nil, err
	}
	return newDispatchConsumer(svc, consumer, idem, retryCfg), nil
}

func newDispatchConsumer(svc notificationsvc.Service, consumer mqx2.Consumer,
	idem idempotent.IdempotencyService, retryCfg retry.Config,
) *DispatchConsumer {
	return &DispatchConsumer{
		svc:         svc,
		consumer:    consumer,
		idempotent:  idem,
		retryCfg:    retryCfg,
		pollTimeout: defaultPollTimeout,
		logger:      elog.DefaultLogger,
	}
}

func (c *DispatchConsumer) Start(ctx context.Context) {
	go func() {
		for ctx.Err() == nil {
			if er := c.Consume(ctx); er != nil {
				c.logger.Error("消费发送请求事件失败", elog.FieldErr(er))
			}
		}
	}()
}

// Consume 处理一条消息，没有消息时返回 nil
func (c *DispatchConsumer) Consume(ctx context.Context) error {
	msg, err := c.consumer.ReadMessage(c.pollTimeout)
	if err != nil {
		var kErr kafka.Error
		if errors.As(err, &kErr) && kErr.Code() == kafka.ErrTimedOut {
			return nil
		}
		return fmt.Errorf("获取消息失败: %w", err)
	}

	if err = c.handle(ctx, msg); err != nil {
		// 不提交，回退到这条消息，下一次 ReadMessage 重新读取
		if er := c.consumer.Seek(msg.TopicPartition, 0); er != nil {
			c.logger.Error("回退位移失败",
				elog.FieldErr(er),
				elog.Any("partition", msg.TopicPartition.Partition),
				elog.Any("offset", msg.TopicPartition.Offset))
			return errors.Join(err, er)
		}
		return err
	}
	if _, err = c.consumer.CommitMessage(msg); err != nil {
		c.logger.Warn("提交消息失败",
			elog.FieldErr(err),
			elog.Any("partition", msg.TopicPartition.Partition),
			elog.Any("offset", msg.TopicPartition.Offset))
		return err
	}
	return nil
}

// handle 只有系统错误在重试耗尽之后才返回 error
func (c *DispatchConsumer) handle(ctx context.Context, msg *kafka.Message) error {
	var evt DispatchRequested
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		c.logger.Warn("解析消息失败，跳过",
			elog.FieldErr(err),
			elog.Any("offset", msg.TopicPartition.Offset))
		return nil
	}
	req, err := evt.toDomain()
	if err != nil {
		c.logger.Warn("发送请求非法，跳过",
			elog.FieldErr(err),
			elog.String("source", evt.Source))
		return nil
	}

	if evt.EventID != "" {
		dup, er := c.idempotent.Exists(ctx, evt.EventID)
		switch {
		case er != nil:
			// 去重不可用时照常处理
			c.logger.Warn("检查事件是否重复失败", elog.FieldErr(er), elog.String("eventID", evt.EventID))
		case dup:
			c.logger.Info("重复事件，跳过", elog.String("eventID", evt.EventID), elog.String("source", evt.Source))
			return nil
		}
	}

	if err = c.dispatch(ctx, evt, req); err != nil {
		if evt.EventID != "" {
			if er := c.idempotent.Forget(context.WithoutCancel(ctx), evt.EventID); er != nil {
				c.logger.Warn("删除去重标记失败", elog.FieldErr(er), elog.String("eventID", evt.EventID))
			}
		}
		return err
	}
	return nil
}

func (c *DispatchConsumer) dispatch(ctx context.Context, evt DispatchRequested, req domain.DispatchRequest) error {
	strategy, err := retry.NewRetry(c.retryCfg)
	if err != nil {
		return err
	}
	var (
		res      domain.DispatchResult
		rejected error
	)
	err = retry.Do(ctx, strategy, func(ctx context.Context) error {
		var er error
		res, er = c.svc.Dispatch(ctx, domain.SystemCaller, req)
		// 请求本身有问题或者已经产生了记录，都不能重试
		if er == nil || res.Total > 0 || isRequestError(er) {
			rejected = er
			return nil
		}
		return er
	})
	if err != nil {
		return fmt.Errorf("处理发送请求失败: %w", err)
	}
	if rejected != nil && res.Total == 0 {
		c.logger.Warn("发送请求被拒绝，跳过",
			elog.FieldErr(rejected),
			elog.String("source", evt.Source))
		return nil
	}
	c.logger.Info("处理发送请求",
		elog.String("source", evt.Source),
		elog.String("type", evt.Type),
		elog.Int("total", res.Total),
		elog.Int("sent", res.Sent),
		elog.Int("failed", res.Failed))
	return nil
}

func isRequestError(err error) bool {
	for _, target := range []error{
		errs.ErrInvalidParameter,
		errs.ErrNoRecipients,
		errs.ErrInvalidRecipient,
		errs.ErrMissingSubject,
		errs.ErrTemplateNotFound,
		errs.ErrTemplateInactive,
		errs.ErrTemplateChannelMismatch,
		errs.ErrPermissionDenied,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
