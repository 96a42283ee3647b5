package sender

import (
	"context"
	"fmt"
	"sync"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/repository"
	"gitee.com/autopuzzle/notification-center/internal/service/channel"
	"github.com/gotomicro/ego/core/elog"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency 批量发送时同时发送的接收者个数
const DefaultConcurrency = 8

// NotificationSender 通知发送接口
//
//go:generate mockgen -source=./sender.go -destination=./mocks/sender.mock.go -package=sendermocks NotificationSender
type NotificationSender interface {
	// Send 对每个接收者依次写记录、发送、回写结果
	// 单个接收者发送失败不影响其他接收者；写库失败会合并到返回的 error 中，同时返回已有的结果
	Send(ctx context.Context, tmpl domain.NotificationLog, recipients []string) (domain.DispatchResult, error)
	// Resend 重新发送一条已经重置为 pending 的记录
	Resend(ctx context.Context, log domain.NotificationLog) (domain.TargetOutcome, error)
}

// sender 通知发送器实现
type sender struct {
	repo        repository.NotificationLogRepository
	channel     channel.Channel
	concurrency int
	logger      *elog.Component
}

// NewSender 创建通知发送器
func NewSender(repo repository.NotificationLogRepository, ch channel.Channel, concurrency int) NotificationSender {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &sender{
		repo:        repo,
		channel:     ch,
		concurrency: concurrency,
		logger:      elog.DefaultLogger,
	}
}

// Send 批量发送通知
func (d *sender) Send(ctx context.Context, tmpl domain.NotificationLog, recipients []string) (domain.DispatchResult, error) {
	outcomes := make([]domain.TargetOutcome, len(recipients))

	var (
		mu   sync.Mutex
		merr *multierror.Error
		eg   errgroup.Group
	)
	eg.SetLimit(d.concurrency)
	for i := range recipients {
		idx := i
		eg.Go(func() error {
			outcome, err := d.sendOne(ctx, tmpl, recipients[idx])
			outcomes[idx] = outcome
			if err != nil {
				mu.Lock()
				merr = multierror.Append(merr, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = eg.Wait()

	result := domain.DispatchResult{Total: len(recipients), Outcomes: outcomes}
	for _, o := range outcomes {
		switch o.Status {
		case domain.LogStatusSent:
			result.Sent++
		case domain.LogStatusFailed:
			result.Failed++
		}
	}
	return result, merr.ErrorOrNil()
}

func (d *sender) sendOne(ctx context.Context, tmpl domain.NotificationLog, recipient string) (domain.TargetOutcome, error) {
	log := tmpl
	log.Recipient = recipient
	log.Status = domain.LogStatusPending
	id, err := d.repo.Append(ctx, log)
	if err != nil {
		d.logger.Error("写入通知记录失败",
			elog.String("recipient", recipient),
			elog.String("channel", log.Channel.String()),
			elog.FieldErr(err))
		return domain.TargetOutcome{
			Recipient:    recipient,
			Status:       domain.LogStatusFailed,
			ErrorMessage: domain.TruncateReason(err.Error()),
		}, fmt.Errorf("写入 %s 的通知记录失败: %w", recipient, err)
	}
	log.ID = id
	return d.Resend(ctx, log)
}

func (d *sender) Resend(ctx context.Context, log domain.NotificationLog) (domain.TargetOutcome, error) {
	outcome := domain.TargetOutcome{Recipient: log.Recipient, LogID: log.ID}
	sendErr := d.channel.Send(ctx, domain.Message{
		LogID:     log.ID,
		Channel:   log.Channel,
		Recipient: log.Recipient,
		Content:   log.Message,
		RelatedID: log.RelatedID,
	})

	// 请求被取消也要把结果写回去
	storeCtx := context.WithoutCancel(ctx)
	var storeErr error
	if sendErr == nil {
		outcome.Status = domain.LogStatusSent
		storeErr = d.repo.MarkSent(storeCtx, log.ID)
	} else {
		outcome.Status = domain.LogStatusFailed
		outcome.ErrorMessage = domain.TruncateReason(sendErr.Error())
		d.logger.Warn("发送通知失败",
			elog.Int64("logID", log.ID),
			elog.String("channel", log.Channel.String()),
			elog.FieldErr(sendErr))
		storeErr = d.repo.MarkFailed(storeCtx, log.ID, outcome.ErrorMessage)
	}
	if storeErr != nil {
		d.logger.Error("回写通知结果失败", elog.Int64("logID", log.ID), elog.FieldErr(storeErr))
		return outcome, fmt.Errorf("回写通知 %d 的结果失败: %w", log.ID, storeErr)
	}
	return outcome, nil
}
