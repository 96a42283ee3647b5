package scheduler

import (
	"context"
	"time"

	"gitee.com/autopuzzle/notification-center/internal/repository"
	"github.com/gotomicro/ego/core/elog"
)

const (
	// DefaultStaleDispatchingAfter dispatching 超过这个时间就认为抢占它的实例已经挂了
	DefaultStaleDispatchingAfter = 10 * time.Minute
	staleDispatchingBatchSize    = 100
	staleDispatchingReason       = "定时发送中断，状态未回写"
)

// StaleDispatchingTask 抢占之后实例崩溃的定时通知会一直停在 dispatching，这里把它们标记为失败
// 不重新发送，Claim 的至多一次语义不变
type StaleDispatchingTask struct {
	repo       repository.ScheduledRepository
	staleAfter time.Duration
	logger     *elog.Component
}

func NewStaleDispatchingTask(repo repository.ScheduledRepository, staleAfter time.Duration) *StaleDispatchingTask {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleDispatchingAfter
	}
	return &StaleDispatchingTask{repo: repo, staleAfter: staleAfter, logger: elog.DefaultLogger}
}

// Do 由 ecron 定时调用
func (s *StaleDispatchingTask) Do(ctx context.Context) error {
	before := time.Now().Add(-s.staleAfter)
	var total int64
	for {
		cnt, err := s.repo.MarkStaleDispatchingFailed(ctx, before, staleDispatchingReason, staleDispatchingBatchSize)
		if err != nil {
			return err
		}
		total += cnt
		if cnt < staleDispatchingBatchSize {
			break
		}
	}
	if total > 0 {
		s.logger.Warn("标记中断的定时通知为失败", elog.Int64("count", total))
	}
	return nil
}
