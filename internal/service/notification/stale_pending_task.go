package notification

import (
	"context"
	"time"

	"gitee.com/autopuzzle/notification-center/internal/repository"
	"github.com/gotomicro/ego/core/elog"
)

const (
	// DefaultStaleAfter pending 超过这个时间就认为进程在发送途中挂掉了
	DefaultStaleAfter = 10 * time.Minute
	staleBatchSize    = 100
	staleReason       = "发送中断，状态未回写"
)

// StalePendingTask 把长时间停留在 pending 的记录标记为失败，之后可以手动重试
type StalePendingTask struct {
	repo       repository.NotificationLogRepository
	staleAfter time.Duration
	logger     *elog.Component
}

func NewStalePendingTask(repo repository.NotificationLogRepository, staleAfter time.Duration) *StalePendingTask {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &StalePendingTask{repo: repo, staleAfter: staleAfter, logger: elog.DefaultLogger}
}

// Do 由 ecron 定时调用
func (s *StalePendingTask) Do(ctx context.Context) error {
	before := time.Now().Add(-s.staleAfter)
	var total int64
	for {
		cnt, err := s.repo.MarkStalePendingFailed(ctx, before, staleReason, staleBatchSize)
		if err != nil {
			return err
		}
		total += cnt
		// 说明 pending 的不多了
		if cnt < staleBatchSize {
			break
		}
	}
	if total > 0 {
		s.logger.Warn("标记超时未回写的通知为失败", elog.Int64("count", total))
	}
	return nil
}
