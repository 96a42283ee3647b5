package scheduler

import (
	"context"
	"time"

	"gitee.com/autopuzzle/notification-center/internal/pkg/loopjob"
	"github.com/gotomicro/ego/core/elog"
	"github.com/meoying/dlock-go"
)

const dueCheckKey = "notification_center_due_check"

// DueCheckTask 定时检查到期通知
// 分布式锁保证同一时间只有一个实例在轮询，Claim 保证每条记录只发一次
type DueCheckTask struct {
	dclient   dlock.Client
	svc       Service
	interval  time.Duration
	batchSize int
	logger    *elog.Component
}

// NewDueCheckTask batchSize 要和 Service 的保持一致
func NewDueCheckTask(dclient dlock.Client, svc Service, interval time.Duration, batchSize int) *DueCheckTask {
	if interval <= 0 {
		interval = time.Minute
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &DueCheckTask{
		dclient:   dclient,
		svc:       svc,
		interval:  interval,
		batchSize: batchSize,
		logger:    elog.DefaultLogger,
	}
}

func (t *DueCheckTask) Start(ctx context.Context) {
	lj := loopjob.NewInfiniteLoop(t.dclient, t.check, dueCheckKey)
	lj.Run(ctx)
}

func (t *DueCheckTask) check(ctx context.Context) error {
	res, err := t.svc.DueCheck(ctx, time.Now())
	if res.Fetched > 0 {
		t.logger.Info("发送到期的定时通知",
			elog.Int("fetched", res.Fetched),
			elog.Int("dispatched", res.Dispatched))
	}
	// 取满一批说明可能还有到期的，马上继续
	if err == nil && res.Fetched >= t.batchSize {
		return nil
	}
	timer := time.NewTimer(t.interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
	return err
}
