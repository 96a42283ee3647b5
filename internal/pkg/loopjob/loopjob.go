package loopjob

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gotomicro/ego/core/elog"
	"github.com/meoying/dlock-go"
)

// 在没有分布式任务调度平台的情况下，使用这个来调度
// 同一个 key 在集群内同时只有一个实例在执行 biz

const (
	defaultTimeout  = time.Second * 3
	defaultLockTTL  = time.Minute
	defaultInterval = time.Minute
)

type InfiniteLoop struct {
	dclient dlock.Client
	key     string
	logger  *elog.Component
	biz     func(ctx context.Context) error

	// 锁的过期时间，每轮业务之后续约
	lockTTL time.Duration
	// 抢锁失败或者出错之后的等待时间
	retryInterval time.Duration
}

type Option func(l *InfiniteLoop)

func WithLockTTL(ttl time.Duration) Option {
	return func(l *InfiniteLoop) {
		l.lockTTL = ttl
	}
}

func WithRetryInterval(interval time.Duration) Option {
	return func(l *InfiniteLoop) {
		l.retryInterval = interval
	}
}

func NewInfiniteLoop(
	dclient dlock.Client,
	// 你要执行的业务。注意当 ctx 被取消的时候，就会退出全部循环
	biz func(ctx context.Context) error,
	key string,
	opts ...Option,
) *InfiniteLoop {
	l := &InfiniteLoop{
		dclient:       dclient,
		key:           key,
		logger:        elog.DefaultLogger.With(elog.String("key", key)),
		biz:           biz,
		lockTTL:       defaultLockTTL,
		retryInterval: defaultInterval,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run 当 ctx 被取消的时候，就会退出
func (l *InfiniteLoop) Run(ctx context.Context) {
	for ctx.Err() == nil {
		lock, err := l.dclient.NewLock(ctx, l.key, l.lockTTL)
		if err != nil {
			l.logger.Error("初始化分布式锁失败，重试", elog.FieldErr(err))
			l.sleep(ctx)
			continue
		}

		lockCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
		// 没有拿到锁，不管是系统错误，还是锁被人持有，都没有关系
		// 暂停一段时间之后继续
		err = lock.Lock(lockCtx)
		cancel()
		if err != nil {
			l.logger.Debug("没有抢到分布式锁", elog.FieldErr(err))
			l.sleep(ctx)
			continue
		}

		// 在这里执行业务
		err = l.bizLoop(ctx, lock)
		// 要么是续约失败，要么是 ctx 本身已经过期了
		if err != nil && !isCtxErr(err) {
			l.logger.Error("执行业务失败，将执行重试", elog.FieldErr(err))
		}
		// 要稍微摆脱 ctx 的控制，因为此时 ctx 可能被取消了
		unCtx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		//nolint:contextcheck // 原始 ctx 可能已被取消，但仍需尝试解锁
		unErr := lock.Unlock(unCtx)
		cancel()
		if unErr != nil {
			l.logger.Error("释放分布式锁失败", elog.FieldErr(unErr))
		}
		if isCtxErr(ctx.Err()) {
			break
		}
		l.sleep(ctx)
	}
	l.logger.Info("任务被取消，退出任务循环")
}

func (l *InfiniteLoop) bizLoop(ctx context.Context, lock dlock.Lock) error {
	for {
		err := l.biz(ctx)
		if err != nil {
			l.logger.Error("业务执行失败", elog.FieldErr(err))
		}
		if ctx.Err() != nil {
			// 要中断这个循环了
			return ctx.Err()
		}
		refCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
		err = lock.Refresh(refCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("分布式锁续约失败 %w", err)
		}
	}
}

func (l *InfiniteLoop) sleep(ctx context.Context) {
	timer := time.NewTimer(l.retryInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func isCtxErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
