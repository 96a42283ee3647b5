package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
	"gitee.com/autopuzzle/notification-center/internal/pkg/jalali"
	"gitee.com/autopuzzle/notification-center/internal/repository"
	"gitee.com/autopuzzle/notification-center/internal/service/auth"
	"gitee.com/autopuzzle/notification-center/internal/service/notification"
	"github.com/gotomicro/ego/core/elog"
	"github.com/hashicorp/go-multierror"
)

const (
	// DefaultBatchSize 每次检查最多处理的到期记录
	DefaultBatchSize = 100
	defaultPageSize  = 20
	maxPageSize      = 200
)

// Service 定时通知
//
//go:generate mockgen -source=./scheduler.go -destination=./mocks/scheduler.mock.go -package=schedulermocks Service
type Service interface {
	// Schedule 保存一条定时通知，本地时间在这里一次性换算成绝对时间
	Schedule(ctx context.Context, caller domain.Caller, req domain.ScheduleRequest) (int64, error)
	// DueCheck 发送到期的通知，一次最多处理 batchSize 条
	// 多个实例同时检查时，每条记录只会被一个实例发送
	DueCheck(ctx context.Context, now time.Time) (DueCheckResult, error)
	Cancel(ctx context.Context, caller domain.Caller, id int64) error
	List(ctx context.Context, caller domain.Caller, status domain.ScheduleStatus, offset, limit int) ([]domain.ScheduledNotification, int64, error)
}

// DueCheckResult Fetched 是取到的到期记录数，Dispatched 是本实例成功发出的条数
type DueCheckResult struct {
	Fetched    int
	Dispatched int
}

type schedulerService struct {
	repo          repository.ScheduledRepository
	notifications notification.Service
	policy        auth.Policy
	loc           *time.Location
	batchSize     int
	logger        *elog.Component
}

func NewService(
	repo repository.ScheduledRepository,
	notifications notification.Service,
	policy auth.Policy,
	loc *time.Location,
	batchSize int,
) Service {
	if loc == nil {
		loc = time.Local
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &schedulerService{
		repo:          repo,
		notifications: notifications,
		policy:        policy,
		loc:           loc,
		batchSize:     batchSize,
		logger:        elog.DefaultLogger,
	}
}

func (s *schedulerService) Schedule(ctx context.Context, caller domain.Caller, req domain.ScheduleRequest) (int64, error) {
	if err := s.policy.Authorize(caller, domain.ActionSchedule); err != nil {
		return 0, err
	}
	at, localInput, err := s.resolveTime(req)
	if err != nil {
		return 0, err
	}
	prepared, err := s.notifications.Prepare(ctx, req.DispatchRequest)
	if err != nil {
		return 0, err
	}

	userID := prepared.UserID
	if userID == 0 {
		userID = caller.UserID
	}
	calendar := req.Calendar
	if calendar == "" {
		calendar = domain.CalendarGregorian
	}
	res, err := s.repo.Create(ctx, domain.ScheduledNotification{
		Channel:     prepared.Channel,
		Recipient:   prepared.Recipient,
		Subject:     prepared.Subject,
		Message:     prepared.Message,
		RelatedID:   prepared.RelatedID,
		UserID:      userID,
		ScheduledAt: at,
		Calendar:    calendar,
		LocalInput:  localInput,
		Status:      domain.ScheduleStatusWaiting,
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("创建定时通知",
		elog.Int64("id", res.ID),
		elog.String("scheduledAt", at.Format(time.RFC3339)),
		elog.Int64("uid", caller.UserID))
	return res.ID, nil
}

// resolveTime 过去的时间也接受，下一次检查就会发出
func (s *schedulerService) resolveTime(req domain.ScheduleRequest) (time.Time, string, error) {
	if !req.ScheduledAt.IsZero() {
		return req.ScheduledAt, req.ScheduledAt.In(s.loc).Format(time.DateTime), nil
	}
	if req.Calendar != "" && !req.Calendar.IsValid() {
		return time.Time{}, "", fmt.Errorf("%w: calendar = %q", errs.ErrInvalidParameter, req.Calendar)
	}
	date := strings.TrimSpace(req.LocalDate)
	clock := strings.TrimSpace(req.LocalTime)
	if date == "" {
		return time.Time{}, "", fmt.Errorf("%w: 缺少日期", errs.ErrInvalidScheduleTime)
	}
	at, err := jalali.ParseDateTime(date, clock, req.Calendar == domain.CalendarJalali, s.loc)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %w", errs.ErrInvalidScheduleTime, err)
	}
	return at, strings.TrimSpace(date + " " + clock), nil
}

func (s *schedulerService) DueCheck(ctx context.Context, now time.Time) (DueCheckResult, error) {
	due, err := s.repo.FindDue(ctx, now, s.batchSize)
	if err != nil {
		return DueCheckResult{}, err
	}
	res := DueCheckResult{Fetched: len(due)}
	var merr *multierror.Error
	for _, sn := range due {
		ok, err := s.dispatchOne(ctx, sn)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		if ok {
			res.Dispatched++
		}
	}
	return res, merr.ErrorOrNil()
}

// dispatchOne 没抢到返回 false, nil
func (s *schedulerService) dispatchOne(ctx context.Context, sn domain.ScheduledNotification) (bool, error) {
	claimed, err := s.repo.Claim(ctx, sn.ID)
	if err != nil {
		return false, fmt.Errorf("抢占定时通知 %d 失败: %w", sn.ID, err)
	}
	if !claimed {
		return false, nil
	}

	res, err := s.notifications.Dispatch(ctx, domain.SystemCaller, sn.DispatchRequest())
	// 一条记录都没有产生，说明请求本身有问题
	if err != nil && res.Total == 0 {
		s.logger.Warn("定时通知发送失败",
			elog.Int64("id", sn.ID),
			elog.FieldErr(err))
		if err1 := s.repo.MarkFailed(ctx, sn.ID, domain.TruncateReason(err.Error())); err1 != nil {
			return false, fmt.Errorf("标记定时通知 %d 失败: %w", sn.ID, err1)
		}
		return false, nil
	}
	if err != nil {
		s.logger.Error("定时通知部分记录写入失败", elog.Int64("id", sn.ID), elog.FieldErr(err))
	}
	if err = s.repo.MarkDispatched(ctx, sn.ID); err != nil {
		return false, fmt.Errorf("标记定时通知 %d 已发送失败: %w", sn.ID, err)
	}
	return true, nil
}

func (s *schedulerService) Cancel(ctx context.Context, caller domain.Caller, id int64) error {
	if err := s.policy.Authorize(caller, domain.ActionSchedule); err != nil {
		return err
	}
	return s.repo.Cancel(ctx, id)
}

func (s *schedulerService) List(ctx context.Context, caller domain.Caller, status domain.ScheduleStatus, offset, limit int) ([]domain.ScheduledNotification, int64, error) {
	if err := s.policy.Authorize(caller, domain.ActionSchedule); err != nil {
		return nil, 0, err
	}
	if status == "" {
		status = domain.ScheduleStatusWaiting
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	list, err := s.repo.List(ctx, status, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, status)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
