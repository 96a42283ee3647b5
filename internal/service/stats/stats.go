package stats

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
	"gitee.com/autopuzzle/notification-center/internal/pkg/jalali"
	"gitee.com/autopuzzle/notification-center/internal/repository"
	"gitee.com/autopuzzle/notification-center/internal/service/auth"
	"github.com/gotomicro/ego/core/elog"
)

const (
	// DefaultTimelineDays 没有指定起止日期时统计最近 30 天
	DefaultTimelineDays = 30
	TimelineLabelLayout = "2006/01/02"
	ExportTimeLayout    = time.DateTime

	exportBatchSize = 500
	defaultPageSize = 20
	maxPageSize     = 200
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ExportOptions 导出选项
type ExportOptions struct {
	// Jalali 时间列使用波斯历
	Jalali bool
}

// Service 统计和报表
//
//go:generate mockgen -source=./stats.go -destination=./mocks/stats.mock.go -package=statsmocks Service
type Service interface {
	Stats(ctx context.Context, caller domain.Caller, filter domain.LogFilter) (domain.Stats, error)
	// Timeline 按自然日统计，没有数据的日期补 0
	Timeline(ctx context.Context, caller domain.Caller, filter domain.LogFilter) (domain.Timeline, error)
	QueryLogs(ctx context.Context, caller domain.Caller, filter domain.LogFilter, offset, limit int) ([]domain.NotificationLog, int64, error)
	// Export 以 CSV 格式写出全部匹配的记录
	Export(ctx context.Context, caller domain.Caller, filter domain.LogFilter, opts ExportOptions, w io.Writer) error
}

type statsService struct {
	repo   repository.NotificationLogRepository
	policy auth.Policy
	loc    *time.Location
	now    func() time.Time
	logger *elog.Component
}

func NewService(repo repository.NotificationLogRepository, policy auth.Policy, loc *time.Location) Service {
	if loc == nil {
		loc = time.Local
	}
	return &statsService{
		repo:   repo,
		policy: policy,
		loc:    loc,
		now:    time.Now,
		logger: elog.DefaultLogger,
	}
}

func (s *statsService) Stats(ctx context.Context, caller domain.Caller, filter domain.LogFilter) (domain.Stats, error) {
	if err := s.policy.Authorize(caller, domain.ActionReadLogs); err != nil {
		return domain.Stats{}, err
	}
	if err := filter.Validate(); err != nil {
		return domain.Stats{}, err
	}
	// 统计不区分状态
	filter.Status = ""
	return s.repo.Stats(ctx, filter)
}

func (s *statsService) Timeline(ctx context.Context, caller domain.Caller, filter domain.LogFilter) (domain.Timeline, error) {
	if err := s.policy.Authorize(caller, domain.ActionReadLogs); err != nil {
		return domain.Timeline{}, err
	}
	filter.Status = ""
	filter = s.defaultRange(filter)
	if err := filter.Validate(); err != nil {
		return domain.Timeline{}, err
	}
	counts, err := s.repo.CountByDay(ctx, filter, s.loc)
	if err != nil {
		return domain.Timeline{}, err
	}

	index := make(map[string]domain.DailyCount, len(counts))
	for _, c := range counts {
		index[c.Day.In(s.loc).Format(TimelineLabelLayout)+"|"+c.Status.String()] = c
	}
	var tl domain.Timeline
	for day := startOfDay(filter.Since, s.loc); day.Before(filter.Until); day = day.AddDate(0, 0, 1) {
		label := day.Format(TimelineLabelLayout)
		tl.Labels = append(tl.Labels, label)
		tl.Sent = append(tl.Sent, index[label+"|"+domain.LogStatusSent.String()].Count)
		tl.Failed = append(tl.Failed, index[label+"|"+domain.LogStatusFailed.String()].Count)
		tl.Pending = append(tl.Pending, index[label+"|"+domain.LogStatusPending.String()].Count)
	}
	return tl, nil
}

// defaultRange 起止都没有时取最近 DefaultTimelineDays 天，只有一端时另一端按同样的长度补齐
func (s *statsService) defaultRange(filter domain.LogFilter) domain.LogFilter {
	switch {
	case filter.Since.IsZero() && filter.Until.IsZero():
		filter.Until = startOfDay(s.now(), s.loc).AddDate(0, 0, 1)
		filter.Since = filter.Until.AddDate(0, 0, -DefaultTimelineDays)
	case filter.Since.IsZero():
		filter.Since = startOfDay(filter.Until, s.loc).AddDate(0, 0, -DefaultTimelineDays)
	case filter.Until.IsZero():
		filter.Until = startOfDay(filter.Since, s.loc).AddDate(0, 0, DefaultTimelineDays)
	}
	return filter
}

func (s *statsService) QueryLogs(ctx context.Context, caller domain.Caller, filter domain.LogFilter, offset, limit int) ([]domain.NotificationLog, int64, error) {
	if err := s.policy.Authorize(caller, domain.ActionReadLogs); err != nil {
		return nil, 0, err
	}
	if err := filter.Validate(); err != nil {
		return nil, 0, err
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
	logs, err := s.repo.Query(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (s *statsService) Export(ctx context.Context, caller domain.Caller, filter domain.LogFilter, opts ExportOptions, w io.Writer) error {
	if err := s.policy.Authorize(caller, domain.ActionExport); err != nil {
		return err
	}
	if err := filter.Validate(); err != nil {
		return err
	}
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	withSubject := filter.Channel == domain.ChannelEmail
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader(withSubject)); err != nil {
		return err
	}
	rows := 0
	err := s.repo.Stream(ctx, filter, exportBatchSize, func(logs []domain.NotificationLog) error {
		for _, l := range logs {
			if err := cw.Write(s.exportRow(l, withSubject, opts)); err != nil {
				return err
			}
		}
		rows += len(logs)
		cw.Flush()
		return cw.Error()
	})
	if err != nil {
		return fmt.Errorf("导出通知记录失败: %w", err)
	}
	cw.Flush()
	if err = cw.Error(); err != nil {
		return err
	}
	s.logger.Info("导出通知记录", elog.Int("rows", rows), elog.Int64("uid", caller.UserID))
	return nil
}

func exportHeader(withSubject bool) []string {
	if withSubject {
		return []string{"id", "recipient", "subject", "message", "status", "created_at", "sent_at", "error_message"}
	}
	return []string{"id", "recipient", "message", "status", "created_at", "sent_at", "error_message"}
}

func (s *statsService) exportRow(l domain.NotificationLog, withSubject bool, opts ExportOptions) []string {
	row := make([]string, 0, 8)
	row = append(row, strconv.FormatInt(l.ID, 10), l.Recipient)
	if withSubject {
		row = append(row, l.Subject(), l.Body())
	} else {
		row = append(row, l.Message)
	}
	return append(row,
		l.Status.String(),
		s.formatTime(l.CreatedAt, opts),
		s.formatTime(l.SentAt, opts),
		l.ErrorMessage,
	)
}

func (s *statsService) formatTime(t time.Time, opts ExportOptions) string {
	if t.IsZero() {
		return ""
	}
	if opts.Jalali {
		return jalali.FormatDateTime(t, s.loc)
	}
	return t.In(s.loc).Format(ExportTimeLayout)
}

// ParseDateRange 把界面上的起止日期换算成查询区间，两端都包含
// 结束日期取到当天 23:59:59，也就是第二天 00:00 之前
func ParseDateRange(from, to string, isJalali bool, loc *time.Location) (since, until time.Time, err error) {
	if from = strings.TrimSpace(from); from != "" {
		since, err = jalali.ParseDate(from, isJalali, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: date_from = %q", errs.ErrInvalidParameter, from)
		}
	}
	if to = strings.TrimSpace(to); to != "" {
		end, err := jalali.ParseDate(to, isJalali, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: date_to = %q", errs.ErrInvalidParameter, to)
		}
		until = end.AddDate(0, 0, 1)
	}
	return since, until, nil
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
