package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/billbotdev/billbot/internal/expense"
	"github.com/billbotdev/billbot/internal/line"
)

const runTimeout = 30 * time.Second

type totalsSource interface {
	MonthlyTotals(ctx context.Context, year int, month time.Month) ([]expense.CategoryTotal, error)
}

type messageSender interface {
	PushMessage(ctx context.Context, userID string, messages []line.Message) error
}

// Service pushes a per-category spending summary for the previous month to
// the configured recipients on a cron schedule.
type Service struct {
	logger     *slog.Logger
	cron       *cron.Cron
	spec       string
	recipients []string
	totals     totalsSource
	sender     messageSender
	now        func() time.Time
}

// NewService creates a summary Service.
func NewService(log *slog.Logger, spec string, recipients []string, totals totalsSource, sender messageSender) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		logger:     log.With(slog.String("service", "summary")),
		cron:       cron.New(),
		spec:       spec,
		recipients: recipients,
		totals:     totals,
		sender:     sender,
		now:        time.Now,
	}
}

// Start schedules the summary job. A service without a totals source or
// recipients stays idle.
func (s *Service) Start() error {
	if s.totals == nil || len(s.recipients) == 0 {
		s.logger.Info("monthly summary disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if err := s.RunOnce(ctx); err != nil {
			s.logger.Error("monthly summary run failed", slog.Any("error", err))
		}
	}); err != nil {
		return fmt.Errorf("schedule summary job %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.Info("monthly summary scheduled", slog.String("cron", s.spec))
	return nil
}

// Stop halts the scheduler and waits for a running job to finish or the
// context to expire.
func (s *Service) Stop(ctx context.Context) error {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce computes the previous month's totals and pushes the summary to
// every recipient. Per-recipient failures are logged, not fatal.
func (s *Service) RunOnce(ctx context.Context) error {
	year, month := previousMonth(s.now())
	totals, err := s.totals.MonthlyTotals(ctx, year, month)
	if err != nil {
		return fmt.Errorf("load totals for %d-%02d: %w", year, month, err)
	}
	text := SummaryText(year, month, totals)

	for _, userID := range s.recipients {
		if err := s.sender.PushMessage(ctx, userID, []line.Message{line.NewTextMessage(text)}); err != nil {
			s.logger.Error("push summary failed",
				slog.String("user_id", userID),
				slog.Any("error", err),
			)
		}
	}
	return nil
}

// SummaryText renders the Thai per-category summary for one month.
func SummaryText(year int, month time.Month, totals []expense.CategoryTotal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "สรุปค่าใช้จ่ายประจำเดือน %02d/%d\n", int(month), year)
	if len(totals) == 0 {
		b.WriteString("ไม่มีรายการค่าใช้จ่าย")
		return b.String()
	}
	var sum float64
	for _, t := range totals {
		fmt.Fprintf(&b, "%s: %.2f บาท\n", categoryLabel(t.Category), t.Total)
		sum += t.Total
	}
	fmt.Fprintf(&b, "รวมทั้งหมด %.2f บาท", sum)
	return b.String()
}

func categoryLabel(category expense.Category) string {
	switch category {
	case expense.CategoryFood:
		return "ค่าอาหาร"
	case expense.CategoryElectricity:
		return "ค่าไฟ"
	case expense.CategoryOther:
		return "อื่นๆ"
	default:
		return string(category)
	}
}

func previousMonth(now time.Time) (int, time.Month) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prev := first.AddDate(0, -1, 0)
	return prev.Year(), prev.Month()
}
