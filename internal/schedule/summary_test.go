package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billbotdev/billbot/internal/expense"
	"github.com/billbotdev/billbot/internal/line"
)

type fakeTotals struct {
	year   int
	month  time.Month
	totals []expense.CategoryTotal
	err    error
}

func (f *fakeTotals) MonthlyTotals(_ context.Context, year int, month time.Month) ([]expense.CategoryTotal, error) {
	f.year = year
	f.month = month
	return f.totals, f.err
}

type fakeSender struct {
	pushes map[string][]line.Message
	err    error
}

func (s *fakeSender) PushMessage(_ context.Context, userID string, messages []line.Message) error {
	if s.pushes == nil {
		s.pushes = make(map[string][]line.Message)
	}
	s.pushes[userID] = append(s.pushes[userID], messages...)
	return s.err
}

func TestRunOncePushesPreviousMonthSummary(t *testing.T) {
	t.Parallel()

	totals := &fakeTotals{totals: []expense.CategoryTotal{
		{Category: expense.CategoryFood, Total: 1200.50},
		{Category: expense.CategoryElectricity, Total: 800},
	}}
	sender := &fakeSender{}
	svc := NewService(nil, "0 9 1 * *", []string{"U1", "U2"}, totals, sender)
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC) }

	require.NoError(t, svc.RunOnce(context.Background()))

	assert.Equal(t, 2026, totals.year)
	assert.Equal(t, time.August, totals.month)
	require.Len(t, sender.pushes, 2)

	msg := sender.pushes["U1"][0].(line.TextMessage)
	assert.Contains(t, msg.Text, "08/2026")
	assert.Contains(t, msg.Text, "ค่าอาหาร: 1200.50 บาท")
	assert.Contains(t, msg.Text, "รวมทั้งหมด 2000.50 บาท")
}

func TestRunOnceJanuaryRollsBackYear(t *testing.T) {
	t.Parallel()

	totals := &fakeTotals{}
	svc := NewService(nil, "0 9 1 * *", []string{"U1"}, totals, &fakeSender{})
	svc.now = func() time.Time { return time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC) }

	require.NoError(t, svc.RunOnce(context.Background()))
	assert.Equal(t, 2025, totals.year)
	assert.Equal(t, time.December, totals.month)
}

func TestRunOnceTotalsFailureIsFatal(t *testing.T) {
	t.Parallel()

	totals := &fakeTotals{err: errors.New("db down")}
	sender := &fakeSender{}
	svc := NewService(nil, "0 9 1 * *", []string{"U1"}, totals, sender)

	assert.Error(t, svc.RunOnce(context.Background()))
	assert.Empty(t, sender.pushes)
}

func TestRunOncePushFailureDoesNotAbortRecipients(t *testing.T) {
	t.Parallel()

	totals := &fakeTotals{}
	sender := &fakeSender{err: errors.New("rate limited")}
	svc := NewService(nil, "0 9 1 * *", []string{"U1", "U2"}, totals, sender)

	require.NoError(t, svc.RunOnce(context.Background()))
	assert.Len(t, sender.pushes, 2)
}

func TestSummaryTextEmptyMonth(t *testing.T) {
	t.Parallel()

	text := SummaryText(2026, time.August, nil)
	assert.Contains(t, text, "ไม่มีรายการค่าใช้จ่าย")
}

func TestStartWithoutRecipientsStaysIdle(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, "0 9 1 * *", nil, &fakeTotals{}, &fakeSender{})
	require.NoError(t, svc.Start())
	require.NoError(t, svc.Stop(context.Background()))
}

func TestStartRejectsBadCronSpec(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, "not-a-spec", []string{"U1"}, &fakeTotals{}, &fakeSender{})
	assert.Error(t, svc.Start())
}
