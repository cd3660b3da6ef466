package report

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/bnema/practice-ledger/internal/adapters/calendar"
	"github.com/bnema/practice-ledger/internal/application"
	"github.com/bnema/practice-ledger/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T, kind calendar.Kind) *Renderer {
	t.Helper()

	cal, err := calendar.New(kind, time.UTC)
	require.NoError(t, err)
	return New(cal, io.Discard)
}

func TestRenderClientReport(t *testing.T) {
	r := newTestRenderer(t, calendar.KindJalali)
	next := time.Date(2024, 8, 5, 14, 30, 0, 0, time.UTC)

	output := r.RenderClientReport(application.ClientReport{
		Client: domain.Client{
			Name:          "Alice",
			Currency:      domain.CurrencyUSD,
			SessionFee:    decimal.NewFromInt(50),
			Cadence:       domain.CadenceWeekly,
			NextSession:   &next,
			Cancellations: 1,
			Balance:       decimal.NewFromInt(-50),
			Active:        true,
		},
		Scheduled:     1,
		Cancelled:     1,
		PaymentsCount: 2,
		PaymentsSum:   decimal.NewFromInt(100),
		Upcoming:      []domain.Session{{StartsAt: next}},
	})

	assert.Contains(t, output, "Client report: Alice")
	assert.Contains(t, output, "Fee per session: 50")
	assert.Contains(t, output, "Sessions held: 0")
	assert.Contains(t, output, "Cancellations: 1")
	assert.Contains(t, output, "Payments: 2 totalling 100")
	assert.Contains(t, output, "Balance: -50 USD (owes)")
	assert.Contains(t, output, "Next session: 1403-05-15 14:30")
	assert.Contains(t, output, "Status: active")
	assert.Contains(t, output, "sessions: 1 scheduled, 0 completed, 1 cancelled, 0 rescheduled")
	assert.Contains(t, output, "- 1403-05-15 14:30")
}

func TestRenderClientReportWithoutNextSession(t *testing.T) {
	r := newTestRenderer(t, calendar.KindGregorian)

	output := r.RenderClientReport(application.ClientReport{
		Client: domain.Client{
			Name:       "Bahram",
			Currency:   domain.CurrencyIRR,
			SessionFee: decimal.NewFromInt(1500000),
			Balance:    decimal.NewFromInt(200000),
		},
		PaymentsSum: decimal.Zero,
	})

	assert.Contains(t, output, "Next session: none")
	assert.Contains(t, output, "Status: ended")
	assert.Contains(t, output, "Balance: 200000 IRR (credit)")
	assert.NotContains(t, output, "Upcoming:")
}

func TestRenderFinancialReport(t *testing.T) {
	r := newTestRenderer(t, calendar.KindJalali)

	output := r.RenderFinancialReport(application.FinancialReport{
		Period:      application.PeriodMonthly,
		PeriodStart: time.Date(2025, 3, 21, 0, 0, 0, 0, time.UTC),
		Total:       decimal.RequireFromString("150"),
		Count:       3,
		Average:     decimal.RequireFromString("50"),
		ByCurrency: map[domain.Currency]decimal.Decimal{
			domain.CurrencyUSD: decimal.RequireFromString("100"),
			domain.CurrencyEUR: decimal.RequireFromString("50"),
		},
	})

	assert.Contains(t, output, "Financial report (monthly)")
	assert.Contains(t, output, "from 1404-01-01 until now")
	assert.Contains(t, output, "Payments: 3")
	assert.Contains(t, output, "Total: 150.00")
	assert.Contains(t, output, "Average: 50.00")
	assert.Less(t, strings.Index(output, "- EUR: 50.00"), strings.Index(output, "- USD: 100.00"))
}

func TestRenderSchedule(t *testing.T) {
	r := newTestRenderer(t, calendar.KindGregorian)
	day := time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC)

	output := r.RenderSchedule(application.Schedule{
		Day: day,
		Booked: []domain.Session{
			{ClientName: "Alice", StartsAt: day.Add(14 * time.Hour)},
		},
		FreeSlots: []string{"09:00", "10:00"},
	})

	assert.Contains(t, output, "Schedule for 2026-10-21")
	assert.Contains(t, output, "sessions: 1")
	assert.Contains(t, output, "- Alice at 14:00")
	assert.Contains(t, output, "- 09:00")
	assert.Contains(t, output, "- 10:00")

	empty := r.RenderSchedule(application.Schedule{Day: day, Booked: []domain.Session{}, FreeSlots: []string{}})
	assert.Contains(t, empty, "No sessions booked.")
	assert.Contains(t, empty, "No free slots.")
}

func TestRenderClients(t *testing.T) {
	r := newTestRenderer(t, calendar.KindGregorian)

	output := r.RenderClients([]domain.Client{
		{Name: "Alice", Currency: domain.CurrencyUSD, Balance: decimal.Zero, Active: true},
		{Name: "Bahram", Currency: domain.CurrencyEUR, Balance: decimal.NewFromInt(-90)},
	})

	assert.Contains(t, output, "clients: 2")
	assert.Contains(t, output, "Alice   0 USD (settled)")
	assert.Contains(t, output, "Bahram  -90 EUR (owes) [ended]")

	assert.Contains(t, r.RenderClients(nil), "No clients registered yet.")
}

func TestRenderChart(t *testing.T) {
	r := newTestRenderer(t, calendar.KindGregorian)

	output, err := r.RenderChart("Revenue (weekly)", []application.SeriesPoint{
		{Date: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(50)},
		{Date: time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(100)},
	})
	require.NoError(t, err)

	lines := strings.Split(output, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Revenue (weekly)", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "2026-10-19 |"+strings.Repeat("#", 15)+strings.Repeat(" ", 15)+"| 50.00")
	assert.Contains(t, lines[2], "2026-10-20 |"+strings.Repeat("#", 30)+"| 100.00")
}

func TestRenderChartWithoutPoints(t *testing.T) {
	r := newTestRenderer(t, calendar.KindGregorian)

	output, err := r.RenderChart("Revenue (daily)", nil)
	require.NoError(t, err)
	assert.Contains(t, output, "No data.")
}
