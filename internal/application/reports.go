package application

import (
	"fmt"
	"sort"
	"time"

	"github.com/bnema/practice-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

func (s *LedgerService) ComputeClientReport(clientName string) (ClientReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	client, ok := s.ledger.Client(clientName)
	if !ok {
		return ClientReport{}, fmt.Errorf("%w: %q", domain.ErrClientNotFound, clientName)
	}

	report := ClientReport{
		Client:      client,
		PaymentsSum: decimal.Zero,
		Upcoming:    []domain.Session{},
	}

	for _, session := range s.ledger.SessionsFor(clientName) {
		switch session.Status {
		case domain.SessionScheduled:
			report.Scheduled++
			report.Upcoming = append(report.Upcoming, session)
		case domain.SessionCompleted:
			report.Completed++
		case domain.SessionCancelled:
			report.Cancelled++
		case domain.SessionRescheduled:
			report.Rescheduled++
		}
	}
	sort.Slice(report.Upcoming, func(i, j int) bool {
		return report.Upcoming[i].StartsAt.Before(report.Upcoming[j].StartsAt)
	})

	for _, payment := range s.ledger.PaymentsFor(clientName) {
		report.PaymentsCount++
		report.PaymentsSum = report.PaymentsSum.Add(payment.Amount)
	}

	if report.Client.NextSession != nil {
		next := *report.Client.NextSession
		report.Client.NextSession = &next
	}

	return report, nil
}

// ComputeFinancialReport aggregates payments made at or after periodStart.
// It returns domain.ErrNoData when there are none.
func (s *LedgerService) ComputeFinancialReport(periodStart time.Time) (FinancialReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report := FinancialReport{
		PeriodStart: periodStart,
		Total:       decimal.Zero,
		ByCurrency:  map[domain.Currency]decimal.Decimal{},
	}
	byDay := map[time.Time]decimal.Decimal{}

	for _, payment := range s.ledger.Payments {
		if payment.PaidAt.Before(periodStart) {
			continue
		}

		report.Count++
		report.Total = report.Total.Add(payment.Amount)
		report.ByCurrency[payment.Currency] = report.ByCurrency[payment.Currency].Add(payment.Amount)

		day := startOfDay(payment.PaidAt, s.loc)
		byDay[day] = byDay[day].Add(payment.Amount)
	}

	if report.Count == 0 {
		return FinancialReport{}, fmt.Errorf("%w: no payments since %s", domain.ErrNoData, periodStart.Format(time.DateOnly))
	}

	report.Average = report.Total.Div(decimal.NewFromInt(int64(report.Count)))

	report.Series = make([]SeriesPoint, 0, len(byDay))
	for day, amount := range byDay {
		report.Series = append(report.Series, SeriesPoint{Date: day, Amount: amount})
	}
	sort.Slice(report.Series, func(i, j int) bool {
		return report.Series[i].Date.Before(report.Series[j].Date)
	})

	return report, nil
}

// ComputeFinancialReportForPeriod resolves the period against the service
// clock and aggregates from its start.
func (s *LedgerService) ComputeFinancialReportForPeriod(period Period) (FinancialReport, error) {
	start, err := PeriodStart(period, s.clock.Now().In(s.loc))
	if err != nil {
		return FinancialReport{}, err
	}

	report, err := s.ComputeFinancialReport(start)
	if err != nil {
		return FinancialReport{}, err
	}
	report.Period = period
	return report, nil
}

// PeriodStart returns the first instant of the period containing now, in
// now's location. Weeks start on Monday.
func PeriodStart(period Period, now time.Time) (time.Time, error) {
	today := startOfDay(now, now.Location())

	switch period {
	case PeriodDaily:
		return today, nil
	case PeriodWeekly:
		offset := (int(today.Weekday()) + 6) % 7
		return today.AddDate(0, 0, -offset), nil
	case PeriodMonthly:
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()), nil
	case PeriodYearly:
		return time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location()), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported report period %q: %w", period, domain.ErrValidation)
	}
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
