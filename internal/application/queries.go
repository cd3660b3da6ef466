package application

import (
	"sort"
	"time"

	"github.com/bnema/practice-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

type ClientReport struct {
	Client        domain.Client
	Scheduled     int
	Completed     int
	Cancelled     int
	Rescheduled   int
	PaymentsCount int
	PaymentsSum   decimal.Decimal
	Upcoming      []domain.Session
}

// SeriesPoint is one bar of the revenue chart: all payments of one day.
type SeriesPoint struct {
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

type FinancialReport struct {
	Period      Period
	PeriodStart time.Time
	Total       decimal.Decimal
	Count       int
	Average     decimal.Decimal
	ByCurrency  map[domain.Currency]decimal.Decimal
	Series      []SeriesPoint
}

// Currencies returns the report's currencies in a stable order.
func (r FinancialReport) Currencies() []domain.Currency {
	currencies := make([]domain.Currency, 0, len(r.ByCurrency))
	for currency := range r.ByCurrency {
		currencies = append(currencies, currency)
	}
	sort.Slice(currencies, func(i, j int) bool { return currencies[i] < currencies[j] })
	return currencies
}

type Schedule struct {
	Day       time.Time
	Booked    []domain.Session
	FreeSlots []string
	Grid      []string
}
