package application

import (
	"time"

	"github.com/bnema/practice-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

var Periods = []Period{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly}

func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	default:
		return false
	}
}

type CreateClientCommand struct {
	Name         string
	Currency     domain.Currency
	SessionFee   decimal.Decimal
	Cadence      domain.Cadence
	FirstSession time.Time
}

type RecordPaymentCommand struct {
	ClientName string
	Amount     decimal.Decimal
	Method     string
	Note       string
}
