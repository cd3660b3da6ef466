package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentID string

const PaymentMethodCash = "cash"

type Payment struct {
	ID         PaymentID
	ClientName string
	PaidAt     time.Time
	Amount     decimal.Decimal
	Currency   Currency
	Method     string
	Note       string
}
