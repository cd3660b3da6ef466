package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ClientID string

type Currency string

const (
	CurrencyIRR Currency = "IRR"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

var Currencies = []Currency{CurrencyIRR, CurrencyUSD, CurrencyEUR}

func (c Currency) Valid() bool {
	switch c {
	case CurrencyIRR, CurrencyUSD, CurrencyEUR:
		return true
	default:
		return false
	}
}

type Cadence string

const (
	CadenceWeekly   Cadence = "weekly"
	CadenceBiweekly Cadence = "biweekly"
	CadenceVariable Cadence = "variable"
)

var Cadences = []Cadence{CadenceWeekly, CadenceBiweekly, CadenceVariable}

func (c Cadence) Valid() bool {
	switch c {
	case CadenceWeekly, CadenceBiweekly, CadenceVariable:
		return true
	default:
		return false
	}
}

type Client struct {
	ID            ClientID
	Name          string
	Currency      Currency
	SessionFee    decimal.Decimal
	Cadence       Cadence
	NextSession   *time.Time
	SessionsCount int
	Cancellations int
	Reschedules   int
	PaymentsTotal decimal.Decimal
	// Balance is negative while the client owes the practitioner.
	Balance   decimal.Decimal
	Active    bool
	CreatedAt time.Time
}

func (c Client) Validate() error {
	if strings.TrimSpace(string(c.ID)) == "" {
		return fmt.Errorf("id is required: %w", ErrValidation)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name is required: %w", ErrValidation)
	}
	if !c.Currency.Valid() {
		return fmt.Errorf("unsupported currency %q: %w", c.Currency, ErrValidation)
	}
	if !c.Cadence.Valid() {
		return fmt.Errorf("unsupported cadence %q: %w", c.Cadence, ErrValidation)
	}
	if err := ValidateAmount(c.SessionFee); err != nil {
		return fmt.Errorf("session fee: %w", err)
	}

	return nil
}

// Owes reports whether the client is in debt to the practitioner.
func (c Client) Owes() bool {
	return c.Balance.IsNegative()
}
