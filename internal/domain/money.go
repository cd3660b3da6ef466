package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// AmountPlaces is the finest fraction a fee or payment may carry.
	AmountPlaces = 2

	maxAmountExponent = 15
	minAmountExponent = -18
)

// MaxAmount caps a single fee or payment.
var MaxAmount = decimal.New(1, maxAmountExponent)

// ValidateAmount accepts positive amounts up to MaxAmount with at most
// AmountPlaces decimal places. The exponent is checked before any arithmetic
// so inputs like 1e2000000000 are rejected without being expanded.
func ValidateAmount(amount decimal.Decimal) error {
	if exp := amount.Exponent(); exp > maxAmountExponent || exp < minAmountExponent {
		return fmt.Errorf("amount is out of range: %w", ErrInvalidAmount)
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(MaxAmount) {
		return fmt.Errorf("amount exceeds %s: %w", MaxAmount, ErrInvalidAmount)
	}
	if !amount.Equal(amount.Truncate(AmountPlaces)) {
		return fmt.Errorf("amount has more than %d decimal places: %w", AmountPlaces, ErrInvalidAmount)
	}

	return nil
}
