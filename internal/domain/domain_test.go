package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKindsClassifySpecificErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{name: "client not found", err: ErrClientNotFound, kind: ErrNotFound},
		{name: "no scheduled session", err: ErrNoScheduledSession, kind: ErrNotFound},
		{name: "duplicate name", err: ErrNameAlreadyExists, kind: ErrConflict},
		{name: "inactive client", err: ErrClientInactive, kind: ErrConflict},
		{name: "invalid amount", err: ErrInvalidAmount, kind: ErrValidation},
		{name: "invalid date", err: ErrInvalidDate, kind: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.kind))
			assert.False(t, errors.Is(tt.err, ErrStoreUnavailable))
		})
	}
}

func TestClientValidate(t *testing.T) {
	valid := Client{
		ID:         "c-1",
		Name:       "Alice",
		Currency:   CurrencyUSD,
		Cadence:    CadenceWeekly,
		SessionFee: decimal.NewFromInt(50),
	}
	require.NoError(t, valid.Validate())

	noName := valid
	noName.Name = "  "
	assert.ErrorIs(t, noName.Validate(), ErrValidation)

	badCurrency := valid
	badCurrency.Currency = "GBP"
	assert.ErrorIs(t, badCurrency.Validate(), ErrValidation)

	badCadence := valid
	badCadence.Cadence = "daily"
	assert.ErrorIs(t, badCadence.Validate(), ErrValidation)

	zeroFee := valid
	zeroFee.SessionFee = decimal.Zero
	assert.ErrorIs(t, zeroFee.Validate(), ErrInvalidAmount)

	hugeFee := valid
	hugeFee.SessionFee = decimal.New(1, 50000000)
	assert.ErrorIs(t, hugeFee.Validate(), ErrInvalidAmount)
}

func TestValidateAmountBounds(t *testing.T) {
	tests := []struct {
		raw string
		ok  bool
	}{
		{raw: "50", ok: true},
		{raw: "50.25", ok: true},
		{raw: "50.250", ok: true},
		{raw: "1500000", ok: true},
		{raw: "1e15", ok: true},
		{raw: "0.01", ok: true},
		{raw: "0", ok: false},
		{raw: "-3", ok: false},
		{raw: "0.005", ok: false},
		{raw: "1000000000000000.01", ok: false},
		{raw: "1e16", ok: false},
		{raw: "1e50000000", ok: false},
		{raw: "1e2000000000", ok: false},
		{raw: "1e-2000000000", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			err := ValidateAmount(decimal.RequireFromString(tt.raw))
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidAmount)
		})
	}
}

func TestLedgerCloneIsDeep(t *testing.T) {
	next := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	ledger := Ledger{
		Clients:  []Client{{Name: "Alice", NextSession: &next, Balance: decimal.NewFromInt(-50)}},
		Sessions: []Session{{ClientName: "Alice", Status: SessionScheduled}},
		Payments: []Payment{{ClientName: "Alice", Amount: decimal.NewFromInt(10)}},
	}

	clone := ledger.Clone()
	clone.Clients[0].Balance = decimal.Zero
	*clone.Clients[0].NextSession = next.Add(time.Hour)
	clone.Sessions[0].Status = SessionCancelled
	clone.Payments = append(clone.Payments, Payment{ClientName: "Alice"})

	assert.True(t, ledger.Clients[0].Balance.Equal(decimal.NewFromInt(-50)))
	assert.Equal(t, next, *ledger.Clients[0].NextSession)
	assert.Equal(t, SessionScheduled, ledger.Sessions[0].Status)
	assert.Len(t, ledger.Payments, 1)
}

func TestLedgerDerivedBalanceCountsOnlyBilledSessions(t *testing.T) {
	fee := decimal.NewFromInt(100)
	ledger := Ledger{
		Sessions: []Session{
			{ClientName: "Alice", Status: SessionScheduled, Fee: fee},
			{ClientName: "Alice", Status: SessionCompleted, Fee: fee},
			{ClientName: "Alice", Status: SessionCancelled, Fee: fee},
			{ClientName: "Alice", Status: SessionRescheduled, Fee: fee},
			{ClientName: "Bob", Status: SessionScheduled, Fee: fee},
		},
		Payments: []Payment{
			{ClientName: "Alice", Amount: decimal.NewFromInt(150)},
			{ClientName: "Bob", Amount: decimal.NewFromInt(30)},
		},
	}

	assert.True(t, ledger.DerivedBalance("Alice").Equal(decimal.NewFromInt(-50)))
	assert.True(t, ledger.DerivedBalance("Bob").Equal(decimal.NewFromInt(-70)))
	assert.True(t, ledger.DerivedBalance("nobody").IsZero())
}

func TestLedgerRefreshNextSessionPicksEarliestScheduled(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	ledger := Ledger{
		Clients: []Client{{Name: "Alice"}},
		Sessions: []Session{
			{ClientName: "Alice", Status: SessionScheduled, StartsAt: base.Add(48 * time.Hour)},
			{ClientName: "Alice", Status: SessionCancelled, StartsAt: base},
			{ClientName: "Alice", Status: SessionScheduled, StartsAt: base.Add(24 * time.Hour)},
		},
	}

	ledger.RefreshNextSession("Alice")
	require.NotNil(t, ledger.Clients[0].NextSession)
	assert.Equal(t, base.Add(24*time.Hour), *ledger.Clients[0].NextSession)

	ledger.Sessions[0].Status = SessionCompleted
	ledger.Sessions[2].Status = SessionCompleted
	ledger.RefreshNextSession("Alice")
	assert.Nil(t, ledger.Clients[0].NextSession)
}

func TestLedgerClientLookupIsCaseSensitive(t *testing.T) {
	ledger := Ledger{Clients: []Client{{Name: "Alice"}, {Name: "bob"}}}

	_, ok := ledger.Client("alice")
	assert.False(t, ok)

	client, ok := ledger.Client("Alice")
	require.True(t, ok)
	assert.Equal(t, "Alice", client.Name)
	assert.Equal(t, []string{"Alice", "bob"}, ledger.ClientNames())
}

func TestSessionOnDayAndClock(t *testing.T) {
	loc := time.FixedZone("IRST", 3*3600+1800)
	session := Session{StartsAt: time.Date(2026, 3, 2, 21, 0, 0, 0, time.UTC)}

	assert.True(t, session.OnDay(time.Date(2026, 3, 3, 0, 0, 0, 0, loc)))
	assert.Equal(t, "00:30", session.Clock(loc))
}
