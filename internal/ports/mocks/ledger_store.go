package mocks

import (
	"context"

	"github.com/bnema/practice-ledger/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockLedgerStore struct {
	mock.Mock
}

// NewMockLedgerStore registers an expectation check on test cleanup.
func NewMockLedgerStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLedgerStore {
	m := &MockLedgerStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockLedgerStore) Load(ctx context.Context) (domain.Ledger, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Ledger), args.Error(1)
}

func (m *MockLedgerStore) Save(ctx context.Context, ledger domain.Ledger) error {
	args := m.Called(ctx, ledger)
	return args.Error(0)
}
