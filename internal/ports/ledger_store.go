package ports

import (
	"context"

	"github.com/bnema/practice-ledger/internal/domain"
)

// LedgerStore persists the whole ledger as one snapshot. Load returns an
// empty ledger when nothing has been saved yet.
type LedgerStore interface {
	Load(ctx context.Context) (domain.Ledger, error)
	Save(ctx context.Context, ledger domain.Ledger) error
}
