package transaction

import (
	"context"

	"github.com/shopspring/decimal"
)

// Config holds the tunables of the engine. Zero values are replaced with
// defaults by NewService.
type Config struct {
	// TransactionLimit is the ceiling a single transaction amount may not
	// exceed.
	TransactionLimit decimal.Decimal
	// Fees maps transaction types to fee rates.
	Fees FeeTable
}

// CacheInvalidator drops cached wallet state after a mutating unit commits.
// The engine never reads balances through the cache during a mutation.
type CacheInvalidator interface {
	InvalidateWallet(ctx context.Context, walletID, userID uint) error
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateWallet(context.Context, uint, uint) error { return nil }
