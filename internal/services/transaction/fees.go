package transaction

import (
	"fmt"

	"walletapi/internal/models"

	"github.com/shopspring/decimal"
)

// FeeTable maps a transaction type to its fee rate. It is injected into the
// engine rather than read from package state so deployments can override
// individual rates.
type FeeTable map[models.TransactionType]decimal.Decimal

// DefaultFeeTable returns the standard rates: deposits and refunds are free,
// withdrawals cost 1.5% and transfers 2%.
func DefaultFeeTable() FeeTable {
	return FeeTable{
		models.TransactionTypeDeposit:  decimal.Zero,
		models.TransactionTypeWithdraw: decimal.RequireFromString("0.015"),
		models.TransactionTypeTransfer: decimal.RequireFromString("0.02"),
		models.TransactionTypeRefund:   decimal.Zero,
	}
}

// Fee computes the fee for amount under the given transaction type, rounded
// to two decimal places.
func (t FeeTable) Fee(amount decimal.Decimal, typ models.TransactionType) (decimal.Decimal, error) {
	rate, ok := t[typ]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnsupportedFeeType, typ)
	}
	return amount.Mul(rate).Round(2), nil
}
