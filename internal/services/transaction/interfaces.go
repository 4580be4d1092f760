package transaction

import (
	"context"

	"walletapi/internal/models"
	"walletapi/internal/repositories"

	"github.com/shopspring/decimal"
)

// Service is the transaction engine. Every mutating operation runs as one
// atomic unit: balance reads, balance writes and ledger appends either all
// commit or all roll back.
type Service interface {
	Deposit(ctx context.Context, walletID, userID uint, amount decimal.Decimal, description string) (*models.Transaction, error)
	Withdraw(ctx context.Context, walletID, userID uint, amount decimal.Decimal, description string) (*models.Transaction, error)
	Transfer(ctx context.Context, sourceWalletID, destWalletID, userID uint, amount decimal.Decimal, description string) (*models.Transaction, error)
	RevertTransaction(ctx context.Context, transactionID uint) (*models.Transaction, error)

	GetTransactionHistory(ctx context.Context, walletID uint, filter repositories.TransactionFilter) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, transactionID uint) (*models.Transaction, error)
	GetBalance(ctx context.Context, walletID, requestingUserID uint) (decimal.Decimal, error)
	GetTotalTransactionCount(ctx context.Context, walletID uint) (int64, error)
}
