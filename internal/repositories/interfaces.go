package repositories

import (
	"context"
	"errors"
	"time"

	"walletapi/internal/models"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrResetTokenNotFound  = errors.New("reset token not found")
	ErrDuplicateWallet     = errors.New("wallet already exists")
	ErrDuplicateEmail      = errors.New("email already in use")
)

// WalletRepository owns wallet state. Soft-deleted wallets are reported as
// not found by every read.
type WalletRepository interface {
	Create(ctx context.Context, wallet *models.Wallet) error
	GetByID(ctx context.Context, id uint) (*models.Wallet, error)
	// GetByIDForUpdate locks the wallet row for the duration of the
	// enclosing transaction. Callers must only use it inside
	// ExecuteInTransaction.
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Wallet, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error)
	Update(ctx context.Context, wallet *models.Wallet) error
	Delete(ctx context.Context, id uint) error
}

// TransactionFilter narrows a transaction history query. Nil fields match
// everything.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    *models.TransactionStatus
	Type      *models.TransactionType
}

// TransactionRepository is an append-only ledger. Entries are never deleted;
// the single permitted mutation is the status flip done by a reversal.
type TransactionRepository interface {
	Add(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id uint) (*models.Transaction, error)
	UpdateStatus(ctx context.Context, id uint, status models.TransactionStatus) error
	// GetFiltered returns matching entries for a wallet, most recent first.
	GetFiltered(ctx context.Context, walletID uint, filter TransactionFilter) ([]models.Transaction, error)
	// IsFirstWithdrawOfMonth reports whether the user has no completed
	// withdrawal on or after monthStart. The caller supplies the month
	// boundary so the waiver window does not depend on repository-local time.
	IsFirstWithdrawOfMonth(ctx context.Context, userID uint, monthStart time.Time) (bool, error)
	CountByWallet(ctx context.Context, walletID uint) (int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID uint, hashedPassword string) error
}

// PasswordResetRepository stores single-use password reset tokens.
type PasswordResetRepository interface {
	Add(ctx context.Context, token *models.PasswordResetToken) error
	GetByToken(ctx context.Context, token string) (*models.PasswordResetToken, error)
	MarkUsed(ctx context.Context, id uint) error
}

// Repositories bundles the stores that participate in an atomic unit.
type Repositories struct {
	Wallets        WalletRepository
	Transactions   TransactionRepository
	Users          UserRepository
	PasswordResets PasswordResetRepository
}

// TxManager runs a function against a set of repositories bound to a single
// database transaction. Any error returned by fn rolls back everything the
// unit staged.
type TxManager interface {
	ExecuteInTransaction(ctx context.Context, fn func(Repositories) error) error
}
