package transaction

import (
	"context"
	"errors"
	"fmt"

	"walletapi/internal/models"
	"walletapi/internal/repositories"

	"github.com/shopspring/decimal"
)

// Validator performs the stateless rule checks for a proposed transaction.
// It reads the wallet and user stores but never writes.
type Validator struct {
	wallets repositories.WalletRepository
	users   repositories.UserRepository
	limit   decimal.Decimal
}

func NewValidator(wallets repositories.WalletRepository, users repositories.UserRepository, limit decimal.Decimal) *Validator {
	return &Validator{wallets: wallets, users: users, limit: limit}
}

// Validate applies the rules in order: amount bounds, type and status sanity,
// wallet existence, ownership. A wallet that cannot be found (including a
// soft-deleted one) is an invalid transaction here, not a distinct not-found
// condition.
func (v *Validator) Validate(ctx context.Context, tx *models.Transaction) error {
	if tx == nil {
		return ErrInvalidTransaction
	}

	if tx.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidTransaction)
	}

	if tx.Amount.GreaterThan(v.limit) {
		return &LimitExceededError{Amount: tx.Amount, Limit: v.limit}
	}

	if !models.ValidTransactionType(tx.Type) {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, tx.Type)
	}

	// A new transaction cannot be born in a terminal state.
	if tx.Status == models.TransactionStatusCanceled || tx.Status == models.TransactionStatusFailed {
		return fmt.Errorf("%w: invalid initial status %q", ErrInvalidTransaction, tx.Status)
	}

	wallet, err := v.wallets.GetByID(ctx, tx.WalletID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return fmt.Errorf("%w: wallet %d not found", ErrInvalidTransaction, tx.WalletID)
		}
		return err
	}

	user, err := v.users.GetByID(ctx, tx.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return &UnauthorizedError{UserID: tx.UserID, WalletID: tx.WalletID}
		}
		return err
	}
	if wallet.UserID != user.ID {
		return &UnauthorizedError{UserID: tx.UserID, WalletID: tx.WalletID}
	}

	return nil
}
