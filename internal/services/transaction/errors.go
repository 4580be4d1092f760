package transaction

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Business errors surfaced by the engine. They propagate unchanged to the
// calling layer; store failures are wrapped separately and always roll back
// the enclosing unit.
var (
	ErrInvalidTransaction = errors.New("invalid transaction data")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrLimitExceeded      = errors.New("transaction limit exceeded")
	ErrUnauthorized       = errors.New("unauthorized transaction")
	ErrCannotReverse      = errors.New("transaction cannot be reversed")
	ErrWalletInactive     = errors.New("wallet is deactivated")
	ErrUnsupportedFeeType = errors.New("transaction type not supported for fee calculation")
)

// LimitExceededError reports a transaction amount above the configured
// ceiling, carrying both values. errors.Is(err, ErrLimitExceeded) matches.
type LimitExceededError struct {
	Amount decimal.Decimal
	Limit  decimal.Decimal
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("transaction amount (%s) exceeds the allowed limit of (%s)",
		e.Amount.StringFixed(2), e.Limit.StringFixed(2))
}

func (e *LimitExceededError) Unwrap() error { return ErrLimitExceeded }

// UnauthorizedError reports an acting user that does not own the target
// wallet. errors.Is(err, ErrUnauthorized) matches.
type UnauthorizedError struct {
	UserID   uint
	WalletID uint
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("user %d does not have permission to operate on wallet %d owned by another user",
		e.UserID, e.WalletID)
}

func (e *UnauthorizedError) Unwrap() error { return ErrUnauthorized }
