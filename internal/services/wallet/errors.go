package wallet

import (
	"errors"
	"fmt"
)

var (
	ErrWalletNotFound  = errors.New("wallet not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrMultipleWallets = errors.New("user already has a wallet")
)

// MultipleWalletsError reports a wallet-creation attempt for a user who
// already owns one. errors.Is(err, ErrMultipleWallets) matches.
type MultipleWalletsError struct {
	UserID uint
}

func (e *MultipleWalletsError) Error() string {
	return fmt.Sprintf("user %d already has an active wallet", e.UserID)
}

func (e *MultipleWalletsError) Unwrap() error { return ErrMultipleWallets }
