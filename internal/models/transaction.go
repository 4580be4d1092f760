package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType enumerates the kinds of ledger entries.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "DEPOSIT"
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
	TransactionTypeTransfer TransactionType = "TRANSFER"
	TransactionTypeRefund   TransactionType = "REFUND"
)

// ValidTransactionType reports whether t is one of the recognized types.
func ValidTransactionType(t TransactionType) bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdraw,
		TransactionTypeTransfer, TransactionTypeRefund:
		return true
	}
	return false
}

// TransactionStatus enumerates transaction lifecycle states.
//
// Pending -> Completed -> Canceled is the only multi-step path; the flip to
// Canceled happens exclusively through the reversal flow. Processing is the
// transient initial state of a refund. Failed and Canceled are terminal.
type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "PENDING"
	TransactionStatusCompleted  TransactionStatus = "COMPLETED"
	TransactionStatusFailed     TransactionStatus = "FAILED"
	TransactionStatusCanceled   TransactionStatus = "CANCELED"
	TransactionStatusReversed   TransactionStatus = "REVERSED"
	TransactionStatusProcessing TransactionStatus = "PROCESSING"
)

// Transaction is an immutable ledger entry. The only permitted change after
// creation is the Completed -> Canceled status flip done by a reversal.
// Transactions are never deleted.
//
// Amount is fee-inclusive for debits (withdrawals and transfers); Fee records
// the portion of Amount that was charged as a fee. UserID is the acting user,
// which for admin-initiated operations is not necessarily the wallet owner.
type Transaction struct {
	ID                  uint              `gorm:"primarykey"`
	Reference           string            `gorm:"uniqueIndex;not null"`
	Type                TransactionType   `gorm:"not null"`
	Amount              decimal.Decimal   `gorm:"type:numeric(20,2);not null"`
	Fee                 decimal.Decimal   `gorm:"type:numeric(20,2);not null;default:0"`
	Status              TransactionStatus `gorm:"not null;default:'PENDING'"`
	Description         string            `gorm:"size:100"`
	WalletID            uint              `gorm:"not null;index"`
	UserID              uint              `gorm:"not null;index"`
	DestinationWalletID *uint             `gorm:"index"`
	Date                time.Time         `gorm:"not null"`
	UpdatedAt           time.Time
}
