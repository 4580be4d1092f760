package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Wallet holds a single user's balance. There is exactly one wallet per user
// and its balance is only ever mutated by the transaction engine.
type Wallet struct {
	ID        uint            `gorm:"primarykey"`
	UserID    uint            `gorm:"uniqueIndex;not null"`
	Balance   decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	Active    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	// New wallets always start empty, whatever the caller sent.
	w.Balance = decimal.Zero
	return nil
}

func (w *Wallet) Activate()   { w.Active = true }
func (w *Wallet) Deactivate() { w.Active = false }
