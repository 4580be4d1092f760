package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"walletapi/internal/models"

	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Add(ctx context.Context, tx *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.WithContext(ctx).First(&tx, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, id uint, status models.TransactionStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *transactionRepository) GetFiltered(ctx context.Context, walletID uint, filter TransactionFilter) ([]models.Transaction, error) {
	query := r.db.WithContext(ctx).
		Where("wallet_id = ? OR destination_wallet_id = ?", walletID, walletID)

	if filter.StartDate != nil {
		query = query.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("date <= ?", *filter.EndDate)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}

	var txs []models.Transaction
	if err := query.Order("date DESC").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to get transaction history: %w", err)
	}
	return txs, nil
}

func (r *transactionRepository) IsFirstWithdrawOfMonth(ctx context.Context, userID uint, monthStart time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("user_id = ? AND type = ? AND status = ? AND date >= ?",
			userID, models.TransactionTypeWithdraw, models.TransactionStatusCompleted, monthStart).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count monthly withdrawals: %w", err)
	}
	return count == 0, nil
}

func (r *transactionRepository) CountByWallet(ctx context.Context, walletID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("wallet_id = ? OR destination_wallet_id = ?", walletID, walletID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}
