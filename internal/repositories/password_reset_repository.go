package repositories

import (
	"context"
	"errors"
	"fmt"

	"walletapi/internal/models"

	"gorm.io/gorm"
)

type passwordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Add(ctx context.Context, token *models.PasswordResetToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

func (r *passwordResetRepository) GetByToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	var reset models.PasswordResetToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&reset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResetTokenNotFound
		}
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	return &reset, nil
}

func (r *passwordResetRepository) MarkUsed(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.PasswordResetToken{}).
		Where("id = ?", id).
		Update("used", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark reset token used: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrResetTokenNotFound
	}
	return nil
}
