// Package wallet manages wallet lifecycle: creation, lookup, activation
// toggling and soft deletion. It never touches balances; money moves only
// through the transaction engine.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"walletapi/internal/models"
	"walletapi/internal/repositories"
	"walletapi/internal/repositories/cache"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	CreateWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	GetWalletByUserID(ctx context.Context, userID uint) (*models.Wallet, error)
	GetWallet(ctx context.Context, walletID uint) (*models.Wallet, error)
	GetBalance(ctx context.Context, walletID uint) (decimal.Decimal, error)
	ActivateWallet(ctx context.Context, walletID uint) error
	DeactivateWallet(ctx context.Context, walletID uint) error
	DeleteWallet(ctx context.Context, walletID uint) error
}

type service struct {
	wallets repositories.WalletRepository
	users   repositories.UserRepository
	cache   *cache.Service
	logger  *zap.Logger
}

func NewService(wallets repositories.WalletRepository, users repositories.UserRepository, cacheSvc *cache.Service, logger *zap.Logger) Service {
	if wallets == nil {
		panic("wallet repository is required")
	}
	if users == nil {
		panic("user repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{wallets: wallets, users: users, cache: cacheSvc, logger: logger}
}

// CreateWallet creates the single wallet a user is allowed to own.
func (s *service) CreateWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if _, err := s.wallets.GetByUserID(ctx, user.ID); err == nil {
		return nil, &MultipleWalletsError{UserID: user.ID}
	} else if !errors.Is(err, repositories.ErrWalletNotFound) {
		return nil, err
	}

	wallet := &models.Wallet{UserID: user.ID, Active: true}
	if err := s.wallets.Create(ctx, wallet); err != nil {
		// The unique index catches the race between the lookup above and
		// this insert.
		if errors.Is(err, repositories.ErrDuplicateWallet) {
			return nil, &MultipleWalletsError{UserID: user.ID}
		}
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	s.cacheWallet(ctx, wallet)
	s.logger.Info("wallet created",
		zap.Uint("wallet_id", wallet.ID), zap.Uint("user_id", user.ID))
	return wallet, nil
}

func (s *service) GetWalletByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	if s.cache != nil {
		if wallet, ok := s.cache.GetWalletByUserID(ctx, userID); ok {
			return wallet, nil
		}
	}

	wallet, err := s.wallets.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}

	s.cacheWallet(ctx, wallet)
	return wallet, nil
}

func (s *service) GetWallet(ctx context.Context, walletID uint) (*models.Wallet, error) {
	wallet, err := s.wallets.GetByID(ctx, walletID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return wallet, nil
}

func (s *service) GetBalance(ctx context.Context, walletID uint) (decimal.Decimal, error) {
	wallet, err := s.GetWallet(ctx, walletID)
	if err != nil {
		return decimal.Zero, err
	}
	return wallet.Balance, nil
}

func (s *service) ActivateWallet(ctx context.Context, walletID uint) error {
	return s.setActive(ctx, walletID, true)
}

func (s *service) DeactivateWallet(ctx context.Context, walletID uint) error {
	return s.setActive(ctx, walletID, false)
}

func (s *service) setActive(ctx context.Context, walletID uint, active bool) error {
	wallet, err := s.GetWallet(ctx, walletID)
	if err != nil {
		return err
	}
	if active {
		wallet.Activate()
	} else {
		wallet.Deactivate()
	}
	if err := s.wallets.Update(ctx, wallet); err != nil {
		return err
	}

	s.invalidate(ctx, wallet)
	s.logger.Info("wallet activation changed",
		zap.Uint("wallet_id", walletID), zap.Bool("active", active))
	return nil
}

// DeleteWallet soft-deletes the wallet. The row and its transactions remain
// in the ledger.
func (s *service) DeleteWallet(ctx context.Context, walletID uint) error {
	wallet, err := s.GetWallet(ctx, walletID)
	if err != nil {
		return err
	}
	if err := s.wallets.Delete(ctx, walletID); err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return ErrWalletNotFound
		}
		return err
	}

	s.invalidate(ctx, wallet)
	s.logger.Info("wallet deleted", zap.Uint("wallet_id", walletID))
	return nil
}

func (s *service) cacheWallet(ctx context.Context, wallet *models.Wallet) {
	if s.cache == nil {
		return
	}
	if err := s.cache.CacheWallet(ctx, wallet); err != nil {
		s.logger.Warn("failed to cache wallet",
			zap.Uint("wallet_id", wallet.ID), zap.Error(err))
	}
}

func (s *service) invalidate(ctx context.Context, wallet *models.Wallet) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateWallet(ctx, wallet.ID, wallet.UserID); err != nil {
		s.logger.Warn("failed to invalidate wallet cache",
			zap.Uint("wallet_id", wallet.ID), zap.Error(err))
	}
}
