// Package transaction implements the transaction engine: the single
// component allowed to mutate wallet balances. Every operation validates,
// computes fees, moves money and appends ledger entries inside one atomic
// unit, so a partially applied operation is never observable.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"walletapi/internal/models"
	"walletapi/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type service struct {
	repos     repositories.Repositories
	txm       repositories.TxManager
	validator *Validator
	config    Config
	cache     CacheInvalidator
	metrics   MetricsCollector
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates the transaction engine. The repositories and transaction
// manager are required; cache, metrics and logger fall back to no-ops. A
// single engine instance is safe for concurrent use.
func NewService(
	repos repositories.Repositories,
	txm repositories.TxManager,
	config Config,
	cache CacheInvalidator,
	metrics MetricsCollector,
	logger *zap.Logger,
) Service {
	if repos.Wallets == nil || repos.Transactions == nil || repos.Users == nil {
		panic("repositories are required")
	}
	if txm == nil {
		panic("transaction manager is required")
	}

	if config.TransactionLimit.IsZero() {
		config.TransactionLimit = decimal.RequireFromString(DefaultTransactionLimit)
	}
	if config.Fees == nil {
		config.Fees = DefaultFeeTable()
	}
	if cache == nil {
		cache = noopInvalidator{}
	}
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &service{
		repos:     repos,
		txm:       txm,
		validator: NewValidator(repos.Wallets, repos.Users, config.TransactionLimit),
		config:    config,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// startOfMonth returns the first instant of t's calendar month in UTC. It
// bounds the fee-waiver window.
func startOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// initialStatus resolves the status a freshly created transaction starts in.
func initialStatus(typ models.TransactionType) (models.TransactionStatus, error) {
	switch typ {
	case models.TransactionTypeDeposit, models.TransactionTypeWithdraw:
		return models.TransactionStatusCompleted, nil
	case models.TransactionTypeTransfer:
		return models.TransactionStatusPending, nil
	case models.TransactionTypeRefund:
		return models.TransactionStatusProcessing, nil
	default:
		return "", fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, typ)
	}
}

func (s *service) Deposit(ctx context.Context, walletID, userID uint, amount decimal.Decimal, description string) (*models.Transaction, error) {
	defer s.timeOperation("deposit")()

	tx, err := s.newTransaction(models.TransactionTypeDeposit, amount, description, walletID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(ctx, tx); err != nil {
		s.metrics.RecordError("deposit", errKind(err))
		return nil, err
	}

	err = s.txm.ExecuteInTransaction(ctx, func(r repositories.Repositories) error {
		wallet, err := r.Wallets.GetByIDForUpdate(ctx, walletID)
		if err != nil {
			return err
		}
		if !wallet.Active {
			return ErrWalletInactive
		}

		wallet.Balance = wallet.Balance.Add(amount)
		if err := r.Wallets.Update(ctx, wallet); err != nil {
			return err
		}
		return r.Transactions.Add(ctx, tx)
	})
	if err != nil {
		s.metrics.RecordError("deposit", errKind(err))
		return nil, err
	}

	s.invalidate(ctx, walletID, userID)
	s.metrics.RecordTransaction("deposit", amount.InexactFloat64())
	s.logger.Info("deposit completed",
		zap.Uint("wallet_id", walletID),
		zap.Uint("user_id", userID),
		zap.String("amount", amount.StringFixed(2)))
	return tx, nil
}

func (s *service) Withdraw(ctx context.Context, walletID, userID uint, amount decimal.Decimal, description string) (*models.Transaction, error) {
	defer s.timeOperation("withdraw")()

	tx, err := s.newTransaction(models.TransactionTypeWithdraw, amount, description, walletID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(ctx, tx); err != nil {
		s.metrics.RecordError("withdraw", errKind(err))
		return nil, err
	}

	err = s.txm.ExecuteInTransaction(ctx, func(r repositories.Repositories) error {
		wallet, err := r.Wallets.GetByIDForUpdate(ctx, walletID)
		if err != nil {
			return err
		}
		if !wallet.Active {
			return ErrWalletInactive
		}

		// The first withdrawal in a calendar month is free of charge.
		first, err := r.Transactions.IsFirstWithdrawOfMonth(ctx, userID, startOfMonth(s.now()))
		if err != nil {
			return err
		}
		fee := decimal.Zero
		if !first {
			fee, err = s.config.Fees.Fee(amount, models.TransactionTypeWithdraw)
			if err != nil {
				return err
			}
		}

		debited := amount.Add(fee)
		if wallet.Balance.LessThan(debited) {
			return ErrInsufficientFunds
		}

		wallet.Balance = wallet.Balance.Sub(debited)
		if err := r.Wallets.Update(ctx, wallet); err != nil {
			return err
		}

		tx.Amount = debited
		tx.Fee = fee
		return r.Transactions.Add(ctx, tx)
	})
	if err != nil {
		s.metrics.RecordError("withdraw", errKind(err))
		return nil, err
	}

	s.invalidate(ctx, walletID, userID)
	s.metrics.RecordTransaction("withdraw", tx.Amount.InexactFloat64())
	s.logger.Info("withdrawal completed",
		zap.Uint("wallet_id", walletID),
		zap.Uint("user_id", userID),
		zap.String("debited", tx.Amount.StringFixed(2)),
		zap.String("fee", tx.Fee.StringFixed(2)))
	return tx, nil
}

func (s *service) Transfer(ctx context.Context, sourceWalletID, destWalletID, userID uint, amount decimal.Decimal, description string) (*models.Transaction, error) {
	defer s.timeOperation("transfer")()

	if sourceWalletID == destWalletID {
		return nil, fmt.Errorf("%w: cannot transfer to the same wallet", ErrInvalidTransaction)
	}

	tx, err := s.newTransaction(models.TransactionTypeTransfer, amount, description, sourceWalletID, userID)
	if err != nil {
		return nil, err
	}
	tx.DestinationWalletID = &destWalletID

	if err := s.validator.Validate(ctx, tx); err != nil {
		s.metrics.RecordError("transfer", errKind(err))
		return nil, err
	}

	var destUserID uint
	err = s.txm.ExecuteInTransaction(ctx, func(r repositories.Repositories) error {
		source, err := r.Wallets.GetByIDForUpdate(ctx, sourceWalletID)
		if err != nil {
			return err
		}
		dest, err := r.Wallets.GetByIDForUpdate(ctx, destWalletID)
		if err != nil {
			if errors.Is(err, repositories.ErrWalletNotFound) {
				return fmt.Errorf("%w: destination wallet %d not found", ErrInvalidTransaction, destWalletID)
			}
			return err
		}
		if !source.Active || !dest.Active {
			return ErrWalletInactive
		}

		fee, err := s.config.Fees.Fee(amount, models.TransactionTypeTransfer)
		if err != nil {
			return err
		}
		debited := amount.Add(fee)
		if source.Balance.LessThan(debited) {
			return ErrInsufficientFunds
		}

		// The fee is debited from the source but not credited anywhere;
		// it is retained by the system (known reconciliation gap).
		source.Balance = source.Balance.Sub(debited)
		if err := r.Wallets.Update(ctx, source); err != nil {
			return err
		}
		dest.Balance = dest.Balance.Add(amount)
		if err := r.Wallets.Update(ctx, dest); err != nil {
			return err
		}
		destUserID = dest.UserID

		tx.Amount = debited
		tx.Fee = fee
		tx.Status = models.TransactionStatusCompleted
		return r.Transactions.Add(ctx, tx)
	})
	if err != nil {
		s.metrics.RecordError("transfer", errKind(err))
		return nil, err
	}

	s.invalidate(ctx, sourceWalletID, userID)
	s.invalidate(ctx, destWalletID, destUserID)
	s.metrics.RecordTransaction("transfer", tx.Amount.InexactFloat64())
	s.logger.Info("transfer completed",
		zap.Uint("source_wallet_id", sourceWalletID),
		zap.Uint("destination_wallet_id", destWalletID),
		zap.String("debited", tx.Amount.StringFixed(2)),
		zap.String("fee_retained", tx.Fee.StringFixed(2)))
	return tx, nil
}

func (s *service) RevertTransaction(ctx context.Context, transactionID uint) (*models.Transaction, error) {
	defer s.timeOperation("revert")()

	var refund *models.Transaction
	var walletID, userID uint
	err := s.txm.ExecuteInTransaction(ctx, func(r repositories.Repositories) error {
		orig, err := r.Transactions.GetByID(ctx, transactionID)
		if err != nil {
			return err
		}
		if orig.Status != models.TransactionStatusCompleted {
			return fmt.Errorf("%w: status is %q", ErrCannotReverse, orig.Status)
		}

		wallet, err := r.Wallets.GetByIDForUpdate(ctx, orig.WalletID)
		if err != nil {
			return err
		}
		if !wallet.Active {
			return ErrWalletInactive
		}

		switch orig.Type {
		case models.TransactionTypeWithdraw, models.TransactionTypeTransfer:
			// Restore the full debited amount, fee included. A reversed
			// transfer credits the source wallet only.
			wallet.Balance = wallet.Balance.Add(orig.Amount)
		case models.TransactionTypeDeposit, models.TransactionTypeRefund:
			if wallet.Balance.LessThan(orig.Amount) {
				return ErrInsufficientFunds
			}
			wallet.Balance = wallet.Balance.Sub(orig.Amount)
		default:
			return fmt.Errorf("%w: cannot revert type %q", ErrInvalidTransaction, orig.Type)
		}

		if err := r.Wallets.Update(ctx, wallet); err != nil {
			return err
		}
		walletID, userID = wallet.ID, wallet.UserID

		refund, err = s.newTransaction(models.TransactionTypeRefund, orig.Amount,
			fmt.Sprintf("Reversal of transaction %d", orig.ID), orig.WalletID, orig.UserID)
		if err != nil {
			return err
		}
		refund.Status = models.TransactionStatusCompleted
		if err := r.Transactions.Add(ctx, refund); err != nil {
			return err
		}
		return r.Transactions.UpdateStatus(ctx, orig.ID, models.TransactionStatusCanceled)
	})
	if err != nil {
		s.metrics.RecordError("revert", errKind(err))
		return nil, err
	}

	s.invalidate(ctx, walletID, userID)
	s.metrics.RecordTransaction("refund", refund.Amount.InexactFloat64())
	s.logger.Info("transaction reverted",
		zap.Uint("transaction_id", transactionID),
		zap.Uint("refund_id", refund.ID),
		zap.Uint("wallet_id", walletID))
	return refund, nil
}

func (s *service) GetTransactionHistory(ctx context.Context, walletID uint, filter repositories.TransactionFilter) ([]models.Transaction, error) {
	if walletID == 0 {
		return nil, fmt.Errorf("%w: wallet id is required", ErrInvalidTransaction)
	}
	return s.repos.Transactions.GetFiltered(ctx, walletID, filter)
}

func (s *service) GetBalance(ctx context.Context, walletID, requestingUserID uint) (decimal.Decimal, error) {
	wallet, err := s.repos.Wallets.GetByID(ctx, walletID)
	if err != nil {
		return decimal.Zero, err
	}
	if wallet.UserID != requestingUserID {
		return decimal.Zero, &UnauthorizedError{UserID: requestingUserID, WalletID: walletID}
	}
	return wallet.Balance, nil
}

func (s *service) GetTransaction(ctx context.Context, transactionID uint) (*models.Transaction, error) {
	return s.repos.Transactions.GetByID(ctx, transactionID)
}

func (s *service) GetTotalTransactionCount(ctx context.Context, walletID uint) (int64, error) {
	return s.repos.Transactions.CountByWallet(ctx, walletID)
}

// newTransaction builds a ledger entry with its type-dependent initial
// status. The fee-inclusive amount is filled in later, inside the unit, once
// the fee is known.
func (s *service) newTransaction(typ models.TransactionType, amount decimal.Decimal, description string, walletID, userID uint) (*models.Transaction, error) {
	status, err := initialStatus(typ)
	if err != nil {
		return nil, err
	}
	return &models.Transaction{
		Reference:   uuid.NewString(),
		Type:        typ,
		Amount:      amount,
		Fee:         decimal.Zero,
		Status:      status,
		Description: description,
		WalletID:    walletID,
		UserID:      userID,
		Date:        s.now().UTC(),
	}, nil
}

func (s *service) invalidate(ctx context.Context, walletID, userID uint) {
	if err := s.cache.InvalidateWallet(ctx, walletID, userID); err != nil {
		s.logger.Warn("failed to invalidate wallet cache",
			zap.Uint("wallet_id", walletID), zap.Error(err))
	}
}

func (s *service) timeOperation(operation string) func() {
	start := time.Now()
	return func() {
		s.metrics.RecordOperationDuration(operation, time.Since(start))
	}
}

// errKind labels an error for metrics.
func errKind(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrLimitExceeded):
		return "limit_exceeded"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrCannotReverse):
		return "cannot_reverse"
	case errors.Is(err, ErrWalletInactive):
		return "wallet_inactive"
	case errors.Is(err, ErrInvalidTransaction):
		return "invalid"
	case errors.Is(err, repositories.ErrWalletNotFound),
		errors.Is(err, repositories.ErrTransactionNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
