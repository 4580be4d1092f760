package wallet

import (
	"context"
	"errors"
	"testing"

	"walletapi/internal/models"
	"walletapi/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockWalletRepo struct{ mock.Mock }

func (m *mockWalletRepo) Create(ctx context.Context, w *models.Wallet) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *mockWalletRepo) GetByID(ctx context.Context, id uint) (*models.Wallet, error) {
	args := m.Called(ctx, id)
	if w := args.Get(0); w != nil {
		return w.(*models.Wallet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWalletRepo) GetByIDForUpdate(ctx context.Context, id uint) (*models.Wallet, error) {
	return m.GetByID(ctx, id)
}

func (m *mockWalletRepo) GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	if w := args.Get(0); w != nil {
		return w.(*models.Wallet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWalletRepo) Update(ctx context.Context, w *models.Wallet) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *mockWalletRepo) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, u *models.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, userID uint, hashedPassword string) error {
	args := m.Called(ctx, userID, hashedPassword)
	return args.Error(0)
}

func newTestService(t *testing.T) (Service, *mockWalletRepo, *mockUserRepo) {
	t.Helper()
	wallets := new(mockWalletRepo)
	users := new(mockUserRepo)
	return NewService(wallets, users, nil, nil), wallets, users
}

func TestCreateWallet(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an active wallet for an existing user", func(t *testing.T) {
		svc, wallets, users := newTestService(t)

		users.On("GetByID", ctx, uint(1)).Return(&models.User{ID: 1}, nil)
		wallets.On("GetByUserID", ctx, uint(1)).Return(nil, repositories.ErrWalletNotFound)
		wallets.On("Create", ctx, mock.MatchedBy(func(w *models.Wallet) bool {
			return w.UserID == 1 && w.Active
		})).Return(nil)

		wallet, err := svc.CreateWallet(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, uint(1), wallet.UserID)
		assert.True(t, wallet.Active)
		wallets.AssertExpectations(t)
	})

	t.Run("rejects an unknown user", func(t *testing.T) {
		svc, _, users := newTestService(t)

		users.On("GetByID", ctx, uint(9)).Return(nil, repositories.ErrUserNotFound)

		_, err := svc.CreateWallet(ctx, 9)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("rejects a second wallet for the same user", func(t *testing.T) {
		svc, wallets, users := newTestService(t)

		users.On("GetByID", ctx, uint(1)).Return(&models.User{ID: 1}, nil)
		wallets.On("GetByUserID", ctx, uint(1)).Return(&models.Wallet{ID: 7, UserID: 1}, nil)

		_, err := svc.CreateWallet(ctx, 1)
		require.ErrorIs(t, err, ErrMultipleWallets)

		var multiErr *MultipleWalletsError
		require.ErrorAs(t, err, &multiErr)
		assert.Equal(t, uint(1), multiErr.UserID)
		wallets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("maps the insert race to the same error", func(t *testing.T) {
		svc, wallets, users := newTestService(t)

		users.On("GetByID", ctx, uint(1)).Return(&models.User{ID: 1}, nil)
		wallets.On("GetByUserID", ctx, uint(1)).Return(nil, repositories.ErrWalletNotFound)
		wallets.On("Create", ctx, mock.Anything).Return(repositories.ErrDuplicateWallet)

		_, err := svc.CreateWallet(ctx, 1)
		assert.ErrorIs(t, err, ErrMultipleWallets)
	})
}

func TestGetWalletByUserID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the stored wallet", func(t *testing.T) {
		svc, wallets, _ := newTestService(t)

		want := &models.Wallet{ID: 3, UserID: 1, Balance: decimal.RequireFromString("12.34")}
		wallets.On("GetByUserID", ctx, uint(1)).Return(want, nil)

		got, err := svc.GetWalletByUserID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("maps missing wallets to the service error", func(t *testing.T) {
		svc, wallets, _ := newTestService(t)

		wallets.On("GetByUserID", ctx, uint(1)).Return(nil, repositories.ErrWalletNotFound)

		_, err := svc.GetWalletByUserID(ctx, 1)
		assert.ErrorIs(t, err, ErrWalletNotFound)
	})
}

func TestActivation(t *testing.T) {
	ctx := context.Background()

	t.Run("deactivate flips the flag and persists", func(t *testing.T) {
		svc, wallets, _ := newTestService(t)

		wallets.On("GetByID", ctx, uint(3)).Return(&models.Wallet{ID: 3, UserID: 1, Active: true}, nil)
		wallets.On("Update", ctx, mock.MatchedBy(func(w *models.Wallet) bool {
			return w.ID == 3 && !w.Active
		})).Return(nil)

		require.NoError(t, svc.DeactivateWallet(ctx, 3))
		wallets.AssertExpectations(t)
	})

	t.Run("activate restores a deactivated wallet", func(t *testing.T) {
		svc, wallets, _ := newTestService(t)

		wallets.On("GetByID", ctx, uint(3)).Return(&models.Wallet{ID: 3, UserID: 1, Active: false}, nil)
		wallets.On("Update", ctx, mock.MatchedBy(func(w *models.Wallet) bool {
			return w.ID == 3 && w.Active
		})).Return(nil)

		require.NoError(t, svc.ActivateWallet(ctx, 3))
		wallets.AssertExpectations(t)
	})

	t.Run("propagates a missing wallet", func(t *testing.T) {
		svc, wallets, _ := newTestService(t)

		wallets.On("GetByID", ctx, uint(9)).Return(nil, repositories.ErrWalletNotFound)

		assert.ErrorIs(t, svc.ActivateWallet(ctx, 9), ErrWalletNotFound)
	})
}

func TestDeleteWallet(t *testing.T) {
	ctx := context.Background()

	t.Run("soft-deletes an existing wallet", func(t *testing.T) {
		svc, wallets, _ := newTestService(t)

		wallets.On("GetByID", ctx, uint(3)).Return(&models.Wallet{ID: 3, UserID: 1}, nil)
		wallets.On("Delete", ctx, uint(3)).Return(nil)

		require.NoError(t, svc.DeleteWallet(ctx, 3))
		wallets.AssertExpectations(t)
	})

	t.Run("maps a missing wallet", func(t *testing.T) {
		svc, wallets, _ := newTestService(t)

		wallets.On("GetByID", ctx, uint(9)).Return(nil, repositories.ErrWalletNotFound)

		assert.ErrorIs(t, svc.DeleteWallet(ctx, 9), ErrWalletNotFound)
	})

	t.Run("propagates unexpected repository failures", func(t *testing.T) {
		svc, wallets, _ := newTestService(t)

		boom := errors.New("connection reset")
		wallets.On("GetByID", ctx, uint(3)).Return(&models.Wallet{ID: 3}, nil)
		wallets.On("Delete", ctx, uint(3)).Return(boom)

		assert.ErrorIs(t, svc.DeleteWallet(ctx, 3), boom)
	})
}

func TestGetBalance(t *testing.T) {
	svc, wallets, _ := newTestService(t)
	ctx := context.Background()

	wallets.On("GetByID", ctx, uint(3)).Return(
		&models.Wallet{ID: 3, Balance: decimal.RequireFromString("99.95")}, nil)

	balance, err := svc.GetBalance(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "99.95", balance.StringFixed(2))
}
