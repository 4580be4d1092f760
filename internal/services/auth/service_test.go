package auth

import (
	"context"
	"testing"
	"time"

	"walletapi/internal/models"
	"walletapi/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

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

type mockResetRepo struct{ mock.Mock }

func (m *mockResetRepo) Add(ctx context.Context, token *models.PasswordResetToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockResetRepo) GetByToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	args := m.Called(ctx, token)
	if t := args.Get(0); t != nil {
		return t.(*models.PasswordResetToken), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockResetRepo) MarkUsed(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestService(t *testing.T) (*service, *mockUserRepo, *mockResetRepo) {
	t.Helper()
	users := new(mockUserRepo)
	resets := new(mockResetRepo)
	svc := NewService(users, resets).(*service)
	return svc, users, resets
}

func TestRequestPasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a single-use token with a 30 minute expiry", func(t *testing.T) {
		svc, users, resets := newTestService(t)
		issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return issued }

		users.On("GetByEmail", ctx, "user@example.com").Return(&models.User{ID: 5}, nil)
		resets.On("Add", ctx, mock.MatchedBy(func(r *models.PasswordResetToken) bool {
			return r.UserID == 5 && r.Token != "" && !r.Used &&
				r.ExpiresAt.Equal(issued.Add(30*time.Minute))
		})).Return(nil)

		token, err := svc.RequestPasswordReset(ctx, "user@example.com")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		resets.AssertExpectations(t)
	})

	t.Run("rejects an unknown email", func(t *testing.T) {
		svc, users, resets := newTestService(t)

		users.On("GetByEmail", ctx, "ghost@example.com").Return(nil, repositories.ErrUserNotFound)

		_, err := svc.RequestPasswordReset(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
		resets.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("updates the password and burns the token", func(t *testing.T) {
		svc, users, resets := newTestService(t)
		svc.now = func() time.Time { return issued.Add(5 * time.Minute) }

		resets.On("GetByToken", ctx, "tok").Return(&models.PasswordResetToken{
			ID: 9, UserID: 5, Token: "tok", ExpiresAt: issued.Add(30 * time.Minute),
		}, nil)
		users.On("UpdatePassword", ctx, uint(5), mock.MatchedBy(func(hashed string) bool {
			return bcrypt.CompareHashAndPassword([]byte(hashed), []byte("new-password")) == nil
		})).Return(nil)
		resets.On("MarkUsed", ctx, uint(9)).Return(nil)

		require.NoError(t, svc.ResetPassword(ctx, "tok", "new-password"))
		users.AssertExpectations(t)
		resets.AssertExpectations(t)
	})

	t.Run("rejects an unknown token", func(t *testing.T) {
		svc, _, resets := newTestService(t)

		resets.On("GetByToken", ctx, "nope").Return(nil, repositories.ErrResetTokenNotFound)

		assert.ErrorIs(t, svc.ResetPassword(ctx, "nope", "new-password"), ErrInvalidResetToken)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		svc, users, resets := newTestService(t)
		svc.now = func() time.Time { return issued.Add(31 * time.Minute) }

		resets.On("GetByToken", ctx, "tok").Return(&models.PasswordResetToken{
			ID: 9, UserID: 5, Token: "tok", ExpiresAt: issued.Add(30 * time.Minute),
		}, nil)

		assert.ErrorIs(t, svc.ResetPassword(ctx, "tok", "new-password"), ErrResetTokenExpired)
		users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a token that was already redeemed", func(t *testing.T) {
		svc, users, resets := newTestService(t)
		svc.now = func() time.Time { return issued.Add(5 * time.Minute) }

		resets.On("GetByToken", ctx, "tok").Return(&models.PasswordResetToken{
			ID: 9, UserID: 5, Token: "tok", Used: true,
			ExpiresAt: issued.Add(30 * time.Minute),
		}, nil)

		assert.ErrorIs(t, svc.ResetPassword(ctx, "tok", "new-password"), ErrResetTokenUsed)
		users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})
}
