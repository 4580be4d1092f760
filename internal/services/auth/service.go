// Package auth provides registration, login and token issuance.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"walletapi/internal/models"
	"walletapi/internal/repositories"
	"walletapi/internal/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidResetToken  = errors.New("invalid reset token")
	ErrResetTokenExpired  = errors.New("reset token has expired")
	ErrResetTokenUsed     = errors.New("reset token has already been used")
	ErrUserNotFound       = errors.New("user not found")
)

// resetTokenTTL bounds how long a password reset token stays redeemable.
const resetTokenTTL = 30 * time.Minute

type Service interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	// RequestPasswordReset issues a single-use reset token for the account.
	// The token is returned to the caller directly; there is no mail
	// delivery in this deployment.
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type service struct {
	users  repositories.UserRepository
	resets repositories.PasswordResetRepository
	now    func() time.Time
}

func NewService(users repositories.UserRepository, resets repositories.PasswordResetRepository) Service {
	if users == nil {
		panic("user repository is required")
	}
	if resets == nil {
		panic("password reset repository is required")
	}
	return &service{users: users, resets: resets, now: time.Now}
}

func (s *service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}
	return user, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, user, nil
}

func (s *service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	reset := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().Add(resetTokenTTL),
	}
	if err := s.resets.Add(ctx, reset); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}
	return reset.Token, nil
}

func (s *service) ResetPassword(ctx context.Context, token, newPassword string) error {
	reset, err := s.resets.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrResetTokenNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	if reset.Used {
		return ErrResetTokenUsed
	}
	if reset.Expired(s.now()) {
		return ErrResetTokenExpired
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, reset.UserID, string(hashed)); err != nil {
		return err
	}
	return s.resets.MarkUsed(ctx, reset.ID)
}

func (s *service) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}
