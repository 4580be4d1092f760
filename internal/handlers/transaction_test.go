package handlers

import (
	"context"
	"net/http/httptest"
	"testing"

	"walletapi/internal/models"
	"walletapi/internal/repositories"
	"walletapi/internal/services/transaction"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEngine records revert calls so authorization tests can assert the
// engine was never reached.
type stubEngine struct {
	tx       *models.Transaction
	txErr    error
	reverted bool
}

func (s *stubEngine) Deposit(context.Context, uint, uint, decimal.Decimal, string) (*models.Transaction, error) {
	return nil, nil
}

func (s *stubEngine) Withdraw(context.Context, uint, uint, decimal.Decimal, string) (*models.Transaction, error) {
	return nil, nil
}

func (s *stubEngine) Transfer(context.Context, uint, uint, uint, decimal.Decimal, string) (*models.Transaction, error) {
	return nil, nil
}

func (s *stubEngine) RevertTransaction(context.Context, uint) (*models.Transaction, error) {
	s.reverted = true
	return &models.Transaction{Type: models.TransactionTypeRefund}, nil
}

func (s *stubEngine) GetTransactionHistory(context.Context, uint, repositories.TransactionFilter) ([]models.Transaction, error) {
	return nil, nil
}

func (s *stubEngine) GetTransaction(context.Context, uint) (*models.Transaction, error) {
	return s.tx, s.txErr
}

func (s *stubEngine) GetBalance(context.Context, uint, uint) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (s *stubEngine) GetTotalTransactionCount(context.Context, uint) (int64, error) {
	return 0, nil
}

func newRevertApp(engine *stubEngine, claims *models.UserClaims) *fiber.App {
	app := fiber.New()
	h := NewTransactionHandler(engine, nil, nil)
	app.Post("/transactions/:id/revert", func(c *fiber.Ctx) error {
		c.Locals("claims", claims)
		return c.Next()
	}, h.Revert)
	return app
}

func TestRevertAuthorization(t *testing.T) {
	ownedTx := &models.Transaction{ID: 1, WalletID: 1, UserID: 1, Status: models.TransactionStatusCompleted}

	t.Run("the owner may revert their own transaction", func(t *testing.T) {
		engine := &stubEngine{tx: ownedTx}
		app := newRevertApp(engine, &models.UserClaims{UserID: 1, Role: models.RoleUser})

		resp, err := app.Test(httptest.NewRequest("POST", "/transactions/1/revert", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.True(t, engine.reverted)
	})

	t.Run("another user's transaction is forbidden and the engine is not reached", func(t *testing.T) {
		engine := &stubEngine{tx: ownedTx}
		app := newRevertApp(engine, &models.UserClaims{UserID: 2, Role: models.RoleUser})

		resp, err := app.Test(httptest.NewRequest("POST", "/transactions/1/revert", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		assert.False(t, engine.reverted)
	})

	t.Run("an admin may revert any transaction", func(t *testing.T) {
		engine := &stubEngine{tx: ownedTx}
		app := newRevertApp(engine, &models.UserClaims{UserID: 9, Role: models.RoleAdmin})

		resp, err := app.Test(httptest.NewRequest("POST", "/transactions/1/revert", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.True(t, engine.reverted)
	})

	t.Run("an unknown transaction maps to not found", func(t *testing.T) {
		engine := &stubEngine{txErr: repositories.ErrTransactionNotFound}
		app := newRevertApp(engine, &models.UserClaims{UserID: 1, Role: models.RoleUser})

		resp, err := app.Test(httptest.NewRequest("POST", "/transactions/404/revert", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.False(t, engine.reverted)
	})
}

var _ transaction.Service = (*stubEngine)(nil)
