package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"walletapi/internal/models"
	"walletapi/internal/repositories"
	"walletapi/internal/services/report"
	"walletapi/internal/services/transaction"
	"walletapi/internal/services/wallet"
	"walletapi/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type TransactionHandler struct {
	engine        transaction.Service
	walletService wallet.Service
	reports       *report.Generator
}

func NewTransactionHandler(engine transaction.Service, walletService wallet.Service, reports *report.Generator) *TransactionHandler {
	return &TransactionHandler{engine: engine, walletService: walletService, reports: reports}
}

type moneyRequest struct {
	WalletID    uint            `json:"wallet_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func (h *TransactionHandler) Deposit(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input moneyRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if len(input.Description) > transaction.DescriptionMaxLength {
		return utils.BadRequest(c, "description is too long")
	}

	tx, err := h.engine.Deposit(c.Context(), input.WalletID, claims.UserID, input.Amount, input.Description)
	if err != nil {
		return engineError(c, err)
	}
	return utils.Created(c, fiber.Map{"transaction": tx})
}

func (h *TransactionHandler) Withdraw(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input moneyRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if len(input.Description) > transaction.DescriptionMaxLength {
		return utils.BadRequest(c, "description is too long")
	}

	tx, err := h.engine.Withdraw(c.Context(), input.WalletID, claims.UserID, input.Amount, input.Description)
	if err != nil {
		return engineError(c, err)
	}
	return utils.Created(c, fiber.Map{"transaction": tx})
}

func (h *TransactionHandler) Transfer(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		SourceWalletID      uint            `json:"source_wallet_id"`
		DestinationWalletID uint            `json:"destination_wallet_id"`
		Amount              decimal.Decimal `json:"amount"`
		Description         string          `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if len(input.Description) > transaction.DescriptionMaxLength {
		return utils.BadRequest(c, "description is too long")
	}

	tx, err := h.engine.Transfer(c.Context(), input.SourceWalletID, input.DestinationWalletID,
		claims.UserID, input.Amount, input.Description)
	if err != nil {
		return engineError(c, err)
	}
	return utils.Created(c, fiber.Map{"transaction": tx})
}

func (h *TransactionHandler) Revert(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return utils.BadRequest(c, "invalid transaction id")
	}

	// Only the transaction's owner or an admin may reverse it.
	if !claims.IsAdmin() {
		tx, err := h.engine.GetTransaction(c.Context(), uint(id))
		if err != nil {
			return engineError(c, err)
		}
		if tx.UserID != claims.UserID {
			return utils.Forbidden(c, "transaction belongs to another user")
		}
	}

	refund, err := h.engine.RevertTransaction(c.Context(), uint(id))
	if err != nil {
		return engineError(c, err)
	}
	return utils.Success(c, fiber.Map{"refund": refund})
}

func (h *TransactionHandler) History(c *fiber.Ctx) error {
	walletID, filter, err := historyQuery(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	txs, err := h.engine.GetTransactionHistory(c.Context(), walletID, filter)
	if err != nil {
		return engineError(c, err)
	}
	return utils.Success(c, fiber.Map{"transactions": txs, "count": len(txs)})
}

func (h *TransactionHandler) Count(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("walletId"), 10, 32)
	if err != nil || id == 0 {
		return utils.BadRequest(c, "invalid wallet id")
	}

	count, err := h.engine.GetTotalTransactionCount(c.Context(), uint(id))
	if err != nil {
		return engineError(c, err)
	}
	return utils.Success(c, fiber.Map{"count": count})
}

func (h *TransactionHandler) Balance(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := strconv.ParseUint(c.Params("walletId"), 10, 32)
	if err != nil || id == 0 {
		return utils.BadRequest(c, "invalid wallet id")
	}

	// Admins may read any balance; the ownership check applies to everyone
	// else.
	var balance decimal.Decimal
	if claims.IsAdmin() {
		balance, err = h.walletService.GetBalance(c.Context(), uint(id))
	} else {
		balance, err = h.engine.GetBalance(c.Context(), uint(id), claims.UserID)
	}
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			return utils.NotFound(c, err.Error())
		}
		return engineError(c, err)
	}
	return utils.Success(c, fiber.Map{"balance": balance})
}

func (h *TransactionHandler) Report(c *fiber.Ctx) error {
	walletID, filter, err := historyQuery(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	csvData, err := h.reports.GenerateCSV(c.Context(), walletID, filter)
	if err != nil {
		return engineError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=transactions-%d.csv", walletID))
	return c.Send(csvData)
}

func historyQuery(c *fiber.Ctx) (uint, repositories.TransactionFilter, error) {
	var filter repositories.TransactionFilter

	id, err := strconv.ParseUint(c.Params("walletId"), 10, 32)
	if err != nil || id == 0 {
		return 0, filter, errors.New("invalid wallet id")
	}

	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return 0, filter, errors.New("invalid start_date")
		}
		filter.StartDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return 0, filter, errors.New("invalid end_date")
		}
		filter.EndDate = &t
	}
	if v := c.Query("status"); v != "" {
		status := models.TransactionStatus(v)
		filter.Status = &status
	}
	if v := c.Query("type"); v != "" {
		typ := models.TransactionType(v)
		if !models.ValidTransactionType(typ) {
			return 0, filter, errors.New("invalid transaction type")
		}
		filter.Type = &typ
	}

	return uint(id), filter, nil
}

// engineError maps the engine's error taxonomy to HTTP status codes.
func engineError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, transaction.ErrInsufficientFunds):
		return utils.PaymentRequired(c, err.Error())
	case errors.Is(err, transaction.ErrUnauthorized):
		return utils.Forbidden(c, err.Error())
	case errors.Is(err, transaction.ErrLimitExceeded),
		errors.Is(err, transaction.ErrInvalidTransaction),
		errors.Is(err, transaction.ErrWalletInactive):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, transaction.ErrCannotReverse):
		return utils.Conflict(c, err.Error())
	case errors.Is(err, repositories.ErrWalletNotFound),
		errors.Is(err, repositories.ErrTransactionNotFound):
		return utils.NotFound(c, err.Error())
	default:
		return utils.InternalError(c, "internal error processing the transaction")
	}
}
