package handlers

import (
	"errors"
	"strconv"

	"walletapi/internal/services/wallet"
	"walletapi/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	walletService wallet.Service
}

func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

func walletIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid wallet id")
	}
	return uint(id), nil
}

func (h *WalletHandler) CreateWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	w, err := h.walletService.CreateWallet(c.Context(), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrMultipleWallets):
			return utils.Conflict(c, err.Error())
		case errors.Is(err, wallet.ErrUserNotFound):
			return utils.NotFound(c, err.Error())
		}
		return utils.InternalError(c, "failed to create wallet")
	}

	return utils.Created(c, fiber.Map{"wallet": w})
}

func (h *WalletHandler) GetMyWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	w, err := h.walletService.GetWalletByUserID(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			return utils.NotFound(c, err.Error())
		}
		return utils.InternalError(c, "failed to get wallet")
	}

	return utils.Success(c, fiber.Map{"wallet": w})
}

func (h *WalletHandler) ActivateWallet(c *fiber.Ctx) error {
	return h.setActive(c, true)
}

func (h *WalletHandler) DeactivateWallet(c *fiber.Ctx) error {
	return h.setActive(c, false)
}

func (h *WalletHandler) setActive(c *fiber.Ctx, active bool) error {
	id, err := walletIDParam(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	if active {
		err = h.walletService.ActivateWallet(c.Context(), id)
	} else {
		err = h.walletService.DeactivateWallet(c.Context(), id)
	}
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			return utils.NotFound(c, err.Error())
		}
		return utils.InternalError(c, "failed to update wallet")
	}

	return utils.Success(c, fiber.Map{"active": active})
}

func (h *WalletHandler) DeleteWallet(c *fiber.Ctx) error {
	id, err := walletIDParam(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	if err := h.walletService.DeleteWallet(c.Context(), id); err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			return utils.NotFound(c, err.Error())
		}
		return utils.InternalError(c, "failed to delete wallet")
	}

	return utils.Success(c, fiber.Map{"deleted": true})
}
