package handlers

import (
	"errors"

	"walletapi/internal/models"
	"walletapi/internal/services/auth"
	"walletapi/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// extractUserClaims pulls the validated claims out of the request context.
func extractUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if input.Name == "" || input.Email == "" || len(input.Password) < 8 {
		return utils.BadRequest(c, "name, email and a password of at least 8 characters are required")
	}

	user, err := h.authService.Register(c.Context(), input.Name, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailInUse) {
			return utils.Conflict(c, err.Error())
		}
		return utils.InternalError(c, "failed to register user")
	}

	return utils.Created(c, fiber.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	token, user, err := h.authService.Login(c.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return utils.Unauthorized(c, err.Error())
		}
		return utils.InternalError(c, "failed to log in")
	}

	return utils.Success(c, fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var input struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&input); err != nil || input.Email == "" {
		return utils.BadRequest(c, "email is required")
	}

	token, err := h.authService.RequestPasswordReset(c.Context(), input.Email)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return utils.NotFound(c, err.Error())
		}
		return utils.InternalError(c, "failed to generate reset token")
	}

	// The token is returned in the response; there is no mail delivery.
	return utils.Success(c, fiber.Map{
		"message": "reset token generated",
		"token":   token,
	})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var input struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if input.Token == "" || len(input.NewPassword) < 8 {
		return utils.BadRequest(c, "token and a password of at least 8 characters are required")
	}

	if err := h.authService.ResetPassword(c.Context(), input.Token, input.NewPassword); err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidResetToken),
			errors.Is(err, auth.ErrResetTokenExpired),
			errors.Is(err, auth.ErrResetTokenUsed):
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "failed to reset password")
	}

	return utils.Success(c, fiber.Map{"message": "password updated"})
}
