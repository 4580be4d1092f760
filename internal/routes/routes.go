// Package routes wires the HTTP surface to the service layer.
package routes

import (
	"walletapi/internal/handlers"
	"walletapi/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(app *fiber.App, authH *handlers.AuthHandler, walletH *handlers.WalletHandler, txH *handlers.TransactionHandler) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	api.Post("/register", authH.Register)
	api.Post("/login", authH.Login)
	api.Post("/forgot-password", authH.ForgotPassword)
	api.Post("/reset-password", authH.ResetPassword)

	wallets := api.Group("/wallets", middleware.Auth)
	wallets.Post("/", walletH.CreateWallet)
	wallets.Get("/me", walletH.GetMyWallet)
	wallets.Put("/:id/activate", middleware.AdminOnly, walletH.ActivateWallet)
	wallets.Put("/:id/deactivate", middleware.AdminOnly, walletH.DeactivateWallet)
	wallets.Delete("/:id", middleware.AdminOnly, walletH.DeleteWallet)

	txs := api.Group("/transactions", middleware.Auth)
	txs.Post("/deposit", txH.Deposit)
	txs.Post("/withdraw", txH.Withdraw)
	txs.Post("/transfer", txH.Transfer)
	txs.Post("/:id/revert", txH.Revert)
	txs.Get("/history/:walletId", txH.History)
	txs.Get("/count/:walletId", txH.Count)
	txs.Get("/balance/:walletId", txH.Balance)
	txs.Get("/report/:walletId", txH.Report)
}
