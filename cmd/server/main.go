// Package main is the entry point for the wallet API server. It wires the
// database, cache, services and HTTP surface together and starts listening.
package main

import (
	"log"
	"time"

	"walletapi/internal/config"
	"walletapi/internal/handlers"
	"walletapi/internal/logger"
	"walletapi/internal/repositories"
	"walletapi/internal/repositories/cache"
	"walletapi/internal/routes"
	"walletapi/internal/services/auth"
	"walletapi/internal/services/report"
	"walletapi/internal/services/transaction"
	"walletapi/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()

	zlog, err := logger.New(config.IsProduction())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	db, err := repositories.InitDB()
	if err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}

	redisClient, err := cache.NewRedisClient(&cache.RedisConfig{
		Host:     config.GetEnv("REDIS_HOST", "localhost"),
		Port:     config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	})
	var cacheSvc *cache.Service
	if err != nil {
		zlog.Warn("redis unavailable, running without cache", zap.Error(err))
	} else {
		cacheSvc = cache.NewService(redisClient, 30*time.Minute)
		defer cacheSvc.Close()
	}

	repos := repositories.NewRepositories(db)
	txManager := repositories.NewTxManager(db)

	metrics := transaction.NewPrometheusCollector(prometheus.DefaultRegisterer)
	engineConfig := transaction.Config{
		TransactionLimit: config.GetDecimalEnv("TRANSACTION_LIMIT",
			decimal.RequireFromString(transaction.DefaultTransactionLimit)),
	}

	var invalidator transaction.CacheInvalidator
	if cacheSvc != nil {
		invalidator = cacheSvc
	}

	engine := transaction.NewService(repos, txManager, engineConfig, invalidator, metrics, zlog)
	walletSvc := wallet.NewService(repos.Wallets, repos.Users, cacheSvc, zlog)
	authSvc := auth.NewService(repos.Users, repos.PasswordResets)
	reports := report.NewGenerator(repos.Transactions)

	app := fiber.New(fiber.Config{
		AppName: "walletapi",
	})
	app.Use(cors.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.SetupRoutes(app,
		handlers.NewAuthHandler(authSvc),
		handlers.NewWalletHandler(walletSvc),
		handlers.NewTransactionHandler(engine, walletSvc, reports),
	)

	addr := ":" + config.GetEnv("PORT", "3000")
	zlog.Info("starting server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
