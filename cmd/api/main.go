package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/01moynul/valuefurniture-golang/internal/auth"
	"github.com/01moynul/valuefurniture-golang/internal/cart"
	"github.com/01moynul/valuefurniture-golang/internal/catalog"
	"github.com/01moynul/valuefurniture-golang/internal/checkout"
	"github.com/01moynul/valuefurniture-golang/internal/config"
	"github.com/01moynul/valuefurniture-golang/internal/database"
	"github.com/01moynul/valuefurniture-golang/internal/handlers"
	"github.com/01moynul/valuefurniture-golang/internal/notify"
	"github.com/01moynul/valuefurniture-golang/internal/payment"
	"github.com/01moynul/valuefurniture-golang/internal/routes"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		slog.Warn("could not load .env file, relying on system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	// 1. --- Main Database Connection ---
	sqlDB, err := database.OpenDB(cfg.DSN)
	if err != nil {
		logger.Error("failed to connect to primary database", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	db, err := database.OpenGorm(sqlDB)
	if err != nil {
		logger.Error("failed to initialise ORM", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// 2. --- Payment Gateway ---
	gateway, err := payment.NewBraintree(cfg.Braintree)
	if err != nil {
		logger.Error("payment gateway is not configured", "error", err)
		os.Exit(1)
	}

	// --- Application Setup ---
	outbox := notify.NewOutbox(db, logger)
	app := &handlers.Handlers{
		DB:        db,
		Catalog:   catalog.New(db),
		Checkout:  checkout.New(db, gateway, outbox, logger),
		Outbox:    outbox,
		Tokens:    auth.NewTokens(cfg.JWTSecret),
		Logger:    logger,
		UploadDir: cfg.UploadDir,
		BaseURL:   cfg.BaseURL,
	}

	// --- 3. Background Workers ---
	// Anonymous carts hold stock; release the abandoned ones.
	go sweepCarts(db, logger, cfg.CartTTL, cfg.SweepInterval)

	// --- Router Setup ---
	router := routes.SetupRouter(app, routes.Options{
		CORSOrigins:   cfg.CORSOrigins,
		SessionSecret: cfg.SessionSecret,
		SecureCookie:  strings.HasPrefix(cfg.BaseURL, "https://"),
	})

	// --- Start Server ---
	logger.Info("starting Value Furniture API server", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}

func sweepCarts(db *gorm.DB, logger *slog.Logger, ttl, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logger.Info("cart sweeper started", "ttl", ttl, "interval", every)
	for range ticker.C {
		released, err := cart.Sweep(context.Background(), db, time.Now().Add(-ttl))
		if err != nil {
			logger.Error("cart sweep failed", "error", err)
			continue
		}
		if released > 0 {
			logger.Info("abandoned cart lines released", "lines", released)
		}
	}
}
