// README: Entry point; loads config, wires stores and services, serves the checkout API until signalled.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"grocery/internal/config"
	httptransport "grocery/internal/http"
	"grocery/internal/infra"
	"grocery/internal/modules/location"
	"grocery/internal/modules/order"
	"grocery/internal/modules/pricing"
	"grocery/internal/modules/referral"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		return err
	}
	logger := infra.NewLogger(os.Stdout, cfg.Log.Format, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN, cfg.DB.MaxConns)
	if err != nil {
		logger.Error("db init failed", "error", err)
		return err
	}
	defer dbPool.Close()

	if cfg.DB.AutoMigrate {
		if err := infra.ApplyMigrations(ctx, dbPool, cfg.DB.MigrationsDir); err != nil {
			logger.Error("migrations failed", "error", err)
			return err
		}
		logger.Info("migrations applied", "dir", cfg.DB.MigrationsDir)
	}

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer func() { _ = redisClient.Close() }()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// the fee cache and sessions degrade without redis
		logger.Warn("redis unreachable", "addr", cfg.Redis.Addr, "error", err)
	}

	locationStore := location.NewStore(dbPool)
	locationSvc := location.NewService(locationStore)

	pricingStore := pricing.NewStore(dbPool)
	feeCache := pricing.NewFeeCache(redisClient, pricingStore, cfg.Pricing.FeeCacheTTL, logger)
	sessions := pricing.NewSessionStore(redisClient, cfg.Pricing.SessionTTL)
	referralClient := referral.NewClient(cfg.Referral.BaseURL, &http.Client{Timeout: cfg.Referral.Timeout})

	pricingSvc := pricing.NewService(pricing.ServiceDeps{
		Schedule:  feeCache,
		Flags:     pricingStore,
		Addresses: locationSvc,
		Sessions:  sessions,
		Referrals: referralClient,
		Logger:    logger,
	})

	orderStore := order.NewStore(dbPool)
	orderSvc := order.NewService(orderStore, pricingSvc, logger)

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httptransport.NewRouter(httptransport.RouterDeps{
		Checkout:  pricingSvc,
		Orders:    orderSvc,
		Addresses: locationSvc,
		Logger:    logger,
	})

	server := httptransport.NewServer(cfg.HTTP.Addr, router, logger)
	if err := server.Run(ctx); err != nil {
		logger.Error("http server stopped", "error", err)
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
