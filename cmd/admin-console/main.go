// Command admin-console runs the backend for the GrowShop admin panel. It
// fronts the storefront API with an admin session layer, server-computed
// table views, dashboard aggregates, and a realtime broadcast channel.
//
// @title        GrowShop Admin Console API
// @version      1.0
// @description  Backend for the GrowShop admin panel: sessions, product and user tables, dashboard aggregates, and broadcasts.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/growshop/admin-console/internal/api"
	"github.com/growshop/admin-console/internal/core/service"
	"github.com/growshop/admin-console/internal/infrastructure/config"
	redisinfra "github.com/growshop/admin-console/internal/infrastructure/db/redis"
	"github.com/growshop/admin-console/internal/infrastructure/notify"
	"github.com/growshop/admin-console/internal/infrastructure/storefront"
	"github.com/growshop/admin-console/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := redisinfra.Connect(ctx, redisinfra.Config{
		Addr:        cfg.Redis.Addr,
		DB:          cfg.Redis.DB,
		PoolSize:    cfg.Redis.PoolSize,
		DialTimeout: cfg.Redis.DialTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis connection failed")
	}
	defer rdb.Close()

	store := storefront.NewClient(storefront.Config{
		BaseURL: cfg.Storefront.BaseURL,
		Timeout: cfg.Storefront.Timeout,
	})
	channel := notify.NewWebsocketChannel(cfg.Socket.URL, log)

	admin := service.NewAdminService(
		store,
		store,
		channel,
		redisinfra.NewSessionStore(rdb),
		redisinfra.NewSnapshotStore(rdb),
		cfg.AuthorizedEmails,
		cfg.SessionTTL,
		log,
	)

	e := api.NewRouter(cfg, admin, store, channel, rdb, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("admin console listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := channel.Close(); err != nil {
		log.Debug().Err(err).Msg("notification channel close")
	}
	log.Info().Msg("stopped")
}
