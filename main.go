package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jalad-shrimali/cdr-billing/billing"
	"github.com/jalad-shrimali/cdr-billing/config"
	"github.com/jalad-shrimali/cdr-billing/handlers"
	"github.com/jalad-shrimali/cdr-billing/logger"
	"github.com/jalad-shrimali/cdr-billing/tariff"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(2)
	}
	logger.Init(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	initial, err := initialTariff(cfg)
	if err != nil {
		slog.Error("load tariff", "db", cfg.TariffDB, "env_file", cfg.TariffEnv, "err", err)
		os.Exit(1)
	}
	store := tariff.NewStore(initial)

	h := handlers.New(store, int64(cfg.MaxUploadMB)<<20)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handlers.NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       time.Minute,
	}

	go func() {
		slog.Info("server started", "addr", cfg.Addr, "tariff", store.Snapshot())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("forced shutdown", "err", err)
	}
}

// initialTariff prefers the SQLite tariff table. Without one, the built-in
// defaults are overlaid by the tariff env file, then by TARIFF_* variables.
func initialTariff(cfg *config.Config) (billing.TariffConfig, error) {
	if cfg.TariffDB != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		t, err := tariff.LoadSQLite(ctx, cfg.TariffDB)
		if !errors.Is(err, tariff.ErrNoTariffRow) {
			return t, err
		}
		slog.Warn("tariff table empty, using environment", "path", cfg.TariffDB)
	}

	base := billing.DefaultTariff()
	if cfg.TariffEnv != "" {
		var err error
		if base, err = tariff.FromDotenv(cfg.TariffEnv, base); err != nil {
			return billing.TariffConfig{}, fmt.Errorf("tariff: read %q: %w", cfg.TariffEnv, err)
		}
	}
	return tariff.FromEnv(base), nil
}
