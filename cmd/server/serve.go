package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"despachos/rndc-gateway/internal/api"
	"despachos/rndc-gateway/internal/auth"
	"despachos/rndc-gateway/internal/common"
	"despachos/rndc-gateway/internal/config"
	"despachos/rndc-gateway/internal/db"
	"despachos/rndc-gateway/internal/logging"
	"despachos/rndc-gateway/internal/metrics"
	"despachos/rndc-gateway/internal/routes"
)

const (
	shutdownTimeout = 30 * time.Second
	productionEnv   = "production"
)

func runServe(ctx context.Context, configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	if err := logging.Init(cfg.AppEnv, cfg.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logging.Close()

	logging.Info("RNDC gateway starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	tokens, err := authTokens(cfg)
	if err != nil {
		logging.Error("Refusing to start", "error", err.Error())
		return err
	}

	gdb, err := db.InitPostgresORM(cfg.PG.DSN())
	if err != nil {
		logging.Error("Failed to connect to Postgres (GORM)", "error", err.Error())
		return err
	}
	if err := db.Migrate(gdb); err != nil {
		logging.Error("Failed to migrate schema", "error", err.Error())
		return err
	}
	logging.Info("Connected to Postgres (GORM)")

	sx, err := db.InitPostgres(cfg.PG.DSN())
	if err != nil {
		logging.Error("Failed to connect to Postgres (sqlx)", "error", err.Error())
		return err
	}
	defer sx.Close()
	logging.Info("Connected to Postgres (sqlx)")

	cache := common.NewCache(cfg.Redis)
	defer cache.Close()

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)
	deps := api.InitDependencies(gdb, sx, cache, metricsReg, &http.Client{}, cfg.Upload.MaxBytes)
	router := routes.RegisterRoutes(deps, cfg, tokens, prometheus.DefaultGatherer, time.Now())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Server starting", "addr", cfg.Addr, "environment", cfg.AppEnv)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server stopped", "error", err.Error())
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info("Shutting down, waiting for in-flight batches")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err.Error())
		return err
	}
	return nil
}

// authTokens returns nil outside production when no secret is set, which leaves
// /api/v1 open to local development.
func authTokens(cfg config.Config) (*auth.TokenService, error) {
	if cfg.JWT.Secret != "" {
		return auth.NewTokenService([]byte(cfg.JWT.Secret), cfg.JWT.Issuer), nil
	}
	if cfg.AppEnv == productionEnv {
		return nil, errors.New("jwt.secret is required when app_env is production")
	}
	logging.Warn("jwt.secret is empty, /api/v1 runs without authentication")
	return nil, nil
}

func runMigrate(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if err := logging.Init(cfg.AppEnv, cfg.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logging.Close()

	gdb, err := db.InitPostgresORM(cfg.PG.DSN())
	if err != nil {
		return err
	}
	if err := db.Migrate(gdb); err != nil {
		return err
	}
	logging.Info("Schema is up to date", "tables", len(db.Models()))
	return nil
}
