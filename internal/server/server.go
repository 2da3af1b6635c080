// Package server provides the main server initialization and run logic.
package server

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
	"github.com/orgdesa/orgdesa/internal/api"
	"github.com/orgdesa/orgdesa/internal/api/handlers"
	"github.com/orgdesa/orgdesa/internal/auth"
	"github.com/orgdesa/orgdesa/internal/config"
	"github.com/orgdesa/orgdesa/internal/db"
	"github.com/orgdesa/orgdesa/internal/logger"
	"github.com/orgdesa/orgdesa/internal/metrics"
	"github.com/orgdesa/orgdesa/internal/rbac"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// Config holds the server configuration options.
type Config struct {
	Port    int    // Port to run the server on (0 = use config default)
	Version string // Version string to report
}

// Open loads configuration, initializes logging and returns a migrated
// database. Commands that only touch the database use it directly.
func Open() (*config.Config, *gorm.DB, error) {
	appCfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Init(appCfg.Log.Format, appCfg.Log.Level)

	// Propagate app log level to database if not explicitly set
	if appCfg.Database.LogLevel == "" && appCfg.Log.Level == "debug" {
		appCfg.Database.LogLevel = "info"
	}

	database, err := db.New(appCfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("Database initialized", "driver", appCfg.Database.Driver)

	if err := db.Migrate(database); err != nil {
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("Database migrations completed")

	return appCfg, database, nil
}

// NewHandler wires authentication, authorization and metrics around the
// router for an already opened database.
func NewHandler(ctx context.Context, appCfg *config.Config, database *gorm.DB) (*gin.Engine, error) {
	enforcer, err := rbac.NewEnforcer(database, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize authorization: %w", err)
	}

	basic := auth.NewBasicAuthenticator(database, appCfg.Auth.JWTSecret, appCfg.Auth.TokenTTL)
	deps := api.Deps{
		DB:            database,
		Enforcer:      enforcer,
		Authenticator: basic,
	}

	if oc := appCfg.Auth.OIDC; oc.Enabled() {
		deps.OIDC, err = auth.NewOIDCAuthenticator(ctx, auth.OIDCConfig{
			IssuerURL:    oc.IssuerURL,
			ClientID:     oc.ClientID,
			ClientSecret: oc.ClientSecret,
			RedirectURL:  oc.RedirectURL,
		}, database, basic)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OIDC: %w", err)
		}
		slog.Info("OIDC login enabled", "issuer", oc.IssuerURL)
	}

	if appCfg.Metrics.Enabled {
		deps.Metrics = metrics.New()
	}

	return api.NewRouter(appCfg, deps), nil
}

// Run starts the server with the given configuration and blocks until the context is canceled.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Version != "" {
		handlers.Version = cfg.Version
	}

	appCfg, database, err := Open()
	if err != nil {
		return err
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}

	if cfg.Port != 0 {
		appCfg.Server.Port = cfg.Port
	}
	slog.Info("Starting orgdesa server", "version", handlers.Version, "mode", appCfg.Server.Mode)

	if err := db.CreateDefaultAdmin(database); err != nil {
		return fmt.Errorf("failed to create default admin user: %w", err)
	}

	router, err := NewHandler(ctx, appCfg, database)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", appCfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}
	slog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server stopped")
	return nil
}

// RunWithSignalHandling starts the server and handles OS signals for graceful shutdown.
func RunWithSignalHandling(cfg Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return Run(ctx, cfg)
}
