package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mcoot/weddingplanner/internal/api"
	"github.com/mcoot/weddingplanner/internal/config"
	"github.com/mcoot/weddingplanner/internal/factory"
)

// sessionJanitorInterval is how often expired in-memory sessions are purged
const sessionJanitorInterval = 10 * time.Minute

func main() {
	// Load configuration from WEDPLAN_* environment variables
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := newLogger(cfg, os.Stdout)
	if err != nil {
		slog.Error("invalid log configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.SessionSecretGenerated {
		logger.Warn("WEDPLAN_SESSION_SECRET not set, using an ephemeral secret: sessions will not survive a restart")
	}
	if cfg.AdminPassword == "" {
		logger.Warn("WEDPLAN_ADMIN_PASSWORD not set, admin login is disabled")
	}

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Create application factory
	app, err := factory.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	logger.Info("application configured",
		slog.String("env", cfg.Env),
		slog.String("storage", cfg.Storage),
		slog.String("session_store", cfg.SessionStore),
		slog.String("pin_hasher", cfg.PINHasher),
		slog.String("default_language", cfg.DefaultLanguage),
	)

	go app.RunSessionJanitor(ctx, sessionJanitorInterval)

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(app.Handler(), serverConfig, logger)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			cancel()
			_ = app.Close()
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
		}
	}

	logger.Info("server stopped")
}

// newLogger builds the process logger from the configured level and format
func newLogger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return slog.New(slog.NewJSONHandler(w, opts)), nil
}
