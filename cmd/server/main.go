// main is the entry point for the juegos API server.
//
// It loads the configuration, builds the loggers, opens the connection
// pool, registers all HTTP routes and serves until SIGINT or SIGTERM.
// This is the only place where the independent packages are wired
// together; each of them is constructed from the immutable Config.
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

	"github.com/juegos-api/backend/docs"
	"github.com/juegos-api/backend/internal/auth"
	"github.com/juegos-api/backend/internal/config"
	"github.com/juegos-api/backend/internal/db"
	"github.com/juegos-api/backend/internal/handlers"
	"github.com/juegos-api/backend/internal/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// ── Configuration ────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(cfg.Logging, os.Stdout)
	slog.SetDefault(logger)

	accessLog, accessCloser, err := logging.OpenAccessLog(cfg.Logging.AccessLog, logger)
	if err != nil {
		return err
	}
	defer accessCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Database ─────────────────────────────────────────────────────
	pool, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer pool.Close()
	logger.Info("database ready",
		"driver", cfg.Database.Driver,
		"max_open_conns", cfg.Database.MaxOpenConns,
	)

	// ── Handlers ─────────────────────────────────────────────────────
	creds, err := auth.NewCredentials(cfg.Auth.Username, cfg.Auth.Password)
	if err != nil {
		return err
	}
	apiDoc, err := docs.Build()
	if err != nil {
		return err
	}

	srv := &handlers.Server{
		DB:          pool,
		Secret:      cfg.Auth.Secret,
		Credentials: creds,
		Logger:      logger,
		APIDoc:      apiDoc,
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handlers.NewRouter(srv, accessLog),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	// ── Serve ────────────────────────────────────────────────────────
	errCh := make(chan error, 1)
	go func() {
		logger.Info("juegos API listening", "addr", cfg.Addr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
