// Package server owns the process lifecycle: boot, listen and graceful
// shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/nairobitech/duka/config"
	"github.com/nairobitech/duka/internal/kernel"
	"github.com/nairobitech/duka/pkg/cache"
	"github.com/nairobitech/duka/pkg/database"
	"github.com/nairobitech/duka/pkg/logger"
	"github.com/nairobitech/duka/pkg/queue"
	"github.com/nairobitech/duka/pkg/storage"
)

// workerCount is how many queue workers run inside the server process.
const workerCount = 5

// Boot loads config and opens every backing connection.
func Boot() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("server: load config: %w", err)
	}

	logger.Connect()
	if err := database.Connect(); err != nil {
		return fmt.Errorf("server: connect database: %w", err)
	}
	if err := cache.Connect(); err != nil {
		logger.Warn("server: redis unavailable, caching disabled", "error", err)
	}
	storage.Connect()
	return nil
}

// Start boots the application and serves HTTP until the process receives
// SIGINT or SIGTERM, then drains in-flight requests.
func Start() error {
	if err := Boot(); err != nil {
		return err
	}

	handler, err := kernel.Build()
	if err != nil {
		return fmt.Errorf("server: build handler: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue.StartWorkers(ctx, workerCount)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}

	logger.Shutdown()
	return nil
}
