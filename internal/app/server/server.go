package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/exp/slog"

	"vera/internal/app/server/api"
	"vera/internal/app/server/config"
	"vera/internal/infrastructure/metrics"
	"vera/internal/infrastructure/storage"
	"vera/internal/infrastructure/storage/memory"
	"vera/internal/infrastructure/storage/postgres"
	"vera/internal/utils/logger"
)

const shutdownTimeout = 5 * time.Second

// OpenStorage выбирает хранилище: Postgres при заданном DATABASE_URI, иначе память процесса
func OpenStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.Storage, error) {
	if cfg.DatabaseURI == "" {
		log.Warn("DATABASE_URI is empty, data is kept in memory")
		return memory.New(), nil
	}
	return postgres.New(ctx, cfg.DatabaseURI, log)
}

// Run запускает dev-сервер и блокируется до сигнала завершения или ошибки сервера
func Run(cfg *config.Config, log *slog.Logger) error {
	ctx := context.Background()

	store, err := OpenStorage(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("storage close", logger.Err(err))
		}
	}()

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      api.New(cfg, store, metrics.New("vera_server", true), log),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("address", cfg.RunAddress), slog.String("storage", store.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("gracefully stopped")
	return nil
}
