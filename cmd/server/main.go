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

	"github.com/furnishly/backend/config"
	"github.com/furnishly/backend/internal/app"
	httpDelivery "github.com/furnishly/backend/internal/delivery/http"
	"github.com/furnishly/backend/internal/logging"
	"github.com/furnishly/backend/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	logging.Info().
		Str("version", httpDelivery.Version).
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("cache", cfg.Cache.Type).
		Msg("starting Furnishly backend")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize application")
	}
	defer application.Close()

	// The in-memory index starts empty, so fill it from the catalog in the background
	if cfg.Vector.Provider == "memory" && application.Semantic.Enabled() && !application.Catalog.Empty() {
		go func() {
			n, err := application.Semantic.Index(ctx, usecase.DefaultIndexBatchSize)
			if err != nil {
				logging.Error().Err(err).Int("indexed", n).Msg("semantic indexing failed")
				return
			}
			logging.Info().Int("indexed", n).Msg("semantic index ready")
		}()
	}

	handler := httpDelivery.NewHandler(application.Catalog, httpDelivery.Services{
		Recommend:    application.Recommend,
		Analytics:    application.Analytics,
		Products:     application.Products,
		Descriptions: application.Descriptions,
		Semantic:     application.Semantic,
	})
	router := httpDelivery.SetupRouter(cfg, handler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logging.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		logging.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
}
