// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

// Command server runs the shelter matching HTTP service. It loads the
// trained model artifact, connects to the shelter store and serves the
// recommendation API until interrupted.
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

	"github.com/Etxarri/ShelterAI/internal/api"
	"github.com/Etxarri/ShelterAI/internal/config"
	"github.com/Etxarri/ShelterAI/internal/database"
	"github.com/Etxarri/ShelterAI/internal/logging"
	"github.com/Etxarri/ShelterAI/internal/recommend"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logger.Info().
		Str("version", api.Version).
		Str("model_path", cfg.Model.Path).
		Msg("starting shelterai server")

	// The model artifact is the one hard startup dependency. Without it
	// no endpoint can do useful work.
	engine, err := recommend.NewEngine(
		cfg.Model.Path, cfg.Model.Engine, recommend.DefaultAttributeMapping(), logger)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	store, err := database.Open(cfg.Database.DSN(), database.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return fmt.Errorf("open shelter store: %w", err)
	}
	defer store.Close()

	// An unreachable database is degraded, not fatal: cluster endpoints
	// keep working and /health reports the condition.
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := store.Ping(pingCtx); err != nil {
		logger.Warn().Err(err).Msg("shelter store unreachable, starting degraded")
	}
	cancel()

	handler := api.NewHandler(engine, store, cfg, logger)
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info().Msg("server stopped")
	return nil
}
