// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

// Package main is the entry point for the Pulse server.
//
// Pulse learns per-user news preferences from behavioral events, serves
// hybrid content/collaborative recommendations, and computes trending-topic
// and event-forecast analytics.
//
// The server initializes in order:
//
//  1. Configuration: Koanf v2 layered sources (env > config.yaml > defaults)
//  2. Logging: zerolog, JSON by default
//  3. Storage: BadgerDB state repository (or in-memory with no data dir)
//  4. Engine: the personalization engine, loading persisted state
//  5. Supervision: suture tree running the HTTP server and the flush and
//     decay cadences
//
// Shutdown is graceful on SIGINT and SIGTERM.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgraph-io/badger/v4"

	"github.com/newsbot-ai/pulse/internal/config"
	"github.com/newsbot-ai/pulse/internal/forecast"
	"github.com/newsbot-ai/pulse/internal/logging"
	"github.com/newsbot-ai/pulse/internal/personalize"
	"github.com/newsbot-ai/pulse/internal/personalize/store"
	"github.com/newsbot-ai/pulse/internal/scheduler"
	"github.com/newsbot-ai/pulse/internal/server"
)

func main() {
	if err := run(); err != nil {
		log := logging.Logger()
		log.Fatal().Err(err).Msg("server exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(cfg.Logging)
	log := logging.Logger()
	log.Info().Str("addr", cfg.Server.Addr()).Msg("starting pulse")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repo personalize.Repository
	if cfg.Storage.DataDir != "" {
		if err := os.MkdirAll(cfg.Storage.DataDir, 0o750); err != nil {
			return err
		}
		opts := badger.DefaultOptions(cfg.Storage.DataDir).WithLogger(nil)
		db, err := badger.Open(opts)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close state database")
			}
		}()
		repo = store.NewBadgerRepository(db, log)
	} else {
		log.Warn().Msg("no data directory configured, state will not survive restarts")
		repo = store.NewMemoryRepository()
	}

	engine, err := personalize.NewEngine(ctx, cfg.EngineConfig(), repo, log)
	if err != nil {
		return err
	}

	srv := server.New(engine, forecast.NewCache(), server.Config{
		Timeout:         cfg.Server.Timeout,
		RateLimitReqs:   cfg.API.RateLimitReqs,
		RateLimitWindow: cfg.API.RateLimitWindow,
	}, log)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           srv.Router(),
		ReadHeaderTimeout: cfg.Server.Timeout,
	}

	tree := scheduler.NewTree(log, scheduler.DefaultConfig())
	tree.Add(scheduler.NewHTTPService(httpServer, scheduler.DefaultConfig().ShutdownTimeout, log))
	tree.Add(scheduler.NewFlushService(engine, cfg.Scheduler.FlushInterval, log))
	tree.Add(scheduler.NewDecayService(engine, cfg.Scheduler.DecayInterval, log))

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info().Msg("shutdown complete")
	return nil
}
