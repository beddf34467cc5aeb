// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

package scheduler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/newsbot-ai/pulse/internal/metrics"
)

// FlushTarget is the engine surface the flush cadence needs.
type FlushTarget interface {
	FlushQueue()
	QueueLen() int
}

// FlushService runs the engine's batch step on a fixed cadence so a quiet
// queue still flushes. The engine also flushes on its own when the batch
// fills; this ticker is the backstop.
type FlushService struct {
	target   FlushTarget
	interval time.Duration
	logger   zerolog.Logger
}

// NewFlushService creates the flush cadence service.
func NewFlushService(target FlushTarget, interval time.Duration, logger zerolog.Logger) *FlushService {
	return &FlushService{
		target:   target,
		interval: interval,
		logger:   logger.With().Str("component", "flush_service").Logger(),
	}
}

// Serve implements suture.Service.
func (s *FlushService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.interval).Msg("flush cadence started")
	for {
		select {
		case <-ctx.Done():
			// Final drain so queued events are not lost on shutdown.
			s.target.FlushQueue()
			return ctx.Err()
		case <-ticker.C:
			if s.target.QueueLen() > 0 {
				s.target.FlushQueue()
				metrics.BehaviorBatchesFlushed.Inc()
			}
		}
	}
}

// DecayTarget is the engine surface the decay cadence needs.
type DecayTarget interface {
	DecayAll()
}

// DecayService applies temporal preference decay across all profiles on a
// slow cadence.
type DecayService struct {
	target   DecayTarget
	interval time.Duration
	logger   zerolog.Logger
}

// NewDecayService creates the decay cadence service.
func NewDecayService(target DecayTarget, interval time.Duration, logger zerolog.Logger) *DecayService {
	return &DecayService{
		target:   target,
		interval: interval,
		logger:   logger.With().Str("component", "decay_service").Logger(),
	}
}

// Serve implements suture.Service.
func (s *DecayService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.interval).Msg("decay cadence started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.target.DecayAll()
		}
	}
}

// HTTPService adapts an http.Server to suture's Serve pattern with graceful
// shutdown on context cancellation.
type HTTPService struct {
	server          *http.Server
	shutdownTimeout time.Duration
	logger          zerolog.Logger
}

// NewHTTPService wraps an http.Server as a supervised service.
func NewHTTPService(server *http.Server, shutdownTimeout time.Duration, logger zerolog.Logger) *HTTPService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		logger:          logger.With().Str("component", "http_service").Logger(),
	}
}

// Serve implements suture.Service.
func (s *HTTPService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	s.logger.Info().Str("addr", s.server.Addr).Msg("http server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("http shutdown did not complete cleanly")
		}
		return ctx.Err()
	}
}
