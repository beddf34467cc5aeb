// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

// Package server hosts the Pulse HTTP API: behavior ingestion, per-user
// recommendations and insights, profile management, trending-topic scoring,
// and event forecasting. The API is a thin host surface over the analytics
// packages; all domain logic lives there.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/newsbot-ai/pulse/internal/forecast"
	"github.com/newsbot-ai/pulse/internal/metrics"
	"github.com/newsbot-ai/pulse/internal/personalize"
)

// Config holds the server's runtime settings.
type Config struct {
	// Timeout bounds request handling.
	Timeout time.Duration

	// RateLimitReqs is the per-IP request budget per window. Zero disables
	// rate limiting.
	RateLimitReqs   int
	RateLimitWindow time.Duration
}

// Server wires the API handlers to the analytics engines.
type Server struct {
	engine        *personalize.Engine
	forecastCache *forecast.Cache
	logger        zerolog.Logger
	cfg           Config
	now           func() time.Time
}

// New creates a server around an engine and a forecast cache.
func New(engine *personalize.Engine, cache *forecast.Cache, cfg Config, logger zerolog.Logger) *Server {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = time.Minute
	}
	return &Server{
		engine:        engine,
		forecastCache: cache,
		logger:        logger.With().Str("component", "server").Logger(),
		cfg:           cfg,
		now:           time.Now,
	}
}

// Router builds the chi router with the full API surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Timeout))
	r.Use(s.observe)
	if s.cfg.RateLimitReqs > 0 {
		r.Use(httprate.LimitByIP(s.cfg.RateLimitReqs, s.cfg.RateLimitWindow))
	}

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/behaviors", s.handleTrackBehaviors)
		r.Post("/articles", s.handleRegisterArticles)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/recommendations", s.handleRecommendations)
			r.Get("/insights", s.handleInsights)
			r.Get("/profile", s.handleGetProfile)
			r.Put("/profile", s.handleUpdateProfile)
			r.Put("/topics", s.handleUpdateTopics)
			r.Delete("/liked/{articleID}", s.handleRemoveLiked)
			r.Post("/reset", s.handleResetProfile)
		})

		r.Post("/trends/topics", s.handleTrendTopics)
		r.Post("/forecast/events/{eventID}", s.handleForecastEvent)
	})

	return r
}

// observe records request duration per route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveAPIRequest(r.Method, route, ww.Status(), time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"users":    s.engine.UserCount(),
		"articles": s.engine.ArticleCount(),
	})
}
