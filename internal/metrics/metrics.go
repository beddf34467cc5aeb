// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

// Package metrics defines the Prometheus instrumentation for Pulse:
// API latency, behavior ingestion, recommendation serving, and forecast
// cache efficiency.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pulse_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Behavior ingestion
	BehaviorsTracked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulse_behaviors_tracked_total",
			Help: "Total number of behavior events tracked, by action",
		},
		[]string{"action"},
	)

	BehaviorBatchesFlushed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_behavior_batches_flushed_total",
			Help: "Total number of behavior batch flushes",
		},
	)

	// Recommendation serving
	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pulse_recommendation_duration_seconds",
			Help:    "Duration of recommendation scoring in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecommendationsServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_recommendations_served_total",
			Help: "Total number of recommendation responses served",
		},
	)

	// Articles
	ArticlesRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_articles_registered_total",
			Help: "Total number of article feature registrations",
		},
	)

	// Forecast cache
	ForecastCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_forecast_cache_hits_total",
			Help: "Total number of forecast cache hits",
		},
	)

	ForecastCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_forecast_cache_misses_total",
			Help: "Total number of forecast cache misses",
		},
	)

	// Trending
	TrendBatchesScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_trend_batches_scored_total",
			Help: "Total number of trending-topic batches scored",
		},
	)
)

// ObserveAPIRequest records one API request observation.
func ObserveAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// TrackBehavior records one ingested behavior event.
func TrackBehavior(action string) {
	BehaviorsTracked.WithLabelValues(action).Inc()
}
