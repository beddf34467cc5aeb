// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

package server

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/newsbot-ai/pulse/internal/forecast"
	"github.com/newsbot-ai/pulse/internal/metrics"
	"github.com/newsbot-ai/pulse/internal/news"
	"github.com/newsbot-ai/pulse/internal/personalize"
	"github.com/newsbot-ai/pulse/internal/trending"
)

const maxBodyBytes = 4 << 20

func (s *Server) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, out any) bool {
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(out); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// handleTrackBehaviors ingests behavior events. The body may be a single
// event object or an array of events. Events without a timestamp get the
// server's current time.
func (s *Server) handleTrackBehaviors(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	var events []personalize.Behavior
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &events)
	} else {
		var single personalize.Behavior
		if err = json.Unmarshal(trimmed, &single); err == nil {
			events = []personalize.Behavior{single}
		}
	}
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	nowMs := s.now().UnixMilli()
	accepted := 0
	for _, b := range events {
		if b.UserID == "" {
			continue
		}
		if b.Timestamp == 0 {
			b.Timestamp = nowMs
		}
		s.engine.TrackBehavior(b)
		metrics.TrackBehavior(string(b.Action))
		accepted++
	}

	s.respondJSON(w, http.StatusAccepted, map[string]int{"accepted": accepted})
}

// handleRegisterArticles registers article features for scoring. The body
// is an array of articles; scoring features are derived server-side.
func (s *Server) handleRegisterArticles(w http.ResponseWriter, r *http.Request) {
	var articles []news.Article
	if !s.decodeJSON(w, r, &articles) {
		return
	}

	now := s.now()
	features := make([]personalize.ArticleFeatures, 0, len(articles))
	for i := range articles {
		if articles[i].ID == "" {
			continue
		}
		features = append(features, articleFeatures(&articles[i], now))
	}

	s.engine.RegisterArticles(features)
	metrics.ArticlesRegistered.Add(float64(len(features)))
	s.respondJSON(w, http.StatusOK, map[string]int{"registered": len(features)})
}

// articleFeatures derives the scoring view of an article: popularity from
// the engagement estimate, recency from article age with a 48-hour
// linear falloff.
func articleFeatures(a *news.Article, now time.Time) personalize.ArticleFeatures {
	age := now.Sub(a.PublishedAt(now))
	recency := 1 - age.Hours()/48
	if recency < 0 {
		recency = 0
	}
	if recency > 1 {
		recency = 1
	}

	return personalize.ArticleFeatures{
		ID:         a.ID,
		Topic:      a.Topic,
		Source:     a.Source,
		Sentiment:  string(a.Sentiment),
		TrustScore: a.TrustScore,
		Popularity: trending.EstimateEngagement(*a) / 100,
		Recency:    recency,
		WordCount:  len(strings.Fields(a.FullText)),
		Author:     a.Author,
	}
}

// handleRecommendations scores candidates for a user. Candidates default to
// every registered article; ?candidates=id1,id2 narrows the set and ?limit=
// caps the result.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	var candidates []string
	if v := r.URL.Query().Get("candidates"); v != "" {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				candidates = append(candidates, id)
			}
		}
	} else {
		candidates = s.engine.ArticleIDs()
	}

	start := time.Now()
	recs := s.engine.Recommendations(userID, candidates, limit)
	metrics.RecommendationDuration.Observe(time.Since(start).Seconds())
	metrics.RecommendationsServed.Inc()

	s.respondJSON(w, http.StatusOK, map[string]any{
		"user_id":         userID,
		"recommendations": recs,
		"generated_at":    s.now().UnixMilli(),
	})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	s.respondJSON(w, http.StatusOK, s.engine.Insights(userID))
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	profile := s.engine.GetProfile(userID)
	s.respondJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var updates personalize.ProfileInfo
	if !s.decodeJSON(w, r, &updates) {
		return
	}

	info := s.engine.UpdateProfileInfo(userID, updates)
	s.respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleUpdateTopics(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req struct {
		Topics []string `json:"topics"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}

	topics := s.engine.UpdateManualTopics(userID, req.Topics)
	s.respondJSON(w, http.StatusOK, map[string]any{"topics": topics})
}

func (s *Server) handleRemoveLiked(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	articleID := chi.URLParam(r, "articleID")
	s.engine.RemoveLikedArticle(userID, articleID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	reset := s.engine.ResetProfile(userID)
	s.respondJSON(w, http.StatusOK, map[string]bool{"reset": reset})
}

// trendTopicsRequest carries one trending-scoring batch. The previous
// snapshot makes growth rates batch-relative; callers keep the returned
// snapshot for the next request.
type trendTopicsRequest struct {
	Articles       []news.Article                    `json:"articles"`
	Previous       map[string]trending.TopicSnapshot `json:"previous_snapshot,omitempty"`
	ImageByTopic   map[string]string                 `json:"image_by_topic,omitempty"`
	FallbackImage  string                            `json:"fallback_image,omitempty"`
	FallbackTopics []trending.TopicView              `json:"fallback_topics,omitempty"`
	Limit          int                               `json:"limit,omitempty"`
	Minimum        int                               `json:"minimum,omitempty"`
}

func (s *Server) handleTrendTopics(w http.ResponseWriter, r *http.Request) {
	var req trendTopicsRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	now := s.now()
	scores := trending.BuildTopicScores(req.Articles, req.Previous, now)
	topics := trending.SelectTopTopics(scores, req.ImageByTopic, req.FallbackImage)
	if len(req.FallbackTopics) > 0 {
		topics = trending.MergeWithFallbackTopics(topics, req.FallbackTopics, req.Limit, req.Minimum)
	}

	metrics.TrendBatchesScored.Inc()
	s.respondJSON(w, http.StatusOK, map[string]any{
		"topics":   topics,
		"snapshot": trending.BuildSnapshot(scores, now),
		"latest":   trending.SortArticlesByRecency(req.Articles, 6, now),
	})
}

// scenarioRequest is a partial scenario: absent fields keep the baseline
// values.
type scenarioRequest struct {
	Description      *string  `json:"description,omitempty"`
	GrowthMultiplier *float64 `json:"growth_multiplier,omitempty"`
	SentimentShift   *float64 `json:"sentiment_shift,omitempty"`
	VolumeMultiplier *float64 `json:"volume_multiplier,omitempty"`
	EngagementShift  *float64 `json:"engagement_shift,omitempty"`
}

func (sr *scenarioRequest) merge() forecast.ScenarioModifiers {
	m := forecast.DefaultScenarioModifiers()
	if sr == nil {
		return m
	}
	if sr.Description != nil {
		m.Description = *sr.Description
	}
	if sr.GrowthMultiplier != nil {
		m.GrowthMultiplier = *sr.GrowthMultiplier
	}
	if sr.SentimentShift != nil {
		m.SentimentShift = *sr.SentimentShift
	}
	if sr.VolumeMultiplier != nil {
		m.VolumeMultiplier = *sr.VolumeMultiplier
	}
	if sr.EngagementShift != nil {
		m.EngagementShift = *sr.EngagementShift
	}
	return m
}

type forecastEventRequest struct {
	Articles    []news.Article   `json:"articles"`
	Scenario    *scenarioRequest `json:"scenario,omitempty"`
	ScenarioKey string           `json:"scenario_key,omitempty"`
}

// handleForecastEvent computes or serves the cached forecast for one event
// under a scenario. Results are cached per (event, scenario key) with a TTL
// that adapts to signal volatility.
func (s *Server) handleForecastEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	var req forecastEventRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	scenarioKey := req.ScenarioKey
	if scenarioKey == "" {
		scenarioKey = "baseline"
	}

	if cached, ok := s.forecastCache.Get(eventID, scenarioKey); ok {
		metrics.ForecastCacheHits.Inc()
		s.respondJSON(w, http.StatusOK, map[string]any{
			"event_id":  eventID,
			"scenario":  scenarioKey,
			"cached":    true,
			"analytics": cached,
		})
		return
	}
	metrics.ForecastCacheMisses.Inc()

	analytics := forecast.BuildEventAnalytics(req.Articles, req.Scenario.merge(), s.now())
	s.forecastCache.Put(eventID, scenarioKey, analytics)

	s.respondJSON(w, http.StatusOK, map[string]any{
		"event_id":  eventID,
		"scenario":  scenarioKey,
		"cached":    false,
		"analytics": analytics,
	})
}
