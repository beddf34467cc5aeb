// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

package personalize

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Note: this package has no dependencies on other internal packages beyond
// the news types. The Repository interface lets the storage layer plug in
// without creating circular imports, and the host process owns all timers.

// Repository persists the engine's state as two blobs: the profile map and
// the article-features map. Load is called once at startup; SaveAll rewrites
// both blobs in full on every mutation.
type Repository interface {
	// Load returns the persisted profiles and article features.
	// Implementations treat missing or corrupt state as empty, not an error.
	Load(ctx context.Context) (map[string]*Profile, map[string]ArticleFeatures, error)

	// SaveAll rewrites the persisted state.
	SaveAll(ctx context.Context, profiles map[string]*Profile, features map[string]ArticleFeatures) error
}

// Engine is the personalization engine. It is safe for concurrent use.
//
// All profile state is owned by the engine and exposed only through copies;
// mutation happens exclusively through TrackBehavior and the explicit
// profile-edit operations.
type Engine struct {
	config *Config
	logger zerolog.Logger
	repo   Repository

	now func() time.Time

	// rng drives the probabilistic decay trigger. Injectable for
	// deterministic tests.
	rng   *rand.Rand
	rngMu sync.Mutex

	mu       sync.Mutex
	profiles map[string]*Profile
	features map[string]ArticleFeatures
	queue    []Behavior

	// simMu guards the similarity cache. Invalidation swaps the whole map
	// so concurrent readers never observe a half-cleared cache.
	simMu        sync.RWMutex
	similarities map[string][]UserSimilarity
}

// Option configures optional engine dependencies.
type Option func(*Engine)

// WithClock injects the time source. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRand injects the random source used for the decay trigger.
// Defaults to a source seeded from the clock.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// NewEngine creates an engine and loads persisted state from repo.
// A nil repo disables persistence (useful in tests). Corrupt or missing
// persisted state is treated as a cold start, never an error.
func NewEngine(ctx context.Context, cfg *Config, repo Repository, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		config:       cfg,
		logger:       logger.With().Str("component", "personalize").Logger(),
		repo:         repo,
		now:          time.Now,
		profiles:     make(map[string]*Profile),
		features:     make(map[string]ArticleFeatures),
		similarities: make(map[string][]UserSimilarity),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(e.now().UnixNano())) //nolint:gosec // decay cadence, not security
	}

	e.load(ctx)
	return e, nil
}

// load restores persisted state. Failures degrade to a cold start.
func (e *Engine) load(ctx context.Context) {
	if e.repo == nil {
		return
	}

	profiles, features, err := e.repo.Load(ctx)
	if err != nil {
		e.logger.Error().Err(err).Msg("failed to load personalization state, starting cold")
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if profiles != nil {
		e.profiles = profiles
	}
	if features != nil {
		e.features = features
	}

	e.logger.Info().
		Int("profiles", len(e.profiles)).
		Int("articles", len(e.features)).
		Msg("loaded personalization state")
}

// persistLocked writes the full state through to the repository.
// Must be called with e.mu held. Failures are logged, not propagated.
func (e *Engine) persistLocked() {
	if e.repo == nil {
		return
	}

	profiles := make(map[string]*Profile, len(e.profiles))
	for id, p := range e.profiles {
		cp := p.clone()
		profiles[id] = &cp
	}
	features := make(map[string]ArticleFeatures, len(e.features))
	for id, f := range e.features {
		features[id] = f
	}

	if err := e.repo.SaveAll(context.Background(), profiles, features); err != nil {
		e.logger.Error().Err(err).Msg("failed to persist personalization state")
	}
}

// RegisterArticle records the scoring features for one article.
// Re-registration overwrites the previous features.
func (e *Engine) RegisterArticle(article ArticleFeatures) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.features[article.ID] = article
	e.persistLocked()
}

// RegisterArticles records features for multiple articles in one pass.
func (e *Engine) RegisterArticles(articles []ArticleFeatures) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, a := range articles {
		e.features[a.ID] = a
	}
	e.persistLocked()
}

// ArticleIDs returns the ids of all registered articles, in no particular
// order.
func (e *Engine) ArticleIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := make([]string, 0, len(e.features))
	for id := range e.features {
		ids = append(ids, id)
	}
	return ids
}

// ArticleCount reports how many articles have registered features.
func (e *Engine) ArticleCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.features)
}

// UserCount reports how many profiles exist.
func (e *Engine) UserCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.profiles)
}

// ClearAll removes every profile, article registration, cached similarity,
// and queued behavior, and rewrites the persisted state.
func (e *Engine) ClearAll() {
	e.mu.Lock()
	e.profiles = make(map[string]*Profile)
	e.features = make(map[string]ArticleFeatures)
	e.queue = nil
	e.persistLocked()
	e.mu.Unlock()

	e.swapSimilarityCache()
	e.logger.Info().Msg("cleared all personalization state")
}

// clone returns a deep copy of a profile.
func (p *Profile) clone() Profile {
	cp := *p
	cp.Preferences.Topics = copyWeights(p.Preferences.Topics)
	cp.Preferences.Sources = copyWeights(p.Preferences.Sources)
	cp.Preferences.Sentiments = copyWeights(p.Preferences.Sentiments)
	cp.Preferences.ManualTopics = append([]string(nil), p.Preferences.ManualTopics...)
	cp.Behavior.FavoriteTopics = append([]string(nil), p.Behavior.FavoriteTopics...)
	cp.Behavior.FavoriteSources = append([]string(nil), p.Behavior.FavoriteSources...)
	cp.Behavior.LikedArticles = append([]FavoriteArticle(nil), p.Behavior.LikedArticles...)
	return cp
}

func copyWeights(m map[string]float64) map[string]float64 {
	cp := make(map[string]float64, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
