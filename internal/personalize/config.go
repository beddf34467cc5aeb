// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

package personalize

import "fmt"

// MaxLikedArticles caps the per-user liked-article history.
const MaxLikedArticles = 50

// ScoringWeights defines the relative contribution of each scoring signal.
type ScoringWeights struct {
	// Content is the weight of the content-based score.
	Content float64 `json:"content"`

	// Collaborative is the weight of the collaborative-filtering score.
	Collaborative float64 `json:"collaborative"`

	// Recency is the weight of the article recency bonus.
	Recency float64 `json:"recency"`

	// Popularity is the weight of the article popularity bonus.
	Popularity float64 `json:"popularity"`
}

// Config contains all tunables for the personalization engine.
type Config struct {
	// LearningRate is the EMA step size applied to preference updates.
	// Default: 0.15.
	LearningRate float64 `json:"learning_rate"`

	// DecayFactor is the multiplicative shrinkage applied to topic and
	// source weights on each decay pass. Default: 0.97.
	DecayFactor float64 `json:"decay_factor"`

	// DecayFloor removes weights that fall below this value after decay.
	// Default: 0.01.
	DecayFloor float64 `json:"decay_floor"`

	// DecayProbability is the chance that a single tracked behavior
	// triggers a decay pass on that profile. Default: 0.1.
	DecayProbability float64 `json:"decay_probability"`

	// MinInteractions is the number of read articles required before
	// collaborative signals are trusted. Default: 3.
	MinInteractions int `json:"min_interactions"`

	// WarmWeights is the signal blend used once a profile has enough data.
	// Default: content 0.50, collaborative 0.35, recency 0.10, popularity 0.05.
	WarmWeights ScoringWeights `json:"warm_weights"`

	// ColdWeights is the blend used before MinInteractions is reached.
	// The collaborative signal is excluded entirely on this path, not
	// merely zero-weighted. Default: content 0.70, recency 0.15,
	// popularity 0.15.
	ColdWeights ScoringWeights `json:"cold_weights"`

	// SimilarityThreshold is the minimum pairwise similarity kept in the
	// similarity index. Default: 0.3.
	SimilarityThreshold float64 `json:"similarity_threshold"`

	// TopSimilarUsers caps the neighbour list per user. Default: 10.
	TopSimilarUsers int `json:"top_similar_users"`

	// BatchSize is the queued-behavior count that triggers a batch step.
	// The batch step invalidates the entire similarity cache; this is the
	// only invalidation path. Default: 20.
	BatchSize int `json:"batch_size"`

	// ReadingBoostCapSeconds is the duration at which the reading-time
	// reward boost saturates. Default: 180.
	ReadingBoostCapSeconds float64 `json:"reading_boost_cap_seconds"`

	// ExpectedReadSeconds is the reading-time baseline for the engagement
	// rate. Default: 120.
	ExpectedReadSeconds float64 `json:"expected_read_seconds"`
}

// DefaultConfig returns a Config matching production behavior.
func DefaultConfig() *Config {
	return &Config{
		LearningRate:     0.15,
		DecayFactor:      0.97,
		DecayFloor:       0.01,
		DecayProbability: 0.1,
		MinInteractions:  3,
		WarmWeights: ScoringWeights{
			Content:       0.50,
			Collaborative: 0.35,
			Recency:       0.10,
			Popularity:    0.05,
		},
		ColdWeights: ScoringWeights{
			Content:    0.70,
			Recency:    0.15,
			Popularity: 0.15,
		},
		SimilarityThreshold:    0.3,
		TopSimilarUsers:        10,
		BatchSize:              20,
		ReadingBoostCapSeconds: 180,
		ExpectedReadSeconds:    120,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.LearningRate <= 0 || c.LearningRate > 1 {
		return fmt.Errorf("learning_rate must be in (0, 1], got %f", c.LearningRate)
	}
	if c.DecayFactor <= 0 || c.DecayFactor > 1 {
		return fmt.Errorf("decay_factor must be in (0, 1], got %f", c.DecayFactor)
	}
	if c.DecayFloor < 0 {
		return fmt.Errorf("decay_floor must be non-negative, got %f", c.DecayFloor)
	}
	if c.DecayProbability < 0 || c.DecayProbability > 1 {
		return fmt.Errorf("decay_probability must be in [0, 1], got %f", c.DecayProbability)
	}
	if c.MinInteractions < 0 {
		return fmt.Errorf("min_interactions must be non-negative, got %d", c.MinInteractions)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold must be in [0, 1], got %f", c.SimilarityThreshold)
	}
	if c.TopSimilarUsers < 1 {
		return fmt.Errorf("top_similar_users must be positive, got %d", c.TopSimilarUsers)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	if c.ReadingBoostCapSeconds <= 0 {
		return fmt.Errorf("reading_boost_cap_seconds must be positive, got %f", c.ReadingBoostCapSeconds)
	}
	if c.ExpectedReadSeconds <= 0 {
		return fmt.Errorf("expected_read_seconds must be positive, got %f", c.ExpectedReadSeconds)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	// All fields are value types
	cp := *c
	return &cp
}
