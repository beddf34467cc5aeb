// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

package store

import (
	"context"
	"sync"

	"github.com/newsbot-ai/pulse/internal/personalize"
)

// MemoryRepository keeps engine state in process memory. State does not
// survive a restart.
type MemoryRepository struct {
	mu       sync.Mutex
	profiles map[string]*personalize.Profile
	features map[string]personalize.ArticleFeatures
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Load returns the last saved state, or empty maps if nothing was saved.
func (r *MemoryRepository) Load(ctx context.Context) (map[string]*personalize.Profile, map[string]personalize.ArticleFeatures, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	profiles := make(map[string]*personalize.Profile, len(r.profiles))
	for id, p := range r.profiles {
		profiles[id] = p
	}
	features := make(map[string]personalize.ArticleFeatures, len(r.features))
	for id, f := range r.features {
		features[id] = f
	}
	return profiles, features, nil
}

// SaveAll replaces the stored state.
func (r *MemoryRepository) SaveAll(ctx context.Context, profiles map[string]*personalize.Profile, features map[string]personalize.ArticleFeatures) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles = profiles
	r.features = features
	return nil
}
