// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

package personalize

import (
	"math"
	"sort"
)

// userSimilarity combines topic and source alignment between two profiles.
// Topic taste dominates; source taste is a secondary signal.
func userSimilarity(a, b *Profile) float64 {
	topicSim := cosineSimilarity(a.Preferences.Topics, b.Preferences.Topics)
	sourceSim := cosineSimilarity(a.Preferences.Sources, b.Preferences.Sources)
	return topicSim*0.7 + sourceSim*0.3
}

// cosineSimilarity computes cosine similarity over the union of keys in
// either vector, treating absent keys as zero. Returns 0 when either
// magnitude is zero, never NaN.
func cosineSimilarity(vec1, vec2 map[string]float64) float64 {
	if len(vec1) == 0 && len(vec2) == 0 {
		return 0
	}

	var dot, mag1, mag2 float64
	for k, v1 := range vec1 {
		dot += v1 * vec2[k]
		mag1 += v1 * v1
	}
	for _, v2 := range vec2 {
		mag2 += v2 * v2
	}

	magnitude := math.Sqrt(mag1) * math.Sqrt(mag2)
	if magnitude == 0 {
		return 0
	}
	return dot / magnitude
}

// FindSimilarUsers returns the user's nearest neighbours: every other
// profile at or above the similarity threshold, descending, capped at the
// configured top-K. Results are memoized until the next batch invalidation.
//
// This is an O(users) scan per cache miss. Fine at single-process scale;
// a sharded deployment would need a proper nearest-neighbour index.
func (e *Engine) FindSimilarUsers(userID string) []UserSimilarity {
	e.simMu.RLock()
	cached, ok := e.similarities[userID]
	e.simMu.RUnlock()
	if ok {
		return append([]UserSimilarity(nil), cached...)
	}

	e.mu.Lock()
	self := e.profileLocked(userID)
	matches := make([]UserSimilarity, 0)
	for otherID, other := range e.profiles {
		if otherID == userID {
			continue
		}
		sim := userSimilarity(self, other)
		if sim >= e.config.SimilarityThreshold {
			matches = append(matches, UserSimilarity{UserID: otherID, Similarity: sim})
		}
	}
	e.mu.Unlock()

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > e.config.TopSimilarUsers {
		matches = matches[:e.config.TopSimilarUsers]
	}

	e.simMu.Lock()
	e.similarities[userID] = matches
	e.simMu.Unlock()

	return append([]UserSimilarity(nil), matches...)
}

// swapSimilarityCache invalidates the whole cache atomically.
func (e *Engine) swapSimilarityCache() {
	e.simMu.Lock()
	e.similarities = make(map[string][]UserSimilarity)
	e.simMu.Unlock()
}

// invalidateSimilarity drops one user's cached neighbours.
func (e *Engine) invalidateSimilarity(userID string) {
	e.simMu.Lock()
	delete(e.similarities, userID)
	e.simMu.Unlock()
}
