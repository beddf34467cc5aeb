// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

package personalize

import (
	"fmt"
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b map[string]float64
		want float64
	}{
		{
			name: "identical vectors",
			a:    map[string]float64{"x": 0.5, "y": 0.3},
			b:    map[string]float64{"x": 0.5, "y": 0.3},
			want: 1,
		},
		{
			name: "orthogonal vectors",
			a:    map[string]float64{"x": 1},
			b:    map[string]float64{"y": 1},
			want: 0,
		},
		{
			name: "both empty",
			a:    map[string]float64{},
			b:    map[string]float64{},
			want: 0,
		},
		{
			name: "one empty",
			a:    map[string]float64{"x": 1},
			b:    map[string]float64{},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if math.IsNaN(got) {
				t.Fatalf("cosineSimilarity() = NaN")
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("cosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineSimilarityBounds(t *testing.T) {
	a := map[string]float64{"x": 0.9, "y": 0.1, "z": 0.4}
	b := map[string]float64{"x": 0.2, "y": 0.8, "w": 0.5}
	got := cosineSimilarity(a, b)
	if got < 0 || got > 1 {
		t.Errorf("cosineSimilarity() = %v, out of [0, 1]", got)
	}
}

func TestFindSimilarUsersThresholdAndOrder(t *testing.T) {
	e := newTestEngine(t, nil)

	// twin shares alice's taste; stranger does not overlap at all.
	for i := 0; i < 10; i++ {
		e.TrackBehavior(behaviorAt("alice", ActionLike, "Technology", 9))
		e.TrackBehavior(behaviorAt("twin", ActionLike, "Technology", 9))
		e.TrackBehavior(behaviorAt("stranger", ActionLike, "Arts", 9))
	}

	similar := e.FindSimilarUsers("alice")
	if len(similar) != 1 {
		t.Fatalf("FindSimilarUsers() = %v, want exactly the twin", similar)
	}
	if similar[0].UserID != "twin" {
		t.Errorf("neighbour = %q, want twin", similar[0].UserID)
	}
	if similar[0].Similarity < e.config.SimilarityThreshold {
		t.Errorf("similarity %v below threshold", similar[0].Similarity)
	}
}

func TestFindSimilarUsersCapped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DecayProbability = 0
	cfg.TopSimilarUsers = 3
	e := newTestEngine(t, cfg)

	for i := 0; i < 6; i++ {
		user := fmt.Sprintf("user-%d", i)
		e.TrackBehavior(behaviorAt(user, ActionLike, "Technology", 9))
	}

	similar := e.FindSimilarUsers("user-0")
	if len(similar) > 3 {
		t.Errorf("len(similar) = %d, want <= 3", len(similar))
	}
	for i := 1; i < len(similar); i++ {
		if similar[i].Similarity > similar[i-1].Similarity {
			t.Errorf("similarities not descending at index %d", i)
		}
	}
}

func TestSimilarityCacheInvalidatedByBatch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DecayProbability = 0
	cfg.BatchSize = 2
	e := newTestEngine(t, cfg)

	e.TrackBehavior(behaviorAt("alice", ActionLike, "Technology", 9))
	if got := e.FindSimilarUsers("alice"); len(got) != 0 {
		t.Fatalf("unexpected neighbours %v", got)
	}

	// The second event fills the batch, flushing and invalidating the
	// cache, so the new twin becomes visible.
	e.TrackBehavior(behaviorAt("twin", ActionLike, "Technology", 9))
	e.TrackBehavior(behaviorAt("twin", ActionLike, "Technology", 9))

	similar := e.FindSimilarUsers("alice")
	if len(similar) != 1 || similar[0].UserID != "twin" {
		t.Errorf("FindSimilarUsers() after batch = %v, want the twin", similar)
	}
}

func TestFindSimilarUsersReturnsCopy(t *testing.T) {
	e := newTestEngine(t, nil)
	for i := 0; i < 5; i++ {
		e.TrackBehavior(behaviorAt("alice", ActionLike, "Technology", 9))
		e.TrackBehavior(behaviorAt("twin", ActionLike, "Technology", 9))
	}

	first := e.FindSimilarUsers("alice")
	if len(first) == 0 {
		t.Fatal("expected at least one neighbour")
	}
	first[0].UserID = "mutated"

	second := e.FindSimilarUsers("alice")
	if second[0].UserID == "mutated" {
		t.Error("caller mutation leaked into the cache")
	}
}
