// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

package personalize

import (
	"math"
	"sort"
	"time"
)

// TrackBehavior is the single mutation entry point for behavioral events.
// It applies the online-learning update to the user's profile, queues the
// event for batch bookkeeping, and writes the state through to the
// repository. Unknown users get a default profile transparently.
func (e *Engine) TrackBehavior(b Behavior) {
	e.mu.Lock()
	e.updateProfileOnline(b)
	e.queue = append(e.queue, b)
	ready := len(e.queue) >= e.config.BatchSize
	e.mu.Unlock()

	if ready {
		e.FlushQueue()
	}
}

// updateProfileOnline applies one event to the profile.
// Must be called with e.mu held.
func (e *Engine) updateProfileOnline(b Behavior) {
	p := e.profileLocked(b.UserID)
	reward := e.reward(b)

	// EMA updates; missing fields skip their update entirely.
	if b.Topic != "" {
		w := p.Preferences.Topics[b.Topic]
		p.Preferences.Topics[b.Topic] = w + p.LearningRate*(reward-w)
	}
	if b.Source != "" {
		w := p.Preferences.Sources[b.Source]
		p.Preferences.Sources[b.Source] = w + p.LearningRate*(reward-w)
	}
	if b.Sentiment != "" {
		w := p.Preferences.Sentiments[b.Sentiment]
		p.Preferences.Sentiments[b.Sentiment] = w + p.LearningRate*(reward-w)
	}

	if b.Action == ActionView {
		p.Behavior.TotalArticlesRead++
	}

	if b.Duration > 0 {
		p.Behavior.TotalTimeSpent += b.Duration
		p.Preferences.ReadingTime = p.Behavior.TotalTimeSpent /
			math.Max(1, float64(p.Behavior.TotalArticlesRead))
	}

	if b.Action == ActionLike && b.Article != nil {
		addLikedArticle(p, FavoriteArticle{Article: *b.Article, LikedAt: b.Timestamp})
	}

	hour := time.UnixMilli(b.Timestamp).Hour()
	p.Preferences.ActiveHours[hour]++

	p.Behavior.EngagementRate = e.engagementRate(p)
	p.Behavior.FavoriteTopics = e.favoriteTopics(p)
	p.Behavior.FavoriteSources = topWeighted(p.Preferences.Sources, 5)

	p.Behavior.LastActive = b.Timestamp
	p.UpdatedAt = e.now().UnixMilli()

	if e.rollDecay() {
		e.decayProfile(p)
	}

	e.persistLocked()
}

// reward maps an event to a scalar reward in [0, 1]: the action's base
// weight, boosted by reading time up to a saturation cap.
func (e *Engine) reward(b Behavior) float64 {
	reward := b.Action.Reward()
	if b.Duration > 0 {
		boost := math.Min(b.Duration/e.config.ReadingBoostCapSeconds, 1.5)
		reward *= boost
	}
	return clamp01(reward)
}

// engagementRate scores engagement from reading time against a baseline,
// plus a diversity bonus for breadth of topics.
//
// The diversity bonus counts all-time distinct topics; topic weights decay
// but the topic keys only disappear once their weight drops below the decay
// floor, so engagement can lag behind a shift in interest. Intentionally
// kept: the tier display favors stability over responsiveness.
func (e *Engine) engagementRate(p *Profile) float64 {
	if p.Behavior.TotalArticlesRead == 0 {
		return 0
	}

	timeEngagement := math.Min(p.Preferences.ReadingTime/e.config.ExpectedReadSeconds, 1)
	diversityBonus := math.Min(float64(len(p.Preferences.Topics))/10, 0.3)

	return math.Min(timeEngagement*0.7+diversityBonus, 1)
}

// addLikedArticle upserts a like: an existing entry for the same article is
// removed, the new entry is prepended, and the list is truncated to the cap.
func addLikedArticle(p *Profile, entry FavoriteArticle) {
	liked := make([]FavoriteArticle, 0, len(p.Behavior.LikedArticles)+1)
	liked = append(liked, entry)
	for _, fav := range p.Behavior.LikedArticles {
		if fav.Article.ID != entry.Article.ID {
			liked = append(liked, fav)
		}
	}
	if len(liked) > MaxLikedArticles {
		liked = liked[:MaxLikedArticles]
	}
	p.Behavior.LikedArticles = liked
}

// rollDecay decides whether this event triggers a decay pass.
func (e *Engine) rollDecay() bool {
	if e.config.DecayProbability <= 0 {
		return false
	}
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Float64() < e.config.DecayProbability
}

// decayProfile shrinks every topic and source weight and drops entries that
// fall below the floor.
func (e *Engine) decayProfile(p *Profile) {
	decayWeights(p.Preferences.Topics, e.config.DecayFactor, e.config.DecayFloor)
	decayWeights(p.Preferences.Sources, e.config.DecayFactor, e.config.DecayFloor)
}

func decayWeights(m map[string]float64, factor, floor float64) {
	for k, v := range m {
		v *= factor
		if v < floor {
			delete(m, k)
			continue
		}
		m[k] = v
	}
}

// favoriteTopics merges manual topics (always first) with the top learned
// topics, deduplicated and capped at eight.
func (e *Engine) favoriteTopics(p *Profile) []string {
	merged := make([]string, 0, 8)
	seen := make(map[string]struct{})

	for _, t := range p.Preferences.ManualTopics {
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		merged = append(merged, t)
	}

	for _, t := range topWeighted(p.Preferences.Topics, 5) {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		merged = append(merged, t)
	}

	if len(merged) > 8 {
		merged = merged[:8]
	}
	return merged
}

// topWeighted returns the n highest-weighted keys, descending.
func topWeighted(m map[string]float64, n int) []string {
	type kv struct {
		key    string
		weight float64
	}
	entries := make([]kv, 0, len(m))
	for k, v := range m {
		entries = append(entries, kv{k, v})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].weight != entries[j].weight {
			return entries[i].weight > entries[j].weight
		}
		return entries[i].key < entries[j].key
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.key
	}
	return keys
}

// FlushQueue runs the batch step: the queued events are discarded and the
// entire similarity cache is invalidated. This is the only path that
// invalidates cached similarities. The host scheduler also calls this on a
// fixed cadence so a quiet queue still flushes eventually.
func (e *Engine) FlushQueue() {
	e.mu.Lock()
	n := len(e.queue)
	e.queue = nil
	e.mu.Unlock()

	if n == 0 {
		return
	}

	e.swapSimilarityCache()
	e.logger.Debug().Int("events", n).Msg("processed behavior batch")
}

// QueueLen reports the number of events awaiting the next batch step.
func (e *Engine) QueueLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// DecayAll applies temporal decay to every profile. The host scheduler
// calls this on a slow cadence (hours); losing a tick only delays decay.
func (e *Engine) DecayAll() {
	e.mu.Lock()
	for _, p := range e.profiles {
		e.decayProfile(p)
	}
	e.persistLocked()
	n := len(e.profiles)
	e.mu.Unlock()

	e.logger.Debug().Int("profiles", n).Msg("applied temporal decay to all profiles")
}
