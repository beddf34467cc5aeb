// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

package personalize

import (
	"net/url"
	"strings"
)

// defaultProfileInfo returns the display fields a fresh profile starts with.
func defaultProfileInfo() ProfileInfo {
	return ProfileInfo{
		FullName:     "Reader",
		Email:        "reader@example.com",
		Title:        "Analyst",
		Organization: "NewsBot AI",
		Bio:          "Curious mind tracking geopolitics, tech, and market shifts.",
		AvatarColor:  "#3b82f6",
	}
}

// newProfile builds a default profile for a user. Sentiment weights start
// with a mild neutral prior so sentiment alignment has signal before any
// behavior arrives.
func (e *Engine) newProfile(userID string) *Profile {
	nowMs := e.now().UnixMilli()
	return &Profile{
		UserID: userID,
		Preferences: Preferences{
			Topics:  make(map[string]float64),
			Sources: make(map[string]float64),
			Sentiments: map[string]float64{
				"Neutral":  0.5,
				"Positive": 0.3,
				"Negative": 0.2,
			},
			ManualTopics: []string{},
		},
		Behavior: BehaviorStats{
			LastActive:      nowMs,
			FavoriteTopics:  []string{},
			FavoriteSources: []string{},
			LikedArticles:   []FavoriteArticle{},
		},
		ProfileInfo:  defaultProfileInfo(),
		LearningRate: e.config.LearningRate,
		CreatedAt:    nowMs,
		UpdatedAt:    nowMs,
	}
}

// profileLocked returns the live profile for a user, creating it with
// defaults on first access. Must be called with e.mu held.
func (e *Engine) profileLocked(userID string) *Profile {
	p, ok := e.profiles[userID]
	if !ok {
		p = e.newProfile(userID)
		e.profiles[userID] = p
		e.persistLocked()
	}
	return p
}

// GetProfile returns a copy of the user's profile, creating a default one
// if none exists. Unknown users are never an error.
func (e *Engine) GetProfile(userID string) Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.profileLocked(userID)
	p.Behavior.FavoriteTopics = e.favoriteTopics(p)
	return p.clone()
}

// ExportProfile returns a copy of the profile if it exists, without
// creating one as a side effect.
func (e *Engine) ExportProfile(userID string) (Profile, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.profiles[userID]
	if !ok {
		return Profile{}, false
	}
	return p.clone(), true
}

// UpdateProfileInfo applies edits to the display fields. Blank required
// fields keep their previous values; optional fields may be cleared.
// Avatar URLs must be http(s) or data:image, otherwise the previous avatar
// is kept.
func (e *Engine) UpdateProfileInfo(userID string, updates ProfileInfo) ProfileInfo {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.profileLocked(userID)
	prev := p.ProfileInfo

	next := ProfileInfo{
		FullName:     firstNonEmpty(strings.TrimSpace(updates.FullName), prev.FullName),
		Email:        firstNonEmpty(strings.TrimSpace(updates.Email), prev.Email),
		Title:        strings.TrimSpace(updates.Title),
		Organization: strings.TrimSpace(updates.Organization),
		Bio:          strings.TrimSpace(updates.Bio),
		AvatarURL:    sanitizeAvatarURL(updates.AvatarURL, prev.AvatarURL),
		AvatarColor:  firstNonEmpty(strings.TrimSpace(updates.AvatarColor), prev.AvatarColor),
	}

	p.ProfileInfo = next
	p.UpdatedAt = e.now().UnixMilli()
	e.persistLocked()
	return next
}

// sanitizeAvatarURL accepts inline data:image payloads and absolute
// http(s) URLs; anything else falls back to the previous avatar.
// An explicit blank clears the avatar.
func sanitizeAvatarURL(raw, previous string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "data:image/") {
		return trimmed
	}
	u, err := url.Parse(trimmed)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return u.String()
	}
	return previous
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// UpdateManualTopics replaces the user's pinned topics. Entries are
// trimmed, deduplicated in order, and capped at ten. The returned slice is
// the stored set.
func (e *Engine) UpdateManualTopics(userID string, topics []string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.profileLocked(userID)

	seen := make(map[string]struct{}, len(topics))
	sanitized := make([]string, 0, len(topics))
	for _, t := range topics {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		sanitized = append(sanitized, t)
		if len(sanitized) == 10 {
			break
		}
	}

	p.Preferences.ManualTopics = sanitized
	p.Behavior.FavoriteTopics = e.favoriteTopics(p)
	p.UpdatedAt = e.now().UnixMilli()
	e.persistLocked()

	return append([]string(nil), sanitized...)
}

// RemoveLikedArticle deletes one article from the user's liked history.
// Removing an article that was never liked is a no-op, not an error.
func (e *Engine) RemoveLikedArticle(userID, articleID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.profileLocked(userID)
	kept := p.Behavior.LikedArticles[:0]
	for _, fav := range p.Behavior.LikedArticles {
		if fav.Article.ID != articleID {
			kept = append(kept, fav)
		}
	}
	if len(kept) == len(p.Behavior.LikedArticles) {
		return
	}

	p.Behavior.LikedArticles = kept
	p.UpdatedAt = e.now().UnixMilli()
	e.persistLocked()
}

// ResetProfile discards the user's profile and recreates it with defaults.
// It reports whether the reset completed.
func (e *Engine) ResetProfile(userID string) bool {
	e.mu.Lock()
	delete(e.profiles, userID)
	e.profileLocked(userID)
	e.mu.Unlock()

	e.invalidateSimilarity(userID)
	e.logger.Info().Str("user_id", userID).Msg("profile reset")
	return true
}
