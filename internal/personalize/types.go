// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

package personalize

import (
	"github.com/newsbot-ai/pulse/internal/news"
)

// Action classifies a behavioral event for implicit feedback.
type Action string

const (
	// ActionView indicates the article was opened.
	ActionView Action = "view"
	// ActionLike indicates an explicit like.
	ActionLike Action = "like"
	// ActionShare indicates the article was shared.
	ActionShare Action = "share"
	// ActionBookmark indicates the article was bookmarked.
	ActionBookmark Action = "bookmark"
	// ActionReadTime reports accumulated reading duration.
	ActionReadTime Action = "read_time"
)

// Reward returns the base reward for this action type.
// Higher values indicate stronger positive signal. Unknown actions
// contribute nothing.
func (a Action) Reward() float64 {
	switch a {
	case ActionView:
		return 0.3
	case ActionLike:
		return 0.8
	case ActionShare:
		return 1.0
	case ActionBookmark:
		return 0.9
	case ActionReadTime:
		return 0.5
	default:
		return 0
	}
}

// Behavior is a single user-article interaction event. Events are
// immutable and consumed once.
type Behavior struct {
	// UserID identifies the acting user.
	UserID string `json:"user_id"`

	// ArticleID identifies the article interacted with.
	ArticleID string `json:"article_id"`

	// Action classifies the interaction.
	Action Action `json:"action"`

	// Timestamp is when the interaction occurred (unix milliseconds).
	Timestamp int64 `json:"timestamp"`

	// Duration is the reading time in seconds, when known.
	Duration float64 `json:"duration,omitempty"`

	// Topic is the article topic, when known. Empty fields skip the
	// corresponding preference update.
	Topic string `json:"topic,omitempty"`

	// Sentiment is the article sentiment, when known.
	Sentiment string `json:"sentiment,omitempty"`

	// Source is the article source, when known.
	Source string `json:"source,omitempty"`

	// Article is an optional full article snapshot, recorded with likes.
	Article *news.Article `json:"article,omitempty"`
}

// Preferences holds the learned affinity weights for one user.
// Weights grow under the EMA update and shrink under temporal decay;
// scoring clamps them into [0, 1] at read time.
type Preferences struct {
	// Topics maps topic name to learned weight.
	Topics map[string]float64 `json:"topics"`

	// Sources maps source name to learned weight.
	Sources map[string]float64 `json:"sources"`

	// Sentiments maps sentiment label to learned weight.
	Sentiments map[string]float64 `json:"sentiments"`

	// ReadingTime is the running average seconds per article.
	ReadingTime float64 `json:"reading_time"`

	// ActiveHours is an interaction-count histogram by hour of day.
	ActiveHours [24]float64 `json:"active_hours"`

	// ManualTopics are user-pinned topics. They always rank above
	// learned topics in any topic ranking.
	ManualTopics []string `json:"manual_topics"`
}

// FavoriteArticle is a liked article snapshot with its like timestamp.
type FavoriteArticle struct {
	Article news.Article `json:"article"`
	LikedAt int64        `json:"liked_at"`
}

// BehaviorStats aggregates behavioral counters for one user.
type BehaviorStats struct {
	// TotalArticlesRead counts view actions.
	TotalArticlesRead int `json:"total_articles_read"`

	// TotalTimeSpent is the accumulated reading time in seconds.
	TotalTimeSpent float64 `json:"total_time_spent"`

	// LastActive is the timestamp of the most recent event (unix ms).
	LastActive int64 `json:"last_active"`

	// EngagementRate is the derived engagement score in [0, 1].
	EngagementRate float64 `json:"engagement_rate"`

	// FavoriteTopics is the derived topic ranking: manual topics first,
	// then top learned topics, deduplicated, capped at eight.
	FavoriteTopics []string `json:"favorite_topics"`

	// FavoriteSources is the derived top-five source ranking.
	FavoriteSources []string `json:"favorite_sources"`

	// LikedArticles holds the most recent likes, newest first, deduplicated
	// by article id and capped at MaxLikedArticles.
	LikedArticles []FavoriteArticle `json:"liked_articles"`
}

// ProfileInfo holds the user-editable display fields.
type ProfileInfo struct {
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Title        string `json:"title,omitempty"`
	Organization string `json:"organization,omitempty"`
	Bio          string `json:"bio,omitempty"`
	AvatarURL    string `json:"avatar_url,omitempty"`
	AvatarColor  string `json:"avatar_color,omitempty"`
}

// Profile is the aggregate personalization record for one user.
// One profile exists per user id, created lazily on first access.
type Profile struct {
	UserID      string        `json:"user_id"`
	Preferences Preferences   `json:"preferences"`
	Behavior    BehaviorStats `json:"behavior"`
	ProfileInfo ProfileInfo   `json:"profile_info"`

	// LearningRate is the EMA step size for this profile.
	LearningRate float64 `json:"learning_rate"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// ArticleFeatures is the scoring view of an article, registered by the
// caller before requesting recommendations. The engine holds the latest
// registration per id; re-registration overwrites.
type ArticleFeatures struct {
	ID         string  `json:"id"`
	Topic      string  `json:"topic"`
	Source     string  `json:"source"`
	Sentiment  string  `json:"sentiment"`
	TrustScore string  `json:"trust_score"`
	Popularity float64 `json:"popularity"` // 0-1
	Recency    float64 `json:"recency"`    // 0-1, 1 = newest
	WordCount  int     `json:"word_count"`
	Author     string  `json:"author,omitempty"`
}

// ScoreBreakdown itemizes the signals behind a recommendation score.
type ScoreBreakdown struct {
	ContentScore       float64 `json:"content_score"`
	CollaborativeScore float64 `json:"collaborative_score"`
	RecencyBonus       float64 `json:"recency_bonus"`
	PopularityBonus    float64 `json:"popularity_bonus"`
}

// RecommendationScore is one ranked candidate with its explanation.
type RecommendationScore struct {
	ArticleID string `json:"article_id"`

	// Score is the combined recommendation score in [0, 1].
	Score float64 `json:"score"`

	// Reasons holds up to three human-readable explanations.
	Reasons []string `json:"reasons"`

	// Confidence reflects how much behavioral data backs the score.
	Confidence float64 `json:"confidence"`

	Breakdown ScoreBreakdown `json:"breakdown"`
}

// UserSimilarity pairs a neighbour with its similarity score.
// Only pairs at or above the similarity threshold are stored.
type UserSimilarity struct {
	UserID     string  `json:"user_id"`
	Similarity float64 `json:"similarity"`
}

// EngagementLevel buckets the stored engagement rate for display.
type EngagementLevel string

const (
	// EngagementLow is an engagement rate below 0.3.
	EngagementLow EngagementLevel = "low"
	// EngagementMedium is an engagement rate in [0.3, 0.7).
	EngagementMedium EngagementLevel = "medium"
	// EngagementHigh is an engagement rate of 0.7 or above.
	EngagementHigh EngagementLevel = "high"
)

// TopicInsight is one entry of the top-topics projection.
type TopicInsight struct {
	Topic  string  `json:"topic"`
	Weight float64 `json:"weight"`
	Manual bool    `json:"manual,omitempty"`
}

// SourceInsight is one entry of the top-sources projection.
type SourceInsight struct {
	Source string  `json:"source"`
	Weight float64 `json:"weight"`
}

// HourActivity is an (hour, interaction count) pair.
type HourActivity struct {
	Hour  int     `json:"hour"`
	Count float64 `json:"count"`
}

// Insights is the human-facing summary derived from a profile snapshot.
type Insights struct {
	TopTopics       []TopicInsight  `json:"top_topics"`
	TopSources      []SourceInsight `json:"top_sources"`
	AverageReadTime int             `json:"average_read_time"`
	EngagementLevel EngagementLevel `json:"engagement_level"`
	MostActiveHours []HourActivity  `json:"most_active_hours"`
	ReadingPattern  string          `json:"reading_pattern"`
	DiversityScore  float64         `json:"diversity_score"`
}
