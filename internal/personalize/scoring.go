// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

package personalize

import (
	"fmt"
	"sort"
)

// DefaultRecommendationLimit is used when the caller passes a non-positive
// limit.
const DefaultRecommendationLimit = 10

// trustGrades maps publisher trust grades onto [0.2, 1.0].
// Unknown grades score a neutral 0.5.
var trustGrades = map[string]float64{
	"A+": 1.0, "A": 0.9, "A-": 0.8,
	"B+": 0.7, "B": 0.6, "B-": 0.5,
	"C+": 0.4, "C": 0.3, "C-": 0.2,
}

func trustBonus(grade string) float64 {
	if v, ok := trustGrades[grade]; ok {
		return v
	}
	return 0.5
}

// Recommendations scores and ranks candidate articles for a user.
//
// Candidates with no registered features score zero with the reason
// "Article not found" rather than being dropped; callers filter if that is
// undesired. Profiles with fewer than the configured minimum of read
// articles use the cold-start blend, which excludes the collaborative
// signal entirely.
func (e *Engine) Recommendations(userID string, candidateIDs []string, limit int) []RecommendationScore {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	e.mu.Lock()
	profile := e.profileLocked(userID).clone()
	features := make(map[string]ArticleFeatures, len(candidateIDs))
	for _, id := range candidateIDs {
		if f, ok := e.features[id]; ok {
			features[id] = f
		}
	}
	e.mu.Unlock()

	hasEnoughData := profile.Behavior.TotalArticlesRead >= e.config.MinInteractions

	var neighbours []neighbourTopics
	if hasEnoughData {
		neighbours = e.neighbourTopicWeights(userID)
	}

	scores := make([]RecommendationScore, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		article, ok := features[id]
		if !ok {
			scores = append(scores, RecommendationScore{
				ArticleID: id,
				Reasons:   []string{"Article not found"},
			})
			continue
		}

		content := contentScore(&profile, article)
		collab := 0.0
		if hasEnoughData {
			collab = collaborativeScore(neighbours, article.Topic)
		}

		var final float64
		if hasEnoughData {
			w := e.config.WarmWeights
			final = content*w.Content +
				collab*w.Collaborative +
				article.Recency*w.Recency +
				article.Popularity*w.Popularity
		} else {
			w := e.config.ColdWeights
			final = content*w.Content +
				article.Recency*w.Recency +
				article.Popularity*w.Popularity
		}

		confidence := 0.55
		if hasEnoughData {
			confidence = 0.85
		}

		scores = append(scores, RecommendationScore{
			ArticleID:  id,
			Score:      final,
			Reasons:    buildReasons(&profile, article, collab),
			Confidence: confidence,
			Breakdown: ScoreBreakdown{
				ContentScore:       content,
				CollaborativeScore: collab,
				RecencyBonus:       article.Recency,
				PopularityBonus:    article.Popularity,
			},
		})
	}

	// Stable: ties keep candidate order.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	if len(scores) > limit {
		scores = scores[:limit]
	}
	return scores
}

// contentScore blends topic, source, sentiment, and trust alignment.
// Absent topic and source weights default to zero; absent sentiment weight
// defaults to the neutral prior 0.5.
func contentScore(p *Profile, article ArticleFeatures) float64 {
	score := p.Preferences.Topics[article.Topic] * 0.4
	score += p.Preferences.Sources[article.Source] * 0.25

	sentimentWeight, ok := p.Preferences.Sentiments[article.Sentiment]
	if !ok {
		sentimentWeight = 0.5
	}
	score += sentimentWeight * 0.2

	score += trustBonus(article.TrustScore) * 0.15

	return clamp01(score)
}

// neighbourTopics is a snapshot of one similar user's topic weights.
type neighbourTopics struct {
	similarity float64
	topics     map[string]float64
}

// neighbourTopicWeights snapshots the topic vectors of the user's similar
// users so collaborative scoring works on consistent state.
func (e *Engine) neighbourTopicWeights(userID string) []neighbourTopics {
	similar := e.FindSimilarUsers(userID)
	if len(similar) == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]neighbourTopics, 0, len(similar))
	for _, s := range similar {
		p, ok := e.profiles[s.UserID]
		if !ok {
			continue
		}
		out = append(out, neighbourTopics{
			similarity: s.Similarity,
			topics:     copyWeights(p.Preferences.Topics),
		})
	}
	return out
}

// collaborativeScore is the similarity-weighted mean of the neighbours'
// weight for the article's topic. Zero when there are no neighbours.
func collaborativeScore(neighbours []neighbourTopics, topic string) float64 {
	if len(neighbours) == 0 {
		return 0
	}

	var weightedSum, totalWeight float64
	for _, n := range neighbours {
		weightedSum += n.similarity * n.topics[topic]
		totalWeight += n.similarity
	}
	if totalWeight == 0 {
		return 0
	}
	return weightedSum / totalWeight
}

// buildReasons produces up to three explanations, strongest rule first.
func buildReasons(p *Profile, article ArticleFeatures, collaborativeScore float64) []string {
	reasons := make([]string, 0, 3)

	topicWeight := p.Preferences.Topics[article.Topic]
	switch {
	case topicWeight > 0.6:
		reasons = append(reasons, fmt.Sprintf("You frequently read %s articles", article.Topic))
	case topicWeight > 0.3:
		reasons = append(reasons, fmt.Sprintf("Related to your interest in %s", article.Topic))
	}

	if p.Preferences.Sources[article.Source] > 0.5 {
		reasons = append(reasons, fmt.Sprintf("From %s, a source you trust", article.Source))
	}

	if collaborativeScore > 0.5 {
		reasons = append(reasons, "Popular with readers like you")
	}

	if trustBonus(article.TrustScore) > 0.8 {
		reasons = append(reasons, "High trust score")
	}

	if article.Recency > 0.8 {
		reasons = append(reasons, "Breaking news")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Recommended for you")
	}
	if len(reasons) > 3 {
		reasons = reasons[:3]
	}
	return reasons
}
