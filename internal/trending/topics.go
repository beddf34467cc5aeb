// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

package trending

import (
	"math"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/newsbot-ai/pulse/internal/news"
)

const (
	// scoreThreshold filters out topics too quiet to surface.
	scoreThreshold = 5
	// similarityThreshold marks two topic names as near-duplicates.
	similarityThreshold = 0.72
	// maxSimilarPerCluster caps near-duplicate topics in the final list.
	maxSimilarPerCluster = 2

	defaultEngagement = 5
)

// topicKeywords backs keyword inference for articles whose stated topic is
// missing or the generic "Global". First match count wins.
var topicKeywords = map[string][]string{
	"Geopolitics": {"geopolitic", "diplom", "election", "war", "conflict", "nato", "policy", "government", "summit"},
	"Economics":   {"economy", "finance", "market", "inflation", "gdp", "trade", "business", "bank", "stocks", "rate"},
	"Space":       {"space", "nasa", "astronaut", "satellite", "lunar", "mars", "rocket", "galaxy", "orbit"},
	"Health":      {"health", "medical", "virus", "disease", "biotech", "vaccine", "wellness", "hospital", "covid"},
	"Arts":        {"art", "culture", "music", "film", "museum", "design", "theatre", "fashion", "exhibit"},
	"Technology":  {"technology", "tech", "software", "hardware", "startup", "gadget", "robot", "ai", "artificial intelligence"},
	"Energy":      {"energy", "climate", "emissions", "carbon", "renewable", "solar", "wind", "hydrogen", "battery"},
	"Sports":      {"sport", "league", "tournament", "championship", "season", "match"},
	"Science":     {"science", "research", "laboratory", "experiment", "study", "scientist"},
}

// TopicSnapshot records one topic's state at a point in time, for growth
// comparison against the next batch.
type TopicSnapshot struct {
	Count           int     `json:"count"`
	TotalEngagement float64 `json:"total_engagement"`
	LastUpdated     int64   `json:"last_updated"`
}

// TopicScore is one topic's computed trending metrics.
type TopicScore struct {
	Name              string  `json:"name"`
	Count             int     `json:"count"`
	GrowthRate        float64 `json:"growth_rate"`
	AverageEngagement float64 `json:"average_engagement"`
	Score             float64 `json:"score"`
}

// TopicView is a ranked topic ready for display.
type TopicView struct {
	TopicScore
	Rank     int    `json:"rank"`
	ImageURL string `json:"image_url"`
}

// InferTopic resolves an article's effective topic. A concrete stated topic
// wins; otherwise the article text is scanned for keyword hits and the topic
// with the most hits is chosen. With no hits the stated topic is kept, or
// "Global" when there is none.
func InferTopic(article news.Article) string {
	stated := strings.TrimSpace(article.Topic)
	if stated != "" && !strings.EqualFold(stated, "Global") {
		return stated
	}

	if inferred := inferFromText(article); inferred != "" {
		return inferred
	}

	if stated != "" {
		return stated
	}
	return "Global"
}

func inferFromText(article news.Article) string {
	parts := []string{
		article.Topic,
		article.Headline,
		strings.Join(article.SummaryBullets, " "),
		article.Summary,
		article.FullText,
	}
	haystack := strings.ToLower(strings.Join(parts, " "))

	bestTopic := ""
	bestScore := 0
	// Deterministic iteration: sorted topic names break hit-count ties.
	names := make([]string, 0, len(topicKeywords))
	for name := range topicKeywords {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		hits := 0
		for _, keyword := range topicKeywords[name] {
			if strings.Contains(haystack, keyword) {
				hits++
			}
		}
		if hits > bestScore {
			bestScore = hits
			bestTopic = name
		}
	}
	return bestTopic
}

// EstimateEngagement approximates engagement from summary length when the
// article carries no measured engagement. The result is on a 0-100 scale.
func EstimateEngagement(article news.Article) float64 {
	if article.Engagement > 0 {
		return article.Engagement
	}
	scaled := math.Max(defaultEngagement, math.Round(float64(len(article.Summary))/40))
	return math.Min(100, scaled)
}

// BuildTopicScores groups a batch of articles by effective topic and scores
// each topic on volume, growth since the previous snapshot, and engagement.
// Topics absent from the snapshot are treated as 24 hours old.
func BuildTopicScores(articles []news.Article, previous map[string]TopicSnapshot, now time.Time) []TopicScore {
	if len(articles) == 0 {
		return nil
	}

	grouped := make(map[string][]news.Article)
	order := make([]string, 0)
	for _, a := range articles {
		topic := InferTopic(a)
		if _, seen := grouped[topic]; !seen {
			order = append(order, topic)
		}
		grouped[topic] = append(grouped[topic], a)
	}

	nowMs := now.UnixMilli()
	scores := make([]TopicScore, 0, len(order))
	for _, topic := range order {
		items := grouped[topic]
		count := len(items)

		var totalEngagement float64
		for _, a := range items {
			totalEngagement += EstimateEngagement(a)
		}
		averageEngagement := totalEngagement / math.Max(float64(count), 1)

		prev, hasPrev := previous[topic]
		prevCount := prev.Count
		hoursElapsed := 24.0
		if hasPrev {
			hoursElapsed = math.Max(float64(nowMs-prev.LastUpdated)/float64(time.Hour.Milliseconds()), 1)
		}
		growthRate := (float64(count-prevCount) / math.Max(float64(prevCount), 1)) * (24 / hoursElapsed)

		scores = append(scores, TopicScore{
			Name:              topic,
			Count:             count,
			GrowthRate:        growthRate,
			AverageEngagement: averageEngagement,
			Score:             float64(count)*0.5 + growthRate*0.3 + averageEngagement*0.2,
		})
	}
	return scores
}

// SelectTopTopics filters, orders, and dedupes topic scores into the final
// ranked list of at most nine. Near-duplicate names (Dice similarity at or
// above the threshold) are limited to two per cluster.
func SelectTopTopics(scores []TopicScore, imageByTopic map[string]string, fallbackImage string) []TopicView {
	filtered := make([]TopicScore, 0, len(scores))
	for _, s := range scores {
		if s.Score >= scoreThreshold {
			filtered = append(filtered, s)
		}
	}
	if len(filtered) == 0 {
		return nil
	}

	orderTopicScores(filtered)

	dice := metrics.NewSorensenDice()
	curated := make([]TopicView, 0, 9)
	for _, candidate := range filtered {
		similar := 0
		for _, existing := range curated {
			if strutil.Similarity(existing.Name, candidate.Name, dice) >= similarityThreshold {
				similar++
			}
		}
		if similar >= maxSimilarPerCluster {
			continue
		}

		image, ok := imageByTopic[candidate.Name]
		if !ok {
			image = BuildImageURL(candidate.Name, fallbackImage)
		}
		curated = append(curated, TopicView{
			TopicScore: candidate,
			Rank:       len(curated) + 1,
			ImageURL:   image,
		})
		if len(curated) == 9 {
			break
		}
	}
	return curated
}

// orderTopicScores sorts by score, then growth, then count, all descending.
func orderTopicScores(scores []TopicScore) {
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		if scores[i].GrowthRate != scores[j].GrowthRate {
			return scores[i].GrowthRate > scores[j].GrowthRate
		}
		return scores[i].Count > scores[j].Count
	})
}

// BuildImageURL produces a topic header image URL. A fallback containing the
// "{topic}" placeholder gets the slug substituted; otherwise the fallback is
// used as-is, with a deterministic placeholder image as a last resort.
func BuildImageURL(topic, fallback string) string {
	if topic == "" {
		if fallback != "" {
			return fallback
		}
		return "https://picsum.photos/seed/newsbot/480/320"
	}

	slug := url.QueryEscape(strings.ToLower(topic))
	if slug == "" {
		slug = "newsbot"
	}
	if strings.Contains(fallback, "{topic}") {
		return strings.ReplaceAll(fallback, "{topic}", slug)
	}
	if fallback != "" {
		return fallback
	}
	return "https://picsum.photos/seed/" + slug + "/480/320"
}

// BuildSnapshot condenses scores into the snapshot the next batch compares
// against.
func BuildSnapshot(scores []TopicScore, now time.Time) map[string]TopicSnapshot {
	ts := now.UnixMilli()
	snapshot := make(map[string]TopicSnapshot, len(scores))
	for _, s := range scores {
		snapshot[s.Name] = TopicSnapshot{
			Count:           s.Count,
			TotalEngagement: s.AverageEngagement * float64(s.Count),
			LastUpdated:     ts,
		}
	}
	return snapshot
}

// SortArticlesByRecency returns the newest articles first, capped at limit.
// Unparseable dates sort as now. The input slice is not modified.
func SortArticlesByRecency(articles []news.Article, limit int, now time.Time) []news.Article {
	if limit <= 0 {
		limit = 6
	}

	sorted := append([]news.Article(nil), articles...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt(now).After(sorted[j].PublishedAt(now))
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// MergeWithFallbackTopics tops up a thin trending list from a fallback set.
// Fallbacks are only consulted when fewer than minimum topics survived, the
// merged list is re-ranked, and limit is never exceeded.
func MergeWithFallbackTopics(topics, fallback []TopicView, limit, minimum int) []TopicView {
	if limit <= 0 {
		limit = 9
	}
	if minimum <= 0 {
		minimum = 5
	}

	seen := make(map[string]struct{}, len(topics))
	merged := make([]TopicView, 0, limit)
	for _, t := range topics {
		if _, dup := seen[t.Name]; dup {
			continue
		}
		seen[t.Name] = struct{}{}
		merged = append(merged, t)
	}

	if len(merged) < minimum {
		for _, t := range fallback {
			if len(merged) >= limit {
				break
			}
			if _, dup := seen[t.Name]; dup {
				continue
			}
			seen[t.Name] = struct{}{}
			merged = append(merged, t)
		}
	}

	if len(merged) > limit {
		merged = merged[:limit]
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		if merged[i].GrowthRate != merged[j].GrowthRate {
			return merged[i].GrowthRate > merged[j].GrowthRate
		}
		return merged[i].Count > merged[j].Count
	})
	for i := range merged {
		merged[i].Rank = i + 1
	}
	return merged
}
