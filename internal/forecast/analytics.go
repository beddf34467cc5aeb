// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

package forecast

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/newsbot-ai/pulse/internal/news"
)

const (
	// lambdaDecay controls how fast old coverage stops counting toward
	// historical relevance.
	lambdaDecay = 0.55

	// engagementAlpha is the EMA smoothing factor for per-article engagement.
	engagementAlpha = 0.55

	maxPredictionTopics = 5

	relevanceWindowDays = 7
	growthWindowDays    = 5
)

// Metrics is the computed signal set for one event.
type Metrics struct {
	// HistoricalRelevance is a 5-100 index of decayed coverage volume.
	HistoricalRelevance float64 `json:"historical_relevance"`

	// GrowthRate is the normalized coverage trend in [0, 2]; 0.5 is flat.
	GrowthRate float64 `json:"growth_rate"`

	// SentimentVolatility is the 0-100 spread of coverage sentiment.
	SentimentVolatility float64 `json:"sentiment_volatility"`

	// EngagementEMA is the 5-100 smoothed engagement estimate.
	EngagementEMA float64 `json:"engagement_ema"`

	// PredictionScore is the 10-100 blend of the four signals.
	PredictionScore float64 `json:"prediction_score"`
}

// ScenarioModifiers stress a baseline forecast. The zero value is not
// meaningful; start from DefaultScenarioModifiers.
type ScenarioModifiers struct {
	Description      string  `json:"description"`
	GrowthMultiplier float64 `json:"growth_multiplier"`
	SentimentShift   float64 `json:"sentiment_shift"`
	VolumeMultiplier float64 `json:"volume_multiplier"`
	EngagementShift  float64 `json:"engagement_shift"`
}

// DefaultScenarioModifiers is the no-op baseline scenario.
func DefaultScenarioModifiers() ScenarioModifiers {
	return ScenarioModifiers{
		Description:      "Baseline conditions",
		GrowthMultiplier: 1,
		SentimentShift:   0,
		VolumeMultiplier: 1,
		EngagementShift:  0,
	}
}

// TopicPrediction projects one topic's expected coverage volume.
type TopicPrediction struct {
	Topic          string   `json:"topic"`
	PredictedCount float64  `json:"predicted_count"`
	Confidence     float64  `json:"confidence"`
	Drivers        []string `json:"drivers"`
}

// EventAnalytics is the full forecast result for one event.
type EventAnalytics struct {
	Metrics        Metrics           `json:"metrics"`
	Predictions    []TopicPrediction `json:"predictions"`
	DriverInsights []string          `json:"driver_insights"`
	Warnings       []string          `json:"warnings"`
}

// BuildEventAnalytics computes the scenario-adjusted forecast for a set of
// coverage articles. The baseline metrics are derived from the articles,
// the scenario is applied on top, and topic predictions come from the
// adjusted metrics.
func BuildEventAnalytics(articles []news.Article, modifiers ScenarioModifiers, now time.Time) EventAnalytics {
	baseline := Metrics{
		HistoricalRelevance: historicalRelevance(articles, now),
		GrowthRate:          growthRate(articles, now),
		SentimentVolatility: sentimentVolatility(articles),
		EngagementEMA:       engagementEMA(articles, now),
	}
	baseline.PredictionScore = predictionScore(baseline)

	adjusted := applyScenario(baseline, modifiers)
	predictions := predictTopics(articles, adjusted, modifiers)

	warnings := make([]string, 0, 2)
	if len(articles) < 3 {
		warnings = append(warnings, "Limited signal coverage — predictions carry higher uncertainty.")
	}
	if adjusted.SentimentVolatility > 60 {
		warnings = append(warnings, "High sentiment volatility detected. Monitor for rapid pivots.")
	}

	return EventAnalytics{
		Metrics:        adjusted,
		Predictions:    predictions,
		DriverInsights: driverInsights(adjusted, modifiers, predictions),
		Warnings:       warnings,
	}
}

// clampScore bounds a value, mapping NaN and infinities to the lower bound.
func clampScore(v, min, max float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return min
	}
	return math.Min(max, math.Max(min, v))
}

// dailyCounts buckets recent articles by calendar day. Articles with
// unparseable dates or outside the window are skipped.
func dailyCounts(articles []news.Article, windowDays int, now time.Time) map[int64]int {
	floor := now.Add(-time.Duration(windowDays) * 24 * time.Hour)
	counts := make(map[int64]int)

	for i := range articles {
		ts, ok := articles[i].ParseDate()
		if !ok || ts.Before(floor) {
			continue
		}
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location()).UnixMilli()
		counts[day]++
	}
	return counts
}

// historicalRelevance scores recent coverage with exponential day decay,
// normalized against the number of active days.
func historicalRelevance(articles []news.Article, now time.Time) float64 {
	counts := dailyCounts(articles, relevanceWindowDays, now)
	if len(counts) == 0 {
		return 0
	}

	nowMs := now.UnixMilli()
	var weightedSum, normalization float64
	for day, count := range counts {
		daysAgo := math.Max(0, float64(nowMs-day)/float64(24*time.Hour.Milliseconds()))
		weight := math.Exp(-lambdaDecay * daysAgo)
		weightedSum += float64(count) * weight
		normalization += weight
	}

	baseline := float64(len(counts))
	relevance := (weightedSum / math.Max(normalization, 1)) * 100 / math.Max(baseline, 1)
	return clampScore(relevance, 5, 100)
}

// growthRate fits a least-squares line through the per-day counts and maps
// the normalized slope into [0, 1], where 0.5 is flat coverage. Fewer than
// two active days yield 0.
func growthRate(articles []news.Article, now time.Time) float64 {
	counts := dailyCounts(articles, growthWindowDays, now)
	if len(counts) == 0 {
		return 0
	}

	days := make([]int64, 0, len(counts))
	for day := range counts {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	n := float64(len(days))
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumX2 float64
	for idx, day := range days {
		x := float64(idx)
		y := float64(counts[day])
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	denominator := n*sumX2 - sumX*sumX
	if denominator == 0 {
		return 0
	}
	slope := (n*sumXY - sumX*sumY) / denominator

	average := sumY / n
	if average == 0 {
		average = 1
	}
	normalized := slope / math.Max(average, 1)
	return clampScore(50+normalized*100, 0, 100) / 100
}

// sentimentVolatility is the standard deviation of the numeric sentiments,
// scaled onto [0, 100].
func sentimentVolatility(articles []news.Article) float64 {
	if len(articles) == 0 {
		return 0
	}

	var sum float64
	for i := range articles {
		sum += articles[i].Sentiment.Numeric()
	}
	mean := sum / float64(len(articles))

	var variance float64
	for i := range articles {
		d := articles[i].Sentiment.Numeric() - mean
		variance += d * d
	}
	variance /= float64(len(articles))

	return clampScore(math.Sqrt(variance)*45, 0, 100)
}

// inferEngagement estimates one article's engagement from its structure:
// bullet count plus summary length against a saturation ceiling.
func inferEngagement(article news.Article) float64 {
	bullets := float64(len(article.SummaryBullets))
	body := article.Summary
	if body == "" {
		body = article.FullText
	}
	summaryWeight := math.Min(1200, float64(len(body))) / 1200
	return clampScore(bullets*12+summaryWeight*60, 10, 95)
}

// engagementEMA smooths per-article engagement in publication order.
func engagementEMA(articles []news.Article, now time.Time) float64 {
	if len(articles) == 0 {
		return 0
	}

	sorted := append([]news.Article(nil), articles...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt(now).Before(sorted[j].PublishedAt(now))
	})

	ema := inferEngagement(sorted[0])
	for _, a := range sorted[1:] {
		ema = engagementAlpha*inferEngagement(a) + (1-engagementAlpha)*ema
	}
	return clampScore(ema, 5, 100)
}

// predictionScore blends the four signals into one 10-100 score.
func predictionScore(m Metrics) float64 {
	normalizedGrowth := clampScore(m.GrowthRate*100, 0, 100)
	score := m.HistoricalRelevance*0.4 +
		normalizedGrowth*0.3 +
		m.SentimentVolatility*0.2 +
		m.EngagementEMA*0.1
	return clampScore(score, 10, 100)
}

// applyScenario adjusts baseline metrics under the scenario and recomputes
// the prediction score from the adjusted signals.
func applyScenario(base Metrics, modifiers ScenarioModifiers) Metrics {
	adjusted := Metrics{
		HistoricalRelevance: clampScore(base.HistoricalRelevance*modifiers.VolumeMultiplier, 0, 100),
		GrowthRate:          clampScore(base.GrowthRate*modifiers.GrowthMultiplier*100, 0, 200) / 100,
		SentimentVolatility: clampScore(base.SentimentVolatility+modifiers.SentimentShift*10, 0, 100),
		EngagementEMA:       clampScore(base.EngagementEMA+modifiers.EngagementShift*20, 0, 100),
	}
	adjusted.PredictionScore = predictionScore(adjusted)
	return adjusted
}

// predictTopics projects per-topic coverage from the adjusted metrics.
// Growth raises the projection, sentiment volatility penalizes both the
// count and the confidence. Top five by predicted count.
func predictTopics(articles []news.Article, m Metrics, modifiers ScenarioModifiers) []TopicPrediction {
	if len(articles) == 0 {
		return nil
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for i := range articles {
		topic := articles[i].Topic
		if topic == "" {
			topic = "General"
		}
		if _, seen := counts[topic]; !seen {
			order = append(order, topic)
		}
		counts[topic]++
	}

	growthFactor := 1 + m.GrowthRate*modifiers.GrowthMultiplier + modifiers.VolumeMultiplier - 1
	volatilityPenalty := 1 - math.Min(m.SentimentVolatility/150, 0.35)

	predictions := make([]TopicPrediction, 0, len(order))
	for _, topic := range order {
		count := counts[topic]
		predictedCount := float64(count) * math.Max(0.5, growthFactor) * volatilityPenalty
		predictions = append(predictions, TopicPrediction{
			Topic:          topic,
			PredictedCount: math.Round(predictedCount*10) / 10,
			Confidence:     clampScore(m.PredictionScore*volatilityPenalty, 15, 95),
			Drivers: []string{
				fmt.Sprintf("Recent coverage: %d articles", count),
				fmt.Sprintf("Growth index: %.1f%%", m.GrowthRate*100),
				fmt.Sprintf("Sentiment volatility: %.1f pts", m.SentimentVolatility),
			},
		})
	}

	sort.SliceStable(predictions, func(i, j int) bool {
		if predictions[i].PredictedCount != predictions[j].PredictedCount {
			return predictions[i].PredictedCount > predictions[j].PredictedCount
		}
		return predictions[i].Confidence > predictions[j].Confidence
	})
	if len(predictions) > maxPredictionTopics {
		predictions = predictions[:maxPredictionTopics]
	}
	return predictions
}

// driverInsights narrates how each signal contributed under the scenario.
func driverInsights(m Metrics, modifiers ScenarioModifiers, predictions []TopicPrediction) []string {
	shiftSign := ""
	if modifiers.SentimentShift >= 0 {
		shiftSign = "+"
	}

	insights := []string{
		fmt.Sprintf("Historical relevance index at %.1f (7-day decay).", m.HistoricalRelevance),
		fmt.Sprintf("Growth velocity adjusted to %.1f%% with multiplier x%.2f.", m.GrowthRate*100, modifiers.GrowthMultiplier),
		fmt.Sprintf("Sentiment volatility %.1f pts after shift %s%.1f.", m.SentimentVolatility, shiftSign, modifiers.SentimentShift*10),
		fmt.Sprintf("Engagement EMA %.1f with shift %.1f.", m.EngagementEMA, modifiers.EngagementShift*20),
	}

	if len(predictions) > 0 {
		leader := predictions[0]
		insights = append(insights, fmt.Sprintf(
			"Top predicted topic: %s (~%.1f articles, confidence %.0f%%).",
			leader.Topic, leader.PredictedCount, leader.Confidence))
	}
	return insights
}
