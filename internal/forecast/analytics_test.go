// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

package forecast

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/newsbot-ai/pulse/internal/news"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func dayArticle(daysAgo int, topic string, sentiment news.Sentiment) news.Article {
	return news.Article{
		ID:        "a",
		Topic:     topic,
		Sentiment: sentiment,
		Date:      testNow.AddDate(0, 0, -daysAgo).Format(time.RFC3339),
		Summary:   strings.Repeat("x", 400),
	}
}

func TestBuildEventAnalyticsBaseline(t *testing.T) {
	articles := []news.Article{
		dayArticle(0, "Energy", news.SentimentNeutral),
		dayArticle(1, "Energy", news.SentimentNeutral),
		dayArticle(2, "Space", news.SentimentNeutral),
	}

	result := BuildEventAnalytics(articles, DefaultScenarioModifiers(), testNow)
	m := result.Metrics

	if m.HistoricalRelevance < 5 || m.HistoricalRelevance > 100 {
		t.Errorf("HistoricalRelevance = %v, out of [5, 100]", m.HistoricalRelevance)
	}
	if m.GrowthRate < 0 || m.GrowthRate > 2 {
		t.Errorf("GrowthRate = %v, out of [0, 2]", m.GrowthRate)
	}
	if m.SentimentVolatility != 0 {
		t.Errorf("uniform sentiment volatility = %v, want 0", m.SentimentVolatility)
	}
	if m.PredictionScore < 10 || m.PredictionScore > 100 {
		t.Errorf("PredictionScore = %v, out of [10, 100]", m.PredictionScore)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
	if len(result.DriverInsights) != 5 {
		t.Errorf("len(DriverInsights) = %d, want 5", len(result.DriverInsights))
	}
}

func TestBuildEventAnalyticsWarnings(t *testing.T) {
	// Two articles with opposing sentiment: sparse coverage plus maximal
	// volatility (stddev 1 scaled by 45 = 45, shifted over 60 by scenario).
	articles := []news.Article{
		dayArticle(0, "Energy", news.SentimentPositive),
		dayArticle(0, "Energy", news.SentimentNegative),
	}

	modifiers := DefaultScenarioModifiers()
	modifiers.SentimentShift = 2 // +20 pts

	result := BuildEventAnalytics(articles, modifiers, testNow)
	if len(result.Warnings) != 2 {
		t.Fatalf("warnings = %v, want both", result.Warnings)
	}
	if result.Warnings[0] != "Limited signal coverage — predictions carry higher uncertainty." {
		t.Errorf("warnings[0] = %q", result.Warnings[0])
	}
	if result.Warnings[1] != "High sentiment volatility detected. Monitor for rapid pivots." {
		t.Errorf("warnings[1] = %q", result.Warnings[1])
	}
}

func TestSentimentVolatility(t *testing.T) {
	uniform := []news.Article{
		{Sentiment: news.SentimentPositive},
		{Sentiment: news.SentimentPositive},
	}
	if got := sentimentVolatility(uniform); got != 0 {
		t.Errorf("uniform volatility = %v, want 0", got)
	}

	split := []news.Article{
		{Sentiment: news.SentimentPositive},
		{Sentiment: news.SentimentNegative},
	}
	// Mean 0, variance 1, stddev 1, scaled by 45.
	if got := sentimentVolatility(split); math.Abs(got-45) > 1e-9 {
		t.Errorf("split volatility = %v, want 45", got)
	}

	if got := sentimentVolatility(nil); got != 0 {
		t.Errorf("empty volatility = %v, want 0", got)
	}
}

func TestGrowthRateSlope(t *testing.T) {
	// Rising coverage: 1, 2, 3 articles across three days.
	var rising []news.Article
	for day, count := range map[int]int{2: 1, 1: 2, 0: 3} {
		for i := 0; i < count; i++ {
			rising = append(rising, dayArticle(day, "Energy", news.SentimentNeutral))
		}
	}
	risingRate := growthRate(rising, testNow)
	if risingRate <= 0.5 {
		t.Errorf("rising coverage growth = %v, want > 0.5", risingRate)
	}

	falling := []news.Article{
		dayArticle(2, "Energy", news.SentimentNeutral),
		dayArticle(2, "Energy", news.SentimentNeutral),
		dayArticle(2, "Energy", news.SentimentNeutral),
		dayArticle(1, "Energy", news.SentimentNeutral),
		dayArticle(1, "Energy", news.SentimentNeutral),
		dayArticle(0, "Energy", news.SentimentNeutral),
	}
	fallingRate := growthRate(falling, testNow)
	if fallingRate >= 0.5 {
		t.Errorf("falling coverage growth = %v, want < 0.5", fallingRate)
	}

	single := []news.Article{dayArticle(0, "Energy", news.SentimentNeutral)}
	if got := growthRate(single, testNow); got != 0 {
		t.Errorf("single-day growth = %v, want 0", got)
	}
}

func TestInferEngagementDeterministic(t *testing.T) {
	article := news.Article{
		Summary:        strings.Repeat("x", 600),
		SummaryBullets: []string{"a", "b", "c"},
	}
	// 3 bullets * 12 + (600/1200) * 60 = 66.
	want := 66.0
	if got := inferEngagement(article); math.Abs(got-want) > 1e-9 {
		t.Errorf("inferEngagement() = %v, want %v", got, want)
	}
	if got := inferEngagement(news.Article{}); got != 10 {
		t.Errorf("empty article engagement = %v, want floor 10", got)
	}
}

func TestApplyScenarioAdjustsMetrics(t *testing.T) {
	base := Metrics{
		HistoricalRelevance: 50,
		GrowthRate:          0.5,
		SentimentVolatility: 30,
		EngagementEMA:       40,
	}
	base.PredictionScore = predictionScore(base)

	modifiers := DefaultScenarioModifiers()
	modifiers.GrowthMultiplier = 2
	modifiers.SentimentShift = 1
	modifiers.VolumeMultiplier = 1.5
	modifiers.EngagementShift = 1

	got := applyScenario(base, modifiers)
	if math.Abs(got.GrowthRate-1.0) > 1e-9 {
		t.Errorf("GrowthRate = %v, want 1.0", got.GrowthRate)
	}
	if math.Abs(got.SentimentVolatility-40) > 1e-9 {
		t.Errorf("SentimentVolatility = %v, want 40", got.SentimentVolatility)
	}
	if math.Abs(got.EngagementEMA-60) > 1e-9 {
		t.Errorf("EngagementEMA = %v, want 60", got.EngagementEMA)
	}
	if math.Abs(got.HistoricalRelevance-75) > 1e-9 {
		t.Errorf("HistoricalRelevance = %v, want 75", got.HistoricalRelevance)
	}
	if got.PredictionScore == base.PredictionScore {
		t.Error("PredictionScore not recomputed from adjusted signals")
	}
}

func TestApplyScenarioBaselineIsIdentity(t *testing.T) {
	base := Metrics{
		HistoricalRelevance: 50,
		GrowthRate:          0.5,
		SentimentVolatility: 30,
		EngagementEMA:       40,
	}
	base.PredictionScore = predictionScore(base)

	got := applyScenario(base, DefaultScenarioModifiers())
	if got != base {
		t.Errorf("baseline scenario changed metrics: %+v vs %+v", got, base)
	}
}

func TestPredictTopicsRankedAndCapped(t *testing.T) {
	var articles []news.Article
	topics := []string{"Energy", "Energy", "Energy", "Space", "Space", "Health", "Arts", "Sports", "Science", ""}
	for _, topic := range topics {
		articles = append(articles, news.Article{Topic: topic})
	}

	m := Metrics{GrowthRate: 0.5, SentimentVolatility: 30, PredictionScore: 60}
	got := predictTopics(articles, m, DefaultScenarioModifiers())

	if len(got) != 5 {
		t.Fatalf("len(predictions) = %d, want capped at 5", len(got))
	}
	if got[0].Topic != "Energy" {
		t.Errorf("top prediction = %q, want Energy", got[0].Topic)
	}
	for i := 1; i < len(got); i++ {
		if got[i].PredictedCount > got[i-1].PredictedCount {
			t.Errorf("predictions not descending at %d", i)
		}
	}
	for _, p := range got {
		if p.Confidence < 15 || p.Confidence > 95 {
			t.Errorf("confidence %v out of [15, 95]", p.Confidence)
		}
		if len(p.Drivers) != 3 {
			t.Errorf("drivers = %v, want 3", p.Drivers)
		}
	}
}

func TestPredictTopicsEmptyTopicBecomesGeneral(t *testing.T) {
	articles := []news.Article{{Topic: ""}}
	m := Metrics{PredictionScore: 50}
	got := predictTopics(articles, m, DefaultScenarioModifiers())
	if len(got) != 1 || got[0].Topic != "General" {
		t.Errorf("predictions = %v, want General", got)
	}
}

func TestHistoricalRelevanceRecencyWeighting(t *testing.T) {
	recent := []news.Article{
		dayArticle(0, "Energy", news.SentimentNeutral),
		dayArticle(0, "Energy", news.SentimentNeutral),
	}
	stale := []news.Article{
		dayArticle(6, "Energy", news.SentimentNeutral),
		dayArticle(6, "Energy", news.SentimentNeutral),
	}

	if r, s := historicalRelevance(recent, testNow), historicalRelevance(stale, testNow); r <= s {
		t.Errorf("recent relevance %v not above stale %v", r, s)
	}
	if got := historicalRelevance(nil, testNow); got != 0 {
		t.Errorf("empty relevance = %v, want 0", got)
	}
}
