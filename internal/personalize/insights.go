// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

package personalize

import (
	"math"
	"sort"
)

// Insights projects a profile into the human-facing summary. It is a pure
// read: the profile is snapshotted once and no state changes.
func (e *Engine) Insights(userID string) Insights {
	p := e.GetProfile(userID)

	return Insights{
		TopTopics:       topTopicInsights(&p),
		TopSources:      topSourceInsights(&p),
		AverageReadTime: int(math.Round(p.Preferences.ReadingTime)),
		EngagementLevel: engagementLevel(p.Behavior.EngagementRate),
		MostActiveHours: mostActiveHours(&p),
		ReadingPattern:  readingPattern(&p),
		DiversityScore:  round2(diversityScore(&p)),
	}
}

// topTopicInsights ranks topics for display. Manual topics always lead,
// carrying a synthetic weight that steps down with pin order but never below
// 0.6; a learned weight above the synthetic one wins. Learned-only topics
// follow, by weight descending. Five entries at most.
func topTopicInsights(p *Profile) []TopicInsight {
	manual := make(map[string]struct{}, len(p.Preferences.ManualTopics))
	out := make([]TopicInsight, 0, 5)

	for idx, topic := range p.Preferences.ManualTopics {
		manual[topic] = struct{}{}
		synthetic := math.Max(0.8-0.03*float64(idx), 0.6)
		weight := math.Max(synthetic, p.Preferences.Topics[topic])
		out = append(out, TopicInsight{Topic: topic, Weight: round2(weight), Manual: true})
	}

	learned := make([]TopicInsight, 0, len(p.Preferences.Topics))
	for topic, weight := range p.Preferences.Topics {
		if _, pinned := manual[topic]; pinned {
			continue
		}
		learned = append(learned, TopicInsight{Topic: topic, Weight: round2(weight)})
	}
	sort.SliceStable(learned, func(i, j int) bool {
		if learned[i].Weight != learned[j].Weight {
			return learned[i].Weight > learned[j].Weight
		}
		return learned[i].Topic < learned[j].Topic
	})

	out = append(out, learned...)
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

func topSourceInsights(p *Profile) []SourceInsight {
	out := make([]SourceInsight, 0, len(p.Preferences.Sources))
	for source, weight := range p.Preferences.Sources {
		out = append(out, SourceInsight{Source: source, Weight: round2(weight)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Source < out[j].Source
	})
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

func engagementLevel(rate float64) EngagementLevel {
	switch {
	case rate < 0.3:
		return EngagementLow
	case rate < 0.7:
		return EngagementMedium
	default:
		return EngagementHigh
	}
}

// mostActiveHours returns the three busiest hours of day, busiest first.
// Hours with no recorded activity are omitted.
func mostActiveHours(p *Profile) []HourActivity {
	out := make([]HourActivity, 0, 3)
	for hour, count := range p.Preferences.ActiveHours {
		if count > 0 {
			out = append(out, HourActivity{Hour: hour, Count: count})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Hour < out[j].Hour
	})
	if len(out) > 3 {
		out = out[:3]
	}
	return out
}

// readingPattern labels the user by their single busiest hour. With no
// recorded activity the noon default lands on "Afternoon Browser".
func readingPattern(p *Profile) string {
	topHour := 12
	best := 0.0
	for hour, count := range p.Preferences.ActiveHours {
		if count > best {
			best = count
			topHour = hour
		}
	}

	switch {
	case topHour >= 5 && topHour < 12:
		return "Morning Reader"
	case topHour >= 12 && topHour < 17:
		return "Afternoon Browser"
	case topHour >= 17 && topHour < 22:
		return "Evening Reader"
	default:
		return "Night Owl"
	}
}

// diversityScore measures breadth of interest: the count of distinct topics,
// learned or pinned, against a ten-topic ceiling.
func diversityScore(p *Profile) float64 {
	distinct := make(map[string]struct{}, len(p.Preferences.Topics))
	for topic := range p.Preferences.Topics {
		distinct[topic] = struct{}{}
	}
	for _, topic := range p.Preferences.ManualTopics {
		distinct[topic] = struct{}{}
	}
	return math.Min(float64(len(distinct))/10, 1)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
