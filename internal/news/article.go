// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

// Package news defines the article records supplied by the ingestion layer.
//
// The engine does not fetch or parse feeds itself; articles arrive fully
// formed from an external supplier and are consumed read-only.
package news

import "time"

// Sentiment is the classified tone of an article.
type Sentiment string

const (
	// SentimentPositive indicates positive coverage.
	SentimentPositive Sentiment = "Positive"
	// SentimentNeutral indicates neutral coverage.
	SentimentNeutral Sentiment = "Neutral"
	// SentimentNegative indicates negative coverage.
	SentimentNegative Sentiment = "Negative"
)

// Numeric maps the sentiment onto {-1, 0, 1} for volatility math.
// Unknown values map to 0.
func (s Sentiment) Numeric() float64 {
	switch s {
	case SentimentPositive:
		return 1
	case SentimentNegative:
		return -1
	default:
		return 0
	}
}

// Article is a news article as produced by the article supplier.
type Article struct {
	// ID uniquely identifies the article within the supplier's corpus.
	ID string `json:"id"`

	// Headline is the display title.
	Headline string `json:"headline"`

	// Source is the publisher name.
	Source string `json:"source"`

	// TrustScore is the publisher trust grade (A+ through C-).
	TrustScore string `json:"trust_score"`

	// Bias is an optional political-bias label.
	Bias string `json:"bias,omitempty"`

	// Author is the byline, if known.
	Author string `json:"author,omitempty"`

	// Date is the publication date string as supplied upstream.
	// Formats vary by source; parse failures fall back to "now".
	Date string `json:"date"`

	// Summary is the article summary text.
	Summary string `json:"summary"`

	// SummaryBullets are optional key-point bullets.
	SummaryBullets []string `json:"summary_bullets,omitempty"`

	// Sentiment is the classified tone.
	Sentiment Sentiment `json:"sentiment"`

	// Topic is the stated topic label. May be empty or the generic
	// "Global" bucket, in which case the trend scorer infers one.
	Topic string `json:"topic"`

	// ImageURL is an optional illustration URL.
	ImageURL string `json:"image_url,omitempty"`

	// ReadMoreURL links to the full story.
	ReadMoreURL string `json:"read_more_url,omitempty"`

	// FullText is the optional extracted body text.
	FullText string `json:"full_text,omitempty"`

	// Engagement is an optional upstream engagement metric. Zero means
	// "not provided"; consumers fall back to a summary-length heuristic.
	Engagement float64 `json:"engagement,omitempty"`
}

var dateLayouts = []string{
	time.RFC3339,
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate parses the article date and reports whether any of the known
// supplier formats matched.
func (a *Article) ParseDate() (time.Time, bool) {
	if a.Date == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, a.Date); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// PublishedAt parses the article date, falling back to now when the
// supplier's format is unparseable.
func (a *Article) PublishedAt(now time.Time) time.Time {
	if ts, ok := a.ParseDate(); ok {
		return ts
	}
	return now
}
