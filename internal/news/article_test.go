// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

package news

import (
	"testing"
	"time"
)

func TestParseDateKnownLayouts(t *testing.T) {
	tests := []struct {
		name string
		date string
		want time.Time
	}{
		{"rfc3339", "2026-03-14T09:30:00Z", time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)},
		{"date only", "2026-03-14", time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"long form", "March 14, 2026", time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"short form", "Mar 14, 2026", time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"space separated", "2026-03-14 09:30:00", time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Article{Date: tt.date}
			got, ok := a.ParseDate()
			if !ok {
				t.Fatalf("ParseDate(%q) did not match", tt.date)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestParseDateRejectsUnknown(t *testing.T) {
	for _, date := range []string{"", "yesterday", "14/03/2026"} {
		a := Article{Date: date}
		if _, ok := a.ParseDate(); ok {
			t.Errorf("ParseDate(%q) matched unexpectedly", date)
		}
	}
}

func TestPublishedAtFallsBackToNow(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	a := Article{Date: "not a date"}
	if got := a.PublishedAt(now); !got.Equal(now) {
		t.Errorf("PublishedAt() = %v, want fallback %v", got, now)
	}

	a = Article{Date: "2026-03-01"}
	if got := a.PublishedAt(now); got.Equal(now) {
		t.Error("parseable date ignored")
	}
}

func TestSentimentNumeric(t *testing.T) {
	tests := []struct {
		s    Sentiment
		want float64
	}{
		{SentimentPositive, 1},
		{SentimentNegative, -1},
		{SentimentNeutral, 0},
		{Sentiment("unknown"), 0},
	}
	for _, tt := range tests {
		if got := tt.s.Numeric(); got != tt.want {
			t.Errorf("%q.Numeric() = %v, want %v", tt.s, got, tt.want)
		}
	}
}
