// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

package forecast

import (
	"testing"
	"time"
)

// fakeClock steps time manually for TTL tests.
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) now() time.Time          { return c.current }
func (c *fakeClock) advance(d time.Duration) { c.current = c.current.Add(d) }

func TestCacheHitAndExpiry(t *testing.T) {
	clock := &fakeClock{current: testNow}
	cache := NewCacheWithClock(clock.now)

	// A calm result caches near the maximum TTL.
	calm := EventAnalytics{Metrics: Metrics{SentimentVolatility: 0, GrowthRate: 0, EngagementEMA: 0}}
	cache.Put("event-1", "baseline", calm)

	if _, ok := cache.Get("event-1", "baseline"); !ok {
		t.Fatal("expected cache hit immediately after Put")
	}

	clock.advance(11 * time.Minute)
	if _, ok := cache.Get("event-1", "baseline"); !ok {
		t.Fatal("calm result expired before the maximum TTL")
	}

	clock.advance(2 * time.Minute)
	if _, ok := cache.Get("event-1", "baseline"); ok {
		t.Fatal("calm result survived past the maximum TTL")
	}
	if cache.Len() != 0 {
		t.Errorf("expired entry not removed, Len() = %d", cache.Len())
	}
}

func TestCacheVolatileResultExpiresSooner(t *testing.T) {
	clock := &fakeClock{current: testNow}
	cache := NewCacheWithClock(clock.now)

	volatile := EventAnalytics{Metrics: Metrics{SentimentVolatility: 90, GrowthRate: 1.5, EngagementEMA: 100}}
	cache.Put("event-1", "stress", volatile)

	// Full change pressure pins the TTL at the minimum.
	clock.advance(5 * time.Minute)
	if _, ok := cache.Get("event-1", "stress"); ok {
		t.Error("volatile result survived past the minimum TTL")
	}
}

func TestCacheKeysScenariosIndependently(t *testing.T) {
	cache := NewCache()
	a := EventAnalytics{Metrics: Metrics{PredictionScore: 10}}
	b := EventAnalytics{Metrics: Metrics{PredictionScore: 90}}

	cache.Put("event-1", "baseline", a)
	cache.Put("event-1", "surge", b)

	got, ok := cache.Get("event-1", "surge")
	if !ok || got.Metrics.PredictionScore != 90 {
		t.Errorf("Get(surge) = %+v, %v", got, ok)
	}
	got, ok = cache.Get("event-1", "baseline")
	if !ok || got.Metrics.PredictionScore != 10 {
		t.Errorf("Get(baseline) = %+v, %v", got, ok)
	}
}

func TestCacheInvalidateEvent(t *testing.T) {
	cache := NewCache()
	cache.Put("event-1", "baseline", EventAnalytics{})
	cache.Put("event-1", "surge", EventAnalytics{})
	cache.Put("event-2", "baseline", EventAnalytics{})

	cache.InvalidateEvent("event-1")

	if _, ok := cache.Get("event-1", "baseline"); ok {
		t.Error("event-1 baseline survived invalidation")
	}
	if _, ok := cache.Get("event-1", "surge"); ok {
		t.Error("event-1 surge survived invalidation")
	}
	if _, ok := cache.Get("event-2", "baseline"); !ok {
		t.Error("event-2 wrongly invalidated")
	}
}

func TestAdaptiveTTLBounds(t *testing.T) {
	calm := adaptiveTTL(Metrics{})
	if calm != cacheMaxTTL {
		t.Errorf("calm TTL = %v, want %v", calm, cacheMaxTTL)
	}

	stormy := adaptiveTTL(Metrics{SentimentVolatility: 100, GrowthRate: 2, EngagementEMA: 100})
	if stormy != cacheMinTTL {
		t.Errorf("stormy TTL = %v, want %v", stormy, cacheMinTTL)
	}

	mid := adaptiveTTL(Metrics{SentimentVolatility: 12.5, GrowthRate: 0.5})
	if mid <= cacheMinTTL || mid >= cacheMaxTTL {
		t.Errorf("mid TTL = %v, want strictly inside (%v, %v)", mid, cacheMinTTL, cacheMaxTTL)
	}
}
