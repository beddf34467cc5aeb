// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

package forecast

import (
	"math"
	"sync"
	"time"
)

const (
	cacheMinTTL = 4 * time.Minute
	cacheMaxTTL = 12 * time.Minute
)

type cacheEntry struct {
	result    EventAnalytics
	expiresAt time.Time
}

// Cache memoizes scenario results per event. The TTL adapts to the result:
// stable signals cache near the maximum, volatile or fast-growing signals
// expire sooner so forecasts track the news cycle.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewCache creates an empty forecast cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// NewCacheWithClock creates a cache with an injected time source.
func NewCacheWithClock(now func() time.Time) *Cache {
	c := NewCache()
	c.now = now
	return c
}

func cacheKey(eventID, scenarioKey string) string {
	return eventID + "|" + scenarioKey
}

// Get returns the cached result for an event/scenario pair, if fresh.
// Expired entries are removed on access.
func (c *Cache) Get(eventID, scenarioKey string) (EventAnalytics, bool) {
	key := cacheKey(eventID, scenarioKey)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return EventAnalytics{}, false
	}

	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		if e, still := c.entries[key]; still && c.now().After(e.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return EventAnalytics{}, false
	}

	return entry.result, true
}

// Put stores a result with a TTL derived from its metrics.
func (c *Cache) Put(eventID, scenarioKey string, result EventAnalytics) {
	ttl := adaptiveTTL(result.Metrics)

	c.mu.Lock()
	c.entries[cacheKey(eventID, scenarioKey)] = cacheEntry{
		result:    result,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

// InvalidateEvent drops every cached scenario for one event.
func (c *Cache) InvalidateEvent(eventID string) {
	prefix := eventID + "|"

	c.mu.Lock()
	for key := range c.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// Len reports the number of cached entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// adaptiveTTL maps metric turbulence onto the TTL range: the more the
// signals are moving, the shorter the cache life.
func adaptiveTTL(m Metrics) time.Duration {
	changePressure := math.Min(1, m.SentimentVolatility/25)*0.55 +
		math.Min(1, math.Abs(m.GrowthRate))*0.35 +
		math.Min(1, m.EngagementEMA/100)*0.10

	span := float64(cacheMaxTTL - cacheMinTTL)
	scale := math.Min(1, math.Max(0, 1-changePressure))
	return cacheMinTTL + time.Duration(span*scale)
}
