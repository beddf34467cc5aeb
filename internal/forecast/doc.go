// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

// Package forecast computes event-level predictive analytics from recent
// coverage: a decayed historical-relevance index, a least-squares growth
// trend, sentiment volatility, and an engagement EMA, combined into a single
// prediction score. Scenario modifiers let callers stress the baseline
// ("what if growth doubles") without recomputing the underlying signals.
//
// All computation is deterministic for a given article set and clock, which
// makes results cacheable; Cache holds them with a TTL that shrinks as the
// underlying signals get more volatile.
package forecast
