// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

// Package personalize implements the news personalization engine.
//
// The engine learns per-user topic, source, and sentiment affinities from
// implicit behavioral signals (views, likes, shares, bookmarks, reading
// duration) and combines content-based and collaborative signals into a
// ranked recommendation list with human-readable explanations.
//
// # Architecture
//
//   - Online learning: each tracked behavior applies an exponential-moving-
//     average update to the user's preference weights, with periodic
//     multiplicative decay so stale interests fade.
//   - Collaborative filtering: pairwise user similarity is cosine similarity
//     over preference vectors, cached per user and invalidated wholesale
//     whenever a behavior batch is processed.
//   - Hybrid scoring: content, collaborative, recency, and popularity signals
//     are combined with fixed weights; profiles with fewer than three read
//     articles use a cold-start blend that excludes the collaborative signal
//     entirely.
//
// # Error Philosophy
//
// The engine prefers graceful degradation over errors: unknown users are
// initialized transparently, unregistered candidate articles score zero with
// an explanatory reason, and persistence failures are logged rather than
// propagated. "Wrong but present" beats "absent" on an interactive surface.
//
// # Concurrency
//
// Engine methods are safe for concurrent use. Profile mutation is serialized
// by a single mutex; the similarity cache is swapped atomically so readers
// never observe a half-invalidated cache.
package personalize
