// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

// Package trending derives trending-topic rankings from article batches.
//
// Scoring is snapshot-relative: callers keep the snapshot returned by
// BuildSnapshot and pass it back with the next batch so growth rates reflect
// change since the previous observation. Everything in the package is pure
// computation over its inputs; there is no stored state and no clock other
// than the timestamps the caller passes in.
package trending
