// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

// Package store provides repositories for the personalization engine's
// state. Two implementations exist: an in-memory repository for tests and
// ephemeral deployments, and a BadgerDB-backed repository for durable
// single-node persistence.
//
// The engine treats persistence as best effort. Both implementations honor
// the contract that missing or unreadable state loads as empty rather than
// failing, so a wiped or corrupt data directory degrades to a cold start.
package store
