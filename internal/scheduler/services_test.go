// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeFlushTarget struct {
	queued  atomic.Int32
	flushes atomic.Int32
}

func (f *fakeFlushTarget) QueueLen() int { return int(f.queued.Load()) }

func (f *fakeFlushTarget) FlushQueue() {
	f.flushes.Add(1)
	f.queued.Store(0)
}

func TestFlushServiceFlushesOnTick(t *testing.T) {
	target := &fakeFlushTarget{}
	target.queued.Store(3)

	svc := NewFlushService(target, 5*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.After(2 * time.Second)
	for target.flushes.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("flush never fired")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
}

func TestFlushServiceDrainsOnShutdown(t *testing.T) {
	target := &fakeFlushTarget{}
	target.queued.Store(2)

	// A long interval so only the shutdown drain can flush.
	svc := NewFlushService(target, time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if target.flushes.Load() != 1 {
		t.Errorf("flushes = %d, want final drain", target.flushes.Load())
	}
}

func TestFlushServiceSkipsEmptyQueue(t *testing.T) {
	target := &fakeFlushTarget{}
	svc := NewFlushService(target, 5*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_ = svc.Serve(ctx)

	// Only the shutdown drain runs; empty ticks never flush.
	if got := target.flushes.Load(); got != 1 {
		t.Errorf("flushes = %d, want 1 (shutdown drain only)", got)
	}
}

type fakeDecayTarget struct {
	decays atomic.Int32
}

func (f *fakeDecayTarget) DecayAll() { f.decays.Add(1) }

func TestDecayServiceTicks(t *testing.T) {
	target := &fakeDecayTarget{}
	svc := NewDecayService(target, 5*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.After(2 * time.Second)
	for target.decays.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("decay never fired")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
}
