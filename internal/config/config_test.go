// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8490 {
		t.Errorf("Server.Port = %d, want 8490", cfg.Server.Port)
	}
	if cfg.Server.Addr() != "0.0.0.0:8490" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
	if cfg.Scheduler.FlushInterval != time.Minute {
		t.Errorf("FlushInterval = %v, want 1m", cfg.Scheduler.FlushInterval)
	}
	if cfg.Scheduler.DecayInterval != 2*time.Hour {
		t.Errorf("DecayInterval = %v, want 2h", cfg.Scheduler.DecayInterval)
	}
	if cfg.Engine.LearningRate != 0.15 {
		t.Errorf("Engine.LearningRate = %v, want 0.15", cfg.Engine.LearningRate)
	}
	if cfg.Engine.BatchSize != 20 {
		t.Errorf("Engine.BatchSize = %d, want 20", cfg.Engine.BatchSize)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PULSE_SERVER_PORT", "9001")
	t.Setenv("PULSE_ENGINE_LEARNING_RATE", "0.25")
	t.Setenv("PULSE_LOGGING_LEVEL", "debug")
	t.Setenv("PULSE_SCHEDULER_FLUSH_INTERVAL", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("Server.Port = %d, want 9001", cfg.Server.Port)
	}
	if cfg.Engine.LearningRate != 0.25 {
		t.Errorf("Engine.LearningRate = %v, want 0.25", cfg.Engine.LearningRate)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Scheduler.FlushInterval != 30*time.Second {
		t.Errorf("FlushInterval = %v, want 30s", cfg.Scheduler.FlushInterval)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "server:\n  port: 7070\nstorage:\n  data_dir: /tmp/pulse-test\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070 from file", cfg.Server.Port)
	}
	if cfg.Storage.DataDir != "/tmp/pulse-test" {
		t.Errorf("Storage.DataDir = %q", cfg.Storage.DataDir)
	}
}

func TestLoadEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7070\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("PULSE_SERVER_PORT", "9002")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9002 {
		t.Errorf("Server.Port = %d, want env to win", cfg.Server.Port)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("PULSE_SERVER_PORT", "0")
	if _, err := Load(); err == nil {
		t.Error("Load() accepted port 0")
	}
}

func TestLoadRejectsInvalidEngine(t *testing.T) {
	t.Setenv("PULSE_ENGINE_LEARNING_RATE", "5")
	if _, err := Load(); err == nil {
		t.Error("Load() accepted learning rate 5")
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"PULSE_SERVER_PORT", "server.port"},
		{"PULSE_ENGINE_LEARNING_RATE", "engine.learning_rate"},
		{"PULSE_API_RATE_LIMIT_REQS", "api.rate_limit_reqs"},
		{"PULSE_LOGGING_LEVEL", "logging.level"},
	}
	for _, tt := range tests {
		if got := envTransform(tt.in); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEngineConfigMapsOntoEngineDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	engineCfg := cfg.EngineConfig()
	if err := engineCfg.Validate(); err != nil {
		t.Fatalf("EngineConfig().Validate() error = %v", err)
	}
	if engineCfg.WarmWeights.Content != 0.50 {
		t.Errorf("WarmWeights.Content = %v, want engine default kept", engineCfg.WarmWeights.Content)
	}
}
