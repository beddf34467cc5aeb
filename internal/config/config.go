// Pulse - News Personalization and Trend Analytics
// Copyright 2026 NewsBot AI
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsbot-ai/pulse

// Package config loads the Pulse configuration with layered sources:
// built-in defaults, then an optional YAML file, then environment
// variables. Precedence: ENV > file > defaults.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/newsbot-ai/pulse/internal/logging"
	"github.com/newsbot-ai/pulse/internal/personalize"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/pulse/config.yaml",
	"/etc/pulse/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "PULSE_CONFIG_PATH"

// envPrefix namespaces Pulse environment variables:
// PULSE_SERVER_PORT -> server.port, PULSE_ENGINE_LEARNING_RATE ->
// engine.learning_rate.
const envPrefix = "PULSE_"

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Storage   StorageConfig   `koanf:"storage"`
	Engine    EngineConfig    `koanf:"engine"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	API       APIConfig       `koanf:"api"`
	Logging   logging.Config  `koanf:"logging"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	// DataDir is the BadgerDB directory. Empty selects in-memory state
	// that does not survive restarts.
	DataDir string `koanf:"data_dir"`
}

// EngineConfig exposes the personalization engine's tunables.
type EngineConfig struct {
	LearningRate        float64 `koanf:"learning_rate"`
	DecayFactor         float64 `koanf:"decay_factor"`
	DecayFloor          float64 `koanf:"decay_floor"`
	DecayProbability    float64 `koanf:"decay_probability"`
	MinInteractions     int     `koanf:"min_interactions"`
	SimilarityThreshold float64 `koanf:"similarity_threshold"`
	TopSimilarUsers     int     `koanf:"top_similar_users"`
	BatchSize           int     `koanf:"batch_size"`
}

// SchedulerConfig holds the background cadences.
type SchedulerConfig struct {
	// FlushInterval drives the batch step for queued behavior events.
	FlushInterval time.Duration `koanf:"flush_interval"`

	// DecayInterval drives the periodic preference decay across all
	// profiles.
	DecayInterval time.Duration `koanf:"decay_interval"`
}

// APIConfig holds API-surface settings.
type APIConfig struct {
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// defaultConfig returns the built-in defaults, applied before file and env
// overrides.
func defaultConfig() *Config {
	engine := personalize.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8490,
			Timeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			DataDir: "/data/pulse",
		},
		Engine: EngineConfig{
			LearningRate:        engine.LearningRate,
			DecayFactor:         engine.DecayFactor,
			DecayFloor:          engine.DecayFloor,
			DecayProbability:    engine.DecayProbability,
			MinInteractions:     engine.MinInteractions,
			SimilarityThreshold: engine.SimilarityThreshold,
			TopSimilarUsers:     engine.TopSimilarUsers,
			BatchSize:           engine.BatchSize,
		},
		Scheduler: SchedulerConfig{
			FlushInterval: time.Minute,
			DecayInterval: 2 * time.Hour,
		},
		API: APIConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", envTransform)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// envTransform maps PULSE_SECTION_KEY_NAME to section.key_name. The first
// underscore separates the section; the rest of the name keeps its
// underscores.
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	section, key, found := strings.Cut(s, "_")
	if !found {
		return s
	}
	return section + "." + key
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Validate checks cross-field constraints not covered by the engine's own
// validation.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Scheduler.FlushInterval <= 0 {
		return fmt.Errorf("scheduler.flush_interval must be positive, got %s", c.Scheduler.FlushInterval)
	}
	if c.Scheduler.DecayInterval <= 0 {
		return fmt.Errorf("scheduler.decay_interval must be positive, got %s", c.Scheduler.DecayInterval)
	}
	if c.API.RateLimitReqs < 0 {
		return fmt.Errorf("api.rate_limit_reqs must not be negative, got %d", c.API.RateLimitReqs)
	}
	if err := c.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	return nil
}

// EngineConfig maps the engine section onto the personalization engine's
// config, keeping its defaults for anything not exposed here.
func (c *Config) EngineConfig() *personalize.Config {
	cfg := personalize.DefaultConfig()
	cfg.LearningRate = c.Engine.LearningRate
	cfg.DecayFactor = c.Engine.DecayFactor
	cfg.DecayFloor = c.Engine.DecayFloor
	cfg.DecayProbability = c.Engine.DecayProbability
	cfg.MinInteractions = c.Engine.MinInteractions
	cfg.SimilarityThreshold = c.Engine.SimilarityThreshold
	cfg.TopSimilarUsers = c.Engine.TopSimilarUsers
	cfg.BatchSize = c.Engine.BatchSize
	return cfg
}
