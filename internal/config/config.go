package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/TeamPulse-Labs/Rebalance/internal/scoring"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Pulse     PulseConfig     `yaml:"pulse"`
	Advisor   AdvisorConfig   `yaml:"advisor"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Recommend RecommendConfig `yaml:"recommend"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type PulseConfig struct {
	URL string `yaml:"url"`
}

type AdvisorConfig struct {
	TickIntervalMs  int `yaml:"tick_interval_ms"`
	CacheTTLMs      int `yaml:"cache_ttl_ms"`
	SuggestionLimit int `yaml:"suggestion_limit"`
}

// ScoringConfig carries the two blend weight sets. Each set must sum to
// 1.0; Load rejects anything else.
type ScoringConfig struct {
	BlendWithAssessment    scoring.WeightSet `yaml:"blend_with_assessment"`
	BlendWithoutAssessment scoring.WeightSet `yaml:"blend_without_assessment"`
}

// RecommendConfig holds the recommender tunables that are plain magic
// numbers in the scoring rules, exposed so deployments can retune them.
type RecommendConfig struct {
	SuggestThreshold int     `yaml:"suggest_threshold"`
	PreferredBonus   float64 `yaml:"preferred_bonus"`
	AvoidedPenalty   float64 `yaml:"avoided_penalty"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Advisor.TickIntervalMs) * time.Millisecond
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Advisor.CacheTTLMs) * time.Millisecond
}

func (c *Config) BlendWeights() scoring.BlendWeights {
	return scoring.BlendWeights{
		WithAssessment:    c.Scoring.BlendWithAssessment,
		WithoutAssessment: c.Scoring.BlendWithoutAssessment,
	}
}

// Default returns the built-in configuration, before file and
// environment overrides.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Pulse: PulseConfig{
			URL: "nats://localhost:4222",
		},
		Advisor: AdvisorConfig{
			TickIntervalMs:  60000,
			CacheTTLMs:      300000,
			SuggestionLimit: 50,
		},
		Scoring: ScoringConfig{
			BlendWithAssessment:    scoring.DefaultBlendWeights().WithAssessment,
			BlendWithoutAssessment: scoring.DefaultBlendWeights().WithoutAssessment,
		},
		Recommend: RecommendConfig{
			SuggestThreshold: 50,
			PreferredBonus:   10,
			AvoidedPenalty:   5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if cfg.Recommend.SuggestThreshold < 0 || cfg.Recommend.SuggestThreshold > 100 {
		return nil, fmt.Errorf("suggest_threshold %d out of [0,100]", cfg.Recommend.SuggestThreshold)
	}
	if err := cfg.Scoring.BlendWithAssessment.Validate(); err != nil {
		return nil, fmt.Errorf("scoring.blend_with_assessment: %w", err)
	}
	if err := cfg.Scoring.BlendWithoutAssessment.Validate(); err != nil {
		return nil, fmt.Errorf("scoring.blend_without_assessment: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("REBALANCE_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("REBALANCE_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("REBALANCE_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("REBALANCE_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REBALANCE_PULSE_URL"); v != "" {
		cfg.Pulse.URL = v
	}
	if v := os.Getenv("REBALANCE_TICK_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Advisor.TickIntervalMs = n
		}
	}
	if v := os.Getenv("REBALANCE_CACHE_TTL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Advisor.CacheTTLMs = n
		}
	}
	if v := os.Getenv("REBALANCE_SUGGEST_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Recommend.SuggestThreshold = n
		}
	}
	if v := os.Getenv("REBALANCE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
