package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	envVars := []string{
		"REBALANCE_PORT", "REBALANCE_METRICS_PORT", "REBALANCE_ADMIN_TOKEN",
		"REBALANCE_DATABASE_URL", "REBALANCE_PULSE_URL",
		"REBALANCE_TICK_INTERVAL_MS", "REBALANCE_CACHE_TTL_MS",
		"REBALANCE_SUGGEST_THRESHOLD", "REBALANCE_LOG_LEVEL",
	}
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8700 {
		t.Errorf("expected port 8700, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected metrics port 8701, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Pulse.URL != "nats://localhost:4222" {
		t.Errorf("expected nats URL, got %s", cfg.Pulse.URL)
	}
	if cfg.Advisor.TickIntervalMs != 60000 {
		t.Errorf("expected tick 60000, got %d", cfg.Advisor.TickIntervalMs)
	}
	if cfg.Advisor.SuggestionLimit != 50 {
		t.Errorf("expected suggestion limit 50, got %d", cfg.Advisor.SuggestionLimit)
	}
	if cfg.Recommend.SuggestThreshold != 50 {
		t.Errorf("expected suggest threshold 50, got %d", cfg.Recommend.SuggestThreshold)
	}
	if cfg.Recommend.PreferredBonus != 10 || cfg.Recommend.AvoidedPenalty != 5 {
		t.Errorf("unexpected compatibility tunables: %+v", cfg.Recommend)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging defaults: %+v", cfg.Logging)
	}

	if err := cfg.Scoring.BlendWithAssessment.Validate(); err != nil {
		t.Errorf("default blend_with_assessment invalid: %v", err)
	}
	if err := cfg.Scoring.BlendWithoutAssessment.Validate(); err != nil {
		t.Errorf("default blend_without_assessment invalid: %v", err)
	}

	if cfg.TickInterval() != time.Minute {
		t.Errorf("expected TickInterval 1m, got %v", cfg.TickInterval())
	}
	if cfg.CacheTTL() != 5*time.Minute {
		t.Errorf("expected CacheTTL 5m, got %v", cfg.CacheTTL())
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("REBALANCE_PORT", "9100")
	t.Setenv("REBALANCE_ADMIN_TOKEN", "secret-token")
	t.Setenv("REBALANCE_DATABASE_URL", "postgres://localhost/rebalance_test")
	t.Setenv("REBALANCE_PULSE_URL", "nats://nats:4222")
	t.Setenv("REBALANCE_TICK_INTERVAL_MS", "15000")
	t.Setenv("REBALANCE_SUGGEST_THRESHOLD", "60")
	t.Setenv("REBALANCE_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("expected port 9100, got %d", cfg.Server.Port)
	}
	if cfg.Server.AdminToken != "secret-token" {
		t.Errorf("expected admin token, got '%s'", cfg.Server.AdminToken)
	}
	if cfg.Database.URL != "postgres://localhost/rebalance_test" {
		t.Errorf("unexpected database URL '%s'", cfg.Database.URL)
	}
	if cfg.Pulse.URL != "nats://nats:4222" {
		t.Errorf("unexpected pulse URL '%s'", cfg.Pulse.URL)
	}
	if cfg.Advisor.TickIntervalMs != 15000 {
		t.Errorf("expected tick 15000, got %d", cfg.Advisor.TickIntervalMs)
	}
	if cfg.Recommend.SuggestThreshold != 60 {
		t.Errorf("expected threshold 60, got %d", cfg.Recommend.SuggestThreshold)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got '%s'", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
server:
  port: 9200
recommend:
  suggest_threshold: 55
  preferred_bonus: 12
advisor:
  tick_interval_ms: 30000
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	os.Unsetenv("REBALANCE_PORT")
	os.Unsetenv("REBALANCE_SUGGEST_THRESHOLD")
	os.Unsetenv("REBALANCE_TICK_INTERVAL_MS")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9200 {
		t.Errorf("expected port 9200, got %d", cfg.Server.Port)
	}
	if cfg.Recommend.SuggestThreshold != 55 {
		t.Errorf("expected threshold 55, got %d", cfg.Recommend.SuggestThreshold)
	}
	if cfg.Recommend.PreferredBonus != 12 {
		t.Errorf("expected preferred bonus 12, got %f", cfg.Recommend.PreferredBonus)
	}
	if cfg.Advisor.TickIntervalMs != 30000 {
		t.Errorf("expected tick 30000, got %d", cfg.Advisor.TickIntervalMs)
	}
	// untouched sections keep defaults
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected default metrics port, got %d", cfg.Server.MetricsPort)
	}
}

func TestLoadRejectsBadThreshold(t *testing.T) {
	t.Setenv("REBALANCE_SUGGEST_THRESHOLD", "140")
	if _, err := Load(""); err == nil {
		t.Error("expected error for out-of-range threshold")
	}
}

func TestLoadRejectsBadBlendWeights(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	// Overriding two slots pushes the set's sum past 1.0.
	data := []byte(`
scoring:
  blend_without_assessment:
    completion: 0.5
    prior: 0.4
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for blend weights not summing to 1.0")
	}
}

func TestLoadBlendWeightsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
scoring:
  blend_without_assessment:
    completion: 0.5
    difficulty: 0.2
    speed: 0.1
    prior: 0.2
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Scoring.BlendWithoutAssessment.Completion != 0.5 {
		t.Errorf("expected completion weight 0.5, got %f", cfg.Scoring.BlendWithoutAssessment.Completion)
	}
	if cfg.BlendWeights().WithoutAssessment.Difficulty != 0.2 {
		t.Errorf("expected difficulty weight 0.2, got %f", cfg.BlendWeights().WithoutAssessment.Difficulty)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}
