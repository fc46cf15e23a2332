package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Quiz.BudgetSeconds != 30 || cfg.Quiz.TimeoutPolicy != TimeoutDiscard {
		t.Fatalf("unexpected quiz defaults %+v", cfg.Quiz)
	}
	urls := cfg.SourceURLs()
	if urls["default"] != DefaultSourceURL {
		t.Fatalf("expected default source, got %v", urls)
	}
}

func TestLoadReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: "9090"
quiz:
  budget_seconds: 12
  timeout_policy: keep_partial
  default_source: nouns
sources:
  - id: nouns
    url: http://example.test/nouns.json
log:
  level: debug
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Quiz.BudgetSeconds != 12 || cfg.Quiz.TimeoutPolicy != TimeoutKeepPartial {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0].ID != "nouns" {
		t.Fatalf("unexpected sources %+v", cfg.Sources)
	}
}

func TestValidateRejectsUnknownPolicy(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	cfg.Quiz.TimeoutPolicy = "partial-credit"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestTTLDuration(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %s", got)
	}
	if got := TTLDuration("90s", time.Minute); got != 90*time.Second {
		t.Fatalf("expected 90s, got %s", got)
	}
	if got := TTLDuration("soon", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback on garbage, got %s", got)
	}
}
