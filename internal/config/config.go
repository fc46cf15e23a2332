package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSourceURL is the public sentence-construction question set.
const DefaultSourceURL = "https://raw.githubusercontent.com/Srinithi2905/Sentence-Construction/main/db.json"

// Timeout policies for questions that run out of time.
const (
	TimeoutKeepPartial = "keep_partial"
	TimeoutDiscard     = "discard"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz    QuizConfig `yaml:"quiz"`
	Sources []Source   `yaml:"sources"`
	HTTP    struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"http"`
	WS struct {
		MessagesPerSecond float64 `yaml:"messages_per_second"`
		Burst             int     `yaml:"burst"`
	} `yaml:"ws"`
	Log LogConfig `yaml:"log"`
}

// QuizConfig tunes session behaviour.
type QuizConfig struct {
	TTL           string `yaml:"ttl"`
	BudgetSeconds int    `yaml:"budget_seconds"`
	TickInterval  string `yaml:"tick_interval"`
	TimeoutPolicy string `yaml:"timeout_policy"`
	DefaultSource string `yaml:"default_source"`
}

// Source names a remote question-set document.
type Source struct {
	ID  string `yaml:"id"`
	URL string `yaml:"url"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads YAML config from path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Quiz.BudgetSeconds == 0 {
		c.Quiz.BudgetSeconds = 30
	}
	if c.Quiz.TimeoutPolicy == "" {
		c.Quiz.TimeoutPolicy = TimeoutDiscard
	}
	if c.Quiz.DefaultSource == "" {
		c.Quiz.DefaultSource = "default"
	}
	if len(c.Sources) == 0 {
		c.Sources = []Source{{ID: c.Quiz.DefaultSource, URL: DefaultSourceURL}}
	}
	if c.WS.MessagesPerSecond == 0 {
		c.WS.MessagesPerSecond = 20
	}
	if c.WS.Burst == 0 {
		c.WS.Burst = 40
	}
}

// Validate rejects configurations the service cannot run with.
func (c Config) Validate() error {
	if c.Quiz.BudgetSeconds < 0 {
		return fmt.Errorf("quiz.budget_seconds must not be negative")
	}
	switch c.Quiz.TimeoutPolicy {
	case TimeoutKeepPartial, TimeoutDiscard:
	default:
		return fmt.Errorf("quiz.timeout_policy %q must be %s or %s", c.Quiz.TimeoutPolicy, TimeoutKeepPartial, TimeoutDiscard)
	}
	seen := make(map[string]struct{}, len(c.Sources))
	for i, src := range c.Sources {
		if src.ID == "" || src.URL == "" {
			return fmt.Errorf("sources[%d] needs both id and url", i)
		}
		if _, dup := seen[src.ID]; dup {
			return fmt.Errorf("sources[%d]: duplicate id %q", i, src.ID)
		}
		seen[src.ID] = struct{}{}
	}
	return nil
}

// SourceURLs maps source id to document URL.
func (c Config) SourceURLs() map[string]string {
	out := make(map[string]string, len(c.Sources))
	for _, src := range c.Sources {
		out[src.ID] = src.URL
	}
	return out
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
