package main

import (
	"fmt"
	"os"
	"time"

	"github.com/plus3/behave/ecs"
	"gopkg.in/yaml.v3"
)

// Config describes a stress run. Flags override values loaded from the YAML file.
type Config struct {
	Duration       time.Duration `yaml:"duration"`
	Entities       int           `yaml:"entities"`
	FrameInterval  time.Duration `yaml:"frame_interval"`
	Priorities     []string      `yaml:"priorities"`
	ChurnPerFrame  int           `yaml:"churn_per_frame"`
	Lifetime       float64       `yaml:"lifetime"`
	GCPauseMetrics bool          `yaml:"gc_pause_metrics"`
	Profile        string        `yaml:"profile"`
	Snapshot       string        `yaml:"snapshot"`
	Log            LogConfig     `yaml:"log"`
}

// LogConfig mirrors the zap settings the tool exposes.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		Duration:      10 * time.Second,
		Entities:      10000,
		Priorities:    []string{"Normal"},
		ChurnPerFrame: 10,
		Lifetime:      5,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig overlays the YAML file at path on the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks values that would make the run meaningless.
func (c Config) Validate() error {
	if c.Entities < 0 {
		return fmt.Errorf("entities must not be negative, got %d", c.Entities)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %s", c.Duration)
	}
	if _, err := c.PriorityMix(); err != nil {
		return err
	}
	switch c.Profile {
	case "", "cpu", "mem":
	default:
		return fmt.Errorf("unknown profile mode %q", c.Profile)
	}
	return nil
}

// PriorityMix resolves the configured priority names. Entities cycle through them.
func (c Config) PriorityMix() ([]ecs.Priority, error) {
	if len(c.Priorities) == 0 {
		return []ecs.Priority{ecs.Normal}, nil
	}
	mix := make([]ecs.Priority, 0, len(c.Priorities))
	for _, name := range c.Priorities {
		p, ok := ecs.ParsePriority(name)
		if !ok {
			return nil, fmt.Errorf("unknown priority %q", name)
		}
		mix = append(mix, p)
	}
	return mix, nil
}
