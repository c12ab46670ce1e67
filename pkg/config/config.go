// Package config loads the optional fiber.yaml runtime configuration.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/scheduler"
)

// FileName is the configuration file looked up by LoadOptional.
const FileName = "fiber.yaml"

// Config represents the optional fiber.yaml configuration.
type Config struct {
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Reconciler ReconcilerConfig `yaml:"reconciler"`
	Log        LogConfig        `yaml:"log"`
}

// SchedulerConfig contains scheduler settings.
type SchedulerConfig struct {
	FrameInterval time.Duration  `yaml:"frameInterval,omitempty"`
	Timeouts      TimeoutsConfig `yaml:"timeouts"`
}

// TimeoutsConfig overrides per-priority expiration budgets. Zero keeps the
// default.
type TimeoutsConfig struct {
	UserBlocking time.Duration `yaml:"userBlocking,omitempty"`
	Normal       time.Duration `yaml:"normal,omitempty"`
	Low          time.Duration `yaml:"low,omitempty"`
}

// ReconcilerConfig contains reconciler settings.
type ReconcilerConfig struct {
	// Debug enables render and commit diagnostics.
	Debug bool `yaml:"debug,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
}

// Resolved contains validated configuration values with defaults applied.
type Resolved struct {
	// Source is the file the values came from, or "" for defaults.
	Source        string
	FrameInterval time.Duration
	Timeouts      scheduler.Timeouts
	Debug         bool
	LogLevel      slog.Level
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return parse(path, data)
}

// LoadOptional reads fiber.yaml from dir if present.
func LoadOptional(dir string) (*Config, string, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, "", nil
		}
		return nil, "", fmt.Errorf("failed to read %s: %w", FileName, err)
	}
	cfg, err := parse(path, data)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func parse(path string, data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Resolve loads the configuration and applies defaults. An explicit path
// must exist; otherwise fiber.yaml in dir is used when present.
func Resolve(dir, path string) (*Resolved, error) {
	var (
		cfg *Config
		err error
	)
	if path != "" {
		cfg, err = Load(path)
	} else {
		cfg, path, err = LoadOptional(dir)
	}
	if err != nil {
		return nil, err
	}
	resolved, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	resolved.Source = path
	return resolved, nil
}

// Resolve validates cfg and fills in defaults.
func (cfg *Config) Resolve() (*Resolved, error) {
	r := &Resolved{
		FrameInterval: scheduler.DefaultFrameInterval,
		Timeouts:      scheduler.DefaultTimeouts,
		Debug:         cfg.Reconciler.Debug,
		LogLevel:      slog.LevelInfo,
	}

	durations := []struct {
		name  string
		value time.Duration
		dst   *time.Duration
	}{
		{"scheduler.frameInterval", cfg.Scheduler.FrameInterval, &r.FrameInterval},
		{"scheduler.timeouts.userBlocking", cfg.Scheduler.Timeouts.UserBlocking, &r.Timeouts.UserBlocking},
		{"scheduler.timeouts.normal", cfg.Scheduler.Timeouts.Normal, &r.Timeouts.Normal},
		{"scheduler.timeouts.low", cfg.Scheduler.Timeouts.Low, &r.Timeouts.Low},
	}
	for _, d := range durations {
		if d.value < 0 {
			return nil, invalid(fmt.Errorf("%s must not be negative, got %s", d.name, d.value))
		}
		if d.value > 0 {
			*d.dst = d.value
		}
	}

	if level := strings.TrimSpace(cfg.Log.Level); level != "" {
		if err := r.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return nil, invalid(fmt.Errorf("log.level: %w", err))
		}
	} else if r.Debug {
		r.LogLevel = slog.LevelDebug
	}
	return r, nil
}

func invalid(err error) error {
	return &errors.ReconcileError{
		Op:   "config.Resolve",
		Kind: errors.KindConfig,
		Err:  err,
	}
}

// SchedulerOptions returns the scheduler options for r.
func (r *Resolved) SchedulerOptions() []scheduler.Option {
	return []scheduler.Option{
		scheduler.WithFrameInterval(r.FrameInterval),
		scheduler.WithTimeouts(r.Timeouts),
	}
}

// Logger returns a text logger writing to w at r's level.
func (r *Resolved) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: r.LogLevel}))
}
