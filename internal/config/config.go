package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where commands look for the project config.
const DefaultPath = "arcanist.yaml"

// DefaultMaxRepetitions bounds check repetitions when the config is silent.
const DefaultMaxRepetitions = 20

type ProjectConfig struct {
	Project  string         `yaml:"project" env:"ARCANIST_PROJECT"`
	Version  int            `yaml:"version"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Random   RandomConfig   `yaml:"random"`
	Checks   ChecksConfig   `yaml:"checks"`
	Format   FormatConfig   `yaml:"format"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"ARCANIST_DATABASE_DSN"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"ARCANIST_LOG_LEVEL"`
	Format string `yaml:"format" env:"ARCANIST_LOG_FORMAT"`
}

// RandomConfig pins the dice source. A nil Seed means a fresh crypto seed per process.
type RandomConfig struct {
	Seed *int64 `yaml:"seed" env:"ARCANIST_RANDOM_SEED"`
}

type ChecksConfig struct {
	MaxRepetitions int `yaml:"max_repetitions" env:"ARCANIST_MAX_REPETITIONS"`
}

type FormatConfig struct {
	Style string `yaml:"style" env:"ARCANIST_FORMAT_STYLE"`
}

// LoadProjectConfig reads path, applies ARCANIST_* environment overrides and
// fills defaults.
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: parse env: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *ProjectConfig) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Checks.MaxRepetitions == 0 {
		cfg.Checks.MaxRepetitions = DefaultMaxRepetitions
	}
	if cfg.Format.Style == "" {
		cfg.Format.Style = "markdown"
	}
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}

	dsn := strings.TrimSpace(cfg.Database.DSN)
	if dsn == "" {
		return fmt.Errorf("database dsn is required")
	}
	if !strings.HasPrefix(dsn, "sqlite://") && !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return fmt.Errorf("unsupported database dsn scheme: %s", dsn)
	}

	if cfg.Checks.MaxRepetitions < 1 {
		return fmt.Errorf("checks max_repetitions must be at least 1, got %d", cfg.Checks.MaxRepetitions)
	}

	switch cfg.Format.Style {
	case "markdown", "compact", "plain":
	default:
		return fmt.Errorf("unsupported format style: %s", cfg.Format.Style)
	}

	return nil
}

// Template is the arcanist.yaml written by `arcanist init`.
func Template(project string) string {
	return fmt.Sprintf("project: %s\nversion: 1\n\ndatabase:\n  dsn: sqlite://arcanist.sqlite\n\nlogging:\n  level: info\n  format: console\n\nchecks:\n  max_repetitions: %d\n\nformat:\n  style: markdown\n", project, DefaultMaxRepetitions)
}
