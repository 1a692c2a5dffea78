// Package config loads application settings: built-in defaults, then an
// optional YAML file, then CAREERCOACH_* environment variables. Command
// line flags are applied on top by cmd.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/careercoach/internal/llm"
	"github.com/abhisek/careercoach/internal/roadmap"
)

// Config holds every setting the application reads at startup.
type Config struct {
	// Users is the profile store: a JSON file path, a *.db / sqlite: path,
	// or a postgres:// URL.
	Users string `env:"USERS" yaml:"users"`

	// DBPath is the event database. Empty means the XDG data directory.
	DBPath string `env:"DB" yaml:"db"`

	// Questions is the number of questions per weekly assessment.
	Questions int `env:"QUESTIONS" yaml:"questions"`

	// ScorePolicy is "replace" or "accumulate".
	ScorePolicy string `env:"SCORE_POLICY" yaml:"score_policy"`

	// StructuredQuestions requests schema-constrained question output.
	StructuredQuestions bool `env:"STRUCTURED_QUESTIONS" yaml:"structured_questions"`

	// SnapshotKeep is how many archived roadmaps to keep per user.
	SnapshotKeep int `env:"SNAPSHOT_KEEP" yaml:"snapshot_keep"`

	LogLevel string `env:"LOG_LEVEL" yaml:"log_level"`
	LogFile  string `env:"LOG_FILE" yaml:"log_file"`

	LLM llm.Config `yaml:"llm"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Users:        "users_db.json",
		Questions:    20,
		ScorePolicy:  string(roadmap.DefaultPolicy),
		SnapshotKeep: 10,
		LogLevel:     "info",
		LLM:          llm.DefaultConfig(),
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/careercoach/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "careercoach", "config.yaml"), nil
}

// Load builds the configuration. An empty path means DefaultPath, which
// may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	if err := loadFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: llm.EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	return cfg, cfg.Validate()
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return nil
}

// Validate checks settings that have no safe fallback.
func (c Config) Validate() error {
	if _, err := roadmap.ParsePolicy(c.ScorePolicy); err != nil {
		return err
	}
	if c.Questions < 1 {
		return fmt.Errorf("questions must be at least 1, got %d", c.Questions)
	}
	if c.SnapshotKeep < 0 {
		return fmt.Errorf("snapshot_keep must not be negative, got %d", c.SnapshotKeep)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Policy returns the parsed score policy. Call after Validate.
func (c Config) Policy() roadmap.ScorePolicy {
	p, err := roadmap.ParsePolicy(c.ScorePolicy)
	if err != nil {
		return roadmap.DefaultPolicy
	}
	return p
}
