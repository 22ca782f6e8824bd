// Package config handles configuration loading and validation for
// taskwright.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Extraction Extraction `yaml:"extraction"`
	Learning   Learning   `yaml:"learning"`
	Cleanup    Cleanup    `yaml:"cleanup"`
	DataDir    string     `yaml:"-"` // set by caller, not from config file
}

// Extraction tunes the candidate extractor.
type Extraction struct {
	// MaxCandidates caps how many candidates one message may yield.
	MaxCandidates int `yaml:"max_candidates"`
	// MinConfidence drops candidates at or below this score. An explicit
	// zero keeps every candidate with positive confidence.
	MinConfidence float64 `yaml:"min_confidence"`
}

// Learning tunes the adaptive estimate model.
type Learning struct {
	// Window is how many recent outcomes each accuracy buffer retains.
	Window int `yaml:"window"`
}

// Cleanup controls pruning of old completed tasks.
type Cleanup struct {
	// Days is the default age threshold for `taskwright prune`.
	Days int `yaml:"days"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Extraction: Extraction{
			MaxCandidates: 3,
			MinConfidence: 0.3,
		},
		Learning: Learning{
			Window: 20,
		},
		Cleanup: Cleanup{
			Days: 30,
		},
	}
}

// Load reads configuration from the given path and sets the data
// directory. If configPath is empty or doesn't exist, returns defaults
// with the provided dataDir. The file is decoded over the defaults, so
// absent keys keep their default and explicit values are honored as
// written, including a zero min_confidence.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// StatePath is the location of the whole-state JSON file.
func (c *Config) StatePath() string {
	return filepath.Join(c.DataDir, "tasks.json")
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}
	if c.Extraction.MaxCandidates < 1 {
		return fmt.Errorf("extraction.max_candidates must be at least 1")
	}
	if c.Extraction.MinConfidence < 0 || c.Extraction.MinConfidence >= 1 {
		return fmt.Errorf("extraction.min_confidence must be in [0, 1)")
	}
	if c.Learning.Window < 1 {
		return fmt.Errorf("learning.window must be at least 1")
	}
	if c.Cleanup.Days < 1 {
		return fmt.Errorf("cleanup.days must be at least 1")
	}
	return nil
}
