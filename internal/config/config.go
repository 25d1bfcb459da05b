// Package config loads the finbooks.yaml configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"finbooks/internal/match"
)

// Config is the top-level finbooks.yaml structure.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
}

// DatabaseConfig locates the sqlite record store and the upload directory.
type DatabaseConfig struct {
	Path       string `yaml:"path"`
	UploadsDir string `yaml:"uploads_dir"`
}

// ThresholdsConfig tunes the match policy cutoffs. They map directly onto
// match.Thresholds; the 85/60 defaults match the stock policy.
type ThresholdsConfig struct {
	AutoMerge int `yaml:"auto_merge"`
	Review    int `yaml:"review"`
}

// MatchThresholds converts the config values into the scorer's policy type.
func (t ThresholdsConfig) MatchThresholds() match.Thresholds {
	return match.Thresholds{AutoMerge: t.AutoMerge, Review: t.Review}
}

// Default returns the stock configuration.
func Default() *Config {
	stock := match.DefaultThresholds()
	return &Config{
		Database: DatabaseConfig{
			Path:       "./data/finbooks.db",
			UploadsDir: "./data/uploads",
		},
		Thresholds: ThresholdsConfig{
			AutoMerge: stock.AutoMerge,
			Review:    stock.Review,
		},
	}
}

// Load reads a finbooks.yaml file. A missing file yields the defaults;
// present-but-invalid content is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	t := c.Thresholds
	if t.Review <= 0 || t.AutoMerge > 100 || t.Review > t.AutoMerge {
		return fmt.Errorf("invalid thresholds: review %d, auto_merge %d", t.Review, t.AutoMerge)
	}
	return nil
}
