package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all SnapMatch configuration.
type Config struct {
	ImagesDir string      `yaml:"images_dir"`
	Cache     CacheConfig `yaml:"cache"`
}

// CacheConfig locates the persisted caches and sets the pruning default.
type CacheConfig struct {
	AnalysisPath  string `yaml:"analysis_path"`
	ExpansionPath string `yaml:"expansion_path"`
	MaxAgeDays    int    `yaml:"max_age_days"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		ImagesDir: "./images",
		Cache: CacheConfig{
			AnalysisPath:  "image_analysis_cache.json",
			ExpansionPath: "query_cache.json",
			MaxAgeDays:    30,
		},
	}
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}
