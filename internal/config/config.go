// Package config provides configuration loading and validation for the
// importer CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Config represents configuration that can be loaded from a JSON file with
// environment variable overrides. All fields are optional; missing values
// use defaults or must be provided via CLI flags.
type Config struct {
	DatabaseURL     string `json:"database_url,omitempty"`                                  // PostgreSQL connection URL
	Port            int    `json:"port,omitempty" validate:"min=0,max=65535"`               // HTTP server port
	AchievementsURL string `json:"achievements_url,omitempty" validate:"omitempty,url"`     // Achievement evaluation endpoint; empty disables dispatch
	MaxUploadBytes  int64  `json:"max_upload_bytes,omitempty" validate:"min=0"`             // Upload size cap for /imports
	Verbose         bool   `json:"verbose,omitempty"`                                       // Print per-row detail tables
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv returns a config populated from environment variables. Used as the
// fallback layer beneath an optional config file.
func FromEnv() Config {
	cfg := Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		AchievementsURL: os.Getenv("ACHIEVEMENTS_URL"),
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if limit := os.Getenv("MAX_UPLOAD_BYTES"); limit != "" {
		if n, err := strconv.ParseInt(limit, 10, 64); err == nil {
			cfg.MaxUploadBytes = n
		}
	}
	return cfg
}

// Validate checks that the configuration has valid values using the
// validator. Required fields are not checked here; those are handled by CLI
// flag validation after merging.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply environment values beneath config file
// values, and config file values beneath CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.AchievementsURL == "" {
		result.AchievementsURL = defaults.AchievementsURL
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
