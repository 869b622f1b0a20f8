// Package config provides configuration loading and validation for the CLI.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. RESUME_ANALYZER_STRATEGY.
const EnvPrefix = "RESUME_ANALYZER"

// Config is the CLI configuration. It can come from a YAML, JSON or TOML file
// and from RESUME_ANALYZER_* environment variables; flags override both.
type Config struct {
	// Inputs
	Vocabulary string `mapstructure:"vocabulary"` // Skill vocabulary file, one term per line
	Taxonomy   string `mapstructure:"taxonomy"`   // TOML trait taxonomy and bonus keywords

	// Behavior
	NameStrategy string `mapstructure:"name_strategy" validate:"omitempty,oneof=strict loose"`
	Strategy     string `mapstructure:"strategy" validate:"omitempty,oneof=static dynamic"`
	Concurrency  int    `mapstructure:"concurrency" validate:"gte=0,lte=64"`
	UseBrowser   bool   `mapstructure:"use_browser"`

	// Storage
	DatabaseURL string `mapstructure:"database_url" validate:"omitempty,url"`
	OutputDir   string `mapstructure:"output_dir"`

	// Logging
	Verbose  bool `mapstructure:"verbose"`
	JSONLogs bool `mapstructure:"json_logs"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		NameStrategy: "strict",
		Strategy:     "static",
		Concurrency:  4,
		OutputDir:    ".",
	}
}

var configKeys = []string{
	"vocabulary", "taxonomy", "name_strategy", "strategy", "concurrency",
	"use_browser", "database_url", "output_dir", "verbose", "json_logs",
}

// LoadConfig reads the config file at path (format taken from its extension)
// and applies environment overrides. An empty path reads the environment only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks field values and that referenced files exist.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.Vocabulary != "" {
		if _, err := os.Stat(c.Vocabulary); os.IsNotExist(err) {
			return fmt.Errorf("config error: vocabulary file not found: %s", c.Vocabulary)
		}
	}
	if c.Taxonomy != "" {
		if _, err := os.Stat(c.Taxonomy); os.IsNotExist(err) {
			return fmt.Errorf("config error: taxonomy file not found: %s", c.Taxonomy)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// Bools are never merged since unset and false look the same.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Vocabulary == "" {
		result.Vocabulary = defaults.Vocabulary
	}
	if result.Taxonomy == "" {
		result.Taxonomy = defaults.Taxonomy
	}
	if result.NameStrategy == "" {
		result.NameStrategy = defaults.NameStrategy
	}
	if result.Strategy == "" {
		result.Strategy = defaults.Strategy
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}

	return result
}
