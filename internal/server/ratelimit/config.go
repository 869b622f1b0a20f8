package ratelimit

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// EndpointConfig limits one method and path. A Path ending in "/" matches by prefix.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int           // Requests per Window
	Window time.Duration
	Burst  int // Bucket capacity; Limit when zero
}

// Config holds rate limiting configuration. Fields are read from RATE_LIMIT_* variables.
type Config struct {
	Enabled         bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	DefaultLimit    int           `env:"RATE_LIMIT_DEFAULT_LIMIT" envDefault:"600"`
	DefaultWindow   time.Duration `env:"RATE_LIMIT_DEFAULT_WINDOW" envDefault:"1m"`
	CleanupInterval time.Duration `env:"RATE_LIMIT_CLEANUP_INTERVAL" envDefault:"5m"`
	IdleTTL         time.Duration `env:"RATE_LIMIT_IDLE_TTL" envDefault:"1h"`
	Whitelist       []string      `env:"RATE_LIMIT_WHITELIST" envSeparator:","`
	Blacklist       []string      `env:"RATE_LIMIT_BLACKLIST" envSeparator:","`

	Endpoints []EndpointConfig `env:"-"`
}

// LoadConfig reads the configuration from the environment and attaches
// DefaultEndpointConfigs.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse rate limit config: %w", err)
	}
	cfg.Endpoints = DefaultEndpointConfigs()
	return cfg, nil
}

// DefaultEndpointConfigs returns the per-endpoint limits. Analysis parses
// uploaded documents so it is limited hardest.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/analyze", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/match", Method: "POST", Limit: 300, Window: time.Minute, Burst: 30},
		{Path: "/reports/", Method: "GET", Limit: 300, Window: time.Minute, Burst: 30},
	}
}
