package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds HTTP server configuration parsed from environment variables.
type Config struct {
	Port             int           `env:"PORT" envDefault:"8080"`
	ReadTimeout      time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout     time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
	IdleTimeout      time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	RequestTimeout   time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"45s"`
	ShutdownTimeout  time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	MaxUploadMB      int64         `env:"MAX_UPLOAD_MB" envDefault:"10"`
	ReportTTL        time.Duration `env:"REPORT_TTL" envDefault:"30m"`
	MaxReports       int           `env:"MAX_REPORTS" envDefault:"1000"`
	CORSAllowOrigins string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
}

// LoadConfig parses Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse server config: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns the configuration with every default applied.
func DefaultConfig() Config {
	var cfg Config
	_ = env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}})
	return cfg
}

func (c Config) maxUploadBytes() int64 {
	if c.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return c.MaxUploadMB << 20
}

// ParseOrigins splits a comma-separated origin list, trimming spaces.
// An empty list allows every origin.
func ParseOrigins(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
