package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
strategy: dynamic
name_strategy: loose
concurrency: 8
verbose: true
database_url: postgres://localhost:5432/vocab
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "dynamic", cfg.Strategy)
	assert.Equal(t, "loose", cfg.NameStrategy)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "postgres://localhost:5432/vocab", cfg.DatabaseURL)
}

func TestLoadConfig_TOML(t *testing.T) {
	path := writeFile(t, "config.toml", "strategy = \"static\"\noutput_dir = \"out\"\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "static", cfg.Strategy)
	assert.Equal(t, "out", cfg.OutputDir)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "config.json", `{"strategy": "static"}`)
	t.Setenv("RESUME_ANALYZER_STRATEGY", "dynamic")
	t.Setenv("RESUME_ANALYZER_NAME_STRATEGY", "loose")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "dynamic", cfg.Strategy)
	assert.Equal(t, "loose", cfg.NameStrategy)
}

func TestLoadConfig_EmptyPathReadsEnv(t *testing.T) {
	t.Setenv("RESUME_ANALYZER_OUTPUT_DIR", "/tmp/reports")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/reports", cfg.OutputDir)
}

func TestLoadConfig_InvalidContent(t *testing.T) {
	path := writeFile(t, "config.json", `{ invalid json }`)

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	vocab := writeFile(t, "skills.txt", "python\n")

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "defaults", cfg: Defaults()},
		{name: "existing vocabulary", cfg: Config{Vocabulary: vocab}},
		{name: "bad strategy", cfg: Config{Strategy: "fuzzy"}, wantErr: "Strategy"},
		{name: "bad name strategy", cfg: Config{NameStrategy: "guess"}, wantErr: "NameStrategy"},
		{name: "negative concurrency", cfg: Config{Concurrency: -1}, wantErr: "Concurrency"},
		{name: "bad database url", cfg: Config{DatabaseURL: "not a url"}, wantErr: "DatabaseURL"},
		{name: "missing vocabulary", cfg: Config{Vocabulary: "/nonexistent/skills.txt"}, wantErr: "vocabulary file not found"},
		{name: "missing taxonomy", cfg: Config{Taxonomy: "/nonexistent/taxonomy.toml"}, wantErr: "taxonomy file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Strategy: "dynamic", Vocabulary: "mine.txt"}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, "dynamic", merged.Strategy)
	assert.Equal(t, "mine.txt", merged.Vocabulary)
	assert.Equal(t, "strict", merged.NameStrategy)
	assert.Equal(t, 4, merged.Concurrency)
	assert.Equal(t, ".", merged.OutputDir)
}
