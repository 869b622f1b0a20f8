// Package main provides the entry point for the resume analyzer CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/logger"
)

var (
	configPath   string
	vocabPath    string
	taxonomyPath string
	databaseURL  string
	debugLogs    bool
	jsonLogs     bool
	verbose      bool
)

// settings and log are resolved once per invocation by loadSettings.
var (
	settings config.Config
	log      = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "resume_analyzer",
	Short: "Resume analysis and job description matching",
	Long: `Resume Analyzer extracts candidate details, skills, personality traits and tone
from a resume, scores it for ATS friendliness and matches it against a job description.
Reports are printed as text and can be saved as PDF or JSON.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (YAML, JSON or TOML)")
	rootCmd.PersistentFlags().StringVar(&vocabPath, "vocab", "", "Skill vocabulary file, one term per line")
	rootCmd.PersistentFlags().StringVar(&taxonomyPath, "taxonomy", "", "TOML file with trait rules and ATS bonus keywords")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "db-url", "", "PostgreSQL URL holding the skill vocabulary")
	rootCmd.PersistentFlags().BoolVar(&debugLogs, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Write logs as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print each extraction step")
}

// loadSettings merges the config file, RESUME_ANALYZER_* variables and flags.
func loadSettings(_ *cobra.Command, _ []string) error {
	loaded, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if vocabPath != "" {
		loaded.Vocabulary = vocabPath
	}
	if taxonomyPath != "" {
		loaded.Taxonomy = taxonomyPath
	}
	if databaseURL != "" {
		loaded.DatabaseURL = databaseURL
	}
	if databaseURL == "" && loaded.DatabaseURL == "" {
		loaded.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	loaded.Verbose = loaded.Verbose || verbose
	loaded.JSONLogs = loaded.JSONLogs || jsonLogs

	merged := loaded.MergeWithDefaults(config.Defaults())
	if err := merged.Validate(); err != nil {
		return err
	}

	l, err := logger.New(merged.JSONLogs, debugLogs)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	settings = merged
	log = l
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	err := rootCmd.Execute()
	_ = log.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
