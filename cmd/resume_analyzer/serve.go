package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/server"
	"github.com/jonathan/resume-analyzer/internal/server/ratelimit"
)

var (
	servePort       int
	serveUseBrowser bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes REST endpoints for analyzing resumes and matching
them against job descriptions. Server settings come from the environment (PORT,
MAX_UPLOAD_MB, REPORT_TTL, CORS_ALLOW_ORIGINS, RATE_LIMIT_*).`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().BoolVar(&serveUseBrowser, "use-browser", false, "Render job posting URLs in headless Chrome when needed")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := server.LoadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	limits, err := ratelimit.LoadConfig()
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics()
	analyzer, err := newAnalyzer(cmd.Context(), "", "", metrics)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, server.Dependencies{
		Analyzer:  analyzer,
		Extractor: ingestion.NewDetectingExtractor(),
		Jobs:      newJobSource(serveUseBrowser),
		Metrics:   metrics,
		Limiter:   ratelimit.NewLimiter(limits),
		Logger:    log,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("vocabulary loaded", zap.Int("terms", analyzer.Vocabulary().Len()))
	return srv.Run(ctx)
}
