package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/rendering"
	"github.com/jonathan/resume-analyzer/internal/schemas"
	"github.com/jonathan/resume-analyzer/internal/types"
)

var reportCmd = &cobra.Command{
	Use:   "report <report.json>",
	Short: "Render a saved JSON report",
	Long:  "Validates a report saved with 'analyze --save-json' and prints it as text or writes it as a PDF.",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

var (
	reportSections []string
	reportPDF      string
)

func init() {
	reportCmd.Flags().StringSliceVarP(&reportSections, "section", "s", nil, "Sections to print: candidate, skills, traits, tone, ats, match or all")
	reportCmd.Flags().StringVar(&reportPDF, "pdf", "", "Write the report as PDF to this path instead of printing it")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	report, err := readReport(args[0])
	if err != nil {
		return err
	}

	if reportPDF != "" {
		var buf bytes.Buffer
		if err := rendering.RenderPDF(&buf, report); err != nil {
			return err
		}
		if err := os.WriteFile(reportPDF, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", reportPDF, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved PDF report to %s\n", reportPDF)
		return nil
	}

	sections, err := rendering.ParseSections(reportSections)
	if err != nil {
		return err
	}
	text, err := rendering.RenderText(report, sections...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), text)
	return err
}

// readReport loads a report file after checking it against the report schema.
func readReport(path string) (*types.Report, error) {
	if err := schemas.ValidateReportFile(path); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}
	var report types.Report
	if err := json.Unmarshal(content, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report JSON: %w", err)
	}
	return &report, nil
}
