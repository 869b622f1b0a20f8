package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate <report.json> [report.json...]",
	Short: "Validate saved JSON reports against the report schema",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	failed := 0
	for _, path := range args {
		err := schemas.ValidateReportFile(path)
		var validationErr *schemas.ValidationError
		switch {
		case err == nil:
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s: Validation passed\n", path)
		case errors.As(err, &validationErr):
			failed++
			fmt.Fprintf(cmd.OutOrStdout(), "❌ %s: %s", path, validationErr.Error())
		default:
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("validation failed for %d of %d reports", failed, len(args))
	}
	return nil
}
