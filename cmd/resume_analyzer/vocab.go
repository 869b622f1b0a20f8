package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/db"
	"github.com/jonathan/resume-analyzer/internal/skills"
)

var vocabImportCmd = &cobra.Command{
	Use:   "vocab-import <skills.txt>",
	Short: "Import a skill vocabulary file into PostgreSQL",
	Long: `Reads a vocabulary file (one skill per line) and stores its terms in the
skill_vocabulary table so that other commands can use --db-url instead of --vocab.`,
	Args: cobra.ExactArgs(1),
	RunE: runVocabImport,
}

var vocabImportReplace bool

func init() {
	vocabImportCmd.Flags().BoolVar(&vocabImportReplace, "replace", false, "Replace the stored vocabulary instead of adding to it")
	rootCmd.AddCommand(vocabImportCmd)
}

func runVocabImport(cmd *cobra.Command, args []string) error {
	if settings.DatabaseURL == "" {
		return fmt.Errorf("a database is required: use --db-url or DATABASE_URL")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open vocabulary file: %w", err)
	}
	defer f.Close()
	vocab, err := skills.LoadVocabulary(f)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := db.Connect(ctx, settings.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}
	written, err := store.ImportVocabulary(ctx, vocab.Terms(), vocabImportReplace)
	if err != nil {
		return err
	}
	total, err := store.CountVocabulary(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d new terms (%d total)\n", written, total)
	return nil
}
