package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/matching"
	"github.com/jonathan/resume-analyzer/internal/rendering"
	"github.com/jonathan/resume-analyzer/internal/skills"
	"github.com/jonathan/resume-analyzer/internal/types"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match a resume against a job description",
	Long:  "Compares the skills found in a resume with those found in a job description and prints the match score.",
	RunE:  runMatch,
}

var (
	matchResume     string
	matchJob        string
	matchJSON       bool
	matchUseBrowser bool
)

func init() {
	matchCmd.Flags().StringVarP(&matchResume, "resume", "r", "", "Path to resume file (required)")
	matchCmd.Flags().StringVarP(&matchJob, "job", "j", "", "Job description text, file or URL (required)")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "Print the match result as JSON")
	matchCmd.Flags().BoolVar(&matchUseBrowser, "use-browser", false, "Render job posting URLs in headless Chrome when needed")

	if err := matchCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}
	if err := matchCmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}

	rootCmd.AddCommand(matchCmd)
}

type matchOutput struct {
	Source       string            `json:"source"`
	ResumeSkills []string          `json:"resume_skills"`
	Match        types.MatchResult `json:"match"`
}

func runMatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	vocab, err := loadVocabulary(ctx)
	if err != nil {
		return err
	}
	resume, err := ingestion.ReadResume(ctx, matchResume, nil)
	if err != nil {
		return fmt.Errorf("failed to read resume %s: %w", matchResume, err)
	}
	job, err := newJobSource(matchUseBrowser).Resolve(ctx, matchJob)
	if err != nil {
		return fmt.Errorf("failed to load job description: %w", err)
	}

	resumeSkills := skills.Match(resume.Text, vocab)
	result := matching.Match(resumeSkills, skills.Match(job.Text, vocab))

	if matchJSON {
		data, err := json.MarshalIndent(matchOutput{Source: matchResume, ResumeSkills: resumeSkills, Match: result}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal match result: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	text, err := rendering.RenderText(&types.Report{Source: matchResume, Skills: resumeSkills, Match: &result},
		rendering.SectionSkills, rendering.SectionMatch)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), text)
	return err
}
