package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/rendering"
	"github.com/jonathan/resume-analyzer/internal/schemas"
	"github.com/jonathan/resume-analyzer/internal/types"
)

var (
	analyzeJob          string
	analyzeStrategy     string
	analyzeNameStrategy string
	analyzeSections     []string
	analyzeInteractive  bool
	analyzePDF          bool
	analyzeSaveJSON     bool
	analyzeUseBrowser   bool
	analyzeOutputDir    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume> [resume...]",
	Short: "Analyze one or more resumes",
	Long: `Extract candidate details, skills, personality traits and tone from each resume
(PDF, DOCX or plain text), score it for ATS friendliness and, when --job is given,
match it against the job description. --job accepts text, a file path or a URL.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeJob, "job", "j", "", "Job description text, file or URL")
	analyzeCmd.Flags().StringVar(&analyzeStrategy, "strategy", "", "ATS scoring strategy (static or dynamic)")
	analyzeCmd.Flags().StringVar(&analyzeNameStrategy, "name-strategy", "", "Name heuristic (strict or loose)")
	analyzeCmd.Flags().StringSliceVarP(&analyzeSections, "section", "s", nil, "Sections to print: candidate, skills, traits, tone, ats, match or all")
	analyzeCmd.Flags().BoolVarP(&analyzeInteractive, "interactive", "i", false, "Choose sections to view from a menu")
	analyzeCmd.Flags().BoolVar(&analyzePDF, "pdf", false, "Write <name>-report.pdf to the output directory")
	analyzeCmd.Flags().BoolVar(&analyzeSaveJSON, "save-json", false, "Write <name>-report.json to the output directory")
	analyzeCmd.Flags().BoolVar(&analyzeUseBrowser, "use-browser", false, "Render job posting URLs in headless Chrome when needed")
	analyzeCmd.Flags().StringVarP(&analyzeOutputDir, "output-dir", "o", "", "Directory for saved reports")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	sections, err := rendering.ParseSections(analyzeSections)
	if err != nil {
		return err
	}
	if analyzeOutputDir != "" {
		settings.OutputDir = analyzeOutputDir
	}

	var printer *observability.Printer
	if settings.Verbose {
		printer = observability.NewPrinter(cmd.ErrOrStderr())
	}

	analyzer, err := newAnalyzer(ctx, analyzeStrategy, analyzeNameStrategy, nil)
	if err != nil {
		return err
	}

	job, err := newJobSource(analyzeUseBrowser).Resolve(ctx, analyzeJob)
	if err != nil {
		return fmt.Errorf("failed to load job description: %w", err)
	}
	if printer != nil && job.Text != "" {
		printer.PrintDocument(job.Metadata.Source, job.Metadata.MIME, job.Metadata.Chars, job.Text)
	}

	// AnalyzeBatch reports progress from several goroutines.
	var printMu sync.Mutex
	extractor := ingestion.NewDetectingExtractor()
	inputs := make([]analysis.Input, 0, len(args))
	for _, path := range args {
		doc, err := ingestion.ReadResume(ctx, path, extractor)
		if err != nil {
			return fmt.Errorf("failed to read resume %s: %w", path, err)
		}
		if printer != nil {
			printer.PrintDocument(doc.Metadata.Source, doc.Metadata.MIME, doc.Metadata.Chars, doc.Text)
		}
		in := analysis.Input{Source: path, ResumeText: doc.Text, JobText: job.Text}
		if printer != nil {
			in.OnProgress = func(e analysis.ProgressEvent) {
				printMu.Lock()
				defer printMu.Unlock()
				printer.PrintStep(e.Step, e.Source, e.Message)
			}
		}
		inputs = append(inputs, in)
	}

	reports, err := analyzer.AnalyzeBatch(ctx, inputs)
	if err != nil {
		return err
	}

	for i, report := range reports {
		if i > 0 {
			fmt.Fprintf(out, "\n%s\n\n", strings.Repeat("=", 60))
		}
		if printer != nil {
			printer.PrintSkills("Extracted Skills", report.Skills)
			printer.PrintTraits(report.Traits)
			printer.PrintMatch(report.Match)
		}

		if analyzeInteractive {
			if err := browseSections(out, report); err != nil {
				return err
			}
		} else {
			text, err := rendering.RenderText(report, sections...)
			if err != nil {
				return err
			}
			fmt.Fprint(out, text)
		}

		if err := saveReport(cmd.ErrOrStderr(), args[i], report); err != nil {
			return err
		}
	}
	return nil
}

// saveReport writes the PDF and JSON renditions requested by flags.
func saveReport(w io.Writer, resumePath string, report *types.Report) error {
	if !analyzePDF && !analyzeSaveJSON {
		return nil
	}
	if err := os.MkdirAll(settings.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	stem := strings.TrimSuffix(filepath.Base(resumePath), filepath.Ext(resumePath))

	if analyzePDF {
		var buf bytes.Buffer
		if err := rendering.RenderPDF(&buf, report); err != nil {
			return err
		}
		path := filepath.Join(settings.OutputDir, stem+"-report.pdf")
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		log.Debug("pdf report written", zap.String("path", path))
		fmt.Fprintf(w, "Saved PDF report to %s\n", path)
	}

	if analyzeSaveJSON {
		if err := schemas.ValidateReport(report); err != nil {
			return err
		}
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		path := filepath.Join(settings.OutputDir, stem+"-report.json")
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(w, "Saved JSON report to %s\n", path)
	}
	return nil
}

const menuDone = "Done"

// chooseSection asks which section to show next. Tests replace it.
var chooseSection = func(items []string) (string, error) {
	prompt := promptui.Select{
		Label: "Choose a section to view",
		Items: items,
		Size:  len(items),
	}
	_, selected, err := prompt.Run()
	return selected, err
}

// browseSections shows the sections picked from a menu until the user is done.
func browseSections(w io.Writer, report *types.Report) error {
	titles := make(map[string]rendering.Section)
	items := make([]string, 0, len(rendering.SectionTitles)+1)
	for _, s := range append(rendering.AllSections(), rendering.SectionAll) {
		title := rendering.SectionTitles[s]
		titles[title] = s
		items = append(items, title)
	}
	items = append(items, menuDone)

	for {
		selected, err := chooseSection(items)
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if selected == menuDone {
			return nil
		}
		text, err := rendering.RenderText(report, titles[selected])
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\n%s\n", text)
	}
}
