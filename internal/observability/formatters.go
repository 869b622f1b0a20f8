// Package observability provides verbose CLI output and Prometheus metrics.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

// PrintDocument summarizes an extracted document and shows its opening lines.
func (p *Printer) PrintDocument(source, mime string, chars int, text string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:   %s\n", source))
	sb.WriteString(fmt.Sprintf("Format:   %s\n", mime))
	sb.WriteString(fmt.Sprintf("Length:   %d chars\n", chars))

	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) > 0 && lines[0] != "" {
		sb.WriteString("\n")
		count := min(len(lines), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(lines[i] + "\n")
		}
		if len(lines) > count {
			sb.WriteString(fmt.Sprintf("... and %d more lines\n", len(lines)-count))
		}
	}

	p.printBox("EXTRACTED DOCUMENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSkills lists skills under the given title.
func (p *Printer) PrintSkills(title string, skills []string) {
	if len(skills) == 0 {
		p.printBox(title, "(none)")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d skills:\n\n", len(skills)))
	count := min(len(skills), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", skills[i]))
	}
	if len(skills) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(skills)-maxItemsToShow))
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTraits outputs trait counts, highest first.
func (p *Printer) PrintTraits(traits []types.TraitScore) {
	if len(traits) == 0 {
		return
	}

	var sb strings.Builder
	for _, t := range traits {
		sb.WriteString(fmt.Sprintf("%-14s %s %d\n", t.Trait, strings.Repeat("■", min(t.Count, 30)), t.Count))
	}

	p.printBox("PREDICTED TRAITS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatch outputs the job match score and the skills still missing.
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) PrintMatch(match *types.MatchResult) {
	if match == nil {
		return
	}
	if match.NoJobSkills {
		p.printBox("JOB MATCH", "No recognizable skills in the job description")
		return
	}
	if len(match.MissingSkills) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, fmt.Sprintf("✅ ALL %d JOB SKILLS MATCHED", len(match.JobSkills)))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score:    %d%% (%s)\n", match.ScorePercent, match.Band))
	sb.WriteString(fmt.Sprintf("Matched:  %d of %d\n\n", len(match.MatchedSkills), len(match.JobSkills)))
	sb.WriteString("Missing:\n")
	count := min(len(match.MissingSkills), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  ⚠ %s\n", match.MissingSkills[i]))
	}
	if len(match.MissingSkills) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(match.MissingSkills)-maxItemsToShow))
	}

	p.printBox("JOB MATCH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStep writes a one-line progress message.
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) PrintStep(step, source, message string) {
	if source == "" {
		fmt.Fprintf(p.out, "[%s] %s\n", step, message)
		return
	}
	fmt.Fprintf(p.out, "[%s] %s: %s\n", step, source, message)
}
