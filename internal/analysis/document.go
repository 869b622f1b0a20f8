package analysis

import (
	"context"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// AnalyzeDocument analyzes an ingested resume against an optional ingested
// job description. The report source is the resume's metadata source.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, resume, job *ingestion.Document, overrides Input) (*types.Report, error) {
	in := overrides
	if resume != nil {
		in.ResumeText = resume.Text
		if in.Source == "" && resume.Metadata != nil {
			in.Source = resume.Metadata.Source
		}
	}
	if job != nil {
		in.JobText = job.Text
	}
	return a.Analyze(ctx, in)
}
