package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/scoring"
)

func TestAnalyzeDocument_UsesMetadataSource(t *testing.T) {
	a := newTestAnalyzer(t, nil)

	resume := &ingestion.Document{Text: sampleResume, Metadata: ingestion.NewMetadata("jane.pdf", ingestion.MIMEPDF, sampleResume)}
	job := ingestion.JobFromText("Looking for   SQL and python")

	report, err := a.AnalyzeDocument(context.Background(), resume, job, Input{Strategy: scoring.StrategyDynamic})
	require.NoError(t, err)

	assert.Equal(t, "jane.pdf", report.Source)
	assert.Equal(t, scoring.StrategyDynamic, report.ATS.Strategy)
	require.NotNil(t, report.Match)
	assert.Equal(t, []string{"python"}, report.Match.MatchedSkills)
}

func TestAnalyzeDocument_NoJob(t *testing.T) {
	a := newTestAnalyzer(t, nil)

	resume := &ingestion.Document{Text: sampleResume}
	report, err := a.AnalyzeDocument(context.Background(), resume, nil, Input{Source: "override"})
	require.NoError(t, err)

	assert.Equal(t, "override", report.Source)
	assert.Nil(t, report.Match)
}
