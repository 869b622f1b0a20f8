// Package analysis runs the full resume analysis: field extraction, skills,
// traits, tone, ATS scoring and job matching.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/logger"
	"github.com/jonathan/resume-analyzer/internal/matching"
	"github.com/jonathan/resume-analyzer/internal/parsing"
	"github.com/jonathan/resume-analyzer/internal/scoring"
	"github.com/jonathan/resume-analyzer/internal/skills"
	"github.com/jonathan/resume-analyzer/internal/tone"
	"github.com/jonathan/resume-analyzer/internal/traits"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Analysis steps reported through ProgressEvent.Step.
const (
	StepFields = "extract_fields"
	StepSkills = "match_skills"
	StepTraits = "predict_traits"
	StepTone   = "assess_tone"
	StepATS    = "score_ats"
	StepMatch  = "match_job"
	StepDone   = "done"
)

// ProgressEvent is emitted after each analysis step.
type ProgressEvent struct {
	Step    string `json:"step"`
	Source  string `json:"source"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback receives progress events. It may be called from several
// goroutines during AnalyzeBatch.
type ProgressCallback func(event ProgressEvent)

// Recorder observes completed analyses.
type Recorder interface {
	ObserveAnalysis(strategy string, score int, elapsed time.Duration)
	// ObserveMatch is called for job matches that found job skills.
	ObserveMatch(percent int)
}

// Options configures an Analyzer. Vocabulary and Sentiment are required.
type Options struct {
	Vocabulary    *skills.Vocabulary
	Taxonomy      traits.Taxonomy
	Sentiment     tone.SentimentScorer
	BonusKeywords []string

	// Strategy and NameStrategy are the defaults when an Input leaves them empty.
	Strategy     string
	NameStrategy string

	Concurrency int
	Logger      *zap.Logger
	Recorder    Recorder
	OnProgress  ProgressCallback

	// Now overrides the clock used for Report.GeneratedAt.
	Now func() time.Time
}

// Input is one resume to analyze.
type Input struct {
	Source     string
	ResumeText string
	// JobText is the job description. Empty means none was supplied and the
	// report carries no match section.
	JobText      string
	Strategy     string
	NameStrategy string
	// OnProgress receives this input's events after Options.OnProgress.
	OnProgress ProgressCallback
}

// Analyzer produces reports. It is safe for concurrent use.
type Analyzer struct {
	opts     Options
	assessor *tone.Assessor
	log      *zap.Logger
}

// New validates opts and returns an Analyzer.
func New(opts Options) (*Analyzer, error) {
	if opts.Vocabulary == nil {
		return nil, &ConfigError{Message: "vocabulary is required"}
	}
	if opts.Sentiment == nil {
		return nil, &ConfigError{Message: "sentiment scorer is required"}
	}
	if opts.Taxonomy == nil {
		opts.Taxonomy = traits.DefaultTaxonomy()
	}
	if err := opts.Taxonomy.Validate(); err != nil {
		return nil, &ConfigError{Message: "invalid trait taxonomy", Cause: err}
	}
	if opts.Strategy == "" {
		opts.Strategy = scoring.StrategyStatic
	}
	if opts.NameStrategy == "" {
		opts.NameStrategy = parsing.NameStrategyStrict
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if _, err := scoring.NewStrategy(opts.Strategy, opts.scoringDeps()); err != nil {
		return nil, &ConfigError{Message: "invalid scoring strategy", Cause: err}
	}
	if _, err := parsing.NewNameExtractor(opts.NameStrategy); err != nil {
		return nil, &ConfigError{Message: "invalid name strategy", Cause: err}
	}

	return &Analyzer{
		opts:     opts,
		assessor: tone.NewAssessor(opts.Sentiment),
		log:      logger.OrNop(opts.Logger),
	}, nil
}

func (o Options) scoringDeps() scoring.Dependencies {
	return scoring.Dependencies{
		Vocabulary:    o.Vocabulary,
		Sentiment:     o.Sentiment,
		BonusKeywords: o.BonusKeywords,
	}
}

// Vocabulary returns the vocabulary the analyzer matches against.
func (a *Analyzer) Vocabulary() *skills.Vocabulary {
	return a.opts.Vocabulary
}

// Analyze builds the report for one resume. Heuristic misses never fail:
// they show up as sentinels and empty sections. Only an unknown strategy
// name or a cancelled context return an error.
func (a *Analyzer) Analyze(ctx context.Context, in Input) (*types.Report, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	strategyName := firstNonEmpty(in.Strategy, a.opts.Strategy)
	strategy, err := scoring.NewStrategy(strategyName, a.opts.scoringDeps())
	if err != nil {
		return nil, err
	}
	names, err := parsing.NewNameExtractor(firstNonEmpty(in.NameStrategy, a.opts.NameStrategy))
	if err != nil {
		return nil, err
	}

	report := &types.Report{
		ID:          uuid.NewString(),
		Source:      in.Source,
		GeneratedAt: a.opts.Now().UTC(),
	}
	log := a.log.With(zap.String(logger.FieldReportID, report.ID), zap.String(logger.FieldSource, in.Source))

	report.Candidate = parsing.ExtractFields(in.ResumeText, names)
	a.emit(in, StepFields, "extracted candidate fields", report.Candidate)

	report.Skills = skills.Match(in.ResumeText, a.opts.Vocabulary)
	a.emit(in, StepSkills, fmt.Sprintf("found %d skills", len(report.Skills)), report.Skills)

	report.Traits = traits.Predict(report.Skills, a.opts.Taxonomy)
	a.emit(in, StepTraits, fmt.Sprintf("identified %d traits", len(report.Traits)), report.Traits)

	report.Tone = a.assessor.Assess(in.ResumeText)
	a.emit(in, StepTone, "tone "+string(report.Tone.Label), report.Tone)

	report.ATS = types.ATSResult{
		Strategy: strategy.Name(),
		Score: strategy.Score(scoring.Input{
			ResumeText: in.ResumeText,
			JobText:    in.JobText,
			Skills:     report.Skills,
		}),
	}
	a.emit(in, StepATS, fmt.Sprintf("ATS score %d (%s)", report.ATS.Score, report.ATS.Strategy), report.ATS)

	if strings.TrimSpace(in.JobText) != "" {
		m := matching.Match(report.Skills, skills.Match(in.JobText, a.opts.Vocabulary))
		report.Match = &m
		if a.opts.Recorder != nil && !m.NoJobSkills {
			a.opts.Recorder.ObserveMatch(m.ScorePercent)
		}
		a.emit(in, StepMatch, matchMessage(m), m)
	}

	elapsed := time.Since(start)
	if a.opts.Recorder != nil {
		a.opts.Recorder.ObserveAnalysis(report.ATS.Strategy, report.ATS.Score, elapsed)
	}
	log.Debug("analysis complete",
		zap.String(logger.FieldStrategy, report.ATS.Strategy),
		zap.Int("ats_score", report.ATS.Score),
		zap.Int("skills", len(report.Skills)),
		zap.Bool("job_description", report.Match != nil),
		zap.Duration(logger.FieldDuration, elapsed))
	a.emit(in, StepDone, "analysis complete", nil)

	return report, nil
}

func (a *Analyzer) emit(in Input, step, message string, content any) {
	if a.opts.OnProgress == nil && in.OnProgress == nil {
		return
	}
	event := ProgressEvent{Step: step, Source: in.Source, Message: message, Content: content}
	if a.opts.OnProgress != nil {
		a.opts.OnProgress(event)
	}
	if in.OnProgress != nil {
		in.OnProgress(event)
	}
}

func matchMessage(m types.MatchResult) string {
	if m.NoJobSkills {
		return "no recognizable skills in job description"
	}
	return fmt.Sprintf("%d%% %s", m.ScorePercent, m.Band)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
