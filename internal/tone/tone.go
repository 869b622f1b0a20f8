// Package tone maps sentiment polarity onto the five tone labels.
package tone

import (
	"math"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// SentimentScorer turns text into a polarity in [-1, 1].
// Implementations must be deterministic for a given text.
type SentimentScorer interface {
	Polarity(text string) float64
}

// ScorerFunc adapts a function to SentimentScorer.
type ScorerFunc func(text string) float64

// Polarity calls f(text).
func (f ScorerFunc) Polarity(text string) float64 {
	return f(text)
}

// Fixed returns a scorer that always reports polarity p.
func Fixed(p float64) SentimentScorer {
	return ScorerFunc(func(string) float64 { return p })
}

// Assessor labels the tone of a text using an injected sentiment scorer.
type Assessor struct {
	scorer SentimentScorer
}

// NewAssessor creates an Assessor backed by scorer.
func NewAssessor(scorer SentimentScorer) *Assessor {
	return &Assessor{scorer: scorer}
}

// Assess scores text and returns the tone label with its polarity.
func (a *Assessor) Assess(text string) types.ToneResult {
	p := Clamp(a.scorer.Polarity(text))
	return types.ToneResult{Label: Label(p), Polarity: p}
}

// Polarity returns the clamped polarity of text.
func (a *Assessor) Polarity(text string) float64 {
	return Clamp(a.scorer.Polarity(text))
}

// Label maps polarity to a tone label. The bands are checked in order and
// partition [-1, 1] without gaps:
//
//	p >= 0.5         Positive
//	0 < p < 0.5      Slightly Positive
//	p == 0           Neutral
//	-0.5 < p < 0     Slightly Negative
//	p <= -0.5        Negative
func Label(p float64) types.ToneLabel {
	switch {
	case p >= 0.5:
		return types.TonePositive
	case p > 0:
		return types.ToneSlightlyPositive
	case p == 0:
		return types.ToneNeutral
	case p > -0.5:
		return types.ToneSlightlyNegative
	default:
		return types.ToneNegative
	}
}

// Clamp forces p into [-1, 1]. NaN becomes 0.
func Clamp(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return math.Max(-1, math.Min(1, p))
}
