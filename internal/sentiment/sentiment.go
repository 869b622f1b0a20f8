// Package sentiment adapts the VADER sentiment analyzer to the polarity
// scorer used by the tone assessor.
package sentiment

import (
	"sync"

	"github.com/jonreiter/govader"
)

// VaderScorer reports the VADER compound score of a text.
// It is deterministic and safe for concurrent use.
type VaderScorer struct {
	mu       sync.Mutex
	analyzer *govader.SentimentIntensityAnalyzer
}

var (
	defaultOnce   sync.Once
	defaultScorer *VaderScorer
)

// New builds a scorer with its own analyzer.
func New() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Default returns the shared scorer, building the analyzer on first use.
func Default() (*VaderScorer, error) {
	defaultOnce.Do(func() {
		defaultScorer = New()
	})
	return defaultScorer, nil
}

// MustDefault returns Default for callers that cannot handle an error.
func MustDefault() *VaderScorer {
	s, _ := Default()
	return s
}

// Polarity returns the compound score of text in [-1, 1]. Text without any
// sentiment-bearing word scores 0.
func (s *VaderScorer) Polarity(text string) float64 {
	s.mu.Lock()
	scores := s.analyzer.PolarityScores(text)
	s.mu.Unlock()
	return clamp(scores.Compound)
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
