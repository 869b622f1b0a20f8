// Package scoring computes 0-100 ATS fitness scores for resume text.
package scoring

import (
	"strings"

	"github.com/jonathan/resume-analyzer/internal/skills"
	"github.com/jonathan/resume-analyzer/internal/tone"
)

// Strategy names accepted by NewStrategy.
const (
	StrategyStatic  = "static"
	StrategyDynamic = "dynamic"
)

// MaxScore is the upper bound of every strategy's score.
const MaxScore = 100

// Input carries everything a strategy may look at. Static scoring ignores
// JobText; dynamic scoring ignores Skills and re-extracts from both texts.
type Input struct {
	ResumeText string
	JobText    string
	Skills     []string
}

// Strategy scores a resume. Score always returns a value in [0, MaxScore].
type Strategy interface {
	Name() string
	Score(in Input) int
}

// Dependencies are the collaborators a strategy may need.
type Dependencies struct {
	Vocabulary    *skills.Vocabulary
	Sentiment     tone.SentimentScorer
	BonusKeywords []string
}

// NewStrategy returns the strategy registered under name. An empty name
// selects the static strategy.
func NewStrategy(name string, deps Dependencies) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyStatic:
		return StaticStrategy{}, nil
	case StrategyDynamic:
		if deps.Vocabulary == nil {
			return nil, &ConfigError{Strategy: StrategyDynamic, Message: "vocabulary is required"}
		}
		if deps.Sentiment == nil {
			return nil, &ConfigError{Strategy: StrategyDynamic, Message: "sentiment scorer is required"}
		}
		return NewDynamicStrategy(deps.Vocabulary, deps.Sentiment, deps.BonusKeywords), nil
	default:
		return nil, &UnknownStrategyError{Name: name}
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
