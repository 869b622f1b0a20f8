package scoring

import (
	"math"
	"strings"
)

// StaticStrategy scores the share of extracted skills that appear in the
// resume text. Skills normally come from the same text, so any non-empty
// skill list scores 100; an empty list scores 0.
type StaticStrategy struct{}

// Name implements Strategy.
func (StaticStrategy) Name() string { return StrategyStatic }

// Score implements Strategy.
func (StaticStrategy) Score(in Input) int {
	return ScoreStatic(in.ResumeText, in.Skills)
}

// ScoreStatic returns round(100 * found / len(skillList)), where found counts
// skills occurring as case-insensitive substrings of text.
func ScoreStatic(text string, skillList []string) int {
	if len(skillList) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	found := 0
	for _, s := range skillList {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" && strings.Contains(lower, s) {
			found++
		}
	}
	return clampScore(int(math.Round(float64(MaxScore) * float64(found) / float64(len(skillList)))))
}
