// Package matching compares resume skills with job description skills.
package matching

import (
	"math"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/skills"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Thresholds for banding and confidence flags.
const (
	PartialThreshold   = 40
	GoodThreshold      = 70
	MinConfidentSkills = 3
)

// Match compares resume skills against job skills.
//
// Matched and missing keep the order of jobSkills. When jobSkills is empty the
// result has NoJobSkills set and no band, so callers can tell it apart from a
// 0% match.
func Match(resumeSkills, jobSkills []string) types.MatchResult {
	jobSkills = dedupe(jobSkills)
	result := types.MatchResult{
		JobSkills:     jobSkills,
		MatchedSkills: skills.Intersect(resumeSkills, jobSkills),
		MissingSkills: skills.Difference(resumeSkills, jobSkills),
	}
	if len(jobSkills) == 0 {
		result.NoJobSkills = true
		return result
	}

	result.ScorePercent = int(math.Round(100 * float64(len(result.MatchedSkills)) / float64(len(jobSkills))))
	result.Band = BandFor(result.ScorePercent)
	result.LowConfidence = len(jobSkills) < MinConfidentSkills
	result.SingleSkillMatch = len(result.MatchedSkills) == 1 && result.ScorePercent == 100
	return result
}

// MatchTexts extracts skills from both texts with vocab and compares them.
func MatchTexts(resumeText, jobText string, vocab *skills.Vocabulary) types.MatchResult {
	return Match(skills.Match(resumeText, vocab), skills.Match(jobText, vocab))
}

// BandFor maps a match percentage to its qualitative band.
func BandFor(percent int) types.Band {
	switch {
	case percent >= GoodThreshold:
		return types.BandGood
	case percent >= PartialThreshold:
		return types.BandPartial
	default:
		return types.BandLow
	}
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, s := range items {
		key := skills.Normalize(s)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(s))
	}
	return out
}
