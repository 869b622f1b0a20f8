package scoring

import (
	"math"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/skills"
	"github.com/jonathan/resume-analyzer/internal/tone"
)

// Sub-score weights of the job-description-aware strategy.
const (
	skillOverlapWeight = 60.0
	frequencyCap       = 10
	toneBonusHigh      = 10
	toneBonusLow       = 5
	bonusKeywordCap    = 10

	toneHighThreshold = 0.2
)

// DefaultBonusKeywords are tooling terms that earn one point each when present.
var DefaultBonusKeywords = []string{
	"git", "github", "sql", "docker", "kubernetes", "aws", "azure", "gcp",
	"linux", "ci/cd", "rest", "agile",
}

// Breakdown holds the four sub-scores of a dynamic score.
type Breakdown struct {
	JobSkills     []string `json:"job_skills"`
	MatchedSkills []string `json:"matched_skills"`
	SkillOverlap  float64  `json:"skill_overlap"`
	Frequency     int      `json:"frequency"`
	ToneBonus     int      `json:"tone_bonus"`
	BonusKeywords int      `json:"bonus_keywords"`
	Total         int      `json:"total"`
}

// DynamicStrategy compares the resume against a job description:
//
//	skill overlap   60 * matched JD skills / JD skills
//	frequency       occurrences of matched skills in the resume, capped at 10
//	tone            10 if polarity >= 0.2, 5 if polarity >= 0, else 0
//	bonus keywords  fixed keywords present in the resume, capped at 10
//
// A job description with no recognizable skills scores 0.
type DynamicStrategy struct {
	vocab         *skills.Vocabulary
	sentiment     tone.SentimentScorer
	bonusKeywords []string
}

// NewDynamicStrategy builds the strategy. A nil keyword list selects DefaultBonusKeywords.
func NewDynamicStrategy(vocab *skills.Vocabulary, sentiment tone.SentimentScorer, bonusKeywords []string) *DynamicStrategy {
	if bonusKeywords == nil {
		bonusKeywords = DefaultBonusKeywords
	}
	kw := make([]string, 0, len(bonusKeywords))
	for _, k := range bonusKeywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			kw = append(kw, k)
		}
	}
	return &DynamicStrategy{vocab: vocab, sentiment: sentiment, bonusKeywords: kw}
}

// Name implements Strategy.
func (d *DynamicStrategy) Name() string { return StrategyDynamic }

// Score implements Strategy.
func (d *DynamicStrategy) Score(in Input) int {
	return d.Breakdown(in.ResumeText, in.JobText).Total
}

// Breakdown computes every sub-score along with the total.
func (d *DynamicStrategy) Breakdown(resumeText, jobText string) Breakdown {
	jobSkills := skills.Match(jobText, d.vocab)
	b := Breakdown{JobSkills: jobSkills, MatchedSkills: []string{}}
	if len(jobSkills) == 0 {
		return b
	}

	resumeSkills := skills.Match(resumeText, d.vocab)
	b.MatchedSkills = skills.Intersect(resumeSkills, jobSkills)
	b.SkillOverlap = skillOverlapWeight * float64(len(b.MatchedSkills)) / float64(len(jobSkills))

	for _, s := range b.MatchedSkills {
		b.Frequency += skills.CountOccurrences(resumeText, s)
	}
	b.Frequency = min(b.Frequency, frequencyCap)

	b.ToneBonus = toneBonus(tone.Clamp(d.sentiment.Polarity(resumeText)))

	lower := strings.ToLower(resumeText)
	for _, k := range d.bonusKeywords {
		if strings.Contains(lower, k) {
			b.BonusKeywords++
		}
	}
	b.BonusKeywords = min(b.BonusKeywords, bonusKeywordCap)

	sum := b.SkillOverlap + float64(b.Frequency+b.ToneBonus+b.BonusKeywords)
	b.Total = clampScore(int(math.Round(sum)))
	return b
}

func toneBonus(polarity float64) int {
	switch {
	case polarity >= toneHighThreshold:
		return toneBonusHigh
	case polarity >= 0:
		return toneBonusLow
	default:
		return 0
	}
}
