// Package types provides type definitions for structured data used throughout the resume-analyzer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Band is the qualitative reading of a match percentage.
type Band string

// Match bands.
const (
	BandLow     Band = "low match"
	BandPartial Band = "partial match"
	BandGood    Band = "good match"
)

// MatchResult compares the skills of a resume with the skills of a job description.
type MatchResult struct {
	JobSkills     []string `json:"job_skills"`
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
	ScorePercent  int      `json:"score_percent"`

	// NoJobSkills is set when the job description yielded no recognizable skills.
	// ScorePercent and Band are meaningless in that case.
	NoJobSkills bool `json:"no_job_skills"`
	Band        Band `json:"band,omitempty"`

	// LowConfidence is raised when the job description has fewer than three recognized skills.
	LowConfidence bool `json:"low_confidence"`
	// SingleSkillMatch is raised when one job skill produced a 100% score.
	SingleSkillMatch bool `json:"single_skill_match"`
}
