// Package types provides type definitions for structured data used throughout the resume-analyzer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// Report is the structured result of analyzing one resume, optionally against a job description.
// It is the input contract of the report renderers and the JSON shape returned by the API.
type Report struct {
	ID          string          `json:"id,omitempty"`
	Source      string          `json:"source,omitempty"` // File name or label of the analyzed resume
	GeneratedAt time.Time       `json:"generated_at"`
	Candidate   CandidateFields `json:"candidate"`
	Skills      []string        `json:"skills"`
	Traits      []TraitScore    `json:"traits"`
	Tone        ToneResult      `json:"tone"`
	ATS         ATSResult       `json:"ats"`
	Match       *MatchResult    `json:"match,omitempty"` // Nil when no job description was supplied
}

// CandidateFields holds the identity fields extracted from resume text.
// Missing values carry the "Not Found" sentinel, never an empty string.
type CandidateFields struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TraitScore is one entry of the ordered trait mapping.
type TraitScore struct {
	Trait string `json:"trait"`
	Count int    `json:"count"`
}

// ATSResult records the ATS score together with the strategy that produced it.
type ATSResult struct {
	Strategy string `json:"strategy"`
	Score    int    `json:"score"` // 0-100
}

// TraitCounts returns the trait scores as a plain map (order is lost).
func (r *Report) TraitCounts() map[string]int {
	counts := make(map[string]int, len(r.Traits))
	for _, t := range r.Traits {
		counts[t.Trait] = t.Count
	}
	return counts
}
