// Package types provides type definitions for structured data used throughout the resume-analyzer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ToneLabel is one of the five ordinal tone bands.
type ToneLabel string

// Tone labels, from most to least positive.
const (
	TonePositive         ToneLabel = "Positive"
	ToneSlightlyPositive ToneLabel = "Slightly Positive"
	ToneNeutral          ToneLabel = "Neutral"
	ToneSlightlyNegative ToneLabel = "Slightly Negative"
	ToneNegative         ToneLabel = "Negative"
)

// ToneResult pairs a tone label with the polarity it was derived from.
type ToneResult struct {
	Label    ToneLabel `json:"label"`
	Polarity float64   `json:"polarity"` // -1.0 to 1.0
}
