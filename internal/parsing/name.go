// Package parsing extracts candidate identity fields from resume text using line and regex heuristics.
package parsing

import (
	"regexp"
	"strings"
	"unicode"
)

// NotFound is the sentinel returned when a heuristic finds nothing.
const NotFound = "Not Found"

// nameScanLines is how many leading lines are searched for a name.
const nameScanLines = 10

// Name extraction strategies.
const (
	NameStrategyStrict = "strict"
	NameStrategyLoose  = "loose"
)

// NameExtractor finds a candidate name near the top of a resume.
type NameExtractor interface {
	ExtractName(text string) string
}

// NewNameExtractor returns the extractor for strategy. An empty strategy selects strict.
func NewNameExtractor(strategy string) (NameExtractor, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "", NameStrategyStrict:
		return StrictNameExtractor{}, nil
	case NameStrategyLoose:
		return LooseNameExtractor{}, nil
	default:
		return nil, &StrategyError{Kind: "name", Name: strategy}
	}
}

// StrictNameExtractor accepts exactly two Title-case words ("Jane Doe").
// ALL-CAPS lines such as "JANE DOE" do not match.
type StrictNameExtractor struct{}

var strictNamePattern = regexp.MustCompile(`^[A-Z][a-z]+\s[A-Z][a-z]+$`)

// ExtractName returns the first of the leading lines shaped like "Firstname Lastname".
func (StrictNameExtractor) ExtractName(text string) string {
	for _, line := range leadingLines(text, nameScanLines) {
		if strictNamePattern.MatchString(line) {
			return line
		}
	}
	return NotFound
}

// LooseNameExtractor accepts two to four words that each start with an upper-case
// letter and contain only letters, dots, apostrophes and hyphens. It allows
// ALL-CAPS names and particles like "O'Neil", and also header lines such as
// "Software Engineer" when they precede the name.
type LooseNameExtractor struct{}

const (
	looseMinWords = 2
	looseMaxWords = 4
)

// ExtractName returns the first of the leading lines made of capitalized words.
func (LooseNameExtractor) ExtractName(text string) string {
	for _, line := range leadingLines(text, nameScanLines) {
		if isCapitalizedWordLine(line) {
			return strings.Join(strings.Fields(line), " ")
		}
	}
	return NotFound
}

func isCapitalizedWordLine(line string) bool {
	words := strings.Fields(line)
	if len(words) < looseMinWords || len(words) > looseMaxWords {
		return false
	}
	for _, word := range words {
		for i, r := range word {
			if i == 0 {
				if !unicode.IsUpper(r) {
					return false
				}
				continue
			}
			if !unicode.IsLetter(r) && r != '.' && r != '\'' && r != '-' {
				return false
			}
		}
	}
	return true
}

// leadingLines returns up to n trimmed lines from the start of the trimmed text.
// Blank lines count toward n.
func leadingLines(text string, n int) []string {
	text = strings.ReplaceAll(strings.TrimSpace(text), "\r\n", "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return lines
}
