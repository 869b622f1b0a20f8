package parsing

import (
	"regexp"

	"github.com/jonathan/resume-analyzer/internal/types"
)

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(?:\.[A-Za-z0-9\-]+)*\.[A-Za-z]{2,}`)

// ExtractEmail returns the first local@domain.tld address in text, or NotFound.
func ExtractEmail(text string) string {
	if match := emailPattern.FindString(text); match != "" {
		return match
	}
	return NotFound
}

// ExtractFields runs the name and email heuristics over text.
func ExtractFields(text string, names NameExtractor) types.CandidateFields {
	if names == nil {
		names = StrictNameExtractor{}
	}
	return types.CandidateFields{
		Name:  names.ExtractName(text),
		Email: ExtractEmail(text),
	}
}
