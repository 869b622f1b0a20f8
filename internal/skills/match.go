package skills

import (
	"strings"
)

// Match returns the vocabulary terms that occur in text.
//
// Matching is a case-insensitive substring test and is not word-boundary aware:
// "java" matches inside "javascript". The result is sorted, holds each term once,
// and is empty (never nil) when nothing matches.
func Match(text string, vocab *Vocabulary) []string {
	found := make([]string, 0)
	if vocab == nil || text == "" {
		return found
	}

	lower := strings.ToLower(text)
	for _, term := range vocab.terms {
		if strings.Contains(lower, term) {
			found = append(found, term)
		}
	}
	return found
}

// CountOccurrences counts non-overlapping, case-insensitive occurrences of skill in text.
func CountOccurrences(text, skill string) int {
	skill = strings.ToLower(strings.TrimSpace(skill))
	if skill == "" {
		return 0
	}
	return strings.Count(strings.ToLower(text), skill)
}

// Intersect returns the members of b that are also in a, keeping b's order.
// Membership is case-insensitive.
func Intersect(a, b []string) []string {
	inA := toSet(a)
	out := make([]string, 0)
	for _, s := range b {
		if _, ok := inA[strings.ToLower(s)]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Difference returns the members of b that are not in a, keeping b's order.
func Difference(a, b []string) []string {
	inA := toSet(a)
	out := make([]string, 0)
	for _, s := range b {
		if _, ok := inA[strings.ToLower(s)]; !ok {
			out = append(out, s)
		}
	}
	return out
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, s := range items {
		set[strings.ToLower(s)] = struct{}{}
	}
	return set
}
