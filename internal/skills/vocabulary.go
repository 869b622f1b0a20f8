// Package skills loads the skill vocabulary and finds vocabulary terms in free text.
package skills

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// maxLineSize bounds a single vocabulary line; skill terms are short.
const maxLineSize = 64 * 1024

// Vocabulary is the immutable set of recognized skill terms.
// Terms are stored lowercased, trimmed and deduplicated, in sorted order.
// A Vocabulary is safe for concurrent use once built.
type Vocabulary struct {
	terms []string
	set   map[string]struct{}
}

// NewVocabulary builds a vocabulary from raw terms.
// Blank terms are skipped and duplicates collapse after case folding.
func NewVocabulary(terms ...string) *Vocabulary {
	set := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		normalized := normalizeTerm(term)
		if normalized == "" {
			continue
		}
		set[normalized] = struct{}{}
	}

	sorted := make([]string, 0, len(set))
	for term := range set {
		sorted = append(sorted, term)
	}
	sort.Strings(sorted)

	return &Vocabulary{terms: sorted, set: set}
}

// LoadVocabulary reads a newline-delimited vocabulary: one term per non-blank line.
func LoadVocabulary(r io.Reader) (*Vocabulary, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	var terms []string
	for scanner.Scan() {
		terms = append(terms, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vocabulary: %w", err)
	}

	return NewVocabulary(terms...), nil
}

// LoadVocabularyFile reads a vocabulary from a file on disk.
func LoadVocabularyFile(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("vocabulary file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to open vocabulary file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return LoadVocabulary(f)
}

// Terms returns a copy of the vocabulary terms in sorted order.
func (v *Vocabulary) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Len returns the number of distinct terms.
func (v *Vocabulary) Len() int {
	return len(v.terms)
}

// Contains reports whether term (compared case-insensitively) is in the vocabulary.
func (v *Vocabulary) Contains(term string) bool {
	_, ok := v.set[normalizeTerm(term)]
	return ok
}

func normalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// Normalize returns the case-folded, trimmed form used for term identity.
func Normalize(term string) string {
	return normalizeTerm(term)
}
