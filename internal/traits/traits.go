// Package traits predicts personality traits from extracted skills using a keyword taxonomy.
package traits

import (
	"sort"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// Rule maps one trait to the keywords that signal it.
type Rule struct {
	Trait    string   `toml:"name" json:"name"`
	Keywords []string `toml:"keywords" json:"keywords"`
}

// Taxonomy is the ordered set of trait rules. Order breaks ties between equal counts.
type Taxonomy []Rule

// DefaultTaxonomy returns the built-in five-trait taxonomy.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		{Trait: "Team Player", Keywords: []string{"teamwork", "collaboration", "supportive", "communication"}},
		{Trait: "Leader", Keywords: []string{"leadership", "strategic", "mentoring", "decision making"}},
		{Trait: "Creative", Keywords: []string{"design", "creative", "innovation", "content"}},
		{Trait: "Organized", Keywords: []string{"planning", "organized", "scheduling", "time management"}},
		{Trait: "Analytical", Keywords: []string{"analysis", "data", "research", "problem solving"}},
	}
}

// Predict scores every trait by the number of skills containing at least one of its keywords.
//
// A skill can count toward several traits. Traits with a zero count are dropped; the rest
// are ordered by descending count, ties keeping taxonomy order. An empty skill list yields
// an empty (non-nil) result.
func Predict(skills []string, taxonomy Taxonomy) []types.TraitScore {
	scores := make([]types.TraitScore, 0, len(taxonomy))
	if len(skills) == 0 {
		return scores
	}

	lowered := make([]string, len(skills))
	for i, s := range skills {
		lowered[i] = strings.ToLower(s)
	}

	for _, rule := range taxonomy {
		count := 0
		for _, skill := range lowered {
			if matchesAny(skill, rule.Keywords) {
				count++
			}
		}
		if count > 0 {
			scores = append(scores, types.TraitScore{Trait: rule.Trait, Count: count})
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Count > scores[j].Count
	})

	return scores
}

// Validate reports the first structural problem with the taxonomy, if any.
func (t Taxonomy) Validate() error {
	seen := make(map[string]bool, len(t))
	for i, rule := range t {
		name := strings.TrimSpace(rule.Trait)
		if name == "" {
			return &TaxonomyError{Index: i, Message: "trait name is empty"}
		}
		if seen[name] {
			return &TaxonomyError{Index: i, Message: "duplicate trait " + name}
		}
		seen[name] = true
		if len(rule.Keywords) == 0 {
			return &TaxonomyError{Index: i, Message: "trait " + name + " has no keywords"}
		}
	}
	return nil
}

func matchesAny(skill string, keywords []string) bool {
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(skill, kw) {
			return true
		}
	}
	return false
}
