package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jonathan/resume-analyzer/internal/scoring"
	"github.com/jonathan/resume-analyzer/internal/traits"
)

// Taxonomy bundles the trait rules and the ATS bonus keyword list.
type Taxonomy struct {
	Traits        traits.Taxonomy
	BonusKeywords []string
}

type tomlTaxonomy struct {
	Traits        []traits.Rule `toml:"trait"`
	BonusKeywords []string      `toml:"bonus_keywords"`
}

// DefaultTaxonomy returns the built-in traits and bonus keywords.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		Traits:        traits.DefaultTaxonomy(),
		BonusKeywords: append([]string(nil), scoring.DefaultBonusKeywords...),
	}
}

// LoadTaxonomy reads a TOML file of the form
//
//	bonus_keywords = ["git", "sql"]
//
//	[[trait]]
//	name = "Leader"
//	keywords = ["leadership", "mentoring"]
//
// A section that is absent keeps its default. An empty path returns the defaults.
func LoadTaxonomy(path string) (Taxonomy, error) {
	tax := DefaultTaxonomy()
	if path == "" {
		return tax, nil
	}

	var raw tomlTaxonomy
	md, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("failed to read taxonomy file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Taxonomy{}, fmt.Errorf("taxonomy file %s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	if md.IsDefined("trait") {
		tax.Traits = traits.Taxonomy(raw.Traits)
		if err := tax.Traits.Validate(); err != nil {
			return Taxonomy{}, fmt.Errorf("taxonomy file %s: %w", path, err)
		}
	}
	if md.IsDefined("bonus_keywords") {
		tax.BonusKeywords = make([]string, 0, len(raw.BonusKeywords))
		for _, kw := range raw.BonusKeywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				tax.BonusKeywords = append(tax.BonusKeywords, kw)
			}
		}
	}
	return tax, nil
}
