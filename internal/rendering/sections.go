package rendering

import "strings"

// Section is one part of a report.
type Section string

// Report sections, in display order.
const (
	SectionCandidate Section = "candidate"
	SectionSkills    Section = "skills"
	SectionTraits    Section = "traits"
	SectionTone      Section = "tone"
	SectionATS       Section = "ats"
	SectionMatch     Section = "match"
	SectionAll       Section = "all"
)

// AllSections returns every concrete section in display order.
func AllSections() []Section {
	return []Section{SectionCandidate, SectionSkills, SectionTraits, SectionTone, SectionATS, SectionMatch}
}

// SectionTitles maps sections to their headings, as offered in interactive menus.
var SectionTitles = map[Section]string{
	SectionCandidate: "Candidate Details",
	SectionSkills:    "Extracted Skills",
	SectionTraits:    "Personality Traits",
	SectionTone:      "Resume Tone",
	SectionATS:       "ATS Score",
	SectionMatch:     "Job Description Match",
	SectionAll:       "Full Report",
}

// ParseSections resolves section names. "all" or an empty list selects
// every section; duplicates are dropped and display order is restored.
func ParseSections(names []string) ([]Section, error) {
	want := make(map[Section]bool)
	for _, raw := range names {
		for _, name := range strings.Split(raw, ",") {
			s := Section(strings.ToLower(strings.TrimSpace(name)))
			switch {
			case s == "":
				continue
			case s == SectionAll:
				return AllSections(), nil
			case SectionTitles[s] == "":
				return nil, &SectionError{Name: strings.TrimSpace(name)}
			}
			want[s] = true
		}
	}
	if len(want) == 0 {
		return AllSections(), nil
	}

	out := make([]Section, 0, len(want))
	for _, s := range AllSections() {
		if want[s] {
			out = append(out, s)
		}
	}
	return out, nil
}

func sectionNames() string {
	names := make([]string, 0, 7)
	for _, s := range AllSections() {
		names = append(names, string(s))
	}
	return strings.Join(append(names, string(SectionAll)), ", ")
}
