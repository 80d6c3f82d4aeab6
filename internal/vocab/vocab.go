package vocab

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/standardbeagle/lsc/internal/debug"
	"github.com/standardbeagle/lsc/internal/types"
)

// Vocabulary is the frozen, ordered set of candidate subjects for a
// classification run. It is built once, never mutated afterwards, and safe
// to share read-only across any number of workers.
type Vocabulary struct {
	subjects []types.Subject
}

// Build constructs a Vocabulary from raw subject entries: labels are
// trimmed, entries shorter than two runes or purely numeric are dropped,
// duplicate normalized labels collapse to one entry (keeping the highest
// weight), and the result is sorted by (weight desc, rune length desc,
// label asc) so the most specific subjects are discovered first.
func Build(raw []types.Subject) *Vocabulary {
	byNorm := make(map[string]types.Subject, len(raw))

	for _, s := range raw {
		label := strings.TrimSpace(s.Label)
		if utf8.RuneCountInString(label) < types.MinTextLength {
			continue
		}
		if isNumeric(label) {
			continue
		}

		weight := s.Weight
		if weight == 0 {
			weight = types.DefaultWeight
		}

		norm := strings.ToLower(label)
		if existing, ok := byNorm[norm]; ok {
			if weight > existing.Weight {
				byNorm[norm] = types.Subject{Label: label, Weight: weight}
			}
			continue
		}
		byNorm[norm] = types.Subject{Label: label, Weight: weight}
	}

	subjects := make([]types.Subject, 0, len(byNorm))
	for _, s := range byNorm {
		subjects = append(subjects, s)
	}

	sort.Slice(subjects, func(i, j int) bool {
		if subjects[i].Weight != subjects[j].Weight {
			return subjects[i].Weight > subjects[j].Weight
		}
		li, lj := subjects[i].RuneLen(), subjects[j].RuneLen()
		if li != lj {
			return li > lj
		}
		return subjects[i].Label < subjects[j].Label
	})

	debug.LogVocab("built vocabulary with %d subjects from %d raw entries\n", len(subjects), len(raw))
	return &Vocabulary{subjects: subjects}
}

// FromLabels builds a Vocabulary from bare labels with default weight
func FromLabels(labels []string) *Vocabulary {
	raw := make([]types.Subject, 0, len(labels))
	for _, l := range labels {
		raw = append(raw, types.Subject{Label: l, Weight: types.DefaultWeight})
	}
	return Build(raw)
}

// Subjects returns the ordered subject list. Callers must not mutate it.
func (v *Vocabulary) Subjects() []types.Subject {
	return v.subjects
}

// Len returns the number of subjects
func (v *Vocabulary) Len() int {
	return len(v.subjects)
}

// Subject returns the subject at the given index
func (v *Vocabulary) Subject(i int) types.Subject {
	return v.subjects[i]
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}
