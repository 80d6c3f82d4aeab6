package match

import (
	"unicode/utf8"

	"github.com/standardbeagle/lsc/internal/types"
	"github.com/standardbeagle/lsc/internal/vocab"
)

// ExactMatcher finds vocabulary labels occurring verbatim (case-insensitive)
// in a text via one automaton scan. If it produces a hit the pipeline
// short-circuits: exact evidence always beats fuzzy and context results.
type ExactMatcher struct {
	index *vocab.Index
}

// NewExactMatcher creates an exact matcher over the given index
func NewExactMatcher(ix *vocab.Index) *ExactMatcher {
	return &ExactMatcher{index: ix}
}

// Match scans textLower for vocabulary substrings. When several subjects
// match, the longest label wins (most specific); equal lengths fall back to
// vocabulary order. Exact hits always carry the fixed exact confidence.
func (m *ExactMatcher) Match(textLower string) (types.MatchResult, bool) {
	// Whole-text equality shortcut via the length buckets
	if i, ok := m.index.SameLength(textLower, utf8.RuneCountInString(textLower)); ok {
		return m.result(i), true
	}

	hits := m.index.ScanExact(textLower)
	if len(hits) == 0 {
		return types.MatchResult{}, false
	}

	best := hits[0]
	bestLen := m.index.Features(best).RuneLen
	for _, i := range hits[1:] {
		l := m.index.Features(i).RuneLen
		if l > bestLen || (l == bestLen && i < best) {
			best = i
			bestLen = l
		}
	}

	return m.result(best), true
}

func (m *ExactMatcher) result(subject int) types.MatchResult {
	return types.MatchResult{
		Label:      m.index.Vocabulary().Subject(subject).Label,
		Type:       types.MatchExact,
		Confidence: types.ExactConfidence,
	}
}
