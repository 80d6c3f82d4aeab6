package types

import (
	"strings"
	"unicode/utf8"
)

// Common system-wide constants
const (
	// MinTextLength is the minimum trimmed rune length a record or subject
	// must have to participate in matching. Anything shorter resolves
	// deterministically to an unmatched result.
	MinTextLength = 2

	// ExactConfidence is the fixed confidence assigned to verbatim matches.
	ExactConfidence = 0.95

	// UnmatchedLabel is the sentinel label for records no matcher claimed.
	UnmatchedLabel = "unmatched"

	// DefaultWeight is the weight assigned to subjects without an explicit one.
	DefaultWeight = 1.0
)

// MatchType identifies which matching layer produced a result.
type MatchType uint8

const (
	MatchNone MatchType = iota
	MatchExact
	MatchContains
	MatchSimilarity
	MatchWordOverlap
	MatchEditDistance
	MatchContext
)

// String returns the wire/report representation of the match type.
func (mt MatchType) String() string {
	switch mt {
	case MatchExact:
		return "exact"
	case MatchContains:
		return "contains"
	case MatchSimilarity:
		return "similarity"
	case MatchWordOverlap:
		return "word_overlap"
	case MatchEditDistance:
		return "edit_distance"
	case MatchContext:
		return "context"
	default:
		return "none"
	}
}

// IsFuzzy reports whether the match came from one of the fuzzy strategies.
func (mt MatchType) IsFuzzy() bool {
	switch mt {
	case MatchContains, MatchSimilarity, MatchWordOverlap, MatchEditDistance:
		return true
	default:
		return false
	}
}

// Subject is a single vocabulary entry. Label preserves the original casing
// for output; matching always operates on the lowercased form.
type Subject struct {
	Label  string
	Weight float64
}

// Normalized returns the lowercased form used for matching.
func (s Subject) Normalized() string {
	return strings.ToLower(s.Label)
}

// RuneLen returns the label length in runes. All length-based scoring in the
// matching pipeline is rune-based so CJK text scores the same as ASCII.
func (s Subject) RuneLen() int {
	return utf8.RuneCountInString(s.Label)
}

// Record is one input text plus its position in the source sequence.
// Records are independent; there is no cross-record state.
type Record struct {
	Text     string
	Position int
}

// Valid reports whether the record is long enough to classify.
func (r Record) Valid() bool {
	return utf8.RuneCountInString(strings.TrimSpace(r.Text)) >= MinTextLength
}

// MatchResult is the outcome of classifying one record.
//
// Invariants: Confidence is in [0,1]; Confidence == 0 exactly when
// Type == MatchNone; exact matches always carry ExactConfidence.
type MatchResult struct {
	Label      string
	Type       MatchType
	Confidence float64
}

// Unmatched returns the canonical result for a record nothing claimed.
func Unmatched() MatchResult {
	return MatchResult{Label: UnmatchedLabel, Type: MatchNone, Confidence: 0}
}

// Matched reports whether any layer claimed the record.
func (mr MatchResult) Matched() bool {
	return mr.Type != MatchNone
}
