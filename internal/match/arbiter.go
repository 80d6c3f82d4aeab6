package match

import (
	"strings"
	"unicode/utf8"

	"github.com/standardbeagle/lsc/internal/config"
	"github.com/standardbeagle/lsc/internal/debug"
	"github.com/standardbeagle/lsc/internal/types"
	"github.com/standardbeagle/lsc/internal/vocab"
)

// Matcher runs the full classification pipeline for one text at a time:
// exact first, then fuzzy, then context rules, each stage only consulted
// when the previous one produced nothing. The priority order is fixed
// policy, not a tunable: exact evidence always beats a fuzzy or context
// candidate even when the latter would score higher in isolation.
//
// A Matcher is safe for concurrent use only when its cache is disabled;
// parallel workers each build their own.
type Matcher struct {
	exact   *ExactMatcher
	fuzzy   *FuzzyEngine
	context *ContextMatcher
	cache   *resultCache
	stats   Stats
}

// NewMatcher builds the pipeline over a vocabulary index
func NewMatcher(ix *vocab.Index, cfg *config.Config) *Matcher {
	return &Matcher{
		exact:   NewExactMatcher(ix),
		fuzzy:   NewFuzzyEngine(ix, cfg.Matching),
		context: NewContextMatcher(cfg.Matching),
		cache:   newResultCache(cfg.Matching.CacheSize),
	}
}

// Classify runs one text through the pipeline. Texts whose trimmed rune
// length is under the minimum are unmatched without touching any stage.
func (m *Matcher) Classify(text string) types.MatchResult {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < types.MinTextLength {
		m.stats.record(types.MatchNone)
		return types.Unmatched()
	}

	textLower := vocab.NormalizeText(trimmed)
	if cached, ok := m.cache.get(textLower); ok {
		m.stats.record(cached.Type)
		return cached
	}

	result := m.classify(trimmed, textLower)
	m.cache.set(textLower, result)
	m.stats.record(result.Type)
	return result
}

func (m *Matcher) classify(trimmed, textLower string) types.MatchResult {
	if result, ok := m.exact.Match(textLower); ok {
		debug.LogMatch("exact hit %q -> %q\n", textLower, result.Label)
		return result
	}

	if result, ok := m.fuzzy.Match(textLower); ok {
		debug.LogMatch("fuzzy hit %q -> %q (%s %.3f)\n", textLower, result.Label, result.Type, result.Confidence)
		return result
	}

	// Context rules see the original casing; their patterns are
	// case-insensitive where it matters.
	if result, ok := m.context.Match(trimmed); ok {
		debug.LogMatch("context hit %q -> %q\n", trimmed, result.Label)
		return result
	}

	return types.Unmatched()
}

// Stats returns the tallies accumulated so far
func (m *Matcher) Stats() Stats {
	return m.stats
}
