package match

import (
	"sort"

	"github.com/hbollon/go-edlib"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/standardbeagle/lsc/internal/config"
	"github.com/standardbeagle/lsc/internal/types"
	"github.com/standardbeagle/lsc/internal/vocab"
)

// Confidence clamps per fuzzy strategy. Each strategy maps its raw score
// into a band below the exact-match confidence, so arbitration across
// strategies stays meaningful.
const (
	containsBase    = 0.6
	containsSlope   = 0.3
	containsCap     = 0.85
	similarityMin   = 0.4
	similarityCap   = 0.8
	overlapFactor   = 0.9
	overlapMin      = 0.3
	overlapCap      = 0.75
	overlapAccept   = 0.3
	editFactor      = 0.8
	editMin         = 0.2
	editCap         = 0.7
	seqWeight       = 0.7
	charSetWeight   = 0.3
	lengthPrefilter = 0.8
)

// FuzzyEngine scores a text against the whole vocabulary with four
// independent strategies: containment, sequence similarity, token overlap,
// and edit distance. It runs only when the exact matcher found nothing.
type FuzzyEngine struct {
	index *vocab.Index
	cfg   config.Matching
}

// candidate is one accepted (subject, strategy, confidence) triple
type candidate struct {
	subject    int
	matchType  types.MatchType
	confidence float64
}

// NewFuzzyEngine creates a fuzzy engine over the given index
func NewFuzzyEngine(ix *vocab.Index, cfg config.Matching) *FuzzyEngine {
	return &FuzzyEngine{index: ix, cfg: cfg}
}

// Match collects accepted candidates from every enabled strategy and picks
// the highest-confidence one. Exact confidence ties break by strategy
// order (containment > similarity > word_overlap > edit_distance), which is
// the order candidates are appended before the stable sort. A result is
// only returned when its confidence is strictly positive.
//
// With EnableWordCombination disabled only the containment and similarity
// strategies run, which is the performance-first fast path.
func (e *FuzzyEngine) Match(textLower string) (types.MatchResult, bool) {
	textRunes := []rune(textLower)
	if len(textRunes) < types.MinTextLength {
		return types.MatchResult{}, false
	}

	textChars := make(map[rune]struct{}, len(textRunes))
	for _, r := range textRunes {
		textChars[r] = struct{}{}
	}

	var candidates []candidate
	candidates = e.containment(textLower, len(textRunes), candidates)
	candidates = e.similarity(textRunes, textChars, candidates)

	if e.cfg.EnableWordCombination {
		candidates = e.wordOverlap(textLower, candidates)
		candidates = e.editDistance(textLower, len(textRunes), candidates)
	}

	if len(candidates) == 0 {
		return types.MatchResult{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].confidence > candidates[j].confidence
	})

	best := candidates[0]
	if best.confidence <= 0 {
		return types.MatchResult{}, false
	}

	return types.MatchResult{
		Label:      e.index.Vocabulary().Subject(best.subject).Label,
		Type:       best.matchType,
		Confidence: best.confidence,
	}, true
}

// containment accepts subjects occurring as substrings of the text, scored
// by how much of the text the subject covers. One automaton pass finds all
// contained subjects at once.
func (e *FuzzyEngine) containment(textLower string, textLen int, out []candidate) []candidate {
	for _, i := range e.index.ScanExact(textLower) {
		feats := e.index.Features(i)
		if feats.RuneLen < types.MinTextLength {
			continue
		}

		overlap := float64(feats.RuneLen) / float64(textLen)
		confidence := min(containsCap, containsBase+overlap*containsSlope)
		out = append(out, candidate{subject: i, matchType: types.MatchContains, confidence: confidence})
	}
	return out
}

// similarity combines a Ratcliff/Obershelp sequence ratio with a character
// set Jaccard index. Pairs whose lengths differ by more than 80% of the
// longer string are skipped before any scoring work.
func (e *FuzzyEngine) similarity(textRunes []rune, textChars map[rune]struct{}, out []candidate) []candidate {
	textSeq := runeSequence(textRunes)

	for i := range e.index.Vocabulary().Subjects() {
		feats := e.index.Features(i)

		maxLen := max(feats.RuneLen, len(textRunes))
		if absInt(feats.RuneLen-len(textRunes)) > int(float64(maxLen)*lengthPrefilter) {
			continue
		}

		ratio := difflib.NewMatcher(textSeq, runeSequence([]rune(feats.Norm))).Ratio()
		charSim := jaccard(textChars, feats.CharSet)
		combined := ratio*seqWeight + charSim*charSetWeight

		if combined < e.cfg.MinSimilarity*0.7 {
			continue
		}

		confidence := min(similarityCap, max(similarityMin, combined))
		out = append(out, candidate{subject: i, matchType: types.MatchSimilarity, confidence: confidence})
	}
	return out
}

// wordOverlap scans the text once with the token automaton, then scores each
// subject by the share of its token set found in the text.
func (e *FuzzyEngine) wordOverlap(textLower string, out []candidate) []candidate {
	found := e.index.ScanTokens(textLower)
	if len(found) == 0 {
		return out
	}

	for i := range e.index.Vocabulary().Subjects() {
		feats := e.index.Features(i)
		if len(feats.Tokens) == 0 {
			continue
		}

		common := 0
		for tok := range feats.Tokens {
			if _, ok := found[tok]; ok {
				common++
			}
		}
		if common == 0 {
			continue
		}

		ratio := float64(common) / float64(len(feats.Tokens))
		if ratio < overlapAccept {
			continue
		}

		confidence := min(overlapCap, max(overlapMin, ratio*overlapFactor))
		out = append(out, candidate{subject: i, matchType: types.MatchWordOverlap, confidence: confidence})
	}
	return out
}

// editDistance scores subjects whose length is within MaxEditDistance runes
// of the text by normalized Levenshtein similarity.
func (e *FuzzyEngine) editDistance(textLower string, textLen int, out []candidate) []candidate {
	for i := range e.index.Vocabulary().Subjects() {
		feats := e.index.Features(i)
		if absInt(feats.RuneLen-textLen) > e.cfg.MaxEditDistance {
			continue
		}

		maxLen := max(feats.RuneLen, textLen)
		if maxLen == 0 {
			continue
		}

		distance := edlib.LevenshteinDistance(textLower, feats.Norm)
		similarity := 1 - float64(distance)/float64(maxLen)
		if similarity < e.cfg.MinSimilarity*0.8 {
			continue
		}

		confidence := min(editCap, max(editMin, similarity*editFactor))
		out = append(out, candidate{subject: i, matchType: types.MatchEditDistance, confidence: confidence})
	}
	return out
}

// runeSequence splits a rune slice into the per-character sequence the
// difflib matcher operates on.
func runeSequence(runes []rune) []string {
	seq := make([]string, len(runes))
	for i, r := range runes {
		seq[i] = string(r)
	}
	return seq
}

// jaccard computes the character set Jaccard index of two rune sets
func jaccard(a, b map[rune]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for r := range a {
		if _, ok := b[r]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
