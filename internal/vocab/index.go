package vocab

import (
	"strings"
	"unicode/utf8"

	"github.com/coregx/ahocorasick"

	"github.com/standardbeagle/lsc/internal/debug"
	"github.com/standardbeagle/lsc/internal/errors"
	"github.com/standardbeagle/lsc/internal/types"
)

// SubjectFeatures caches per-subject values the fuzzy strategies need, so
// they are computed once per index build instead of once per match call.
type SubjectFeatures struct {
	Norm    string
	RuneLen int
	CharSet map[rune]struct{}
	First   rune
	Last    rune

	// Tokens holds the subject's overlap tokens (two runes or longer):
	// the full label, all 2- and 3-rune substrings, the leading and
	// trailing 2-rune substrings, and the first+last rune pair.
	Tokens map[string]struct{}
}

// Index holds the immutable lookup structures derived from a Vocabulary:
// the exact-match automaton, the token automaton for word-overlap scoring,
// length buckets, and the per-subject feature cache. An Index is read-only
// after construction and safe to share across workers.
type Index struct {
	vocab *Vocabulary

	exact         *ahocorasick.Automaton
	exactPatterns []int // automaton pattern id -> subject index

	token      *ahocorasick.Automaton
	tokenNames []string // automaton pattern id -> token string

	buckets  map[int][]int // rune length -> subject indices
	features []SubjectFeatures
}

// NewIndex builds an Index for the vocabulary. An empty vocabulary yields an
// index that matches nothing; construction only fails if an automaton
// cannot be built.
func NewIndex(v *Vocabulary) (*Index, error) {
	ix := &Index{
		vocab:    v,
		buckets:  make(map[int][]int),
		features: make([]SubjectFeatures, v.Len()),
	}

	exactPatterns := make([]string, 0, v.Len())
	tokenSeen := make(map[string]struct{})

	for i, s := range v.Subjects() {
		norm := s.Normalized()
		feats := extractFeatures(norm)
		ix.features[i] = feats

		ix.buckets[feats.RuneLen] = append(ix.buckets[feats.RuneLen], i)

		exactPatterns = append(exactPatterns, norm)
		ix.exactPatterns = append(ix.exactPatterns, i)

		for tok := range feats.Tokens {
			if _, ok := tokenSeen[tok]; !ok {
				tokenSeen[tok] = struct{}{}
				ix.tokenNames = append(ix.tokenNames, tok)
			}
		}
	}

	if len(exactPatterns) > 0 {
		automaton, err := ahocorasick.NewBuilder().
			AddStrings(exactPatterns).
			SetMatchKind(ahocorasick.LeftmostLongest).
			SetPrefilter(true).
			Build()
		if err != nil {
			return nil, errors.NewVocabularyError("build exact automaton", err)
		}
		ix.exact = automaton
	}

	if len(ix.tokenNames) > 0 {
		automaton, err := ahocorasick.NewBuilder().
			AddStrings(ix.tokenNames).
			SetMatchKind(ahocorasick.LeftmostLongest).
			SetPrefilter(true).
			Build()
		if err != nil {
			return nil, errors.NewVocabularyError("build token automaton", err)
		}
		ix.token = automaton
	}

	debug.LogVocab("index built: %d subjects, %d tokens, %d length buckets\n",
		v.Len(), len(ix.tokenNames), len(ix.buckets))
	return ix, nil
}

// Vocabulary returns the vocabulary this index was built from
func (ix *Index) Vocabulary() *Vocabulary {
	return ix.vocab
}

// Features returns the cached features for a subject index
func (ix *Index) Features(i int) SubjectFeatures {
	return ix.features[i]
}

// ScanExact returns the indices of every subject whose normalized form
// occurs as a substring of textLower, via one linear automaton pass.
func (ix *Index) ScanExact(textLower string) []int {
	if ix.exact == nil {
		return nil
	}

	matches := ix.exact.FindAllOverlapping([]byte(textLower))
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[int]struct{}, len(matches))
	out := make([]int, 0, len(matches))
	for _, m := range matches {
		subj := ix.exactPatterns[m.PatternID]
		if _, dup := seen[subj]; dup {
			continue
		}
		seen[subj] = struct{}{}
		out = append(out, subj)
	}
	return out
}

// ScanTokens returns the set of vocabulary tokens found in textLower.
// Only tokens of two runes or more are indexed, so single-rune noise
// never participates in overlap scoring.
func (ix *Index) ScanTokens(textLower string) map[string]struct{} {
	if ix.token == nil {
		return nil
	}

	matches := ix.token.FindAllOverlapping([]byte(textLower))
	if len(matches) == 0 {
		return nil
	}

	found := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		found[ix.tokenNames[m.PatternID]] = struct{}{}
	}
	return found
}

// SameLength checks the length bucket for a subject equal to textLower,
// an O(bucket) shortcut that avoids the automaton when the whole text is a
// vocabulary entry.
func (ix *Index) SameLength(textLower string, runeLen int) (int, bool) {
	for _, i := range ix.buckets[runeLen] {
		if ix.features[i].Norm == textLower {
			return i, true
		}
	}
	return -1, false
}

// extractFeatures computes the per-subject feature cache for one normalized label
func extractFeatures(norm string) SubjectFeatures {
	runes := []rune(norm)
	feats := SubjectFeatures{
		Norm:    norm,
		RuneLen: len(runes),
		CharSet: make(map[rune]struct{}, len(runes)),
		Tokens:  tokenize(runes),
	}

	for _, r := range runes {
		feats.CharSet[r] = struct{}{}
	}
	if len(runes) > 0 {
		feats.First = runes[0]
		feats.Last = runes[len(runes)-1]
	}
	return feats
}

// tokenize produces the overlap token set for a normalized label: the label
// itself, every contiguous 2- and 3-rune substring, and for longer labels
// the leading/trailing bigrams plus the first+last rune pair. Single runes
// are deliberately excluded; they match everywhere and carry no signal.
func tokenize(runes []rune) map[string]struct{} {
	tokens := make(map[string]struct{})

	if len(runes) >= types.MinTextLength {
		tokens[string(runes)] = struct{}{}
	}

	for _, window := range []int{2, 3} {
		if len(runes) < window {
			continue
		}
		for i := 0; i+window <= len(runes); i++ {
			tokens[string(runes[i:i+window])] = struct{}{}
		}
	}

	if len(runes) > 2 {
		tokens[string(runes[:2])] = struct{}{}
		tokens[string(runes[len(runes)-2:])] = struct{}{}
		tokens[string([]rune{runes[0], runes[len(runes)-1]})] = struct{}{}
	}

	return tokens
}

// NormalizeText lowercases text for matching. Kept in one place so pattern
// compilation and scanning always agree.
func NormalizeText(text string) string {
	return strings.ToLower(text)
}

// TrimmedRuneLen returns the rune length of text after trimming whitespace
func TrimmedRuneLen(text string) int {
	return utf8.RuneCountInString(strings.TrimSpace(text))
}
