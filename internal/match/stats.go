package match

import (
	"fmt"

	"github.com/standardbeagle/lsc/internal/types"
)

// Stats tallies classification outcomes by match type for run summaries
type Stats struct {
	Total       int
	Exact       int
	Contains    int
	Similarity  int
	WordOverlap int
	EditDist    int
	Context     int
	Unmatched   int
}

func (s *Stats) record(mt types.MatchType) {
	s.Total++
	switch mt {
	case types.MatchExact:
		s.Exact++
	case types.MatchContains:
		s.Contains++
	case types.MatchSimilarity:
		s.Similarity++
	case types.MatchWordOverlap:
		s.WordOverlap++
	case types.MatchEditDistance:
		s.EditDist++
	case types.MatchContext:
		s.Context++
	default:
		s.Unmatched++
	}
}

// Fuzzy returns the combined count of all fuzzy strategy hits
func (s Stats) Fuzzy() int {
	return s.Contains + s.Similarity + s.WordOverlap + s.EditDist
}

// Matched returns the count of records that received a label
func (s Stats) Matched() int {
	return s.Total - s.Unmatched
}

// MatchRate returns the fraction of records that received a label
func (s Stats) MatchRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Matched()) / float64(s.Total)
}

// Add merges another tally into this one, for combining per-chunk stats
func (s *Stats) Add(other Stats) {
	s.Total += other.Total
	s.Exact += other.Exact
	s.Contains += other.Contains
	s.Similarity += other.Similarity
	s.WordOverlap += other.WordOverlap
	s.EditDist += other.EditDist
	s.Context += other.Context
	s.Unmatched += other.Unmatched
}

// Summary renders a one-line run summary
func (s Stats) Summary() string {
	return fmt.Sprintf("total=%d exact=%d fuzzy=%d context=%d unmatched=%d rate=%.1f%%",
		s.Total, s.Exact, s.Fuzzy(), s.Context, s.Unmatched, s.MatchRate()*100)
}
