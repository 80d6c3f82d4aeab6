package batch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/lsc/internal/config"
	"github.com/standardbeagle/lsc/internal/debug"
	"github.com/standardbeagle/lsc/internal/errors"
	"github.com/standardbeagle/lsc/internal/match"
	"github.com/standardbeagle/lsc/internal/types"
	"github.com/standardbeagle/lsc/internal/vocab"
)

// Scheduler classifies batches of records, splitting large batches into
// fixed-size chunks dispatched to a worker pool. Results always come back
// in submission order regardless of which worker finished first.
//
// Error policy: no per-record failure ever escapes ClassifyBatch; every
// record yields a MatchResult. If any worker fails, all parallel results
// are discarded and the whole batch is re-run serially. Only construction
// errors (bad config, index build failure) propagate to the caller.
type Scheduler struct {
	index *vocab.Index
	cfg   *config.Config
	stats match.Stats

	// runChunk is swapped out in tests to simulate worker failures
	runChunk func(*match.Matcher, chunk) ([]types.MatchResult, error)
}

// chunk is one unit of parallel work: a contiguous run of valid records
type chunk struct {
	index   int
	records []types.Record
}

// chunkResult carries a finished chunk back to the dispatcher
type chunkResult struct {
	index   int
	results []types.MatchResult
}

// NewScheduler validates the configuration and builds the shared index.
// Configuration inconsistencies fail here, before any batch is accepted.
func NewScheduler(v *vocab.Vocabulary, cfg *config.Config) (*Scheduler, error) {
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	ix, err := vocab.NewIndex(v)
	if err != nil {
		return nil, err
	}

	return &Scheduler{index: ix, cfg: cfg, runChunk: classifyChunk}, nil
}

// ClassifyBatch classifies every record and returns one MatchResult per
// record, position-aligned with the input. Records that fail validation
// (trimmed length under the minimum) are unmatched without entering the
// pipeline.
func (s *Scheduler) ClassifyBatch(ctx context.Context, records []types.Record) []types.MatchResult {
	results := make([]types.MatchResult, len(records))
	for i := range results {
		results[i] = types.Unmatched()
	}

	valid := make([]types.Record, 0, len(records))
	slots := make([]int, 0, len(records))
	for i, r := range records {
		if r.Valid() {
			valid = append(valid, r)
			slots = append(slots, i)
		} else {
			s.stats.Total++
			s.stats.Unmatched++
		}
	}

	var matched []types.MatchResult
	if s.useParallel(len(valid)) {
		var err error
		matched, err = s.classifyParallel(ctx, valid)
		if err != nil {
			debug.LogBatch("parallel run failed, degrading to serial: %v\n", err)
			matched = s.classifySerial(valid)
		}
	} else {
		matched = s.classifySerial(valid)
	}

	for i, slot := range slots {
		results[slot] = matched[i]
	}
	return results
}

// useParallel decides the execution path. Small batches stay serial; the
// chunking and pool overhead only pays off past the threshold.
func (s *Scheduler) useParallel(count int) bool {
	return s.cfg.Performance.EnableParallel && count >= s.cfg.Performance.SerialThreshold
}

func (s *Scheduler) classifySerial(records []types.Record) []types.MatchResult {
	m := match.NewMatcher(s.index, s.cfg)
	out := make([]types.MatchResult, len(records))
	for i, r := range records {
		out[i] = m.Classify(r.Text)
	}
	s.stats.Add(m.Stats())
	return out
}

// classifyParallel splits records into fixed chunks and fans them out to a
// worker pool. Any worker error or panic aborts the whole parallel attempt;
// the caller falls back to serial.
func (s *Scheduler) classifyParallel(ctx context.Context, records []types.Record) ([]types.MatchResult, error) {
	chunkSize := s.cfg.Performance.ChunkSize
	numChunks := (len(records) + chunkSize - 1) / chunkSize

	workers := s.cfg.Performance.MaxWorkers
	if workers > numChunks {
		workers = numChunks
	}

	tasks := make(chan chunk, numChunks)
	for i := 0; i < numChunks; i++ {
		start := i * chunkSize
		end := min(start+chunkSize, len(records))
		tasks <- chunk{index: i, records: records[start:end]}
	}
	close(tasks)

	chunked := make([][]types.MatchResult, numChunks)
	workerStats := make([]match.Stats, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			// Each worker gets its own matcher: the index is shared and
			// read-only, the result cache is not.
			m := match.NewMatcher(s.index, s.cfg)
			for c := range tasks {
				if err := ctx.Err(); err != nil {
					return err
				}
				results, err := s.runChunk(m, c)
				if err != nil {
					return err
				}
				chunked[c.index] = results
			}
			workerStats[w] = m.Stats()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]types.MatchResult, 0, len(records))
	for _, part := range chunked {
		out = append(out, part...)
	}
	for _, ws := range workerStats {
		s.stats.Add(ws)
	}

	debug.LogBatch("parallel run complete: %d records, %d chunks, %d workers\n",
		len(records), numChunks, workers)
	return out, nil
}

// classifyChunk runs one chunk through a matcher, converting panics into
// batch errors so a single bad record cannot kill the process.
func classifyChunk(m *match.Matcher, c chunk) (results []types.MatchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewBatchError(c.index, "classify chunk", fmt.Errorf("panic: %v", r)).
				WithRecoverable(true)
		}
	}()

	results = make([]types.MatchResult, len(c.records))
	for i, r := range c.records {
		results[i] = m.Classify(r.Text)
	}
	return results, nil
}

// Stats returns the tallies accumulated across all batches so far
func (s *Scheduler) Stats() match.Stats {
	return s.stats
}
