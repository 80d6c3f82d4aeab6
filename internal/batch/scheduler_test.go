package batch

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/standardbeagle/lsc/internal/config"
	"github.com/standardbeagle/lsc/internal/errors"
	"github.com/standardbeagle/lsc/internal/match"
	"github.com/standardbeagle/lsc/internal/types"
	"github.com/standardbeagle/lsc/internal/vocab"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testLabels = []string{"项目管理", "市场营销", "数据分析", "风险评估", "产品设计"}

func makeRecords(n int) []types.Record {
	templates := []string{
		"启动项目管理工作第%d期",
		"市场营销方案评审%d",
		"数据分析报告%d",
		"关于风险评估的通知%d",
		"产品设计迭代%d",
		"完全无关的备忘%d",
		"x", // invalid, stays unmatched
	}
	records := make([]types.Record, n)
	for i := range records {
		records[i] = types.Record{
			Text:     fmt.Sprintf(templates[i%len(templates)], i),
			Position: i,
		}
	}
	return records
}

func newScheduler(t *testing.T, cfg *config.Config) *Scheduler {
	t.Helper()
	s, err := NewScheduler(vocab.FromLabels(testLabels), cfg)
	require.NoError(t, err)
	return s
}

func TestConstructionFailsFastOnBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Performance.ChunkSize = 0

	_, err := NewScheduler(vocab.FromLabels(testLabels), cfg)
	require.Error(t, err)

	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestSmallBatchRunsSerial(t *testing.T) {
	s := newScheduler(t, config.Default())

	records := makeRecords(10)
	results := s.ClassifyBatch(context.Background(), records)
	require.Len(t, results, len(records))

	assert.Equal(t, "项目管理", results[0].Label)
	assert.Equal(t, types.MatchExact, results[0].Type)
}

func TestInvalidRecordsStayUnmatched(t *testing.T) {
	s := newScheduler(t, config.Default())

	records := []types.Record{
		{Text: "启动项目管理工作", Position: 0},
		{Text: "", Position: 1},
		{Text: " a ", Position: 2},
		{Text: "市场营销方案", Position: 3},
	}
	results := s.ClassifyBatch(context.Background(), records)
	require.Len(t, results, 4)

	assert.True(t, results[0].Matched())
	assert.Equal(t, types.Unmatched(), results[1])
	assert.Equal(t, types.Unmatched(), results[2])
	assert.True(t, results[3].Matched())
}

func TestParallelMatchesSerial(t *testing.T) {
	records := makeRecords(10000)

	serialCfg := config.Default()
	serialCfg.Performance.EnableParallel = false
	serial := newScheduler(t, serialCfg)

	parallelCfg := config.Default()
	parallelCfg.Performance.EnableParallel = true
	parallelCfg.Performance.MaxWorkers = 4
	parallel := newScheduler(t, parallelCfg)

	a := serial.ClassifyBatch(context.Background(), records)
	b := parallel.ClassifyBatch(context.Background(), records)

	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i], b[i], "position %d", i)
	}
}

func TestOrderPreservedAcrossChunks(t *testing.T) {
	cfg := config.Default()
	cfg.Performance.SerialThreshold = 10
	cfg.Performance.ChunkSize = 7 // uneven final chunk
	cfg.Performance.MaxWorkers = 3
	s := newScheduler(t, cfg)

	records := make([]types.Record, 100)
	for i := range records {
		records[i] = types.Record{Text: fmt.Sprintf("数据分析报告%d", i), Position: i}
	}

	results := s.ClassifyBatch(context.Background(), records)
	require.Len(t, results, 100)
	for i, r := range results {
		assert.Equal(t, "数据分析", r.Label, "position %d", i)
	}
}

func TestClassifyBatchIdempotent(t *testing.T) {
	cfg := config.Default()
	cfg.Performance.SerialThreshold = 10
	s := newScheduler(t, cfg)

	records := makeRecords(500)
	first := s.ClassifyBatch(context.Background(), records)
	second := s.ClassifyBatch(context.Background(), records)
	assert.Equal(t, first, second)
}

func TestWorkerFailureFallsBackToSerial(t *testing.T) {
	cfg := config.Default()
	cfg.Performance.SerialThreshold = 10
	cfg.Performance.ChunkSize = 25
	s := newScheduler(t, cfg)

	var calls atomic.Int32
	s.runChunk = func(m *match.Matcher, c chunk) ([]types.MatchResult, error) {
		calls.Add(1)
		if c.index == 1 {
			return nil, errors.NewBatchError(c.index, "classify chunk", fmt.Errorf("boom"))
		}
		return classifyChunk(m, c)
	}

	records := makeRecords(100)
	results := s.ClassifyBatch(context.Background(), records)

	// Fallback still produces a full, correct result set
	require.Len(t, results, len(records))
	assert.Equal(t, "项目管理", results[0].Label)
	assert.Greater(t, calls.Load(), int32(0))
}

func TestPanicInChunkIsRecovered(t *testing.T) {
	// A nil matcher makes the chunk body panic; the recover turns it into
	// a recoverable batch error instead of killing the process.
	_, err := classifyChunk(nil, chunk{records: []types.Record{{Text: "启动项目管理工作"}}})
	require.Error(t, err)

	var batchErr *errors.BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.True(t, batchErr.IsRecoverable())
}

func TestStatsAccumulate(t *testing.T) {
	s := newScheduler(t, config.Default())

	records := []types.Record{
		{Text: "启动项目管理工作"},
		{Text: "x"},
		{Text: "该工程即将启动"},
	}
	s.ClassifyBatch(context.Background(), records)

	stats := s.Stats()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Exact)
	assert.Equal(t, 1, stats.Context)
	assert.Equal(t, 1, stats.Unmatched)
}

func TestCancelledContextDegradesToSerial(t *testing.T) {
	cfg := config.Default()
	cfg.Performance.SerialThreshold = 10
	s := newScheduler(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := makeRecords(100)
	results := s.ClassifyBatch(ctx, records)

	// The parallel attempt aborts on the dead context; the serial path
	// still yields a complete result set.
	require.Len(t, results, len(records))
	assert.True(t, results[0].Matched())
}
