package records

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/lsc/internal/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadWithHeader(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "reports.csv",
		"id,title\n1,启动项目管理工作\n2,市场营销方案\n")

	f, err := Read(path, ReadOptions{Column: 1, HasHeader: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "title"}, f.Header)
	require.Len(t, f.Records, 2)
	assert.Equal(t, "启动项目管理工作", f.Records[0].Text)
	assert.Equal(t, 0, f.Records[0].Position)
	assert.Equal(t, "市场营销方案", f.Records[1].Text)
}

func TestReadRaggedRows(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ragged.csv", "a,标题一\nb\nc,标题三\n")

	f, err := Read(path, ReadOptions{Column: 1})
	require.NoError(t, err)
	require.Len(t, f.Records, 3)

	assert.Equal(t, "标题一", f.Records[0].Text)
	assert.Equal(t, "", f.Records[1].Text, "short row yields empty record")
	assert.Equal(t, "标题三", f.Records[2].Text)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.csv"), ReadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open")
}

func TestWriteAppendsResultColumns(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", "id,title\n1,启动项目管理工作\n")

	f, err := Read(in, ReadOptions{Column: 1, HasHeader: true})
	require.NoError(t, err)

	results := []types.MatchResult{
		{Label: "项目管理", Type: types.MatchExact, Confidence: 0.95},
	}
	out := filepath.Join(dir, "out.csv")
	require.NoError(t, f.Write(out, results))

	round, err := Read(out, ReadOptions{Column: 1, HasHeader: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "title", "label", "confidence", "match_type"}, round.Header)
	require.Len(t, round.Rows, 1)
	assert.Equal(t, []string{"1", "启动项目管理工作", "项目管理", "0.9500", "exact"}, round.Rows[0])
}

func TestWriteResultCountMismatch(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", "标题一\n标题二\n")

	f, err := Read(in, ReadOptions{})
	require.NoError(t, err)

	err = f.Write(filepath.Join(dir, "out.csv"), []types.MatchResult{{}})
	require.Error(t, err)
}

func TestDiscoverSkipsScaffolding(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sample_data.csv", "x\n")
	writeFile(t, dir, "report_template.csv", "x\n")
	writeFile(t, dir, "reports_backup.csv", "x\n")
	real := writeFile(t, dir, "reports.csv", "x\n")

	files, err := Discover(filepath.Join(dir, "*.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{real}, files)
}

func TestDiscoverNewestFirst(t *testing.T) {
	dir := t.TempDir()
	older := writeFile(t, dir, "a.csv", "x\n")
	newer := writeFile(t, dir, "b.csv", "x\n")

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	files, err := Discover(filepath.Join(dir, "*.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{newer, older}, files)
}

func TestLatestEmpty(t *testing.T) {
	_, err := Latest(filepath.Join(t.TempDir(), "*.csv"))
	require.Error(t, err)
}

func TestDiscoverRecursiveGlob(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	path := writeFile(t, sub, "deep.csv", "x\n")

	files, err := Discover(filepath.Join(dir, "**", "*.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}
