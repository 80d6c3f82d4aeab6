package records

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/standardbeagle/lsc/internal/debug"
	"github.com/standardbeagle/lsc/internal/errors"
	"github.com/standardbeagle/lsc/internal/types"
)

// ReadOptions controls how the text column is pulled out of a CSV file
type ReadOptions struct {
	// Column is the zero-based index of the text column
	Column int

	// HasHeader skips the first row and preserves it for output
	HasHeader bool
}

// File holds the rows of one input file plus the extracted records, so the
// original columns survive a read/classify/write round trip.
type File struct {
	Path    string
	Header  []string
	Rows    [][]string
	Records []types.Record
	opts    ReadOptions
}

// Read loads a CSV file and extracts the text column into records. Rows too
// short to have the text column yield an empty record at that position, so
// positions stay aligned with the file.
func Read(path string, opts ReadOptions) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewRecordsError("open", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows are tolerated, not fatal

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewRecordsError("parse", path, err)
	}

	out := &File{Path: path, opts: opts}
	if opts.HasHeader && len(rows) > 0 {
		out.Header = rows[0]
		rows = rows[1:]
	}
	out.Rows = rows

	out.Records = make([]types.Record, len(rows))
	for i, row := range rows {
		text := ""
		if opts.Column < len(row) {
			text = row[opts.Column]
		}
		out.Records[i] = types.Record{Text: text, Position: i}
	}

	debug.LogBatch("read %d rows from %s\n", len(rows), path)
	return out, nil
}

// Write saves the file's rows with three result columns appended: label,
// confidence, and match type. The results slice must be position-aligned
// with the file's records.
func (f *File) Write(path string, results []types.MatchResult) error {
	if len(results) != len(f.Rows) {
		return errors.NewRecordsError("write", path,
			fmt.Errorf("have %d results for %d rows", len(results), len(f.Rows)))
	}

	out, err := os.Create(path)
	if err != nil {
		return errors.NewRecordsError("create", path, err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if f.Header != nil {
		header := append(append([]string{}, f.Header...), "label", "confidence", "match_type")
		if err := w.Write(header); err != nil {
			return errors.NewRecordsError("write", path, err)
		}
	}

	for i, row := range f.Rows {
		r := results[i]
		full := append(append([]string{}, row...),
			r.Label,
			strconv.FormatFloat(r.Confidence, 'f', 4, 64),
			r.Type.String(),
		)
		if err := w.Write(full); err != nil {
			return errors.NewRecordsError("write", path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return errors.NewRecordsError("flush", path, err)
	}

	debug.LogBatch("wrote %d rows to %s\n", len(f.Rows), path)
	return nil
}
