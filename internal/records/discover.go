package records

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/lsc/internal/errors"
)

// excluded marks files that look like scaffolding rather than real input
var excludePatterns = []string{"sample", "example", "backup", "template", "~$"}

// Discover expands a glob pattern into candidate input files, newest first.
// Files whose names look like samples, templates, or editor backups are
// skipped so a data directory full of scaffolding still resolves to the
// real input.
func Discover(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, errors.NewRecordsError("glob", pattern, err)
	}

	type candidate struct {
		path  string
		mtime int64
	}

	candidates := make([]candidate, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if isExcluded(filepath.Base(path)) {
			continue
		}
		candidates = append(candidates, candidate{path: path, mtime: info.ModTime().UnixNano()})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].mtime != candidates[j].mtime {
			return candidates[i].mtime > candidates[j].mtime
		}
		return candidates[i].path < candidates[j].path
	})

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.path
	}
	return out, nil
}

// Latest returns the most recently modified input file for a pattern
func Latest(pattern string) (string, error) {
	files, err := Discover(pattern)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", errors.NewRecordsError("discover", pattern, os.ErrNotExist)
	}
	return files[0], nil
}

func isExcluded(name string) bool {
	lower := strings.ToLower(name)
	for _, pattern := range excludePatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
