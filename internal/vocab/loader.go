package vocab

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/standardbeagle/lsc/internal/debug"
	"github.com/standardbeagle/lsc/internal/errors"
	"github.com/standardbeagle/lsc/internal/types"
)

// subjectFile is the on-disk shape shared by the JSON and TOML sources:
// a subject list plus an optional label -> weight table.
type subjectFile struct {
	Subjects []string           `json:"subjects" toml:"subjects"`
	Weights  map[string]float64 `json:"weights" toml:"weights"`
}

// LoadFile loads a vocabulary from path, dispatching on extension:
// .json and .toml carry subjects with optional weights, anything else is
// read as a plain newline-separated label list.
func LoadFile(path string) (*Vocabulary, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(path)
	case ".toml":
		return LoadTOML(path)
	default:
		return LoadList(path)
	}
}

// LoadJSON loads subjects and weights from a JSON file
func LoadJSON(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewVocabularyError("load", err).WithSource(path)
	}

	var sf subjectFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, errors.NewVocabularyError("parse json", err).WithSource(path)
	}

	return fromSubjectFile(sf, path), nil
}

// LoadTOML loads subjects and weights from a TOML file
func LoadTOML(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewVocabularyError("load", err).WithSource(path)
	}

	var sf subjectFile
	if err := toml.Unmarshal(data, &sf); err != nil {
		return nil, errors.NewVocabularyError("parse toml", err).WithSource(path)
	}

	return fromSubjectFile(sf, path), nil
}

// LoadList loads a plain newline-separated label list. Blank lines and
// lines starting with '#' are skipped.
func LoadList(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewVocabularyError("load", err).WithSource(path)
	}
	defer f.Close()

	var labels []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		labels = append(labels, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewVocabularyError("read", err).WithSource(path)
	}

	debug.LogVocab("loaded %d labels from %s\n", len(labels), path)
	return FromLabels(labels), nil
}

func fromSubjectFile(sf subjectFile, path string) *Vocabulary {
	raw := make([]types.Subject, 0, len(sf.Subjects))
	for _, label := range sf.Subjects {
		weight := types.DefaultWeight
		if w, ok := sf.Weights[label]; ok {
			weight = w
		}
		raw = append(raw, types.Subject{Label: label, Weight: weight})
	}

	debug.LogVocab("loaded %d subjects (%d weighted) from %s\n", len(raw), len(sf.Weights), path)
	return Build(raw)
}
