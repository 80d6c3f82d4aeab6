package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadKDL attempts to load configuration from a .lsc.kdl file in searchDir.
// Returns (nil, nil) when no config file exists.
func LoadKDL(searchDir string) (*Config, error) {
	kdlPath := filepath.Join(searchDir, ".lsc.kdl")

	if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
		return nil, nil
	}

	content, err := os.ReadFile(kdlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .lsc.kdl: %v", err)
	}

	return parseKDL(string(content))
}

// Simple KDL parser for LSC configuration
func parseKDL(content string) (*Config, error) {
	cfg := Default()

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "matching":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "min_similarity":
					if v, ok := firstFloatArg(cn); ok {
						cfg.Matching.MinSimilarity = v
					}
				case "enable_word_combination":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Matching.EnableWordCombination = b
					}
				case "context_confidence":
					if v, ok := firstFloatArg(cn); ok {
						cfg.Matching.ContextConfidence = v
					}
				case "max_edit_distance":
					if v, ok := firstIntArg(cn); ok {
						cfg.Matching.MaxEditDistance = int(v)
					}
				case "cache_size":
					if v, ok := firstIntArg(cn); ok {
						cfg.Matching.CacheSize = int(v)
					}
				}
			}
		case "performance":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "enable_parallel":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Performance.EnableParallel = b
					}
				case "max_workers":
					if v, ok := firstIntArg(cn); ok {
						cfg.Performance.MaxWorkers = int(v)
					}
				case "chunk_size":
					if v, ok := firstIntArg(cn); ok {
						cfg.Performance.ChunkSize = int(v)
					}
				case "serial_threshold":
					if v, ok := firstIntArg(cn); ok {
						cfg.Performance.SerialThreshold = int(v)
					}
				}
			}
		}
	}

	return cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	if s, ok := n.Name.Value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", n.Name.Value)
}

func firstIntArg(n *document.Node) (int64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func firstFloatArg(n *document.Node) (float64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
