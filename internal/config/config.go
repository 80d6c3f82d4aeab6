package config

// Default matching constants. These mirror the tuning the classifier shipped
// with; all of them can be overridden via .lsc.kdl or CLI flags.
const (
	DefaultMinSimilarity     = 0.4
	DefaultContextConfidence = 0.65
	DefaultCacheSize         = 20000
	DefaultChunkSize         = 1000
	DefaultSerialThreshold   = 1000
	DefaultMaxEditDistance   = 5
)

// Config carries all classifier settings. It is passed explicitly into the
// vocabulary index, arbiter, and scheduler constructors; nothing reads
// configuration from globals or at import time.
type Config struct {
	Version     int
	Matching    Matching
	Performance Performance
}

// Matching controls the fuzzy and context layers of the pipeline
type Matching struct {
	MinSimilarity float64 // Acceptance threshold base for similarity/edit-distance, in (0,1)

	EnableWordCombination bool // Full four-strategy fuzzy path vs containment/similarity-only fast path

	ContextConfidence float64 // Fixed confidence for context-rule hits
	// The two historical matcher variants disagreed on this constant
	// (0.65 vs 0.70). It is an explicit knob so deployments can pick;
	// the default follows the richer variant.

	MaxEditDistance int // Length-difference prefilter for the edit-distance strategy

	CacheSize int // Bounded LRU result cache entries; 0 disables caching
}

// Performance controls the batch execution model
type Performance struct {
	EnableParallel  bool // Global switch; false forces serial processing
	MaxWorkers      int  // 0 = auto-detect (NumCPU-1)
	ChunkSize       int  // Records per parallel chunk
	SerialThreshold int  // Batches below this size always run serially
}

// Default returns the configuration used when no .lsc.kdl is present
func Default() *Config {
	return &Config{
		Version: 1,
		Matching: Matching{
			MinSimilarity:         DefaultMinSimilarity,
			EnableWordCombination: false,
			ContextConfidence:     DefaultContextConfidence,
			MaxEditDistance:       DefaultMaxEditDistance,
			CacheSize:             DefaultCacheSize,
		},
		Performance: Performance{
			EnableParallel:  true,
			MaxWorkers:      0, // auto-detect
			ChunkSize:       DefaultChunkSize,
			SerialThreshold: DefaultSerialThreshold,
		},
	}
}

// Load reads configuration, falling back to defaults when no config file
// exists in searchDir. The result is validated with smart defaults applied.
func Load(searchDir string) (*Config, error) {
	cfg, err := LoadKDL(searchDir)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = Default()
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
