package config

import (
	"fmt"
	"runtime"

	lscerrors "github.com/standardbeagle/lsc/internal/errors"
)

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults.
// Returns an error if validation fails; invalid configuration is surfaced to
// the caller rather than masked.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateMatchingConfig(&cfg.Matching); err != nil {
		return lscerrors.NewConfigError("matching", "", err)
	}

	if err := v.validatePerformanceConfig(&cfg.Performance); err != nil {
		return lscerrors.NewConfigError("performance", "", err)
	}

	v.setSmartDefaults(cfg)
	return nil
}

// validateMatchingConfig validates matching configuration
func (v *Validator) validateMatchingConfig(m *Matching) error {
	if m.MinSimilarity <= 0 || m.MinSimilarity >= 1 {
		return fmt.Errorf("MinSimilarity must be in (0,1), got %v", m.MinSimilarity)
	}

	if m.ContextConfidence < 0 || m.ContextConfidence > 1 {
		return fmt.Errorf("ContextConfidence must be in [0,1], got %v", m.ContextConfidence)
	}

	if m.MaxEditDistance < 0 {
		return fmt.Errorf("MaxEditDistance cannot be negative, got %d", m.MaxEditDistance)
	}

	// CacheSize 0 disables the result cache entirely
	if m.CacheSize < 0 {
		return fmt.Errorf("CacheSize cannot be negative, got %d", m.CacheSize)
	}

	return nil
}

// validatePerformanceConfig validates performance configuration
func (v *Validator) validatePerformanceConfig(perf *Performance) error {
	if perf.ChunkSize <= 0 {
		return fmt.Errorf("ChunkSize must be positive, got %d", perf.ChunkSize)
	}

	// MaxWorkers: 0 means auto-detect (will be set by smart defaults)
	if perf.MaxWorkers < 0 {
		return fmt.Errorf("MaxWorkers cannot be negative, got %d", perf.MaxWorkers)
	}

	if perf.SerialThreshold < 0 {
		return fmt.Errorf("SerialThreshold cannot be negative, got %d", perf.SerialThreshold)
	}

	return nil
}

// setSmartDefaults applies smart defaults based on system capabilities
func (v *Validator) setSmartDefaults(cfg *Config) {
	// Default MaxWorkers to cores-1 to leave headroom for the system
	if cfg.Performance.MaxWorkers == 0 {
		numCPU := runtime.NumCPU()
		cfg.Performance.MaxWorkers = max(1, numCPU-1)
	}

	if cfg.Matching.MaxEditDistance == 0 {
		cfg.Matching.MaxEditDistance = DefaultMaxEditDistance
	}
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	validator := NewValidator()
	return validator.ValidateAndSetDefaults(cfg)
}
