package errors

import (
	"fmt"
	"time"
)

// Error types for the subject classification system
type ErrorType string

const (
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeVocabulary ErrorType = "vocabulary"
	ErrorTypeBatch      ErrorType = "batch"
	ErrorTypeRecords    ErrorType = "records"
)

// ConfigError represents a configuration error. Configuration problems fail
// fast at construction time and are never masked.
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// VocabularyError represents a failure while loading or indexing a vocabulary
type VocabularyError struct {
	Type       ErrorType
	Source     string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewVocabularyError creates a new vocabulary error with context
func NewVocabularyError(op string, err error) *VocabularyError {
	return &VocabularyError{
		Type:       ErrorTypeVocabulary,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// WithSource adds the originating file or source name to the error
func (e *VocabularyError) WithSource(source string) *VocabularyError {
	e.Source = source
	return e
}

// Error implements the error interface
func (e *VocabularyError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s %s failed for %s: %v", e.Type, e.Operation, e.Source, e.Underlying)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Type, e.Operation, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *VocabularyError) Unwrap() error {
	return e.Underlying
}

// BatchError represents a failure inside a chunk's matching pipeline.
// Recoverable batch errors trigger the serial fallback rather than
// propagating to the caller.
type BatchError struct {
	Type        ErrorType
	ChunkIndex  int
	Operation   string
	Underlying  error
	Timestamp   time.Time
	Recoverable bool
}

// NewBatchError creates a new batch error for a chunk
func NewBatchError(chunkIndex int, op string, err error) *BatchError {
	return &BatchError{
		Type:        ErrorTypeBatch,
		ChunkIndex:  chunkIndex,
		Operation:   op,
		Underlying:  err,
		Timestamp:   time.Now(),
		Recoverable: true,
	}
}

// WithRecoverable marks whether the error can be recovered by re-running serially
func (e *BatchError) WithRecoverable(recoverable bool) *BatchError {
	e.Recoverable = recoverable
	return e
}

// Error implements the error interface
func (e *BatchError) Error() string {
	return fmt.Sprintf("%s %s failed for chunk %d: %v", e.Type, e.Operation, e.ChunkIndex, e.Underlying)
}

// Unwrap returns the underlying error
func (e *BatchError) Unwrap() error {
	return e.Underlying
}

// IsRecoverable checks if the error can be handled by degrading to serial mode
func (e *BatchError) IsRecoverable() bool {
	return e.Recoverable
}

// RecordsError represents a record source or sink failure
type RecordsError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewRecordsError creates a new records error
func NewRecordsError(op, path string, err error) *RecordsError {
	return &RecordsError{
		Type:       ErrorTypeRecords,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *RecordsError) Error() string {
	return fmt.Sprintf("records %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *RecordsError) Unwrap() error {
	return e.Underlying
}
