package errors

import (
	"errors"
	"fmt"
)

// Common errors used throughout the application
var (
	// Validation errors
	ErrEmptyNote       = errors.New("note text cannot be empty")
	ErrNoAudio         = errors.New("no audio captured")
	ErrMissingAPIKey   = errors.New("missing API key")
	ErrMissingStoreURL = errors.New("missing vector store URL")

	// Embedding errors
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrEmptyEmbedding    = errors.New("embedding response contained no vectors")
)

// ConfigError indicates missing or invalid configuration. It blocks all
// workflow entry points and is surfaced before any remote call is made.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error (%s): %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ServiceError indicates a failed transcription or embedding call. The
// triggering action is surfaced to the caller without retry and without
// mutating draft state.
type ServiceError struct {
	Service string // "transcription" or "embedding"
	Err     error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service error: %v", e.Service, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// StoreError indicates the vector store is unreachable or misconfigured.
// Fatal for the current save/search; no partial write occurs.
type StoreError struct {
	Op  string // "ensure", "upsert", "search", "scroll"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsServiceError reports whether err is (or wraps) a ServiceError.
func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}

// IsStoreError reports whether err is (or wraps) a StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
