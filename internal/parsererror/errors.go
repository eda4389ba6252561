// Package parsererror defines the typed errors shared by the parser, validation
// and ledger packages.
package parsererror

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned by the ingest layer for unknown senders.
var ErrUnauthorized = errors.New("user is not authorized")

// ConfigError reports malformed static configuration (keyword lists, patterns,
// thresholds). It is a programming or deployment defect and should stop the
// process at startup.
type ConfigError struct {
	Component string
	Setting   string
	Err       error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %v", e.Component, e.Setting, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ValidationError reports a single field that failed validation before a
// transaction is persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// StoreError reports a failed ledger operation.
type StoreError struct {
	Operation string
	Path      string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("ledger %s failed for '%s': %v", e.Operation, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
