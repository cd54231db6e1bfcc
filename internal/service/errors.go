package service

import (
	"errors"
	"fmt"
)

// Engine error taxonomy. Handlers map these to HTTP statuses with errors.Is /
// errors.As; nothing below is retried inside the engine.
var (
	// ErrNotFound — unknown PO, GRN, vendor request or credit note id.
	ErrNotFound = errors.New("not found")
	// ErrConflict — stale-state transition, duplicate case, duplicate grn_number.
	// The caller must re-fetch and retry with current state.
	ErrConflict = errors.New("conflict")
	// ErrInvariant — a workflow invariant would be violated (credit note total
	// mismatch, fulfillment without a fulfillment GRN). Never partially applied.
	ErrInvariant = errors.New("invariant violation")
)

// ValidationError carries line-level detail for malformed submissions.
// Rejected before any persistence.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

func conflictf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrConflict)...)
}

func invariantf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvariant)...)
}
