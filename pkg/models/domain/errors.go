package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors the typed errors below unwrap to.
var (
	ErrValidation       = errors.New("validation error")
	ErrParse            = errors.New("parse error")
	ErrStoreCorruption  = errors.New("store corruption")
	ErrRender           = errors.New("render error")
	ErrNotFound         = errors.New("not found")
	ErrExportInProgress = errors.New("export already in progress")
)

// FieldError describes a validation failure of a single field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned when required input is missing or cannot be coerced.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return fmt.Sprintf("validation: %s", strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// ParseError wraps a failure of the tabular reader.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse: %v", e.Err)
}

func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Err} }

// StoreCorruptionError reports a persisted collection that could not be decoded.
// The store recovers from it with an empty collection.
type StoreCorruptionError struct {
	Key    string
	Backup string
	Err    error
}

func (e *StoreCorruptionError) Error() string {
	msg := fmt.Sprintf("store: key %q is corrupted: %v", e.Key, e.Err)
	if e.Backup != "" {
		msg += fmt.Sprintf(" (raw content kept under %q)", e.Backup)
	}
	return msg
}

func (e *StoreCorruptionError) Unwrap() []error { return []error{ErrStoreCorruption, e.Err} }

// RenderError wraps a capture or document assembly failure.
type RenderError struct {
	Stage string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render: %s: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() []error { return []error{ErrRender, e.Err} }
