package config

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by configuration operations.
var (
	// ErrFileNotFound indicates an explicitly named config file doesn't exist.
	ErrFileNotFound = errors.New("config file not found")

	// ErrTypeMismatch indicates the value type doesn't match the expected type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrValidationFailed indicates one or more settings have invalid values.
	ErrValidationFailed = errors.New("validation failed")
)

// TypeError is returned when a setting has the wrong type.
type TypeError struct {
	// Path is the setting path.
	Path string
	// Expected is the expected type name.
	Expected string
	// Actual is the actual type name.
	Actual string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("type error for %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// Unwrap returns ErrTypeMismatch.
func (e *TypeError) Unwrap() error {
	return ErrTypeMismatch
}

// ValidationError describes a validation failure for a setting.
type ValidationError struct {
	// Path is the setting path that failed validation.
	Path string
	// Message describes the validation error.
	Message string
	// Value is the invalid value.
	Value any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Path, e.Message, e.Value)
}

// ValidationErrors collects every failure found in one pass.
type ValidationErrors struct {
	Errors []*ValidationError
}

// Add records a failure for path.
func (e *ValidationErrors) Add(path, message string, value any) {
	e.Errors = append(e.Errors, &ValidationError{Path: path, Message: message, Value: value})
}

// HasErrors reports whether any failure was recorded.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e.Errors), strings.Join(msgs, "\n  - "))
}

// Unwrap returns ErrValidationFailed.
func (e *ValidationErrors) Unwrap() error {
	return ErrValidationFailed
}
