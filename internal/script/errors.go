package script

import (
	"errors"
	"fmt"
)

// Errors returned by script runs.
var (
	// ErrTimeout is returned when a run exceeds its timeout.
	ErrTimeout = errors.New("script execution timeout")

	// ErrNoInput indicates a run without an input cursor.
	ErrNoInput = errors.New("no input cursor")
)

// Error reports a failure raised while loading or running a script.
type Error struct {
	// Script is the script name.
	Script string
	// Err is the underlying error, usually a *lua.ApiError.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("script %s: %v", e.Script, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}
