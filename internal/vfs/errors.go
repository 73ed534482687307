// Package vfs provides a navigable directory view over a flat archive
// namespace.
//
// This file contains error types and error handling utilities.
package vfs

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound indicates a file is absent or names a directory
	ErrFileNotFound = errors.New("file not found")

	// ErrInvalidPath indicates an empty or otherwise unusable path argument
	ErrInvalidPath = errors.New("invalid path")
)

// Error wraps filesystem errors with context about the operation and the
// affected path.
type Error struct {
	Op   string // Operation that failed (e.g., "read", "cd")
	Path string // Affected path
	Err  error  // Underlying error
}

// Error implements the error interface, providing a formatted error message
func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap implements error unwrapping for the errors.Is/As functions
func (e *Error) Unwrap() error {
	return e.Err
}

// newError creates a new Error with the given operation, path, and underlying error
func newError(op string, path string, err error) *Error {
	vfsErr := &Error{
		Op:   op,
		Path: path,
		Err:  err,
	}
	vfsLogger.Debug("Created new error: %v", vfsErr)
	return vfsErr
}

// Operation names for consistent logging and error reporting
const (
	OpChdir = "cd"    // Changing directory
	OpRead  = "read"  // Reading a file
	OpClose = "close" // Releasing the archive
)
