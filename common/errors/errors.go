// Package errors holds the error types shared across the dispatcher that
// callers need to tell apart, plus exit codes for the command line.
package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// DataIntegrityError signals a logic bug or tampering, e.g. a contact
// answering under a different name. Never silently ignored.
type DataIntegrityError struct {
	Message string
}

func (e *DataIntegrityError) Error() string {
	return "data integrity violation: " + e.Message
}

func NewDataIntegrityError(format string, args ...interface{}) error {
	return &DataIntegrityError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError is returned when a referenced row no longer exists.
type NotFoundError struct {
	Kind string
	ID   interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Kind, e.ID)
}

func NewNotFoundError(kind string, id interface{}) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// IsNotFound unwraps err with errors.Cause.
func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

func IsDataIntegrity(err error) bool {
	_, ok := errors.Cause(err).(*DataIntegrityError)
	return ok
}

// ExitCodeError attaches a process exit code to an error.
type ExitCodeError struct {
	code ExitCode
	error
}

func NewError(err error, exitCode ExitCode) *ExitCodeError {
	if err == nil {
		return nil
	}
	return &ExitCodeError{exitCode, err}
}

func (e *ExitCodeError) GetExitCode() ExitCode {
	if e == nil {
		return 0
	}
	return e.code
}

// ExitCodeOf returns the code carried by err, GenericFailureExitCode otherwise.
func ExitCodeOf(err error) ExitCode {
	if err == nil {
		return 0
	}
	if e, ok := err.(*ExitCodeError); ok {
		return e.GetExitCode()
	}
	return GenericFailureExitCode
}
