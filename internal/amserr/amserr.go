// Package amserr implements the error taxonomy (C15): a typed Kind enum
// wrapping an underlying cause, with retry classification.
package amserr

import (
	"errors"
	"fmt"
)

// Kind enumerates the error taxonomy of spec §4.14.
type Kind string

const (
	InputMissing     Kind = "InputMissing"
	SchemaMismatch   Kind = "SchemaMismatch"
	HashMismatch     Kind = "HashMismatch"
	ExternalTransient Kind = "ExternalTransient"
	ExternalFatal    Kind = "ExternalFatal"
	Cancelled        Kind = "Cancelled"
	Internal         Kind = "Internal"
)

// Error is a typed, wrapped error. Its Kind drives retry and exit-code
// classification in the orchestrator and CLI.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error of the given kind wrapping cause (may be nil).
func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Is makes errors.Is(err, amserr.New(amserr.SchemaMismatch, "", nil))
// match any *Error of the same Kind, ignoring message and cause; a Kind
// value itself is not an error and cannot be passed to errors.Is.
// KindOf(err) == SchemaMismatch is the plainer check.
func (e *Error) Is(target error) bool {
	var te *Error
	if errors.As(target, &te) {
		return e.Kind == te.Kind
	}
	return false
}

// KindOf extracts the Kind of err if it (or something it wraps) is an
// *Error, else returns Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Retryable reports whether the error's kind should be retried with bounded
// backoff (only ExternalTransient, per spec §7).
func Retryable(err error) bool {
	return KindOf(err) == ExternalTransient
}

// ExitCode maps an error to the CLI exit codes of spec §6: 0 success
// (no error), 1 recoverable chapter failure, 2 configuration/schema error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch KindOf(err) {
	case SchemaMismatch, HashMismatch:
		return 2
	default:
		return 1
	}
}
