// Package errors carries coded errors through the ETL.
//
// Every failure that crosses a package boundary is tagged with a Code
// so the run ledger, the CLI, and the HTTP server can react to the
// category without string matching. A small set of codes — the
// scenario failures and MISSING_FIELDS — mark cases the archive itself
// cannot deliver completely; IsExclusion groups them so batch runs
// record such cases as excluded instead of failed.
//
//	err := errors.New(errors.ErrCodeMalformedScenario, "third category boundary at token %d", i)
//	if errors.IsExclusion(err) {
//	    // record as excluded, keep the batch going
//	}
//
//	err = errors.Wrap(errors.ErrCodeNetwork, cause, "fetch %s", url)
package errors

import (
	stderrors "errors"
	"fmt"
)

// Code is a machine-readable error category.
type Code string

const (
	// Scenario segmentation failures. All three exclude the case.
	ErrCodeMissingScenario    Code = "MISSING_SCENARIO"
	ErrCodeMalformedScenario  Code = "MALFORMED_SCENARIO"
	ErrCodeIncompleteScenario Code = "INCOMPLETE_SCENARIO"

	// Case extraction failures.
	ErrCodeMissingFields Code = "MISSING_FIELDS"
	ErrCodeInvalidCase   Code = "INVALID_CASE"
	ErrCodeInvalidURL    Code = "INVALID_URL"

	// Input and configuration validation.
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Missing resources.
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeCaseNotFound Code = "CASE_NOT_FOUND"

	// Transport.
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Persistence.
	ErrCodeStore Code = "STORE_ERROR"

	// Everything else.
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error pairs a code with a formatted message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// New builds an Error from a code and a format string.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates cause with a code and message. The cause stays
// reachable through Unwrap for the stdlib errors helpers.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// from digs the first *Error out of err's chain.
func from(err error) (*Error, bool) {
	var e *Error
	ok := stderrors.As(err, &e)
	return e, ok
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	e, ok := from(err)
	return ok && e.Code == code
}

// GetCode returns err's code, or the empty Code for uncoded errors.
func GetCode(err error) Code {
	if e, ok := from(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage strips the code prefix for display. Uncoded errors pass
// through unchanged.
func UserMessage(err error) string {
	if e, ok := from(err); ok {
		return e.Message
	}
	return err.Error()
}

// IsExclusion reports whether err marks a case the archive cannot
// deliver completely: a scenario failure or missing required fields.
// Batch runs record these in the ledger as excluded, not failed.
func IsExclusion(err error) bool {
	switch GetCode(err) {
	case ErrCodeMissingScenario, ErrCodeMalformedScenario,
		ErrCodeIncompleteScenario, ErrCodeMissingFields:
		return true
	}
	return false
}
