package compiler

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDiagnostics is matched by a DocumentError produced from error
// diagnostics rather than from a parse failure.
var ErrDiagnostics = errors.New("oraudt: document reported errors")

// DocumentError ties a failure to the document it came from.
type DocumentError struct {
	Path string
	Err  error
}

// Error returns the error string.
func (e *DocumentError) Error() string {
	return fmt.Sprintf("oraudt: %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *DocumentError) Unwrap() error {
	return e.Err
}

// IsDocumentError returns true if the error is a DocumentError.
func IsDocumentError(err error) bool {
	if err == nil {
		return false
	}
	var e *DocumentError
	return errors.As(err, &e)
}

// AggregateError represents the failures of several documents.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "oraudt: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("oraudt: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}

// Errors collects the failures of results: the parse error of a failed
// document, or ErrDiagnostics when a document reported error diagnostics.
// It returns nil when every document compiled cleanly.
func Errors(results []*Result) error {
	var errs []error
	for _, r := range results {
		switch {
		case r == nil:
		case r.Err != nil:
			errs = append(errs, &DocumentError{Path: r.Path, Err: r.Err})
		case r.Diagnostics.HasErrors():
			errs = append(errs, &DocumentError{Path: r.Path, Err: ErrDiagnostics})
		}
	}
	return NewAggregateError(errs...)
}
