package parse

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax is matched by every error returned from Parse.
var ErrSyntax = errors.New("oraudt: syntax error")

// Error is a syntax error in a specification document. A document with a
// syntax error yields no specifications at all.
type Error struct {
	Line     int    // 1-based line of the offending input.
	Column   int    // 1-based column of the offending input.
	Expected string // What the grammar expected, e.g. "FIELDS".
	Found    string // What was found instead.
	Message  string // Optional free-form detail.
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "oraudt: syntax error at %d:%d", e.Line, e.Column)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Expected != "" {
		b.WriteString(": expected ")
		b.WriteString(e.Expected)
		if e.Found != "" {
			b.WriteString(", found ")
			b.WriteString(e.Found)
		}
	}
	return b.String()
}

// Is reports whether the target matches ErrSyntax.
func (e *Error) Is(target error) bool {
	return target == ErrSyntax
}

// IsSyntaxError reports whether err is a syntax error.
func IsSyntaxError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
