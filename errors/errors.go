// Package errors defines the diagnostic model and the error taxonomy of the
// compiler core.
//
// Checker problems are accumulated as Diagnostics rather than returned, so a
// unit reports every detectable problem in one pass. Emitter failures are
// returned as errors and abort a single method. Every error and diagnostic
// unwraps to one of the sentinel kinds below, so callers can classify them
// with the standard library's errors.Is.
package errors

import (
	"fmt"
)

type kindError string

func (k kindError) Error() string {
	return string(k)
}

// Sentinel error kinds.
var (
	// ErrSyntax indicates source text the parser cannot read.
	ErrSyntax error = kindError("syntax error")

	// ErrTypeMismatch indicates no common type exists, or a value is not
	// convertible to the required type.
	ErrTypeMismatch error = kindError("type mismatch")

	// ErrUnresolvedSymbol indicates a reference to a type, field, method or
	// local that cannot be found.
	ErrUnresolvedSymbol error = kindError("unresolved symbol")

	// ErrIllegal indicates a well typed construct the language forbids,
	// such as a duplicate local or an instance reference from a static
	// context.
	ErrIllegal error = kindError("illegal reference")

	// ErrDeprecated indicates a reportable use of a deprecated symbol.
	ErrDeprecated error = kindError("deprecated")

	// ErrRawType indicates a reference to a generic type without arguments.
	ErrRawType error = kindError("raw type")

	// ErrInternal indicates a tree shape that violates emitter invariants.
	ErrInternal error = kindError("emitter internal error")
)

// SourceLocation represents a position in source code.
type SourceLocation struct {
	Filename string
	Line     int // 1-based line number
	Column   int // 1-based column number
}

// String returns a formatted string representation of the source location.
func (s SourceLocation) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero returns true if the location has not been set.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}

// SymbolError reports a reference the emitter could not resolve.
type SymbolError struct {
	Name     string
	Location SourceLocation
}

func (e *SymbolError) Error() string {
	if e.Location.IsZero() {
		return fmt.Sprintf("unresolved symbol %q", e.Name)
	}
	return fmt.Sprintf("unresolved symbol %q (%s)", e.Name, e.Location)
}

func (e *SymbolError) Unwrap() error {
	return ErrUnresolvedSymbol
}

// InternalError reports an emitter invariant violation. It is fatal for the
// method being emitted and is never retried.
type InternalError struct {
	Method   string
	Message  string
	Location SourceLocation
	Cause    error
}

func (e *InternalError) Error() string {
	msg := fmt.Sprintf("emitter internal error in %s: %s", e.Method, e.Message)
	if !e.Location.IsZero() {
		msg += fmt.Sprintf(" (%s)", e.Location)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *InternalError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrInternal}
	}
	return []error{ErrInternal, e.Cause}
}

// Internalf creates an InternalError for the named method.
func Internalf(method string, loc SourceLocation, format string, args ...any) *InternalError {
	return &InternalError{
		Method:   method,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	}
}
