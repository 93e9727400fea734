package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Severity is the reporting level of a diagnostic.
type Severity int

const (
	Ignore Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Ignore:
		return "IGNORE"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ParseSeverity parses the option spelling of a severity: ignore, warning
// or error, case insensitive.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ignore":
		return Ignore, nil
	case "warning":
		return Warning, nil
	case "error":
		return Error, nil
	}
	return Ignore, fmt.Errorf("invalid severity %q (expected ignore, warning or error)", s)
}

// Diagnostic is a problem found in a compilation unit.
type Diagnostic struct {
	Severity Severity
	Code     ErrorCode
	Kind     error // one of the sentinel kinds
	Unit     string
	Line     int
	EndLine  int
	// Column and EndColumn delimit the marked source range on Line, both
	// 1-based and inclusive.
	Column      int
	EndColumn   int
	SourceLine  string
	Message     string
	Suggestions []Suggestion
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s",
		d.Unit, d.Line, d.Column, strings.ToLower(d.Severity.String()), d.Message)
}

// Unwrap returns the sentinel kind of the diagnostic.
func (d *Diagnostic) Unwrap() error {
	return d.Kind
}

// Location returns the start of the marked range.
func (d *Diagnostic) Location() SourceLocation {
	return SourceLocation{Filename: d.Unit, Line: d.Line, Column: d.Column}
}

// ToFormatted converts to the FormattedError type for display.
func (d *Diagnostic) ToFormatted() *FormattedError {
	fe := &FormattedError{
		Code:      d.Code,
		Kind:      strings.ToLower(d.Severity.String()),
		Message:   d.Message,
		Filename:  d.Unit,
		Line:      d.Line,
		Column:    d.Column,
		EndColumn: d.EndColumn,
	}
	if d.SourceLine != "" {
		fe.SourceLines = []SourceLineEntry{
			{Number: d.Line, Text: d.SourceLine, IsMain: true},
		}
	}
	if len(d.Suggestions) > 0 {
		fe.Hint = FormatSuggestions(d.Suggestions)
	}
	return fe
}

// List accumulates diagnostics. Diagnostics with Ignore severity are
// dropped on Add.
type List struct {
	items []*Diagnostic
}

// Add appends a diagnostic to the list.
func (l *List) Add(d *Diagnostic) {
	if d == nil || d.Severity == Ignore {
		return
	}
	if d.EndLine < d.Line {
		d.EndLine = d.Line
	}
	if d.EndColumn < d.Column {
		d.EndColumn = d.Column
	}
	l.items = append(l.items, d)
}

// Len returns the number of diagnostics.
func (l *List) Len() int {
	return len(l.items)
}

// Count returns the number of diagnostics with the given severity.
func (l *List) Count(s Severity) int {
	n := 0
	for _, d := range l.items {
		if d.Severity == s {
			n++
		}
	}
	return n
}

// HasErrors returns true if any diagnostic has Error severity.
func (l *List) HasErrors() bool {
	return l.Count(Error) > 0
}

// Sorted returns the diagnostics ordered by unit, then source position.
// Diagnostics at the same position keep their insertion order.
func (l *List) Sorted() []*Diagnostic {
	out := make([]*Diagnostic, len(l.items))
	copy(out, l.items)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Unit != b.Unit {
			return a.Unit < b.Unit
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return out
}

// Err returns the Error severity diagnostics as a single error, or nil if
// there are none.
func (l *List) Err() error {
	var result *multierror.Error
	for _, d := range l.Sorted() {
		if d.Severity == Error {
			result = multierror.Append(result, d)
		}
	}
	return result.ErrorOrNil()
}
