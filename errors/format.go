package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// FormattedError represents a diagnostic ready for display.
type FormattedError struct {
	Code        ErrorCode
	Kind        string // "error", "warning"
	Message     string
	Filename    string
	Line        int
	Column      int
	EndColumn   int
	SourceLines []SourceLineEntry
	Hint        string
	Note        string
}

// SourceLineEntry represents a line of source code with its number.
type SourceLineEntry struct {
	Number int
	Text   string
	IsMain bool // True if this is the line with the problem
}

// Formatter formats diagnostics in a Rust-like style, optionally colored.
type Formatter struct {
	UseColor bool

	errorColor   *color.Color
	warningColor *color.Color
	dimColor     *color.Color
	locColor     *color.Color
	caretColor   *color.Color
	hintColor    *color.Color
}

// NewFormatter creates a new diagnostic formatter.
func NewFormatter(useColor bool) *Formatter {
	f := &Formatter{
		UseColor:     useColor,
		errorColor:   color.New(color.FgHiRed, color.Bold),
		warningColor: color.New(color.FgHiYellow, color.Bold),
		dimColor:     color.New(color.FgHiBlack),
		locColor:     color.New(color.FgCyan),
		caretColor:   color.New(color.FgHiRed),
		hintColor:    color.New(color.FgHiYellow),
	}
	for _, c := range []*color.Color{f.errorColor, f.warningColor, f.dimColor, f.locColor, f.caretColor, f.hintColor} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

// Format formats a single diagnostic.
func (f *Formatter) Format(err *FormattedError) string {
	var b strings.Builder
	width := 2
	if err.Line >= 100 {
		width = len(fmt.Sprintf("%d", err.Line))
	}
	pad := strings.Repeat(" ", width)

	label := err.Kind
	if label == "" {
		label = "error"
	}
	labelColor := f.errorColor
	if label == "warning" {
		labelColor = f.warningColor
	}
	b.WriteString(labelColor.Sprint(label))
	if err.Code != "" {
		b.WriteString(f.dimColor.Sprintf("[%s]", err.Code))
	}
	b.WriteString(": ")
	b.WriteString(err.Message)
	b.WriteString("\n")

	if err.Filename != "" || err.Line > 0 {
		loc := SourceLocation{Filename: err.Filename, Line: err.Line, Column: err.Column}
		b.WriteString(pad)
		b.WriteString(f.locColor.Sprint("--> " + loc.String()))
		b.WriteString("\n")
	}

	if len(err.SourceLines) > 0 {
		b.WriteString(pad + f.dimColor.Sprint(" |") + "\n")
		for _, line := range err.SourceLines {
			b.WriteString(f.dimColor.Sprintf("%*d | ", width, line.Number))
			b.WriteString(line.Text)
			b.WriteString("\n")
			if line.IsMain && err.Column > 0 {
				b.WriteString(pad + f.dimColor.Sprint(" | "))
				b.WriteString(strings.Repeat(" ", err.Column-1))
				b.WriteString(f.caretColor.Sprint(carets(err.Column, err.EndColumn)))
				b.WriteString("\n")
			}
		}
	}
	if err.Hint != "" {
		b.WriteString(pad + f.dimColor.Sprint(" = ") + f.hintColor.Sprint("hint: ") + err.Hint + "\n")
	}
	if err.Note != "" {
		b.WriteString(pad + f.dimColor.Sprint(" = ") + "note: " + err.Note + "\n")
	}
	return b.String()
}

// FormatAll formats diagnostics in order, followed by a summary line.
func (f *Formatter) FormatAll(diags []*Diagnostic) string {
	if len(diags) == 0 {
		return ""
	}
	var b strings.Builder
	var errs, warnings int
	for i, d := range diags {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.Format(d.ToFormatted()))
		if d.Severity == Error {
			errs++
		} else {
			warnings++
		}
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d %s, %d %s\n",
		errs, plural(errs, "error"), warnings, plural(warnings, "warning")))
	return b.String()
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func carets(start, end int) string {
	n := 1
	if end > start {
		n = end - start + 1
	}
	return strings.Repeat("^", n)
}

const transcriptRule = "----------\n"

// Transcript renders diagnostics as a numbered problem log with the source
// line and a caret marker under each problem:
//
//	----------
//	1. WARNING in X.java (at line 4)
//		a.N1.N2.N3 m = null;
//		     ^^
//	The type N1.N2 is deprecated
//	----------
//
// Leading indentation of the source line is dropped and the marker shifted
// accordingly. The empty list renders as the empty string.
func Transcript(diags []*Diagnostic) string {
	if len(diags) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(transcriptRule)
	for i, d := range diags {
		fmt.Fprintf(&b, "%d. %s in %s (at line %d)\n", i+1, d.Severity, d.Unit, d.Line)
		if d.SourceLine != "" {
			text := strings.TrimLeft(d.SourceLine, " \t")
			shift := len(d.SourceLine) - len(text)
			start, end := d.Column-shift, d.EndColumn-shift
			if d.EndLine > d.Line {
				end = len(text)
			}
			if start < 1 {
				start = 1
			}
			b.WriteString("\t" + text + "\n")
			b.WriteString("\t" + strings.Repeat(" ", start-1) + carets(start, end) + "\n")
		}
		b.WriteString(d.Message + "\n")
		b.WriteString(transcriptRule)
	}
	return b.String()
}
