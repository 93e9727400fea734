package parser

import (
	"fmt"

	"github.com/deepnoodle-ai/jcore/errors"
)

// Errors is returned by Parse when the source has syntax errors. Each
// error is a diagnostic with code E1001.
type Errors struct {
	diags []*errors.Diagnostic
}

// NewErrors wraps syntax error diagnostics.
func NewErrors(diags []*errors.Diagnostic) *Errors {
	return &Errors{diags: diags}
}

func (e *Errors) Error() string {
	if len(e.diags) == 0 {
		return "syntax error"
	}
	msg := e.diags[0].Error()
	if n := len(e.diags) - 1; n > 0 {
		msg += fmt.Sprintf(" (and %d more)", n)
	}
	return msg
}

// Unwrap returns the syntax error kind.
func (e *Errors) Unwrap() error {
	return errors.ErrSyntax
}

// Diagnostics returns the syntax errors in source order.
func (e *Errors) Diagnostics() []*errors.Diagnostic {
	return e.diags
}
