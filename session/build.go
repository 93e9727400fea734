package session

import (
	"context"
	stderrors "errors"

	"github.com/deepnoodle-ai/jcore/bytecode"
	"github.com/deepnoodle-ai/jcore/errors"
	"github.com/deepnoodle-ai/jcore/parser"
	"github.com/deepnoodle-ai/jcore/symbol"
)

// Source is the text of a named compilation unit.
type Source struct {
	Name string
	Text string
}

// Build is the outcome of compiling a set of sources together.
type Build struct {
	// Results holds one result per unit that parsed, in source order.
	Results []*Result

	// Diagnostics holds the problems of every unit, syntax errors included,
	// grouped by unit in source order.
	Diagnostics []*errors.Diagnostic

	// Valid is set when every unit parsed and compiled without errors.
	Valid bool
}

// Class returns the emitted class with the given binary name from any unit.
func (b *Build) Class(name string) (*bytecode.Class, bool) {
	for _, r := range b.Results {
		if c, ok := r.Class(name); ok {
			return c, true
		}
	}
	return nil, false
}

// CompileSources runs the whole protocol over the sources in a new
// session: every source is parsed and declared, the session is sealed, and
// every unit is compiled. A source with syntax errors, or whose
// declarations clash with those of another source, contributes its
// diagnostics and is otherwise left out.
func CompileSources(ctx context.Context, sources []Source, opts ...Option) (*Session, *Build, error) {
	s := New(opts...)
	failed := map[string][]*errors.Diagnostic{}
	for _, src := range sources {
		_, err := s.DeclareSource(ctx, src.Name, src.Text)
		var perr *parser.Errors
		var uerr *UnitError
		switch {
		case err == nil:
		case stderrors.As(err, &perr):
			failed[src.Name] = perr.Diagnostics()
			s.logger.Info().Str("unit", src.Name).Int("errors", len(failed[src.Name])).Msg("syntax errors")
		case stderrors.As(err, &uerr):
			failed[src.Name] = append(failed[src.Name], unitDiagnostics(uerr)...)
			s.logger.Warn().Err(err).Str("unit", src.Name).Msg("unit not declared")
		default:
			return nil, nil, err
		}
	}
	if err := s.Seal(); err != nil {
		for _, e := range flatten(err) {
			var uerr *UnitError
			if !stderrors.As(e, &uerr) {
				return nil, nil, err
			}
			failed[uerr.Unit] = append(failed[uerr.Unit], unitDiagnostics(uerr)...)
			s.logger.Warn().Err(e).Str("unit", uerr.Unit).Msg("unit not completed")
		}
	}
	results, err := s.CompileAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	byUnit := make(map[string]*Result, len(results))
	for _, r := range results {
		byUnit[r.Unit.Name] = r
	}
	b := &Build{Results: results, Valid: len(failed) == 0}
	for _, src := range sources {
		b.Diagnostics = append(b.Diagnostics, failed[src.Name]...)
		if r, ok := byUnit[src.Name]; ok {
			b.Diagnostics = append(b.Diagnostics, r.Diagnostics...)
			b.Valid = b.Valid && r.Valid
		}
	}
	return s, b, nil
}

// unitDiagnostics reports each failure of a unit error. Clashing
// declarations are reported as duplicates, anything else as internal.
func unitDiagnostics(uerr *UnitError) []*errors.Diagnostic {
	var diags []*errors.Diagnostic
	for _, err := range flatten(uerr.Err) {
		d := &errors.Diagnostic{
			Severity: errors.Error,
			Code:     errors.E9001,
			Kind:     errors.ErrInternal,
			Unit:     uerr.Unit,
			Message:  uerr.Op + ": " + err.Error(),
		}
		if stderrors.Is(err, symbol.ErrDuplicate) {
			d.Code, d.Kind = errors.E2002, errors.ErrIllegal
		}
		diags = append(diags, d)
	}
	return diags
}
