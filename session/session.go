// Package session runs the two-phase compilation protocol over a set of
// units that share one symbol table.
//
// Every unit is declared first. Seal completes the declarations and freezes
// the table, after which units are checked and emitted. Declaring after
// Seal fails with ErrSealed and compiling before it with ErrNotSealed.
//
//	s := session.New(session.WithOptions(opts))
//	for _, unit := range units {
//		if err := s.Declare(unit); err != nil {
//			return err
//		}
//	}
//	if err := s.Seal(); err != nil {
//		return err
//	}
//	results, err := s.CompileAll(ctx)
//
// A Session is not safe for concurrent use.
package session

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/jcore/ast"
	"github.com/deepnoodle-ai/jcore/bytecode"
	"github.com/deepnoodle-ai/jcore/checker"
	"github.com/deepnoodle-ai/jcore/compiler"
	"github.com/deepnoodle-ai/jcore/errors"
	"github.com/deepnoodle-ai/jcore/options"
	"github.com/deepnoodle-ai/jcore/parser"
	"github.com/deepnoodle-ai/jcore/symbol"
)

var (
	// ErrSealed is returned by Declare and Seal once the session is sealed.
	ErrSealed = symbol.ErrSealed

	// ErrNotSealed is returned by Compile before Seal.
	ErrNotSealed = stderrors.New("session is not sealed")

	// ErrUnknownUnit is returned by Compile for a unit that was never
	// declared.
	ErrUnknownUnit = stderrors.New("unknown unit")
)

// UnitError is a declaration or completion failure of one unit. The
// other units of the session are unaffected.
type UnitError struct {
	Unit string
	Op   string
	Err  error
}

func (e *UnitError) Error() string {
	return e.Op + " " + e.Unit + ": " + e.Err.Error()
}

func (e *UnitError) Unwrap() error {
	return e.Err
}

// Session compiles a set of units against a shared symbol table.
type Session struct {
	id      uuid.UUID
	opts    options.Options
	logger  zerolog.Logger
	observe compiler.ObserverFactory

	table   *symbol.Table
	units   []*ast.Unit
	byName  map[string]*ast.Unit
	checker *checker.Checker
	sealed  bool
}

// New returns an empty session.
func New(opts ...Option) *Session {
	s := &Session{
		opts:   options.Default(),
		logger: zerolog.Nop(),
		table:  symbol.NewTable(),
		byName: map[string]*ast.Unit{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == uuid.Nil {
		s.id = uuid.Must(uuid.NewV4())
	}
	s.logger = s.logger.With().Str("session", s.id.String()).Logger()
	return s
}

// ID returns the session identifier used in log entries.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Options returns the options the session compiles with.
func (s *Session) Options() options.Options {
	return s.opts
}

// Table returns the symbol table shared by the units of the session.
func (s *Session) Table() *symbol.Table {
	return s.table
}

// Sealed reports whether Seal has been called.
func (s *Session) Sealed() bool {
	return s.sealed
}

// Units returns the declared units in declaration order.
func (s *Session) Units() []*ast.Unit {
	return append([]*ast.Unit(nil), s.units...)
}

// Declare adds the types of a unit to the session.
func (s *Session) Declare(unit *ast.Unit) error {
	if s.sealed {
		return fmt.Errorf("declare %s: %w", unit.Name, ErrSealed)
	}
	if _, ok := s.byName[unit.Name]; ok {
		return &UnitError{Unit: unit.Name, Op: "declare", Err: symbol.ErrDuplicate}
	}
	if err := checker.Declare(s.table, unit); err != nil {
		return &UnitError{Unit: unit.Name, Op: "declare", Err: err}
	}
	s.units = append(s.units, unit)
	s.byName[unit.Name] = unit
	s.logger.Debug().Str("unit", unit.Name).Int("types", len(unit.Types)).Msg("declared unit")
	return nil
}

// DeclareSource parses source text and declares the resulting unit. Syntax
// errors are returned as a *parser.Errors.
func (s *Session) DeclareSource(ctx context.Context, name, src string) (*ast.Unit, error) {
	unit, err := parser.Parse(ctx, name, src)
	if err != nil {
		return nil, err
	}
	if err := s.Declare(unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// Seal completes the members and supertypes of every declared unit and
// makes the symbol table read-only. Completion failures are aggregated as
// *UnitError values; the session is sealed regardless so that the
// remaining units can be compiled.
func (s *Session) Seal() error {
	if s.sealed {
		return ErrSealed
	}
	var result *multierror.Error
	for _, unit := range s.units {
		if err := checker.Complete(s.table, unit); err != nil {
			result = multierror.Append(result, &UnitError{Unit: unit.Name, Op: "complete", Err: err})
		}
	}
	s.table.Seal()
	s.sealed = true
	s.checker = checker.New(s.table, s.opts)
	s.logger.Debug().Int("units", len(s.units)).Int("symbols", s.table.Len()).Msg("sealed")
	return result.ErrorOrNil()
}

// Compile checks and emits the named unit.
func (s *Session) Compile(name string) (*Result, error) {
	if !s.sealed {
		return nil, fmt.Errorf("compile %s: %w", name, ErrNotSealed)
	}
	unit, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("compile %s: %w", name, ErrUnknownUnit)
	}
	return s.compile(unit), nil
}

// CompileAll compiles every declared unit in declaration order.
func (s *Session) CompileAll(ctx context.Context) ([]*Result, error) {
	if !s.sealed {
		return nil, ErrNotSealed
	}
	results := make([]*Result, 0, len(s.units))
	for _, unit := range s.units {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, s.compile(unit))
	}
	return results, nil
}

func (s *Session) compile(unit *ast.Unit) *Result {
	logger := s.logger.With().Str("unit", unit.Name).Logger()
	info, list := s.checker.Check(unit)
	res := &Result{Unit: unit, Info: info}
	if list.HasErrors() {
		res.Diagnostics = list.Sorted()
		logger.Info().
			Int("errors", list.Count(errors.Error)).
			Int("warnings", list.Count(errors.Warning)).
			Msg("unit has errors, skipping emission")
		return res
	}

	c := compiler.New(s.table, info,
		compiler.WithOptions(s.opts),
		compiler.WithFilename(unit.Name),
		compiler.WithObserver(s.observe))
	classes, err := c.CompileUnit(unit)
	res.Classes = classes
	if err != nil {
		for _, failure := range flatten(err) {
			logger.Error().Err(failure).Str("method", methodOf(failure)).Msg("method emission failed")
			list.Add(internalDiagnostic(unit, failure))
		}
	}
	res.Diagnostics = list.Sorted()
	res.Valid = !list.HasErrors()
	logger.Info().
		Int("classes", len(classes)).
		Int("warnings", list.Count(errors.Warning)).
		Bool("valid", res.Valid).
		Msg("compiled unit")
	return res
}

func flatten(err error) []error {
	var merr *multierror.Error
	if stderrors.As(err, &merr) {
		return merr.Errors
	}
	return []error{err}
}

func methodOf(err error) string {
	var ierr *errors.InternalError
	if stderrors.As(err, &ierr) {
		return ierr.Method
	}
	return ""
}

// internalDiagnostic reports a method that could not be emitted.
func internalDiagnostic(unit *ast.Unit, err error) *errors.Diagnostic {
	d := &errors.Diagnostic{
		Severity: errors.Error,
		Code:     errors.E9001,
		Kind:     errors.ErrInternal,
		Unit:     unit.Name,
		Message:  err.Error(),
	}
	var ierr *errors.InternalError
	if stderrors.As(err, &ierr) {
		d.Line = ierr.Location.Line
		d.Column = ierr.Location.Column
	}
	var serr *errors.SymbolError
	if stderrors.As(err, &serr) {
		d.Code, d.Kind = errors.E2001, errors.ErrUnresolvedSymbol
		d.Line, d.Column = serr.Location.Line, serr.Location.Column
	}
	if d.Line > 0 {
		d.SourceLine = unit.Line(d.Line)
	}
	return d
}

// Result is the outcome of compiling one unit.
type Result struct {
	Unit *ast.Unit
	Info *checker.Info

	// Diagnostics holds the checker problems and the emission failures of
	// the unit, sorted by position.
	Diagnostics []*errors.Diagnostic

	// Classes holds the emitted classes. It is empty when the unit has
	// error diagnostics from the checker.
	Classes []*bytecode.Class

	// Valid is set when the unit has no error diagnostics and every method
	// was emitted.
	Valid bool
}

// Class returns the emitted class with the given binary name.
func (r *Result) Class(name string) (*bytecode.Class, bool) {
	for _, c := range r.Classes {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// Errors returns the error severity diagnostics as one error, or nil.
func (r *Result) Errors() error {
	var result *multierror.Error
	for _, d := range r.Diagnostics {
		if d.Severity == errors.Error {
			result = multierror.Append(result, d)
		}
	}
	return result.ErrorOrNil()
}
