// Package checker resolves the names and types of a compilation unit and
// reports its problems as diagnostics.
//
// Checking never stops at the first problem. An expression that fails to
// check gets the erroneous placeholder type, and checks involving an
// erroneous type are skipped so one mistake is reported once. The results
// the emitter needs are recorded in an Info.
//
// Declarations are processed in two steps shared by every unit of a
// session: Declare adds the types, Complete adds their members and
// supertypes once every type is known. Check runs against the sealed
// table.
package checker

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/jcore/ast"
	"github.com/deepnoodle-ai/jcore/deprecation"
	"github.com/deepnoodle-ai/jcore/errors"
	"github.com/deepnoodle-ai/jcore/options"
	"github.com/deepnoodle-ai/jcore/symbol"
	"github.com/deepnoodle-ai/jcore/types"
)

// Checker checks units against a symbol table.
type Checker struct {
	table    *symbol.Table
	opts     options.Options
	tracker  *deprecation.Tracker
	resolver *types.Resolver

	// Per unit state.
	unit   *ast.Unit
	info   *Info
	diags  *errors.List
	silent bool
	frame  *frame
}

// frame describes the declaration being checked.
type frame struct {
	// typ is the innermost enclosing type.
	typ *symbol.Symbol
	// outer holds the qualified names of the enclosing types, innermost
	// last.
	outer []string
	// params are the type parameters in scope.
	params []string
	// declared records the fields and method signatures of typ checked so
	// far, to report duplicates.
	declared map[string]bool
	// member is the method or field being checked.
	member   *symbol.Symbol
	suppress []string
	static   bool
	// result is the result type of the method being checked.
	result types.Type
	vars   *varScope
}

// varScope maps local variable names to their types.
type varScope struct {
	parent *varScope
	vars   map[string]types.Type
}

func newVarScope(parent *varScope) *varScope {
	return &varScope{parent: parent, vars: map[string]types.Type{}}
}

func (s *varScope) lookup(name string) (types.Type, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if t, ok := cur.vars[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// New returns a Checker for units whose declarations are in table.
func New(table *symbol.Table, opts options.Options) *Checker {
	return &Checker{
		table:    table,
		opts:     opts,
		tracker:  deprecation.New(table, opts),
		resolver: opts.Resolver(table),
	}
}

// Resolver returns the type resolver used for conditional typing and
// conversions.
func (c *Checker) Resolver() *types.Resolver {
	return c.resolver
}

// Check checks a unit. Its types must have been declared and completed.
// The returned list holds every problem found, in report order.
func (c *Checker) Check(unit *ast.Unit) (*Info, *errors.List) {
	c.begin(unit)
	for _, td := range unit.Types {
		c.checkType(td, &frame{})
	}
	return c.info, c.diags
}

func (c *Checker) begin(unit *ast.Unit) {
	c.unit = unit
	c.info = NewInfo()
	c.diags = &errors.List{}
	c.frame = &frame{}
}

// report adds a diagnostic marking the source range [from, to).
func (c *Checker) report(sev errors.Severity, code errors.ErrorCode, kind error, from, to ast.Position, msg string, suggestions ...errors.Suggestion) {
	if c.silent {
		return
	}
	end := to
	if !end.IsValid() || end.Line < from.Line || (end.Line == from.Line && end.Column <= from.Column) {
		end = from.Advance(1)
	}
	c.diags.Add(&errors.Diagnostic{
		Severity:    sev,
		Code:        code,
		Kind:        kind,
		Unit:        c.unit.Name,
		Line:        from.Line,
		EndLine:     end.Line,
		Column:      from.Column,
		EndColumn:   end.Column - 1,
		SourceLine:  c.unit.Line(from.Line),
		Message:     msg,
		Suggestions: suggestions,
	})
}

func (c *Checker) errorAt(code errors.ErrorCode, kind error, n ast.Node, msg string, suggestions ...errors.Suggestion) {
	c.report(errors.Error, code, kind, n.Pos(), n.End(), msg, suggestions...)
}

// site describes the current reference site for deprecation checks.
func (c *Checker) site() deprecation.Site {
	ctx := c.frame.member
	if ctx == nil {
		ctx = c.frame.typ
	}
	return deprecation.Site{Unit: c.unit.Name, Context: ctx, Suppressed: c.frame.suppress}
}

// checkDeprecated reports a deprecated use of sym marked over [from, to).
func (c *Checker) checkDeprecated(sym *symbol.Symbol, from, to ast.Position) {
	p, ok := c.tracker.Check(sym, c.site())
	if !ok {
		return
	}
	c.report(p.Severity, p.Code, errors.ErrDeprecated, from, to, p.Message)
}

func qualify(enclosing, name string) string {
	if enclosing == "" {
		return name
	}
	return enclosing + "." + name
}

// enterType returns the frame for the body of a type declaration.
func (c *Checker) enterType(td *ast.TypeDecl, sym *symbol.Symbol, parent *frame) *frame {
	f := &frame{
		typ:      sym,
		outer:    append(append([]string(nil), parent.outer...), sym.QualifiedName),
		suppress: append(append([]string(nil), parent.suppress...), td.Suppress...),
		declared: map[string]bool{},
	}
	if !td.Static && !td.Interface {
		f.params = append(f.params, parent.params...)
	}
	f.params = append(f.params, td.TypeParams...)
	return f
}

// enterMember returns the frame for a field or method of the current type.
func (c *Checker) enterMember(sym *symbol.Symbol, static bool, suppress []string) *frame {
	parent := c.frame
	return &frame{
		typ:      parent.typ,
		outer:    parent.outer,
		params:   parent.params,
		member:   sym,
		suppress: append(append([]string(nil), parent.suppress...), suppress...),
		static:   static,
		vars:     newVarScope(nil),
	}
}

func (c *Checker) with(f *frame, fn func()) {
	saved := c.frame
	c.frame = f
	defer func() { c.frame = saved }()
	fn()
}

// thisType returns the type of this in the current type.
func (c *Checker) thisType() types.Type {
	sym := c.frame.typ
	if sym == nil {
		return types.Erroneous
	}
	if len(sym.TypeParams) == 0 {
		return types.Reference{Name: sym.QualifiedName}
	}
	args := make([]types.Type, len(sym.TypeParams))
	for i, p := range sym.TypeParams {
		args[i] = types.TypeVariable{Name: p}
	}
	return types.Reference{Name: sym.QualifiedName, Args: args}
}

func (c *Checker) checkType(td *ast.TypeDecl, parent *frame) {
	enclosing := c.unit.Package
	if len(parent.outer) > 0 {
		enclosing = parent.outer[len(parent.outer)-1]
	}
	sym, ok := c.table.LookupType(qualify(enclosing, td.Name.Name))
	if !ok {
		c.errorAt(errors.E2001, errors.ErrUnresolvedSymbol, td.Name, td.Name.Name+" cannot be resolved to a type")
		return
	}
	c.info.Symbols[td] = sym
	c.with(c.enterType(td, sym, parent), func() {
		if td.Super != nil {
			c.typeRef(td.Super)
		}
		for _, ref := range td.Interfaces {
			c.typeRef(ref)
		}
		for _, fd := range td.Fields {
			c.checkField(fd)
		}
		hasConstructor := false
		for _, md := range td.Methods {
			hasConstructor = hasConstructor || md.Constructor
			c.checkMethod(md)
		}
		if !hasConstructor && !td.Interface {
			if ctor, ok := c.table.Method(sym.QualifiedName, symbol.ConstructorName); ok {
				c.info.DefaultConstructors[td] = ctor
			}
		}
		inner := c.frame
		for _, nested := range td.Types {
			c.checkType(nested, inner)
		}
	})
}

func (c *Checker) checkField(fd *ast.FieldDecl) {
	owner := c.frame.typ.QualifiedName
	declared := c.frame.declared
	var first *symbol.Symbol
	if len(fd.Names) > 0 {
		first, _ = c.table.Field(owner, fd.Names[0].Name)
	}
	c.with(c.enterMember(first, fd.Static, fd.Suppress), func() {
		typ := c.typeRef(fd.Type)
		for i, name := range fd.Names {
			if declared[name.Name] {
				c.errorAt(errors.E2002, errors.ErrIllegal, name,
					"Duplicate field "+c.tracker.SourceName(owner)+"."+name.Name)
			} else if sym, ok := c.table.Lookup(owner + "." + name.Name); ok && sym.Kind == symbol.Field {
				declared[name.Name] = true
				c.info.Symbols[name] = sym
				c.frame.member = sym
			}
			if i < len(fd.Values) && fd.Values[i] != nil {
				c.checkAssignable(fd.Values[i], c.expr(fd.Values[i], nil), typ)
			}
		}
	})
}

// paramTypes resolves the parameter types of a method declaration without
// reporting, to find its symbol among the overloads.
func (c *Checker) paramTypes(md *ast.MethodDecl) []types.Type {
	saved := c.silent
	c.silent = true
	defer func() { c.silent = saved }()
	params := make([]types.Type, len(md.Params))
	for i, p := range md.Params {
		params[i] = c.typeRef(p.Type)
	}
	return params
}

func (c *Checker) checkMethod(md *ast.MethodDecl) {
	owner := c.frame.typ
	name := md.Name.Name
	if md.Constructor {
		name = symbol.ConstructorName
	}
	params := c.paramTypes(md)
	sym, ok := c.table.DeclaredMethod(owner.QualifiedName, name, params)
	if !ok {
		c.report(errors.Error, errors.E2001, errors.ErrUnresolvedSymbol, md.Name.Pos(), md.SignatureEnd(),
			"The method "+md.Name.Name+" is not declared in the type "+c.tracker.SourceName(owner.QualifiedName))
		return
	}
	signature := name + sym.ParamKey()
	if c.frame.declared[signature] && !anyErroneous(params) {
		c.report(errors.Error, errors.E2002, errors.ErrIllegal, md.Name.Pos(), md.SignatureEnd(),
			fmt.Sprintf("Duplicate method %s(%s) in type %s", md.Name.Name, joinShort(params), c.tracker.SourceName(owner.QualifiedName)))
		return
	}
	c.frame.declared[signature] = true
	c.info.Symbols[md] = sym
	c.with(c.enterMember(sym, md.Static, md.Suppress), func() {
		for _, p := range md.Params {
			t := c.typeRef(p.Type)
			if _, dup := c.frame.vars.vars[p.Name.Name]; dup {
				c.errorAt(errors.E2002, errors.ErrIllegal, p.Name, "Duplicate parameter "+p.Name.Name)
				continue
			}
			c.frame.vars.vars[p.Name.Name] = t
		}
		c.frame.result = types.Void
		if md.Result != nil {
			c.frame.result = c.typeRef(md.Result)
		}
		if !md.Static && !md.Constructor {
			c.checkOverride(md, sym)
		}
		if md.Body == nil {
			return
		}
		if c.block(md.Body) && !types.IsVoid(c.frame.result) && !types.IsErroneous(c.frame.result) {
			c.errorAt(errors.E2101, errors.ErrTypeMismatch, md.Name,
				"This method must return a result of type "+types.ShortString(c.frame.result))
		}
	})
}

// checkOverride reports a method overriding a deprecated one.
func (c *Checker) checkOverride(md *ast.MethodDecl, sym *symbol.Symbol) {
	for _, super := range c.table.Supertypes(c.frame.typ.QualifiedName) {
		var overridden *symbol.Symbol
		for _, m := range c.table.Methods(types.Erasure(super).String(), sym.Name) {
			if m.ParamKey() == sym.ParamKey() {
				overridden = m
				break
			}
		}
		if overridden == nil || overridden.Static {
			continue
		}
		if p, ok := c.tracker.CheckOverride(sym, overridden, c.site()); ok {
			c.report(p.Severity, p.Code, errors.ErrDeprecated, md.Name.Pos(), md.SignatureEnd(), p.Message)
		}
		return
	}
}

func anyErroneous(ts []types.Type) bool {
	for _, t := range ts {
		if types.IsErroneous(t) {
			return true
		}
	}
	return false
}

func joinShort(ts []types.Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = types.ShortString(t)
	}
	return strings.Join(parts, ", ")
}
