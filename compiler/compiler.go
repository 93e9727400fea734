// Package compiler emits JVM instructions for checked compilation units.
//
// The compiler walks the syntax tree of a method together with the
// checker's Info, which supplies the static type of every expression and
// the symbol of every reference. The tree itself is never consulted for
// types and never modified.
//
// # Emission Events
//
// The compiler does not build debug tables itself. While it emits a method
// it publishes events to Observers:
//
//   - Instruction: every instruction with its offset and attributed line
//   - LocalStart and LocalEnd: the scope of each local variable
//   - ExceptionRegion: each guarded region once its handlers are emitted
//   - MethodEnd: the final length of the method
//
// A debuginfo.Synthesizer always observes the method and produces the line
// number, local variable and exception tables of the result. Additional
// observers may be attached with WithObserver.
//
// # Line Attribution
//
// Every instruction carries the line of the innermost construct that
// produced it: the statement, or for field accesses and method calls the
// line of the member name. A chain such as a.b.c spread over several lines
// attributes each getfield to its own line.
//
// # Failures
//
// An error while emitting a method aborts that method only. CompileType
// and CompileUnit return the classes with every method that could be
// emitted along with an error aggregating the failures.
package compiler

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/deepnoodle-ai/jcore/ast"
	"github.com/deepnoodle-ai/jcore/bytecode"
	"github.com/deepnoodle-ai/jcore/checker"
	"github.com/deepnoodle-ai/jcore/debuginfo"
	"github.com/deepnoodle-ai/jcore/deprecation"
	"github.com/deepnoodle-ai/jcore/errors"
	"github.com/deepnoodle-ai/jcore/op"
	"github.com/deepnoodle-ai/jcore/options"
	"github.com/deepnoodle-ai/jcore/symbol"
	"github.com/deepnoodle-ai/jcore/types"
)

// SourceLocation is an alias to errors.SourceLocation for convenience.
type SourceLocation = errors.SourceLocation

// Method names of the synthesized initializers.
const (
	ConstructorName       = symbol.ConstructorName
	StaticInitializerName = "<clinit>"
)

// Compiler emits the methods of checked units.
type Compiler struct {
	table    *symbol.Table
	info     *checker.Info
	opts     options.Options
	resolver *types.Resolver
	tracker  *deprecation.Tracker
	observe  ObserverFactory

	// filename names the unit in error locations.
	filename string

	// pool is shared by the methods of the class being compiled.
	pool *constantPool

	// Per method state.
	typ    *symbol.Symbol
	method *symbol.Symbol
	result types.Type
	code   *code
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithOptions sets the compiler options. Slot reuse and the conversions
// available at the source level are taken from them.
func WithOptions(opts options.Options) Option {
	return func(c *Compiler) {
		c.opts = opts
	}
}

// WithObserver attaches the observers returned by f to every emitted
// method, in addition to the debug table synthesizer.
func WithObserver(f ObserverFactory) Option {
	return func(c *Compiler) {
		c.observe = f
	}
}

// WithFilename sets the unit name used in error locations.
func WithFilename(name string) Option {
	return func(c *Compiler) {
		c.filename = name
	}
}

// New returns a Compiler for units checked into info against table.
func New(table *symbol.Table, info *checker.Info, opts ...Option) *Compiler {
	c := &Compiler{
		table: table,
		info:  info,
		opts:  options.Default(),
		pool:  newConstantPool(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.resolver = c.opts.Resolver(table)
	c.tracker = deprecation.New(table, c.opts)
	return c
}

// Emit emits one method with default options.
func Emit(method *ast.MethodDecl, info *checker.Info, table *symbol.Table) (*bytecode.Method, error) {
	return New(table, info).Emit(method)
}

// Pool returns the constant pool holding the constants referenced by the
// methods emitted so far.
func (c *Compiler) Pool() *bytecode.Pool {
	return c.pool.build()
}

// Emit emits a declared method or constructor.
func (c *Compiler) Emit(md *ast.MethodDecl) (*bytecode.Method, error) {
	sym, ok := c.info.SymbolOf(md)
	if !ok {
		return nil, &errors.SymbolError{Name: md.Name.Name, Location: c.location(md.Name.Pos())}
	}
	td := c.declOf(sym.Owner())
	return c.emitMethod(sym, func() error {
		for _, p := range md.Params {
			t, ok := c.info.TypeOfRef(p.Type)
			if !ok {
				return &errors.SymbolError{Name: p.Type.Name(), Location: c.location(p.Type.Pos())}
			}
			if err := c.param(p.Name.Name, t); err != nil {
				return err
			}
		}
		if md.Constructor {
			if err := c.superInit(td, md.Name.Pos().Line); err != nil {
				return err
			}
			if err := c.fieldInitializers(td, false); err != nil {
				return err
			}
		}
		if md.Body == nil {
			return nil
		}
		for _, s := range md.Body.Stmts {
			if err := c.stmt(s); err != nil {
				return err
			}
		}
		c.code.setLine(md.Body.Rbrace.Line)
		return c.implicitReturn(md.Name.Pos())
	}, md.Params)
}

// CompileType emits the methods of a type declaration: its declared
// methods, its default constructor and its static initializer. Methods
// without a body are skipped. Nested types are not included.
func (c *Compiler) CompileType(td *ast.TypeDecl) (*bytecode.Class, error) {
	sym, ok := c.info.SymbolOf(td)
	if !ok {
		return nil, &errors.SymbolError{Name: td.Name.Name, Location: c.location(td.Name.Pos())}
	}
	var result *multierror.Error
	var methods []*bytecode.Method
	add := func(m *bytecode.Method, err error) {
		if err != nil {
			result = multierror.Append(result, err)
			return
		}
		methods = append(methods, m)
	}
	if ctor, ok := c.info.DefaultConstructors[td]; ok {
		add(c.defaultConstructor(td, ctor))
	}
	for _, md := range td.Methods {
		if md.Body == nil {
			continue
		}
		add(c.Emit(md))
	}
	if hasStaticInitializers(td) {
		add(c.staticInitializer(td, sym))
	}
	class := bytecode.NewClass(bytecode.ClassParams{
		Name:       c.binaryName(sym.QualifiedName),
		Super:      c.binaryName(c.superclass(sym)),
		Source:     c.filename,
		Interface:  sym.Interface,
		Deprecated: c.tracker.ViewedAsDeprecated(sym),
		Pool:       c.pool.build(),
		Methods:    methods,
	})
	return class, result.ErrorOrNil()
}

// CompileUnit emits every type of a unit, nested types included, each
// with its own constant pool.
func (c *Compiler) CompileUnit(unit *ast.Unit) ([]*bytecode.Class, error) {
	if c.filename == "" {
		c.filename = unit.Name
	}
	var result *multierror.Error
	var classes []*bytecode.Class
	var walk func(tds []*ast.TypeDecl)
	walk = func(tds []*ast.TypeDecl) {
		for _, td := range tds {
			c.pool = newConstantPool()
			class, err := c.CompileType(td)
			if err != nil {
				result = multierror.Append(result, err)
			}
			if class != nil {
				classes = append(classes, class)
			}
			walk(td.Types)
		}
	}
	walk(unit.Types)
	return classes, result.ErrorOrNil()
}

// emitMethod runs body against a fresh method state and assembles the
// result. A panic while emitting is reported as an internal error.
func (c *Compiler) emitMethod(sym *symbol.Symbol, body func() error, params []*ast.Param) (m *bytecode.Method, err error) {
	owner, ok := c.table.LookupType(sym.Owner())
	if !ok {
		return nil, &errors.SymbolError{Name: sym.Owner()}
	}
	name := c.binaryName(owner.QualifiedName) + "." + sym.Name
	synth := debuginfo.New(name)
	obs := observers{synth}
	if c.observe != nil {
		if o := c.observe(name); o != nil {
			obs = append(obs, o)
		}
	}
	c.typ, c.method, c.result = owner, sym, sym.Type
	c.code = newCode(name, c.opts.ReuseLocalSlots, obs)
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, &errors.InternalError{
				Method:   name,
				Message:  fmt.Sprint(r),
				Location: SourceLocation{Filename: c.filename, Line: c.code.line},
			}
		}
		c.typ, c.method, c.result, c.code = nil, nil, nil, nil
	}()

	if !sym.Static {
		if err := c.param("this", c.thisType()); err != nil {
			return nil, err
		}
	}
	if err := body(); err != nil {
		return nil, c.wrap(name, err)
	}
	code := c.code
	if code.failure != nil {
		return nil, c.wrap(name, code.failure)
	}
	code.obs.MethodEnd(code.offset)
	tables, err := synth.Finalize()
	if err != nil {
		return nil, err
	}
	paramNames := make([]string, len(params))
	for i, p := range params {
		paramNames[i] = p.Name.Name
	}
	return bytecode.NewMethod(bytecode.MethodParams{
		Owner:        c.binaryName(owner.QualifiedName),
		Name:         sym.Name,
		Descriptor:   c.methodDescriptor(sym),
		Static:       sym.Static,
		Deprecated:   c.tracker.ViewedAsDeprecated(sym),
		ParamNames:   paramNames,
		Instructions: code.instructions,
		Lines:        tables.Lines,
		Locals:       tables.Locals,
		Exceptions:   tables.Exceptions,
		MaxStack:     code.maxDepth,
		MaxLocals:    code.locals.MaxLocals(),
	}), nil
}

// wrap turns an emission failure into an internal error of the method,
// unless it already is one or is an unresolved symbol.
func (c *Compiler) wrap(method string, err error) error {
	switch err.(type) {
	case *errors.InternalError, *errors.SymbolError:
		return err
	}
	return &errors.InternalError{
		Method:   method,
		Message:  err.Error(),
		Location: SourceLocation{Filename: c.filename, Line: c.code.line},
	}
}

func (c *Compiler) location(pos ast.Position) SourceLocation {
	return SourceLocation{Filename: c.filename, Line: pos.Line, Column: pos.Column}
}

// param declares a parameter, bound from the start of the method.
func (c *Compiler) param(name string, t types.Type) error {
	l, err := c.code.declare(name, t)
	if err != nil {
		return err
	}
	c.code.bind(l, c.descriptor(t))
	return nil
}

func (c *Compiler) thisType() types.Type {
	return types.Reference{Name: c.typ.QualifiedName}
}

// declOf finds the declaration of a type checked into the current Info.
func (c *Compiler) declOf(qualifiedName string) *ast.TypeDecl {
	for n, s := range c.info.Symbols {
		if td, ok := n.(*ast.TypeDecl); ok && s.QualifiedName == qualifiedName {
			return td
		}
	}
	return nil
}

// superclass returns the direct superclass of a type.
func (c *Compiler) superclass(sym *symbol.Symbol) string {
	if sym.Interface {
		return types.Object.Name
	}
	for _, s := range sym.Supertypes {
		name := ownerOf(s)
		if !c.table.IsInterface(name) {
			return name
		}
	}
	return types.Object.Name
}

// superInit calls the no-argument constructor of the superclass.
func (c *Compiler) superInit(td *ast.TypeDecl, line int) error {
	c.code.setLine(line)
	super := c.superclass(c.typ)
	ctor, ok := c.table.DeclaredMethod(super, ConstructorName, nil)
	if !ok {
		return errors.Internalf(c.code.name, c.location(ast.Position{Line: line}),
			"implicit super constructor %s() is undefined", types.SimpleName(super))
	}
	c.code.emit(op.Aload0)
	return c.invoke(op.Invokespecial, super, ctor, "")
}

// fieldInitializers emits the initializers of the instance or static
// fields of td, in declaration order.
func (c *Compiler) fieldInitializers(td *ast.TypeDecl, static bool) error {
	if td == nil {
		return nil
	}
	for _, fd := range td.Fields {
		if (fd.Static || td.Interface) != static {
			continue
		}
		for i, name := range fd.Names {
			if i >= len(fd.Values) || fd.Values[i] == nil {
				continue
			}
			f, ok := c.info.SymbolOf(name)
			if !ok {
				return &errors.SymbolError{Name: name.Name, Location: c.location(name.Pos())}
			}
			c.code.setLine(name.Pos().Line)
			if !static {
				c.code.emit(op.Aload0)
			}
			if err := c.value(fd.Values[i], f.Type); err != nil {
				return err
			}
			if err := c.fieldInsn(putOp(f.Static), f, f.Owner()); err != nil {
				return err
			}
		}
	}
	return nil
}

func hasStaticInitializers(td *ast.TypeDecl) bool {
	for _, fd := range td.Fields {
		if !fd.Static && !td.Interface {
			continue
		}
		for _, v := range fd.Values {
			if v != nil {
				return true
			}
		}
	}
	return false
}

// defaultConstructor emits the implicit constructor of a class, attributed
// to the line of the class name.
func (c *Compiler) defaultConstructor(td *ast.TypeDecl, ctor *symbol.Symbol) (*bytecode.Method, error) {
	return c.emitMethod(ctor, func() error {
		line := td.Name.Pos().Line
		if err := c.superInit(td, line); err != nil {
			return err
		}
		if err := c.fieldInitializers(td, false); err != nil {
			return err
		}
		c.code.setLine(line)
		c.code.emit(op.Return)
		return nil
	}, nil)
}

// staticInitializer emits <clinit> running the static field initializers.
func (c *Compiler) staticInitializer(td *ast.TypeDecl, sym *symbol.Symbol) (*bytecode.Method, error) {
	clinit := symbol.NewMethod(sym.QualifiedName, StaticInitializerName, nil, nil, sym.Unit)
	clinit.Static = true
	return c.emitMethod(clinit, func() error {
		if err := c.fieldInitializers(td, true); err != nil {
			return err
		}
		c.code.emit(op.Return)
		return nil
	}, nil)
}

// implicitReturn ends a method whose last statement completes normally.
func (c *Compiler) implicitReturn(pos ast.Position) error {
	if !c.code.reachable {
		return nil
	}
	if !types.IsVoid(c.result) {
		return errors.Internalf(c.code.name, c.location(pos), "missing return statement")
	}
	c.code.emit(op.Return)
	return nil
}

// invoke emits a call of m on owner. A non-empty desc replaces the
// declared descriptor, as polymorphic signature calls need.
func (c *Compiler) invoke(opcode op.Code, owner string, m *symbol.Symbol, desc string) error {
	if desc == "" {
		desc = c.methodDescriptor(m)
	}
	iface := c.table.IsInterface(owner)
	idx, err := c.pool.add(bytecode.MethodConstant(c.binaryName(owner), m.Name, desc, iface))
	if err != nil {
		return err
	}
	params, result := bytecode.SplitMethodDescriptor(desc)
	argWords := 0
	for _, p := range params {
		argWords += bytecode.DescriptorSlots(p)
	}
	delta := bytecode.DescriptorSlots(result) - argWords
	if opcode != op.Invokestatic {
		delta--
	}
	if opcode == op.Invokevirtual && iface {
		opcode = op.Invokeinterface
	}
	if opcode == op.Invokeinterface {
		c.code.emitDelta(opcode, delta, idx, argWords+1, 0)
		return nil
	}
	c.code.emitDelta(opcode, delta, idx)
	return nil
}

func getOp(static bool) op.Code {
	if static {
		return op.Getstatic
	}
	return op.Getfield
}

func putOp(static bool) op.Code {
	if static {
		return op.Putstatic
	}
	return op.Putfield
}

// fieldInsn emits a field access instruction for f qualified by owner.
func (c *Compiler) fieldInsn(opcode op.Code, f *symbol.Symbol, owner string) error {
	idx, err := c.pool.add(bytecode.FieldConstant(c.binaryName(owner), f.Name, c.descriptor(f.Type)))
	if err != nil {
		return err
	}
	size := words(f.Type)
	var delta int
	switch opcode {
	case op.Getstatic:
		delta = size
	case op.Putstatic:
		delta = -size
	case op.Getfield:
		delta = size - 1
	case op.Putfield:
		delta = -size - 1
	}
	c.code.emitDelta(opcode, delta, idx)
	return nil
}
