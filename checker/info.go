package checker

import (
	"github.com/deepnoodle-ai/jcore/ast"
	"github.com/deepnoodle-ai/jcore/symbol"
	"github.com/deepnoodle-ai/jcore/types"
)

// Info holds the results of checking a unit. The syntax tree is never
// modified; everything the emitter needs is recorded here, keyed by node.
type Info struct {
	// Types maps every checked expression to its static type. A
	// conditional expression maps to its resolved conditional type.
	Types map[ast.Expr]types.Type

	// Symbols maps declarations and references to their symbols: type and
	// method declarations, field declarator names, field accesses, method
	// calls, constructor calls, and simple names that denote fields.
	Symbols map[ast.Node]*symbol.Symbol

	// TypeRefs maps resolved type references to their types.
	TypeRefs map[*ast.TypeRef]types.Type

	// TypeNames maps names parsed as expressions that denote a type, such
	// as System in System.out, to that type. They have no entry in Types
	// and produce no code.
	TypeNames map[ast.Expr]types.Type

	// CallDescriptors holds the call site descriptor of polymorphic
	// signature calls.
	CallDescriptors map[*ast.MethodCall]string

	// DefaultConstructors maps classes without a declared constructor to
	// their implicit one.
	DefaultConstructors map[*ast.TypeDecl]*symbol.Symbol
}

// NewInfo returns an empty Info.
func NewInfo() *Info {
	return &Info{
		Types:               map[ast.Expr]types.Type{},
		Symbols:             map[ast.Node]*symbol.Symbol{},
		TypeRefs:            map[*ast.TypeRef]types.Type{},
		TypeNames:           map[ast.Expr]types.Type{},
		CallDescriptors:     map[*ast.MethodCall]string{},
		DefaultConstructors: map[*ast.TypeDecl]*symbol.Symbol{},
	}
}

// TypeOf returns the static type of x.
func (i *Info) TypeOf(x ast.Expr) (types.Type, bool) {
	t, ok := i.Types[x]
	return t, ok && t != nil
}

// SymbolOf returns the symbol recorded for n.
func (i *Info) SymbolOf(n ast.Node) (*symbol.Symbol, bool) {
	s, ok := i.Symbols[n]
	return s, ok && s != nil
}

// TypeOfRef returns the resolved type of a type reference.
func (i *Info) TypeOfRef(ref *ast.TypeRef) (types.Type, bool) {
	t, ok := i.TypeRefs[ref]
	return t, ok && t != nil
}

// TypeName returns the type a qualifying name denotes, if it denotes one.
func (i *Info) TypeName(x ast.Expr) (types.Type, bool) {
	t, ok := i.TypeNames[x]
	return t, ok && t != nil
}
