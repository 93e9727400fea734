// Package symbol holds the declarations shared by every unit of a
// compilation session.
//
// The Table is filled during declaration processing and sealed before any
// unit is checked or emitted. After Seal it is read-only, so lookups never
// depend on the order in which units were declared.
package symbol

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/jcore/types"
)

// Kind is the kind of a declared symbol.
type Kind uint8

const (
	Package Kind = iota + 1
	Type
	Field
	Method
)

func (k Kind) String() string {
	switch k {
	case Package:
		return "package"
	case Type:
		return "type"
	case Field:
		return "field"
	case Method:
		return "method"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ConstructorName is the member name under which constructors are declared.
const ConstructorName = "<init>"

// Symbol is a declared package, type, field or method. Symbols are not
// modified once defined.
type Symbol struct {
	Kind Kind

	// QualifiedName is the dotted name: p, p.X, p.X.Inner, p.X.field,
	// p.X.method or p.X.<init>.
	QualifiedName string
	Name          string

	// Unit names the compilation unit that declares the symbol. Built-in
	// symbols have no unit.
	Unit string

	// Enclosing is the qualified name of the package, type or declaring
	// type that directly contains the symbol.
	Enclosing string

	Deprecated bool
	ForRemoval bool
	Since      string

	// Type is the field type, the method result type (void for
	// constructors) or, for a type symbol, the type itself.
	Type   types.Type
	Params []types.Type
	Static bool

	Interface  bool
	Supertypes []types.Type
	TypeParams []string

	// PolymorphicSignature marks methods whose call site descriptor is
	// taken from the actual arguments rather than the declaration.
	PolymorphicSignature bool
}

// IsConstructor reports whether the symbol is a constructor.
func (s *Symbol) IsConstructor() bool {
	return s.Kind == Method && s.Name == ConstructorName
}

// Owner returns the qualified name of the declaring type of a member.
func (s *Symbol) Owner() string {
	if s.Kind == Field || s.Kind == Method {
		return s.Enclosing
	}
	return ""
}

// Descriptor returns the JVM descriptor of a field or method.
func (s *Symbol) Descriptor() string {
	switch s.Kind {
	case Field:
		return s.Type.Descriptor()
	case Method:
		return types.MethodDescriptor(s.Params, s.Type)
	}
	return ""
}

// ParamKey returns the erased parameter descriptor of a method, which
// tells its overloads apart.
func (s *Symbol) ParamKey() string {
	return ParamKey(s.Params)
}

// ParamKey returns the erased descriptor of a parameter list, as in (ILjava/lang/String;).
func ParamKey(params []types.Type) string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range params {
		b.WriteString(types.Erasure(p).Descriptor())
	}
	b.WriteByte(')')
	return b.String()
}

func (s *Symbol) String() string {
	return fmt.Sprintf("%s %s", s.Kind, s.QualifiedName)
}

// NewType returns a type symbol for a class declared in unit.
func NewType(qualifiedName, enclosing, unit string) *Symbol {
	return &Symbol{
		Kind:          Type,
		QualifiedName: qualifiedName,
		Name:          types.SimpleName(qualifiedName),
		Unit:          unit,
		Enclosing:     enclosing,
		Type:          types.Reference{Name: qualifiedName},
	}
}

// NewField returns a field symbol declared by owner.
func NewField(owner, name string, typ types.Type, unit string) *Symbol {
	return &Symbol{
		Kind:          Field,
		QualifiedName: owner + "." + name,
		Name:          name,
		Unit:          unit,
		Enclosing:     owner,
		Type:          typ,
	}
}

// NewMethod returns a method symbol declared by owner.
func NewMethod(owner, name string, params []types.Type, result types.Type, unit string) *Symbol {
	if result == nil {
		result = types.Void
	}
	return &Symbol{
		Kind:          Method,
		QualifiedName: owner + "." + name,
		Name:          name,
		Unit:          unit,
		Enclosing:     owner,
		Type:          result,
		Params:        params,
	}
}
