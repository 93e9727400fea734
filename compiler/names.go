package compiler

import (
	"strings"

	"github.com/deepnoodle-ai/jcore/symbol"
	"github.com/deepnoodle-ai/jcore/types"
)

// binaryName returns the binary name of a type: member types are joined to
// their enclosing type with $, as in p.Outer$Inner.
func (c *Compiler) binaryName(qualifiedName string) string {
	sym, ok := c.table.LookupType(qualifiedName)
	if !ok {
		return qualifiedName
	}
	if outer, ok := c.table.LookupType(sym.Enclosing); ok {
		return c.binaryName(outer.QualifiedName) + "$" + sym.Name
	}
	return qualifiedName
}

// descriptor returns the descriptor of the erasure of t.
func (c *Compiler) descriptor(t types.Type) string {
	switch t := types.Erasure(t).(type) {
	case types.Primitive:
		return t.Descriptor()
	case types.Array:
		return "[" + c.descriptor(t.Elem)
	case types.Reference:
		return "L" + types.InternalName(c.binaryName(t.Name)) + ";"
	}
	return types.Object.Descriptor()
}

// methodDescriptor returns the descriptor of a method symbol.
func (c *Compiler) methodDescriptor(m *symbol.Symbol) string {
	var b strings.Builder
	b.WriteString("(")
	for _, p := range m.Params {
		b.WriteString(c.descriptor(p))
	}
	b.WriteString(")")
	b.WriteString(c.descriptor(m.Type))
	return b.String()
}

// className returns the name a Class constant uses for t: the binary name
// of a class, or the source form of an array type.
func (c *Compiler) className(t types.Type) string {
	switch t := types.Erasure(t).(type) {
	case types.Reference:
		return c.binaryName(t.Name)
	case types.Array:
		return c.className(t.Elem) + "[]"
	case types.Primitive:
		return t.String()
	}
	return types.Object.Name
}

// ownerOf returns the erased class or interface name whose members are
// looked up for a value of type t.
func ownerOf(t types.Type) string {
	if r, ok := types.Erasure(t).(types.Reference); ok {
		return r.Name
	}
	return types.Object.Name
}
