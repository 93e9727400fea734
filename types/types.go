// Package types models the resolved static types of the Java subset and
// computes conditional expression types, least upper bounds, capture
// conversion and the conversions the emitter needs for instruction
// selection.
//
// Types are values compared structurally with Identical. The package has no
// knowledge of declarations; class and interface relationships are supplied
// through a Hierarchy.
package types

import (
	"strings"
)

// Kind identifies the variant of a Type.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindPrimitive
	KindReference
	KindArray
	KindTypeVariable
	KindWildcard
	KindIntersection
	KindNull
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindReference:
		return "reference"
	case KindArray:
		return "array"
	case KindTypeVariable:
		return "type variable"
	case KindWildcard:
		return "wildcard"
	case KindIntersection:
		return "intersection"
	case KindNull:
		return "null"
	case KindError:
		return "error"
	default:
		return "invalid"
	}
}

// Type is a resolved static type.
type Type interface {
	Kind() Kind
	// String returns the Java source form of the type, for example
	// java.util.List<? extends java.lang.Number>.
	String() string
	// Descriptor returns the JVM descriptor of the erased type.
	Descriptor() string
}

// PrimitiveKind enumerates the primitive types and void.
type PrimitiveKind uint8

const (
	PrimBoolean PrimitiveKind = iota + 1
	PrimByte
	PrimShort
	PrimChar
	PrimInt
	PrimLong
	PrimFloat
	PrimDouble
	PrimVoid
)

var primitiveNames = map[PrimitiveKind]string{
	PrimBoolean: "boolean",
	PrimByte:    "byte",
	PrimShort:   "short",
	PrimChar:    "char",
	PrimInt:     "int",
	PrimLong:    "long",
	PrimFloat:   "float",
	PrimDouble:  "double",
	PrimVoid:    "void",
}

var primitiveDescriptors = map[PrimitiveKind]string{
	PrimBoolean: "Z",
	PrimByte:    "B",
	PrimShort:   "S",
	PrimChar:    "C",
	PrimInt:     "I",
	PrimLong:    "J",
	PrimFloat:   "F",
	PrimDouble:  "D",
	PrimVoid:    "V",
}

func (p PrimitiveKind) String() string {
	return primitiveNames[p]
}

// Primitive is one of the eight primitive types or void.
type Primitive struct {
	Prim PrimitiveKind
}

func (p Primitive) Kind() Kind         { return KindPrimitive }
func (p Primitive) String() string     { return p.Prim.String() }
func (p Primitive) Descriptor() string { return primitiveDescriptors[p.Prim] }

// IsNumeric reports whether the primitive takes part in numeric promotion.
func (p Primitive) IsNumeric() bool {
	return p.Prim >= PrimByte && p.Prim <= PrimDouble
}

// IsWide reports whether values of the type occupy two slots.
func (p Primitive) IsWide() bool {
	return p.Prim == PrimLong || p.Prim == PrimDouble
}

var (
	Boolean = Primitive{PrimBoolean}
	Byte    = Primitive{PrimByte}
	Short   = Primitive{PrimShort}
	Char    = Primitive{PrimChar}
	Int     = Primitive{PrimInt}
	Long    = Primitive{PrimLong}
	Float   = Primitive{PrimFloat}
	Double  = Primitive{PrimDouble}
	Void    = Primitive{PrimVoid}
)

// Reference is a class or interface type, possibly parameterized.
type Reference struct {
	Name string
	Args []Type
}

func (r Reference) Kind() Kind { return KindReference }

func (r Reference) String() string {
	if len(r.Args) == 0 {
		return r.Name
	}
	var b strings.Builder
	b.WriteString(r.Name)
	b.WriteString("<")
	for i, arg := range r.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.String())
	}
	b.WriteString(">")
	return b.String()
}

func (r Reference) Descriptor() string {
	return "L" + InternalName(r.Name) + ";"
}

// Raw returns the type without its type arguments.
func (r Reference) Raw() Reference {
	return Reference{Name: r.Name}
}

// Array is an array type.
type Array struct {
	Elem Type
}

func (a Array) Kind() Kind         { return KindArray }
func (a Array) String() string     { return a.Elem.String() + "[]" }
func (a Array) Descriptor() string { return "[" + a.Elem.Descriptor() }

// TypeVariable is a declared or captured type variable. A nil Bound means
// java.lang.Object.
type TypeVariable struct {
	Name  string
	Bound Type
}

func (v TypeVariable) Kind() Kind         { return KindTypeVariable }
func (v TypeVariable) String() string     { return v.Name }
func (v TypeVariable) Descriptor() string { return Erasure(v).Descriptor() }

// UpperBound returns the bound of the variable, java.lang.Object if none.
func (v TypeVariable) UpperBound() Type {
	if v.Bound == nil {
		return Object
	}
	return v.Bound
}

// Wildcard is a type argument of the form ?, ? extends B or ? super B.
type Wildcard struct {
	Bound Type
	Super bool
}

func (w Wildcard) Kind() Kind { return KindWildcard }

func (w Wildcard) String() string {
	if w.Bound == nil {
		return "?"
	}
	if w.Super {
		return "? super " + w.Bound.String()
	}
	return "? extends " + w.Bound.String()
}

func (w Wildcard) Descriptor() string {
	if w.Bound == nil || w.Super {
		return Object.Descriptor()
	}
	return w.Bound.Descriptor()
}

// Intersection is a type of the form A & B, produced by least upper bound
// computations with several minimal candidates.
type Intersection struct {
	Bounds []Type
}

func (i Intersection) Kind() Kind { return KindIntersection }

func (i Intersection) String() string {
	parts := make([]string, len(i.Bounds))
	for n, b := range i.Bounds {
		parts[n] = b.String()
	}
	return strings.Join(parts, " & ")
}

func (i Intersection) Descriptor() string {
	return Erasure(i).Descriptor()
}

type nullType struct{}

func (nullType) Kind() Kind         { return KindNull }
func (nullType) String() string     { return "null" }
func (nullType) Descriptor() string { return Object.Descriptor() }

type errorType struct{}

func (errorType) Kind() Kind         { return KindError }
func (errorType) String() string     { return "<error>" }
func (errorType) Descriptor() string { return Object.Descriptor() }

var (
	// Null is the type of the null literal.
	Null Type = nullType{}

	// Erroneous is the placeholder type given to expressions that failed to
	// resolve. Checks involving it are skipped to avoid cascading reports.
	Erroneous Type = errorType{}
)

// Well known reference types.
var (
	Object       = Reference{Name: "java.lang.Object"}
	String       = Reference{Name: "java.lang.String"}
	Cloneable    = Reference{Name: "java.lang.Cloneable"}
	Serializable = Reference{Name: "java.io.Serializable"}
	Throwable    = Reference{Name: "java.lang.Throwable"}
	MethodHandle = Reference{Name: "java.lang.invoke.MethodHandle"}
)

var boxes = map[PrimitiveKind]string{
	PrimBoolean: "java.lang.Boolean",
	PrimByte:    "java.lang.Byte",
	PrimShort:   "java.lang.Short",
	PrimChar:    "java.lang.Character",
	PrimInt:     "java.lang.Integer",
	PrimLong:    "java.lang.Long",
	PrimFloat:   "java.lang.Float",
	PrimDouble:  "java.lang.Double",
}

var unboxes = func() map[string]Primitive {
	m := make(map[string]Primitive, len(boxes))
	for prim, name := range boxes {
		m[name] = Primitive{prim}
	}
	return m
}()

// Box returns the wrapper class of a primitive type. Other types are
// returned unchanged.
func Box(t Type) Type {
	if p, ok := t.(Primitive); ok {
		if name, ok := boxes[p.Prim]; ok {
			return Reference{Name: name}
		}
	}
	return t
}

// Unbox returns the primitive type wrapped by a box class.
func Unbox(t Type) (Primitive, bool) {
	if r, ok := t.(Reference); ok {
		p, ok := unboxes[r.Name]
		return p, ok
	}
	return Primitive{}, false
}

// IsPrimitive reports whether t is a primitive type, void included.
func IsPrimitive(t Type) bool {
	_, ok := t.(Primitive)
	return ok
}

// IsNumeric reports whether t is a numeric primitive type.
func IsNumeric(t Type) bool {
	p, ok := t.(Primitive)
	return ok && p.IsNumeric()
}

// IsVoid reports whether t is void.
func IsVoid(t Type) bool {
	p, ok := t.(Primitive)
	return ok && p.Prim == PrimVoid
}

// IsReference reports whether values of t are references, the null type
// included.
func IsReference(t Type) bool {
	switch t.Kind() {
	case KindReference, KindArray, KindTypeVariable, KindIntersection, KindNull:
		return true
	}
	return false
}

// IsErroneous reports whether t is, or contains, the error placeholder.
func IsErroneous(t Type) bool {
	switch t := t.(type) {
	case nil:
		return true
	case errorType:
		return true
	case Array:
		return IsErroneous(t.Elem)
	case Reference:
		for _, arg := range t.Args {
			if IsErroneous(arg) {
				return true
			}
		}
	}
	return false
}

// Slots returns the number of local variable slots a value of t occupies.
func Slots(t Type) int {
	if p, ok := t.(Primitive); ok && p.IsWide() {
		return 2
	}
	return 1
}

// Identical reports whether two types are structurally identical.
func Identical(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case Primitive:
		b, ok := b.(Primitive)
		return ok && a.Prim == b.Prim
	case Reference:
		b, ok := b.(Reference)
		if !ok || a.Name != b.Name || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Identical(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	case Array:
		b, ok := b.(Array)
		return ok && Identical(a.Elem, b.Elem)
	case TypeVariable:
		b, ok := b.(TypeVariable)
		return ok && a.Name == b.Name
	case Wildcard:
		b, ok := b.(Wildcard)
		return ok && a.Super == b.Super && Identical(a.Bound, b.Bound)
	case Intersection:
		b, ok := b.(Intersection)
		if !ok || len(a.Bounds) != len(b.Bounds) {
			return false
		}
		for i := range a.Bounds {
			if !Identical(a.Bounds[i], b.Bounds[i]) {
				return false
			}
		}
		return true
	}
	return a.Kind() == b.Kind()
}

// Erasure returns the erasure of t.
func Erasure(t Type) Type {
	switch t := t.(type) {
	case Reference:
		return t.Raw()
	case Array:
		return Array{Elem: Erasure(t.Elem)}
	case TypeVariable:
		return Erasure(t.UpperBound())
	case Wildcard:
		if t.Bound == nil || t.Super {
			return Object
		}
		return Erasure(t.Bound)
	case Intersection:
		if len(t.Bounds) == 0 {
			return Object
		}
		return Erasure(t.Bounds[0])
	case nullType, errorType:
		return Object
	}
	return t
}

// InternalName converts a qualified name to its slash separated form.
func InternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

// SimpleName returns the last segment of a qualified name.
func SimpleName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Short renders t with simple class names, the way diagnostics show types.
func ShortString(t Type) string {
	switch t := t.(type) {
	case Reference:
		if len(t.Args) == 0 {
			return SimpleName(t.Name)
		}
		args := make([]string, len(t.Args))
		for i, arg := range t.Args {
			args[i] = ShortString(arg)
		}
		return SimpleName(t.Name) + "<" + strings.Join(args, ",") + ">"
	case Array:
		return ShortString(t.Elem) + "[]"
	case Wildcard:
		if t.Bound == nil {
			return "?"
		}
		if t.Super {
			return "? super " + ShortString(t.Bound)
		}
		return "? extends " + ShortString(t.Bound)
	case Intersection:
		parts := make([]string, len(t.Bounds))
		for i, b := range t.Bounds {
			parts[i] = ShortString(b)
		}
		return strings.Join(parts, "&")
	case nil:
		return "<nil>"
	}
	return t.String()
}

// MethodDescriptor builds a JVM method descriptor.
func MethodDescriptor(params []Type, result Type) string {
	var b strings.Builder
	b.WriteString("(")
	for _, p := range params {
		b.WriteString(p.Descriptor())
	}
	b.WriteString(")")
	if result == nil {
		result = Void
	}
	b.WriteString(result.Descriptor())
	return b.String()
}
