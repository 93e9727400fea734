package bytecode

import (
	"fmt"
	"strconv"
)

// ConstKind identifies the kind of a constant pool entry.
type ConstKind uint8

const (
	ConstInteger ConstKind = iota + 1
	ConstFloat
	ConstLong
	ConstDouble
	ConstString
	ConstClass
	ConstField
	ConstMethod
	ConstInterfaceMethod
)

func (k ConstKind) String() string {
	switch k {
	case ConstInteger:
		return "Integer"
	case ConstFloat:
		return "Float"
	case ConstLong:
		return "Long"
	case ConstDouble:
		return "Double"
	case ConstString:
		return "String"
	case ConstClass:
		return "Class"
	case ConstField:
		return "Fieldref"
	case ConstMethod:
		return "Methodref"
	case ConstInterfaceMethod:
		return "InterfaceMethodref"
	}
	return fmt.Sprintf("ConstKind(%d)", int(k))
}

// Constant is a constant pool entry. Class names are dotted binary names,
// for example java.lang.System or p.X$Inner.
type Constant struct {
	Kind  ConstKind
	Int   int64
	Float float64
	Str   string

	// Class is the class of a Class entry, or the owner of a member entry.
	Class      string
	Name       string
	Descriptor string
}

// IntConstant returns an Integer entry.
func IntConstant(v int32) Constant { return Constant{Kind: ConstInteger, Int: int64(v)} }

// LongConstant returns a Long entry.
func LongConstant(v int64) Constant { return Constant{Kind: ConstLong, Int: v} }

// FloatConstant returns a Float entry.
func FloatConstant(v float32) Constant { return Constant{Kind: ConstFloat, Float: float64(v)} }

// DoubleConstant returns a Double entry.
func DoubleConstant(v float64) Constant { return Constant{Kind: ConstDouble, Float: v} }

// StringConstant returns a String entry.
func StringConstant(s string) Constant { return Constant{Kind: ConstString, Str: s} }

// ClassConstant returns a Class entry.
func ClassConstant(name string) Constant { return Constant{Kind: ConstClass, Class: name} }

// FieldConstant returns a Fieldref entry.
func FieldConstant(owner, name, descriptor string) Constant {
	return Constant{Kind: ConstField, Class: owner, Name: name, Descriptor: descriptor}
}

// MethodConstant returns a Methodref entry, or an InterfaceMethodref entry
// when the owner is an interface.
func MethodConstant(owner, name, descriptor string, iface bool) Constant {
	kind := ConstMethod
	if iface {
		kind = ConstInterfaceMethod
	}
	return Constant{Kind: kind, Class: owner, Name: name, Descriptor: descriptor}
}

// Wide reports whether the entry occupies two pool indexes.
func (c Constant) Wide() bool {
	return c.Kind == ConstLong || c.Kind == ConstDouble
}

// Key returns a string identifying the entry for deduplication.
func (c Constant) Key() string {
	switch c.Kind {
	case ConstInteger, ConstLong:
		return c.Kind.String() + ":" + strconv.FormatInt(c.Int, 10)
	case ConstFloat, ConstDouble:
		return c.Kind.String() + ":" + strconv.FormatFloat(c.Float, 'g', -1, 64)
	case ConstString:
		return "String:" + c.Str
	case ConstClass:
		return "Class:" + c.Class
	}
	return c.Kind.String() + ":" + c.Class + "." + c.Name + ":" + c.Descriptor
}

// String renders the entry the way the disassembler shows instruction
// operands: <String "x">, java.lang.System.out : java.io.PrintStream or
// java.io.PrintStream.println(java.lang.String) : void.
func (c Constant) String() string {
	switch c.Kind {
	case ConstInteger:
		return fmt.Sprintf("<Integer %d>", c.Int)
	case ConstLong:
		return fmt.Sprintf("<Long %d>", c.Int)
	case ConstFloat:
		return fmt.Sprintf("<Float %s>", formatFloat(c.Float, 32))
	case ConstDouble:
		return fmt.Sprintf("<Double %s>", formatFloat(c.Float, 64))
	case ConstString:
		return fmt.Sprintf("<String %q>", c.Str)
	case ConstClass:
		return c.Class
	case ConstField:
		return fmt.Sprintf("%s.%s : %s", c.Class, c.Name, TypeName(c.Descriptor))
	case ConstMethod, ConstInterfaceMethod:
		params, result := SplitMethodDescriptor(c.Descriptor)
		if c.Name == "<init>" {
			return fmt.Sprintf("%s(%s)", c.Class, joinTypeNames(params))
		}
		return fmt.Sprintf("%s.%s(%s) : %s", c.Class, c.Name, joinTypeNames(params), TypeName(result))
	}
	return "<invalid>"
}

func formatFloat(f float64, bits int) string {
	s := strconv.FormatFloat(f, 'f', -1, bits)
	if _, err := strconv.Atoi(s); err == nil {
		s += ".0"
	}
	return s
}

// Pool is an immutable constant pool. Indexes start at 1; Long and Double
// entries take two indexes.
type Pool struct {
	entries []Constant
	indexes []int
	byIndex map[int]int
}

// NewPool creates a pool holding the given entries in order.
func NewPool(entries []Constant) *Pool {
	p := &Pool{
		entries: copySlice(entries),
		indexes: make([]int, len(entries)),
		byIndex: make(map[int]int, len(entries)),
	}
	next := 1
	for i, c := range p.entries {
		p.indexes[i] = next
		p.byIndex[next] = i
		next++
		if c.Wide() {
			next++
		}
	}
	return p
}

// Count returns the number of entries.
func (p *Pool) Count() int {
	return len(p.entries)
}

// At returns the entry at position i, in insertion order.
func (p *Pool) At(i int) Constant {
	return p.entries[i]
}

// IndexAt returns the pool index of the entry at position i.
func (p *Pool) IndexAt(i int) int {
	return p.indexes[i]
}

// Lookup returns the entry with the given pool index.
func (p *Pool) Lookup(index int) (Constant, bool) {
	i, ok := p.byIndex[index]
	if !ok {
		return Constant{}, false
	}
	return p.entries[i], true
}

// IndexOf returns the pool index of an entry equal to c.
func (p *Pool) IndexOf(c Constant) (int, bool) {
	key := c.Key()
	for i, e := range p.entries {
		if e.Key() == key {
			return p.indexes[i], true
		}
	}
	return 0, false
}
