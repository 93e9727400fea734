package bytecode

import (
	"sort"

	"github.com/deepnoodle-ai/jcore/op"
)

// Instruction is one emitted instruction. Operands hold, depending on the
// opcode, a local variable index, an immediate value, the absolute offset
// of a branch target or a constant pool index.
type Instruction struct {
	Offset   int
	Op       op.Code
	Operands []int
	// Line is the source line the instruction is attributed to.
	Line int
}

// Size returns the encoded length of the instruction in bytes.
func (i Instruction) Size() int {
	return op.GetInfo(i.Op).Size
}

// End returns the offset of the next instruction.
func (i Instruction) End() int {
	return i.Offset + i.Size()
}

// LineEntry maps the instruction at Offset, and those after it up to the
// next entry, to a source line.
type LineEntry struct {
	Offset int
	Line   int
}

// LocalEntry records that a local variable occupies Slot over
// [Start, End).
type LocalEntry struct {
	Slot       int
	Name       string
	Descriptor string
	Start      int
	End        int
}

// ExceptionEntry routes exceptions raised in [Start, End) to Handler.
// CatchType is the binary name of the caught class, or empty for any.
type ExceptionEntry struct {
	Start     int
	End       int
	Handler   int
	CatchType string
}

// CatchName returns the caught class, or "any".
func (e ExceptionEntry) CatchName() string {
	if e.CatchType == "" {
		return "any"
	}
	return e.CatchType
}

// Method is an immutable compiled method body.
type Method struct {
	owner      string
	name       string
	descriptor string
	static     bool
	deprecated bool
	paramNames []string

	instructions []Instruction
	lines        []LineEntry
	locals       []LocalEntry
	exceptions   []ExceptionEntry

	maxStack  int
	maxLocals int
}

// MethodParams contains parameters for creating a new Method.
type MethodParams struct {
	Owner      string
	Name       string
	Descriptor string
	Static     bool
	Deprecated bool
	ParamNames []string

	Instructions []Instruction
	Lines        []LineEntry
	Locals       []LocalEntry
	Exceptions   []ExceptionEntry

	MaxStack  int
	MaxLocals int
}

// NewMethod creates a new immutable Method from the given parameters.
// Input slices are copied to ensure immutability.
func NewMethod(params MethodParams) *Method {
	return &Method{
		owner:        params.Owner,
		name:         params.Name,
		descriptor:   params.Descriptor,
		static:       params.Static,
		deprecated:   params.Deprecated,
		paramNames:   copySlice(params.ParamNames),
		instructions: copyInstructions(params.Instructions),
		lines:        copySlice(params.Lines),
		locals:       copySlice(params.Locals),
		exceptions:   copySlice(params.Exceptions),
		maxStack:     params.MaxStack,
		maxLocals:    params.MaxLocals,
	}
}

// Owner returns the binary name of the declaring class.
func (m *Method) Owner() string {
	return m.owner
}

// Name returns the method name, <init> for constructors and <clinit> for
// the static initializer.
func (m *Method) Name() string {
	return m.name
}

// Descriptor returns the JVM method descriptor.
func (m *Method) Descriptor() string {
	return m.descriptor
}

// IsStatic returns true for static methods.
func (m *Method) IsStatic() bool {
	return m.static
}

// IsDeprecated returns true if the method is deprecated, directly or
// through its enclosing declarations.
func (m *Method) IsDeprecated() bool {
	return m.deprecated
}

// IsConstructor returns true for constructors.
func (m *Method) IsConstructor() bool {
	return m.name == "<init>"
}

// ParamCount returns the number of declared parameters.
func (m *Method) ParamCount() int {
	return len(m.paramNames)
}

// ParamNameAt returns the name of the parameter at the given index.
func (m *Method) ParamNameAt(index int) string {
	return m.paramNames[index]
}

// InstructionCount returns the number of instructions.
func (m *Method) InstructionCount() int {
	return len(m.instructions)
}

// InstructionAt returns the instruction at the given index.
func (m *Method) InstructionAt(index int) Instruction {
	in := m.instructions[index]
	in.Operands = copySlice(in.Operands)
	return in
}

// InstructionAtOffset returns the instruction starting at the given byte
// offset. It returns false if no instruction starts there.
func (m *Method) InstructionAtOffset(offset int) (Instruction, bool) {
	i := sort.Search(len(m.instructions), func(i int) bool {
		return m.instructions[i].Offset >= offset
	})
	if i < len(m.instructions) && m.instructions[i].Offset == offset {
		return m.InstructionAt(i), true
	}
	return Instruction{}, false
}

// Length returns the length of the method body in bytes.
func (m *Method) Length() int {
	if len(m.instructions) == 0 {
		return 0
	}
	return m.instructions[len(m.instructions)-1].End()
}

// MaxStack returns the maximum operand stack depth.
func (m *Method) MaxStack() int {
	return m.maxStack
}

// MaxLocals returns the number of local variable slots, parameters and
// the receiver included.
func (m *Method) MaxLocals() int {
	return m.maxLocals
}

// LineCount returns the number of line number table entries.
func (m *Method) LineCount() int {
	return len(m.lines)
}

// LineAt returns the line number table entry at the given index.
func (m *Method) LineAt(index int) LineEntry {
	return m.lines[index]
}

// LineForOffset returns the source line of the instruction at offset, or
// 0 if no entry covers it.
func (m *Method) LineForOffset(offset int) int {
	line := 0
	for _, e := range m.lines {
		if e.Offset > offset {
			break
		}
		line = e.Line
	}
	return line
}

// LocalCount returns the number of local variable table entries.
func (m *Method) LocalCount() int {
	return len(m.locals)
}

// LocalAt returns the local variable table entry at the given index.
func (m *Method) LocalAt(index int) LocalEntry {
	return m.locals[index]
}

// LocalName returns the name of the variable occupying slot at offset, or
// an empty string.
func (m *Method) LocalName(slot, offset int) string {
	for _, e := range m.locals {
		if e.Slot == slot && offset >= e.Start && offset < e.End {
			return e.Name
		}
	}
	return ""
}

// ExceptionCount returns the number of exception table entries.
func (m *Method) ExceptionCount() int {
	return len(m.exceptions)
}

// ExceptionAt returns the exception table entry at the given index.
func (m *Method) ExceptionAt(index int) ExceptionEntry {
	return m.exceptions[index]
}
