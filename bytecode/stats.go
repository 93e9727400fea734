package bytecode

// Stats contains statistics about a compiled class.
type Stats struct {
	// MethodCount is the number of methods, synthesized ones included.
	MethodCount int

	// InstructionCount is the total number of instructions.
	InstructionCount int

	// CodeBytes is the total length of all method bodies in bytes.
	CodeBytes int

	// ConstantCount is the number of constant pool entries.
	ConstantCount int

	// ExceptionEntryCount is the total number of exception table entries.
	ExceptionEntryCount int

	// MaxStack is the largest operand stack depth of any method.
	MaxStack int
}
