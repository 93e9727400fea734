// Package bytecode provides immutable representations of compiled methods.
//
// This package defines the output of emission: pure data structures holding
// the instruction stream of a method together with its line number table,
// local variable table and exception table, and the constant pool shared by
// the methods of one class. These types are created once by the compiler
// and may be shared safely across goroutines.
//
// # Key Types
//
//   - [Method]: an immutable method body with its three debug tables
//   - [Class]: the methods of one type plus their constant pool
//   - [Pool]: an immutable constant pool
//   - [Instruction], [LineEntry], [LocalEntry], [ExceptionEntry]: value types
//
// # Immutability Guarantees
//
// All types in this package are immutable after construction:
//
//   - No mutation methods exist on any type
//   - All fields of the aggregate types are unexported
//   - Constructors copy input slices to prevent caller mutation
//   - Accessors return values or immutable pointers, never mutable slices
//
// Index-based access is used for all collections:
//
//	// Correct: index-based access
//	method.InstructionAt(0)
//	method.LineAt(i)
//	class.MethodAt(j)
//
//	// NOT provided: methods that return slices
//	// method.Instructions() - does not exist
//
// # Offsets
//
// Instructions are addressed by byte offset, the way a class file and its
// debug attributes address them. Every table entry refers to the offset of
// an instruction boundary; end offsets are exclusive.
package bytecode
