// Package op defines the JVM opcodes emitted by the jcore compiler.
//
// Only the subset of the instruction set needed by the supported Java
// expressions and statements is described. Opcode values match the JVM
// specification so that offsets and sizes line up with what a class file
// disassembler reports.
package op

// Code is a JVM opcode.
type Code uint8

const (
	Nop        Code = 0x00
	AconstNull Code = 0x01
	IconstM1   Code = 0x02
	Iconst0    Code = 0x03
	Iconst1    Code = 0x04
	Iconst2    Code = 0x05
	Iconst3    Code = 0x06
	Iconst4    Code = 0x07
	Iconst5    Code = 0x08
	Lconst0    Code = 0x09
	Lconst1    Code = 0x0a
	Fconst0    Code = 0x0b
	Fconst1    Code = 0x0c
	Fconst2    Code = 0x0d
	Dconst0    Code = 0x0e
	Dconst1    Code = 0x0f
	Bipush     Code = 0x10
	Sipush     Code = 0x11
	Ldc        Code = 0x12
	LdcW       Code = 0x13
	Ldc2W      Code = 0x14

	// Load
	Iload  Code = 0x15
	Lload  Code = 0x16
	Fload  Code = 0x17
	Dload  Code = 0x18
	Aload  Code = 0x19
	Iload0 Code = 0x1a
	Iload1 Code = 0x1b
	Iload2 Code = 0x1c
	Iload3 Code = 0x1d
	Lload0 Code = 0x1e
	Lload1 Code = 0x1f
	Lload2 Code = 0x20
	Lload3 Code = 0x21
	Fload0 Code = 0x22
	Fload1 Code = 0x23
	Fload2 Code = 0x24
	Fload3 Code = 0x25
	Dload0 Code = 0x26
	Dload1 Code = 0x27
	Dload2 Code = 0x28
	Dload3 Code = 0x29
	Aload0 Code = 0x2a
	Aload1 Code = 0x2b
	Aload2 Code = 0x2c
	Aload3 Code = 0x2d

	// Store
	Istore  Code = 0x36
	Lstore  Code = 0x37
	Fstore  Code = 0x38
	Dstore  Code = 0x39
	Astore  Code = 0x3a
	Istore0 Code = 0x3b
	Istore1 Code = 0x3c
	Istore2 Code = 0x3d
	Istore3 Code = 0x3e
	Lstore0 Code = 0x3f
	Lstore1 Code = 0x40
	Lstore2 Code = 0x41
	Lstore3 Code = 0x42
	Fstore0 Code = 0x43
	Fstore1 Code = 0x44
	Fstore2 Code = 0x45
	Fstore3 Code = 0x46
	Dstore0 Code = 0x47
	Dstore1 Code = 0x48
	Dstore2 Code = 0x49
	Dstore3 Code = 0x4a
	Astore0 Code = 0x4b
	Astore1 Code = 0x4c
	Astore2 Code = 0x4d
	Astore3 Code = 0x4e

	// Stack
	Pop    Code = 0x57
	Pop2   Code = 0x58
	Dup    Code = 0x59
	DupX1  Code = 0x5a
	Dup2   Code = 0x5c
	Dup2X1 Code = 0x5d

	// Conversions
	I2l Code = 0x85
	I2f Code = 0x86
	I2d Code = 0x87
	L2i Code = 0x88
	L2f Code = 0x89
	L2d Code = 0x8a
	F2i Code = 0x8b
	F2l Code = 0x8c
	F2d Code = 0x8d
	D2i Code = 0x8e
	D2l Code = 0x8f
	D2f Code = 0x90
	I2b Code = 0x91
	I2c Code = 0x92
	I2s Code = 0x93

	// Control
	Ifeq Code = 0x99
	Ifne Code = 0x9a
	Goto Code = 0xa7

	// Return
	Ireturn Code = 0xac
	Lreturn Code = 0xad
	Freturn Code = 0xae
	Dreturn Code = 0xaf
	Areturn Code = 0xb0
	Return  Code = 0xb1

	// Fields and methods
	Getstatic       Code = 0xb2
	Putstatic       Code = 0xb3
	Getfield        Code = 0xb4
	Putfield        Code = 0xb5
	Invokevirtual   Code = 0xb6
	Invokespecial   Code = 0xb7
	Invokestatic    Code = 0xb8
	Invokeinterface Code = 0xb9

	// Objects
	New         Code = 0xbb
	Anewarray   Code = 0xbd
	Arraylength Code = 0xbe
	Athrow      Code = 0xbf
	Checkcast   Code = 0xc0
)

// Variable marks an opcode whose stack effect depends on a field or method
// descriptor and must be computed by the emitter.
const Variable = 1 << 10

// Info contains information about an opcode.
type Info struct {
	Code Code
	Name string
	// Size is the encoded length in bytes, opcode included.
	Size int
	// StackDelta is the net operand stack change, or Variable.
	StackDelta int
	// Branch is set for instructions whose operand is a relative jump.
	Branch bool
	// Terminal is set for instructions after which control never falls
	// through to the next instruction.
	Terminal bool
}

// IsValid reports whether the info describes a known opcode.
func (i Info) IsValid() bool {
	return i.Name != ""
}

var infos [256]Info

func init() {
	type opInfo struct {
		op    Code
		name  string
		size  int
		delta int
	}
	ops := []opInfo{
		{Nop, "nop", 1, 0},
		{AconstNull, "aconst_null", 1, 1},
		{IconstM1, "iconst_m1", 1, 1},
		{Iconst0, "iconst_0", 1, 1},
		{Iconst1, "iconst_1", 1, 1},
		{Iconst2, "iconst_2", 1, 1},
		{Iconst3, "iconst_3", 1, 1},
		{Iconst4, "iconst_4", 1, 1},
		{Iconst5, "iconst_5", 1, 1},
		{Lconst0, "lconst_0", 1, 2},
		{Lconst1, "lconst_1", 1, 2},
		{Fconst0, "fconst_0", 1, 1},
		{Fconst1, "fconst_1", 1, 1},
		{Fconst2, "fconst_2", 1, 1},
		{Dconst0, "dconst_0", 1, 2},
		{Dconst1, "dconst_1", 1, 2},
		{Bipush, "bipush", 2, 1},
		{Sipush, "sipush", 3, 1},
		{Ldc, "ldc", 2, 1},
		{LdcW, "ldc_w", 3, 1},
		{Ldc2W, "ldc2_w", 3, 2},
		{Iload, "iload", 2, 1},
		{Lload, "lload", 2, 2},
		{Fload, "fload", 2, 1},
		{Dload, "dload", 2, 2},
		{Aload, "aload", 2, 1},
		{Istore, "istore", 2, -1},
		{Lstore, "lstore", 2, -2},
		{Fstore, "fstore", 2, -1},
		{Dstore, "dstore", 2, -2},
		{Astore, "astore", 2, -1},
		{Pop, "pop", 1, -1},
		{Pop2, "pop2", 1, -2},
		{Dup, "dup", 1, 1},
		{DupX1, "dup_x1", 1, 1},
		{Dup2, "dup2", 1, 2},
		{Dup2X1, "dup2_x1", 1, 2},
		{I2l, "i2l", 1, 1},
		{I2f, "i2f", 1, 0},
		{I2d, "i2d", 1, 1},
		{L2i, "l2i", 1, -1},
		{L2f, "l2f", 1, -1},
		{L2d, "l2d", 1, 0},
		{F2i, "f2i", 1, 0},
		{F2l, "f2l", 1, 1},
		{F2d, "f2d", 1, 1},
		{D2i, "d2i", 1, -1},
		{D2l, "d2l", 1, 0},
		{D2f, "d2f", 1, -1},
		{I2b, "i2b", 1, 0},
		{I2c, "i2c", 1, 0},
		{I2s, "i2s", 1, 0},
		{Ifeq, "ifeq", 3, -1},
		{Ifne, "ifne", 3, -1},
		{Goto, "goto", 3, 0},
		{Ireturn, "ireturn", 1, -1},
		{Lreturn, "lreturn", 1, -2},
		{Freturn, "freturn", 1, -1},
		{Dreturn, "dreturn", 1, -2},
		{Areturn, "areturn", 1, -1},
		{Return, "return", 1, 0},
		{Getstatic, "getstatic", 3, Variable},
		{Putstatic, "putstatic", 3, Variable},
		{Getfield, "getfield", 3, Variable},
		{Putfield, "putfield", 3, Variable},
		{Invokevirtual, "invokevirtual", 3, Variable},
		{Invokespecial, "invokespecial", 3, Variable},
		{Invokestatic, "invokestatic", 3, Variable},
		{Invokeinterface, "invokeinterface", 5, Variable},
		{New, "new", 3, 1},
		{Anewarray, "anewarray", 3, 0},
		{Arraylength, "arraylength", 1, 0},
		{Athrow, "athrow", 1, -1},
		{Checkcast, "checkcast", 3, 0},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:       o.op,
			Name:       o.name,
			Size:       o.size,
			StackDelta: o.delta,
		}
	}
	// The _0.._3 short forms of the local load and store instructions.
	shortForms := []struct {
		base  Code
		name  string
		delta int
	}{
		{Iload0, "iload", 1},
		{Lload0, "lload", 2},
		{Fload0, "fload", 1},
		{Dload0, "dload", 2},
		{Aload0, "aload", 1},
		{Istore0, "istore", -1},
		{Lstore0, "lstore", -2},
		{Fstore0, "fstore", -1},
		{Dstore0, "dstore", -2},
		{Astore0, "astore", -1},
	}
	for _, s := range shortForms {
		for i := 0; i < 4; i++ {
			code := s.base + Code(i)
			infos[code] = Info{
				Code:       code,
				Name:       s.name + "_" + string(rune('0'+i)),
				Size:       1,
				StackDelta: s.delta,
			}
		}
	}
	for _, code := range []Code{Ifeq, Ifne, Goto} {
		infos[code].Branch = true
	}
	for _, code := range []Code{Goto, Ireturn, Lreturn, Freturn, Dreturn, Areturn, Return, Athrow} {
		infos[code].Terminal = true
	}
}

// GetInfo returns information about the given opcode.
func GetInfo(op Code) Info {
	return infos[op]
}

// String returns the mnemonic of the opcode.
func (c Code) String() string {
	if name := infos[c].Name; name != "" {
		return name
	}
	return "invalid"
}
