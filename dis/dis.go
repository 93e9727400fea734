// Package dis renders compiled jcore methods for inspection. Disassemble
// decodes a method into annotated instructions, Print shows them as a
// table, and WriteClass and WriteMethod produce a listing in the layout of
// the Eclipse class file disassembler, debug tables included.
package dis

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/deepnoodle-ai/jcore/bytecode"
	"github.com/deepnoodle-ai/jcore/internal/table"
	"github.com/deepnoodle-ai/jcore/op"
)

// Instruction represents a single instruction with its operands resolved
// against the constant pool and the local variable table.
type Instruction struct {
	Offset   int
	Name     string
	Opcode   op.Code
	Operands []int
	Line     int
	// Annotation is the rendered constant or local variable name, if any.
	Annotation string
	// Constant is set for instructions whose first operand is a pool index.
	Constant *bytecode.Constant
}

// Disassemble returns a decoded representation of the given method. The
// pool must be the one of the class that owns the method.
func Disassemble(m *bytecode.Method, pool *bytecode.Pool) ([]Instruction, error) {
	instructions := make([]Instruction, 0, m.InstructionCount())
	for i := 0; i < m.InstructionCount(); i++ {
		in := m.InstructionAt(i)
		info := op.GetInfo(in.Op)
		if !info.IsValid() {
			return nil, fmt.Errorf("invalid opcode %#x at offset %d", uint8(in.Op), in.Offset)
		}
		out := Instruction{
			Offset:   in.Offset,
			Name:     info.Name,
			Opcode:   in.Op,
			Operands: in.Operands,
			Line:     in.Line,
		}
		switch {
		case usesPool(in.Op):
			if len(in.Operands) == 0 {
				return nil, fmt.Errorf("%s at offset %d: missing pool index", info.Name, in.Offset)
			}
			c, ok := pool.Lookup(in.Operands[0])
			if !ok {
				return nil, fmt.Errorf("%s at offset %d: constant pool index out of range: %d",
					info.Name, in.Offset, in.Operands[0])
			}
			out.Constant = &c
			out.Annotation = c.String()
		default:
			if slot, ok := localSlot(in); ok {
				out.Annotation = localName(m, in, slot)
			}
		}
		instructions = append(instructions, out)
	}
	return instructions, nil
}

func usesPool(code op.Code) bool {
	switch code {
	case op.Ldc, op.LdcW, op.Ldc2W,
		op.Getstatic, op.Putstatic, op.Getfield, op.Putfield,
		op.Invokevirtual, op.Invokespecial, op.Invokestatic, op.Invokeinterface,
		op.New, op.Anewarray, op.Checkcast:
		return true
	}
	return false
}

// localSlot returns the variable slot a load or store addresses.
func localSlot(in bytecode.Instruction) (int, bool) {
	switch {
	case in.Op >= op.Iload && in.Op <= op.Aload, in.Op >= op.Istore && in.Op <= op.Astore:
		if len(in.Operands) == 0 {
			return 0, false
		}
		return in.Operands[0], true
	case in.Op >= op.Iload0 && in.Op <= op.Aload3:
		return int(in.Op-op.Iload0) % 4, true
	case in.Op >= op.Istore0 && in.Op <= op.Astore3:
		return int(in.Op-op.Istore0) % 4, true
	}
	return 0, false
}

// localName looks the slot up at the instruction and, for stores that open
// a variable's range, just after it.
func localName(m *bytecode.Method, in bytecode.Instruction, slot int) string {
	if name := m.LocalName(slot, in.Offset); name != "" {
		return name
	}
	return m.LocalName(slot, in.End())
}

// Print writes the instructions as a table.
func Print(instructions []Instruction, writer io.Writer) error {
	bold := color.New(color.Bold).SprintFunc()
	var lines [][]string
	for _, instr := range instructions {
		values := []string{
			strconv.Itoa(instr.Offset),
			bold(instr.Name),
			formatOperands(instr.Operands),
			strconv.Itoa(instr.Line),
		}
		switch {
		case instr.Constant != nil:
			values = append(values, constantColor(*instr.Constant).Sprint(instr.Annotation))
		case instr.Annotation != "":
			values = append(values, color.CyanString(instr.Annotation))
		default:
			values = append(values, "")
		}
		lines = append(lines, values)
	}

	return table.NewTable(writer).
		WithHeader([]string{"OFFSET", "OPCODE", "OPERANDS", "LINE", "INFO"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignLeft,
			table.AlignRight,
			table.AlignRight,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(lines).
		Render()
}

func constantColor(c bytecode.Constant) *color.Color {
	switch c.Kind {
	case bytecode.ConstInteger, bytecode.ConstLong, bytecode.ConstFloat, bytecode.ConstDouble:
		return color.New(color.FgYellow)
	case bytecode.ConstString:
		return color.New(color.FgGreen)
	case bytecode.ConstMethod, bytecode.ConstInterfaceMethod:
		return color.New(color.FgMagenta)
	}
	return color.New(color.FgBlue)
}

func formatOperands(ops []int) string {
	var sb strings.Builder
	for i, o := range ops {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(o))
	}
	return sb.String()
}
