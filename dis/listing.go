package dis

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/jcore/bytecode"
	"github.com/deepnoodle-ai/jcore/op"
)

// WriteClass writes the listing of every method of a class.
func WriteClass(w io.Writer, c *bytecode.Class) error {
	var sb strings.Builder
	if c.Source() != "" {
		fmt.Fprintf(&sb, "// Compiled from %s\n", c.Source())
	}
	if c.IsDeprecated() {
		sb.WriteString("// Deprecated\n")
	}
	kind := "class"
	if c.IsInterface() {
		kind = "interface"
	}
	fmt.Fprintf(&sb, "%s %s", kind, c.Name())
	if c.Super() != "" && c.Super() != "java.lang.Object" {
		fmt.Fprintf(&sb, " extends %s", c.Super())
	}
	sb.WriteString(" {\n")
	for i := 0; i < c.MethodCount(); i++ {
		sb.WriteString("  \n")
		if err := writeMethod(&sb, c.MethodAt(i), c.Pool()); err != nil {
			return err
		}
	}
	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteMethod writes the listing of one method: its descriptor and frame
// sizes, the instructions, and the exception, line number and local
// variable tables.
func WriteMethod(w io.Writer, m *bytecode.Method, pool *bytecode.Pool) error {
	var sb strings.Builder
	if err := writeMethod(&sb, m, pool); err != nil {
		return err
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeMethod(sb *strings.Builder, m *bytecode.Method, pool *bytecode.Pool) error {
	instructions, err := Disassemble(m, pool)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", m.Owner(), m.Name(), err)
	}
	fmt.Fprintf(sb, "  // Method descriptor %s\n", m.Descriptor())
	fmt.Fprintf(sb, "  // Stack: %d, Locals: %d\n", m.MaxStack(), m.MaxLocals())
	if m.IsDeprecated() {
		sb.WriteString("  // Deprecated\n")
	}
	fmt.Fprintf(sb, "  %s;\n", signature(m))

	width := 4
	if n := len(instructions); n > 0 {
		width += len(strconv.Itoa(instructions[n-1].Offset))
	}
	for _, instr := range instructions {
		fmt.Fprintf(sb, "%*d  %s\n", width, instr.Offset, format(instr))
	}

	if m.ExceptionCount() > 0 {
		sb.WriteString("      Exception Table:\n")
		for i := 0; i < m.ExceptionCount(); i++ {
			e := m.ExceptionAt(i)
			fmt.Fprintf(sb, "        [pc: %d, pc: %d] -> %d when : %s\n", e.Start, e.End, e.Handler, e.CatchName())
		}
	}
	if m.LineCount() > 0 {
		sb.WriteString("      Line numbers:\n")
		for i := 0; i < m.LineCount(); i++ {
			e := m.LineAt(i)
			fmt.Fprintf(sb, "        [pc: %d, line: %d]\n", e.Offset, e.Line)
		}
	}
	if m.LocalCount() > 0 {
		sb.WriteString("      Local variable table:\n")
		for i := 0; i < m.LocalCount(); i++ {
			e := m.LocalAt(i)
			fmt.Fprintf(sb, "        [pc: %d, pc: %d] local: %s index: %d type: %s\n",
				e.Start, e.End, e.Name, e.Slot, bytecode.TypeName(e.Descriptor))
		}
	}
	return nil
}

// signature renders a method header such as static int f(long a, int b)
// or p.X(int v).
func signature(m *bytecode.Method) string {
	if m.Name() == "<clinit>" {
		return "static {}"
	}
	params, result := bytecode.SplitMethodDescriptor(m.Descriptor())
	args := make([]string, len(params))
	for i, p := range params {
		name := fmt.Sprintf("arg%d", i)
		if i < m.ParamCount() && m.ParamNameAt(i) != "" {
			name = m.ParamNameAt(i)
		}
		args[i] = bytecode.TypeName(p) + " " + name
	}
	var sb strings.Builder
	if m.IsStatic() {
		sb.WriteString("static ")
	}
	if m.IsConstructor() {
		sb.WriteString(m.Owner())
	} else {
		sb.WriteString(bytecode.TypeName(result))
		sb.WriteByte(' ')
		sb.WriteString(m.Name())
	}
	fmt.Fprintf(&sb, "(%s)", strings.Join(args, ", "))
	return sb.String()
}

func format(instr Instruction) string {
	switch {
	case instr.Constant != nil:
		s := fmt.Sprintf("%s %s [%d]", instr.Name, instr.Annotation, instr.Operands[0])
		if instr.Opcode == op.Invokeinterface && len(instr.Operands) > 1 {
			s += fmt.Sprintf(" [nargs: %d]", instr.Operands[1])
		}
		return s
	case len(instr.Operands) > 0:
		s := instr.Name + " " + formatArgs(instr.Operands)
		if instr.Annotation != "" {
			s += " [" + instr.Annotation + "]"
		}
		return s
	case instr.Annotation != "":
		return instr.Name + " [" + instr.Annotation + "]"
	}
	return instr.Name
}

func formatArgs(ops []int) string {
	parts := make([]string, len(ops))
	for i, o := range ops {
		parts[i] = strconv.Itoa(o)
	}
	return strings.Join(parts, " ")
}
