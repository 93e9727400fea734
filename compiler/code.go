package compiler

import (
	"fmt"
	"math"

	"github.com/deepnoodle-ai/jcore/bytecode"
	"github.com/deepnoodle-ai/jcore/op"
	"github.com/deepnoodle-ai/jcore/types"
)

// placeholder is a branch target written before the target is known. It is
// always replaced before the method is finished.
const placeholder = -1

// code is the mutable body of the method being emitted.
type code struct {
	name         string
	instructions []bytecode.Instruction
	offset       int

	depth    int
	maxDepth int

	// line is the source line attributed to the next instruction.
	line int

	// reachable is false after an instruction that never falls through,
	// until a branch target is placed.
	reachable bool

	locals *LocalTable
	// pending holds declared variables that have not been stored yet.
	pending map[*Local]bool

	obs observers

	// Set on a failure that is not propagated up the call stack
	failure error
}

func newCode(name string, reuseSlots bool, obs observers) *code {
	return &code{
		name:      name,
		reachable: true,
		locals:    NewLocalTable(reuseSlots),
		pending:   map[*Local]bool{},
		obs:       obs,
	}
}

func (c *code) fail(format string, args ...any) {
	if c.failure == nil {
		c.failure = fmt.Errorf(format, args...)
	}
}

// emit appends an instruction with a fixed stack effect and returns its
// index.
func (c *code) emit(opcode op.Code, operands ...int) int {
	info := op.GetInfo(opcode)
	if info.StackDelta == op.Variable {
		panic(fmt.Sprintf("compile error: %s needs an explicit stack effect", opcode))
	}
	return c.emitDelta(opcode, info.StackDelta, operands...)
}

// emitDelta appends an instruction whose stack effect depends on a member
// descriptor.
func (c *code) emitDelta(opcode op.Code, delta int, operands ...int) int {
	info := op.GetInfo(opcode)
	if !info.IsValid() {
		panic(fmt.Sprintf("compile error: invalid opcode %d", opcode))
	}
	in := bytecode.Instruction{
		Offset:   c.offset,
		Op:       opcode,
		Operands: operands,
		Line:     c.line,
	}
	pos := len(c.instructions)
	c.instructions = append(c.instructions, in)
	c.offset += info.Size
	c.obs.Instruction(in)
	c.adjust(delta)
	if info.Terminal {
		c.reachable = false
	}
	return pos
}

// adjust changes the operand stack depth.
func (c *code) adjust(delta int) {
	c.depth += delta
	if c.depth < 0 {
		c.fail("compile error: operand stack underflow at pc %d", c.offset)
		c.depth = 0
	}
	if c.depth > c.maxDepth {
		c.maxDepth = c.depth
	}
}

// label marks the current offset as a branch target.
func (c *code) label() int {
	c.reachable = true
	return c.offset
}

// patch sets the target of the branch at instruction index pos.
func (c *code) patch(pos, target int) {
	c.instructions[pos].Operands[0] = target
}

// setLine attributes the following instructions to line.
func (c *code) setLine(line int) {
	if line > 0 {
		c.line = line
	}
}

// declare adds a local variable to the current scope. Its scope starts at
// its first store.
func (c *code) declare(name string, typ types.Type) (*Local, error) {
	l, err := c.locals.InsertVariable(name, typ)
	if err != nil {
		return nil, err
	}
	if l.Index()+l.Slots() > math.MaxUint8+1 {
		return nil, fmt.Errorf("compile error: local variable %s needs a wide index", name)
	}
	c.pending[l] = true
	return l, nil
}

// bind starts the scope of a variable whose value is available at the
// current offset, such as a parameter.
func (c *code) bind(l *Local, descriptor string) {
	if !c.pending[l] {
		return
	}
	delete(c.pending, l)
	c.obs.LocalStart(l.Index(), l.Name(), descriptor, c.offset)
}

// enterBlock opens a nested scope.
func (c *code) enterBlock() {
	c.locals = c.locals.NewBlock()
}

// leaveBlock closes the current scope, ending the variables it declared.
func (c *code) leaveBlock() {
	for _, l := range c.locals.Close() {
		if c.pending[l] {
			delete(c.pending, l)
			continue
		}
		c.obs.LocalEnd(l.Index(), c.offset)
	}
	c.locals = c.locals.Parent()
}
