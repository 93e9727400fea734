package compiler

import (
	"math"

	"github.com/deepnoodle-ai/jcore/ast"
	"github.com/deepnoodle-ai/jcore/bytecode"
	"github.com/deepnoodle-ai/jcore/op"
	"github.com/deepnoodle-ai/jcore/symbol"
	"github.com/deepnoodle-ai/jcore/types"
)

// category is the computational type of a value on the operand stack.
type category uint8

const (
	catInt category = iota
	catLong
	catFloat
	catDouble
	catRef
)

func categoryOf(t types.Type) category {
	p, ok := t.(types.Primitive)
	if !ok {
		return catRef
	}
	switch p.Prim {
	case types.PrimLong:
		return catLong
	case types.PrimFloat:
		return catFloat
	case types.PrimDouble:
		return catDouble
	}
	return catInt
}

// words returns the number of stack words a value of t takes.
func words(t types.Type) int {
	if types.IsVoid(t) {
		return 0
	}
	return types.Slots(t)
}

var (
	loadOps   = [...]op.Code{catInt: op.Iload, catLong: op.Lload, catFloat: op.Fload, catDouble: op.Dload, catRef: op.Aload}
	load0Ops  = [...]op.Code{catInt: op.Iload0, catLong: op.Lload0, catFloat: op.Fload0, catDouble: op.Dload0, catRef: op.Aload0}
	storeOps  = [...]op.Code{catInt: op.Istore, catLong: op.Lstore, catFloat: op.Fstore, catDouble: op.Dstore, catRef: op.Astore}
	store0Ops = [...]op.Code{catInt: op.Istore0, catLong: op.Lstore0, catFloat: op.Fstore0, catDouble: op.Dstore0, catRef: op.Astore0}
	returnOps = [...]op.Code{catInt: op.Ireturn, catLong: op.Lreturn, catFloat: op.Freturn, catDouble: op.Dreturn, catRef: op.Areturn}
)

// conversions between the computational types, indexed [from][to].
var conversionOps = map[category]map[category]op.Code{
	catInt:    {catLong: op.I2l, catFloat: op.I2f, catDouble: op.I2d},
	catLong:   {catInt: op.L2i, catFloat: op.L2f, catDouble: op.L2d},
	catFloat:  {catInt: op.F2i, catLong: op.F2l, catDouble: op.F2d},
	catDouble: {catInt: op.D2i, catLong: op.D2l, catFloat: op.D2f},
}

var unboxMethods = map[types.PrimitiveKind]string{
	types.PrimBoolean: "booleanValue",
	types.PrimByte:    "byteValue",
	types.PrimShort:   "shortValue",
	types.PrimChar:    "charValue",
	types.PrimInt:     "intValue",
	types.PrimLong:    "longValue",
	types.PrimFloat:   "floatValue",
	types.PrimDouble:  "doubleValue",
}

func (c *Compiler) load(l *Local) {
	cat := categoryOf(l.Type())
	if l.Index() <= 3 {
		c.code.emit(load0Ops[cat] + op.Code(l.Index()))
		return
	}
	c.code.emit(loadOps[cat], l.Index())
}

func (c *Compiler) store(l *Local) {
	cat := categoryOf(l.Type())
	if l.Index() <= 3 {
		c.code.emit(store0Ops[cat] + op.Code(l.Index()))
	} else {
		c.code.emit(storeOps[cat], l.Index())
	}
	c.code.bind(l, c.descriptor(l.Type()))
}

// dup duplicates the value of type t on top of the stack. With under set
// the copy is placed below the object reference beneath the value, as a
// field store needs.
func (c *Compiler) dup(t types.Type, under bool) {
	wide := words(t) == 2
	switch {
	case wide && under:
		c.code.emit(op.Dup2X1)
	case wide:
		c.code.emit(op.Dup2)
	case under:
		c.code.emit(op.DupX1)
	default:
		c.code.emit(op.Dup)
	}
}

// pop discards a value of type t.
func (c *Compiler) pop(t types.Type) {
	switch words(t) {
	case 1:
		c.code.emit(op.Pop)
	case 2:
		c.code.emit(op.Pop2)
	}
}

// convert emits the instructions converting a value of type from on the
// stack to type to.
func (c *Compiler) convert(from, to types.Type) error {
	if from == nil || to == nil || from.Kind() == types.KindNull || types.IsVoid(to) {
		return nil
	}
	ef, et := types.Erasure(from), types.Erasure(to)
	if types.Identical(ef, et) {
		return nil
	}
	switch c.resolver.Classify(ef, et) {
	case types.Identity, types.WideningReference:
	case types.WideningPrimitive, types.NarrowingPrimitive:
		c.convertPrimitive(ef.(types.Primitive), et.(types.Primitive))
	case types.NarrowingReference:
		if p, ok := et.(types.Primitive); ok {
			box := types.Box(p)
			if err := c.checkcast(box); err != nil {
				return err
			}
			return c.unbox(box.(types.Reference), p)
		}
		return c.checkcast(et)
	case types.Boxing, types.BoxingWidening:
		return c.box(ef.(types.Primitive))
	case types.Unboxing:
		u, _ := types.Unbox(ef)
		return c.unbox(ef.(types.Reference), u)
	case types.UnboxingWidening:
		u, _ := types.Unbox(ef)
		if err := c.unbox(ef.(types.Reference), u); err != nil {
			return err
		}
		c.convertPrimitive(u, et.(types.Primitive))
	default:
		c.code.fail("compile error: cannot convert from %s to %s", from, to)
	}
	return nil
}

func (c *Compiler) convertPrimitive(from, to types.Primitive) {
	cf, ct := categoryOf(from), categoryOf(to)
	if cf != ct {
		c.code.emit(conversionOps[cf][ct])
	}
	switch to.Prim {
	case types.PrimByte:
		if from.Prim != types.PrimByte {
			c.code.emit(op.I2b)
		}
	case types.PrimShort:
		if from.Prim != types.PrimShort && from.Prim != types.PrimByte {
			c.code.emit(op.I2s)
		}
	case types.PrimChar:
		if from.Prim != types.PrimChar {
			c.code.emit(op.I2c)
		}
	}
}

func (c *Compiler) checkcast(t types.Type) error {
	idx, err := c.pool.add(bytecode.ClassConstant(c.className(t)))
	if err != nil {
		return err
	}
	c.code.emit(op.Checkcast, idx)
	return nil
}

// box calls the valueOf method of the wrapper class of p.
func (c *Compiler) box(p types.Primitive) error {
	boxed := types.Box(p).(types.Reference)
	m := symbol.NewMethod(boxed.Name, "valueOf", []types.Type{p}, boxed, "")
	m.Static = true
	return c.invoke(op.Invokestatic, boxed.Name, m, "")
}

// unbox calls the xxxValue method of a wrapper class.
func (c *Compiler) unbox(boxed types.Reference, p types.Primitive) error {
	m := symbol.NewMethod(boxed.Name, unboxMethods[p.Prim], nil, p, "")
	return c.invoke(op.Invokevirtual, boxed.Name, m, "")
}

// constant pushes a literal converted to type to. Numeric literals are
// folded into the target type instead of converted at run time.
func (c *Compiler) constant(lit *ast.Literal, to types.Type) error {
	p, ok := to.(types.Primitive)
	if !ok || lit.Kind == ast.StringLit || lit.Kind == ast.NullLit || lit.Kind == ast.BoolLit {
		return c.literal(lit)
	}
	var i int64
	var f float64
	switch lit.Kind {
	case ast.FloatLit, ast.DoubleLit:
		f, i = lit.Float, int64(lit.Float)
	default:
		i, f = lit.Int, float64(lit.Int)
	}
	switch p.Prim {
	case types.PrimByte:
		return c.pushInt(int32(int8(i)))
	case types.PrimShort:
		return c.pushInt(int32(int16(i)))
	case types.PrimChar:
		return c.pushInt(int32(uint16(i)))
	case types.PrimInt:
		return c.pushInt(int32(i))
	case types.PrimLong:
		return c.pushLong(i)
	case types.PrimFloat:
		return c.pushFloat(float32(f))
	case types.PrimDouble:
		return c.pushDouble(f)
	}
	return c.literal(lit)
}

func (c *Compiler) literal(lit *ast.Literal) error {
	switch lit.Kind {
	case ast.IntLit, ast.CharLit:
		return c.pushInt(int32(lit.Int))
	case ast.BoolLit:
		if lit.Bool {
			return c.pushInt(1)
		}
		return c.pushInt(0)
	case ast.LongLit:
		return c.pushLong(lit.Int)
	case ast.FloatLit:
		return c.pushFloat(float32(lit.Float))
	case ast.DoubleLit:
		return c.pushDouble(lit.Float)
	case ast.StringLit:
		return c.ldc(bytecode.StringConstant(lit.Str))
	case ast.NullLit:
		c.code.emit(op.AconstNull)
		return nil
	}
	c.code.fail("compile error: unknown literal kind %d", lit.Kind)
	return nil
}

func (c *Compiler) pushInt(v int32) error {
	switch {
	case v >= -1 && v <= 5:
		c.code.emit(op.IconstM1 + op.Code(v+1))
	case v >= math.MinInt8 && v <= math.MaxInt8:
		c.code.emit(op.Bipush, int(v))
	case v >= math.MinInt16 && v <= math.MaxInt16:
		c.code.emit(op.Sipush, int(v))
	default:
		return c.ldc(bytecode.IntConstant(v))
	}
	return nil
}

func (c *Compiler) pushLong(v int64) error {
	if v == 0 || v == 1 {
		c.code.emit(op.Lconst0 + op.Code(v))
		return nil
	}
	return c.ldc(bytecode.LongConstant(v))
}

func (c *Compiler) pushFloat(v float32) error {
	if (v == 0 && !math.Signbit(float64(v))) || v == 1 || v == 2 {
		c.code.emit(op.Fconst0 + op.Code(v))
		return nil
	}
	return c.ldc(bytecode.FloatConstant(v))
}

func (c *Compiler) pushDouble(v float64) error {
	if (v == 0 && !math.Signbit(v)) || v == 1 {
		c.code.emit(op.Dconst0 + op.Code(v))
		return nil
	}
	return c.ldc(bytecode.DoubleConstant(v))
}

// ldc loads a pool constant, choosing ldc, ldc_w or ldc2_w.
func (c *Compiler) ldc(k bytecode.Constant) error {
	idx, err := c.pool.add(k)
	if err != nil {
		return err
	}
	switch {
	case k.Wide():
		c.code.emit(op.Ldc2W, idx)
	case idx <= math.MaxUint8:
		c.code.emit(op.Ldc, idx)
	default:
		c.code.emit(op.LdcW, idx)
	}
	return nil
}
