package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/jcore/ast"
	"github.com/deepnoodle-ai/jcore/bytecode"
	"github.com/deepnoodle-ai/jcore/checker"
	"github.com/deepnoodle-ai/jcore/errors"
	"github.com/deepnoodle-ai/jcore/op"
	"github.com/deepnoodle-ai/jcore/options"
	"github.com/deepnoodle-ai/jcore/parser"
	"github.com/deepnoodle-ai/jcore/symbol"
)

type checked struct {
	table *symbol.Table
	unit  *ast.Unit
	info  *checker.Info
}

// analyze parses and checks a single unit.
func analyze(t *testing.T, opts options.Options, name, src string) (*checked, *errors.List) {
	t.Helper()
	unit, err := parser.Parse(context.Background(), name, src)
	require.NoError(t, err)
	table := symbol.NewTable()
	require.NoError(t, checker.Declare(table, unit))
	require.NoError(t, checker.Complete(table, unit))
	table.Seal()
	info, list := checker.New(table, opts).Check(unit)
	return &checked{table: table, unit: unit, info: info}, list
}

// check is analyze for units that must check without errors.
func check(t *testing.T, opts options.Options, name, src string) *checked {
	t.Helper()
	res, list := analyze(t, opts, name, src)
	require.False(t, list.HasErrors(), "%v", list.Err())
	return res
}

func (c *checked) method(t *testing.T, name string) *ast.MethodDecl {
	t.Helper()
	var found *ast.MethodDecl
	ast.Inspect(c.unit, func(n ast.Node) bool {
		if md, ok := n.(*ast.MethodDecl); ok && md.Name.Name == name && found == nil {
			found = md
		}
		return found == nil
	})
	require.NotNil(t, found, "method %s", name)
	return found
}

func opcodes(m *bytecode.Method) []op.Code {
	out := make([]op.Code, m.InstructionCount())
	for i := range out {
		out[i] = m.InstructionAt(i).Op
	}
	return out
}

func lines(m *bytecode.Method) []bytecode.LineEntry {
	out := make([]bytecode.LineEntry, m.LineCount())
	for i := range out {
		out[i] = m.LineAt(i)
	}
	return out
}

func locals(m *bytecode.Method) []bytecode.LocalEntry {
	out := make([]bytecode.LocalEntry, m.LocalCount())
	for i := range out {
		out[i] = m.LocalAt(i)
	}
	return out
}

func exceptions(m *bytecode.Method) []bytecode.ExceptionEntry {
	out := make([]bytecode.ExceptionEntry, m.ExceptionCount())
	for i := range out {
		out[i] = m.ExceptionAt(i)
	}
	return out
}

// constantAt returns the pool entry referenced by the first operand of the
// instruction at index i.
func constantAt(t *testing.T, c *Compiler, m *bytecode.Method, i int) bytecode.Constant {
	t.Helper()
	k, ok := c.Pool().Lookup(m.InstructionAt(i).Operands[0])
	require.True(t, ok)
	return k
}

func TestFieldChainInTry(t *testing.T) {
	src := `class X {
	X next;
	void foo() {
		try {
			X x = next
				.next
				.next
				.next
				.next;
		} catch (Exception e) {
			System.out.println("caught");
		}
	}
}`
	res := check(t, options.Default(), "X.java", src)
	c := New(res.table, res.info)
	m, err := c.Emit(res.method(t, "foo"))
	require.NoError(t, err)

	require.Equal(t, []op.Code{
		op.Aload0,
		op.Getfield, op.Getfield, op.Getfield, op.Getfield, op.Getfield,
		op.Astore1,
		op.Goto,
		op.Astore2,
		op.Getstatic,
		op.Ldc,
		op.Invokevirtual,
		op.Return,
	}, opcodes(m))
	require.Equal(t, 30, m.Length())

	// The goto over the handler lands on the return.
	require.Equal(t, []int{29}, m.InstructionAt(7).Operands)

	require.Equal(t, []bytecode.LineEntry{
		{Offset: 0, Line: 5},
		{Offset: 4, Line: 6},
		{Offset: 7, Line: 7},
		{Offset: 10, Line: 8},
		{Offset: 13, Line: 9},
		{Offset: 20, Line: 10},
		{Offset: 21, Line: 11},
		{Offset: 29, Line: 13},
	}, lines(m))

	// x is stored by the last instruction of the guarded block, so its
	// scope is empty and it has no entry.
	require.Equal(t, []bytecode.LocalEntry{
		{Slot: 0, Name: "this", Descriptor: "LX;", Start: 0, End: 30},
		{Slot: 2, Name: "e", Descriptor: "Ljava/lang/Exception;", Start: 21, End: 29},
	}, locals(m))

	require.Equal(t, []bytecode.ExceptionEntry{
		{Start: 0, End: 17, Handler: 20, CatchType: "java.lang.Exception"},
	}, exceptions(m))

	require.Equal(t, 2, m.MaxStack())
	require.Equal(t, 3, m.MaxLocals())

	next := constantAt(t, c, m, 1)
	require.Equal(t, bytecode.ConstField, next.Kind)
	require.Equal(t, "X", next.Class)
	require.Equal(t, "next", next.Name)
	require.Equal(t, "LX;", next.Descriptor)

	out := constantAt(t, c, m, 9)
	require.Equal(t, "java.lang.System", out.Class)
	print := constantAt(t, c, m, 11)
	require.Equal(t, bytecode.ConstMethod, print.Kind)
	require.Equal(t, "java.io.PrintStream", print.Class)
	require.Equal(t, "(Ljava/lang/String;)V", print.Descriptor)
}

func TestEmptyTryHasNoHandlers(t *testing.T) {
	res := check(t, options.Default(), "E.java", `class E {
	void f() {
		try {
		} catch (RuntimeException e) {
			System.out.println("never");
		}
	}
}`)
	m, err := Emit(res.method(t, "f"), res.info, res.table)
	require.NoError(t, err)
	require.Equal(t, []op.Code{op.Return}, opcodes(m))
	require.Equal(t, 0, m.ExceptionCount())
}

func TestMultipleCatches(t *testing.T) {
	res := check(t, options.Default(), "M.java", `class M {
	int f(M m) {
		try {
			m.toString();
		} catch (RuntimeException r) {
			return 1;
		} catch (Exception e) {
			System.out.println("e");
		}
		return 2;
	}
}`)
	m, err := Emit(res.method(t, "f"), res.info, res.table)
	require.NoError(t, err)
	require.Equal(t, []op.Code{
		op.Aload1, op.Invokevirtual, op.Pop,
		op.Goto,
		op.Astore2, op.Iconst1, op.Ireturn,
		op.Astore3, op.Getstatic, op.Ldc, op.Invokevirtual,
		op.Iconst2, op.Ireturn,
	}, opcodes(m))
	require.Equal(t, []int{20}, m.InstructionAt(3).Operands)
	require.Equal(t, []bytecode.ExceptionEntry{
		{Start: 0, End: 5, Handler: 8, CatchType: "java.lang.RuntimeException"},
		{Start: 0, End: 5, Handler: 11, CatchType: "java.lang.Exception"},
	}, exceptions(m))
}

func TestReturnConversions(t *testing.T) {
	res := check(t, options.Default(), "C.java", `class C {
	long one() { return 1; }
	double widen(int i) { return i; }
	Integer box() { return 7; }
	int unbox(Integer v) { return v; }
	int big() { return 100000; }
}`)
	tests := []struct {
		method string
		want   []op.Code
	}{
		{"one", []op.Code{op.Lconst1, op.Lreturn}},
		{"widen", []op.Code{op.Iload1, op.I2d, op.Dreturn}},
		{"box", []op.Code{op.Bipush, op.Invokestatic, op.Areturn}},
		{"unbox", []op.Code{op.Aload1, op.Invokevirtual, op.Ireturn}},
		{"big", []op.Code{op.Ldc, op.Ireturn}},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			c := New(res.table, res.info)
			m, err := c.Emit(res.method(t, tt.method))
			require.NoError(t, err)
			require.Equal(t, tt.want, opcodes(m))
		})
	}

	c := New(res.table, res.info)
	m, err := c.Emit(res.method(t, "box"))
	require.NoError(t, err)
	require.Equal(t, []int{7}, m.InstructionAt(0).Operands)
	valueOf := constantAt(t, c, m, 1)
	require.Equal(t, "java.lang.Integer", valueOf.Class)
	require.Equal(t, "valueOf", valueOf.Name)
	require.Equal(t, "(I)Ljava/lang/Integer;", valueOf.Descriptor)

	m, err = c.Emit(res.method(t, "unbox"))
	require.NoError(t, err)
	intValue := constantAt(t, c, m, 1)
	require.Equal(t, "intValue", intValue.Name)
	require.Equal(t, "()I", intValue.Descriptor)
}

func TestConditional(t *testing.T) {
	res := check(t, options.Default(), "Q.java", `class Q {
	Object f(boolean b, Integer i) {
		return b ? i : 1;
	}
}`)
	m, err := Emit(res.method(t, "f"), res.info, res.table)
	require.NoError(t, err)
	require.Equal(t, []op.Code{
		op.Iload1,        // 0
		op.Ifeq,          // 1
		op.Aload2,        // 4
		op.Invokevirtual, // 5
		op.Goto,          // 8
		op.Iconst1,       // 11
		op.Invokestatic,  // 12
		op.Areturn,       // 15
	}, opcodes(m))
	require.Equal(t, []int{11}, m.InstructionAt(1).Operands)
	require.Equal(t, []int{12}, m.InstructionAt(4).Operands)
	require.Equal(t, 1, m.MaxStack())
}

func TestConstructors(t *testing.T) {
	res := check(t, options.Default(), "P.java", `class P {
	int v;
	P(int v) {
		this.v = v;
	}
	static P make() {
		return new P(3);
	}
}`)
	c := New(res.table, res.info)
	ctor, err := c.Emit(res.method(t, "P"))
	require.NoError(t, err)
	require.Equal(t, "<init>", ctor.Name())
	require.Equal(t, []op.Code{
		op.Aload0, op.Invokespecial,
		op.Aload0, op.Iload1, op.Putfield,
		op.Return,
	}, opcodes(ctor))
	require.Equal(t, []bytecode.LineEntry{
		{Offset: 0, Line: 3},
		{Offset: 4, Line: 4},
		{Offset: 9, Line: 5},
	}, lines(ctor))
	require.Equal(t, []bytecode.LocalEntry{
		{Slot: 0, Name: "this", Descriptor: "LP;", Start: 0, End: 10},
		{Slot: 1, Name: "v", Descriptor: "I", Start: 0, End: 10},
	}, locals(ctor))
	require.Equal(t, 2, ctor.MaxStack())

	superInit := constantAt(t, c, ctor, 1)
	require.Equal(t, "java.lang.Object", superInit.Class)
	require.Equal(t, "<init>", superInit.Name)
	require.Equal(t, "()V", superInit.Descriptor)

	factory, err := c.Emit(res.method(t, "make"))
	require.NoError(t, err)
	require.True(t, factory.IsStatic())
	require.Equal(t, []op.Code{
		op.New, op.Dup, op.Iconst3, op.Invokespecial, op.Areturn,
	}, opcodes(factory))
	require.Equal(t, "P", constantAt(t, c, factory, 0).Class)
	require.Equal(t, "(I)V", constantAt(t, c, factory, 3).Descriptor)
	require.Equal(t, 3, factory.MaxStack())
}

func TestNestedConstructorCalls(t *testing.T) {
	res := check(t, options.Default(), "X.java", `class X {
	X() {}
	X(X next) {}
	static void f() {
		X x = new X(new X(new X(null)));
	}
}`)
	c := New(res.table, res.info)
	m, err := c.Emit(res.method(t, "f"))
	require.NoError(t, err)

	// Each object is allocated before its arguments are evaluated, and
	// initialized innermost first.
	require.Equal(t, []op.Code{
		op.New, op.Dup,
		op.New, op.Dup,
		op.New, op.Dup,
		op.AconstNull,
		op.Invokespecial, op.Invokespecial, op.Invokespecial,
		op.Astore0, op.Return,
	}, opcodes(m))
	for _, i := range []int{7, 8, 9} {
		ctor := constantAt(t, c, m, i)
		require.Equal(t, "X", ctor.Class)
		require.Equal(t, "<init>", ctor.Name)
		require.Equal(t, "(LX;)V", ctor.Descriptor)
	}
	require.Equal(t, 7, m.MaxStack())
	require.Equal(t, 1, m.MaxLocals())
}

func TestOverloadedCalls(t *testing.T) {
	res := check(t, options.Default(), "V.java", `class V {
	static void p(long v) {}
	static void p(Object o) {}
	static void h(int i) {
		p(i);
		p("s");
	}
}`)
	c := New(res.table, res.info)
	m, err := c.Emit(res.method(t, "h"))
	require.NoError(t, err)
	require.Equal(t, []op.Code{
		op.Iload0, op.I2l, op.Invokestatic,
		op.Ldc, op.Invokestatic,
		op.Return,
	}, opcodes(m))
	require.Equal(t, "(J)V", constantAt(t, c, m, 2).Descriptor)
	require.Equal(t, "(Ljava/lang/Object;)V", constantAt(t, c, m, 4).Descriptor)
	require.Equal(t, 2, m.MaxStack())
}

func TestDefaultConstructorAndStaticInitializer(t *testing.T) {
	res := check(t, options.Default(), "D.java", `@Deprecated
class D {
	static int n = 3;
	String s = "a";
}`)
	c := New(res.table, res.info, WithFilename("D.java"))
	class, err := c.CompileType(res.unit.Types[0])
	require.NoError(t, err)
	require.Equal(t, "D", class.Name())
	require.Equal(t, "java.lang.Object", class.Super())
	require.Equal(t, "D.java", class.Source())
	require.True(t, class.IsDeprecated())
	require.Equal(t, 2, class.MethodCount())

	ctor, ok := class.Method("<init>")
	require.True(t, ok)
	require.True(t, ctor.IsDeprecated())
	require.Equal(t, []op.Code{
		op.Aload0, op.Invokespecial,
		op.Aload0, op.Ldc, op.Putfield,
		op.Return,
	}, opcodes(ctor))
	require.Equal(t, []bytecode.LineEntry{
		{Offset: 0, Line: 2},
		{Offset: 4, Line: 4},
		{Offset: 10, Line: 2},
	}, lines(ctor))

	clinit, ok := class.Method("<clinit>")
	require.True(t, ok)
	require.True(t, clinit.IsStatic())
	require.Equal(t, []op.Code{op.Iconst3, op.Putstatic, op.Return}, opcodes(clinit))
	require.Equal(t, []bytecode.LineEntry{{Offset: 0, Line: 3}}, lines(clinit))
}

func TestLocalSlotReuse(t *testing.T) {
	src := `class R {
	void f() {
		{ int a = 1; }
		{ long b = 2; }
		int c = 3;
	}
}`
	res := check(t, options.Default(), "R.java", src)
	m, err := Emit(res.method(t, "f"), res.info, res.table)
	require.NoError(t, err)
	require.Equal(t, []op.Code{
		op.Iconst1, op.Istore1,
		op.Ldc2W, op.Lstore2,
		op.Iconst3, op.Istore, op.Return,
	}, opcodes(m))
	require.Equal(t, []int{4}, m.InstructionAt(5).Operands)
	require.Equal(t, 5, m.MaxLocals())

	opts := options.Default()
	opts.ReuseLocalSlots = true
	res = check(t, opts, "R.java", src)
	m, err = New(res.table, res.info, WithOptions(opts)).Emit(res.method(t, "f"))
	require.NoError(t, err)
	require.Equal(t, []op.Code{
		op.Iconst1, op.Istore1,
		op.Ldc2W, op.Lstore1,
		op.Iconst3, op.Istore1, op.Return,
	}, opcodes(m))
	require.Equal(t, 3, m.MaxLocals())
	require.Equal(t, []bytecode.LocalEntry{
		{Slot: 0, Name: "this", Descriptor: "LR;", Start: 0, End: 9},
		{Slot: 1, Name: "c", Descriptor: "I", Start: 8, End: 9},
	}, locals(m))
}

func TestPolymorphicCall(t *testing.T) {
	res := check(t, options.Default(), "H.java", `import java.lang.invoke.MethodHandle;
class H {
	void f(MethodHandle h) throws Throwable {
		String s = (String) h.invokeExact("a", 1, null);
	}
}`)
	c := New(res.table, res.info)
	m, err := c.Emit(res.method(t, "f"))
	require.NoError(t, err)
	require.Equal(t, []op.Code{
		op.Aload1, op.Ldc, op.Iconst1, op.AconstNull,
		op.Invokevirtual, op.Astore2, op.Return,
	}, opcodes(m))
	call := constantAt(t, c, m, 4)
	require.Equal(t, "java.lang.invoke.MethodHandle", call.Class)
	require.Equal(t, "invokeExact", call.Name)
	require.Equal(t, "(Ljava/lang/String;ILjava/lang/Void;)Ljava/lang/String;", call.Descriptor)
	require.Equal(t, 4, m.MaxStack())
}

func TestNestedTypes(t *testing.T) {
	res := check(t, options.Default(), "p/Outer.java", `package p;
class Outer {
	static int count;
	static class Inner {
		int get() { return count; }
		Inner self() { return this; }
	}
}`)
	c := New(res.table, res.info)
	classes, err := c.CompileUnit(res.unit)
	require.NoError(t, err)
	require.Len(t, classes, 2)
	require.Equal(t, "p.Outer", classes[0].Name())
	require.Equal(t, "p/Outer.java", classes[0].Source())

	inner := classes[1]
	require.Equal(t, "p.Outer$Inner", inner.Name())
	get, ok := inner.Method("get")
	require.True(t, ok)
	require.Equal(t, []op.Code{op.Getstatic, op.Ireturn}, opcodes(get))
	k, ok := inner.Pool().Lookup(get.InstructionAt(0).Operands[0])
	require.True(t, ok)
	require.Equal(t, "p.Outer", k.Class)
	require.Equal(t, "count", k.Name)

	self, ok := inner.Method("self")
	require.True(t, ok)
	require.Equal(t, "()Lp/Outer$Inner;", self.Descriptor())
}

func TestFailuresAreAggregated(t *testing.T) {
	res, list := analyze(t, options.Default(), "F.java", `class F {
	void ok() { }
	int bad() { }
}`)
	require.True(t, list.HasErrors())
	class, err := New(res.table, res.info).CompileType(res.unit.Types[0])
	require.Error(t, err)
	require.ErrorIs(t, err, errors.ErrInternal)
	require.Contains(t, err.Error(), "missing return statement")
	require.NotNil(t, class)
	_, ok := class.Method("ok")
	require.True(t, ok)
	_, ok = class.Method("bad")
	require.False(t, ok)
}

func TestUnresolvedSymbol(t *testing.T) {
	res := check(t, options.Default(), "U.java", `class U {
	void f() { }
}`)
	info := checker.NewInfo()
	_, err := New(res.table, info).Emit(res.method(t, "f"))
	require.ErrorIs(t, err, errors.ErrUnresolvedSymbol)
}

type recorder struct {
	instructions int
	regions      int
	ended        int
}

func (r *recorder) Instruction(bytecode.Instruction)                 { r.instructions++ }
func (r *recorder) LocalStart(slot int, name, desc string, offset int) {}
func (r *recorder) LocalEnd(slot, offset int)                        {}
func (r *recorder) ExceptionRegion(bytecode.ExceptionEntry)          { r.regions++ }
func (r *recorder) MethodEnd(length int)                             { r.ended = length }

func TestObserver(t *testing.T) {
	res := check(t, options.Default(), "O.java", `class O {
	void f(O o) {
		try { o.toString(); } catch (Exception e) { }
	}
}`)
	rec := &recorder{}
	var names []string
	c := New(res.table, res.info, WithObserver(func(method string) Observer {
		names = append(names, method)
		return rec
	}))
	m, err := c.Emit(res.method(t, "f"))
	require.NoError(t, err)
	require.Equal(t, []string{"O.f"}, names)
	require.Equal(t, m.InstructionCount(), rec.instructions)
	require.Equal(t, 1, rec.regions)
	require.Equal(t, m.Length(), rec.ended)
}
