package debuginfo

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/jcore/bytecode"
	"github.com/deepnoodle-ai/jcore/errors"
	"github.com/deepnoodle-ai/jcore/op"
)

func emit(s *Synthesizer, offset int, code op.Code, line int) int {
	in := bytecode.Instruction{Offset: offset, Op: code, Line: line}
	s.Instruction(in)
	return in.End()
}

func TestLineTransitions(t *testing.T) {
	s := New("X.foo")
	pc := 0
	pc = emit(s, pc, op.Getstatic, 4) // 0
	pc = emit(s, pc, op.Ldc, 4)       // 3
	pc = emit(s, pc, op.Invokevirtual, 4)
	pc = emit(s, pc, op.Iconst0, 5) // 8
	pc = emit(s, pc, op.Istore1, 0) // 9, no line of its own
	pc = emit(s, pc, op.Return, 6)  // 10
	s.MethodEnd(pc)

	tables, err := s.Finalize()
	require.Nil(t, err)
	require.Equal(t, []bytecode.LineEntry{
		{Offset: 0, Line: 4},
		{Offset: 8, Line: 5},
		{Offset: 10, Line: 6},
	}, tables.Lines)
}

func TestLineReturnsToEarlierLine(t *testing.T) {
	s := New("X.foo")
	pc := 0
	pc = emit(s, pc, op.Iload0, 3)
	pc = emit(s, pc, op.Ifeq, 3)
	pc = emit(s, pc, op.Iconst1, 4)
	pc = emit(s, pc, op.Ireturn, 3)
	s.MethodEnd(pc)

	tables, err := s.Finalize()
	require.Nil(t, err)
	require.Len(t, tables.Lines, 3)
	require.Equal(t, bytecode.LineEntry{Offset: 5, Line: 3}, tables.Lines[2])
}

func TestLocalScopes(t *testing.T) {
	s := New("X.foo")
	pc := 0
	s.LocalStart(0, "bool", "Z", 0)
	pc = emit(s, pc, op.Iconst5, 3)
	pc = emit(s, pc, op.Istore1, 3)
	s.LocalStart(1, "x", "I", pc)
	pc = emit(s, pc, op.Iload1, 4)
	pc = emit(s, pc, op.Istore2, 4)
	s.LocalStart(2, "y", "I", pc)
	pc = emit(s, pc, op.Nop, 5)
	s.LocalEnd(2, pc)
	// Slot 2 reused by a later variable; the previous entry is closed
	s.LocalStart(2, "z", "I", pc)
	s.LocalStart(2, "w", "I", pc+1)
	pc = emit(s, pc, op.Iconst0, 6)
	pc = emit(s, pc, op.Ireturn, 6)
	s.MethodEnd(pc)

	tables, err := s.Finalize()
	require.Nil(t, err)
	require.Equal(t, []bytecode.LocalEntry{
		{Slot: 0, Name: "bool", Descriptor: "Z", Start: 0, End: 7},
		{Slot: 1, Name: "x", Descriptor: "I", Start: 2, End: 7},
		{Slot: 2, Name: "y", Descriptor: "I", Start: 4, End: 5},
		{Slot: 2, Name: "z", Descriptor: "I", Start: 5, End: 6},
		{Slot: 2, Name: "w", Descriptor: "I", Start: 6, End: 7},
	}, tables.Locals)
}

func TestEmptyLocalRangeDropped(t *testing.T) {
	s := New("X.foo")
	s.LocalStart(1, "e", "Ljava/lang/Exception;", 3)
	s.LocalEnd(1, 3)
	pc := emit(s, 0, op.Goto, 2)
	pc = emit(s, pc, op.Return, 3)
	s.MethodEnd(pc)

	tables, err := s.Finalize()
	require.Nil(t, err)
	require.Empty(t, tables.Locals)
}

func TestExceptionRegions(t *testing.T) {
	s := New("X.foo")
	pc := 0
	pc = emit(s, pc, op.Aload0, 4)   // 0
	pc = emit(s, pc, op.Getfield, 4) // 1
	pc = emit(s, pc, op.Pop, 4)      // 4
	pc = emit(s, pc, op.Goto, 4)     // 5
	pc = emit(s, pc, op.Astore1, 5)  // 8
	pc = emit(s, pc, op.Return, 7)   // 9
	s.ExceptionRegion(bytecode.ExceptionEntry{Start: 0, End: 5, Handler: 8, CatchType: "java.lang.Exception"})
	s.MethodEnd(pc)

	tables, err := s.Finalize()
	require.Nil(t, err)
	require.Equal(t, []bytecode.ExceptionEntry{
		{Start: 0, End: 5, Handler: 8, CatchType: "java.lang.Exception"},
	}, tables.Exceptions)
}

func TestFinalizeValidation(t *testing.T) {
	s := New("X.broken")
	pc := emit(s, 0, op.Getstatic, 3)
	pc = emit(s, pc, op.Return, 4)
	s.ExceptionRegion(bytecode.ExceptionEntry{Start: 0, End: 0, Handler: 1})
	s.ExceptionRegion(bytecode.ExceptionEntry{Start: 0, End: 9, Handler: 3})
	s.LocalStart(1, "a", "I", 1)
	s.LocalEnd(1, 4)
	s.MethodEnd(pc)

	_, err := s.Finalize()
	require.Error(t, err)
	require.True(t, stderrors.Is(err, errors.ErrInternal))

	var internal *errors.InternalError
	require.True(t, stderrors.As(err, &internal))
	require.Equal(t, "X.broken", internal.Method)
	require.Equal(t, "invalid debug metadata", internal.Message)
	require.Contains(t, err.Error(), "exception range [pc: 0, pc: 0] is empty")
	require.Contains(t, err.Error(), "exception handler at pc 1 is not an instruction boundary")
	require.Contains(t, err.Error(), "past the end of the method (4)")
	require.Contains(t, err.Error(), "local a [pc: 1, pc: 4] is not on instruction boundaries")
}

func TestFinalizeRequiresMethodEnd(t *testing.T) {
	s := New("X.foo")
	emit(s, 0, op.Return, 1)
	_, err := s.Finalize()
	require.Error(t, err)
	require.Contains(t, err.Error(), "method end was not reported")
}
