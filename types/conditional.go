package types

import (
	"fmt"

	"github.com/deepnoodle-ai/jcore/errors"
)

// Operand is a conditional branch: its static type and, for integral
// constant expressions, the constant value.
type Operand struct {
	Type        Type
	Constant    int64
	HasConstant bool
}

// Const returns an operand of type t holding constant value v.
func Const(t Type, v int64) Operand {
	return Operand{Type: t, Constant: v, HasConstant: true}
}

// MismatchError reports two conditional operands without a common type.
type MismatchError struct {
	Then Type
	Else Type
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("Incompatible conditional operand types %s and %s", ShortString(e.Then), ShortString(e.Else))
}

func (e *MismatchError) Unwrap() error {
	return errors.ErrTypeMismatch
}

// ResolveConditional computes the type of cond ? then : else with the
// default resolver.
func ResolveConditional(then, els Type) (Type, error) {
	return Default.ResolveConditional(then, els)
}

// ResolveConditional computes the type of a conditional expression whose
// branches have the given types.
func (r *Resolver) ResolveConditional(then, els Type) (Type, error) {
	return r.ResolveConditionalOperands(Operand{Type: then}, Operand{Type: els})
}

// ResolveConditionalOperands computes the type of a conditional expression.
// Branch constants allow an int constant to take the type of a narrower
// byte, short or char branch when the value is representable in it.
//
// An erroneous branch yields Erroneous without error so that no cascading
// mismatch is reported.
func (r *Resolver) ResolveConditionalOperands(then, els Operand) (Type, error) {
	t, f := then.Type, els.Type
	if IsErroneous(t) || IsErroneous(f) {
		return Erroneous, nil
	}
	mismatch := &MismatchError{Then: t, Else: f}
	if IsVoid(t) || IsVoid(f) {
		return nil, mismatch
	}
	if Identical(t, f) {
		return t, nil
	}

	if t.Kind() == KindNull || f.Kind() == KindNull {
		other := t
		if t.Kind() == KindNull {
			other = f
		}
		if IsPrimitive(other) {
			return nil, mismatch
		}
		return other, nil
	}

	if r.boxing {
		t, f = r.unboxOperands(t, f)
		if Identical(t, f) {
			return t, nil
		}
	}

	if IsPrimitive(t) && IsPrimitive(f) {
		tp, fp := t.(Primitive), f.(Primitive)
		if tp.IsNumeric() && fp.IsNumeric() {
			return promoteConditional(tp, fp, then, els), nil
		}
		if !r.boxing {
			return nil, mismatch
		}
	}

	if IsPrimitive(t) || IsPrimitive(f) {
		if !r.boxing {
			return nil, mismatch
		}
		t, f = Box(t), Box(f)
	}

	if !r.boxing {
		switch {
		case r.IsSubtype(f, t):
			return t, nil
		case r.IsSubtype(t, f):
			return f, nil
		}
		return nil, mismatch
	}
	return Capture(r.LUB(t, f)), nil
}

// unboxOperands applies the unboxing step: a box paired with its own
// primitive or with a numeric primitive is unboxed, and two numeric boxes
// are both unboxed.
func (r *Resolver) unboxOperands(t, f Type) (Type, Type) {
	tp, tPrim := t.(Primitive)
	fp, fPrim := f.(Primitive)
	switch {
	case tPrim && !fPrim:
		if u, ok := Unbox(f); ok && (u.Prim == tp.Prim || (u.IsNumeric() && tp.IsNumeric())) {
			return t, u
		}
	case fPrim && !tPrim:
		if u, ok := Unbox(t); ok && (u.Prim == fp.Prim || (u.IsNumeric() && fp.IsNumeric())) {
			return u, f
		}
	case !tPrim && !fPrim:
		ut, okt := Unbox(t)
		uf, okf := Unbox(f)
		if okt && okf && ut.IsNumeric() && uf.IsNumeric() {
			return ut, uf
		}
	}
	return t, f
}

func promoteConditional(t, f Primitive, then, els Operand) Type {
	if (t.Prim == PrimByte && f.Prim == PrimShort) || (t.Prim == PrimShort && f.Prim == PrimByte) {
		return Short
	}
	if narrowable(t) && f.Prim == PrimInt && els.HasConstant && Representable(els.Constant, t) {
		return t
	}
	if narrowable(f) && t.Prim == PrimInt && then.HasConstant && Representable(then.Constant, f) {
		return f
	}
	return Promote(t, f)
}

func narrowable(p Primitive) bool {
	return p.Prim == PrimByte || p.Prim == PrimShort || p.Prim == PrimChar
}

// Promote applies binary numeric promotion to two numeric primitives.
func Promote(a, b Primitive) Primitive {
	switch {
	case a.Prim == PrimDouble || b.Prim == PrimDouble:
		return Double
	case a.Prim == PrimFloat || b.Prim == PrimFloat:
		return Float
	case a.Prim == PrimLong || b.Prim == PrimLong:
		return Long
	}
	return Int
}

// Representable reports whether an integral constant fits the range of p.
func Representable(v int64, p Primitive) bool {
	switch p.Prim {
	case PrimByte:
		return v >= -128 && v <= 127
	case PrimShort:
		return v >= -32768 && v <= 32767
	case PrimChar:
		return v >= 0 && v <= 65535
	case PrimInt:
		return v >= -1<<31 && v <= 1<<31-1
	case PrimLong, PrimFloat, PrimDouble:
		return true
	}
	return false
}
