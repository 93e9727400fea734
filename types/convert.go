package types

// Conversion classifies how a value of one type becomes a value of another.
type Conversion uint8

const (
	Invalid Conversion = iota
	Identity
	WideningPrimitive
	NarrowingPrimitive
	WideningReference
	NarrowingReference
	Boxing
	Unboxing
	// BoxingWidening boxes, then widens the box to a supertype, as in
	// int to Number.
	BoxingWidening
	// UnboxingWidening unboxes, then widens the primitive, as in Integer
	// to long.
	UnboxingWidening
)

var conversionNames = [...]string{
	Invalid:            "invalid",
	Identity:           "identity",
	WideningPrimitive:  "widening primitive",
	NarrowingPrimitive: "narrowing primitive",
	WideningReference:  "widening reference",
	NarrowingReference: "narrowing reference",
	Boxing:             "boxing",
	Unboxing:           "unboxing",
	BoxingWidening:     "boxing then widening",
	UnboxingWidening:   "unboxing then widening",
}

func (c Conversion) String() string {
	if int(c) < len(conversionNames) {
		return conversionNames[c]
	}
	return "invalid"
}

// widensTo lists the targets of widening primitive conversion.
var widensTo = map[PrimitiveKind][]PrimitiveKind{
	PrimByte:  {PrimShort, PrimInt, PrimLong, PrimFloat, PrimDouble},
	PrimShort: {PrimInt, PrimLong, PrimFloat, PrimDouble},
	PrimChar:  {PrimInt, PrimLong, PrimFloat, PrimDouble},
	PrimInt:   {PrimLong, PrimFloat, PrimDouble},
	PrimLong:  {PrimFloat, PrimDouble},
	PrimFloat: {PrimDouble},
}

// Widens reports whether from converts to to by widening primitive
// conversion.
func Widens(from, to Primitive) bool {
	for _, k := range widensTo[from.Prim] {
		if k == to.Prim {
			return true
		}
	}
	return false
}

// Classify returns the conversion from one type to another, as a cast
// would perform it. Boxing conversions are Invalid when the resolver has
// boxing disabled.
func (r *Resolver) Classify(from, to Type) Conversion {
	if Identical(from, to) {
		return Identity
	}
	fp, fPrim := from.(Primitive)
	tp, tPrim := to.(Primitive)
	switch {
	case fPrim && tPrim:
		if !fp.IsNumeric() || !tp.IsNumeric() {
			return Invalid
		}
		if Widens(fp, tp) {
			return WideningPrimitive
		}
		return NarrowingPrimitive
	case fPrim:
		if !r.boxing || IsVoid(fp) {
			return Invalid
		}
		box := Box(fp)
		if Identical(box, to) {
			return Boxing
		}
		if r.IsSubtype(box, to) {
			return BoxingWidening
		}
		return Invalid
	case tPrim:
		if !r.boxing {
			return Invalid
		}
		u, ok := Unbox(from)
		if !ok {
			// Object and the box supertypes unbox through a cast.
			if r.IsSubtype(Box(tp), from) {
				return NarrowingReference
			}
			return Invalid
		}
		if u.Prim == tp.Prim {
			return Unboxing
		}
		if Widens(u, tp) {
			return UnboxingWidening
		}
		return Invalid
	}
	if r.IsSubtype(from, to) {
		return WideningReference
	}
	if r.IsSubtype(to, from) || r.hierarchy.IsInterface(Erasure(to).String()) ||
		r.hierarchy.IsInterface(Erasure(from).String()) {
		return NarrowingReference
	}
	return Invalid
}

// Assignable reports whether the operand may be assigned to a variable of
// type to. Integral constants narrow to byte, short and char, or their
// boxes, when representable.
func (r *Resolver) Assignable(op Operand, to Type) bool {
	if IsErroneous(op.Type) || IsErroneous(to) {
		return true
	}
	switch r.Classify(op.Type, to) {
	case Identity, WideningPrimitive, WideningReference, Boxing, BoxingWidening, Unboxing, UnboxingWidening:
		return true
	case NarrowingPrimitive:
		return constantNarrows(op, to)
	}
	if u, ok := Unbox(to); ok && r.boxing && op.HasConstant {
		return constantNarrows(op, u)
	}
	return false
}

func constantNarrows(op Operand, to Type) bool {
	fp, ok := op.Type.(Primitive)
	if !ok || !op.HasConstant {
		return false
	}
	tp, ok := to.(Primitive)
	if !ok || !narrowable(tp) {
		return false
	}
	switch fp.Prim {
	case PrimByte, PrimShort, PrimChar, PrimInt:
		return Representable(op.Constant, tp)
	}
	return false
}
