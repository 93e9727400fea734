package ast

import (
	"strconv"
)

// LiteralKind identifies the type of a literal.
type LiteralKind uint8

const (
	IntLit LiteralKind = iota + 1
	LongLit
	FloatLit
	DoubleLit
	CharLit
	StringLit
	BoolLit
	NullLit
)

var literalKindNames = map[LiteralKind]string{
	IntLit:    "int",
	LongLit:   "long",
	FloatLit:  "float",
	DoubleLit: "double",
	CharLit:   "char",
	StringLit: "String",
	BoolLit:   "boolean",
	NullLit:   "null",
}

func (k LiteralKind) String() string {
	return literalKindNames[k]
}

// Literal is a constant written in source. Exactly one of the value fields
// is meaningful, according to Kind: Int for int, long and char literals,
// Float for float and double, Str for strings and Bool for booleans.
type Literal struct {
	ValuePos Position
	Kind     LiteralKind
	Raw      string // the literal text as written, if known
	Int      int64
	Float    float64
	Str      string
	Bool     bool
}

func (x *Literal) exprNode() {}

func (x *Literal) Pos() Position { return x.ValuePos }
func (x *Literal) End() Position { return x.ValuePos.Advance(len(x.String())) }

func (x *Literal) String() string {
	if x.Raw != "" {
		return x.Raw
	}
	switch x.Kind {
	case IntLit:
		return strconv.FormatInt(x.Int, 10)
	case LongLit:
		return strconv.FormatInt(x.Int, 10) + "L"
	case FloatLit:
		return strconv.FormatFloat(x.Float, 'g', -1, 32) + "f"
	case DoubleLit:
		s := strconv.FormatFloat(x.Float, 'g', -1, 64)
		if _, err := strconv.Atoi(s); err == nil {
			s += ".0"
		}
		return s
	case CharLit:
		return strconv.QuoteRune(rune(x.Int))
	case StringLit:
		return strconv.Quote(x.Str)
	case BoolLit:
		return strconv.FormatBool(x.Bool)
	case NullLit:
		return "null"
	}
	return "<literal>"
}

// Int returns an int literal.
func Int(v int64, pos Position) *Literal {
	return &Literal{Kind: IntLit, Int: v, ValuePos: pos}
}

// Long returns a long literal.
func Long(v int64, pos Position) *Literal {
	return &Literal{Kind: LongLit, Int: v, ValuePos: pos}
}

// Double returns a double literal.
func Double(v float64, pos Position) *Literal {
	return &Literal{Kind: DoubleLit, Float: v, ValuePos: pos}
}

// Str returns a string literal.
func Str(s string, pos Position) *Literal {
	return &Literal{Kind: StringLit, Str: s, ValuePos: pos}
}

// Bool returns a boolean literal.
func Bool(b bool, pos Position) *Literal {
	return &Literal{Kind: BoolLit, Bool: b, ValuePos: pos}
}

// Null returns the null literal.
func Null(pos Position) *Literal {
	return &Literal{Kind: NullLit, ValuePos: pos}
}
