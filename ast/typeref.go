package ast

import (
	"strings"
)

// WildcardKind distinguishes type argument wildcards.
type WildcardKind uint8

const (
	NoWildcard WildcardKind = iota
	Unbounded
	Extends
	Super
)

// TypeRef is a type as written in source: a possibly qualified name, one
// identifier per segment, with type arguments and array dimensions. Every
// segment keeps its own position so that each hop of a qualified name can
// be reported individually.
type TypeRef struct {
	Segments []*Ident
	Args     []*TypeRef
	Dims     int

	// Wildcard marks a type argument; the segments hold the bound unless it
	// is Unbounded.
	Wildcard WildcardKind
	// QuestionPos is the position of the ? of a wildcard argument.
	QuestionPos Position

	// EndPos, when set, is the position after the closing > or ].
	EndPos Position
}

// NewTypeRef builds a reference from a dotted name starting at the given
// position, assuming the name is written without spaces.
func NewTypeRef(name string, line, column int) *TypeRef {
	ref := &TypeRef{}
	col := column
	for _, part := range strings.Split(name, ".") {
		ref.Segments = append(ref.Segments, NewIdent(part, line, col))
		col += len(part) + 1
	}
	return ref
}

// Name returns the dotted name.
func (t *TypeRef) Name() string {
	parts := make([]string, len(t.Segments))
	for i, s := range t.Segments {
		parts[i] = s.Name
	}
	return strings.Join(parts, ".")
}

func (t *TypeRef) Pos() Position {
	if t.Wildcard != NoWildcard && t.QuestionPos.IsValid() {
		return t.QuestionPos
	}
	if len(t.Segments) == 0 {
		return Position{}
	}
	return t.Segments[0].Pos()
}

func (t *TypeRef) End() Position {
	if t.EndPos.IsValid() {
		return t.EndPos
	}
	if len(t.Segments) == 0 {
		return t.QuestionPos.Advance(1)
	}
	return t.Segments[len(t.Segments)-1].End().Advance(2 * t.Dims)
}

func (t *TypeRef) String() string {
	var b strings.Builder
	switch t.Wildcard {
	case Unbounded:
		return "?"
	case Extends:
		b.WriteString("? extends ")
	case Super:
		b.WriteString("? super ")
	}
	b.WriteString(t.Name())
	if len(t.Args) > 0 {
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = a.String()
		}
		b.WriteString("<" + strings.Join(args, ", ") + ">")
	}
	b.WriteString(strings.Repeat("[]", t.Dims))
	return b.String()
}

// ElementRef returns the reference without its array dimensions.
func (t *TypeRef) ElementRef() *TypeRef {
	if t.Dims == 0 {
		return t
	}
	c := *t
	c.Dims = 0
	c.EndPos = Position{}
	return &c
}
