package ast

import (
	"strings"
)

// Conditional is a cond ? then : else expression.
type Conditional struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (x *Conditional) exprNode() {}

func (x *Conditional) Pos() Position { return x.Cond.Pos() }
func (x *Conditional) End() Position { return x.Else.End() }

func (x *Conditional) String() string {
	return x.Cond.String() + " ? " + x.Then.String() + " : " + x.Else.String()
}

// This is the this expression.
type This struct {
	ThisPos Position
}

func (x *This) exprNode() {}

func (x *This) Pos() Position  { return x.ThisPos }
func (x *This) End() Position  { return x.ThisPos.Advance(4) }
func (x *This) String() string { return "this" }

// Local is a reference to a local variable or parameter.
type Local struct {
	Name *Ident
}

func (x *Local) exprNode() {}

func (x *Local) Pos() Position  { return x.Name.Pos() }
func (x *Local) End() Position  { return x.Name.End() }
func (x *Local) String() string { return x.Name.Name }

// FieldAccess reads a field. Target is the receiver expression; Owner
// qualifies a static field by type; with neither the field belongs to the
// enclosing class.
type FieldAccess struct {
	Target Expr
	Owner  *TypeRef
	Name   *Ident
}

func (x *FieldAccess) exprNode() {}

func (x *FieldAccess) Pos() Position {
	switch {
	case x.Target != nil:
		return x.Target.Pos()
	case x.Owner != nil:
		return x.Owner.Pos()
	}
	return x.Name.Pos()
}

func (x *FieldAccess) End() Position { return x.Name.End() }

func (x *FieldAccess) String() string {
	switch {
	case x.Target != nil:
		return x.Target.String() + "." + x.Name.Name
	case x.Owner != nil:
		return x.Owner.String() + "." + x.Name.Name
	}
	return x.Name.Name
}

// MethodCall invokes a method. Target and Owner follow FieldAccess.
type MethodCall struct {
	Target Expr
	Owner  *TypeRef
	Name   *Ident
	Args   []Expr
	Rparen Position
}

func (x *MethodCall) exprNode() {}

func (x *MethodCall) Pos() Position {
	switch {
	case x.Target != nil:
		return x.Target.Pos()
	case x.Owner != nil:
		return x.Owner.Pos()
	}
	return x.Name.Pos()
}

func (x *MethodCall) End() Position {
	if x.Rparen.IsValid() {
		return x.Rparen.Advance(1)
	}
	return x.Name.End().Advance(2)
}

func (x *MethodCall) String() string {
	var b strings.Builder
	switch {
	case x.Target != nil:
		b.WriteString(x.Target.String() + ".")
	case x.Owner != nil:
		b.WriteString(x.Owner.String() + ".")
	}
	b.WriteString(x.Name.Name)
	b.WriteString("(" + joinExprs(x.Args) + ")")
	return b.String()
}

// New is a class instance creation expression.
type New struct {
	NewPos Position
	Type   *TypeRef
	Args   []Expr
	Rparen Position
}

func (x *New) exprNode() {}

func (x *New) Pos() Position { return x.NewPos }

func (x *New) End() Position {
	if x.Rparen.IsValid() {
		return x.Rparen.Advance(1)
	}
	return x.Type.End().Advance(2)
}

func (x *New) String() string {
	return "new " + x.Type.String() + "(" + joinExprs(x.Args) + ")"
}

// Cast converts X to Type.
type Cast struct {
	Lparen Position
	Type   *TypeRef
	X      Expr
}

func (x *Cast) exprNode() {}

func (x *Cast) Pos() Position  { return x.Lparen }
func (x *Cast) End() Position  { return x.X.End() }
func (x *Cast) String() string { return "(" + x.Type.String() + ") " + x.X.String() }

// Assign stores Value into a local variable or field.
type Assign struct {
	Target Expr
	Value  Expr
}

func (x *Assign) exprNode() {}

func (x *Assign) Pos() Position  { return x.Target.Pos() }
func (x *Assign) End() Position  { return x.Value.End() }
func (x *Assign) String() string { return x.Target.String() + " = " + x.Value.String() }

func joinExprs(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
