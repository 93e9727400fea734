package ast

import (
	"strings"
)

// Block is a braced statement list. It delimits the scope of the locals it
// declares.
type Block struct {
	Lbrace Position
	Stmts  []Stmt
	Rbrace Position
}

func (s *Block) stmtNode() {}

func (s *Block) Pos() Position { return s.Lbrace }
func (s *Block) End() Position { return s.Rbrace.Advance(1) }

func (s *Block) String() string {
	var b strings.Builder
	b.WriteString("{\n")
	for _, stmt := range s.Stmts {
		b.WriteString("\t" + strings.ReplaceAll(stmt.String(), "\n", "\n\t") + "\n")
	}
	b.WriteString("}")
	return b.String()
}

// LocalDecl declares a local variable with an optional initializer.
type LocalDecl struct {
	Type  *TypeRef
	Name  *Ident
	Value Expr
}

func (s *LocalDecl) stmtNode() {}

func (s *LocalDecl) Pos() Position { return s.Type.Pos() }

func (s *LocalDecl) End() Position {
	if s.Value != nil {
		return s.Value.End().Advance(1)
	}
	return s.Name.End().Advance(1)
}

func (s *LocalDecl) String() string {
	out := s.Type.String() + " " + s.Name.Name
	if s.Value != nil {
		out += " = " + s.Value.String()
	}
	return out + ";"
}

// ExprStmt evaluates an expression for its side effects and discards the
// value.
type ExprStmt struct {
	X Expr
}

func (s *ExprStmt) stmtNode() {}

func (s *ExprStmt) Pos() Position  { return s.X.Pos() }
func (s *ExprStmt) End() Position  { return s.X.End().Advance(1) }
func (s *ExprStmt) String() string { return s.X.String() + ";" }

// Catch is a catch clause of a try statement.
type Catch struct {
	CatchPos Position
	Type     *TypeRef
	Name     *Ident
	Body     *Block
}

func (c *Catch) Pos() Position { return c.CatchPos }
func (c *Catch) End() Position { return c.Body.End() }

func (c *Catch) String() string {
	return "catch (" + c.Type.String() + " " + c.Name.Name + ") " + c.Body.String()
}

// Try is a try statement with one or more catch clauses.
type Try struct {
	TryPos  Position
	Body    *Block
	Catches []*Catch
}

func (s *Try) stmtNode() {}

func (s *Try) Pos() Position { return s.TryPos }

func (s *Try) End() Position {
	if len(s.Catches) > 0 {
		return s.Catches[len(s.Catches)-1].End()
	}
	return s.Body.End()
}

func (s *Try) String() string {
	var b strings.Builder
	b.WriteString("try " + s.Body.String())
	for _, c := range s.Catches {
		b.WriteString(" " + c.String())
	}
	return b.String()
}

// Return returns from the method, with a value unless the method is void.
type Return struct {
	ReturnPos Position
	Value     Expr
}

func (s *Return) stmtNode() {}

func (s *Return) Pos() Position { return s.ReturnPos }

func (s *Return) End() Position {
	if s.Value != nil {
		return s.Value.End().Advance(1)
	}
	return s.ReturnPos.Advance(len("return;"))
}

func (s *Return) String() string {
	if s.Value == nil {
		return "return;"
	}
	return "return " + s.Value.String() + ";"
}

// Throw throws the value of an expression.
type Throw struct {
	ThrowPos Position
	Value    Expr
}

func (s *Throw) stmtNode() {}

func (s *Throw) Pos() Position  { return s.ThrowPos }
func (s *Throw) End() Position  { return s.Value.End().Advance(1) }
func (s *Throw) String() string { return "throw " + s.Value.String() + ";" }
