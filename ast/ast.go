// Package ast defines the syntax tree of the Java subset the compiler
// core accepts.
//
// Trees are built by the parser and are never modified afterwards.
// Resolved types are recorded by the checker outside the tree.
package ast

import "fmt"

// Position is a 1-based line and column in a compilation unit.
type Position struct {
	Line   int
	Column int
}

// IsValid reports whether the position was set.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Advance returns the position n columns to the right.
func (p Position) Advance(n int) Position {
	return Position{Line: p.Line, Column: p.Column + n}
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node represents a portion of the syntax tree. All nodes have position
// information indicating where they appear in the source code.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() Position

	// End returns the position of the first character immediately after the node.
	End() Position

	// String returns a human friendly representation of the Node. This should
	// be similar to the original source code, but not necessarily identical.
	String() string
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression node.
type Expr interface {
	Node
	exprNode()
}

// Ident is a simple name with its position.
type Ident struct {
	NamePos Position
	Name    string
}

func (x *Ident) Pos() Position  { return x.NamePos }
func (x *Ident) End() Position  { return x.NamePos.Advance(len(x.Name)) }
func (x *Ident) String() string { return x.Name }

// NewIdent returns an identifier at the given position.
func NewIdent(name string, line, column int) *Ident {
	return &Ident{Name: name, NamePos: Position{Line: line, Column: column}}
}

// Deprecation is a @Deprecated annotation.
type Deprecation struct {
	Since      string
	ForRemoval bool
}
