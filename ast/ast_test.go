package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func pos(line, col int) Position {
	return Position{Line: line, Column: col}
}

func TestTypeRef(t *testing.T) {
	ref := NewTypeRef("N1.N2.N3", 4, 10)
	require.Equal(t, "N1.N2.N3", ref.Name())
	require.Len(t, ref.Segments, 3)
	require.Equal(t, pos(4, 13), ref.Segments[1].Pos())
	require.Equal(t, pos(4, 16), ref.Segments[2].Pos())
	require.Equal(t, pos(4, 10), ref.Pos())
	require.Equal(t, pos(4, 18), ref.End())

	arr := NewTypeRef("String", 1, 1)
	arr.Dims = 1
	require.Equal(t, "String[]", arr.String())
	require.Equal(t, pos(1, 9), arr.End())
	require.Equal(t, 0, arr.ElementRef().Dims)
	require.Equal(t, 1, arr.Dims)

	list := NewTypeRef("List", 1, 1)
	list.Args = []*TypeRef{{Wildcard: Unbounded}, {Wildcard: Extends, Segments: NewTypeRef("Number", 1, 16).Segments}}
	require.Equal(t, "List<?, ? extends Number>", list.String())
}

func TestLiteralString(t *testing.T) {
	tests := []struct {
		lit  *Literal
		want string
	}{
		{Int(42, pos(1, 1)), "42"},
		{Long(7, pos(1, 1)), "7L"},
		{Double(2, pos(1, 1)), "2.0"},
		{Double(2.5, pos(1, 1)), "2.5"},
		{Str("SUCCESS", pos(1, 1)), `"SUCCESS"`},
		{Bool(true, pos(1, 1)), "true"},
		{Null(pos(1, 1)), "null"},
		{&Literal{Kind: CharLit, Int: 'a'}, "'a'"},
		{&Literal{Kind: IntLit, Int: 16, Raw: "0x10"}, "0x10"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, tt.lit.String())
		})
	}
	require.Equal(t, pos(1, 10), Str("abc", pos(1, 5)).End())
}

func TestExpressionPositions(t *testing.T) {
	// System.out.println("x");
	call := &MethodCall{
		Target: &FieldAccess{
			Owner: NewTypeRef("System", 3, 9),
			Name:  NewIdent("out", 3, 16),
		},
		Name:   NewIdent("println", 3, 20),
		Args:   []Expr{Str("x", pos(3, 28))},
		Rparen: pos(3, 31),
	}
	require.Equal(t, pos(3, 9), call.Pos())
	require.Equal(t, pos(3, 32), call.End())
	require.Equal(t, `System.out.println("x")`, call.String())

	n := &New{NewPos: pos(5, 3), Type: NewTypeRef("X", 5, 7), Rparen: pos(5, 9)}
	require.Equal(t, "new X()", n.String())
	require.Equal(t, pos(5, 10), n.End())

	cond := &Conditional{
		Cond: &Local{Name: NewIdent("isA", 2, 10)},
		Then: Str("SUCCESS", pos(2, 16)),
		Else: Str("FAILURE", pos(2, 28)),
	}
	require.Equal(t, `isA ? "SUCCESS" : "FAILURE"`, cond.String())
	require.Equal(t, pos(2, 10), cond.Pos())
	require.Equal(t, pos(2, 37), cond.End())
}

func TestStatementString(t *testing.T) {
	body := &Block{
		Lbrace: pos(1, 1),
		Stmts: []Stmt{
			&LocalDecl{Type: NewTypeRef("int", 2, 3), Name: NewIdent("x", 2, 7), Value: Int(5, pos(2, 11))},
			&Try{
				TryPos: pos(3, 3),
				Body:   &Block{Lbrace: pos(3, 7), Rbrace: pos(3, 8)},
				Catches: []*Catch{{
					CatchPos: pos(3, 10),
					Type:     NewTypeRef("Exception", 3, 17),
					Name:     NewIdent("e", 3, 27),
					Body:     &Block{Lbrace: pos(3, 30), Rbrace: pos(3, 31)},
				}},
			},
			&Return{ReturnPos: pos(4, 3)},
		},
		Rbrace: pos(5, 1),
	}
	require.Equal(t, "{\n\tint x = 5;\n\ttry {\n\t} catch (Exception e) {\n\t}\n\treturn;\n}", body.String())
	require.Equal(t, pos(5, 2), body.End())
	require.Equal(t, pos(3, 32), body.Stmts[1].End())
}

func TestUnitLine(t *testing.T) {
	unit := &Unit{Name: "p/X.java", Source: "package p;\r\nclass X {}\n"}
	require.Equal(t, "package p;", unit.Line(1))
	require.Equal(t, "class X {}", unit.Line(2))
	require.Equal(t, "", unit.Line(0))
	require.Equal(t, "", unit.Line(9))
	require.False(t, unit.IsPackageInfo())
	require.True(t, (&Unit{Name: "p/package-info.java"}).IsPackageInfo())
}

func TestMethodDeclSignatureEnd(t *testing.T) {
	m := &MethodDecl{
		Name:   NewIdent("foo", 7, 14),
		Rparen: pos(7, 18),
		Body:   &Block{Lbrace: pos(7, 20), Rbrace: pos(9, 2)},
	}
	require.Equal(t, pos(7, 19), m.SignatureEnd())
	require.Equal(t, pos(9, 3), m.End())
	require.Equal(t, "void foo() {\n}", m.String())
}

func TestWalk(t *testing.T) {
	unit := &Unit{
		Name: "X.java",
		Types: []*TypeDecl{{
			Name: NewIdent("X", 1, 7),
			Fields: []*FieldDecl{{
				Type:   NewTypeRef("int", 2, 2),
				Names:  []*Ident{NewIdent("x", 2, 6), NewIdent("y", 2, 13)},
				Values: []Expr{Int(5, pos(2, 10)), Int(10, pos(2, 17))},
			}},
			Methods: []*MethodDecl{{
				Name: NewIdent("m", 3, 7),
				Body: &Block{Stmts: []Stmt{
					&ExprStmt{X: &Conditional{
						Cond: &Local{Name: NewIdent("b", 4, 3)},
						Then: Int(1, pos(4, 7)),
						Else: &Cast{Type: NewTypeRef("int", 4, 12), X: Long(2, pos(4, 16))},
					}},
				}},
			}},
		}},
	}

	var visited []string
	Inspect(unit, func(n Node) bool {
		switch node := n.(type) {
		case *Unit:
			visited = append(visited, "Unit")
		case *TypeDecl:
			visited = append(visited, "Type:"+node.Name.Name)
		case *FieldDecl:
			visited = append(visited, "Field")
		case *MethodDecl:
			visited = append(visited, "Method:"+node.Name.Name)
		case *Block:
			visited = append(visited, "Block")
		case *ExprStmt:
			visited = append(visited, "ExprStmt")
		case *Conditional:
			visited = append(visited, "Conditional")
		case *Local:
			visited = append(visited, "Local:"+node.Name.Name)
		case *Cast:
			visited = append(visited, "Cast")
		case *Literal:
			visited = append(visited, "Literal:"+node.String())
		}
		return true
	})
	require.Equal(t, []string{
		"Unit", "Type:X", "Field", "Literal:5", "Literal:10",
		"Method:m", "Block", "ExprStmt", "Conditional", "Local:b",
		"Literal:1", "Cast", "Literal:2L",
	}, visited)
}

func TestInspectPrune(t *testing.T) {
	expr := &MethodCall{
		Name: NewIdent("f", 1, 1),
		Args: []Expr{
			&Conditional{Cond: Bool(true, pos(1, 3)), Then: Int(1, pos(1, 10)), Else: Int(2, pos(1, 14))},
			Int(3, pos(1, 17)),
		},
	}
	var count int
	Inspect(expr, func(n Node) bool {
		count++
		_, isCond := n.(*Conditional)
		return !isCond
	})
	require.Equal(t, 3, count)
}
