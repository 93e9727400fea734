package parser

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/jcore/ast"
	"github.com/deepnoodle-ai/jcore/errors"
)

func parseUnit(t *testing.T, src string) *ast.Unit {
	t.Helper()
	unit, err := Parse(context.Background(), "p/X.java", src)
	require.NoError(t, err)
	require.NotNil(t, unit)
	return unit
}

func parseErrors(t *testing.T, src string) []*errors.Diagnostic {
	t.Helper()
	_, err := Parse(context.Background(), "p/X.java", src)
	require.Error(t, err)
	var perr *Errors
	require.True(t, stderrors.As(err, &perr))
	require.ErrorIs(t, err, errors.ErrSyntax)
	return perr.Diagnostics()
}

func TestUnitHeader(t *testing.T) {
	unit := parseUnit(t, `package p.q;
import java.util.List;
import java.util.*;
public class X {}
`)
	require.Equal(t, "p/X.java", unit.Name)
	require.Equal(t, "p.q", unit.Package)
	require.Equal(t, []string{"java.util.List", "java.util.*"}, unit.Imports)
	require.Len(t, unit.Types, 1)
	require.Equal(t, "X", unit.Types[0].Name.Name)
	require.Equal(t, ast.Position{Line: 4, Column: 14}, unit.Types[0].Name.Pos())
	require.Equal(t, ast.Position{Line: 4, Column: 18}, unit.Types[0].End())
}

func TestPackageInfo(t *testing.T) {
	unit, err := Parse(context.Background(), "p/package-info.java",
		`@Deprecated(since="9") package p;`)
	require.NoError(t, err)
	require.True(t, unit.IsPackageInfo())
	require.Empty(t, unit.Types)
	require.Equal(t, &ast.Deprecation{Since: "9"}, unit.PackageDeprecation)
}

func TestTypeDeclaration(t *testing.T) {
	unit := parseUnit(t, `
@Deprecated(since = "1.2", forRemoval = true)
@SuppressWarnings({"unchecked", "deprecation"})
public class Box<T extends Number, U> extends Base<T> implements Comparable<Box<?>>, java.io.Serializable {
	static interface Visitor {}
}
interface I extends A, B {}
`)
	require.Len(t, unit.Types, 2)
	box := unit.Types[0]
	require.Equal(t, []string{"T", "U"}, box.TypeParams)
	require.Equal(t, &ast.Deprecation{Since: "1.2", ForRemoval: true}, box.Deprecated)
	require.Equal(t, []string{"unchecked", "deprecation"}, box.Suppress)
	require.Equal(t, "Base<T>", box.Super.String())
	require.Len(t, box.Interfaces, 2)
	require.Equal(t, "Comparable<Box<?>>", box.Interfaces[0].String())
	require.Equal(t, "java.io.Serializable", box.Interfaces[1].Name())
	require.Len(t, box.Types, 1)
	require.True(t, box.Types[0].Interface)
	require.True(t, box.Types[0].Static)

	iface := unit.Types[1]
	require.True(t, iface.Interface)
	require.Nil(t, iface.Super)
	require.Len(t, iface.Interfaces, 2)
}

func TestMembers(t *testing.T) {
	unit := parseUnit(t, `class X {
	private static final int x = 5, y = 10;
	String name;
	@Deprecated X() {}
	X(int a, final String b) { this.name = b; }
	static native void run() throws Exception;
	java.util.List<? extends Number> items(int[][] grid) { return null; }
}`)
	td := unit.Types[0]
	require.Len(t, td.Fields, 2)
	require.True(t, td.Fields[0].Static)
	require.Len(t, td.Fields[0].Names, 2)
	require.Equal(t, "y", td.Fields[0].Names[1].Name)
	require.Equal(t, "10", td.Fields[0].Values[1].String())
	require.Nil(t, td.Fields[1].Values)

	require.Len(t, td.Methods, 4)
	ctor := td.Methods[0]
	require.True(t, ctor.Constructor)
	require.NotNil(t, ctor.Deprecated)
	require.Len(t, td.Methods[1].Params, 2)
	require.Equal(t, "b", td.Methods[1].Params[1].Name.Name)

	run := td.Methods[2]
	require.Nil(t, run.Result)
	require.Nil(t, run.Body)
	require.True(t, run.Static)
	require.Equal(t, ast.Position{Line: 6, Column: 26}, run.SignatureEnd())

	items := td.Methods[3]
	require.Equal(t, "java.util.List<? extends Number>", items.Result.String())
	require.Equal(t, 2, items.Params[0].Type.Dims)
	require.Equal(t, ast.Extends, items.Result.Args[0].Wildcard)
}

func method(t *testing.T, src string) *ast.MethodDecl {
	t.Helper()
	unit := parseUnit(t, "class X {\n"+src+"\n}")
	require.Len(t, unit.Types[0].Methods, 1)
	return unit.Types[0].Methods[0]
}

func TestStatements(t *testing.T) {
	m := method(t, `int f(boolean b) {
		int x = 1, y;
		java.util.List<String> list = null;
		final String s = "a";
		;
		{ x = y = 2; }
		try {
			foo();
		} catch (RuntimeException e) {
			throw e;
		} catch (final Exception e) {
		}
		return b ? x : y;
	}`)
	stmts := m.Body.Stmts
	require.Len(t, stmts, 7)
	require.IsType(t, &ast.LocalDecl{}, stmts[0])
	require.Equal(t, "x", stmts[0].(*ast.LocalDecl).Name.Name)
	require.Nil(t, stmts[1].(*ast.LocalDecl).Value)
	require.Equal(t, "java.util.List<String>", stmts[2].(*ast.LocalDecl).Type.String())
	require.Equal(t, "s", stmts[3].(*ast.LocalDecl).Name.Name)

	block := stmts[4].(*ast.Block)
	assign := block.Stmts[0].(*ast.ExprStmt).X.(*ast.Assign)
	require.IsType(t, &ast.Assign{}, assign.Value)

	try := stmts[5].(*ast.Try)
	require.Len(t, try.Catches, 2)
	require.Equal(t, "RuntimeException", try.Catches[0].Type.Name())
	require.IsType(t, &ast.Throw{}, try.Catches[0].Body.Stmts[0])

	ret := stmts[6].(*ast.Return)
	require.IsType(t, &ast.Conditional{}, ret.Value)
	require.Equal(t, "b ? x : y", ret.Value.String())
}

func TestExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a", "a"},
		{"this.x", "this.x"},
		{"System.out.println(\"hi\")", "System.out.println(\"hi\")"},
		{"new java.util.ArrayList<String>(1, 2)", "new java.util.ArrayList<String>(1, 2)"},
		{"(String) o", "(String) o"},
		{"(int) (x)", "(int) x"},
		{"(a)", "a"},
		{"a ? b : c ? d : e", "a ? b : c ? d : e"},
		{"a = b ? c : d", "a = b ? c : d"},
		{"foo().bar(1).baz", "foo().bar(1).baz"},
		{"0x7fffffff", "0x7fffffff"},
		{"'c'", "'c'"},
		{"null", "null"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m := method(t, "void f() { Object r = "+tt.input+"; }")
			decl := m.Body.Stmts[0].(*ast.LocalDecl)
			require.Equal(t, tt.expected, decl.Value.String())
		})
	}
}

func TestDottedNames(t *testing.T) {
	m := method(t, "void f() { p.Outer.Inner.f = 1; }")
	assign := m.Body.Stmts[0].(*ast.ExprStmt).X.(*ast.Assign)
	f := assign.Target.(*ast.FieldAccess)
	require.Equal(t, "f", f.Name.Name)
	inner := f.Target.(*ast.FieldAccess)
	require.Equal(t, "Inner", inner.Name.Name)
	outer := inner.Target.(*ast.FieldAccess)
	require.Equal(t, "Outer", outer.Name.Name)
	require.Equal(t, "p", outer.Target.(*ast.Local).Name.Name)
	require.Equal(t, ast.Position{Line: 2, Column: 12}, f.Pos())
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		input string
		kind  ast.LiteralKind
		i     int64
		f     float64
		s     string
	}{
		{"42", ast.IntLit, 42, 0, ""},
		{"1_000", ast.IntLit, 1000, 0, ""},
		{"017", ast.IntLit, 15, 0, ""},
		{"0xFFFFFFFF", ast.IntLit, -1, 0, ""},
		{"2147483647", ast.IntLit, 2147483647, 0, ""},
		{"10L", ast.LongLit, 10, 0, ""},
		{"0xFFFFFFFFFFFFFFFFL", ast.LongLit, -1, 0, ""},
		{"1.5", ast.DoubleLit, 0, 1.5, ""},
		{"2d", ast.DoubleLit, 0, 2, ""},
		{"1e3", ast.DoubleLit, 0, 1000, ""},
		{"0.25f", ast.FloatLit, 0, 0.25, ""},
		{"'A'", ast.CharLit, 65, 0, ""},
		{`"a\tb"`, ast.StringLit, 0, 0, "a\tb"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m := method(t, "void f() { x = "+tt.input+"; }")
			lit := m.Body.Stmts[0].(*ast.ExprStmt).X.(*ast.Assign).Value.(*ast.Literal)
			require.Equal(t, tt.kind, lit.Kind)
			require.Equal(t, tt.input, lit.Raw)
			require.Equal(t, tt.i, lit.Int)
			require.Equal(t, tt.f, lit.Float)
			require.Equal(t, tt.s, lit.Str)
		})
	}
}

func TestLiteralOutOfRange(t *testing.T) {
	diags := parseErrors(t, "class X { int x = 2147483648; }")
	require.Len(t, diags, 1)
	require.Equal(t, "The literal 2147483648 of type int is out of range", diags[0].Message)
	require.Equal(t, errors.E1001, diags[0].Code)
	require.Equal(t, 1, diags[0].Line)
	require.Equal(t, 19, diags[0].Column)
	require.Equal(t, 28, diags[0].EndColumn)
}

func TestSyntaxErrors(t *testing.T) {
	diags := parseErrors(t, `class X {
	void f() { int x = ; }
	void g() { return 1 }
	int ok;
}`)
	require.Len(t, diags, 2)
	require.Equal(t, `Syntax error on token ";" while parsing expression`, diags[0].Message)
	require.Equal(t, 2, diags[0].Line)
	require.Equal(t, "\tvoid f() { int x = ; }", diags[0].SourceLine)
	require.Equal(t, `Syntax error on token "}" while parsing return statement`, diags[1].Message)
	require.Equal(t, 3, diags[1].Line)
}

func TestRecoveryKeepsLaterMembers(t *testing.T) {
	unit, err := Parse(context.Background(), "p/X.java", `class X {
	void f() { ( }
	int ok;
	void g() {}
}`)
	require.Error(t, err)
	require.NotNil(t, unit)
	td := unit.Types[0]
	require.Len(t, td.Fields, 1)
	require.Equal(t, "ok", td.Fields[0].Names[0].Name)
	require.Len(t, td.Methods, 1)
	require.Equal(t, "g", td.Methods[0].Name.Name)
}

func TestTryWithoutCatch(t *testing.T) {
	diags := parseErrors(t, "class X { void f() { try { } } }")
	require.Equal(t, `Syntax error, insert "catch" to complete TryStatement`, diags[0].Message)
}

func TestUnexpectedEOF(t *testing.T) {
	diags := parseErrors(t, "class X {")
	require.Equal(t, "Syntax error, unexpected end of input while parsing type declaration", diags[len(diags)-1].Message)
}

func TestLexerErrorsAreSyntaxErrors(t *testing.T) {
	diags := parseErrors(t, "class X { String s = \"abc; }")
	require.Equal(t, "unterminated string literal", diags[0].Message)
}

func TestMaxDepth(t *testing.T) {
	src := "class X { Object o = "
	for i := 0; i < 20; i++ {
		src += "("
	}
	src += "a"
	for i := 0; i < 20; i++ {
		src += ")"
	}
	src += "; }"
	_, err := Parse(context.Background(), "p/X.java", src, WithMaxDepth(10))
	require.Error(t, err)
	require.Contains(t, err.Error(), "maximum nesting depth exceeded")
	_, err = Parse(context.Background(), "p/X.java", src)
	require.NoError(t, err)
}

func TestMaxErrors(t *testing.T) {
	src := "class X {\n"
	for i := 0; i < MaxErrors+5; i++ {
		src += "\tint = ;\n"
	}
	src += "}"
	diags := parseErrors(t, src)
	require.Len(t, diags, MaxErrors)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	unit, err := Parse(ctx, "p/X.java", "class X {}")
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, unit)
}

func TestErrorsMessage(t *testing.T) {
	_, err := Parse(context.Background(), "p/X.java", "class X { int = ; int = ; }")
	require.Error(t, err)
	require.Contains(t, err.Error(), "(and 1 more)")
}
