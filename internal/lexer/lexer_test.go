package lexer

import (
	"fmt"
	"testing"

	"github.com/deepnoodle-ai/jcore/internal/token"
	"github.com/stretchr/testify/require"
)

type expectedToken struct {
	expectedType    token.Type
	expectedLiteral string
}

func requireTokens(t *testing.T, input string, tests []expectedToken) {
	t.Helper()
	l := New(input)
	for i, tt := range tests {
		tok, err := l.Next()
		require.NoError(t, err)
		require.Equal(t, tt.expectedType, tok.Type, "tests[%d] token type", i)
		require.Equal(t, tt.expectedLiteral, tok.Literal, "tests[%d] literal", i)
	}
}

func TestNextToken(t *testing.T) {
	input := `=@:,<>{}[]().?;*&`
	requireTokens(t, input, []expectedToken{
		{token.ASSIGN, "="},
		{token.AT, "@"},
		{token.COLON, ":"},
		{token.COMMA, ","},
		{token.LT, "<"},
		{token.GT, ">"},
		{token.LBRACE, "{"},
		{token.RBRACE, "}"},
		{token.LBRACKET, "["},
		{token.RBRACKET, "]"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.PERIOD, "."},
		{token.QUESTION, "?"},
		{token.SEMICOLON, ";"},
		{token.ASTERISK, "*"},
		{token.AMPERSAND, "&"},
		{token.EOF, ""},
	})
}

func TestClass(t *testing.T) {
	input := `package p;
public class X {
	@Deprecated(since="1.2")
	static int foo(boolean b) { return b ? 1 : 'c'; }
}`
	requireTokens(t, input, []expectedToken{
		{token.PACKAGE, "package"},
		{token.IDENT, "p"},
		{token.SEMICOLON, ";"},
		{token.MODIFIER, "public"},
		{token.CLASS, "class"},
		{token.IDENT, "X"},
		{token.LBRACE, "{"},
		{token.AT, "@"},
		{token.IDENT, "Deprecated"},
		{token.LPAREN, "("},
		{token.IDENT, "since"},
		{token.ASSIGN, "="},
		{token.STRING, "1.2"},
		{token.RPAREN, ")"},
		{token.STATIC, "static"},
		{token.IDENT, "int"},
		{token.IDENT, "foo"},
		{token.LPAREN, "("},
		{token.IDENT, "boolean"},
		{token.IDENT, "b"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.RETURN, "return"},
		{token.IDENT, "b"},
		{token.QUESTION, "?"},
		{token.INT, "1"},
		{token.COLON, ":"},
		{token.CHAR, "c"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.RBRACE, "}"},
		{token.EOF, ""},
	})
}

func TestNumbers(t *testing.T) {
	input := `10 0x10 7L 1.5 2.5f 3d 1e3 .5 42.foo`
	requireTokens(t, input, []expectedToken{
		{token.INT, "10"},
		{token.INT, "0x10"},
		{token.LONG, "7L"},
		{token.DOUBLE, "1.5"},
		{token.FLOAT, "2.5f"},
		{token.DOUBLE, "3d"},
		{token.DOUBLE, "1e3"},
		{token.DOUBLE, ".5"},
		{token.INT, "42"},
		{token.PERIOD, "."},
		{token.IDENT, "foo"},
		{token.EOF, ""},
	})
}

func TestStringsAndChars(t *testing.T) {
	input := `"\n\t\\\"" '\'' 'A' "SUCCESS"`
	requireTokens(t, input, []expectedToken{
		{token.STRING, "\n\t\\\""},
		{token.CHAR, "'"},
		{token.CHAR, "A"},
		{token.STRING, "SUCCESS"},
		{token.EOF, ""},
	})
}

func TestComments(t *testing.T) {
	input := `a // trailing
/* block
   comment */ b /** doc */ c`
	requireTokens(t, input, []expectedToken{
		{token.IDENT, "a"},
		{token.IDENT, "b"},
		{token.IDENT, "c"},
		{token.EOF, ""},
	})
}

func TestLineNumbers(t *testing.T) {
	l := New("a\n  b\r\n\tc")
	want := [][2]int{{1, 1}, {2, 3}, {3, 2}}
	for _, w := range want {
		tok, err := l.Next()
		require.NoError(t, err)
		require.Equal(t, w[0], tok.StartPosition.LineNumber())
		require.Equal(t, w[1], tok.StartPosition.ColumnNumber())
	}
}

func TestTokenLineText(t *testing.T) {
	l := New("int x = 32;\n  y = x;\r\n")
	for i := 0; i < 5; i++ {
		_, err := l.Next()
		require.NoError(t, err)
	}
	tok, err := l.Next()
	require.NoError(t, err)
	require.Equal(t, "y", tok.Literal)
	require.Equal(t, "  y = x;", l.GetLineText(tok))
}

func TestInvalids(t *testing.T) {
	tests := []struct {
		input string
		err   string
	}{
		{"12ab", "invalid numeric literal: 12a"},
		{"0x.1", "invalid hex literal: 0x."},
		{`"foo`, "unterminated string literal"},
		{"'ab'", "unterminated character literal"},
		{`"\q"`, `invalid escape sequence: \q`},
		{"~", "unexpected character: '~'"},
		{"/* open", "unterminated comment"},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("%d-%s", i, tt.input), func(t *testing.T) {
			l := New(tt.input)
			_, err := l.Next()
			require.Error(t, err)
			require.Equal(t, tt.err, err.Error())
		})
	}
}

func TestStateSaveRestore(t *testing.T) {
	l := New("x = 1 ; y")
	tok, err := l.Next()
	require.NoError(t, err)
	require.Equal(t, "x", tok.Literal)

	state := l.SaveState()
	tok, _ = l.Next()
	require.Equal(t, token.ASSIGN, tok.Type)
	tok, _ = l.Next()
	require.Equal(t, "1", tok.Literal)

	l.RestoreState(state)
	tok, _ = l.Next()
	require.Equal(t, token.ASSIGN, tok.Type)
}

func TestMultipleEOFReads(t *testing.T) {
	l := New("")
	for i := 0; i < 3; i++ {
		tok, err := l.Next()
		require.NoError(t, err)
		require.Equal(t, token.EOF, tok.Type)
	}
}

func TestFilename(t *testing.T) {
	l := New("x", WithFile("X.java"))
	require.Equal(t, "X.java", l.Filename())
	l.SetFilename("Y.java")
	require.Equal(t, "Y.java", l.Filename())
}
