// Package token defines the keywords and tokens of the Java subset.
package token

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char      int // byte offset within the file
	LineStart int // byte offset of the start of the current line
	Line      int // 0-indexed line number
	Column    int // 0-indexed column number
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Advance returns a new Position advanced by n bytes on the same line.
func (p Position) Advance(n int) Position {
	return Position{
		Char:      p.Char + n,
		LineStart: p.LineStart,
		Line:      p.Line,
		Column:    p.Column + n,
	}
}

// Token represents one token lexed from the input source code.
type Token struct {
	Type          Type
	Literal       string
	StartPosition Position
	EndPosition   Position
}

// Token types
const (
	ASSIGN    Type = "="
	AT        Type = "@"
	COLON     Type = ":"
	COMMA     Type = ","
	EOF       Type = "EOF"
	GT        Type = ">"
	IDENT     Type = "IDENT"
	ILLEGAL   Type = "ILLEGAL"
	LBRACE    Type = "{"
	LBRACKET  Type = "["
	LPAREN    Type = "("
	LT        Type = "<"
	PERIOD    Type = "."
	QUESTION  Type = "?"
	RBRACE    Type = "}"
	RBRACKET  Type = "]"
	RPAREN    Type = ")"
	SEMICOLON Type = ";"
	ASTERISK  Type = "*"
	AMPERSAND Type = "&"

	INT    Type = "INT"
	LONG   Type = "LONG"
	FLOAT  Type = "FLOAT"
	DOUBLE Type = "DOUBLE"
	CHAR   Type = "CHAR"
	STRING Type = "STRING"

	CATCH      Type = "catch"
	CLASS      Type = "class"
	EXTENDS    Type = "extends"
	FALSE      Type = "false"
	IMPLEMENTS Type = "implements"
	IMPORT     Type = "import"
	INTERFACE  Type = "interface"
	NEW        Type = "new"
	NULL       Type = "null"
	PACKAGE    Type = "package"
	RETURN     Type = "return"
	STATIC     Type = "static"
	SUPER      Type = "super"
	THIS       Type = "this"
	THROW      Type = "throw"
	THROWS     Type = "throws"
	TRUE       Type = "true"
	TRY        Type = "try"
	VOID       Type = "void"
	MODIFIER   Type = "MODIFIER"
)

// Reserved keywords
var keywords = map[string]Type{
	"catch":      CATCH,
	"class":      CLASS,
	"extends":    EXTENDS,
	"false":      FALSE,
	"implements": IMPLEMENTS,
	"import":     IMPORT,
	"interface":  INTERFACE,
	"new":        NEW,
	"null":       NULL,
	"package":    PACKAGE,
	"return":     RETURN,
	"static":     STATIC,
	"super":      SUPER,
	"this":       THIS,
	"throw":      THROW,
	"throws":     THROWS,
	"true":       TRUE,
	"try":        TRY,
	"void":       VOID,

	// Modifiers without meaning in the subset are accepted and ignored.
	"public":       MODIFIER,
	"protected":    MODIFIER,
	"private":      MODIFIER,
	"final":        MODIFIER,
	"abstract":     MODIFIER,
	"synchronized": MODIFIER,
	"native":       MODIFIER,
	"transient":    MODIFIER,
	"volatile":     MODIFIER,
	"strictfp":     MODIFIER,
}

// LookupIdentifier used to determinate whether identifier is keyword nor not
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENT
}
