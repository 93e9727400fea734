// Package lexer splits Java subset source text into tokens.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/deepnoodle-ai/jcore/internal/token"
)

// Lexer holds our object-state.
type Lexer struct {
	input     string
	position  int  // current byte offset
	line      int  // 0-indexed
	lineStart int  // byte offset of the current line
	ch        rune // current rune
	width     int  // byte width of ch
	filename  string
}

// State is a saved lexer position, restored with RestoreState.
type State struct {
	position  int
	line      int
	lineStart int
	ch        rune
	width     int
}

// Option is a configuration function for a Lexer.
type Option func(*Lexer)

// WithFile sets the file name for the Lexer.
func WithFile(file string) Option {
	return func(l *Lexer) {
		l.filename = file
	}
}

// New returns a Lexer for the given input.
func New(input string, options ...Option) *Lexer {
	l := &Lexer{input: input}
	for _, opt := range options {
		opt(l)
	}
	l.decode()
	return l
}

// Filename returns the file name given to the lexer, if any.
func (l *Lexer) Filename() string {
	return l.filename
}

// SetFilename sets the file name used in error messages.
func (l *Lexer) SetFilename(filename string) {
	l.filename = filename
}

// Input returns the source text being lexed.
func (l *Lexer) Input() string {
	return l.input
}

// SaveState returns the current position of the lexer.
func (l *Lexer) SaveState() State {
	return State{position: l.position, line: l.line, lineStart: l.lineStart, ch: l.ch, width: l.width}
}

// RestoreState moves the lexer back to a saved position.
func (l *Lexer) RestoreState(s State) {
	l.position, l.line, l.lineStart, l.ch, l.width = s.position, s.line, s.lineStart, s.ch, s.width
}

// Position returns the position of the current rune.
func (l *Lexer) Position() token.Position {
	return token.Position{
		Char:      l.position,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.position - l.lineStart,
	}
}

// GetLineText returns the text of the line containing the token.
func (l *Lexer) GetLineText(tok token.Token) string {
	start := tok.StartPosition.LineStart
	if start > len(l.input) {
		return ""
	}
	rest := l.input[start:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	return strings.TrimRight(rest, "\r")
}

func (l *Lexer) decode() {
	if l.position >= len(l.input) {
		l.ch, l.width = 0, 0
		return
	}
	l.ch, l.width = utf8.DecodeRuneInString(l.input[l.position:])
}

func (l *Lexer) advance() {
	if l.ch == '\n' {
		l.line++
		l.lineStart = l.position + l.width
	}
	l.position += l.width
	l.decode()
}

func (l *Lexer) peek() rune {
	next := l.position + l.width
	if next >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[next:])
	return r
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// Next returns the next token. EOF is returned repeatedly at the end of
// the input.
func (l *Lexer) Next() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return l.tokenAt(token.ILLEGAL, "", l.Position()), err
	}
	start := l.Position()
	if l.atEOF() {
		return token.Token{Type: token.EOF, StartPosition: start, EndPosition: start}, nil
	}
	switch ch := l.ch; {
	case ch == '"':
		return l.readString(start)
	case ch == '\'':
		return l.readChar(start)
	case isDigit(ch) || (ch == '.' && isDigit(l.peek())):
		return l.readNumber(start)
	case isIdentStart(ch):
		return l.readIdentifier(start), nil
	}
	var typ token.Type
	switch l.ch {
	case '=':
		typ = token.ASSIGN
	case '@':
		typ = token.AT
	case ':':
		typ = token.COLON
	case ',':
		typ = token.COMMA
	case '>':
		typ = token.GT
	case '<':
		typ = token.LT
	case '{':
		typ = token.LBRACE
	case '}':
		typ = token.RBRACE
	case '[':
		typ = token.LBRACKET
	case ']':
		typ = token.RBRACKET
	case '(':
		typ = token.LPAREN
	case ')':
		typ = token.RPAREN
	case '.':
		typ = token.PERIOD
	case '?':
		typ = token.QUESTION
	case ';':
		typ = token.SEMICOLON
	case '*':
		typ = token.ASTERISK
	case '&':
		typ = token.AMPERSAND
	default:
		ch := l.ch
		l.advance()
		return l.tokenAt(token.ILLEGAL, string(ch), start), fmt.Errorf("unexpected character: %q", ch)
	}
	lit := string(l.ch)
	l.advance()
	return l.tokenAt(typ, lit, start), nil
}

func (l *Lexer) tokenAt(typ token.Type, lit string, start token.Position) token.Token {
	return token.Token{Type: typ, Literal: lit, StartPosition: start, EndPosition: l.Position()}
}

func (l *Lexer) skipWhitespaceAndComments() error {
	for !l.atEOF() {
		switch {
		case unicode.IsSpace(l.ch):
			l.advance()
		case l.ch == '/' && l.peek() == '/':
			for !l.atEOF() && l.ch != '\n' {
				l.advance()
			}
		case l.ch == '/' && l.peek() == '*':
			l.advance()
			l.advance()
			for {
				if l.atEOF() {
					return fmt.Errorf("unterminated comment")
				}
				if l.ch == '*' && l.peek() == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) readIdentifier(start token.Position) token.Token {
	begin := l.position
	for !l.atEOF() && isIdentPart(l.ch) {
		l.advance()
	}
	lit := l.input[begin:l.position]
	return l.tokenAt(token.LookupIdentifier(lit), lit, start)
}

// readNumber reads an integer or floating point literal. The literal
// keeps its source text; the parser converts it.
func (l *Lexer) readNumber(start token.Position) (token.Token, error) {
	begin := l.position
	typ := token.INT
	if l.ch == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		l.advance()
		l.advance()
		if !isHexDigit(l.ch) {
			l.advance()
			return l.tokenAt(token.ILLEGAL, "", start), fmt.Errorf("invalid hex literal: %s", l.input[begin:l.position])
		}
		for isHexDigit(l.ch) || l.ch == '_' {
			l.advance()
		}
	} else {
		for isDigit(l.ch) || l.ch == '_' {
			l.advance()
		}
		if l.ch == '.' && isDigit(l.peek()) {
			typ = token.DOUBLE
			l.advance()
			for isDigit(l.ch) || l.ch == '_' {
				l.advance()
			}
		}
		if l.ch == 'e' || l.ch == 'E' {
			typ = token.DOUBLE
			l.advance()
			if l.ch == '+' || l.ch == '-' {
				l.advance()
			}
			for isDigit(l.ch) {
				l.advance()
			}
		}
	}
	switch l.ch {
	case 'l', 'L':
		if typ != token.INT {
			break
		}
		typ = token.LONG
		l.advance()
	case 'f', 'F':
		typ = token.FLOAT
		l.advance()
	case 'd', 'D':
		typ = token.DOUBLE
		l.advance()
	}
	if isIdentPart(l.ch) {
		l.advance()
		return l.tokenAt(token.ILLEGAL, "", start), fmt.Errorf("invalid numeric literal: %s", l.input[begin:l.position])
	}
	return l.tokenAt(typ, l.input[begin:l.position], start), nil
}

func (l *Lexer) readString(start token.Position) (token.Token, error) {
	l.advance()
	var b strings.Builder
	for {
		if l.atEOF() || l.ch == '\n' {
			return l.tokenAt(token.ILLEGAL, "", start), fmt.Errorf("unterminated string literal")
		}
		if l.ch == '"' {
			l.advance()
			return l.tokenAt(token.STRING, b.String(), start), nil
		}
		r, err := l.readRune()
		if err != nil {
			return l.tokenAt(token.ILLEGAL, "", start), err
		}
		b.WriteRune(r)
	}
}

func (l *Lexer) readChar(start token.Position) (token.Token, error) {
	l.advance()
	if l.atEOF() || l.ch == '\n' || l.ch == '\'' {
		return l.tokenAt(token.ILLEGAL, "", start), fmt.Errorf("invalid character literal")
	}
	r, err := l.readRune()
	if err != nil {
		return l.tokenAt(token.ILLEGAL, "", start), err
	}
	if l.ch != '\'' {
		return l.tokenAt(token.ILLEGAL, "", start), fmt.Errorf("unterminated character literal")
	}
	l.advance()
	return l.tokenAt(token.CHAR, string(r), start), nil
}

// readRune reads one possibly escaped rune of a string or character
// literal.
func (l *Lexer) readRune() (rune, error) {
	ch := l.ch
	l.advance()
	if ch != '\\' {
		return ch, nil
	}
	esc := l.ch
	l.advance()
	switch esc {
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case '0':
		return 0, nil
	case '\\', '\'', '"':
		return esc, nil
	case 'u':
		var v rune
		for i := 0; i < 4; i++ {
			d, ok := hexValue(l.ch)
			if !ok {
				return 0, fmt.Errorf("invalid unicode escape")
			}
			v = v*16 + d
			l.advance()
		}
		return v, nil
	}
	return 0, fmt.Errorf("invalid escape sequence: \\%c", esc)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch rune) bool {
	_, ok := hexValue(ch)
	return ok
}

func hexValue(ch rune) (rune, bool) {
	switch {
	case '0' <= ch && ch <= '9':
		return ch - '0', true
	case 'a' <= ch && ch <= 'f':
		return ch - 'a' + 10, true
	case 'A' <= ch && ch <= 'F':
		return ch - 'A' + 10, true
	}
	return 0, false
}

func isIdentStart(ch rune) bool {
	return ch == '_' || ch == '$' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || unicode.IsDigit(ch)
}
