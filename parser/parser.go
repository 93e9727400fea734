// Package parser builds compilation units of the Java subset from source
// text.
//
// A parser is created by calling New() with a lexer as input. The parser should
// then be used only once, by calling parser.Parse() to produce the unit.
//
// Syntax errors are collected as diagnostics. After an error the parser
// skips to the end of the enclosing member and continues, so one unit can
// report several errors.
package parser

import (
	"context"
	"fmt"

	"github.com/deepnoodle-ai/jcore/ast"
	"github.com/deepnoodle-ai/jcore/errors"
	"github.com/deepnoodle-ai/jcore/internal/lexer"
	"github.com/deepnoodle-ai/jcore/internal/token"
)

// Parse the provided input as a compilation unit named name, for example
// p/X.java. This is shorthand for creating a Lexer and Parser and then
// calling Parse.
func Parse(ctx context.Context, name, input string, options ...Option) (*ast.Unit, error) {
	return New(lexer.New(input, lexer.WithFile(name)), options...).Parse(ctx)
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
// The default is 500.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// MaxErrors is the maximum number of errors to collect before stopping.
const MaxErrors = 10

// bailout unwinds the parser to the nearest recovery point.
type bailout struct{}

// Parser object
type Parser struct {
	// the Context supplied in the Parse() call
	ctx context.Context

	// l is our lexer
	l *lexer.Lexer

	// prevToken holds the previous token, which we already processed.
	prevToken token.Token

	// curToken holds the current token from the lexer.
	curToken token.Token

	// peekToken holds the next token from the lexer.
	peekToken token.Token

	// parsing errors collected during parsing
	errors []*errors.Diagnostic

	// braces counts the braces consumed and not yet closed.
	braces int

	// speculating is positive while trying a parse that may be undone.
	speculating int

	// Current recursion depth
	depth int

	// Maximum allowed recursion depth
	maxDepth int
}

// New returns a Parser for the unit provided by the given Lexer.
func New(l *lexer.Lexer, options ...Option) *Parser {
	p := &Parser{
		l:        l,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Parse the unit that is provided via the lexer. If there are errors, the
// returned unit holds the declarations that were parsed and the error is
// an *Errors.
func (p *Parser) Parse(ctx context.Context) (*ast.Unit, error) {
	p.ctx = ctx
	unit := &ast.Unit{Name: p.l.Filename(), Source: p.l.Input()}
	p.guard(func() {
		// Prime the token pump
		p.nextToken()
		p.nextToken()
		p.parseUnit(unit)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(p.errors) > 0 {
		return unit, NewErrors(p.errors)
	}
	return unit, nil
}

// guard runs fn, stopping at a bailout. It reports whether fn completed.
func (p *Parser) guard(fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isBailout := r.(bailout); !isBailout {
				panic(r)
			}
			ok = false
		}
	}()
	fn()
	return true
}

// advanceToken moves to the next token from the lexer without error checking.
// Used internally by synchronize() during error recovery.
func (p *Parser) advanceToken() {
	p.count(p.curToken)
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.peekToken, _ = p.l.Next()
}

// nextToken moves to the next token from the lexer, updating all of
// prevToken, curToken, and peekToken.
func (p *Parser) nextToken() {
	p.count(p.curToken)
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	var err error
	p.peekToken, err = p.l.Next()
	if err != nil {
		// Lexer errors are syntax errors at the offending token.
		p.errorAt(p.peekToken, "%s", err.Error())
	}
}

func (p *Parser) count(tok token.Token) {
	switch tok.Type {
	case token.LBRACE:
		p.braces++
	case token.RBRACE:
		p.braces--
	}
}

type parserMark struct {
	prev, cur, peek token.Token
	state           lexer.State
	braces          int
}

// speculate runs fn without reporting errors and then rewinds the parser.
// It reports whether fn completed and returned true.
func (p *Parser) speculate(fn func() bool) (ok bool) {
	m := parserMark{p.prevToken, p.curToken, p.peekToken, p.l.SaveState(), p.braces}
	p.speculating++
	defer func() {
		p.speculating--
		p.prevToken, p.curToken, p.peekToken, p.braces = m.prev, m.cur, m.peek, m.braces
		p.l.RestoreState(m.state)
	}()
	p.guard(func() { ok = fn() })
	return ok
}

// errorAt records a syntax error at tok and bails out. Errors past
// MaxErrors are dropped.
func (p *Parser) errorAt(tok token.Token, format string, args ...any) {
	if p.speculating > 0 || p.tooManyErrors() {
		panic(bailout{})
	}
	start, end := tok.StartPosition, tok.EndPosition
	endColumn := end.ColumnNumber() - 1
	if end.Line != start.Line || endColumn < start.ColumnNumber() {
		endColumn = start.ColumnNumber()
	}
	p.errors = append(p.errors, &errors.Diagnostic{
		Severity:   errors.Error,
		Code:       errors.E1001,
		Kind:       errors.ErrSyntax,
		Unit:       p.l.Filename(),
		Line:       start.LineNumber(),
		EndLine:    start.LineNumber(),
		Column:     start.ColumnNumber(),
		EndColumn:  endColumn,
		SourceLine: p.l.GetLineText(tok),
		Message:    fmt.Sprintf(format, args...),
	})
	panic(bailout{})
}

// tokenError reports an unexpected current token.
func (p *Parser) tokenError(context string) {
	tok := p.curToken
	if tok.Type == token.EOF {
		p.errorAt(tok, "Syntax error, unexpected end of input while parsing %s", context)
	}
	p.errorAt(tok, "Syntax error on token %q while parsing %s", p.literalOf(tok), context)
}

func (p *Parser) literalOf(tok token.Token) string {
	input := p.l.Input()
	if tok.StartPosition.Char < tok.EndPosition.Char && tok.EndPosition.Char <= len(input) {
		return input[tok.StartPosition.Char:tok.EndPosition.Char]
	}
	return tok.Literal
}

func (p *Parser) tooManyErrors() bool {
	return len(p.errors) >= MaxErrors
}

// cancelled checks if the parsing context has been cancelled.
func (p *Parser) cancelled() bool {
	if p.ctx == nil {
		return false
	}
	select {
	case <-p.ctx.Done():
		return true
	default:
		return false
	}
}

// curTokenIs returns true if the current token has the given type.
func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

// peekTokenIs returns true if the next token has the given type.
func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

// expect consumes the current token if it has the given type and reports
// an error otherwise.
func (p *Parser) expect(context string, t token.Type) token.Token {
	tok := p.curToken
	if tok.Type != t {
		p.tokenError(context)
	}
	p.nextToken()
	return tok
}

// accept consumes the current token if it has the given type.
func (p *Parser) accept(t token.Type) bool {
	if p.curToken.Type != t {
		return false
	}
	p.nextToken()
	return true
}

func (p *Parser) enter() {
	p.depth++
	if p.depth > p.maxDepth {
		p.errorAt(p.curToken, "maximum nesting depth exceeded")
	}
}

func (p *Parser) leave() {
	p.depth--
}

// ident consumes an identifier.
func (p *Parser) ident(context string) *ast.Ident {
	tok := p.expect(context, token.IDENT)
	return &ast.Ident{NamePos: position(tok.StartPosition), Name: tok.Literal}
}

func position(pos token.Position) ast.Position {
	return ast.Position{Line: pos.LineNumber(), Column: pos.ColumnNumber()}
}

// synchronize skips tokens until the end of the member being parsed when
// an error occurred. depth is the brace depth at the start of the member.
func (p *Parser) synchronize(depth int) {
	for !p.curTokenIs(token.EOF) {
		switch {
		case p.curTokenIs(token.SEMICOLON) && p.braces == depth:
			p.advanceToken()
			return
		case p.curTokenIs(token.RBRACE) && p.braces == depth+1:
			p.advanceToken()
			return
		case p.curTokenIs(token.RBRACE) && p.braces <= depth:
			return
		}
		p.advanceToken()
	}
}
