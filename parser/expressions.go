package parser

import (
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/jcore/ast"
	"github.com/deepnoodle-ai/jcore/internal/token"
)

// parseExpr parses an expression, including assignments.
func (p *Parser) parseExpr() ast.Expr {
	p.enter()
	defer p.leave()
	x := p.parseConditional()
	if p.accept(token.ASSIGN) {
		return &ast.Assign{Target: x, Value: p.parseExpr()}
	}
	return x
}

func (p *Parser) parseConditional() ast.Expr {
	cond := p.parseUnary()
	if !p.accept(token.QUESTION) {
		return cond
	}
	p.enter()
	defer p.leave()
	then := p.parseExpr()
	p.expect("conditional expression", token.COLON)
	return &ast.Conditional{Cond: cond, Then: then, Else: p.parseConditional()}
}

func (p *Parser) parseUnary() ast.Expr {
	if p.curTokenIs(token.LPAREN) && p.isCast() {
		p.enter()
		defer p.leave()
		lparen := p.expect("cast", token.LPAREN)
		typ := p.parseTypeRef()
		p.expect("cast", token.RPAREN)
		return &ast.Cast{Lparen: position(lparen.StartPosition), Type: typ, X: p.parseUnary()}
	}
	return p.parsePostfix()
}

// isCast reports whether the parenthesized tokens at the current position
// are a type followed by an operand.
func (p *Parser) isCast() bool {
	return p.speculate(func() bool {
		p.nextToken()
		p.parseTypeRef()
		if !p.curTokenIs(token.RPAREN) {
			return false
		}
		switch p.peekToken.Type {
		case token.IDENT, token.INT, token.LONG, token.FLOAT, token.DOUBLE,
			token.CHAR, token.STRING, token.TRUE, token.FALSE, token.NULL,
			token.THIS, token.NEW, token.LPAREN:
			return true
		}
		return false
	})
}

func (p *Parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for p.accept(token.PERIOD) {
		name := p.ident("member access")
		if p.curTokenIs(token.LPAREN) {
			call := &ast.MethodCall{Target: x, Name: name}
			call.Args, call.Rparen = p.parseArguments()
			x = call
			continue
		}
		x = &ast.FieldAccess{Target: x, Name: name}
	}
	return x
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.curToken
	pos := position(tok.StartPosition)
	switch tok.Type {
	case token.INT, token.LONG, token.FLOAT, token.DOUBLE, token.CHAR, token.STRING,
		token.TRUE, token.FALSE, token.NULL:
		return p.parseLiteral()
	case token.THIS:
		p.nextToken()
		return &ast.This{ThisPos: pos}
	case token.NEW:
		p.nextToken()
		x := &ast.New{NewPos: pos, Type: p.parseTypeRef()}
		x.Args, x.Rparen = p.parseArguments()
		return x
	case token.LPAREN:
		p.nextToken()
		x := p.parseExpr()
		p.expect("expression", token.RPAREN)
		return x
	case token.IDENT:
		name := p.ident("expression")
		if p.curTokenIs(token.LPAREN) {
			call := &ast.MethodCall{Name: name}
			call.Args, call.Rparen = p.parseArguments()
			return call
		}
		return &ast.Local{Name: name}
	}
	p.tokenError("expression")
	return nil
}

// parseArguments parses a parenthesized argument list and returns the
// position of the closing parenthesis.
func (p *Parser) parseArguments() ([]ast.Expr, ast.Position) {
	p.expect("arguments", token.LPAREN)
	var args []ast.Expr
	for !p.curTokenIs(token.RPAREN) {
		args = append(args, p.parseExpr())
		if !p.accept(token.COMMA) {
			break
		}
	}
	rparen := p.expect("arguments", token.RPAREN)
	return args, position(rparen.StartPosition)
}

func (p *Parser) parseLiteral() *ast.Literal {
	tok := p.curToken
	lit := &ast.Literal{ValuePos: position(tok.StartPosition), Raw: p.literalOf(tok)}
	digits := strings.ReplaceAll(tok.Literal, "_", "")
	switch tok.Type {
	case token.INT:
		lit.Kind = ast.IntLit
		v, ok := parseInt(digits, 32)
		if !ok {
			p.errorAt(tok, "The literal %s of type int is out of range", tok.Literal)
		}
		lit.Int = int64(int32(v))
	case token.LONG:
		lit.Kind = ast.LongLit
		v, ok := parseInt(digits[:len(digits)-1], 64)
		if !ok {
			p.errorAt(tok, "The literal %s of type long is out of range", tok.Literal)
		}
		lit.Int = int64(v)
	case token.FLOAT, token.DOUBLE:
		lit.Kind = ast.DoubleLit
		bits := 64
		if tok.Type == token.FLOAT {
			lit.Kind = ast.FloatLit
			bits = 32
		}
		if last := digits[len(digits)-1]; strings.ContainsRune("fFdD", rune(last)) && !isHex(digits) {
			digits = digits[:len(digits)-1]
		}
		v, err := strconv.ParseFloat(digits, bits)
		if err != nil {
			p.errorAt(tok, "The literal %s of type %s is out of range", tok.Literal, lit.Kind)
		}
		lit.Float = v
	case token.CHAR:
		lit.Kind = ast.CharLit
		r := []rune(tok.Literal)
		if len(r) == 1 {
			lit.Int = int64(r[0])
		}
	case token.STRING:
		lit.Kind = ast.StringLit
		lit.Str = tok.Literal
	case token.TRUE, token.FALSE:
		lit.Kind = ast.BoolLit
		lit.Bool = tok.Type == token.TRUE
	case token.NULL:
		lit.Kind = ast.NullLit
	}
	p.nextToken()
	return lit
}

func isHex(s string) bool {
	return strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
}

// parseInt parses a decimal, octal or hex integer literal of the given
// width. Octal and hex literals may use the sign bit.
func parseInt(s string, bits int) (uint64, bool) {
	switch {
	case isHex(s):
		v, err := strconv.ParseUint(s[2:], 16, bits)
		return v, err == nil
	case len(s) > 1 && s[0] == '0':
		v, err := strconv.ParseUint(s[1:], 8, bits)
		return v, err == nil
	}
	v, err := strconv.ParseUint(s, 10, bits-1)
	return v, err == nil
}
