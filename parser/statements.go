package parser

import (
	"github.com/deepnoodle-ai/jcore/ast"
	"github.com/deepnoodle-ai/jcore/internal/token"
)

func (p *Parser) parseBlock() *ast.Block {
	lbrace := p.expect("block", token.LBRACE)
	b := &ast.Block{Lbrace: position(lbrace.StartPosition)}
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		b.Stmts = append(b.Stmts, p.parseStatement()...)
	}
	b.Rbrace = position(p.expect("block", token.RBRACE).StartPosition)
	return b
}

// parseStatement parses one statement. A local declaration with several
// declarators yields one statement per declarator.
func (p *Parser) parseStatement() []ast.Stmt {
	switch p.curToken.Type {
	case token.SEMICOLON:
		p.nextToken()
		return nil
	case token.LBRACE:
		return []ast.Stmt{p.parseBlock()}
	case token.TRY:
		return []ast.Stmt{p.parseTry()}
	case token.RETURN:
		return []ast.Stmt{p.parseReturn()}
	case token.THROW:
		return []ast.Stmt{p.parseThrow()}
	case token.MODIFIER, token.AT:
		p.parseModifiers()
		return p.parseLocalDecl()
	}
	if p.isLocalDecl() {
		return p.parseLocalDecl()
	}
	x := p.parseExpr()
	p.expect("statement", token.SEMICOLON)
	return []ast.Stmt{&ast.ExprStmt{X: x}}
}

// isLocalDecl reports whether the statement at the current token declares
// local variables: a type followed by a name.
func (p *Parser) isLocalDecl() bool {
	if !p.curTokenIs(token.IDENT) {
		return false
	}
	return p.speculate(func() bool {
		p.parseTypeRef()
		return p.curTokenIs(token.IDENT)
	})
}

func (p *Parser) parseLocalDecl() []ast.Stmt {
	typ := p.parseTypeRef()
	var stmts []ast.Stmt
	for {
		s := &ast.LocalDecl{Type: typ, Name: p.ident("local variable declaration")}
		if p.accept(token.ASSIGN) {
			s.Value = p.parseExpr()
		}
		stmts = append(stmts, s)
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect("local variable declaration", token.SEMICOLON)
	return stmts
}

func (p *Parser) parseTry() *ast.Try {
	tok := p.expect("try statement", token.TRY)
	s := &ast.Try{TryPos: position(tok.StartPosition), Body: p.parseBlock()}
	for p.curTokenIs(token.CATCH) {
		c := &ast.Catch{CatchPos: position(p.curToken.StartPosition)}
		p.nextToken()
		p.expect("catch clause", token.LPAREN)
		p.parseModifiers()
		c.Type = p.parseTypeRef()
		c.Name = p.ident("catch clause")
		p.expect("catch clause", token.RPAREN)
		c.Body = p.parseBlock()
		s.Catches = append(s.Catches, c)
	}
	if len(s.Catches) == 0 {
		p.errorAt(p.curToken, "Syntax error, insert \"catch\" to complete TryStatement")
	}
	return s
}

func (p *Parser) parseReturn() *ast.Return {
	tok := p.expect("return statement", token.RETURN)
	s := &ast.Return{ReturnPos: position(tok.StartPosition)}
	if !p.curTokenIs(token.SEMICOLON) {
		s.Value = p.parseExpr()
	}
	p.expect("return statement", token.SEMICOLON)
	return s
}

func (p *Parser) parseThrow() *ast.Throw {
	tok := p.expect("throw statement", token.THROW)
	s := &ast.Throw{ThrowPos: position(tok.StartPosition), Value: p.parseExpr()}
	p.expect("throw statement", token.SEMICOLON)
	return s
}
