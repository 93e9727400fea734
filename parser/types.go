package parser

import (
	"github.com/deepnoodle-ai/jcore/ast"
	"github.com/deepnoodle-ai/jcore/internal/token"
)

// parseTypeRef parses a possibly qualified type name with type arguments
// and array dimensions.
func (p *Parser) parseTypeRef() *ast.TypeRef {
	ref := &ast.TypeRef{Segments: []*ast.Ident{p.ident("type")}}
	for p.curTokenIs(token.PERIOD) && p.peekTokenIs(token.IDENT) {
		p.nextToken()
		ref.Segments = append(ref.Segments, p.ident("type"))
	}
	if p.curTokenIs(token.LT) {
		ref.Args, ref.EndPos = p.parseTypeArgs()
	}
	for p.curTokenIs(token.LBRACKET) && p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		ref.EndPos = position(p.curToken.EndPosition)
		p.nextToken()
		ref.Dims++
	}
	return ref
}

// parseTypeArgs parses <...> and returns the arguments and the position
// after the closing >.
func (p *Parser) parseTypeArgs() ([]*ast.TypeRef, ast.Position) {
	p.expect("type arguments", token.LT)
	var args []*ast.TypeRef
	for {
		if p.curTokenIs(token.QUESTION) {
			q := p.curToken
			p.nextToken()
			arg := &ast.TypeRef{Wildcard: ast.Unbounded}
			switch {
			case p.accept(token.EXTENDS):
				arg = p.parseTypeRef()
				arg.Wildcard = ast.Extends
			case p.accept(token.SUPER):
				arg = p.parseTypeRef()
				arg.Wildcard = ast.Super
			}
			arg.QuestionPos = position(q.StartPosition)
			args = append(args, arg)
		} else {
			args = append(args, p.parseTypeRef())
		}
		if !p.accept(token.COMMA) {
			break
		}
	}
	end := p.expect("type arguments", token.GT)
	return args, position(end.EndPosition)
}
