package parser

import (
	"github.com/deepnoodle-ai/jcore/ast"
	"github.com/deepnoodle-ai/jcore/internal/token"
)

// modifiers holds the annotations and modifiers preceding a declaration.
type modifiers struct {
	deprecated *ast.Deprecation
	suppress   []string
	static     bool
}

func (p *Parser) parseUnit(unit *ast.Unit) {
	m := p.parseModifiers()
	parsed := true
	if p.accept(token.PACKAGE) {
		unit.Package = p.qualifiedName("package declaration")
		p.expect("package declaration", token.SEMICOLON)
		unit.PackageDeprecation = m.deprecated
		parsed = false
	}
	for p.curTokenIs(token.IMPORT) {
		p.nextToken()
		name := p.qualifiedName("import declaration")
		if p.accept(token.PERIOD) {
			p.expect("import declaration", token.ASTERISK)
			name += ".*"
		}
		p.expect("import declaration", token.SEMICOLON)
		unit.Imports = append(unit.Imports, name)
	}
	for !p.curTokenIs(token.EOF) && !p.tooManyErrors() && !p.cancelled() {
		if !parsed {
			m = p.parseModifiers()
		}
		parsed = false
		if p.accept(token.SEMICOLON) {
			continue
		}
		unit.Types = append(unit.Types, p.parseTypeDecl(m))
	}
}

// qualifiedName parses a dotted name. A trailing .* is left unconsumed.
func (p *Parser) qualifiedName(context string) string {
	name := p.ident(context).Name
	for p.curTokenIs(token.PERIOD) && p.peekTokenIs(token.IDENT) {
		p.nextToken()
		name += "." + p.ident(context).Name
	}
	return name
}

func (p *Parser) parseModifiers() modifiers {
	var m modifiers
	for {
		switch p.curToken.Type {
		case token.AT:
			p.parseAnnotation(&m)
		case token.STATIC:
			m.static = true
			p.nextToken()
		case token.MODIFIER:
			p.nextToken()
		default:
			return m
		}
	}
}

// parseAnnotation parses an annotation. Only @Deprecated and
// @SuppressWarnings have meaning; others are skipped.
func (p *Parser) parseAnnotation(m *modifiers) {
	p.expect("annotation", token.AT)
	name := p.qualifiedName("annotation")
	switch name {
	case "Deprecated", "java.lang.Deprecated":
		d := &ast.Deprecation{}
		m.deprecated = d
		if !p.accept(token.LPAREN) {
			return
		}
		for !p.curTokenIs(token.RPAREN) {
			key := p.ident("annotation").Name
			p.expect("annotation", token.ASSIGN)
			switch key {
			case "since":
				d.Since = p.expect("annotation", token.STRING).Literal
			case "forRemoval":
				switch p.curToken.Type {
				case token.TRUE:
					d.ForRemoval = true
				case token.FALSE:
				default:
					p.tokenError("annotation")
				}
				p.nextToken()
			default:
				p.tokenError("annotation")
			}
			if !p.accept(token.COMMA) {
				break
			}
		}
		p.expect("annotation", token.RPAREN)
	case "SuppressWarnings", "java.lang.SuppressWarnings":
		p.expect("annotation", token.LPAREN)
		if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
		}
		if p.accept(token.LBRACE) {
			for !p.curTokenIs(token.RBRACE) {
				m.suppress = append(m.suppress, p.expect("annotation", token.STRING).Literal)
				if !p.accept(token.COMMA) {
					break
				}
			}
			p.expect("annotation", token.RBRACE)
		} else {
			m.suppress = append(m.suppress, p.expect("annotation", token.STRING).Literal)
		}
		p.expect("annotation", token.RPAREN)
	default:
		if p.curTokenIs(token.LPAREN) {
			p.skipParens()
		}
	}
}

// skipParens skips a balanced parenthesized token sequence.
func (p *Parser) skipParens() {
	depth := 0
	for {
		switch p.curToken.Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		case token.EOF:
			p.tokenError("annotation")
		}
		p.nextToken()
		if depth == 0 {
			return
		}
	}
}

func (p *Parser) parseTypeDecl(m modifiers) *ast.TypeDecl {
	isInterface := p.curTokenIs(token.INTERFACE)
	if !isInterface && !p.curTokenIs(token.CLASS) {
		p.tokenError("type declaration")
	}
	p.nextToken()
	td := &ast.TypeDecl{
		Name:       p.ident("type declaration"),
		Interface:  isInterface,
		Static:     m.static,
		Deprecated: m.deprecated,
		Suppress:   m.suppress,
	}
	if p.curTokenIs(token.LT) {
		td.TypeParams = p.parseTypeParams()
	}
	if p.accept(token.EXTENDS) {
		if isInterface {
			td.Interfaces = p.parseTypeList()
		} else {
			td.Super = p.parseTypeRef()
		}
	}
	if p.accept(token.IMPLEMENTS) {
		td.Interfaces = append(td.Interfaces, p.parseTypeList()...)
	}
	p.expect("type declaration", token.LBRACE)
	depth := p.braces
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) && !p.tooManyErrors() && !p.cancelled() {
		if p.accept(token.SEMICOLON) {
			continue
		}
		if !p.guard(func() { p.parseMember(td) }) {
			p.synchronize(depth)
		}
	}
	rbrace := p.expect("type declaration", token.RBRACE)
	td.EndPos = position(rbrace.EndPosition)
	return td
}

// parseTypeParams parses type parameter names. Bounds are skipped.
func (p *Parser) parseTypeParams() []string {
	p.expect("type parameters", token.LT)
	var params []string
	for {
		params = append(params, p.ident("type parameters").Name)
		if p.accept(token.EXTENDS) {
			p.parseTypeRef()
			for p.accept(token.AMPERSAND) {
				p.parseTypeRef()
			}
		}
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect("type parameters", token.GT)
	return params
}

func (p *Parser) parseTypeList() []*ast.TypeRef {
	refs := []*ast.TypeRef{p.parseTypeRef()}
	for p.accept(token.COMMA) {
		refs = append(refs, p.parseTypeRef())
	}
	return refs
}

func (p *Parser) parseMember(td *ast.TypeDecl) {
	m := p.parseModifiers()
	switch p.curToken.Type {
	case token.CLASS, token.INTERFACE:
		td.Types = append(td.Types, p.parseTypeDecl(m))
	case token.VOID:
		p.nextToken()
		name := p.ident("method declaration")
		td.Methods = append(td.Methods, p.parseMethod(m, name, nil, false))
	case token.IDENT:
		if p.curToken.Literal == td.Name.Name && p.peekTokenIs(token.LPAREN) {
			name := p.ident("constructor declaration")
			td.Methods = append(td.Methods, p.parseMethod(m, name, nil, true))
			return
		}
		typ := p.parseTypeRef()
		name := p.ident("member declaration")
		if p.curTokenIs(token.LPAREN) {
			td.Methods = append(td.Methods, p.parseMethod(m, name, typ, false))
			return
		}
		td.Fields = append(td.Fields, p.parseField(m, typ, name))
	default:
		p.tokenError("member declaration")
	}
}

func (p *Parser) parseMethod(m modifiers, name *ast.Ident, result *ast.TypeRef, ctor bool) *ast.MethodDecl {
	md := &ast.MethodDecl{
		Name:        name,
		Constructor: ctor,
		Result:      result,
		Static:      m.static,
		Deprecated:  m.deprecated,
		Suppress:    m.suppress,
	}
	p.expect("method declaration", token.LPAREN)
	for !p.curTokenIs(token.RPAREN) {
		p.parseModifiers()
		param := &ast.Param{Type: p.parseTypeRef()}
		param.Name = p.ident("parameter")
		md.Params = append(md.Params, param)
		if !p.accept(token.COMMA) {
			break
		}
	}
	md.Rparen = position(p.expect("method declaration", token.RPAREN).StartPosition)
	if p.accept(token.THROWS) {
		p.parseTypeList()
	}
	if p.accept(token.SEMICOLON) {
		return md
	}
	md.Body = p.parseBlock()
	return md
}

func (p *Parser) parseField(m modifiers, typ *ast.TypeRef, name *ast.Ident) *ast.FieldDecl {
	fd := &ast.FieldDecl{
		Type:       typ,
		Static:     m.static,
		Deprecated: m.deprecated,
		Suppress:   m.suppress,
	}
	hasValue := false
	for {
		fd.Names = append(fd.Names, name)
		var value ast.Expr
		if p.accept(token.ASSIGN) {
			value = p.parseExpr()
			hasValue = true
		}
		fd.Values = append(fd.Values, value)
		if !p.accept(token.COMMA) {
			break
		}
		name = p.ident("field declaration")
	}
	if !hasValue {
		fd.Values = nil
	}
	p.expect("field declaration", token.SEMICOLON)
	return fd
}
