package types

import (
	"fmt"
	"strings"
	"unicode"
)

var primitivesByName = map[string]Primitive{
	"boolean": Boolean,
	"byte":    Byte,
	"short":   Short,
	"char":    Char,
	"int":     Int,
	"long":    Long,
	"float":   Float,
	"double":  Double,
	"void":    Void,
}

// LookupPrimitive returns the primitive type or void with the given name.
func LookupPrimitive(name string) (Primitive, bool) {
	p, ok := primitivesByName[name]
	return p, ok
}

// implicitLang lists the java.lang types usable by simple name.
var implicitLang = map[string]bool{
	"Object": true, "String": true, "Integer": true, "Long": true,
	"Short": true, "Byte": true, "Character": true, "Boolean": true,
	"Float": true, "Double": true, "Number": true, "Comparable": true,
	"CharSequence": true, "Iterable": true, "Cloneable": true,
	"Throwable": true, "Exception": true, "RuntimeException": true,
	"Error": true, "System": true, "Deprecated": true,
}

// Resolve maps a simple or qualified name to a type; ok is false when the
// name is not known to it.
type Resolve func(name string) (Type, bool)

// Parse parses the Java source form of a type, for example int[],
// java.util.List<? extends Number> or String. Simple java.lang names are
// qualified. Other names are taken as written.
func Parse(s string) (Type, error) {
	return ParseWith(s, nil)
}

// ParseWith parses a type, consulting resolve for every name before the
// default rules. It lets callers map type parameter names to variables.
func ParseWith(s string, resolve Resolve) (Type, error) {
	p := &typeParser{src: s, resolve: resolve}
	p.next()
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.tok != "" {
		return nil, fmt.Errorf("parse type %q: unexpected %q", s, p.tok)
	}
	return t, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Type {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

type typeParser struct {
	src     string
	pos     int
	tok     string
	resolve Resolve
}

func (p *typeParser) next() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
	if p.pos >= len(p.src) {
		p.tok = ""
		return
	}
	start := p.pos
	c := rune(p.src[p.pos])
	if isIdent(c) {
		for p.pos < len(p.src) && (isIdent(rune(p.src[p.pos])) || p.src[p.pos] == '.') {
			p.pos++
		}
	} else if strings.HasPrefix(p.src[p.pos:], "[]") {
		p.pos += 2
	} else {
		p.pos++
	}
	p.tok = p.src[start:p.pos]
}

func isIdent(c rune) bool {
	return c == '_' || c == '$' || unicode.IsLetter(c) || unicode.IsDigit(c)
}

func (p *typeParser) errorf(format string, args ...any) error {
	return fmt.Errorf("parse type %q: %s", p.src, fmt.Sprintf(format, args...))
}

func (p *typeParser) parseType() (Type, error) {
	if p.tok == "" {
		return nil, p.errorf("unexpected end of input")
	}
	if !isIdent(rune(p.tok[0])) {
		return nil, p.errorf("unexpected %q", p.tok)
	}
	name := p.tok
	p.next()
	var t Type
	if prim, ok := primitivesByName[name]; ok {
		t = prim
	} else if name == "null" {
		t = Null
	} else {
		var args []Type
		if p.tok == "<" {
			p.next()
			for {
				arg, err := p.parseArg()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.tok == "," {
					p.next()
					continue
				}
				break
			}
			if p.tok != ">" {
				return nil, p.errorf("expected > but found %q", p.tok)
			}
			p.next()
		}
		t = p.named(name, args)
	}
	for p.tok == "[]" {
		t = Array{Elem: t}
		p.next()
	}
	return t, nil
}

func (p *typeParser) named(name string, args []Type) Type {
	if p.resolve != nil {
		if t, ok := p.resolve(name); ok {
			if r, isRef := t.(Reference); isRef && len(args) > 0 {
				return Reference{Name: r.Name, Args: args}
			}
			return t
		}
	}
	if implicitLang[name] {
		name = "java.lang." + name
	}
	return Reference{Name: name, Args: args}
}

func (p *typeParser) parseArg() (Type, error) {
	if p.tok != "?" {
		return p.parseType()
	}
	p.next()
	switch p.tok {
	case "extends", "super":
		super := p.tok == "super"
		p.next()
		bound, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return Wildcard{Bound: bound, Super: super}, nil
	}
	return Wildcard{}, nil
}
