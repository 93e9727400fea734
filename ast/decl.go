package ast

import (
	"strings"
)

// Decl represents a type or member declaration.
type Decl interface {
	Node
	declNode()
}

// Unit is a compilation unit. A package-info unit declares no types and
// carries the package annotation.
type Unit struct {
	// Name identifies the unit in diagnostics, for example p/X.java.
	Name    string
	Package string
	// Imports are single-type imports by qualified name.
	Imports []string
	// PackageDeprecation is the @Deprecated annotation of a package-info
	// unit.
	PackageDeprecation *Deprecation
	// Source is the unit text, used to quote lines in diagnostics.
	Source string
	Types  []*TypeDecl
}

func (u *Unit) Pos() Position { return Position{Line: 1, Column: 1} }

func (u *Unit) End() Position {
	if len(u.Types) == 0 {
		return u.Pos()
	}
	return u.Types[len(u.Types)-1].End()
}

func (u *Unit) String() string {
	var b strings.Builder
	if u.Package != "" {
		b.WriteString("package " + u.Package + ";\n")
	}
	for _, imp := range u.Imports {
		b.WriteString("import " + imp + ";\n")
	}
	for _, t := range u.Types {
		b.WriteString(t.String() + "\n")
	}
	return b.String()
}

// IsPackageInfo reports whether the unit is a package-info unit.
func (u *Unit) IsPackageInfo() bool {
	return strings.HasSuffix(u.Name, "package-info.java")
}

// Line returns the 1-based source line n, or an empty string.
func (u *Unit) Line(n int) string {
	if n < 1 || u.Source == "" {
		return ""
	}
	lines := strings.Split(u.Source, "\n")
	if n > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[n-1], "\r")
}

// TypeDecl declares a class or interface.
type TypeDecl struct {
	Name       *Ident
	Interface  bool
	Static     bool
	TypeParams []string
	Super      *TypeRef
	Interfaces []*TypeRef
	Deprecated *Deprecation
	// Suppress holds the @SuppressWarnings tokens of the declaration.
	Suppress []string
	Fields   []*FieldDecl
	Methods  []*MethodDecl
	Types    []*TypeDecl
	EndPos   Position
}

func (d *TypeDecl) declNode() {}

func (d *TypeDecl) Pos() Position { return d.Name.Pos() }

func (d *TypeDecl) End() Position {
	if d.EndPos.IsValid() {
		return d.EndPos
	}
	return d.Name.End()
}

func (d *TypeDecl) String() string {
	var b strings.Builder
	if d.Interface {
		b.WriteString("interface ")
	} else {
		b.WriteString("class ")
	}
	b.WriteString(d.Name.Name)
	if len(d.TypeParams) > 0 {
		b.WriteString("<" + strings.Join(d.TypeParams, ", ") + ">")
	}
	if d.Super != nil {
		b.WriteString(" extends " + d.Super.String())
	}
	if len(d.Interfaces) > 0 {
		names := make([]string, len(d.Interfaces))
		for i, ref := range d.Interfaces {
			names[i] = ref.String()
		}
		if d.Interface {
			b.WriteString(" extends ")
		} else {
			b.WriteString(" implements ")
		}
		b.WriteString(strings.Join(names, ", "))
	}
	b.WriteString(" {")
	for _, f := range d.Fields {
		b.WriteString("\n\t" + f.String())
	}
	for _, m := range d.Methods {
		b.WriteString("\n\t" + strings.ReplaceAll(m.String(), "\n", "\n\t"))
	}
	for _, t := range d.Types {
		b.WriteString("\n\t" + strings.ReplaceAll(t.String(), "\n", "\n\t"))
	}
	b.WriteString("\n}")
	return b.String()
}

// FieldDecl declares one or more fields sharing a type and modifiers.
// Values is either empty or parallel to Names, with nil entries for
// declarators without an initializer.
type FieldDecl struct {
	Type       *TypeRef
	Names      []*Ident
	Values     []Expr
	Static     bool
	Deprecated *Deprecation
	Suppress   []string
}

func (d *FieldDecl) declNode() {}

func (d *FieldDecl) Pos() Position { return d.Type.Pos() }

func (d *FieldDecl) End() Position {
	last := d.Names[len(d.Names)-1].End()
	if n := len(d.Values); n > 0 && d.Values[n-1] != nil {
		last = d.Values[n-1].End()
	}
	return last.Advance(1)
}

func (d *FieldDecl) String() string {
	parts := make([]string, len(d.Names))
	for i, name := range d.Names {
		parts[i] = name.Name
		if i < len(d.Values) && d.Values[i] != nil {
			parts[i] += " = " + d.Values[i].String()
		}
	}
	prefix := ""
	if d.Static {
		prefix = "static "
	}
	return prefix + d.Type.String() + " " + strings.Join(parts, ", ") + ";"
}

// Param is a method parameter.
type Param struct {
	Type *TypeRef
	Name *Ident
}

func (p *Param) Pos() Position  { return p.Type.Pos() }
func (p *Param) End() Position  { return p.Name.End() }
func (p *Param) String() string { return p.Type.String() + " " + p.Name.Name }

// MethodDecl declares a method or constructor. Result is nil for void
// methods and constructors.
type MethodDecl struct {
	Name        *Ident
	Constructor bool
	Params      []*Param
	Result      *TypeRef
	Static      bool
	Deprecated  *Deprecation
	Suppress    []string
	Body        *Block
	// Rparen is the position of the ) closing the parameter list.
	Rparen Position
}

func (d *MethodDecl) declNode() {}

func (d *MethodDecl) Pos() Position {
	if d.Result != nil {
		return d.Result.Pos()
	}
	return d.Name.Pos()
}

func (d *MethodDecl) End() Position {
	if d.Body != nil {
		return d.Body.End()
	}
	return d.SignatureEnd().Advance(1)
}

// SignatureEnd returns the position after the parameter list, the end of
// the range marked by diagnostics about the declaration.
func (d *MethodDecl) SignatureEnd() Position {
	if d.Rparen.IsValid() {
		return d.Rparen.Advance(1)
	}
	return d.Name.End().Advance(2)
}

func (d *MethodDecl) String() string {
	var b strings.Builder
	if d.Static {
		b.WriteString("static ")
	}
	if !d.Constructor {
		if d.Result != nil {
			b.WriteString(d.Result.String() + " ")
		} else {
			b.WriteString("void ")
		}
	}
	params := make([]string, len(d.Params))
	for i, p := range d.Params {
		params[i] = p.String()
	}
	b.WriteString(d.Name.Name + "(" + strings.Join(params, ", ") + ")")
	if d.Body != nil {
		b.WriteString(" " + d.Body.String())
	} else {
		b.WriteString(";")
	}
	return b.String()
}
