package checker

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/jcore/ast"
	"github.com/deepnoodle-ai/jcore/errors"
	"github.com/deepnoodle-ai/jcore/symbol"
	"github.com/deepnoodle-ai/jcore/types"
)

// typeRef resolves a type reference and records it.
func (c *Checker) typeRef(ref *ast.TypeRef) types.Type {
	t := c.resolveRef(ref, false)
	c.info.TypeRefs[ref] = t
	return t
}

// qualifierRef resolves the type qualifying a static member access. Raw
// qualifiers are not reported.
func (c *Checker) qualifierRef(ref *ast.TypeRef) types.Type {
	t := c.resolveRef(ref, true)
	c.info.TypeRefs[ref] = t
	return t
}

func (c *Checker) resolveRef(ref *ast.TypeRef, qualifier bool) types.Type {
	switch ref.Wildcard {
	case ast.Unbounded:
		return types.Wildcard{}
	case ast.Extends, ast.Super:
		bound := c.namedType(ref, false)
		if types.IsErroneous(bound) {
			return types.Erroneous
		}
		return types.Wildcard{Bound: bound, Super: ref.Wildcard == ast.Super}
	}
	t := c.namedType(ref, qualifier)
	if types.IsErroneous(t) {
		return types.Erroneous
	}
	for i := 0; i < ref.Dims; i++ {
		t = types.Array{Elem: t}
	}
	return t
}

func (c *Checker) isTypeParam(name string) bool {
	for _, p := range c.frame.params {
		if p == name {
			return true
		}
	}
	return false
}

// namedType resolves the name and type arguments of a reference, ignoring
// its dimensions.
func (c *Checker) namedType(ref *ast.TypeRef, qualifier bool) types.Type {
	segs := ref.Segments
	if len(segs) == 0 {
		return types.Erroneous
	}
	if len(segs) == 1 {
		name := segs[0].Name
		if p, ok := types.LookupPrimitive(name); ok {
			return p
		}
		if c.isTypeParam(name) {
			return types.TypeVariable{Name: name}
		}
	}
	sym := c.lookupTypeName(ref)
	if sym == nil {
		return types.Erroneous
	}
	last := segs[len(segs)-1]
	if len(sym.TypeParams) == 0 {
		if len(ref.Args) > 0 {
			c.report(errors.Error, errors.E2101, errors.ErrTypeMismatch, segs[0].Pos(), ref.End(),
				fmt.Sprintf("The type %s is not generic; it cannot be parameterized with arguments <%s>",
					c.tracker.SourceName(sym.QualifiedName), argList(ref.Args)))
			return types.Erroneous
		}
		return sym.Type
	}
	if len(ref.Args) == 0 {
		if !qualifier && c.opts.RawTypeReference != errors.Ignore {
			name := c.tracker.SourceName(sym.QualifiedName)
			c.report(c.opts.RawTypeReference, errors.E2301, errors.ErrRawType, segs[0].Pos(), last.End(),
				fmt.Sprintf("%s is a raw type. References to generic type %s<%s> should be parameterized",
					name, name, strings.Join(sym.TypeParams, ",")))
		}
		return types.Reference{Name: sym.QualifiedName}
	}
	if len(ref.Args) != len(sym.TypeParams) {
		c.report(errors.Error, errors.E2101, errors.ErrTypeMismatch, segs[0].Pos(), ref.End(),
			fmt.Sprintf("Incorrect number of arguments for type %s<%s>; it cannot be parameterized with arguments <%s>",
				c.tracker.SourceName(sym.QualifiedName), strings.Join(sym.TypeParams, ","), argList(ref.Args)))
		return types.Erroneous
	}
	args := make([]types.Type, len(ref.Args))
	for i, a := range ref.Args {
		args[i] = c.typeRef(a)
		if types.IsErroneous(args[i]) {
			return types.Erroneous
		}
	}
	return types.Reference{Name: sym.QualifiedName, Args: args}
}

func argList(refs []*ast.TypeRef) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}

// lookupTypeName resolves the segments of a type name. The first segment
// is looked up as a simple type name; if that fails, leading segments are
// taken as a package name. Each remaining segment names a member type.
// Every type along the way is checked for deprecation, marked on its own
// segment.
func (c *Checker) lookupTypeName(ref *ast.TypeRef) *symbol.Symbol {
	segs := ref.Segments
	next := 1
	sym := c.lookupSimpleType(segs[0].Name)
	if sym == nil {
		for i := 1; i < len(segs) && sym == nil; i++ {
			if s, ok := c.table.LookupType(joinSegments(segs[:i+1])); ok {
				sym, next = s, i+1
			}
		}
		if sym == nil {
			c.unresolvedType(ref.Name(), segs[0].Pos(), segs[len(segs)-1].End())
			return nil
		}
	}
	c.checkDeprecated(sym, segs[next-1].Pos(), segs[next-1].End())
	for ; next < len(segs); next++ {
		s, ok := c.table.LookupType(sym.QualifiedName + "." + segs[next].Name)
		if !ok {
			c.unresolvedType(joinSegments(segs[:next+1]), segs[0].Pos(), segs[next].End())
			return nil
		}
		sym = s
		c.checkDeprecated(sym, segs[next].Pos(), segs[next].End())
	}
	return sym
}

func (c *Checker) unresolvedType(name string, from, to ast.Position) {
	c.report(errors.Error, errors.E2001, errors.ErrUnresolvedSymbol, from, to,
		name+" cannot be resolved to a type",
		errors.SuggestSimilar(types.SimpleName(name), c.visibleTypeNames())...)
}

func joinSegments(segs []*ast.Ident) string {
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = s.Name
	}
	return strings.Join(parts, ".")
}

// lookupSimpleType finds a type by simple name: member types of the
// enclosing types, then the unit's package, then imports, then java.lang.
func (c *Checker) lookupSimpleType(name string) *symbol.Symbol {
	outer := c.frame.outer
	for i := len(outer) - 1; i >= 0; i-- {
		if s, ok := c.table.LookupType(outer[i] + "." + name); ok {
			return s
		}
		if types.SimpleName(outer[i]) == name {
			if s, ok := c.table.LookupType(outer[i]); ok {
				return s
			}
		}
	}
	if s, ok := c.table.LookupType(qualify(c.unit.Package, name)); ok {
		return s
	}
	for _, imp := range c.unit.Imports {
		if pkg, ok := strings.CutSuffix(imp, ".*"); ok {
			if s, ok := c.table.LookupType(pkg + "." + name); ok {
				return s
			}
			continue
		}
		if types.SimpleName(imp) == name {
			if s, ok := c.table.LookupType(imp); ok {
				return s
			}
		}
	}
	if s, ok := c.table.LookupType("java.lang." + name); ok {
		return s
	}
	return nil
}

// visibleTypeNames returns simple names of types usable without
// qualification, for suggestions.
func (c *Checker) visibleTypeNames() []string {
	var names []string
	pkg := c.unit.Package
	for _, qn := range c.table.TypeNames() {
		s, _ := c.table.LookupType(qn)
		switch s.Enclosing {
		case pkg, "java.lang":
			names = append(names, s.Name)
		default:
			for _, o := range c.frame.outer {
				if s.Enclosing == o {
					names = append(names, s.Name)
				}
			}
		}
	}
	return names
}

// typeName reclassifies a dotted name parsed as an expression as a type
// when its first segment is not a variable or field and the whole name
// resolves to a type. The type is recorded in Info.TypeNames.
func (c *Checker) typeName(x ast.Expr) (types.Type, bool) {
	segs, ok := nameSegments(x)
	if !ok {
		return nil, false
	}
	first := segs[0].Name
	if c.frame.vars != nil {
		if _, ok := c.frame.vars.lookup(first); ok {
			return nil, false
		}
	}
	if f, _ := c.implicitField(first); f != nil {
		return nil, false
	}
	if !c.isTypeName(segs) {
		return nil, false
	}
	t := c.qualifierRef(&ast.TypeRef{Segments: segs})
	c.info.TypeNames[x] = t
	return t, true
}

// nameSegments returns the identifiers of a name chain such as a.b.c.
func nameSegments(x ast.Expr) ([]*ast.Ident, bool) {
	switch x := x.(type) {
	case *ast.Local:
		return []*ast.Ident{x.Name}, true
	case *ast.FieldAccess:
		if x.Target == nil {
			return nil, false
		}
		segs, ok := nameSegments(x.Target)
		if !ok {
			return nil, false
		}
		return append(segs, x.Name), true
	}
	return nil, false
}

// isTypeName reports whether the segments name a type, following the
// lookup order of lookupTypeName without reporting anything.
func (c *Checker) isTypeName(segs []*ast.Ident) bool {
	next := 1
	sym := c.lookupSimpleType(segs[0].Name)
	for i := 1; sym == nil && i < len(segs); i++ {
		if s, ok := c.table.LookupType(joinSegments(segs[:i+1])); ok {
			sym, next = s, i+1
		}
	}
	if sym == nil {
		return false
	}
	for ; next < len(segs); next++ {
		s, ok := c.table.LookupType(sym.QualifiedName + "." + segs[next].Name)
		if !ok {
			return false
		}
		sym = s
	}
	return true
}
