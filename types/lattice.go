package types

import (
	"fmt"
	"sort"
	"strings"
)

// maxArgDepth bounds the recursion of least containing type argument
// computations. Deeper arguments collapse to the unbounded wildcard.
const maxArgDepth = 1

// Resolver computes subtyping, least upper bounds, conditional expression
// types and conversions against a Hierarchy. It holds no mutable state and
// may be shared.
type Resolver struct {
	hierarchy Hierarchy
	boxing    bool
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithoutBoxing selects the rules of source levels before 1.5: no boxing or
// unboxing, and reference operands of a conditional must be assignable one
// to the other.
func WithoutBoxing() ResolverOption {
	return func(r *Resolver) {
		r.boxing = false
	}
}

// NewResolver returns a Resolver using the given hierarchy, or Lang when h
// is nil.
func NewResolver(h Hierarchy, opts ...ResolverOption) *Resolver {
	if h == nil {
		h = Lang
	}
	r := &Resolver{hierarchy: h, boxing: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Default resolves against the built-in hierarchy with 1.5+ rules.
var Default = NewResolver(nil)

// BoxingEnabled reports whether boxing and unboxing conversions apply.
func (r *Resolver) BoxingEnabled() bool {
	return r.boxing
}

// directSupertypes returns the direct supertypes of t with t's type
// arguments substituted for the declared parameters. Supertypes of a raw
// type are erased.
func (r *Resolver) directSupertypes(t Reference) []Type {
	supers := r.hierarchy.Supertypes(t.Name)
	if len(supers) == 0 && t.Name != Object.Name {
		return []Type{Object}
	}
	params := r.hierarchy.TypeParameters(t.Name)
	if len(params) == 0 {
		return supers
	}
	out := make([]Type, len(supers))
	if len(t.Args) != len(params) {
		for i, s := range supers {
			out[i] = Erasure(s)
		}
		return out
	}
	subst := make(map[string]Type, len(params))
	for i, p := range params {
		subst[p] = t.Args[i]
	}
	for i, s := range supers {
		out[i] = substitute(s, subst)
	}
	return out
}

// Substitute replaces the type variables named by params with the
// corresponding args. Extra params or args are ignored.
func Substitute(t Type, params []string, args []Type) Type {
	subst := make(map[string]Type, len(params))
	for i, p := range params {
		if i < len(args) {
			subst[p] = args[i]
		}
	}
	return substitute(t, subst)
}

func substitute(t Type, subst map[string]Type) Type {
	switch t := t.(type) {
	case TypeVariable:
		if s, ok := subst[t.Name]; ok {
			return s
		}
	case Reference:
		if len(t.Args) == 0 {
			return t
		}
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = substitute(a, subst)
		}
		return Reference{Name: t.Name, Args: args}
	case Array:
		return Array{Elem: substitute(t.Elem, subst)}
	case Wildcard:
		if t.Bound != nil {
			return Wildcard{Bound: substitute(t.Bound, subst), Super: t.Super}
		}
	}
	return t
}

// closure maps the erased name of every supertype of t, t included, to its
// parameterization as seen from t.
func (r *Resolver) closure(t Type) map[string]Type {
	out := map[string]Type{}
	r.collect(t, out, 0)
	return out
}

func (r *Resolver) collect(t Type, out map[string]Type, depth int) {
	if depth > 64 {
		return
	}
	switch t := t.(type) {
	case Reference:
		if _, seen := out[t.Name]; seen {
			return
		}
		out[t.Name] = t
		for _, s := range r.directSupertypes(t) {
			r.collect(s, out, depth+1)
		}
	case TypeVariable:
		out["<"+t.Name+">"] = t
		r.collect(t.UpperBound(), out, depth+1)
	case Intersection:
		for _, b := range t.Bounds {
			r.collect(b, out, depth+1)
		}
	case Array:
		r.collect(Object, out, depth+1)
		r.collect(Cloneable, out, depth+1)
		r.collect(Serializable, out, depth+1)
	}
}

// IsSubtype reports whether a is a subtype of b. Primitive types are only
// subtypes of themselves.
func (r *Resolver) IsSubtype(a, b Type) bool {
	if Identical(a, b) {
		return true
	}
	if bi, ok := b.(Intersection); ok {
		for _, bound := range bi.Bounds {
			if !r.IsSubtype(a, bound) {
				return false
			}
		}
		return true
	}
	switch a := a.(type) {
	case nullType:
		return IsReference(b)
	case Array:
		switch b := b.(type) {
		case Array:
			if IsPrimitive(a.Elem) || IsPrimitive(b.Elem) {
				return Identical(a.Elem, b.Elem)
			}
			return r.IsSubtype(a.Elem, b.Elem)
		case Reference:
			if len(b.Args) != 0 {
				return false
			}
			return b.Name == Object.Name || b.Name == Cloneable.Name || b.Name == Serializable.Name
		}
		return false
	case TypeVariable:
		return r.IsSubtype(a.UpperBound(), b)
	case Intersection:
		for _, bound := range a.Bounds {
			if r.IsSubtype(bound, b) {
				return true
			}
		}
		return false
	case Reference:
		b, ok := b.(Reference)
		if !ok {
			return false
		}
		inst, ok := r.closure(a)[b.Name]
		if !ok {
			return false
		}
		ir := inst.(Reference)
		if len(b.Args) == 0 || len(ir.Args) == 0 {
			return true
		}
		if len(ir.Args) != len(b.Args) {
			return false
		}
		for i := range b.Args {
			if !r.contains(b.Args[i], ir.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// contains reports whether type argument outer contains inner.
func (r *Resolver) contains(outer, inner Type) bool {
	w, ok := outer.(Wildcard)
	if !ok {
		return Identical(outer, inner)
	}
	if w.Bound == nil {
		return true
	}
	if iw, ok := inner.(Wildcard); ok {
		if iw.Bound == nil || iw.Super != w.Super {
			return !w.Super && Identical(w.Bound, Object) && !iw.Super
		}
		if w.Super {
			return r.IsSubtype(w.Bound, iw.Bound)
		}
		return r.IsSubtype(iw.Bound, w.Bound)
	}
	if w.Super {
		return r.IsSubtype(w.Bound, inner)
	}
	return r.IsSubtype(inner, w.Bound)
}

// LUB returns the least upper bound of two reference types. Several
// minimal candidates yield an Intersection ordered classes first, then
// interfaces by name.
func (r *Resolver) LUB(a, b Type) Type {
	return r.lub(a, b, 0)
}

func (r *Resolver) lub(a, b Type, depth int) Type {
	if r.IsSubtype(a, b) {
		return b
	}
	if r.IsSubtype(b, a) {
		return a
	}
	if aa, ok := a.(Array); ok {
		if ba, ok := b.(Array); ok && !IsPrimitive(aa.Elem) && !IsPrimitive(ba.Elem) {
			return Array{Elem: r.lub(aa.Elem, ba.Elem, depth)}
		}
	}
	ca, cb := r.closure(a), r.closure(b)
	var candidates []string
	for name := range ca {
		if strings.HasPrefix(name, "<") {
			continue
		}
		if _, ok := cb[name]; ok {
			candidates = append(candidates, name)
		}
	}
	var minimal []string
	for _, c := range candidates {
		isMinimal := true
		for _, d := range candidates {
			if d != c && r.erasedSubtype(d, c) {
				isMinimal = false
				break
			}
		}
		if isMinimal {
			minimal = append(minimal, c)
		}
	}
	if len(minimal) == 0 {
		return Object
	}
	sort.Slice(minimal, func(i, j int) bool {
		ii, ij := r.hierarchy.IsInterface(minimal[i]), r.hierarchy.IsInterface(minimal[j])
		if ii != ij {
			return !ii
		}
		return minimal[i] < minimal[j]
	})
	bounds := make([]Type, len(minimal))
	for i, name := range minimal {
		bounds[i] = r.lci(ca[name], cb[name], depth)
	}
	if len(bounds) == 1 {
		return bounds[0]
	}
	return Intersection{Bounds: bounds}
}

func (r *Resolver) erasedSubtype(sub, super string) bool {
	_, ok := r.closure(Reference{Name: sub})[super]
	return ok
}

// lci returns the least containing invocation of two parameterizations of
// the same generic type.
func (r *Resolver) lci(x, y Type, depth int) Type {
	xr, _ := x.(Reference)
	yr, _ := y.(Reference)
	if Identical(xr, yr) {
		return xr
	}
	if len(xr.Args) == 0 || len(xr.Args) != len(yr.Args) {
		return xr.Raw()
	}
	args := make([]Type, len(xr.Args))
	for i := range xr.Args {
		args[i] = r.lcta(xr.Args[i], yr.Args[i], depth+1)
	}
	return Reference{Name: xr.Name, Args: args}
}

func (r *Resolver) lcta(x, y Type, depth int) Type {
	if Identical(x, y) {
		return x
	}
	if depth > maxArgDepth {
		return Wildcard{}
	}
	xb, ok := extendsBound(x)
	if !ok {
		return Wildcard{}
	}
	yb, ok := extendsBound(y)
	if !ok {
		return Wildcard{}
	}
	bound := r.lub(xb, yb, depth)
	if Identical(bound, Object) {
		return Wildcard{}
	}
	return Wildcard{Bound: bound}
}

func extendsBound(t Type) (Type, bool) {
	if w, ok := t.(Wildcard); ok {
		if w.Bound == nil || w.Super {
			return nil, false
		}
		return w.Bound, true
	}
	return t, true
}

// Capture applies capture conversion: every wildcard argument of a
// parameterized type becomes a fresh type variable bounded by the wildcard's
// upper bound.
func Capture(t Type) Type {
	switch t := t.(type) {
	case Reference:
		if !hasWildcard(t.Args) {
			return t
		}
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			w, ok := a.(Wildcard)
			if !ok {
				args[i] = a
				continue
			}
			var bound Type = Object
			if w.Bound != nil && !w.Super {
				bound = w.Bound
			}
			args[i] = TypeVariable{
				Name:  fmt.Sprintf("capture#%d-of %s", i+1, w),
				Bound: bound,
			}
		}
		return Reference{Name: t.Name, Args: args}
	case Intersection:
		bounds := make([]Type, len(t.Bounds))
		for i, b := range t.Bounds {
			bounds[i] = Capture(b)
		}
		return Intersection{Bounds: bounds}
	}
	return t
}

func hasWildcard(args []Type) bool {
	for _, a := range args {
		if _, ok := a.(Wildcard); ok {
			return true
		}
	}
	return false
}
