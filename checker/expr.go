package checker

import (
	stderrors "errors"
	"fmt"

	"github.com/deepnoodle-ai/jcore/ast"
	"github.com/deepnoodle-ai/jcore/errors"
	"github.com/deepnoodle-ai/jcore/symbol"
	"github.com/deepnoodle-ai/jcore/types"
)

// voidDescriptor is the descriptor polymorphic signature call sites use
// for null arguments.
const voidDescriptor = "Ljava/lang/Void;"

// expr checks an expression and records its type. The hint is the type a
// polymorphic signature call should produce: the target of an enclosing
// cast, void for an expression statement, or nil.
func (c *Checker) expr(x ast.Expr, hint types.Type) types.Type {
	t := c.exprType(x, hint)
	if t == nil {
		t = types.Erroneous
	}
	c.info.Types[x] = t
	return t
}

func (c *Checker) exprType(x ast.Expr, hint types.Type) types.Type {
	switch x := x.(type) {
	case *ast.Literal:
		return literalType(x)
	case *ast.This:
		if c.frame.static {
			c.errorAt(errors.E2103, errors.ErrIllegal, x, "Cannot use this in a static context")
			return types.Erroneous
		}
		return c.thisType()
	case *ast.Local:
		return c.local(x)
	case *ast.FieldAccess:
		return c.fieldAccess(x)
	case *ast.MethodCall:
		return c.methodCall(x, hint)
	case *ast.New:
		return c.newExpr(x)
	case *ast.Cast:
		return c.cast(x)
	case *ast.Conditional:
		return c.conditional(x)
	case *ast.Assign:
		return c.assign(x)
	}
	c.errorAt(errors.E2103, errors.ErrIllegal, x, "Unsupported expression "+x.String())
	return types.Erroneous
}

func literalType(x *ast.Literal) types.Type {
	switch x.Kind {
	case ast.IntLit:
		return types.Int
	case ast.LongLit:
		return types.Long
	case ast.FloatLit:
		return types.Float
	case ast.DoubleLit:
		return types.Double
	case ast.CharLit:
		return types.Char
	case ast.StringLit:
		return types.String
	case ast.BoolLit:
		return types.Boolean
	case ast.NullLit:
		return types.Null
	}
	return types.Erroneous
}

// local resolves a simple name: a local variable, or else a field of the
// current type or a static field of an enclosing type.
func (c *Checker) local(x *ast.Local) types.Type {
	name := x.Name.Name
	if c.frame.vars != nil {
		if t, ok := c.frame.vars.lookup(name); ok {
			return t
		}
	}
	if f, owner := c.implicitField(name); f != nil {
		c.info.Symbols[x] = f
		return c.useField(f, owner, x.Name)
	}
	c.unresolvedVariable(x.Name)
	return types.Erroneous
}

func (c *Checker) unresolvedVariable(id *ast.Ident) {
	var candidates []string
	if c.frame.vars != nil {
		for s := c.frame.vars; s != nil; s = s.parent {
			for n := range s.vars {
				candidates = append(candidates, n)
			}
		}
	}
	if c.frame.typ != nil {
		candidates = append(candidates, c.table.MemberNames(c.frame.typ.QualifiedName, symbol.Field)...)
	}
	c.errorAt(errors.E2001, errors.ErrUnresolvedSymbol, id, id.Name+" cannot be resolved to a variable",
		errors.SuggestSimilar(id.Name, candidates)...)
}

// implicitField finds the field an unqualified name denotes: a field of the
// current type or its supertypes, or a static field of an enclosing type.
func (c *Checker) implicitField(name string) (*symbol.Symbol, types.Type) {
	outer := c.frame.outer
	for i := len(outer) - 1; i >= 0; i-- {
		f, ok := c.table.Field(outer[i], name)
		if !ok {
			continue
		}
		if i == len(outer)-1 {
			return f, c.thisType()
		}
		if f.Static {
			return f, types.Reference{Name: outer[i]}
		}
	}
	return nil, nil
}

// useField reports deprecated and static context uses of a field accessed
// without a target and returns its type.
func (c *Checker) useField(f *symbol.Symbol, owner types.Type, name *ast.Ident) types.Type {
	if !f.Static && c.frame.static {
		c.errorAt(errors.E2103, errors.ErrIllegal, name, "Cannot make a static reference to the non-static field "+f.Name)
	}
	c.checkDeprecated(f, name.Pos(), name.End())
	return c.memberType(f, f.Type, owner)
}

// memberType substitutes the type arguments of a parameterized owner into
// the declared type of one of its members. Members seen through a raw type
// or inherited from a generic supertype are erased.
func (c *Checker) memberType(m *symbol.Symbol, declared, owner types.Type) types.Type {
	sym, ok := c.table.LookupType(m.Owner())
	if !ok || len(sym.TypeParams) == 0 {
		return declared
	}
	ref, ok := owner.(types.Reference)
	if !ok || ref.Name != m.Owner() || len(ref.Args) == 0 {
		return types.Erasure(declared)
	}
	return types.Substitute(declared, sym.TypeParams, ref.Args)
}

// ownerName returns the class whose members are looked up for a value of
// type t.
func ownerName(t types.Type) string {
	switch t := t.(type) {
	case types.Array:
		return types.Object.Name
	case types.Primitive:
		return ""
	default:
		if r, ok := types.Erasure(t).(types.Reference); ok {
			return r.Name
		}
	}
	return ""
}

func (c *Checker) fieldAccess(x *ast.FieldAccess) types.Type {
	name := x.Name.Name
	var owner types.Type
	static := false
	switch {
	case x.Owner != nil:
		owner = c.qualifierRef(x.Owner)
		static = true
	case x.Target != nil:
		if t, ok := c.typeName(x.Target); ok {
			owner, static = t, true
		} else {
			owner = c.expr(x.Target, nil)
		}
	default:
		f, ownerType := c.implicitField(name)
		if f == nil {
			c.unresolvedVariable(x.Name)
			return types.Erroneous
		}
		c.info.Symbols[x] = f
		return c.useField(f, ownerType, x.Name)
	}
	if types.IsErroneous(owner) {
		return types.Erroneous
	}
	if _, ok := owner.(types.Array); ok && name == "length" && !static {
		return types.Int
	}
	oname := ownerName(owner)
	f, ok := c.table.Field(oname, name)
	if oname == "" || !ok {
		c.errorAt(errors.E2001, errors.ErrUnresolvedSymbol, x.Name, name+" cannot be resolved or is not a field",
			errors.SuggestSimilar(name, c.table.MemberNames(oname, symbol.Field))...)
		return types.Erroneous
	}
	if static && !f.Static {
		c.errorAt(errors.E2103, errors.ErrIllegal, x.Name, "Cannot make a static reference to the non-static field "+
			c.tracker.SourceName(f.Owner())+"."+f.Name)
	}
	c.info.Symbols[x] = f
	c.checkDeprecated(f, x.Name.Pos(), x.Name.End())
	return c.memberType(f, f.Type, owner)
}

func (c *Checker) args(exprs []ast.Expr) ([]types.Type, bool) {
	ts := make([]types.Type, len(exprs))
	ok := true
	for i, a := range exprs {
		ts[i] = c.expr(a, nil)
		if types.IsErroneous(ts[i]) {
			ok = false
		}
	}
	return ts, ok
}

// Outcomes of overload resolution.
const (
	resolved = iota
	inapplicable
	ambiguous
)

// invocable reports whether an argument of type arg may be passed to a
// parameter of type param. Boxing and unboxing are allowed only when loose
// is set; constants never narrow in an invocation.
func (c *Checker) invocable(arg, param types.Type, loose bool) bool {
	if types.IsErroneous(arg) || types.IsErroneous(param) {
		return true
	}
	switch c.resolver.Classify(arg, param) {
	case types.Identity, types.WideningPrimitive, types.WideningReference:
		return true
	case types.Boxing, types.BoxingWidening, types.Unboxing, types.UnboxingWidening:
		return loose
	}
	return false
}

// applicable reports whether the arguments may be passed to the
// parameters of m, as seen from owner.
func (c *Checker) applicable(m *symbol.Symbol, owner types.Type, args []types.Type, loose bool) bool {
	if m.PolymorphicSignature {
		return true
	}
	if len(args) != len(m.Params) {
		return false
	}
	for i, p := range m.Params {
		if !c.invocable(args[i], c.memberType(m, p, owner), loose) {
			return false
		}
	}
	return true
}

// moreSpecific reports whether every parameter of a may be passed to the
// corresponding parameter of b.
func (c *Checker) moreSpecific(a, b *symbol.Symbol, owner types.Type) bool {
	for i, p := range a.Params {
		if !c.invocable(c.memberType(a, p, owner), c.memberType(b, b.Params[i], owner), false) {
			return false
		}
	}
	return true
}

// selectMethod chooses among the overloads of a method the one a call
// with the given arguments invokes. Overloads applicable without boxing
// are preferred; among the applicable ones the most specific is chosen.
// When nothing applies, or the arguments failed to check, the first
// overload taking as many arguments is returned so that the call still
// has a type.
func (c *Checker) selectMethod(candidates []*symbol.Symbol, owner types.Type, args []types.Type, argsOK bool) (*symbol.Symbol, int) {
	fallback := candidates[0]
	for _, m := range candidates {
		if len(m.Params) == len(args) {
			fallback = m
			break
		}
	}
	if !argsOK {
		return fallback, resolved
	}
	var applicable []*symbol.Symbol
	for _, loose := range []bool{false, true} {
		for _, m := range candidates {
			if c.applicable(m, owner, args, loose) {
				applicable = append(applicable, m)
			}
		}
		if len(applicable) > 0 {
			break
		}
	}
	if len(applicable) == 0 {
		return fallback, inapplicable
	}
	for _, m := range applicable {
		best := true
		for _, other := range applicable {
			if other != m && !c.moreSpecific(m, other, owner) {
				best = false
				break
			}
		}
		if best {
			return m, resolved
		}
	}
	return applicable[0], ambiguous
}

func (c *Checker) methodCall(x *ast.MethodCall, hint types.Type) types.Type {
	name := x.Name.Name
	var owner types.Type
	static := false
	implicit := false
	switch {
	case x.Owner != nil:
		owner = c.qualifierRef(x.Owner)
		static = true
	case x.Target != nil:
		if t, ok := c.typeName(x.Target); ok {
			owner, static = t, true
		} else {
			owner = c.expr(x.Target, nil)
		}
	default:
		implicit = true
		owner = c.thisType()
	}
	args, argsOK := c.args(x.Args)
	if types.IsErroneous(owner) {
		return types.Erroneous
	}
	oname := ownerName(owner)
	var candidates []*symbol.Symbol
	if oname != "" {
		candidates = c.table.Methods(oname, name)
	}
	if implicit && len(candidates) == 0 {
		for i := len(c.frame.outer) - 2; i >= 0 && len(candidates) == 0; i-- {
			for _, m := range c.table.Methods(c.frame.outer[i], name) {
				if m.Static {
					candidates = append(candidates, m)
				}
			}
			if len(candidates) > 0 {
				owner = types.Reference{Name: c.frame.outer[i]}
			}
		}
	}
	if len(candidates) == 0 {
		c.report(errors.Error, errors.E2001, errors.ErrUnresolvedSymbol, x.Name.Pos(), x.End(),
			fmt.Sprintf("The method %s(%s) is undefined for the type %s", name, joinShort(args), types.ShortString(types.Erasure(owner))),
			errors.SuggestSimilar(name, c.table.MemberNames(oname, symbol.Method))...)
		return types.Erroneous
	}
	m, outcome := c.selectMethod(candidates, owner, args, argsOK)
	c.info.Symbols[x] = m
	if !m.Static && (static || (implicit && c.frame.static)) {
		c.report(errors.Error, errors.E2103, errors.ErrIllegal, x.Name.Pos(), x.End(),
			fmt.Sprintf("Cannot make a static reference to the non-static method %s(%s) from the type %s",
				name, joinShort(m.Params), c.tracker.SourceName(m.Owner())))
	}
	c.checkDeprecated(m, x.Name.Pos(), x.End())
	if !argsOK {
		return c.resultType(m, owner, hint)
	}
	switch {
	case m.PolymorphicSignature:
		c.info.CallDescriptors[x] = polymorphicDescriptor(args, c.resultType(m, owner, hint))
	case outcome == inapplicable:
		c.report(errors.Error, errors.E2101, errors.ErrTypeMismatch, x.Name.Pos(), x.End(),
			fmt.Sprintf("The method %s(%s) in the type %s is not applicable for the arguments (%s)",
				name, joinShort(m.Params), c.tracker.SourceName(m.Owner()), joinShort(args)))
	case outcome == ambiguous:
		c.report(errors.Error, errors.E2101, errors.ErrTypeMismatch, x.Name.Pos(), x.End(),
			fmt.Sprintf("The method %s(%s) is ambiguous for the type %s",
				name, joinShort(m.Params), types.ShortString(types.Erasure(owner))))
	}
	return c.resultType(m, owner, hint)
}

// resultType returns the type of a call to m. A polymorphic signature call
// produces the type its context expects: the cast target, void in an
// expression statement, Object otherwise.
func (c *Checker) resultType(m *symbol.Symbol, owner, hint types.Type) types.Type {
	if !m.PolymorphicSignature {
		return c.memberType(m, m.Type, owner)
	}
	if hint != nil {
		return hint
	}
	return types.Object
}

func polymorphicDescriptor(args []types.Type, result types.Type) string {
	desc := "("
	for _, a := range args {
		if a.Kind() == types.KindNull {
			desc += voidDescriptor
			continue
		}
		desc += types.Erasure(a).Descriptor()
	}
	return desc + ")" + types.Erasure(result).Descriptor()
}

func (c *Checker) newExpr(x *ast.New) types.Type {
	t := c.typeRef(x.Type)
	args, argsOK := c.args(x.Args)
	if types.IsErroneous(t) {
		return types.Erroneous
	}
	ref, ok := t.(types.Reference)
	if !ok || c.table.IsInterface(ref.Name) {
		c.errorAt(errors.E2103, errors.ErrIllegal, x.Type, "Cannot instantiate the type "+types.ShortString(t))
		return types.Erroneous
	}
	candidates := c.table.Methods(ref.Name, symbol.ConstructorName)
	if len(candidates) == 0 {
		c.report(errors.Error, errors.E2001, errors.ErrUnresolvedSymbol, x.Type.Pos(), x.End(),
			fmt.Sprintf("The constructor %s(%s) is undefined", types.ShortString(ref.Raw()), joinShort(args)))
		return types.Erroneous
	}
	ctor, outcome := c.selectMethod(candidates, t, args, argsOK)
	c.info.Symbols[x] = ctor
	c.checkDeprecated(ctor, x.Type.Pos(), x.End())
	switch outcome {
	case inapplicable:
		c.report(errors.Error, errors.E2101, errors.ErrTypeMismatch, x.Type.Pos(), x.End(),
			fmt.Sprintf("The constructor %s(%s) is undefined", types.ShortString(ref.Raw()), joinShort(args)))
	case ambiguous:
		c.report(errors.Error, errors.E2101, errors.ErrTypeMismatch, x.Type.Pos(), x.End(),
			fmt.Sprintf("The constructor %s(%s) is ambiguous", types.ShortString(ref.Raw()), joinShort(ctor.Params)))
	}
	return t
}

func (c *Checker) cast(x *ast.Cast) types.Type {
	to := c.typeRef(x.Type)
	from := c.expr(x.X, to)
	if types.IsErroneous(to) || types.IsErroneous(from) {
		return to
	}
	if c.resolver.Classify(from, to) == types.Invalid {
		c.errorAt(errors.E2101, errors.ErrTypeMismatch, x,
			"Cannot cast from "+types.ShortString(from)+" to "+types.ShortString(to))
	}
	return to
}

func (c *Checker) conditional(x *ast.Conditional) types.Type {
	cond := c.expr(x.Cond, nil)
	if !types.IsErroneous(cond) {
		u, unboxed := types.Unbox(cond)
		isBool := types.Identical(cond, types.Boolean) ||
			(unboxed && c.resolver.BoxingEnabled() && types.Identical(u, types.Boolean))
		if !isBool {
			c.errorAt(errors.E2101, errors.ErrTypeMismatch, x.Cond,
				"Type mismatch: cannot convert from "+types.ShortString(cond)+" to boolean")
		}
	}
	then := c.expr(x.Then, nil)
	els := c.expr(x.Else, nil)
	t, err := c.resolver.ResolveConditionalOperands(c.operand(x.Then, then), c.operand(x.Else, els))
	if err != nil {
		var mismatch *types.MismatchError
		if stderrors.As(err, &mismatch) {
			c.errorAt(errors.E2102, errors.ErrTypeMismatch, x, mismatch.Error())
		}
		return types.Erroneous
	}
	return t
}

func (c *Checker) assign(x *ast.Assign) types.Type {
	switch x.Target.(type) {
	case *ast.Local, *ast.FieldAccess:
	default:
		c.errorAt(errors.E2103, errors.ErrIllegal, x.Target, "The left-hand side of an assignment must be a variable")
		c.expr(x.Value, nil)
		return types.Erroneous
	}
	target := c.expr(x.Target, nil)
	value := c.expr(x.Value, nil)
	if fa, ok := x.Target.(*ast.FieldAccess); ok && fa.Target != nil && fa.Name.Name == "length" {
		if _, isArray := c.info.Types[fa.Target].(types.Array); isArray {
			c.errorAt(errors.E2103, errors.ErrIllegal, x.Target, "The final field array.length cannot be assigned")
			return types.Erroneous
		}
	}
	c.checkAssignable(x.Value, value, target)
	return target
}
