package compiler

import (
	"fmt"
	"slices"

	"github.com/deepnoodle-ai/jcore/ast"
	"github.com/deepnoodle-ai/jcore/bytecode"
	"github.com/deepnoodle-ai/jcore/errors"
	"github.com/deepnoodle-ai/jcore/op"
	"github.com/deepnoodle-ai/jcore/symbol"
	"github.com/deepnoodle-ai/jcore/types"
)

// typeOf returns the static type the checker recorded for x.
func (c *Compiler) typeOf(x ast.Expr) (types.Type, error) {
	t, ok := c.info.TypeOf(x)
	if !ok {
		return nil, &errors.SymbolError{Name: x.String(), Location: c.location(x.Pos())}
	}
	if types.IsErroneous(t) {
		return nil, errors.Internalf(c.code.name, c.location(x.Pos()), "expression %s has an erroneous type", x)
	}
	return t, nil
}

func (c *Compiler) symbolOf(n ast.Node, name *ast.Ident) (*symbol.Symbol, error) {
	sym, ok := c.info.SymbolOf(n)
	if !ok {
		return nil, &errors.SymbolError{Name: name.Name, Location: c.location(name.Pos())}
	}
	return sym, nil
}

// expr emits x, leaving its value on the stack.
func (c *Compiler) expr(x ast.Expr) error {
	switch x := x.(type) {
	case *ast.Literal:
		return c.literal(x)
	case *ast.This:
		c.code.emit(op.Aload0)
		return nil
	case *ast.Local:
		return c.local(x)
	case *ast.FieldAccess:
		return c.fieldAccess(x)
	case *ast.MethodCall:
		return c.methodCall(x)
	case *ast.New:
		return c.newExpr(x)
	case *ast.Cast:
		return c.cast(x)
	case *ast.Conditional:
		return c.conditional(x)
	case *ast.Assign:
		return c.assign(x, true)
	}
	return errors.Internalf(c.code.name, c.location(x.Pos()), "unsupported expression %T", x)
}

// value emits x converted to type to.
func (c *Compiler) value(x ast.Expr, to types.Type) error {
	if lit, ok := x.(*ast.Literal); ok && types.IsPrimitive(to) {
		return c.constant(lit, to)
	}
	if err := c.expr(x); err != nil {
		return err
	}
	from, err := c.typeOf(x)
	if err != nil {
		return err
	}
	return c.convert(from, to)
}

func (c *Compiler) local(x *ast.Local) error {
	if l, ok := c.code.locals.Resolve(x.Name.Name); ok {
		c.load(l)
		return nil
	}
	f, err := c.symbolOf(x, x.Name)
	if err != nil {
		return err
	}
	return c.implicitField(x, f, x.Name)
}

// implicitOwner returns the innermost type enclosing the current one, the
// current one included, through which a member named by a simple name is
// found.
func (c *Compiler) implicitOwner(m *symbol.Symbol) string {
	for t := c.typ; t != nil; {
		if m.Kind == symbol.Field {
			if found, _ := c.table.Field(t.QualifiedName, m.Name); found == m {
				return t.QualifiedName
			}
		} else if slices.Contains(c.table.Methods(t.QualifiedName, m.Name), m) {
			return t.QualifiedName
		}
		outer, ok := c.table.LookupType(t.Enclosing)
		if !ok {
			break
		}
		t = outer
	}
	return c.typ.QualifiedName
}

// implicitField loads a field named without a qualifier.
func (c *Compiler) implicitField(x ast.Expr, f *symbol.Symbol, name *ast.Ident) error {
	c.code.setLine(name.Pos().Line)
	if f.Static {
		if err := c.fieldInsn(op.Getstatic, f, c.implicitOwner(f)); err != nil {
			return err
		}
	} else {
		c.code.emit(op.Aload0)
		if err := c.fieldInsn(op.Getfield, f, c.typ.QualifiedName); err != nil {
			return err
		}
	}
	return c.castResult(f.Type, x)
}

// qualifier emits the target of a member access and returns the type that
// qualifies the member. Type names produce no code. The value of a target
// qualifying a static member is evaluated and discarded.
func (c *Compiler) qualifier(target ast.Expr, owner *ast.TypeRef, static bool) (types.Type, error) {
	if owner != nil {
		t, ok := c.info.TypeOfRef(owner)
		if !ok {
			return nil, &errors.SymbolError{Name: owner.Name(), Location: c.location(owner.Pos())}
		}
		return t, nil
	}
	if t, ok := c.info.TypeName(target); ok {
		return t, nil
	}
	if err := c.expr(target); err != nil {
		return nil, err
	}
	t, err := c.typeOf(target)
	if err != nil {
		return nil, err
	}
	if static {
		c.pop(t)
	}
	return t, nil
}

func (c *Compiler) fieldAccess(x *ast.FieldAccess) error {
	f, ok := c.info.SymbolOf(x)
	if !ok {
		if x.Target != nil && x.Name.Name == "length" {
			return c.arrayLength(x)
		}
		return &errors.SymbolError{Name: x.Name.Name, Location: c.location(x.Name.Pos())}
	}
	if x.Target == nil && x.Owner == nil {
		return c.implicitField(x, f, x.Name)
	}
	owner, err := c.qualifier(x.Target, x.Owner, f.Static)
	if err != nil {
		return err
	}
	c.code.setLine(x.Name.Pos().Line)
	if err := c.fieldInsn(getOp(f.Static), f, ownerOf(owner)); err != nil {
		return err
	}
	return c.castResult(f.Type, x)
}

func (c *Compiler) arrayLength(x *ast.FieldAccess) error {
	if err := c.expr(x.Target); err != nil {
		return err
	}
	t, err := c.typeOf(x.Target)
	if err != nil {
		return err
	}
	if _, ok := t.(types.Array); !ok {
		return &errors.SymbolError{Name: x.Name.Name, Location: c.location(x.Name.Pos())}
	}
	c.code.setLine(x.Name.Pos().Line)
	c.code.emit(op.Arraylength)
	return nil
}

// castResult checks the value of a member access whose declared type
// erases to a supertype of the type seen through a parameterized owner.
func (c *Compiler) castResult(declared types.Type, x ast.Expr) error {
	t, err := c.typeOf(x)
	if err != nil {
		return err
	}
	if !types.IsReference(t) || t.Kind() == types.KindNull {
		return nil
	}
	if c.descriptor(declared) == c.descriptor(t) {
		return nil
	}
	return c.checkcast(t)
}

func (c *Compiler) methodCall(x *ast.MethodCall) error {
	m, err := c.symbolOf(x, x.Name)
	if err != nil {
		return err
	}
	var owner string
	if x.Target == nil && x.Owner == nil {
		if m.Static {
			owner = c.implicitOwner(m)
		} else {
			c.code.emit(op.Aload0)
			owner = c.typ.QualifiedName
		}
	} else {
		t, err := c.qualifier(x.Target, x.Owner, m.Static)
		if err != nil {
			return err
		}
		owner = ownerOf(t)
	}
	if m.Owner() == types.Object.Name && c.table.IsInterface(owner) {
		owner = types.Object.Name
	}

	c.code.setLine(x.Name.Pos().Line)
	desc := ""
	if m.PolymorphicSignature {
		d, ok := c.info.CallDescriptors[x]
		if !ok {
			return errors.Internalf(c.code.name, c.location(x.Name.Pos()), "no call site descriptor for %s", x.Name.Name)
		}
		desc = d
		for _, a := range x.Args {
			if err := c.expr(a); err != nil {
				return err
			}
		}
	} else {
		if len(x.Args) != len(m.Params) {
			return errors.Internalf(c.code.name, c.location(x.Name.Pos()),
				"%s takes %d arguments, got %d", m.Name, len(m.Params), len(x.Args))
		}
		for i, a := range x.Args {
			if err := c.value(a, types.Erasure(m.Params[i])); err != nil {
				return err
			}
		}
	}

	c.code.setLine(x.Name.Pos().Line)
	opcode := op.Invokevirtual
	if m.Static {
		opcode = op.Invokestatic
	}
	if err := c.invoke(opcode, owner, m, desc); err != nil {
		return err
	}
	if m.PolymorphicSignature || types.IsVoid(m.Type) {
		return nil
	}
	return c.castResult(m.Type, x)
}

func (c *Compiler) newExpr(x *ast.New) error {
	ctor, err := c.symbolOf(x, &ast.Ident{Name: x.Type.Name(), NamePos: x.Type.Pos()})
	if err != nil {
		return err
	}
	t, err := c.typeOf(x)
	if err != nil {
		return err
	}
	ref, ok := types.Erasure(t).(types.Reference)
	if !ok {
		return errors.Internalf(c.code.name, c.location(x.Pos()), "cannot instantiate %s", t)
	}
	if len(x.Args) != len(ctor.Params) {
		return errors.Internalf(c.code.name, c.location(x.Pos()),
			"constructor of %s takes %d arguments, got %d", ref.Name, len(ctor.Params), len(x.Args))
	}
	c.code.setLine(x.NewPos.Line)
	idx, err := c.pool.add(bytecode.ClassConstant(c.binaryName(ref.Name)))
	if err != nil {
		return err
	}
	c.code.emit(op.New, idx)
	c.code.emit(op.Dup)
	for i, a := range x.Args {
		if err := c.value(a, types.Erasure(ctor.Params[i])); err != nil {
			return err
		}
	}
	c.code.setLine(x.NewPos.Line)
	return c.invoke(op.Invokespecial, ref.Name, ctor, "")
}

func (c *Compiler) cast(x *ast.Cast) error {
	to, err := c.typeOf(x)
	if err != nil {
		return err
	}
	return c.value(x.X, to)
}

// conditional emits cond ? then : else with both branches converted to
// the type of the whole expression.
func (c *Compiler) conditional(x *ast.Conditional) error {
	t, err := c.typeOf(x)
	if err != nil {
		return err
	}
	if err := c.value(x.Cond, types.Boolean); err != nil {
		return err
	}
	elseJump := c.code.emit(op.Ifeq, placeholder)
	depth := c.code.depth
	if err := c.value(x.Then, t); err != nil {
		return err
	}
	endJump := c.code.emit(op.Goto, placeholder)
	c.code.depth = depth
	c.code.patch(elseJump, c.code.label())
	if err := c.value(x.Else, t); err != nil {
		return err
	}
	c.code.patch(endJump, c.code.label())
	return nil
}

// assign stores a value into a variable or field. With keep set the
// stored value is also left on the stack as the value of the expression.
func (c *Compiler) assign(x *ast.Assign, keep bool) error {
	t, err := c.typeOf(x)
	if err != nil {
		return err
	}
	switch target := x.Target.(type) {
	case *ast.Local:
		if l, ok := c.code.locals.Resolve(target.Name.Name); ok {
			if err := c.value(x.Value, l.Type()); err != nil {
				return err
			}
			if keep {
				c.dup(l.Type(), false)
			}
			c.store(l)
			return nil
		}
		f, err := c.symbolOf(target, target.Name)
		if err != nil {
			return err
		}
		return c.fieldStore(nil, nil, f, target.Name, x.Value, t, keep)
	case *ast.FieldAccess:
		f, err := c.symbolOf(target, target.Name)
		if err != nil {
			return err
		}
		return c.fieldStore(target.Target, target.Owner, f, target.Name, x.Value, t, keep)
	}
	return errors.Internalf(c.code.name, c.location(x.Pos()), "cannot assign to %s", x.Target)
}

func (c *Compiler) fieldStore(target ast.Expr, ownerRef *ast.TypeRef, f *symbol.Symbol, name *ast.Ident, value ast.Expr, t types.Type, keep bool) error {
	var owner string
	if target == nil && ownerRef == nil {
		if f.Static {
			owner = c.implicitOwner(f)
		} else {
			c.code.setLine(name.Pos().Line)
			c.code.emit(op.Aload0)
			owner = c.typ.QualifiedName
		}
	} else {
		q, err := c.qualifier(target, ownerRef, f.Static)
		if err != nil {
			return err
		}
		owner = ownerOf(q)
	}
	if err := c.value(value, t); err != nil {
		return err
	}
	if keep {
		c.dup(t, !f.Static)
	}
	c.code.setLine(name.Pos().Line)
	if err := c.fieldInsn(putOp(f.Static), f, owner); err != nil {
		return fmt.Errorf("store %s: %w", f.Name, err)
	}
	return nil
}
