package checker

import (
	"github.com/deepnoodle-ai/jcore/ast"
	"github.com/deepnoodle-ai/jcore/errors"
	"github.com/deepnoodle-ai/jcore/types"
)

// block checks the statements of a block in a new scope. It reports
// whether the block can complete normally.
func (c *Checker) block(b *ast.Block) bool {
	saved := c.frame.vars
	c.frame.vars = newVarScope(saved)
	defer func() { c.frame.vars = saved }()
	completes := true
	for _, s := range b.Stmts {
		if !c.stmt(s) {
			completes = false
		}
	}
	return completes
}

// stmt checks a statement and reports whether it can complete normally.
func (c *Checker) stmt(s ast.Stmt) bool {
	switch s := s.(type) {
	case *ast.Block:
		return c.block(s)
	case *ast.LocalDecl:
		c.localDecl(s)
	case *ast.ExprStmt:
		c.expr(s.X, types.Void)
	case *ast.Try:
		return c.try(s)
	case *ast.Return:
		c.returnStmt(s)
		return false
	case *ast.Throw:
		c.throwable(s.Value, c.expr(s.Value, nil))
		return false
	default:
		c.errorAt(errors.E2103, errors.ErrIllegal, s, "Unsupported statement "+s.String())
	}
	return true
}

func (c *Checker) localDecl(s *ast.LocalDecl) {
	typ := c.typeRef(s.Type)
	if s.Value != nil {
		c.checkAssignable(s.Value, c.expr(s.Value, nil), typ)
	}
	name := s.Name.Name
	if _, dup := c.frame.vars.lookup(name); dup {
		c.errorAt(errors.E2002, errors.ErrIllegal, s.Name, "Duplicate local variable "+name)
		return
	}
	c.frame.vars.vars[name] = typ
}

func (c *Checker) try(s *ast.Try) bool {
	completes := c.block(s.Body)
	for _, catch := range s.Catches {
		typ := c.typeRef(catch.Type)
		if !types.IsErroneous(typ) && !c.resolver.IsSubtype(typ, types.Throwable) {
			c.errorAt(errors.E2101, errors.ErrTypeMismatch, catch.Type,
				"No exception of type "+types.ShortString(typ)+" can be thrown; an exception type must be a subclass of Throwable")
		}
		saved := c.frame.vars
		c.frame.vars = newVarScope(saved)
		if _, dup := saved.lookup(catch.Name.Name); dup {
			c.errorAt(errors.E2002, errors.ErrIllegal, catch.Name, "Duplicate parameter "+catch.Name.Name)
		}
		c.frame.vars.vars[catch.Name.Name] = typ
		if c.block(catch.Body) {
			completes = true
		}
		c.frame.vars = saved
	}
	return completes
}

func (c *Checker) returnStmt(s *ast.Return) {
	result := c.frame.result
	if result == nil {
		result = types.Void
	}
	if s.Value == nil {
		if !types.IsVoid(result) && !types.IsErroneous(result) {
			c.errorAt(errors.E2101, errors.ErrTypeMismatch, s,
				"This method must return a result of type "+types.ShortString(result))
		}
		return
	}
	t := c.expr(s.Value, nil)
	if types.IsVoid(result) {
		c.errorAt(errors.E2101, errors.ErrTypeMismatch, s, "Void methods cannot return a value")
		return
	}
	c.checkAssignable(s.Value, t, result)
}

// throwable reports a thrown or caught value that is not a Throwable.
func (c *Checker) throwable(x ast.Expr, t types.Type) {
	if types.IsErroneous(t) || t.Kind() == types.KindNull {
		return
	}
	if !c.resolver.IsSubtype(t, types.Throwable) {
		c.errorAt(errors.E2101, errors.ErrTypeMismatch, x,
			"No exception of type "+types.ShortString(t)+" can be thrown; an exception type must be a subclass of Throwable")
	}
}

// checkAssignable reports a value of type t that cannot be assigned to a
// variable of type to.
func (c *Checker) checkAssignable(x ast.Expr, t, to types.Type) {
	if types.IsErroneous(t) || types.IsErroneous(to) {
		return
	}
	if c.resolver.Assignable(c.operand(x, t), to) {
		return
	}
	c.errorAt(errors.E2101, errors.ErrTypeMismatch, x,
		"Type mismatch: cannot convert from "+types.ShortString(t)+" to "+types.ShortString(to))
}

// operand pairs an expression type with its integral constant value, if
// the expression is an int or char literal.
func (c *Checker) operand(x ast.Expr, t types.Type) types.Operand {
	if lit, ok := x.(*ast.Literal); ok && (lit.Kind == ast.IntLit || lit.Kind == ast.CharLit) {
		return types.Const(t, lit.Int)
	}
	return types.Operand{Type: t}
}
