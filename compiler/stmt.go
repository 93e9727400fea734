package compiler

import (
	"github.com/deepnoodle-ai/jcore/ast"
	"github.com/deepnoodle-ai/jcore/bytecode"
	"github.com/deepnoodle-ai/jcore/errors"
	"github.com/deepnoodle-ai/jcore/op"
	"github.com/deepnoodle-ai/jcore/types"
)

// stmt emits a statement. Statements that cannot be reached produce no
// code.
func (c *Compiler) stmt(s ast.Stmt) error {
	if !c.code.reachable {
		return nil
	}
	c.code.setLine(s.Pos().Line)
	switch s := s.(type) {
	case *ast.Block:
		c.code.enterBlock()
		if err := c.stmts(s.Stmts); err != nil {
			return err
		}
		c.code.leaveBlock()
		return nil
	case *ast.LocalDecl:
		return c.localDecl(s)
	case *ast.ExprStmt:
		return c.exprStmt(s)
	case *ast.Return:
		return c.returnStmt(s)
	case *ast.Throw:
		if err := c.value(s.Value, types.Object); err != nil {
			return err
		}
		c.code.emit(op.Athrow)
		return nil
	case *ast.Try:
		return c.try(s)
	}
	return errors.Internalf(c.code.name, c.location(s.Pos()), "unsupported statement %T", s)
}

func (c *Compiler) stmts(list []ast.Stmt) error {
	for _, s := range list {
		if err := c.stmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) localDecl(s *ast.LocalDecl) error {
	t, ok := c.info.TypeOfRef(s.Type)
	if !ok {
		return &errors.SymbolError{Name: s.Type.Name(), Location: c.location(s.Type.Pos())}
	}
	l, err := c.code.declare(s.Name.Name, t)
	if err != nil {
		return err
	}
	if s.Value == nil {
		return nil
	}
	if err := c.value(s.Value, t); err != nil {
		return err
	}
	c.store(l)
	return nil
}

func (c *Compiler) exprStmt(s *ast.ExprStmt) error {
	if x, ok := s.X.(*ast.Assign); ok {
		return c.assign(x, false)
	}
	if err := c.expr(s.X); err != nil {
		return err
	}
	t, err := c.typeOf(s.X)
	if err != nil {
		return err
	}
	c.pop(t)
	return nil
}

func (c *Compiler) returnStmt(s *ast.Return) error {
	if s.Value == nil {
		c.code.emit(op.Return)
		return nil
	}
	if types.IsVoid(c.result) {
		return errors.Internalf(c.code.name, c.location(s.Pos()), "return with a value in a void method")
	}
	if err := c.value(s.Value, c.result); err != nil {
		return err
	}
	c.code.emit(returnOps[categoryOf(types.Erasure(c.result))])
	return nil
}

// try emits a guarded block followed by its handlers. A block that emits
// no instructions guards nothing, so neither its handlers nor exception
// table entries are produced.
func (c *Compiler) try(s *ast.Try) error {
	start := c.code.offset
	c.code.enterBlock()
	if err := c.stmts(s.Body.Stmts); err != nil {
		return err
	}
	c.code.leaveBlock()
	end := c.code.offset
	if start == end {
		return nil
	}

	completes := c.code.reachable
	var exits []int
	if c.code.reachable {
		exits = append(exits, c.code.emit(op.Goto, placeholder))
	}

	entries := make([]bytecode.ExceptionEntry, 0, len(s.Catches))
	for i, catch := range s.Catches {
		t, ok := c.info.TypeOfRef(catch.Type)
		if !ok {
			return &errors.SymbolError{Name: catch.Type.Name(), Location: c.location(catch.Type.Pos())}
		}
		handler := c.code.label()
		c.code.depth = 0
		c.code.adjust(1)
		c.code.setLine(catch.CatchPos.Line)

		c.code.enterBlock()
		l, err := c.code.declare(catch.Name.Name, t)
		if err != nil {
			return err
		}
		c.store(l)
		if err := c.stmts(catch.Body.Stmts); err != nil {
			return err
		}
		c.code.leaveBlock()

		if c.code.reachable {
			completes = true
			if i < len(s.Catches)-1 {
				exits = append(exits, c.code.emit(op.Goto, placeholder))
			}
		}
		entries = append(entries, bytecode.ExceptionEntry{
			Start:     start,
			End:       end,
			Handler:   handler,
			CatchType: c.className(t),
		})
	}
	for _, e := range entries {
		c.code.obs.ExceptionRegion(e)
	}

	if !completes {
		c.code.reachable = false
		return nil
	}
	exit := c.code.label()
	for _, pos := range exits {
		c.code.patch(pos, exit)
	}
	return nil
}
