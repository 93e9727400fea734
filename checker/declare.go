package checker

import (
	stderrors "errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/deepnoodle-ai/jcore/ast"
	"github.com/deepnoodle-ai/jcore/options"
	"github.com/deepnoodle-ai/jcore/symbol"
	"github.com/deepnoodle-ai/jcore/types"
)

// Declare adds the package and the types of a unit to the table. Members
// and supertypes are added by Complete, once the types of every unit are
// declared.
func Declare(table *symbol.Table, unit *ast.Unit) error {
	var result *multierror.Error
	if unit.Package != "" {
		var err error
		if d := unit.PackageDeprecation; d != nil {
			err = table.DefinePackage(unit.Package, unit.Name, true, d.ForRemoval, d.Since)
		} else {
			err = table.DefinePackage(unit.Package, unit.Name, false, false, "")
		}
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	for _, td := range unit.Types {
		declareType(table, unit, td, unit.Package, &result)
	}
	return result.ErrorOrNil()
}

func declareType(table *symbol.Table, unit *ast.Unit, td *ast.TypeDecl, enclosing string, result **multierror.Error) {
	qn := qualify(enclosing, td.Name.Name)
	sym := symbol.NewType(qn, enclosing, unit.Name)
	sym.Interface = td.Interface
	sym.TypeParams = td.TypeParams
	sym.Static = td.Static || td.Interface
	deprecate(sym, td.Deprecated)
	if err := table.Define(sym); err != nil {
		*result = multierror.Append(*result, fmt.Errorf("%s: %w", unit.Name, err))
		return
	}
	for _, nested := range td.Types {
		declareType(table, unit, nested, qn, result)
	}
}

func deprecate(s *symbol.Symbol, d *ast.Deprecation) {
	if d == nil {
		return
	}
	s.Deprecated = true
	s.ForRemoval = d.ForRemoval
	s.Since = d.Since
}

// Complete resolves the supertypes of the types of a unit and adds their
// fields, methods and constructors to the table. A class without a
// constructor gets a default one carrying the deprecation of the class.
//
// Type references are resolved silently; unresolved ones leave an
// erroneous type behind and are reported when the unit is checked. A
// member defined twice keeps its first definition and is reported as a
// duplicate when the unit is checked.
func Complete(table *symbol.Table, unit *ast.Unit) error {
	c := New(table, options.Default())
	c.silent = true
	c.begin(unit)
	var result *multierror.Error
	for _, td := range unit.Types {
		c.completeType(td, &frame{}, &result)
	}
	return result.ErrorOrNil()
}

func (c *Checker) completeType(td *ast.TypeDecl, parent *frame, result **multierror.Error) {
	enclosing := c.unit.Package
	if len(parent.outer) > 0 {
		enclosing = parent.outer[len(parent.outer)-1]
	}
	qn := qualify(enclosing, td.Name.Name)
	sym, ok := c.table.LookupType(qn)
	if !ok {
		*result = multierror.Append(*result, fmt.Errorf("%s: complete %s: type was not declared", c.unit.Name, qn))
		return
	}
	define := func(s *symbol.Symbol) {
		if err := c.table.Define(s); err != nil && !stderrors.Is(err, symbol.ErrDuplicate) {
			*result = multierror.Append(*result, fmt.Errorf("%s: %w", c.unit.Name, err))
		}
	}
	c.with(c.enterType(td, sym, parent), func() {
		var supers []types.Type
		refs := td.Interfaces
		if td.Super != nil {
			refs = append([]*ast.TypeRef{td.Super}, refs...)
		}
		for _, ref := range refs {
			if t := c.typeRef(ref); !types.IsErroneous(t) {
				supers = append(supers, t)
			}
		}
		if err := c.table.SetSupertypes(qn, supers); err != nil {
			*result = multierror.Append(*result, err)
		}

		for _, fd := range td.Fields {
			typ := c.typeRef(fd.Type)
			for _, name := range fd.Names {
				f := symbol.NewField(qn, name.Name, typ, c.unit.Name)
				f.Static = fd.Static || td.Interface
				deprecate(f, fd.Deprecated)
				define(f)
			}
		}

		hasConstructor := false
		for _, md := range td.Methods {
			name := md.Name.Name
			if md.Constructor {
				name = symbol.ConstructorName
				hasConstructor = true
			}
			params := make([]types.Type, len(md.Params))
			for i, p := range md.Params {
				params[i] = c.typeRef(p.Type)
			}
			var ret types.Type
			if md.Result != nil {
				ret = c.typeRef(md.Result)
			}
			m := symbol.NewMethod(qn, name, params, ret, c.unit.Name)
			m.Static = md.Static
			deprecate(m, md.Deprecated)
			define(m)
		}
		if !hasConstructor && !td.Interface {
			ctor := symbol.NewMethod(qn, symbol.ConstructorName, nil, nil, c.unit.Name)
			ctor.Deprecated = sym.Deprecated
			ctor.ForRemoval = sym.ForRemoval
			ctor.Since = sym.Since
			define(ctor)
		}

		inner := c.frame
		for _, nested := range td.Types {
			c.completeType(nested, inner, result)
		}
	})
}
