// Package deprecation decides whether a reference to a symbol is a
// reportable use of deprecated code.
//
// Deprecation status is computed on demand by walking from a symbol to its
// declaring type, enclosing types and package. Nothing is propagated at
// declaration time, so a package-info unit declared after the types of its
// package still deprecates them.
package deprecation

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/jcore/errors"
	"github.com/deepnoodle-ai/jcore/options"
	"github.com/deepnoodle-ai/jcore/symbol"
	"github.com/deepnoodle-ai/jcore/types"
)

// Status is the deprecation state of a symbol as seen by its users.
type Status struct {
	// Deprecated is set when the symbol or anything enclosing it is
	// deprecated.
	Deprecated bool
	// Terminal is set when the symbol or a deprecated enclosing symbol is
	// marked for removal.
	Terminal bool
	// Direct is set when the symbol carries the annotation itself.
	Direct bool
	// Since is the version of a direct annotation.
	Since string
}

// Tracker answers deprecation queries against a symbol table.
type Tracker struct {
	table *symbol.Table
	opts  options.Options
}

// New returns a Tracker over table.
func New(table *symbol.Table, opts options.Options) *Tracker {
	return &Tracker{table: table, opts: opts}
}

// Status returns the deprecation status of sym. Members inherit from their
// declaring type, types from their enclosing type or package.
func (t *Tracker) Status(sym *symbol.Symbol) Status {
	var st Status
	if sym == nil {
		return st
	}
	if sym.Deprecated || sym.ForRemoval {
		st.Deprecated = true
		st.Direct = true
		st.Terminal = sym.ForRemoval
		st.Since = sym.Since
	}
	seen := map[string]bool{sym.QualifiedName: true}
	for cur, ok := t.table.Enclosing(sym); ok && !seen[cur.QualifiedName]; cur, ok = t.table.Enclosing(cur) {
		seen[cur.QualifiedName] = true
		if cur.Deprecated || cur.ForRemoval {
			st.Deprecated = true
			st.Terminal = st.Terminal || cur.ForRemoval
		}
	}
	return st
}

// ViewedAsDeprecated reports whether sym is deprecated, directly or through
// an enclosing symbol.
func (t *Tracker) ViewedAsDeprecated(sym *symbol.Symbol) bool {
	return t.Status(sym).Deprecated
}

// IsDeprecatedUseReportable reports whether a reference to sym from the
// given unit is a use of deprecated code. References from the unit that
// declares the symbol are never reportable.
func (t *Tracker) IsDeprecatedUseReportable(sym *symbol.Symbol, referencingUnit string) bool {
	if sym == nil || sym.Kind == symbol.Package {
		return false
	}
	if !t.ViewedAsDeprecated(sym) {
		return false
	}
	return t.declaringUnit(sym) != referencingUnit
}

// declaringUnit returns the unit of sym, falling back to its enclosing
// types for symbols without one.
func (t *Tracker) declaringUnit(sym *symbol.Symbol) string {
	for cur, ok := sym, true; ok; cur, ok = t.table.Enclosing(cur) {
		if cur.Kind == symbol.Package {
			break
		}
		if cur.Unit != "" {
			return cur.Unit
		}
	}
	return ""
}

// Site describes where a reference occurs.
type Site struct {
	Unit string
	// Context is the innermost method or type containing the reference.
	Context *symbol.Symbol
	// Suppressed holds the @SuppressWarnings tokens in effect: deprecation,
	// removal or all.
	Suppressed []string
}

// Problem is a reportable deprecated use.
type Problem struct {
	Severity errors.Severity
	Code     errors.ErrorCode
	Message  string
}

// Check returns the problem to report for a reference to sym at site, if
// any. Uses inside deprecated code are exempt unless
// DeprecationInDeprecatedCode is set. The severity comes from the
// Deprecation or TerminalDeprecation option.
func (t *Tracker) Check(sym *symbol.Symbol, site Site) (Problem, bool) {
	if !t.IsDeprecatedUseReportable(sym, site.Unit) {
		return Problem{}, false
	}
	if !t.opts.DeprecationInDeprecatedCode && site.Context != nil && t.ViewedAsDeprecated(site.Context) {
		return Problem{}, false
	}
	st := t.Status(sym)
	p := Problem{Severity: t.opts.Deprecation, Code: errors.E2201}
	if st.Terminal {
		p.Severity = t.opts.TerminalDeprecation
		p.Code = errors.E2202
	}
	if p.Severity == errors.Ignore || suppressed(site.Suppressed, st.Terminal) {
		return Problem{}, false
	}
	p.Message = Message(t.Describe(sym), st)
	return p, true
}

// CheckOverride returns the problem to report when method overrides a
// deprecated method. Overrides are only reported with
// DeprecationWhenOverriding set.
func (t *Tracker) CheckOverride(method, overridden *symbol.Symbol, site Site) (Problem, bool) {
	if !t.opts.DeprecationWhenOverriding || overridden == nil {
		return Problem{}, false
	}
	if !t.IsDeprecatedUseReportable(overridden, site.Unit) {
		return Problem{}, false
	}
	if !t.opts.DeprecationInDeprecatedCode && t.ViewedAsDeprecated(method) {
		return Problem{}, false
	}
	st := t.Status(overridden)
	p := Problem{Severity: t.opts.Deprecation, Code: errors.E2201}
	if st.Terminal {
		p.Severity = t.opts.TerminalDeprecation
		p.Code = errors.E2202
	}
	if p.Severity == errors.Ignore || suppressed(site.Suppressed, st.Terminal) {
		return Problem{}, false
	}
	who := fmt.Sprintf("The method %s.%s", t.SourceName(method.Owner()), t.signature(method))
	from := t.SourceName(overridden.Owner())
	switch {
	case st.Terminal:
		p.Message = fmt.Sprintf("%s overrides a method from %s that has been deprecated%s and marked for removal",
			who, from, since(st))
	case st.Direct && st.Since != "":
		p.Message = fmt.Sprintf("%s overrides a method from %s that is deprecated%s", who, from, since(st))
	default:
		p.Message = fmt.Sprintf("%s overrides a deprecated method from %s", who, from)
	}
	return p, true
}

func suppressed(tokens []string, terminal bool) bool {
	for _, tok := range tokens {
		switch tok {
		case "all":
			return true
		case "deprecation":
			if !terminal {
				return true
			}
		case "removal":
			if terminal {
				return true
			}
		}
	}
	return false
}

func since(st Status) string {
	if st.Direct && st.Since != "" {
		return " since version " + st.Since
	}
	return ""
}

// Message renders the diagnostic for a deprecated use of the described
// symbol, for example "The type N1.N2 has been deprecated since version 1.2
// and marked for removal".
func Message(what string, st Status) string {
	if st.Terminal {
		return fmt.Sprintf("The %s has been deprecated%s and marked for removal", what, since(st))
	}
	return fmt.Sprintf("The %s is deprecated%s", what, since(st))
}

// Describe names sym the way diagnostics do: "type N1.N2", "field X.x",
// "method foo(int) from the type X" or "constructor X()".
func (t *Tracker) Describe(sym *symbol.Symbol) string {
	switch sym.Kind {
	case symbol.Type:
		return "type " + t.SourceName(sym.QualifiedName)
	case symbol.Field:
		return "field " + t.SourceName(sym.Owner()) + "." + sym.Name
	case symbol.Method:
		if sym.IsConstructor() {
			return "constructor " + t.SourceName(sym.Owner()) + params(sym)
		}
		return "method " + t.signature(sym) + " from the type " + t.SourceName(sym.Owner())
	}
	return "package " + sym.QualifiedName
}

func (t *Tracker) signature(m *symbol.Symbol) string {
	return m.Name + params(m)
}

func params(m *symbol.Symbol) string {
	parts := make([]string, len(m.Params))
	for i, p := range m.Params {
		parts[i] = types.ShortString(p)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// SourceName returns the name of a type relative to its package, with
// enclosing type names: N1.N2 for a.N1.N2.
func (t *Tracker) SourceName(qualifiedName string) string {
	sym, ok := t.table.LookupType(qualifiedName)
	if !ok {
		return types.SimpleName(qualifiedName)
	}
	names := []string{sym.Name}
	for cur, ok := t.table.Enclosing(sym); ok && cur.Kind == symbol.Type; cur, ok = t.table.Enclosing(cur) {
		names = append(names, cur.Name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, ".")
}
