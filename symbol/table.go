package symbol

import (
	"errors"
	"fmt"
	"sort"

	"github.com/deepnoodle-ai/jcore/types"
)

var (
	// ErrSealed is returned when a symbol is defined after the table was
	// sealed.
	ErrSealed = errors.New("symbol table is sealed")

	// ErrDuplicate is returned when a qualified name is defined twice, or
	// a method is defined twice with the same erased parameter types.
	ErrDuplicate = errors.New("duplicate symbol")
)

// Table maps qualified names to symbols. It implements types.Hierarchy
// over the declared types.
//
// Methods are overloaded: every method of a type sharing a name is kept
// under the same qualified name, told apart by its erased parameter types.
type Table struct {
	symbols map[string]*Symbol
	methods map[string][]*Symbol
	members map[string][]*Symbol
	sealed  bool
}

// NewTable returns a table holding the built-in java.lang, java.io and
// java.util declarations.
func NewTable() *Table {
	t := &Table{
		symbols: map[string]*Symbol{},
		methods: map[string][]*Symbol{},
		members: map[string][]*Symbol{},
	}
	defineBuiltins(t)
	return t
}

// Define adds a symbol. Packages are declared with DefinePackage.
func (t *Table) Define(s *Symbol) error {
	if t.sealed {
		return fmt.Errorf("define %s: %w", s.QualifiedName, ErrSealed)
	}
	if s.Kind == Package {
		return t.DefinePackage(s.QualifiedName, s.Unit, s.Deprecated, s.ForRemoval, s.Since)
	}
	if s.Kind == Method {
		for _, prev := range t.methods[s.QualifiedName] {
			if prev.ParamKey() == s.ParamKey() {
				return fmt.Errorf("define %s%s: %w", s.QualifiedName, s.ParamKey(), ErrDuplicate)
			}
		}
		t.methods[s.QualifiedName] = append(t.methods[s.QualifiedName], s)
	} else {
		if _, exists := t.symbols[s.QualifiedName]; exists {
			return fmt.Errorf("define %s: %w", s.QualifiedName, ErrDuplicate)
		}
		t.symbols[s.QualifiedName] = s
	}
	if owner := s.Owner(); owner != "" {
		t.members[owner] = append(t.members[owner], s)
	}
	return nil
}

// DefinePackage declares a package. Packages are declared by every unit
// they contain, so repeated declarations merge: the package is deprecated
// if any declaration, normally its package-info unit, says so.
func (t *Table) DefinePackage(name, unit string, deprecated, forRemoval bool, since string) error {
	if t.sealed {
		return fmt.Errorf("define %s: %w", name, ErrSealed)
	}
	merged := &Symbol{
		Kind:          Package,
		QualifiedName: name,
		Name:          name,
		Unit:          unit,
		Deprecated:    deprecated || forRemoval,
		ForRemoval:    forRemoval,
		Since:         since,
	}
	if prev, ok := t.symbols[name]; ok {
		if prev.Kind != Package {
			return fmt.Errorf("define package %s: %w", name, ErrDuplicate)
		}
		if !deprecated && !forRemoval {
			merged.Unit = prev.Unit
			merged.Since = prev.Since
		} else if merged.Since == "" {
			merged.Since = prev.Since
		}
		merged.Deprecated = merged.Deprecated || prev.Deprecated
		merged.ForRemoval = merged.ForRemoval || prev.ForRemoval
	}
	t.symbols[name] = merged
	return nil
}

// SetSupertypes records the resolved supertypes of a declared type.
// Supertypes are resolved once every type of the session is declared, so
// they are set separately from Define.
func (t *Table) SetSupertypes(name string, supers []types.Type) error {
	if t.sealed {
		return fmt.Errorf("complete %s: %w", name, ErrSealed)
	}
	s, ok := t.LookupType(name)
	if !ok {
		return fmt.Errorf("complete %s: unknown type", name)
	}
	s.Supertypes = supers
	return nil
}

// Seal ends declaration processing. Define fails afterwards.
func (t *Table) Seal() {
	t.sealed = true
}

// Sealed reports whether Seal was called.
func (t *Table) Sealed() bool {
	return t.sealed
}

// Len returns the number of symbols, built-ins and overloads included.
func (t *Table) Len() int {
	n := len(t.symbols)
	for _, ms := range t.methods {
		n += len(ms)
	}
	return n
}

// Lookup returns the symbol with the given qualified name. For an
// overloaded method it returns the first one defined.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	if s, ok := t.symbols[name]; ok {
		return s, true
	}
	if ms := t.methods[name]; len(ms) > 0 {
		return ms[0], true
	}
	return nil, false
}

// LookupType returns the type symbol with the given qualified name.
func (t *Table) LookupType(name string) (*Symbol, bool) {
	s, ok := t.symbols[name]
	if !ok || s.Kind != Type {
		return nil, false
	}
	return s, true
}

// Enclosing returns the symbol directly containing s.
func (t *Table) Enclosing(s *Symbol) (*Symbol, bool) {
	if s.Enclosing == "" {
		return nil, false
	}
	return t.Lookup(s.Enclosing)
}

// Field finds a field declared by owner or inherited from its supertypes.
func (t *Table) Field(owner, name string) (*Symbol, bool) {
	return t.member(owner, name, Field)
}

// Method finds a method declared by owner or inherited from its
// supertypes. When the name is overloaded it returns the first overload
// found; use Methods to choose among them. Constructors are never
// inherited.
func (t *Table) Method(owner, name string) (*Symbol, bool) {
	ms := t.Methods(owner, name)
	if len(ms) == 0 {
		return nil, false
	}
	return ms[0], true
}

// Methods returns the overloads of a method visible in owner: those
// declared by owner in definition order, then the inherited ones it does
// not override, nearest supertype first. Constructors are never
// inherited.
func (t *Table) Methods(owner, name string) []*Symbol {
	if name == ConstructorName {
		return append([]*Symbol(nil), t.methods[owner+"."+name]...)
	}
	var found []*Symbol
	overridden := map[string]bool{}
	t.walk(owner, func(cur string) bool {
		for _, m := range t.methods[cur+"."+name] {
			if key := m.ParamKey(); !overridden[key] {
				overridden[key] = true
				found = append(found, m)
			}
		}
		return true
	})
	return found
}

// DeclaredMethod returns the method declared by owner itself with the
// given erased parameter types.
func (t *Table) DeclaredMethod(owner, name string, params []types.Type) (*Symbol, bool) {
	key := ParamKey(params)
	for _, m := range t.methods[owner+"."+name] {
		if m.ParamKey() == key {
			return m, true
		}
	}
	return nil, false
}

func (t *Table) member(owner, name string, kind Kind) (*Symbol, bool) {
	var found *Symbol
	t.walk(owner, func(cur string) bool {
		if s, ok := t.symbols[cur+"."+name]; ok && s.Kind == kind {
			found = s
			return false
		}
		return true
	})
	return found, found != nil
}

// walk visits owner and its supertypes breadth first until fn returns
// false.
func (t *Table) walk(owner string, fn func(name string) bool) {
	seen := map[string]bool{}
	queue := []string{owner}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		if !fn(cur) {
			return
		}
		queue = append(queue, t.superNames(cur)...)
	}
}

// superNames returns the erased names of the direct supertypes of a type,
// java.lang.Object when none are declared.
func (t *Table) superNames(name string) []string {
	supers := t.Supertypes(name)
	if len(supers) == 0 {
		if name == types.Object.Name {
			return nil
		}
		return []string{types.Object.Name}
	}
	names := make([]string, len(supers))
	for i, super := range supers {
		names[i] = types.Erasure(super).String()
	}
	return names
}

// Members returns the fields and methods declared directly by owner, in
// definition order.
func (t *Table) Members(owner string) []*Symbol {
	return t.members[owner]
}

// MemberNames returns the names of the members of the given kind visible
// in owner, for suggestions. Overloaded names are listed once.
func (t *Table) MemberNames(owner string, kind Kind) []string {
	var names []string
	listed := map[string]bool{}
	t.walk(owner, func(cur string) bool {
		for _, m := range t.members[cur] {
			if m.Kind == kind && !m.IsConstructor() && !listed[m.Name] {
				listed[m.Name] = true
				names = append(names, m.Name)
			}
		}
		return true
	})
	return names
}

// TypeNames returns the qualified names of all types, sorted.
func (t *Table) TypeNames() []string {
	var names []string
	for name, s := range t.symbols {
		if s.Kind == Type {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Supertypes implements types.Hierarchy.
func (t *Table) Supertypes(name string) []types.Type {
	if s, ok := t.LookupType(name); ok {
		return s.Supertypes
	}
	return nil
}

// TypeParameters implements types.Hierarchy.
func (t *Table) TypeParameters(name string) []string {
	if s, ok := t.LookupType(name); ok {
		return s.TypeParams
	}
	return nil
}

// IsInterface implements types.Hierarchy.
func (t *Table) IsInterface(name string) bool {
	if s, ok := t.LookupType(name); ok {
		return s.Interface
	}
	return false
}

var _ types.Hierarchy = (*Table)(nil)
