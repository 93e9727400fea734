package compiler

import (
	"fmt"
	"math"

	"github.com/deepnoodle-ai/jcore/types"
)

// maxSlots is the number of local variable slots a method may use.
const maxSlots = math.MaxUint16

// Local is a local variable or parameter bound to a slot.
type Local struct {
	name  string
	typ   types.Type
	index int
}

// Name returns the variable name.
func (l *Local) Name() string {
	return l.name
}

// Index returns the first slot of the variable.
func (l *Local) Index() int {
	return l.index
}

// Type returns the declared type of the variable.
func (l *Local) Type() types.Type {
	return l.typ
}

// Slots returns the number of slots the variable occupies.
func (l *Local) Slots() int {
	return types.Slots(l.typ)
}

// LocalTable tracks the local variables visible in a scope. The root table
// represents a method; tables created with NewBlock represent nested
// scopes and allocate slots from the method table. Names declared in a
// block are only visible in that block and its children.
type LocalTable struct {
	id       string
	parent   *LocalTable
	children []*LocalTable
	byName   map[string]*Local
	locals   []*Local
	isBlock  bool

	// next is the next free slot and max the high water mark. Both are
	// only maintained on the method table.
	next int
	max  int

	// reuse releases the slots of a block when it closes.
	reuse bool
	// mark is the method's next free slot when the block was opened.
	mark int
}

// NewLocalTable returns the table for a method body. With reuse set, the
// slots of a block become available again once the block is closed;
// otherwise slots are allocated monotonically.
func NewLocalTable(reuse bool) *LocalTable {
	return &LocalTable{
		id:     "method",
		byName: map[string]*Local{},
		reuse:  reuse,
	}
}

// NewBlock creates a nested scope.
func (t *LocalTable) NewBlock() *LocalTable {
	fn := t.Function()
	child := &LocalTable{
		id:      fmt.Sprintf("%s.%d", t.id, len(t.children)),
		parent:  t,
		byName:  map[string]*Local{},
		isBlock: true,
		reuse:   fn.reuse,
		mark:    fn.next,
	}
	t.children = append(t.children, child)
	return child
}

// ID identifies the scope within its method, for example method.0.1.
func (t *LocalTable) ID() string {
	return t.id
}

// Parent returns the enclosing scope, or nil for the method table.
func (t *LocalTable) Parent() *LocalTable {
	return t.parent
}

// Function returns the method table.
func (t *LocalTable) Function() *LocalTable {
	cur := t
	for cur.isBlock {
		cur = cur.parent
	}
	return cur
}

func (t *LocalTable) claimIndex(l *Local) (int, error) {
	if t.isBlock {
		return t.parent.claimIndex(l)
	}
	idx := t.next
	if idx+l.Slots() > maxSlots {
		return 0, fmt.Errorf("compile error: too many local variables")
	}
	l.index = idx
	t.next += l.Slots()
	if t.next > t.max {
		t.max = t.next
	}
	return idx, nil
}

// InsertVariable declares a variable in this scope and assigns it the next
// free slot. Long and double variables take two slots.
func (t *LocalTable) InsertVariable(name string, typ types.Type) (*Local, error) {
	if _, ok := t.byName[name]; ok {
		return nil, fmt.Errorf("compile error: variable %q already exists", name)
	}
	l := &Local{name: name, typ: typ}
	if _, err := t.claimIndex(l); err != nil {
		return nil, err
	}
	t.byName[name] = l
	t.locals = append(t.locals, l)
	return l, nil
}

// Resolve finds a variable in this scope or an enclosing one.
func (t *LocalTable) Resolve(name string) (*Local, bool) {
	for cur := t; cur != nil; cur = cur.parent {
		if l, ok := cur.byName[name]; ok {
			return l, true
		}
	}
	return nil, false
}

// IsDefined reports whether name is declared directly in this scope.
func (t *LocalTable) IsDefined(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Locals returns the variables declared directly in this scope, in
// declaration order.
func (t *LocalTable) Locals() []*Local {
	return t.locals
}

// Close ends a block scope and returns the variables it declared. When
// slot reuse is enabled the block's slots are released.
func (t *LocalTable) Close() []*Local {
	if t.isBlock && t.reuse {
		t.Function().next = t.mark
	}
	return t.locals
}

// MaxLocals returns the number of slots the method needs.
func (t *LocalTable) MaxLocals() int {
	return t.Function().max
}

// AllNames returns the names visible from this scope, innermost first.
func (t *LocalTable) AllNames() []string {
	var names []string
	seen := map[string]bool{}
	for cur := t; cur != nil; cur = cur.parent {
		for _, l := range cur.locals {
			if !seen[l.name] {
				seen[l.name] = true
				names = append(names, l.name)
			}
		}
	}
	return names
}
