package compiler

import (
	"fmt"
	"math"

	"github.com/deepnoodle-ai/jcore/bytecode"
)

// constantPool assigns pool indexes to constants in first-use order. One
// pool is shared by the methods of a class.
type constantPool struct {
	entries []bytecode.Constant
	byKey   map[string]int
	next    int
}

func newConstantPool() *constantPool {
	return &constantPool{byKey: map[string]int{}, next: 1}
}

// add returns the index of c, adding it if it is not in the pool yet.
func (p *constantPool) add(c bytecode.Constant) (int, error) {
	key := c.Key()
	if idx, ok := p.byKey[key]; ok {
		return idx, nil
	}
	size := 1
	if c.Wide() {
		size = 2
	}
	if p.next+size > math.MaxUint16 {
		return 0, fmt.Errorf("compile error: number of constants exceeded limits")
	}
	idx := p.next
	p.entries = append(p.entries, c)
	p.byKey[key] = idx
	p.next += size
	return idx, nil
}

// build returns the immutable pool holding the entries added so far.
func (p *constantPool) build() *bytecode.Pool {
	return bytecode.NewPool(p.entries)
}
