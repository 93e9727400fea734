// Package debuginfo builds the line number, local variable and exception
// tables of a method by observing instruction emission.
//
// A Synthesizer never looks at the syntax tree. It only sees the events the
// emitter publishes: instructions with their attributed source line, local
// variable scope starts and ends, and closed guarded regions. Finalize
// checks that the three tables agree with the emitted instruction offsets.
package debuginfo

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/deepnoodle-ai/jcore/bytecode"
	"github.com/deepnoodle-ai/jcore/errors"
)

// Tables holds the debug metadata of one method.
type Tables struct {
	Lines      []bytecode.LineEntry
	Locals     []bytecode.LocalEntry
	Exceptions []bytecode.ExceptionEntry
}

// Synthesizer accumulates the tables of one method.
type Synthesizer struct {
	method string

	lines    []bytecode.LineEntry
	lastLine int

	locals []bytecode.LocalEntry
	// open maps a slot to the index in locals of its unclosed entry.
	open map[int]int

	exceptions []bytecode.ExceptionEntry

	boundaries map[int]bool
	length     int
	ended      bool
}

// New returns a Synthesizer for the named method. The name is only used in
// error messages.
func New(method string) *Synthesizer {
	return &Synthesizer{
		method:     method,
		open:       map[int]int{},
		boundaries: map[int]bool{},
	}
}

// Instruction records an emitted instruction. A line entry is added when
// the instruction is the first one attributed to a different line than the
// previous entry. Instructions without a line do not affect the table.
func (s *Synthesizer) Instruction(in bytecode.Instruction) {
	s.boundaries[in.Offset] = true
	if in.End() > s.length {
		s.length = in.End()
	}
	if in.Line <= 0 || in.Line == s.lastLine {
		return
	}
	s.lines = append(s.lines, bytecode.LineEntry{Offset: in.Offset, Line: in.Line})
	s.lastLine = in.Line
}

// LocalStart opens the scope of a variable occupying slot from offset. A
// still open entry for the same slot is closed at offset first.
func (s *Synthesizer) LocalStart(slot int, name, descriptor string, offset int) {
	s.LocalEnd(slot, offset)
	s.open[slot] = len(s.locals)
	s.locals = append(s.locals, bytecode.LocalEntry{
		Slot:       slot,
		Name:       name,
		Descriptor: descriptor,
		Start:      offset,
		End:        -1,
	})
}

// LocalEnd closes the scope of the variable occupying slot at offset.
func (s *Synthesizer) LocalEnd(slot, offset int) {
	i, ok := s.open[slot]
	if !ok {
		return
	}
	s.locals[i].End = offset
	delete(s.open, slot)
}

// ExceptionRegion records a closed guarded region.
func (s *Synthesizer) ExceptionRegion(e bytecode.ExceptionEntry) {
	s.exceptions = append(s.exceptions, e)
}

// MethodEnd records the final length of the method body.
func (s *Synthesizer) MethodEnd(length int) {
	s.length = length
	s.ended = true
}

// Finalize closes the variables still in scope at the end of the method,
// drops empty local ranges and validates the tables. Every violation is
// reported in the returned error, an *errors.InternalError.
func (s *Synthesizer) Finalize() (Tables, error) {
	for slot := range s.open {
		s.LocalEnd(slot, s.length)
	}
	locals := make([]bytecode.LocalEntry, 0, len(s.locals))
	for _, l := range s.locals {
		if l.End > l.Start {
			locals = append(locals, l)
		}
	}
	sort.SliceStable(locals, func(i, j int) bool {
		if locals[i].Start != locals[j].Start {
			return locals[i].Start < locals[j].Start
		}
		return locals[i].Slot < locals[j].Slot
	})
	tables := Tables{
		Lines:      append([]bytecode.LineEntry(nil), s.lines...),
		Locals:     locals,
		Exceptions: append([]bytecode.ExceptionEntry(nil), s.exceptions...),
	}
	if err := s.validate(tables); err != nil {
		return tables, &errors.InternalError{
			Method:  s.method,
			Message: "invalid debug metadata",
			Cause:   err,
		}
	}
	return tables, nil
}

// Length returns the method length seen so far.
func (s *Synthesizer) Length() int {
	return s.length
}

func (s *Synthesizer) validate(t Tables) error {
	var result *multierror.Error
	fail := func(format string, args ...any) {
		result = multierror.Append(result, fmt.Errorf(format, args...))
	}
	if !s.ended {
		fail("method end was not reported")
	}
	prev := -1
	for _, l := range t.Lines {
		switch {
		case l.Offset <= prev:
			fail("line entry at pc %d is not after pc %d", l.Offset, prev)
		case l.Offset >= s.length:
			fail("line entry at pc %d is past the end of the method (%d)", l.Offset, s.length)
		case !s.boundaries[l.Offset]:
			fail("line entry at pc %d is not on an instruction boundary", l.Offset)
		}
		prev = l.Offset
	}
	bySlot := map[int][]bytecode.LocalEntry{}
	for _, l := range t.Locals {
		if l.Start < 0 || l.End > s.length {
			fail("local %s [pc: %d, pc: %d] is outside the method (%d)", l.Name, l.Start, l.End, s.length)
		}
		if !s.isBoundary(l.Start) || !s.isBoundary(l.End) {
			fail("local %s [pc: %d, pc: %d] is not on instruction boundaries", l.Name, l.Start, l.End)
		}
		for _, other := range bySlot[l.Slot] {
			if l.Start < other.End && other.Start < l.End {
				fail("locals %s and %s overlap in slot %d", other.Name, l.Name, l.Slot)
			}
		}
		bySlot[l.Slot] = append(bySlot[l.Slot], l)
	}
	for _, e := range t.Exceptions {
		if e.Start >= e.End {
			fail("exception range [pc: %d, pc: %d] is empty", e.Start, e.End)
		}
		if e.End > s.length {
			fail("exception range [pc: %d, pc: %d] is past the end of the method (%d)", e.Start, e.End, s.length)
		}
		if !s.isBoundary(e.Start) || !s.isBoundary(e.End) {
			fail("exception range [pc: %d, pc: %d] is not on instruction boundaries", e.Start, e.End)
		}
		if !s.boundaries[e.Handler] {
			fail("exception handler at pc %d is not an instruction boundary", e.Handler)
		}
	}
	return result.ErrorOrNil()
}

// isBoundary reports whether offset starts an instruction or is the end
// of the method.
func (s *Synthesizer) isBoundary(offset int) bool {
	return offset == s.length || s.boundaries[offset]
}
