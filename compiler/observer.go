package compiler

import (
	"github.com/deepnoodle-ai/jcore/bytecode"
	"github.com/deepnoodle-ai/jcore/debuginfo"
)

// Observer receives the events the emitter publishes while it emits one
// method. Offsets are byte offsets into the method body.
type Observer interface {
	// Instruction is called for every instruction in emission order.
	// Branch targets may still be placeholders.
	Instruction(in bytecode.Instruction)
	// LocalStart is called when a variable comes into scope at offset.
	LocalStart(slot int, name, descriptor string, offset int)
	// LocalEnd is called when the scope of a variable ends at offset.
	LocalEnd(slot, offset int)
	// ExceptionRegion is called when a guarded region and its handler
	// have been emitted.
	ExceptionRegion(e bytecode.ExceptionEntry)
	// MethodEnd is called once with the final method length.
	MethodEnd(length int)
}

// ObserverFactory returns an observer for the named method, or nil.
type ObserverFactory func(method string) Observer

var _ Observer = (*debuginfo.Synthesizer)(nil)

type observers []Observer

func (o observers) Instruction(in bytecode.Instruction) {
	for _, obs := range o {
		obs.Instruction(in)
	}
}

func (o observers) LocalStart(slot int, name, descriptor string, offset int) {
	for _, obs := range o {
		obs.LocalStart(slot, name, descriptor, offset)
	}
}

func (o observers) LocalEnd(slot, offset int) {
	for _, obs := range o {
		obs.LocalEnd(slot, offset)
	}
}

func (o observers) ExceptionRegion(e bytecode.ExceptionEntry) {
	for _, obs := range o {
		obs.ExceptionRegion(e)
	}
}

func (o observers) MethodEnd(length int) {
	for _, obs := range o {
		obs.MethodEnd(length)
	}
}
