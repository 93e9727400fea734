package bytecode

// Class is an immutable compiled type: its methods and the constant pool
// they share.
type Class struct {
	name       string
	super      string
	source     string
	iface      bool
	deprecated bool
	pool       *Pool
	methods    []*Method
}

// ClassParams contains parameters for creating a new Class.
type ClassParams struct {
	// Name and Super are dotted binary names.
	Name       string
	Super      string
	Source     string
	Interface  bool
	Deprecated bool
	Pool       *Pool
	Methods    []*Method
}

// NewClass creates a new immutable Class from the given parameters.
func NewClass(params ClassParams) *Class {
	pool := params.Pool
	if pool == nil {
		pool = NewPool(nil)
	}
	return &Class{
		name:       params.Name,
		super:      params.Super,
		source:     params.Source,
		iface:      params.Interface,
		deprecated: params.Deprecated,
		pool:       pool,
		methods:    copySlice(params.Methods),
	}
}

// Name returns the binary name of the class.
func (c *Class) Name() string {
	return c.name
}

// Super returns the binary name of the superclass.
func (c *Class) Super() string {
	return c.super
}

// Source returns the name of the compilation unit.
func (c *Class) Source() string {
	return c.source
}

// IsInterface returns true for interfaces.
func (c *Class) IsInterface() bool {
	return c.iface
}

// IsDeprecated returns true if the class is deprecated.
func (c *Class) IsDeprecated() bool {
	return c.deprecated
}

// Pool returns the constant pool.
func (c *Class) Pool() *Pool {
	return c.pool
}

// MethodCount returns the number of methods.
func (c *Class) MethodCount() int {
	return len(c.methods)
}

// MethodAt returns the method at the given index.
func (c *Class) MethodAt(index int) *Method {
	return c.methods[index]
}

// Method returns the first method with the given name.
func (c *Class) Method(name string) (*Method, bool) {
	for _, m := range c.methods {
		if m.name == name {
			return m, true
		}
	}
	return nil, false
}

// Stats returns statistics about this class.
func (c *Class) Stats() Stats {
	s := Stats{
		MethodCount:   len(c.methods),
		ConstantCount: c.pool.Count(),
	}
	for _, m := range c.methods {
		s.InstructionCount += m.InstructionCount()
		s.CodeBytes += m.Length()
		s.ExceptionEntryCount += m.ExceptionCount()
		if m.MaxStack() > s.MaxStack {
			s.MaxStack = m.MaxStack()
		}
	}
	return s
}
