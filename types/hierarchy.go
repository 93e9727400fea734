package types

import "sort"

// Hierarchy supplies class and interface relationships to the resolver.
type Hierarchy interface {
	// Supertypes returns the direct supertypes of the named class or
	// interface. Type arguments may refer to the type's own parameters as
	// TypeVariables.
	Supertypes(name string) []Type

	// TypeParameters returns the names of the declared type parameters.
	TypeParameters(name string) []string

	// IsInterface reports whether the name denotes an interface.
	IsInterface(name string) bool
}

type classInfo struct {
	supers []Type
	params []string
	iface  bool
}

// StaticHierarchy is a fixed Hierarchy, useful as a fallback and in tests.
type StaticHierarchy struct {
	classes map[string]classInfo
	parent  Hierarchy
}

// NewStaticHierarchy returns an empty hierarchy that defers unknown names to
// parent, which may be nil.
func NewStaticHierarchy(parent Hierarchy) *StaticHierarchy {
	return &StaticHierarchy{classes: map[string]classInfo{}, parent: parent}
}

// Class declares a class with its direct supertypes.
func (h *StaticHierarchy) Class(name string, params []string, supers ...Type) *StaticHierarchy {
	h.classes[name] = classInfo{supers: supers, params: params}
	return h
}

// Interface declares an interface with its direct superinterfaces.
func (h *StaticHierarchy) Interface(name string, params []string, supers ...Type) *StaticHierarchy {
	h.classes[name] = classInfo{supers: supers, params: params, iface: true}
	return h
}

func (h *StaticHierarchy) Supertypes(name string) []Type {
	if c, ok := h.classes[name]; ok {
		return c.supers
	}
	if h.parent != nil {
		return h.parent.Supertypes(name)
	}
	return nil
}

func (h *StaticHierarchy) TypeParameters(name string) []string {
	if c, ok := h.classes[name]; ok {
		return c.params
	}
	if h.parent != nil {
		return h.parent.TypeParameters(name)
	}
	return nil
}

func (h *StaticHierarchy) IsInterface(name string) bool {
	if c, ok := h.classes[name]; ok {
		return c.iface
	}
	if h.parent != nil {
		return h.parent.IsInterface(name)
	}
	return false
}

// Names returns the names declared directly in h, sorted.
func (h *StaticHierarchy) Names() []string {
	names := make([]string, 0, len(h.classes))
	for name := range h.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ref(name string, args ...Type) Reference {
	return Reference{Name: name, Args: args}
}

func tv(name string) TypeVariable {
	return TypeVariable{Name: name}
}

// Lang is the built-in hierarchy of the java.lang and java.util types the
// compiler knows without declarations.
var Lang = newLang()

func newLang() *StaticHierarchy {
	h := NewStaticHierarchy(nil)
	h.Class(Object.Name, nil)
	h.Interface(Serializable.Name, nil)
	h.Interface(Cloneable.Name, nil)
	h.Interface("java.lang.Comparable", []string{"T"})
	h.Interface("java.lang.CharSequence", nil)
	h.Interface("java.lang.Iterable", []string{"T"})
	h.Class(String.Name, nil, Object, Serializable,
		ref("java.lang.Comparable", String), ref("java.lang.CharSequence"))
	h.Class("java.lang.Number", nil, Object, Serializable)
	for _, name := range []string{
		"java.lang.Byte", "java.lang.Short", "java.lang.Integer",
		"java.lang.Long", "java.lang.Float", "java.lang.Double",
	} {
		h.Class(name, nil, ref("java.lang.Number"), ref("java.lang.Comparable", ref(name)))
	}
	for _, name := range []string{"java.lang.Character", "java.lang.Boolean"} {
		h.Class(name, nil, Object, Serializable, ref("java.lang.Comparable", ref(name)))
	}
	h.Class(Throwable.Name, nil, Object, Serializable)
	h.Class("java.lang.Exception", nil, Throwable)
	h.Class("java.lang.RuntimeException", nil, ref("java.lang.Exception"))
	h.Class("java.lang.Error", nil, Throwable)
	h.Class("java.lang.System", nil, Object)
	h.Class("java.io.PrintStream", nil, Object)
	h.Class(MethodHandle.Name, nil, Object)
	h.Interface("java.util.Collection", []string{"E"}, ref("java.lang.Iterable", tv("E")))
	h.Interface("java.util.List", []string{"E"}, ref("java.util.Collection", tv("E")))
	h.Interface("java.util.Set", []string{"E"}, ref("java.util.Collection", tv("E")))
	h.Class("java.util.ArrayList", []string{"E"}, Object,
		ref("java.util.List", tv("E")), Serializable, Cloneable)
	h.Class("java.util.HashSet", []string{"E"}, Object,
		ref("java.util.Set", tv("E")), Serializable, Cloneable)
	return h
}
