package symbol

import (
	"strings"

	"github.com/deepnoodle-ai/jcore/types"
)

var (
	printStream = types.Reference{Name: "java.io.PrintStream"}
	objectArray = types.Array{Elem: types.Object}
)

type builtinMember struct {
	owner  string
	name   string
	params []types.Type
	result types.Type
	field  bool
	static bool
	poly   bool
}

var builtinMembers = []builtinMember{
	{owner: "java.lang.Object", name: ConstructorName},
	{owner: "java.lang.Object", name: "toString", result: types.String},
	{owner: "java.lang.Object", name: "hashCode", result: types.Int},
	{owner: "java.lang.String", name: "length", result: types.Int},
	{owner: "java.lang.System", name: "out", result: printStream, field: true, static: true},
	{owner: "java.lang.System", name: "err", result: printStream, field: true, static: true},
	{owner: "java.io.PrintStream", name: "println"},
	{owner: "java.lang.Throwable", name: ConstructorName},
	{owner: "java.lang.Throwable", name: "getMessage", result: types.String},
	{owner: "java.lang.Throwable", name: "printStackTrace"},
	{owner: "java.lang.Exception", name: ConstructorName},
	{owner: "java.lang.RuntimeException", name: ConstructorName},
	{owner: "java.lang.Error", name: ConstructorName},
	{owner: "java.lang.Integer", name: "MAX_VALUE", result: types.Int, field: true, static: true},
	{owner: "java.lang.Integer", name: "MIN_VALUE", result: types.Int, field: true, static: true},
	{owner: types.MethodHandle.Name, name: "invokeExact", params: []types.Type{objectArray}, result: types.Object, poly: true},
	{owner: types.MethodHandle.Name, name: "invoke", params: []types.Type{objectArray}, result: types.Object, poly: true},
}

// printTypes are the parameter types of the print and println overloads
// of PrintStream.
var printTypes = []types.Type{
	types.Boolean, types.Char, types.Int, types.Long, types.Float, types.Double,
	types.String, types.Object,
}

func packageOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return ""
}

func defineBuiltins(t *Table) {
	for _, name := range types.Lang.Names() {
		pkg := packageOf(name)
		if _, ok := t.symbols[pkg]; !ok {
			t.symbols[pkg] = &Symbol{Kind: Package, QualifiedName: pkg, Name: pkg}
		}
		s := NewType(name, pkg, "")
		s.Supertypes = types.Lang.Supertypes(name)
		s.TypeParams = types.Lang.TypeParameters(name)
		s.Interface = types.Lang.IsInterface(name)
		t.symbols[name] = s
	}
	for _, m := range builtinMembers {
		var s *Symbol
		if m.field {
			s = NewField(m.owner, m.name, m.result, "")
		} else {
			s = NewMethod(m.owner, m.name, m.params, m.result, "")
		}
		s.Static = m.static
		s.PolymorphicSignature = m.poly
		mustDefine(t, s)
	}
	for _, name := range []string{"print", "println"} {
		for _, p := range printTypes {
			mustDefine(t, NewMethod(printStream.Name, name, []types.Type{p}, nil, ""))
		}
	}
}

func mustDefine(t *Table, s *Symbol) {
	if err := t.Define(s); err != nil {
		panic(err)
	}
}
