package symbol

import (
	"errors"
	"testing"

	"github.com/deepnoodle-ai/jcore/types"
	"github.com/stretchr/testify/require"
)

func TestTableBuiltins(t *testing.T) {
	table := NewTable()

	s, ok := table.LookupType("java.lang.String")
	require.True(t, ok)
	require.Equal(t, "String", s.Name)
	require.Equal(t, "java.lang", s.Enclosing)

	pkg, ok := table.Enclosing(s)
	require.True(t, ok)
	require.Equal(t, Package, pkg.Kind)

	out, ok := table.Field("java.lang.System", "out")
	require.True(t, ok)
	require.True(t, out.Static)
	require.Equal(t, "Ljava/io/PrintStream;", out.Descriptor())

	print, ok := table.DeclaredMethod("java.io.PrintStream", "println", []types.Type{types.String})
	require.True(t, ok)
	require.Equal(t, "(Ljava/lang/String;)V", print.Descriptor())
	require.Len(t, table.Methods("java.io.PrintStream", "println"), 9)
	require.Len(t, table.Methods("java.io.PrintStream", "print"), 8)

	invoke, ok := table.Method(types.MethodHandle.Name, "invokeExact")
	require.True(t, ok)
	require.True(t, invoke.PolymorphicSignature)
}

func TestTableDefine(t *testing.T) {
	table := NewTable()
	require.Nil(t, table.DefinePackage("p", "p/X.java", false, false, ""))

	x := NewType("p.X", "p", "p/X.java")
	require.Nil(t, table.Define(x))
	require.Nil(t, table.Define(NewField("p.X", "a", types.Int, "p/X.java")))
	require.Nil(t, table.Define(NewMethod("p.X", "foo", nil, nil, "p/X.java")))

	err := table.Define(NewType("p.X", "p", "p/Y.java"))
	require.True(t, errors.Is(err, ErrDuplicate))

	require.Len(t, table.Members("p.X"), 2)
	require.Equal(t, []string{"a"}, table.MemberNames("p.X", Field))

	foo, ok := table.Method("p.X", "foo")
	require.True(t, ok)
	require.Equal(t, types.Void, foo.Type)
	require.Equal(t, "()V", foo.Descriptor())

	// Inherited from java.lang.Object.
	_, ok = table.Method("p.X", "toString")
	require.True(t, ok)
	_, ok = table.Method("p.X", ConstructorName)
	require.False(t, ok)
	_, ok = table.Field("p.X", "missing")
	require.False(t, ok)
}

func TestTableInheritedMembers(t *testing.T) {
	table := NewTable()
	base := NewType("p.Base", "p", "p/Base.java")
	require.Nil(t, table.Define(base))
	require.Nil(t, table.Define(NewField("p.Base", "count", types.Int, "p/Base.java")))

	derived := NewType("p.Derived", "p", "p/Derived.java")
	derived.Supertypes = []types.Type{types.Reference{Name: "p.Base"}}
	require.Nil(t, table.Define(derived))

	f, ok := table.Field("p.Derived", "count")
	require.True(t, ok)
	require.Equal(t, "p.Base", f.Owner())
	require.Equal(t, []string{"count"}, table.MemberNames("p.Derived", Field))

	r := types.NewResolver(table)
	require.True(t, r.IsSubtype(types.Reference{Name: "p.Derived"}, types.Reference{Name: "p.Base"}))
	require.True(t, r.IsSubtype(types.Reference{Name: "p.Derived"}, types.Object))
}

func TestTableOverloads(t *testing.T) {
	table := NewTable()
	require.Nil(t, table.Define(NewType("p.Base", "p", "p/Base.java")))
	derived := NewType("p.Derived", "p", "p/Derived.java")
	derived.Supertypes = []types.Type{types.Reference{Name: "p.Base"}}
	require.Nil(t, table.Define(derived))

	baseInt := NewMethod("p.Base", "f", []types.Type{types.Int}, types.Int, "p/Base.java")
	baseLong := NewMethod("p.Base", "f", []types.Type{types.Long}, nil, "p/Base.java")
	derivedInt := NewMethod("p.Derived", "f", []types.Type{types.Int}, types.Int, "p/Derived.java")
	derivedString := NewMethod("p.Derived", "f", []types.Type{types.String}, nil, "p/Derived.java")
	for _, m := range []*Symbol{baseInt, baseLong, derivedInt, derivedString} {
		require.Nil(t, table.Define(m))
	}

	err := table.Define(NewMethod("p.Derived", "f", []types.Type{types.Int}, nil, "p/Derived.java"))
	require.True(t, errors.Is(err, ErrDuplicate))
	require.EqualError(t, err, "define p.Derived.f(I): duplicate symbol")

	// A field may share the name of a method.
	require.Nil(t, table.Define(NewField("p.Derived", "f", types.Int, "p/Derived.java")))

	// Derived.f(int) overrides Base.f(int).
	require.Equal(t, []*Symbol{derivedInt, derivedString, baseLong}, table.Methods("p.Derived", "f"))
	require.Equal(t, []*Symbol{baseInt, baseLong}, table.Methods("p.Base", "f"))
	require.Equal(t, []string{"f"}, table.MemberNames("p.Derived", Method))

	m, ok := table.DeclaredMethod("p.Derived", "f", []types.Type{types.String})
	require.True(t, ok)
	require.Same(t, derivedString, m)
	_, ok = table.DeclaredMethod("p.Derived", "f", []types.Type{types.Long})
	require.False(t, ok)

	first, ok := table.Method("p.Derived", "f")
	require.True(t, ok)
	require.Same(t, derivedInt, first)
	sym, ok := table.Lookup("p.Derived.f")
	require.True(t, ok)
	require.Equal(t, Field, sym.Kind)
	require.Equal(t, "(Ljava/lang/String;)", derivedString.ParamKey())
}

func TestTableSeal(t *testing.T) {
	table := NewTable()
	require.False(t, table.Sealed())
	table.Seal()
	require.True(t, table.Sealed())

	err := table.Define(NewType("p.X", "p", "p/X.java"))
	require.True(t, errors.Is(err, ErrSealed))
	err = table.DefinePackage("p", "p/package-info.java", true, false, "")
	require.True(t, errors.Is(err, ErrSealed))
	err = table.SetSupertypes("java.lang.String", nil)
	require.True(t, errors.Is(err, ErrSealed))
}

func TestSetSupertypes(t *testing.T) {
	table := NewTable()
	require.Nil(t, table.Define(NewType("p.Base", "p", "p/Base.java")))
	require.Nil(t, table.Define(NewType("p.X", "p", "p/X.java")))
	require.Nil(t, table.Define(NewField("p.Base", "count", types.Int, "p/Base.java")))

	_, ok := table.Field("p.X", "count")
	require.False(t, ok)

	require.Nil(t, table.SetSupertypes("p.X", []types.Type{types.Reference{Name: "p.Base"}}))
	f, ok := table.Field("p.X", "count")
	require.True(t, ok)
	require.Equal(t, "p.Base", f.Owner())

	require.Error(t, table.SetSupertypes("p.Missing", nil))
}

func TestPackageMerge(t *testing.T) {
	// The package-info declaration wins regardless of order.
	for _, infoFirst := range []bool{true, false} {
		table := NewTable()
		declare := []func() error{
			func() error { return table.DefinePackage("a", "a/package-info.java", true, false, "9") },
			func() error { return table.DefinePackage("a", "a/N1.java", false, false, "") },
		}
		if !infoFirst {
			declare[0], declare[1] = declare[1], declare[0]
		}
		for _, fn := range declare {
			require.Nil(t, fn())
		}
		pkg, ok := table.Lookup("a")
		require.True(t, ok)
		require.True(t, pkg.Deprecated)
		require.Equal(t, "9", pkg.Since)
		require.Equal(t, "a/package-info.java", pkg.Unit)
	}
}

func TestKindString(t *testing.T) {
	require.Equal(t, "package", Package.String())
	require.Equal(t, "type", Type.String())
	require.Equal(t, "field", Field.String())
	require.Equal(t, "method", Method.String())
}
