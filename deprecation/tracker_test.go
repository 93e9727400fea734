package deprecation

import (
	"testing"

	"github.com/deepnoodle-ai/jcore/errors"
	"github.com/deepnoodle-ai/jcore/options"
	"github.com/deepnoodle-ai/jcore/symbol"
	"github.com/deepnoodle-ai/jcore/types"
	"github.com/stretchr/testify/require"
)

func terminalAsError() options.Options {
	o := options.Default()
	o.TerminalDeprecation = errors.Error
	return o
}

// nestedTable declares a.N1 with a terminally deprecated nested N1.N2
// containing N3, in the shape of:
//
//	public class N1 {
//	  @Deprecated(since="1.2", forRemoval=true)
//	  public class N2 { public void foo() {} public class N3 { public void foo() {} } }
//	}
func nestedTable(t *testing.T) *symbol.Table {
	table := symbol.NewTable()
	unit := "a/N1.java"
	require.Nil(t, table.DefinePackage("a", unit, false, false, ""))
	require.Nil(t, table.Define(symbol.NewType("a.N1", "a", unit)))
	n2 := symbol.NewType("a.N1.N2", "a.N1", unit)
	n2.Deprecated = true
	n2.ForRemoval = true
	n2.Since = "1.2"
	require.Nil(t, table.Define(n2))
	require.Nil(t, table.Define(symbol.NewMethod("a.N1.N2", "foo", nil, nil, unit)))
	require.Nil(t, table.Define(symbol.NewType("a.N1.N2.N3", "a.N1.N2", unit)))
	require.Nil(t, table.Define(symbol.NewMethod("a.N1.N2.N3", "foo", nil, nil, unit)))
	table.Seal()
	return table
}

func lookup(t *testing.T, table *symbol.Table, name string) *symbol.Symbol {
	s, ok := table.Lookup(name)
	require.True(t, ok, name)
	return s
}

func TestNestedTerminalDeprecation(t *testing.T) {
	table := nestedTable(t)
	tracker := New(table, terminalAsError())
	site := Site{Unit: "p/M1.java"}

	_, ok := tracker.Check(lookup(t, table, "a.N1"), site)
	require.False(t, ok)

	tests := []struct {
		name    string
		message string
	}{
		{"a.N1.N2", "The type N1.N2 has been deprecated since version 1.2 and marked for removal"},
		{"a.N1.N2.N3", "The type N1.N2.N3 has been deprecated and marked for removal"},
		{"a.N1.N2.N3.foo", "The method foo() from the type N1.N2.N3 has been deprecated and marked for removal"},
	}
	for _, tt := range tests {
		p, ok := tracker.Check(lookup(t, table, tt.name), site)
		require.True(t, ok, tt.name)
		require.Equal(t, errors.Error, p.Severity)
		require.Equal(t, errors.E2202, p.Code)
		require.Equal(t, tt.message, p.Message)
	}
}

func TestSameUnitNeverReported(t *testing.T) {
	table := nestedTable(t)
	tracker := New(table, options.Default())
	for _, name := range []string{"a.N1.N2", "a.N1.N2.N3", "a.N1.N2.foo", "a.N1.N2.N3.foo"} {
		sym := lookup(t, table, name)
		require.True(t, tracker.ViewedAsDeprecated(sym), name)
		require.False(t, tracker.IsDeprecatedUseReportable(sym, "a/N1.java"), name)
		require.True(t, tracker.IsDeprecatedUseReportable(sym, "p/M1.java"), name)
	}
	require.False(t, tracker.IsDeprecatedUseReportable(nil, "p/M1.java"))
	require.False(t, tracker.IsDeprecatedUseReportable(lookup(t, table, "a"), "p/M1.java"))
}

// packageTable declares p1.X.Inner.foo and a deprecated package-info for p1,
// in the given order.
func packageTable(t *testing.T, infoFirst bool) *symbol.Table {
	table := symbol.NewTable()
	declareInfo := func() {
		require.Nil(t, table.DefinePackage("p1", "p1/package-info.java", true, true, ""))
	}
	declareX := func() {
		unit := "p1/X.java"
		require.Nil(t, table.DefinePackage("p1", unit, false, false, ""))
		require.Nil(t, table.Define(symbol.NewType("p1.X", "p1", unit)))
		inner := symbol.NewType("p1.X.Inner", "p1.X", unit)
		inner.Static = true
		require.Nil(t, table.Define(inner))
		require.Nil(t, table.Define(symbol.NewMethod("p1.X.Inner", "foo", nil, nil, unit)))
	}
	if infoFirst {
		declareInfo()
		declareX()
	} else {
		declareX()
		declareInfo()
	}
	table.Seal()
	return table
}

func TestPackageDeprecationOrderIndependent(t *testing.T) {
	var transcripts [2][]string
	for i, infoFirst := range []bool{true, false} {
		table := packageTable(t, infoFirst)
		tracker := New(table, terminalAsError())
		for _, name := range []string{"p1.X", "p1.X.Inner", "p1.X.Inner.foo"} {
			p, ok := tracker.Check(lookup(t, table, name), Site{Unit: "p2/C.java"})
			require.True(t, ok, name)
			transcripts[i] = append(transcripts[i], p.Message)
		}
	}
	require.Equal(t, transcripts[0], transcripts[1])
	require.Equal(t, []string{
		"The type X has been deprecated and marked for removal",
		"The type X.Inner has been deprecated and marked for removal",
		"The method foo() from the type X.Inner has been deprecated and marked for removal",
	}, transcripts[0])
}

func TestMultipleDeclarators(t *testing.T) {
	table := symbol.NewTable()
	unit := "test1/E01.java"
	require.Nil(t, table.DefinePackage("test1", unit, false, false, ""))
	require.Nil(t, table.Define(symbol.NewType("test1.E01", "test1", unit)))
	for _, name := range []string{"x", "y"} {
		f := symbol.NewField("test1.E01", name, types.Int, unit)
		f.Static = true
		f.Deprecated = true
		f.ForRemoval = true
		f.Since = "3"
		require.Nil(t, table.Define(f))
	}
	table.Seal()

	tracker := New(table, terminalAsError())
	for _, name := range []string{"x", "y"} {
		f, ok := table.Field("test1.E01", name)
		require.True(t, ok)
		p, ok := tracker.Check(f, Site{Unit: "test1/E02.java"})
		require.True(t, ok)
		require.Equal(t, "The field E01."+name+" has been deprecated since version 3 and marked for removal", p.Message)
	}
}

func TestDeprecatedContextExemption(t *testing.T) {
	table := symbol.NewTable()
	require.Nil(t, table.DefinePackage("p", "p/A.java", false, false, ""))
	a := symbol.NewType("p.A", "p", "p/A.java")
	a.Deprecated = true
	require.Nil(t, table.Define(a))

	require.Nil(t, table.Define(symbol.NewType("p.B", "p", "p/B.java")))
	old := symbol.NewMethod("p.B", "old", nil, nil, "p/B.java")
	old.Deprecated = true
	require.Nil(t, table.Define(old))
	require.Nil(t, table.Define(symbol.NewMethod("p.B", "fresh", nil, nil, "p/B.java")))
	table.Seal()

	tracker := New(table, options.Default())
	_, ok := tracker.Check(a, Site{Unit: "p/B.java", Context: lookup(t, table, "p.B.old")})
	require.False(t, ok)

	p, ok := tracker.Check(a, Site{Unit: "p/B.java", Context: lookup(t, table, "p.B.fresh")})
	require.True(t, ok)
	require.Equal(t, errors.Warning, p.Severity)
	require.Equal(t, errors.E2201, p.Code)
	require.Equal(t, "The type A is deprecated", p.Message)

	opts := options.Default()
	opts.DeprecationInDeprecatedCode = true
	_, ok = New(table, opts).Check(a, Site{Unit: "p/B.java", Context: lookup(t, table, "p.B.old")})
	require.True(t, ok)
}

func TestSuppressionAndSeverity(t *testing.T) {
	table := packageTable(t, true)
	foo := lookup(t, table, "p1.X.Inner.foo")

	tracker := New(table, options.Default())
	_, ok := tracker.Check(foo, Site{Unit: "p2/C.java", Suppressed: []string{"deprecation"}})
	require.True(t, ok, "deprecation does not suppress terminal deprecation")
	_, ok = tracker.Check(foo, Site{Unit: "p2/C.java", Suppressed: []string{"removal"}})
	require.False(t, ok)
	_, ok = tracker.Check(foo, Site{Unit: "p2/C.java", Suppressed: []string{"all"}})
	require.False(t, ok)

	opts := options.Default()
	opts.TerminalDeprecation = errors.Ignore
	_, ok = New(table, opts).Check(foo, Site{Unit: "p2/C.java"})
	require.False(t, ok)
}

func TestDescribe(t *testing.T) {
	table := symbol.NewTable()
	unit := "test1/E01.java"
	require.Nil(t, table.DefinePackage("test1", unit, false, false, ""))
	require.Nil(t, table.Define(symbol.NewType("test1.E01", "test1", unit)))
	require.Nil(t, table.Define(symbol.NewType("test1.E01.Old", "test1.E01", unit)))
	ctor := symbol.NewMethod("test1.E01.Old", symbol.ConstructorName, nil, nil, unit)
	ctor.Deprecated = true
	ctor.Since = "1.0"
	require.Nil(t, table.Define(ctor))
	m := symbol.NewMethod("test1.E01", "foo", []types.Type{types.Int, types.String}, nil, unit)
	require.Nil(t, table.Define(m))
	table.Seal()

	tracker := New(table, options.Default())
	require.Equal(t, "constructor E01.Old()", tracker.Describe(ctor))
	require.Equal(t, "method foo(int, String) from the type E01", tracker.Describe(m))
	require.Equal(t, "type E01.Old", tracker.Describe(lookup(t, table, "test1.E01.Old")))

	p, ok := tracker.Check(ctor, Site{Unit: "test1/E02.java"})
	require.True(t, ok)
	require.Equal(t, "The constructor E01.Old() is deprecated since version 1.0", p.Message)
}

func TestCheckOverride(t *testing.T) {
	table := symbol.NewTable()
	require.Nil(t, table.DefinePackage("p1", "p1/X.java", false, false, ""))
	require.Nil(t, table.Define(symbol.NewType("p1.X", "p1", "p1/X.java")))
	foo := symbol.NewMethod("p1.X", "foo", nil, nil, "p1/X.java")
	foo.Deprecated = true
	bar := symbol.NewMethod("p1.X", "bar", nil, nil, "p1/X.java")
	bar.Deprecated = true
	bar.ForRemoval = true
	require.Nil(t, table.Define(foo))
	require.Nil(t, table.Define(bar))

	require.Nil(t, table.DefinePackage("p2", "p2/C.java", false, false, ""))
	c := symbol.NewType("p2.C", "p2", "p2/C.java")
	c.Supertypes = []types.Type{types.Reference{Name: "p1.X"}}
	require.Nil(t, table.Define(c))
	cfoo := symbol.NewMethod("p2.C", "foo", nil, nil, "p2/C.java")
	cbar := symbol.NewMethod("p2.C", "bar", nil, nil, "p2/C.java")
	require.Nil(t, table.Define(cfoo))
	require.Nil(t, table.Define(cbar))
	table.Seal()

	site := Site{Unit: "p2/C.java"}
	_, ok := New(table, terminalAsError()).CheckOverride(cfoo, foo, site)
	require.False(t, ok)

	opts := terminalAsError()
	opts.DeprecationWhenOverriding = true
	tracker := New(table, opts)
	p, ok := tracker.CheckOverride(cfoo, foo, site)
	require.True(t, ok)
	require.Equal(t, errors.Warning, p.Severity)
	require.Equal(t, "The method C.foo() overrides a deprecated method from X", p.Message)

	p, ok = tracker.CheckOverride(cbar, bar, site)
	require.True(t, ok)
	require.Equal(t, errors.Error, p.Severity)
	require.Equal(t, "The method C.bar() overrides a method from X that has been deprecated and marked for removal", p.Message)
}
