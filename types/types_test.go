package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Type
	}{
		{"int", Int},
		{"void", Void},
		{"null", Null},
		{"String", String},
		{"java.lang.String", String},
		{"int[]", Array{Elem: Int}},
		{"String[][]", Array{Elem: Array{Elem: String}}},
		{"p.X", Reference{Name: "p.X"}},
		{"java.util.List<String>", Reference{Name: "java.util.List", Args: []Type{String}}},
		{"java.util.List<? extends Number>", Reference{Name: "java.util.List", Args: []Type{
			Wildcard{Bound: Reference{Name: "java.lang.Number"}},
		}}},
		{"java.util.List<? super Integer>", Reference{Name: "java.util.List", Args: []Type{
			Wildcard{Bound: Reference{Name: "java.lang.Integer"}, Super: true},
		}}},
		{"java.util.Map<String, int[]>", Reference{Name: "java.util.Map", Args: []Type{
			String, Array{Elem: Int},
		}}},
		{"java.util.List<?>", Reference{Name: "java.util.List", Args: []Type{Wildcard{}}}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.input)
		require.Nil(t, err, tt.input)
		require.Equal(t, tt.want, got, tt.input)
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{"", "List<String", "int]", "<T>", "List<String>>"} {
		_, err := Parse(input)
		require.NotNil(t, err, input)
	}
}

func TestParseWith(t *testing.T) {
	resolve := func(name string) (Type, bool) {
		if name == "T" {
			return TypeVariable{Name: "T"}, true
		}
		return nil, false
	}
	got, err := ParseWith("java.util.List<T>[]", resolve)
	require.Nil(t, err)
	require.Equal(t, Array{Elem: Reference{Name: "java.util.List", Args: []Type{TypeVariable{Name: "T"}}}}, got)
}

func TestDescriptors(t *testing.T) {
	require.Equal(t, "I", Int.Descriptor())
	require.Equal(t, "Ljava/lang/String;", String.Descriptor())
	require.Equal(t, "[[J", Array{Elem: Array{Elem: Long}}.Descriptor())
	require.Equal(t, "Ljava/lang/Number;", TypeVariable{Name: "T", Bound: Reference{Name: "java.lang.Number"}}.Descriptor())
	require.Equal(t, "Ljava/lang/Object;", Null.Descriptor())
	require.Equal(t, "(IJLjava/lang/String;)V", MethodDescriptor([]Type{Int, Long, String}, nil))
	require.Equal(t, "()[I", MethodDescriptor(nil, Array{Elem: Int}))
}

func TestBoxing(t *testing.T) {
	require.Equal(t, Reference{Name: "java.lang.Integer"}, Box(Int))
	require.Equal(t, Reference{Name: "java.lang.Character"}, Box(Char))
	require.Equal(t, String, Box(String))
	require.Equal(t, Void, Box(Void))

	p, ok := Unbox(Reference{Name: "java.lang.Boolean"})
	require.True(t, ok)
	require.Equal(t, Boolean, p)
	_, ok = Unbox(String)
	require.False(t, ok)
}

func TestShort(t *testing.T) {
	require.Equal(t, "String", ShortString(String))
	require.Equal(t, "List<? extends Number>", ShortString(Reference{Name: "java.util.List", Args: []Type{
		Wildcard{Bound: Reference{Name: "java.lang.Number"}},
	}}))
	require.Equal(t, "int[]", ShortString(Array{Elem: Int}))
	require.Equal(t, "Serializable&Cloneable", ShortString(Intersection{Bounds: []Type{Serializable, Cloneable}}))
}

func TestSlotsAndErasure(t *testing.T) {
	require.Equal(t, 2, Slots(Long))
	require.Equal(t, 2, Slots(Double))
	require.Equal(t, 1, Slots(Int))
	require.Equal(t, 1, Slots(String))

	require.Equal(t, Reference{Name: "java.util.List"},
		Erasure(Reference{Name: "java.util.List", Args: []Type{String}}))
	require.Equal(t, Object, Erasure(TypeVariable{Name: "T"}))
	require.Equal(t, Serializable, Erasure(Intersection{Bounds: []Type{Serializable, Cloneable}}))
}

func TestIsSubtype(t *testing.T) {
	list := func(arg Type) Type {
		return Reference{Name: "java.util.List", Args: []Type{arg}}
	}
	integer := Reference{Name: "java.lang.Integer"}
	number := Reference{Name: "java.lang.Number"}
	tests := []struct {
		a, b Type
		want bool
	}{
		{String, Object, true},
		{Object, String, false},
		{integer, number, true},
		{integer, Reference{Name: "java.lang.Comparable", Args: []Type{integer}}, true},
		{integer, Reference{Name: "java.lang.Comparable", Args: []Type{String}}, false},
		{Reference{Name: "java.util.ArrayList", Args: []Type{String}}, list(String), true},
		{Reference{Name: "java.util.ArrayList", Args: []Type{String}}, list(Wildcard{Bound: Reference{Name: "java.lang.CharSequence"}}), true},
		{list(integer), list(number), false},
		{list(integer), list(Wildcard{Bound: number}), true},
		{list(number), list(Wildcard{Bound: integer, Super: true}), true},
		{list(String), Reference{Name: "java.util.List"}, true},
		{Array{Elem: String}, Array{Elem: Object}, true},
		{Array{Elem: Int}, Array{Elem: Long}, false},
		{Array{Elem: Int}, Cloneable, true},
		{Null, Array{Elem: Int}, true},
		{Int, Long, false},
		{TypeVariable{Name: "T", Bound: number}, number, true},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Default.IsSubtype(tt.a, tt.b), "%s <: %s", tt.a, tt.b)
	}
}

func TestSubstitute(t *testing.T) {
	list := Reference{Name: "java.util.List", Args: []Type{TypeVariable{Name: "E"}}}
	got := Substitute(list, []string{"E"}, []Type{String})
	require.True(t, Identical(Reference{Name: "java.util.List", Args: []Type{String}}, got))

	arr := Substitute(Array{Elem: TypeVariable{Name: "T"}}, []string{"T"}, nil)
	require.True(t, Identical(Array{Elem: TypeVariable{Name: "T"}}, arr))
}
