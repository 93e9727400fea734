package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	integer := Reference{Name: "java.lang.Integer"}
	tests := []struct {
		from, to Type
		want     Conversion
	}{
		{Int, Int, Identity},
		{Int, Long, WideningPrimitive},
		{Char, Double, WideningPrimitive},
		{Long, Int, NarrowingPrimitive},
		{Char, Short, NarrowingPrimitive},
		{Boolean, Int, Invalid},
		{Int, integer, Boxing},
		{Int, Reference{Name: "java.lang.Number"}, BoxingWidening},
		{Int, Object, BoxingWidening},
		{Int, String, Invalid},
		{integer, Int, Unboxing},
		{integer, Long, UnboxingWidening},
		{integer, Short, Invalid},
		{Object, Int, NarrowingReference},
		{String, Object, WideningReference},
		{Null, String, WideningReference},
		{Object, String, NarrowingReference},
		{String, integer, Invalid},
		{Array{Elem: String}, Array{Elem: Object}, WideningReference},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Default.Classify(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestClassifyWithoutBoxing(t *testing.T) {
	r := NewResolver(nil, WithoutBoxing())
	require.Equal(t, Invalid, r.Classify(Int, Reference{Name: "java.lang.Integer"}))
	require.Equal(t, Invalid, r.Classify(Reference{Name: "java.lang.Integer"}, Int))
	require.Equal(t, WideningPrimitive, r.Classify(Int, Long))
}

func TestAssignable(t *testing.T) {
	tests := []struct {
		name string
		op   Operand
		to   Type
		want bool
	}{
		{"int constant to byte", Const(Int, 10), Byte, true},
		{"large constant to byte", Const(Int, 300), Byte, false},
		{"int to byte", Operand{Type: Int}, Byte, false},
		{"int to long", Operand{Type: Int}, Long, true},
		{"long to int", Operand{Type: Long}, Int, false},
		{"long constant to int", Const(Long, 1), Int, false},
		{"int to Object", Operand{Type: Int}, Object, true},
		{"constant to Byte", Const(Int, 10), Reference{Name: "java.lang.Byte"}, true},
		{"Object to String", Operand{Type: Object}, String, false},
		{"null to array", Operand{Type: Null}, Array{Elem: Int}, true},
		{"erroneous", Operand{Type: Erroneous}, Int, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Default.Assignable(tt.op, tt.to))
		})
	}
}

func TestPromote(t *testing.T) {
	require.Equal(t, Int, Promote(Byte, Char))
	require.Equal(t, Long, Promote(Long, Int))
	require.Equal(t, Float, Promote(Long, Float))
	require.Equal(t, Double, Promote(Float, Double))
}

func TestRepresentable(t *testing.T) {
	require.True(t, Representable(127, Byte))
	require.False(t, Representable(128, Byte))
	require.True(t, Representable(65535, Char))
	require.False(t, Representable(-1, Char))
	require.True(t, Representable(-32768, Short))
	require.False(t, Representable(1<<31, Int))
}
