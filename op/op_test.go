package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo(Invokeinterface)
	require.Equal(t, "invokeinterface", info.Name)
	require.Equal(t, 5, info.Size)
	require.Equal(t, Variable, info.StackDelta)
	require.Equal(t, Invokeinterface, info.Code)
}

func TestGetInfoAllOpcodes(t *testing.T) {
	tests := []struct {
		code  Code
		name  string
		size  int
		delta int
	}{
		{Nop, "nop", 1, 0},
		{AconstNull, "aconst_null", 1, 1},
		{IconstM1, "iconst_m1", 1, 1},
		{Iconst5, "iconst_5", 1, 1},
		{Lconst1, "lconst_1", 1, 2},
		{Bipush, "bipush", 2, 1},
		{Sipush, "sipush", 3, 1},
		{Ldc, "ldc", 2, 1},
		{Ldc2W, "ldc2_w", 3, 2},
		{Aload0, "aload_0", 1, 1},
		{Aload0 + 3, "aload_3", 1, 1},
		{Aload, "aload", 2, 1},
		{Lstore0 + 2, "lstore_2", 1, -2},
		{Astore, "astore", 2, -1},
		{Pop2, "pop2", 1, -2},
		{Dup, "dup", 1, 1},
		{Dup2X1, "dup2_x1", 1, 2},
		{I2l, "i2l", 1, 1},
		{D2i, "d2i", 1, -1},
		{Ifeq, "ifeq", 3, -1},
		{Goto, "goto", 3, 0},
		{Areturn, "areturn", 1, -1},
		{Return, "return", 1, 0},
		{Getfield, "getfield", 3, Variable},
		{New, "new", 3, 1},
		{Athrow, "athrow", 1, -1},
		{Checkcast, "checkcast", 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := GetInfo(tt.code)
			require.True(t, info.IsValid())
			require.Equal(t, tt.name, info.Name)
			require.Equal(t, tt.size, info.Size)
			require.Equal(t, tt.delta, info.StackDelta)
			require.Equal(t, tt.name, tt.code.String())
		})
	}
}

func TestBranchAndTerminal(t *testing.T) {
	require.True(t, GetInfo(Goto).Branch)
	require.True(t, GetInfo(Goto).Terminal)
	require.True(t, GetInfo(Ifeq).Branch)
	require.False(t, GetInfo(Ifeq).Terminal)
	require.True(t, GetInfo(Athrow).Terminal)
	require.True(t, GetInfo(Return).Terminal)
	require.False(t, GetInfo(Getfield).Terminal)
}

func TestUnknownOpcode(t *testing.T) {
	info := GetInfo(Code(0xff))
	require.False(t, info.IsValid())
	require.Equal(t, "invalid", Code(0xff).String())
}
