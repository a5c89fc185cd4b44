package xpath

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpMapAppend(t *testing.T) {
	m := NewOpMapSize(8, 4)
	m.Set(0, OpXPath)
	m.SetLen(2)

	pos := m.Append(2, OpNeg)
	require.Equal(t, 2, pos)
	m.Append(2, OpLiteral)
	m.Push(0)
	m.Patch(4)
	m.Patch(2)

	require.Equal(t, 7, m.Len())
	require.Equal(t, []int32{OpXPath, 7, OpNeg, 5, OpLiteral, 3, 0}, m.Slice())
}

func TestOpMapInsert(t *testing.T) {
	m := NewOpMapSize(16, 16)
	m.Set(0, OpXPath)
	m.SetLen(2)
	m.Append(3, OpNumberLit)
	m.Set(4, 0)

	m.Insert(2, 2, OpPlus)
	require.Equal(t, 7, m.Len())
	require.Equal(t, []int32{OpXPath, 7, OpPlus, 0, OpNumberLit, 3, 0}, m.Slice())
}

func TestOpMapGrow(t *testing.T) {
	m := NewOpMapSize(4, 4)
	m.Set(0, OpXPath)
	m.SetLen(2)

	for i := 0; i < 10; i++ {
		m.Push(int32(i))
	}
	require.Equal(t, 12, m.Len())
	require.Equal(t, 12, m.Cap())
	require.Equal(t, OpXPath, m.Get(0))
	for i := 0; i < 10; i++ {
		require.Equal(t, int32(i), m.Get(i+2))
	}

	pos := m.Reserve(5)
	require.Equal(t, 12, pos)
	m.Set(16, 42)
	require.Equal(t, 20, m.Cap())
	require.Equal(t, int32(42), m.Get(16))
	require.Equal(t, int32(0), m.Get(100))
}

func TestOpMapGrowInsert(t *testing.T) {
	m := NewOpMapSize(6, 2)
	m.Set(0, OpXPath)
	m.SetLen(2)
	m.Append(3, OpNumberLit)
	m.Push(EndOp)

	m.Insert(2, 2, OpNeg)
	m.Patch(2)
	require.Equal(t, 8, m.Cap())
	require.Equal(t, []int32{OpXPath, 8, OpNeg, 6, OpNumberLit, 3, 0, EndOp}, m.Slice())
}

func TestOpMapShrink(t *testing.T) {
	m := NewOpMap()
	m.Set(0, OpXPath)
	m.SetLen(2)
	m.Append(3, OpLiteral)
	m.Terminate()

	require.Equal(t, 2500, m.Cap())
	m.Shrink()
	require.Equal(t, 6, m.Cap())
	require.Equal(t, EndOp, m.Get(5))
}
