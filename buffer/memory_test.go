package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/udaf/types"
)

func TestVector_Ops(t *testing.T) {
	v := Vector{1, -2, 3}
	v.Plus(Vector{1, 1, 1})
	assert.Equal(t, Vector{2, -1, 4}, v)

	v.Minus(Vector{2})
	assert.Equal(t, Vector{0, -1, 4}, v, "shorter operand only touches its length")

	v.Scale(0.5)
	assert.Equal(t, Vector{0, -0.5, 2}, v)

	v.PlusNegativeValues(Vector{-1, 3, -2})
	assert.Equal(t, Vector{-1, -0.5, 0}, v)

	v.MinusNegativeValues(Vector{-1, 3, -2})
	assert.Equal(t, Vector{0, -0.5, 2}, v)

	assert.Equal(t, Vector{-1, 0, 0}, NegativeOf(Vector{-1, 0, 2}))
}

func TestVector_Clone(t *testing.T) {
	v := Vector{1, 2}
	c := v.Clone()
	c[0] = 9
	assert.Equal(t, 1.0, v[0])
	assert.Nil(t, Vector(nil).Clone())
}

func TestMemory_Scalars(t *testing.T) {
	m := NewMemory(Layout{types.Double, types.Int})
	assert.True(t, m.IsNull(0))
	assert.True(t, m.IsNull(1))
	assert.Equal(t, 0.0, m.ReadDouble(0))
	assert.Equal(t, int64(0), m.ReadInt(1))

	require.NoError(t, m.Add(0, 2.5))
	require.NoError(t, m.Add(0, 1))
	require.NoError(t, m.Add(1, 1))
	require.NoError(t, m.Add(1, int32(2)))
	assert.False(t, m.IsNull(0))
	assert.Equal(t, 3.5, m.ReadDouble(0))
	assert.Equal(t, int64(3), m.ReadInt(1))

	require.NoError(t, m.Write(1, 2.9))
	assert.Equal(t, int64(2), m.Value(1), "integral fields truncate")

	require.NoError(t, m.Write(0, nil))
	assert.True(t, m.IsNull(0))

	assert.Error(t, m.Add(0, "abc"))
	assert.Error(t, m.Write(1, []int{1}))
}

func TestMemory_Vectors(t *testing.T) {
	m := NewMemory(Layout{types.DoubleArray})
	assert.Nil(t, m.ReadVector(0))

	in := Vector{1, 2}
	require.NoError(t, m.Write(0, in))
	in[0] = 100
	assert.Equal(t, Vector{1, 2}, m.ReadVector(0), "write stores a copy")

	m.ReadWritableVector(0).Plus(Vector{1, 1})
	assert.Equal(t, Vector{2, 3}, m.ReadVector(0))

	require.NoError(t, m.Write(0, Vector(nil)))
	assert.True(t, m.IsNull(0))

	assert.Error(t, m.Write(0, 1.0))
	assert.Error(t, m.Add(0, 1.0))
}

func TestMemory_OtherTypes(t *testing.T) {
	m := NewMemory(Layout{types.String})
	require.NoError(t, m.Write(0, "abc"))
	assert.Equal(t, "abc", m.Value(0))
	assert.Equal(t, Layout{types.String}, m.Layout())
}

func TestMemory_Clone(t *testing.T) {
	m := NewMemory(Layout{types.DoubleArray, types.Long})
	require.NoError(t, m.Write(0, Vector{1}))
	require.NoError(t, m.Write(1, 4))

	c := m.Clone()
	c.ReadWritableVector(0).Scale(10)
	require.NoError(t, c.Add(1, 1))

	assert.Equal(t, Vector{1}, m.ReadVector(0))
	assert.Equal(t, int64(4), m.ReadInt(1))
	assert.Equal(t, Vector{10}, c.ReadVector(0))
	assert.Equal(t, int64(5), c.ReadInt(1))
}

func TestMemory_OutOfRangePanics(t *testing.T) {
	m := NewMemory(Layout{types.Int})
	assert.Panics(t, func() { m.IsNull(1) })
	assert.Panics(t, func() { m.ReadDouble(-1) })
}
