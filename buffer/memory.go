package buffer

import (
	"fmt"
	"math"

	"github.com/rulego/udaf/types"
	"github.com/spf13/cast"
)

// Vector is an in-memory numeric vector with the engine's vector operations.
// Operations mutate the receiver in place.
type Vector []float64

// Plus adds other element-wise.
func (v Vector) Plus(other Vector) {
	for i := range v {
		if i < len(other) {
			v[i] += other[i]
		}
	}
}

// Minus subtracts other element-wise.
func (v Vector) Minus(other Vector) {
	for i := range v {
		if i < len(other) {
			v[i] -= other[i]
		}
	}
}

// Scale multiplies every element by factor.
func (v Vector) Scale(factor float64) {
	for i := range v {
		v[i] *= factor
	}
}

// PlusNegativeValues adds only the negative elements of other.
func (v Vector) PlusNegativeValues(other Vector) {
	for i := range v {
		if i < len(other) {
			v[i] += math.Min(0, other[i])
		}
	}
}

// MinusNegativeValues subtracts only the negative elements of other.
func (v Vector) MinusNegativeValues(other Vector) {
	for i := range v {
		if i < len(other) {
			v[i] -= math.Min(0, other[i])
		}
	}
}

// Clone returns an independent copy.
func (v Vector) Clone() Vector {
	if v == nil {
		return nil
	}
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// NegativeOf keeps the negative elements of v and zeroes the others.
func NegativeOf(v Vector) Vector {
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = math.Min(0, x)
	}
	return out
}

// Memory is an in-memory aggregation buffer following a Layout. The engine
// owns the real buffers; Memory mirrors their semantics so generated routines
// can be exercised without it.
type Memory struct {
	layout Layout
	values []interface{}
}

// NewMemory allocates a buffer with every field unset.
func NewMemory(layout Layout) *Memory {
	return &Memory{
		layout: layout,
		values: make([]interface{}, len(layout)),
	}
}

// Layout returns the field types.
func (m *Memory) Layout() Layout {
	return m.layout
}

// IsNull reports whether the field is unset.
func (m *Memory) IsNull(field int) bool {
	m.check(field)
	return m.values[field] == nil
}

// Value returns the raw field value, nil when unset.
func (m *Memory) Value(field int) interface{} {
	m.check(field)
	return m.values[field]
}

// Write stores value in the field, converted to the field type.
func (m *Memory) Write(field int, value interface{}) error {
	m.check(field)
	if value == nil {
		m.values[field] = nil
		return nil
	}
	t := m.layout[field]
	switch {
	case t.IsNumericArray():
		v, ok := value.(Vector)
		if !ok {
			return fmt.Errorf("field %d holds %s, cannot write %T", field, t, value)
		}
		if v == nil {
			m.values[field] = nil
			return nil
		}
		m.values[field] = v.Clone()
	case isIntegral(t):
		n, err := cast.ToInt64E(value)
		if err != nil {
			return fmt.Errorf("field %d holds %s: %w", field, t, err)
		}
		m.values[field] = n
	case t.IsNumeric():
		f, err := cast.ToFloat64E(value)
		if err != nil {
			return fmt.Errorf("field %d holds %s: %w", field, t, err)
		}
		m.values[field] = f
	default:
		m.values[field] = value
	}
	return nil
}

// Add adds delta to the field; an unset field counts as zero.
func (m *Memory) Add(field int, delta interface{}) error {
	m.check(field)
	t := m.layout[field]
	if !t.IsNumeric() {
		return fmt.Errorf("field %d holds %s, cannot add", field, t)
	}
	if isIntegral(t) {
		d, err := cast.ToInt64E(delta)
		if err != nil {
			return err
		}
		return m.Write(field, m.ReadInt(field)+d)
	}
	d, err := cast.ToFloat64E(delta)
	if err != nil {
		return err
	}
	return m.Write(field, m.ReadDouble(field)+d)
}

// ReadDouble reads a scalar field as float64; unset reads as zero.
func (m *Memory) ReadDouble(field int) float64 {
	m.check(field)
	return cast.ToFloat64(m.values[field])
}

// ReadInt reads a scalar field as int64; unset reads as zero.
func (m *Memory) ReadInt(field int) int64 {
	m.check(field)
	return cast.ToInt64(m.values[field])
}

// ReadVector returns the stored vector. Callers must not mutate it.
func (m *Memory) ReadVector(field int) Vector {
	m.check(field)
	v, _ := m.values[field].(Vector)
	return v
}

// ReadWritableVector returns the stored vector for in-place updates.
func (m *Memory) ReadWritableVector(field int) Vector {
	return m.ReadVector(field)
}

// Clone returns a deep copy of the buffer.
func (m *Memory) Clone() *Memory {
	out := NewMemory(m.layout)
	for i, v := range m.values {
		if vec, ok := v.(Vector); ok {
			out.values[i] = vec.Clone()
		} else {
			out.values[i] = v
		}
	}
	return out
}

func (m *Memory) check(field int) {
	if field < 0 || field >= len(m.values) {
		panic(fmt.Sprintf("buffer: field %d out of range for layout [%s]", field, m.layout))
	}
}

func isIntegral(t types.DataType) bool {
	return t == types.Int || t == types.Long
}
