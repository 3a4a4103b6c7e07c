package sim

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/rulego/udaf/buffer"
)

// ErrNullPointer is returned when a routine dereferences an unset vector.
var ErrNullPointer = errors.New("null pointer")

// Func is a native function callable from simulated routines.
type Func func(args ...interface{}) (interface{}, error)

// Fact is one fact record; values are indexed like the artifact's columns.
type Fact []interface{}

func (f Fact) field(i interface{}) (interface{}, error) {
	idx, err := cast.ToIntE(i)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(f) {
		return nil, fmt.Errorf("fact field %d out of range (%d fields)", idx, len(f))
	}
	return f[idx], nil
}

func (f Fact) invoke(method string, args []interface{}) (interface{}, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("fact.%s expects one argument", method)
	}
	v, err := f.field(args[0])
	if err != nil {
		return nil, err
	}
	switch method {
	case "readInt", "readLong":
		return cast.ToInt64E(v)
	case "readFloat", "readDouble":
		return cast.ToFloat64E(v)
	case "readBoolean":
		return cast.ToBoolE(v)
	case "readVector":
		return boxVector(toVector(v))
	case "read":
		return v, nil
	}
	return nil, fmt.Errorf("unknown fact method %s", method)
}

func invokeBuffer(m *buffer.Memory, method string, args []interface{}) (interface{}, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("buffer.%s expects a field", method)
	}
	field, err := cast.ToIntE(args[0])
	if err != nil {
		return nil, err
	}
	if field < 0 || field >= len(m.Layout()) {
		return nil, fmt.Errorf("buffer field %d out of range for layout [%s]", field, m.Layout())
	}
	switch {
	case method == "isNull":
		return m.IsNull(field), nil
	case method == "readVector" || method == "readWritableVector":
		v := m.ReadVector(field)
		if v == nil {
			return nil, nil
		}
		return v, nil
	case method == "readInt" || method == "readLong":
		return m.ReadInt(field), nil
	case method == "readFloat" || method == "readDouble":
		return m.ReadDouble(field), nil
	case method == "write" && len(args) == 2:
		value := args[1]
		if m.Layout()[field].IsNumericArray() {
			v, err := toVector(value)
			if err != nil {
				return nil, err
			}
			return nil, m.Write(field, v)
		}
		return nil, m.Write(field, value)
	case strings.HasPrefix(method, "add") && len(args) == 2:
		return nil, m.Add(field, args[1])
	}
	return nil, fmt.Errorf("unknown buffer method %s/%d", method, len(args))
}

func invokeVector(v buffer.Vector, method string, args []interface{}) (interface{}, error) {
	if method == "cloneOnHeap" {
		return v.Clone(), nil
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("vector.%s expects one argument", method)
	}
	if method == "scale" {
		f, err := cast.ToFloat64E(args[0])
		if err != nil {
			return nil, err
		}
		v.Scale(f)
		return nil, nil
	}
	other, err := toVector(args[0])
	if err != nil {
		return nil, err
	}
	if other == nil {
		return nil, fmt.Errorf("vector.%s: %w", method, ErrNullPointer)
	}
	switch method {
	case "plus":
		v.Plus(other)
	case "minus":
		v.Minus(other)
	case "plusNegativeValues":
		v.PlusNegativeValues(other)
	case "minusNegativeValues":
		v.MinusNegativeValues(other)
	default:
		return nil, fmt.Errorf("unknown vector method %s", method)
	}
	return nil, nil
}

// invokeValue covers equals and compareTo on strings and dates.
func invokeValue(recv interface{}, method string, args []interface{}) (interface{}, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%T.%s expects one argument", recv, method)
	}
	switch method {
	case "equals":
		if d, ok := recv.(time.Time); ok {
			o, ok := args[0].(time.Time)
			return ok && d.Equal(o), nil
		}
		return reflect.DeepEqual(recv, args[0]), nil
	case "compareTo":
		switch r := recv.(type) {
		case string:
			s, err := cast.ToStringE(args[0])
			if err != nil {
				return nil, err
			}
			return int64(strings.Compare(r, s)), nil
		case time.Time:
			o, ok := args[0].(time.Time)
			if !ok {
				return nil, fmt.Errorf("cannot compare date with %T", args[0])
			}
			return int64(r.Compare(o)), nil
		}
	}
	return nil, fmt.Errorf("unknown method %s on %T", method, recv)
}

// toVector converts fact values and array literals to a vector; nil stays nil.
func toVector(v interface{}) (buffer.Vector, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case buffer.Vector:
		return v, nil
	case []float64:
		return buffer.Vector(v), nil
	case []float32, []int, []int32, []int64, []interface{}:
		rv := reflect.ValueOf(v)
		out := make(buffer.Vector, rv.Len())
		for i := range out {
			f, err := cast.ToFloat64E(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = f
		}
		return out, nil
	}
	return nil, fmt.Errorf("%T is not a vector", v)
}

// boxVector keeps a nil vector an untyped nil so that "!= nil" holds.
func boxVector(v buffer.Vector, err error) (interface{}, error) {
	if err != nil || v == nil {
		return nil, err
	}
	return v, nil
}

func isIntegral(v interface{}) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

// quo divides like Java: integers truncate, anything else is floating point.
func quo(args ...interface{}) (interface{}, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("quo expects two operands")
	}
	if isIntegral(args[0]) && isIntegral(args[1]) {
		d := cast.ToInt64(args[1])
		if d == 0 {
			return nil, errors.New("/ by zero")
		}
		return cast.ToInt64(args[0]) / d, nil
	}
	x, err := cast.ToFloat64E(args[0])
	if err != nil {
		return nil, err
	}
	y, err := cast.ToFloat64E(args[1])
	if err != nil {
		return nil, err
	}
	return x / y, nil
}

// convert applies a cast or a typed declaration.
func convert(typ string, v interface{}) (interface{}, error) {
	switch typ {
	case "int", "long":
		return cast.ToInt64E(v)
	case "float", "double":
		return cast.ToFloat64E(v)
	case "boolean":
		return cast.ToBoolE(v)
	case "String":
		return cast.ToStringE(v)
	case "LocalDate":
		if _, ok := v.(time.Time); !ok {
			return nil, fmt.Errorf("%T is not a date", v)
		}
		return v, nil
	case "IVector":
		return boxVector(toVector(v))
	}
	return v, nil
}

func convertFunc(args ...interface{}) (interface{}, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("convert expects a type and a value")
	}
	return convert(cast.ToString(args[0]), args[1])
}

func newObject(args ...interface{}) (interface{}, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("newObject expects a class and one argument")
	}
	class := cast.ToString(args[0])
	v, err := toVector(args[1])
	if err != nil {
		return nil, err
	}
	switch class {
	case "NegativeVector":
		if v == nil {
			return nil, fmt.Errorf("new NegativeVector: %w", ErrNullPointer)
		}
		return buffer.NegativeOf(v), nil
	case "ArrayIntegerVector", "ArrayLongVector", "ArrayFloatVector", "ArrayDoubleVector":
		return boxVector(v, nil)
	}
	return nil, fmt.Errorf("cannot instantiate %s", class)
}

func mathMinMax(name string, args []interface{}) (interface{}, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%s expects two operands", name)
	}
	pick := math.Min
	if name == "Math.max" {
		pick = math.Max
	}
	if isIntegral(args[0]) && isIntegral(args[1]) {
		a, b := cast.ToInt64(args[0]), cast.ToInt64(args[1])
		if (a < b) == (name == "Math.min") {
			return a, nil
		}
		return b, nil
	}
	a, err := cast.ToFloat64E(args[0])
	if err != nil {
		return nil, err
	}
	b, err := cast.ToFloat64E(args[1])
	if err != nil {
		return nil, err
	}
	return pick(a, b), nil
}

func vectorOp(name string, args []interface{}) (interface{}, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%s expects two operands", name)
	}
	v, err := toVector(args[0])
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNullPointer)
	}
	result := v.Clone()
	if name == "VectorOps.scale" {
		f, err := cast.ToFloat64E(args[1])
		if err != nil {
			return nil, err
		}
		result.Scale(f)
		return result, nil
	}
	other, err := toVector(args[1])
	if err != nil {
		return nil, err
	}
	if name == "VectorOps.plus" {
		result.Plus(other)
	} else {
		result.Minus(other)
	}
	return result, nil
}

func localDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
