package expr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rulego/udaf/types"
	"github.com/spf13/cast"
)

// NewConstant builds a literal leaf, inferring its type from the Go value.
// Integers up to 32 bits are int, int64 is long, float32 is float and
// float64 is double. An int or uint32 outside the int32 range is long.
// Homogeneous numeric slices become numeric arrays.
func NewConstant(value interface{}) (*Constant, error) {
	v, t, err := classify(value)
	if err != nil {
		return nil, err
	}
	return &Constant{value: v, dataType: t}, nil
}

// classify normalizes value and returns its data type. Scalars are stored as
// int64, float64, string or time.Time; arrays as []int64 or []float64.
func classify(value interface{}) (interface{}, types.DataType, error) {
	switch v := value.(type) {
	case int8, int16, int32, uint8, uint16:
		return cast.ToInt64(v), types.Int, nil
	case int, uint32:
		n := cast.ToInt64(v)
		if n < math.MinInt32 || n > math.MaxInt32 {
			return n, types.Long, nil
		}
		return n, types.Int, nil
	case int64:
		return v, types.Long, nil
	case float32:
		return float64(v), types.Float, nil
	case float64:
		return v, types.Double, nil
	case string:
		return v, types.String, nil
	case time.Time:
		y, m, d := v.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), types.LocalDate, nil
	case []int:
		ints := toInts(v)
		for _, n := range ints {
			if n < math.MinInt32 || n > math.MaxInt32 {
				return ints, types.LongArray, nil
			}
		}
		return ints, types.IntArray, nil
	case []int32:
		return toInts(v), types.IntArray, nil
	case []int64:
		return toInts(v), types.LongArray, nil
	case []float32:
		return toFloats(v), types.FloatArray, nil
	case []float64:
		return toFloats(v), types.DoubleArray, nil
	case []interface{}:
		return classifySequence(v)
	default:
		return nil, "", fmt.Errorf("unsupported constant type %T", value)
	}
}

func toInts[T int | int32 | int64](values []T) []int64 {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = int64(v)
	}
	return out
}

func toFloats[T float32 | float64](values []T) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// classifySequence accepts a sequence whose elements all have the same numeric type.
func classifySequence(values []interface{}) (interface{}, types.DataType, error) {
	if len(values) == 0 {
		return nil, "", fmt.Errorf("cannot infer the type of an empty sequence")
	}
	var elem types.DataType
	for i, v := range values {
		_, t, err := classify(v)
		if err != nil || !t.IsNumeric() {
			return nil, "", fmt.Errorf("sequence element %d is not numeric: %T", i, v)
		}
		if i > 0 && t != elem {
			return nil, "", fmt.Errorf("sequence is not homogeneous: %s and %s", elem, t)
		}
		elem = t
	}
	arrayType, _ := types.ArrayOf(elem)
	if elem == types.Int || elem == types.Long {
		out := make([]int64, len(values))
		for i, v := range values {
			out[i] = cast.ToInt64(v)
		}
		return out, arrayType, nil
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = cast.ToFloat64(v)
	}
	return out, arrayType, nil
}

func formatValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strconv.Quote(v)
	case time.Time:
		return v.Format("2006-01-02")
	case []int64:
		parts := make([]string, len(v))
		for i, x := range v {
			parts[i] = strconv.FormatInt(x, 10)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []float64:
		parts := make([]string, len(v))
		for i, x := range v {
			parts[i] = strconv.FormatFloat(x, 'g', -1, 64)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return cast.ToString(v)
	}
}
