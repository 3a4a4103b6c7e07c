package types

import (
	"fmt"
	"strings"
)

// DataType is one of the closed set of value kinds the compiler can type an
// expression with.
type DataType string

const (
	Int         DataType = "int"
	Long        DataType = "long"
	Float       DataType = "float"
	Double      DataType = "double"
	IntArray    DataType = "int[]"
	LongArray   DataType = "long[]"
	FloatArray  DataType = "float[]"
	DoubleArray DataType = "double[]"
	Boolean     DataType = "boolean"
	String      DataType = "String"
	LocalDate   DataType = "LocalDate"
)

// VectorType is the engine interface every numeric array is exposed as.
const VectorType = "IVector"

// numeric widening rank, int < long < float < double
var numericRank = map[DataType]int{
	Int:    0,
	Long:   1,
	Float:  2,
	Double: 3,
}

var arrayElements = map[DataType]DataType{
	IntArray:    Int,
	LongArray:   Long,
	FloatArray:  Float,
	DoubleArray: Double,
}

// typeConstraints maps a parameter type to the argument types it accepts.
var typeConstraints = map[DataType][]DataType{
	Double:      {Double, Float, Long, Int},
	Float:       {Float, Long, Int},
	Long:        {Long, Int},
	Int:         {Int},
	DoubleArray: {DoubleArray, FloatArray, LongArray, IntArray},
	FloatArray:  {FloatArray, LongArray, IntArray},
	LongArray:   {LongArray, IntArray},
	IntArray:    {IntArray},
	Boolean:     {Boolean},
	String:      {String},
	LocalDate:   {LocalDate},
}

// engine spellings accepted by ParseDataType
var aliases = map[string]DataType{
	"int":                 Int,
	"integer":             Int,
	"java.lang.integer":   Int,
	"long":                Long,
	"java.lang.long":      Long,
	"float":               Float,
	"java.lang.float":     Float,
	"double":              Double,
	"java.lang.double":    Double,
	"int[]":               IntArray,
	"long[]":              LongArray,
	"float[]":             FloatArray,
	"double[]":            DoubleArray,
	"boolean":             Boolean,
	"java.lang.boolean":   Boolean,
	"string":              String,
	"java.lang.string":    String,
	"localdate":           LocalDate,
	"java.time.localdate": LocalDate,
}

// ParseDataType converts a type name reported by the engine into a DataType.
func ParseDataType(s string) (DataType, error) {
	if t, ok := aliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unsupported data type %q", s)
}

// IsNumeric reports whether t is a numeric scalar.
func (t DataType) IsNumeric() bool {
	_, ok := numericRank[t]
	return ok
}

// IsNumericArray reports whether t is a numeric vector.
func (t DataType) IsNumericArray() bool {
	_, ok := arrayElements[t]
	return ok
}

// ElementType returns the element type of a numeric array, or t itself.
func (t DataType) ElementType() DataType {
	if e, ok := arrayElements[t]; ok {
		return e
	}
	return t
}

// ArrayOf returns the numeric array type whose elements are t.
func ArrayOf(t DataType) (DataType, bool) {
	for arr, elem := range arrayElements {
		if elem == t {
			return arr, true
		}
	}
	return "", false
}

// JavaType is the spelling of t in generated source.
func (t DataType) JavaType() string {
	if t.IsNumericArray() {
		return VectorType
	}
	return string(t)
}

// BufferSuffix names the typed buffer primitive for a numeric scalar,
// e.g. readDouble / addDouble.
func (t DataType) BufferSuffix() string {
	switch t {
	case Int:
		return "Int"
	case Long:
		return "Long"
	case Float:
		return "Float"
	case Double:
		return "Double"
	default:
		return ""
	}
}

// Accepts reports whether a parameter declared as t can receive an argument of type arg.
func (t DataType) Accepts(arg DataType) bool {
	for _, c := range typeConstraints[t] {
		if c == arg {
			return true
		}
	}
	return false
}

// Promote returns the wider of two numeric scalars or of two numeric arrays.
func Promote(a, b DataType) (DataType, bool) {
	switch {
	case a.IsNumeric() && b.IsNumeric():
		if numericRank[a] >= numericRank[b] {
			return a, true
		}
		return b, true
	case a.IsNumericArray() && b.IsNumericArray():
		elem, _ := Promote(a.ElementType(), b.ElementType())
		return ArrayOf(elem)
	default:
		return "", false
	}
}
