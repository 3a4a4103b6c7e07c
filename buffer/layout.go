package buffer

import (
	"strings"

	"github.com/rulego/udaf/codegen"
	"github.com/rulego/udaf/types"
)

// Parameter names the engine passes to generated routines.
const (
	Aggregation = "aggregationBuffer"
	MergeInput  = "inputAggregationBuffer"
	MergeOutput = "outputAggregationBuffer"
)

// Layout is the ordered list of typed fields of an aggregation buffer.
// Fields are addressed by position only.
type Layout []types.DataType

// String renders the layout as "double, int".
func (l Layout) String() string {
	names := make([]string, len(l))
	for i, t := range l {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// Ref is a buffer variable of a generated routine.
type Ref struct {
	name codegen.Expr
}

// Of returns a reference to the buffer parameter with the given name.
func Of(name string) Ref {
	return Ref{name: codegen.Id(name)}
}

// IsNull emits buf.isNull(field).
func (r Ref) IsNull(field int) codegen.Expr {
	return codegen.Invoke(r.name, "isNull", codegen.Int(int64(field)))
}

// IsSet emits !buf.isNull(field).
func (r Ref) IsSet(field int) codegen.Expr {
	return &codegen.Unary{Op: "!", X: r.IsNull(field)}
}

// Read emits the typed read of a field; vectors use readVector.
func (r Ref) Read(field int, t types.DataType) codegen.Expr {
	if t.IsNumericArray() {
		return r.ReadVector(field)
	}
	return codegen.Invoke(r.name, "read"+t.BufferSuffix(), codegen.Int(int64(field)))
}

// ReadVector emits buf.readVector(field).
func (r Ref) ReadVector(field int) codegen.Expr {
	return codegen.Invoke(r.name, "readVector", codegen.Int(int64(field)))
}

// ReadWritableVector emits buf.readWritableVector(field).
func (r Ref) ReadWritableVector(field int) codegen.Expr {
	return codegen.Invoke(r.name, "readWritableVector", codegen.Int(int64(field)))
}

// Write emits buf.write(field, value) as a statement.
func (r Ref) Write(field int, value codegen.Expr) codegen.Stmt {
	return codegen.Do(codegen.Invoke(r.name, "write", codegen.Int(int64(field)), value))
}

// Add emits buf.add<Type>(field, delta) as a statement.
func (r Ref) Add(field int, delta codegen.Expr, t types.DataType) codegen.Stmt {
	return codegen.Do(codegen.Invoke(r.name, "add"+t.BufferSuffix(), codegen.Int(int64(field)), delta))
}

// Vector emits a method call on the writable vector held in field.
func (r Ref) Vector(field int, op string, args ...codegen.Expr) codegen.Stmt {
	return codegen.Do(codegen.Invoke(r.ReadWritableVector(field), op, args...))
}
