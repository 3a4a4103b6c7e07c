package aggregator

import (
	"fmt"

	"github.com/rulego/udaf/buffer"
	"github.com/rulego/udaf/codegen"
	"github.com/rulego/udaf/types"
)

// buffers of the generated routines
var (
	agg = buffer.Of(buffer.Aggregation)
	in  = buffer.Of(buffer.MergeInput)
	out = buffer.Of(buffer.MergeOutput)
)

// local variable holding the lowered value
const valueVar = "value"

func unsupported(kind Kind, t types.DataType) error {
	return types.UnsupportedOutputType(fmt.Sprintf("%s aggregation has no template for %s", kind, t), t)
}

func requireScalar(kind Kind, t types.DataType) error {
	if !t.IsNumeric() {
		return unsupported(kind, t)
	}
	return nil
}

func requireNumeric(kind Kind, t types.DataType) error {
	if !t.IsNumeric() && !t.IsNumericArray() {
		return unsupported(kind, t)
	}
	return nil
}

// declare binds the value to a local of type t so it is evaluated once.
func declare(t types.DataType, value codegen.Expr) (*codegen.Decl, codegen.Expr) {
	return &codegen.Decl{Type: t.JavaType(), Name: valueVar, Value: value}, codegen.Id(valueVar)
}

func negate(x codegen.Expr) codegen.Expr {
	return &codegen.Binary{Op: "*", X: codegen.Int(-1), Y: x}
}

func notNull(x codegen.Expr) codegen.Expr {
	return &codegen.Binary{Op: "!=", X: x, Y: &codegen.Null{}}
}

func and(x, y codegen.Expr) codegen.Expr {
	return &codegen.Binary{Op: "&&", X: x, Y: y}
}

func or(x, y codegen.Expr) codegen.Expr {
	return &codegen.Binary{Op: "||", X: x, Y: y}
}

// zero is a 0 literal of scalar type t.
func zero(t types.DataType) codegen.Expr {
	return &codegen.Lit{Type: t.JavaType(), Value: 0}
}

func returns(x codegen.Expr) []codegen.Stmt {
	return []codegen.Stmt{&codegen.Return{Value: x}}
}

func stmts(s ...codegen.Stmt) []codegen.Stmt {
	return s
}

// accumulateVector writes the value into an unset field, or applies op
// (plus, plusNegativeValues, ...) to the stored vector.
func accumulateVector(field int, value codegen.Expr, first codegen.Expr, op string) codegen.Stmt {
	return &codegen.If{
		Cond: agg.IsNull(field),
		Then: stmts(agg.Write(field, first)),
		Else: stmts(agg.Vector(field, op, value)),
	}
}

// mergeVector folds the input vector into the output vector with op.
func mergeVector(op string, extra ...codegen.Stmt) []codegen.Stmt {
	then := stmts(&codegen.If{
		Cond: out.IsNull(0),
		Then: stmts(out.Write(0, in.ReadVector(0))),
		Else: stmts(out.Vector(0, op, in.ReadVector(0))),
	})
	then = append(then, extra...)
	return stmts(&codegen.If{Cond: in.IsSet(0), Then: then})
}
