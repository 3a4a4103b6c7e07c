package lowering

import (
	"fmt"

	"github.com/rulego/udaf/codegen"
	"github.com/rulego/udaf/expr"
	"github.com/rulego/udaf/types"
)

// VectorOps is the engine helper class for element-wise vector arithmetic.
const (
	VectorOps       = "VectorOps"
	VectorOpsImport = "com.qfs.vector.impl.VectorOps"
)

// applyOperator is the built-in operator table.
//
//	scalar op scalar       infix on the promoted type, division is always double
//	vector +|- vector      VectorOps.plus / VectorOps.minus
//	vector * scalar        VectorOps.scale (either order)
//	vector / scalar        VectorOps.scale(v, 1.0 / s)
//	numeric cmp numeric    infix, boolean
//	T cmp T                equals / compareTo for String and LocalDate, ==/!= for boolean
func applyOperator(op expr.Op, left, right Element) (Element, error) {
	lt, rt := left.OutputType(), right.OutputType()
	lc, err := left.Expr()
	if err != nil {
		return nil, err
	}
	rc, err := right.Expr()
	if err != nil {
		return nil, err
	}

	if op.IsComparison() {
		return compare(op, lc, rc, lt, rt)
	}

	switch {
	case lt.IsNumeric() && rt.IsNumeric():
		if op == expr.OpDiv {
			return NewBasic(&codegen.Binary{Op: "/", X: &codegen.Cast{Type: "double", X: lc}, Y: rc}, types.Double), nil
		}
		t, _ := types.Promote(lt, rt)
		return NewBasic(&codegen.Binary{Op: op.Symbol(), X: lc, Y: rc}, t), nil

	case lt.IsNumericArray() && rt.IsNumericArray() && (op == expr.OpAdd || op == expr.OpSub):
		name := "plus"
		if op == expr.OpSub {
			name = "minus"
		}
		t, _ := types.Promote(lt, rt)
		return NewBasic(vectorCall(name, lc, rc), t), nil

	case op == expr.OpMul && lt.IsNumericArray() && rt.IsNumeric():
		return NewBasic(vectorCall("scale", lc, rc), scaledType(lt, rt)), nil

	case op == expr.OpMul && lt.IsNumeric() && rt.IsNumericArray():
		return NewBasic(vectorCall("scale", rc, lc), scaledType(rt, lt)), nil

	case op == expr.OpDiv && lt.IsNumericArray() && rt.IsNumeric():
		inverse := &codegen.Binary{Op: "/", X: codegen.Double(1), Y: rc}
		return NewBasic(vectorCall("scale", lc, inverse), types.DoubleArray), nil
	}

	return nil, types.UnsupportedOutputType(
		fmt.Sprintf("operator %s is not defined between %s and %s", op.Symbol(), lt, rt), lt, rt)
}

func compare(op expr.Op, lc, rc codegen.Expr, lt, rt types.DataType) (Element, error) {
	switch {
	case lt.IsNumeric() && rt.IsNumeric():
		return NewBasic(&codegen.Binary{Op: op.Symbol(), X: lc, Y: rc}, types.Boolean), nil

	case lt == rt && (lt == types.String || lt == types.LocalDate):
		var code codegen.Expr
		switch op {
		case expr.OpEq:
			code = codegen.Invoke(lc, "equals", rc)
		case expr.OpNe:
			code = &codegen.Unary{Op: "!", X: codegen.Invoke(lc, "equals", rc)}
		default:
			code = &codegen.Binary{Op: op.Symbol(), X: codegen.Invoke(lc, "compareTo", rc), Y: codegen.Int(0)}
		}
		return NewBasic(code, types.Boolean), nil

	case lt == types.Boolean && rt == types.Boolean && (op == expr.OpEq || op == expr.OpNe):
		return NewBasic(&codegen.Binary{Op: op.Symbol(), X: lc, Y: rc}, types.Boolean), nil
	}

	return nil, types.UnsupportedOutputType(
		fmt.Sprintf("cannot compare %s %s %s", lt, op.Symbol(), rt), lt, rt)
}

func vectorCall(name string, args ...codegen.Expr) codegen.Expr {
	return &codegen.Call{Func: VectorOps + "." + name, Args: args}
}

// scaledType is the type of a vector multiplied by a scalar.
func scaledType(vector, scalar types.DataType) types.DataType {
	elem, _ := types.Promote(vector.ElementType(), scalar)
	t, _ := types.ArrayOf(elem)
	return t
}
