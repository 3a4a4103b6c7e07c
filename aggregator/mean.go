package aggregator

import (
	"github.com/rulego/udaf/buffer"
	"github.com/rulego/udaf/codegen"
	"github.com/rulego/udaf/lowering"
	"github.com/rulego/udaf/types"
)

// meanVisitor keeps a running sum in field 0 and a row count in field 1.
type meanVisitor struct{}

func (meanVisitor) Kind() Kind { return Mean }

func (meanVisitor) BufferTypes(e lowering.Element) (buffer.Layout, error) {
	t := e.OutputType()
	if err := requireNumeric(Mean, t); err != nil {
		return nil, err
	}
	return buffer.Layout{t, types.Int}, nil
}

func (meanVisitor) Contribute(e lowering.Element) ([]codegen.Stmt, error) {
	t := e.OutputType()
	if err := requireNumeric(Mean, t); err != nil {
		return nil, err
	}
	return e.Render(
		func(value codegen.Expr) []codegen.Stmt {
			return stmts(
				agg.Add(0, value, t),
				agg.Add(1, codegen.Int(1), types.Int),
			)
		},
		func(value codegen.Expr) []codegen.Stmt {
			decl, v := declare(t, value)
			return stmts(decl, &codegen.If{
				Cond: notNull(v),
				Then: stmts(
					accumulateVector(0, v, v, "plus"),
					agg.Add(1, codegen.Int(1), types.Int),
				),
			})
		},
	)
}

func (meanVisitor) Decontribute(e lowering.Element) ([]codegen.Stmt, bool, error) {
	t := e.OutputType()
	if err := requireNumeric(Mean, t); err != nil {
		return nil, false, err
	}
	body, err := e.Render(
		func(value codegen.Expr) []codegen.Stmt {
			return stmts(
				agg.Add(0, negate(value), t),
				agg.Add(1, codegen.Int(-1), types.Int),
			)
		},
		func(value codegen.Expr) []codegen.Stmt {
			decl, v := declare(t, value)
			return stmts(decl, &codegen.If{
				Cond: and(notNull(v), agg.IsSet(0)),
				Then: stmts(
					agg.Vector(0, "minus", v),
					agg.Add(1, codegen.Int(-1), types.Int),
				),
			})
		},
	)
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

func (meanVisitor) Merge(e lowering.Element) ([]codegen.Stmt, error) {
	t := e.OutputType()
	count := out.Add(1, in.Read(1, types.Int), types.Int)
	switch {
	case t.IsNumeric():
		return stmts(out.Add(0, in.Read(0, t), t), count), nil
	case t.IsNumericArray():
		return mergeVector("plus", count), nil
	}
	return nil, unsupported(Mean, t)
}

func (meanVisitor) Terminate(e lowering.Element) ([]codegen.Stmt, error) {
	t := e.OutputType()
	count := agg.Read(1, types.Int)
	switch {
	case t.IsNumeric():
		sum := &codegen.Cast{Type: "double", X: agg.Read(0, t)}
		return returns(&codegen.Binary{Op: "/", X: sum, Y: count}), nil
	case t.IsNumericArray():
		result := codegen.Id("result")
		return stmts(
			&codegen.Decl{Type: types.VectorType, Name: "result", Value: codegen.Invoke(agg.ReadVector(0), "cloneOnHeap")},
			codegen.Do(codegen.Invoke(result, "scale", &codegen.Binary{Op: "/", X: codegen.Double(1), Y: count})),
			&codegen.Return{Value: result},
		), nil
	}
	return nil, unsupported(Mean, t)
}

// TerminateType is double for scalars and double[] for vectors.
func (meanVisitor) TerminateType(e lowering.Element) (types.DataType, error) {
	t := e.OutputType()
	switch {
	case t.IsNumeric():
		return types.Double, nil
	case t.IsNumericArray():
		return types.DoubleArray, nil
	}
	return "", unsupported(Mean, t)
}
