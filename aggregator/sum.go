package aggregator

import (
	"github.com/rulego/udaf/buffer"
	"github.com/rulego/udaf/codegen"
	"github.com/rulego/udaf/lowering"
	"github.com/rulego/udaf/types"
)

// sumVisitor adds scalars or vectors element-wise.
type sumVisitor struct{}

func (sumVisitor) Kind() Kind { return Sum }

func (sumVisitor) BufferTypes(e lowering.Element) (buffer.Layout, error) {
	t := e.OutputType()
	if err := requireNumeric(Sum, t); err != nil {
		return nil, err
	}
	return buffer.Layout{t}, nil
}

func (sumVisitor) Contribute(e lowering.Element) ([]codegen.Stmt, error) {
	t := e.OutputType()
	if err := requireNumeric(Sum, t); err != nil {
		return nil, err
	}
	return e.Render(
		func(value codegen.Expr) []codegen.Stmt {
			return stmts(agg.Add(0, value, t))
		},
		func(value codegen.Expr) []codegen.Stmt {
			decl, v := declare(t, value)
			return stmts(decl, &codegen.If{
				Cond: notNull(v),
				Then: stmts(accumulateVector(0, v, v, "plus")),
			})
		},
	)
}

func (sumVisitor) Decontribute(e lowering.Element) ([]codegen.Stmt, bool, error) {
	t := e.OutputType()
	if err := requireNumeric(Sum, t); err != nil {
		return nil, false, err
	}
	body, err := e.Render(
		func(value codegen.Expr) []codegen.Stmt {
			return stmts(agg.Add(0, negate(value), t))
		},
		func(value codegen.Expr) []codegen.Stmt {
			decl, v := declare(t, value)
			return stmts(decl, &codegen.If{
				Cond: and(notNull(v), agg.IsSet(0)),
				Then: stmts(agg.Vector(0, "minus", v)),
			})
		},
	)
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

func (sumVisitor) Merge(e lowering.Element) ([]codegen.Stmt, error) {
	t := e.OutputType()
	switch {
	case t.IsNumeric():
		return stmts(out.Add(0, in.Read(0, t), t)), nil
	case t.IsNumericArray():
		return mergeVector("plus"), nil
	}
	return nil, unsupported(Sum, t)
}

func (sumVisitor) Terminate(e lowering.Element) ([]codegen.Stmt, error) {
	t := e.OutputType()
	if err := requireNumeric(Sum, t); err != nil {
		return nil, err
	}
	return returns(agg.Read(0, t)), nil
}

func (sumVisitor) TerminateType(e lowering.Element) (types.DataType, error) {
	t := e.OutputType()
	if err := requireNumeric(Sum, t); err != nil {
		return "", err
	}
	return t, nil
}
