package aggregator

import (
	"github.com/rulego/udaf/buffer"
	"github.com/rulego/udaf/codegen"
	"github.com/rulego/udaf/lowering"
	"github.com/rulego/udaf/types"
)

type squareSumVisitor struct{}

func (squareSumVisitor) Kind() Kind { return SquareSum }

func (squareSumVisitor) BufferTypes(e lowering.Element) (buffer.Layout, error) {
	t := e.OutputType()
	if err := requireScalar(SquareSum, t); err != nil {
		return nil, err
	}
	return buffer.Layout{t}, nil
}

func square(x codegen.Expr) codegen.Expr {
	return &codegen.Binary{Op: "*", X: x, Y: x}
}

func (squareSumVisitor) Contribute(e lowering.Element) ([]codegen.Stmt, error) {
	t := e.OutputType()
	if err := requireScalar(SquareSum, t); err != nil {
		return nil, err
	}
	return e.Render(func(value codegen.Expr) []codegen.Stmt {
		decl, x := declare(t, value)
		return stmts(decl, agg.Add(0, square(x), t))
	}, nil)
}

func (squareSumVisitor) Decontribute(e lowering.Element) ([]codegen.Stmt, bool, error) {
	t := e.OutputType()
	if err := requireScalar(SquareSum, t); err != nil {
		return nil, false, err
	}
	body, err := e.Render(func(value codegen.Expr) []codegen.Stmt {
		decl, x := declare(t, value)
		return stmts(decl, agg.Add(0, negate(square(x)), t))
	}, nil)
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

func (squareSumVisitor) Merge(e lowering.Element) ([]codegen.Stmt, error) {
	t := e.OutputType()
	if err := requireScalar(SquareSum, t); err != nil {
		return nil, err
	}
	return stmts(out.Add(0, in.Read(0, t), t)), nil
}

func (squareSumVisitor) Terminate(e lowering.Element) ([]codegen.Stmt, error) {
	t := e.OutputType()
	if err := requireScalar(SquareSum, t); err != nil {
		return nil, err
	}
	return returns(agg.Read(0, t)), nil
}

func (squareSumVisitor) TerminateType(e lowering.Element) (types.DataType, error) {
	t := e.OutputType()
	if err := requireScalar(SquareSum, t); err != nil {
		return "", err
	}
	return t, nil
}
