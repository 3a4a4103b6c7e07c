package aggregator

import (
	"github.com/rulego/udaf/buffer"
	"github.com/rulego/udaf/codegen"
	"github.com/rulego/udaf/lowering"
	"github.com/rulego/udaf/types"
)

// multiplyVisitor keeps the running product; an unset field means no row yet.
type multiplyVisitor struct{}

func (multiplyVisitor) Kind() Kind { return Multiply }

func (multiplyVisitor) BufferTypes(e lowering.Element) (buffer.Layout, error) {
	t := e.OutputType()
	if err := requireScalar(Multiply, t); err != nil {
		return nil, err
	}
	return buffer.Layout{t}, nil
}

func (multiplyVisitor) Contribute(e lowering.Element) ([]codegen.Stmt, error) {
	t := e.OutputType()
	if err := requireScalar(Multiply, t); err != nil {
		return nil, err
	}
	return e.Render(func(value codegen.Expr) []codegen.Stmt {
		decl, x := declare(t, value)
		return stmts(decl, &codegen.If{
			Cond: agg.IsNull(0),
			Then: stmts(agg.Write(0, x)),
			Else: stmts(agg.Write(0, &codegen.Binary{Op: "*", X: agg.Read(0, t), Y: x})),
		})
	}, nil)
}

func (multiplyVisitor) Decontribute(e lowering.Element) ([]codegen.Stmt, bool, error) {
	t := e.OutputType()
	if err := requireScalar(Multiply, t); err != nil {
		return nil, false, err
	}
	body, err := e.Render(func(value codegen.Expr) []codegen.Stmt {
		return stmts(agg.Write(0, &codegen.Binary{Op: "/", X: agg.Read(0, t), Y: value}))
	}, nil)
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

func (multiplyVisitor) Merge(e lowering.Element) ([]codegen.Stmt, error) {
	t := e.OutputType()
	if err := requireScalar(Multiply, t); err != nil {
		return nil, err
	}
	return stmts(&codegen.If{
		Cond: in.IsSet(0),
		Then: stmts(&codegen.If{
			Cond: out.IsNull(0),
			Then: stmts(out.Write(0, in.Read(0, t))),
			Else: stmts(out.Write(0, &codegen.Binary{Op: "*", X: out.Read(0, t), Y: in.Read(0, t)})),
		}),
	}), nil
}

func (multiplyVisitor) Terminate(e lowering.Element) ([]codegen.Stmt, error) {
	t := e.OutputType()
	if err := requireScalar(Multiply, t); err != nil {
		return nil, err
	}
	return returns(agg.Read(0, t)), nil
}

func (multiplyVisitor) TerminateType(e lowering.Element) (types.DataType, error) {
	t := e.OutputType()
	if err := requireScalar(Multiply, t); err != nil {
		return "", err
	}
	return t, nil
}
