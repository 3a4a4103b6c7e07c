package aggregator

import (
	"github.com/rulego/udaf/buffer"
	"github.com/rulego/udaf/codegen"
	"github.com/rulego/udaf/lowering"
	"github.com/rulego/udaf/types"
)

// extremumVisitor implements min (op "<") and max (op ">"). Neither can
// remove a row, so decontribute is absent.
type extremumVisitor struct {
	kind Kind
	op   string
}

func (v extremumVisitor) Kind() Kind { return v.kind }

func (v extremumVisitor) BufferTypes(e lowering.Element) (buffer.Layout, error) {
	t := e.OutputType()
	if err := requireScalar(v.kind, t); err != nil {
		return nil, err
	}
	return buffer.Layout{t}, nil
}

func (v extremumVisitor) Contribute(e lowering.Element) ([]codegen.Stmt, error) {
	t := e.OutputType()
	if err := requireScalar(v.kind, t); err != nil {
		return nil, err
	}
	return e.Render(func(value codegen.Expr) []codegen.Stmt {
		decl, x := declare(t, value)
		return stmts(decl, &codegen.If{
			Cond: or(agg.IsNull(0), &codegen.Binary{Op: v.op, X: x, Y: agg.Read(0, t)}),
			Then: stmts(agg.Write(0, x)),
		})
	}, nil)
}

func (extremumVisitor) Decontribute(lowering.Element) ([]codegen.Stmt, bool, error) {
	return nil, false, nil
}

func (v extremumVisitor) Merge(e lowering.Element) ([]codegen.Stmt, error) {
	t := e.OutputType()
	if err := requireScalar(v.kind, t); err != nil {
		return nil, err
	}
	input := codegen.Id("input")
	return stmts(&codegen.If{
		Cond: in.IsSet(0),
		Then: stmts(
			&codegen.Decl{Type: t.JavaType(), Name: "input", Value: in.Read(0, t)},
			&codegen.If{
				Cond: or(out.IsNull(0), &codegen.Binary{Op: v.op, X: input, Y: out.Read(0, t)}),
				Then: stmts(out.Write(0, input)),
			},
		),
	}), nil
}

func (v extremumVisitor) Terminate(e lowering.Element) ([]codegen.Stmt, error) {
	t := e.OutputType()
	if err := requireScalar(v.kind, t); err != nil {
		return nil, err
	}
	return returns(agg.Read(0, t)), nil
}

func (v extremumVisitor) TerminateType(e lowering.Element) (types.DataType, error) {
	t := e.OutputType()
	if err := requireScalar(v.kind, t); err != nil {
		return "", err
	}
	return t, nil
}
