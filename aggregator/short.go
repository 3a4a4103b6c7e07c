package aggregator

import (
	"github.com/rulego/udaf/buffer"
	"github.com/rulego/udaf/codegen"
	"github.com/rulego/udaf/lowering"
	"github.com/rulego/udaf/types"
)

// NegativeVectorImport is the vector view keeping only negative components.
const NegativeVectorImport = "com.qfs.vector.impl.NegativeVector"

// shortVisitor sums the negative part of every contribution: scalars add
// min(0, value), vectors accumulate their negative components.
type shortVisitor struct{}

func (shortVisitor) Kind() Kind { return Short }

func (shortVisitor) Imports(t types.DataType) []string {
	if t.IsNumericArray() {
		return []string{NegativeVectorImport}
	}
	return nil
}

func (shortVisitor) BufferTypes(e lowering.Element) (buffer.Layout, error) {
	t := e.OutputType()
	if err := requireNumeric(Short, t); err != nil {
		return nil, err
	}
	return buffer.Layout{t}, nil
}

func negativePart(t types.DataType, value codegen.Expr) codegen.Expr {
	return &codegen.Call{Func: "Math.min", Args: []codegen.Expr{zero(t), value}}
}

func (shortVisitor) Contribute(e lowering.Element) ([]codegen.Stmt, error) {
	t := e.OutputType()
	if err := requireNumeric(Short, t); err != nil {
		return nil, err
	}
	return e.Render(
		func(value codegen.Expr) []codegen.Stmt {
			return stmts(agg.Add(0, negativePart(t, value), t))
		},
		func(value codegen.Expr) []codegen.Stmt {
			decl, v := declare(t, value)
			first := &codegen.New{Type: "NegativeVector", Args: []codegen.Expr{v}}
			return stmts(decl, &codegen.If{
				Cond: notNull(v),
				Then: stmts(accumulateVector(0, v, first, "plusNegativeValues")),
			})
		},
	)
}

func (shortVisitor) Decontribute(e lowering.Element) ([]codegen.Stmt, bool, error) {
	t := e.OutputType()
	if err := requireNumeric(Short, t); err != nil {
		return nil, false, err
	}
	body, err := e.Render(
		func(value codegen.Expr) []codegen.Stmt {
			return stmts(agg.Add(0, negate(negativePart(t, value)), t))
		},
		func(value codegen.Expr) []codegen.Stmt {
			decl, v := declare(t, value)
			return stmts(decl, &codegen.If{
				Cond: and(notNull(v), agg.IsSet(0)),
				Then: stmts(agg.Vector(0, "minusNegativeValues", v)),
			})
		},
	)
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

// Merge adds partial sums. The stored vectors only hold non-positive
// components, so plusNegativeValues behaves as a plain addition.
func (shortVisitor) Merge(e lowering.Element) ([]codegen.Stmt, error) {
	t := e.OutputType()
	switch {
	case t.IsNumeric():
		return stmts(out.Add(0, in.Read(0, t), t)), nil
	case t.IsNumericArray():
		return mergeVector("plusNegativeValues"), nil
	}
	return nil, unsupported(Short, t)
}

func (shortVisitor) Terminate(e lowering.Element) ([]codegen.Stmt, error) {
	t := e.OutputType()
	if err := requireNumeric(Short, t); err != nil {
		return nil, err
	}
	return returns(agg.Read(0, t)), nil
}

func (shortVisitor) TerminateType(e lowering.Element) (types.DataType, error) {
	t := e.OutputType()
	if err := requireNumeric(Short, t); err != nil {
		return "", err
	}
	return t, nil
}
