package lowering

import (
	"fmt"

	"github.com/rulego/udaf/codegen"
	"github.com/rulego/udaf/types"
)

// Template turns the code of a value into the statements consuming it,
// for example adding it to an aggregation buffer.
type Template func(value codegen.Expr) []codegen.Stmt

// Element is the typed, codegen-ready form of an expression.
type Element interface {
	// OutputType is the resolved type of the value
	OutputType() types.DataType
	// Expr returns the value as an expression
	Expr() (codegen.Expr, error)
	// Render feeds the value to the numeric template or, for numeric
	// vectors, to the array template
	Render(numeric, array Template) ([]codegen.Stmt, error)
}

// Basic is an element made of a single expression.
type Basic struct {
	code       codegen.Expr
	outputType types.DataType
}

// NewBasic creates a basic element.
func NewBasic(code codegen.Expr, outputType types.DataType) *Basic {
	return &Basic{code: code, outputType: outputType}
}

func (b *Basic) OutputType() types.DataType { return b.outputType }

func (b *Basic) Expr() (codegen.Expr, error) { return b.code, nil }

func (b *Basic) Render(numeric, array Template) ([]codegen.Stmt, error) {
	var tmpl Template
	switch {
	case b.outputType.IsNumeric():
		tmpl = numeric
	case b.outputType.IsNumericArray():
		tmpl = array
	}
	if tmpl == nil {
		return nil, types.UnsupportedOutputType(
			fmt.Sprintf("no template matches the output type %s", b.outputType), b.outputType)
	}
	return tmpl(b.code), nil
}

// Ternary guards its branches with a boolean condition. Without a false
// branch it renders as a guard and has no value.
type Ternary struct {
	condition   Element
	trueBranch  Element
	falseBranch Element
	outputType  types.DataType
}

// NewTernary checks that the branches agree on a type. Numeric scalars
// promote to the widest, numeric vectors likewise; any other mix fails
// with AMBIGUOUS_TERNARY_TYPES.
func NewTernary(condition, trueBranch, falseBranch Element) (*Ternary, error) {
	if condition.OutputType() != types.Boolean {
		return nil, types.UnsupportedOutputType("a condition must be boolean", condition.OutputType())
	}
	t := &Ternary{
		condition:   condition,
		trueBranch:  trueBranch,
		falseBranch: falseBranch,
		outputType:  trueBranch.OutputType(),
	}
	if falseBranch == nil {
		return t, nil
	}
	tt, ft := trueBranch.OutputType(), falseBranch.OutputType()
	if tt == ft {
		return t, nil
	}
	promoted, ok := types.Promote(tt, ft)
	if !ok {
		return nil, types.AmbiguousTernaryTypes("both branches of a condition must have compatible types", tt, ft)
	}
	t.outputType = promoted
	return t, nil
}

func (t *Ternary) OutputType() types.DataType { return t.outputType }

// HasFalseBranch reports whether the ternary has a value in every case.
func (t *Ternary) HasFalseBranch() bool { return t.falseBranch != nil }

func (t *Ternary) Expr() (codegen.Expr, error) {
	if t.falseBranch == nil {
		return nil, types.UnsupportedOutputType("a condition without false branch has no value", t.outputType)
	}
	c, err := t.condition.Expr()
	if err != nil {
		return nil, err
	}
	tv, err := t.trueBranch.Expr()
	if err != nil {
		return nil, err
	}
	fv, err := t.falseBranch.Expr()
	if err != nil {
		return nil, err
	}
	return &codegen.Cond{C: c, T: tv, F: fv}, nil
}

func (t *Ternary) Render(numeric, array Template) ([]codegen.Stmt, error) {
	c, err := t.condition.Expr()
	if err != nil {
		return nil, err
	}
	then, err := t.trueBranch.Render(numeric, array)
	if err != nil {
		return nil, err
	}
	block := &codegen.If{Cond: c, Then: then}
	if t.falseBranch != nil {
		block.Else, err = t.falseBranch.Render(numeric, array)
		if err != nil {
			return nil, err
		}
	}
	return []codegen.Stmt{block}, nil
}
