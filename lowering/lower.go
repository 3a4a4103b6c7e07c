// Package lowering turns expression trees into typed elements ready to be
// embedded in generated routines.
package lowering

import (
	"context"
	"fmt"
	"time"

	"github.com/rulego/udaf/codegen"
	"github.com/rulego/udaf/expr"
	"github.com/rulego/udaf/functions"
	"github.com/rulego/udaf/types"
)

// DefaultFactParameter names the fact record read by contribute routines.
const DefaultFactParameter = "fact"

// Env carries what lowering needs besides the tree.
type Env struct {
	// Schema maps column names to the types reported by the engine
	Schema map[string]types.DataType
	// Registry resolves calls; required only when the tree contains calls
	Registry *functions.Registry
	// Accumulator collects imports and methods for this distillation
	Accumulator *functions.Accumulator
	// FactParameter defaults to DefaultFactParameter
	FactParameter string
}

// Lower lowers node. Columns are read from the fact record at their index in
// node.Columns().
func Lower(ctx context.Context, node expr.Node, env *Env) (Element, error) {
	if node == nil {
		return nil, fmt.Errorf("nothing to lower")
	}
	if env == nil {
		env = &Env{}
	}
	l := &lowerer{
		ctx:   ctx,
		env:   env,
		index: make(map[string]int),
		fact:  env.FactParameter,
		acc:   env.Accumulator,
	}
	if l.fact == "" {
		l.fact = DefaultFactParameter
	}
	if l.acc == nil {
		l.acc = functions.NewAccumulator()
	}
	for i, c := range node.Columns() {
		l.index[c.Name()] = i
	}
	return l.lower(node)
}

type lowerer struct {
	ctx   context.Context
	env   *Env
	index map[string]int
	fact  string
	acc   *functions.Accumulator
}

func (l *lowerer) lower(node expr.Node) (Element, error) {
	switch n := node.(type) {
	case *expr.Column:
		return l.column(n)
	case *expr.Constant:
		return l.constant(n)
	case *expr.Condition:
		return l.binary(&n.BinaryOp)
	case *expr.BinaryOp:
		return l.binary(n)
	case *expr.Ternary:
		return l.ternary(n)
	case *expr.Call:
		return l.call(n)
	default:
		return nil, fmt.Errorf("cannot lower %T", node)
	}
}

func (l *lowerer) column(c *expr.Column) (Element, error) {
	t, ok := l.env.Schema[c.Name()]
	if !ok {
		return nil, fmt.Errorf("unknown column %s", c.Name())
	}
	idx, ok := l.index[c.Name()]
	if !ok {
		return nil, fmt.Errorf("column %s is not referenced by the lowered tree", c.Name())
	}
	return NewBasic(ReadColumn(codegen.Id(l.fact), idx, t), t), nil
}

// ReadColumn reads field idx of a fact record holding a value of type t.
func ReadColumn(fact codegen.Expr, idx int, t types.DataType) codegen.Expr {
	i := codegen.Int(int64(idx))
	switch {
	case t.IsNumericArray():
		return codegen.Invoke(fact, "readVector", i)
	case t.IsNumeric():
		return codegen.Invoke(fact, "read"+t.BufferSuffix(), i)
	case t == types.Boolean:
		return codegen.Invoke(fact, "readBoolean", i)
	default:
		return &codegen.Cast{Type: t.JavaType(), X: codegen.Invoke(fact, "read", i)}
	}
}

// vector implementations used for array literals
var vectorClasses = map[types.DataType]struct{ class, elem string }{
	types.IntArray:    {"ArrayIntegerVector", "int"},
	types.LongArray:   {"ArrayLongVector", "long"},
	types.FloatArray:  {"ArrayFloatVector", "float"},
	types.DoubleArray: {"ArrayDoubleVector", "double"},
}

const vectorPackage = "com.qfs.vector.array.impl."

func (l *lowerer) constant(c *expr.Constant) (Element, error) {
	t := c.DataType()
	switch v := c.Value().(type) {
	case time.Time:
		l.acc.AddImport("java.time.LocalDate")
		y, m, d := v.Date()
		code := &codegen.Call{Func: "LocalDate.of", Args: []codegen.Expr{
			codegen.Int(int64(y)), codegen.Int(int64(m)), codegen.Int(int64(d)),
		}}
		return NewBasic(code, t), nil
	case []int64:
		elems := make([]codegen.Expr, len(v))
		for i, x := range v {
			elems[i] = &codegen.Lit{Type: string(t.ElementType()), Value: x}
		}
		return l.vectorLiteral(t, elems), nil
	case []float64:
		elems := make([]codegen.Expr, len(v))
		for i, x := range v {
			elems[i] = &codegen.Lit{Type: string(t.ElementType()), Value: x}
		}
		return l.vectorLiteral(t, elems), nil
	default:
		return NewBasic(&codegen.Lit{Type: t.JavaType(), Value: v}, t), nil
	}
}

func (l *lowerer) vectorLiteral(t types.DataType, elems []codegen.Expr) Element {
	vc := vectorClasses[t]
	l.acc.AddImport(vectorPackage + vc.class)
	code := &codegen.New{Type: vc.class, Args: []codegen.Expr{
		&codegen.NewArray{ElemType: vc.elem, Elems: elems},
	}}
	return NewBasic(code, t)
}

func (l *lowerer) binary(b *expr.BinaryOp) (Element, error) {
	left, err := l.lower(b.Left())
	if err != nil {
		return nil, err
	}
	right, err := l.lower(b.Right())
	if err != nil {
		return nil, err
	}
	e, err := applyOperator(b.Op(), left, right)
	if err != nil {
		return nil, err
	}
	if left.OutputType().IsNumericArray() || right.OutputType().IsNumericArray() {
		l.acc.AddImport(VectorOpsImport)
	}
	return e, nil
}

func (l *lowerer) ternary(t *expr.Ternary) (Element, error) {
	cond, err := l.lower(t.Condition())
	if err != nil {
		return nil, err
	}
	trueBranch, err := l.lower(t.TrueBranch())
	if err != nil {
		return nil, err
	}
	if t.FalseBranch() == nil {
		return NewTernary(cond, trueBranch, nil)
	}
	falseBranch, err := l.lower(t.FalseBranch())
	if err != nil {
		return nil, err
	}
	return NewTernary(cond, trueBranch, falseBranch)
}

func (l *lowerer) call(c *expr.Call) (Element, error) {
	if l.env.Registry == nil {
		return nil, fmt.Errorf("cannot resolve %s without a function registry", c.Function().Name())
	}
	args := c.Args()
	lowered := make([]functions.Argument, len(args))
	for i, a := range args {
		e, err := l.lower(a)
		if err != nil {
			return nil, err
		}
		code, err := e.Expr()
		if err != nil {
			return nil, err
		}
		lowered[i] = functions.Argument{Code: code, Type: e.OutputType()}
	}
	code, t, err := l.env.Registry.Resolve(l.ctx, l.acc, c.Function(), lowered)
	if err != nil {
		return nil, err
	}
	return NewBasic(code, t), nil
}
