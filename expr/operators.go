package expr

import (
	"fmt"

	"github.com/rulego/udaf/functions"
)

// To converts an operand into a node: nodes are returned as is and literals
// become constants. ok is false when the operand cannot take part in an
// expression, for instance a Measure.
func To(operand interface{}) (node Node, ok bool) {
	switch v := operand.(type) {
	case nil:
		return nil, false
	case Node:
		return v, true
	case Measure:
		return nil, false
	}
	c, err := NewConstant(operand)
	if err != nil {
		return nil, false
	}
	return c, true
}

// Binary combines two operands with op. Comparison operators yield a
// *Condition, arithmetic ones a *BinaryOp. ok is false when either operand
// is not combinable; this is not an error and lets callers fall back to
// another combination.
func Binary(op Op, left, right interface{}) (node Node, ok bool) {
	l, ok := To(left)
	if !ok {
		return nil, false
	}
	r, ok := To(right)
	if !ok {
		return nil, false
	}
	b := BinaryOp{op: op, left: l, right: r}
	if op.IsComparison() {
		return &Condition{BinaryOp: b}, true
	}
	return &b, true
}

func mustArithmetic(op Op, left, right interface{}) *BinaryOp {
	node, ok := Binary(op, left, right)
	if !ok {
		panic(fmt.Sprintf("expr: cannot combine %T %s %T", left, op.Symbol(), right))
	}
	return node.(*BinaryOp)
}

func mustCondition(op Op, left, right interface{}) *Condition {
	node, ok := Binary(op, left, right)
	if !ok {
		panic(fmt.Sprintf("expr: cannot compare %T %s %T", left, op.Symbol(), right))
	}
	return node.(*Condition)
}

// Mul builds left * right. Like the other operator helpers it panics when an
// operand is not combinable; use Binary to test first.
func Mul(left, right interface{}) *BinaryOp { return mustArithmetic(OpMul, left, right) }

// Div builds left / right (true division).
func Div(left, right interface{}) *BinaryOp { return mustArithmetic(OpDiv, left, right) }

// Add builds left + right.
func Add(left, right interface{}) *BinaryOp { return mustArithmetic(OpAdd, left, right) }

// Sub builds left - right.
func Sub(left, right interface{}) *BinaryOp { return mustArithmetic(OpSub, left, right) }

func Eq(left, right interface{}) *Condition { return mustCondition(OpEq, left, right) }
func Ne(left, right interface{}) *Condition { return mustCondition(OpNe, left, right) }
func Lt(left, right interface{}) *Condition { return mustCondition(OpLt, left, right) }
func Le(left, right interface{}) *Condition { return mustCondition(OpLe, left, right) }
func Gt(left, right interface{}) *Condition { return mustCondition(OpGt, left, right) }
func Ge(left, right interface{}) *Condition { return mustCondition(OpGe, left, right) }

// NewTernary builds a conditional node. falseBranch may be nil, in which case
// the generated routine only performs the true branch when cond holds.
func NewTernary(cond *Condition, trueBranch, falseBranch interface{}) (*Ternary, error) {
	if cond == nil {
		return nil, fmt.Errorf("ternary requires a condition")
	}
	t, ok := To(trueBranch)
	if !ok {
		return nil, fmt.Errorf("unsupported true branch %T", trueBranch)
	}
	node := &Ternary{condition: cond, trueBranch: t}
	if falseBranch != nil {
		f, ok := To(falseBranch)
		if !ok {
			return nil, fmt.Errorf("unsupported false branch %T", falseBranch)
		}
		node.falseBranch = f
	}
	return node, nil
}

// NewCall applies a native function to the operands.
func NewCall(fn functions.Function, args ...interface{}) (*Call, error) {
	if fn == nil {
		return nil, fmt.Errorf("call requires a function")
	}
	nodes := make([]Node, len(args))
	for i, a := range args {
		n, ok := To(a)
		if !ok {
			return nil, fmt.Errorf("argument %d of %s: unsupported operand %T", i, fn.Name(), a)
		}
		nodes[i] = n
	}
	return &Call{function: fn, args: nodes}, nil
}
