package expr

import (
	"strings"

	"github.com/rulego/udaf/functions"
	"github.com/rulego/udaf/types"
)

// Kind tags the variants of the expression tree.
type Kind int

const (
	KindColumn Kind = iota
	KindConstant
	KindBinary
	KindTernary
	KindCall
)

// Node is an immutable expression over table columns and literals.
type Node interface {
	// Kind returns the variant tag
	Kind() Kind
	// Columns returns the distinct referenced columns in first-occurrence order
	Columns() []*Column
	// String returns a readable infix form
	String() string
}

// Op is the operator of a BinaryOp.
type Op int

const (
	OpMul Op = iota
	OpDiv
	OpAdd
	OpSub
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

var opNames = [...]string{"mul", "div", "add", "sub", "eq", "ne", "lt", "le", "gt", "ge"}

var opSymbols = [...]string{"*", "/", "+", "-", "==", "!=", "<", "<=", ">", ">="}

func (o Op) String() string {
	return opNames[o]
}

// Symbol returns the infix spelling of the operator.
func (o Op) Symbol() string {
	return opSymbols[o]
}

// IsComparison reports whether o yields a boolean.
func (o Op) IsComparison() bool {
	return o >= OpEq
}

// Column references a table column. Its type is only known once lowered.
type Column struct {
	name  string
	table string
}

// Col creates a column reference.
func Col(name string) *Column {
	return &Column{name: name}
}

// TableCol creates a column reference qualified by its table.
func TableCol(table, name string) *Column {
	return &Column{name: name, table: table}
}

func (c *Column) Name() string  { return c.name }
func (c *Column) Table() string { return c.table }
func (c *Column) Kind() Kind    { return KindColumn }

func (c *Column) Columns() []*Column {
	return []*Column{c}
}

func (c *Column) String() string {
	if c.table != "" {
		return c.table + "." + c.name
	}
	return c.name
}

// Constant is a literal leaf.
type Constant struct {
	value    interface{}
	dataType types.DataType
}

func (c *Constant) Value() interface{}       { return c.value }
func (c *Constant) DataType() types.DataType { return c.dataType }
func (c *Constant) Kind() Kind               { return KindConstant }
func (c *Constant) Columns() []*Column       { return nil }

func (c *Constant) String() string {
	return formatValue(c.value)
}

// BinaryOp applies an arithmetic or comparison operator to two nodes.
type BinaryOp struct {
	op    Op
	left  Node
	right Node
}

func (b *BinaryOp) Op() Op      { return b.op }
func (b *BinaryOp) Left() Node  { return b.left }
func (b *BinaryOp) Right() Node { return b.right }
func (b *BinaryOp) Kind() Kind  { return KindBinary }

func (b *BinaryOp) Columns() []*Column {
	return mergeColumns(b.left, b.right)
}

func (b *BinaryOp) String() string {
	return "(" + b.left.String() + " " + b.op.Symbol() + " " + b.right.String() + ")"
}

// Condition is a comparison BinaryOp, the only node a Ternary accepts as its condition.
type Condition struct {
	BinaryOp
}

// Ternary selects between two branches; the false branch may be absent.
type Ternary struct {
	condition   *Condition
	trueBranch  Node
	falseBranch Node
}

func (t *Ternary) Condition() *Condition { return t.condition }
func (t *Ternary) TrueBranch() Node      { return t.trueBranch }

// FalseBranch returns nil when the ternary only guards its true branch.
func (t *Ternary) FalseBranch() Node { return t.falseBranch }
func (t *Ternary) Kind() Kind        { return KindTernary }

func (t *Ternary) Columns() []*Column {
	return mergeColumns(t.condition, t.trueBranch, t.falseBranch)
}

func (t *Ternary) String() string {
	if t.falseBranch == nil {
		return "if(" + t.condition.String() + ", " + t.trueBranch.String() + ")"
	}
	return "if(" + t.condition.String() + ", " + t.trueBranch.String() + ", " + t.falseBranch.String() + ")"
}

// Call invokes a native function.
type Call struct {
	function functions.Function
	args     []Node
}

func (c *Call) Function() functions.Function { return c.function }
func (c *Call) Kind() Kind                   { return KindCall }

// Args returns a copy of the argument list.
func (c *Call) Args() []Node {
	return append([]Node(nil), c.args...)
}

func (c *Call) Columns() []*Column {
	return mergeColumns(c.args...)
}

func (c *Call) String() string {
	args := make([]string, len(c.args))
	for i, a := range c.args {
		args[i] = a.String()
	}
	return c.function.Name() + "(" + strings.Join(args, ", ") + ")"
}

// mergeColumns concatenates the children's columns left to right, skipping
// names already seen in an earlier child.
func mergeColumns(children ...Node) []*Column {
	var columns []*Column
	seen := make(map[string]bool)
	for _, child := range children {
		if child == nil {
			continue
		}
		for _, column := range child.Columns() {
			if seen[column.name] {
				continue
			}
			seen[column.name] = true
			columns = append(columns, column)
		}
	}
	return columns
}

// Walk visits node and its descendants depth-first, stopping a branch when fn returns false.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	switch n := node.(type) {
	case *BinaryOp:
		Walk(n.left, fn)
		Walk(n.right, fn)
	case *Condition:
		Walk(n.left, fn)
		Walk(n.right, fn)
	case *Ternary:
		Walk(n.condition, fn)
		Walk(n.trueBranch, fn)
		Walk(n.falseBranch, fn)
	case *Call:
		for _, a := range n.args {
			Walk(a, fn)
		}
	}
}
