package expr

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/udaf/functions"
	"github.com/rulego/udaf/types"
)

func columnNames(n Node) []string {
	var names []string
	for _, c := range n.Columns() {
		names = append(names, c.Name())
	}
	return names
}

func TestConstantTimesColumn(t *testing.T) {
	node := Mul(5, Col("price"))

	assert.Equal(t, KindBinary, node.Kind())
	assert.Equal(t, OpMul, node.Op())
	left, ok := node.Left().(*Constant)
	require.True(t, ok)
	assert.Equal(t, int64(5), left.Value())
	assert.Equal(t, types.Int, left.DataType())
	assert.Equal(t, "price", node.Right().(*Column).Name())
	assert.Equal(t, []string{"price"}, columnNames(node))
	assert.Equal(t, "(5 * price)", node.String())
}

func TestColumns_Order(t *testing.T) {
	a, b, c := Col("a"), Col("b"), Col("c")

	tests := []struct {
		name string
		node Node
		want []string
	}{
		{"disjoint", Add(Mul(a, b), c), []string{"a", "b", "c"}},
		{"duplicates keep first occurrence", Sub(Mul(b, a), Add(a, Mul(c, b))), []string{"b", "a", "c"}},
		{"same name different instance", Add(Col("x"), Col("x")), []string{"x"}},
		{"constants only", Add(1, 2.5), nil},
		{"ternary", mustTernary(t, Gt(c, 0), a, b), []string{"c", "a", "b"}},
		{"guard only ternary", mustTernary(t, Lt(b, a), c, nil), []string{"b", "a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, columnNames(tt.node))
		})
	}
}

func TestColumns_Concatenation(t *testing.T) {
	left := Add(Col("a"), Col("b"))
	right := Mul(Col("c"), Col("d"))
	combined := Div(left, right)

	want := append(columnNames(left), columnNames(right)...)
	assert.Equal(t, want, columnNames(combined))
}

func TestNodesAreImmutable(t *testing.T) {
	price := Col("price")
	base := Mul(price, 2)
	first := Add(base, 1)
	second := Sub(base, Col("discount"))

	assert.Equal(t, "(price * 2)", base.String())
	assert.Equal(t, "((price * 2) + 1)", first.String())
	assert.Equal(t, "((price * 2) - discount)", second.String())
	assert.Same(t, Node(base), first.Left())
	assert.Same(t, Node(base), second.Left())
}

func TestBinary_NotCombinable(t *testing.T) {
	m := &TableMeasure{Column: Col("price"), AggFunc: "sum"}

	tests := []struct {
		name        string
		left, right interface{}
	}{
		{"measure on the right", Col("a"), m},
		{"measure on the left", m, 1},
		{"nil operand", Col("a"), nil},
		{"unsupported literal", Col("a"), struct{}{}},
		{"mixed sequence", Col("a"), []interface{}{1, 2.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, ok := Binary(OpAdd, tt.left, tt.right)
			assert.False(t, ok)
			assert.Nil(t, node)
		})
	}

	assert.Panics(t, func() { Add(Col("a"), m) })
}

func TestBinary_Comparisons(t *testing.T) {
	for _, op := range []Op{OpEq, OpNe, OpLt, OpLe, OpGt, OpGe} {
		node, ok := Binary(op, Col("a"), 0)
		require.True(t, ok)
		cond, isCond := node.(*Condition)
		require.True(t, isCond, op.String())
		assert.Equal(t, op, cond.Op())
		assert.True(t, op.IsComparison())
	}
	for _, op := range []Op{OpMul, OpDiv, OpAdd, OpSub} {
		node, ok := Binary(op, Col("a"), 0)
		require.True(t, ok)
		_, isCond := node.(*Condition)
		assert.False(t, isCond, op.String())
	}
}

func TestNewConstant(t *testing.T) {
	day := time.Date(2024, 3, 1, 15, 4, 5, 0, time.Local)

	tests := []struct {
		name  string
		value interface{}
		want  types.DataType
		str   string
	}{
		{"int", 5, types.Int, "5"},
		{"int32", int32(7), types.Int, "7"},
		{"int64", int64(1) << 40, types.Long, "1099511627776"},
		{"int out of int32 range", int(1 << 40), types.Long, "1099511627776"},
		{"negative int out of int32 range", int(-1 << 31) - 1, types.Long, "-2147483649"},
		{"int32 bounds", int(math.MaxInt32), types.Int, "2147483647"},
		{"uint32", uint32(math.MaxUint32), types.Long, "4294967295"},
		{"small uint32", uint32(3), types.Int, "3"},
		{"wide ints", []int{1, 1 << 40}, types.LongArray, "[1, 1099511627776]"},
		{"float32", float32(1.5), types.Float, "1.5"},
		{"float64", 2.25, types.Double, "2.25"},
		{"string", "EUR", types.String, `"EUR"`},
		{"date", day, types.LocalDate, "2024-03-01"},
		{"ints", []int{1, 2}, types.IntArray, "[1, 2]"},
		{"longs", []int64{3}, types.LongArray, "[3]"},
		{"floats", []float32{0.5}, types.FloatArray, "[0.5]"},
		{"doubles", []float64{1.5, 2}, types.DoubleArray, "[1.5, 2]"},
		{"homogeneous sequence", []interface{}{1.0, 2.0}, types.DoubleArray, "[1, 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewConstant(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.DataType())
			assert.Equal(t, tt.str, c.String())
			assert.Empty(t, c.Columns())
		})
	}

	for _, bad := range []interface{}{true, []string{"a"}, []interface{}{}, []interface{}{1, "a"}, map[string]int{}} {
		_, err := NewConstant(bad)
		assert.Error(t, err, "%v", bad)
	}
}

func TestNewTernary(t *testing.T) {
	cond := Gt(Col("qty"), 10)

	node, err := NewTernary(cond, Mul(Col("price"), 0.9), Col("price"))
	require.NoError(t, err)
	assert.Equal(t, KindTernary, node.Kind())
	assert.Equal(t, "if((qty > 10), (price * 0.9), price)", node.String())

	guard, err := NewTernary(cond, Col("price"), nil)
	require.NoError(t, err)
	assert.Nil(t, guard.FalseBranch())

	_, err = NewTernary(nil, 1, 2)
	assert.Error(t, err)
	_, err = NewTernary(cond, nil, 2)
	assert.Error(t, err)
}

func TestNewCall(t *testing.T) {
	abs, err := functions.NewExistingFunction("Math.abs", "java.lang")
	require.NoError(t, err)

	call, err := NewCall(abs, Sub(Col("a"), Col("b")))
	require.NoError(t, err)
	assert.Equal(t, KindCall, call.Kind())
	assert.Equal(t, "Math.abs((a - b))", call.String())
	assert.Equal(t, []string{"a", "b"}, columnNames(call))

	args := call.Args()
	args[0] = Col("z")
	assert.Equal(t, "Math.abs((a - b))", call.String(), "Args returns a copy")

	_, err = NewCall(nil, 1)
	assert.Error(t, err)
	_, err = NewCall(abs, &LiteralMeasure{Value: 1})
	assert.Error(t, err)
}

func TestWalk(t *testing.T) {
	node := mustTernary(t, Gt(Col("a"), 0), Add(Col("b"), 1), Col("c"))

	var kinds []Kind
	Walk(node, func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return true
	})
	assert.Equal(t, []Kind{
		KindTernary,
		KindBinary, KindColumn, KindConstant,
		KindBinary, KindColumn, KindConstant,
		KindColumn,
	}, kinds)

	count := 0
	Walk(node, func(n Node) bool {
		count++
		return n.Kind() != KindTernary
	})
	assert.Equal(t, 1, count)
}

func mustTernary(t *testing.T, cond *Condition, trueBranch, falseBranch interface{}) *Ternary {
	t.Helper()
	node, err := NewTernary(cond, trueBranch, falseBranch)
	require.NoError(t, err)
	return node
}
