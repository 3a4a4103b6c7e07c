package expr

import (
	"fmt"

	"github.com/rulego/udaf/types"
)

// Measure describes an aggregated quantity of a cube, as opposed to a
// per-row (fact-level) value.
type Measure interface {
	String() string
	measure()
}

// TableMeasure aggregates a table column with an aggregation function.
type TableMeasure struct {
	Column  *Column
	AggFunc string
}

// ValueMeasure reads the single value of a column at the queried location.
type ValueMeasure struct {
	Column *Column
}

// LiteralMeasure is a measure equal to a literal value.
type LiteralMeasure struct {
	Value interface{}
}

// CalculatedMeasure combines two measures with an operator.
type CalculatedMeasure struct {
	Op    Op
	Left  Measure
	Right Measure
}

func (*TableMeasure) measure()      {}
func (*ValueMeasure) measure()      {}
func (*LiteralMeasure) measure()    {}
func (*CalculatedMeasure) measure() {}

func (m *TableMeasure) String() string {
	return m.Column.String() + "." + m.AggFunc
}

func (m *ValueMeasure) String() string {
	return "value(" + m.Column.String() + ")"
}

func (m *LiteralMeasure) String() string {
	return formatValue(m.Value)
}

func (m *CalculatedMeasure) String() string {
	return "(" + m.Left.String() + " " + m.Op.Symbol() + " " + m.Right.String() + ")"
}

// CombineMeasures applies op to two measures. A table measure cannot be
// combined with another table measure nor with a literal: both sides would
// have to be evaluated per row, which a measure cannot do.
func CombineMeasures(op Op, left, right Measure) (Measure, error) {
	_, leftTable := left.(*TableMeasure)
	_, rightTable := right.(*TableMeasure)
	_, leftLiteral := left.(*LiteralMeasure)
	_, rightLiteral := right.(*LiteralMeasure)
	switch {
	case leftTable && rightTable:
		return nil, types.UnsupportedCombination(
			"it is not possible to create a measure by combining 2 table columns, create a new table column instead")
	case (leftTable && rightLiteral) || (leftLiteral && rightTable):
		return nil, types.UnsupportedCombination(
			"it is not possible to create a measure by combining a table column and a constant, create a new table column instead")
	}
	return &CalculatedMeasure{Op: op, Left: left, Right: right}, nil
}

// ToMeasure converts an expression into a measure. Columns become table
// measures aggregated with aggFunc, or value measures when aggFunc is empty.
func ToMeasure(node Node, aggFunc string) (Measure, error) {
	switch n := node.(type) {
	case *Column:
		if aggFunc == "" {
			return &ValueMeasure{Column: n}, nil
		}
		return &TableMeasure{Column: n, AggFunc: aggFunc}, nil
	case *Constant:
		return &LiteralMeasure{Value: n.value}, nil
	case *BinaryOp:
		return binaryToMeasure(n, aggFunc)
	case *Condition:
		return binaryToMeasure(&n.BinaryOp, aggFunc)
	default:
		return nil, types.UnsupportedCombination(fmt.Sprintf("%s cannot be converted to a measure", node))
	}
}

func binaryToMeasure(b *BinaryOp, aggFunc string) (Measure, error) {
	left, err := ToMeasure(b.left, aggFunc)
	if err != nil {
		return nil, err
	}
	right, err := ToMeasure(b.right, aggFunc)
	if err != nil {
		return nil, err
	}
	return CombineMeasures(b.op, left, right)
}
