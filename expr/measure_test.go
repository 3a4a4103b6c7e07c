package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/udaf/types"
)

func TestCombineMeasures(t *testing.T) {
	price := &TableMeasure{Column: Col("price"), AggFunc: "sum"}
	qty := &TableMeasure{Column: Col("qty"), AggFunc: "sum"}
	rate := &ValueMeasure{Column: Col("rate")}
	two := &LiteralMeasure{Value: 2}

	tests := []struct {
		name        string
		left, right Measure
		wantErr     bool
	}{
		{"两个表列度量相加", price, qty, true},
		{"table and literal", price, two, true},
		{"literal and table", two, price, true},
		{"table and value", price, rate, false},
		{"value and literal", rate, two, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := CombineMeasures(OpAdd, tt.left, tt.right)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, types.ErrUnsupportedCombination)
				assert.Nil(t, m)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, &CalculatedMeasure{}, m)
		})
	}
}

func TestToMeasure(t *testing.T) {
	t.Run("two table columns", func(t *testing.T) {
		_, err := ToMeasure(Add(Col("price"), Col("qty")), "sum")
		assert.ErrorIs(t, err, types.ErrUnsupportedCombination)
	})

	t.Run("table column and constant", func(t *testing.T) {
		_, err := ToMeasure(Mul(Col("price"), 2), "sum")
		assert.ErrorIs(t, err, types.ErrUnsupportedCombination)
	})

	t.Run("value columns combine", func(t *testing.T) {
		m, err := ToMeasure(Mul(Col("price"), Col("rate")), "")
		require.NoError(t, err)
		assert.Equal(t, "(value(price) * value(rate))", m.String())
	})

	t.Run("single column", func(t *testing.T) {
		m, err := ToMeasure(Col("price"), "mean")
		require.NoError(t, err)
		assert.Equal(t, "price.mean", m.String())
	})

	t.Run("ternary is not a measure", func(t *testing.T) {
		node, err := NewTernary(Gt(Col("a"), 0), Col("a"), nil)
		require.NoError(t, err)
		_, err = ToMeasure(node, "sum")
		assert.ErrorIs(t, err, types.ErrUnsupportedCombination)
	})
}
