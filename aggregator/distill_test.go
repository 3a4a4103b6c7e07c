package aggregator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/udaf/buffer"
	"github.com/rulego/udaf/codegen"
	"github.com/rulego/udaf/expr"
	"github.com/rulego/udaf/functions"
	"github.com/rulego/udaf/logger"
	"github.com/rulego/udaf/types"
)

var schema = map[string]types.DataType{
	"price": types.Double,
	"qty":   types.Int,
	"pnl":   types.DoubleArray,
	"hits":  types.IntArray,
	"ccy":   types.String,
}

func distill(t *testing.T, node expr.Node, kind Kind) *Artifact {
	t.Helper()
	art, err := Distill(context.Background(), node, kind, &Env{Schema: schema})
	require.NoError(t, err)
	return art
}

func body(m *codegen.Method) string {
	return codegen.FormatStmts(m.Body, 1)
}

func TestDistill_MeanSource(t *testing.T) {
	art := distill(t, expr.Col("price"), Mean)

	want := `import com.qfs.store.record.IArrayReader;
import com.qfs.store.record.IWritableBuffer;
import com.qfs.vector.IVector;

public void contribute(IArrayReader fact, IWritableBuffer aggregationBuffer) {
    aggregationBuffer.addDouble(0, fact.readDouble(0));
    aggregationBuffer.addInt(1, 1);
}

public void decontribute(IArrayReader fact, IWritableBuffer aggregationBuffer) {
    aggregationBuffer.addDouble(0, -1 * fact.readDouble(0));
    aggregationBuffer.addInt(1, -1);
}

public void merge(IWritableBuffer inputAggregationBuffer, IWritableBuffer outputAggregationBuffer) {
    outputAggregationBuffer.addDouble(0, inputAggregationBuffer.readDouble(0));
    outputAggregationBuffer.addInt(1, inputAggregationBuffer.readInt(1));
}

public double terminate(IWritableBuffer aggregationBuffer) {
    return ((double) aggregationBuffer.readDouble(0)) / aggregationBuffer.readInt(1);
}
`
	assert.Equal(t, want, art.Source())
	assert.Equal(t, buffer.Layout{types.Double, types.Int}, art.BufferLayout)
	assert.Equal(t, types.Double, art.OutputType)
	assert.Equal(t, []string{"price"}, art.Columns)
	assert.Empty(t, art.Methods)
}

func TestDistill_MeanVector(t *testing.T) {
	art := distill(t, expr.Col("pnl"), Mean)

	assert.Equal(t, types.DoubleArray, art.TerminateType)
	assert.Equal(t, "IVector", art.Terminate.ReturnType)
	assert.Equal(t, `    IVector value = fact.readVector(0);
    if (value != null) {
        if (aggregationBuffer.isNull(0)) {
            aggregationBuffer.write(0, value);
        } else {
            aggregationBuffer.readWritableVector(0).plus(value);
        }
        aggregationBuffer.addInt(1, 1);
    }
`, body(art.Contribute))
	assert.Equal(t, `    IVector value = fact.readVector(0);
    if ((value != null) && (!aggregationBuffer.isNull(0))) {
        aggregationBuffer.readWritableVector(0).minus(value);
        aggregationBuffer.addInt(1, -1);
    }
`, body(art.Decontribute))
	assert.Equal(t, `    if (!inputAggregationBuffer.isNull(0)) {
        if (outputAggregationBuffer.isNull(0)) {
            outputAggregationBuffer.write(0, inputAggregationBuffer.readVector(0));
        } else {
            outputAggregationBuffer.readWritableVector(0).plus(inputAggregationBuffer.readVector(0));
        }
        outputAggregationBuffer.addInt(1, inputAggregationBuffer.readInt(1));
    }
`, body(art.Merge))
	assert.Equal(t, `    IVector result = aggregationBuffer.readVector(0).cloneOnHeap();
    result.scale(1.0 / aggregationBuffer.readInt(1));
    return result;
`, body(art.Terminate))
}

func TestDistill_MinHasNoDecontribute(t *testing.T) {
	art := distill(t, expr.Col("price"), Min)

	assert.Nil(t, art.Decontribute)
	assert.Len(t, art.Routines(), 3)
	assert.NotContains(t, art.Source(), "decontribute")
	assert.Equal(t, `    double value = fact.readDouble(0);
    if (aggregationBuffer.isNull(0) || (value < aggregationBuffer.readDouble(0))) {
        aggregationBuffer.write(0, value);
    }
`, body(art.Contribute))
	assert.Equal(t, `    if (!inputAggregationBuffer.isNull(0)) {
        double input = inputAggregationBuffer.readDouble(0);
        if (outputAggregationBuffer.isNull(0) || (input < outputAggregationBuffer.readDouble(0))) {
            outputAggregationBuffer.write(0, input);
        }
    }
`, body(art.Merge))

	visitor, err := Get(Min)
	require.NoError(t, err)
	stmts, ok, err := visitor.Decontribute(nil)
	assert.NoError(t, err, "absence is not an error")
	assert.False(t, ok)
	assert.Nil(t, stmts)
}

func TestDistill_Max(t *testing.T) {
	art := distill(t, expr.Col("qty"), Max)
	assert.Nil(t, art.Decontribute)
	assert.Contains(t, body(art.Contribute), "value > aggregationBuffer.readInt(0)")
	assert.Equal(t, types.Int, art.TerminateType)
}

func TestDistill_Multiply(t *testing.T) {
	art := distill(t, expr.Col("price"), Multiply)
	assert.Equal(t, `    double value = fact.readDouble(0);
    if (aggregationBuffer.isNull(0)) {
        aggregationBuffer.write(0, value);
    } else {
        aggregationBuffer.write(0, aggregationBuffer.readDouble(0) * value);
    }
`, body(art.Contribute))
	assert.Equal(t, "    aggregationBuffer.write(0, aggregationBuffer.readDouble(0) / fact.readDouble(0));\n", body(art.Decontribute))
}

func TestDistill_Short(t *testing.T) {
	t.Run("scalar", func(t *testing.T) {
		art := distill(t, expr.Col("qty"), Short)
		assert.Equal(t, "    aggregationBuffer.addInt(0, Math.min(0, fact.readInt(0)));\n", body(art.Contribute))
		assert.Equal(t, "    aggregationBuffer.addInt(0, -1 * Math.min(0, fact.readInt(0)));\n", body(art.Decontribute))
		assert.NotContains(t, art.Imports, NegativeVectorImport)
	})

	t.Run("向量", func(t *testing.T) {
		art := distill(t, expr.Col("pnl"), Short)
		assert.Equal(t, `    IVector value = fact.readVector(0);
    if (value != null) {
        if (aggregationBuffer.isNull(0)) {
            aggregationBuffer.write(0, new NegativeVector(value));
        } else {
            aggregationBuffer.readWritableVector(0).plusNegativeValues(value);
        }
    }
`, body(art.Contribute))
		assert.Contains(t, body(art.Merge), "outputAggregationBuffer.readWritableVector(0).plusNegativeValues(inputAggregationBuffer.readVector(0));")
		assert.Contains(t, art.Imports, NegativeVectorImport)
	})
}

func TestDistill_SquareSum(t *testing.T) {
	art := distill(t, expr.Mul(2, expr.Col("price")), SquareSum)
	assert.Equal(t, `    double value = 2 * fact.readDouble(0);
    aggregationBuffer.addDouble(0, value * value);
`, body(art.Contribute))
	assert.Equal(t, `    double value = 2 * fact.readDouble(0);
    aggregationBuffer.addDouble(0, -1 * (value * value));
`, body(art.Decontribute))
}

func TestDistill_TernaryRendersBlocks(t *testing.T) {
	node, err := expr.NewTernary(expr.Gt(expr.Col("price"), 0), expr.Col("price"), expr.Col("qty"))
	require.NoError(t, err)
	art := distill(t, node, Sum)

	assert.Equal(t, []string{"price", "qty"}, art.Columns)
	assert.Equal(t, types.Double, art.OutputType)
	assert.Equal(t, `    if (fact.readDouble(0) > 0) {
        aggregationBuffer.addDouble(0, fact.readDouble(0));
    } else {
        aggregationBuffer.addDouble(0, fact.readInt(1));
    }
`, body(art.Contribute))

	guard, err := expr.NewTernary(expr.Lt(expr.Col("qty"), 0), expr.Col("qty"), nil)
	require.NoError(t, err)
	art = distill(t, guard, Sum)
	assert.Equal(t, `    if (fact.readInt(0) < 0) {
        aggregationBuffer.addInt(0, fact.readInt(0));
    }
`, body(art.Contribute))
}

func TestDistill_UnsupportedOutputTypes(t *testing.T) {
	tests := []struct {
		kind Kind
		node expr.Node
	}{
		{Min, expr.Col("pnl")},
		{Max, expr.Col("hits")},
		{Multiply, expr.Col("pnl")},
		{SquareSum, expr.Col("pnl")},
		{Mean, expr.Col("ccy")},
		{Sum, expr.Col("ccy")},
		{Short, expr.Col("ccy")},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind)+" "+tt.node.String(), func(t *testing.T) {
			_, err := Distill(context.Background(), tt.node, tt.kind, &Env{Schema: schema})
			assert.ErrorIs(t, err, types.ErrUnsupportedOutputType)
		})
	}
}

func TestDistill_CustomFunction(t *testing.T) {
	registry := functions.NewRegistry(nil, functions.WithLogger(logger.NewDiscardLogger()))
	clip, err := registry.NewCustomFunction("clip", "return Math.max(0.0, x);", types.Double,
		[]string{"java.lang.Math"}, functions.Signature{functions.P("x", types.Double)})
	require.NoError(t, err)
	call, err := expr.NewCall(clip, expr.Col("qty"))
	require.NoError(t, err)

	art, err := Distill(context.Background(), call, Sum, &Env{Schema: schema, Registry: registry})
	require.NoError(t, err)

	assert.Contains(t, art.Imports, "java.lang.Math")
	require.Len(t, art.Methods, 1)
	assert.Contains(t, art.Methods[0], "public double "+clip.MethodName()+"(double x)")
	assert.Equal(t, "    aggregationBuffer.addDouble(0, "+clip.MethodName()+"(fact.readInt(0)));\n", body(art.Contribute))
	assert.Contains(t, art.Source(), art.Methods[0])
}

func TestDistill_Config(t *testing.T) {
	config := types.DefaultCodegenConfig()
	config.FactParameter = "row"
	config.DefaultImports = []string{"b.B", "a.A", "b.B"}

	art, err := Distill(context.Background(), expr.Col("pnl"), Sum, &Env{Schema: schema, Config: config})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.A", "b.B"}, art.Imports)
	assert.Equal(t, "row", art.Contribute.Params[0].Name)
	assert.Contains(t, body(art.Contribute), "row.readVector(0)")
}

func TestDistill_Errors(t *testing.T) {
	_, err := Distill(context.Background(), nil, Sum, nil)
	assert.Error(t, err)

	_, err = Distill(context.Background(), expr.Col("price"), Kind("median"), &Env{Schema: schema})
	assert.Error(t, err)

	_, err = Distill(context.Background(), expr.Col("unknown"), Sum, &Env{Schema: schema})
	assert.Error(t, err)
}
