package functions

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/udaf/types"
)

func TestLoadCatalog(t *testing.T) {
	c := loadTestCatalog(t)
	ctx := context.Background()

	sigs, err := c.MethodSignatures(ctx, "java.lang.Math", "max")
	require.NoError(t, err)
	assert.Equal(t, [][]types.DataType{
		{types.Int, types.Int},
		{types.Double, types.Double},
	}, sigs)

	out, err := c.MethodOutputType(ctx, "java.lang.Math", "max", []types.DataType{types.Int, types.Long})
	require.NoError(t, err)
	assert.Equal(t, types.Double, out)

	out, err = c.MethodOutputType(ctx, "com.qfs.vector.VectorOps", "sum", []types.DataType{types.FloatArray})
	require.NoError(t, err)
	assert.Equal(t, types.Double, out)
}

func TestLoadCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "classes: [\n"},
		{"bad param type", "classes:\n  - name: A\n    methods:\n      - name: f\n        overloads:\n          - params: [short]\n            returns: int\n"},
		{"bad return type", "classes:\n  - name: A\n    methods:\n      - name: f\n        overloads:\n          - params: [int]\n            returns: void\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog(strings.NewReader(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestCatalog_UnknownMethod(t *testing.T) {
	c, err := LoadCatalog(strings.NewReader(""))
	require.NoError(t, err)

	_, err = c.MethodSignatures(context.Background(), "java.lang.Math", "abs")
	assert.Error(t, err)
	_, err = c.MethodOutputType(context.Background(), "java.lang.Math", "abs", []types.DataType{types.Int})
	assert.Error(t, err)
}

func TestExistingFunction_Names(t *testing.T) {
	fn, err := NewExistingFunction("Math.abs", "java.lang")
	require.NoError(t, err)
	assert.Equal(t, "java.lang.Math", fn.Class())
	assert.Equal(t, "abs", fn.Method())
	assert.Equal(t, TypeExisting, fn.Type())

	bare, err := NewExistingFunction("Helpers.clip", "")
	require.NoError(t, err)
	assert.Equal(t, "Helpers", bare.Class())

	for _, bad := range []string{"abs", ".abs", "Math.", "a.b.c"} {
		_, err := NewExistingFunction(bad, "")
		assert.Error(t, err, bad)
	}
}

func TestAccumulator(t *testing.T) {
	acc := NewAccumulator()
	acc.AddImport("java.util.List")
	acc.AddImport("java.lang.Math")
	acc.AddImport("java.util.List")
	acc.AddImport("")
	acc.AddMethod("public int b() {\n}\n")
	acc.AddMethod("public int a() {\n}\n")
	acc.AddMethod("public int b() {\n}\n")

	assert.Equal(t, []string{"java.lang.Math", "java.util.List"}, acc.Imports())
	assert.Equal(t, []string{"public int a() {\n}\n", "public int b() {\n}\n"}, acc.Methods())
}
