package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/udaf/functions"
	"github.com/rulego/udaf/types"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a+b", []string{"a", "+", "b"}},
		{"price * -1.5", []string{"price", "*", "-1.5"}},
		{"a -1", []string{"a", "-", "1"}},
		{"x >= 10 AND", []string{"x", ">=", "10", "AND"}},
		{"`unit price` <> 'EUR'", []string{"`unit price`", "<>", "'EUR'"}},
		{"Math.abs(t.delta, 2e3)", []string{"Math.abs", "(", "t.delta", ",", "2e3", ")"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := tokenize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "   ", "'open", "`open", "a # b"} {
		_, err := tokenize(bad)
		assert.Error(t, err, bad)
	}
}

func TestParse(t *testing.T) {
	registry := functions.NewRegistry(nil)
	_, err := registry.NewExistingFunction("Math.abs", "java.lang")
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"precedence", "a + b * c", "(a + (b * c))"},
		{"left associative", "a - b - c", "((a - b) - c)"},
		{"parentheses", "(a + b) * c", "((a + b) * c)"},
		{"unary minus", "-a * 2", "((0 - a) * 2)"},
		{"comparison", "qty >= 10", "(qty >= 10)"},
		{"sql equality", "ccy = 'EUR'", `(ccy == "EUR")`},
		{"backticks", "`unit price` * 2", "(unit price * 2)"},
		{"table column", "sales.price", "sales.price"},
		{"if", "IF(qty > 10, price * 0.9, price)", "if((qty > 10), (price * 0.9), price)"},
		{"if without else", "if(delta < 0, delta)", "if((delta < 0), delta)"},
		{"case", "CASE WHEN delta < 0 THEN delta ELSE 0 END", "if((delta < 0), delta, 0)"},
		{"function call", "math.abs(a - b)", "Math.abs((a - b))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := Parse(tt.input, registry.Get)
			require.NoError(t, err)
			assert.Equal(t, tt.want, node.String())
		})
	}
}

func TestParse_Numbers(t *testing.T) {
	tests := []struct {
		input string
		want  types.DataType
	}{
		{"42", types.Int},
		{"-7", types.Int},
		{"4294967296", types.Long},
		{"9223372036854775807", types.Long},
		{"-9223372036854775808", types.Long},
		{"1.5", types.Double},
		{"2e3", types.Double},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node, err := Parse(tt.input, nil)
			require.NoError(t, err)
			c, ok := node.(*Constant)
			require.True(t, ok)
			assert.Equal(t, tt.want, c.DataType())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"trailing token", "a b"},
		{"missing parenthesis", "(a + b"},
		{"unknown function", "foo(a)"},
		{"if needs a comparison", "IF(a, b, c)"},
		{"if arity", "IF(a > 0)"},
		{"case without when", "CASE a END"},
		{"case without then", "CASE WHEN a > 0 a END"},
		{"case without end", "CASE WHEN a > 0 THEN a"},
		{"dangling operator", "a +"},
		{"keyword as operand", "THEN"},
		{"empty name segment", "a..b"},
		{"trailing dot", "t. + 1"},
		{"integer beyond long", "9223372036854775808"},
		{"negative integer beyond long", "price * -9223372036854775809"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input, nil)
			assert.Error(t, err)
		})
	}
}
