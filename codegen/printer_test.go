package codegen

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatLiteral(t *testing.T) {
	tests := []struct {
		lit      *Lit
		expected string
	}{
		{Int(-1), "-1"},
		{&Lit{Type: "int", Value: 7}, "7"},
		{&Lit{Type: "long", Value: 3}, "3L"},
		{&Lit{Type: "float", Value: 0}, "0.0f"},
		{&Lit{Type: "float", Value: 1.5}, "1.5f"},
		{Double(0), "0.0"},
		{Double(2.25), "2.25"},
		{Double(1e21), "1e+21"},
		{Double(math.Inf(1)), "Double.POSITIVE_INFINITY"},
		{Double(math.Inf(-1)), "Double.NEGATIVE_INFINITY"},
		{Double(math.NaN()), "Double.NaN"},
		{&Lit{Type: "float", Value: math.NaN()}, "Float.NaN"},
		{&Lit{Type: "float", Value: math.Inf(1)}, "Float.POSITIVE_INFINITY"},
		{&Lit{Type: "float", Value: math.Inf(-1)}, "Float.NEGATIVE_INFINITY"},
		{&Lit{Type: "boolean", Value: true}, "true"},
		{&Lit{Type: "String", Value: `say "hi"`}, `"say \"hi\""`},
		{&Lit{Type: "LocalDate", Value: "x"}, "x"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatLiteral(tt.lit))
		})
	}
}

func TestFormatLiteral_JavaStrings(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{"plain", "EUR", `"EUR"`},
		{"short escapes", "a\b\t\n\f\r\"\\", `"a\b\t\n\f\r\"\\"`},
		{"control characters", "a\x01\a\v\x7f", `"a\u0001\u0007\u000b\u007f"`},
		{"invalid utf-8", "a\x01\xff", `"a\u0001\ufffd"`},
		{"中文", "价格", `"\u4ef7\u683c"`},
		{"supplementary plane", "\U0001F600", `"\ud83d\ude00"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatLiteral(&Lit{Type: "String", Value: tt.value})
			assert.Equal(t, tt.expected, got)
			assert.NotContains(t, got, `\x`)
		})
	}
}

func TestFormatExpr(t *testing.T) {
	fact := Id("fact")
	read := Invoke(fact, "readDouble", Int(0))

	tests := []struct {
		name     string
		expr     Expr
		expected string
	}{
		{"method call", read, "fact.readDouble(0)"},
		{"top level binary", &Binary{Op: "*", X: Int(5), Y: read}, "5 * fact.readDouble(0)"},
		{
			name:     "nested operands are parenthesized",
			expr:     &Binary{Op: "*", X: &Binary{Op: "+", X: Id("a"), Y: Id("b")}, Y: Id("c")},
			expected: "(a + b) * c",
		},
		{"negated literal", &Unary{Op: "-", X: Int(-1)}, "-(-1)"},
		{"not", &Unary{Op: "!", X: Invoke(Id("buf"), "isNull", Int(0))}, "!buf.isNull(0)"},
		{"cast", &Cast{Type: "double", X: Id("x")}, "(double) x"},
		{"cast of binary", &Cast{Type: "double", X: &Binary{Op: "/", X: Id("x"), Y: Id("y")}}, "(double) (x / y)"},
		{"static call", &Call{Func: "Math.min", Args: []Expr{Id("a"), Double(0)}}, "Math.min(a, 0.0)"},
		{"receiver is parenthesized", Invoke(&Cast{Type: "IVector", X: Id("v")}, "scale", Double(2)), "((IVector) v).scale(2.0)"},
		{"new", &New{Type: "NegativeVector", Args: []Expr{Id("value")}}, "new NegativeVector(value)"},
		{"array", &NewArray{ElemType: "double", Elems: []Expr{Double(1), Double(2.5)}}, "new double[] {1.0, 2.5}"},
		{"empty array", &NewArray{ElemType: "int"}, "new int[] {}"},
		{
			name:     "conditional",
			expr:     &Cond{C: &Binary{Op: ">", X: Id("q"), Y: Int(0)}, T: Id("a"), F: &Null{}},
			expected: "(q > 0) ? a : null",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatExpr(tt.expr))
		})
	}
}

func TestFormatStmts(t *testing.T) {
	stmts := []Stmt{
		&Decl{Type: "double", Name: "value", Value: Invoke(Id("fact"), "readDouble", Int(0))},
		&If{
			Cond: Invoke(Id("buf"), "isNull", Int(0)),
			Then: []Stmt{Do(Invoke(Id("buf"), "write", Int(0), Id("value")))},
			Else: []Stmt{Do(Invoke(Id("buf"), "addDouble", Int(0), Id("value")))},
		},
		&If{
			Cond: Id("flag"),
			Then: []Stmt{&Return{Value: Id("value")}},
		},
	}
	expected := "" +
		"    double value = fact.readDouble(0);\n" +
		"    if (buf.isNull(0)) {\n" +
		"        buf.write(0, value);\n" +
		"    } else {\n" +
		"        buf.addDouble(0, value);\n" +
		"    }\n" +
		"    if (flag) {\n" +
		"        return value;\n" +
		"    }\n"
	assert.Equal(t, expected, FormatStmts(stmts, 1))
}

func TestFormatMethod(t *testing.T) {
	m := &Method{
		ReturnType: "double",
		Name:       "clip_1",
		Params:     []Param{{Type: "double", Name: "x"}, {Type: "int", Name: "n"}},
		Body:       []Stmt{&Raw{Text: "\n  double y = Math.max(0.0, x);\n  return y * n;\n"}},
	}
	expected := "public double clip_1(double x, int n) {\n" +
		"    double y = Math.max(0.0, x);\n" +
		"    return y * n;\n" +
		"}\n"
	assert.Equal(t, expected, FormatMethod(m))

	assert.Equal(t, "public void noop() {\n}\n", FormatMethod(&Method{ReturnType: "void", Name: "noop"}))
}

func TestFormat_UnknownNodePanics(t *testing.T) {
	assert.Panics(t, func() { FormatExpr(nil) })
	assert.Panics(t, func() { FormatStmts([]Stmt{nil}, 0) })
}
