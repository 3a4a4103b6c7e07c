package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/spf13/cast"
)

const indentUnit = "    "

// FormatExpr renders an expression as Java source.
func FormatExpr(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

// FormatStmts renders statements, one per line, at the given indentation depth.
func FormatStmts(stmts []Stmt, depth int) string {
	var b strings.Builder
	writeStmts(&b, stmts, depth)
	return b.String()
}

// FormatMethod renders a full method declaration.
func FormatMethod(m *Method) string {
	var b strings.Builder
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.Type + " " + p.Name
	}
	fmt.Fprintf(&b, "public %s %s(%s) {\n", m.ReturnType, m.Name, strings.Join(params, ", "))
	writeStmts(&b, m.Body, 1)
	b.WriteString("}\n")
	return b.String()
}

func writeStmts(b *strings.Builder, stmts []Stmt, depth int) {
	for _, s := range stmts {
		writeStmt(b, s, depth)
	}
}

func writeStmt(b *strings.Builder, s Stmt, depth int) {
	indent := strings.Repeat(indentUnit, depth)
	switch s := s.(type) {
	case *Decl:
		fmt.Fprintf(b, "%s%s %s = %s;\n", indent, s.Type, s.Name, FormatExpr(s.Value))
	case *ExprStmt:
		fmt.Fprintf(b, "%s%s;\n", indent, FormatExpr(s.X))
	case *Return:
		fmt.Fprintf(b, "%sreturn %s;\n", indent, FormatExpr(s.Value))
	case *If:
		fmt.Fprintf(b, "%sif (%s) {\n", indent, FormatExpr(s.Cond))
		writeStmts(b, s.Then, depth+1)
		if len(s.Else) > 0 {
			fmt.Fprintf(b, "%s} else {\n", indent)
			writeStmts(b, s.Else, depth+1)
		}
		fmt.Fprintf(b, "%s}\n", indent)
	case *Raw:
		for _, line := range strings.Split(strings.TrimSpace(s.Text), "\n") {
			fmt.Fprintf(b, "%s%s\n", indent, strings.TrimSpace(line))
		}
	default:
		panic(fmt.Sprintf("codegen: unknown statement %T", s))
	}
}

func writeExpr(b *strings.Builder, e Expr) {
	switch e := e.(type) {
	case *Ident:
		b.WriteString(e.Name)
	case *Lit:
		b.WriteString(FormatLiteral(e))
	case *Null:
		b.WriteString("null")
	case *Binary:
		writeOperand(b, e.X)
		b.WriteString(" " + e.Op + " ")
		writeOperand(b, e.Y)
	case *Unary:
		b.WriteString(e.Op)
		if l, ok := e.X.(*Lit); ok && strings.HasPrefix(FormatLiteral(l), "-") {
			b.WriteString("(" + FormatLiteral(l) + ")")
			return
		}
		writeOperand(b, e.X)
	case *Call:
		b.WriteString(e.Func)
		writeArgs(b, e.Args)
	case *MethodCall:
		writeOperand(b, e.Recv)
		b.WriteString("." + e.Name)
		writeArgs(b, e.Args)
	case *New:
		b.WriteString("new " + e.Type)
		writeArgs(b, e.Args)
	case *NewArray:
		b.WriteString("new " + e.ElemType + "[] {")
		for i, x := range e.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, x)
		}
		b.WriteString("}")
	case *Cast:
		b.WriteString("(" + e.Type + ") ")
		writeOperand(b, e.X)
	case *Cond:
		writeOperand(b, e.C)
		b.WriteString(" ? ")
		writeOperand(b, e.T)
		b.WriteString(" : ")
		writeOperand(b, e.F)
	default:
		panic(fmt.Sprintf("codegen: unknown expression %T", e))
	}
}

func writeArgs(b *strings.Builder, args []Expr) {
	b.WriteString("(")
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		writeExpr(b, a)
	}
	b.WriteString(")")
}

// compound operands are parenthesized so precedence never depends on context
func writeOperand(b *strings.Builder, e Expr) {
	switch e.(type) {
	case *Binary, *Cond, *Unary, *Cast:
		b.WriteString("(")
		writeExpr(b, e)
		b.WriteString(")")
	default:
		writeExpr(b, e)
	}
}

// FormatLiteral renders a literal with the suffix its Java type requires.
func FormatLiteral(l *Lit) string {
	switch l.Type {
	case "int":
		return strconv.FormatInt(cast.ToInt64(l.Value), 10)
	case "long":
		return strconv.FormatInt(cast.ToInt64(l.Value), 10) + "L"
	case "float":
		v := cast.ToFloat64(l.Value)
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nonFinite("Float", v)
		}
		return formatFloat(v, 32) + "f"
	case "double":
		v := cast.ToFloat64(l.Value)
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nonFinite("Double", v)
		}
		return formatFloat(v, 64)
	case "boolean":
		return strconv.FormatBool(l.Value.(bool))
	case "String":
		return quoteJava(fmt.Sprint(l.Value))
	default:
		return fmt.Sprint(l.Value)
	}
}

// nonFinite names the NaN or infinity constant of the boxed class.
func nonFinite(class string, v float64) string {
	switch {
	case math.IsNaN(v):
		return class + ".NaN"
	case v > 0:
		return class + ".POSITIVE_INFINITY"
	default:
		return class + ".NEGATIVE_INFINITY"
	}
}

// formatFloat always keeps a decimal point so the literal stays floating point.
func formatFloat(v float64, bits int) string {
	s := strconv.FormatFloat(v, 'g', -1, bits)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// quoteJava renders s as a Java string literal. Anything outside printable
// ASCII becomes a \uXXXX escape; invalid UTF-8 is written as U+FFFD.
func quoteJava(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\b':
			b.WriteString(`\b`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\f':
			b.WriteString(`\f`)
		case '\r':
			b.WriteString(`\r`)
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			switch {
			case r >= 0x20 && r < 0x7f:
				b.WriteRune(r)
			case r > 0xffff:
				hi, lo := utf16.EncodeRune(r)
				fmt.Fprintf(&b, `\u%04x\u%04x`, hi, lo)
			default:
				fmt.Fprintf(&b, `\u%04x`, r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
