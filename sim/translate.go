package sim

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/rulego/udaf/codegen"
)

// Names of the functions generated routines are translated to.
const (
	fnCall    = "call"
	fnStatic  = "callStatic"
	fnNew     = "newObject"
	fnConvert = "convert"
	fnQuo     = "quo"
)

// identPrefix keeps routine locals clear of expr keywords and builtins.
const identPrefix = "v_"

func ident(name string) string {
	return identPrefix + name
}

// translate renders a routine expression in expr syntax. Member accesses,
// static calls, allocations and casts become calls to the simulator
// functions; division goes through quo so integers divide like Java.
func translate(e codegen.Expr) (string, error) {
	var b strings.Builder
	if err := write(&b, e); err != nil {
		return "", err
	}
	return b.String(), nil
}

func write(b *strings.Builder, e codegen.Expr) error {
	switch e := e.(type) {
	case *codegen.Ident:
		b.WriteString(ident(e.Name))
	case *codegen.Lit:
		s, err := literal(e)
		if err != nil {
			return err
		}
		b.WriteString(s)
	case *codegen.Null:
		b.WriteString("nil")
	case *codegen.Binary:
		if e.Op == "/" {
			return writeCall(b, fnQuo, "", e.X, e.Y)
		}
		b.WriteString("(")
		if err := write(b, e.X); err != nil {
			return err
		}
		b.WriteString(" " + e.Op + " ")
		if err := write(b, e.Y); err != nil {
			return err
		}
		b.WriteString(")")
	case *codegen.Unary:
		b.WriteString(e.Op + "(")
		if err := write(b, e.X); err != nil {
			return err
		}
		b.WriteString(")")
	case *codegen.Call:
		return writeCall(b, fnStatic, e.Func, e.Args...)
	case *codegen.MethodCall:
		b.WriteString(fnCall + "(")
		if err := write(b, e.Recv); err != nil {
			return err
		}
		b.WriteString(", " + strconv.Quote(e.Name))
		for _, a := range e.Args {
			b.WriteString(", ")
			if err := write(b, a); err != nil {
				return err
			}
		}
		b.WriteString(")")
	case *codegen.New:
		return writeCall(b, fnNew, e.Type, e.Args...)
	case *codegen.NewArray:
		b.WriteString("[")
		for i, x := range e.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := write(b, x); err != nil {
				return err
			}
		}
		b.WriteString("]")
	case *codegen.Cast:
		return writeCall(b, fnConvert, e.Type, e.X)
	case *codegen.Cond:
		b.WriteString("(")
		for i, x := range []codegen.Expr{e.C, e.T, e.F} {
			switch i {
			case 1:
				b.WriteString(" ? ")
			case 2:
				b.WriteString(" : ")
			}
			if err := write(b, x); err != nil {
				return err
			}
		}
		b.WriteString(")")
	default:
		return fmt.Errorf("cannot simulate expression %T", e)
	}
	return nil
}

// writeCall writes fn(["name", ]args...).
func writeCall(b *strings.Builder, fn, name string, args ...codegen.Expr) error {
	b.WriteString(fn + "(")
	sep := ""
	if name != "" {
		b.WriteString(strconv.Quote(name))
		sep = ", "
	}
	for _, a := range args {
		b.WriteString(sep)
		sep = ", "
		if err := write(b, a); err != nil {
			return err
		}
	}
	b.WriteString(")")
	return nil
}

func literal(l *codegen.Lit) (string, error) {
	switch l.Type {
	case "int", "long":
		n, err := cast.ToInt64E(l.Value)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 10), nil
	case "float", "double":
		f, err := cast.ToFloat64E(l.Value)
		if err != nil {
			return "", err
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return "", fmt.Errorf("cannot simulate literal %v", f)
		}
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s, nil
	case "boolean":
		v, err := cast.ToBoolE(l.Value)
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(v), nil
	case "String":
		return strconv.Quote(cast.ToString(l.Value)), nil
	default:
		return "", fmt.Errorf("cannot simulate %s literal", l.Type)
	}
}
