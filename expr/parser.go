package expr

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rulego/udaf/functions"
)

// FunctionLookup resolves a function name used in a textual expression.
type FunctionLookup func(name string) (functions.Function, bool)

// Parse builds an expression tree from text such as
//
//	price * quantity
//	IF(quantity > 10, price * 0.9, price)
//	CASE WHEN delta < 0 THEN delta END
//
// Identifiers are columns, numbers and quoted strings are constants and
// name(args...) calls are resolved through lookup, which may be nil.
func Parse(text string, lookup FunctionLookup) (Node, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	p := &parser{lookup: lookup}
	node, remaining, err := p.parseComparison(tokens)
	if err != nil {
		return nil, err
	}
	if len(remaining) > 0 {
		return nil, fmt.Errorf("unexpected token: %s", remaining[0])
	}
	return node, nil
}

type parser struct {
	lookup FunctionLookup
}

// parseComparison parses arithmetic [comparison-operator arithmetic]
func (p *parser) parseComparison(tokens []string) (Node, []string, error) {
	left, remaining, err := p.parseArithmetic(tokens)
	if err != nil {
		return nil, nil, err
	}
	if len(remaining) > 0 {
		if op, ok := comparisonOps[remaining[0]]; ok {
			right, newRemaining, err := p.parseArithmetic(remaining[1:])
			if err != nil {
				return nil, nil, err
			}
			node, _ := Binary(op, left, right)
			return node, newRemaining, nil
		}
	}
	return left, remaining, nil
}

// parseCondition parses a comparison and rejects anything else.
func (p *parser) parseCondition(tokens []string) (*Condition, []string, error) {
	node, remaining, err := p.parseComparison(tokens)
	if err != nil {
		return nil, nil, err
	}
	cond, ok := node.(*Condition)
	if !ok {
		return nil, nil, fmt.Errorf("condition must be a comparison: %s", node)
	}
	return cond, remaining, nil
}

// parseArithmetic parses term (+|- term)*
func (p *parser) parseArithmetic(tokens []string) (Node, []string, error) {
	left, remaining, err := p.parseTerm(tokens)
	if err != nil {
		return nil, nil, err
	}
	for len(remaining) > 0 && (remaining[0] == "+" || remaining[0] == "-") {
		op := OpAdd
		if remaining[0] == "-" {
			op = OpSub
		}
		right, newRemaining, err := p.parseTerm(remaining[1:])
		if err != nil {
			return nil, nil, err
		}
		left, _ = Binary(op, left, right)
		remaining = newRemaining
	}
	return left, remaining, nil
}

// parseTerm parses unary (*|/ unary)*
func (p *parser) parseTerm(tokens []string) (Node, []string, error) {
	left, remaining, err := p.parseUnary(tokens)
	if err != nil {
		return nil, nil, err
	}
	for len(remaining) > 0 && (remaining[0] == "*" || remaining[0] == "/") {
		op := OpMul
		if remaining[0] == "/" {
			op = OpDiv
		}
		right, newRemaining, err := p.parseUnary(remaining[1:])
		if err != nil {
			return nil, nil, err
		}
		left, _ = Binary(op, left, right)
		remaining = newRemaining
	}
	return left, remaining, nil
}

// parseUnary rewrites -x as 0 - x
func (p *parser) parseUnary(tokens []string) (Node, []string, error) {
	if len(tokens) == 0 {
		return nil, nil, fmt.Errorf("unexpected end of expression")
	}
	if tokens[0] == "-" {
		operand, remaining, err := p.parseUnary(tokens[1:])
		if err != nil {
			return nil, nil, err
		}
		node, _ := Binary(OpSub, 0, operand)
		return node, remaining, nil
	}
	return p.parsePrimary(tokens)
}

func (p *parser) parsePrimary(tokens []string) (Node, []string, error) {
	if len(tokens) == 0 {
		return nil, nil, fmt.Errorf("unexpected end of expression")
	}
	token := tokens[0]

	switch {
	case token == "(":
		node, remaining, err := p.parseComparison(tokens[1:])
		if err != nil {
			return nil, nil, err
		}
		if len(remaining) == 0 || remaining[0] != ")" {
			return nil, nil, fmt.Errorf("missing closing parenthesis")
		}
		return node, remaining[1:], nil
	case isNumber(token):
		c, err := parseNumber(token)
		if err != nil {
			return nil, nil, err
		}
		return c, tokens[1:], nil
	case isStringLiteral(token):
		s, err := unquote(token)
		if err != nil {
			return nil, nil, err
		}
		c, _ := NewConstant(s)
		return c, tokens[1:], nil
	case strings.EqualFold(token, "CASE"):
		return p.parseCase(tokens)
	case strings.EqualFold(token, "IF") && len(tokens) > 1 && tokens[1] == "(":
		return p.parseIf(tokens)
	case len(tokens) > 1 && tokens[1] == "(":
		return p.parseFunctionCall(tokens)
	case isKeyword(token):
		return nil, nil, fmt.Errorf("unexpected keyword: %s", token)
	case len(token) >= 2 && token[0] == '`' && token[len(token)-1] == '`':
		return Col(token[1 : len(token)-1]), tokens[1:], nil
	case isIdentifier(token):
		if table, name, ok := strings.Cut(token, "."); ok {
			return TableCol(table, name), tokens[1:], nil
		}
		return Col(token), tokens[1:], nil
	}
	return nil, nil, fmt.Errorf("unexpected token: %s", token)
}

// parseIf parses IF(condition, trueValue[, falseValue])
func (p *parser) parseIf(tokens []string) (Node, []string, error) {
	args, remaining, err := p.parseArguments(tokens[2:], true)
	if err != nil {
		return nil, nil, err
	}
	if len(args) < 2 || len(args) > 3 {
		return nil, nil, fmt.Errorf("IF expects 2 or 3 arguments, got %d", len(args))
	}
	cond, ok := args[0].(*Condition)
	if !ok {
		return nil, nil, fmt.Errorf("condition must be a comparison: %s", args[0])
	}
	var falseBranch interface{}
	if len(args) == 3 {
		falseBranch = args[2]
	}
	node, err := NewTernary(cond, args[1], falseBranch)
	if err != nil {
		return nil, nil, err
	}
	return node, remaining, nil
}

// parseCase parses CASE WHEN condition THEN value [ELSE value] END
func (p *parser) parseCase(tokens []string) (Node, []string, error) {
	if len(tokens) < 2 || !strings.EqualFold(tokens[1], "WHEN") {
		return nil, nil, fmt.Errorf("CASE must be followed by WHEN")
	}
	cond, remaining, err := p.parseCondition(tokens[2:])
	if err != nil {
		return nil, nil, err
	}
	if len(remaining) == 0 || !strings.EqualFold(remaining[0], "THEN") {
		return nil, nil, fmt.Errorf("expected THEN in CASE expression")
	}
	trueBranch, remaining, err := p.parseArithmetic(remaining[1:])
	if err != nil {
		return nil, nil, err
	}
	var falseBranch interface{}
	if len(remaining) > 0 && strings.EqualFold(remaining[0], "ELSE") {
		var node Node
		node, remaining, err = p.parseArithmetic(remaining[1:])
		if err != nil {
			return nil, nil, err
		}
		falseBranch = node
	}
	if len(remaining) == 0 || !strings.EqualFold(remaining[0], "END") {
		return nil, nil, fmt.Errorf("expected END in CASE expression")
	}
	node, err := NewTernary(cond, trueBranch, falseBranch)
	if err != nil {
		return nil, nil, err
	}
	return node, remaining[1:], nil
}

func (p *parser) parseFunctionCall(tokens []string) (Node, []string, error) {
	name := tokens[0]
	if p.lookup == nil {
		return nil, nil, fmt.Errorf("unknown function: %s", name)
	}
	fn, ok := p.lookup(name)
	if !ok {
		return nil, nil, fmt.Errorf("unknown function: %s", name)
	}
	args, remaining, err := p.parseArguments(tokens[2:], false)
	if err != nil {
		return nil, nil, err
	}
	operands := make([]interface{}, len(args))
	for i, a := range args {
		operands[i] = a
	}
	call, err := NewCall(fn, operands...)
	if err != nil {
		return nil, nil, err
	}
	return call, remaining, nil
}

// parseArguments parses a comma separated list up to the closing parenthesis.
func (p *parser) parseArguments(tokens []string, allowCondition bool) ([]Node, []string, error) {
	var args []Node
	remaining := tokens
	if len(remaining) > 0 && remaining[0] == ")" {
		return args, remaining[1:], nil
	}
	for {
		arg, newRemaining, err := p.parseComparison(remaining)
		if err != nil {
			return nil, nil, err
		}
		if _, isCond := arg.(*Condition); isCond && !allowCondition {
			return nil, nil, fmt.Errorf("comparison is not allowed as a function argument: %s", arg)
		}
		args = append(args, arg)
		remaining = newRemaining
		if len(remaining) == 0 {
			return nil, nil, fmt.Errorf("missing closing parenthesis in function call")
		}
		if remaining[0] == ")" {
			break
		}
		if remaining[0] != "," {
			return nil, nil, fmt.Errorf("expected ',' or ')' in function call")
		}
		remaining = remaining[1:]
	}
	return args, remaining[1:], nil
}

// parseNumber keeps integers as int (long beyond 32 bits) and the rest as
// double. An integer beyond 64 bits is an error.
func parseNumber(token string) (*Constant, error) {
	if !strings.ContainsAny(token, ".eE") {
		n, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("integer literal out of range: %s", token)
		}
		if n >= math.MinInt32 && n <= math.MaxInt32 {
			return NewConstant(int(n))
		}
		return NewConstant(n)
	}
	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number: %s", token)
	}
	return NewConstant(f)
}

func unquote(token string) (string, error) {
	if token[0] == '\'' {
		token = `"` + strings.ReplaceAll(strings.ReplaceAll(token[1:len(token)-1], `\'`, `'`), `"`, `\"`) + `"`
	}
	s, err := strconv.Unquote(token)
	if err != nil {
		return "", fmt.Errorf("invalid string literal %s: %w", token, err)
	}
	return s, nil
}
