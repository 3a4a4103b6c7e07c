package expr

import (
	"fmt"
	"strings"
	"unicode"
)

// tokenize breaks an expression string into tokens: numbers, identifiers,
// operators, parentheses, commas and quoted strings.
func tokenize(text string) ([]string, error) {
	if len(strings.TrimSpace(text)) == 0 {
		return nil, fmt.Errorf("empty expression")
	}

	var tokens []string
	i := 0

	for i < len(text) {
		if unicode.IsSpace(rune(text[i])) {
			i++
			continue
		}

		// String literals
		if text[i] == '\'' || text[i] == '"' {
			quote := text[i]
			start := i
			i++
			for i < len(text) && text[i] != quote {
				if text[i] == '\\' && i+1 < len(text) {
					i += 2
				} else {
					i++
				}
			}
			if i >= len(text) {
				return nil, fmt.Errorf("unterminated string literal")
			}
			i++
			tokens = append(tokens, text[start:i])
			continue
		}

		// Backtick identifiers
		if text[i] == '`' {
			start := i
			i++
			for i < len(text) && text[i] != '`' {
				i++
			}
			if i >= len(text) {
				return nil, fmt.Errorf("unterminated backtick identifier")
			}
			i++
			tokens = append(tokens, text[start:i])
			continue
		}

		// Numbers. A leading minus belongs to the number only where a binary
		// minus could not appear.
		negative := text[i] == '-' && i+1 < len(text) && isDigit(text[i+1]) && expectsOperand(tokens)
		if isDigit(text[i]) || negative || (text[i] == '.' && i+1 < len(text) && isDigit(text[i+1])) {
			start := i
			if text[i] == '-' {
				i++
			}
			for i < len(text) && isDigit(text[i]) {
				i++
			}
			if i < len(text) && text[i] == '.' && i+1 < len(text) && isDigit(text[i+1]) {
				i++
				for i < len(text) && isDigit(text[i]) {
					i++
				}
			}
			if i < len(text) && (text[i] == 'e' || text[i] == 'E') {
				i++
				if i < len(text) && (text[i] == '+' || text[i] == '-') {
					i++
				}
				for i < len(text) && isDigit(text[i]) {
					i++
				}
			}
			tokens = append(tokens, text[start:i])
			continue
		}

		// Two-character operators
		if i+1 < len(text) && isOperator(text[i:i+2]) {
			tokens = append(tokens, text[i:i+2])
			i += 2
			continue
		}

		if isOperator(string(text[i])) || text[i] == '(' || text[i] == ')' || text[i] == ',' {
			tokens = append(tokens, string(text[i]))
			i++
			continue
		}

		// Identifiers and keywords
		if isLetter(text[i]) || text[i] == '_' || text[i] == '$' {
			start := i
			for i < len(text) && (isLetter(text[i]) || isDigit(text[i]) || text[i] == '_' || text[i] == '.' || text[i] == '$') {
				i++
			}
			tokens = append(tokens, text[start:i])
			continue
		}

		return nil, fmt.Errorf("unexpected character '%c' at position %d", text[i], i)
	}

	return tokens, nil
}

// expectsOperand reports whether the next token starts an operand.
func expectsOperand(tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}
	last := tokens[len(tokens)-1]
	return last == "(" || last == "," || isOperator(last) || isKeyword(last)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// isNumber checks if string is a number
func isNumber(s string) bool {
	if len(s) == 0 {
		return false
	}
	i := 0
	if s[0] == '-' {
		i = 1
		if len(s) == 1 {
			return false
		}
	}
	hasDigit := false
	hasDot := false
	for i < len(s) {
		if isDigit(s[i]) {
			hasDigit = true
		} else if s[i] == '.' && !hasDot {
			hasDot = true
		} else if s[i] == 'e' || s[i] == 'E' {
			i++
			if i < len(s) && (s[i] == '+' || s[i] == '-') {
				i++
			}
			for i < len(s) && isDigit(s[i]) {
				i++
			}
			break
		} else {
			return false
		}
		i++
	}
	return hasDigit
}

// isIdentifier accepts plain and table-qualified names; every dotted
// segment must be a non-empty name.
func isIdentifier(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		if len(part) == 0 || (!isLetter(part[0]) && part[0] != '_') {
			return false
		}
		for i := 1; i < len(part); i++ {
			if !isLetter(part[i]) && !isDigit(part[i]) && part[i] != '_' {
				return false
			}
		}
	}
	return true
}

var operators = map[string]bool{
	"+": true, "-": true, "*": true, "/": true,
	"=": true, "==": true, "!=": true, "<>": true,
	">": true, "<": true, ">=": true, "<=": true,
}

func isOperator(s string) bool {
	return operators[s]
}

var comparisonOps = map[string]Op{
	"=":  OpEq,
	"==": OpEq,
	"!=": OpNe,
	"<>": OpNe,
	"<":  OpLt,
	"<=": OpLe,
	">":  OpGt,
	">=": OpGe,
}

func isKeyword(s string) bool {
	switch strings.ToUpper(s) {
	case "CASE", "WHEN", "THEN", "ELSE", "END":
		return true
	}
	return false
}

func isStringLiteral(s string) bool {
	return len(s) >= 2 && ((s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"'))
}
