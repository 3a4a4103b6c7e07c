package types

import (
	"fmt"
	"strings"
)

// ErrorType classifies compile-time failures
type ErrorType int

const (
	ErrorTypeUnsupportedCombination ErrorType = iota
	ErrorTypeNoMatchingSignature
	ErrorTypeUnsupportedOutputType
	ErrorTypeAmbiguousTernaryTypes
	ErrorTypeMetadataTransport
)

// CompileError is returned when an expression as authored cannot be compiled.
// None of these are retried by the compiler.
type CompileError struct {
	Type    ErrorType
	Message string
	// Types lists the data types involved, when relevant
	Types []DataType
	Cause error
}

// Sentinels for errors.Is; only the Type is compared.
var (
	ErrUnsupportedCombination = &CompileError{Type: ErrorTypeUnsupportedCombination}
	ErrNoMatchingSignature    = &CompileError{Type: ErrorTypeNoMatchingSignature}
	ErrUnsupportedOutputType  = &CompileError{Type: ErrorTypeUnsupportedOutputType}
	ErrAmbiguousTernaryTypes  = &CompileError{Type: ErrorTypeAmbiguousTernaryTypes}
	ErrMetadataTransport      = &CompileError{Type: ErrorTypeMetadataTransport}
)

// Error 实现 error 接口
func (e *CompileError) Error() string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("[%s] %s", e.Type.String(), e.Message))
	if len(e.Types) > 0 {
		names := make([]string, len(e.Types))
		for i, t := range e.Types {
			names[i] = string(t)
		}
		builder.WriteString(fmt.Sprintf(" (types: %s)", strings.Join(names, ", ")))
	}
	if e.Cause != nil {
		builder.WriteString(": ")
		builder.WriteString(e.Cause.Error())
	}
	return builder.String()
}

func (e *CompileError) Unwrap() error {
	return e.Cause
}

// Is matches any CompileError of the same type.
func (e *CompileError) Is(target error) bool {
	t, ok := target.(*CompileError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeUnsupportedCombination:
		return "UNSUPPORTED_COMBINATION"
	case ErrorTypeNoMatchingSignature:
		return "NO_MATCHING_SIGNATURE"
	case ErrorTypeUnsupportedOutputType:
		return "UNSUPPORTED_OUTPUT_TYPE"
	case ErrorTypeAmbiguousTernaryTypes:
		return "AMBIGUOUS_TERNARY_TYPES"
	case ErrorTypeMetadataTransport:
		return "METADATA_TRANSPORT"
	default:
		return "UNKNOWN_ERROR"
	}
}

// UnsupportedOutputType builds the error raised when no template exists for a type.
func UnsupportedOutputType(message string, t ...DataType) *CompileError {
	return &CompileError{
		Type:    ErrorTypeUnsupportedOutputType,
		Message: message,
		Types:   t,
	}
}

// UnsupportedCombination builds the error raised for fact-level combinations.
func UnsupportedCombination(message string) *CompileError {
	return &CompileError{Type: ErrorTypeUnsupportedCombination, Message: message}
}

// NoMatchingSignature builds the error raised when no signature accepts the argument types.
func NoMatchingSignature(message string, args ...DataType) *CompileError {
	return &CompileError{Type: ErrorTypeNoMatchingSignature, Message: message, Types: args}
}

// AmbiguousTernaryTypes builds the error raised when ternary branches disagree.
func AmbiguousTernaryTypes(message string, branches ...DataType) *CompileError {
	return &CompileError{Type: ErrorTypeAmbiguousTernaryTypes, Message: message, Types: branches}
}

// MetadataTransport wraps a failed metadata round-trip.
func MetadataTransport(message string, cause error) *CompileError {
	return &CompileError{Type: ErrorTypeMetadataTransport, Message: message, Cause: cause}
}
