package functions

import (
	"fmt"
	"strings"

	"github.com/rulego/udaf/types"
)

// FunctionType 函数类型枚举
type FunctionType string

const (
	// TypeCustom 用户提供方法体的自定义函数
	TypeCustom FunctionType = "custom"
	// TypeExisting 调用引擎已有静态方法的函数
	TypeExisting FunctionType = "existing"
)

// Function 函数接口定义
type Function interface {
	// Name 获取函数名称
	Name() string
	// Type 获取函数类型
	Type() FunctionType
}

// Param is a named, typed parameter of a custom function signature.
type Param struct {
	Name string         `json:"name" yaml:"name"`
	Type types.DataType `json:"type" yaml:"type"`
}

// Signature is an ordered parameter list.
type Signature []Param

// P is shorthand for a Param.
func P(name string, t types.DataType) Param {
	return Param{Name: name, Type: t}
}

// Types returns the parameter types in order.
func (s Signature) Types() []types.DataType {
	out := make([]types.DataType, len(s))
	for i, p := range s {
		out[i] = p.Type
	}
	return out
}

func (s Signature) String() string {
	parts := make([]string, len(s))
	for i, p := range s {
		parts[i] = string(p.Type) + " " + p.Name
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// CustomFunction is a routine whose body is supplied by the caller. Each
// signature used by a distillation becomes one method declaration sharing
// MethodName, so the body must be valid for every declared signature.
type CustomFunction struct {
	name       string
	methodName string
	signatures []Signature
	body       string
	outputType types.DataType
	imports    []string
}

func (f *CustomFunction) Name() string       { return f.name }
func (f *CustomFunction) Type() FunctionType { return TypeCustom }

// MethodName returns the registry-unique name of the generated methods.
func (f *CustomFunction) MethodName() string { return f.methodName }

// Signatures returns the signatures in declaration order.
func (f *CustomFunction) Signatures() []Signature {
	return append([]Signature(nil), f.signatures...)
}

func (f *CustomFunction) Body() string               { return f.body }
func (f *CustomFunction) OutputType() types.DataType { return f.outputType }
func (f *CustomFunction) Imports() []string          { return append([]string(nil), f.imports...) }

func (f *CustomFunction) String() string {
	return fmt.Sprintf("%s[%s]", f.name, f.methodName)
}

// ExistingFunction calls a static method already available to the engine,
// such as "Math.abs". Signatures and output types come from a MetadataService.
type ExistingFunction struct {
	methodCall    string
	importPackage string
}

// NewExistingFunction creates a function from a "Class.method" call string and
// the package the class lives in. The package may be empty for classes that
// need no import.
func NewExistingFunction(methodCall, importPackage string) (*ExistingFunction, error) {
	class, method, ok := strings.Cut(methodCall, ".")
	if !ok || class == "" || method == "" || strings.Contains(method, ".") {
		return nil, fmt.Errorf("method call must look like Class.method, got %q", methodCall)
	}
	return &ExistingFunction{methodCall: methodCall, importPackage: importPackage}, nil
}

func (f *ExistingFunction) Name() string       { return f.methodCall }
func (f *ExistingFunction) Type() FunctionType { return TypeExisting }

// MethodCall returns the call string without parentheses.
func (f *ExistingFunction) MethodCall() string { return f.methodCall }

func (f *ExistingFunction) ImportPackage() string { return f.importPackage }

// Class returns the fully qualified class name used for metadata queries.
func (f *ExistingFunction) Class() string {
	class, _, _ := strings.Cut(f.methodCall, ".")
	if f.importPackage == "" {
		return class
	}
	return f.importPackage + "." + class
}

// Method returns the bare method name.
func (f *ExistingFunction) Method() string {
	_, method, _ := strings.Cut(f.methodCall, ".")
	return method
}

func (f *ExistingFunction) String() string {
	return f.methodCall
}
