package functions

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rulego/udaf/codegen"
	"github.com/rulego/udaf/logger"
	"github.com/rulego/udaf/types"
)

// ErrNoMetadataService is the cause reported when an existing function is
// resolved by a registry created without a MetadataService.
var ErrNoMetadataService = errors.New("no metadata service configured")

// Argument is a lowered call argument: its code and its output type.
type Argument struct {
	Code codegen.Expr
	Type types.DataType
}

// Registry 函数注册器. It names functions for textual expressions, assigns
// unique method names to custom functions and resolves calls. The metadata
// cache lives as long as the registry.
type Registry struct {
	mu        sync.RWMutex
	functions map[string]Function
	meta      MetadataService
	cache     *MetadataCache
	separator string
	seq       atomic.Uint64
	logger    logger.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithMetadataCache shares a cache between registries.
func WithMetadataCache(cache *MetadataCache) RegistryOption {
	return func(r *Registry) {
		if cache != nil {
			r.cache = cache
		}
	}
}

// WithMethodNameSeparator sets the separator between a custom function's
// name and its uniqueness token. Defaults to "_"; an empty separator keeps
// the default, since "f1"+"1" and "f"+"11" would collide.
func WithMethodNameSeparator(sep string) RegistryOption {
	return func(r *Registry) {
		if sep != "" {
			r.separator = sep
		}
	}
}

// WithLogger sets the registry logger.
func WithLogger(l logger.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = logger.Named(l, "functions")
		}
	}
}

// NewRegistry creates a registry. meta may be nil when only custom
// functions are used.
func NewRegistry(meta MetadataService, opts ...RegistryOption) *Registry {
	r := &Registry{
		functions: make(map[string]Function),
		meta:      meta,
		cache:     NewMetadataCache(),
		separator: "_",
		logger:    logger.Named(logger.GetDefault(), "functions"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Cache returns the metadata cache.
func (r *Registry) Cache() *MetadataCache {
	return r.cache
}

// Register 注册函数. Names are case-insensitive and must be unique.
func (r *Registry) Register(fn Function) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := strings.ToLower(fn.Name())
	if _, exists := r.functions[name]; exists {
		return fmt.Errorf("function %s already registered", fn.Name())
	}
	r.functions[name] = fn
	return nil
}

// Get 获取函数
func (r *Registry) Get(name string) (Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, exists := r.functions[strings.ToLower(name)]
	return fn, exists
}

// Unregister 注销函数
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = strings.ToLower(name)
	if _, exists := r.functions[name]; !exists {
		return false
	}
	delete(r.functions, name)
	return true
}

// NewCustomFunction creates and registers a custom function. Its method
// name is name followed by a token unique within this registry.
func (r *Registry) NewCustomFunction(name, body string, output types.DataType, imports []string, signatures ...Signature) (*CustomFunction, error) {
	if !isIdentifier(name) {
		return nil, fmt.Errorf("invalid function name %q", name)
	}
	if !isKnownType(output) {
		return nil, fmt.Errorf("function %s: unsupported output type %q", name, output)
	}
	if len(signatures) == 0 {
		return nil, fmt.Errorf("function %s requires at least one signature", name)
	}
	for _, sig := range signatures {
		seen := make(map[string]bool, len(sig))
		for _, p := range sig {
			if !isIdentifier(p.Name) || seen[p.Name] {
				return nil, fmt.Errorf("function %s: invalid or duplicate parameter %q", name, p.Name)
			}
			if !isKnownType(p.Type) {
				return nil, fmt.Errorf("function %s: unsupported parameter type %q", name, p.Type)
			}
			seen[p.Name] = true
		}
	}

	fn := &CustomFunction{
		name:       name,
		methodName: name + r.separator + strconv.FormatUint(r.seq.Add(1), 10),
		signatures: append([]Signature(nil), signatures...),
		body:       body,
		outputType: output,
		imports:    append([]string(nil), imports...),
	}
	if err := r.Register(fn); err != nil {
		return nil, err
	}
	return fn, nil
}

// NewExistingFunction creates and registers a function calling an existing static method.
func (r *Registry) NewExistingFunction(methodCall, importPackage string) (*ExistingFunction, error) {
	fn, err := NewExistingFunction(methodCall, importPackage)
	if err != nil {
		return nil, err
	}
	if err := r.Register(fn); err != nil {
		return nil, err
	}
	return fn, nil
}

// Resolve renders a call to fn with the lowered args and returns its output
// type. The first signature, in declaration order, whose parameters accept
// every argument type wins. Required imports and method declarations are
// added to acc.
func (r *Registry) Resolve(ctx context.Context, acc *Accumulator, fn Function, args []Argument) (codegen.Expr, types.DataType, error) {
	argTypes := make([]types.DataType, len(args))
	code := make([]codegen.Expr, len(args))
	for i, a := range args {
		argTypes[i] = a.Type
		code[i] = a.Code
	}

	switch f := fn.(type) {
	case *CustomFunction:
		return r.resolveCustom(acc, f, argTypes, code)
	case *ExistingFunction:
		return r.resolveExisting(ctx, acc, f, argTypes, code)
	default:
		return nil, "", fmt.Errorf("unsupported function implementation %T", fn)
	}
}

func (r *Registry) resolveCustom(acc *Accumulator, f *CustomFunction, argTypes []types.DataType, code []codegen.Expr) (codegen.Expr, types.DataType, error) {
	candidates := make([][]types.DataType, len(f.signatures))
	for i, sig := range f.signatures {
		candidates[i] = sig.Types()
	}
	idx, ok := MatchSignature(candidates, argTypes)
	if !ok {
		return nil, "", types.NoMatchingSignature(
			fmt.Sprintf("no signature of %s accepts the arguments", f.name), argTypes...)
	}

	for _, imp := range f.imports {
		acc.AddImport(imp)
	}
	acc.AddMethod(codegen.FormatMethod(f.declaration(f.signatures[idx])))
	r.logger.Debug("resolved %s%s as %s", f.name, f.signatures[idx], f.methodName)
	return &codegen.Call{Func: f.methodName, Args: code}, f.outputType, nil
}

func (r *Registry) resolveExisting(ctx context.Context, acc *Accumulator, f *ExistingFunction, argTypes []types.DataType, code []codegen.Expr) (codegen.Expr, types.DataType, error) {
	if r.meta == nil {
		return nil, "", types.MetadataTransport("cannot resolve "+f.methodCall, ErrNoMetadataService)
	}
	class, method := f.Class(), f.Method()

	signatures, err := r.cache.Signatures(ctx, r.meta, class, method)
	if err != nil {
		r.logger.Error("fetching signatures of %s.%s: %v", class, method, err)
		return nil, "", types.MetadataTransport(fmt.Sprintf("fetching signatures of %s.%s", class, method), err)
	}
	if _, ok := MatchSignature(signatures, argTypes); !ok {
		return nil, "", types.NoMatchingSignature(
			fmt.Sprintf("no signature of %s accepts the arguments", f.methodCall), argTypes...)
	}

	output, err := r.cache.OutputType(ctx, r.meta, class, method, argTypes)
	if err != nil {
		r.logger.Error("fetching output type of %s.%s: %v", class, method, err)
		return nil, "", types.MetadataTransport(fmt.Sprintf("fetching output type of %s.%s", class, method), err)
	}
	if !isKnownType(output) {
		return nil, "", types.UnsupportedOutputType(
			fmt.Sprintf("%s returns a type with no template", f.methodCall), output)
	}

	if f.importPackage != "" {
		acc.AddImport(class)
	}
	r.logger.Debug("resolved %s%v -> %s", f.methodCall, argTypes, output)
	return &codegen.Call{Func: f.methodCall, Args: code}, output, nil
}

// MatchSignature returns the index of the first candidate with the same
// arity as args whose parameters each accept the corresponding argument.
func MatchSignature(candidates [][]types.DataType, args []types.DataType) (int, bool) {
	for i, params := range candidates {
		if len(params) != len(args) {
			continue
		}
		ok := true
		for j, p := range params {
			if !p.Accepts(args[j]) {
				ok = false
				break
			}
		}
		if ok {
			return i, true
		}
	}
	return -1, false
}

// declaration renders the method backing one signature.
func (f *CustomFunction) declaration(sig Signature) *codegen.Method {
	params := make([]codegen.Param, len(sig))
	for i, p := range sig {
		params[i] = codegen.Param{Type: p.Type.JavaType(), Name: p.Name}
	}
	return &codegen.Method{
		ReturnType: f.outputType.JavaType(),
		Name:       f.methodName,
		Params:     params,
		Body:       []codegen.Stmt{&codegen.Raw{Text: f.body}},
	}
}

func isKnownType(t types.DataType) bool {
	return t.Accepts(t)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, ch := range s {
		letter := ch == '_' || ch == '$' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
		if !letter && (i == 0 || ch < '0' || ch > '9') {
			return false
		}
	}
	return true
}
