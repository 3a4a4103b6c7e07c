// Package sim runs generated aggregation routines against in-memory buffers.
//
// Statements are interpreted directly; expressions are translated to expr
// programs, compiled once per source text and evaluated with the routine's
// locals as environment.
package sim

import (
	"errors"
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/spf13/cast"

	"github.com/rulego/udaf/aggregator"
	"github.com/rulego/udaf/buffer"
	"github.com/rulego/udaf/codegen"
	"github.com/rulego/udaf/logger"
)

// ErrNoDecontribute is returned when the artifact has no decontribute routine.
var ErrNoDecontribute = errors.New("aggregation has no decontribute routine")

// Machine executes routines. It is safe for concurrent use.
type Machine struct {
	mu       sync.RWMutex
	programs map[string]*vm.Program
	funcs    map[string]Func
	logger   logger.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithFunc makes a native function available to routines under name, for
// example a custom function's method name.
func WithFunc(name string, fn Func) Option {
	return func(m *Machine) {
		m.funcs[name] = fn
	}
}

// WithLogger sets the logger used for compilation traces.
func WithLogger(l logger.Logger) Option {
	return func(m *Machine) {
		m.logger = logger.Named(l, "sim")
	}
}

// New creates a machine.
func New(opts ...Option) *Machine {
	m := &Machine{
		programs: make(map[string]*vm.Program),
		funcs:    make(map[string]Func),
		logger:   logger.Named(nil, "sim"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewBuffer allocates an unset buffer with the artifact's layout.
func (m *Machine) NewBuffer(art *aggregator.Artifact) *buffer.Memory {
	return buffer.NewMemory(art.BufferLayout)
}

// Contribute runs the contribute routine for one fact.
func (m *Machine) Contribute(art *aggregator.Artifact, fact Fact, buf *buffer.Memory) error {
	_, err := m.Run(art.Contribute, fact, buf)
	return err
}

// Decontribute runs the decontribute routine for one fact.
func (m *Machine) Decontribute(art *aggregator.Artifact, fact Fact, buf *buffer.Memory) error {
	if art.Decontribute == nil {
		return ErrNoDecontribute
	}
	_, err := m.Run(art.Decontribute, fact, buf)
	return err
}

// Merge folds input into output.
func (m *Machine) Merge(art *aggregator.Artifact, input, output *buffer.Memory) error {
	_, err := m.Run(art.Merge, input, output)
	return err
}

// Terminate returns the aggregated value held by buf.
func (m *Machine) Terminate(art *aggregator.Artifact, buf *buffer.Memory) (interface{}, error) {
	return m.Run(art.Terminate, buf)
}

// Aggregate contributes every fact to a fresh buffer.
func (m *Machine) Aggregate(art *aggregator.Artifact, facts ...Fact) (*buffer.Memory, error) {
	buf := m.NewBuffer(art)
	for i, f := range facts {
		if err := m.Contribute(art, f, buf); err != nil {
			return nil, fmt.Errorf("fact %d: %w", i, err)
		}
	}
	return buf, nil
}

// Run executes a routine with positional arguments bound to its parameters
// and returns the value of its return statement, if any.
func (m *Machine) Run(method *codegen.Method, args ...interface{}) (interface{}, error) {
	if method == nil {
		return nil, fmt.Errorf("no routine to run")
	}
	if len(args) != len(method.Params) {
		return nil, fmt.Errorf("%s expects %d arguments, got %d", method.Name, len(method.Params), len(args))
	}
	env := make(map[string]interface{}, len(args)+2)
	for i, p := range method.Params {
		env[ident(p.Name)] = args[i]
	}
	ret, _, err := m.exec(method.Body, env)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method.Name, err)
	}
	return ret, nil
}

func (m *Machine) exec(stmts []codegen.Stmt, env map[string]interface{}) (interface{}, bool, error) {
	for _, s := range stmts {
		switch s := s.(type) {
		case *codegen.Decl:
			v, err := m.eval(s.Value, env)
			if err != nil {
				return nil, false, err
			}
			if v, err = convert(s.Type, v); err != nil {
				return nil, false, fmt.Errorf("%s %s: %w", s.Type, s.Name, err)
			}
			env[ident(s.Name)] = v
		case *codegen.ExprStmt:
			if _, err := m.eval(s.X, env); err != nil {
				return nil, false, err
			}
		case *codegen.If:
			v, err := m.eval(s.Cond, env)
			if err != nil {
				return nil, false, err
			}
			holds, err := cast.ToBoolE(v)
			if err != nil {
				return nil, false, err
			}
			branch := s.Else
			if holds {
				branch = s.Then
			}
			if ret, done, err := m.exec(branch, env); err != nil || done {
				return ret, done, err
			}
		case *codegen.Return:
			v, err := m.eval(s.Value, env)
			return v, true, err
		default:
			return nil, false, fmt.Errorf("cannot simulate statement %T", s)
		}
	}
	return nil, false, nil
}

func (m *Machine) eval(e codegen.Expr, env map[string]interface{}) (interface{}, error) {
	src, err := translate(e)
	if err != nil {
		return nil, err
	}
	program, err := m.compile(src)
	if err != nil {
		return nil, err
	}
	return expr.Run(program, env)
}

func (m *Machine) compile(src string) (*vm.Program, error) {
	m.mu.RLock()
	program, ok := m.programs[src]
	m.mu.RUnlock()
	if ok {
		return program, nil
	}

	program, err := expr.Compile(src,
		expr.AllowUndefinedVariables(),
		expr.Function(fnCall, m.call),
		expr.Function(fnStatic, m.callStatic),
		expr.Function(fnNew, newObject),
		expr.Function(fnConvert, convertFunc),
		expr.Function(fnQuo, quo),
	)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", src, err)
	}
	m.logger.Debug("compiled %s", src)

	m.mu.Lock()
	m.programs[src] = program
	m.mu.Unlock()
	return program, nil
}

// call dispatches recv.method(args...).
func (m *Machine) call(params ...interface{}) (interface{}, error) {
	if len(params) < 2 {
		return nil, fmt.Errorf("call expects a receiver and a method")
	}
	method := cast.ToString(params[1])
	args := params[2:]
	switch recv := params[0].(type) {
	case nil:
		return nil, fmt.Errorf("%s: %w", method, ErrNullPointer)
	case Fact:
		return recv.invoke(method, args)
	case *buffer.Memory:
		return invokeBuffer(recv, method, args)
	case buffer.Vector:
		return invokeVector(recv, method, args)
	default:
		return invokeValue(recv, method, args)
	}
}

func (m *Machine) callStatic(params ...interface{}) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("callStatic expects a function name")
	}
	name := cast.ToString(params[0])
	args := params[1:]

	m.mu.RLock()
	fn, ok := m.funcs[name]
	m.mu.RUnlock()
	if ok {
		return fn(args...)
	}

	switch name {
	case "Math.min", "Math.max":
		return mathMinMax(name, args)
	case "VectorOps.plus", "VectorOps.minus", "VectorOps.scale":
		return vectorOp(name, args)
	case "LocalDate.of":
		if len(args) != 3 {
			return nil, fmt.Errorf("LocalDate.of expects year, month and day")
		}
		return localDate(cast.ToInt(args[0]), cast.ToInt(args[1]), cast.ToInt(args[2])), nil
	}
	return nil, fmt.Errorf("unknown function %s", name)
}
