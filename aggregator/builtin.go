package aggregator

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rulego/udaf/buffer"
	"github.com/rulego/udaf/codegen"
	"github.com/rulego/udaf/lowering"
	"github.com/rulego/udaf/types"
)

// Kind names an aggregation function.
type Kind string

const (
	Mean      Kind = "mean"
	Min       Kind = "min"
	Max       Kind = "max"
	Multiply  Kind = "multiply"
	Short     Kind = "short"
	SquareSum Kind = "square_sum"
	Sum       Kind = "sum"
)

// Visitor generates the lifecycle routines of one aggregation kind from a
// lowered element. Every method fails with UNSUPPORTED_OUTPUT_TYPE when the
// element's type has no template.
type Visitor interface {
	Kind() Kind
	// BufferTypes declares the buffer layout
	BufferTypes(e lowering.Element) (buffer.Layout, error)
	// Contribute folds one row into aggregationBuffer
	Contribute(e lowering.Element) ([]codegen.Stmt, error)
	// Decontribute removes one row; ok is false when the kind is not invertible
	Decontribute(e lowering.Element) (body []codegen.Stmt, ok bool, err error)
	// Merge folds inputAggregationBuffer into outputAggregationBuffer
	Merge(e lowering.Element) ([]codegen.Stmt, error)
	// Terminate returns the aggregated value
	Terminate(e lowering.Element) ([]codegen.Stmt, error)
	// TerminateType is the type returned by Terminate
	TerminateType(e lowering.Element) (types.DataType, error)
}

// Importer is implemented by visitors whose routines reference extra classes.
type Importer interface {
	Imports(t types.DataType) []string
}

var (
	visitorRegistry = make(map[Kind]func() Visitor)
	registryMutex   sync.RWMutex
)

// Register 添加自定义聚合访问器到全局注册表. A registered kind overrides the built-in one.
func Register(kind Kind, constructor func() Visitor) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	visitorRegistry[kind] = constructor
}

// Unregister removes a registered kind, restoring the built-in one if any.
func Unregister(kind Kind) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	delete(visitorRegistry, kind)
}

// Get returns the visitor of kind.
func Get(kind Kind) (Visitor, error) {
	registryMutex.RLock()
	constructor, exists := visitorRegistry[kind]
	registryMutex.RUnlock()
	if exists {
		return constructor(), nil
	}

	switch kind {
	case Mean:
		return meanVisitor{}, nil
	case Min:
		return extremumVisitor{kind: Min, op: "<"}, nil
	case Max:
		return extremumVisitor{kind: Max, op: ">"}, nil
	case Multiply:
		return multiplyVisitor{}, nil
	case Short:
		return shortVisitor{}, nil
	case SquareSum:
		return squareSumVisitor{}, nil
	case Sum:
		return sumVisitor{}, nil
	default:
		return nil, fmt.Errorf("unsupported aggregation kind: %s", kind)
	}
}

// Kinds lists the built-in and registered kinds, sorted.
func Kinds() []Kind {
	set := map[Kind]bool{Mean: true, Min: true, Max: true, Multiply: true, Short: true, SquareSum: true, Sum: true}
	registryMutex.RLock()
	for k := range visitorRegistry {
		set[k] = true
	}
	registryMutex.RUnlock()

	kinds := make([]Kind, 0, len(set))
	for k := range set {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
