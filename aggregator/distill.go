package aggregator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rulego/udaf/buffer"
	"github.com/rulego/udaf/codegen"
	"github.com/rulego/udaf/expr"
	"github.com/rulego/udaf/functions"
	"github.com/rulego/udaf/lowering"
	"github.com/rulego/udaf/types"
)

// Routine names expected by the engine.
const (
	ContributeMethod   = "contribute"
	DecontributeMethod = "decontribute"
	MergeMethod        = "merge"
	TerminateMethod    = "terminate"
)

// Env carries what a distillation needs besides the expression.
type Env struct {
	// Schema maps column names to the types reported by the engine
	Schema map[string]types.DataType
	// Registry resolves function calls; may be nil when the tree has none
	Registry *functions.Registry
	// Config shapes the generated routines; the zero value uses the defaults
	Config types.CodegenConfig
}

// Artifact is the source of one distilled aggregation.
type Artifact struct {
	Kind Kind
	// OutputType is the type of the aggregated expression
	OutputType types.DataType
	// TerminateType is the type returned by the terminate routine
	TerminateType types.DataType
	// Columns are the fact columns read, in fact-record order
	Columns      []string
	Imports      []string
	Methods      []string
	BufferLayout buffer.Layout
	Contribute   *codegen.Method
	// Decontribute is nil when the aggregation cannot remove a row
	Decontribute *codegen.Method
	Merge        *codegen.Method
	Terminate    *codegen.Method
}

// Routines returns the lifecycle routines in engine order, skipping an
// absent decontribute.
func (a *Artifact) Routines() []*codegen.Method {
	routines := []*codegen.Method{a.Contribute}
	if a.Decontribute != nil {
		routines = append(routines, a.Decontribute)
	}
	return append(routines, a.Merge, a.Terminate)
}

// Source renders imports, helper methods and routines.
func (a *Artifact) Source() string {
	var b strings.Builder
	for _, imp := range a.Imports {
		fmt.Fprintf(&b, "import %s;\n", imp)
	}
	for _, m := range a.Methods {
		b.WriteString("\n")
		b.WriteString(m)
	}
	for _, m := range a.Routines() {
		b.WriteString("\n")
		b.WriteString(codegen.FormatMethod(m))
	}
	return b.String()
}

// Distill lowers node and generates the routines of the kind aggregation.
func Distill(ctx context.Context, node expr.Node, kind Kind, env *Env) (*Artifact, error) {
	if node == nil {
		return nil, fmt.Errorf("nothing to distill")
	}
	if env == nil {
		env = &Env{}
	}
	config := withDefaults(env.Config)
	visitor, err := Get(kind)
	if err != nil {
		return nil, err
	}

	acc := functions.NewAccumulator()
	element, err := lowering.Lower(ctx, node, &lowering.Env{
		Schema:        env.Schema,
		Registry:      env.Registry,
		Accumulator:   acc,
		FactParameter: config.FactParameter,
	})
	if err != nil {
		return nil, err
	}

	layout, err := visitor.BufferTypes(element)
	if err != nil {
		return nil, err
	}
	terminateType, err := visitor.TerminateType(element)
	if err != nil {
		return nil, err
	}

	factParams := []codegen.Param{
		{Type: config.FactType, Name: config.FactParameter},
		{Type: config.BufferType, Name: buffer.Aggregation},
	}
	art := &Artifact{
		Kind:          kind,
		OutputType:    element.OutputType(),
		TerminateType: terminateType,
		BufferLayout:  layout,
	}
	for _, c := range node.Columns() {
		art.Columns = append(art.Columns, c.Name())
	}

	body, err := visitor.Contribute(element)
	if err != nil {
		return nil, err
	}
	art.Contribute = &codegen.Method{ReturnType: "void", Name: ContributeMethod, Params: factParams, Body: body}

	body, ok, err := visitor.Decontribute(element)
	if err != nil {
		return nil, err
	}
	if ok {
		art.Decontribute = &codegen.Method{ReturnType: "void", Name: DecontributeMethod, Params: factParams, Body: body}
	}

	if body, err = visitor.Merge(element); err != nil {
		return nil, err
	}
	art.Merge = &codegen.Method{ReturnType: "void", Name: MergeMethod, Params: []codegen.Param{
		{Type: config.BufferType, Name: buffer.MergeInput},
		{Type: config.BufferType, Name: buffer.MergeOutput},
	}, Body: body}

	if body, err = visitor.Terminate(element); err != nil {
		return nil, err
	}
	art.Terminate = &codegen.Method{ReturnType: terminateType.JavaType(), Name: TerminateMethod, Params: []codegen.Param{
		{Type: config.BufferType, Name: buffer.Aggregation},
	}, Body: body}

	imports := append([]string{}, config.DefaultImports...)
	imports = append(imports, acc.Imports()...)
	if im, ok := visitor.(Importer); ok {
		imports = append(imports, im.Imports(element.OutputType())...)
	}
	art.Imports = dedupe(imports)
	art.Methods = acc.Methods()
	return art, nil
}

func withDefaults(c types.CodegenConfig) types.CodegenConfig {
	d := types.DefaultCodegenConfig()
	if c.FactParameter == "" {
		c.FactParameter = d.FactParameter
	}
	if c.FactType == "" {
		c.FactType = d.FactType
	}
	if c.BufferType == "" {
		c.BufferType = d.BufferType
	}
	if c.DefaultImports == nil {
		c.DefaultImports = d.DefaultImports
	}
	return c
}

func dedupe(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
