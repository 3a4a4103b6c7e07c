package functions

import (
	"sort"
)

// Accumulator collects the imports and method declarations required by the
// calls resolved during one distillation. It is not safe for concurrent use;
// create one per distillation and discard it when the distillation fails.
type Accumulator struct {
	imports map[string]struct{}
	methods map[string]struct{}
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		imports: make(map[string]struct{}),
		methods: make(map[string]struct{}),
	}
}

// AddImport records a fully qualified import.
func (a *Accumulator) AddImport(pkg string) {
	if pkg != "" {
		a.imports[pkg] = struct{}{}
	}
}

// AddMethod records a rendered method declaration. Identical text is kept once.
func (a *Accumulator) AddMethod(source string) {
	a.methods[source] = struct{}{}
}

// Imports returns the recorded imports sorted.
func (a *Accumulator) Imports() []string {
	return sortedKeys(a.imports)
}

// Methods returns the recorded method declarations sorted.
func (a *Accumulator) Methods() []string {
	return sortedKeys(a.methods)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
