package codegen

// Expr is an expression of the target language.
type Expr interface {
	exprNode()
}

// Stmt is a statement of the target language.
type Stmt interface {
	stmtNode()
}

// Ident references a local variable or parameter.
type Ident struct {
	Name string
}

// Lit is a typed literal. Type is the target scalar type spelling
// ("int", "long", "float", "double", "boolean", "String").
type Lit struct {
	Type  string
	Value interface{}
}

// Null is the null reference.
type Null struct{}

// Binary is an infix operation.
type Binary struct {
	Op string
	X  Expr
	Y  Expr
}

// Unary is a prefix operation such as negation.
type Unary struct {
	Op string
	X  Expr
}

// Call invokes a static or class-local method, e.g. Math.min(a, b).
type Call struct {
	Func string
	Args []Expr
}

// MethodCall invokes a method on a receiver, e.g. buffer.readDouble(0).
type MethodCall struct {
	Recv Expr
	Name string
	Args []Expr
}

// New instantiates a class.
type New struct {
	Type string
	Args []Expr
}

// NewArray builds an array literal: new double[] {1.0, 2.0}.
type NewArray struct {
	ElemType string
	Elems    []Expr
}

// Cast converts X to Type.
type Cast struct {
	Type string
	X    Expr
}

// Cond is the conditional operator c ? t : f.
type Cond struct {
	C Expr
	T Expr
	F Expr
}

// Decl declares and initializes a local variable.
type Decl struct {
	Type  string
	Name  string
	Value Expr
}

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	X Expr
}

// If is a conditional block; Else may be empty.
type If struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// Return leaves the routine with a value.
type Return struct {
	Value Expr
}

// Raw is caller-supplied source copied verbatim (custom function bodies).
type Raw struct {
	Text string
}

// Param is a routine parameter.
type Param struct {
	Type string
	Name string
}

// Method is a complete routine declaration.
type Method struct {
	ReturnType string
	Name       string
	Params     []Param
	Body       []Stmt
}

func (*Ident) exprNode()      {}
func (*Lit) exprNode()        {}
func (*Null) exprNode()       {}
func (*Binary) exprNode()     {}
func (*Unary) exprNode()      {}
func (*Call) exprNode()       {}
func (*MethodCall) exprNode() {}
func (*New) exprNode()        {}
func (*NewArray) exprNode()   {}
func (*Cast) exprNode()       {}
func (*Cond) exprNode()       {}

func (*Decl) stmtNode()     {}
func (*ExprStmt) stmtNode() {}
func (*If) stmtNode()       {}
func (*Return) stmtNode()   {}
func (*Raw) stmtNode()      {}

// Id is shorthand for an identifier.
func Id(name string) *Ident {
	return &Ident{Name: name}
}

// Int builds an int literal.
func Int(v int64) *Lit {
	return &Lit{Type: "int", Value: v}
}

// Double builds a double literal.
func Double(v float64) *Lit {
	return &Lit{Type: "double", Value: v}
}

// Invoke builds a method call on recv.
func Invoke(recv Expr, name string, args ...Expr) *MethodCall {
	return &MethodCall{Recv: recv, Name: name, Args: args}
}

// Do wraps a call as a statement.
func Do(x Expr) *ExprStmt {
	return &ExprStmt{X: x}
}
