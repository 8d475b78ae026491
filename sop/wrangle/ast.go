package wrangle

// Value is a dynamically-typed wrangle runtime value: either a scalar
// or a 3-vector. Channel reads/writes coerce between the two the same
// way the builtin variables do (a scalar assigned into a vector
// component; a vector's component read out as a scalar).
type Value struct {
	IsVec bool
	S     float64
	V     [3]float64
}

func scalar(f float64) Value  { return Value{S: f} }
func vector(v [3]float64) Value { return Value{IsVec: true, V: v} }

// Expr is any evaluable expression node.
type Expr interface {
	eval(ctx *Context) (Value, error)
}

// Stmt is a top-level statement (currently only assignment and bare
// expression statements, e.g. a function call for its side effect).
type Stmt interface {
	exec(ctx *Context) error
}

// Program is a parsed, ready-to-run wrangle snippet.
type Program struct {
	stmts []Stmt
}

// Run executes every statement in order against ctx.
func (p *Program) Run(ctx *Context) error {
	for _, s := range p.stmts {
		if err := s.exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

type assignStmt struct {
	target string // e.g. "P", "P.x", "Cd", "N.y"
	value  Expr
}

func (a *assignStmt) exec(ctx *Context) error {
	v, err := a.value.eval(ctx)
	if err != nil {
		return err
	}
	return ctx.assign(a.target, v)
}

type exprStmt struct{ e Expr }

func (s *exprStmt) exec(ctx *Context) error {
	_, err := s.e.eval(ctx)
	return err
}

type numberLit struct{ v float64 }

func (n *numberLit) eval(*Context) (Value, error) { return scalar(n.v), nil }

type varRef struct{ name string } // builtin @-variable, possibly with .x/.y/.z suffix

func (r *varRef) eval(ctx *Context) (Value, error) { return ctx.lookup(r.name) }

type binaryExpr struct {
	op    TokenType
	left  Expr
	right Expr
}

type unaryExpr struct {
	op      TokenType
	operand Expr
}

type callExpr struct {
	name string
	args []Expr
}
