package wrangle

import (
	"fmt"
	"math"
	"math/rand"
)

// ChannelSource resolves chf/chi/ch() calls against a node's
// parameters without this package importing the sop package (which
// already imports wrangle), avoiding an import cycle. There is no
// string-valued channel accessor: Value has no string variant, so a
// chs()-style read would have nowhere to put its result.
type ChannelSource interface {
	GetFloat(name string, def float32) float32
	GetInt(name string, def int64) int64

	// DeclareChannel registers name as a Float parameter on the owning
	// node the first time it's referenced, then returns its value —
	// ch("name")'s "dynamically declares a channel" behavior.
	DeclareChannel(name string) float32
}

// Context is the per-element evaluation environment: the current
// point's builtin attributes and a channel source for parameter reads.
type Context struct {
	P, N, Cd       [3]float64
	HasN, HasCd    bool
	Ptnum, Npoints int
	Time           float64
	Seed           int64
	Channels       ChannelSource
}

func (ctx *Context) lookup(name string) (Value, error) {
	base, comp := splitComponent(name)
	switch base {
	case "P":
		return componentOf(ctx.P, comp)
	case "N":
		return componentOf(ctx.N, comp)
	case "Cd":
		return componentOf(ctx.Cd, comp)
	case "ptnum":
		return scalar(float64(ctx.Ptnum)), nil
	case "npoints":
		return scalar(float64(ctx.Npoints)), nil
	case "time":
		return scalar(ctx.Time), nil
	default:
		return Value{}, fmt.Errorf("wrangle: unknown variable @%s", name)
	}
}

func (ctx *Context) assign(target string, v Value) error {
	base, comp := splitComponent(target)
	var dst *[3]float64
	switch base {
	case "P":
		dst = &ctx.P
	case "N":
		dst = &ctx.N
		ctx.HasN = true
	case "Cd":
		dst = &ctx.Cd
		ctx.HasCd = true
	default:
		return fmt.Errorf("wrangle: @%s is not assignable", base)
	}
	if comp == "" {
		if !v.IsVec {
			*dst = [3]float64{v.S, v.S, v.S}
		} else {
			*dst = v.V
		}
		return nil
	}
	i, err := axisIndex(comp)
	if err != nil {
		return err
	}
	dst[i] = scalarOf(v)
	return nil
}

func splitComponent(name string) (base, comp string) {
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			return name[:i], name[i+1:]
		}
	}
	return name, ""
}

func axisIndex(c string) (int, error) {
	switch c {
	case "x":
		return 0, nil
	case "y":
		return 1, nil
	case "z":
		return 2, nil
	default:
		return 0, fmt.Errorf("wrangle: unknown component %q", c)
	}
}

func componentOf(v [3]float64, comp string) (Value, error) {
	if comp == "" {
		return vector(v), nil
	}
	i, err := axisIndex(comp)
	if err != nil {
		return Value{}, err
	}
	return scalar(v[i]), nil
}

func scalarOf(v Value) float64 {
	if v.IsVec {
		return v.V[0]
	}
	return v.S
}

func (b *binaryExpr) eval(ctx *Context) (Value, error) {
	l, err := b.left.eval(ctx)
	if err != nil {
		return Value{}, err
	}
	r, err := b.right.eval(ctx)
	if err != nil {
		return Value{}, err
	}
	if l.IsVec || r.IsVec {
		return vecBinary(b.op, l, r)
	}
	switch b.op {
	case TokPlus:
		return scalar(l.S + r.S), nil
	case TokMinus:
		return scalar(l.S - r.S), nil
	case TokStar:
		return scalar(l.S * r.S), nil
	case TokSlash:
		return scalar(l.S / r.S), nil
	case TokPct:
		return scalar(math.Mod(l.S, r.S)), nil
	case TokLT:
		return boolVal(l.S < r.S), nil
	case TokGT:
		return boolVal(l.S > r.S), nil
	case TokLE:
		return boolVal(l.S <= r.S), nil
	case TokGE:
		return boolVal(l.S >= r.S), nil
	case TokEQ:
		return boolVal(l.S == r.S), nil
	case TokNE:
		return boolVal(l.S != r.S), nil
	case TokAndAnd:
		return boolVal(l.S != 0 && r.S != 0), nil
	case TokOrOr:
		return boolVal(l.S != 0 || r.S != 0), nil
	default:
		return Value{}, fmt.Errorf("wrangle: unsupported operator %s", b.op)
	}
}

func vecBinary(op TokenType, l, r Value) (Value, error) {
	lv, rv := asVec(l), asVec(r)
	switch op {
	case TokPlus:
		return vector([3]float64{lv[0] + rv[0], lv[1] + rv[1], lv[2] + rv[2]}), nil
	case TokMinus:
		return vector([3]float64{lv[0] - rv[0], lv[1] - rv[1], lv[2] - rv[2]}), nil
	case TokStar:
		return vector([3]float64{lv[0] * rv[0], lv[1] * rv[1], lv[2] * rv[2]}), nil
	case TokSlash:
		return vector([3]float64{lv[0] / rv[0], lv[1] / rv[1], lv[2] / rv[2]}), nil
	default:
		return Value{}, fmt.Errorf("wrangle: unsupported vector operator %s", op)
	}
}

func asVec(v Value) [3]float64 {
	if v.IsVec {
		return v.V
	}
	return [3]float64{v.S, v.S, v.S}
}

func boolVal(b bool) Value {
	if b {
		return scalar(1)
	}
	return scalar(0)
}

func (u *unaryExpr) eval(ctx *Context) (Value, error) {
	v, err := u.operand.eval(ctx)
	if err != nil {
		return Value{}, err
	}
	switch u.op {
	case TokMinus:
		if v.IsVec {
			return vector([3]float64{-v.V[0], -v.V[1], -v.V[2]}), nil
		}
		return scalar(-v.S), nil
	case TokBang:
		return boolVal(scalarOf(v) == 0), nil
	default:
		return Value{}, fmt.Errorf("wrangle: unsupported unary operator %s", u.op)
	}
}

func (c *callExpr) eval(ctx *Context) (Value, error) {
	// chf/chi/ch take a string literal channel name, not a value.
	switch c.name {
	case "chf":
		name, err := c.stringArg(0)
		if err != nil {
			return Value{}, err
		}
		return scalar(float64(ctx.Channels.GetFloat(name, 0))), nil
	case "chi":
		name, err := c.stringArg(0)
		if err != nil {
			return Value{}, err
		}
		return scalar(float64(ctx.Channels.GetInt(name, 0))), nil
	case "ch":
		name, err := c.stringArg(0)
		if err != nil {
			return Value{}, err
		}
		return scalar(float64(ctx.Channels.DeclareChannel(name))), nil
	}

	args := make([]Value, len(c.args))
	for i, a := range c.args {
		v, err := a.eval(ctx)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}
	switch c.name {
	case "sin":
		return scalar(math.Sin(args[0].S)), nil
	case "cos":
		return scalar(math.Cos(args[0].S)), nil
	case "sqrt":
		return scalar(math.Sqrt(args[0].S)), nil
	case "abs":
		return scalar(math.Abs(args[0].S)), nil
	case "fit01":
		// fit01(val, lo, hi): remaps [0,1] -> [lo,hi]
		return scalar(args[1].S + args[0].S*(args[2].S-args[1].S)), nil
	case "length":
		v := asVec(args[0])
		return scalar(math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])), nil
	case "dot":
		a, b := asVec(args[0]), asVec(args[1])
		return scalar(a[0]*b[0] + a[1]*b[1] + a[2]*b[2]), nil
	case "cross":
		a, b := asVec(args[0]), asVec(args[1])
		return vector([3]float64{
			a[1]*b[2] - a[2]*b[1],
			a[2]*b[0] - a[0]*b[2],
			a[0]*b[1] - a[1]*b[0],
		}), nil
	case "rand":
		seed := ctx.Seed*1_000_003 + int64(ctx.Ptnum)
		if len(args) > 0 {
			seed += int64(args[0].S * 1000)
		}
		r := rand.New(rand.NewSource(seed))
		return scalar(r.Float64()), nil
	default:
		return Value{}, fmt.Errorf("wrangle: unknown function %q", c.name)
	}
}

func (c *callExpr) stringArg(i int) (string, error) {
	if i >= len(c.args) {
		return "", fmt.Errorf("wrangle: %s missing argument %d", c.name, i)
	}
	lit, ok := c.args[i].(*stringLit)
	if !ok {
		return "", fmt.Errorf("wrangle: %s argument %d must be a string literal", c.name, i)
	}
	return lit.v, nil
}
