package sop

import (
	"nodeflux/attr"
	"nodeflux/geom"
	"nodeflux/param"
	"nodeflux/sop/wrangle"
)

type wrangleExec struct{}

// NewWrangle is the per-point expression SOP (spec.md §6's "Wrangle"
// node). Its "code" parameter is a KCode string evaluated once per
// point of the input geometry, with @P/@N/@Cd/@ptnum/@npoints/@time
// bound and ch()/chf()/chi() reading (and, for ch(), dynamically
// declaring) the node's own additional parameters.
func NewWrangle(id int) *Node {
	n := singleInput(id, "wrangle", wrangleExec{})
	n.RegisterParam(&param.Definition{
		Name: "code", Kind: param.KCode, Default: param.Code(""),
		Category: "Code", Hint: param.HintMultiline,
	})
	n.RegisterParam(&param.Definition{
		Name: "seed", Kind: param.KInt, Default: param.Int(0), Category: "Code",
	})
	return n
}

func (wrangleExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	code := n.GetString("code", "")
	if code == "" {
		return Ok(in)
	}
	prog, err := wrangle.Parse(code)
	if err != nil {
		return Fail(WrapError(ParameterInvalid, err, "wrangle: code"))
	}

	out := in.Clone()
	c := out.Read()
	p := c.EnsurePositionAttribute()
	members, filtered := ApplyGroupFilter(in, n.InputGroup(), attr.Point)
	npoints := c.Topo.PointCount()
	seed := n.GetInt("seed", 0)

	run := func(i int) error {
		ctx := &wrangle.Context{Ptnum: i, Npoints: npoints, Time: n.Time(), Seed: seed, Channels: n}
		v := p.At(i)
		ctx.P = [3]float64{float64(v[0]), float64(v[1]), float64(v[2])}
		if nrm := c.PointNormals(); nrm != nil {
			nv := nrm.At(i)
			ctx.N = [3]float64{float64(nv[0]), float64(nv[1]), float64(nv[2])}
			ctx.HasN = true
		}
		if cd := c.Colors(); cd != nil {
			cv := cd.At(i)
			ctx.Cd = [3]float64{float64(cv[0]), float64(cv[1]), float64(cv[2])}
			ctx.HasCd = true
		}
		if err := prog.Run(ctx); err != nil {
			return err
		}
		p.Set(i, vecOf(ctx.P))
		if ctx.HasN {
			c.EnsureNormalAttribute().Set(i, vecOf(ctx.N))
		}
		if ctx.HasCd {
			if !c.Points.Has("Cd") {
				c.Points.Add("Cd", attr.Vec3f, attr.Linear, c.Topo.PointCount())
			}
			c.Colors().Set(i, vecOf(ctx.Cd))
		}
		return nil
	}

	indices := members
	if !filtered {
		indices = make([]int, npoints)
		for i := range indices {
			indices[i] = i
		}
	}
	for _, i := range indices {
		if err := run(i); err != nil {
			return Fail(WrapError(AlgorithmFailure, err, "wrangle"))
		}
	}
	return Ok(out)
}

func vecOf(v [3]float64) (r [3]float32) {
	for i := range v {
		r[i] = float32(v[i])
	}
	return r
}
