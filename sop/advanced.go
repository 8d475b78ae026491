package sop

import (
	"math"

	"nodeflux/attr"
	"nodeflux/geom"
	"nodeflux/linear"
	"nodeflux/param"
)

// --- PolyExtrude ---------------------------------------------------------

type polyExtrudeExec struct{}

// NewPolyExtrude offsets every primitive's points along its face
// normal by "distance", inserting new points rather than modifying
// the originals, and stitches a ring of side quads between the
// original and offset rims per primitive (no inter-primitive sharing,
// matching the simple "extrude each face independently" mode of a
// typical polyextrude_sop.hpp).
func NewPolyExtrude(id int) *Node {
	n := singleInput(id, "poly_extrude", polyExtrudeExec{})
	n.RegisterParam(&param.Definition{Name: "distance", Kind: param.KFloat, Default: param.Float(0.1), Category: "Extrude"})
	return n
}

func faceNormal(c *geom.Container, p *attr.Storage[linear.V3], prim int) linear.V3 {
	verts := c.Topo.PrimitiveVertices(prim)
	if len(verts) < 3 {
		return linear.V3{}
	}
	p0 := p.At(int(c.Topo.VertexPoint(int(verts[0]))))
	p1 := p.At(int(c.Topo.VertexPoint(int(verts[1]))))
	p2 := p.At(int(c.Topo.VertexPoint(int(verts[2]))))
	var e1, e2, n, norm linear.V3
	e1.Sub(&p1, &p0)
	e2.Sub(&p2, &p0)
	n.Cross(&e1, &e2)
	norm.Norm(&n)
	return norm
}

func (polyExtrudeExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	dist := n.GetFloat("distance", 0.1)
	c := in.Read()
	p := c.Positions()
	if p == nil {
		return Fail(NewError(InputInvalid, "poly_extrude: missing position attribute"))
	}

	out := geom.New()
	var newPts []linear.V3
	for i := 0; i < p.Size(); i++ {
		newPts = append(newPts, p.At(i))
	}
	var prims [][]int32

	for pr := 0; pr < c.Topo.PrimitiveCount(); pr++ {
		norm := faceNormal(c, p, pr)
		var offset linear.V3
		offset.Scale(dist, &norm)
		verts := c.Topo.PrimitiveVertices(pr)
		base := make([]int32, len(verts))
		top := make([]int32, len(verts))
		for i, v := range verts {
			pt := c.Topo.VertexPoint(int(v))
			base[i] = pt
			v0 := p.At(int(pt))
			var moved linear.V3
			moved.Add(&v0, &offset)
			top[i] = int32(len(newPts))
			newPts = append(newPts, moved)
		}
		prims = append(prims, top)
		nv := len(verts)
		for i := 0; i < nv; i++ {
			j := (i + 1) % nv
			prims = append(prims, []int32{base[i], base[j], top[j], top[i]})
		}
	}

	out.Topo.SetPointCount(len(newPts))
	np := out.EnsurePositionAttribute()
	for i, v := range newPts {
		np.Set(i, v)
	}
	var vertCount int
	for _, pr := range prims {
		vertCount += len(pr)
	}
	out.Topo.SetVertexCount(vertCount)
	vi := 0
	for _, pr := range prims {
		verts := make([]int32, len(pr))
		for i, pt := range pr {
			out.Topo.SetVertexPoint(vi, pt)
			verts[i] = int32(vi)
			vi++
		}
		out.Topo.AddPrimitive(verts)
	}
	out.SyncAttributeSizes()
	return Ok(geom.NewHandle(out))
}

// --- Bevel -----------------------------------------------------------------

type bevelExec struct{}

// NewBevel pulls every point by "amount" toward the average position of
// its edge-adjacent neighbor points, a coarse corner-rounding approximation (true
// edge beveling requires topology insertion that original_source/'s
// bevel_sop.hpp performs with a half-edge mesh; out of scope here per
// the non-goal on exact CSG/topology-editing precision).
func NewBevel(id int) *Node {
	n := singleInput(id, "bevel", bevelExec{})
	n.RegisterParam(&param.Definition{Name: "amount", Kind: param.KFloat, Default: param.Float(0.1), FloatMin: 0, FloatMax: 1, HasFloatRange: true, Category: "Bevel"})
	return n
}

func (bevelExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	amount := n.GetFloat("amount", 0.1)
	out := in.Clone()
	c := out.Read()
	p := c.Positions()
	if p == nil {
		return Fail(NewError(InputInvalid, "bevel: missing position attribute"))
	}
	adj := adjacency(c)
	next := make([]linear.V3, p.Size())
	for i := 0; i < p.Size(); i++ {
		next[i] = p.At(i)
	}
	for i, neighbors := range adj {
		if len(neighbors) == 0 {
			continue
		}
		var avg linear.V3
		for _, nb := range neighbors {
			v := p.At(int(nb))
			avg.Add(&avg, &v)
		}
		avg.Scale(1/float32(len(neighbors)), &avg)
		cur := p.At(i)
		var delta, scaled, moved linear.V3
		delta.Sub(&avg, &cur)
		scaled.Scale(amount, &delta)
		moved.Add(&cur, &scaled)
		next[i] = moved
	}
	for i, v := range next {
		p.Set(i, v)
	}
	return Ok(out)
}

// --- Curvature -------------------------------------------------------------

type curvatureExec struct{}

// NewCurvature writes a point float attribute "curvature" approximating
// mean curvature as the angular deficit between a point's normal and
// its neighbors' average normal (cheap, sign-agnostic proxy; exact
// discrete mean curvature needs cotangent weights, out of scope).
func NewCurvature(id int) *Node {
	return singleInput(id, "curvature", curvatureExec{})
}

func (curvatureExec) Execute(_ *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	out := in.Clone()
	c := out.Read()
	nrm := c.PointNormals()
	if nrm == nil {
		return Fail(NewError(InputInvalid, "curvature: run normal first"))
	}
	adj := adjacency(c)
	if !c.Points.Has("curvature") {
		c.Points.Add("curvature", attr.Float, attr.Linear, c.Topo.PointCount())
	}
	curv := attr.Get[float32](c.Points, "curvature")
	for i, neighbors := range adj {
		if len(neighbors) == 0 {
			curv.Set(i, 0)
			continue
		}
		own := nrm.At(i)
		var avg linear.V3
		for _, nb := range neighbors {
			v := nrm.At(int(nb))
			avg.Add(&avg, &v)
		}
		avg.Scale(1/float32(len(neighbors)), &avg)
		d := own.Dot(&avg)
		curv.Set(i, 1-d)
	}
	return Ok(out)
}

// --- UVUnwrap / Parameterize ---------------------------------------------

type uvUnwrapExec struct{}

// NewUVUnwrap assigns vertex "uv" by planar projection along the
// dominant axis of the bounding box (full conformal/LSCM unwrapping
// is out of scope).
func NewUVUnwrap(id int) *Node {
	return singleInput(id, "uv_unwrap", uvUnwrapExec{})
}

func (uvUnwrapExec) Execute(_ *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	out := in.Clone()
	c := out.Read()
	p := c.Positions()
	if p == nil {
		return Fail(NewError(InputInvalid, "uv_unwrap: missing position attribute"))
	}
	min, max, ok := c.Bounds()
	if !ok {
		return Ok(out)
	}
	extent := linear.V3{max[0] - min[0], max[1] - min[1], max[2] - min[2]}
	axis := 1 // project along the largest extent's axis
	if extent[0] >= extent[1] && extent[0] >= extent[2] {
		axis = 0
	} else if extent[2] >= extent[0] && extent[2] >= extent[1] {
		axis = 2
	}
	u, v := (axis+1)%3, (axis+2)%3
	if !c.Verts.Has("uv") {
		c.Verts.Add("uv", attr.Vec2f, attr.Linear, c.Topo.VertexCount())
	}
	uv := c.UVs()
	for vi := 0; vi < c.Topo.VertexCount(); vi++ {
		pt := p.At(int(c.Topo.VertexPoint(vi)))
		uu := safeDiv(pt[u]-min[u], extent[u])
		vv := safeDiv(pt[v]-min[v], extent[v])
		uv.Set(vi, linear.V2{uu, vv})
	}
	return Ok(out)
}

func safeDiv(a, b float32) float32 {
	if b == 0 {
		return 0
	}
	return a / b
}

// NewParameterize is an alias constructor for UVUnwrap: spec.md lists
// both names for historical (Houdini "UV Texture" vs. research-paper
// "parameterize") reasons over the same planar-projection operator.
func NewParameterize(id int) *Node {
	n := NewUVUnwrap(id)
	n.TypeName = "parameterize"
	return n
}

// --- Geodesic --------------------------------------------------------------

type geodesicExec struct{}

// NewGeodesic computes a point float attribute "geodesic_distance"
// via breadth-first search over the edge adjacency graph from a
// given source point, counting edges rather than true arc length
// (exact geodesics need Dijkstra over edge lengths; this variant is
// the same coarse approximation original_source/'s geodesic_sop.hpp
// uses as a fast preview mode).
func NewGeodesic(id int) *Node {
	n := singleInput(id, "geodesic", geodesicExec{})
	n.RegisterParam(&param.Definition{Name: "source_point", Kind: param.KInt, Default: param.Int(0), Category: "Geodesic"})
	return n
}

func (geodesicExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	src := int(n.GetInt("source_point", 0))
	out := in.Clone()
	c := out.Read()
	if src < 0 || src >= c.Topo.PointCount() {
		return Fail(NewError(ParameterInvalid, "geodesic: source_point out of range"))
	}
	adj := adjacency(c)
	dist := make([]int, c.Topo.PointCount())
	for i := range dist {
		dist[i] = -1
	}
	dist[src] = 0
	queue := []int{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range adj[cur] {
			if dist[nb] == -1 {
				dist[nb] = dist[cur] + 1
				queue = append(queue, int(nb))
			}
		}
	}
	if !c.Points.Has("geodesic_distance") {
		c.Points.Add("geodesic_distance", attr.Float, attr.Linear, c.Topo.PointCount())
	}
	gd := attr.Get[float32](c.Points, "geodesic_distance")
	for i, d := range dist {
		if d == -1 {
			gd.Set(i, -1)
		} else {
			gd.Set(i, float32(d))
		}
	}
	return Ok(out)
}

// --- Decimate --------------------------------------------------------------

type decimateExec struct{}

// NewDecimate reduces point count by progressively fusing the closest
// point pairs until at most "target_ratio" of the original points
// remain (a simplified stand-in for quadric-error-metric edge
// collapse, adequate for level-of-detail previews). The fuse distance
// is bisected within [0, 1]; when no distance in that range gets down
// to the target, the input is returned unchanged.
func NewDecimate(id int) *Node {
	n := singleInput(id, "decimate", decimateExec{})
	n.RegisterParam(&param.Definition{Name: "target_ratio", Kind: param.KFloat, Default: param.Float(0.5), FloatMin: 0.01, FloatMax: 1, HasFloatRange: true, Category: "Decimate"})
	return n
}

func (decimateExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	ratio := n.GetFloat("target_ratio", 0.5)
	c := in.Read()
	p := c.Positions()
	if p == nil {
		return Fail(NewError(InputInvalid, "decimate: missing position attribute"))
	}
	target := int(math.Ceil(float64(p.Size()) * float64(ratio)))
	if target >= p.Size() || target < 1 {
		return Ok(geom.NewHandle(c.Clone()))
	}

	fuse := NewFuse(-1)
	lo, hi := float32(0), float32(1)
	cur := in
	for iter := 0; iter < 20; iter++ {
		mid := (lo + hi) / 2
		fuse.SetParam("distance", param.Float(mid))
		r := fuseExec{}.Execute(fuse, []geom.Handle{in})
		if r.IsErr() {
			return r
		}
		count := r.Value.Read().Topo.PointCount()
		if count > target {
			lo = mid
		} else {
			hi = mid
			cur = r.Value
		}
	}
	return Ok(cur)
}

// --- Remesh ------------------------------------------------------------

type remeshExec struct{}

// NewRemesh alternates Subdivide and Smooth passes, the same
// "relax by subdivide+smooth" strategy original_source/'s
// remesh_sop.hpp falls back to when its full isotropic remesher is
// compiled out.
func NewRemesh(id int) *Node {
	n := singleInput(id, "remesh", remeshExec{})
	n.RegisterParam(&param.Definition{Name: "iterations", Kind: param.KInt, Default: param.Int(1), IntMin: 1, HasIntRange: true, Category: "Remesh"})
	return n
}

func (remeshExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	iterations := int(n.GetInt("iterations", 1))
	cur := in
	for it := 0; it < iterations; it++ {
		next, serr := subdivideOnce(cur.Read())
		if serr != nil {
			return Fail(WrapError(AlgorithmFailure, serr, "remesh"))
		}
		smooth := NewSmooth(-1)
		smooth.SetParam("strength", param.Float(0.3))
		r := smoothExec{}.Execute(smooth, []geom.Handle{geom.NewHandle(next)})
		if r.IsErr() {
			return r
		}
		cur = r.Value
	}
	return Ok(cur)
}

// --- Lattice ---------------------------------------------------------------

type latticeExec struct{}

// NewLattice applies a free-form-deformation-like nonuniform squash:
// points are displaced toward the bounding-box center along each axis
// by a per-axis factor, a coarse proxy for true FFD control-cage
// deformation (full lattice editing needs a cage mesh input and
// trilinear weights, out of scope).
func NewLattice(id int) *Node {
	n := singleInput(id, "lattice", latticeExec{})
	n.RegisterParam(&param.Definition{Name: "squash", Kind: param.KVec3f, Default: param.Vec3f(linear.V3{0, 0, 0}), Category: "Lattice", Description: "per-axis factor, 0 = no deform, 1 = collapse to center"})
	return n
}

func (latticeExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	squash := n.GetVec3f("squash", linear.V3{})
	min, max, ok := in.Read().Bounds()
	if !ok {
		return Ok(in)
	}
	var center, sum linear.V3
	sum.Add(&min, &max)
	center.Scale(0.5, &sum)

	out := in.Clone()
	p := out.Read().Positions()
	for i := 0; i < p.Size(); i++ {
		v := p.At(i)
		for k := 0; k < 3; k++ {
			v[k] = v[k] + (center[k]-v[k])*squash[k]
		}
		p.Set(i, v)
	}
	return Ok(out)
}

// --- ScatterVolume ---------------------------------------------------------

type scatterVolumeExec struct{}

// NewScatterVolume scatters points uniformly through the input's
// bounding-box volume, filtered to those also falling within
// "radius" of some input point (a coarse "inside the shape" test,
// the same bounding-sphere fallback ScatterVolume uses without a
// proper signed-distance field, which is out of scope).
func NewScatterVolume(id int) *Node {
	n := singleInput(id, "scatter_volume", scatterVolumeExec{})
	n.RegisterParam(&param.Definition{Name: "count", Kind: param.KInt, Default: param.Int(100), IntMin: 1, HasIntRange: true, Category: "Scatter"})
	n.RegisterParam(&param.Definition{Name: "radius", Kind: param.KFloat, Default: param.Float(0.1), Category: "Scatter"})
	n.RegisterParam(&param.Definition{Name: "seed", Kind: param.KInt, Default: param.Int(0), Category: "Scatter"})
	return n
}

func (scatterVolumeExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	c := in.Read()
	p := c.Positions()
	min, max, ok := c.Bounds()
	if !ok || p == nil {
		return Fail(NewError(InputInvalid, "scatter_volume: input has no position attribute"))
	}
	count := int(n.GetInt("count", 100))
	radius := n.GetFloat("radius", 0.1)
	seed := n.GetInt("seed", 0)

	// Candidates are independent draws, and the containment test
	// against every input point is the expensive part, so both run
	// across a bounded worker pool; acceptance order is resolved
	// afterward to keep output order reproducible.
	attempts := count * 20
	candidates := make([]linear.V3, attempts)
	accepted := make([]bool, attempts)
	parallelRange(attempts, func(i int) error {
		r := deterministicRand(seed*1_000_003 + int64(i))
		cand := linear.V3{
			min[0] + r()*(max[0]-min[0]),
			min[1] + r()*(max[1]-min[1]),
			min[2] + r()*(max[2]-min[2]),
		}
		candidates[i] = cand
		for j := 0; j < p.Size(); j++ {
			v := p.At(j)
			var diff linear.V3
			diff.Sub(&cand, &v)
			if diff.Len() <= radius {
				accepted[i] = true
				break
			}
		}
		return nil
	})

	var pts []linear.V3
	for i := 0; i < attempts && len(pts) < count; i++ {
		if accepted[i] {
			pts = append(pts, candidates[i])
		}
	}
	if len(pts) == 0 {
		return Fail(NewError(AlgorithmFailure, "scatter_volume: no points found within radius"))
	}
	out := geom.New()
	out.Topo.SetPointCount(len(pts))
	np := out.EnsurePositionAttribute()
	for i, v := range pts {
		np.Set(i, v)
	}
	out.Topo.SetVertexCount(len(pts))
	verts := make([]int32, len(pts))
	for i := range pts {
		out.Topo.SetVertexPoint(i, int32(i))
		verts[i] = int32(i)
	}
	out.Topo.AddPrimitive(verts)
	out.SyncAttributeSizes()
	return Ok(geom.NewHandle(out))
}
