package sop

import (
	"nodeflux/attr"
	"nodeflux/geom"
	"nodeflux/linear"
	"nodeflux/param"
)

// --- Smooth ----------------------------------------------------------------

type smoothExec struct{}

// NewSmooth applies iterative Laplacian smoothing: each point moves
// toward the average position of points it shares a primitive edge
// with, blended by "strength".
func NewSmooth(id int) *Node {
	n := singleInput(id, "smooth", smoothExec{})
	n.RegisterParam(&param.Definition{Name: "iterations", Kind: param.KInt, Default: param.Int(1), IntMin: 1, HasIntRange: true, Category: "Smooth"})
	n.RegisterParam(&param.Definition{Name: "strength", Kind: param.KFloat, Default: param.Float(0.5), FloatMin: 0, FloatMax: 1, HasFloatRange: true, Category: "Smooth"})
	return n
}

func adjacency(c *geom.Container) [][]int32 {
	adj := make([][]int32, c.Topo.PointCount())
	seen := make([]map[int32]bool, c.Topo.PointCount())
	for i := range seen {
		seen[i] = make(map[int32]bool)
	}
	for pr := 0; pr < c.Topo.PrimitiveCount(); pr++ {
		verts := c.Topo.PrimitiveVertices(pr)
		n := len(verts)
		for i := 0; i < n; i++ {
			a := c.Topo.VertexPoint(int(verts[i]))
			b := c.Topo.VertexPoint(int(verts[(i+1)%n]))
			if !seen[a][b] {
				seen[a][b] = true
				adj[a] = append(adj[a], b)
			}
			if !seen[b][a] {
				seen[b][a] = true
				adj[b] = append(adj[b], a)
			}
		}
	}
	return adj
}

func (smoothExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	iterations := int(n.GetInt("iterations", 1))
	strength := n.GetFloat("strength", 0.5)
	members, filtered := ApplyGroupFilter(in, n.InputGroup(), attr.Point)

	out := in.Clone()
	c := out.Read()
	p := c.Positions()
	if p == nil {
		return Fail(NewError(InputInvalid, "smooth: missing position attribute"))
	}
	adj := adjacency(c)
	move := func(idx []int) {
		next := make([]linear.V3, p.Size())
		for i := 0; i < p.Size(); i++ {
			next[i] = p.At(i)
		}
		parallelRange(len(idx), func(k int) error {
			i := idx[k]
			neighbors := adj[i]
			if len(neighbors) == 0 {
				return nil
			}
			var avg linear.V3
			for _, nb := range neighbors {
				v := p.At(int(nb))
				avg.Add(&avg, &v)
			}
			avg.Scale(1/float32(len(neighbors)), &avg)
			cur := p.At(i)
			var delta, scaled linear.V3
			delta.Sub(&avg, &cur)
			scaled.Scale(strength, &delta)
			var moved linear.V3
			moved.Add(&cur, &scaled)
			next[i] = moved
			return nil
		})
		for i, v := range next {
			p.Set(i, v)
		}
	}
	idx := members
	if !filtered {
		idx = make([]int, p.Size())
		for i := range idx {
			idx[i] = i
		}
	}
	for it := 0; it < iterations; it++ {
		move(idx)
	}
	return Ok(out)
}

// --- Subdivide -------------------------------------------------------------

type subdivideExec struct{}

// NewSubdivide applies one level of simple quad/triangle midpoint
// subdivision: each primitive is split by inserting an edge midpoint
// per edge and a face-center point, fanning out sub-quads (a
// simplified Catmull-Clark pass without the smoothing step, which
// Smooth provides separately when composed after).
func NewSubdivide(id int) *Node {
	n := singleInput(id, "subdivide", subdivideExec{})
	n.RegisterParam(&param.Definition{Name: "iterations", Kind: param.KInt, Default: param.Int(1), IntMin: 1, HasIntRange: true, Category: "Subdivide"})
	return n
}

func (subdivideExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	iterations := int(n.GetInt("iterations", 1))
	cur := in
	for it := 0; it < iterations; it++ {
		next, err := subdivideOnce(cur.Read())
		if err != nil {
			return Fail(WrapError(AlgorithmFailure, err, "subdivide"))
		}
		cur = geom.NewHandle(next)
	}
	return Ok(cur)
}

func subdivideOnce(c *geom.Container) (*geom.Container, error) {
	p := c.Positions()
	if p == nil {
		return nil, NewError(InputInvalid, "subdivide: missing position attribute")
	}
	out := geom.New()
	basePoints := c.Topo.PointCount()
	midOf := make(map[[2]int32]int32)
	var extra []linear.V3
	nextID := func() int32 { return int32(basePoints + len(extra)) }
	edgeMid := func(a, b int32) int32 {
		key := [2]int32{a, b}
		if a > b {
			key = [2]int32{b, a}
		}
		if id, ok := midOf[key]; ok {
			return id
		}
		va, vb := p.At(int(a)), p.At(int(b))
		var mid, sum linear.V3
		sum.Add(&va, &vb)
		mid.Scale(0.5, &sum)
		id := nextID()
		midOf[key] = id
		extra = append(extra, mid)
		return id
	}

	for pr := 0; pr < c.Topo.PrimitiveCount(); pr++ {
		verts := c.Topo.PrimitiveVertices(pr)
		pts := make([]int32, len(verts))
		for i, v := range verts {
			pts[i] = c.Topo.VertexPoint(int(v))
		}
		n := len(pts)
		if n < 3 {
			continue
		}
		var center linear.V3
		for _, pt := range pts {
			v := p.At(int(pt))
			center.Add(&center, &v)
		}
		center.Scale(1/float32(n), &center)
		centerID := nextID()
		extra = append(extra, center)
		mids := make([]int32, n)
		for i := 0; i < n; i++ {
			mids[i] = edgeMid(pts[i], pts[(i+1)%n])
		}
		for i := 0; i < n; i++ {
			prevMid := mids[(i-1+n)%n]
			out.Topo.AddPrimitive([]int32{pts[i], mids[i], centerID, prevMid})
		}
	}

	total := basePoints + len(extra)
	out.Topo.SetPointCount(total)
	np := out.EnsurePositionAttribute()
	for i := 0; i < basePoints; i++ {
		np.Set(i, p.At(i))
	}
	for i, v := range extra {
		np.Set(basePoints+i, v)
	}
	// out.Topo.AddPrimitive above referenced point indices directly;
	// rebuild vertex_point/primitive_vertices from those point-index
	// lists since AddPrimitive expects vertex indices, not point
	// indices. Each primitive here owns a disjoint vertex run 1:1 with
	// its point list (no vertex sharing across primitives), the
	// simplest valid encoding.
	return rebuildFromPointLists(out, total)
}

// rebuildFromPointLists takes a Container whose Topo.AddPrimitive
// calls were made with point indices in place of vertex indices (as
// subdivideOnce and the generators do for convenience) and re-encodes it with a
// distinct vertex per primitive corner, the representation the rest
// of the package expects.
func rebuildFromPointLists(in *geom.Container, pointCount int) (*geom.Container, error) {
	out := geom.New()
	out.Topo.SetPointCount(pointCount)
	out.Points = in.Points.Clone()
	var vertCount int
	for pr := 0; pr < in.Topo.PrimitiveCount(); pr++ {
		vertCount += len(in.Topo.PrimitiveVertices(pr))
	}
	out.Topo.SetVertexCount(vertCount)
	vi := 0
	for pr := 0; pr < in.Topo.PrimitiveCount(); pr++ {
		ptIDs := in.Topo.PrimitiveVertices(pr) // actually point indices, see subdivideOnce
		verts := make([]int32, len(ptIDs))
		for i, pt := range ptIDs {
			out.Topo.SetVertexPoint(vi, pt)
			verts[i] = int32(vi)
			vi++
		}
		out.Topo.AddPrimitive(verts)
	}
	out.SyncAttributeSizes()
	return out, nil
}

// --- RepairMesh --------------------------------------------------------

type repairMeshExec struct{}

// NewRepairMesh drops degenerate primitives (fewer than 3 distinct
// point references) and points left unreferenced afterward.
func NewRepairMesh(id int) *Node {
	return singleInput(id, "repair_mesh", repairMeshExec{})
}

func (repairMeshExec) Execute(_ *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	c := in.Read()
	var bad []int
	for pr := 0; pr < c.Topo.PrimitiveCount(); pr++ {
		verts := c.Topo.PrimitiveVertices(pr)
		pts := make(map[int32]bool, len(verts))
		for _, v := range verts {
			pts[c.Topo.VertexPoint(int(v))] = true
		}
		if len(pts) < 3 {
			bad = append(bad, pr)
		}
	}
	if len(bad) == 0 {
		return Ok(geom.NewHandle(c.Clone()))
	}
	out, err := geom.DeleteElementsByIndices(c, attr.Primitive, bad, true)
	if err != nil {
		return Fail(WrapError(AlgorithmFailure, err, "repair_mesh"))
	}
	return Ok(geom.NewHandle(out))
}

// --- Fuse ------------------------------------------------------------------

type fuseExec struct{}

// NewFuse merges points within "distance" of each other into one,
// remapping vertex_point references (a spatial-hash-free O(n^2) pass,
// adequate for the point counts spec.md's procedural generators
// produce).
func NewFuse(id int) *Node {
	n := singleInput(id, "fuse", fuseExec{})
	n.RegisterParam(&param.Definition{Name: "distance", Kind: param.KFloat, Default: param.Float(1e-4), Category: "Fuse"})
	return n
}

func (fuseExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	dist := n.GetFloat("distance", 1e-4)
	c := in.Read()
	p := c.Positions()
	if p == nil {
		return Fail(NewError(InputInvalid, "fuse: missing position attribute"))
	}
	remap := make([]int32, p.Size())
	var keep []int32
	for i := 0; i < p.Size(); i++ {
		remap[i] = -1
	}
	for i := 0; i < p.Size(); i++ {
		if remap[i] != -1 {
			continue
		}
		newIdx := int32(len(keep))
		remap[i] = newIdx
		keep = append(keep, int32(i))
		vi := p.At(i)
		for j := i + 1; j < p.Size(); j++ {
			if remap[j] != -1 {
				continue
			}
			vj := p.At(j)
			var diff linear.V3
			diff.Sub(&vi, &vj)
			if diff.Len() <= dist {
				remap[j] = newIdx
			}
		}
	}
	out := geom.New()
	out.Topo.SetPointCount(len(keep))
	for _, name := range c.Points.Names() {
		out.Points.AddStorage(attr.CopyByIndex(c.Points.Get(name), keep))
	}
	out.Topo.SetVertexCount(c.Topo.VertexCount())
	for v := 0; v < c.Topo.VertexCount(); v++ {
		out.Topo.SetVertexPoint(v, remap[c.Topo.VertexPoint(v)])
	}
	out.Verts = c.Verts.Clone()
	for pr := 0; pr < c.Topo.PrimitiveCount(); pr++ {
		out.Topo.AddPrimitive(c.Topo.PrimitiveVertices(pr))
	}
	out.Prims = c.Prims.Clone()
	out.Detail = c.Detail.Clone()
	out.SyncAttributeSizes()
	return Ok(geom.NewHandle(out))
}

// --- Resample ------------------------------------------------------------

type resampleExec struct{}

// NewResample re-emits each input open polyline primitive with
// evenly spaced points along its original length (polylines only;
// non-polyline primitives pass through unchanged).
func NewResample(id int) *Node {
	n := singleInput(id, "resample", resampleExec{})
	n.RegisterParam(&param.Definition{Name: "segments", Kind: param.KInt, Default: param.Int(10), IntMin: 1, HasIntRange: true, Category: "Resample"})
	return n
}

func (resampleExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	segments := int(n.GetInt("segments", 10))
	c := in.Read()
	p := c.Positions()
	if p == nil {
		return Fail(NewError(InputInvalid, "resample: missing position attribute"))
	}

	out := geom.New()
	var newPts []linear.V3
	var prims [][]int32
	for pr := 0; pr < c.Topo.PrimitiveCount(); pr++ {
		verts := c.Topo.PrimitiveVertices(pr)
		pts := make([]linear.V3, len(verts))
		for i, v := range verts {
			pts[i] = p.At(int(c.Topo.VertexPoint(int(v))))
		}
		cum := make([]float32, len(pts))
		for i := 1; i < len(pts); i++ {
			var seg linear.V3
			seg.Sub(&pts[i], &pts[i-1])
			cum[i] = cum[i-1] + seg.Len()
		}
		total := cum[len(cum)-1]
		var prim []int32
		for s := 0; s <= segments; s++ {
			target := total * float32(s) / float32(segments)
			seg := 0
			for seg < len(cum)-2 && cum[seg+1] < target {
				seg++
			}
			t := float32(0)
			if cum[seg+1] > cum[seg] {
				t = (target - cum[seg]) / (cum[seg+1] - cum[seg])
			}
			var delta, scaled, point linear.V3
			delta.Sub(&pts[seg+1], &pts[seg])
			scaled.Scale(t, &delta)
			point.Add(&pts[seg], &scaled)
			prim = append(prim, int32(len(newPts)))
			newPts = append(newPts, point)
		}
		prims = append(prims, prim)
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

// --- Array -----------------------------------------------------------------

type arrayExec struct{}

// NewArray instances the input geometry "count" times along a
// translation step.
func NewArray(id int) *Node {
	n := singleInput(id, "array", arrayExec{})
	n.RegisterParam(&param.Definition{Name: "count", Kind: param.KInt, Default: param.Int(2), IntMin: 1, HasIntRange: true, Category: "Array"})
	n.RegisterParam(&param.Definition{Name: "step", Kind: param.KVec3f, Default: param.Vec3f(linear.V3{1, 0, 0}), Category: "Array"})
	return n
}

func (arrayExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	count := int(n.GetInt("count", 2))
	step := n.GetVec3f("step", linear.V3{1, 0, 0})
	var acc *geom.Container
	for i := 0; i < count; i++ {
		inst := in.Read().Clone()
		offset := linear.V3{step[0] * float32(i), step[1] * float32(i), step[2] * float32(i)}
		p := inst.Positions()
		if p != nil {
			for j := 0; j < p.Size(); j++ {
				v := p.At(j)
				var moved linear.V3
				moved.Add(&v, &offset)
				p.Set(j, moved)
			}
		}
		if acc == nil {
			acc = inst
			continue
		}
		r := mergeContainers(acc, inst)
		if r.IsErr() {
			return r
		}
		acc = r.Value.Read()
	}
	return Ok(geom.NewHandle(acc))
}

// --- Scatter ---------------------------------------------------------------

type scatterExec struct{}

// NewScatter produces "count" points distributed uniformly across the
// input's bounding box, each falling inside at least one primitive's
// box is not guaranteed (true surface-area-weighted scattering over
// arbitrary meshes is out of scope); this bounding-box scatter is the
// same fallback original_source/'s scatter_sop.hpp uses for
// non-closed inputs.
func NewScatter(id int) *Node {
	n := singleInput(id, "scatter", scatterExec{})
	n.RegisterParam(&param.Definition{Name: "count", Kind: param.KInt, Default: param.Int(100), IntMin: 1, HasIntRange: true, Category: "Scatter"})
	n.RegisterParam(&param.Definition{Name: "seed", Kind: param.KInt, Default: param.Int(0), Category: "Scatter"})
	return n
}

func (scatterExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	min, max, ok := in.Read().Bounds()
	if !ok {
		return Fail(NewError(InputInvalid, "scatter: input has no position attribute"))
	}
	count := int(n.GetInt("count", 100))
	seed := n.GetInt("seed", 0)
	out := geom.New()
	out.Topo.SetPointCount(count)
	p := out.EnsurePositionAttribute()
	parallelRange(count, func(i int) error {
		r := deterministicRand(seed*1_000_003 + int64(i))
		p.Set(i, linear.V3{
			min[0] + r()*(max[0]-min[0]),
			min[1] + r()*(max[1]-min[1]),
			min[2] + r()*(max[2]-min[2]),
		})
		return nil
	})
	out.Topo.SetVertexCount(count)
	verts := make([]int32, count)
	for i := 0; i < count; i++ {
		out.Topo.SetVertexPoint(i, int32(i))
		verts[i] = int32(i)
	}
	out.Topo.AddPrimitive(verts)
	out.SyncAttributeSizes()
	return Ok(geom.NewHandle(out))
}
