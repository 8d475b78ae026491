package sop

import (
	"math"

	"nodeflux/attr"
	"nodeflux/geom"
	"nodeflux/linear"
	"nodeflux/param"
)

// Generators have no input ports; Execute receives an empty inputs
// slice and builds geometry from parameters alone.

// --- Box ---------------------------------------------------------------

type boxExec struct{}

// NewBox builds a rectangular box primitive: 8 points, 6 quad
// primitives and per-vertex UVs. No normal attribute is written.
func NewBox(id int) *Node {
	n := NewNode(id, "box", boxExec{})
	n.Ports.AddOutput("geometry", 0, id)
	n.RegisterParam(&param.Definition{Name: "size", Kind: param.KVec3f, Default: param.Vec3f(linear.V3{1, 1, 1}), Category: "Shape"})
	n.RegisterParam(&param.Definition{Name: "center", Kind: param.KVec3f, Default: param.Vec3f(linear.V3{}), Category: "Shape"})
	return n
}

var boxFaces = [6][4]int{
	{0, 1, 2, 3}, {5, 4, 7, 6}, {4, 0, 3, 7}, {1, 5, 6, 2}, {4, 5, 1, 0}, {3, 2, 6, 7},
}

func (boxExec) Execute(n *Node, _ []geom.Handle) Result {
	size := n.GetVec3f("size", linear.V3{1, 1, 1})
	center := n.GetVec3f("center", linear.V3{})
	hx, hy, hz := size[0]/2, size[1]/2, size[2]/2
	corners := [8]linear.V3{
		{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {-hx, hy, -hz},
		{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz},
	}

	c := geom.New()
	c.Topo.SetPointCount(8)
	p := c.EnsurePositionAttribute()
	for i, v := range corners {
		pos := linear.V3{v[0] + center[0], v[1] + center[1], v[2] + center[2]}
		p.Set(i, pos)
	}
	for _, f := range boxFaces {
		c.Topo.AddPrimitive([]int32{int32(f[0]), int32(f[1]), int32(f[2]), int32(f[3])})
	}
	// AddPrimitive above was given point indices; give every face
	// corner its own vertex.
	c, _ = rebuildFromPointLists(c, c.Topo.PointCount())
	c.Verts.Add("uv", attr.Vec2f, attr.Linear, c.Topo.VertexCount())
	uv := c.UVs()
	uvCorner := [4]linear.V2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	v := 0
	for range boxFaces {
		for k := 0; k < 4; k++ {
			uv.Set(v, uvCorner[k])
			v++
		}
	}
	return Ok(geom.NewHandle(c))
}

// --- Grid (aka Plane) ---------------------------------------------------

type gridExec struct{}

// NewGrid builds a flat subdivided rectangle in the XZ plane. spec.md's
// serialization schema keeps "Plane" as a backward-compatible type
// alias for the same operator (see serialize package).
func NewGrid(id int) *Node {
	n := NewNode(id, "grid", gridExec{})
	n.Ports.AddOutput("geometry", 0, id)
	n.RegisterParam(&param.Definition{Name: "size_x", Kind: param.KFloat, Default: param.Float(1), Category: "Shape"})
	n.RegisterParam(&param.Definition{Name: "size_z", Kind: param.KFloat, Default: param.Float(1), Category: "Shape"})
	n.RegisterParam(&param.Definition{Name: "rows", Kind: param.KInt, Default: param.Int(2), IntMin: 2, HasIntRange: true, Category: "Shape"})
	n.RegisterParam(&param.Definition{Name: "cols", Kind: param.KInt, Default: param.Int(2), IntMin: 2, HasIntRange: true, Category: "Shape"})
	return n
}

func (gridExec) Execute(n *Node, _ []geom.Handle) Result {
	sx := n.GetFloat("size_x", 1)
	sz := n.GetFloat("size_z", 1)
	rows := int(n.GetInt("rows", 2))
	cols := int(n.GetInt("cols", 2))
	if rows < 2 || cols < 2 {
		return Fail(NewError(ParameterInvalid, "grid: rows and cols must be >= 2"))
	}

	c := geom.New()
	c.Topo.SetPointCount(rows * cols)
	p := c.EnsurePositionAttribute()
	idx := func(r, col int) int32 { return int32(r*cols + col) }
	for r := 0; r < rows; r++ {
		for col := 0; col < cols; col++ {
			u := float32(col) / float32(cols-1)
			v := float32(r) / float32(rows-1)
			x := (u - 0.5) * sx
			z := (v - 0.5) * sz
			p.Set(int(idx(r, col)), linear.V3{x, 0, z})
		}
	}
	for r := 0; r < rows-1; r++ {
		for col := 0; col < cols-1; col++ {
			c.Topo.AddPrimitive([]int32{idx(r, col), idx(r, col+1), idx(r+1, col+1), idx(r+1, col)})
		}
	}
	c, _ = rebuildFromPointLists(c, c.Topo.PointCount())
	c.Verts.Add("uv", attr.Vec2f, attr.Linear, c.Topo.VertexCount())
	uv := c.UVs()
	vi := 0
	for r := 0; r < rows-1; r++ {
		for col := 0; col < cols-1; col++ {
			corners := [4][2]float32{
				{float32(col) / float32(cols-1), float32(r) / float32(rows-1)},
				{float32(col+1) / float32(cols-1), float32(r) / float32(rows-1)},
				{float32(col+1) / float32(cols-1), float32(r+1) / float32(rows-1)},
				{float32(col) / float32(cols-1), float32(r+1) / float32(rows-1)},
			}
			for _, uvv := range corners {
				uv.Set(vi, linear.V2{uvv[0], uvv[1]})
				vi++
			}
		}
	}
	return Ok(geom.NewHandle(c))
}

// --- Line ----------------------------------------------------------------

type lineExec struct{}

// NewLine builds an open polyline of evenly spaced points.
func NewLine(id int) *Node {
	n := NewNode(id, "line", lineExec{})
	n.Ports.AddOutput("geometry", 0, id)
	n.RegisterParam(&param.Definition{Name: "origin", Kind: param.KVec3f, Default: param.Vec3f(linear.V3{}), Category: "Shape"})
	n.RegisterParam(&param.Definition{Name: "direction", Kind: param.KVec3f, Default: param.Vec3f(linear.V3{1, 0, 0}), Category: "Shape"})
	n.RegisterParam(&param.Definition{Name: "length", Kind: param.KFloat, Default: param.Float(1), Category: "Shape"})
	n.RegisterParam(&param.Definition{Name: "points", Kind: param.KInt, Default: param.Int(2), IntMin: 2, HasIntRange: true, Category: "Shape"})
	return n
}

func (lineExec) Execute(n *Node, _ []geom.Handle) Result {
	origin := n.GetVec3f("origin", linear.V3{})
	dir := n.GetVec3f("direction", linear.V3{1, 0, 0})
	length := n.GetFloat("length", 1)
	count := int(n.GetInt("points", 2))
	if count < 2 {
		return Fail(NewError(ParameterInvalid, "line: points must be >= 2"))
	}
	var norm linear.V3
	norm.Norm(&dir)

	c := geom.New()
	c.Topo.SetPointCount(count)
	p := c.EnsurePositionAttribute()
	verts := make([]int32, count)
	for i := 0; i < count; i++ {
		t := length * float32(i) / float32(count-1)
		var step, pos linear.V3
		step.Scale(t, &norm)
		pos.Add(&origin, &step)
		p.Set(i, pos)
		verts[i] = int32(i)
	}
	c.Topo.AddPrimitive(verts)
	c, _ = rebuildFromPointLists(c, c.Topo.PointCount())
	return Ok(geom.NewHandle(c))
}

// --- Sphere ----------------------------------------------------------------

type sphereExec struct{}

// NewSphere builds a UV sphere.
func NewSphere(id int) *Node {
	n := NewNode(id, "sphere", sphereExec{})
	n.Ports.AddOutput("geometry", 0, id)
	n.RegisterParam(&param.Definition{Name: "radius", Kind: param.KFloat, Default: param.Float(1), Category: "Shape"})
	n.RegisterParam(&param.Definition{Name: "rows", Kind: param.KInt, Default: param.Int(12), IntMin: 3, HasIntRange: true, Category: "Shape"})
	n.RegisterParam(&param.Definition{Name: "cols", Kind: param.KInt, Default: param.Int(16), IntMin: 3, HasIntRange: true, Category: "Shape"})
	return n
}

func (sphereExec) Execute(n *Node, _ []geom.Handle) Result {
	radius := n.GetFloat("radius", 1)
	rows := int(n.GetInt("rows", 12))
	cols := int(n.GetInt("cols", 16))
	if rows < 3 || cols < 3 {
		return Fail(NewError(ParameterInvalid, "sphere: rows and cols must be >= 3"))
	}

	c := geom.New()
	// rows+1 latitude rings of cols points each, plus the two poles.
	npoints := (rows+1)*cols + 2
	c.Topo.SetPointCount(npoints)
	p := c.EnsurePositionAttribute()
	ptIdx := func(ring, col int) int32 { return int32(1 + ring*cols + col%cols) }
	north := int32(0)
	south := int32(npoints - 1)
	p.Set(int(north), linear.V3{0, radius, 0})
	p.Set(int(south), linear.V3{0, -radius, 0})
	for ring := 0; ring <= rows; ring++ {
		phi := math.Pi * float64(ring+1) / float64(rows+2)
		y := radius * float32(math.Cos(phi))
		r := radius * float32(math.Sin(phi))
		for col := 0; col < cols; col++ {
			theta := 2 * math.Pi * float64(col) / float64(cols)
			x := r * float32(math.Cos(theta))
			z := r * float32(math.Sin(theta))
			p.Set(int(ptIdx(ring, col)), linear.V3{x, y, z})
		}
	}
	for col := 0; col < cols; col++ {
		c.Topo.AddPrimitive([]int32{north, ptIdx(0, col+1), ptIdx(0, col)})
	}
	for ring := 0; ring < rows; ring++ {
		for col := 0; col < cols; col++ {
			c.Topo.AddPrimitive([]int32{
				ptIdx(ring, col), ptIdx(ring, col+1), ptIdx(ring+1, col+1), ptIdx(ring+1, col),
			})
		}
	}
	for col := 0; col < cols; col++ {
		c.Topo.AddPrimitive([]int32{ptIdx(rows, col), ptIdx(rows, col+1), south})
	}
	c, _ = rebuildFromPointLists(c, c.Topo.PointCount())
	return Ok(geom.NewHandle(c))
}

// --- Cylinder --------------------------------------------------------------

type cylinderExec struct{}

func NewCylinder(id int) *Node {
	n := NewNode(id, "cylinder", cylinderExec{})
	n.Ports.AddOutput("geometry", 0, id)
	n.RegisterParam(&param.Definition{Name: "radius", Kind: param.KFloat, Default: param.Float(1), Category: "Shape"})
	n.RegisterParam(&param.Definition{Name: "height", Kind: param.KFloat, Default: param.Float(2), Category: "Shape"})
	n.RegisterParam(&param.Definition{Name: "cols", Kind: param.KInt, Default: param.Int(16), IntMin: 3, HasIntRange: true, Category: "Shape"})
	n.RegisterParam(&param.Definition{Name: "cap", Kind: param.KBool, Default: param.Bool(true), Category: "Shape"})
	return n
}

func (cylinderExec) Execute(n *Node, _ []geom.Handle) Result {
	radius := n.GetFloat("radius", 1)
	height := n.GetFloat("height", 2)
	cols := int(n.GetInt("cols", 16))
	cap := n.GetBool("cap", true)
	if cols < 3 {
		return Fail(NewError(ParameterInvalid, "cylinder: cols must be >= 3"))
	}

	c := geom.New()
	npoints := 2 * cols
	if cap {
		npoints += 2
	}
	c.Topo.SetPointCount(npoints)
	p := c.EnsurePositionAttribute()
	top := func(col int) int32 { return int32(col % cols) }
	bot := func(col int) int32 { return int32(cols + col%cols) }
	for col := 0; col < cols; col++ {
		theta := 2 * math.Pi * float64(col) / float64(cols)
		x := radius * float32(math.Cos(theta))
		z := radius * float32(math.Sin(theta))
		p.Set(int(top(col)), linear.V3{x, height / 2, z})
		p.Set(int(bot(col)), linear.V3{x, -height / 2, z})
	}
	for col := 0; col < cols; col++ {
		c.Topo.AddPrimitive([]int32{top(col), top(col + 1), bot(col + 1), bot(col)})
	}
	if cap {
		topCenter := int32(2 * cols)
		botCenter := int32(2*cols + 1)
		p.Set(int(topCenter), linear.V3{0, height / 2, 0})
		p.Set(int(botCenter), linear.V3{0, -height / 2, 0})
		for col := 0; col < cols; col++ {
			c.Topo.AddPrimitive([]int32{topCenter, top(col), top(col + 1)})
			c.Topo.AddPrimitive([]int32{botCenter, bot(col + 1), bot(col)})
		}
	}
	c, _ = rebuildFromPointLists(c, c.Topo.PointCount())
	return Ok(geom.NewHandle(c))
}

// --- Torus -------------------------------------------------------------

type torusExec struct{}

func NewTorus(id int) *Node {
	n := NewNode(id, "torus", torusExec{})
	n.Ports.AddOutput("geometry", 0, id)
	n.RegisterParam(&param.Definition{Name: "major_radius", Kind: param.KFloat, Default: param.Float(1), Category: "Shape"})
	n.RegisterParam(&param.Definition{Name: "minor_radius", Kind: param.KFloat, Default: param.Float(0.25), Category: "Shape"})
	n.RegisterParam(&param.Definition{Name: "major_segs", Kind: param.KInt, Default: param.Int(24), IntMin: 3, HasIntRange: true, Category: "Shape"})
	n.RegisterParam(&param.Definition{Name: "minor_segs", Kind: param.KInt, Default: param.Int(12), IntMin: 3, HasIntRange: true, Category: "Shape"})
	return n
}

func (torusExec) Execute(n *Node, _ []geom.Handle) Result {
	R := n.GetFloat("major_radius", 1)
	r := n.GetFloat("minor_radius", 0.25)
	majorSegs := int(n.GetInt("major_segs", 24))
	minorSegs := int(n.GetInt("minor_segs", 12))
	if majorSegs < 3 || minorSegs < 3 {
		return Fail(NewError(ParameterInvalid, "torus: segment counts must be >= 3"))
	}

	c := geom.New()
	c.Topo.SetPointCount(majorSegs * minorSegs)
	p := c.EnsurePositionAttribute()
	idx := func(i, j int) int32 { return int32((i%majorSegs)*minorSegs + j%minorSegs) }
	for i := 0; i < majorSegs; i++ {
		theta := 2 * math.Pi * float64(i) / float64(majorSegs)
		for j := 0; j < minorSegs; j++ {
			phi := 2 * math.Pi * float64(j) / float64(minorSegs)
			x := (float64(R) + float64(r)*math.Cos(phi)) * math.Cos(theta)
			z := (float64(R) + float64(r)*math.Cos(phi)) * math.Sin(theta)
			y := float64(r) * math.Sin(phi)
			p.Set(int(idx(i, j)), linear.V3{float32(x), float32(y), float32(z)})
		}
	}
	for i := 0; i < majorSegs; i++ {
		for j := 0; j < minorSegs; j++ {
			c.Topo.AddPrimitive([]int32{idx(i, j), idx(i+1, j), idx(i+1, j+1), idx(i, j+1)})
		}
	}
	c, _ = rebuildFromPointLists(c, c.Topo.PointCount())
	return Ok(geom.NewHandle(c))
}

// --- Time ------------------------------------------------------------------

type timeExec struct{}

// NewTime is a zero-input generator exposing the engine's current
// cook time as a detail float attribute "time" and an int "frame",
// so downstream Wrangle expressions can animate (spec.md's
// supplemented time-dependent cook, grounded on original_source/'s
// execution_engine.hpp frame stepping).
func NewTime(id int) *Node {
	n := NewNode(id, "time", timeExec{})
	n.Ports.AddOutput("geometry", 0, id)
	n.RegisterParam(&param.Definition{Name: "time", Kind: param.KFloat, Default: param.Float(0), Category: "Time"})
	n.RegisterParam(&param.Definition{Name: "frame", Kind: param.KInt, Default: param.Int(0), Category: "Time"})
	return n
}

func (timeExec) Execute(n *Node, _ []geom.Handle) Result {
	c := geom.New()
	c.Detail.Add("time", attr.Float, attr.Constant, 1)
	c.Detail.Add("frame", attr.Int, attr.Constant, 1)
	attr.Get[float32](c.Detail, "time").Set(0, n.GetFloat("time", 0))
	attr.Get[int32](c.Detail, "frame").Set(0, int32(n.GetInt("frame", 0)))
	return Ok(geom.NewHandle(c))
}
