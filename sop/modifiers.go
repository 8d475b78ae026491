package sop

import (
	"math"
	"math/rand"

	"nodeflux/attr"
	"nodeflux/geom"
	"nodeflux/linear"
	"nodeflux/param"
)

func singleInput(id int, typeName string, exec Executor) *Node {
	n := NewNode(id, typeName, exec)
	n.Ports.AddInput("geometry", 0, id)
	n.Ports.AddOutput("geometry", 0, id)
	return n
}

func requireInput(inputs []geom.Handle, i int) (geom.Handle, error) {
	if i >= len(inputs) || inputs[i].IsNil() {
		return geom.Handle{}, NewError(InputMissing, "input %d is not connected", i)
	}
	return inputs[i], nil
}

// --- Transform -----------------------------------------------------------

type transformExec struct{}

// NewTransform applies a translate/rotate/scale matrix to point
// positions (and, when present, point normals via the rotation part
// only). Honors input_group: only member points are moved.
func NewTransform(id int) *Node {
	n := singleInput(id, "transform", transformExec{})
	n.RegisterParam(&param.Definition{Name: "translate", Kind: param.KVec3f, Default: param.Vec3f(linear.V3{}), Category: "Transform"})
	n.RegisterParam(&param.Definition{Name: "rotate", Kind: param.KVec3f, Default: param.Vec3f(linear.V3{}), Category: "Transform", Description: "euler angles in degrees, XYZ order"})
	n.RegisterParam(&param.Definition{Name: "scale", Kind: param.KVec3f, Default: param.Vec3f(linear.V3{1, 1, 1}), Category: "Transform"})
	return n
}

func (transformExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	t := n.GetVec3f("translate", linear.V3{})
	rot := n.GetVec3f("rotate", linear.V3{})
	s := n.GetVec3f("scale", linear.V3{1, 1, 1})

	var mScale, mRotX, mRotY, mRotZ, m M4chain
	mScale.Scaling(&s)
	mRotX.RotationX(linear.Deg2Rad(rot[0]))
	mRotY.RotationY(linear.Deg2Rad(rot[1]))
	mRotZ.RotationZ(linear.Deg2Rad(rot[2]))
	var rxy linear.M4
	rxy.Mul(&mRotY, &mRotX)
	var rxyz linear.M4
	rxyz.Mul(&mRotZ, &rxy)
	var srot linear.M4
	srot.Mul(&rxyz, &mScale)
	var mTrans linear.M4
	mTrans.Translation(&t)
	m.Mul(&mTrans, &srot)

	out := in.Clone()
	c := out.Read()
	members, filtered := ApplyGroupFilter(in, n.InputGroup(), attr.Point)
	p := c.Positions()
	if p == nil {
		return Ok(out)
	}
	apply := func(i int) {
		v := p.At(i)
		p.Set(i, linear.MulPoint(&m, &v))
	}
	if filtered {
		for _, i := range members {
			apply(i)
		}
	} else {
		for i := 0; i < p.Size(); i++ {
			apply(i)
		}
	}
	if nrm := c.PointNormals(); nrm != nil {
		applyN := func(i int) {
			v := nrm.At(i)
			r := linear.MulDir(&rxyz, &v)
			var norm linear.V3
			norm.Norm(&r)
			nrm.Set(i, norm)
		}
		if filtered {
			for _, i := range members {
				applyN(i)
			}
		} else {
			for i := 0; i < nrm.Size(); i++ {
				applyN(i)
			}
		}
	}
	return Ok(out)
}

// M4chain is linear.M4 under a local alias so Mul/Scaling/Rotation*
// method calls above read left-to-right in composition order.
type M4chain = linear.M4

// --- Mirror ----------------------------------------------------------------

type mirrorExec struct{}

// NewMirror reflects geometry across one of the three axis-aligned
// planes through the origin, or an arbitrary custom(point, normal)
// plane (spec.md §6's "Mirror(plane ∈ {XY, XZ, YZ, custom(point,
// normal)}, keep_original)").
func NewMirror(id int) *Node {
	n := singleInput(id, "mirror", mirrorExec{})
	n.RegisterParam(&param.Definition{Name: "plane", Kind: param.KInt, Default: param.Int(0), Options: []string{"xy", "xz", "yz", "custom"}, Category: "Mirror"})
	n.RegisterParam(&param.Definition{Name: "point", Kind: param.KVec3f, Default: param.Vec3f(linear.V3{}), Category: "Mirror", Description: "a point on the custom plane"})
	n.RegisterParam(&param.Definition{Name: "normal", Kind: param.KVec3f, Default: param.Vec3f(linear.V3{0, 0, 1}), Category: "Mirror", Description: "the custom plane's normal"})
	n.RegisterParam(&param.Definition{Name: "merge", Kind: param.KBool, Default: param.Bool(true), Category: "Mirror", Description: "merge the mirrored copy with the original"})
	return n
}

// planeNormals gives each axis-aligned plane's unit normal: reflecting
// across plane XY flips Z, across XZ flips Y, across YZ flips X.
var planeNormals = [3]linear.V3{
	{0, 0, 1}, // xy
	{0, 1, 0}, // xz
	{1, 0, 0}, // yz
}

func (mirrorExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	plane := int(n.GetInt("plane", 0))
	point := linear.V3{}
	var normal linear.V3
	if plane >= 0 && plane < len(planeNormals) {
		normal = planeNormals[plane]
	} else {
		point = n.GetVec3f("point", linear.V3{})
		normal = n.GetVec3f("normal", linear.V3{0, 0, 1})
		if l := normal.Len(); l > 1e-6 {
			normal.Scale(1/l, &normal)
		} else {
			return Fail(NewError(ParameterInvalid, "mirror: custom plane normal must be non-zero"))
		}
	}

	mirrored := in.Clone()
	mc := mirrored.Read()
	p := mc.Positions()
	if p != nil {
		for i := 0; i < p.Size(); i++ {
			p.Set(i, reflectAcrossPlane(p.At(i), point, normal))
		}
	}
	if nrm := mc.PointNormals(); nrm != nil {
		for i := 0; i < nrm.Size(); i++ {
			nrm.Set(i, reflectAcrossPlane(nrm.At(i), linear.V3{}, normal))
		}
	}
	// Mirroring flips winding; reverse every primitive's vertex order.
	for pr := 0; pr < mc.Topo.PrimitiveCount(); pr++ {
		verts := mc.Topo.PrimitiveVertices(pr)
		for i, j := 0, len(verts)-1; i < j; i, j = i+1, j-1 {
			verts[i], verts[j] = verts[j], verts[i]
		}
	}
	if !n.GetBool("merge", true) {
		return Ok(mirrored)
	}
	return mergeContainers(in.Read(), mc)
}

// reflectAcrossPlane mirrors v across the plane through point with the
// given unit normal: v' = v - 2*dot(v-point, normal)*normal.
func reflectAcrossPlane(v, point, normal linear.V3) linear.V3 {
	var d linear.V3
	d.Sub(&v, &point)
	dist := d.Dot(&normal)
	var offset linear.V3
	offset.Scale(2*dist, &normal)
	var out linear.V3
	out.Sub(&v, &offset)
	return out
}

// --- Align -----------------------------------------------------------------

type alignExec struct{}

// NewAlign recenters geometry so its bounding-box center sits at the
// origin (or an explicit target point).
func NewAlign(id int) *Node {
	n := singleInput(id, "align", alignExec{})
	n.RegisterParam(&param.Definition{Name: "target", Kind: param.KVec3f, Default: param.Vec3f(linear.V3{}), Category: "Align"})
	return n
}

func (alignExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	min, max, ok := in.Read().Bounds()
	if !ok {
		return Ok(in)
	}
	var center, sum linear.V3
	sum.Add(&min, &max)
	center.Scale(0.5, &sum)
	target := n.GetVec3f("target", linear.V3{})
	var offset linear.V3
	offset.Sub(&target, &center)

	out := in.Clone()
	p := out.Read().Positions()
	for i := 0; i < p.Size(); i++ {
		v := p.At(i)
		var moved linear.V3
		moved.Add(&v, &offset)
		p.Set(i, moved)
	}
	return Ok(out)
}

// --- Bend ------------------------------------------------------------------

type bendExec struct{}

// NewBend bends geometry along the chosen axis (Y by default) by angle degrees, the
// classic "bend deformer" (grounded on original_source/'s bend_sop.hpp).
func NewBend(id int) *Node {
	n := singleInput(id, "bend", bendExec{})
	n.RegisterParam(&param.Definition{Name: "angle", Kind: param.KFloat, Default: param.Float(45), Category: "Deform"})
	n.RegisterParam(&param.Definition{Name: "axis", Kind: param.KInt, Default: param.Int(1), Options: []string{"x", "y", "z"}, Category: "Deform"})
	return n
}

func (bendExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	angleDeg := n.GetFloat("angle", 45)
	axis := int(n.GetInt("axis", 1))
	min, max, ok := in.Read().Bounds()
	if !ok {
		return Ok(in)
	}
	extent := max[axis] - min[axis]
	totalRad := float64(linear.Deg2Rad(angleDeg))
	if extent == 0 || totalRad == 0 {
		return Ok(in)
	}
	radius := float64(extent) / totalRad
	disp := (axis + 1) % 3

	out := in.Clone()
	p := out.Read().Positions()
	for i := 0; i < p.Size(); i++ {
		v := p.At(i)
		t := float64(v[axis]-min[axis]) / float64(extent)
		theta := totalRad * t
		v[axis] = min[axis] + float32(radius*math.Sin(theta))
		v[disp] = v[disp] + float32(radius*(1-math.Cos(theta)))
		p.Set(i, v)
	}
	return Ok(out)
}

// --- Twist -------------------------------------------------------------

type twistExec struct{}

// NewTwist rotates points around the Y axis by an angle that varies
// linearly along Y, producing a twist deformation.
func NewTwist(id int) *Node {
	n := singleInput(id, "twist", twistExec{})
	n.RegisterParam(&param.Definition{Name: "angle", Kind: param.KFloat, Default: param.Float(90), Category: "Deform", Description: "total twist in degrees over the geometry's Y extent"})
	return n
}

func (twistExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	angleDeg := n.GetFloat("angle", 90)
	min, max, ok := in.Read().Bounds()
	if !ok {
		return Ok(in)
	}
	extent := max[1] - min[1]
	out := in.Clone()
	p := out.Read().Positions()
	for i := 0; i < p.Size(); i++ {
		v := p.At(i)
		t := float32(0)
		if extent != 0 {
			t = (v[1] - min[1]) / extent
		}
		theta := linear.Deg2Rad(angleDeg * t)
		var rot linear.M4
		rot.RotationY(theta)
		p.Set(i, linear.MulPoint(&rot, &v))
	}
	return Ok(out)
}

// --- Normal ------------------------------------------------------------

type normalExec struct{}

// NewNormal computes per-vertex face normals and, optionally, averages
// them per-point for smooth shading.
func NewNormal(id int) *Node {
	n := singleInput(id, "normal", normalExec{})
	n.RegisterParam(&param.Definition{Name: "smooth", Kind: param.KBool, Default: param.Bool(true), Category: "Normal"})
	return n
}

func (normalExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	out := in.Clone()
	c := out.Read()
	p := c.Positions()
	if p == nil {
		return Fail(NewError(InputInvalid, "normal: missing position attribute"))
	}
	c.EnsureNormalAttribute()
	vn := c.Verts.Get("N")
	if vn == nil {
		c.Verts.Add("N", attr.Vec3f, attr.Linear, c.Topo.VertexCount())
	}
	vertN := c.VertexNormals()
	pointAccum := make([]linear.V3, c.Topo.PointCount())
	pointCount := make([]int, c.Topo.PointCount())

	for pr := 0; pr < c.Topo.PrimitiveCount(); pr++ {
		verts := c.Topo.PrimitiveVertices(pr)
		if len(verts) < 3 {
			continue
		}
		p0 := p.At(int(c.Topo.VertexPoint(int(verts[0]))))
		p1 := p.At(int(c.Topo.VertexPoint(int(verts[1]))))
		p2 := p.At(int(c.Topo.VertexPoint(int(verts[2]))))
		var e1, e2, fn, norm linear.V3
		e1.Sub(&p1, &p0)
		e2.Sub(&p2, &p0)
		fn.Cross(&e1, &e2)
		norm.Norm(&fn)
		for _, v := range verts {
			vertN.Set(int(v), norm)
			pt := int(c.Topo.VertexPoint(int(v)))
			pointAccum[pt].Add(&pointAccum[pt], &norm)
			pointCount[pt]++
		}
	}
	if n.GetBool("smooth", true) {
		pn := c.EnsureNormalAttribute()
		for i := range pointAccum {
			if pointCount[i] == 0 {
				continue
			}
			var norm linear.V3
			norm.Norm(&pointAccum[i])
			pn.Set(i, norm)
		}
	}
	return Ok(out)
}

// --- NoiseDisplacement -------------------------------------------------

type noiseExec struct{}

// NewNoiseDisplacement displaces points along their normal (or world Y
// if absent) by a pseudo-random amount seeded deterministically per
// point index, so reruns at the same seed reproduce the same shape.
func NewNoiseDisplacement(id int) *Node {
	n := singleInput(id, "noise_displacement", noiseExec{})
	n.RegisterParam(&param.Definition{Name: "amplitude", Kind: param.KFloat, Default: param.Float(0.1), Category: "Noise"})
	n.RegisterParam(&param.Definition{Name: "seed", Kind: param.KInt, Default: param.Int(0), Category: "Noise"})
	return n
}

func (noiseExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	amp := n.GetFloat("amplitude", 0.1)
	seed := n.GetInt("seed", 0)
	out := in.Clone()
	c := out.Read()
	p := c.Positions()
	if p == nil {
		return Fail(NewError(InputInvalid, "noise: missing position attribute"))
	}
	nrm := c.PointNormals()
	parallelRange(p.Size(), func(i int) error {
		r := rand.New(rand.NewSource(seed*1_000_003 + int64(i)))
		d := (r.Float32()*2 - 1) * amp
		v := p.At(i)
		dir := linear.V3{0, 1, 0}
		if nrm != nil {
			dir = nrm.At(i)
		}
		var disp linear.V3
		disp.Scale(d, &dir)
		var moved linear.V3
		moved.Add(&v, &disp)
		p.Set(i, moved)
		return nil
	})
	return Ok(out)
}
