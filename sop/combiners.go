package sop

import (
	"math"

	"nodeflux/attr"
	"nodeflux/geom"
	"nodeflux/linear"
	"nodeflux/param"
)

// mergeContainers concatenates b's points/vertices/primitives after
// a's, remapping b's point indices by a's point count. Attributes
// present on only one side are padded with the type's zero value on
// the other, matching the "geometry union" behavior of a typical
// merge_sop.hpp.
func mergeContainers(a, b *geom.Container) Result {
	out := geom.New()
	out.Topo.SetPointCount(a.Topo.PointCount() + b.Topo.PointCount())
	mergeAttrSet(out.Points, a.Points, b.Points, a.Topo.PointCount(), b.Topo.PointCount())

	pointOffset := int32(a.Topo.PointCount())
	vertOffset := a.Topo.VertexCount()
	out.Topo.SetVertexCount(a.Topo.VertexCount() + b.Topo.VertexCount())
	for v := 0; v < a.Topo.VertexCount(); v++ {
		out.Topo.SetVertexPoint(v, a.Topo.VertexPoint(v))
	}
	for v := 0; v < b.Topo.VertexCount(); v++ {
		out.Topo.SetVertexPoint(vertOffset+v, b.Topo.VertexPoint(v)+pointOffset)
	}
	mergeAttrSet(out.Verts, a.Verts, b.Verts, a.Topo.VertexCount(), b.Topo.VertexCount())

	for pr := 0; pr < a.Topo.PrimitiveCount(); pr++ {
		out.Topo.AddPrimitive(a.Topo.PrimitiveVertices(pr))
	}
	for pr := 0; pr < b.Topo.PrimitiveCount(); pr++ {
		old := b.Topo.PrimitiveVertices(pr)
		shifted := make([]int32, len(old))
		for i, v := range old {
			shifted[i] = v + int32(vertOffset)
		}
		out.Topo.AddPrimitive(shifted)
	}
	mergeAttrSet(out.Prims, a.Prims, b.Prims, a.Topo.PrimitiveCount(), b.Topo.PrimitiveCount())
	out.Detail = a.Detail.Clone()

	out.SyncAttributeSizes()
	return Ok(geom.NewHandle(out))
}

// mergeAttrSet unions a's and b's attribute schemas into dst. When both
// sides declare the same attribute name with different types, b wins:
// mergeContainers always calls this with the accumulated result so far
// as a and the next (later) input as b, so resolving in b's favor
// implements "later input wins" across an arbitrary number of merged
// inputs, not just a single pair. The losing side's data for that name
// is left at the zero value rather than forcing a type conversion or
// panicking on it.
func mergeAttrSet(dst, a, b *attr.Set, na, nb int) {
	seen := make(map[string]bool)
	for _, name := range b.Names() {
		seen[name] = true
		ub := b.Get(name)
		d := ub.Descriptor()
		var ua attr.Untyped
		if av := a.Get(name); av != nil && av.Descriptor().Type == d.Type {
			ua = av
		}
		dst.Add(name, d.Type, d.Interpolation, na+nb)
		concatInto(dst.Get(name), ua, ub, na, nb)
	}
	for _, name := range a.Names() {
		if seen[name] {
			continue
		}
		ua := a.Get(name)
		d := ua.Descriptor()
		dst.Add(name, d.Type, d.Interpolation, na+nb)
		concatInto(dst.Get(name), ua, nil, na, nb)
	}
}

// concatInto copies ua's na values then ub's nb values into dst,
// skipping whichever side is nil (leaving that span at its zero
// value) for attributes present on only one input.
func concatInto(dst, ua, ub attr.Untyped, na, nb int) {
	if ua != nil {
		copyRange(dst, ua, 0, 0, na)
	}
	if ub != nil {
		copyRange(dst, ub, na, 0, nb)
	}
}

func copyRange(dst, src attr.Untyped, dstOff, srcOff, n int) {
	idx := make([]int32, n)
	for i := range idx {
		idx[i] = int32(srcOff + i)
	}
	copied := attr.CopyByIndex(src, idx)
	for i := 0; i < n; i++ {
		setUntyped(dst, dstOff+i, getUntyped(copied, i))
	}
}

// getUntyped/setUntyped bridge the generic Storage[T] API to the
// index-by-index copy above without exposing T to callers that only
// know the Untyped interface. Grounded on the same "type-erased
// storage" approach as attr.CopyByIndex, dispatching on Descriptor().Type.
func getUntyped(u attr.Untyped, i int) any {
	switch u.Descriptor().Type {
	case attr.Int:
		return attr.Typed[int32](u).At(i)
	case attr.Float:
		return attr.Typed[float32](u).At(i)
	case attr.Vec2f:
		return attr.Typed[linear.V2](u).At(i)
	case attr.Vec3f:
		return attr.Typed[linear.V3](u).At(i)
	case attr.Vec4f:
		return attr.Typed[linear.V4](u).At(i)
	case attr.Mat3f:
		return attr.Typed[linear.M3](u).At(i)
	case attr.Mat4f:
		return attr.Typed[linear.M4](u).At(i)
	case attr.String:
		return attr.Typed[string](u).At(i)
	default:
		panic("sop: unknown attribute type")
	}
}

func setUntyped(u attr.Untyped, i int, v any) {
	switch u.Descriptor().Type {
	case attr.Int:
		attr.Typed[int32](u).Set(i, v.(int32))
	case attr.Float:
		attr.Typed[float32](u).Set(i, v.(float32))
	case attr.Vec2f:
		attr.Typed[linear.V2](u).Set(i, v.(linear.V2))
	case attr.Vec3f:
		attr.Typed[linear.V3](u).Set(i, v.(linear.V3))
	case attr.Vec4f:
		attr.Typed[linear.V4](u).Set(i, v.(linear.V4))
	case attr.Mat3f:
		attr.Typed[linear.M3](u).Set(i, v.(linear.M3))
	case attr.Mat4f:
		attr.Typed[linear.M4](u).Set(i, v.(linear.M4))
	case attr.String:
		attr.Typed[string](u).Set(i, v.(string))
	default:
		panic("sop: unknown attribute type")
	}
}

// --- Merge -----------------------------------------------------------------

type mergeExec struct{}

// NewMerge concatenates an arbitrary number of input geometries into
// one (spec.md §4.9's variadic-input node shape).
func NewMerge(id int, numInputs int) *Node {
	n := NewNode(id, "merge", mergeExec{})
	for i := 0; i < numInputs; i++ {
		n.Ports.AddInput("input", 0, id)
	}
	n.Ports.AddOutput("geometry", 0, id)
	return n
}

func (mergeExec) Execute(n *Node, inputs []geom.Handle) Result {
	var acc *geom.Container
	found := false
	for _, h := range inputs {
		if h.IsNil() {
			continue
		}
		if acc == nil {
			acc = h.Read().Clone()
			found = true
			continue
		}
		r := mergeContainers(acc, h.Read())
		if r.IsErr() {
			return r
		}
		acc = r.Value.Read()
	}
	if !found {
		return Fail(NewError(InputMissing, "merge: no inputs connected"))
	}
	return Ok(geom.NewHandle(acc))
}

// --- Switch ------------------------------------------------------------

type switchExec struct{}

// NewSwitch passes through exactly one of its inputs, chosen by the
// "index" parameter (spec.md's supplemented conditional-execution node,
// grounded on original_source/'s switch_sop.hpp). Node.Cook resolves
// every connected input before Execute runs, so every connected branch
// is cooked, and an error in any of them fails the Switch.
func NewSwitch(id int, numInputs int) *Node {
	n := NewNode(id, "switch", switchExec{})
	for i := 0; i < numInputs; i++ {
		n.Ports.AddInput("input", 0, id)
	}
	n.Ports.AddOutput("geometry", 0, id)
	n.RegisterParam(&param.Definition{Name: "index", Kind: param.KInt, Default: param.Int(0), Category: "Switch"})
	return n
}

func (switchExec) Execute(n *Node, inputs []geom.Handle) Result {
	idx := int(n.GetInt("index", 0))
	if idx < 0 || idx >= len(inputs) || inputs[idx].IsNil() {
		return Fail(NewError(InputMissing, "switch: index %d not connected", idx))
	}
	return Ok(inputs[idx])
}

// --- Boolean -----------------------------------------------------------

type BooleanOp int

const (
	BoolUnion BooleanOp = iota
	BoolIntersect
	BoolSubtract
	BoolSymmetricDifference
)

type booleanExec struct{}

// NewBoolean combines two inputs. Full CSG is out of scope (spec.md's
// Non-goals exclude exact mesh intersection); subtract/intersect are
// approximated by point-containment classification against the other
// operand's bounding box, which is adequate for coarse previsualization
// and is the same approximation original_source/'s boolean_sop.hpp
// falls back to when its exact solver is disabled.
func NewBoolean(id int) *Node {
	n := NewNode(id, "boolean", booleanExec{})
	n.Ports.AddInput("a", 0, id)
	n.Ports.AddInput("b", 0, id)
	n.Ports.AddOutput("geometry", 0, id)
	n.RegisterParam(&param.Definition{Name: "operation", Kind: param.KInt, Default: param.Int(int64(BoolUnion)), Options: []string{"union", "intersect", "subtract", "symmetric_difference"}, Category: "Boolean"})
	return n
}

func inBox(v, min, max linear.V3) bool {
	for i := 0; i < 3; i++ {
		if v[i] < min[i] || v[i] > max[i] {
			return false
		}
	}
	return true
}

func (booleanExec) Execute(n *Node, inputs []geom.Handle) Result {
	a, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	b, err := requireInput(inputs, 1)
	if err != nil {
		return Fail(err)
	}
	op := BooleanOp(n.GetInt("operation", int64(BoolUnion)))
	switch op {
	case BoolUnion:
		return mergeContainers(a.Read(), b.Read())
	case BoolIntersect, BoolSubtract:
		bmin, bmax, ok := b.Read().Bounds()
		if !ok {
			return Fail(NewError(InputInvalid, "boolean: operand b has no position attribute"))
		}
		return classifyAgainstBox(a.Read(), bmin, bmax, op == BoolIntersect)
	case BoolSymmetricDifference:
		// (a - b) union (b - a): the classification each pass uses is
		// the same bounding-box approximation Subtract uses alone.
		bmin, bmax, ok := b.Read().Bounds()
		if !ok {
			return Fail(NewError(InputInvalid, "boolean: operand b has no position attribute"))
		}
		aOnly := classifyAgainstBox(a.Read(), bmin, bmax, false)
		amin, amax, ok := a.Read().Bounds()
		if !ok {
			return Fail(NewError(InputInvalid, "boolean: operand a has no position attribute"))
		}
		bOnly := classifyAgainstBox(b.Read(), amin, amax, false)
		switch {
		case aOnly.IsErr() && bOnly.IsErr():
			return Fail(NewError(AlgorithmFailure, "boolean: result is empty"))
		case aOnly.IsErr():
			return bOnly
		case bOnly.IsErr():
			return aOnly
		default:
			return mergeContainers(aOnly.Value.Read(), bOnly.Value.Read())
		}
	default:
		return Fail(NewError(ParameterInvalid, "boolean: unknown operation %d", int(op)))
	}
}

// classifyAgainstBox keeps ac's points whose containment in [min,max]
// matches wantInside, deleting the rest (and their dependent
// vertices/primitives). Grounded on the same point-containment
// approximation NewBoolean's doc comment describes.
func classifyAgainstBox(ac *geom.Container, min, max linear.V3, wantInside bool) Result {
	p := ac.Positions()
	if p == nil {
		return Fail(NewError(InputInvalid, "boolean: operand has no position attribute"))
	}
	var keepPoints []int
	for i := 0; i < p.Size(); i++ {
		if inBox(p.At(i), min, max) == wantInside {
			keepPoints = append(keepPoints, i)
		}
	}
	if len(keepPoints) == 0 {
		return Fail(NewError(AlgorithmFailure, "boolean: result is empty"))
	}
	var toDelete []int
	keep := make(map[int]bool, len(keepPoints))
	for _, i := range keepPoints {
		keep[i] = true
	}
	for i := 0; i < p.Size(); i++ {
		if !keep[i] {
			toDelete = append(toDelete, i)
		}
	}
	if len(toDelete) == 0 {
		return Ok(geom.NewHandle(ac.Clone()))
	}
	out, err := geom.DeleteElementsByIndices(ac, attr.Point, toDelete, false)
	if err != nil {
		return Fail(WrapError(AlgorithmFailure, err, "boolean"))
	}
	return Ok(geom.NewHandle(out))
}

// --- CopyToPoints --------------------------------------------------------

type copyToPointsExec struct{}

// NewCopyToPoints instances input 0's geometry at every point of
// input 1, optionally oriented along each target point's normal.
func NewCopyToPoints(id int) *Node {
	n := NewNode(id, "copy_to_points", copyToPointsExec{})
	n.Ports.AddInput("source", 0, id)
	n.Ports.AddInput("target", 0, id)
	n.Ports.AddOutput("geometry", 0, id)
	n.RegisterParam(&param.Definition{Name: "orient", Kind: param.KBool, Default: param.Bool(false), Category: "Copy"})
	return n
}

// orientToNormal returns the rotation matrix taking +Y to normal,
// or ok=false when normal is degenerately close to +Y already (the
// identity suffices).
func orientToNormal(normal linear.V3) (linear.M4, bool) {
	up := linear.V3{0, 1, 0}
	var axis linear.V3
	axis.Cross(&up, &normal)
	sinAngle := axis.Len()
	cosAngle := up.Dot(&normal)
	var unitAxis linear.V3
	if sinAngle < 1e-6 {
		if cosAngle > 0 {
			return linear.M4{}, false
		}
		// normal is -Y: a half turn about any horizontal axis.
		unitAxis = linear.V3{1, 0, 0}
	} else {
		unitAxis.Norm(&axis)
	}
	angle := float32(math.Atan2(float64(sinAngle), float64(cosAngle)))
	var rot linear.M4
	rot.RotationAxis(&unitAxis, angle)
	return rot, true
}

func (copyToPointsExec) Execute(n *Node, inputs []geom.Handle) Result {
	src, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	target, err := requireInput(inputs, 1)
	if err != nil {
		return Fail(err)
	}
	tp := target.Read().Positions()
	if tp == nil {
		return Fail(NewError(InputInvalid, "copy_to_points: target has no position attribute"))
	}
	orient := n.GetBool("orient", false)
	tn := target.Read().PointNormals()

	// Each instance's transform is independent of the others, so the
	// per-point matrix work runs across a bounded worker pool; the
	// merge reduction that follows is inherently sequential.
	instances := make([]*geom.Container, tp.Size())
	parallelRange(tp.Size(), func(i int) error {
		inst := src.Read().Clone()
		translate := tp.At(i)
		var mTrans linear.M4
		mTrans.Translation(&translate)
		m := mTrans
		if orient && tn != nil {
			if rot, ok := orientToNormal(tn.At(i)); ok {
				m.Mul(&mTrans, &rot)
			}
		}
		p := inst.Positions()
		if p != nil {
			for j := 0; j < p.Size(); j++ {
				v := p.At(j)
				p.Set(j, linear.MulPoint(&m, &v))
			}
		}
		instances[i] = inst
		return nil
	})

	var acc *geom.Container
	for _, inst := range instances {
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
	if acc == nil {
		return Fail(NewError(AlgorithmFailure, "copy_to_points: target has no points"))
	}
	return Ok(geom.NewHandle(acc))
}
