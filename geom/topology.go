// Package geom implements the procedural geometry container: element
// topology, per-class attribute sets, copy-on-write handles, and the
// group layer built on top of attribute storage.
package geom

// Topology holds the point/vertex/primitive counts and the two
// index mappings that tie them together: vertex_point (each vertex
// references exactly one point) and primitive_vertices (each
// primitive owns an ordered, disjoint run of vertices).
type Topology struct {
	pointCount int
	vertPoint  []int32 // vertex index -> point index
	primVerts  [][]int32
}

// PointCount returns the number of points.
func (t *Topology) PointCount() int { return t.pointCount }

// VertexCount returns the number of vertices.
func (t *Topology) VertexCount() int { return len(t.vertPoint) }

// PrimitiveCount returns the number of primitives.
func (t *Topology) PrimitiveCount() int { return len(t.primVerts) }

// SetPointCount truncates or extends the point count.
func (t *Topology) SetPointCount(n int) { t.pointCount = n }

// SetVertexCount truncates or extends vertex_point, zero-initializing
// (point index 0) any new entries.
func (t *Topology) SetVertexCount(n int) {
	if n <= len(t.vertPoint) {
		t.vertPoint = t.vertPoint[:n]
		return
	}
	grown := make([]int32, n)
	copy(grown, t.vertPoint)
	t.vertPoint = grown
}

// SetPrimitiveCount truncates or extends primitive_vertices,
// initializing any new primitive to an empty vertex list.
func (t *Topology) SetPrimitiveCount(n int) {
	if n <= len(t.primVerts) {
		t.primVerts = t.primVerts[:n]
		return
	}
	grown := make([][]int32, n)
	copy(grown, t.primVerts)
	t.primVerts = grown
}

// AddPrimitive appends a primitive with the given ordered vertex
// indices and returns its index. No ownership validation is
// performed; the caller is responsible for correct vertex ownership
// (spec.md §4.1).
func (t *Topology) AddPrimitive(verts []int32) int {
	cp := append([]int32(nil), verts...)
	t.primVerts = append(t.primVerts, cp)
	return len(t.primVerts) - 1
}

// PrimitiveVertices returns the ordered vertex list of a primitive.
// The returned slice must be treated as read-only by callers outside
// this package; use SetVertexPoint/AddPrimitive to mutate topology.
func (t *Topology) PrimitiveVertices(prim int) []int32 { return t.primVerts[prim] }

// VertexPoint returns the point index a vertex references.
func (t *Topology) VertexPoint(vert int) int32 { return t.vertPoint[vert] }

// SetVertexPoint sets the point index a vertex references.
func (t *Topology) SetVertexPoint(vert int, point int32) { t.vertPoint[vert] = point }

// Validate reports whether every stored index is in range: every
// vertex_point entry is a valid point index, and every vertex
// referenced by a primitive is a valid vertex index.
func (t *Topology) Validate() bool {
	for _, p := range t.vertPoint {
		if p < 0 || int(p) >= t.pointCount {
			return false
		}
	}
	nv := int32(len(t.vertPoint))
	for _, verts := range t.primVerts {
		for _, v := range verts {
			if v < 0 || v >= nv {
				return false
			}
		}
	}
	return true
}

// Clear resets all counts and mappings to empty.
func (t *Topology) Clear() {
	t.pointCount = 0
	t.vertPoint = nil
	t.primVerts = nil
}

// Clone returns a deep copy.
func (t *Topology) Clone() Topology {
	cp := Topology{
		pointCount: t.pointCount,
		vertPoint:  append([]int32(nil), t.vertPoint...),
		primVerts:  make([][]int32, len(t.primVerts)),
	}
	for i, v := range t.primVerts {
		cp.primVerts[i] = append([]int32(nil), v...)
	}
	return cp
}
