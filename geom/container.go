package geom

import (
	"github.com/pkg/errors"

	"nodeflux/attr"
	"nodeflux/linear"
)

// Container owns one Topology and four attribute Sets, one per
// element Class. It is created empty and mutated only by the owning
// SOP during its execute(), per spec.md §3's lifecycle note.
type Container struct {
	Topo   Topology
	Points *attr.Set
	Verts  *attr.Set
	Prims  *attr.Set
	Detail *attr.Set
}

// New creates an empty container with the four standard attribute
// sets and no standard attributes populated.
func New() *Container {
	c := &Container{
		Points: attr.NewSet(attr.Point),
		Verts:  attr.NewSet(attr.Vertex),
		Prims:  attr.NewSet(attr.Primitive),
		Detail: attr.NewSet(attr.Detail),
	}
	c.Detail.Resize(1)
	return c
}

// Set returns the attribute Set for a given element class.
func (c *Container) Set(class attr.Class) *attr.Set {
	switch class {
	case attr.Point:
		return c.Points
	case attr.Vertex:
		return c.Verts
	case attr.Primitive:
		return c.Prims
	case attr.Detail:
		return c.Detail
	default:
		return nil
	}
}

// Count returns the current element count for a given class.
func (c *Container) Count(class attr.Class) int {
	switch class {
	case attr.Point:
		return c.Topo.PointCount()
	case attr.Vertex:
		return c.Topo.VertexCount()
	case attr.Primitive:
		return c.Topo.PrimitiveCount()
	case attr.Detail:
		return 1
	default:
		return 0
	}
}

// SyncAttributeSizes resizes every attribute set to match the
// topology's current counts. SOPs call this after mutating Topo
// directly so attribute storages stay in lockstep.
func (c *Container) SyncAttributeSizes() {
	c.Points.Resize(c.Topo.PointCount())
	c.Verts.Resize(c.Topo.VertexCount())
	c.Prims.Resize(c.Topo.PrimitiveCount())
	c.Detail.Resize(1)
}

// Positions returns the point "P" storage, or nil if absent.
func (c *Container) Positions() *attr.Storage[linear.V3] { return attr.Get[linear.V3](c.Points, "P") }

// PointNormals returns the point "N" storage, or nil if absent.
func (c *Container) PointNormals() *attr.Storage[linear.V3] { return attr.Get[linear.V3](c.Points, "N") }

// VertexNormals returns the vertex "N" storage, or nil if absent.
func (c *Container) VertexNormals() *attr.Storage[linear.V3] { return attr.Get[linear.V3](c.Verts, "N") }

// UVs returns the vertex "uv" storage, or nil if absent.
func (c *Container) UVs() *attr.Storage[linear.V2] { return attr.Get[linear.V2](c.Verts, "uv") }

// Colors returns the point "Cd" storage, or nil if absent.
func (c *Container) Colors() *attr.Storage[linear.V3] { return attr.Get[linear.V3](c.Points, "Cd") }

// EnsurePositionAttribute adds the point "P" VEC3F attribute if
// missing and returns it.
func (c *Container) EnsurePositionAttribute() *attr.Storage[linear.V3] {
	if s := c.Positions(); s != nil {
		return s
	}
	c.Points.Add("P", attr.Vec3f, attr.Linear, c.Topo.PointCount())
	return c.Positions()
}

// EnsureNormalAttribute adds the point "N" VEC3F attribute if missing
// and returns it.
func (c *Container) EnsureNormalAttribute() *attr.Storage[linear.V3] {
	if s := c.PointNormals(); s != nil {
		return s
	}
	c.Points.Add("N", attr.Vec3f, attr.Linear, c.Topo.PointCount())
	return c.PointNormals()
}

// Clone returns a deep copy of the topology and all four attribute
// sets.
func (c *Container) Clone() *Container {
	return &Container{
		Topo:   c.Topo.Clone(),
		Points: c.Points.Clone(),
		Verts:  c.Verts.Clone(),
		Prims:  c.Prims.Clone(),
		Detail: c.Detail.Clone(),
	}
}

// Validate re-checks topology invariants and confirms every
// attribute set's storages match their class's element count.
func (c *Container) Validate() error {
	if !c.Topo.Validate() {
		return errors.New("geom: topology indices out of range")
	}
	if err := c.Points.Validate(c.Topo.PointCount()); err != nil {
		return errors.Wrap(err, "geom: point attributes")
	}
	if err := c.Verts.Validate(c.Topo.VertexCount()); err != nil {
		return errors.Wrap(err, "geom: vertex attributes")
	}
	if err := c.Prims.Validate(c.Topo.PrimitiveCount()); err != nil {
		return errors.Wrap(err, "geom: primitive attributes")
	}
	if err := c.Detail.Validate(1); err != nil {
		return errors.Wrap(err, "geom: detail attributes")
	}
	return nil
}

// Bounds computes the axis-aligned bounding box of the "P" attribute.
// ok is false when there are no points or no position attribute.
func (c *Container) Bounds() (min, max linear.V3, ok bool) {
	p := c.Positions()
	if p == nil || p.Size() == 0 {
		return
	}
	min, max = p.At(0), p.At(0)
	for i := 1; i < p.Size(); i++ {
		v := p.At(i)
		for k := 0; k < 3; k++ {
			if v[k] < min[k] {
				min[k] = v[k]
			}
			if v[k] > max[k] {
				max[k] = v[k]
			}
		}
	}
	ok = true
	return
}
