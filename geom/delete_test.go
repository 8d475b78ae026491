package geom

import (
	"testing"

	"nodeflux/attr"
)

// box8 builds an 8-point, 6-quad cube (a stand-in for the Box
// generator's output, used to exercise delete_elements).
func box8() *Container {
	c := New()
	c.Topo.SetPointCount(8)
	c.EnsurePositionAttribute()
	p := c.Positions()
	corners := [8][3]float32{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	}
	for i, v := range corners {
		p.Set(i, v)
	}
	faces := [6][4]int32{
		{0, 1, 2, 3}, {4, 5, 6, 7}, {0, 1, 5, 4},
		{2, 3, 7, 6}, {1, 2, 6, 5}, {3, 0, 4, 7},
	}
	nv := 0
	for _, f := range faces {
		verts := make([]int32, 4)
		for i, pt := range f {
			verts[i] = int32(nv)
			nv++
			_ = pt
		}
		c.Topo.AddPrimitive(verts)
	}
	c.Topo.SetVertexCount(nv)
	vi := 0
	for _, f := range faces {
		for _, pt := range f {
			c.Topo.SetVertexPoint(vi, pt)
			vi++
		}
	}
	c.SyncAttributeSizes()
	return c
}

func TestDeletePrimitivesOrphanedPoints(t *testing.T) {
	c := box8()
	CreateGroup(c, "top", attr.Point)
	for i := 0; i < 8; i++ {
		if c.Positions().At(i)[1] > 0 {
			AddToGroup(c, "top", attr.Point, i)
		}
	}
	// Delete the -Z and +Z faces (primitives 0 and 1) through a
	// primitive group. The four side faces still reference all eight
	// points, so the orphan pass keeps every point.
	CreateGroup(c, "capFaces", attr.Primitive)
	AddToGroup(c, "capFaces", attr.Primitive, 0)
	AddToGroup(c, "capFaces", attr.Primitive, 1)

	out, err := DeleteElements(c, "capFaces", attr.Primitive, true)
	if err != nil {
		t.Fatalf("DeleteElements: %v", err)
	}
	if out.Topo.PrimitiveCount() != 4 {
		t.Fatalf("PrimitiveCount: have %d, want 4", out.Topo.PrimitiveCount())
	}
	if err := out.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestDeletePointsDropsIncidentPrimitives(t *testing.T) {
	c := box8()
	CreateGroup(c, "one", attr.Point)
	AddToGroup(c, "one", attr.Point, 0)

	out, err := DeleteElements(c, "one", attr.Point, false)
	if err != nil {
		t.Fatalf("DeleteElements: %v", err)
	}
	if out.Topo.PointCount() != 7 {
		t.Fatalf("PointCount: have %d, want 7", out.Topo.PointCount())
	}
	// Point 0 is referenced by primitives 0, 2, 5 (three faces) in
	// box8's vertex layout, all of which must be dropped.
	if out.Topo.PrimitiveCount() != 3 {
		t.Fatalf("PrimitiveCount: have %d, want 3", out.Topo.PrimitiveCount())
	}
	if err := out.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestDeleteElementsMissingGroup(t *testing.T) {
	c := box8()
	if _, err := DeleteElements(c, "nope", attr.Primitive, false); err == nil {
		t.Fatal("DeleteElements with missing group should error")
	}
}

func TestDeleteElementsEmptyGroup(t *testing.T) {
	c := box8()
	CreateGroup(c, "empty", attr.Primitive)
	if _, err := DeleteElements(c, "empty", attr.Primitive, false); err == nil {
		t.Fatal("DeleteElements with empty group should error")
	}
}

func TestDeleteElementsRetainedValuesUnchanged(t *testing.T) {
	c := box8()
	CreateGroup(c, "one", attr.Primitive)
	AddToGroup(c, "one", attr.Primitive, 0)
	before := c.Positions().At(7)
	out, err := DeleteElements(c, "one", attr.Primitive, false)
	if err != nil {
		t.Fatalf("DeleteElements: %v", err)
	}
	if out.Positions().At(7) != before {
		t.Fatalf("retained point attribute changed: have %v, want %v", out.Positions().At(7), before)
	}
}
