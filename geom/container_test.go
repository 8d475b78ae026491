package geom

import (
	"testing"

	"nodeflux/attr"
	"nodeflux/linear"
)

// quad builds a single-quad container: 4 points, 4 vertices, 1
// primitive.
func quad() *Container {
	c := New()
	c.Topo.SetPointCount(4)
	c.EnsurePositionAttribute()
	p := c.Positions()
	p.Set(0, linear.V3{0, 0, 0})
	p.Set(1, linear.V3{1, 0, 0})
	p.Set(2, linear.V3{1, 1, 0})
	p.Set(3, linear.V3{0, 1, 0})
	c.Topo.SetVertexCount(4)
	for i := 0; i < 4; i++ {
		c.Topo.SetVertexPoint(i, int32(i))
	}
	c.Topo.AddPrimitive([]int32{0, 1, 2, 3})
	c.SyncAttributeSizes()
	return c
}

func TestValidate(t *testing.T) {
	c := quad()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateOutOfRange(t *testing.T) {
	c := quad()
	c.Topo.SetVertexPoint(0, 99)
	if err := c.Validate(); err == nil {
		t.Fatal("Validate should fail with an out-of-range point index")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	c := quad()
	cp := c.Clone()
	cp.Positions().Set(0, linear.V3{9, 9, 9})
	if got := c.Positions().At(0); got != (linear.V3{0, 0, 0}) {
		t.Fatalf("mutating clone affected source: %v", got)
	}
}

func TestBounds(t *testing.T) {
	c := quad()
	min, max, ok := c.Bounds()
	if !ok {
		t.Fatal("Bounds: want ok")
	}
	if min != (linear.V3{0, 0, 0}) || max != (linear.V3{1, 1, 0}) {
		t.Fatalf("Bounds: have (%v, %v)", min, max)
	}
}

func TestGroupMembership(t *testing.T) {
	c := quad()
	CreateGroup(c, "top", attr.Point)
	AddToGroup(c, "top", attr.Point, 2)
	AddToGroup(c, "top", attr.Point, 3)
	got := GetGroupElements(c, "top", attr.Point)
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("GetGroupElements: have %v", got)
	}
	if !IsInGroup(c, "top", attr.Point, 2) {
		t.Fatal("IsInGroup(2): want true")
	}
	if IsInGroup(c, "top", attr.Point, 0) {
		t.Fatal("IsInGroup(0): want false")
	}
	RemoveFromGroup(c, "top", attr.Point, 2)
	if IsInGroup(c, "top", attr.Point, 2) {
		t.Fatal("IsInGroup(2) after remove: want false")
	}
}

func TestGroupCombineLaws(t *testing.T) {
	c := quad()
	CreateGroup(c, "a", attr.Point)
	CreateGroup(c, "b", attr.Point)
	AddToGroup(c, "a", attr.Point, 0)
	AddToGroup(c, "a", attr.Point, 1)
	AddToGroup(c, "b", attr.Point, 1)

	// Idempotent union: a union a == a.
	CombineGroups(c, "a", "a", "uu", attr.Point, Union)
	for _, i := range []int{0, 1, 2, 3} {
		if IsInGroup(c, "uu", attr.Point, i) != IsInGroup(c, "a", attr.Point, i) {
			t.Fatalf("union idempotence failed at %d", i)
		}
	}

	// Absorbing intersect with empty.
	CreateGroup(c, "empty", attr.Point)
	CombineGroups(c, "a", "empty", "ie", attr.Point, Intersect)
	for i := 0; i < 4; i++ {
		if IsInGroup(c, "ie", attr.Point, i) {
			t.Fatalf("intersect-with-empty should be empty at %d", i)
		}
	}

	// DeMorgan: !(a union b) == !a intersect !b.
	CombineGroups(c, "a", "b", "u", attr.Point, Union)
	InvertGroup(c, "u", "notU", attr.Point)
	InvertGroup(c, "a", "notA", attr.Point)
	InvertGroup(c, "b", "notB", attr.Point)
	CombineGroups(c, "notA", "notB", "notAnotB", attr.Point, Intersect)
	for i := 0; i < 4; i++ {
		if IsInGroup(c, "notU", attr.Point, i) != IsInGroup(c, "notAnotB", attr.Point, i) {
			t.Fatalf("DeMorgan failed at %d", i)
		}
	}
}
