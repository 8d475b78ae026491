package sop

import (
	"testing"

	"nodeflux/linear"
	"nodeflux/param"
)

func TestBoxDefaultGeometry(t *testing.T) {
	n := NewBox(1)
	r := n.Cook(nil)
	if r.IsErr() {
		t.Fatalf("cook: %v", r.Err)
	}
	c := r.Value.Read()
	if c.Topo.PointCount() != 8 {
		t.Errorf("point count = %d, want 8", c.Topo.PointCount())
	}
	if c.Topo.PrimitiveCount() != 6 {
		t.Errorf("primitive count = %d, want 6", c.Topo.PrimitiveCount())
	}
}

func TestBoxHonorsSizeParam(t *testing.T) {
	n := NewBox(1)
	n.SetParam("size", param.Vec3f(linear.V3{2, 4, 6}))
	r := n.Cook(nil)
	if r.IsErr() {
		t.Fatalf("cook: %v", r.Err)
	}
	p := r.Value.Read().EnsurePositionAttribute()
	var maxX float32
	for i := 0; i < p.Size(); i++ {
		v := p.At(i)
		if v[0] > maxX {
			maxX = v[0]
		}
	}
	if maxX != 1 {
		t.Errorf("max x = %v, want 1 (half of size_x=2)", maxX)
	}
}

func TestSphereHasNonZeroPoints(t *testing.T) {
	n := NewSphere(2)
	r := n.Cook(nil)
	if r.IsErr() {
		t.Fatalf("cook: %v", r.Err)
	}
	if r.Value.Read().Topo.PointCount() == 0 {
		t.Error("expected sphere to produce points")
	}
}

func TestGridRowsColsControlPointCount(t *testing.T) {
	n := NewGrid(3)
	n.SetParam("rows", param.Int(3))
	n.SetParam("cols", param.Int(4))
	r := n.Cook(nil)
	if r.IsErr() {
		t.Fatalf("cook: %v", r.Err)
	}
	if got, want := r.Value.Read().Topo.PointCount(), 3*4; got != want {
		t.Errorf("point count = %d, want %d", got, want)
	}
}

func TestCookIsCachedUntilMarkedDirty(t *testing.T) {
	n := NewBox(1)
	n.Cook(nil)
	before := n.CookCount()
	n.Cook(nil)
	if n.CookCount() != before {
		t.Errorf("expected cached cook to not increment counter, got %d -> %d", before, n.CookCount())
	}
	n.MarkDirty()
	n.Cook(nil)
	if n.CookCount() != before+1 {
		t.Errorf("expected a re-cook after MarkDirty, counter stayed at %d", n.CookCount())
	}
}
