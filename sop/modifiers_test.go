package sop_test

import (
	"testing"

	"nodeflux/graph"
	"nodeflux/linear"
	"nodeflux/param"
)

func TestTransformTranslatesPoints(t *testing.T) {
	g := graph.New()
	box, _ := g.AddNode("box", "box1", 0)
	xform, _ := g.AddNode("transform", "xform1", 0)
	if err := g.AddConnection(box.ID, xform.ID, 0); err != nil {
		t.Fatalf("AddConnection: %v", err)
	}
	xform.Node.SetParam("translate", param.Vec3f(linear.V3{1, 2, 3}))

	r := g.CookNode(xform.ID)
	if r.IsErr() {
		t.Fatalf("cook: %v", r.Err)
	}
	c := r.Value.Read()
	p := c.EnsurePositionAttribute()
	var minX float32 = 1e9
	for i := 0; i < p.Size(); i++ {
		if v := p.At(i)[0]; v < minX {
			minX = v
		}
	}
	if minX != 0.5 {
		t.Errorf("min x after translate = %v, want 0.5 (box half-extent -0.5 + translate 1)", minX)
	}
}

func TestTransformFailsWithoutInput(t *testing.T) {
	g := graph.New()
	xform, _ := g.AddNode("transform", "xform1", 0)
	r := g.CookNode(xform.ID)
	if !r.IsErr() {
		t.Fatal("expected transform to fail with no input connected")
	}
}

func TestMirrorDoublesPointCount(t *testing.T) {
	g := graph.New()
	box, _ := g.AddNode("box", "box1", 0)
	mirror, _ := g.AddNode("mirror", "mirror1", 0)
	g.AddConnection(box.ID, mirror.ID, 0)

	r := g.CookNode(mirror.ID)
	if r.IsErr() {
		t.Fatalf("cook: %v", r.Err)
	}
	if got, want := r.Value.Read().Topo.PointCount(), 16; got != want {
		t.Errorf("point count = %d, want %d (8 original + 8 mirrored)", got, want)
	}
}

func TestMirrorCustomPlaneReflectsAcrossOffsetPoint(t *testing.T) {
	g := graph.New()
	box, _ := g.AddNode("box", "box1", 0)
	mirror, _ := g.AddNode("mirror", "mirror1", 0)
	g.AddConnection(box.ID, mirror.ID, 0)
	mirror.Node.SetParam("plane", param.Int(3)) // custom
	mirror.Node.SetParam("point", param.Vec3f(linear.V3{10, 0, 0}))
	mirror.Node.SetParam("normal", param.Vec3f(linear.V3{1, 0, 0}))
	mirror.Node.SetParam("merge", param.Bool(false))

	boxR := g.CookNode(box.ID)
	if boxR.IsErr() {
		t.Fatalf("cook box: %v", boxR.Err)
	}
	r := g.CookNode(mirror.ID)
	if r.IsErr() {
		t.Fatalf("cook mirror: %v", r.Err)
	}

	bp := boxR.Value.Read().EnsurePositionAttribute()
	mp := r.Value.Read().EnsurePositionAttribute()
	if bp.Size() != mp.Size() {
		t.Fatalf("point count mismatch: box=%d mirrored=%d", bp.Size(), mp.Size())
	}
	for i := 0; i < bp.Size(); i++ {
		orig := bp.At(i)
		got := mp.At(i)
		want := [3]float32{20 - orig[0], orig[1], orig[2]}
		if got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
			t.Errorf("point %d reflected = %v, want %v (plane x=10)", i, got, want)
		}
	}
}

// TestMirrorAppliedTwiceIsIdentity checks spec.md §8's testable
// property #8: Mirror(keep_original=false, plane=XY) applied twice
// returns every point to its original position.
func TestMirrorAppliedTwiceIsIdentity(t *testing.T) {
	g := graph.New()
	box, _ := g.AddNode("box", "box1", 0)
	m1, _ := g.AddNode("mirror", "mirror1", 0)
	m2, _ := g.AddNode("mirror", "mirror2", 0)
	g.AddConnection(box.ID, m1.ID, 0)
	g.AddConnection(m1.ID, m2.ID, 0)
	m1.Node.SetParam("plane", param.Int(0)) // xy
	m1.Node.SetParam("merge", param.Bool(false))
	m2.Node.SetParam("plane", param.Int(0))
	m2.Node.SetParam("merge", param.Bool(false))

	boxR := g.CookNode(box.ID)
	if boxR.IsErr() {
		t.Fatalf("cook box: %v", boxR.Err)
	}
	r := g.CookNode(m2.ID)
	if r.IsErr() {
		t.Fatalf("cook mirror twice: %v", r.Err)
	}

	bp := boxR.Value.Read().EnsurePositionAttribute()
	mp := r.Value.Read().EnsurePositionAttribute()
	for i := 0; i < bp.Size(); i++ {
		if got, want := mp.At(i), bp.At(i); got != want {
			t.Errorf("point %d after double mirror = %v, want %v (identity)", i, got, want)
		}
	}
	if got, want := r.Value.Read().Topo.PrimitiveCount(), boxR.Value.Read().Topo.PrimitiveCount(); got != want {
		t.Errorf("primitive count after double mirror = %d, want %d", got, want)
	}
}

func TestUpstreamParamChangeCascadesPastOneHop(t *testing.T) {
	g := graph.New()
	box, _ := g.AddNode("box", "box1", 0)
	xform, _ := g.AddNode("transform", "xform1", 0)
	mirror, _ := g.AddNode("mirror", "mirror1", 0)
	g.AddConnection(box.ID, xform.ID, 0)
	g.AddConnection(xform.ID, mirror.ID, 0)

	first := g.CookNode(mirror.ID)
	if first.IsErr() {
		t.Fatalf("cook mirror: %v", first.Err)
	}
	firstPos := first.Value.Read().EnsurePositionAttribute().At(0)

	// Only box's own parameter changes; neither xform nor mirror is
	// touched directly, and neither is explicitly invalidated.
	box.Node.SetParam("size", param.Vec3f(linear.V3{5, 5, 5}))

	second := g.CookNode(mirror.ID)
	if second.IsErr() {
		t.Fatalf("cook mirror after upstream change: %v", second.Err)
	}
	secondPos := second.Value.Read().EnsurePositionAttribute().At(0)
	if firstPos == secondPos {
		t.Error("expected mirror's output to change after box's size changed two hops upstream")
	}
	if xform.Node.State().String() != "clean" {
		t.Errorf("xform state after recook = %v, want clean", xform.Node.State())
	}
}

func TestNoiseDisplacementMovesPoints(t *testing.T) {
	g := graph.New()
	box, _ := g.AddNode("box", "box1", 0)
	noise, _ := g.AddNode("noise_displacement", "noise1", 0)
	g.AddConnection(box.ID, noise.ID, 0)
	noise.Node.SetParam("amplitude", param.Float(1))

	before := g.CookNode(box.ID)
	if before.IsErr() {
		t.Fatalf("cook box: %v", before.Err)
	}
	beforePos := before.Value.Read().EnsurePositionAttribute().At(0)

	after := g.CookNode(noise.ID)
	if after.IsErr() {
		t.Fatalf("cook noise: %v", after.Err)
	}
	afterPos := after.Value.Read().EnsurePositionAttribute().At(0)
	if beforePos == afterPos {
		t.Error("expected noise displacement to move at least one point")
	}
}
