package sop_test

import (
	"testing"

	"nodeflux/graph"
	"nodeflux/linear"
	"nodeflux/param"
)

func TestNullPassesGeometryThrough(t *testing.T) {
	g := graph.New()
	box, _ := g.AddNode("box", "box1", 0)
	null, _ := g.AddNode("null", "null1", 0)
	g.AddConnection(box.ID, null.ID, 0)

	boxR := g.CookNode(box.ID)
	nullR := g.CookNode(null.ID)
	if nullR.IsErr() {
		t.Fatalf("cook null: %v", nullR.Err)
	}
	if got, want := nullR.Value.Read().Topo.PointCount(), boxR.Value.Read().Topo.PointCount(); got != want {
		t.Errorf("null point count = %d, want %d", got, want)
	}
}

func TestCacheLockFreezesOutputUntilCleared(t *testing.T) {
	g := graph.New()
	box, _ := g.AddNode("box", "box1", 0)
	cache, _ := g.AddNode("cache", "cache1", 0)
	g.AddConnection(box.ID, cache.ID, 0)
	cache.Node.SetParam("lock_cache", param.Bool(true))

	first := g.CookNode(cache.ID)
	if first.IsErr() {
		t.Fatalf("cook cache: %v", first.Err)
	}
	lockedPos := first.Value.Read().EnsurePositionAttribute().At(0)
	cooksAfterFirst := cache.Node.CookCount()

	box.Node.SetParam("size", param.Vec3f(linear.V3{9, 9, 9}))
	second := g.CookNode(cache.ID)
	if second.IsErr() {
		t.Fatalf("cook cache (locked): %v", second.Err)
	}
	if got := second.Value.Read().EnsurePositionAttribute().At(0); got != lockedPos {
		t.Errorf("locked cache output changed: got %v, want %v (frozen)", got, lockedPos)
	}
	if cache.Node.CookCount() != cooksAfterFirst {
		t.Errorf("locked cache cooked again: CookCount = %d, want %d", cache.Node.CookCount(), cooksAfterFirst)
	}

	cache.Node.SetParam("clear_cache", param.Bool(true))
	third := g.CookNode(cache.ID)
	if third.IsErr() {
		t.Fatalf("cook cache (cleared): %v", third.Err)
	}
	if got := third.Value.Read().EnsurePositionAttribute().At(0); got == lockedPos {
		t.Error("expected clear_cache to force a fresh cook reflecting the new box size")
	}
	if cache.Node.GetBool("clear_cache", false) {
		t.Error("expected clear_cache to reset itself to false after forcing a cook")
	}

	// The lock should hold again for subsequent changes.
	cooksAfterClear := cache.Node.CookCount()
	box.Node.SetParam("size", param.Vec3f(linear.V3{20, 20, 20}))
	fourth := g.CookNode(cache.ID)
	if fourth.IsErr() {
		t.Fatalf("cook cache (re-locked): %v", fourth.Err)
	}
	if cache.Node.CookCount() != cooksAfterClear {
		t.Error("expected lock_cache to hold again after the one-shot clear")
	}
}

func TestScatterProducesRequestedPointCount(t *testing.T) {
	g := graph.New()
	box, _ := g.AddNode("box", "box1", 0)
	scatter, _ := g.AddNode("scatter", "scatter1", 0)
	g.AddConnection(box.ID, scatter.ID, 0)

	r := g.CookNode(scatter.ID)
	if r.IsErr() {
		t.Fatalf("cook scatter: %v", r.Err)
	}
	if r.Value.Read().Topo.PointCount() == 0 {
		t.Error("expected scatter to produce at least one point")
	}
}
