package sop_test

import (
	"testing"

	"nodeflux/graph"
	"nodeflux/linear"
	"nodeflux/param"
)

func TestGroupThenBlastDeletesSelectedPoints(t *testing.T) {
	g := graph.New()
	box, _ := g.AddNode("box", "box1", 0)
	group, _ := g.AddNode("group", "group1", 0)
	blast, _ := g.AddNode("blast", "blast1", 0)
	g.AddConnection(box.ID, group.ID, 0)
	g.AddConnection(group.ID, blast.ID, 0)

	group.Node.SetParam("name", param.String("front"))
	group.Node.SetParam("bound_min", param.Vec3f(linear.V3{-10, -10, -10}))
	group.Node.SetParam("bound_max", param.Vec3f(linear.V3{10, 10, 0}))
	blast.Node.SetParam("group", param.String("front"))

	boxR := g.CookNode(box.ID)
	if boxR.IsErr() {
		t.Fatalf("cook box: %v", boxR.Err)
	}
	blastR := g.CookNode(blast.ID)
	if blastR.IsErr() {
		t.Fatalf("cook blast: %v", blastR.Err)
	}
	if got, want := blastR.Value.Read().Topo.PointCount(), boxR.Value.Read().Topo.PointCount()-4; got != want {
		t.Errorf("point count after blast = %d, want %d (half the box's 8 points removed)", got, want)
	}
}
