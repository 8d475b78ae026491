package graph

import "testing"

func TestAddNodeAndConnect(t *testing.T) {
	g := New()
	box, err := g.AddNode("box", "box1", 0)
	if err != nil {
		t.Fatalf("AddNode(box): %v", err)
	}
	xform, err := g.AddNode("transform", "xform1", 0)
	if err != nil {
		t.Fatalf("AddNode(transform): %v", err)
	}
	if err := g.AddConnection(box.ID, xform.ID, 0); err != nil {
		t.Fatalf("AddConnection: %v", err)
	}
	if err := g.SetDisplayNode(xform.ID); err != nil {
		t.Fatalf("SetDisplayNode: %v", err)
	}
	r := g.CookDisplay()
	if r.IsErr() {
		t.Fatalf("CookDisplay: %v", r.Err)
	}
	if r.Value.Read().Topo.PointCount() != 8 {
		t.Errorf("expected box's 8 points to flow through transform, got %d", r.Value.Read().Topo.PointCount())
	}
}

func TestAddConnectionRejectsCycle(t *testing.T) {
	g := New()
	a, _ := g.AddNode("transform", "a", 0)
	b, _ := g.AddNode("transform", "b", 0)
	if err := g.AddConnection(a.ID, b.ID, 0); err != nil {
		t.Fatalf("AddConnection a->b: %v", err)
	}
	if err := g.AddConnection(b.ID, a.ID, 0); err == nil {
		t.Fatal("expected cycle rejection for b->a, got nil error")
	}
}

func TestExecutionOrder(t *testing.T) {
	g := New()
	box, _ := g.AddNode("box", "box1", 0)
	xform, _ := g.AddNode("transform", "xform1", 0)
	merge, _ := g.AddNode("merge", "merge1", 2)
	g.AddConnection(box.ID, xform.ID, 0)
	g.AddConnection(box.ID, merge.ID, 0)
	g.AddConnection(xform.ID, merge.ID, 1)

	order, err := g.ExecutionOrder()
	if err != nil {
		t.Fatalf("ExecutionOrder: %v", err)
	}
	pos := make(map[int]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	if pos[box.ID] > pos[xform.ID] || pos[xform.ID] > pos[merge.ID] {
		t.Errorf("execution order violates dependency edges: %v", order)
	}
}

func TestRemoveNodeDropsConnections(t *testing.T) {
	g := New()
	box, _ := g.AddNode("box", "box1", 0)
	xform, _ := g.AddNode("transform", "xform1", 0)
	g.AddConnection(box.ID, xform.ID, 0)
	g.RemoveNode(box.ID)
	if len(g.Connections()) != 0 {
		t.Errorf("expected connections to be dropped when an endpoint is removed, got %v", g.Connections())
	}
	r := g.CookNode(xform.ID)
	if !r.IsErr() {
		t.Error("expected transform to fail cooking with its input removed")
	}
}
