package exec

import (
	"testing"

	"nodeflux/graph"
)

type recordingHost struct {
	progress []string
	cancel   bool
}

func (h *recordingHost) ReportProgress(current, total int, msg string) bool {
	h.progress = append(h.progress, msg)
	return !h.cancel
}
func (h *recordingHost) IsCancelled() bool             { return false }
func (h *recordingHost) Log(level LogLevel, msg string) {}
func (h *recordingHost) ResolvePath(relative string) string { return relative }
func (h *recordingHost) GetHostInfo() string                { return "test host" }

func TestExecuteGraphCooksInOrder(t *testing.T) {
	g := graph.New()
	box, _ := g.AddNode("box", "box1", 0)
	xform, _ := g.AddNode("transform", "xform1", 0)
	g.AddConnection(box.ID, xform.ID, 0)
	g.SetDisplayNode(xform.ID)

	host := &recordingHost{}
	e := New(g, host)
	res := e.ExecuteGraph()
	if res.LastError != nil {
		t.Fatalf("ExecuteGraph: %v", res.LastError)
	}
	if res.RunID == "" {
		t.Error("expected a non-empty run id")
	}
	if len(host.progress) != 2 {
		t.Errorf("expected 2 progress reports, got %d: %v", len(host.progress), host.progress)
	}

	handle, ok := e.GetNodeGeometry(xform.ID)
	if !ok {
		t.Fatal("expected cached geometry for xform node after a successful run")
	}
	if handle.Read().Topo.PointCount() != 8 {
		t.Errorf("expected 8 points, got %d", handle.Read().Topo.PointCount())
	}
}

func TestExecuteGraphStopsOnHostCancel(t *testing.T) {
	g := graph.New()
	box, _ := g.AddNode("box", "box1", 0)
	xform, _ := g.AddNode("transform", "xform1", 0)
	g.AddConnection(box.ID, xform.ID, 0)

	host := &recordingHost{cancel: true}
	e := New(g, host)
	res := e.ExecuteGraph()
	if res.LastError == nil {
		t.Fatal("expected an error when the host aborts the run")
	}
}

func TestInvalidateNodeForcesRecook(t *testing.T) {
	g := graph.New()
	box, _ := g.AddNode("box", "box1", 0)
	e := New(g, nil)
	if res := e.ExecuteGraph(); res.LastError != nil {
		t.Fatalf("first run: %v", res.LastError)
	}
	cookedBefore, _ := g.Node(box.ID)
	n1 := cookedBefore.Node.CookCount()

	e.InvalidateNode(box.ID)
	if res := e.ExecuteGraph(); res.LastError != nil {
		t.Fatalf("second run: %v", res.LastError)
	}
	if cookedBefore.Node.CookCount() != n1+1 {
		t.Errorf("expected a re-cook after InvalidateNode, count stayed at %d", cookedBefore.Node.CookCount())
	}
}

func TestClearCacheForcesRecookOfEveryNode(t *testing.T) {
	g := graph.New()
	box, _ := g.AddNode("box", "box1", 0)
	e := New(g, nil)
	e.ExecuteGraph()
	n1, _ := g.Node(box.ID)
	before := n1.Node.CookCount()

	e.ClearCache()
	e.ExecuteGraph()
	if n1.Node.CookCount() != before+1 {
		t.Errorf("expected every node to re-cook after ClearCache, count stayed at %d", n1.Node.CookCount())
	}
}
